package interact

// Default pinch thresholds in normalized landmark units.
const (
	DefaultPinchOn  = 0.055
	DefaultPinchOff = 0.075
)

// Pinch is a two-threshold pinch detector. It engages below On and stays
// engaged until the distance reaches Off, so a distance oscillating
// between the two thresholds does not chatter.
type Pinch struct {
	On  float64
	Off float64

	engaged bool
}

// NewPinch returns a detector with the given thresholds.
func NewPinch(on, off float64) *Pinch {
	return &Pinch{On: on, Off: off}
}

// Update feeds one distance sample and returns the new engaged state.
func (p *Pinch) Update(d float64) bool {
	if p.engaged {
		p.engaged = d < p.Off
	} else {
		p.engaged = d < p.On
	}
	return p.engaged
}

// Engaged reports the current state.
func (p *Pinch) Engaged() bool { return p.engaged }

// Reset disengages the detector.
func (p *Pinch) Reset() { p.engaged = false }
