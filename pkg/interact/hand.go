package interact

import (
	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/layout"
)

// Landmark indices used for pinch detection.
const (
	ThumbTip  = 4
	IndexTip  = 8
	Landmarks = 21
)

// Landmark is one tracked hand point in normalized [0,1] camera space.
type Landmark struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// Hand is the landmark set of one tracked hand for one frame.
type Hand struct {
	Landmarks []Landmark `json:"landmarks"`
}

func (h *Hand) tips() (thumb, index Landmark, ok bool) {
	if h == nil || len(h.Landmarks) <= IndexTip {
		return Landmark{}, Landmark{}, false
	}
	return h.Landmarks[ThumbTip], h.Landmarks[IndexTip], true
}

// PinchDistance returns the normalized distance between thumb tip and
// index tip. ok is false when the hand lacks those landmarks.
func (h *Hand) PinchDistance() (d float64, ok bool) {
	thumb, index, ok := h.tips()
	if !ok {
		return 0, false
	}
	return geom.V(thumb.X, thumb.Y).Dist(geom.V(index.X, index.Y)), true
}

// Control returns the pinch midpoint in viewport coordinates. The camera
// image is mirrored, so x is flipped.
func (h *Hand) Control(vp layout.Viewport) (geom.Vec, bool) {
	thumb, index, ok := h.tips()
	if !ok {
		return geom.Vec{}, false
	}
	mx := (thumb.X + index.X) / 2
	my := (thumb.Y + index.Y) / 2
	return geom.V((1-mx)*vp.Width, my*vp.Height), true
}

// Project maps every landmark into viewport coordinates, mirrored like
// Control. Renderers use it to draw the hand skeleton.
func (h *Hand) Project(vp layout.Viewport) []geom.Vec {
	if h == nil {
		return nil
	}
	out := make([]geom.Vec, len(h.Landmarks))
	for i, lm := range h.Landmarks {
		out[i] = geom.V((1-lm.X)*vp.Width, lm.Y*vp.Height)
	}
	return out
}
