package interact

import (
	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/layout"
)

// Interaction is the per-frame interaction record. Hovered and Grabbed
// hold node identifiers or "".
type Interaction struct {
	Hovered   string
	Grabbed   string
	Pinching  bool
	LastPinch *geom.Vec
	Control   *geom.Vec
}

// Status is the observable part of an Interaction.
type Status struct {
	Hovered  string `json:"hovered,omitempty"`
	Grabbed  string `json:"grabbed,omitempty"`
	Pinching bool   `json:"pinching"`
}

// Event describes what changed during one Update.
type Event struct {
	Grabbed      string
	Released     string
	Swapped      [2]string
	PinchChanged bool
}

// GestureController turns a stream of hand frames into grab, drag and
// release calls on a Surface.
type GestureController struct {
	pinch    *Pinch
	hit      HitTester
	viewport layout.Viewport
	state    Interaction
}

// NewGestureController creates a controller with the given pinch detector
// and hit tester.
func NewGestureController(pinch *Pinch, hit HitTester, vp layout.Viewport) *GestureController {
	return &GestureController{pinch: pinch, hit: hit, viewport: vp}
}

// SetViewport changes the viewport used to project landmarks.
func (g *GestureController) SetViewport(vp layout.Viewport) { g.viewport = vp }

// Update processes one hand frame. A nil hand (tracking lost) releases any
// grabbed node and clears the record.
func (g *GestureController) Update(hand *Hand, s Surface) Event {
	var ev Event
	d, ok := hand.PinchDistance()
	control, okControl := hand.Control(g.viewport)
	if !ok || !okControl {
		if g.state.Grabbed != "" {
			s.Release(g.state.Grabbed)
			ev.Released = g.state.Grabbed
		}
		ev.PinchChanged = g.state.Pinching
		g.Reset()
		return ev
	}

	wasPinching := g.state.Pinching
	pinching := g.pinch.Update(d)
	ev.PinchChanged = pinching != wasPinching
	g.state.Pinching = pinching
	g.state.Hovered = g.hit.Test(control, s.Targets())

	if pinching {
		if g.state.Grabbed == "" && g.state.Hovered != "" {
			if err := s.Grab(g.state.Hovered); err == nil {
				g.state.Grabbed = g.state.Hovered
				ev.Grabbed = g.state.Grabbed
			}
		}
		if g.state.Grabbed != "" && g.state.LastPinch != nil {
			delta := control.Sub(*g.state.LastPinch)
			if other := s.Move(g.state.Grabbed, control, delta); other != "" {
				ev.Swapped = [2]string{g.state.Grabbed, other}
			}
		}
	} else if g.state.Grabbed != "" {
		s.Release(g.state.Grabbed)
		ev.Released = g.state.Grabbed
		g.state.Grabbed = ""
	}

	last := control
	g.state.LastPinch = &last
	g.state.Control = &last
	return ev
}

// Reset clears the interaction record and the pinch detector.
func (g *GestureController) Reset() {
	g.state = Interaction{}
	g.pinch.Reset()
}

// State returns a copy of the interaction record.
func (g *GestureController) State() Interaction { return g.state }

// Status returns the observable interaction state.
func (g *GestureController) Status() Status {
	return Status{Hovered: g.state.Hovered, Grabbed: g.state.Grabbed, Pinching: g.state.Pinching}
}
