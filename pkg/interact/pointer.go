package interact

import (
	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/layout"
)

// PointerController handles mouse-style input. Only one node is grabbed
// at a time; leaving the viewport acts as a release.
type PointerController struct {
	hit      HitTester
	viewport layout.Viewport

	down    bool
	grabbed string
	hovered string
	last    geom.Vec
}

// NewPointerController creates a controller using hit for node lookup.
func NewPointerController(hit HitTester, vp layout.Viewport) *PointerController {
	return &PointerController{hit: hit, viewport: vp}
}

// SetViewport changes the region outside of which the pointer releases.
func (p *PointerController) SetViewport(vp layout.Viewport) { p.viewport = vp }

// Down presses at pt and grabs the topmost node under it. It returns the
// grabbed identifier, or "" when the press hit empty space.
func (p *PointerController) Down(pt geom.Vec, s Surface) (string, error) {
	p.down = true
	p.last = pt
	id := p.hit.Test(pt, s.Targets())
	p.hovered = id
	if id == "" || p.grabbed != "" {
		return "", nil
	}
	if err := s.Grab(id); err != nil {
		return "", err
	}
	p.grabbed = id
	s.Move(id, pt, geom.Vec{})
	return id, nil
}

// Move moves the pointer to pt. While a node is grabbed it follows. A
// pointer outside the viewport releases the grabbed node. The returned
// event carries any swap or release that happened.
func (p *PointerController) Move(pt geom.Vec, s Surface) Event {
	var ev Event
	if !p.inside(pt) {
		ev.Released = p.Up(s)
		p.hovered = ""
		return ev
	}
	delta := pt.Sub(p.last)
	p.last = pt
	if p.grabbed != "" {
		if other := s.Move(p.grabbed, pt, delta); other != "" {
			ev.Swapped = [2]string{p.grabbed, other}
		}
		p.hovered = p.grabbed
		return ev
	}
	p.hovered = p.hit.Test(pt, s.Targets())
	return ev
}

// Up releases the grabbed node and returns its identifier.
func (p *PointerController) Up(s Surface) string {
	p.down = false
	id := p.grabbed
	if id != "" {
		s.Release(id)
	}
	p.grabbed = ""
	return id
}

// Reset drops all pointer state without calling the surface.
func (p *PointerController) Reset() {
	*p = PointerController{hit: p.hit, viewport: p.viewport}
}

// Pressed reports whether the pointer is down.
func (p *PointerController) Pressed() bool { return p.down }

// Status returns the observable pointer state.
func (p *PointerController) Status() Status {
	return Status{Hovered: p.hovered, Grabbed: p.grabbed}
}

func (p *PointerController) inside(pt geom.Vec) bool {
	return geom.Rect{W: p.viewport.Width, H: p.viewport.Height}.Contains(pt)
}
