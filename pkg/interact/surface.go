package interact

import (
	apperrors "github.com/matzehuels/algoflow/pkg/errors"
	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/physics"
)

// Surface is the node set a controller acts on.
type Surface interface {
	// Targets lists hit-testable nodes in draw order.
	Targets() []Target
	// Grab starts user control of id.
	Grab(id string) error
	// Move drags the grabbed node. to is the controlling point and delta
	// its movement since the previous frame. It returns the identifier of
	// a node swapped with, or "".
	Move(id string, to, delta geom.Vec) string
	// Release ends user control of id.
	Release(id string)
}

// PhysicsSurface drives a physics engine: the grabbed node is pinned to
// the controlling point, clamped to the viewport.
type PhysicsSurface struct {
	Engine   *physics.Engine
	Viewport layout.Viewport
	Block    float64
}

// Targets implements Surface.
func (s PhysicsSurface) Targets() []Target {
	block := s.Block
	if block <= 0 {
		block = DefaultBlockSize
	}
	nodes := s.Engine.Snapshot()
	out := make([]Target, len(nodes))
	for i, n := range nodes {
		out[i] = CenteredTarget(n.ID, n.Pos, block)
	}
	return out
}

// Grab implements Surface.
func (s PhysicsSurface) Grab(id string) error { return s.Engine.Grab(id) }

// Move implements Surface.
func (s PhysicsSurface) Move(_ string, to, _ geom.Vec) string {
	to.X = geom.Clamp(to.X, 0, s.Viewport.Width)
	to.Y = geom.Clamp(to.Y, 0, s.Viewport.Height)
	s.Engine.Drag(to)
	return ""
}

// Release implements Surface.
func (s PhysicsSurface) Release(string) { s.Engine.Release() }

// SlotSurface drives a slot board: drags accumulate offsets.
type SlotSurface struct {
	Board *SlotBoard
}

// Targets implements Surface.
func (s SlotSurface) Targets() []Target { return s.Board.Targets() }

// Grab implements Surface.
func (s SlotSurface) Grab(id string) error {
	if !s.Board.Has(id) {
		return apperrors.New(apperrors.ErrCodeUnknownNode, "grab %q: no such slot", id)
	}
	return nil
}

// Move implements Surface.
func (s SlotSurface) Move(id string, _, delta geom.Vec) string {
	return s.Board.Drag(id, delta)
}

// Release implements Surface.
func (s SlotSurface) Release(string) {}
