package interact

import "github.com/matzehuels/algoflow/pkg/geom"

// Default hit-test geometry.
const (
	DefaultBlockSize  = 60.0
	DefaultHitPadding = 20.0
)

// Target is a hit-testable node, identified by the translate of its local
// coordinate space. The node box spans [Origin, Origin+Size].
type Target struct {
	ID     string
	Origin geom.Vec
}

// CenteredTarget builds a target whose box is centered on c.
func CenteredTarget(id string, c geom.Vec, block float64) Target {
	return Target{ID: id, Origin: c.Sub(geom.V(block/2, block/2))}
}

// HitTester finds the node under a point using padded boxes that are
// larger than the drawn node.
type HitTester struct {
	BlockSize float64
	Padding   float64
}

// DefaultHitTester returns the standard 60 unit block with 20 units of
// padding on each side.
func DefaultHitTester() HitTester {
	return HitTester{BlockSize: DefaultBlockSize, Padding: DefaultHitPadding}
}

// Box returns the padded hit box of a target in its local space.
func (h HitTester) Box() geom.Rect {
	return geom.Rect{W: h.BlockSize, H: h.BlockSize}.Pad(h.Padding)
}

// Test returns the identifier of the node under p, or "" if none. When
// boxes overlap the last target in draw order wins, since it is painted
// on top.
func (h HitTester) Test(p geom.Vec, targets []Target) string {
	box := h.Box()
	found := ""
	for _, t := range targets {
		if box.Contains(p.Sub(t.Origin)) {
			found = t.ID
		}
	}
	return found
}
