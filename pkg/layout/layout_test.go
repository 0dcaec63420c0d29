package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/visual"
)

func elems(n int) []visual.Element {
	out := make([]visual.Element, n)
	for i := range out {
		out[i] = visual.Element{ID: visual.SlotID(i)}
	}
	return out
}

func TestArrayFourElementsCentered(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 600}
	got := Initialize(visual.Array, elems(4), vp, DefaultConfig())

	want := []float64{365, 455, 545, 635}
	for i, p := range got {
		if p.X != want[i] {
			t.Errorf("x[%d] = %v, want %v", i, p.X, want[i])
		}
		if p.Y != 300 {
			t.Errorf("y[%d] = %v, want 300", i, p.Y)
		}
	}
	mid := (got[0].X + got[3].X) / 2
	if mid != vp.Width/2 {
		t.Errorf("row midpoint = %v, want %v", mid, vp.Width/2)
	}
}

func TestLinkedListUsesWiderSpacing(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 600}
	got := Initialize(visual.LinkedList, elems(3), vp, DefaultConfig())
	if d := got[1].X - got[0].X; d != DefaultListSpacing {
		t.Errorf("spacing = %v, want %v", d, DefaultListSpacing)
	}
	if got[1].X != 500 {
		t.Errorf("middle node x = %v, want 500", got[1].X)
	}
}

func TestTreeLevels(t *testing.T) {
	vp := Viewport{Width: 1000, Height: 600}
	got := Initialize(visual.Tree, elems(7), vp, DefaultConfig())

	tests := []struct {
		i    int
		want geom.Vec
	}{
		{0, geom.V(450, 150)},
		{1, geom.V(400, 250)},
		{2, geom.V(500, 250)},
		{3, geom.V(300, 350)},
		{6, geom.V(600, 350)},
	}
	for _, tt := range tests {
		if got[tt.i] != tt.want {
			t.Errorf("node %d = %v, want %v", tt.i, got[tt.i], tt.want)
		}
	}
}

func TestTreeLevel(t *testing.T) {
	tests := []struct{ i, want int }{
		{0, 0}, {1, 1}, {2, 1}, {3, 2}, {6, 2}, {7, 3}, {14, 3}, {15, 4},
	}
	for _, tt := range tests {
		if got := TreeLevel(tt.i); got != tt.want {
			t.Errorf("TreeLevel(%d) = %d, want %d", tt.i, got, tt.want)
		}
	}
}

func TestGraphRing(t *testing.T) {
	vp := Viewport{Width: 800, Height: 800}
	got := Initialize(visual.Graph, elems(4), vp, DefaultConfig())
	want := []geom.Vec{geom.V(600, 400), geom.V(400, 600), geom.V(200, 400), geom.V(400, 200)}
	for i := range want {
		if !got[i].Near(want[i], 1e-9) {
			t.Errorf("node %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExplicitCoordinatesAreVerbatim(t *testing.T) {
	x, y := 12.5, -3.0
	onlyX := 99.0
	es := []visual.Element{
		{ID: "a", X: &x, Y: &y},
		{ID: "b", X: &onlyX},
	}
	got := Initialize(visual.Graph, es, DefaultViewport, DefaultConfig())
	if got[0] != geom.V(12.5, -3) {
		t.Errorf("explicit = %v, want (12.5, -3)", got[0])
	}
	if got[1].X == onlyX {
		t.Errorf("element with a single coordinate should be laid out, got %v", got[1])
	}
}

func TestMatrixCellsUseRowAndColumn(t *testing.T) {
	es := []visual.Element{
		{ID: visual.CellID(0, 0)}, {ID: visual.CellID(0, 1)}, {ID: visual.CellID(0, 2)},
		{ID: visual.CellID(1, 0)}, {ID: visual.CellID(1, 1)}, {ID: visual.CellID(1, 2)},
	}
	vp := Viewport{Width: 1000, Height: 600}
	got := Initialize(visual.Matrix, es, vp, DefaultConfig())
	if got[0] != geom.V(410, 255) {
		t.Errorf("cell 0,0 = %v, want (410, 255)", got[0])
	}
	if got[5] != geom.V(590, 345) {
		t.Errorf("cell 1,2 = %v, want (590, 345)", got[5])
	}
}

func TestMatrixFallsBackToSquareGrid(t *testing.T) {
	got := Initialize(visual.Matrix, elems(5), Viewport{Width: 1000, Height: 600}, DefaultConfig())
	if GridColumns(5) != 3 {
		t.Fatalf("GridColumns(5) = %d, want 3", GridColumns(5))
	}
	if got[3].Y <= got[0].Y {
		t.Errorf("fourth cell should start the second row: %v vs %v", got[3], got[0])
	}
}

func TestEmptyAndZeroConfig(t *testing.T) {
	if got := Initialize(visual.Array, nil, DefaultViewport, Config{}); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
	got := Initialize(visual.Array, elems(2), DefaultViewport, Config{})
	if d := got[1].X - got[0].X; d != DefaultArraySpacing {
		t.Errorf("zero config spacing = %v, want default %v", d, DefaultArraySpacing)
	}
}

func TestUnknownTypeFallsBackToLine(t *testing.T) {
	got := Initialize(visual.StructureType("HEAP"), elems(3), DefaultViewport, DefaultConfig())
	if got[0].Y != got[2].Y || math.Abs(got[1].X-DefaultViewport.Width/2) > 1e-9 {
		t.Errorf("fallback layout = %v", got)
	}
}
