package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/visual"
)

func state(t visual.StructureType, ids []string, conns ...visual.Connection) *visual.State {
	s := &visual.State{Type: t, Connections: conns}
	for _, id := range ids {
		s.Elements = append(s.Elements, visual.Element{ID: id})
	}
	return s
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestStepRepulsion(t *testing.T) {
	e := New(state(visual.Array, []string{"a", "b"}), []geom.Vec{geom.V(0, 0), geom.V(100, 0)})
	e.Step()

	a, _ := e.Node("a")
	b, _ := e.Node("b")
	if !approx(a.Pos.X, -2.2499662502531237) {
		t.Errorf("a.x = %v, want -2.24996625...", a.Pos.X)
	}
	if !approx(b.Pos.X, 100+2.2499662502531237) {
		t.Errorf("b.x = %v, want 102.24996625...", b.Pos.X)
	}
	if a.Pos.Y != 0 || b.Pos.Y != 0 {
		t.Errorf("y moved: a=%v b=%v", a.Pos.Y, b.Pos.Y)
	}
	if !approx(a.Vel.X, a.Pos.X) {
		t.Errorf("a.vx = %v, want %v", a.Vel.X, a.Pos.X)
	}
}

func TestStepAttractionTargetByType(t *testing.T) {
	tests := []struct {
		kind visual.StructureType
		want float64
	}{
		{visual.Graph, (300 - 150) * 0.02 * 0.9},
		{visual.Tree, (300 - 100) * 0.02 * 0.9},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			s := state(tt.kind, []string{"a", "b"}, visual.Connection{From: "a", To: "b"})
			e := New(s, []geom.Vec{geom.V(0, 0), geom.V(300, 0)})
			e.Step()
			a, _ := e.Node("a")
			if !approx(a.Pos.X, tt.want) {
				t.Errorf("a.x = %v, want %v", a.Pos.X, tt.want)
			}
		})
	}
}

func TestNoCompressionWithinTarget(t *testing.T) {
	s := state(visual.Graph, []string{"a", "b"}, visual.Connection{From: "a", To: "b"})
	e := New(s, []geom.Vec{geom.V(0, 0), geom.V(150, 0)})
	e.Step()
	a, _ := e.Node("a")
	if a.Pos != geom.V(0, 0) {
		t.Errorf("a moved to %v, want no force at the rest length", a.Pos)
	}
}

func TestDanglingConnectionIgnored(t *testing.T) {
	s := state(visual.Graph, []string{"a"}, visual.Connection{From: "a", To: "ghost"})
	e := New(s, []geom.Vec{geom.V(10, 10)})
	e.Step()
	a, _ := e.Node("a")
	if a.Pos != geom.V(10, 10) {
		t.Errorf("a = %v, want unchanged", a.Pos)
	}
	if len(e.Edges()) != 0 {
		t.Errorf("Edges() = %v, want none", e.Edges())
	}
}

func TestCoincidentNodesDoNotProduceNaN(t *testing.T) {
	e := New(state(visual.Graph, []string{"a", "b"}), []geom.Vec{geom.V(5, 5), geom.V(5, 5)})
	e.Step()
	for _, n := range e.Snapshot() {
		if math.IsNaN(n.Pos.X) || math.IsNaN(n.Pos.Y) {
			t.Fatalf("node %s has NaN position %v", n.ID, n.Pos)
		}
	}
}

func TestGrabDragRelease(t *testing.T) {
	s := state(visual.Graph, []string{"a", "b"}, visual.Connection{From: "a", To: "b"})
	e := New(s, []geom.Vec{geom.V(0, 0), geom.V(50, 0)})
	e.Step()

	if err := e.Grab("a"); err != nil {
		t.Fatalf("Grab() error = %v", err)
	}
	a, _ := e.Node("a")
	if !a.IsHeld() || a.Vel != (geom.Vec{}) {
		t.Errorf("after grab: held=%v vel=%v, want held with zero velocity", a.IsHeld(), a.Vel)
	}

	target := geom.V(400, 250)
	e.Drag(target)
	for range 5 {
		e.Step()
		a, _ = e.Node("a")
		if a.Pos != target {
			t.Fatalf("held node at %v, want pinned to %v", a.Pos, target)
		}
	}

	if got := e.Release(); got != "a" {
		t.Errorf("Release() = %q, want a", got)
	}
	if e.HeldID() != "" {
		t.Errorf("HeldID() = %q after release", e.HeldID())
	}
	e.Step()
	a, _ = e.Node("a")
	if a.Pos == target {
		t.Error("released node should resume physics")
	}
}

func TestGrabErrors(t *testing.T) {
	e := New(state(visual.Array, []string{"a", "b"}), []geom.Vec{geom.V(0, 0), geom.V(90, 0)})

	if err := e.Grab("zzz"); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("Grab(unknown) = %v, want ErrUnknownNode", err)
	}
	if err := e.Grab("a"); err != nil {
		t.Fatalf("Grab(a) error = %v", err)
	}
	if err := e.Grab("a"); err != nil {
		t.Errorf("re-grabbing the held node should be a no-op, got %v", err)
	}
	if err := e.Grab("b"); !errors.Is(err, ErrAlreadyHeld) {
		t.Errorf("Grab(b) = %v, want ErrAlreadyHeld", err)
	}
	if e.Release() != "a" || e.Release() != "" {
		t.Error("second Release() should report nothing held")
	}
}

func TestReplaceCarriesStableIDs(t *testing.T) {
	e := New(state(visual.Graph, []string{"a", "b"}), []geom.Vec{geom.V(0, 0), geom.V(100, 0)})
	e.Step()
	before, _ := e.Node("a")
	if err := e.Grab("b"); err != nil {
		t.Fatal(err)
	}

	e.Replace(state(visual.Graph, []string{"a", "c"}), []geom.Vec{geom.V(1, 1), geom.V(7, 7)})

	a, _ := e.Node("a")
	if a.Pos != before.Pos || a.Vel != before.Vel {
		t.Errorf("a = %+v, want carried %+v", a, before)
	}
	c, _ := e.Node("c")
	if c.Pos != geom.V(7, 7) {
		t.Errorf("c.Pos = %v, want layout position (7, 7)", c.Pos)
	}
	if e.HeldID() != "" {
		t.Errorf("HeldID() = %q, want cleared when held node disappears", e.HeldID())
	}
	if _, ok := e.Node("b"); ok {
		t.Error("b should be gone")
	}
}

func TestDefaultColorsAlternate(t *testing.T) {
	s := state(visual.Array, []string{"a", "b", "c"})
	s.Elements[2].Color = "red"
	nodes := New(s, nil).Snapshot()
	want := []string{ColorEven, ColorOdd, "red"}
	for i, n := range nodes {
		if n.Color != want[i] {
			t.Errorf("node %d color = %q, want %q", i, n.Color, want[i])
		}
	}
}

func TestDefaultColorsAlternateAfterDuplicate(t *testing.T) {
	s := state(visual.Array, []string{"a", "a", "b", "c"})
	nodes := New(s, nil).Snapshot()
	want := []string{ColorEven, ColorOdd, ColorEven}
	if len(nodes) != len(want) {
		t.Fatalf("len(nodes) = %d, want %d", len(nodes), len(want))
	}
	for i, n := range nodes {
		if n.Color != want[i] {
			t.Errorf("node %s color = %q, want %q", n.ID, n.Color, want[i])
		}
	}
}

func TestSettle(t *testing.T) {
	s := state(visual.Tree, []string{"r", "l", "x"},
		visual.Connection{From: "r", To: "l"},
		visual.Connection{From: "r", To: "x"},
	)
	e := New(s, []geom.Vec{geom.V(0, 0), geom.V(-300, 200), geom.V(300, 200)})
	frames := e.Settle(5000, 1e-8)
	if frames >= 5000 {
		t.Fatalf("did not settle, energy %v", e.Energy())
	}
	if e.Frames() != uint64(frames) {
		t.Errorf("Frames() = %d, want %d", e.Frames(), frames)
	}
}
