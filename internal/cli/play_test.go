package cli

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/scene"
	"github.com/matzehuels/algoflow/pkg/visual"
)

func ptr(v float64) *float64 { return &v }

// newPlayground loads a single graph node at the viewport center on a
// 100x60 canvas, so each cell spans 10x10 viewport units.
func newPlayground(t *testing.T) playModel {
	t.Helper()
	opts := scene.DefaultOptions()
	opts.Viewport = layout.Viewport{Width: 1000, Height: 600}
	sc := scene.New(context.Background(), opts)
	s := &visual.State{Type: visual.Graph, Elements: []visual.Element{{ID: "a", Value: "A", X: ptr(500), Y: ptr(300)}}}
	if err := sc.Load(s); err != nil {
		t.Fatal(err)
	}
	m := newPlayModel(sc, 30)
	return send(m, tea.WindowSizeMsg{Width: 100, Height: 60 + playHeaderRows + playFooterRows})
}

func send(m playModel, msg tea.Msg) playModel {
	next, _ := m.Update(msg)
	return next.(playModel)
}

func frame(m playModel) playModel { return send(m, frameMsg(time.Now())) }

func key(m playModel, k string) playModel {
	next, _ := m.key(k)
	return next.(playModel)
}

func near(a, b geom.Vec) bool { return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6 }

func TestPlayMouseDrag(t *testing.T) {
	m := newPlayground(t)

	m = send(m, tea.MouseMsg{X: 50, Y: 30 + playHeaderRows, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if got := m.sc.Status().Grabbed; got != "a" {
		t.Fatalf("grabbed = %q, want a", got)
	}
	m = send(m, tea.MouseMsg{X: 60, Y: 30 + playHeaderRows, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = frame(m)

	n, _ := m.sc.Engine().Node("a")
	if want := geom.V(605, 305); !near(n.Pos, want) {
		t.Errorf("node at %v, want %v", n.Pos, want)
	}
	if !strings.Contains(m.View(), "{A}") {
		t.Error("held node should render as {A}")
	}

	m = send(m, tea.MouseMsg{X: 60, Y: 30 + playHeaderRows, Action: tea.MouseActionRelease})
	if got := m.sc.Status().Grabbed; got != "" {
		t.Errorf("grabbed after release = %q", got)
	}
}

func TestPlayHandPinch(t *testing.T) {
	m := newPlayground(t)

	m = key(m, "tab")
	if m.mode != modeHand {
		t.Fatalf("mode = %s, want hand", m.mode)
	}
	if m.sc.Camera() != scene.CameraActive {
		t.Errorf("camera = %s, want active", m.sc.Camera())
	}

	m = frame(m)
	if got := m.sc.Status().Hovered; got != "a" {
		t.Errorf("hovered = %q, want a", got)
	}

	m = key(m, " ")
	m = frame(m)
	if got := m.sc.Status().Grabbed; got != "a" {
		t.Fatalf("grabbed = %q, want a", got)
	}

	m = key(m, "right")
	m = frame(m)
	n, _ := m.sc.Engine().Node("a")
	if want := geom.V(520, 300); !near(n.Pos, want) {
		t.Errorf("node at %v, want %v", n.Pos, want)
	}

	m = key(m, " ")
	m = frame(m)
	if got := m.sc.Status().Grabbed; got != "" {
		t.Errorf("grabbed after open hand = %q", got)
	}

	m = key(m, "tab")
	if m.mode != modePointer {
		t.Errorf("mode = %s, want pointer", m.mode)
	}
}

func TestPlayHandRefusedWhenCameraDenied(t *testing.T) {
	m := newPlayground(t)
	if err := m.sc.SetCamera(scene.CameraDenied); err != nil {
		t.Fatal(err)
	}

	m = key(m, "tab")
	if m.mode != modePointer {
		t.Errorf("mode = %s, want pointer", m.mode)
	}
	if m.err == "" {
		t.Error("expected an error message")
	}
}

func TestPlayTimelineKeys(t *testing.T) {
	sc := scene.New(context.Background(), scene.DefaultOptions())
	steps := []visual.Step{
		{State: &visual.State{Type: visual.Array, Elements: []visual.Element{{ID: "a", Value: 1}}}},
		{State: &visual.State{Type: visual.Array, Elements: []visual.Element{{ID: "a", Value: 1}, {ID: "b", Value: 2}}}, Message: "push"},
	}
	if err := sc.LoadTimeline(steps, time.Second); err != nil {
		t.Fatal(err)
	}
	m := newPlayModel(sc, 30)

	m = frame(key(m, "n"))
	if got := len(m.sc.State().Elements); got != 2 {
		t.Errorf("elements after next = %d, want 2", got)
	}
	if !strings.Contains(m.View(), "step 2/2") {
		t.Error("status line should show step 2/2")
	}

	m = frame(key(m, "b"))
	if got := len(m.sc.State().Elements); got != 1 {
		t.Errorf("elements after prev = %d, want 1", got)
	}

	m = key(m, "p")
	if !m.sc.Timeline().Playing() {
		t.Error("p should start playback")
	}
}

func TestSyntheticHand(t *testing.T) {
	vp := layout.Viewport{Width: 1000, Height: 600}
	p := geom.V(250, 150)

	open := syntheticHand(p, vp, false)
	c, ok := open.Control(vp)
	if !ok || !near(c, p) {
		t.Errorf("control = %v, want %v", c, p)
	}
	if d, _ := open.PinchDistance(); math.Abs(d-handOpen) > 1e-9 {
		t.Errorf("open distance = %v", d)
	}
	if d, _ := syntheticHand(p, vp, true).PinchDistance(); math.Abs(d-handPinched) > 1e-9 {
		t.Errorf("pinched distance = %v", d)
	}
}
