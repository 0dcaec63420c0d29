package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/scene"
	"github.com/matzehuels/algoflow/pkg/visual"
)

func weight(w float64) *float64 { return &w }

func testFrame() *scene.Frame {
	return &scene.Frame{
		Type:     visual.Graph,
		Viewport: layout.Viewport{Width: 1000, Height: 600},
		Nodes: []scene.Node{
			{ID: "a", Display: "1", Color: "#3b82f6", X: 100, Y: 100, Held: true,
				Pointers: []visual.Pointer{{Name: "cur", ElementID: "a"}}},
			{ID: "b", Display: "2", Color: "#ec4899", X: 300, Y: 500, Label: "leaf"},
		},
		Edges: []scene.Edge{{From: "a", To: "b", Weight: weight(2.5)}},
	}
}

func TestToDOTUndirected(t *testing.T) {
	dot := ToDOT(testFrame(), Options{})
	tests := []string{
		"graph G {",
		`"a" -- "b" [label="2.5", fontcolor=white];`,
		`pos="100.0,500.0!"`,
		`pos="300.0,100.0!"`,
		`color="#fbbf24", penwidth=4`,
		`label="1"`,
	}
	for _, want := range tests {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "digraph") {
		t.Error("frame without directed edges should produce an undirected graph")
	}
}

func TestToDOTDirected(t *testing.T) {
	f := testFrame()
	f.Edges = append(f.Edges, scene.Edge{From: "b", To: "a", Directed: true})
	dot := ToDOT(f, Options{})
	if !strings.HasPrefix(dot, "digraph G {") {
		t.Fatalf("ToDOT() = %q, want digraph", dot)
	}
	if !strings.Contains(dot, `"a" -> "b" [dir=none, label="2.5", fontcolor=white];`) {
		t.Errorf("undirected edge in a digraph should carry dir=none\n%s", dot)
	}
	if !strings.Contains(dot, `"b" -> "a";`) {
		t.Errorf("directed edge missing\n%s", dot)
	}
}

func TestFmtLabelDetailed(t *testing.T) {
	f := testFrame()
	if got := fmtLabel(f.Nodes[0], true); got != "1\n^cur" {
		t.Errorf("fmtLabel(a) = %q", got)
	}
	if got := fmtLabel(f.Nodes[1], true); got != "2\nleaf" {
		t.Errorf("fmtLabel(b) = %q", got)
	}
	if got := fmtLabel(scene.Node{ID: "x"}, false); got != "x" {
		t.Errorf("fmtLabel(empty display) = %q, want id", got)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.40 200.25" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.40 200.25" width="100" height="200"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}
	if out := normalizeViewBox([]byte("<svg/>")); string(out) != "<svg/>" {
		t.Errorf("normalizeViewBox() without viewBox = %s", out)
	}
}

func TestRenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz rendering is slow")
	}
	svg, err := RenderSVG(context.Background(), ToDOT(testFrame(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Errorf("RenderSVG() output is not SVG: %.100s", svg)
	}
}
