package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/algoflow/pkg/render"
	"github.com/matzehuels/algoflow/pkg/scene"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes the node label and pointer names in node labels.
	// When false, only the display value is shown.
	Detailed bool
}

// ToDOT converts a frame to Graphviz DOT source. Every node carries a pinned
// pos attribute in points, with the y axis flipped to Graphviz orientation,
// so neato reproduces the frame layout instead of computing its own.
//
// Held nodes are drawn with a thick amber outline and hovered nodes with a
// white one.
func ToDOT(f *scene.Frame, opts Options) string {
	var buf bytes.Buffer
	kind := "graph"
	if anyDirected(f) {
		kind = "digraph"
	}
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=20, width=0.83, height=0.83, fixedsize=true];\n")
	buf.WriteString("  edge [color=\"#94a3b8\", penwidth=2];\n")
	buf.WriteString("\n")

	h := f.Viewport.Height
	for _, n := range f.Nodes {
		label := fmtLabel(n, opts.Detailed)
		attrs := fmtAttrs(n, label, h)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	op := "--"
	if kind == "digraph" {
		op = "->"
	}
	for _, e := range f.Edges {
		var attrs []string
		if kind == "digraph" && !e.Directed {
			attrs = append(attrs, "dir=none")
		}
		if e.Weight != nil {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(*e.Weight, 'g', -1, 64)), "fontcolor=white")
		}
		if len(attrs) > 0 {
			fmt.Fprintf(&buf, "  %q %s %q [%s];\n", e.From, op, e.To, strings.Join(attrs, ", "))
		} else {
			fmt.Fprintf(&buf, "  %q %s %q;\n", e.From, op, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func anyDirected(f *scene.Frame) bool {
	for _, e := range f.Edges {
		if e.Directed {
			return true
		}
	}
	return false
}

func fmtLabel(n scene.Node, detailed bool) string {
	label := n.Display
	if label == "" {
		label = n.ID
	}
	if !detailed {
		return label
	}
	var parts []string
	if n.Label != "" {
		parts = append(parts, n.Label)
	}
	for _, p := range n.Pointers {
		parts = append(parts, "^"+p.Name)
	}
	if len(parts) == 0 {
		return label
	}
	return label + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n scene.Node, label string, height float64) []string {
	attrs := []string{
		fmt.Sprintf("label=%q", label),
		fmt.Sprintf("pos=\"%.1f,%.1f!\"", n.X, height-n.Y),
		fmt.Sprintf("fillcolor=%q", n.Color),
	}
	switch {
	case n.Held:
		attrs = append(attrs, "color=\"#fbbf24\"", "penwidth=4")
	case n.Hovered:
		attrs = append(attrs, "color=white", "penwidth=3")
	default:
		attrs = append(attrs, "color=\"#ffffff66\"")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG with the neato engine, honouring the
// pinned positions written by [ToDOT].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
