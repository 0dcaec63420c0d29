package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/interact"
	"github.com/matzehuels/algoflow/pkg/scene"
)

// Stroke and scale values for interaction highlights.
const (
	StrokeIdle    = "rgba(255,255,255,0.4)"
	StrokeHovered = "rgba(255,255,255,0.9)"
	StrokeHeld    = "#fbbf24"

	ScaleHovered = 1.15
	ScaleHeld    = 1.25

	// PointerSpacing is the vertical distance between stacked pointer
	// labels above one element.
	PointerSpacing = 25.0
)

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	block       float64
	radius      float64
	background  string
	cursor      bool
	explanation bool
}

// WithBlockSize sets the block edge length in pixels.
func WithBlockSize(px float64) SVGOption { return func(r *svgRenderer) { r.block = px } }

// WithBackground fills the canvas with color. The default is transparent.
func WithBackground(color string) SVGOption { return func(r *svgRenderer) { r.background = color } }

// WithCursor draws the gesture cursor ring when the frame carries one.
func WithCursor() SVGOption { return func(r *svgRenderer) { r.cursor = true } }

// WithExplanation draws the state explanation along the bottom edge.
func WithExplanation() SVGOption { return func(r *svgRenderer) { r.explanation = true } }

// RenderSVG draws a frame: connections first, then blocks, then pointer
// labels, so labels are never covered.
func RenderSVG(f *scene.Frame, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	w, h := f.Viewport.Width, f.Viewport.Height

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	renderDefs(&buf)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", escape(r.background))
	}

	buf.WriteString(`  <g class="edges">` + "\n")
	for _, e := range f.Edges {
		r.renderEdge(&buf, f, e)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="blocks">` + "\n")
	for _, n := range f.Nodes {
		r.renderBlock(&buf, n)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="pointers">` + "\n")
	for _, n := range f.Nodes {
		r.renderPointers(&buf, n)
	}
	buf.WriteString("  </g>\n")

	if r.explanation && f.Explanation != "" {
		fmt.Fprintf(&buf, `  <text class="explanation" x="%.1f" y="%.1f" text-anchor="middle" fill="white" font-size="18">%s</text>`+"\n",
			w/2, h-24, escape(f.Explanation))
	}
	if r.cursor && f.Status.Cursor != nil {
		renderCursor(&buf, f.Status)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{block: interact.DefaultBlockSize}
	for _, opt := range opts {
		opt(&r)
	}
	if r.block <= 0 {
		r.block = interact.DefaultBlockSize
	}
	r.radius = r.block / 3
	return r
}

func renderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <marker id="arrow" viewBox="0 0 10 10" refX="10" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse">
      <path d="M 0 0 L 10 5 L 0 10 z" fill="rgba(255,255,255,0.7)"/>
    </marker>
  </defs>
`)
}

func (r *svgRenderer) renderEdge(buf *bytes.Buffer, f *scene.Frame, e scene.Edge) {
	from, ok1 := f.Node(e.From)
	to, ok2 := f.Node(e.To)
	if !ok1 || !ok2 {
		return
	}
	a, b := from.Pos(), to.Pos()
	if e.Directed {
		b = shorten(a, b, r.block/2+4)
	}
	fmt.Fprintf(buf, `    <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="rgba(255,255,255,0.5)" stroke-width="3"`,
		a.X, a.Y, b.X, b.Y)
	if e.Directed {
		buf.WriteString(` marker-end="url(#arrow)"`)
	}
	buf.WriteString("/>\n")

	if e.Weight != nil {
		m := from.Pos().Mid(to.Pos())
		fmt.Fprintf(buf, `    <text x="%.1f" y="%.1f" text-anchor="middle" fill="white" font-size="14">%s</text>`+"\n",
			m.X, m.Y-6, formatWeight(*e.Weight))
	}
}

// shorten pulls b towards a by d so arrowheads stop at the block edge.
func shorten(a, b geom.Vec, d float64) geom.Vec {
	v := b.Sub(a)
	l := v.Len()
	if l <= d {
		return b
	}
	return a.Add(v.Scale((l - d) / l))
}

func (r *svgRenderer) renderBlock(buf *bytes.Buffer, n scene.Node) {
	stroke, width, scale := StrokeIdle, 2, 1.0
	class := "block"
	switch {
	case n.Held:
		stroke, width, scale = StrokeHeld, 4, ScaleHeld
		class += " held"
	case n.Hovered:
		stroke, width, scale = StrokeHovered, 4, ScaleHovered
		class += " hovered"
	}

	id := n.ID
	if n.Slot != "" {
		id = n.Slot
	}
	fmt.Fprintf(buf, `    <g class="%s" data-id="%s" transform="translate(%.1f %.1f) scale(%.2f)">`+"\n",
		class, escape(id), n.X, n.Y, scale)
	half := r.block / 2
	fmt.Fprintf(buf, `      <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s" stroke-width="%d"/>`+"\n",
		-half, -half, r.block, r.block, r.radius, escape(n.Color), stroke, width)
	fmt.Fprintf(buf, `      <text y="%.1f" text-anchor="middle" fill="white" font-size="%.0f" font-weight="900">%s</text>`+"\n",
		r.block*0.15, r.block*0.43, escape(n.Display))
	if n.Label != "" {
		fmt.Fprintf(buf, `      <text y="%.1f" text-anchor="middle" fill="rgba(255,255,255,0.7)" font-size="12">%s</text>`+"\n",
			half+16, escape(n.Label))
	}
	buf.WriteString("    </g>\n")
}

func (r *svgRenderer) renderPointers(buf *bytes.Buffer, n scene.Node) {
	top := n.Y - r.block/2
	for k, p := range n.Pointers {
		color := p.Color
		if color == "" {
			color = StrokeHeld
		}
		fmt.Fprintf(buf, `    <text class="ptr" x="%.1f" y="%.1f" text-anchor="middle" fill="%s" font-size="14" font-weight="900">%s &#8595;</text>`+"\n",
			n.X, top-PointerSpacing-float64(k)*PointerSpacing, escape(color), escape(strings.ToUpper(p.Name)))
	}
}

func renderCursor(buf *bytes.Buffer, st scene.Status) {
	c := *st.Cursor
	radius, stroke := 30.0, "rgba(255,255,255,0.15)"
	switch {
	case st.Pinching:
		radius, stroke = 12, StrokeHeld
	case st.Hovered != "":
		radius, stroke = 25, "#fff"
	}
	fmt.Fprintf(buf, `  <circle class="cursor" cx="%.1f" cy="%.1f" r="%.0f" fill="none" stroke="%s" stroke-width="3"/>`+"\n",
		c.X, c.Y, radius, stroke)
}

func formatWeight(w float64) string {
	if w == float64(int64(w)) {
		return fmt.Sprintf("%d", int64(w))
	}
	return fmt.Sprintf("%.2f", w)
}

func escape(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
