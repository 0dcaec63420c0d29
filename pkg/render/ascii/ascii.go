// Package ascii rasterizes scene frames onto a character grid for terminal
// display. Colors are carried per cell so callers can style the output.
package ascii

import (
	"math"
	"strings"

	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/scene"
)

// Cell runes.
const (
	Blank   = ' '
	Edge    = '·'
	Arrow   = '>'
	Cursor  = '+'
	Pointer = '↓'
)

// Grid maps viewport coordinates to character cells.
type Grid struct {
	Cols, Rows int
	Viewport   layout.Viewport
}

// Cell returns the column and row containing p.
func (g Grid) Cell(p geom.Vec) (int, int) {
	c := int(math.Floor(p.X / g.Viewport.Width * float64(g.Cols)))
	r := int(math.Floor(p.Y / g.Viewport.Height * float64(g.Rows)))
	return c, r
}

// Point returns the viewport position at the center of a cell.
func (g Grid) Point(col, row int) geom.Vec {
	return geom.V(
		(float64(col)+0.5)*g.Viewport.Width/float64(g.Cols),
		(float64(row)+0.5)*g.Viewport.Height/float64(g.Rows),
	)
}

// Cell is one character with its display attributes.
type Cell struct {
	Ch    rune
	Color string
	Bold  bool
}

// Canvas is a rasterized frame.
type Canvas struct {
	Cols, Rows int
	cells      []Cell
}

func newCanvas(cols, rows int) *Canvas {
	c := &Canvas{Cols: cols, Rows: rows, cells: make([]Cell, cols*rows)}
	for i := range c.cells {
		c.cells[i].Ch = Blank
	}
	return c
}

// At returns the cell at col, row. Out-of-range cells are blank.
func (c *Canvas) At(col, row int) Cell {
	if col < 0 || row < 0 || col >= c.Cols || row >= c.Rows {
		return Cell{Ch: Blank}
	}
	return c.cells[row*c.Cols+col]
}

func (c *Canvas) set(col, row int, cell Cell) {
	if col < 0 || row < 0 || col >= c.Cols || row >= c.Rows {
		return
	}
	c.cells[row*c.Cols+col] = cell
}

func (c *Canvas) text(col, row int, s string, color string, bold bool) {
	for i, r := range []rune(s) {
		c.set(col+i, row, Cell{Ch: r, Color: color, Bold: bold})
	}
}

// Lines returns the canvas as plain text rows with trailing blanks trimmed.
func (c *Canvas) Lines() []string {
	out := make([]string, c.Rows)
	var b strings.Builder
	for r := range c.Rows {
		b.Reset()
		for col := range c.Cols {
			b.WriteRune(c.cells[r*c.Cols+col].Ch)
		}
		out[r] = strings.TrimRight(b.String(), " ")
	}
	return out
}

func (c *Canvas) String() string { return strings.Join(c.Lines(), "\n") }

// Render draws f onto a canvas: edges, then blocks, then pointer labels
// and the gesture cursor.
//
// Blocks are drawn as [v], hovered blocks as (v) and held blocks as {v}.
func Render(f *scene.Frame, g Grid) *Canvas {
	c := newCanvas(g.Cols, g.Rows)
	if g.Cols <= 0 || g.Rows <= 0 {
		return c
	}

	for _, e := range f.Edges {
		from, ok1 := f.Node(e.From)
		to, ok2 := f.Node(e.To)
		if !ok1 || !ok2 {
			continue
		}
		c0, r0 := g.Cell(from.Pos())
		c1, r1 := g.Cell(to.Pos())
		line(c, c0, r0, c1, r1)
		if e.Directed {
			drawArrow(c, c0, r0, c1, r1, len([]rune(block(to))))
		}
	}

	for _, n := range f.Nodes {
		col, row := g.Cell(n.Pos())
		label := block(n)
		c.text(col-len([]rune(label))/2, row, label, n.Color, n.Held || n.Hovered)
	}

	for _, n := range f.Nodes {
		col, row := g.Cell(n.Pos())
		for k, p := range n.Pointers {
			s := strings.ToUpper(p.Name) + string(Pointer)
			c.text(col-len([]rune(s))/2, row-1-k, s, p.Color, true)
		}
	}

	if f.Status.Cursor != nil {
		col, row := g.Cell(*f.Status.Cursor)
		color := ""
		if f.Status.Pinching {
			color = "#fbbf24"
		}
		c.set(col, row, Cell{Ch: Cursor, Color: color, Bold: true})
	}
	return c
}

func block(n scene.Node) string {
	v := n.Display
	if v == "" {
		v = n.ID
	}
	switch {
	case n.Held:
		return "{" + v + "}"
	case n.Hovered:
		return "(" + v + ")"
	}
	return "[" + v + "]"
}

// line draws a Bresenham line between two cells, skipping the endpoints.
func line(c *Canvas, c0, r0, c1, r1 int) {
	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	err := dc + dr
	col, row := c0, r0
	for col != c1 || row != r1 {
		e2 := 2 * err
		if e2 >= dr {
			err += dr
			col += sc
		}
		if e2 <= dc {
			err += dc
			row += sr
		}
		if col == c1 && row == r1 {
			break
		}
		c.set(col, row, Cell{Ch: Edge})
	}
}

// drawArrow marks the cell just outside the target block, which is w
// cells wide, with a direction glyph.
func drawArrow(c *Canvas, c0, r0, c1, r1, w int) {
	dc, dr := c1-c0, r1-r0
	col, row := c1, r1
	switch {
	case dc == 0 && dr == 0:
		return
	case abs(dr) > abs(dc) && dr > 0:
		c.set(col, row-1, Cell{Ch: 'v'})
	case abs(dr) > abs(dc):
		c.set(col, row+1, Cell{Ch: '^'})
	case dc < 0:
		c.set(c1-w/2+w, row, Cell{Ch: '<'})
	default:
		c.set(c1-w/2-1, row, Cell{Ch: Arrow})
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
