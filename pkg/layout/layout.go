// Package layout computes deterministic initial positions for the elements
// of a structure description.
//
// Each [visual.StructureType] maps to one placement rule:
//
//   - ARRAY, STRING, POINTERS: a horizontal line centered on the viewport
//   - LINKED_LIST: the same line with wider spacing to leave room for arrows
//   - TREE: complete-binary-tree level placement by level-order index
//   - GRAPH: a ring of fixed radius around the viewport center
//   - MATRIX: a near-square grid centered on the viewport
//
// Elements that carry both explicit coordinates keep them verbatim.
//
// The tree rule places index i at level floor(log2(i+1)) and spreads each
// level over a width that grows with depth, so it is exact only for
// complete trees. Sparse or unbalanced trees described through explicit
// connections may overlap; callers needing a balanced layout should send
// explicit coordinates.
package layout

import (
	"math"

	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/visual"
)

// Viewport is the drawing area in screen units.
type Viewport struct {
	Width  float64 `json:"width" toml:"width" validate:"gt=0"`
	Height float64 `json:"height" toml:"height" validate:"gt=0"`
}

// DefaultViewport matches a typical stage size.
var DefaultViewport = Viewport{Width: 1000, Height: 600}

// Center returns the midpoint of the viewport.
func (v Viewport) Center() geom.Vec { return geom.V(v.Width/2, v.Height/2) }

// Config holds the placement constants.
type Config struct {
	ArraySpacing  float64 `toml:"array_spacing" validate:"gt=0"`
	ListSpacing   float64 `toml:"list_spacing" validate:"gt=0"`
	TreeBaseWidth float64 `toml:"tree_base_width" validate:"gt=0"`
	TreeLevelStep float64 `toml:"tree_level_step" validate:"gt=0"`
	TreeTopOffset float64 `toml:"tree_top_offset" validate:"gte=0"`
	GraphRadius   float64 `toml:"graph_radius" validate:"gt=0"`
	MatrixSpacing float64 `toml:"matrix_spacing" validate:"gt=0"`
}

// Default placement constants.
const (
	DefaultArraySpacing  = 90.0
	DefaultListSpacing   = 150.0
	DefaultTreeBaseWidth = 100.0
	DefaultTreeLevelStep = 100.0
	DefaultTreeTopOffset = 150.0
	DefaultGraphRadius   = 200.0
	DefaultMatrixSpacing = 90.0
)

// DefaultConfig returns the standard placement constants.
func DefaultConfig() Config {
	return Config{
		ArraySpacing:  DefaultArraySpacing,
		ListSpacing:   DefaultListSpacing,
		TreeBaseWidth: DefaultTreeBaseWidth,
		TreeLevelStep: DefaultTreeLevelStep,
		TreeTopOffset: DefaultTreeTopOffset,
		GraphRadius:   DefaultGraphRadius,
		MatrixSpacing: DefaultMatrixSpacing,
	}
}

// withDefaults fills zero fields so a partially populated Config still
// produces a usable layout.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ArraySpacing <= 0 {
		c.ArraySpacing = d.ArraySpacing
	}
	if c.ListSpacing <= 0 {
		c.ListSpacing = d.ListSpacing
	}
	if c.TreeBaseWidth <= 0 {
		c.TreeBaseWidth = d.TreeBaseWidth
	}
	if c.TreeLevelStep <= 0 {
		c.TreeLevelStep = d.TreeLevelStep
	}
	if c.TreeTopOffset < 0 {
		c.TreeTopOffset = d.TreeTopOffset
	}
	if c.GraphRadius <= 0 {
		c.GraphRadius = d.GraphRadius
	}
	if c.MatrixSpacing <= 0 {
		c.MatrixSpacing = d.MatrixSpacing
	}
	return c
}

// placeFunc computes the position of element i out of n.
type placeFunc func(i, n int, center geom.Vec, cfg Config) geom.Vec

var placements = map[visual.StructureType]placeFunc{
	visual.Array:      func(i, n int, c geom.Vec, cfg Config) geom.Vec { return line(i, n, c, cfg.ArraySpacing) },
	visual.String:     func(i, n int, c geom.Vec, cfg Config) geom.Vec { return line(i, n, c, cfg.ArraySpacing) },
	visual.Pointers:   func(i, n int, c geom.Vec, cfg Config) geom.Vec { return line(i, n, c, cfg.ArraySpacing) },
	visual.LinkedList: func(i, n int, c geom.Vec, cfg Config) geom.Vec { return line(i, n, c, cfg.ListSpacing) },
	visual.Tree:       tree,
	visual.Graph:      ring,
	visual.Matrix:     grid,
}

// Initialize returns one position per element, in element order. Unknown
// structure types fall back to the array rule. It never fails.
func Initialize(t visual.StructureType, elements []visual.Element, vp Viewport, cfg Config) []geom.Vec {
	cfg = cfg.withDefaults()
	place, ok := placements[t]
	if !ok {
		place = placements[visual.Array]
	}

	center := vp.Center()
	n := len(elements)
	if t == visual.Matrix {
		if cells, ok := cellGrid(elements); ok {
			place = cells
		}
	}

	out := make([]geom.Vec, n)
	for i, e := range elements {
		if e.HasPosition() {
			out[i] = geom.V(*e.X, *e.Y)
			continue
		}
		out[i] = place(i, n, center, cfg)
	}
	return out
}

// Place is Initialize for a full state.
func Place(s *visual.State, vp Viewport, cfg Config) []geom.Vec {
	return Initialize(s.Type, s.Elements, vp, cfg)
}

func line(i, n int, c geom.Vec, spacing float64) geom.Vec {
	return geom.V(c.X-float64(n-1)*spacing/2+float64(i)*spacing, c.Y)
}

// TreeLevel returns the depth of level-order index i.
func TreeLevel(i int) int {
	return int(math.Floor(math.Log2(float64(i + 1))))
}

func tree(i, _ int, c geom.Vec, cfg Config) geom.Vec {
	level := TreeLevel(i)
	slots := math.Exp2(float64(level))
	levelWidth := slots * cfg.TreeBaseWidth
	pos := float64(i) - (slots - 1)
	return geom.V(
		c.X-levelWidth/2+pos*(levelWidth/slots),
		c.Y-cfg.TreeTopOffset+float64(level)*cfg.TreeLevelStep,
	)
}

func ring(i, n int, c geom.Vec, cfg Config) geom.Vec {
	angle := float64(i) / float64(n) * 2 * math.Pi
	return geom.V(c.X+cfg.GraphRadius*math.Cos(angle), c.Y+cfg.GraphRadius*math.Sin(angle))
}

// GridColumns returns the column count of the matrix grid for n cells.
func GridColumns(n int) int {
	if n <= 0 {
		return 1
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

func grid(i, n int, c geom.Vec, cfg Config) geom.Vec {
	cols := GridColumns(n)
	rows := (n + cols - 1) / cols
	row, col := i/cols, i%cols
	s := cfg.MatrixSpacing
	return geom.V(
		c.X-float64(cols-1)*s/2+float64(col)*s,
		c.Y-float64(rows-1)*s/2+float64(row)*s,
	)
}

// cellGrid places elements named cell-<row>-<col> at their own row and
// column. It applies only when every element carries such an identifier.
func cellGrid(elements []visual.Element) (placeFunc, bool) {
	type rc struct{ row, col int }
	cells := make([]rc, len(elements))
	rows, cols := 0, 0
	for i, e := range elements {
		r, c, ok := visual.ParseCellID(e.ID)
		if !ok {
			return nil, false
		}
		cells[i] = rc{r, c}
		rows = max(rows, r+1)
		cols = max(cols, c+1)
	}
	return func(i, _ int, center geom.Vec, cfg Config) geom.Vec {
		s := cfg.MatrixSpacing
		return geom.V(
			center.X-float64(cols-1)*s/2+float64(cells[i].col)*s,
			center.Y-float64(rows-1)*s/2+float64(cells[i].row)*s,
		)
	}, true
}
