package visual

import (
	"encoding/json"
	"fmt"
	"strings"

	apperrors "github.com/matzehuels/algoflow/pkg/errors"
)

// StructureType tags the shape of a described structure. Each tag selects
// its own placement rule in the layout package.
type StructureType string

// Structure types.
const (
	Array      StructureType = "ARRAY"
	String     StructureType = "STRING"
	LinkedList StructureType = "LINKED_LIST"
	Tree       StructureType = "TREE"
	Graph      StructureType = "GRAPH"
	Pointers   StructureType = "POINTERS"
	Matrix     StructureType = "MATRIX"
)

// Types lists every structure type in declaration order.
var Types = []StructureType{Array, String, LinkedList, Tree, Graph, Pointers, Matrix}

// typeAliases maps legacy AlgorithmType names onto structure types.
var typeAliases = map[string]StructureType{
	"STRINGS":     String,
	"BINARY_TREE": Tree,
	"DP":          Matrix,
	"BITS":        Array,
}

// ParseType converts s into a StructureType. Matching is case-insensitive
// and accepts the legacy aliases STRINGS, BINARY_TREE, DP and BITS.
func ParseType(s string) (StructureType, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	u = strings.ReplaceAll(u, " ", "_")
	for _, t := range Types {
		if string(t) == u {
			return t, nil
		}
	}
	if t, ok := typeAliases[u]; ok {
		return t, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidStructure, "unknown structure type: %q", s)
}

// Hierarchical reports whether connections express parent/child relations,
// which pulls connected nodes tighter together.
func (t StructureType) Hierarchical() bool { return t == Tree }

// Arrowed reports whether renderers draw arrowheads on connections.
func (t StructureType) Arrowed() bool { return t == LinkedList || t == Tree }

// Slotted reports whether the structure uses index-keyed slot offsets
// instead of free physics for manual repositioning.
func (t StructureType) Slotted() bool { return t == Array || t == String }

// UnmarshalJSON accepts any spelling ParseType accepts.
func (t *StructureType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("structure type: %w", err)
	}
	parsed, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Element is one item of the described structure.
//
// X and Y are authoritative only when both are present; a single
// coordinate is ignored and the element is laid out by type.
type Element struct {
	ID    string   `json:"id" validate:"required,max=256"`
	Value any      `json:"value,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Color string   `json:"color,omitempty" validate:"max=64"`
	Label string   `json:"label,omitempty" validate:"max=256"`
}

// HasPosition reports whether both explicit coordinates are supplied.
func (e Element) HasPosition() bool { return e.X != nil && e.Y != nil }

// DisplayValue formats Value for rendering. Whole floats print without a
// fractional part since JSON numbers decode as float64.
func (e Element) DisplayValue() string {
	switch v := e.Value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

// Connection kinds for the JSON "type" field.
const (
	Directed   = "directed"
	Undirected = "undirected"
)

// Connection relates two elements by identifier.
type Connection struct {
	From   string   `json:"from"`
	To     string   `json:"to"`
	Kind   string   `json:"type,omitempty" validate:"omitempty,oneof=directed undirected"`
	Weight *float64 `json:"weight,omitempty"`
}

// IsDirected reports whether the connection was declared directed.
func (c Connection) IsDirected() bool { return c.Kind == Directed }

// Pointer is a named annotation attached to an element, such as "head" or "i".
type Pointer struct {
	Name      string `json:"name" validate:"required,max=64"`
	ElementID string `json:"elementId"`
	Color     string `json:"color,omitempty" validate:"max=64"`
}

// DefaultPointerColor is used for pointers that arrive without a color.
const DefaultPointerColor = "#fbbf24"

// State is a complete structure description.
type State struct {
	Type        StructureType `json:"type" validate:"required,structuretype"`
	Elements    []Element     `json:"elements" validate:"max=10000,dive"`
	Connections []Connection  `json:"connections,omitempty" validate:"max=50000,dive"`
	Pointers    []Pointer     `json:"pointers,omitempty" validate:"max=1000,dive"`
	Explanation string        `json:"explanation,omitempty"`
}

// Normalize drops elements whose identifier is empty or repeats an earlier
// one, keeping the first occurrence. It returns the dropped identifiers.
func (s *State) Normalize() []string {
	var dropped []string
	seen := make(map[string]bool, len(s.Elements))
	kept := s.Elements[:0]
	for _, e := range s.Elements {
		if e.ID == "" || seen[e.ID] {
			dropped = append(dropped, e.ID)
			continue
		}
		seen[e.ID] = true
		kept = append(kept, e)
	}
	s.Elements = kept
	return dropped
}

// Index returns the position of each element identifier.
func (s *State) Index() map[string]int {
	idx := make(map[string]int, len(s.Elements))
	for i, e := range s.Elements {
		idx[e.ID] = i
	}
	return idx
}

// Resolve looks up an element by identifier.
func (s *State) Resolve(id string) (Element, bool) {
	for _, e := range s.Elements {
		if e.ID == id {
			return e, true
		}
	}
	return Element{}, false
}

// LiveConnections returns the connections whose endpoints both exist.
func (s *State) LiveConnections() []Connection {
	idx := s.Index()
	out := make([]Connection, 0, len(s.Connections))
	for _, c := range s.Connections {
		_, okFrom := idx[c.From]
		_, okTo := idx[c.To]
		if okFrom && okTo {
			out = append(out, c)
		}
	}
	return out
}

// LivePointers returns the pointers whose target element exists.
func (s *State) LivePointers() []Pointer {
	idx := s.Index()
	out := make([]Pointer, 0, len(s.Pointers))
	for _, p := range s.Pointers {
		if _, ok := idx[p.ElementID]; ok {
			out = append(out, p)
		}
	}
	return out
}

// PointersAt returns the live pointers attached to id, in declaration order.
func (s *State) PointersAt(id string) []Pointer {
	var out []Pointer
	for _, p := range s.Pointers {
		if p.ElementID == id {
			out = append(out, p)
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := *s
	c.Elements = make([]Element, len(s.Elements))
	for i, e := range s.Elements {
		if e.X != nil {
			x := *e.X
			e.X = &x
		}
		if e.Y != nil {
			y := *e.Y
			e.Y = &y
		}
		c.Elements[i] = e
	}
	c.Connections = append([]Connection(nil), s.Connections...)
	c.Pointers = append([]Pointer(nil), s.Pointers...)
	return &c
}

// SlotID returns the synthetic identifier of the element at index i.
func SlotID(i int) string { return fmt.Sprintf("item-%d", i) }
