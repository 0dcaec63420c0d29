package visual

import (
	"fmt"
	"sort"
)

// legacyElements expands the VizState "data" payload into elements with
// index-based identifiers.
func legacyElements(t StructureType, data any) []Element {
	switch d := data.(type) {
	case string:
		runes := []rune(d)
		out := make([]Element, len(runes))
		for i, r := range runes {
			out[i] = Element{ID: SlotID(i), Value: string(r)}
		}
		return out
	case []any:
		if t == Matrix {
			return matrixElements(d)
		}
		out := make([]Element, 0, len(d))
		for i, v := range d {
			out = append(out, legacyElement(i, v))
		}
		return out
	case map[string]any:
		// A single node object, such as a tree root without children list.
		return []Element{legacyElement(0, d)}
	default:
		return []Element{{ID: SlotID(0), Value: d}}
	}
}

// legacyElement turns one data entry into an element. Objects carrying an
// "id" keep it; anything else becomes a value at its index.
func legacyElement(i int, v any) Element {
	m, ok := v.(map[string]any)
	if !ok {
		return Element{ID: SlotID(i), Value: v}
	}
	e := Element{ID: SlotID(i)}
	if id, ok := m["id"]; ok && id != nil {
		e.ID = fmt.Sprint(id)
	}
	if val, ok := m["value"]; ok {
		e.Value = val
	} else if val, ok := m["val"]; ok {
		e.Value = val
	}
	if c, ok := m["color"].(string); ok {
		e.Color = c
	}
	if l, ok := m["label"].(string); ok {
		e.Label = l
	}
	return e
}

// matrixElements flattens a row-major table into cell elements named
// cell-<row>-<col>, labelled with their coordinates.
func matrixElements(rows []any) []Element {
	var out []Element
	for r, row := range rows {
		cols, ok := row.([]any)
		if !ok {
			cols = []any{row}
		}
		for c, v := range cols {
			out = append(out, Element{
				ID:    CellID(r, c),
				Value: v,
				Label: fmt.Sprintf("[%d][%d]", r, c),
			})
		}
	}
	return out
}

// CellID returns the identifier of a matrix cell.
func CellID(row, col int) string { return fmt.Sprintf("cell-%d-%d", row, col) }

// decodePointers accepts either the VisualState list form or the legacy
// name-to-index map. Index targets resolve to the element at that
// position; string targets are taken as element identifiers.
func decodePointers(raw any, s *State) []Pointer {
	switch p := raw.(type) {
	case []any:
		out := make([]Pointer, 0, len(p))
		for _, entry := range p {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			ptr := Pointer{Color: DefaultPointerColor}
			if v, ok := m["name"].(string); ok {
				ptr.Name = v
			}
			if v, ok := m["elementId"]; ok && v != nil {
				ptr.ElementID = fmt.Sprint(v)
			}
			if v, ok := m["color"].(string); ok && v != "" {
				ptr.Color = v
			}
			if ptr.Name == "" {
				continue
			}
			out = append(out, ptr)
		}
		return out
	case map[string]any:
		names := make([]string, 0, len(p))
		for name := range p {
			names = append(names, name)
		}
		sort.Strings(names)
		out := make([]Pointer, 0, len(p))
		for _, name := range names {
			ptr := Pointer{Name: name, Color: DefaultPointerColor}
			switch target := p[name].(type) {
			case float64:
				i := int(target)
				if i >= 0 && i < len(s.Elements) {
					ptr.ElementID = s.Elements[i].ID
				} else {
					ptr.ElementID = SlotID(i)
				}
			case string:
				ptr.ElementID = target
			default:
				continue
			}
			out = append(out, ptr)
		}
		return out
	default:
		return nil
	}
}

// ParseCellID extracts the row and column from a matrix cell identifier.
func ParseCellID(id string) (row, col int, ok bool) {
	if _, err := fmt.Sscanf(id, "cell-%d-%d", &row, &col); err != nil {
		return 0, 0, false
	}
	return row, col, row >= 0 && col >= 0
}
