package visual

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/matzehuels/algoflow/pkg/errors"
)

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want StructureType
		ok   bool
	}{
		{"ARRAY", Array, true},
		{"array", Array, true},
		{"linked list", LinkedList, true},
		{"BINARY_TREE", Tree, true},
		{"STRINGS", String, true},
		{"DP", Matrix, true},
		{"HEAP", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("ParseType(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			}
			if got != tt.want {
				t.Errorf("ParseType(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !tt.ok && !apperrors.Is(err, apperrors.ErrCodeInvalidStructure) {
				t.Errorf("error code = %q, want %q", apperrors.GetCode(err), apperrors.ErrCodeInvalidStructure)
			}
		})
	}
}

func TestNormalizeDropsEmptyAndDuplicateIDs(t *testing.T) {
	s := &State{
		Type: Graph,
		Elements: []Element{
			{ID: "a", Value: 1.0},
			{ID: ""},
			{ID: "b"},
			{ID: "a", Value: 2.0},
		},
	}
	dropped := s.Normalize()

	if diff := cmp.Diff([]string{"", "a"}, dropped); diff != "" {
		t.Errorf("dropped mismatch (-want +got):\n%s", diff)
	}
	if len(s.Elements) != 2 {
		t.Fatalf("len(Elements) = %d, want 2", len(s.Elements))
	}
	if s.Elements[0].Value != 1.0 {
		t.Errorf("first occurrence should win, got value %v", s.Elements[0].Value)
	}
}

func TestLiveReferences(t *testing.T) {
	s := &State{
		Type:     LinkedList,
		Elements: []Element{{ID: "a"}, {ID: "b"}},
		Connections: []Connection{
			{From: "a", To: "b"},
			{From: "b", To: "ghost"},
		},
		Pointers: []Pointer{
			{Name: "head", ElementID: "a"},
			{Name: "tail", ElementID: "ghost"},
		},
	}
	if got := len(s.LiveConnections()); got != 1 {
		t.Errorf("LiveConnections() = %d, want 1", got)
	}
	if got := s.LivePointers(); len(got) != 1 || got[0].Name != "head" {
		t.Errorf("LivePointers() = %v, want [head]", got)
	}
}

func TestDecodeVisualState(t *testing.T) {
	doc := `{
		"type": "GRAPH",
		"elements": [{"id": "a", "value": 1, "x": 10, "y": 20}, {"id": "b", "value": "two", "x": 5}],
		"connections": [{"from": "a", "to": "b", "type": "directed", "weight": 3}],
		"pointers": [{"name": "cur", "elementId": "b"}]
	}`
	s, err := DecodeBytes([]byte(doc), FormatJSON)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if s.Type != Graph {
		t.Errorf("Type = %q, want GRAPH", s.Type)
	}
	if !s.Elements[0].HasPosition() {
		t.Error("element a should have an explicit position")
	}
	if s.Elements[1].HasPosition() {
		t.Error("element b has only x and should not count as positioned")
	}
	if got := s.Elements[0].DisplayValue(); got != "1" {
		t.Errorf("DisplayValue() = %q, want %q", got, "1")
	}
	if !s.Connections[0].IsDirected() || s.Connections[0].Weight == nil || *s.Connections[0].Weight != 3 {
		t.Errorf("connection = %+v, want directed with weight 3", s.Connections[0])
	}
	if s.Pointers[0].Color != DefaultPointerColor {
		t.Errorf("pointer color = %q, want default %q", s.Pointers[0].Color, DefaultPointerColor)
	}
}

func TestDecodeYAML(t *testing.T) {
	doc := `
type: linked_list
elements:
  - id: n1
    value: 4
  - id: n2
    value: 7
connections:
  - from: n1
    to: n2
`
	s, err := DecodeBytes([]byte(doc), FormatYAML)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if s.Type != LinkedList || len(s.Elements) != 2 || len(s.Connections) != 1 {
		t.Errorf("decoded %+v", s)
	}
}

func TestDecodeLegacy(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantType StructureType
		wantIDs  []string
		wantPtrs map[string]string
	}{
		{
			name:     "array with index pointers",
			doc:      `{"type": "ARRAY", "data": [5, 3, 9], "pointers": {"i": 0, "j": 2}}`,
			wantType: Array,
			wantIDs:  []string{"item-0", "item-1", "item-2"},
			wantPtrs: map[string]string{"i": "item-0", "j": "item-2"},
		},
		{
			name:     "string data splits into characters",
			doc:      `{"type": "STRINGS", "data": "abc"}`,
			wantType: String,
			wantIDs:  []string{"item-0", "item-1", "item-2"},
		},
		{
			name:     "dp table becomes matrix cells",
			doc:      `{"type": "DP", "data": [[0, 1], [1, 2]]}`,
			wantType: Matrix,
			wantIDs:  []string{"cell-0-0", "cell-0-1", "cell-1-0", "cell-1-1"},
		},
		{
			name:     "objects keep their ids",
			doc:      `{"type": "LINKED_LIST", "data": [{"id": "h", "val": 1}, {"id": "t", "val": 2}]}`,
			wantType: LinkedList,
			wantIDs:  []string{"h", "t"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := DecodeBytes([]byte(tt.doc), FormatJSON)
			if err != nil {
				t.Fatalf("DecodeBytes() error = %v", err)
			}
			if s.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", s.Type, tt.wantType)
			}
			var ids []string
			for _, e := range s.Elements {
				ids = append(ids, e.ID)
			}
			if diff := cmp.Diff(tt.wantIDs, ids); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
			for _, p := range s.Pointers {
				if want := tt.wantPtrs[p.Name]; want != p.ElementID {
					t.Errorf("pointer %s -> %s, want %s", p.Name, p.ElementID, want)
				}
			}
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code apperrors.Code
	}{
		{"not json", `{`, apperrors.ErrCodeInvalidFormat},
		{"missing type", `{"elements": []}`, apperrors.ErrCodeInvalidStructure},
		{"unknown type", `{"type": "HEAP"}`, apperrors.ErrCodeInvalidStructure},
		{"bad connection kind", `{"type": "GRAPH", "elements": [{"id": "a"}], "connections": [{"from": "a", "to": "a", "type": "sideways"}]}`, apperrors.ErrCodeInvalidStructure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBytes([]byte(tt.doc), FormatJSON)
			if err == nil {
				t.Fatal("expected error")
			}
			if !apperrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestDanglingReferencesAreNotErrors(t *testing.T) {
	doc := `{"type": "TREE", "elements": [{"id": "r"}], "connections": [{"from": "r", "to": "missing"}], "pointers": [{"name": "p", "elementId": "nope"}]}`
	s, err := DecodeBytes([]byte(doc), FormatJSON)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}
	if len(s.Connections) != 1 || len(s.LiveConnections()) != 0 {
		t.Errorf("connections kept = %d, live = %d", len(s.Connections), len(s.LiveConnections()))
	}
}

func TestReadTimeline(t *testing.T) {
	doc := `[
		{"viz": {"type": "ARRAY", "data": [2, 1]}, "codeLine": 1, "message": "start"},
		{"viz": {"type": "ARRAY", "data": [1, 2]}, "codeLine": 4, "message": "swap"}
	]`
	steps, err := ReadTimeline(strings.NewReader(doc), FormatJSON)
	if err != nil {
		t.Fatalf("ReadTimeline() error = %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("len(steps) = %d, want 2", len(steps))
	}
	if steps[1].Message != "swap" || steps[1].CodeLine != 4 {
		t.Errorf("steps[1] = %+v", steps[1])
	}

	single, err := ReadTimeline(strings.NewReader(`{"type": "GRAPH", "elements": [{"id": "x"}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("ReadTimeline(single) error = %v", err)
	}
	if len(single) != 1 || single[0].State.Type != Graph {
		t.Errorf("single = %+v", single)
	}

	wrapped, err := ReadTimeline(strings.NewReader(`{"steps": [{"viz": {"type": "TREE", "elements": []}}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("ReadTimeline(wrapped) error = %v", err)
	}
	if len(wrapped) != 1 {
		t.Errorf("len(wrapped) = %d, want 1", len(wrapped))
	}
}

func TestClone(t *testing.T) {
	x, y := 1.0, 2.0
	s := &State{Type: Graph, Elements: []Element{{ID: "a", X: &x, Y: &y}}}
	c := s.Clone()
	*c.Elements[0].X = 99
	if *s.Elements[0].X != 1 {
		t.Error("Clone shares coordinate pointers with the original")
	}
}
