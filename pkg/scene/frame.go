package scene

import (
	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/visual"
)

// Status is the observable interaction state of a scene.
type Status struct {
	Hovered  string       `json:"hovered,omitempty"`
	Grabbed  string       `json:"grabbed,omitempty"`
	Pinching bool         `json:"pinching"`
	Camera   CameraStatus `json:"camera"`
	Energy   float64      `json:"energy"`
	Cursor   *geom.Vec    `json:"cursor,omitempty"`
}

// Node is one drawable node of a frame. X and Y include any slot offset.
type Node struct {
	ID       string           `json:"id"`
	Slot     string           `json:"slot,omitempty"`
	Value    any              `json:"value,omitempty"`
	Display  string           `json:"display"`
	Label    string           `json:"label,omitempty"`
	Color    string           `json:"color"`
	X        float64          `json:"x"`
	Y        float64          `json:"y"`
	Held     bool             `json:"held,omitempty"`
	Hovered  bool             `json:"hovered,omitempty"`
	Pointers []visual.Pointer `json:"pointers,omitempty"`
}

// Pos returns the node position as a vector.
func (n Node) Pos() geom.Vec { return geom.V(n.X, n.Y) }

// Edge is a live connection between two nodes.
type Edge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Directed bool     `json:"directed,omitempty"`
	Weight   *float64 `json:"weight,omitempty"`
}

// StepInfo describes the active timeline step.
type StepInfo struct {
	Index    int    `json:"index"`
	Count    int    `json:"count"`
	CodeLine int    `json:"codeLine,omitempty"`
	Message  string `json:"message,omitempty"`
	Playing  bool   `json:"playing"`
}

// Frame is a renderable snapshot of a scene.
type Frame struct {
	Seq         uint64               `json:"seq"`
	Type        visual.StructureType `json:"type"`
	Viewport    layout.Viewport      `json:"viewport"`
	Nodes       []Node               `json:"nodes"`
	Edges       []Edge               `json:"edges"`
	Status      Status               `json:"status"`
	Explanation string               `json:"explanation,omitempty"`
	Step        *StepInfo            `json:"step,omitempty"`
}

// Arrowed reports whether edges are drawn with arrowheads.
func (f *Frame) Arrowed() bool { return f.Type.Arrowed() }

// Node looks up a node by identifier or slot identifier.
func (f *Frame) Node(id string) (Node, bool) {
	for _, n := range f.Nodes {
		if n.ID == id || (n.Slot != "" && n.Slot == id) {
			return n, true
		}
	}
	return Node{}, false
}

// Snapshot captures the current frame.
func (sc *Scene) Snapshot() *Frame {
	st := sc.Status()
	slotted := sc.state.Type.Slotted()
	nodes := sc.engine.Snapshot()

	f := &Frame{
		Seq:         sc.seq,
		Type:        sc.state.Type,
		Viewport:    sc.opts.Viewport,
		Nodes:       make([]Node, len(nodes)),
		Edges:       make([]Edge, 0, len(sc.state.Connections)),
		Status:      st,
		Explanation: sc.state.Explanation,
	}

	for i, n := range nodes {
		pos := n.Pos
		node := Node{
			ID:       n.ID,
			Value:    n.Value,
			Label:    n.Label,
			Color:    n.Color,
			Held:     n.IsHeld(),
			Pointers: sc.state.PointersAt(n.ID),
		}
		if el, ok := sc.state.Resolve(n.ID); ok {
			node.Display = el.DisplayValue()
		}
		key := n.ID
		if slotted {
			node.Slot = visual.SlotID(i)
			key = node.Slot
			pos = pos.Add(sc.board.Offset(node.Slot))
		}
		node.X, node.Y = pos.X, pos.Y
		node.Hovered = st.Hovered == key
		if st.Grabbed == key {
			node.Held = true
		}
		f.Nodes[i] = node
	}

	for _, c := range sc.state.LiveConnections() {
		f.Edges = append(f.Edges, Edge{
			From:     c.From,
			To:       c.To,
			Directed: c.IsDirected() || sc.state.Type.Arrowed(),
			Weight:   c.Weight,
		})
	}

	if sc.timeline != nil {
		f.Step = sc.timeline.Info()
	}
	return f
}
