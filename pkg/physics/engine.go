package physics

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/algoflow/pkg/errors"
	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/visual"
)

var (
	// ErrUnknownNode is returned when grabbing an identifier that is not in
	// the node set.
	ErrUnknownNode = apperrors.Sentinel(apperrors.ErrCodeUnknownNode)

	// ErrAlreadyHeld is returned when grabbing while another node is held.
	ErrAlreadyHeld = apperrors.Sentinel(apperrors.ErrCodeAlreadyHeld)
)

// Default node colors, alternating by index when an element has none.
const (
	ColorEven = "#3b82f6"
	ColorOdd  = "#ec4899"
)

// NodeState is the control mode of a node.
type NodeState int

// Node states.
const (
	Free NodeState = iota
	Held
)

func (s NodeState) String() string {
	if s == Held {
		return "held"
	}
	return "free"
}

// Node is one simulated element.
type Node struct {
	ID    string    `json:"id"`
	Value any       `json:"value,omitempty"`
	Label string    `json:"label,omitempty"`
	Color string    `json:"color"`
	Pos   geom.Vec  `json:"pos"`
	Vel   geom.Vec  `json:"vel"`
	State NodeState `json:"-"`
}

// IsHeld reports whether the node is under user control.
func (n Node) IsHeld() bool { return n.State == Held }

// Engine owns the node set of one structure instance. It is not safe for
// concurrent use; callers serialize access (see the scene package).
type Engine struct {
	params Params
	kind   visual.StructureType
	nodes  []Node
	index  map[string]int
	edges  [][2]int

	held    int
	pointer geom.Vec

	prev   []geom.Vec
	frames uint64
	logger *log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithParams overrides the default force constants.
func WithParams(p Params) Option {
	return func(e *Engine) { e.params = p }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an engine for s with nodes at the given positions, which must
// be in element order (see layout.Initialize). Missing positions default to
// the origin.
func New(s *visual.State, positions []geom.Vec, opts ...Option) *Engine {
	e := &Engine{
		params: DefaultParams(),
		held:   -1,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.load(s, positions, nil)
	return e
}

// Replace swaps in a new node set. Nodes whose identifier survives keep
// their position and velocity; new nodes start at positions[i]. A held
// node stays held only if it survives.
func (e *Engine) Replace(s *visual.State, positions []geom.Vec) {
	old := make(map[string]Node, len(e.nodes))
	for _, n := range e.nodes {
		old[n.ID] = n
	}
	heldID := e.HeldID()
	e.load(s, positions, old)
	if i, ok := e.index[heldID]; ok && heldID != "" {
		e.held = i
		e.nodes[i].State = Held
	}
}

func (e *Engine) load(s *visual.State, positions []geom.Vec, carry map[string]Node) {
	e.kind = s.Type
	e.held = -1
	e.nodes = make([]Node, 0, len(s.Elements))
	e.index = make(map[string]int, len(s.Elements))

	for i, el := range s.Elements {
		if _, dup := e.index[el.ID]; dup {
			continue
		}
		n := Node{
			ID:    el.ID,
			Value: el.Value,
			Label: el.Label,
			Color: el.Color,
		}
		if n.Color == "" {
			n.Color = ColorEven
			if len(e.nodes)%2 == 1 {
				n.Color = ColorOdd
			}
		}
		if prev, ok := carry[el.ID]; ok {
			n.Pos, n.Vel = prev.Pos, prev.Vel
		} else if i < len(positions) {
			n.Pos = positions[i]
		}
		e.index[n.ID] = len(e.nodes)
		e.nodes = append(e.nodes, n)
	}

	e.edges = e.edges[:0]
	for _, c := range s.Connections {
		from, okFrom := e.index[c.From]
		to, okTo := e.index[c.To]
		if !okFrom || !okTo {
			e.logger.Debug("skipping dangling connection", "from", c.From, "to", c.To)
			continue
		}
		e.edges = append(e.edges, [2]int{from, to})
	}
	e.prev = make([]geom.Vec, len(e.nodes))
}

// Step advances the simulation by one frame.
func (e *Engine) Step() {
	for i := range e.nodes {
		e.prev[i] = e.nodes[i].Pos
	}

	p := e.params
	target := p.TargetDistance(e.kind)

	for i := range e.nodes {
		if i == e.held {
			continue
		}
		var acc geom.Vec
		pi := e.prev[i]

		for j, pj := range e.prev {
			if i == j {
				continue
			}
			d := pi.Sub(pj)
			dist := math.Sqrt(d.LenSq() + p.Epsilon)
			if dist < p.RepulsionRadius {
				force := (p.RepulsionRadius - dist) * p.Repulsion
				acc = acc.Add(d.Scale(force / dist))
			}
		}

		for _, edge := range e.edges {
			var other int
			switch i {
			case edge[0]:
				other = edge[1]
			case edge[1]:
				other = edge[0]
			default:
				continue
			}
			d := e.prev[other].Sub(pi)
			dist := d.Len()
			if dist > target {
				force := (dist - target) * p.Attraction
				acc = acc.Add(d.Scale(force / dist))
			}
		}

		n := &e.nodes[i]
		n.Vel = n.Vel.Add(acc).Scale(p.Damping)
		n.Pos = pi.Add(n.Vel)
	}

	if e.held >= 0 {
		e.nodes[e.held].Pos = e.pointer
	}
	e.frames++
}

// Grab puts the node with the given identifier under user control and
// zeroes its velocity. It stays at its current position until Drag moves
// the pointer.
func (e *Engine) Grab(id string) error {
	i, ok := e.index[id]
	if !ok {
		return apperrors.New(apperrors.ErrCodeUnknownNode, "grab %q: no such node", id)
	}
	if e.held >= 0 {
		if e.held == i {
			return nil
		}
		return apperrors.New(apperrors.ErrCodeAlreadyHeld, "grab %q: %q is held", id, e.nodes[e.held].ID)
	}
	e.held = i
	n := &e.nodes[i]
	n.State = Held
	n.Vel = geom.Vec{}
	e.pointer = n.Pos
	e.logger.Debug("grab", "node", id, "x", n.Pos.X, "y", n.Pos.Y)
	return nil
}

// Drag moves the pointer. The held node, if any, follows immediately.
func (e *Engine) Drag(p geom.Vec) {
	e.pointer = p
	if e.held >= 0 {
		e.nodes[e.held].Pos = p
	}
}

// Release returns the held node to physics control at its last position.
// It reports the released identifier, or "" when nothing was held.
func (e *Engine) Release() string {
	if e.held < 0 {
		return ""
	}
	n := &e.nodes[e.held]
	n.State = Free
	e.held = -1
	e.logger.Debug("release", "node", n.ID)
	return n.ID
}

// HeldID returns the identifier of the held node, or "".
func (e *Engine) HeldID() string {
	if e.held < 0 {
		return ""
	}
	return e.nodes[e.held].ID
}

// Pointer returns the last pointer position given to Drag or Grab.
func (e *Engine) Pointer() geom.Vec { return e.pointer }

// Type returns the structure type of the current node set.
func (e *Engine) Type() visual.StructureType { return e.kind }

// Params returns the force constants in use.
func (e *Engine) Params() Params { return e.params }

// Frames returns the number of steps taken.
func (e *Engine) Frames() uint64 { return e.frames }

// Len returns the number of nodes.
func (e *Engine) Len() int { return len(e.nodes) }

// Node returns a copy of the node with the given identifier.
func (e *Engine) Node(id string) (Node, bool) {
	i, ok := e.index[id]
	if !ok {
		return Node{}, false
	}
	return e.nodes[i], true
}

// Snapshot returns a copy of all nodes in element order.
func (e *Engine) Snapshot() []Node {
	return append([]Node(nil), e.nodes...)
}

// Edges returns the live connections as identifier pairs.
func (e *Engine) Edges() [][2]string {
	out := make([][2]string, len(e.edges))
	for k, edge := range e.edges {
		out[k] = [2]string{e.nodes[edge[0]].ID, e.nodes[edge[1]].ID}
	}
	return out
}

// Energy returns the kinetic energy of free nodes, the sum of |v|².
func (e *Engine) Energy() float64 {
	var sum float64
	for i, n := range e.nodes {
		if i != e.held {
			sum += n.Vel.LenSq()
		}
	}
	return sum
}

// Settle steps until the energy drops below eps or maxFrames is reached.
// It returns the number of frames taken.
func (e *Engine) Settle(maxFrames int, eps float64) int {
	for f := 0; f < maxFrames; f++ {
		e.Step()
		if e.Energy() < eps {
			return f + 1
		}
	}
	return maxFrames
}
