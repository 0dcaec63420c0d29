package scene

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	apperrors "github.com/matzehuels/algoflow/pkg/errors"
	"github.com/matzehuels/algoflow/pkg/geom"
	"github.com/matzehuels/algoflow/pkg/interact"
	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/observability"
	"github.com/matzehuels/algoflow/pkg/physics"
	"github.com/matzehuels/algoflow/pkg/visual"
)

// CameraStatus is the state of the hand-tracking input.
type CameraStatus string

// Camera states. Denied and Blocked are terminal for a session: gesture
// input is refused and pointer mode continues.
const (
	CameraInitializing CameraStatus = "initializing"
	CameraActive       CameraStatus = "active"
	CameraDenied       CameraStatus = "denied"
	CameraBlocked      CameraStatus = "blocked"
)

// Available reports whether gesture input can be accepted.
func (c CameraStatus) Available() bool {
	return c == CameraInitializing || c == CameraActive
}

// ParseCameraStatus validates a status string.
func ParseCameraStatus(s string) (CameraStatus, error) {
	switch c := CameraStatus(s); c {
	case CameraInitializing, CameraActive, CameraDenied, CameraBlocked:
		return c, nil
	}
	return "", apperrors.New(apperrors.ErrCodeInvalidInput, "unknown camera status %q", s)
}

// Interaction sources reported to observability hooks.
const (
	SourcePointer = "pointer"
	SourceGesture = "gesture"
)

// Scene is one live visualization.
type Scene struct {
	opts   Options
	ctx    context.Context
	logger *log.Logger

	state   *visual.State
	engine  *physics.Engine
	board   *interact.SlotBoard
	pointer *interact.PointerController
	gesture *interact.GestureController

	camera   CameraStatus
	hand     *interact.Hand
	handSeen bool

	timeline *Timeline
	seq      uint64
}

// New creates an empty scene. Call Load before Frame.
func New(ctx context.Context, opts Options) *Scene {
	opts.setDefaults()
	return &Scene{
		opts:    opts,
		ctx:     ctx,
		logger:  opts.Logger,
		state:   &visual.State{Type: visual.Array},
		engine:  physics.New(&visual.State{Type: visual.Array}, nil, physics.WithParams(opts.Physics), physics.WithLogger(opts.Logger)),
		board:   interact.NewSlotBoard(opts.Viewport, opts.Hit.BlockSize),
		pointer: interact.NewPointerController(opts.Hit, opts.Viewport),
		gesture: interact.NewGestureController(interact.NewPinch(opts.PinchOn, opts.PinchOff), opts.Hit, opts.Viewport),
		camera:  CameraInitializing,
	}
}

// Load installs a new structure description. The state is copied and
// normalized; s itself is not modified.
func (sc *Scene) Load(s *visual.State) error {
	if s == nil {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "state cannot be nil")
	}
	if _, err := visual.ParseType(string(s.Type)); err != nil {
		return err
	}

	next := s.Clone()
	if dropped := next.Normalize(); len(dropped) > 0 {
		sc.logger.Warn("dropped elements with empty or duplicate ids", "count", len(dropped))
	}
	positions := layout.Place(next, sc.opts.Viewport, sc.opts.Layout)

	typeChanged := next.Type != sc.state.Type
	if typeChanged {
		sc.resetInteraction()
		sc.board.Reset()
		sc.engine = physics.New(next, positions, physics.WithParams(sc.opts.Physics), physics.WithLogger(sc.logger))
	} else {
		sc.engine.Replace(next, positions)
	}
	sc.state = next
	sc.syncSlots()
	if !typeChanged {
		sc.dropStaleGrabs()
	}

	edges := len(sc.engine.Edges())
	sc.logger.Debug("loaded scene", "type", next.Type, "nodes", len(next.Elements), "edges", edges, "type_changed", typeChanged)
	observability.Simulation().OnLoad(sc.ctx, string(next.Type), len(next.Elements), edges)
	return nil
}

// resetInteraction releases anything held and clears both controllers.
func (sc *Scene) resetInteraction() {
	if id := sc.engine.Release(); id != "" {
		observability.Simulation().OnRelease(sc.ctx, SourcePointer, id)
	}
	sc.pointer.Reset()
	sc.gesture.Reset()
	sc.hand, sc.handSeen = nil, false
}

// dropStaleGrabs clears a controller whose grabbed node did not survive a
// reload of the same structure type.
func (sc *Scene) dropStaleGrabs() {
	alive := func(id string) bool {
		if sc.state.Type.Slotted() {
			return sc.board.Has(id)
		}
		return sc.engine.HeldID() == id
	}
	if id := sc.pointer.Status().Grabbed; id != "" && !alive(id) {
		sc.logger.Debug("dropped stale grab", "source", SourcePointer, "node", id)
		sc.pointer.Reset()
	}
	if id := sc.gesture.Status().Grabbed; id != "" && !alive(id) {
		sc.logger.Debug("dropped stale grab", "source", SourceGesture, "node", id)
		sc.gesture.Reset()
	}
}

// syncSlots feeds the current physics positions to the slot board as slot
// bases.
func (sc *Scene) syncSlots() {
	if !sc.state.Type.Slotted() {
		sc.board.SetSlots(nil, nil)
		return
	}
	nodes := sc.engine.Snapshot()
	ids := make([]string, len(nodes))
	base := make([]geom.Vec, len(nodes))
	for i, n := range nodes {
		ids[i] = visual.SlotID(i)
		base[i] = n.Pos
	}
	sc.board.SetSlots(ids, base)
}

// surface returns the interaction target for the current structure type.
func (sc *Scene) surface() interact.Surface {
	if sc.state.Type.Slotted() {
		return interact.SlotSurface{Board: sc.board}
	}
	return interact.PhysicsSurface{Engine: sc.engine, Viewport: sc.opts.Viewport, Block: sc.opts.Hit.BlockSize}
}

// Frame advances the scene by one frame: timeline, gesture input, physics.
func (sc *Scene) Frame(now time.Time) {
	start := time.Now()

	if sc.timeline != nil {
		if step, changed := sc.timeline.Tick(now); changed {
			sc.loadStep(step)
		}
	}

	sc.advance(start)
}

// advance applies pending gesture input and steps physics once.
func (sc *Scene) advance(start time.Time) {
	sc.syncSlots()
	if sc.handSeen {
		sc.applyGesture(sc.hand)
		sc.hand, sc.handSeen = nil, false
	}

	sc.engine.Step()
	sc.syncSlots()
	sc.seq++

	observability.Simulation().OnFrame(sc.ctx, string(sc.state.Type), time.Since(start), sc.engine.Energy())
}

func (sc *Scene) applyGesture(h *interact.Hand) {
	before := sc.gesture.Status()
	ev := sc.gesture.Update(h, heldElsewhere{Surface: sc.surface(), by: sc.pointer.Status().Grabbed})
	sc.report(SourceGesture, ev)
	if ev.PinchChanged {
		observability.Simulation().OnPinch(sc.ctx, sc.gesture.Status().Pinching)
	}
	if after := sc.gesture.Status(); after.Hovered != before.Hovered {
		sc.logger.Debug("hover", "node", after.Hovered)
	}
}

func (sc *Scene) report(source string, ev interact.Event) {
	hooks := observability.Simulation()
	if ev.Grabbed != "" {
		sc.logger.Debug("grab", "source", source, "node", ev.Grabbed)
		hooks.OnGrab(sc.ctx, source, ev.Grabbed)
	}
	if ev.Swapped[0] != "" {
		sc.logger.Debug("swap", "a", ev.Swapped[0], "b", ev.Swapped[1])
		hooks.OnSwap(sc.ctx, ev.Swapped[0], ev.Swapped[1])
	}
	if ev.Released != "" {
		sc.logger.Debug("release", "source", source, "node", ev.Released)
		hooks.OnRelease(sc.ctx, source, ev.Released)
	}
}

// SetHand queues a hand sample for the next frame. A nil hand reports that
// tracking was lost. Samples are refused once the camera is denied or
// blocked.
func (sc *Scene) SetHand(h *interact.Hand) error {
	if !sc.camera.Available() {
		return apperrors.New(apperrors.ErrCodeCameraUnavailable, "camera %s: gesture input disabled", sc.camera)
	}
	if h != nil {
		sc.camera = CameraActive
	}
	sc.hand, sc.handSeen = h, true
	return nil
}

// SetCamera records the camera status. Denied and blocked end gesture
// input for the session; anything grabbed by a gesture is released.
func (sc *Scene) SetCamera(status CameraStatus) error {
	if !sc.camera.Available() && status != sc.camera {
		return apperrors.New(apperrors.ErrCodeCameraUnavailable, "camera already %s", sc.camera)
	}
	sc.camera = status
	if !status.Available() {
		sc.logger.Warn("camera unavailable, continuing in pointer mode", "status", status)
		ev := sc.gesture.Update(nil, sc.surface())
		sc.report(SourceGesture, ev)
		sc.hand, sc.handSeen = nil, false
	}
	return nil
}

// Camera returns the camera status.
func (sc *Scene) Camera() CameraStatus { return sc.camera }

// heldElsewhere refuses new grabs while another controller holds a node.
type heldElsewhere struct {
	interact.Surface
	by string
}

func (h heldElsewhere) Grab(id string) error {
	if h.by != "" {
		return apperrors.New(apperrors.ErrCodeAlreadyHeld, "grab %q: %q is held by the pointer", id, h.by)
	}
	return h.Surface.Grab(id)
}

// PointerDown presses the pointer at p and returns the grabbed node or
// slot identifier, or "".
func (sc *Scene) PointerDown(p geom.Vec) (string, error) {
	if g := sc.gesture.Status().Grabbed; g != "" {
		return "", apperrors.New(apperrors.ErrCodeAlreadyHeld, "%q is held by a gesture", g)
	}
	id, err := sc.pointer.Down(p, sc.surface())
	if err != nil {
		return "", err
	}
	sc.report(SourcePointer, interact.Event{Grabbed: id})
	return id, nil
}

// PointerMove moves the pointer to p.
func (sc *Scene) PointerMove(p geom.Vec) {
	sc.report(SourcePointer, sc.pointer.Move(p, sc.surface()))
}

// PointerUp releases the pointer.
func (sc *Scene) PointerUp() string {
	id := sc.pointer.Up(sc.surface())
	sc.report(SourcePointer, interact.Event{Released: id})
	return id
}

// Status returns the observable interaction state.
func (sc *Scene) Status() Status {
	p, g := sc.pointer.Status(), sc.gesture.Status()
	st := Status{
		Hovered:  p.Hovered,
		Grabbed:  p.Grabbed,
		Pinching: g.Pinching,
		Camera:   sc.camera,
		Energy:   sc.engine.Energy(),
	}
	if g.Hovered != "" {
		st.Hovered = g.Hovered
	}
	if g.Grabbed != "" {
		st.Grabbed = g.Grabbed
	}
	if ctl := sc.gesture.State().Control; ctl != nil {
		c := *ctl
		st.Cursor = &c
	}
	return st
}

// State returns the active structure description.
func (sc *Scene) State() *visual.State { return sc.state }

// Engine exposes the physics engine for read-only inspection.
func (sc *Scene) Engine() *physics.Engine { return sc.engine }

// Slots exposes the slot board.
func (sc *Scene) Slots() *interact.SlotBoard { return sc.board }

// Viewport returns the scene viewport.
func (sc *Scene) Viewport() layout.Viewport { return sc.opts.Viewport }

// Seq returns the number of frames run.
func (sc *Scene) Seq() uint64 { return sc.seq }

// Settle steps physics without input until quiescent and returns the
// number of frames taken.
func (sc *Scene) Settle(maxFrames int, eps float64) int {
	n := 0
	for n < maxFrames {
		sc.advance(time.Now())
		n++
		if sc.engine.Energy() < eps {
			break
		}
	}
	return n
}
