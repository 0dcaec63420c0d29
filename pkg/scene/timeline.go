package scene

import (
	"time"

	apperrors "github.com/matzehuels/algoflow/pkg/errors"
	"github.com/matzehuels/algoflow/pkg/visual"
)

// DefaultStepInterval is the playback delay between timeline steps.
const DefaultStepInterval = time.Second

// Timeline plays a list of animation steps. Steps advance on frame
// boundaries only; playback stops on the last step.
type Timeline struct {
	steps    []visual.Step
	index    int
	playing  bool
	interval time.Duration
	last     time.Time
	dirty    bool
}

// NewTimeline creates a paused timeline positioned on the first step.
func NewTimeline(steps []visual.Step, interval time.Duration) (*Timeline, error) {
	if len(steps) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "timeline has no steps")
	}
	if interval <= 0 {
		interval = DefaultStepInterval
	}
	return &Timeline{steps: steps, interval: interval}, nil
}

// Len returns the number of steps.
func (t *Timeline) Len() int { return len(t.steps) }

// Index returns the current step index.
func (t *Timeline) Index() int { return t.index }

// Current returns the current step.
func (t *Timeline) Current() visual.Step { return t.steps[t.index] }

// Playing reports whether playback is running.
func (t *Timeline) Playing() bool { return t.playing }

// Play starts playback. The first advance happens one interval after the
// next Tick.
func (t *Timeline) Play() {
	if t.index >= len(t.steps)-1 {
		return
	}
	t.playing = true
	t.last = time.Time{}
}

// Pause stops playback.
func (t *Timeline) Pause() { t.playing = false }

// SetInterval changes the playback delay.
func (t *Timeline) SetInterval(d time.Duration) {
	if d > 0 {
		t.interval = d
	}
}

// Next moves one step forward, clamped to the last step.
func (t *Timeline) Next() { t.Seek(t.index + 1) }

// Prev moves one step back, clamped to the first step.
func (t *Timeline) Prev() { t.Seek(t.index - 1) }

// Seek jumps to step i, clamped to the valid range.
func (t *Timeline) Seek(i int) {
	i = max(0, min(i, len(t.steps)-1))
	if i != t.index {
		t.index = i
		t.dirty = true
	}
}

// Tick advances playback to now and reports the step to load when the
// current step changed since the last Tick.
func (t *Timeline) Tick(now time.Time) (visual.Step, bool) {
	if t.playing {
		if t.last.IsZero() {
			t.last = now
		} else if now.Sub(t.last) >= t.interval {
			t.last = now
			if t.index < len(t.steps)-1 {
				t.index++
				t.dirty = true
			}
			if t.index >= len(t.steps)-1 {
				t.playing = false
			}
		}
	}
	if !t.dirty {
		return visual.Step{}, false
	}
	t.dirty = false
	return t.steps[t.index], true
}

// Info describes the current position.
func (t *Timeline) Info() *StepInfo {
	s := t.steps[t.index]
	return &StepInfo{
		Index:    t.index,
		Count:    len(t.steps),
		CodeLine: s.CodeLine,
		Message:  s.Message,
		Playing:  t.playing,
	}
}

// LoadTimeline installs steps and loads the first one.
func (sc *Scene) LoadTimeline(steps []visual.Step, interval time.Duration) error {
	tl, err := NewTimeline(steps, interval)
	if err != nil {
		return err
	}
	if err := sc.Load(tl.Current().State); err != nil {
		return err
	}
	sc.timeline = tl
	return nil
}

// Timeline returns the active timeline, or nil.
func (sc *Scene) Timeline() *Timeline { return sc.timeline }

func (sc *Scene) loadStep(step visual.Step) {
	if err := sc.Load(step.State); err != nil {
		sc.logger.Error("timeline step rejected", "err", err)
	}
}
