package frameloop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualSchedulerRunsOncePerRequest(t *testing.T) {
	s := NewManual(epoch, 10*time.Millisecond)
	var calls int
	var at time.Time
	s.Request(func(now time.Time) { calls++; at = now })

	s.Advance(3)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if want := epoch.Add(10 * time.Millisecond); !at.Equal(want) {
		t.Errorf("frame time = %v, want %v", at, want)
	}
	if s.Frames() != 3 {
		t.Errorf("Frames() = %d, want 3", s.Frames())
	}
}

func TestManualSchedulerCancel(t *testing.T) {
	s := NewManual(epoch, 0)
	var calls int
	h := s.Request(func(time.Time) { calls++ })
	s.Cancel(h)
	s.Cancel(h)
	s.Cancel(Handle(999))
	s.Advance(1)
	if calls != 0 {
		t.Errorf("cancelled callback ran %d times", calls)
	}
}

func TestRequestsDuringFrameRunNextFrame(t *testing.T) {
	s := NewManual(epoch, 0)
	var order []int
	s.Request(func(time.Time) {
		order = append(order, 1)
		s.Request(func(time.Time) { order = append(order, 2) })
	})
	s.Advance(1)
	if len(order) != 1 {
		t.Fatalf("order = %v after one frame, want [1]", order)
	}
	s.Advance(1)
	if len(order) != 2 || order[1] != 2 {
		t.Errorf("order = %v, want [1 2]", order)
	}
}

func TestLoopStepsEveryFrameUntilStopped(t *testing.T) {
	s := NewManual(epoch, 0)
	var steps int
	l := NewLoop(s, func(time.Time) { steps++ })

	l.Start()
	l.Start()
	s.Advance(5)
	if steps != 5 {
		t.Errorf("steps = %d, want 5", steps)
	}

	l.Stop()
	if l.Running() {
		t.Error("Running() = true after Stop")
	}
	s.Advance(5)
	if steps != 5 {
		t.Errorf("steps = %d after Stop, want 5", steps)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after Stop, want 0", s.Pending())
	}

	l.Start()
	s.Advance(2)
	if steps != 7 {
		t.Errorf("steps = %d after restart, want 7", steps)
	}
}

func TestLoopStopFromInsideStep(t *testing.T) {
	s := NewManual(epoch, 0)
	var l *Loop
	var steps int
	l = NewLoop(s, func(time.Time) {
		steps++
		if steps == 2 {
			l.Stop()
		}
	})
	l.Start()
	s.Advance(10)
	if steps != 2 {
		t.Errorf("steps = %d, want 2", steps)
	}
}

func TestTickerSchedulerNoLeak(t *testing.T) {
	defer goleak.VerifyNone(t)

	s := NewTicker(200)
	var steps atomic.Int64
	l := NewLoop(s, func(time.Time) { steps.Add(1) })

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if err := l.Run(ctx); err != context.DeadlineExceeded {
		t.Errorf("Run() = %v, want deadline exceeded", err)
	}
	s.Close()
	s.Close()

	if steps.Load() == 0 {
		t.Error("loop never stepped")
	}
}

func TestNewTickerDefaultRate(t *testing.T) {
	defer goleak.VerifyNone(t)
	s := NewTicker(0)
	defer s.Close()
	if got, want := s.Interval(), time.Second/DefaultFPS; got != want {
		t.Errorf("Interval() = %v, want %v", got, want)
	}
}
