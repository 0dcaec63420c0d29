// Package frameloop provides the injectable frame scheduler that drives the
// simulation.
//
// A [Scheduler] runs a callback once on its next frame, like a display's
// "next animation frame" hook. [Loop] re-requests itself after every frame
// until stopped. [TickerScheduler] paces frames with a time.Ticker;
// [ManualScheduler] only advances when told to, which makes frame-by-frame
// tests deterministic.
package frameloop

import (
	"context"
	"sync"
	"time"
)

// DefaultFPS is the frame rate of a TickerScheduler created with fps <= 0.
const DefaultFPS = 60

// Handle identifies a pending frame request.
type Handle uint64

// FrameFunc is called once per frame with the frame time.
type FrameFunc func(now time.Time)

// Scheduler runs callbacks on the next frame.
type Scheduler interface {
	// Request schedules fn for the next frame.
	Request(fn FrameFunc) Handle
	// Cancel drops a pending request. Cancelling a request that already
	// ran or was never issued is a no-op.
	Cancel(h Handle)
}

// queue is the pending-request bookkeeping shared by both schedulers.
type queue struct {
	mu      sync.Mutex
	next    Handle
	pending map[Handle]FrameFunc
	order   []Handle
}

func (q *queue) add(fn FrameFunc) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending == nil {
		q.pending = make(map[Handle]FrameFunc)
	}
	q.next++
	q.pending[q.next] = fn
	q.order = append(q.order, q.next)
	return q.next
}

func (q *queue) cancel(h Handle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, h)
}

// drain removes and returns the callbacks pending right now, in request
// order. Requests made while they run land in the next frame.
func (q *queue) drain() []FrameFunc {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]FrameFunc, 0, len(q.order))
	for _, h := range q.order {
		if fn, ok := q.pending[h]; ok {
			out = append(out, fn)
			delete(q.pending, h)
		}
	}
	q.order = q.order[:0]
	return out
}

func (q *queue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// TickerScheduler runs pending callbacks on a fixed-rate ticker in its own
// goroutine. Close stops it.
type TickerScheduler struct {
	q        queue
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewTicker starts a scheduler at fps frames per second.
func NewTicker(fps int) *TickerScheduler {
	if fps <= 0 {
		fps = DefaultFPS
	}
	s := &TickerScheduler{
		interval: time.Second / time.Duration(fps),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *TickerScheduler) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			for _, fn := range s.q.drain() {
				fn(now)
			}
		}
	}
}

// Interval returns the frame period.
func (s *TickerScheduler) Interval() time.Duration { return s.interval }

// Request implements Scheduler.
func (s *TickerScheduler) Request(fn FrameFunc) Handle { return s.q.add(fn) }

// Cancel implements Scheduler.
func (s *TickerScheduler) Cancel(h Handle) { s.q.cancel(h) }

// Close stops the ticker goroutine and waits for it to exit. Pending
// callbacks are dropped.
func (s *TickerScheduler) Close() {
	s.once.Do(func() { close(s.stop) })
	<-s.done
}

// ManualScheduler runs frames only when Advance is called.
type ManualScheduler struct {
	q        queue
	mu       sync.Mutex
	now      time.Time
	interval time.Duration
	frames   uint64
}

// NewManual creates a scheduler whose clock starts at start and moves by
// interval per frame.
func NewManual(start time.Time, interval time.Duration) *ManualScheduler {
	if interval <= 0 {
		interval = time.Second / DefaultFPS
	}
	return &ManualScheduler{now: start, interval: interval}
}

// Request implements Scheduler.
func (s *ManualScheduler) Request(fn FrameFunc) Handle { return s.q.add(fn) }

// Cancel implements Scheduler.
func (s *ManualScheduler) Cancel(h Handle) { s.q.cancel(h) }

// Advance runs n frames synchronously on the calling goroutine.
func (s *ManualScheduler) Advance(n int) {
	for range n {
		s.mu.Lock()
		s.now = s.now.Add(s.interval)
		s.frames++
		now := s.now
		s.mu.Unlock()
		for _, fn := range s.q.drain() {
			fn(now)
		}
	}
}

// Pending returns the number of requests waiting for the next frame.
func (s *ManualScheduler) Pending() int { return s.q.len() }

// Frames returns how many frames Advance has run.
func (s *ManualScheduler) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// Loop calls a step function on every frame until stopped.
type Loop struct {
	sched Scheduler
	step  FrameFunc

	mu      sync.Mutex
	handle  Handle
	running bool
	gen     uint64
}

// NewLoop creates a stopped loop.
func NewLoop(s Scheduler, step FrameFunc) *Loop {
	return &Loop{sched: s, step: step}
}

// Start begins requesting frames. Starting a running loop is a no-op.
func (l *Loop) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return
	}
	l.running = true
	l.gen++
	l.requestLocked(l.gen)
}

func (l *Loop) requestLocked(gen uint64) {
	l.handle = l.sched.Request(func(now time.Time) { l.frame(gen, now) })
}

func (l *Loop) frame(gen uint64, now time.Time) {
	l.mu.Lock()
	if !l.running || gen != l.gen {
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()

	l.step(now)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running && gen == l.gen {
		l.requestLocked(gen)
	}
}

// Stop cancels the pending frame. The step function is not called again
// after Stop returns unless Start is called, apart from a frame already
// executing concurrently on the scheduler goroutine.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.running {
		return
	}
	l.running = false
	l.sched.Cancel(l.handle)
}

// Running reports whether the loop is active.
func (l *Loop) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// Run starts the loop and blocks until ctx is done, then stops it.
func (l *Loop) Run(ctx context.Context) error {
	l.Start()
	<-ctx.Done()
	l.Stop()
	return ctx.Err()
}
