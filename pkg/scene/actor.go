package scene

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	apperrors "github.com/matzehuels/algoflow/pkg/errors"
	"github.com/matzehuels/algoflow/pkg/frameloop"
)

// Actor owns a Scene on one goroutine. Commands submitted through Do and
// frames from the scheduler are executed in arrival order on that
// goroutine, so no scene state needs locking.
type Actor struct {
	scene  *Scene
	loop   *frameloop.Loop
	cmds   chan func(*Scene)
	frames chan time.Time
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once

	lastActive atomic.Int64
}

// ErrClosed is returned by Do after Close.
var ErrClosed = apperrors.Sentinel(apperrors.ErrCodeSessionNotFound)

// NewActor starts the actor goroutine and its frame loop on sched.
func NewActor(sc *Scene, sched frameloop.Scheduler) *Actor {
	a := &Actor{
		scene:  sc,
		cmds:   make(chan func(*Scene)),
		frames: make(chan time.Time),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	a.touch()
	go a.run()
	a.loop = frameloop.NewLoop(sched, a.enqueueFrame)
	a.loop.Start()
	return a
}

// enqueueFrame hands a frame to the actor. It blocks until the actor takes
// it, which throttles the scheduler to the actor's pace.
func (a *Actor) enqueueFrame(now time.Time) {
	select {
	case a.frames <- now:
	case <-a.stop:
	}
}

func (a *Actor) run() {
	defer close(a.done)
	for {
		select {
		case <-a.stop:
			return
		case fn := <-a.cmds:
			fn(a.scene)
		case now := <-a.frames:
			a.scene.Frame(now)
		}
	}
}

// Do runs fn on the actor goroutine and waits for it to finish.
func (a *Actor) Do(ctx context.Context, fn func(*Scene) error) error {
	result := make(chan error, 1)
	wrapped := func(sc *Scene) { result <- fn(sc) }

	select {
	case a.cmds <- wrapped:
	case <-a.stop:
		return apperrors.New(apperrors.ErrCodeSessionNotFound, "session closed")
	case <-ctx.Done():
		return ctx.Err()
	}
	a.touch()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Snapshot returns the current frame.
func (a *Actor) Snapshot(ctx context.Context) (*Frame, error) {
	var f *Frame
	err := a.Do(ctx, func(sc *Scene) error {
		f = sc.Snapshot()
		return nil
	})
	return f, err
}

// LastActive returns the time of the last command.
func (a *Actor) LastActive() time.Time {
	return time.Unix(0, a.lastActive.Load())
}

func (a *Actor) touch() { a.lastActive.Store(time.Now().UnixNano()) }

// Close stops the frame loop and the actor goroutine. It is safe to call
// more than once.
func (a *Actor) Close() {
	a.once.Do(func() {
		a.loop.Stop()
		close(a.stop)
	})
	<-a.done
}
