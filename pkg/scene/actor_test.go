package scene

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/matzehuels/algoflow/pkg/frameloop"
	"github.com/matzehuels/algoflow/pkg/geom"
)

func TestActorSerializesFramesAndCommands(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := frameloop.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 0)
	sc := newScene(t)
	if err := sc.Load(graphState("a", "b", "c")); err != nil {
		t.Fatal(err)
	}
	a := NewActor(sc, sched)
	defer a.Close()

	ctx := context.Background()
	sched.Advance(7)
	f, err := a.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if f.Seq != 7 {
		t.Errorf("Seq = %d, want 7", f.Seq)
	}

	err = a.Do(ctx, func(sc *Scene) error {
		n, _ := sc.Snapshot().Node("a")
		_, err := sc.PointerDown(n.Pos())
		if err != nil {
			return err
		}
		sc.PointerMove(geom.V(500, 300))
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	sched.Advance(3)
	f, _ = a.Snapshot(ctx)
	if n, _ := f.Node("a"); n.Pos() != geom.V(500, 300) {
		t.Errorf("held node = %v, want (500, 300)", n.Pos())
	}
}

func TestActorCloseStopsEverything(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := frameloop.NewTicker(500)
	defer sched.Close()

	sc := newScene(t)
	if err := sc.Load(graphState("a")); err != nil {
		t.Fatal(err)
	}
	a := NewActor(sc, sched)
	time.Sleep(20 * time.Millisecond)
	a.Close()
	a.Close()

	err := a.Do(context.Background(), func(*Scene) error { return nil })
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Do() after Close = %v, want ErrClosed", err)
	}
}

func TestActorDoHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	sched := frameloop.NewManual(time.Now(), 0)
	a := NewActor(newScene(t), sched)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	block := make(chan struct{})
	go func() {
		_ = a.Do(context.Background(), func(*Scene) error { <-block; return nil })
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	if err := a.Do(ctx, func(*Scene) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Do() = %v, want context.Canceled", err)
	}
	close(block)
}
