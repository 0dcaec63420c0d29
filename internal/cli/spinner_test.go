package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/algoflow/pkg/scene"
)

func TestSpinnerShowsStatus(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner(context.Background(), &buf, "Simulating...")
	s.interval = 5 * time.Millisecond
	s.SetStatus("%s", simProgress{Frame: 12, Energy: 0.5})
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	out := buf.String()
	for _, want := range []string{"Simulating...", "frame 12 · energy 0.5000"} {
		if !strings.Contains(out, want) {
			t.Errorf("spinner output missing %q: %q", want, out)
		}
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner should clear its line on stop: %q", out)
	}
}

func TestSpinnerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := newSpinner(ctx, &bytes.Buffer{}, "Simulating...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after context cancellation")
	}
	s.Stop()
	s.Stop()
}

func TestSimProgressString(t *testing.T) {
	tests := []struct {
		p    simProgress
		want string
	}{
		{simProgress{Frame: 3, Energy: 1.25}, "frame 3 · energy 1.2500"},
		{simProgress{Step: 1, Steps: 4, Frame: 50}, "step 2/4 · frame 50 · energy 0.0000"},
	}
	for _, tt := range tests {
		if got := tt.p.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestSimulateReportsProgress(t *testing.T) {
	var got []simProgress
	report := func(p simProgress) { got = append(got, p) }

	opts := simulateOpts{frames: 3, maxFrames: defaultMaxFrames, epsilon: defaultEpsilon}
	if _, err := simulate(context.Background(), "graph.json", []byte(graphDoc), scene.DefaultOptions(), opts, report); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[2].Frame != 3 || got[2].Steps != 0 {
		t.Errorf("fixed-frame progress = %+v, want frames 1..3", got)
	}

	got = nil
	opts = simulateOpts{maxFrames: 120, epsilon: defaultEpsilon, steps: true}
	if _, err := simulate(context.Background(), "steps.json", []byte(stepsDoc), scene.DefaultOptions(), opts, report); err != nil {
		t.Fatal(err)
	}
	if len(got) == 0 {
		t.Fatal("settling reported no progress")
	}
	last := got[len(got)-1]
	if last.Steps != 2 || last.Step != 1 || last.Frame < 1 || last.Frame > 120 {
		t.Errorf("last settle progress = %+v", last)
	}
}
