package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/algoflow/pkg/cache"
	apperrors "github.com/matzehuels/algoflow/pkg/errors"
	"github.com/matzehuels/algoflow/pkg/render"
	"github.com/matzehuels/algoflow/pkg/scene"
	"github.com/matzehuels/algoflow/pkg/visual"
)

// simulateOpts holds the command-line flags for the simulate command.
type simulateOpts struct {
	render        renderOpts
	frames        int     // fixed frame count; 0 settles
	maxFrames     int     // settle bound
	epsilon       float64 // settle threshold on kinetic energy
	steps         bool    // input is a timeline
	width, height float64 // viewport override
	noCache       bool
}

// simulateCommand creates the simulate command.
func (c *CLI) simulateCommand() *cobra.Command {
	opts := simulateOpts{maxFrames: defaultMaxFrames, epsilon: defaultEpsilon}

	cmd := &cobra.Command{
		Use:   "simulate [state.json|state.yaml]",
		Short: "Run the force simulation and export the resulting frame",
		Long: `Run the force simulation over a structure and export the resulting frame.

Without --frames the simulation runs until the kinetic energy drops below
--epsilon or --max-frames is reached. With --steps the input is a list of
animation steps and one frame is written per step; positions carry over
between steps of the same structure type.

Settled frames are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
	}

	formats := opts.render.bind(cmd)
	cmd.Flags().IntVarP(&opts.frames, "frames", "n", 0, "run exactly this many frames (default: settle)")
	cmd.Flags().IntVar(&opts.maxFrames, "max-frames", opts.maxFrames, "upper bound on frames when settling")
	cmd.Flags().Float64Var(&opts.epsilon, "epsilon", opts.epsilon, "kinetic energy below which the scene is settled")
	cmd.Flags().BoolVar(&opts.steps, "steps", false, "treat the input as a timeline of steps")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts.render.formats = parseFormats(*formats, render.FormatSVG)
		if err := validateFormats(opts.render.formats, frameFormats...); err != nil {
			return err
		}
		if opts.frames < 0 || opts.maxFrames <= 0 {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "frame counts must be positive")
		}
		return c.runSimulate(cmd.Context(), cmd.ErrOrStderr(), args[0], opts)
	}

	return cmd
}

// runSimulate computes or loads the frames and writes every artifact.
func (c *CLI) runSimulate(ctx context.Context, stderr io.Writer, input string, opts simulateOpts) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", input)
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read %s", input)
	}

	store := c.newCache(cfg, opts.noCache)
	defer store.Close()
	keyer := newKeyer()

	sceneOpts := c.sceneOptions(cfg, opts.width, opts.height)
	key := keyer.FrameKey(cache.Hash(data), cache.FrameKeyOpts{
		Viewport:  sceneOpts.Viewport,
		Layout:    sceneOpts.Layout,
		Physics:   sceneOpts.Physics,
		Frames:    opts.frames,
		MaxFrames: opts.maxFrames,
		Epsilon:   opts.epsilon,
		Steps:     opts.steps,
	})

	spinner := newSpinner(ctx, stderr, "Simulating...")
	spinner.Start()

	frames, cached, err := c.loadFrames(ctx, cache.WithHooks(store, cache.KeyTypeFrame), key, cfg.Cache.TTL.Duration, func() ([]*scene.Frame, error) {
		return simulate(ctx, input, data, sceneOpts, opts, func(p simProgress) {
			spinner.SetStatus("%s", p)
		})
	})
	if err != nil {
		spinner.StopWithError("Simulation failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	a := &artifacts{
		opts:  opts.render,
		cache: cache.WithHooks(store, cache.KeyTypeArtifact),
		keyer: keyer,
		ttl:   cfg.Cache.TTL.Duration,
	}
	base := trimExt(input) + ".frame"
	multi := len(opts.render.formats) > 1
	for i, f := range frames {
		step := -1
		if opts.steps {
			step = i
		}
		for _, format := range opts.render.formats {
			out, _, err := a.render(ctx, f, format)
			if err != nil {
				return fmt.Errorf("render %s: %w", format, err)
			}
			path := formatPath(base, opts.render.output, multi, step, format)
			if err := writeFile(path, out); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			printFile(path)
		}
	}

	last := frames[len(frames)-1]
	printSuccess("Simulation complete")
	printStats(len(last.Nodes), len(last.Edges), cached)
	if last.Seq > 0 {
		printDetail("%d frames, energy %.4f", last.Seq, last.Status.Energy)
	}
	return nil
}

// loadFrames returns the cached frames for key or computes and stores them.
func (c *CLI) loadFrames(ctx context.Context, store cache.Cache, key string, ttl time.Duration, compute func() ([]*scene.Frame, error)) ([]*scene.Frame, bool, error) {
	if data, ok, err := store.Get(ctx, key); err == nil && ok {
		var frames []*scene.Frame
		if err := json.Unmarshal(data, &frames); err == nil && len(frames) > 0 {
			c.Logger.Debug("frame cache hit", "key", key)
			return frames, true, nil
		}
	}

	prog := newProgress(c.Logger)
	frames, err := compute()
	if err != nil {
		return nil, false, err
	}
	prog.done(fmt.Sprintf("Simulated %d frame(s)", len(frames)))

	data, err := json.Marshal(frames)
	if err != nil {
		return nil, false, err
	}
	if err := store.Set(ctx, key, data, ttl); err != nil {
		c.Logger.Warn("cache write failed", "error", err)
	}
	return frames, false, nil
}

// settleChunk is the number of frames settled between progress reports.
const settleChunk = 50

// simProgress is the state of a running simulation.
type simProgress struct {
	Step, Steps int // zero-based step and step count; Steps is 0 without a timeline
	Frame       int // frames run in the current step
	Energy      float64
}

func (p simProgress) String() string {
	s := fmt.Sprintf("frame %d · energy %.4f", p.Frame, p.Energy)
	if p.Steps > 0 {
		s = fmt.Sprintf("step %d/%d · %s", p.Step+1, p.Steps, s)
	}
	return s
}

// simulate runs the scene over the input document and snapshots the result.
// report, if non-nil, receives progress after each frame or settle chunk.
func simulate(ctx context.Context, input string, data []byte, sceneOpts scene.Options, opts simulateOpts, report func(simProgress)) ([]*scene.Frame, error) {
	format := visual.FormatFromPath(input)
	sc := scene.New(ctx, sceneOpts)
	if report == nil {
		report = func(simProgress) {}
	}

	run := func(p simProgress) {
		if opts.frames > 0 {
			for range opts.frames {
				sc.Frame(time.Now())
				p.Frame++
				p.Energy = sc.Engine().Energy()
				report(p)
			}
			return
		}
		for p.Frame < opts.maxFrames {
			n := sc.Settle(min(settleChunk, opts.maxFrames-p.Frame), opts.epsilon)
			p.Frame += n
			p.Energy = sc.Engine().Energy()
			report(p)
			if p.Energy < opts.epsilon || ctx.Err() != nil {
				return
			}
		}
	}

	if !opts.steps {
		s, err := visual.DecodeBytes(data, format)
		if err != nil {
			return nil, err
		}
		if err := sc.Load(s); err != nil {
			return nil, err
		}
		run(simProgress{})
		return []*scene.Frame{sc.Snapshot()}, nil
	}

	steps, err := visual.ReadTimeline(bytes.NewReader(data), format)
	if err != nil {
		return nil, err
	}
	if err := sc.LoadTimeline(steps, time.Second); err != nil {
		return nil, err
	}
	tl := sc.Timeline()
	frames := make([]*scene.Frame, 0, tl.Len())
	for i := range tl.Len() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tl.Seek(i)
		sc.Frame(time.Now())
		run(simProgress{Step: i, Steps: tl.Len()})
		frames = append(frames, sc.Snapshot())
	}
	return frames, nil
}
