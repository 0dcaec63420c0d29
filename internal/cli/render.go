package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/algoflow/pkg/cache"
	apperrors "github.com/matzehuels/algoflow/pkg/errors"
	"github.com/matzehuels/algoflow/pkg/observability"
	"github.com/matzehuels/algoflow/pkg/render"
	"github.com/matzehuels/algoflow/pkg/render/nodelink"
	"github.com/matzehuels/algoflow/pkg/render/svg"
	"github.com/matzehuels/algoflow/pkg/scene"
)

// renderOpts holds the flags shared by render and simulate.
type renderOpts struct {
	output   string   // output file (single format) or base path (multiple)
	formats  []string // json, svg, dot, png, pdf
	detailed bool     // labels and pointer names in DOT output
	graphviz bool     // draw svg/png/pdf through graphviz instead of the native renderer
	scale    float64  // png scale factor
	cursor   bool     // draw the input cursor
}

func (o *renderOpts) bind(cmd *cobra.Command) *string {
	var formats string
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), json, dot, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&o.detailed, "detailed", false, "include labels and pointers in DOT and graphviz output")
	cmd.Flags().BoolVar(&o.graphviz, "graphviz", false, "render svg/png/pdf through graphviz neato")
	cmd.Flags().Float64Var(&o.scale, "scale", 2, "png scale factor")
	cmd.Flags().BoolVar(&o.cursor, "cursor", false, "draw the pointer or hand cursor")
	return &formats
}

// artifacts renders frames into output formats, caching everything except
// the frame JSON itself.
type artifacts struct {
	opts  renderOpts
	cache cache.Cache
	keyer cache.Keyer
	ttl   time.Duration
}

// render returns the bytes of f in format and whether they came from cache.
func (a *artifacts) render(ctx context.Context, f *scene.Frame, format string) ([]byte, bool, error) {
	frameJSON, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, false, err
	}
	if format == render.FormatJSON {
		return frameJSON, false, nil
	}

	key := a.keyer.ArtifactKey(cache.Hash(frameJSON), cache.ArtifactKeyOpts{
		Format:   a.variant(format),
		Detailed: a.opts.detailed,
		Scale:    a.opts.scale,
	})
	if data, ok, err := a.cache.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	start := time.Now()
	data, err := a.draw(ctx, f, format)
	observability.Simulation().OnRender(ctx, format, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if err := a.cache.Set(ctx, key, data, a.ttl); err != nil {
		return nil, false, err
	}
	return data, false, nil
}

// variant distinguishes native and graphviz drawings in cache keys.
func (a *artifacts) variant(format string) string {
	if a.opts.graphviz && format != render.FormatDOT {
		return "graphviz-" + format
	}
	return format
}

func (a *artifacts) draw(ctx context.Context, f *scene.Frame, format string) ([]byte, error) {
	dot := func() string { return nodelink.ToDOT(f, nodelink.Options{Detailed: a.opts.detailed}) }
	switch {
	case format == render.FormatDOT:
		return []byte(dot()), nil
	case a.opts.graphviz && format == render.FormatSVG:
		return nodelink.RenderSVG(ctx, dot())
	case a.opts.graphviz && format == render.FormatPNG:
		return nodelink.RenderPNG(ctx, dot(), a.opts.scale)
	case a.opts.graphviz && format == render.FormatPDF:
		return nodelink.RenderPDF(ctx, dot())
	}

	svgOpts := []svg.SVGOption{svg.WithExplanation(), svg.WithBackground("#0f172a")}
	if a.opts.cursor {
		svgOpts = append(svgOpts, svg.WithCursor())
	}
	drawing := svg.RenderSVG(f, svgOpts...)
	switch format {
	case render.FormatSVG:
		return drawing, nil
	case render.FormatPNG:
		return render.ToPNG(ctx, drawing, a.opts.scale)
	case render.FormatPDF:
		return render.ToPDF(ctx, drawing)
	}
	return nil, apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q", format)
}

// renderCommand creates the render command for drawing a saved frame.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		opts    renderOpts
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "render [frame.json]",
		Short: "Render a saved frame to SVG, DOT, PNG or PDF",
		Long: `Render a frame written by 'simulate -f json'.

The native renderer draws rounded blocks, arrows, weights and pointer labels.
With --graphviz the frame is converted to DOT with pinned positions and drawn
by neato instead. PNG and PDF need rsvg-convert on PATH.`,
		Args: cobra.ExactArgs(1),
	}
	formats := opts.bind(cmd)
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		opts.formats = parseFormats(*formats, render.FormatSVG)
		if err := validateFormats(opts.formats, render.FormatSVG, render.FormatDOT, render.FormatPNG, render.FormatPDF); err != nil {
			return err
		}
		return c.runRender(cmd.Context(), args[0], opts, noCache)
	}

	return cmd
}

// runRender reads the frame and writes each requested format.
func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts, noCache bool) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	f, err := readFrame(input)
	if err != nil {
		return err
	}

	store := c.newCache(cfg, noCache)
	defer store.Close()
	a := &artifacts{
		opts:  opts,
		cache: cache.WithHooks(store, cache.KeyTypeArtifact),
		keyer: newKeyer(),
		ttl:   cfg.Cache.TTL.Duration,
	}

	prog := newProgress(c.Logger)
	for _, format := range opts.formats {
		data, cached, err := a.render(ctx, f, format)
		if err != nil {
			return fmt.Errorf("render %s: %w", format, err)
		}
		path := formatPath(trimExt(input), opts.output, len(opts.formats) > 1, -1, format)
		if err := writeFile(path, data); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		c.Logger.Debug("wrote artifact", "format", format, "path", path, "cached", cached)
		printFile(path)
	}
	prog.done(fmt.Sprintf("Rendered %d nodes", len(f.Nodes)))
	return nil
}

// readFrame decodes a frame JSON file.
func readFrame(path string) (*scene.Frame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	var f scene.Frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidFormat, err, "decode frame %s", path)
	}
	if f.Viewport.Width <= 0 || f.Viewport.Height <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "frame %s has no viewport", path)
	}
	return &f, nil
}

// formatPath picks the output path for one artifact. Without an explicit
// output the name derives from base. step < 0 means the output is not part
// of a timeline.
func formatPath(base, output string, multi bool, step int, format string) string {
	if output != "" {
		if !multi && step < 0 {
			return output
		}
		base = trimExt(output)
	}
	if step >= 0 {
		base += fmt.Sprintf(".step%02d", step)
	}
	return base + "." + format
}
