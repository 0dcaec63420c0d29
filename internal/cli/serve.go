package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/algoflow/pkg/metrics"
	"github.com/matzehuels/algoflow/pkg/server"
)

// serveOpts holds flag overrides for the server section of the config.
type serveOpts struct {
	addr        string
	maxSessions int
	ttl         time.Duration
	fps         int
}

// serveCommand creates the serve command hosting the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host interactive scenes over HTTP",
		Long: `Host interactive scenes over HTTP.

Each session owns a scene driven at the configured frame rate. Clients load
structures, send pointer, hand and camera input, step through timelines and
fetch frames as JSON, SVG or DOT. Prometheus metrics are served on /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().IntVar(&opts.maxSessions, "max-sessions", 0, "concurrent session limit (default from config)")
	cmd.Flags().DurationVar(&opts.ttl, "session-ttl", 0, "idle time before a session is evicted (default from config)")
	cmd.Flags().IntVar(&opts.fps, "fps", 0, "frames per second per session (default from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cmd *cobra.Command, opts serveOpts) error {
	loaded, err := c.config()
	if err != nil {
		return err
	}
	cfg := *loaded
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = opts.addr
	}
	if cmd.Flags().Changed("max-sessions") {
		cfg.Server.MaxSessions = opts.maxSessions
	}
	if cmd.Flags().Changed("session-ttl") {
		cfg.Server.SessionTTL.Duration = opts.ttl
	}
	if cmd.Flags().Changed("fps") {
		cfg.Gesture.FPS = opts.fps
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	reg := metrics.NewRegistry()
	reg.Install()

	srv := server.New(&cfg, server.WithLogger(c.Logger), server.WithMetrics(reg))
	printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
	printDetail("Sessions: max %d, ttl %s, %d fps", cfg.Server.MaxSessions, cfg.Server.SessionTTL.Duration, cfg.Gesture.FPS)
	return srv.Run(ctx)
}
