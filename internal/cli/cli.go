// Package cli implements the algoflow command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoflow/pkg/buildinfo"
	"github.com/matzehuels/algoflow/pkg/cache"
	"github.com/matzehuels/algoflow/pkg/config"
	apperrors "github.com/matzehuels/algoflow/pkg/errors"
	"github.com/matzehuels/algoflow/pkg/render"
	"github.com/matzehuels/algoflow/pkg/scene"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "algoflow"

	// defaultMaxFrames bounds settling when no frame count is given.
	defaultMaxFrames = 2000

	// defaultEpsilon is the kinetic energy below which a scene is settled.
	defaultEpsilon = 0.01
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "algoflow lays out and animates data-structure visualizations",
		Long:         `algoflow places arrays, lists, trees, graphs and matrices on a canvas, runs a force simulation over them, and lets you drag nodes with a pointer or a pinching hand.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/algoflow/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.playCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// config loads the settings file once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// configCommand prints the effective settings.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			return config.Encode(cmd.OutOrStdout(), cfg)
		},
	}
}

// sceneOptions builds scene options from the config, with viewport flags
// taking precedence when set.
func (c *CLI) sceneOptions(cfg *config.Config, width, height float64) scene.Options {
	opts := scene.OptionsFromConfig(cfg, c.Logger)
	if width > 0 {
		opts.Viewport.Width = width
	}
	if height > 0 {
		opts.Viewport.Height = height
	}
	return opts
}

// =============================================================================
// Cache Factory
// =============================================================================

// newCache opens the frame cache, falling back to a null cache when caching
// is disabled or no directory can be resolved.
func (c *CLI) newCache(cfg *config.Config, noCache bool) cache.Cache {
	disabled := func(reason string) cache.Cache {
		c.Logger.Debug("cache disabled", "reason", reason)
		return cache.NewNullCache(reason)
	}
	switch {
	case noCache:
		return disabled("--no-cache")
	case !cfg.Cache.Enabled:
		return disabled("cache.enabled is false")
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return disabled(err.Error())
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "dir", dir, "error", err)
		return cache.NewNullCache(err.Error())
	}
	return fc
}

// newKeyer scopes keys by build version so upgrades do not read stale frames.
func newKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/algoflow/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// trimExt strips the file extension from path.
func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}

// =============================================================================
// Format Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string, def string) []string {
	if s == "" {
		return []string{def}
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(strings.ToLower(p)); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateFormats rejects formats outside allowed.
func validateFormats(formats []string, allowed ...string) error {
	for _, f := range formats {
		ok := false
		for _, a := range allowed {
			if f == a {
				ok = true
				break
			}
		}
		if !ok {
			return apperrors.New(apperrors.ErrCodeInvalidFormat, "unsupported format %q (want %s)", f, strings.Join(allowed, ", "))
		}
	}
	return nil
}

// frameFormats are the outputs simulate and render can produce.
var frameFormats = []string{render.FormatJSON, render.FormatSVG, render.FormatDOT, render.FormatPNG, render.FormatPDF}

// writeFile writes data to path, creating the parent directory.
func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
