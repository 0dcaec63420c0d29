// Package config loads algoflow settings from a TOML file.
//
// The file is optional. Every section falls back to the package defaults,
// and a partially filled section only overrides the keys it sets:
//
//	[viewport]
//	width = 1280
//	height = 720
//
//	[physics]
//	damping = 0.85
//
//	[gesture]
//	pinch_on = 0.05
//	pinch_off = 0.08
//
//	[server]
//	addr = ":8080"
//	session_ttl = "30m"
//
// Unknown keys are rejected so typos do not silently fall back to defaults.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/matzehuels/algoflow/pkg/errors"
	"github.com/matzehuels/algoflow/pkg/frameloop"
	"github.com/matzehuels/algoflow/pkg/interact"
	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/physics"
)

const appName = "algoflow"

// validate is a singleton validator instance.
var validate = validator.New()

// Config is the full settings tree.
type Config struct {
	Viewport layout.Viewport `toml:"viewport"`
	Layout   layout.Config   `toml:"layout"`
	Physics  physics.Params  `toml:"physics"`
	Gesture  Gesture         `toml:"gesture"`
	Server   Server          `toml:"server"`
	Cache    Cache           `toml:"cache"`
}

// Gesture holds the interaction constants.
type Gesture struct {
	PinchOn    float64 `toml:"pinch_on" validate:"gt=0"`
	PinchOff   float64 `toml:"pinch_off" validate:"gtfield=PinchOn"`
	BlockSize  float64 `toml:"block_size" validate:"gt=0"`
	HitPadding float64 `toml:"hit_padding" validate:"gte=0"`
	FPS        int     `toml:"fps" validate:"gt=0,lte=240"`
}

// Server holds the HTTP API settings.
type Server struct {
	Addr        string   `toml:"addr" validate:"required"`
	SessionTTL  Duration `toml:"session_ttl"`
	MaxSessions int      `toml:"max_sessions" validate:"gte=0"`
	MaxBodySize int64    `toml:"max_body_size" validate:"gt=0"`
}

// Cache holds the simulate cache settings.
type Cache struct {
	Enabled bool     `toml:"enabled"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
}

// Duration is a time.Duration written as a Go duration string ("30m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Viewport: layout.DefaultViewport,
		Layout:   layout.DefaultConfig(),
		Physics:  physics.DefaultParams(),
		Gesture: Gesture{
			PinchOn:    interact.DefaultPinchOn,
			PinchOff:   interact.DefaultPinchOff,
			BlockSize:  interact.DefaultBlockSize,
			HitPadding: interact.DefaultHitPadding,
			FPS:        frameloop.DefaultFPS,
		},
		Server: Server{
			Addr:        ":8080",
			SessionTTL:  Duration{30 * time.Minute},
			MaxSessions: 256,
			MaxBodySize: 4 << 20,
		},
		Cache: Cache{
			Enabled: true,
			TTL:     Duration{24 * time.Hour},
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/algoflow/config.toml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the file at path over the defaults. An empty path means the
// default location, where a missing file is not an error. An explicit
// path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := Decode(string(data), cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "config %s", path)
	}
	return cfg, nil
}

// Decode parses TOML text into cfg and validates the result.
func Decode(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return cfg.Validate()
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: failed %s %s", e.Namespace(), e.Tag(), e.Param())
		}
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "validate config")
	}
	return nil
}

// HitTester returns the configured hit tester.
func (g Gesture) HitTester() interact.HitTester {
	return interact.HitTester{BlockSize: g.BlockSize, Padding: g.HitPadding}
}

// Encode writes cfg as TOML, used by "algoflow config" to print the
// effective settings.
func Encode(w io.Writer, cfg *Config) error {
	return toml.NewEncoder(w).Encode(cfg)
}
