package scene

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/algoflow/pkg/config"
	"github.com/matzehuels/algoflow/pkg/interact"
	"github.com/matzehuels/algoflow/pkg/layout"
	"github.com/matzehuels/algoflow/pkg/physics"
)

// Options configures a Scene.
type Options struct {
	Viewport layout.Viewport
	Layout   layout.Config
	Physics  physics.Params
	PinchOn  float64
	PinchOff float64
	Hit      interact.HitTester
	Logger   *log.Logger
}

// DefaultOptions returns the built-in settings.
func DefaultOptions() Options {
	return Options{
		Viewport: layout.DefaultViewport,
		Layout:   layout.DefaultConfig(),
		Physics:  physics.DefaultParams(),
		PinchOn:  interact.DefaultPinchOn,
		PinchOff: interact.DefaultPinchOff,
		Hit:      interact.DefaultHitTester(),
	}
}

// OptionsFromConfig builds Options from loaded settings.
func OptionsFromConfig(cfg *config.Config, logger *log.Logger) Options {
	return Options{
		Viewport: cfg.Viewport,
		Layout:   cfg.Layout,
		Physics:  cfg.Physics,
		PinchOn:  cfg.Gesture.PinchOn,
		PinchOff: cfg.Gesture.PinchOff,
		Hit:      cfg.Gesture.HitTester(),
		Logger:   logger,
	}
}

func (o *Options) setDefaults() {
	d := DefaultOptions()
	if o.Viewport.Width <= 0 || o.Viewport.Height <= 0 {
		o.Viewport = d.Viewport
	}
	if o.Physics == (physics.Params{}) {
		o.Physics = d.Physics
	}
	if o.PinchOn <= 0 || o.PinchOff <= o.PinchOn {
		o.PinchOn, o.PinchOff = d.PinchOn, d.PinchOff
	}
	if o.Hit.BlockSize <= 0 {
		o.Hit = d.Hit
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}
