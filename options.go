package mudensity

import (
	"fmt"
	"math"
	"slices"
)

// Default configuration values.
const (
	// DefaultGridResolution is the default cell size in mm along both axes.
	DefaultGridResolution = 1.0

	// DefaultMaxLeafGap is the default maximum distance in mm between
	// opposing leaves. It bounds the MLC axis of the grid.
	DefaultMaxLeafGap = 400.0

	// DefaultMinStepPerPixel is the default minimum number of time samples
	// per pixel travelled by the fastest edge of a segment.
	DefaultMinStepPerPixel = 10

	// DefaultGantryTolerance is the default tolerance in degrees used when
	// matching control points to a gantry angle.
	DefaultGantryTolerance = 3.0
)

// Agility returns the leaf pair widths of the Elekta Agility head:
// 80 leaf pairs, each 5 mm wide at the isocentre.
func Agility() []float64 {
	widths := make([]float64, 80)
	for i := range widths {
		widths[i] = 5
	}
	return widths
}

// Option configures an MU density computation.
//
// Example:
//
//	density, err := mudensity.Calculate(ctx, mu, mlc, jaw,
//		mudensity.WithGridResolution(0.5),
//		mudensity.WithMinStepPerPixel(20),
//	)
type Option func(*Config)

// Config is the resolved set of options. Obtain one with NewConfig.
type Config struct {
	// GridResolution is the cell size in mm along both axes.
	GridResolution float64
	// MaxLeafGap is the maximum distance in mm between opposing leaves.
	MaxLeafGap float64
	// LeafPairWidths holds the width in mm of every leaf pair, ordered
	// from the bottom (Y1) of the leaf stack to the top (Y2).
	LeafPairWidths []float64
	// MinStepPerPixel is the minimum number of time samples per pixel
	// crossed within a segment. Higher is smoother and slower.
	MinStepPerPixel int
	// GantryTolerance is used only when masking by gantry angle.
	GantryTolerance float64
	// AllowMissingAngles controls whether masking by a gantry angle that
	// matches no control point is an error.
	AllowMissingAngles bool
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		GridResolution:  DefaultGridResolution,
		MaxLeafGap:      DefaultMaxLeafGap,
		LeafPairWidths:  Agility(),
		MinStepPerPixel: DefaultMinStepPerPixel,
		GantryTolerance: DefaultGantryTolerance,
	}
}

// NewConfig applies opts on top of the defaults. The returned Config owns
// its LeafPairWidths slice.
func NewConfig(opts ...Option) Config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	cfg.LeafPairWidths = slices.Clone(cfg.LeafPairWidths)
	return cfg
}

// WithGridResolution sets the cell size in mm. It must exactly divide half
// the maximum leaf gap and every leaf pair width.
func WithGridResolution(mm float64) Option {
	return func(c *Config) {
		c.GridResolution = mm
	}
}

// WithMaxLeafGap sets the maximum distance in mm between opposing leaves.
func WithMaxLeafGap(mm float64) Option {
	return func(c *Config) {
		c.MaxLeafGap = mm
	}
}

// WithLeafPairWidths sets the width of every leaf pair in mm. The number of
// widths defines the number of leaf pairs.
func WithLeafPairWidths(mm ...float64) Option {
	return func(c *Config) {
		c.LeafPairWidths = slices.Clone(mm)
	}
}

// WithMinStepPerPixel sets the minimum number of time samples per pixel
// crossed within a segment.
func WithMinStepPerPixel(steps int) Option {
	return func(c *Config) {
		c.MinStepPerPixel = steps
	}
}

// WithGantryTolerance sets the tolerance in degrees used to match control
// points to a requested gantry angle.
func WithGantryTolerance(degrees float64) Option {
	return func(c *Config) {
		c.GantryTolerance = degrees
	}
}

// WithAllowMissingAngles makes gantry masking return an empty record rather
// than ErrMissingAngle when an angle matches no control point.
func WithAllowMissingAngles(allow bool) Option {
	return func(c *Config) {
		c.AllowMissingAngles = allow
	}
}

// validate checks every precondition of the grid constructor.
func (c Config) validate() error {
	if err := c.validateLeaves(); err != nil {
		return err
	}
	if !(c.MaxLeafGap > 0) || math.IsInf(c.MaxLeafGap, 0) {
		return fmt.Errorf("%w: max leaf gap %v must be positive", ErrInvalidConfiguration, c.MaxLeafGap)
	}
	if !isMultiple(c.MaxLeafGap/2, c.GridResolution) {
		return fmt.Errorf("%w: grid resolution %v must exactly divide half the max leaf gap %v",
			ErrInvalidConfiguration, c.GridResolution, c.MaxLeafGap)
	}
	return nil
}

// validateLeaves checks the preconditions of the segment integrator: the
// resolution, the time sampling and the leaf pair widths.
func (c Config) validateLeaves() error {
	if !(c.GridResolution > 0) || math.IsInf(c.GridResolution, 0) {
		return fmt.Errorf("%w: grid resolution %v must be positive", ErrInvalidConfiguration, c.GridResolution)
	}
	if c.MinStepPerPixel < 1 {
		return fmt.Errorf("%w: min step per pixel %d must be at least 1", ErrInvalidConfiguration, c.MinStepPerPixel)
	}
	if len(c.LeafPairWidths) == 0 {
		return fmt.Errorf("%w: no leaf pair widths", ErrInvalidConfiguration)
	}
	for i, w := range c.LeafPairWidths {
		if !(w > 0) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: leaf pair %d width %v must be positive", ErrInvalidConfiguration, i, w)
		}
		if !isMultiple(w, c.GridResolution) {
			return fmt.Errorf("%w: grid resolution %v must exactly divide leaf pair %d width %v",
				ErrInvalidConfiguration, c.GridResolution, i, w)
		}
	}
	return nil
}

// isMultiple reports whether value/step is an integer.
// Divisibility is strict; callers quantise nearly divisible values.
func isMultiple(value, step float64) bool {
	q := value / step
	return q == math.Trunc(q)
}
