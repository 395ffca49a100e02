package cubetwist

import "github.com/google/uuid"

// Option configures an Assembly.
type Option func(*config)

type config struct {
	spacing    float64
	easing     float64
	autoRotate bool
	idleRates  [3]float64
	newID      func() uuid.UUID
}

func defaultConfig() *config {
	return &config{
		spacing:    1.05,
		easing:     DefaultEasing,
		autoRotate: false,
		idleRates:  [3]float64{0.15, 0.1, 0.05},
		newID:      uuid.New,
	}
}

// WithSpacing sets the distance between neighbouring cubelet centres.
// The default of 1.05 leaves a small gap between unit cubes.
func WithSpacing(spacing float64) Option {
	return func(c *config) {
		c.spacing = spacing
	}
}

// WithEasing sets the snap rate used by face groups (default 10).
// Higher values settle faster.
func WithEasing(rate float64) Option {
	return func(c *config) {
		c.easing = rate
	}
}

// WithAutoRotate sets the initial idle-spin flag.
func WithAutoRotate(enabled bool) Option {
	return func(c *config) {
		c.autoRotate = enabled
	}
}

// WithIdleRates sets the idle-spin angular rates in radians per second about
// the x, y and z axes.
func WithIdleRates(x, y, z float64) Option {
	return func(c *config) {
		c.idleRates = [3]float64{x, y, z}
	}
}

// WithIDGenerator replaces the scene identifier generator.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(c *config) {
		c.newID = fn
	}
}
