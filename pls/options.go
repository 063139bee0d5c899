package pls

import (
	"github.com/YuminosukeSato/ikpls/core/linalg"
	"github.com/YuminosukeSato/ikpls/pkg/log"
)

// Algorithm selects the IKPLS engine.
type Algorithm int

const (
	// Algorithm1 deflates a private copy of X and Y and returns scores T.
	Algorithm1 Algorithm = 1
	// Algorithm2 works on XᵀX and XᵀY and never forms T.
	Algorithm2 Algorithm = 2
)

// String returns "ikpls1" or "ikpls2".
func (a Algorithm) String() string {
	switch a {
	case Algorithm1:
		return "ikpls1"
	case Algorithm2:
		return "ikpls2"
	default:
		return "unknown"
	}
}

// defaultParallelThreshold is the row count above which prediction fans out.
const defaultParallelThreshold = 1000

type config struct {
	algorithm         Algorithm
	weights           linalg.Options
	observer          FitObserver
	logger            log.Logger
	parallelThreshold int
}

func defaultConfig() config {
	return config{
		algorithm:         Algorithm1,
		weights:           linalg.DefaultOptions(),
		observer:          NopObserver{},
		parallelThreshold: defaultParallelThreshold,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.GetLoggerWithName("pls")
	}
	return cfg
}

// Option configures fitting and prediction.
type Option func(*config)

// WithAlgorithm selects the engine. The default is Algorithm1.
func WithAlgorithm(a Algorithm) Option {
	return func(c *config) {
		c.algorithm = a
	}
}

// WithEigenSolver selects how the dominant weight direction is computed.
func WithEigenSolver(s linalg.Solver) Option {
	return func(c *config) {
		c.weights.Solver = s
	}
}

// WithPowerIteration selects power iteration with the given iteration bound and tolerance on
// 1 − |⟨v_k, v_{k−1}⟩|. Non-positive values keep the defaults.
func WithPowerIteration(maxIter int, tol float64) Option {
	return func(c *config) {
		c.weights.Solver = linalg.PowerIterationSolver
		if maxIter > 0 {
			c.weights.MaxIter = maxIter
		}
		if tol > 0 {
			c.weights.Tol = tol
		}
	}
}

// WithZeroTolerance sets the absolute norm at or below which a weight vector is treated as
// zero. The default is machine epsilon.
func WithZeroTolerance(tol float64) Option {
	return func(c *config) {
		c.weights.ZeroTol = tol
	}
}

// WithObserver registers a FitObserver.
func WithObserver(o FitObserver) Option {
	return func(c *config) {
		if o == nil {
			o = NopObserver{}
		}
		c.observer = o
	}
}

// WithLogger overrides the "pls" logger.
func WithLogger(l log.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithParallelThreshold sets the row count above which prediction runs in parallel.
func WithParallelThreshold(rows int) Option {
	return func(c *config) {
		c.parallelThreshold = rows
	}
}
