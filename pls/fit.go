package pls

import (
	"time"

	"gonum.org/v1/gonum/mat"

	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
	"github.com/YuminosukeSato/ikpls/pkg/log"
)

// Fit fits an IKPLS model with nComponents components using the engine selected by
// WithAlgorithm (Algorithm1 by default). X and Y are not modified.
func Fit(X, Y mat.Matrix, nComponents int, opts ...Option) (*Model, error) {
	cfg := newConfig(opts)
	return fit(&cfg, "pls.Fit", X, Y, nComponents)
}

// FitAlgorithm1 fits with IKPLS Algorithm #1, which also returns the scores T.
func FitAlgorithm1(X, Y mat.Matrix, nComponents int, opts ...Option) (*Model, error) {
	cfg := newConfig(append(opts, WithAlgorithm(Algorithm1)))
	return fit(&cfg, "pls.FitAlgorithm1", X, Y, nComponents)
}

// FitAlgorithm2 fits with IKPLS Algorithm #2, which touches X only to form XᵀX and XᵀY.
func FitAlgorithm2(X, Y mat.Matrix, nComponents int, opts ...Option) (*Model, error) {
	cfg := newConfig(append(opts, WithAlgorithm(Algorithm2)))
	return fit(&cfg, "pls.FitAlgorithm2", X, Y, nComponents)
}

func fit(cfg *config, op string, X, Y mat.Matrix, nComponents int) (model *Model, err error) {
	defer ikplsErrors.Recover(&err, op)

	if cfg.algorithm != Algorithm1 && cfg.algorithm != Algorithm2 {
		return nil, ikplsErrors.Wrapf(ikplsErrors.ErrUnknownAlgorithm, "%s: algorithm %d", op, int(cfg.algorithm))
	}

	n, k, m, err := validateFitInput(op, X, Y, nComponents)
	if err != nil {
		return nil, err
	}

	event := FitEvent{
		Algorithm:  cfg.algorithm,
		Samples:    n,
		Features:   k,
		Targets:    m,
		Components: nComponents,
	}
	logger := cfg.logger.With(log.AlgorithmKey, int(cfg.algorithm))
	cfg.logger = logger
	logger.Info("Fit started",
		log.OperationKey, log.OperationFit,
		log.PhaseKey, log.PhaseTraining,
		log.SamplesKey, n,
		log.FeaturesKey, k,
		log.TargetsKey, m,
		log.ComponentsKey, nComponents,
		log.EigenSolverKey, cfg.weights.Solver.String(),
	)
	cfg.observer.FitStarted(event)
	start := time.Now()

	switch cfg.algorithm {
	case Algorithm1:
		model, err = fitAlgorithm1(cfg, event, X, Y)
	default:
		model, err = fitAlgorithm2(cfg, event, X, Y)
	}

	elapsed := time.Since(start)
	cfg.observer.FitFinished(event, elapsed, err)
	if err != nil {
		logger.Error("Fit failed", err, log.OperationKey, log.OperationFit)
		return nil, err
	}

	logger.Info("Fit completed",
		log.OperationKey, log.OperationFit,
		log.DurationMsKey, elapsed.Milliseconds(),
		log.DegenerateFromKey, model.degenerateFrom,
	)
	return model, nil
}

// frobeniusSq returns the sum of squared entries of a.
func frobeniusSq(a mat.Matrix) float64 {
	f := mat.Norm(a, 2)
	return f * f
}
