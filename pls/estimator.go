package pls

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ikpls/core/model"
	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
	"github.com/YuminosukeSato/ikpls/pkg/log"
)

// PLS is a stateful IKPLS estimator. Fit replaces the fitted model atomically; Predict may be
// called concurrently with itself and with Fit.
type PLS struct {
	state *model.StateManager
	opts  []Option
	model *Model

	logger log.Logger
}

var _ model.Regressor = (*PLS)(nil)

// New creates an unfitted estimator. opts apply to every Fit.
func New(opts ...Option) *PLS {
	cfg := newConfig(opts)
	return &PLS{
		state: model.NewStateManager(),
		opts:  opts,
		logger: cfg.logger.With(
			log.ModelNameKey, "PLS",
			log.ComponentKey, "pls",
		),
	}
}

// Fit fits nComponents components. On error the previously fitted model, if any, is kept.
func (p *PLS) Fit(X, Y mat.Matrix, nComponents int) (err error) {
	defer ikplsErrors.Recover(&err, "PLS.Fit")

	cfg := newConfig(p.opts)
	fitted, err := fit(&cfg, "PLS.Fit", X, Y, nComponents)
	if err != nil {
		return err
	}

	return p.state.WithStateMut(func() error {
		p.model = fitted
		p.state.Fitted = true
		p.state.NFeatures = fitted.nFeatures
		p.state.NTargets = fitted.nTargets
		p.state.NSamples = fitted.nSamples
		return nil
	})
}

// Predict predicts with the first nComponents components, or all of them when omitted.
func (p *PLS) Predict(X mat.Matrix, nComponents ...int) (*mat.Dense, error) {
	m, err := p.fitted("Predict")
	if err != nil {
		return nil, err
	}
	if len(nComponents) > 1 {
		return nil, ikplsErrors.NewValueError("PLS.Predict", "at most one component count may be given")
	}

	a := m.components
	if len(nComponents) == 1 {
		a = nComponents[0]
	}

	out, err := m.Predict(X, a)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Prediction completed",
		log.OperationKey, log.OperationPredict,
		log.PhaseKey, log.PhaseInference,
		log.PredsKey, out.RawMatrix().Rows,
		log.ComponentsKey, a,
	)
	return out, nil
}

// PredictAll predicts with every component count 1..A.
func (p *PLS) PredictAll(X mat.Matrix) ([]*mat.Dense, error) {
	m, err := p.fitted("PredictAll")
	if err != nil {
		return nil, err
	}
	return m.PredictAll(X)
}

// Transform returns the scores of X on the first a components.
func (p *PLS) Transform(X mat.Matrix, a int) (*mat.Dense, error) {
	m, err := p.fitted("Transform")
	if err != nil {
		return nil, err
	}
	return m.Transform(X, a)
}

// Score evaluates every component count on (X, Y).
func (p *PLS) Score(X, Y mat.Matrix) ([]ComponentScore, error) {
	m, err := p.fitted("Score")
	if err != nil {
		return nil, err
	}
	return m.Score(X, Y)
}

// Model returns the fitted model, or nil before the first successful Fit.
func (p *PLS) Model() *Model {
	var m *Model
	_ = p.state.WithState(func() error {
		m = p.model
		return nil
	})
	return m
}

// SetModel installs a previously fitted model, for example one read with ReadModel.
func (p *PLS) SetModel(m *Model) error {
	if m == nil {
		return ikplsErrors.NewValueError("PLS.SetModel", "model must not be nil")
	}
	return p.state.WithStateMut(func() error {
		p.model = m
		p.state.Fitted = true
		p.state.NFeatures = m.nFeatures
		p.state.NTargets = m.nTargets
		p.state.NSamples = m.nSamples
		return nil
	})
}

// IsFitted reports whether Fit has succeeded at least once.
func (p *PLS) IsFitted() bool {
	return p.state.IsFitted()
}

// Reset discards the fitted model.
func (p *PLS) Reset() {
	_ = p.state.WithStateMut(func() error {
		p.model = nil
		return nil
	})
	p.state.Reset()
}

func (p *PLS) fitted(method string) (*Model, error) {
	if err := p.state.RequireFitted("PLS", method); err != nil {
		return nil, err
	}
	m := p.Model()
	if m == nil {
		return nil, ikplsErrors.NewNotFittedError("PLS", method)
	}
	return m, nil
}
