package pls

import (
	"gonum.org/v1/gonum/mat"

	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
)

// fitAlgorithm1 runs IKPLS Algorithm #1 on private copies of X and Y. Each component takes
// its weight from Xₐᵀ Yₐ, forms the score t = Xₐw and deflates both residuals by t.
func fitAlgorithm1(cfg *config, event FitEvent, X, Y mat.Matrix) (*Model, error) {
	const op = "pls.Algorithm1"
	n, k, m := event.Samples, event.Features, event.Targets

	xa := mat.DenseCopyOf(X)
	ya := mat.DenseCopyOf(Y)
	ssX, ssY := frobeniusSq(xa), frobeniusSq(ya)

	comps := newComponents(cfg, event, true)
	cross := mat.NewDense(k, m, nil)
	t := mat.NewVecDense(n, nil)

	for i := 0; i < event.Components; i++ {
		cross.Mul(xa.T(), ya)

		w, err := comps.weight(i, cross)
		if err != nil {
			return nil, ikplsErrors.Wrapf(err, "%s: component %d", op, i)
		}
		if w == nil {
			break
		}

		t.MulVec(xa, w)
		tTt := mat.Dot(t, t)
		if err := ikplsErrors.CheckScalar(op+" tTt", tTt, i); err != nil {
			return nil, err
		}
		if tTt <= cfg.weights.ZeroTol {
			comps.degenerate(i, tTt)
			break
		}

		p := mat.NewVecDense(k, nil)
		p.MulVec(xa.T(), t)
		p.ScaleVec(1/tTt, p)

		q := mat.NewVecDense(m, nil)
		q.MulVec(ya.T(), t)
		q.ScaleVec(1/tTt, q)

		r := comps.rotation(i, w)

		xa.RankOne(xa, -1, t, p)
		ya.RankOne(ya, -1, t, q)

		comps.store(i, w, p, q, r, t, tTt)
	}

	return comps.model(n, ssX, ssY), nil
}
