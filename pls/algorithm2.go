package pls

import (
	"gonum.org/v1/gonum/mat"

	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
)

// fitAlgorithm2 runs IKPLS Algorithm #2. X is read once to form G = XᵀX and C = XᵀY; each
// component then deflates these K×K and K×M matrices instead of the data.
func fitAlgorithm2(cfg *config, event FitEvent, X, Y mat.Matrix) (*Model, error) {
	const op = "pls.Algorithm2"
	n, k, m := event.Samples, event.Features, event.Targets

	g := mat.NewSymDense(k, nil)
	g.SymOuterK(1, X.T())
	cross := mat.NewDense(k, m, nil)
	cross.Mul(X.T(), Y)
	ssX, ssY := mat.Trace(g), frobeniusSq(Y)

	comps := newComponents(cfg, event, false)
	gw := mat.NewVecDense(k, nil)

	for i := 0; i < event.Components; i++ {
		w, err := comps.weight(i, cross)
		if err != nil {
			return nil, ikplsErrors.Wrapf(err, "%s: component %d", op, i)
		}
		if w == nil {
			break
		}

		gw.MulVec(g, w)
		tTt := mat.Dot(w, gw)
		if err := ikplsErrors.CheckScalar(op+" tTt", tTt, i); err != nil {
			return nil, err
		}
		if tTt <= cfg.weights.ZeroTol {
			comps.degenerate(i, tTt)
			break
		}

		p := mat.NewVecDense(k, nil)
		p.ScaleVec(1/tTt, gw)

		q := mat.NewVecDense(m, nil)
		q.MulVec(cross.T(), w)
		q.ScaleVec(1/tTt, q)

		r := comps.rotation(i, w)

		g.SymRankOne(g, -tTt, p)
		cross.RankOne(cross, -tTt, p, q)

		comps.store(i, w, p, q, r, nil, tTt)
	}

	return comps.model(n, ssX, ssY), nil
}
