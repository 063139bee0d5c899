package pls

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ikpls/core/linalg"
	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
	"github.com/YuminosukeSato/ikpls/pkg/log"
)

// components accumulates the per-component artifacts shared by both engines.
type components struct {
	event FitEvent
	cfg   *config

	w, p, q, r *mat.Dense
	t          *mat.Dense
	b          []*mat.Dense
	tTt        []float64

	// weightNorm is the norm of the weight extracted for the component in progress.
	weightNorm     float64
	degenerateFrom int
}

func newComponents(cfg *config, event FitEvent, withScores bool) *components {
	k, m, a := event.Features, event.Targets, event.Components
	c := &components{
		event:          event,
		cfg:            cfg,
		w:              mat.NewDense(k, a, nil),
		p:              mat.NewDense(k, a, nil),
		q:              mat.NewDense(m, a, nil),
		r:              mat.NewDense(k, a, nil),
		b:              make([]*mat.Dense, a),
		tTt:            make([]float64, a),
		degenerateFrom: -1,
	}
	if withScores {
		c.t = mat.NewDense(event.Samples, a, nil)
	}
	return c
}

// weight extracts the weight of component i from the current cross-covariance. It returns
// nil when the component is degenerate, after zero-filling the remaining components.
func (c *components) weight(i int, cross mat.Matrix) (*mat.VecDense, error) {
	wt, err := linalg.WeightVector(cross, c.cfg.weights)
	if err != nil {
		return nil, err
	}
	if wt.Degenerate {
		c.degenerate(i, wt.Norm)
		return nil, nil
	}
	c.weightNorm = wt.Norm
	return wt.W, nil
}

// rotation returns r = w − Σ_{j<i} (p_jᵀw)·r_j.
func (c *components) rotation(i int, w *mat.VecDense) *mat.VecDense {
	r := mat.VecDenseCopyOf(w)
	for j := 0; j < i; j++ {
		r.AddScaledVec(r, -mat.Dot(c.p.ColView(j), w), c.r.ColView(j))
	}
	return r
}

// store records component i and appends its rank-1 term to the regression stack.
func (c *components) store(i int, w, p, q, r, t *mat.VecDense, tTt float64) {
	setCol(c.w, i, w)
	setCol(c.p, i, p)
	setCol(c.q, i, q)
	setCol(c.r, i, r)
	if c.t != nil && t != nil {
		setCol(c.t, i, t)
	}
	c.tTt[i] = tTt

	var prev *mat.Dense
	if i > 0 {
		prev = c.b[i-1]
	}
	c.b[i] = appendRegression(prev, r, q)
	c.cfg.observer.ComponentFitted(c.event, i, c.weightNorm)

	c.cfg.logger.Debug("Component fitted",
		log.ComponentIndexKey, i,
		"pls.t_t", tTt,
		"pls.p_norm", floats.Norm(mat.Col(nil, i, c.p), 2),
	)
}

func setCol(dst *mat.Dense, j int, v mat.Vector) {
	for i := 0; i < v.Len(); i++ {
		dst.Set(i, j, v.AtVec(i))
	}
}

// degenerate warns about component i and freezes every later regression matrix at B[i-1].
// W, P, Q, R and T columns from i on stay zero.
func (c *components) degenerate(i int, norm float64) {
	ikplsErrors.Warn(ikplsErrors.NewWeightCloseToZeroWarning(i, norm))
	c.degenerateFrom = i
	c.cfg.observer.ComponentDegenerate(c.event, i, norm)

	k, m := c.event.Features, c.event.Targets
	for j := i; j < len(c.b); j++ {
		if i == 0 {
			c.b[j] = mat.NewDense(k, m, nil)
		} else {
			c.b[j] = mat.DenseCopyOf(c.b[i-1])
		}
	}
}

// appendRegression returns prev + r·qᵀ, or r·qᵀ when prev is nil.
func appendRegression(prev *mat.Dense, r, q mat.Vector) *mat.Dense {
	next := mat.NewDense(r.Len(), q.Len(), nil)
	if prev == nil {
		next.Outer(1, r, q)
		return next
	}
	next.RankOne(prev, 1, r, q)
	return next
}

// RegressionMatrix computes R[:, :a]·Q[:, :a]ᵀ directly. It is the closed form of the stack
// the engines build incrementally.
func RegressionMatrix(r, q mat.Matrix, a int) (*mat.Dense, error) {
	k, ar := r.Dims()
	m, aq := q.Dims()
	if ar != aq {
		return nil, ikplsErrors.NewDimensionError("pls.RegressionMatrix", ar, aq, 1)
	}
	if a < 1 || a > ar {
		return nil, ikplsErrors.NewValidationError("n_components", invalidTruncationReason(ar), a)
	}

	rSub := mat.DenseCopyOf(r).Slice(0, k, 0, a)
	qSub := mat.DenseCopyOf(q).Slice(0, m, 0, a)
	out := mat.NewDense(k, m, nil)
	out.Mul(rSub, qSub.T())
	return out, nil
}

func (c *components) model(nSamples int, ssX, ssY float64) *Model {
	return &Model{
		algorithm:         c.event.Algorithm,
		nSamples:          nSamples,
		nFeatures:         c.event.Features,
		nTargets:          c.event.Targets,
		components:        c.event.Components,
		w:                 c.w,
		p:                 c.p,
		q:                 c.q,
		r:                 c.r,
		t:                 c.t,
		b:                 c.b,
		tTt:               c.tTt,
		ssX:               ssX,
		ssY:               ssY,
		degenerateFrom:    c.degenerateFrom,
		parallelThreshold: c.cfg.parallelThreshold,
	}
}
