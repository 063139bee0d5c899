package pls

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ikpls/core/parallel"
	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
)

// Predict returns X·B[a], the N'×M prediction using the first a components.
func (m *Model) Predict(X mat.Matrix, a int) (_ *mat.Dense, err error) {
	const op = "Model.Predict"
	defer ikplsErrors.Recover(&err, op)

	if err := m.checkComponents(op, a); err != nil {
		return nil, err
	}
	rows, err := m.checkFeatures(op, X)
	if err != nil {
		return nil, err
	}

	xd := mat.DenseCopyOf(X)
	out := mat.NewDense(rows, m.nTargets, nil)
	m.forRowBlocks(rows, func(start, end int) {
		dst := out.Slice(start, end, 0, m.nTargets).(*mat.Dense)
		dst.Mul(xd.Slice(start, end, 0, m.nFeatures), m.b[a-1])
	})
	return out, nil
}

// PredictAll returns one N'×M prediction per component count; element a-1 uses a components.
func (m *Model) PredictAll(X mat.Matrix) (_ []*mat.Dense, err error) {
	const op = "Model.PredictAll"
	defer ikplsErrors.Recover(&err, op)

	rows, err := m.checkFeatures(op, X)
	if err != nil {
		return nil, err
	}

	xd := mat.DenseCopyOf(X)
	outs := make([]*mat.Dense, m.components)
	for a := range outs {
		outs[a] = mat.NewDense(rows, m.nTargets, nil)
	}
	m.forRowBlocks(rows, func(start, end int) {
		block := xd.Slice(start, end, 0, m.nFeatures)
		for a, b := range m.b {
			dst := outs[a].Slice(start, end, 0, m.nTargets).(*mat.Dense)
			dst.Mul(block, b)
		}
	})
	return outs, nil
}

// Transform returns the N'×a scores X·R[:, :a]. For the training X this reproduces the
// first a columns of T, so it also serves Algorithm2 models, which do not store T.
func (m *Model) Transform(X mat.Matrix, a int) (_ *mat.Dense, err error) {
	const op = "Model.Transform"
	defer ikplsErrors.Recover(&err, op)

	if err := m.checkComponents(op, a); err != nil {
		return nil, err
	}
	rows, err := m.checkFeatures(op, X)
	if err != nil {
		return nil, err
	}

	xd := mat.DenseCopyOf(X)
	rSub := m.r.Slice(0, m.nFeatures, 0, a)
	out := mat.NewDense(rows, a, nil)
	m.forRowBlocks(rows, func(start, end int) {
		dst := out.Slice(start, end, 0, a).(*mat.Dense)
		dst.Mul(xd.Slice(start, end, 0, m.nFeatures), rSub)
	})
	return out, nil
}

func (m *Model) forRowBlocks(rows int, fn func(start, end int)) {
	threshold := m.parallelThreshold
	if threshold <= 0 {
		threshold = defaultParallelThreshold
	}
	parallel.ParallelizeWithThreshold(rows, threshold, fn)
}
