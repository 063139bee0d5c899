package linalg

import (
	"gonum.org/v1/gonum/mat"
)

// Weight is the normalised weight vector of one PLS component.
type Weight struct {
	// W is the unit weight vector of length K. It is nil when Degenerate is true.
	W *mat.VecDense
	// Norm is the magnitude used for the degeneracy test.
	Norm float64
	// Degenerate reports Norm ≤ Options.ZeroTol.
	Degenerate bool
}

// WeightVector extracts the dominant weight direction from the K×M cross-covariance c.
//
//   - M = 1: w = c/‖c‖.
//   - 1 < M < K: q is the dominant eigenvector of cᵀc and w = cq/‖cq‖.
//   - M ≥ K: w is the dominant eigenvector of ccᵀ and the degeneracy norm is ‖cᵀw‖.
func WeightVector(c mat.Matrix, opts Options) (Weight, error) {
	k, m := c.Dims()

	switch {
	case m == 1:
		w := mat.NewVecDense(k, nil)
		for i := 0; i < k; i++ {
			w.SetVec(i, c.At(i, 0))
		}
		return normalise(w, opts.ZeroTol), nil

	case m < k:
		var s mat.SymDense
		s.SymOuterK(1, c.T())
		q, err := DominantEigenvector(&s, opts)
		if err != nil {
			return Weight{}, err
		}
		w := mat.NewVecDense(k, nil)
		w.MulVec(c, q)
		return normalise(w, opts.ZeroTol), nil

	default:
		var s mat.SymDense
		s.SymOuterK(1, c)
		w, err := DominantEigenvector(&s, opts)
		if err != nil {
			return Weight{}, err
		}
		w.ScaleVec(1/mat.Norm(w, 2), w)
		proj := mat.NewVecDense(m, nil)
		proj.MulVec(c.T(), w)
		norm := mat.Norm(proj, 2)
		if norm <= opts.ZeroTol {
			return Weight{Norm: norm, Degenerate: true}, nil
		}
		return Weight{W: w, Norm: norm}, nil
	}
}

func normalise(w *mat.VecDense, zeroTol float64) Weight {
	norm := mat.Norm(w, 2)
	if norm <= zeroTol {
		return Weight{Norm: norm, Degenerate: true}
	}
	w.ScaleVec(1/norm, w)
	return Weight{W: w, Norm: norm}
}
