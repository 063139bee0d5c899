// Package linalg extracts the dominant PLS weight direction from a cross-covariance matrix.
//
// The weight for one component is the dominant left singular vector of C = XᵀY. Depending on
// the shape of C it is obtained from the smaller of the two Gram matrices CᵀC (M×M) and CCᵀ
// (K×K), either by a full symmetric eigendecomposition or by power iteration.
package linalg

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
)

// Solver selects how the dominant eigenvector of a symmetric matrix is computed.
type Solver int

const (
	// EigenSolver uses gonum's full symmetric eigendecomposition.
	EigenSolver Solver = iota
	// PowerIterationSolver iterates v ← Sv/‖Sv‖ and falls back to EigenSolver when it does
	// not converge within MaxIter steps.
	PowerIterationSolver
)

// String returns the solver name used in logs and configuration.
func (s Solver) String() string {
	switch s {
	case EigenSolver:
		return "eigen"
	case PowerIterationSolver:
		return "power"
	default:
		return "unknown"
	}
}

// ParseSolver converts "eigen" or "power" to a Solver.
func ParseSolver(name string) (Solver, error) {
	switch name {
	case "", "eigen":
		return EigenSolver, nil
	case "power":
		return PowerIterationSolver, nil
	default:
		return EigenSolver, ikplsErrors.NewValidationError("eigen_solver", "must be \"eigen\" or \"power\"", name)
	}
}

// MachineEpsilon is the spacing of float64 values around 1.
const MachineEpsilon = 2.220446049250313e-16

// Options configures weight extraction.
type Options struct {
	Solver Solver
	// MaxIter bounds power iteration.
	MaxIter int
	// Tol is the power iteration stopping threshold on 1 − |⟨v_k, v_{k−1}⟩|.
	Tol float64
	// ZeroTol is the absolute threshold at or below which a weight norm counts as zero.
	ZeroTol float64
}

// DefaultOptions returns the symmetric eigendecomposition solver with machine epsilon as the
// zero threshold.
func DefaultOptions() Options {
	return Options{
		Solver:  EigenSolver,
		MaxIter: 1000,
		Tol:     1e-15,
		ZeroTol: MachineEpsilon,
	}
}

// DominantEigenvector returns a unit eigenvector for the largest eigenvalue of s.
func DominantEigenvector(s mat.Symmetric, opts Options) (*mat.VecDense, error) {
	if opts.Solver == PowerIterationSolver {
		v, ok := powerIteration(s, powerStart(s.SymmetricDim()), opts.MaxIter, opts.Tol)
		if ok {
			return v, nil
		}
		ikplsErrors.Warn(ikplsErrors.NewConvergenceWarning("PowerIteration", opts.MaxIter,
			"falling back to symmetric eigendecomposition"))
	}
	return eigenSym(s)
}

func eigenSym(s mat.Symmetric) (*mat.VecDense, error) {
	var eig mat.EigenSym
	if ok := eig.Factorize(s, true); !ok {
		return nil, ikplsErrors.NewModelError("linalg.DominantEigenvector", "symmetric eigendecomposition", ikplsErrors.ErrEigenDecomposition)
	}
	values := eig.Values(nil)
	var vectors mat.Dense
	eig.VectorsTo(&vectors)

	// Values come back ascending; take the last maximum to stay stable under ties.
	best := 0
	for i, v := range values {
		if v >= values[best] {
			best = i
		}
	}
	return mat.VecDenseCopyOf(vectors.ColView(best)), nil
}

// powerStart returns a fixed pseudo-random start vector. It has a component along every
// eigenvector except on a set of measure zero.
func powerStart(n int) *mat.VecDense {
	rng := rand.New(rand.NewPCG(startSeed, startSeed))
	v := mat.NewVecDense(n, nil)
	for i := 0; i < n; i++ {
		v.SetVec(i, rng.NormFloat64())
	}
	return v
}

const startSeed = 0x1b873593

// dominanceBound returns a lower bound on the largest eigenvalue of the PSD matrix s: the
// larger of its biggest diagonal entry and its biggest column norm.
func dominanceBound(s mat.Symmetric) float64 {
	n := s.SymmetricDim()
	bound := math.Inf(-1)
	col := make([]float64, n)
	for j := 0; j < n; j++ {
		for i := range col {
			col[i] = s.At(i, j)
		}
		bound = math.Max(bound, math.Max(s.At(j, j), floats.Norm(col, 2)))
	}
	return bound
}

// powerIteration iterates from start. It reports false when the iteration did not converge,
// collapsed onto the null space, or settled on an eigenvalue below dominanceBound, which
// means start had no component along the dominant eigenvector.
func powerIteration(s mat.Symmetric, start *mat.VecDense, maxIter int, tol float64) (*mat.VecDense, bool) {
	n := s.SymmetricDim()
	if mat.Norm(s, math.Inf(1)) == 0 {
		// Every direction is dominant for the zero matrix.
		v := mat.NewVecDense(n, nil)
		v.SetVec(0, 1)
		return v, true
	}

	v := mat.VecDenseCopyOf(start)
	norm := floats.Norm(v.RawVector().Data, 2)
	if norm == 0 {
		return nil, false
	}
	v.ScaleVec(1/norm, v)

	next := mat.NewVecDense(n, nil)
	for iter := 0; iter < maxIter; iter++ {
		next.MulVec(s, v)
		norm = floats.Norm(next.RawVector().Data, 2)
		if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
			return nil, false
		}
		next.ScaleVec(1/norm, next)

		cos := floats.Dot(next.RawVector().Data, v.RawVector().Data)
		v, next = next, v
		if 1-math.Abs(cos) <= tol {
			next.MulVec(s, v)
			if rayleigh := mat.Dot(v, next); rayleigh < dominanceBound(s)*(1-1e-10) {
				return nil, false
			}
			return v, true
		}
	}
	return nil, false
}
