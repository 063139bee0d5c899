package pls

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

var engines = []struct {
	name string
	fit  func(X, Y mat.Matrix, a int, opts ...Option) (*Model, error)
}{
	{"Algorithm1", FitAlgorithm1},
	{"Algorithm2", FitAlgorithm2},
}

// randomProblem returns X (n×k) uniform in [-1, 1) and Y = X·B + noise with m targets.
func randomProblem(seed uint64, n, k, m int) (*mat.Dense, *mat.Dense) {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	X := mat.NewDense(n, k, nil)
	X.Apply(func(_, _ int, _ float64) float64 { return 2*rng.Float64() - 1 }, X)

	B := mat.NewDense(k, m, nil)
	B.Apply(func(_, _ int, _ float64) float64 { return rng.NormFloat64() }, B)

	Y := mat.NewDense(n, m, nil)
	Y.Mul(X, B)
	Y.Apply(func(_, _ int, v float64) float64 { return v + 0.05*rng.NormFloat64() }, Y)
	return X, Y
}

func assertMatrixNear(t *testing.T, want, got mat.Matrix, atol float64, msgAndArgs ...interface{}) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, []int{wr, wc}, []int{gr, gc}, msgAndArgs...)
	if !mat.EqualApprox(want, got, atol) {
		var diff mat.Dense
		diff.Sub(want, got)
		t.Fatalf("matrices differ: inf-norm of difference %g (atol %g) %v\nwant:\n%v\ngot:\n%v",
			mat.Norm(&diff, math.Inf(1)), atol, msgAndArgs,
			mat.Formatted(want, mat.Squeeze()), mat.Formatted(got, mat.Squeeze()))
	}
}

// assertOrthogonalColumns checks that the off-diagonal entries of aᵀa are below atol.
func assertOrthogonalColumns(t *testing.T, a mat.Matrix, atol float64, name string) {
	t.Helper()
	var g mat.Dense
	g.Mul(a.T(), a)
	r, _ := g.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			if i != j {
				require.InDelta(t, 0, g.At(i, j), atol, "%s columns %d and %d", name, i, j)
			}
		}
	}
}

// columnSigns returns, per column, the sign s with got[:,j] ≈ s·want[:,j].
func columnSigns(want, got mat.Matrix) []float64 {
	r, c := want.Dims()
	signs := make([]float64, c)
	for j := 0; j < c; j++ {
		best := 0
		for i := 1; i < r; i++ {
			if math.Abs(want.At(i, j)) > math.Abs(want.At(best, j)) {
				best = i
			}
		}
		signs[j] = 1
		if got.At(best, j)*want.At(best, j) < 0 {
			signs[j] = -1
		}
	}
	return signs
}

// flipColumns returns a copy of m with column j multiplied by signs[j].
func flipColumns(m mat.Matrix, signs []float64) *mat.Dense {
	out := mat.DenseCopyOf(m)
	out.Apply(func(_, j int, v float64) float64 { return v * signs[j] }, out)
	return out
}
