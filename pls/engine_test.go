package pls

import (
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
)

// Shapes covering the three weight extraction branches: M = 1, 1 < M < K and M ≥ K.
var shapes = []struct {
	n, k, m int
}{
	{40, 6, 1},
	{40, 6, 3},
	{40, 6, 9},
}

func TestEngineInvariants(t *testing.T) {
	for _, s := range shapes {
		for _, e := range engines {
			t.Run(fmt.Sprintf("%s/N%dK%dM%d", e.name, s.n, s.k, s.m), func(t *testing.T) {
				X, Y := randomProblem(7, s.n, s.k, s.m)
				m, err := e.fit(X, Y, s.k)
				require.NoError(t, err)
				require.Equal(t, -1, m.DegenerateFrom())
				assert.Equal(t, s.k, m.ValidComponents())

				assertOrthogonalColumns(t, m.W(), 1e-8, "W")

				// Scores are X·R for both engines; Algorithm1 must also store them.
				T, err := m.Transform(X, s.k)
				require.NoError(t, err)
				if stored := m.T(); stored != nil {
					assertMatrixNear(t, stored, T, 1e-8, "X·R against stored T")
				} else {
					assert.Equal(t, Algorithm2, m.Algorithm())
				}
				assertOrthogonalColumns(t, T, 1e-8, "T")

				// With A = rank(X) the scores and loadings reconstruct X.
				var recon mat.Dense
				recon.Mul(T, m.P().T())
				assertMatrixNear(t, X, &recon, 1e-8, "T·Pᵀ")
			})
		}
	}
}

func TestRegressionStackMatchesDirectFormula(t *testing.T) {
	for _, s := range shapes {
		for _, e := range engines {
			t.Run(fmt.Sprintf("%s/M%d", e.name, s.m), func(t *testing.T) {
				X, Y := randomProblem(11, s.n, s.k, s.m)
				m, err := e.fit(X, Y, s.k)
				require.NoError(t, err)

				bs := m.Bs()
				require.Len(t, bs, s.k)
				for a := 1; a <= s.k; a++ {
					direct, err := RegressionMatrix(m.R(), m.Q(), a)
					require.NoError(t, err)
					assertMatrixNear(t, direct, bs[a-1], 1e-10, "B[%d]", a)

					b, err := m.B(a)
					require.NoError(t, err)
					assert.True(t, mat.Equal(b, bs[a-1]))
				}
			})
		}
	}
}

func TestRegressionMatrixErrors(t *testing.T) {
	r := mat.NewDense(4, 2, nil)

	_, err := RegressionMatrix(r, mat.NewDense(3, 3, nil), 1)
	var dimErr *ikplsErrors.DimensionError
	require.ErrorAs(t, err, &dimErr)

	for _, a := range []int{0, 3} {
		_, err := RegressionMatrix(r, mat.NewDense(3, 2, nil), a)
		var valErr *ikplsErrors.ValidationError
		require.ErrorAs(t, err, &valErr)
		assert.Equal(t, "n_components", valErr.ParamName)
	}
}

func TestAlgorithmsAgree(t *testing.T) {
	for _, s := range shapes {
		t.Run(fmt.Sprintf("M%d", s.m), func(t *testing.T) {
			X, Y := randomProblem(23, 60, s.k, s.m)
			a := s.k - 1

			m1, err := FitAlgorithm1(X, Y, a)
			require.NoError(t, err)
			m2, err := FitAlgorithm2(X, Y, a)
			require.NoError(t, err)

			signs := columnSigns(m1.W(), m2.W())
			assertMatrixNear(t, m1.W(), flipColumns(m2.W(), signs), 1e-8, "W")
			assertMatrixNear(t, m1.P(), flipColumns(m2.P(), signs), 1e-8, "P")
			assertMatrixNear(t, m1.Q(), flipColumns(m2.Q(), signs), 1e-8, "Q")
			assertMatrixNear(t, m1.R(), flipColumns(m2.R(), signs), 1e-8, "R")

			b1, b2 := m1.Bs(), m2.Bs()
			for i := range b1 {
				assertMatrixNear(t, b1[i], b2[i], 1e-8, "B[%d]", i+1)
			}
			assert.InDeltaSlice(t, m1.ExplainedVarianceX(), m2.ExplainedVarianceX(), 1e-10)
			assert.InDeltaSlice(t, m1.ExplainedVarianceY(), m2.ExplainedVarianceY(), 1e-10)
		})
	}
}

func TestFitDoesNotMutateInputs(t *testing.T) {
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			X, Y := randomProblem(3, 30, 5, 2)
			xCopy, yCopy := mat.DenseCopyOf(X), mat.DenseCopyOf(Y)

			_, err := e.fit(X, Y, 4)
			require.NoError(t, err)
			assert.True(t, mat.Equal(xCopy, X), "X was modified")
			assert.True(t, mat.Equal(yCopy, Y), "Y was modified")
		})
	}
}

func TestConstantTargetsWarnAndZeroFill(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	X := mat.NewDense(100, 3, nil)
	X.Apply(func(_, _ int, _ float64) float64 { return rng.Float64() }, X)

	for m := 1; m <= 4; m++ {
		for _, e := range engines {
			t.Run(fmt.Sprintf("%s/M%d", e.name, m), func(t *testing.T) {
				Y := mat.NewDense(100, m, nil)

				var (
					model *Model
					err   error
				)
				warnings := ikplsErrors.CatchWarnings(func() {
					model, err = e.fit(X, Y, 2)
				})
				require.NoError(t, err)

				require.Len(t, warnings, 1)
				var w *ikplsErrors.WeightCloseToZeroWarning
				require.ErrorAs(t, warnings[0], &w)
				assert.Contains(t, w.Error(), ikplsErrors.WeightCloseToZeroMessage)
				assert.Equal(t, 0, w.Component)

				assert.Equal(t, 0, model.DegenerateFrom())
				assert.Equal(t, 0, model.ValidComponents())
				assertMatrixNear(t, mat.NewDense(3, 2, nil), model.R(), 1e-12, "R")
				for _, b := range model.Bs() {
					assertMatrixNear(t, mat.NewDense(3, m, nil), b, 1e-12, "B")
				}

				pred, err := model.Predict(X, 2)
				require.NoError(t, err)
				assertMatrixNear(t, Y, pred, 1e-12, "prediction")
			})
		}
	}
}

func TestRankDeficientXFreezesLaterComponents(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))
	X := mat.NewDense(30, 3, nil)
	Y := mat.NewDense(30, 1, nil)
	for i := 0; i < 30; i++ {
		a, b := rng.NormFloat64(), rng.NormFloat64()
		X.SetRow(i, []float64{a, b, a + b})
		Y.Set(i, 0, 2*a-b+0.1*rng.NormFloat64())
	}

	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			var (
				model *Model
				err   error
			)
			warnings := ikplsErrors.CatchWarnings(func() {
				model, err = e.fit(X, Y, 3, WithZeroTolerance(1e-8))
			})
			require.NoError(t, err)
			require.Len(t, warnings, 1)

			assert.Equal(t, 2, model.DegenerateFrom())
			assert.Equal(t, 2, model.ValidComponents())

			w := model.W()
			assert.Equal(t, []float64{0, 0, 0}, mat.Col(nil, 2, w))
			assert.NotEqual(t, []float64{0, 0, 0}, mat.Col(nil, 1, w))

			bs := model.Bs()
			assert.True(t, mat.Equal(bs[1], bs[2]), "B[3] must equal B[2]")
		})
	}
}

func TestFitValidation(t *testing.T) {
	X, Y := randomProblem(1, 10, 4, 2)
	withNaN := mat.DenseCopyOf(X)
	withNaN.Set(3, 1, math.NaN())

	tests := []struct {
		name  string
		X, Y  mat.Matrix
		a     int
		check func(t *testing.T, err error)
	}{
		{"nil X", nil, Y, 2, isType[*ikplsErrors.ValueError]},
		{"empty X", &mat.Dense{}, Y, 2, func(t *testing.T, err error) {
			assert.ErrorIs(t, err, ikplsErrors.ErrEmptyData)
		}},
		{"row mismatch", X, mat.NewDense(9, 2, nil), 2, func(t *testing.T, err error) {
			var dimErr *ikplsErrors.DimensionError
			require.ErrorAs(t, err, &dimErr)
			assert.Equal(t, 0, dimErr.Axis)
		}},
		{"zero components", X, Y, 0, isComponentError},
		{"more components than features", X, Y, 5, isComponentError},
		{"components not below samples", mat.NewDense(4, 6, seq(24)), mat.NewDense(4, 1, seq(4)), 4, isComponentError},
		{"NaN in X", withNaN, Y, 2, isType[*ikplsErrors.NumericalInstabilityError]},
	}

	for _, tt := range tests {
		for _, e := range engines {
			t.Run(tt.name+"/"+e.name, func(t *testing.T) {
				m, err := e.fit(tt.X, tt.Y, tt.a)
				require.Error(t, err)
				assert.Nil(t, m)
				tt.check(t, err)
			})
		}
	}
}

func TestFitUnknownAlgorithm(t *testing.T) {
	X, Y := randomProblem(1, 10, 4, 2)
	_, err := Fit(X, Y, 2, WithAlgorithm(Algorithm(3)))
	require.ErrorIs(t, err, ikplsErrors.ErrUnknownAlgorithm)
}

func isType[E error](t *testing.T, err error) {
	t.Helper()
	var target E
	require.ErrorAs(t, err, &target)
}

func isComponentError(t *testing.T, err error) {
	t.Helper()
	var valErr *ikplsErrors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "n_components", valErr.ParamName)
}

func seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i*i%7) + float64(i)
	}
	return out
}

func TestPowerIterationMatchesEigenSolverOnBlockData(t *testing.T) {
	// Two independent feature/target groups; XᵀY = 2S, whose largest diagonal entry belongs
	// to the weaker group.
	S := mat.NewDense(3, 3, []float64{
		1, 0.9, 0,
		0.9, 1, 0,
		0, 0, 1.5,
	})
	X := mat.NewDense(6, 3, nil)
	Y := mat.NewDense(6, 3, nil)
	for i := 0; i < 3; i++ {
		X.Set(i, i, 1)
		X.Set(i+3, i, -1)
		for j := 0; j < 3; j++ {
			Y.Set(i, j, S.At(i, j))
			Y.Set(i+3, j, -S.At(i, j))
		}
	}

	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			want, err := e.fit(X, Y, 2)
			require.NoError(t, err)
			assert.InDelta(t, 1/math.Sqrt2, math.Abs(want.W().At(0, 0)), 1e-12)
			assert.InDelta(t, 0, want.W().At(2, 0), 1e-12)

			var got *Model
			warnings := ikplsErrors.CatchWarnings(func() {
				got, err = e.fit(X, Y, 2, WithPowerIteration(0, 0))
			})
			require.NoError(t, err)
			assert.Empty(t, warnings)

			signs := columnSigns(want.W(), got.W())
			assertMatrixNear(t, want.W(), flipColumns(got.W(), signs), 1e-6, "W")
			assertMatrixNear(t, want.P(), flipColumns(got.P(), signs), 1e-6, "P")
			assertMatrixNear(t, want.Q(), flipColumns(got.Q(), signs), 1e-6, "Q")
			for a := 1; a <= 2; a++ {
				wb, err := want.B(a)
				require.NoError(t, err)
				gb, err := got.B(a)
				require.NoError(t, err)
				assertMatrixNear(t, wb, gb, 1e-6, "B[%d]", a)
			}
		})
	}
}
