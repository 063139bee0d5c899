package pls

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ikpls/preprocessing"
)

// Linnerud physical exercise data: 20 samples, 3 exercise features, 3 physiological targets.
var (
	linnerudX = []float64{
		5, 162, 60,
		2, 110, 60,
		12, 101, 101,
		12, 105, 37,
		13, 155, 58,
		4, 101, 42,
		8, 101, 38,
		6, 125, 40,
		15, 200, 40,
		17, 251, 250,
		17, 120, 38,
		13, 210, 115,
		14, 215, 105,
		1, 50, 50,
		6, 70, 31,
		12, 210, 120,
		4, 60, 25,
		11, 230, 80,
		15, 225, 73,
		2, 110, 43,
	}
	linnerudY = []float64{
		191, 36, 50,
		189, 37, 52,
		193, 38, 58,
		162, 35, 62,
		189, 35, 46,
		182, 36, 56,
		211, 38, 56,
		167, 34, 60,
		176, 31, 74,
		154, 33, 56,
		169, 34, 50,
		166, 33, 52,
		154, 34, 64,
		247, 46, 50,
		193, 36, 46,
		202, 37, 62,
		176, 37, 54,
		157, 32, 52,
		156, 33, 54,
		138, 33, 68,
	}
)

func linnerud(t *testing.T, constantFirstTarget bool) (*mat.Dense, *mat.Dense) {
	t.Helper()
	X := mat.NewDense(20, 3, append([]float64(nil), linnerudX...))
	Y := mat.NewDense(20, 3, append([]float64(nil), linnerudY...))
	if constantFirstTarget {
		for i := 0; i < 20; i++ {
			Y.Set(i, 0, 1)
		}
	}

	Xs, err := preprocessing.NewStandardScaler(preprocessing.WithDDOF(1)).FitTransform(X)
	require.NoError(t, err)
	Ys, err := preprocessing.NewStandardScaler(preprocessing.WithDDOF(1)).FitTransform(Y)
	require.NoError(t, err)
	return Xs, Ys
}

type linnerudReference struct {
	weights, xLoadings, yLoadings *mat.Dense
	atol                          float64
}

var (
	linnerudStandard = linnerudReference{
		weights: mat.NewDense(3, 3, []float64{
			-0.61330704, -0.00443647, 0.78983213,
			-0.74697144, -0.32172099, -0.58183269,
			-0.25668686, 0.94682413, -0.19399983,
		}),
		xLoadings: mat.NewDense(3, 3, []float64{
			-0.61470416, -0.24574278, 0.78983213,
			-0.65625755, -0.14396183, -0.58183269,
			-0.51733059, 1.00609417, -0.19399983,
		}),
		yLoadings: mat.NewDense(3, 3, []float64{
			0.32456184, 0.29892183, 0.20316322,
			0.42439636, 0.61970543, 0.19320542,
			-0.13143144, -0.26348971, -0.17092916,
		}),
		atol: 2e-6,
	}

	linnerudConstantTarget = linnerudReference{
		weights: mat.NewDense(3, 3, []float64{
			-0.6273573, 0.007081799, 0.7786994,
			-0.7493417, -0.277612681, -0.6011807,
			-0.2119194, 0.960666981, -0.1794690,
		}),
		xLoadings: mat.NewDense(3, 3, []float64{
			-0.6273512, -0.22464538, 0.7786994,
			-0.6643156, -0.09871193, -0.6011807,
			-0.5125877, 1.01407380, -0.1794690,
		}),
		yLoadings: mat.NewDense(3, 3, []float64{
			0, 0, 0,
			0.4357300, 0.5828479, 0.2174802,
			-0.1353739, -0.2486423, -0.1810386,
		}),
		atol: 3e-6,
	}
)

// checkLinnerud compares W, P and Q with the reference up to one sign flip per component,
// and requires that flip to be the same for all three.
func checkLinnerud(t *testing.T, m *Model, ref linnerudReference) {
	t.Helper()

	signs := columnSigns(ref.weights, m.W())
	require.Equal(t, signs, columnSigns(ref.xLoadings, m.P()), "P sign flips differ from W")
	require.Equal(t, signs, columnSigns(ref.yLoadings, m.Q()), "Q sign flips differ from W")

	assertMatrixNear(t, ref.weights, flipColumns(m.W(), signs), ref.atol, "weights")
	assertMatrixNear(t, ref.xLoadings, flipColumns(m.P(), signs), ref.atol, "x loadings")
	assertMatrixNear(t, ref.yLoadings, flipColumns(m.Q(), signs), ref.atol, "y loadings")
}

func TestLinnerud(t *testing.T) {
	tests := []struct {
		name     string
		constant bool
		ref      linnerudReference
	}{
		{"standard", false, linnerudStandard},
		{"constant first target", true, linnerudConstantTarget},
	}

	for _, tt := range tests {
		for _, e := range engines {
			t.Run(tt.name+"/"+e.name, func(t *testing.T) {
				X, Y := linnerud(t, tt.constant)
				m, err := e.fit(X, Y, 3)
				require.NoError(t, err)
				require.Equal(t, -1, m.DegenerateFrom())
				checkLinnerud(t, m, tt.ref)
			})
		}
	}
}

func TestLinnerudPowerIteration(t *testing.T) {
	X, Y := linnerud(t, false)
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			m, err := e.fit(X, Y, 3, WithPowerIteration(0, 0))
			require.NoError(t, err)
			checkLinnerud(t, m, linnerudStandard)
		})
	}
}
