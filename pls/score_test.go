package pls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
)

func TestScoreTrainingRMSEDecreases(t *testing.T) {
	// For a single target the training fit with a components is least squares over a nested
	// Krylov subspace, so the training RMSE never increases with a.
	X, Y := randomProblem(41, 60, 6, 1)
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			m, err := e.fit(X, Y, 6)
			require.NoError(t, err)

			scores, err := m.Score(X, Y)
			require.NoError(t, err)
			require.Len(t, scores, 6)
			for i, s := range scores {
				assert.Equal(t, i+1, s.Components)
				if i > 0 {
					assert.LessOrEqual(t, s.RMSE, scores[i-1].RMSE+1e-12)
				}
			}
			assert.Greater(t, scores[5].R2, 0.9)
			assert.Equal(t, 6, BestComponents(scores))
		})
	}
}

func TestScoreErrors(t *testing.T) {
	X, Y := randomProblem(42, 20, 4, 2)
	m, err := FitAlgorithm1(X, Y, 2)
	require.NoError(t, err)

	var dimErr *ikplsErrors.DimensionError
	_, err = m.Score(X, mat.NewDense(19, 2, nil))
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 0, dimErr.Axis)

	_, err = m.Score(X, mat.NewDense(20, 3, nil))
	require.ErrorAs(t, err, &dimErr)
	assert.Equal(t, 1, dimErr.Axis)

	var valueErr *ikplsErrors.ValueError
	_, err = m.Score(X, nil)
	require.ErrorAs(t, err, &valueErr)
}

func TestBestComponents(t *testing.T) {
	assert.Equal(t, 0, BestComponents(nil))
	assert.Equal(t, 2, BestComponents([]ComponentScore{
		{Components: 1, RMSE: 3},
		{Components: 2, RMSE: 1},
		{Components: 3, RMSE: 1.5},
	}))
}

func TestExplainedVariance(t *testing.T) {
	X, Y := randomProblem(43, 50, 5, 2)
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			m, err := e.fit(X, Y, 5)
			require.NoError(t, err)

			ev := m.ExplainedVarianceX()
			require.Len(t, ev, 5)
			for _, v := range ev {
				assert.GreaterOrEqual(t, v, 0.0)
			}
			// With A = rank(X) every bit of X is reproduced.
			assert.InDelta(t, 1, floats.Sum(ev), 1e-10)

			evY := m.ExplainedVarianceY()
			assert.Less(t, floats.Sum(evY), 1+1e-10)
			assert.Greater(t, floats.Sum(evY), 0.9)
		})
	}
}
