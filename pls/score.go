package pls

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ikpls/metrics"
	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
)

// ComponentScore is the prediction quality with a given number of components.
type ComponentScore struct {
	Components int     `json:"components" yaml:"components"`
	RMSE       float64 `json:"rmse" yaml:"rmse"`
	R2         float64 `json:"r2" yaml:"r2"`
}

// Score evaluates the model on (X, Y) for every component count 1..A.
func (m *Model) Score(X, Y mat.Matrix) ([]ComponentScore, error) {
	const op = "Model.Score"
	if Y == nil {
		return nil, ikplsErrors.NewValueError(op, "Y must not be nil")
	}
	rows, err := m.checkFeatures(op, X)
	if err != nil {
		return nil, err
	}
	ry, cy := Y.Dims()
	if ry != rows {
		return nil, ikplsErrors.NewDimensionError(op, rows, ry, 0)
	}
	if cy != m.nTargets {
		return nil, ikplsErrors.NewDimensionError(op, m.nTargets, cy, 1)
	}

	preds, err := m.PredictAll(X)
	if err != nil {
		return nil, err
	}

	scores := make([]ComponentScore, len(preds))
	for i, pred := range preds {
		rmse, err := metrics.RMSEMatrix(Y, pred)
		if err != nil {
			return nil, ikplsErrors.Wrap(err, op)
		}
		r2, err := metrics.R2ScoreMatrix(Y, pred)
		if err != nil {
			return nil, ikplsErrors.Wrap(err, op)
		}
		scores[i] = ComponentScore{Components: i + 1, RMSE: rmse, R2: r2}
	}
	return scores, nil
}

// BestComponents returns the component count with the lowest RMSE in scores.
func BestComponents(scores []ComponentScore) int {
	if len(scores) == 0 {
		return 0
	}
	best := 0
	for i, s := range scores {
		if s.RMSE < scores[best].RMSE {
			best = i
		}
	}
	return scores[best].Components
}

// ExplainedVarianceX returns, per component, the fraction of the training sum of squares of
// X reproduced by tₐpₐᵀ. Because the scores are orthogonal the fractions add up.
func (m *Model) ExplainedVarianceX() []float64 {
	return m.explained(m.p, m.ssX)
}

// ExplainedVarianceY is ExplainedVarianceX for Y and the loadings Q.
func (m *Model) ExplainedVarianceY() []float64 {
	return m.explained(m.q, m.ssY)
}

func (m *Model) explained(loadings *mat.Dense, total float64) []float64 {
	out := make([]float64, m.components)
	if total == 0 {
		return out
	}
	for a := range out {
		col := loadings.ColView(a)
		out[a] = m.tTt[a] * mat.Dot(col, col) / total
	}
	return out
}
