// Package metrics provides regression scores for single and multi-output predictions.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/ikpls/pkg/errors"
)

// MSE computes the mean squared error.
func MSE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MSE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MSE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE computes the root mean squared error.
func RMSE(yTrue, yPred *mat.VecDense) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE computes the mean absolute error.
func MAE(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("MAE", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("MAE", n, yPred.Len(), 0)
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// R2Score computes the coefficient of determination. It fails when yTrue is constant.
func R2Score(yTrue, yPred *mat.VecDense) (float64, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError("R2Score", "empty vector")
	}

	if yPred.Len() != n {
		return 0, errors.NewDimensionError("R2Score", n, yPred.Len(), 0)
	}

	truth := make([]float64, n)
	for i := range truth {
		truth[i] = yTrue.AtVec(i)
	}
	yMean := stat.Mean(truth, nil)

	var tss, rss float64
	for i, v := range truth {
		d := v - yMean
		e := v - yPred.AtVec(i)
		tss += d * d
		rss += e * e
	}
	if tss == 0 {
		return 0, errors.Newf("R2Score: total sum of squares is zero (no variance in yTrue)")
	}

	return 1 - rss/tss, nil
}

func checkSameShape(op string, yTrue, yPred mat.Matrix) (rows, cols int, err error) {
	rTrue, cTrue := yTrue.Dims()
	rPred, cPred := yPred.Dims()

	if rTrue == 0 || cTrue == 0 {
		return 0, 0, errors.NewValueError(op, "empty matrix")
	}
	if rTrue != rPred {
		return 0, 0, errors.NewDimensionError(op, rTrue, rPred, 0)
	}
	if cTrue != cPred {
		return 0, 0, errors.NewDimensionError(op, cTrue, cPred, 1)
	}
	return rTrue, cTrue, nil
}

// MSEMatrix computes the mean squared error over every entry of N×M matrices, which equals
// the uniform average of the per-column errors.
func MSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	rows, cols, err := checkSameShape("MSEMatrix", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	var diff mat.Dense
	diff.Sub(yTrue, yPred)
	f := mat.Norm(&diff, 2)
	return f * f / float64(rows*cols), nil
}

// RMSEMatrix is the square root of MSEMatrix.
func RMSEMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	mse, err := MSEMatrix(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// R2ScoreColumns returns R² per column. A constant column scores 1 when predicted exactly
// and 0 otherwise, matching scikit-learn's r2_score.
func R2ScoreColumns(yTrue, yPred mat.Matrix) ([]float64, error) {
	_, cols, err := checkSameShape("R2ScoreColumns", yTrue, yPred)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, cols)
	for j := 0; j < cols; j++ {
		truth := mat.Col(nil, j, yTrue)
		pred := mat.Col(nil, j, yPred)

		mean := stat.Mean(truth, nil)
		var tss, rss float64
		for i := range truth {
			d := truth[i] - mean
			e := truth[i] - pred[i]
			tss += d * d
			rss += e * e
		}

		switch {
		case tss != 0:
			scores[j] = 1 - rss/tss
		case rss == 0:
			scores[j] = 1
		default:
			scores[j] = 0
		}
	}
	return scores, nil
}

// R2ScoreMatrix is the uniform average of R2ScoreColumns.
func R2ScoreMatrix(yTrue, yPred mat.Matrix) (float64, error) {
	scores, err := R2ScoreColumns(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return stat.Mean(scores, nil), nil
}
