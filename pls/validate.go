package pls

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
)

// validateFitInput checks shapes, the component count and finiteness, and returns N, K, M.
func validateFitInput(op string, X, Y mat.Matrix, nComponents int) (n, k, m int, err error) {
	if X == nil || Y == nil {
		return 0, 0, 0, ikplsErrors.NewValueError(op, "X and Y must not be nil")
	}

	n, k = X.Dims()
	ny, m := Y.Dims()
	if n == 0 || k == 0 || ny == 0 || m == 0 {
		return 0, 0, 0, ikplsErrors.NewModelError(op, "empty data", ikplsErrors.ErrEmptyData)
	}
	if ny != n {
		return 0, 0, 0, ikplsErrors.NewDimensionError(op, n, ny, 0)
	}
	if nComponents < 1 || nComponents > k || nComponents >= n {
		reason := fmt.Sprintf("must satisfy 1 <= A <= min(K=%d, N-1=%d)", k, n-1)
		return 0, 0, 0, ikplsErrors.NewValidationError("n_components", reason, nComponents)
	}

	if err := ikplsErrors.CheckMatrix(op+" X", X, 0); err != nil {
		return 0, 0, 0, err
	}
	if err := ikplsErrors.CheckMatrix(op+" Y", Y, 0); err != nil {
		return 0, 0, 0, err
	}
	return n, k, m, nil
}

func invalidTruncationReason(a int) string {
	return fmt.Sprintf("must be in [1, %d]", a)
}

// checkComponents validates a truncation against the fitted component count.
func (m *Model) checkComponents(op string, a int) error {
	if a < 1 || a > m.components {
		return ikplsErrors.Wrap(
			ikplsErrors.NewValidationError("n_components", invalidTruncationReason(m.components), a), op)
	}
	return nil
}

// checkFeatures validates the column count of a prediction input.
func (m *Model) checkFeatures(op string, X mat.Matrix) (int, error) {
	if X == nil {
		return 0, ikplsErrors.NewValueError(op, "X must not be nil")
	}
	rows, cols := X.Dims()
	if cols != m.nFeatures {
		return 0, ikplsErrors.NewDimensionError(op, m.nFeatures, cols, 1)
	}
	return rows, nil
}
