// Package ikpls provides Partial Least Squares regression for Go using the Improved Kernel
// PLS algorithms (Dayal & MacGregor, 1997).
//
// Both engines produce the same model. Algorithm #1 deflates copies of X and Y and also
// returns the score matrix T. Algorithm #2 works on XᵀX and XᵀY only, so its cost per
// component does not depend on the number of samples.
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/ikpls/pls"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{-1.5, 0.5, -0.5, -0.5, 0.5, 0.5, 1.5, -0.5})
//	    Y := mat.NewDense(4, 1, []float64{-3, -1, 1, 3})
//
//	    model, err := pls.Fit(X, Y, 1, pls.WithAlgorithm(pls.Algorithm2))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    pred, err := model.Predict(X, 1)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(mat.Formatted(pred))
//	}
//
// Inputs are used as given: center or scale them first, for example with
// preprocessing.StandardScaler.
//
// # Packages
//
//   - pls: the two IKPLS engines, the fitted Model, prediction and persistence
//   - preprocessing: column centering and scaling
//   - metrics: RMSE and R² for vectors and matrices
//   - core/linalg: dominant eigenvector solvers used for the weight vectors
//   - core/parallel: row-block parallelism used by prediction
//   - core/model: the shared weights format and model state handling
//   - pkg/errors, pkg/log: error types and structured logging
//
// The ikpls command (cmd/ikpls) fits, applies and evaluates models on CSV files.
package ikpls
