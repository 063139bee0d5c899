// Package pls fits Partial Least Squares regression models with the Improved Kernel PLS
// (IKPLS) algorithms.
//
// A single fit with A components yields the weights W, loadings P and Q, rotations R and a
// stack of regression matrices B[1..A], so predictions can be made with any component count
// from 1 to A without refitting. Two engines are provided:
//
//   - Algorithm #1 works on (a private copy of) X and Y and also returns the scores T.
//   - Algorithm #2 works on the Gram matrix XᵀX and the cross-covariance XᵀY only, which is
//     faster when N is much larger than K, and never materialises T.
//
// Both engines produce the same model up to floating-point error. Inputs are expected to be
// preprocessed already (see package preprocessing); the engines never centre or scale.
//
// Example:
//
//	model, err := pls.FitAlgorithm2(X, Y, 10)
//	if err != nil {
//	    return err
//	}
//	yHat, err := model.Predict(Xtest, 5) // first five components
//
// When a component's weight vector vanishes, a *errors.WeightCloseToZeroWarning is raised
// through errors.Warn, that component and every later one are zero-filled, and the fit
// succeeds. Model.DegenerateFrom reports where this happened.
package pls
