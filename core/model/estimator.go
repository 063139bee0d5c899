package model

import "gonum.org/v1/gonum/mat"

// ComponentFitter is a multi-output latent-variable model trained with a fixed number of
// components.
type ComponentFitter interface {
	Fit(X, Y mat.Matrix, nComponents int) error
}

// TruncatedPredictor predicts with any component count up to the one used for fitting.
// Predict without nComponents uses all fitted components.
type TruncatedPredictor interface {
	Predict(X mat.Matrix, nComponents ...int) (*mat.Dense, error)
	PredictAll(X mat.Matrix) ([]*mat.Dense, error)
}

// Regressor combines fitting and truncated prediction.
type Regressor interface {
	ComponentFitter
	TruncatedPredictor
	IsFitted() bool
}
