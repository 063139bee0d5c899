package model

import "gonum.org/v1/gonum/mat"

// Transformer learns a column-wise transformation and applies it.
type Transformer interface {
	Fit(X mat.Matrix) error
	Transform(X mat.Matrix) (*mat.Dense, error)
	FitTransform(X mat.Matrix) (*mat.Dense, error)
}

// InverseTransformer maps transformed values back to the original units.
type InverseTransformer interface {
	Transformer
	InverseTransform(X mat.Matrix) (*mat.Dense, error)
}
