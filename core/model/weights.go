package model

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// MatrixPayload is a row-major dense matrix in serialisable form.
type MatrixPayload struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// NewMatrixPayload copies m into a payload.
func NewMatrixPayload(m mat.Matrix) MatrixPayload {
	r, c := m.Dims()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, m.At(i, j))
		}
	}
	return MatrixPayload{Rows: r, Cols: c, Data: data}
}

// Dense copies the payload into a new *mat.Dense.
func (p MatrixPayload) Dense() (*mat.Dense, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	data := make([]float64, len(p.Data))
	copy(data, p.Data)
	return mat.NewDense(p.Rows, p.Cols, data), nil
}

func (p MatrixPayload) validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("matrix dimensions must be positive, got %dx%d", p.Rows, p.Cols)
	}
	if len(p.Data) != p.Rows*p.Cols {
		return fmt.Errorf("matrix %dx%d needs %d values, got %d", p.Rows, p.Cols, p.Rows*p.Cols, len(p.Data))
	}
	return nil
}

// ModelWeights is the serialisable form of a fitted model.
type ModelWeights struct {
	// ModelType names the estimator, e.g. "PLS".
	ModelType string `json:"model_type"`

	// Version is the payload format version.
	Version string `json:"version"`

	// Matrices holds the named fitted arrays.
	Matrices map[string]MatrixPayload `json:"matrices,omitempty"`

	// Stacks holds named sequences of equally shaped matrices.
	Stacks map[string][]MatrixPayload `json:"stacks,omitempty"`

	// Hyperparameters records the options the model was fitted with.
	Hyperparameters map[string]interface{} `json:"hyperparameters"`

	// Metadata records fit statistics.
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	IsFitted bool `json:"is_fitted"`
}

// ToJSON serialises the weights as indented JSON.
func (mw *ModelWeights) ToJSON() ([]byte, error) {
	return json.MarshalIndent(mw, "", "  ")
}

// FromJSON deserialises weights produced by ToJSON.
func (mw *ModelWeights) FromJSON(data []byte) error {
	return json.Unmarshal(data, mw)
}

// Validate checks required fields and matrix payload shapes.
func (mw *ModelWeights) Validate() error {
	if mw.ModelType == "" {
		return fmt.Errorf("model_type is required")
	}

	if mw.Version == "" {
		return fmt.Errorf("version is required")
	}

	hasArrays := len(mw.Matrices) > 0 || len(mw.Stacks) > 0
	if !mw.IsFitted && hasArrays {
		return fmt.Errorf("unfitted model should not have fitted arrays")
	}
	if mw.IsFitted && !hasArrays {
		return fmt.Errorf("fitted model must have fitted arrays")
	}

	for name, p := range mw.Matrices {
		if err := p.validate(); err != nil {
			return fmt.Errorf("matrix %q: %w", name, err)
		}
	}
	for name, stack := range mw.Stacks {
		for i, p := range stack {
			if err := p.validate(); err != nil {
				return fmt.Errorf("stack %q[%d]: %w", name, i, err)
			}
			if p.Rows != stack[0].Rows || p.Cols != stack[0].Cols {
				return fmt.Errorf("stack %q[%d]: shape %dx%d differs from %dx%d", name, i, p.Rows, p.Cols, stack[0].Rows, stack[0].Cols)
			}
		}
	}

	return nil
}

// Clone returns a deep copy.
func (mw *ModelWeights) Clone() *ModelWeights {
	clone := &ModelWeights{
		ModelType:       mw.ModelType,
		Version:         mw.Version,
		IsFitted:        mw.IsFitted,
		Matrices:        make(map[string]MatrixPayload, len(mw.Matrices)),
		Stacks:          make(map[string][]MatrixPayload, len(mw.Stacks)),
		Hyperparameters: make(map[string]interface{}, len(mw.Hyperparameters)),
		Metadata:        make(map[string]interface{}, len(mw.Metadata)),
	}

	for k, p := range mw.Matrices {
		clone.Matrices[k] = clonePayload(p)
	}
	for k, stack := range mw.Stacks {
		cs := make([]MatrixPayload, len(stack))
		for i, p := range stack {
			cs[i] = clonePayload(p)
		}
		clone.Stacks[k] = cs
	}
	for k, v := range mw.Hyperparameters {
		clone.Hyperparameters[k] = v
	}
	for k, v := range mw.Metadata {
		clone.Metadata[k] = v
	}

	return clone
}

func clonePayload(p MatrixPayload) MatrixPayload {
	data := make([]float64, len(p.Data))
	copy(data, p.Data)
	return MatrixPayload{Rows: p.Rows, Cols: p.Cols, Data: data}
}
