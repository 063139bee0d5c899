package pls

import (
	"encoding/json"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ikpls/core/model"
	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
)

const (
	modelType     = "PLS"
	formatVersion = "1"
)

// Weights exports the model as serialisable ModelWeights.
func (m *Model) Weights() *model.ModelWeights {
	mw := &model.ModelWeights{
		ModelType: modelType,
		Version:   formatVersion,
		IsFitted:  true,
		Matrices: map[string]model.MatrixPayload{
			"w":   model.NewMatrixPayload(m.w),
			"p":   model.NewMatrixPayload(m.p),
			"q":   model.NewMatrixPayload(m.q),
			"r":   model.NewMatrixPayload(m.r),
			"t_t": model.NewMatrixPayload(mat.NewDense(1, len(m.tTt), append([]float64(nil), m.tTt...))),
		},
		Stacks: map[string][]model.MatrixPayload{},
		Hyperparameters: map[string]interface{}{
			"algorithm":    int(m.algorithm),
			"n_components": m.components,
		},
		Metadata: map[string]interface{}{
			"n_samples":       m.nSamples,
			"n_features":      m.nFeatures,
			"n_targets":       m.nTargets,
			"degenerate_from": m.degenerateFrom,
			"ss_x":            m.ssX,
			"ss_y":            m.ssY,
		},
	}
	if m.t != nil {
		mw.Matrices["t"] = model.NewMatrixPayload(m.t)
	}
	stack := make([]model.MatrixPayload, len(m.b))
	for i, b := range m.b {
		stack[i] = model.NewMatrixPayload(b)
	}
	mw.Stacks["b"] = stack
	return mw
}

// ModelFromWeights rebuilds a Model from weights produced by Model.Weights, checking that
// every array has the shape implied by K, M, N and A.
func ModelFromWeights(mw *model.ModelWeights) (*Model, error) {
	const op = "pls.ModelFromWeights"
	if err := mw.Validate(); err != nil {
		return nil, ikplsErrors.NewModelError(op, "invalid weights", err)
	}
	if mw.ModelType != modelType {
		return nil, ikplsErrors.NewValueError(op, fmt.Sprintf("model_type %q is not %q", mw.ModelType, modelType))
	}
	if mw.Version != formatVersion {
		return nil, ikplsErrors.NewValueError(op, fmt.Sprintf("unsupported format version %q", mw.Version))
	}

	m := &Model{parallelThreshold: defaultParallelThreshold}
	var err error
	ints := []struct {
		src  map[string]interface{}
		key  string
		dest *int
	}{
		{mw.Hyperparameters, "algorithm", (*int)(&m.algorithm)},
		{mw.Hyperparameters, "n_components", &m.components},
		{mw.Metadata, "n_samples", &m.nSamples},
		{mw.Metadata, "n_features", &m.nFeatures},
		{mw.Metadata, "n_targets", &m.nTargets},
		{mw.Metadata, "degenerate_from", &m.degenerateFrom},
	}
	for _, f := range ints {
		if *f.dest, err = intField(op, f.src, f.key); err != nil {
			return nil, err
		}
	}
	if m.ssX, err = floatField(op, mw.Metadata, "ss_x"); err != nil {
		return nil, err
	}
	if m.ssY, err = floatField(op, mw.Metadata, "ss_y"); err != nil {
		return nil, err
	}
	if m.algorithm != Algorithm1 && m.algorithm != Algorithm2 {
		return nil, ikplsErrors.Wrapf(ikplsErrors.ErrUnknownAlgorithm, "%s: algorithm %d", op, int(m.algorithm))
	}

	k, mt, a := m.nFeatures, m.nTargets, m.components
	load := func(name string, rows, cols int) (*mat.Dense, error) {
		payload, ok := mw.Matrices[name]
		if !ok {
			return nil, ikplsErrors.NewValueError(op, fmt.Sprintf("missing matrix %q", name))
		}
		if payload.Rows != rows || payload.Cols != cols {
			return nil, ikplsErrors.NewValueError(op, fmt.Sprintf("matrix %q is %dx%d, want %dx%d", name, payload.Rows, payload.Cols, rows, cols))
		}
		return payload.Dense()
	}

	if m.w, err = load("w", k, a); err != nil {
		return nil, err
	}
	if m.p, err = load("p", k, a); err != nil {
		return nil, err
	}
	if m.q, err = load("q", mt, a); err != nil {
		return nil, err
	}
	if m.r, err = load("r", k, a); err != nil {
		return nil, err
	}
	tTt, err := load("t_t", 1, a)
	if err != nil {
		return nil, err
	}
	m.tTt = mat.Row(nil, 0, tTt)
	if _, ok := mw.Matrices["t"]; ok {
		if m.t, err = load("t", m.nSamples, a); err != nil {
			return nil, err
		}
	}

	stack := mw.Stacks["b"]
	if len(stack) != a {
		return nil, ikplsErrors.NewValueError(op, fmt.Sprintf("regression stack has %d matrices, want %d", len(stack), a))
	}
	m.b = make([]*mat.Dense, a)
	for i, payload := range stack {
		if payload.Rows != k || payload.Cols != mt {
			return nil, ikplsErrors.NewValueError(op, fmt.Sprintf("B[%d] is %dx%d, want %dx%d", i, payload.Rows, payload.Cols, k, mt))
		}
		if m.b[i], err = payload.Dense(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// intField reads an integer field. JSON decoding yields float64 for every number.
func intField(op string, src map[string]interface{}, key string) (int, error) {
	switch v := src[key].(type) {
	case int:
		return v, nil
	case float64:
		if v != float64(int(v)) {
			return 0, ikplsErrors.NewValueError(op, fmt.Sprintf("field %q is not an integer: %v", key, v))
		}
		return int(v), nil
	default:
		return 0, ikplsErrors.NewValueError(op, fmt.Sprintf("field %q missing or not a number", key))
	}
}

func floatField(op string, src map[string]interface{}, key string) (float64, error) {
	switch v := src[key].(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	default:
		return 0, ikplsErrors.NewValueError(op, fmt.Sprintf("field %q missing or not a number", key))
	}
}

// MarshalJSON encodes the model through Weights.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Weights())
}

// UnmarshalJSON decodes a model written by MarshalJSON.
func (m *Model) UnmarshalJSON(data []byte) error {
	var mw model.ModelWeights
	if err := mw.FromJSON(data); err != nil {
		return ikplsErrors.Wrap(err, "pls.Model.UnmarshalJSON")
	}
	decoded, err := ModelFromWeights(&mw)
	if err != nil {
		return err
	}
	*m = *decoded
	return nil
}

// GobEncode lets core/model.SaveModel persist a Model.
func (m *Model) GobEncode() ([]byte, error) {
	return m.MarshalJSON()
}

// GobDecode is the inverse of GobEncode.
func (m *Model) GobDecode(data []byte) error {
	return m.UnmarshalJSON(data)
}

// WriteModel writes m to w as indented JSON.
func WriteModel(w io.Writer, m *Model) error {
	data, err := m.Weights().ToJSON()
	if err != nil {
		return ikplsErrors.Wrap(err, "pls.WriteModel")
	}
	if _, err := w.Write(data); err != nil {
		return ikplsErrors.Wrap(err, "pls.WriteModel")
	}
	return nil
}

// ReadModel reads a model written by WriteModel.
func ReadModel(r io.Reader) (*Model, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ikplsErrors.Wrap(err, "pls.ReadModel")
	}
	m := &Model{}
	if err := m.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return m, nil
}
