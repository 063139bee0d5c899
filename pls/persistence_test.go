package pls

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ikpls/core/model"
	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
)

func assertSameModel(t *testing.T, want, got *Model) {
	t.Helper()
	assert.Equal(t, want.Algorithm(), got.Algorithm())
	assert.Equal(t, want.NComponents(), got.NComponents())
	assert.Equal(t, want.NSamples(), got.NSamples())
	assert.Equal(t, want.NFeatures(), got.NFeatures())
	assert.Equal(t, want.NTargets(), got.NTargets())
	assert.Equal(t, want.DegenerateFrom(), got.DegenerateFrom())
	assert.True(t, mat.Equal(want.W(), got.W()))
	assert.True(t, mat.Equal(want.P(), got.P()))
	assert.True(t, mat.Equal(want.Q(), got.Q()))
	assert.True(t, mat.Equal(want.R(), got.R()))
	if want.T() == nil {
		assert.Nil(t, got.T())
	} else {
		assert.True(t, mat.Equal(want.T(), got.T()))
	}
	wb, gb := want.Bs(), got.Bs()
	require.Len(t, gb, len(wb))
	for i := range wb {
		assert.True(t, mat.Equal(wb[i], gb[i]), "B[%d]", i+1)
	}
	assert.Equal(t, want.ExplainedVarianceX(), got.ExplainedVarianceX())
	assert.Equal(t, want.ExplainedVarianceY(), got.ExplainedVarianceY())
}

func TestModelJSONRoundTrip(t *testing.T) {
	X, Y := randomProblem(31, 30, 5, 2)
	for _, e := range engines {
		t.Run(e.name, func(t *testing.T) {
			m, err := e.fit(X, Y, 4)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, WriteModel(&buf, m))
			loaded, err := ReadModel(&buf)
			require.NoError(t, err)
			assertSameModel(t, m, loaded)

			data, err := json.Marshal(m)
			require.NoError(t, err)
			var decoded Model
			require.NoError(t, json.Unmarshal(data, &decoded))
			assertSameModel(t, m, &decoded)

			pred, err := decoded.Predict(X, 2)
			require.NoError(t, err)
			want, err := m.Predict(X, 2)
			require.NoError(t, err)
			assert.True(t, mat.Equal(want, pred))
		})
	}
}

func TestModelGobRoundTrip(t *testing.T) {
	X, Y := randomProblem(32, 30, 5, 3)
	m, err := FitAlgorithm1(X, Y, 3)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, model.SaveModel(m, path))

	var loaded Model
	require.NoError(t, model.LoadModel(&loaded, path))
	assertSameModel(t, m, &loaded)
}

func TestDegenerateModelRoundTrip(t *testing.T) {
	X, _ := randomProblem(33, 30, 4, 1)
	var (
		m   *Model
		err error
	)
	ikplsErrors.CatchWarnings(func() {
		m, err = FitAlgorithm2(X, mat.NewDense(30, 1, nil), 2)
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteModel(&buf, m))
	loaded, err := ReadModel(&buf)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.DegenerateFrom())
	assertSameModel(t, m, loaded)
}

func TestModelFromWeightsRejectsInconsistentPayload(t *testing.T) {
	X, Y := randomProblem(34, 30, 5, 2)
	m, err := FitAlgorithm1(X, Y, 3)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(mw *model.ModelWeights)
	}{
		{"wrong model type", func(mw *model.ModelWeights) { mw.ModelType = "PCA" }},
		{"wrong version", func(mw *model.ModelWeights) { mw.Version = "99" }},
		{"unknown algorithm", func(mw *model.ModelWeights) { mw.Hyperparameters["algorithm"] = 7 }},
		{"missing rotation", func(mw *model.ModelWeights) { delete(mw.Matrices, "r") }},
		{"wrong loading shape", func(mw *model.ModelWeights) {
			mw.Matrices["q"] = model.NewMatrixPayload(mat.NewDense(3, 3, nil))
		}},
		{"short regression stack", func(mw *model.ModelWeights) { mw.Stacks["b"] = mw.Stacks["b"][:2] }},
		{"missing metadata", func(mw *model.ModelWeights) { delete(mw.Metadata, "n_features") }},
		{"truncated data", func(mw *model.ModelWeights) {
			w := mw.Matrices["w"]
			w.Data = w.Data[:3]
			mw.Matrices["w"] = w
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mw := m.Weights()
			tt.mutate(mw)
			_, err := ModelFromWeights(mw)
			require.Error(t, err)
		})
	}

	fields := []struct {
		name   string
		mutate func(mw *model.ModelWeights)
	}{
		{"fractional component count", func(mw *model.ModelWeights) { mw.Hyperparameters["n_components"] = 2.5 }},
		{"missing sample count", func(mw *model.ModelWeights) { delete(mw.Metadata, "n_samples") }},
		{"non-numeric sum of squares", func(mw *model.ModelWeights) { mw.Metadata["ss_y"] = "large" }},
	}
	for _, tt := range fields {
		t.Run(tt.name, func(t *testing.T) {
			mw := m.Weights()
			tt.mutate(mw)
			_, err := ModelFromWeights(mw)
			var valueErr *ikplsErrors.ValueError
			require.True(t, ikplsErrors.As(err, &valueErr), "got %v", err)
			assert.Equal(t, "pls.ModelFromWeights", valueErr.Op)
			assert.Contains(t, fmt.Sprintf("%+v", err), "persistence.go")
		})
	}

	_, err = ReadModel(bytes.NewBufferString("{not json"))
	require.Error(t, err)
}
