package main

import (
	"encoding/json"
	"os"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/ikpls/pls"
	"github.com/YuminosukeSato/ikpls/preprocessing"
)

// bundle is the model file written by fit: the PLS model plus the scalers and column names
// needed to apply it to raw data.
type bundle struct {
	XNames  []string                      `json:"x_names"`
	YNames  []string                      `json:"y_names"`
	XScaler *preprocessing.StandardScaler `json:"x_scaler"`
	YScaler *preprocessing.StandardScaler `json:"y_scaler"`
	Model   *pls.Model                    `json:"model"`
}

func (b *bundle) save(path string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode model bundle")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o644), "failed to write model bundle")
}

func loadBundle(path string) (*bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read model bundle")
	}
	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrapf(err, "failed to decode model bundle %s", path)
	}
	if b.Model == nil || b.XScaler == nil || b.YScaler == nil {
		return nil, errors.Newf("model bundle %s is incomplete", path)
	}
	if !b.XScaler.IsFitted() || !b.YScaler.IsFitted() {
		return nil, errors.Newf("model bundle %s has unfitted scalers", path)
	}
	return &b, nil
}

// predictRaw maps raw X to raw-unit predictions for every component count.
func (b *bundle) predictRaw(X mat.Matrix) ([]*mat.Dense, error) {
	xs, err := b.XScaler.Transform(X)
	if err != nil {
		return nil, err
	}
	scaled, err := b.Model.PredictAll(xs)
	if err != nil {
		return nil, err
	}
	out := make([]*mat.Dense, len(scaled))
	for i, s := range scaled {
		if out[i], err = b.YScaler.InverseTransform(s); err != nil {
			return nil, err
		}
	}
	return out, nil
}
