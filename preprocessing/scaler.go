// Package preprocessing provides column scalers applied to X and Y before fitting.
package preprocessing

import (
	"encoding/json"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/ikpls/core/model"
	"github.com/YuminosukeSato/ikpls/pkg/errors"
)

// zeroScale is the standard deviation below which a column is treated as constant.
const zeroScale = 1e-8

// StandardScaler centres columns and divides them by their standard deviation. A constant
// column keeps a scale of 1, so it becomes all zeros after centring.
type StandardScaler struct {
	state *model.StateManager

	// Mean is the per-column mean, zero when WithMean is false.
	Mean []float64

	// Scale is the per-column standard deviation, one when WithStd is false.
	Scale []float64

	// NFeatures is the column count seen by Fit.
	NFeatures int

	WithMean bool
	WithStd  bool

	// DDOF is the delta degrees of freedom of the standard deviation: 0 divides by N,
	// 1 by N-1.
	DDOF int
}

var _ model.InverseTransformer = (*StandardScaler)(nil)

// ScalerOption configures a StandardScaler.
type ScalerOption func(*StandardScaler)

// WithMean sets whether columns are centred. Default true.
func WithMean(on bool) ScalerOption {
	return func(s *StandardScaler) { s.WithMean = on }
}

// WithStd sets whether columns are divided by their standard deviation. Default true.
func WithStd(on bool) ScalerOption {
	return func(s *StandardScaler) { s.WithStd = on }
}

// WithDDOF sets the delta degrees of freedom. Default 0.
func WithDDOF(ddof int) ScalerOption {
	return func(s *StandardScaler) { s.DDOF = ddof }
}

// NewStandardScaler creates a scaler that centres and scales by default.
//
//	scaler := preprocessing.NewStandardScaler(preprocessing.WithDDOF(1))
//	Xs, err := scaler.FitTransform(X)
func NewStandardScaler(opts ...ScalerOption) *StandardScaler {
	s := &StandardScaler{
		state:    model.NewStateManager(),
		WithMean: true,
		WithStd:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fit computes column means and standard deviations.
func (s *StandardScaler) Fit(X mat.Matrix) error {
	const op = "StandardScaler.Fit"
	if X == nil {
		return errors.NewValueError(op, "X must not be nil")
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty data", errors.ErrEmptyData)
	}
	if s.DDOF < 0 || (s.WithStd && r <= s.DDOF) {
		return errors.NewValidationError("ddof", fmt.Sprintf("must be in [0, %d)", r), s.DDOF)
	}
	if err := errors.CheckMatrix(op, X, 0); err != nil {
		return err
	}

	mean := make([]float64, c)
	scale := make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, X)
		m := stat.Mean(col, nil)
		if s.WithMean {
			mean[j] = m
		}

		scale[j] = 1
		if s.WithStd {
			var ss float64
			for _, v := range col {
				d := v - m
				ss += d * d
			}
			if sd := math.Sqrt(ss / float64(r-s.DDOF)); sd >= zeroScale {
				scale[j] = sd
			}
		}
	}

	s.Mean, s.Scale, s.NFeatures = mean, scale, c
	s.state.SetDimensions(c, 0, r)
	s.state.SetFitted()
	return nil
}

// Transform returns (X − Mean) / Scale.
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	return s.apply("Transform", X, func(v float64, j int) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	})
}

// FitTransform fits on X and transforms it.
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform returns X·Scale + Mean, mapping predictions back to the original units.
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	return s.apply("InverseTransform", X, func(v float64, j int) float64 {
		return v*s.Scale[j] + s.Mean[j]
	})
}

// IsFitted reports whether Fit has succeeded.
func (s *StandardScaler) IsFitted() bool {
	return s.state.IsFitted()
}

func (s *StandardScaler) apply(method string, X mat.Matrix, fn func(v float64, j int) float64) (*mat.Dense, error) {
	if err := s.state.RequireFitted("StandardScaler", method); err != nil {
		return nil, err
	}
	if X == nil {
		return nil, errors.NewValueError("StandardScaler."+method, "X must not be nil")
	}
	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler."+method, s.NFeatures, c, 1)
	}
	if r == 0 {
		return nil, errors.NewModelError("StandardScaler."+method, "empty data", errors.ErrEmptyData)
	}

	out := mat.NewDense(r, c, nil)
	out.Apply(func(i, j int, _ float64) float64 {
		return fn(X.At(i, j), j)
	}, out)
	return out, nil
}

// String describes the scaler configuration.
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, ddof=%d)", s.WithMean, s.WithStd, s.DDOF)
	}
	return fmt.Sprintf("StandardScaler(with_mean=%t, with_std=%t, ddof=%d, n_features=%d)",
		s.WithMean, s.WithStd, s.DDOF, s.NFeatures)
}

type scalerJSON struct {
	Mean     []float64 `json:"mean,omitempty"`
	Scale    []float64 `json:"scale,omitempty"`
	WithMean bool      `json:"with_mean"`
	WithStd  bool      `json:"with_std"`
	DDOF     int       `json:"ddof"`
}

// MarshalJSON encodes the configuration and, once fitted, the column statistics.
func (s *StandardScaler) MarshalJSON() ([]byte, error) {
	return json.Marshal(scalerJSON{
		Mean:     s.Mean,
		Scale:    s.Scale,
		WithMean: s.WithMean,
		WithStd:  s.WithStd,
		DDOF:     s.DDOF,
	})
}

// UnmarshalJSON restores a scaler written by MarshalJSON. It is fitted when statistics are
// present.
func (s *StandardScaler) UnmarshalJSON(data []byte) error {
	var v scalerJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return errors.Wrap(err, "StandardScaler.UnmarshalJSON")
	}
	if len(v.Mean) != len(v.Scale) {
		return errors.NewValueError("StandardScaler.UnmarshalJSON",
			fmt.Sprintf("mean has %d entries but scale has %d", len(v.Mean), len(v.Scale)))
	}
	for j, sc := range v.Scale {
		if sc == 0 || math.IsNaN(sc) || math.IsInf(sc, 0) {
			return errors.NewValueError("StandardScaler.UnmarshalJSON", fmt.Sprintf("invalid scale %v at column %d", sc, j))
		}
	}

	*s = StandardScaler{
		state:     model.NewStateManager(),
		Mean:      v.Mean,
		Scale:     v.Scale,
		NFeatures: len(v.Mean),
		WithMean:  v.WithMean,
		WithStd:   v.WithStd,
		DDOF:      v.DDOF,
	}
	if len(v.Mean) > 0 {
		s.state.SetDimensions(len(v.Mean), 0, 0)
		s.state.SetFitted()
	}
	return nil
}
