// Package config loads the ikpls command configuration from YAML.
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/YuminosukeSato/ikpls/core/linalg"
	"github.com/YuminosukeSato/ikpls/pkg/log"
	"github.com/YuminosukeSato/ikpls/pls"
	"github.com/YuminosukeSato/ikpls/preprocessing"
)

// Config is the full command configuration.
type Config struct {
	Fit           FitConfig           `yaml:"fit"`
	Preprocessing PreprocessingConfig `yaml:"preprocessing"`
	Data          DataConfig          `yaml:"data"`
	Logging       LoggingConfig       `yaml:"logging"`
	Metrics       MetricsConfig       `yaml:"metrics"`
}

// FitConfig selects the engine and its numerical settings.
type FitConfig struct {
	Algorithm         int     `yaml:"algorithm"`
	Components        int     `yaml:"components"`
	EigenSolver       string  `yaml:"eigen_solver"`
	PowerMaxIter      int     `yaml:"power_max_iter"`
	PowerTol          float64 `yaml:"power_tol"`
	ZeroTolerance     float64 `yaml:"zero_tolerance"`
	ParallelThreshold int     `yaml:"parallel_threshold"`
}

// PreprocessingConfig controls the column scaling of X and Y before fitting.
type PreprocessingConfig struct {
	CenterX bool `yaml:"center_x"`
	ScaleX  bool `yaml:"scale_x"`
	CenterY bool `yaml:"center_y"`
	ScaleY  bool `yaml:"scale_y"`
	DDOF    int  `yaml:"ddof"`
}

// DataConfig describes the CSV inputs.
type DataConfig struct {
	Header    bool   `yaml:"header"`
	Delimiter string `yaml:"delimiter"`
}

// LoggingConfig is passed to log.SetupLogger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus textfile export.
type MetricsConfig struct {
	// Textfile is the path the fit metrics are written to. Empty disables the export.
	Textfile string `yaml:"textfile"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Fit: FitConfig{
			Algorithm:         1,
			Components:        2,
			EigenSolver:       linalg.EigenSolver.String(),
			PowerMaxIter:      linalg.DefaultOptions().MaxIter,
			PowerTol:          linalg.DefaultOptions().Tol,
			ZeroTolerance:     linalg.MachineEpsilon,
			ParallelThreshold: 1000,
		},
		Preprocessing: PreprocessingConfig{
			CenterX: true,
			ScaleX:  true,
			CenterY: true,
			ScaleY:  true,
			DDOF:    1,
		},
		Data: DataConfig{
			Header:    true,
			Delimiter: ",",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads path over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field that has a restricted range.
func (c *Config) Validate() error {
	var errs []string
	if c.Fit.Algorithm != 1 && c.Fit.Algorithm != 2 {
		errs = append(errs, fmt.Sprintf("fit.algorithm must be 1 or 2, got %d", c.Fit.Algorithm))
	}
	if c.Fit.Components < 1 {
		errs = append(errs, fmt.Sprintf("fit.components must be positive, got %d", c.Fit.Components))
	}
	if _, err := linalg.ParseSolver(c.Fit.EigenSolver); err != nil {
		errs = append(errs, fmt.Sprintf("fit.eigen_solver must be eigen or power, got %q", c.Fit.EigenSolver))
	}
	if c.Fit.PowerMaxIter < 1 {
		errs = append(errs, "fit.power_max_iter must be positive")
	}
	if c.Fit.PowerTol <= 0 {
		errs = append(errs, "fit.power_tol must be positive")
	}
	if c.Fit.ZeroTolerance < 0 {
		errs = append(errs, "fit.zero_tolerance must not be negative")
	}
	if c.Preprocessing.DDOF != 0 && c.Preprocessing.DDOF != 1 {
		errs = append(errs, fmt.Sprintf("preprocessing.ddof must be 0 or 1, got %d", c.Preprocessing.DDOF))
	}
	if len([]rune(c.Data.Delimiter)) != 1 {
		errs = append(errs, fmt.Sprintf("data.delimiter must be a single character, got %q", c.Data.Delimiter))
	}
	if _, err := log.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Sprintf("logging.level: %v", err))
	}
	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		errs = append(errs, fmt.Sprintf("logging.format must be console or json, got %q", c.Logging.Format))
	}

	if len(errs) > 0 {
		return errors.Newf("invalid config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// PLSOptions converts the fit section into estimator options.
func (c *Config) PLSOptions() []pls.Option {
	opts := []pls.Option{
		pls.WithAlgorithm(pls.Algorithm(c.Fit.Algorithm)),
		pls.WithZeroTolerance(c.Fit.ZeroTolerance),
		pls.WithParallelThreshold(c.Fit.ParallelThreshold),
	}
	if solver, _ := linalg.ParseSolver(c.Fit.EigenSolver); solver == linalg.PowerIterationSolver {
		opts = append(opts, pls.WithPowerIteration(c.Fit.PowerMaxIter, c.Fit.PowerTol))
	}
	return opts
}

// XScaler returns an unfitted scaler for X.
func (c *Config) XScaler() *preprocessing.StandardScaler {
	p := c.Preprocessing
	return preprocessing.NewStandardScaler(
		preprocessing.WithMean(p.CenterX),
		preprocessing.WithStd(p.ScaleX),
		preprocessing.WithDDOF(p.DDOF),
	)
}

// YScaler returns an unfitted scaler for Y.
func (c *Config) YScaler() *preprocessing.StandardScaler {
	p := c.Preprocessing
	return preprocessing.NewStandardScaler(
		preprocessing.WithMean(p.CenterY),
		preprocessing.WithStd(p.ScaleY),
		preprocessing.WithDDOF(p.DDOF),
	)
}

// DelimiterRune returns the CSV field separator.
func (c *Config) DelimiterRune() rune {
	return []rune(c.Data.Delimiter)[0]
}
