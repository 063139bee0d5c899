// Package telemetry records PLS fits as Prometheus metrics.
package telemetry

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/YuminosukeSato/ikpls/pls"
)

// FitMetrics is a pls.FitObserver backed by its own Prometheus registry.
type FitMetrics struct {
	registry *prometheus.Registry

	Fits           *prometheus.CounterVec
	FitDuration    *prometheus.HistogramVec
	Components     *prometheus.CounterVec
	WeightNorm     *prometheus.HistogramVec
	DegenerateFrom *prometheus.GaugeVec
}

var _ pls.FitObserver = (*FitMetrics)(nil)

// NewFitMetrics creates and registers the fit collectors.
func NewFitMetrics() *FitMetrics {
	m := &FitMetrics{
		registry: prometheus.NewRegistry(),

		Fits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ikpls_fits_total",
				Help: "Number of finished fits by engine and result",
			},
			[]string{"algorithm", "result"},
		),

		FitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ikpls_fit_duration_seconds",
				Help:    "Wall time of a fit in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"algorithm"},
		),

		Components: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ikpls_components_total",
				Help: "Number of extracted components by status (fitted or degenerate)",
			},
			[]string{"algorithm", "status"},
		),

		WeightNorm: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ikpls_weight_norm",
				Help:    "Norm of the cross-covariance direction before normalisation",
				Buckets: prometheus.ExponentialBuckets(1e-12, 100, 12),
			},
			[]string{"algorithm"},
		),

		DegenerateFrom: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ikpls_degenerate_from",
				Help: "Index of the first degenerate component of the last fit, -1 when none",
			},
			[]string{"algorithm"},
		),
	}

	m.registry.MustRegister(m.Fits, m.FitDuration, m.Components, m.WeightNorm, m.DegenerateFrom)
	return m
}

// Registry returns the registry holding the fit collectors.
func (m *FitMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// FitStarted implements pls.FitObserver.
func (m *FitMetrics) FitStarted(e pls.FitEvent) {
	m.DegenerateFrom.WithLabelValues(e.Algorithm.String()).Set(-1)
}

// ComponentFitted implements pls.FitObserver.
func (m *FitMetrics) ComponentFitted(e pls.FitEvent, _ int, norm float64) {
	alg := e.Algorithm.String()
	m.Components.WithLabelValues(alg, "fitted").Inc()
	m.WeightNorm.WithLabelValues(alg).Observe(norm)
}

// ComponentDegenerate implements pls.FitObserver.
func (m *FitMetrics) ComponentDegenerate(e pls.FitEvent, index int, norm float64) {
	alg := e.Algorithm.String()
	m.Components.WithLabelValues(alg, "degenerate").Inc()
	m.WeightNorm.WithLabelValues(alg).Observe(norm)
	m.DegenerateFrom.WithLabelValues(alg).Set(float64(index))
}

// FitFinished implements pls.FitObserver.
func (m *FitMetrics) FitFinished(e pls.FitEvent, elapsed time.Duration, err error) {
	alg := e.Algorithm.String()
	result := "success"
	if err != nil {
		result = "error"
	}
	m.Fits.WithLabelValues(alg, result).Inc()
	m.FitDuration.WithLabelValues(alg).Observe(elapsed.Seconds())
}

// FitCount returns the value of ikpls_fits_total for the given labels.
func (m *FitMetrics) FitCount(algorithm pls.Algorithm, result string) float64 {
	c, err := m.Fits.GetMetricWithLabelValues(algorithm.String(), result)
	if err != nil {
		return 0
	}
	metric := &dto.Metric{}
	if err := c.Write(metric); err != nil {
		return 0
	}
	return metric.GetCounter().GetValue()
}

// WriteTextfile writes every collector in the node-exporter textfile format.
func (m *FitMetrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return errors.Wrap(err, "failed to write metrics textfile")
	}
	return nil
}
