package telemetry

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	ikplsErrors "github.com/YuminosukeSato/ikpls/pkg/errors"
	"github.com/YuminosukeSato/ikpls/pls"
)

func gather(t *testing.T, m *FitMetrics) map[string]*dto.MetricFamily {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(families))
	for _, f := range families {
		out[f.GetName()] = f
	}
	return out
}

func labelValue(m *dto.Metric, name string) string {
	for _, l := range m.GetLabel() {
		if l.GetName() == name {
			return l.GetValue()
		}
	}
	return ""
}

func TestObserverEventsUpdateCollectors(t *testing.T) {
	m := NewFitMetrics()
	e := pls.FitEvent{Algorithm: pls.Algorithm2, Samples: 10, Features: 3, Targets: 1, Components: 3}

	m.FitStarted(e)
	m.ComponentFitted(e, 0, 2.5)
	m.ComponentFitted(e, 1, 0.5)
	m.ComponentDegenerate(e, 2, 0)
	m.FitFinished(e, 3*time.Millisecond, nil)
	m.FitFinished(e, time.Millisecond, errors.New("boom"))

	assert.Equal(t, 1.0, m.FitCount(pls.Algorithm2, "success"))
	assert.Equal(t, 1.0, m.FitCount(pls.Algorithm2, "error"))
	assert.Equal(t, 0.0, m.FitCount(pls.Algorithm1, "success"))

	families := gather(t, m)

	components := families["ikpls_components_total"]
	require.NotNil(t, components)
	byStatus := map[string]float64{}
	for _, metric := range components.GetMetric() {
		byStatus[labelValue(metric, "status")] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"fitted": 2, "degenerate": 1}, byStatus)

	degenerate := families["ikpls_degenerate_from"]
	require.NotNil(t, degenerate)
	require.Len(t, degenerate.GetMetric(), 1)
	assert.Equal(t, "ikpls2", labelValue(degenerate.GetMetric()[0], "algorithm"))
	assert.Equal(t, 2.0, degenerate.GetMetric()[0].GetGauge().GetValue())

	duration := families["ikpls_fit_duration_seconds"]
	require.NotNil(t, duration)
	assert.Equal(t, uint64(2), duration.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestObserverWithRealFit(t *testing.T) {
	X := mat.NewDense(6, 2, []float64{1, 0, 0, 1, 1, 1, 2, 1, 1, 2, 3, 1})
	Y := mat.NewDense(6, 1, []float64{1, 1, 2, 3, 3, 4})

	m := NewFitMetrics()
	_, err := pls.FitAlgorithm1(X, Y, 2, pls.WithObserver(m))
	require.NoError(t, err)

	assert.Equal(t, 1.0, m.FitCount(pls.Algorithm1, "success"))
	families := gather(t, m)
	assert.Equal(t, -1.0, families["ikpls_degenerate_from"].GetMetric()[0].GetGauge().GetValue())

	ikplsErrors.CatchWarnings(func() {
		_, err = pls.FitAlgorithm1(X, mat.NewDense(6, 1, nil), 2, pls.WithObserver(m))
	})
	require.NoError(t, err)
	families = gather(t, m)
	assert.Equal(t, 0.0, families["ikpls_degenerate_from"].GetMetric()[0].GetGauge().GetValue())
}

func TestWriteTextfile(t *testing.T) {
	m := NewFitMetrics()
	e := pls.FitEvent{Algorithm: pls.Algorithm1}
	m.FitStarted(e)
	m.FitFinished(e, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "ikpls.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `ikpls_fits_total{algorithm="ikpls1",result="success"} 1`)

	require.Error(t, m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "x.prom")))
}
