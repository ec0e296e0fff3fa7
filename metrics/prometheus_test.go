package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveCalculation("forward", 0.1, nil)
		m.ObserveMonteCarlo("mc_european", 100, 0.01)
		m.RegisterBuildInfo("v1")
	})
}

func TestObserveCalculation(t *testing.T) {
	m := NewMetrics("test")
	m.ObserveCalculation("forward", 0.001, nil)
	m.ObserveCalculation("forward", 0.002, nil)
	m.ObserveCalculation("forward", 0.003, errors.New("boom"))

	assert.InDelta(t, 2, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("forward", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.CalculationsTotal.WithLabelValues("forward", "error")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.CalculationDuration))
}

func TestObserveMonteCarlo(t *testing.T) {
	m := NewMetrics("test")
	m.ObserveMonteCarlo("mc_european", 1000, 0.5)
	m.ObserveMonteCarlo("mc_european", 3000, 0.25)

	assert.InDelta(t, 4000, testutil.ToFloat64(m.MCSamplesTotal.WithLabelValues("mc_european")), 0)
	assert.InDelta(t, 0.25, testutil.ToFloat64(m.MCErrorEstimate.WithLabelValues("mc_european")), 0)
}

func TestBuildInfoAndHandler(t *testing.T) {
	m := NewMetrics("test")
	m.RegisterBuildInfo("")
	m.RegisterBuildInfo("ignored")
	assert.InDelta(t, 1, testutil.ToFloat64(m.BuildInfo.WithLabelValues("unknown")), 0)

	m.ObserveCalculation("analytic_european", 0.001, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "test_pricing_calculations_total")
	assert.Contains(t, string(body), "pricing_build_info")
	assert.Contains(t, string(body), "go_goroutines")
}
