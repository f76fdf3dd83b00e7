package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestLoginMetrics_Attempts(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLoginMetricsWithRegistry("test", reg)

	m.IncAttempt("login_form", "success")
	m.IncAttempt("login_form", "success")
	m.IncAttempt("", "validation_error")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Attempts.WithLabelValues("login_form", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Attempts.WithLabelValues(GetServiceName(), "validation_error")))
}

func TestLoginMetrics_DurationAndStale(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewLoginMetricsWithRegistry("test", reg)

	m.ObserveDuration("login_form", "invalid_credentials", 300*time.Millisecond)
	m.IncStaleResult("login_form")

	assert.Equal(t, 1, testutil.CollectAndCount(m.Duration, "test_login_duration_seconds"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.StaleResults.WithLabelValues("login_form")))
}

func TestLoginMetrics_NilSafe(t *testing.T) {
	var m *LoginMetrics
	m.IncAttempt("x", "y")
	m.ObserveDuration("x", "y", time.Second)
	m.IncStaleResult("x")
}

func TestDefaultLoginMetrics_Namespace(t *testing.T) {
	DefaultLoginMetrics.IncAttempt("namespace_check", "success")
	DefaultLoginMetrics.ObserveDuration("namespace_check", "success", time.Millisecond)
	DefaultLoginMetrics.IncStaleResult("namespace_check")

	families, err := prometheus.DefaultGatherer.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["tsu_login_attempts_total"])
	assert.True(t, names["tsu_login_duration_seconds"])
	assert.True(t, names["tsu_login_stale_results_total"])
}
