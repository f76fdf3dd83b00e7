package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LoginMetrics 追踪登录表单提交链路的核心指标。
type LoginMetrics struct {
	Attempts     *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	StaleResults *prometheus.CounterVec
}

// DefaultNamespace 指标名前缀，导出为 tsu_login_attempts_total 等
const DefaultNamespace = "tsu"

var (
	// DefaultLoginMetrics 全局共享实例。
	DefaultLoginMetrics *LoginMetrics

	loginDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 0.75, 1, 2, 5, 10}
)

func init() {
	DefaultLoginMetrics = NewLoginMetrics(DefaultNamespace)
}

// NewLoginMetricsWithRegistry 创建 LoginMetrics,允许 tests 注入自定义 registry。
func NewLoginMetricsWithRegistry(namespace string, reg prometheus.Registerer) *LoginMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &LoginMetrics{
		Attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Count of login form submissions grouped by outcome code",
			},
			[]string{"service", "outcome"},
		),

		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "login_duration_seconds",
				Help:      "Latency histogram for sign-in gateway calls",
				Buckets:   loginDurationBuckets,
			},
			[]string{"service", "outcome"},
		),

		StaleResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_stale_results_total",
				Help:      "Count of gateway results dropped because a newer submission started",
			},
			[]string{"service"},
		),
	}
}

// NewLoginMetrics 创建默认 registry 的 LoginMetrics。
func NewLoginMetrics(namespace string) *LoginMetrics {
	return NewLoginMetricsWithRegistry(namespace, prometheus.DefaultRegisterer)
}

// IncAttempt 记录一次提交及其结果（含本地校验失败）。
func (m *LoginMetrics) IncAttempt(service, outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.Attempts.WithLabelValues(normalizeServiceName(service), outcome).Inc()
}

// ObserveDuration 记录网关调用耗时。
func (m *LoginMetrics) ObserveDuration(service, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "success"
	}
	m.Duration.WithLabelValues(normalizeServiceName(service), outcome).Observe(duration.Seconds())
}

// IncStaleResult 记录被丢弃的过期网关结果。
func (m *LoginMetrics) IncStaleResult(service string) {
	if m == nil {
		return
	}
	m.StaleResults.WithLabelValues(normalizeServiceName(service)).Inc()
}
