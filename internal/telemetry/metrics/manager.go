package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LoginResultSuccess = "success"
	LoginResultFailure = "failure"
)

type Manager struct {
	// counters
	CounterRequests            *prometheus.CounterVec
	CounterHandleRequestPanic  prometheus.Counter
	CounterRateLimitedRequests prometheus.Counter
	CounterLoginAttempts       *prometheus.CounterVec
	CounterContentWrites       *prometheus.CounterVec
	CounterCacheLookups        *prometheus.CounterVec
	CounterSessionsCleaned     prometheus.Counter

	// gauges
	GaugeRequests   prometheus.Gauge
	GaugeLifeSignal prometheus.Gauge

	// histograms
	HistSessionCleanupDuration prometheus.Histogram
	HistogramRequestDuration   *prometheus.HistogramVec
}

func NewTestManager() *Manager {
	return NewManager("backend", "test_server", prometheus.NewRegistry())
}

func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("backend", "test_server", reg), reg
}

func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	counterRequests := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request",
		Help:      "The total number of incoming requests",
	}, []string{"method", "status"})
	counterHandleRequestPanic := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "handle_request_panic",
		Help:      "The total number of serve request panics",
	})
	counterRateLimitedRequests := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "rate_limited_requests",
		Help:      "The total number of rate limited requests",
	})
	counterLoginAttempts := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "admin_login_attempts",
		Help:      "The total number of admin login attempts",
	}, []string{"result"})
	counterContentWrites := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "content_writes",
		Help:      "The total number of admin content mutations",
	}, []string{"kind", "op"})
	counterCacheLookups := factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "content_cache_lookups",
		Help:      "Public content cache lookups",
	}, []string{"result"})
	counterSessionsCleaned := factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "expired_sessions_cleaned",
		Help:      "Number of expired admin sessions removed by the cleanup job",
	})

	gaugeRequests := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "current_requests",
		Help:      "Current number of requests served",
	})
	gaugeLifeSignal := factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "life_signal",
		Help:      "Shows whether the service is alive",
	})

	histSessionCleanupDuration := factory.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10, 30},
			Name:      "session_cleanup_duration_seconds",
			Help:      "Duration of a single expired sessions cleanup in seconds",
		},
	)

	histogramRequestDuration := factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "request_duration_seconds",
		Help:      "Histogram of response time for requests in seconds",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"route", "method", "status_code"})

	return &Manager{
		CounterRequests:            counterRequests,
		CounterHandleRequestPanic:  counterHandleRequestPanic,
		CounterRateLimitedRequests: counterRateLimitedRequests,
		CounterLoginAttempts:       counterLoginAttempts,
		CounterContentWrites:       counterContentWrites,
		CounterCacheLookups:        counterCacheLookups,
		CounterSessionsCleaned:     counterSessionsCleaned,
		GaugeRequests:              gaugeRequests,
		GaugeLifeSignal:            gaugeLifeSignal,
		HistSessionCleanupDuration: histSessionCleanupDuration,
		HistogramRequestDuration:   histogramRequestDuration,
	}
}

// LoginAttempt counts a login by outcome. Safe on a nil manager.
func (m *Manager) LoginAttempt(success bool) {
	if m == nil {
		return
	}
	result := LoginResultFailure
	if success {
		result = LoginResultSuccess
	}
	m.CounterLoginAttempts.WithLabelValues(result).Inc()
}

// ContentWrite counts an admin create/update/delete. Safe on a nil manager.
func (m *Manager) ContentWrite(kind, op string) {
	if m == nil {
		return
	}
	m.CounterContentWrites.WithLabelValues(kind, op).Inc()
}
