package pamsdk

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the SDK's Prometheus collectors. A nil *Metrics is valid and
// records nothing, so instrumentation is opt-in through WithMetrics.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	state           *prometheus.GaugeVec
}

// NewMetrics registers the SDK collectors on reg.
// Pass prometheus.DefaultRegisterer to expose them on the default /metrics handler.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// requests counts Connector calls by operation and outcome.
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pamsdk_requests_total",
			Help: "Total number of PAM requests by operation and outcome",
		}, []string{"operation", "outcome"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pamsdk_request_duration_seconds",
			Help:    "Histogram of PAM request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),

		refreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pamsdk_session_refreshes_total",
			Help: "Total number of session refreshes by result",
		}, []string{"result"}),

		refreshDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pamsdk_session_refresh_duration_seconds",
			Help:    "Histogram of session refresh latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		// state is 1 for the current authentication state and 0 for the others.
		state: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pamsdk_authentication_state",
			Help: "Current authentication state (1 for the active state)",
		}, []string{"state"}),
	}
}

// outcomeOf maps a request error onto the outcome label.
func outcomeOf(err error) string {
	if err == nil {
		return "success"
	}
	if k := KindOf(err); k != 0 {
		return k.String()
	}
	return "canceled"
}

func (m *Metrics) observeRequest(operation string, err error, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, outcomeOf(err)).Inc()
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) observeRefresh(err error, d time.Duration) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.refreshes.WithLabelValues(result).Inc()
	m.refreshDuration.Observe(d.Seconds())
}

func (m *Metrics) observeState(s AuthenticationState) {
	if m == nil {
		return
	}
	for _, k := range []StateKind{StateInitial, StateAuthenticating, StateAuthenticated, StateUnauthenticated} {
		v := 0.0
		if k == s.Kind {
			v = 1
		}
		m.state.WithLabelValues(k.String()).Set(v)
	}
}
