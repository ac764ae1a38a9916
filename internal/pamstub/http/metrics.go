package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts player-facing outcomes on the stub. A nil *Metrics records nothing.
type Metrics struct {
	logins        *prometheus.CounterVec
	registrations *prometheus.CounterVec
}

// NewMetrics registers the stub's collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pamstub_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pamstub_registrations_total",
			Help: "Registration attempts by result.",
		}, []string{"result"}),
	}
}

func (m *Metrics) observeLogin(err error) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) observeRegistration(err error) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
