package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the domain-level Prometheus collectors. HTTP request
// metrics are instrumented separately in the transport middleware.
type Metrics struct {
	LoginOutcomes      *prometheus.CounterVec
	RegistrationsTotal prometheus.Counter
	ResetsRequested    prometheus.Counter
	ResetsCompleted    prometheus.Counter
}

// NewMetrics registers and returns the service metric set.
func NewMetrics() *Metrics {
	return &Metrics{
		LoginOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "accounts",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome",
		}, []string{"outcome"}),
		RegistrationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "accounts",
			Name:      "registrations_total",
			Help:      "Accounts created",
		}),
		ResetsRequested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "accounts",
			Name:      "password_resets_requested_total",
			Help:      "Password reset requests accepted",
		}),
		ResetsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "accounts",
			Name:      "password_resets_completed_total",
			Help:      "Password resets completed successfully",
		}),
	}
}

// RecordLogin increments the login outcome counter.
func (m *Metrics) RecordLogin(outcome string) {
	if m == nil || m.LoginOutcomes == nil {
		return
	}
	m.LoginOutcomes.WithLabelValues(outcome).Inc()
}

// RecordRegistration increments the registration counter.
func (m *Metrics) RecordRegistration() {
	if m == nil || m.RegistrationsTotal == nil {
		return
	}
	m.RegistrationsTotal.Inc()
}

// RecordResetRequested increments the reset request counter.
func (m *Metrics) RecordResetRequested() {
	if m == nil || m.ResetsRequested == nil {
		return
	}
	m.ResetsRequested.Inc()
}

// RecordResetCompleted increments the completed reset counter.
func (m *Metrics) RecordResetCompleted() {
	if m == nil || m.ResetsCompleted == nil {
		return
	}
	m.ResetsCompleted.Inc()
}
