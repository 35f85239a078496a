// Package metrics holds the Prometheus counters exposed by the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SideEffectAudit        string = "audit"
	SideEffectNotification string = "notification"
)

type Metrics struct {
	ReadingsIngested       *prometheus.CounterVec // by alert level and compliance status
	ReadingsRejected       *prometheus.CounterVec // by reason
	SideEffectFailures     *prometheus.CounterVec // by kind
	AuditEventsWritten     *prometheus.CounterVec // by action and outcome
	NotificationsPublished *prometheus.CounterVec // by notifier and status

	gatherer prometheus.Gatherer
}

// New registers every counter with reg. Passing a fresh registry gives
// tests an isolated set of counters.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ReadingsIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "temperature_readings_ingested_total",
			Help: "Number of persisted temperature readings by alert level and compliance status",
		}, []string{"level", "status"}),

		ReadingsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "temperature_readings_rejected_total",
			Help: "Number of submissions that were not persisted, by reason",
		}, []string{"reason"}),

		SideEffectFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "side_effect_failures_total",
			Help: "Best effort audit and notification calls that failed after a reading was handled",
		}, []string{"kind"}),

		AuditEventsWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_events_written_total",
			Help: "Number of audit events written by action and outcome",
		}, []string{"action", "outcome"}),

		NotificationsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "Temperature alert notifications by notifier and status",
		}, []string{"notifier", "status"}),

		gatherer: reg,
	}
}

// Handler serves the registered counters in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
