// Package metrics provides Prometheus observability for signing sessions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks session lifecycle counts. Constructed against an injected
// Registerer so embedding hosts control registration; a library must not
// mutate the global registry behind the host's back.
type Metrics struct {
	SessionsStarted  prometheus.Counter
	FieldChanges     prometheus.Counter
	ScrollsSatisfied prometheus.Counter
	SubmitAttempts   prometheus.Counter
	SubmitsAccepted  prometheus.Counter
	SubmitDuration   prometheus.Histogram
}

// New creates and registers all session metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "esign_sessions_started_total",
			Help: "Total number of signing sessions that reached tracking",
		}),
		FieldChanges: factory.NewCounter(prometheus.CounterOpts{
			Name: "esign_field_changes_total",
			Help: "Total number of tracked field updates",
		}),
		ScrollsSatisfied: factory.NewCounter(prometheus.CounterOpts{
			Name: "esign_scrolls_satisfied_total",
			Help: "Total number of scroll-through requirements satisfied",
		}),
		SubmitAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "esign_submit_attempts_total",
			Help: "Total number of submit calls that passed the validity guard",
		}),
		SubmitsAccepted: factory.NewCounter(prometheus.CounterOpts{
			Name: "esign_submits_accepted_total",
			Help: "Total number of submits whose host handler succeeded",
		}),
		SubmitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "esign_submit_handler_duration_seconds",
			Help:    "Duration of the host submit handler",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}
