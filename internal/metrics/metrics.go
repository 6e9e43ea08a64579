// Package metrics defines the Prometheus collectors the service exports.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the collectors. Each instance owns its registry so tests
// can build as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	EvaluationsSaved   prometheus.Counter
	ValidationFailures prometheus.Counter
	StoreErrors        *prometheus.CounterVec
	Summaries          *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

// Summary outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeStale = "stale"
)

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		EvaluationsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lmseval_evaluations_saved_total",
			Help: "Evaluations accepted by the form.",
		}),
		ValidationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lmseval_validation_failures_total",
			Help: "Form submissions rejected by validation.",
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lmseval_store_errors_total",
			Help: "Evaluation store failures by operation.",
		}, []string{"op"}),
		Summaries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lmseval_summaries_total",
			Help: "AI summary requests by outcome.",
		}, []string{"outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lmseval_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "code"}),
	}
	m.Registry.MustRegister(
		m.EvaluationsSaved,
		m.ValidationFailures,
		m.StoreErrors,
		m.Summaries,
		m.HTTPRequests,
	)
	return m
}
