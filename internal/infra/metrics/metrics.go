// Package metrics holds the prometheus collectors shared by the HTTP layer,
// the use cases and the dispatch worker.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	modelCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_model_calls_total",
			Help: "Model calls by workflow and outcome",
		},
		[]string{"workflow", "outcome"},
	)

	modelLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "leadflow_model_call_duration_seconds",
			Help:    "Duration of model calls in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"workflow"},
	)

	qualificationScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "leadflow_qualification_score",
			Help:    "Scores persisted by lead qualification",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		},
	)

	outreachDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadflow_outreach_dispatched_total",
			Help: "Outreach messages handed to a dispatcher or sent by the worker",
		},
		[]string{"stage", "status"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

// Model call outcomes.
const (
	OutcomeOK          = "ok"
	OutcomeParseFailed = "parse_failed"
	OutcomeError       = "error"
)

func RecordModelCall(workflow, outcome string, seconds float64) {
	modelCalls.WithLabelValues(workflow, outcome).Inc()
	modelLatency.WithLabelValues(workflow).Observe(seconds)
}

func RecordQualificationScore(score int) {
	qualificationScores.Observe(float64(score))
}

func RecordOutreachDispatch(stage, status string) {
	outreachDispatched.WithLabelValues(stage, status).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
