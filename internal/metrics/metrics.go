package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Web server metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dualsolve_http_requests_total",
		Help: "Total HTTP requests by route, method, and status code",
	}, []string{"route", "method", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dualsolve_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"route", "method"})

	PanicsRecovered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dualsolve_http_panics_recovered_total",
		Help: "Handler panics converted into 500 responses",
	})
)

// Completion client metrics.
var (
	LLMCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dualsolve_llm_call_duration_seconds",
		Help:    "LLM completion call duration in seconds by provider, operation, and outcome",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 45},
	}, []string{"provider", "operation", "outcome"})
)
