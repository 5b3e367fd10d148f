package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	InferenceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inference_requests_total",
			Help: "Total number of inference invocations by capability and outcome",
		},
		[]string{"capability", "outcome"},
	)

	InferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "inference_duration_seconds",
			Help:    "Latency of inference invocations",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"capability"},
	)

	ModelLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "model_loads_total",
			Help: "Total number of model handle initializations",
		},
		[]string{"capability", "model", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, InferenceRequestsTotal, InferenceDuration, ModelLoadsTotal)
}

// Outcome returns the label value for an operation result
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
