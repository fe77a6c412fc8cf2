// Package metrics exposes the Prometheus collectors of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint", "status"},
	)
	jobsEnqueuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pav_jobs_enqueued_total",
			Help: "Pseudo transaction jobs enqueued by cascades.",
		},
		[]string{"entity", "action"},
	)
	jobsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pav_jobs_processed_total",
			Help: "Pseudo transaction jobs executed by the runner, by final status.",
		},
		[]string{"action", "status"},
	)
	jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pav_job_duration_seconds",
			Help:    "Histogram of pseudo transaction job execution times.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action"},
	)
	valueSavesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pav_value_saves_total",
			Help: "Attribute value saves by outcome.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(jobsEnqueuedTotal)
	prometheus.MustRegister(jobsProcessedTotal)
	prometheus.MustRegister(jobDuration)
	prometheus.MustRegister(valueSavesTotal)
}

// RecordRequest records metrics of one HTTP request.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordJobEnqueued counts a job pushed onto the queue.
func RecordJobEnqueued(entity, action string) {
	jobsEnqueuedTotal.WithLabelValues(entity, action).Inc()
}

// RecordJobProcessed counts a job the runner finished and observes its duration.
func RecordJobProcessed(action, status string, duration time.Duration) {
	jobsProcessedTotal.WithLabelValues(action, status).Inc()
	jobDuration.WithLabelValues(action).Observe(duration.Seconds())
}

// RecordValueSave counts a value save. result is "ok", "invalid", "duplicate"
// or "error".
func RecordValueSave(result string) {
	valueSavesTotal.WithLabelValues(result).Inc()
}

// classifyStatus buckets an HTTP status code.
func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler returns the HTTP handler exporting the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
