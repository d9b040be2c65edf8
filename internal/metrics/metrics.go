// Package metrics provides Prometheus metrics for the filedesk server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedesk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "filedesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	uploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedesk_uploads_total",
			Help: "Simulated uploads by outcome",
		},
		[]string{"status"},
	)

	uploadsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filedesk_uploads_active",
			Help: "Number of uploads still ticking",
		},
	)

	uploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "filedesk_upload_duration_seconds",
			Help:    "Time from task creation to completion",
			Buckets: []float64{0.25, 0.5, 1, 1.5, 2, 2.5, 3, 4, 5},
		},
	)

	recordsTotal = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "filedesk_records",
			Help: "Number of records held by a collection",
		},
		[]string{"collection"},
	)

	actionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedesk_actions_total",
			Help: "Dispatched record actions",
		},
		[]string{"action"},
	)

	wsClientsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "filedesk_ws_clients_active",
			Help: "Number of connected WebSocket clients",
		},
	)

	eventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "filedesk_events_total",
			Help: "Events published to subscribers",
		},
		[]string{"type"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// UploadStarted records a task entering the uploading state.
func UploadStarted() {
	uploadsActive.Inc()
}

// UploadFinished records a task leaving the uploading state.
func UploadFinished(status string, elapsed time.Duration) {
	uploadsActive.Dec()
	uploadsTotal.WithLabelValues(status).Inc()
	if status == "completed" {
		uploadDuration.Observe(elapsed.Seconds())
	}
}

// UploadRejected records a task refused before it started ticking.
func UploadRejected() {
	uploadsTotal.WithLabelValues("rejected").Inc()
}

// SetRecords sets the size of a collection ("files", "documents").
func SetRecords(collection string, n int) {
	recordsTotal.WithLabelValues(collection).Set(float64(n))
}

// RecordAction counts a dispatched action.
func RecordAction(action string) {
	actionsTotal.WithLabelValues(action).Inc()
}

// SetWSClients sets the number of connected WebSocket clients.
func SetWSClients(n int) {
	wsClientsActive.Set(float64(n))
}

// RecordEvent counts a published event.
func RecordEvent(eventType string) {
	eventsTotal.WithLabelValues(eventType).Inc()
}
