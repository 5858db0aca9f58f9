
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Metrics middleware records HTTP metrics.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		// Wrap response writer to capture status code
		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath normalizes URL paths to avoid high cardinality.
func normalizePath(path string) string {
	// Normalize paths with IDs to reduce cardinality
	// /api/v1/owners/user/42/wallets/USD/total -> /api/v1/owners/:kind/:id/wallets/:currency/total
	// /api/v1/transactions/01ABC123/note -> /api/v1/transactions/:id/note
	switch {
	case strings.HasPrefix(path, "/api/v1/owners/"):
		parts := strings.Split(path[len("/api/v1/owners/"):], "/")
		if len(parts) >= 2 {
			parts[0] = ":kind"
			parts[1] = ":id"
		}
		if len(parts) >= 4 && parts[2] == "wallets" && parts[3] != "" {
			parts[3] = ":currency"
		}

		return "/api/v1/owners/" + strings.Join(parts, "/")

	case strings.HasPrefix(path, "/api/v1/transactions/"):
		parts := strings.Split(path[len("/api/v1/transactions/"):], "/")
		if len(parts) >= 1 && parts[0] != "" {
			parts[0] = ":id"
		}

		return "/api/v1/transactions/" + strings.Join(parts, "/")
	}

	return path
}
