// Package metrics exposes Prometheus collectors for HTTP traffic and shop activity.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Path = "/metrics"

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	ShelfOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_shelf_operations_total",
			Help: "Shelf operations by kind and outcome",
		},
		[]string{"operation", "result"},
	)
	ShelfOccupied = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "shop_shelf_occupied_slots",
			Help: "Number of occupied shelf slots",
		},
	)
)

// NormalizePath keeps the first two path segments so item IDs do not explode label cardinality.
func NormalizePath(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "root"
	}
	parts := strings.SplitN(p, "/", 4)
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return strings.Join(parts, "/")
}

// Middleware records request count and latency.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == Path {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := NormalizePath(r.URL.Path)
		RequestTotal.WithLabelValues(r.Method, path, strconv.Itoa(status)).Inc()
		RequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
