// Package metrics exposes the Prometheus instrumentation of the service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "esa", Name: "http_requests_total", Help: "Processed HTTP requests",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "esa", Name: "http_request_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	GeocodeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "esa", Name: "geocode_requests_total", Help: "Geocoding calls by outcome",
	}, []string{"outcome"})

	ImportRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "esa", Name: "import_rows_total", Help: "CSV import rows by outcome",
	}, []string{"kind", "outcome"})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal, HTTPRequestDuration, GeocodeRequestsTotal, ImportRowsTotal)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveHTTPRequest(method, path, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
