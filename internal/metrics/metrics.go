// Package metrics holds the Prometheus collectors for the HTTP surface and
// the catalog store.
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ewilliams-labs/soundcheck/internal/core/ports"
)

var (
	// Store metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "soundcheck_store_query_duration_seconds",
			Help:    "Duration of catalog store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "table"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundcheck_store_query_errors_total",
			Help: "Total number of failed catalog store queries",
		},
		[]string{"backend", "table", "error_type"},
	)

	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "soundcheck_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "soundcheck_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "soundcheck_api_active_requests",
			Help: "Current number of in-flight API requests",
		},
	)
)

// RecordStoreQuery records one store round trip.
func RecordStoreQuery(backend, table string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(backend, table).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(backend, table, errorType(err)).Inc()
	}
}

// RecordAPIRequest records a finished API request. route is the matched
// pattern, not the raw path, to keep label cardinality bounded.
func RecordAPIRequest(method, route, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func errorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ports.ErrStore):
		return "store"
	}
	return "other"
}
