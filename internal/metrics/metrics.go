// Package metrics holds the prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agro_http_requests_total",
		Help: "HTTP requests by method, route and status code.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agro_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	ExportsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agro_exports_total",
		Help: "Generated reports by entity and format.",
	}, []string{"entity", "format"})

	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "agro_import_rows_total",
		Help: "Imported spreadsheet rows by entity and outcome.",
	}, []string{"entity", "outcome"})
)
