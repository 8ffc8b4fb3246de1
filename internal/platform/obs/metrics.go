package obs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests by method, route pattern and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logistics_http_requests_total",
		Help: "HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	// HTTPDuration tracks end-to-end request latency.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "logistics_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// OperationDuration tracks timed internal operations (see Time).
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "logistics_operation_duration_seconds",
		Help:    "Internal operation duration in seconds by operation and result",
		Buckets: prometheus.ExponentialBuckets(0.00005, 2, 14), // 50µs to ~400ms
	}, []string{"op", "result"})

	// RouteCacheLookups counts route cache hits, misses and errors.
	RouteCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logistics_route_cache_lookups_total",
		Help: "Route cache lookups by result",
	}, []string{"result"})

	// Missions counts missions by the status they entered.
	Missions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logistics_missions_total",
		Help: "Missions started and closed, by status",
	}, []string{"status"})
)
