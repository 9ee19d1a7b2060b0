// Package metrics exposes Prometheus instrumentation for the quoting
// and routing core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Swap-quote metrics
	SwapQuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clamm_swap_quote_requests_total",
			Help: "Total number of swap quote requests",
		},
		[]string{"swap_mode", "status"},
	)

	SwapQuoteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clamm_swap_quote_duration_seconds",
			Help:    "Swap quote computation duration in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.02, 0.05},
		},
		[]string{"swap_mode"},
	)

	TickArrayCrossings = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clamm_tick_array_crossings",
		Help:    "Number of tick-array crossings per swap quote",
		Buckets: []float64{0, 1, 2, 3},
	})

	// Liquidity-quote metrics
	LiquidityQuoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clamm_liquidity_quote_requests_total",
			Help: "Total number of increase-liquidity quote requests",
		},
		[]string{"by", "status"},
	)

	// Router metrics
	RouteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clamm_route_requests_total",
			Help: "Total number of findBestRoutes requests",
		},
		[]string{"swap_mode", "status"},
	)

	RouteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clamm_route_duration_seconds",
		Help:    "findBestRoutes end-to-end duration in seconds",
		Buckets: []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2},
	})

	HopQuotesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clamm_hop_quotes_issued_total",
		Help: "Total number of per-pool hop quotes issued (cache misses)",
	})

	HopQuoteCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clamm_hop_quote_cache_hits_total",
		Help: "Total number of requestScopedCache hits within a single route search",
	})

	// DroppedRoutes counts routes/percents the router silently dropped,
	// labelled by the clammerr.Kind that caused the drop.
	DroppedRoutes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clamm_dropped_routes_total",
			Help: "Total number of route/percent combinations dropped during routing",
		},
		[]string{"reason"},
	)

	SplitResultsReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clamm_split_results_returned",
		Help:    "Number of SplitResult entries returned per findBestRoutes call",
		Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
	})

	// HTTP-layer metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clamm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clamm_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
