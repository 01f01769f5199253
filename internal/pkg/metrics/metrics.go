package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ProbesTotal counts liveness probes by terminal status (success/failed).
	ProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainrpc_probes_total",
			Help: "Liveness probes performed during endpoint validation.",
		},
		[]string{"status"},
	)

	// DispatchAttemptsTotal counts individual endpoint attempts by outcome
	// (success, rejected, transport_fault).
	DispatchAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainrpc_dispatch_attempts_total",
			Help: "Endpoint attempts made by the dispatch pool.",
		},
		[]string{"outcome"},
	)

	// PoolExhaustedTotal counts calls that failed after trying every
	// endpoint in the pool.
	PoolExhaustedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chainrpc_pool_exhausted_total",
			Help: "Calls that exhausted the whole endpoint pool.",
		},
	)

	// CatalogRefreshesTotal counts full catalog refreshes by result.
	CatalogRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chainrpc_catalog_refreshes_total",
			Help: "Full catalog refreshes from the remote chain list.",
		},
		[]string{"result"},
	)
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once at startup.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		ProbesTotal,
		DispatchAttemptsTotal,
		PoolExhaustedTotal,
		CatalogRefreshesTotal,
	)
}
