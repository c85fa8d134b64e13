// Package telemetry holds the Prometheus collectors for the analysis
// pipeline. One registry is built at startup and shared by reference; the
// core itself stays pure and reports through counters only at pipeline
// boundaries.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles the pipeline's Prometheus metrics.
type Registry struct {
	// RowsRejected counts discarded raw rows by source stream and reason.
	RowsRejected *prometheus.CounterVec

	// AssetsAnalyzed counts completed per-asset pipelines by outcome
	// ("ok" or "failed").
	AssetsAnalyzed *prometheus.CounterVec

	// PipelineDuration observes per-asset pipeline wall time in seconds.
	PipelineDuration prometheus.Histogram

	// CacheHits / CacheMisses track the report cache.
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	registry *prometheus.Registry
}

// NewRegistry creates and registers all pipeline collectors.
func NewRegistry() *Registry {
	r := &Registry{
		RowsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compintel_rows_rejected_total",
				Help: "Raw rows discarded during classification, by source and reason",
			},
			[]string{"source", "reason"},
		),
		AssetsAnalyzed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "compintel_assets_analyzed_total",
				Help: "Per-asset pipeline completions by outcome",
			},
			[]string{"outcome"},
		),
		PipelineDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "compintel_pipeline_duration_seconds",
				Help:    "Wall time of one asset's analysis pipeline",
				Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compintel_cache_hits_total",
			Help: "Report cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compintel_cache_misses_total",
			Help: "Report cache misses",
		}),
		registry: prometheus.NewRegistry(),
	}

	r.registry.MustRegister(
		r.RowsRejected,
		r.AssetsAnalyzed,
		r.PipelineDuration,
		r.CacheHits,
		r.CacheMisses,
	)
	return r
}

// Gatherer exposes the underlying registry for the /metrics handler.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }
