package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds every steamsync collector. A dedicated registry keeps pushes
// to the Pushgateway free of default process collectors from other packages.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// SourceCalls counts every attempt against the external source.
	// outcome: success | transient | permanent
	SourceCalls = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamsync_source_calls_total",
			Help: "Source call attempts by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// SourceGiveUps counts calls that ended without data.
	// reason: unavailable | exhausted
	SourceGiveUps = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamsync_source_give_ups_total",
			Help: "Source calls that were absorbed as no data",
		},
		[]string{"operation", "reason"},
	)

	// ReconcileOutcomes counts reconcile decisions per entity.
	ReconcileOutcomes = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamsync_reconcile_outcomes_total",
			Help: "Reconcile case outcomes by entity",
		},
		[]string{"entity", "outcome"},
	)

	// Upserts counts rows written to the store.
	Upserts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamsync_upserts_total",
			Help: "Rows upserted by entity",
		},
		[]string{"entity"},
	)

	// SkippedChunks counts chunks abandoned after source failures.
	SkippedChunks = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "steamsync_skipped_chunks_total",
			Help: "Chunks skipped after source failures",
		},
		[]string{"entity"},
	)

	RunDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "steamsync_run_duration_seconds",
			Help:    "Duration of a command run",
			Buckets: []float64{1, 5, 15, 30, 60, 300, 900, 1800, 3600, 7200},
		},
		[]string{"command", "status"},
	)

	LastSuccess = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "steamsync_last_success_timestamp_seconds",
			Help: "Unix time of the last successful run",
		},
		[]string{"command"},
	)
)

// EnableRuntimeCollectors adds Go runtime and process collectors. Only the
// long-running serve command wants these.
func EnableRuntimeCollectors() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Push sends the registry to a Pushgateway. Batch runs end before any scrape
// could observe them, so they report this way.
func Push(ctx context.Context, url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}

// Handler exposes the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
