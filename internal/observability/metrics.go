package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	cacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "assettrack",
		Subsystem: "feed",
		Name:      "cache_hits_total",
		Help:      "Feed requests answered from the page cache.",
	})
	cacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "assettrack",
		Subsystem: "feed",
		Name:      "cache_misses_total",
		Help:      "Feed requests that had to recompute the page.",
	})
	queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "assettrack",
		Subsystem: "feed",
		Name:      "query_duration_seconds",
		Help:      "Time spent computing a feed page, by query mode.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"mode"})
	sourceFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assettrack",
		Subsystem: "feed",
		Name:      "source_failures_total",
		Help:      "Adapter calls that failed after retries, by source.",
	}, []string{"source"})
	ingestProcessed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assettrack",
		Subsystem: "ingest",
		Name:      "events_processed_total",
		Help:      "Lifecycle events persisted into their collections.",
	}, []string{"event_type"})
	ingestErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "assettrack",
		Subsystem: "ingest",
		Name:      "events_failed_total",
		Help:      "Lifecycle events that could not be decoded or persisted.",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses, queryDuration, sourceFailures, ingestProcessed, ingestErrors)
}

// RecordCacheHit counts a feed request served from cache.
func RecordCacheHit() { cacheHits.Inc() }

// RecordCacheMiss counts a feed request that recomputed its page.
func RecordCacheMiss() { cacheMisses.Inc() }

// ObserveQuery records how long a feed computation took. Mode is "single"
// for filtered queries and "merged" for the cross-source fan-out.
func ObserveQuery(mode string, elapsed time.Duration) {
	queryDuration.WithLabelValues(mode).Observe(elapsed.Seconds())
}

// RecordSourceFailure counts a post-retry adapter failure.
func RecordSourceFailure(sourceKind string) {
	sourceFailures.WithLabelValues(sourceKind).Inc()
}

// RecordIngestProcessed counts a persisted lifecycle event.
func RecordIngestProcessed(eventType string) {
	ingestProcessed.WithLabelValues(eventType).Inc()
}

// RecordIngestError counts a dropped or retried lifecycle event.
func RecordIngestError(reason string) {
	ingestErrors.WithLabelValues(reason).Inc()
}
