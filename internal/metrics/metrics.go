package metrics

import (
	"context"
	"log/slog"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"taskhub/internal/db"
)

var (
	searchLookupDesc = prometheus.NewDesc(
		"taskhub_search_lookups_total",
		"Total search lookup count by outcome",
		[]string{"term", "outcome"},
		nil,
	)

	suggestOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskhub_suggest_requests_total",
			Help: "Suggestion engine lookups by outcome",
		},
		[]string{"outcome"},
	)
)

// SearchLookupCollector is a custom Prometheus collector that reads search
// lookup counts from the database on each scrape.
type SearchLookupCollector struct {
	db *db.DB
}

// Describe sends the metric descriptor to the channel.
func (c *SearchLookupCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- searchLookupDesc
}

// Collect queries the database for all search lookups and emits them as counters.
func (c *SearchLookupCollector) Collect(ch chan<- prometheus.Metric) {
	lookups, err := c.db.GetAllSearchLookups(context.Background())
	if err != nil {
		slog.Error("failed to collect search lookup metrics", "error", err)
		return
	}
	for _, l := range lookups {
		ch <- prometheus.MustNewConstMetric(
			searchLookupDesc,
			prometheus.CounterValue,
			float64(l.Count),
			l.Term,
			l.Outcome,
		)
	}
}

// Recorder provides async search lookup recording.
type Recorder struct {
	db *db.DB
}

var (
	recorder     *Recorder
	recorderOnce sync.Once
)

// Init registers the collectors and initializes the recorder.
// Must be called once at startup.
func Init(database *db.DB) {
	recorderOnce.Do(func() {
		recorder = &Recorder{db: database}
		prometheus.MustRegister(&SearchLookupCollector{db: database})
		prometheus.MustRegister(suggestOutcomes)
	})
}

// RecordSearchLookup asynchronously records a search term outcome.
func RecordSearchLookup(term, outcome string) {
	if recorder == nil {
		return
	}
	go func() {
		if err := recorder.db.IncrementSearchLookup(context.Background(), term, outcome); err != nil {
			slog.Error("failed to record search lookup", "term", term, "outcome", outcome, "error", err)
		}
	}()
}

// EngineObserver feeds suggestion engine outcomes into prometheus. It
// satisfies the engine's Observer interface.
type EngineObserver struct{}

// CacheHit counts a lookup served from cache.
func (EngineObserver) CacheHit() { suggestOutcomes.WithLabelValues("cache_hit").Inc() }

// CacheMiss counts a lookup that went to the fetch function.
func (EngineObserver) CacheMiss() { suggestOutcomes.WithLabelValues("cache_miss").Inc() }

// LookupError counts a failed fetch.
func (EngineObserver) LookupError() { suggestOutcomes.WithLabelValues("error").Inc() }
