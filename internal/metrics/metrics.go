// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Lookup result labels.
const (
	LookupResultMatch = "match"
	LookupResultDemo  = "demo"
	LookupResultNone  = "none"
)

// Report generation status labels.
const (
	ReportStatusGenerated = "generated"
	ReportStatusDegraded  = "degraded"
	ReportStatusExisting  = "existing"
	ReportStatusFailed    = "failed"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Lookup metrics
	IncEmailChecked(result string) // result: "match", "demo", "none"
	ObserveLookupDuration(duration time.Duration)

	// Report generation metrics
	IncReportGenerated(status string) // status: "generated", "degraded", "existing", "failed"
	ObserveGenerationDuration(duration time.Duration)

	// Subscription metrics
	IncSubscription(outcome string) // outcome: "new", "reactivated", "already_subscribed", "unsubscribed"

	// Crawl metrics
	IncBreachDiscovered()

	// Blog read-path metrics
	IncPostCacheHit()
	IncPostCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}

// Snapshot is a point-in-time view of the in-memory counters.
type Snapshot struct {
	EmailChecks        map[string]int64 `json:"email_checks"`
	Reports            map[string]int64 `json:"reports"`
	Subscriptions      map[string]int64 `json:"subscriptions"`
	BreachesDiscovered int64            `json:"breaches_discovered"`
	PostCacheHits      int64            `json:"post_cache_hits"`
	PostCacheMisses    int64            `json:"post_cache_misses"`
}
