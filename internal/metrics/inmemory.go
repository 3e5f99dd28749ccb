package metrics

import (
	"sync"
	"time"
)

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu sync.Mutex

	emailChecks        map[string]int64
	reports            map[string]int64
	subscriptions      map[string]int64
	breachesDiscovered int64
	postCacheHits      int64
	postCacheMisses    int64

	lookupDurationCount     int64
	lookupDurationTotalNs   int64
	generationDurationCount int64
	generationDurationNs    int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		emailChecks:   make(map[string]int64),
		reports:       make(map[string]int64),
		subscriptions: make(map[string]int64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		EmailChecks:        copyCounts(m.emailChecks),
		Reports:            copyCounts(m.reports),
		Subscriptions:      copyCounts(m.subscriptions),
		BreachesDiscovered: m.breachesDiscovered,
		PostCacheHits:      m.postCacheHits,
		PostCacheMisses:    m.postCacheMisses,
	}
}

// IncEmailChecked increments the lookup counter for a result label.
func (m *InMemoryRecorder) IncEmailChecked(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emailChecks[result]++
}

// ObserveLookupDuration records a lookup duration.
func (m *InMemoryRecorder) ObserveLookupDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookupDurationCount++
	m.lookupDurationTotalNs += duration.Nanoseconds()
}

// IncReportGenerated increments the report counter for a status label.
func (m *InMemoryRecorder) IncReportGenerated(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[status]++
}

// ObserveGenerationDuration records a generation duration.
func (m *InMemoryRecorder) ObserveGenerationDuration(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generationDurationCount++
	m.generationDurationNs += duration.Nanoseconds()
}

// IncSubscription increments the subscription counter for an outcome label.
func (m *InMemoryRecorder) IncSubscription(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions[outcome]++
}

// IncBreachDiscovered increments the discovered-breach counter.
func (m *InMemoryRecorder) IncBreachDiscovered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breachesDiscovered++
}

// IncPostCacheHit increments the post cache hit counter.
func (m *InMemoryRecorder) IncPostCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postCacheHits++
}

// IncPostCacheMiss increments the post cache miss counter.
func (m *InMemoryRecorder) IncPostCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.postCacheMisses++
}

func copyCounts(src map[string]int64) map[string]int64 {
	dst := make(map[string]int64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
