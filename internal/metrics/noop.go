package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncEmailChecked is a no-op.
func (n *NoopRecorder) IncEmailChecked(result string) {}

// ObserveLookupDuration is a no-op.
func (n *NoopRecorder) ObserveLookupDuration(duration time.Duration) {}

// IncReportGenerated is a no-op.
func (n *NoopRecorder) IncReportGenerated(status string) {}

// ObserveGenerationDuration is a no-op.
func (n *NoopRecorder) ObserveGenerationDuration(duration time.Duration) {}

// IncSubscription is a no-op.
func (n *NoopRecorder) IncSubscription(outcome string) {}

// IncBreachDiscovered is a no-op.
func (n *NoopRecorder) IncBreachDiscovered() {}

// IncPostCacheHit is a no-op.
func (n *NoopRecorder) IncPostCacheHit() {}

// IncPostCacheMiss is a no-op.
func (n *NoopRecorder) IncPostCacheMiss() {}
