package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserCreated is a no-op.
func (n *NoopRecorder) IncUserCreated() {}

// IncPostCreated is a no-op.
func (n *NoopRecorder) IncPostCreated() {}

// IncPostListCacheHit is a no-op.
func (n *NoopRecorder) IncPostListCacheHit() {}

// IncPostListCacheMiss is a no-op.
func (n *NoopRecorder) IncPostListCacheMiss() {}

// ObservePostListDuration is a no-op.
func (n *NoopRecorder) ObservePostListDuration(duration time.Duration) {}

// IncSuggestionGenerated is a no-op.
func (n *NoopRecorder) IncSuggestionGenerated() {}

// IncEventPublished is a no-op.
func (n *NoopRecorder) IncEventPublished(status string) {}
