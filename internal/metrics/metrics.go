// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Event publish outcomes.
const (
	EventStatusSuccess = "success"
	EventStatusDropped = "dropped"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Write path
	IncUserCreated()
	IncPostCreated()

	// Read path
	IncPostListCacheHit()
	IncPostListCacheMiss()
	ObservePostListDuration(duration time.Duration)

	// Autocomplete
	IncSuggestionGenerated()

	// Domain events
	IncEventPublished(status string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
