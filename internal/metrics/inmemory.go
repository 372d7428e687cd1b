package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersCreated            uint64
	PostsCreated            uint64
	PostListCacheHits       uint64
	PostListCacheMisses     uint64
	PostListDurationCount   uint64
	PostListDurationTotalNs int64
	SuggestionsGenerated    uint64
	EventsPublished         uint64
	EventsDropped           uint64
}

// InMemoryRecorder stores metrics in memory.
// It backs the /metrics endpoint and is used by tests.
type InMemoryRecorder struct {
	usersCreated            atomic.Uint64
	postsCreated            atomic.Uint64
	postListCacheHits       atomic.Uint64
	postListCacheMisses     atomic.Uint64
	postListDurationCount   atomic.Uint64
	postListDurationTotalNs atomic.Int64
	suggestionsGenerated    atomic.Uint64
	eventsPublished         atomic.Uint64
	eventsDropped           atomic.Uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersCreated:            m.usersCreated.Load(),
		PostsCreated:            m.postsCreated.Load(),
		PostListCacheHits:       m.postListCacheHits.Load(),
		PostListCacheMisses:     m.postListCacheMisses.Load(),
		PostListDurationCount:   m.postListDurationCount.Load(),
		PostListDurationTotalNs: m.postListDurationTotalNs.Load(),
		SuggestionsGenerated:    m.suggestionsGenerated.Load(),
		EventsPublished:         m.eventsPublished.Load(),
		EventsDropped:           m.eventsDropped.Load(),
	}
}

// IncUserCreated increments the user created counter.
func (m *InMemoryRecorder) IncUserCreated() {
	m.usersCreated.Add(1)
}

// IncPostCreated increments the post created counter.
func (m *InMemoryRecorder) IncPostCreated() {
	m.postsCreated.Add(1)
}

// IncPostListCacheHit increments the post list cache hit counter.
func (m *InMemoryRecorder) IncPostListCacheHit() {
	m.postListCacheHits.Add(1)
}

// IncPostListCacheMiss increments the post list cache miss counter.
func (m *InMemoryRecorder) IncPostListCacheMiss() {
	m.postListCacheMisses.Add(1)
}

// ObservePostListDuration records how long a listing took.
func (m *InMemoryRecorder) ObservePostListDuration(duration time.Duration) {
	m.postListDurationCount.Add(1)
	m.postListDurationTotalNs.Add(duration.Nanoseconds())
}

// IncSuggestionGenerated increments the suggestion counter.
func (m *InMemoryRecorder) IncSuggestionGenerated() {
	m.suggestionsGenerated.Add(1)
}

// IncEventPublished counts a publish attempt by outcome.
func (m *InMemoryRecorder) IncEventPublished(status string) {
	if status == EventStatusSuccess {
		m.eventsPublished.Add(1)
		return
	}
	m.eventsDropped.Add(1)
}
