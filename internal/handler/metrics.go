package handler

import (
	"fmt"
	"net/http"

	"github.com/diario/diario/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "diario_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "diario_posts_created_total %d\n", snap.PostsCreated)

	writeMetric(w, "diario_post_list_cache_hits_total %d\n", snap.PostListCacheHits)
	writeMetric(w, "diario_post_list_cache_misses_total %d\n", snap.PostListCacheMisses)
	writeMetric(w, "diario_post_list_duration_seconds_count %d\n", snap.PostListDurationCount)
	writeMetric(w, "diario_post_list_duration_seconds_sum %.6f\n", float64(snap.PostListDurationTotalNs)/1e9)

	writeMetric(w, "diario_suggestions_generated_total %d\n", snap.SuggestionsGenerated)

	writeMetric(w, "diario_events_published_total{status=\"%s\"} %d\n", metrics.EventStatusSuccess, snap.EventsPublished)
	writeMetric(w, "diario_events_published_total{status=\"%s\"} %d\n", metrics.EventStatusDropped, snap.EventsDropped)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
