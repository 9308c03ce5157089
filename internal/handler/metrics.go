package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/jobtrack/jobtrack/internal/metrics"
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

	writeEntityCounter(w, "jobtrack_entities_created_total", snap.Created)
	writeEntityCounter(w, "jobtrack_entities_updated_total", snap.Updated)
	writeEntityCounter(w, "jobtrack_entities_deleted_total", snap.Deleted)
	writeEntityCounter(w, "jobtrack_ownership_denied_total", snap.OwnershipDenied)

	writeMetric(w, "jobtrack_user_cache_hits_total %d\n", snap.UserCacheHits)
	writeMetric(w, "jobtrack_user_cache_misses_total %d\n", snap.UserCacheMisses)
}

// writeEntityCounter writes one line per entity label, in stable order.
func writeEntityCounter(w http.ResponseWriter, name string, counts map[string]uint64) {
	entities := []string{metrics.EntityUser, metrics.EntityJob}
	for entity := range counts {
		if entity != metrics.EntityUser && entity != metrics.EntityJob {
			entities = append(entities, entity)
		}
	}
	sort.Strings(entities[2:])

	for _, entity := range entities {
		writeMetric(w, "%s{entity=%q} %d\n", name, entity, counts[entity])
	}
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
