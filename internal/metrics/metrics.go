// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Entity names used as metric labels.
const (
	EntityUser = "user"
	EntityJob  = "job"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Entity lifecycle
	IncCreated(entity string)
	IncUpdated(entity string)
	IncDeleted(entity string)

	// Authorization
	IncOwnershipDenied(entity string)

	// User profile cache
	IncUserCacheHit()
	IncUserCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
