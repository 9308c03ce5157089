package metrics

import (
	"sync"
	"sync/atomic"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Created         map[string]uint64
	Updated         map[string]uint64
	Deleted         map[string]uint64
	OwnershipDenied map[string]uint64
	UserCacheHits   uint64
	UserCacheMisses uint64
}

// InMemoryRecorder stores metrics in memory for tests and the /metrics endpoint.
type InMemoryRecorder struct {
	mu              sync.Mutex
	created         map[string]uint64
	updated         map[string]uint64
	deleted         map[string]uint64
	ownershipDenied map[string]uint64
	userCacheHits   uint64
	userCacheMisses uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		created:         make(map[string]uint64),
		updated:         make(map[string]uint64),
		deleted:         make(map[string]uint64),
		ownershipDenied: make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return Snapshot{
		Created:         copyCounts(m.created),
		Updated:         copyCounts(m.updated),
		Deleted:         copyCounts(m.deleted),
		OwnershipDenied: copyCounts(m.ownershipDenied),
		UserCacheHits:   atomic.LoadUint64(&m.userCacheHits),
		UserCacheMisses: atomic.LoadUint64(&m.userCacheMisses),
	}
}

// IncCreated increments the created counter for entity.
func (m *InMemoryRecorder) IncCreated(entity string) {
	m.inc(m.created, entity)
}

// IncUpdated increments the updated counter for entity.
func (m *InMemoryRecorder) IncUpdated(entity string) {
	m.inc(m.updated, entity)
}

// IncDeleted increments the deleted counter for entity.
func (m *InMemoryRecorder) IncDeleted(entity string) {
	m.inc(m.deleted, entity)
}

// IncOwnershipDenied increments the ownership-denied counter for entity.
func (m *InMemoryRecorder) IncOwnershipDenied(entity string) {
	m.inc(m.ownershipDenied, entity)
}

// IncUserCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncUserCacheHit() {
	atomic.AddUint64(&m.userCacheHits, 1)
}

// IncUserCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncUserCacheMiss() {
	atomic.AddUint64(&m.userCacheMisses, 1)
}

func (m *InMemoryRecorder) inc(counts map[string]uint64, entity string) {
	m.mu.Lock()
	counts[entity]++
	m.mu.Unlock()
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
