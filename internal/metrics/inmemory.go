package metrics

import "sync"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	EntityCreated         map[string]uint64
	EntityUpdated         map[string]uint64
	EntityDeleted         map[string]uint64
	EntityRefetches       map[string]uint64
	EntityOpFailures      map[string]uint64
	FixedLinksCacheHits   uint64
	FixedLinksCacheMisses uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	mu        sync.Mutex
	created   map[string]uint64
	updated   map[string]uint64
	deleted   map[string]uint64
	refetches map[string]uint64
	failures  map[string]uint64
	cacheHit  uint64
	cacheMiss uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		created:   make(map[string]uint64),
		updated:   make(map[string]uint64),
		deleted:   make(map[string]uint64),
		refetches: make(map[string]uint64),
		failures:  make(map[string]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		EntityCreated:         copyCounters(m.created),
		EntityUpdated:         copyCounters(m.updated),
		EntityDeleted:         copyCounters(m.deleted),
		EntityRefetches:       copyCounters(m.refetches),
		EntityOpFailures:      copyCounters(m.failures),
		FixedLinksCacheHits:   m.cacheHit,
		FixedLinksCacheMisses: m.cacheMiss,
	}
}

// IncEntityCreated increments the created counter for an entity.
func (m *InMemoryRecorder) IncEntityCreated(entity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created[entity]++
}

// IncEntityUpdated increments the updated counter for an entity.
func (m *InMemoryRecorder) IncEntityUpdated(entity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updated[entity]++
}

// IncEntityDeleted increments the deleted counter for an entity.
func (m *InMemoryRecorder) IncEntityDeleted(entity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted[entity]++
}

// IncEntityRefetch increments the refetch counter for an entity.
func (m *InMemoryRecorder) IncEntityRefetch(entity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.refetches[entity]++
}

// IncEntityOpFailed increments the failure counter for an entity.
func (m *InMemoryRecorder) IncEntityOpFailed(entity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[entity]++
}

// IncFixedLinksCacheHit increments the fixed-links cache hit counter.
func (m *InMemoryRecorder) IncFixedLinksCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheHit++
}

// IncFixedLinksCacheMiss increments the fixed-links cache miss counter.
func (m *InMemoryRecorder) IncFixedLinksCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cacheMiss++
}

func copyCounters(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
