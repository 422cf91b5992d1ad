// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Entity store metrics, labelled by entity ("shortcut", "folder",
	// "fixed_link").
	IncEntityCreated(entity string)
	IncEntityUpdated(entity string)
	IncEntityDeleted(entity string)
	IncEntityRefetch(entity string)
	IncEntityOpFailed(entity string)

	// Fixed-links cache metrics
	IncFixedLinksCacheHit()
	IncFixedLinksCacheMiss()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
