package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncEntityCreated is a no-op.
func (n *NoopRecorder) IncEntityCreated(entity string) {}

// IncEntityUpdated is a no-op.
func (n *NoopRecorder) IncEntityUpdated(entity string) {}

// IncEntityDeleted is a no-op.
func (n *NoopRecorder) IncEntityDeleted(entity string) {}

// IncEntityRefetch is a no-op.
func (n *NoopRecorder) IncEntityRefetch(entity string) {}

// IncEntityOpFailed is a no-op.
func (n *NoopRecorder) IncEntityOpFailed(entity string) {}

// IncFixedLinksCacheHit is a no-op.
func (n *NoopRecorder) IncFixedLinksCacheHit() {}

// IncFixedLinksCacheMiss is a no-op.
func (n *NoopRecorder) IncFixedLinksCacheMiss() {}
