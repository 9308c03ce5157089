package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCreated is a no-op.
func (n *NoopRecorder) IncCreated(entity string) {}

// IncUpdated is a no-op.
func (n *NoopRecorder) IncUpdated(entity string) {}

// IncDeleted is a no-op.
func (n *NoopRecorder) IncDeleted(entity string) {}

// IncOwnershipDenied is a no-op.
func (n *NoopRecorder) IncOwnershipDenied(entity string) {}

// IncUserCacheHit is a no-op.
func (n *NoopRecorder) IncUserCacheHit() {}

// IncUserCacheMiss is a no-op.
func (n *NoopRecorder) IncUserCacheMiss() {}
