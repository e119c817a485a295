package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncLogin is a no-op.
func (n *NoopRecorder) IncLogin(result string) {}

// IncClientCreated is a no-op.
func (n *NoopRecorder) IncClientCreated() {}

// IncClientUpdated is a no-op.
func (n *NoopRecorder) IncClientUpdated() {}

// IncCacheHit is a no-op.
func (n *NoopRecorder) IncCacheHit() {}

// IncCacheMiss is a no-op.
func (n *NoopRecorder) IncCacheMiss() {}

// IncCacheError is a no-op.
func (n *NoopRecorder) IncCacheError(op string) {}

// ObserveHTTPRequest is a no-op.
func (n *NoopRecorder) ObserveHTTPRequest(method string, status int, duration time.Duration) {}
