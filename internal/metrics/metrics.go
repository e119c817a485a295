// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Login results.
const (
	LoginSuccess = "success"
	LoginFailure = "failure"
	LoginError   = "error"
)

// Recorder captures metric events for the application.
type Recorder interface {
	// Auth metrics
	IncLogin(result string)

	// Client metrics
	IncClientCreated()
	IncClientUpdated()

	// Profile cache metrics
	IncCacheHit()
	IncCacheMiss()
	IncCacheError(op string) // op: "read", "write" or "invalidate"

	// HTTP metrics
	ObserveHTTPRequest(method string, status int, duration time.Duration)
}
