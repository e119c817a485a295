package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Logins         map[string]uint64
	ClientsCreated uint64
	ClientsUpdated uint64
	CacheHits      uint64
	CacheMisses    uint64
	CacheErrors    map[string]uint64
	HTTPRequests   map[int]uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	clientsCreated uint64
	clientsUpdated uint64
	cacheHits      uint64
	cacheMisses    uint64

	mu           sync.Mutex
	logins       map[string]uint64
	cacheErrors  map[string]uint64
	httpRequests map[int]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{
		logins:       make(map[string]uint64),
		cacheErrors:  make(map[string]uint64),
		httpRequests: make(map[int]uint64),
	}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Logins:         make(map[string]uint64, len(m.logins)),
		ClientsCreated: atomic.LoadUint64(&m.clientsCreated),
		ClientsUpdated: atomic.LoadUint64(&m.clientsUpdated),
		CacheHits:      atomic.LoadUint64(&m.cacheHits),
		CacheMisses:    atomic.LoadUint64(&m.cacheMisses),
		CacheErrors:    make(map[string]uint64, len(m.cacheErrors)),
		HTTPRequests:   make(map[int]uint64, len(m.httpRequests)),
	}
	for k, v := range m.logins {
		snap.Logins[k] = v
	}
	for k, v := range m.cacheErrors {
		snap.CacheErrors[k] = v
	}
	for k, v := range m.httpRequests {
		snap.HTTPRequests[k] = v
	}
	return snap
}

// IncLogin counts a login attempt by result.
func (m *InMemoryRecorder) IncLogin(result string) {
	m.mu.Lock()
	m.logins[result]++
	m.mu.Unlock()
}

// IncClientCreated increments the created counter.
func (m *InMemoryRecorder) IncClientCreated() {
	atomic.AddUint64(&m.clientsCreated, 1)
}

// IncClientUpdated increments the updated counter.
func (m *InMemoryRecorder) IncClientUpdated() {
	atomic.AddUint64(&m.clientsUpdated, 1)
}

// IncCacheHit increments cache hit counter.
func (m *InMemoryRecorder) IncCacheHit() {
	atomic.AddUint64(&m.cacheHits, 1)
}

// IncCacheMiss increments cache miss counter.
func (m *InMemoryRecorder) IncCacheMiss() {
	atomic.AddUint64(&m.cacheMisses, 1)
}

// IncCacheError counts an absorbed cache backend failure.
func (m *InMemoryRecorder) IncCacheError(op string) {
	m.mu.Lock()
	m.cacheErrors[op]++
	m.mu.Unlock()
}

// ObserveHTTPRequest counts a request by status code.
func (m *InMemoryRecorder) ObserveHTTPRequest(method string, status int, duration time.Duration) {
	m.mu.Lock()
	m.httpRequests[status]++
	m.mu.Unlock()
}
