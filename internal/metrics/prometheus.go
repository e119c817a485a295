package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector is a Recorder backed by Prometheus metrics.
type Collector struct {
	logins         *prometheus.CounterVec
	clientsCreated prometheus.Counter
	clientsUpdated prometheus.Counter
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	cacheErrors    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clientauth_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		clientsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clientauth_clients_created_total",
			Help: "Clients created.",
		}),
		clientsUpdated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clientauth_clients_updated_total",
			Help: "Client profile updates.",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clientauth_profile_cache_hits_total",
			Help: "Profile reads served from cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "clientauth_profile_cache_misses_total",
			Help: "Profile reads that went to the database.",
		}),
		cacheErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clientauth_profile_cache_errors_total",
			Help: "Cache backend failures absorbed by the profile cache.",
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "clientauth_http_requests_total",
			Help: "HTTP requests by method and status code.",
		}, []string{"method", "status_code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "clientauth_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
	}

	reg.MustRegister(
		c.logins,
		c.clientsCreated,
		c.clientsUpdated,
		c.cacheHits,
		c.cacheMisses,
		c.cacheErrors,
		c.httpRequests,
		c.httpDuration,
	)

	return c
}

// IncLogin counts a login attempt by result.
func (c *Collector) IncLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// IncClientCreated counts a created client.
func (c *Collector) IncClientCreated() {
	c.clientsCreated.Inc()
}

// IncClientUpdated counts a profile update.
func (c *Collector) IncClientUpdated() {
	c.clientsUpdated.Inc()
}

// IncCacheHit counts a cache hit.
func (c *Collector) IncCacheHit() {
	c.cacheHits.Inc()
}

// IncCacheMiss counts a cache miss.
func (c *Collector) IncCacheMiss() {
	c.cacheMisses.Inc()
}

// IncCacheError counts an absorbed cache failure.
func (c *Collector) IncCacheError(op string) {
	c.cacheErrors.WithLabelValues(op).Inc()
}

// ObserveHTTPRequest records a finished HTTP request.
func (c *Collector) ObserveHTTPRequest(method string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
