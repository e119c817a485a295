package handler

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db    HealthChecker
	cache HealthChecker
}

// NewHealthHandler creates a new HealthHandler.
// A nil db or cache is reported as "not configured".
func NewHealthHandler(db, cache HealthChecker) *HealthHandler {
	return &HealthHandler{
		db:    db,
		cache: cache,
	}
}

// HealthResponse represents the readiness response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health is the liveness probe. It answers a plain "OK" without touching dependencies.
//
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// Readyz is the readiness probe. It returns 200 only if every configured dependency answers.
// The profile cache is reported but never fails readiness, since reads fall through to PostgreSQL.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{
		"postgres": probe(ctx, h.db),
		"redis":    probe(ctx, h.cache),
	}

	status, code := "ok", http.StatusOK
	if checks["postgres"] != "ok" {
		status, code = "unhealthy", http.StatusServiceUnavailable
	} else if checks["redis"] != "ok" {
		status = "degraded"
	}

	writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
}

func probe(ctx context.Context, c HealthChecker) string {
	if c == nil {
		return "not configured"
	}
	if err := c.Ping(ctx); err != nil {
		return "error"
	}
	return "ok"
}
