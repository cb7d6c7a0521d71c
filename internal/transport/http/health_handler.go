package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

// HealthHandler handles health-related HTTP requests
type HealthHandler struct {
	started time.Time
	store   ResultStore
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store ResultStore) *HealthHandler {
	return &HealthHandler{started: time.Now(), store: store}
}

// HealthCheck handles GET /api/health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(h.started).String(),
	})
}

// ReadinessCheck handles GET /api/health/ready. The server is ready once an
// analysis result is available.
func (h *HealthHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.store.Latest() == nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]interface{}{"status": "no result yet"})
		return
	}
	render.JSON(w, r, map[string]interface{}{"status": "ready"})
}

// VersionInfo handles GET /api/version
func (h *HealthHandler) VersionInfo(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{"version": Version})
}
