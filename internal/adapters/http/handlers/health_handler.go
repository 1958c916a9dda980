package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-intake-service/internal/ports"
)

const (
	statusOK       = "ok"
	statusReady    = "ready"
	statusNotReady = "not_ready"
	statusDegraded = "degraded"
)

// HealthHandler handles the health, liveness and readiness HTTP endpoints.
type HealthHandler struct {
	registry  ports.HealthRegistry
	startedAt time.Time
	now       func() time.Time
}

// NewHealthHandler creates a new HealthHandler with the given health registry.
// startedAt is the process start time used to compute uptime.
func NewHealthHandler(registry ports.HealthRegistry, startedAt time.Time) *HealthHandler {
	return &HealthHandler{registry: registry, startedAt: startedAt, now: time.Now}
}

// Health handles GET /health. Reports status, current time and uptime.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	dto.WriteJSON(w, http.StatusOK, dto.NewHealthResponse(h.now(), h.startedAt))
}

// Liveness handles GET /health/live. Always returns 200 OK.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	dto.WriteJSON(w, http.StatusOK, map[string]string{"status": statusOK})
}

// Readiness handles GET /health/ready. Any failing check answers 503
// "not_ready". Checks wrapping ports.ErrDegraded keep the service in rotation
// with a 200 "degraded".
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	results := h.registry.CheckAll(r.Context())

	checks := make(map[string]string, len(results))
	status, code := statusReady, http.StatusOK
	for name, err := range results {
		switch {
		case err == nil:
			checks[name] = statusOK
		case errors.Is(err, ports.ErrDegraded):
			checks[name] = err.Error()
			if status == statusReady {
				status = statusDegraded
			}
		default:
			checks[name] = err.Error()
			status, code = statusNotReady, http.StatusServiceUnavailable
		}
	}

	dto.WriteJSON(w, code, map[string]any{
		"status": status,
		"checks": checks,
	})
}
