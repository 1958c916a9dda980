package handlers_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/project-intake-service/internal/ports"
	"github.com/jsamuelsen11/project-intake-service/mocks"
)

func TestHealth_ReportsStatusAndUptime(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(mocks.NewMockHealthRegistry(t), time.Now().Add(-time.Minute))

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	requireStatus(t, rec, http.StatusOK)

	resp := decodeJSON[struct {
		Status    string  `json:"status"`
		Timestamp string  `json:"timestamp"`
		Uptime    float64 `json:"uptime"`
	}](t, rec)
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.Uptime < 60 {
		t.Errorf("uptime = %v, want >= 60 seconds", resp.Uptime)
	}
	if _, err := time.Parse(time.RFC3339Nano, resp.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC 3339: %v", resp.Timestamp, err)
	}
}

func TestLiveness_AlwaysOK(t *testing.T) {
	t.Parallel()

	h := handlers.NewHealthHandler(mocks.NewMockHealthRegistry(t), testTime)

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", http.NoBody))

	requireStatus(t, rec, http.StatusOK)
	if resp := decodeJSON[map[string]string](t, rec); resp["status"] != "ok" {
		t.Errorf("status = %q, want ok", resp["status"])
	}
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	halfOpen := fmt.Errorf("project-store: circuit breaker half-open: %w", ports.ErrDegraded)

	tests := []struct {
		name       string
		results    map[string]error
		wantCode   int
		wantStatus string
		wantChecks map[string]string
	}{
		{
			name:       "no checkers",
			results:    map[string]error{},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantChecks: map[string]string{},
		},
		{
			name:       "all healthy",
			results:    map[string]error{"mongo": nil, "project-store": nil},
			wantCode:   http.StatusOK,
			wantStatus: "ready",
			wantChecks: map[string]string{"mongo": "ok", "project-store": "ok"},
		},
		{
			name:       "degraded stays in rotation",
			results:    map[string]error{"mongo": nil, "project-store": halfOpen},
			wantCode:   http.StatusOK,
			wantStatus: "degraded",
			wantChecks: map[string]string{"mongo": "ok", "project-store": halfOpen.Error()},
		},
		{
			name:       "failing check wins over degraded",
			results:    map[string]error{"mongo": errors.New("connection refused"), "project-store": halfOpen},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "not_ready",
			wantChecks: map[string]string{"mongo": "connection refused", "project-store": halfOpen.Error()},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			registry := mocks.NewMockHealthRegistry(t)
			registry.EXPECT().CheckAll(mock.Anything).Return(tt.results).Once()
			h := handlers.NewHealthHandler(registry, testTime)

			rec := httptest.NewRecorder()
			h.Readiness(rec, httptest.NewRequest(http.MethodGet, "/health/ready", http.NoBody))
			requireStatus(t, rec, tt.wantCode)

			resp := decodeJSON[struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}](t, rec)
			if resp.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", resp.Status, tt.wantStatus)
			}
			if len(resp.Checks) != len(tt.wantChecks) {
				t.Errorf("checks = %v, want %v", resp.Checks, tt.wantChecks)
			}
			for name, want := range tt.wantChecks {
				if resp.Checks[name] != want {
					t.Errorf("checks[%s] = %q, want %q", name, resp.Checks[name], want)
				}
			}
		})
	}
}
