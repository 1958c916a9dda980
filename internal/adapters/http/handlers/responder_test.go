package handlers_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen11/project-intake-service/internal/domain"
	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
)

func newResponder(devMode bool) (*handlers.Responder, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return handlers.NewResponder(logger, devMode), buf
}

func TestResponder_SuccessPassesThrough(t *testing.T) {
	t.Parallel()
	rp, logs := newResponder(false)

	h := rp.Wrap(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusAccepted)
		return nil
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	requireStatus(t, rec, http.StatusAccepted)
	if rec.Body.Len() != 0 {
		t.Errorf("body = %q, want empty", rec.Body.String())
	}
	if logs.Len() != 0 {
		t.Errorf("unexpected log output: %s", logs.String())
	}
}

func TestResponder_ReturnedErrorIsNormalized(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantStatus  string
		wantMessage string
		wantLevel   string
	}{
		{
			name:        "storage not found",
			err:         domain.ErrRecordNotFound(project.Resource, nil),
			wantCode:    http.StatusNotFound,
			wantStatus:  "fail",
			wantMessage: "Project not found",
			wantLevel:   "WARN",
		},
		{
			name:        "unexpected error",
			err:         errors.New("socket closed"),
			wantCode:    http.StatusInternalServerError,
			wantStatus:  "error",
			wantMessage: "Internal server error",
			wantLevel:   "ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rp, logs := newResponder(false)

			h := rp.Wrap(func(http.ResponseWriter, *http.Request) error { return tt.err })

			rec := httptest.NewRecorder()
			h(rec, httptest.NewRequest(http.MethodGet, "/api/projects", nil))

			requireStatus(t, rec, tt.wantCode)
			resp := decodeJSON[envelope](t, rec)
			if resp.Success || resp.Status != tt.wantStatus || resp.Message != tt.wantMessage {
				t.Errorf("envelope = %+v", resp)
			}
			if resp.Cause != "" || resp.Stack != "" {
				t.Errorf("production envelope leaks diagnostics: %+v", resp)
			}
			if !strings.Contains(logs.String(), `"level":"`+tt.wantLevel+`"`) {
				t.Errorf("log level %s not found in %s", tt.wantLevel, logs.String())
			}
		})
	}
}

func TestResponder_PanicBecomesInternalError(t *testing.T) {
	t.Parallel()

	t.Run("production hides detail", func(t *testing.T) {
		t.Parallel()
		rp, logs := newResponder(false)

		h := rp.Wrap(func(http.ResponseWriter, *http.Request) error { panic("nil map write") })

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		requireStatus(t, rec, http.StatusInternalServerError)
		resp := decodeJSON[envelope](t, rec)
		if resp.Message != "Internal server error" || resp.Stack != "" || resp.Cause != "" {
			t.Errorf("envelope = %+v", resp)
		}
		if !strings.Contains(logs.String(), "nil map write") {
			t.Errorf("panic value not logged: %s", logs.String())
		}
	})

	t.Run("development shows cause and stack", func(t *testing.T) {
		t.Parallel()
		rp, _ := newResponder(true)

		h := rp.Wrap(func(http.ResponseWriter, *http.Request) error { panic("nil map write") })

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		resp := decodeJSON[envelope](t, rec)
		if resp.Cause != "panic: nil map write" || resp.Message != "panic: nil map write" {
			t.Errorf("message, cause = %q, %q, want panic: nil map write", resp.Message, resp.Cause)
		}
		if !strings.Contains(resp.Stack, "goroutine") {
			t.Errorf("stack = %q, want a goroutine trace", resp.Stack)
		}
	})
}

func TestResponder_StartedResponseIsNotOverwritten(t *testing.T) {
	t.Parallel()
	rp, logs := newResponder(false)

	h := rp.Wrap(func(w http.ResponseWriter, _ *http.Request) error {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial"))
		return errors.New("stream broke")
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	requireStatus(t, rec, http.StatusOK)
	if rec.Body.String() != "partial" {
		t.Errorf("body = %q, want only the partial response", rec.Body.String())
	}
	if !strings.Contains(logs.String(), "response already started") {
		t.Errorf("expected log about started response, got %s", logs.String())
	}
}

func TestResponder_AbortHandlerPanicPropagates(t *testing.T) {
	t.Parallel()
	rp, _ := newResponder(false)

	h := rp.Wrap(func(http.ResponseWriter, *http.Request) error { panic(http.ErrAbortHandler) })

	defer func() {
		if v := recover(); v != http.ErrAbortHandler {
			t.Errorf("recovered %v, want http.ErrAbortHandler", v)
		}
	}()
	h(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
