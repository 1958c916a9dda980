package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
)

const testID = "507f1f77bcf86cd799439011"

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func validProject() project.Project {
	return project.Project{
		ID:            testID,
		ClientName:    "John Doe",
		ClientEmail:   "john@x.com",
		Category:      project.CategoryWebDevelopment,
		Priority:      project.PriorityHigh,
		Status:        project.StatusPending,
		TermsAccepted: true,
		CreatedAt:     testTime,
		UpdatedAt:     testTime,
	}
}

func validCreateBody() map[string]any {
	return map[string]any{
		"clientName":    "John Doe",
		"clientEmail":   "john@x.com",
		"category":      "WebDevelopment",
		"priority":      "High",
		"termsAccepted": true,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

// envelope is the decoded shape of every response body.
type envelope struct {
	Success    bool            `json:"success"`
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Errors     []string        `json:"errors"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"totalPages"`
	} `json:"pagination"`
	Cause string `json:"cause"`
	Stack string `json:"stack"`
}
