// Package dto provides HTTP request rule sets, response envelopes, and the
// error normalizer for the inbound HTTP adapter layer.
package dto

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
)

// Pagination defaults applied when the caller omits a value or sends one
// that is not a positive integer.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// SuccessResponse is the envelope for every successful response. Data is
// always serialized, as null when there is nothing to return.
type SuccessResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// NewSuccess creates a success envelope. An empty message is omitted.
func NewSuccess(data any, message string) SuccessResponse {
	return SuccessResponse{Success: true, Message: message, Data: data}
}

// WithPagination returns a copy of r carrying p.
func (r SuccessResponse) WithPagination(p Pagination) SuccessResponse {
	r.Pagination = &p
	return r
}

// WriteSuccess writes resp as JSON with the given status code.
func WriteSuccess(w http.ResponseWriter, status int, resp SuccessResponse) {
	WriteJSON(w, status, resp)
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.Any("error", err))
	}
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

// NewPagination computes totalPages = ceil(total / limit). limit must be >= 1.
func NewPagination(page, limit int, total int64) Pagination {
	l := int64(limit)
	pages := total / l
	if total%l != 0 {
		pages++
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
	}
}

// ParsePagination reads page and limit from the query string, defaulting
// missing, non-numeric or non-positive values.
func ParsePagination(q url.Values) (page, limit int) {
	return positiveOr(q.Get("page"), DefaultPage), positiveOr(q.Get("limit"), DefaultLimit)
}

func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ProjectResponse represents a single project in HTTP responses.
type ProjectResponse struct {
	ID            string `json:"id"`
	ClientName    string `json:"clientName"`
	ClientEmail   string `json:"clientEmail"`
	Category      string `json:"category"`
	CategoryLabel string `json:"categoryLabel"`
	Priority      string `json:"priority"`
	PriorityLabel string `json:"priorityLabel"`
	Status        string `json:"status"`
	StatusLabel   string `json:"statusLabel"`
	TermsAccepted bool   `json:"termsAccepted"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

// ToProjectResponse converts a domain Project entity to an HTTP response DTO.
func ToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:            p.ID,
		ClientName:    p.ClientName,
		ClientEmail:   p.ClientEmail,
		Category:      p.Category.String(),
		CategoryLabel: p.Category.Label(),
		Priority:      p.Priority.String(),
		PriorityLabel: p.Priority.Label(),
		Status:        p.Status.String(),
		StatusLabel:   p.Status.Label(),
		TermsAccepted: p.TermsAccepted,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:     p.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

// ToProjectListResponse converts a slice of domain Project entities to
// response DTOs. The result is never nil so it serializes as [].
func ToProjectListResponse(projects []project.Project) []ProjectResponse {
	items := make([]ProjectResponse, len(projects))
	for i := range projects {
		items[i] = ToProjectResponse(&projects[i])
	}
	return items
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
}

// NewHealthResponse reports an "ok" status at now for a process started at
// startedAt. Uptime is in seconds.
func NewHealthResponse(now, startedAt time.Time) HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		Uptime:    now.Sub(startedAt).Seconds(),
	}
}
