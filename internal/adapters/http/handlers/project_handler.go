// Package handlers provides HTTP request handlers for the service's API endpoints.
package handlers

import (
	"net/http"

	"github.com/jsamuelsen11/project-intake-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-intake-service/internal/platform/schema"
	"github.com/jsamuelsen11/project-intake-service/internal/ports"
)

// Success messages.
const (
	msgCreated = "Project created successfully"
	msgUpdated = "Project updated successfully"
	msgDeleted = "Project deleted successfully"
)

// ProjectHandler handles HTTP requests for project CRUD. Every method
// validates its input before calling the service and returns failures
// instead of writing them.
type ProjectHandler struct {
	svc       ports.ProjectService
	validator *schema.Validator
	rules     *dto.ProjectRules
}

// NewProjectHandler creates a new ProjectHandler with the given service port,
// validator and rule sets.
func NewProjectHandler(svc ports.ProjectService, v *schema.Validator, rules *dto.ProjectRules) *ProjectHandler {
	return &ProjectHandler{svc: svc, validator: v, rules: rules}
}

// ListProjects handles GET /api/projects.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) error {
	page, limit := dto.ParsePagination(r.URL.Query())

	projects, total, err := h.svc.ListProjects(r.Context(), page, limit)
	if err != nil {
		return err
	}

	resp := dto.NewSuccess(dto.ToProjectListResponse(projects), "").
		WithPagination(dto.NewPagination(page, limit, total))
	dto.WriteSuccess(w, http.StatusOK, resp)
	return nil
}

// CreateProject handles POST /api/projects.
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) error {
	raw, err := decodeJSONBody(w, r)
	if err != nil {
		return err
	}

	vals, err := validate(h.validator, h.rules.Create, raw)
	if err != nil {
		return err
	}

	created, err := h.svc.CreateProject(r.Context(), dto.ProjectFromValues(vals))
	if err != nil {
		return err
	}

	dto.WriteSuccess(w, http.StatusCreated, dto.NewSuccess(dto.ToProjectResponse(created), msgCreated))
	return nil
}

// GetProject handles GET /api/projects/{id}.
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(h.validator, h.rules, r)
	if err != nil {
		return err
	}

	p, err := h.svc.GetProject(r.Context(), id)
	if err != nil {
		return err
	}

	dto.WriteSuccess(w, http.StatusOK, dto.NewSuccess(dto.ToProjectResponse(p), ""))
	return nil
}

// UpdateProject handles PUT /api/projects/{id}. The identifier is validated
// before the body is read.
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(h.validator, h.rules, r)
	if err != nil {
		return err
	}

	raw, err := decodeJSONBody(w, r)
	if err != nil {
		return err
	}

	vals, err := validate(h.validator, h.rules.Update, raw)
	if err != nil {
		return err
	}

	updated, err := h.svc.UpdateProject(r.Context(), id, dto.PatchFromValues(vals))
	if err != nil {
		return err
	}

	dto.WriteSuccess(w, http.StatusOK, dto.NewSuccess(dto.ToProjectResponse(updated), msgUpdated))
	return nil
}

// DeleteProject handles DELETE /api/projects/{id}.
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(h.validator, h.rules, r)
	if err != nil {
		return err
	}

	if err := h.svc.DeleteProject(r.Context(), id); err != nil {
		return err
	}

	dto.WriteSuccess(w, http.StatusOK, dto.NewSuccess(nil, msgDeleted))
	return nil
}
