package ports

import (
	"context"

	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
)

// ProjectService defines the service port for project operations.
// Implemented by the application layer; called by inbound adapters (handlers).
// Inputs are expected to be validated already; the service applies defaults
// and delegates to the ProjectRepository.
type ProjectService interface {
	// CreateProject stores a new project with status Pending and returns the
	// created entity with server-assigned fields (ID, timestamps).
	CreateProject(ctx context.Context, p *project.Project) (*project.Project, error)

	// ListProjects returns one page of projects, newest first, along with
	// the total number of projects.
	ListProjects(ctx context.Context, page, limit int) ([]project.Project, int64, error)

	// GetProject returns a single project by ID.
	GetProject(ctx context.Context, id string) (*project.Project, error)

	// UpdateProject applies a partial update and returns the updated entity.
	UpdateProject(ctx context.Context, id string, patch project.Patch) (*project.Project, error)

	// DeleteProject deletes a project.
	DeleteProject(ctx context.Context, id string) error
}
