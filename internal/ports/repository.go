package ports

import (
	"context"

	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
)

// ProjectRepository defines the persistence port for projects.
// Implemented by the storage adapters; called by the application layer.
// Failures are reported as *domain.StorageError when they can be classified
// (unique violation, not found, malformed query). Anything else is returned
// as-is and treated as an internal failure.
type ProjectRepository interface {
	// Create stores a new project and returns it with the server-assigned
	// ID and timestamps. Returns a unique-violation StorageError naming the
	// offending fields if clientEmail is already taken.
	Create(ctx context.Context, p *project.Project) (*project.Project, error)

	// FindByID returns a single project.
	// Returns a not-found StorageError if no project has the given ID.
	FindByID(ctx context.Context, id string) (*project.Project, error)

	// FindMany returns at most take projects after skipping skip, ordered
	// by CreatedAt descending.
	FindMany(ctx context.Context, skip, take int64) ([]project.Project, error)

	// Count returns the total number of stored projects.
	Count(ctx context.Context) (int64, error)

	// Update applies the patch to an existing project and returns the
	// updated entity. Returns a not-found StorageError if the project does
	// not exist.
	Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error)

	// Delete removes a project.
	// Returns a not-found StorageError if the project does not exist.
	Delete(ctx context.Context, id string) error
}
