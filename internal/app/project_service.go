// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"log/slog"
	"math"

	"github.com/jsamuelsen11/project-intake-service/internal/app/fanout"
	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
	"github.com/jsamuelsen11/project-intake-service/internal/ports"
)

// Compile-time check that ProjectService implements ports.ProjectService.
var _ ports.ProjectService = (*ProjectService)(nil)

// ProjectService implements ports.ProjectService on top of a
// ProjectRepository. Inputs arrive already validated by the HTTP layer; the
// service applies defaults, logs, and passes storage failures through
// untouched so the error normalizer can classify them.
type ProjectService struct {
	repo   ports.ProjectRepository
	logger *slog.Logger
}

// NewProjectService creates a ProjectService. A nil logger is replaced by one
// that discards all output.
func NewProjectService(repo ports.ProjectRepository, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProjectService{
		repo:   repo,
		logger: logger,
	}
}

// CreateProject stores a new project. Status always starts as Pending.
func (s *ProjectService) CreateProject(ctx context.Context, p *project.Project) (*project.Project, error) {
	s.logger.InfoContext(ctx, "creating project", slog.String("category", p.Category.String()))

	p.Status = project.StatusPending

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create project",
			slog.String("operation", "CreateProject"),
			slog.Any("error", err),
		)
		return nil, err
	}

	return created, nil
}

// ListProjects returns one page of projects and the total count. The page
// query and the count query run concurrently.
func (s *ProjectService) ListProjects(ctx context.Context, page, limit int) ([]project.Project, int64, error) {
	s.logger.InfoContext(ctx, "listing projects", slog.Int("page", page), slog.Int("limit", limit))

	var (
		projects []project.Project
		total    int64
	)
	findPage := func(ctx context.Context) error {
		var err error
		projects, err = s.repo.FindMany(ctx, int64(page-1)*int64(limit), int64(limit))
		return err
	}
	if pastLastOffset(page, limit) {
		// No store can hold this many records, so the page is empty.
		projects = []project.Project{}
		findPage = nil
	}

	err := fanout.All(ctx,
		findPage,
		func(ctx context.Context) error {
			var err error
			total, err = s.repo.Count(ctx)
			return err
		},
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list projects",
			slog.String("operation", "ListProjects"),
			slog.Any("error", err),
		)
		return nil, 0, err
	}

	return projects, total, nil
}

// GetProject returns a single project by ID.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*project.Project, error) {
	s.logger.InfoContext(ctx, "fetching project", slog.String("id", id))

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch project",
			slog.String("operation", "GetProject"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return p, nil
}

// UpdateProject applies a partial update. No existence check is made first;
// the repository reports a missing project itself.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	s.logger.InfoContext(ctx, "updating project", slog.String("id", id))

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to update project",
			slog.String("operation", "UpdateProject"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	return updated, nil
}

// DeleteProject deletes a project.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	s.logger.InfoContext(ctx, "deleting project", slog.String("id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete project",
			slog.String("operation", "DeleteProject"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return err
	}

	return nil
}

// pastLastOffset reports whether (page-1)*limit does not fit in an int64.
func pastLastOffset(page, limit int) bool {
	return page > 1 && limit > 0 && int64(page-1) > math.MaxInt64/int64(limit)
}
