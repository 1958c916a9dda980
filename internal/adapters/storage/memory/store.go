// Package memory provides an in-process implementation of
// [ports.ProjectRepository]. It enforces the same constraints as the Mongo
// store (unique clientEmail, 24-hex ObjectID identifiers, createdAt-descending
// listing) and is used for local development and end-to-end tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jsamuelsen11/project-intake-service/internal/domain"
	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
	"github.com/jsamuelsen11/project-intake-service/internal/ports"
)

var _ ports.ProjectRepository = (*Store)(nil)

type record struct {
	project project.Project
	seq     uint64
}

// Store is a concurrency-safe in-memory project repository.
type Store struct {
	mu      sync.RWMutex
	records map[string]*record
	emails  map[string]string // clientEmail -> id
	seq     uint64
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		records: make(map[string]*record),
		emails:  make(map[string]string),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores p under a new ObjectID.
func (s *Store) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[p.ClientEmail]; taken {
		return nil, domain.ErrUniqueViolation(project.Resource, nil, "clientEmail")
	}

	now := s.now().UTC()
	stored := *p
	stored.ID = bson.NewObjectID().Hex()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.seq++
	s.records[stored.ID] = &record{project: stored, seq: s.seq}
	s.emails[stored.ClientEmail] = stored.ID

	out := stored
	return &out, nil
}

// FindByID returns the project with the given ID.
func (s *Store) FindByID(ctx context.Context, id string) (*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound(project.Resource, nil)
	}
	out := rec.project
	return &out, nil
}

// FindMany returns a page of projects, newest first. Projects created at the
// same instant are ordered by insertion, newest first.
func (s *Store) FindMany(ctx context.Context, skip, take int64) ([]project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if skip < 0 || take < 0 {
		return nil, domain.ErrMalformedQuery(project.Resource, nil)
	}

	s.mu.RLock()
	recs := make([]*record, 0, len(s.records))
	for _, rec := range s.records {
		recs = append(recs, rec)
	}
	s.mu.RUnlock()

	slices.SortFunc(recs, func(a, b *record) int {
		if c := b.project.CreatedAt.Compare(a.project.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.seq > b.seq:
			return -1
		case a.seq < b.seq:
			return 1
		default:
			return 0
		}
	})

	if skip >= int64(len(recs)) {
		return []project.Project{}, nil
	}
	end := int64(len(recs))
	if take < end-skip {
		end = skip + take
	}

	out := make([]project.Project, 0, end-skip)
	for _, rec := range recs[skip:end] {
		out = append(out, rec.project)
	}
	return out, nil
}

// Count returns the number of stored projects.
func (s *Store) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.records)), nil
}

// Update applies patch to the project with the given ID.
func (s *Store) Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return nil, domain.ErrRecordNotFound(project.Resource, nil)
	}

	if patch.ClientEmail != nil {
		if owner, taken := s.emails[*patch.ClientEmail]; taken && owner != id {
			return nil, domain.ErrUniqueViolation(project.Resource, nil, "clientEmail")
		}
		delete(s.emails, rec.project.ClientEmail)
		s.emails[*patch.ClientEmail] = id
	}

	patch.Apply(&rec.project)
	rec.project.UpdatedAt = s.now().UTC()

	out := rec.project
	return &out, nil
}

// Delete removes the project with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return domain.ErrRecordNotFound(project.Resource, nil)
	}
	delete(s.emails, rec.project.ClientEmail)
	delete(s.records, id)
	return nil
}

// checkID mirrors Mongo's rejection of identifiers that are not ObjectIDs.
func checkID(id string) error {
	if _, err := bson.ObjectIDFromHex(id); err != nil {
		return domain.ErrMalformedQuery(project.Resource, err)
	}
	return nil
}
