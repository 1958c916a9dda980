// Package mongostore implements [ports.ProjectRepository] on MongoDB using
// the official v2 driver. Projects live in one collection with a unique index
// on clientEmail; identifiers are ObjectIDs rendered as 24-character hex.
package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jsamuelsen11/project-intake-service/internal/domain"
	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
	"github.com/jsamuelsen11/project-intake-service/internal/ports"
)

const emailIndexName = "clientEmail_unique"

var (
	_ ports.ProjectRepository = (*Store)(nil)
	_ ports.HealthChecker     = (*Store)(nil)
)

// projectDocument is the stored shape of a project.
type projectDocument struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	ClientName    string        `bson:"clientName"`
	ClientEmail   string        `bson:"clientEmail"`
	Category      string        `bson:"category"`
	Priority      string        `bson:"priority"`
	Status        string        `bson:"status"`
	TermsAccepted bool          `bson:"termsAccepted"`
	CreatedAt     time.Time     `bson:"createdAt"`
	UpdatedAt     time.Time     `bson:"updatedAt"`
}

func toDocument(p *project.Project) projectDocument {
	return projectDocument{
		ClientName:    p.ClientName,
		ClientEmail:   p.ClientEmail,
		Category:      string(p.Category),
		Priority:      string(p.Priority),
		Status:        string(p.Status),
		TermsAccepted: p.TermsAccepted,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (d *projectDocument) toProject() project.Project {
	return project.Project{
		ID:            d.ID.Hex(),
		ClientName:    d.ClientName,
		ClientEmail:   d.ClientEmail,
		Category:      project.Category(d.Category),
		Priority:      project.Priority(d.Priority),
		Status:        project.Status(d.Status),
		TermsAccepted: d.TermsAccepted,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// Store is a MongoDB-backed project repository.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for createdAt and updatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store over coll. Call EnsureIndexes once at startup.
func New(coll *mongo.Collection, opts ...Option) *Store {
	s := &Store{coll: coll, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureIndexes creates the unique clientEmail index and the createdAt index
// used for listing. It is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientEmail", Value: 1}},
			Options: options.Index().SetName(emailIndexName).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("createdAt_desc"),
		},
	})
	return translateError("ensure indexes", err)
}

// Name identifies the store in readiness results.
func (s *Store) Name() string { return "mongo" }

// HealthCheck pings the server.
func (s *Store) HealthCheck(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// Create inserts p and returns it with its new ID and timestamps.
func (s *Store) Create(ctx context.Context, p *project.Project) (*project.Project, error) {
	now := s.now().UTC().Truncate(time.Millisecond)

	doc := toDocument(p)
	doc.ID = bson.NewObjectID()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		return nil, translateError("insert", err)
	}

	out := doc.toProject()
	return &out, nil
}

// FindByID returns the project with the given ID.
func (s *Store) FindByID(ctx context.Context, id string) (*project.Project, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc projectDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		return nil, translateError("find one", err)
	}

	out := doc.toProject()
	return &out, nil
}

// FindMany returns a page of projects ordered by createdAt descending.
func (s *Store) FindMany(ctx context.Context, skip, take int64) ([]project.Project, error) {
	if skip < 0 || take < 0 {
		return nil, domain.ErrMalformedQuery(project.Resource, nil)
	}
	// A zero limit means "no limit" to the server.
	if take == 0 {
		return []project.Project{}, nil
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(take)

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, translateError("find", err)
	}

	var docs []projectDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, translateError("decode", err)
	}

	out := make([]project.Project, len(docs))
	for i := range docs {
		out[i] = docs[i].toProject()
	}
	return out, nil
}

// Count returns the number of stored projects.
func (s *Store) Count(ctx context.Context) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, translateError("count", err)
	}
	return n, nil
}

// Update applies patch atomically and returns the updated project.
func (s *Store) Update(ctx context.Context, id string, patch project.Patch) (*project.Project, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	update := bson.D{{Key: "$set", Value: setFields(patch, s.now().UTC().Truncate(time.Millisecond))}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc projectDocument
	err = s.coll.FindOneAndUpdate(ctx, bson.D{{Key: "_id", Value: oid}}, update, opts).Decode(&doc)
	if err != nil {
		return nil, translateError("update", err)
	}

	out := doc.toProject()
	return &out, nil
}

// Delete removes the project with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return translateError("delete", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrRecordNotFound(project.Resource, nil)
	}
	return nil
}

// setFields renders the $set document for patch. updatedAt is always set.
func setFields(patch project.Patch, now time.Time) bson.D {
	set := bson.D{}
	if patch.ClientName != nil {
		set = append(set, bson.E{Key: "clientName", Value: *patch.ClientName})
	}
	if patch.ClientEmail != nil {
		set = append(set, bson.E{Key: "clientEmail", Value: *patch.ClientEmail})
	}
	if patch.Category != nil {
		set = append(set, bson.E{Key: "category", Value: string(*patch.Category)})
	}
	if patch.Priority != nil {
		set = append(set, bson.E{Key: "priority", Value: string(*patch.Priority)})
	}
	if patch.Status != nil {
		set = append(set, bson.E{Key: "status", Value: string(*patch.Status)})
	}
	return append(set, bson.E{Key: "updatedAt", Value: now})
}

func parseID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, domain.ErrMalformedQuery(project.Resource, err)
	}
	return oid, nil
}
