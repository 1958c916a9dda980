package mongostore

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/jsamuelsen11/project-intake-service/internal/domain"
	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
)

func TestTranslateError(t *testing.T) {
	t.Parallel()

	dupEmail := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: freelance.projects index: clientEmail_unique dup key: { clientEmail: "a@x.com" }`,
	}}}
	dupOther := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: freelance.projects index: other_unique dup key: { x: 1 }`,
	}}}

	tests := []struct {
		name       string
		err        error
		wantCode   domain.StorageCode
		wantFields []string
	}{
		{"no documents", mongo.ErrNoDocuments, domain.StorageNotFound, nil},
		{"duplicate email", dupEmail, domain.StorageUniqueViolation, []string{"clientEmail"}},
		{"duplicate unknown index", dupOther, domain.StorageUniqueViolation, nil},
		{"bad value", mongo.CommandError{Code: codeBadValue, Message: "bad"}, domain.StorageMalformedQuery, nil},
		{"failed to parse", mongo.CommandError{Code: codeFailedToParse, Message: "parse"}, domain.StorageMalformedQuery, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := translateError("op", tt.err)

			var serr *domain.StorageError
			if !errors.As(got, &serr) {
				t.Fatalf("translateError() = %T %v, want *domain.StorageError", got, got)
			}
			if serr.Code != tt.wantCode {
				t.Errorf("Code = %v, want %v", serr.Code, tt.wantCode)
			}
			if serr.Resource != project.Resource {
				t.Errorf("Resource = %q, want %q", serr.Resource, project.Resource)
			}
			if len(serr.Fields) != len(tt.wantFields) {
				t.Fatalf("Fields = %v, want %v", serr.Fields, tt.wantFields)
			}
			for i := range tt.wantFields {
				if serr.Fields[i] != tt.wantFields[i] {
					t.Errorf("Fields[%d] = %q, want %q", i, serr.Fields[i], tt.wantFields[i])
				}
			}
			if serr.Err == nil {
				t.Error("translated error should keep the driver error")
			}
		})
	}
}

func TestTranslateError_Unclassified(t *testing.T) {
	t.Parallel()

	if translateError("op", nil) != nil {
		t.Error("translateError(nil) should be nil")
	}

	cause := mongo.CommandError{Code: 13, Message: "Unauthorized"}
	got := translateError("find", cause)

	var serr *domain.StorageError
	if errors.As(got, &serr) {
		t.Fatalf("unclassified error translated to %v", serr)
	}
	var cmdErr mongo.CommandError
	if !errors.As(got, &cmdErr) || cmdErr.Code != 13 {
		t.Errorf("unclassified error %v should wrap the command error", got)
	}

	if got := translateError("find", context.DeadlineExceeded); !errors.Is(got, context.DeadlineExceeded) {
		t.Errorf("translateError(deadline) = %v, want it to wrap context.DeadlineExceeded", got)
	}
}

func TestSetFields(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	name := "Jane"
	status := project.StatusCompleted

	got := setFields(project.Patch{ClientName: &name, Status: &status}, now)

	want := bson.D{
		{Key: "clientName", Value: "Jane"},
		{Key: "status", Value: "Completed"},
		{Key: "updatedAt", Value: now},
	}
	if len(got) != len(want) {
		t.Fatalf("setFields() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i].Key != want[i].Key || got[i].Value != want[i].Value {
			t.Errorf("[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseID(t *testing.T) {
	t.Parallel()

	if _, err := parseID("507f1f77bcf86cd799439011"); err != nil {
		t.Errorf("parseID(valid) error = %v", err)
	}
	if _, err := parseID("nope"); !domain.IsStorageCode(err, domain.StorageMalformedQuery) {
		t.Errorf("parseID(invalid) error = %v, want malformed query", err)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	ts := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	p := &project.Project{
		ClientName:    "John",
		ClientEmail:   "john@x.com",
		Category:      project.CategorySEO,
		Priority:      project.PriorityUrgent,
		Status:        project.StatusInProgress,
		TermsAccepted: true,
		CreatedAt:     ts,
		UpdatedAt:     ts,
	}

	doc := toDocument(p)
	doc.ID = bson.NewObjectID()
	got := doc.toProject()

	if got.ID != doc.ID.Hex() {
		t.Errorf("ID = %q, want %q", got.ID, doc.ID.Hex())
	}
	if got.Category != p.Category || got.Priority != p.Priority || got.Status != p.Status {
		t.Errorf("enums not preserved: %+v", got)
	}
	if !got.CreatedAt.Equal(ts) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, ts)
	}
}
