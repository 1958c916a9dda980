package mongostore

import (
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/jsamuelsen11/project-intake-service/internal/domain"
	"github.com/jsamuelsen11/project-intake-service/internal/domain/project"
)

// Server error codes reported for queries the server cannot execute.
const (
	codeBadValue      = 2
	codeFailedToParse = 9
	codeTypeMismatch  = 14
)

// uniqueIndexFields maps unique index names to the fields they cover, so a
// duplicate-key error can name the offending fields.
var uniqueIndexFields = map[string][]string{
	emailIndexName: {"clientEmail"},
}

// translateError converts driver errors into domain storage errors. Errors it
// cannot classify are wrapped with op and returned unchanged otherwise.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrRecordNotFound(project.Resource, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrUniqueViolation(project.Resource, err, duplicateFields(err)...)
	}

	var se mongo.ServerError
	if errors.As(err, &se) &&
		(se.HasErrorCode(codeBadValue) || se.HasErrorCode(codeFailedToParse) || se.HasErrorCode(codeTypeMismatch)) {
		return domain.ErrMalformedQuery(project.Resource, err)
	}

	return fmt.Errorf("mongo %s: %w", op, err)
}

// duplicateFields extracts the fields of the violated unique index from the
// server message ("... index: clientEmail_unique dup key: ..."). Returns nil
// when the index is unknown.
func duplicateFields(err error) []string {
	msg := err.Error()
	for index, fields := range uniqueIndexFields {
		if strings.Contains(msg, "index: "+index+" ") {
			return fields
		}
	}
	return nil
}
