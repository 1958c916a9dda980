package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen11/project-intake-service/internal/domain"
)

// Client-facing messages decided by the normalizer.
const (
	MsgInternal      = "Internal server error"
	MsgMalformed     = "Malformed query"
	MsgTokenExpired  = "Token expired. Please log in again"
	MsgTokenInvalid  = "Invalid token. Please log in again"
	msgResourceExist = "Resource already exists"
)

// invalidTokenErrors are the golang-jwt validation failures reported as an
// invalid (rather than expired) credential.
var invalidTokenErrors = []error{
	domain.ErrTokenInvalid,
	jwt.ErrTokenMalformed,
	jwt.ErrTokenUnverifiable,
	jwt.ErrTokenSignatureInvalid,
	jwt.ErrTokenRequiredClaimMissing,
	jwt.ErrTokenInvalidAudience,
	jwt.ErrTokenUsedBeforeIssued,
	jwt.ErrTokenInvalidIssuer,
	jwt.ErrTokenInvalidSubject,
	jwt.ErrTokenNotValidYet,
	jwt.ErrTokenInvalidId,
	jwt.ErrTokenInvalidClaims,
}

// Normalize maps any failure to a *domain.Error. Matches are tried in
// priority order and the first one wins:
//
//  1. an explicit *domain.Error passes through unchanged
//  2. storage unique violation -> Conflict
//  3. storage record not found -> NotFound
//  4. storage malformed query -> BadRequest
//  5. schema validation failure -> BadRequest with every message
//  6. expired or invalid credential -> Unauthorized
//  7. anything else -> non-operational InternalError
//
// Normalize never returns nil for a non-nil err.
func Normalize(err error) *domain.Error {
	if err == nil {
		return nil
	}

	var derr *domain.Error
	if errors.As(err, &derr) {
		return derr
	}

	var serr *domain.StorageError
	if errors.As(err, &serr) {
		if e := fromStorage(serr); e != nil {
			return e
		}
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		msgs := verr.Messages()
		e := domain.BadRequest(strings.Join(msgs, ", "))
		e.Details = msgs
		e.Cause = err
		return e
	}

	if errors.Is(err, jwt.ErrTokenExpired) || errors.Is(err, domain.ErrTokenExpired) {
		e := domain.Unauthorized(MsgTokenExpired)
		e.Cause = err
		return e
	}
	for _, target := range invalidTokenErrors {
		if errors.Is(err, target) {
			e := domain.Unauthorized(MsgTokenInvalid)
			e.Cause = err
			return e
		}
	}

	return domain.Internal(MsgInternal, err)
}

func fromStorage(serr *domain.StorageError) *domain.Error {
	var e *domain.Error
	switch serr.Code {
	case domain.StorageUniqueViolation:
		e = domain.Conflict(conflictMessage(serr))
	case domain.StorageNotFound:
		e = domain.NotFound(notFoundMessage(serr.Resource))
	case domain.StorageMalformedQuery:
		e = domain.BadRequest(MsgMalformed)
	default:
		return nil
	}
	e.Cause = serr
	return e
}

func conflictMessage(serr *domain.StorageError) string {
	if len(serr.Fields) == 0 {
		return msgResourceExist
	}
	resource := "record"
	if serr.Resource != "" {
		resource = strings.ToLower(serr.Resource)
	}
	labels := make([]string, len(serr.Fields))
	for i, f := range serr.Fields {
		labels[i] = fieldLabel(f)
	}
	return fmt.Sprintf("A %s with this %s already exists", resource, strings.Join(labels, " and "))
}

// conflictLabels names stored fields the way clients read them in conflict
// messages. Unlisted fields keep their own name.
var conflictLabels = map[string]string{
	FieldClientEmail: "email",
	FieldClientName:  "client name",
}

func fieldLabel(field string) string {
	if label, ok := conflictLabels[field]; ok {
		return label
	}
	return field
}

func notFoundMessage(resource string) string {
	if resource == "" {
		resource = "Resource"
	}
	return resource + " not found"
}
