package domain

import (
	"errors"
	"fmt"
	"strings"
)

// StorageCode classifies a failure reported by a persistence collaborator.
type StorageCode int

const (
	StorageUniqueViolation StorageCode = iota + 1
	StorageNotFound
	StorageMalformedQuery
)

// String implements fmt.Stringer.
func (c StorageCode) String() string {
	switch c {
	case StorageUniqueViolation:
		return "unique_violation"
	case StorageNotFound:
		return "not_found"
	case StorageMalformedQuery:
		return "malformed_query"
	default:
		return "unknown"
	}
}

// StorageError is the typed failure every repository adapter reports for the
// conditions it recognizes. Anything else is returned as-is and treated as an
// unclassified failure.
type StorageError struct {
	Code StorageCode
	// Resource names the entity involved (e.g. "Project").
	Resource string
	// Fields lists the offending fields of a unique-constraint violation.
	Fields []string
	Err    error
}

func (e *StorageError) Error() string {
	var b strings.Builder
	b.WriteString("storage: ")
	b.WriteString(e.Code.String())
	if e.Resource != "" {
		fmt.Fprintf(&b, " (%s)", e.Resource)
	}
	if len(e.Fields) > 0 {
		fmt.Fprintf(&b, " fields=%s", strings.Join(e.Fields, ","))
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// ErrUniqueViolation creates a unique-constraint violation for resource.
func ErrUniqueViolation(resource string, cause error, fields ...string) *StorageError {
	return &StorageError{Code: StorageUniqueViolation, Resource: resource, Fields: fields, Err: cause}
}

// ErrRecordNotFound creates a record-not-found failure for resource.
func ErrRecordNotFound(resource string, cause error) *StorageError {
	return &StorageError{Code: StorageNotFound, Resource: resource, Err: cause}
}

// ErrMalformedQuery creates a malformed-query failure for resource.
func ErrMalformedQuery(resource string, cause error) *StorageError {
	return &StorageError{Code: StorageMalformedQuery, Resource: resource, Err: cause}
}

// IsStorageCode reports whether err carries a StorageError with the given code.
func IsStorageCode(err error, code StorageCode) bool {
	var serr *StorageError
	return errors.As(err, &serr) && serr.Code == code
}
