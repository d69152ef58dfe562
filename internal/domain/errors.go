package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned by a Store when no record matches.
	ErrNotFound = errors.New("bookmark not found")

	// ErrWriteVerificationFailed means an insert did not hand back the row it
	// was supposed to write.
	ErrWriteVerificationFailed = errors.New("write verification failed: insert returned no row")

	// ErrMissingURL is the client error for a create request without url.
	ErrMissingURL = errors.New("url is required")
)

// ClientErrorKind classifies a rejected request.
type ClientErrorKind string

const (
	KindInvalidBody ClientErrorKind = "invalid_body"
	KindMissingURL  ClientErrorKind = "missing_url"
	KindInvalidID   ClientErrorKind = "invalid_id"
)

// ClientError is a request refused before the store is touched.
type ClientError struct {
	Kind ClientErrorKind
	Err  error
}

func (e *ClientError) Error() string { return e.Err.Error() }

func (e *ClientError) Unwrap() error { return e.Err }

// NewClientError builds a ClientError of kind.
func NewClientError(kind ClientErrorKind, err error) error {
	return &ClientError{Kind: kind, Err: err}
}

// StoreError wraps any failure coming from the persistence layer other than
// ErrNotFound: connectivity loss, constraint violations, unexpected row counts.
type StoreError struct {
	Op  string    // list, insert, get, describe
	ID  uuid.UUID // uuid.Nil when not applicable
	Err error
}

func (e *StoreError) Error() string {
	if e.ID != uuid.Nil {
		return fmt.Sprintf("store %s %s: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError builds a StoreError for op.
func NewStoreError(op string, id uuid.UUID, err error) error {
	return &StoreError{Op: op, ID: id, Err: err}
}

// IsStoreError reports whether err carries a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
