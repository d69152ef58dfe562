// Package ident generates the identifiers assigned to new records.
//
// Identifiers are UUIDv7: the 48 most significant bits carry the Unix
// time in milliseconds and the remaining bits are random, so an id
// generated later compares greater than or equal to an earlier one while
// staying unique across concurrent callers.
package ident

import (
	"time"

	"github.com/google/uuid"
)

// Generator hands out record identifiers. Implementations must be safe
// for concurrent use.
type Generator interface {
	Next() uuid.UUID
}

// Func adapts a plain function to a Generator.
type Func func() uuid.UUID

func (f Func) Next() uuid.UUID { return f() }

// V7 is the production generator.
type V7 struct{}

// Next returns a fresh UUIDv7. It panics only if the system entropy
// source fails, which the HTTP recoverer turns into a 500.
func (V7) Next() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// Timestamp returns the creation time embedded in a UUIDv7, truncated to
// the millisecond. For other versions the result is meaningless.
func Timestamp(id uuid.UUID) time.Time {
	sec, nsec := id.Time().UnixTime()
	return time.Unix(sec, nsec).UTC().Truncate(time.Millisecond)
}
