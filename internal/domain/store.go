package domain

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence gateway for bookmarks.
//
// Every method is a single logical round trip with no retries and no
// caching. Failures are either ErrNotFound (Get only) or a *StoreError.
type Store interface {
	// List returns every bookmark ordered by id ascending, which is also
	// creation order.
	List(ctx context.Context) ([]Bookmark, error)

	// Insert writes a new bookmark and returns the stored record.
	// CreatedAt is derived from id.
	Insert(ctx context.Context, id uuid.UUID, url string, description *string) (Bookmark, error)

	// Get returns exactly one bookmark or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (Bookmark, error)

	// Describe returns a human readable identification of the backing store.
	Describe(ctx context.Context) (string, error)
}
