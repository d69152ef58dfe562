package domain

import (
	"time"

	"github.com/google/uuid"
)

// Bookmark is the persisted entity served under /bookmarks.
type Bookmark struct {
	// ID is assigned by the server at creation (UUIDv7) and never changes.
	ID uuid.UUID `json:"id"`

	// URL is opaque to conexus; no format validation happens here.
	URL string `json:"url"`

	// Description is optional and serialized as null when absent.
	Description *string `json:"description"`

	// CreatedAt is stamped once at insertion, from the timestamp embedded in ID.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt stays nil until an update path exists.
	UpdatedAt *time.Time `json:"updated_at"`
}

// NewBookmark is the client-controlled part of a Bookmark.
// Anything else a client sends (id, created_at, ...) is ignored on decode.
type NewBookmark struct {
	URL         string  `json:"url"`
	Description *string `json:"description"`
}

// Validate reports a ClientError when required fields are missing.
func (n NewBookmark) Validate() error {
	if n.URL == "" {
		return NewClientError(KindMissingURL, ErrMissingURL)
	}
	return nil
}
