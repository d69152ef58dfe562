// Package memory keeps bookmarks in process memory. It backs
// CONEXUS_STORE=memory and the handler tests.
package memory

import (
	"bytes"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/conexus/internal/domain"
	"github.com/MrSnakeDoc/conexus/internal/ident"
)

// Store is a map guarded by a RWMutex. Records are stored by value so
// callers never share memory with the store.
type Store struct {
	mu        sync.RWMutex
	bookmarks map[uuid.UUID]domain.Bookmark
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		bookmarks: make(map[uuid.UUID]domain.Bookmark),
	}
}

var _ domain.Store = (*Store)(nil)

// List returns a snapshot ordered by id
func (s *Store) List(ctx context.Context) ([]domain.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewStoreError("list", uuid.Nil, err)
	}

	s.mu.RLock()
	bookmarks := make([]domain.Bookmark, 0, len(s.bookmarks))
	for _, b := range s.bookmarks {
		bookmarks = append(bookmarks, clone(b))
	}
	s.mu.RUnlock()

	slices.SortFunc(bookmarks, func(a, b domain.Bookmark) int {
		return bytes.Compare(a.ID[:], b.ID[:])
	})
	return bookmarks, nil
}

// Insert adds a bookmark. An id that is already taken is a failed write.
func (s *Store) Insert(ctx context.Context, id uuid.UUID, url string, description *string) (domain.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return domain.Bookmark{}, domain.NewStoreError("insert", id, err)
	}

	b := domain.Bookmark{
		ID:          id,
		URL:         url,
		Description: description,
		CreatedAt:   ident.Timestamp(id),
	}
	b = clone(b)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookmarks[id]; exists {
		return domain.Bookmark{}, domain.NewStoreError("insert", id, domain.ErrWriteVerificationFailed)
	}
	s.bookmarks[id] = b
	return clone(b), nil
}

// Get retrieves a bookmark by id
func (s *Store) Get(ctx context.Context, id uuid.UUID) (domain.Bookmark, error) {
	if err := ctx.Err(); err != nil {
		return domain.Bookmark{}, domain.NewStoreError("get", id, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookmarks[id]
	if !ok {
		return domain.Bookmark{}, domain.ErrNotFound
	}
	return clone(b), nil
}

func (s *Store) Describe(context.Context) (string, error) {
	return "In-memory store", nil
}

func clone(b domain.Bookmark) domain.Bookmark {
	if b.Description != nil {
		d := *b.Description
		b.Description = &d
	}
	if b.UpdatedAt != nil {
		u := *b.UpdatedAt
		b.UpdatedAt = &u
	}
	return b
}
