// Package postgres is the relational persistence gateway for bookmarks.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/MrSnakeDoc/conexus/internal/database"
	"github.com/MrSnakeDoc/conexus/internal/domain"
	"github.com/MrSnakeDoc/conexus/internal/ident"
)

// DefaultQueryTimeout bounds every operation, including the wait for a
// free connection when the pool is exhausted.
const DefaultQueryTimeout = 5 * time.Second

const (
	listQuery = `SELECT id, url, description, created_at, updated_at
		FROM bookmarks
		ORDER BY id ASC`

	insertQuery = `INSERT INTO bookmarks (id, url, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, url, description, created_at, updated_at`

	getQuery = `SELECT id, url, description, created_at, updated_at
		FROM bookmarks WHERE id = $1`

	versionQuery = `SELECT version()`
)

// Store implements domain.Store on top of a shared pool.
type Store struct {
	db      *database.DB
	timeout time.Duration
}

// NewStore wraps db. A non-positive timeout falls back to DefaultQueryTimeout.
func NewStore(db *database.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}
	return &Store{db: db, timeout: timeout}
}

var _ domain.Store = (*Store)(nil)

func (s *Store) List(ctx context.Context) ([]domain.Bookmark, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.Pool.Query(ctx, listQuery)
	if err != nil {
		return nil, domain.NewStoreError("list", uuid.Nil, err)
	}
	bookmarks, err := pgx.CollectRows(rows, scanBookmark)
	if err != nil {
		return nil, domain.NewStoreError("list", uuid.Nil, err)
	}
	return bookmarks, nil
}

func (s *Store) Insert(ctx context.Context, id uuid.UUID, url string, description *string) (domain.Bookmark, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.Pool.Query(ctx, insertQuery, id, url, description, ident.Timestamp(id))
	if err != nil {
		return domain.Bookmark{}, domain.NewStoreError("insert", id, err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBookmark)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.Bookmark{}, domain.NewStoreError("insert", id, domain.ErrWriteVerificationFailed)
	case err != nil:
		return domain.Bookmark{}, domain.NewStoreError("insert", id, err)
	}
	return b, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (domain.Bookmark, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.db.Pool.Query(ctx, getQuery, id)
	if err != nil {
		return domain.Bookmark{}, domain.NewStoreError("get", id, err)
	}
	b, err := pgx.CollectExactlyOneRow(rows, scanBookmark)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return domain.Bookmark{}, domain.ErrNotFound
	case err != nil:
		return domain.Bookmark{}, domain.NewStoreError("get", id, err)
	}
	return b, nil
}

func (s *Store) Describe(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var version string
	if err := s.db.Pool.QueryRow(ctx, versionQuery).Scan(&version); err != nil {
		return "", domain.NewStoreError("describe", uuid.Nil, err)
	}
	return fmt.Sprintf("PostgreSQL version: %s", version), nil
}

func scanBookmark(row pgx.CollectableRow) (domain.Bookmark, error) {
	var b domain.Bookmark
	err := row.Scan(&b.ID, &b.URL, &b.Description, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return domain.Bookmark{}, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	if b.UpdatedAt != nil {
		u := b.UpdatedAt.UTC()
		b.UpdatedAt = &u
	}
	return b, nil
}
