package database

import (
	"context"
	"fmt"
)

// Schema is the single table conexus reads and writes. It is not a
// migration system: EnsureSchema only creates what is missing.
const Schema = `CREATE TABLE IF NOT EXISTS bookmarks (
	id          UUID PRIMARY KEY,
	url         TEXT NOT NULL,
	description TEXT,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ
)`

func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
