// Package redis is the key-value persistence gateway for bookmarks.
package redis

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/conexus/internal/domain"
	"github.com/MrSnakeDoc/conexus/internal/ident"
)

// DefaultOpTimeout bounds every store operation.
const DefaultOpTimeout = 5 * time.Second

// Store implements domain.Store with one JSON document per bookmark and a
// sorted set index.
type Store struct {
	client  *redis.Client
	timeout time.Duration
}

// NewStore creates a new Redis store. A non-positive timeout falls back to
// DefaultOpTimeout.
func NewStore(client *redis.Client, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = DefaultOpTimeout
	}
	return &Store{
		client:  client,
		timeout: timeout,
	}
}

var _ domain.Store = (*Store)(nil)

// List reads the index, then every document in one MGET.
func (s *Store) List(ctx context.Context) ([]domain.Bookmark, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	members, err := s.client.ZRange(ctx, KeyBookmarkIndex, 0, -1).Result()
	if err != nil {
		return nil, domain.NewStoreError("list", uuid.Nil, err)
	}
	if len(members) == 0 {
		return []domain.Bookmark{}, nil
	}

	keys := make([]string, len(members))
	for i, m := range members {
		keys[i] = bookmarkKeyFromMember(m)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, domain.NewStoreError("list", uuid.Nil, err)
	}

	bookmarks := make([]domain.Bookmark, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// indexed but the document is gone
			continue
		}
		var b domain.Bookmark
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, domain.NewStoreError("list", uuid.Nil, fmt.Errorf("decode %s: %w", keys[i], err))
		}
		bookmarks = append(bookmarks, b)
	}
	return bookmarks, nil
}

// Insert writes the document and indexes it in one MULTI. An existing
// document under the same id is left untouched and reported as a failed write.
func (s *Store) Insert(ctx context.Context, id uuid.UUID, url string, description *string) (domain.Bookmark, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	b := domain.Bookmark{
		ID:          id,
		URL:         url,
		Description: description,
		CreatedAt:   ident.Timestamp(id),
	}
	data, err := json.Marshal(b)
	if err != nil {
		return domain.Bookmark{}, domain.NewStoreError("insert", id, fmt.Errorf("failed to marshal bookmark: %w", err))
	}

	var created *redis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, BookmarkKey(id), data, 0)
		pipe.ZAdd(ctx, KeyBookmarkIndex, redis.Z{Score: 0, Member: id.String()})
		return nil
	})
	if err != nil {
		return domain.Bookmark{}, domain.NewStoreError("insert", id, err)
	}
	if !created.Val() {
		return domain.Bookmark{}, domain.NewStoreError("insert", id, domain.ErrWriteVerificationFailed)
	}
	return b, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (domain.Bookmark, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Bookmark{}, domain.ErrNotFound
		}
		return domain.Bookmark{}, domain.NewStoreError("get", id, err)
	}

	var b domain.Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.Bookmark{}, domain.NewStoreError("get", id, fmt.Errorf("failed to unmarshal bookmark: %w", err))
	}
	return b, nil
}

// Describe reports the server version from INFO. Servers that omit the
// server section are reported as "unknown".
func (s *Store) Describe(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	info, err := s.client.Info(ctx).Result()
	if err != nil {
		return "", domain.NewStoreError("describe", uuid.Nil, err)
	}
	return fmt.Sprintf("Redis version: %s", parseVersion(info)), nil
}

func parseVersion(info string) string {
	sc := bufio.NewScanner(strings.NewReader(info))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if v, ok := strings.CutPrefix(line, "redis_version:"); ok && v != "" {
			return v
		}
	}
	return "unknown"
}
