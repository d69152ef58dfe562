package redis

import "github.com/google/uuid"

const (
	// KeyPrefixBookmark is the prefix for bookmark documents
	KeyPrefixBookmark = "conexus:bookmark:"
	// KeyBookmarkIndex is the sorted set of all bookmark ids. Every member has
	// score 0 so the set orders lexicographically, which is id order.
	KeyBookmarkIndex = "conexus:bookmarks"
)

// BookmarkKey returns the Redis key for a bookmark
func BookmarkKey(id uuid.UUID) string {
	return KeyPrefixBookmark + id.String()
}

func bookmarkKeyFromMember(member string) string {
	return KeyPrefixBookmark + member
}
