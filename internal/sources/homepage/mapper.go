package homepage

import (
	"errors"
	"sort"
	"strings"

	"github.com/MrSnakeDoc/conexus/internal/domain"
)

var ErrNoBookmarks = errors.New("no bookmarks found in config")

// MapBookmarks flattens config into bookmarks ready for insertion.
//
// Categories keep file order. Entries without an href (including those
// whose href was a stripped template variable) are skipped, and a repeated
// href is only kept the first time it appears.
func MapBookmarks(config BookmarksConfig) ([]domain.NewBookmark, error) {
	var out []domain.NewBookmark
	seen := make(map[string]struct{})

	for _, category := range config {
		for _, categoryName := range sortedKeys(category) {
			for _, group := range category[categoryName] {
				for _, name := range sortedKeys(group) {
					for _, entry := range group[name] {
						nb, ok := mapEntry(name, entry)
						if !ok {
							continue
						}
						if _, dup := seen[nb.URL]; dup {
							continue
						}
						seen[nb.URL] = struct{}{}
						out = append(out, nb)
					}
				}
			}
		}
	}

	if len(out) == 0 {
		return nil, ErrNoBookmarks
	}
	return out, nil
}

func mapEntry(name string, entry BookmarkEntry) (domain.NewBookmark, bool) {
	href := strings.TrimSpace(entry.Href)
	if href == "" {
		return domain.NewBookmark{}, false
	}

	desc := strings.TrimSpace(name)
	if desc == "" {
		desc = strings.TrimSpace(entry.Abbr)
	}

	nb := domain.NewBookmark{URL: href}
	if desc != "" {
		nb.Description = &desc
	}
	return nb, true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
