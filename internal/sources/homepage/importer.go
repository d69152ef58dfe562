package homepage

import (
	"context"
	"fmt"

	"github.com/MrSnakeDoc/conexus/internal/domain"
	"github.com/MrSnakeDoc/conexus/internal/ident"
	"github.com/MrSnakeDoc/conexus/internal/logger"
)

// Importer seeds a store from a bookmarks.yaml file.
type Importer struct {
	store domain.Store
	ids   ident.Generator
	log   logger.Logger
}

func NewImporter(store domain.Store, ids ident.Generator, log logger.Logger) *Importer {
	if ids == nil {
		ids = ident.V7{}
	}
	return &Importer{store: store, ids: ids, log: log}
}

// Import loads path and inserts every bookmark it maps to, in file order.
// A store that already holds bookmarks is left untouched and Import
// returns 0. The first failed insert aborts the import.
func (i *Importer) Import(ctx context.Context, path string) (int, error) {
	existing, err := i.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed: check store: %w", err)
	}
	if len(existing) > 0 {
		i.log.Info("store not empty, skipping seed",
			logger.String("file", path),
			logger.Int("existing", len(existing)))
		return 0, nil
	}

	config, err := NewLoader(path).Load()
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}
	bookmarks, err := MapBookmarks(config)
	if err != nil {
		return 0, fmt.Errorf("seed %s: %w", path, err)
	}

	for n, nb := range bookmarks {
		b, err := i.store.Insert(ctx, i.ids.Next(), nb.URL, nb.Description)
		if err != nil {
			return n, fmt.Errorf("seed %s: %w", nb.URL, err)
		}
		i.log.Debug("seeded bookmark",
			logger.String("id", b.ID.String()),
			logger.String("url", b.URL))
	}

	i.log.Info("seed import complete",
		logger.String("file", path),
		logger.Int("imported", len(bookmarks)))
	return len(bookmarks), nil
}
