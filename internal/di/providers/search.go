package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmind/shelfmind-server/internal/config"
	"github.com/shelfmind/shelfmind-server/internal/logger"
	"github.com/shelfmind/shelfmind-server/internal/search"
	"github.com/shelfmind/shelfmind-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.New(search.Options{
		DataPath: cfg.SearchPath(),
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// ReindexIfNeeded fills an empty search index from the catalog.
// Called after bootstrap so a fresh index (or one rebuilt after a
// mapping change) picks up the persisted catalog without a manual step.
func ReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	catalog := do.MustInvoke[*service.Catalog](i)
	artifacts := do.MustInvoke[*Artifacts](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !catalog.Ready() {
		return
	}

	docCount, _ := indexHandle.DocumentCount()
	books := catalog.Books()
	if docCount >= uint64(len(books)) {
		return
	}

	log.Info("Search index is behind the catalog, reindexing",
		"documents", docCount,
		"books", len(books),
	)

	if err := indexHandle.IndexBooks(books, artifacts.Keywords); err != nil {
		log.Error("Search reindex failed", "error", err)
		return
	}

	docCount, _ = indexHandle.DocumentCount()
	log.Info("Search reindex completed", "documents", docCount)
}
