package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/promptdeck/promptdeck-server/internal/config"
	"github.com/promptdeck/promptdeck-server/internal/logger"
	"github.com/promptdeck/promptdeck-server/internal/search"
	"github.com/promptdeck/promptdeck-server/internal/service"
	"github.com/promptdeck/promptdeck-server/internal/store"
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

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{Index: index}, nil
}

// ProvideSearchService provides the search service and wires the index into
// the store so prompt writes are indexed as they happen.
func ProvideSearchService(i do.Injector) (*service.SearchService, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSearchService(storeHandle.Store, indexHandle.Index, log.Logger)

	storeHandle.SetSearchIndexer(indexHandle.Index)

	return svc, nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index when prompts already
// exist, for example after the index directory was deleted or the mapping
// version changed. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	searchService := do.MustInvoke[*service.SearchService](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := searchService.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	count, err := storeHandle.CountPrompts(ctx, store.PromptFilter{UserID: cfg.Auth.UserID})
	if err != nil || count == 0 {
		return
	}

	log.Info("Search index is empty but prompts exist, triggering initial reindex",
		"prompt_count", count,
	)

	go func() {
		indexed, err := searchService.Reindex(context.Background(), cfg.Auth.UserID)
		if err != nil {
			log.Error("Initial search reindex failed", "error", err)
			return
		}
		log.Info("Initial search reindex completed", "documents", indexed)
	}()
}
