package providers

import (
	"context"
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/service"
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
	log := do.MustInvoke[*slog.Logger](i)

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

// TriggerSearchReindexIfNeeded rebuilds the index in the background when it
// came up empty but published articles exist, e.g. after the index directory
// was deleted. Should be called after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	articleService := do.MustInvoke[*service.ArticleService](i)
	log := do.MustInvoke[*slog.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	articles, err := storeHandle.ListPublishedArticles(ctx, 1, 0)
	if err != nil || len(articles) == 0 {
		return
	}

	log.Info("Search index is empty but published articles exist, triggering reindex")

	go func() {
		if err := articleService.RebuildIndex(context.Background()); err != nil {
			log.Error("Search reindex failed", "error", err)
			return
		}
		count, _ := indexHandle.DocumentCount()
		log.Info("Search reindex completed", "documents", count)
	}()
}
