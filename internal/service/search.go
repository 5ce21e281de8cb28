package service

import (
	"context"
	"log/slog"

	"github.com/promptdeck/promptdeck-server/internal/search"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

// SearchService answers full-text queries and keeps the index aligned
// with the store.
type SearchService struct {
	store  store.Store
	index  *search.Index
	logger *slog.Logger
}

func NewSearchService(st store.Store, index *search.Index, logger *slog.Logger) *SearchService {
	return &SearchService{store: st, index: index, logger: logger}
}

// Search runs a full-text query scoped to the user.
func (s *SearchService) Search(ctx context.Context, userID string, params search.Params) (*search.Result, error) {
	params.UserID = userID
	return s.index.Search(ctx, params)
}

// DocumentCount reports how many prompts the index currently holds.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// Reindex rebuilds the index from the store. Used at startup after a
// mapping change and exposed for manual recovery.
func (s *SearchService) Reindex(ctx context.Context, userID string) (int, error) {
	var indexed int
	const pageSize = 500
	for offset := 0; ; offset += pageSize {
		prompts, err := s.store.ListPrompts(ctx, store.PromptFilter{
			UserID: userID,
			Order:  store.OrderCreatedDesc,
			Limit:  pageSize,
			Offset: offset,
		})
		if err != nil {
			return indexed, err
		}
		if len(prompts) == 0 {
			break
		}
		if err := s.index.IndexPrompts(prompts); err != nil {
			return indexed, err
		}
		indexed += len(prompts)
		if len(prompts) < pageSize {
			break
		}
	}
	s.logger.Info("search reindex complete", "indexed", indexed)
	return indexed, nil
}
