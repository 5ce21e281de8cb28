package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/promptdeck/promptdeck-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchPrompts",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search prompts",
		Description: "Full-text search over titles, content and tags with fuzzy matching",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindexSearch",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/reindex",
		Summary:     "Rebuild search index",
		Description: "Re-indexes every prompt from the database",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReindexSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching prompts.
type SearchInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" validate:"required,min=1,max=200" doc:"Search query"`
	Category      string `query:"category" doc:"Filter by category slug"`
	GroupID       string `query:"group_id" doc:"Filter by subcategory group ID"`
	Limit         int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset        int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset"`
}

// SearchHitResult contains a single prompt search result.
type SearchHitResult struct {
	ID          string            `json:"id" doc:"Prompt ID"`
	Score       float64           `json:"score" doc:"Search relevance score"`
	Title       string            `json:"title" doc:"Prompt title"`
	Subcategory string            `json:"subcategory,omitempty" doc:"Subcategory label"`
	Tags        []string          `json:"tags,omitempty" doc:"Tags"`
	Rating      float64           `json:"rating" doc:"Rating in the 0-5 range"`
	UsageCount  int               `json:"usage_count" doc:"Number of copy actions"`
	Highlights  map[string]string `json:"highlights,omitempty" doc:"Highlighted matches"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query  string            `json:"query" doc:"Original search query"`
	Total  uint64            `json:"total" doc:"Total matches"`
	TookMs int64             `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits   []SearchHitResult `json:"hits" doc:"Search results"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// ReindexInput contains parameters for rebuilding the index.
type ReindexInput struct {
	Authorization string `header:"Authorization"`
}

// ReindexResponse reports how many prompts were re-indexed.
type ReindexResponse struct {
	Indexed int `json:"indexed" doc:"Number of prompts re-indexed"`
}

// ReindexOutput wraps the reindex response for Huma.
type ReindexOutput struct {
	Body ReindexResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if !s.searchRateLimiter.Allow(userID) {
		return nil, huma.Error429TooManyRequests("Too many search requests. Please try again later.")
	}

	params := search.DefaultParams()
	params.Query = input.Query
	params.CategorySlug = input.Category
	params.GroupID = input.GroupID
	params.Offset = input.Offset
	if input.Limit > 0 {
		params.Limit = input.Limit
	}

	result, err := s.services.Search.Search(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	hits := make([]SearchHitResult, len(result.Hits))
	for i, h := range result.Hits {
		hits[i] = SearchHitResult{
			ID:          h.ID,
			Score:       h.Score,
			Title:       h.Title,
			Subcategory: h.Subcategory,
			Tags:        h.Tags,
			Rating:      h.Rating,
			UsageCount:  h.UsageCount,
			Highlights:  h.Highlights,
		}
	}

	return &SearchOutput{
		Body: SearchResponse{
			Query:  input.Query,
			Total:  result.Total,
			TookMs: result.TookMs,
			Hits:   hits,
		},
	}, nil
}

func (s *Server) handleReindexSearch(ctx context.Context, _ *ReindexInput) (*ReindexOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	n, err := s.services.Search.Reindex(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ReindexOutput{Body: ReindexResponse{Indexed: n}}, nil
}
