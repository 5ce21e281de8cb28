package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/service"
)

func (s *Server) registerPromptRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPrompts",
		Method:      http.MethodGet,
		Path:        "/api/v1/prompts",
		Summary:     "List prompts",
		Description: "Returns the user's prompts in meritocratic order with optional filters",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListPrompts)

	huma.Register(s.api, huma.Operation{
		OperationID: "createPrompt",
		Method:      http.MethodPost,
		Path:        "/api/v1/prompts",
		Summary:     "Create prompt",
		Description: "Creates a prompt; the title is derived from content when omitted",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreatePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "bulkDeletePrompts",
		Method:      http.MethodPost,
		Path:        "/api/v1/prompts/bulk-delete",
		Summary:     "Bulk delete prompts",
		Description: "Deletes several prompts at once, skipping unknown IDs",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleBulkDeletePrompts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPrompt",
		Method:      http.MethodGet,
		Path:        "/api/v1/prompts/{id}",
		Summary:     "Get prompt",
		Description: "Returns a prompt by ID",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePrompt",
		Method:      http.MethodPatch,
		Path:        "/api/v1/prompts/{id}",
		Summary:     "Update prompt",
		Description: "Updates a prompt",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePrompt",
		Method:      http.MethodDelete,
		Path:        "/api/v1/prompts/{id}",
		Summary:     "Delete prompt",
		Description: "Deletes a prompt",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "copyPrompt",
		Method:      http.MethodPost,
		Path:        "/api/v1/prompts/{id}/copy",
		Summary:     "Copy prompt",
		Description: "Registers a use of the prompt and returns the clipboard text with active prefixes applied",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCopyPrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "ratePrompt",
		Method:      http.MethodPut,
		Path:        "/api/v1/prompts/{id}/rating",
		Summary:     "Rate prompt",
		Description: "Sets the prompt's rating, clamped to the 0-5 range",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRatePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "favoritePrompt",
		Method:      http.MethodPut,
		Path:        "/api/v1/prompts/{id}/favorite",
		Summary:     "Favorite prompt",
		Description: "Marks a prompt as a favorite",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFavoritePrompt)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfavoritePrompt",
		Method:      http.MethodDelete,
		Path:        "/api/v1/prompts/{id}/favorite",
		Summary:     "Unfavorite prompt",
		Description: "Clears a prompt's favorite mark",
		Tags:        []string{"Prompts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfavoritePrompt)
}

// === DTOs ===

// ListPromptsInput contains parameters for listing prompts.
type ListPromptsInput struct {
	Authorization string `header:"Authorization"`
	Category      string `query:"category" doc:"Filter by category slug"`
	GroupID       string `query:"group_id" doc:"Filter by subcategory group ID"`
	Subcategory   string `query:"subcategory" doc:"Filter by subcategory label"`
	Search        string `query:"search" validate:"omitempty,max=200" doc:"Substring match on title and content"`
	Favorites     bool   `query:"favorites" doc:"Only favorites"`
	Limit         int    `query:"limit" validate:"omitempty,gte=1,lte=500" doc:"Max results (default 100)"`
	Offset        int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset"`
}

// PromptResponse contains prompt data in API responses.
type PromptResponse struct {
	ID           string     `json:"id" doc:"Prompt ID"`
	Title        string     `json:"title" doc:"Display title"`
	Content      string     `json:"content" doc:"Prompt text"`
	CategoryID   string     `json:"category_id,omitempty" doc:"Category ID"`
	CategoryName string     `json:"category_name,omitempty" doc:"Category name"`
	GroupID      string     `json:"group_id,omitempty" doc:"Subcategory group ID"`
	GroupName    string     `json:"group_name,omitempty" doc:"Subcategory group name"`
	Subcategory  string     `json:"subcategory,omitempty" doc:"Free-text subcategory label"`
	Rating       float64    `json:"rating" doc:"Rating in the 0-5 range"`
	UsageCount   int        `json:"usage_count" doc:"Number of copy actions"`
	LegacyScore  float64    `json:"legacy_score" doc:"Unclamped rating from the source system"`
	Tags         []string   `json:"tags" doc:"Tags"`
	LegacyID     string     `json:"legacy_id,omitempty" doc:"Content-derived import identity"`
	LastUsedAt   *time.Time `json:"last_used_at,omitempty" doc:"Last copy time"`
	CreatedAt    time.Time  `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time  `json:"updated_at" doc:"Last update time"`
}

// ListPromptsResponse contains a page of prompts.
type ListPromptsResponse struct {
	Prompts []PromptResponse `json:"prompts" doc:"Prompts in meritocratic order"`
	Total   int              `json:"total" doc:"Total matches before pagination"`
}

// ListPromptsOutput wraps the list prompts response for Huma.
type ListPromptsOutput struct {
	Body ListPromptsResponse
}

// CreatePromptRequest is the request body for creating a prompt.
type CreatePromptRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,max=200" doc:"Display title (derived from content when omitted)"`
	Content     string   `json:"content" validate:"required,min=1" doc:"Prompt text"`
	CategoryID  string   `json:"category_id,omitempty" doc:"Category ID"`
	GroupID     string   `json:"group_id,omitempty" doc:"Subcategory group ID"`
	Subcategory string   `json:"subcategory,omitempty" validate:"omitempty,max=100" doc:"Free-text subcategory label"`
	Rating      *float64 `json:"rating,omitempty" doc:"Rating, clamped to 0-5"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=50" doc:"Tags"`
}

// CreatePromptInput wraps the create prompt request for Huma.
type CreatePromptInput struct {
	Authorization string `header:"Authorization"`
	Body          CreatePromptRequest
}

// PromptOutput wraps a single prompt response for Huma.
type PromptOutput struct {
	Body PromptResponse
}

// GetPromptInput contains parameters for getting a prompt.
type GetPromptInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Prompt ID"`
}

// UpdatePromptRequest is the request body for updating a prompt.
type UpdatePromptRequest struct {
	Title       string   `json:"title,omitempty" validate:"omitempty,max=200" doc:"Display title"`
	Content     string   `json:"content,omitempty" doc:"Prompt text"`
	CategoryID  string   `json:"category_id,omitempty" doc:"Category ID"`
	GroupID     string   `json:"group_id,omitempty" doc:"Subcategory group ID"`
	Subcategory string   `json:"subcategory,omitempty" validate:"omitempty,max=100" doc:"Free-text subcategory label"`
	Rating      *float64 `json:"rating,omitempty" doc:"Rating, clamped to 0-5"`
	Tags        []string `json:"tags,omitempty" validate:"omitempty,max=10,dive,max=50" doc:"Tags"`
}

// UpdatePromptInput wraps the update prompt request for Huma.
type UpdatePromptInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Prompt ID"`
	Body          UpdatePromptRequest
}

// DeletePromptInput contains parameters for deleting a prompt.
type DeletePromptInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Prompt ID"`
}

// BulkDeletePromptsRequest is the request body for bulk deletion.
type BulkDeletePromptsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,max=500" doc:"Prompt IDs to delete"`
}

// BulkDeletePromptsInput wraps the bulk delete request for Huma.
type BulkDeletePromptsInput struct {
	Authorization string `header:"Authorization"`
	Body          BulkDeletePromptsRequest
}

// BulkDeletePromptsResponse reports how many prompts were deleted.
type BulkDeletePromptsResponse struct {
	Deleted int `json:"deleted" doc:"Number of prompts actually deleted"`
}

// BulkDeletePromptsOutput wraps the bulk delete response for Huma.
type BulkDeletePromptsOutput struct {
	Body BulkDeletePromptsResponse
}

// CopyPromptInput contains parameters for the copy action.
type CopyPromptInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Prompt ID"`
}

// CopyPromptResponse contains the clipboard text and the refreshed prompt.
type CopyPromptResponse struct {
	Text   string         `json:"text" doc:"Clipboard text with active prefixes applied"`
	Prompt PromptResponse `json:"prompt" doc:"Prompt with updated usage counters"`
}

// CopyPromptOutput wraps the copy response for Huma.
type CopyPromptOutput struct {
	Body CopyPromptResponse
}

// RatePromptRequest is the request body for rating a prompt.
type RatePromptRequest struct {
	Rating float64 `json:"rating" doc:"Rating, clamped to 0-5"`
}

// RatePromptInput wraps the rate request for Huma.
type RatePromptInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Prompt ID"`
	Body          RatePromptRequest
}

// FavoritePromptInput contains parameters for (un)favoriting a prompt.
type FavoritePromptInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Prompt ID"`
}

func promptResponse(p *domain.Prompt) PromptResponse {
	resp := PromptResponse{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		CategoryID:  p.CategoryID,
		GroupID:     p.SubcategoryGroupID,
		Subcategory: p.Subcategory,
		Rating:      p.Rating,
		UsageCount:  p.UsageCount,
		LegacyScore: p.LegacyScore,
		Tags:        p.Tags,
		LegacyID:    p.LegacyID,
		LastUsedAt:  p.LastUsedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if p.Category != nil {
		resp.CategoryName = p.Category.Name
	}
	if p.Group != nil {
		resp.GroupName = p.Group.Name
	}
	return resp
}

// === Handlers ===

func (s *Server) handleListPrompts(ctx context.Context, input *ListPromptsInput) (*ListPromptsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 100
	}

	prompts, err := s.services.Prompt.List(ctx, userID, service.ListFilter{
		CategorySlug:  input.Category,
		GroupID:       input.GroupID,
		Subcategory:   input.Subcategory,
		Search:        input.Search,
		FavoritesOnly: input.Favorites,
		Limit:         limit,
		Offset:        input.Offset,
	})
	if err != nil {
		return nil, err
	}

	total, err := s.services.Prompt.Count(ctx, userID, service.ListFilter{
		CategorySlug:  input.Category,
		GroupID:       input.GroupID,
		Subcategory:   input.Subcategory,
		Search:        input.Search,
		FavoritesOnly: input.Favorites,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]PromptResponse, len(prompts))
	for i, p := range prompts {
		resp[i] = promptResponse(p)
	}

	return &ListPromptsOutput{Body: ListPromptsResponse{Prompts: resp, Total: total}}, nil
}

func (s *Server) handleCreatePrompt(ctx context.Context, input *CreatePromptInput) (*PromptOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Prompt.Create(ctx, userID, service.PromptInput{
		Title:              input.Body.Title,
		Content:            input.Body.Content,
		CategoryID:         input.Body.CategoryID,
		SubcategoryGroupID: input.Body.GroupID,
		Subcategory:        input.Body.Subcategory,
		Rating:             input.Body.Rating,
		Tags:               input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: promptResponse(p)}, nil
}

func (s *Server) handleGetPrompt(ctx context.Context, input *GetPromptInput) (*PromptOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Prompt.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: promptResponse(p)}, nil
}

func (s *Server) handleUpdatePrompt(ctx context.Context, input *UpdatePromptInput) (*PromptOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Prompt.Update(ctx, userID, input.ID, service.PromptInput{
		Title:              input.Body.Title,
		Content:            input.Body.Content,
		CategoryID:         input.Body.CategoryID,
		SubcategoryGroupID: input.Body.GroupID,
		Subcategory:        input.Body.Subcategory,
		Rating:             input.Body.Rating,
		Tags:               input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: promptResponse(p)}, nil
}

func (s *Server) handleDeletePrompt(ctx context.Context, input *DeletePromptInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Prompt.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Prompt deleted"}}, nil
}

func (s *Server) handleBulkDeletePrompts(ctx context.Context, input *BulkDeletePromptsInput) (*BulkDeletePromptsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	n, err := s.services.Prompt.BulkDelete(ctx, userID, input.Body.IDs)
	if err != nil {
		return nil, err
	}

	return &BulkDeletePromptsOutput{Body: BulkDeletePromptsResponse{Deleted: n}}, nil
}

func (s *Server) handleCopyPrompt(ctx context.Context, input *CopyPromptInput) (*CopyPromptOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Prompt.Copy(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &CopyPromptOutput{
		Body: CopyPromptResponse{
			Text:   res.Text,
			Prompt: promptResponse(res.Prompt),
		},
	}, nil
}

func (s *Server) handleRatePrompt(ctx context.Context, input *RatePromptInput) (*PromptOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Prompt.Rate(ctx, userID, input.ID, input.Body.Rating)
	if err != nil {
		return nil, err
	}

	return &PromptOutput{Body: promptResponse(p)}, nil
}

func (s *Server) handleFavoritePrompt(ctx context.Context, input *FavoritePromptInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Prompt.Favorite(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Prompt favorited"}}, nil
}

func (s *Server) handleUnfavoritePrompt(ctx context.Context, input *FavoritePromptInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Prompt.Unfavorite(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Prompt unfavorited"}}, nil
}
