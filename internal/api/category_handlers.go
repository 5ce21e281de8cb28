package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/service"
)

func (s *Server) registerCategoryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories",
		Summary:     "List categories",
		Description: "Returns all categories ordered by sort order",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCategories)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCategory",
		Method:      http.MethodPost,
		Path:        "/api/v1/categories",
		Summary:     "Create category",
		Description: "Creates a new category; the slug is derived from the name when omitted",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategory",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Get category",
		Description: "Returns a category by ID",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCategory",
		Method:      http.MethodPatch,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Update category",
		Description: "Updates a category",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCategory",
		Method:      http.MethodDelete,
		Path:        "/api/v1/categories/{id}",
		Summary:     "Delete category",
		Description: "Deletes a category; its groups cascade and prompts are detached",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCategory)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCategoryGroups",
		Method:      http.MethodGet,
		Path:        "/api/v1/categories/{id}/groups",
		Summary:     "Get category groups",
		Description: "Returns the subcategory groups of a category",
		Tags:        []string{"Categories"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCategoryGroups)
}

// === DTOs ===

// ListCategoriesInput contains parameters for listing categories.
type ListCategoriesInput struct {
	Authorization string `header:"Authorization"`
}

// CategoryResponse contains category data in API responses.
type CategoryResponse struct {
	ID        string    `json:"id" doc:"Category ID"`
	Name      string    `json:"name" doc:"Category name"`
	Slug      string    `json:"slug" doc:"URL-safe slug"`
	Icon      string    `json:"icon,omitempty" doc:"Display icon"`
	Color     string    `json:"color,omitempty" doc:"Display color"`
	SortOrder int       `json:"sort_order" doc:"Position among categories"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// ListCategoriesResponse contains a list of categories.
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories" doc:"List of categories"`
}

// ListCategoriesOutput wraps the list categories response for Huma.
type ListCategoriesOutput struct {
	Body ListCategoriesResponse
}

// CreateCategoryRequest is the request body for creating a category.
type CreateCategoryRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=100" doc:"Category name"`
	Slug      string `json:"slug,omitempty" validate:"omitempty,max=100" doc:"URL-safe slug (derived from name when omitted)"`
	Icon      string `json:"icon,omitempty" validate:"omitempty,max=50" doc:"Display icon"`
	Color     string `json:"color,omitempty" validate:"omitempty,max=20" doc:"Display color"`
	SortOrder int    `json:"sort_order,omitempty" doc:"Position among categories"`
}

// CreateCategoryInput wraps the create category request for Huma.
type CreateCategoryInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateCategoryRequest
}

// CategoryOutput wraps the category response for Huma.
type CategoryOutput struct {
	Body CategoryResponse
}

// GetCategoryInput contains parameters for getting a category.
type GetCategoryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Category ID"`
}

// UpdateCategoryRequest is the request body for updating a category.
type UpdateCategoryRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"Category name"`
	Slug      *string `json:"slug,omitempty" validate:"omitempty,max=100" doc:"URL-safe slug"`
	Icon      *string `json:"icon,omitempty" validate:"omitempty,max=50" doc:"Display icon"`
	Color     *string `json:"color,omitempty" validate:"omitempty,max=20" doc:"Display color"`
	SortOrder *int    `json:"sort_order,omitempty" doc:"Position among categories"`
}

// UpdateCategoryInput wraps the update category request for Huma.
type UpdateCategoryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Category ID"`
	Body          UpdateCategoryRequest
}

// DeleteCategoryInput contains parameters for deleting a category.
type DeleteCategoryInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Category ID"`
}

// MessageResponse is a simple success message response.
type MessageResponse struct {
	Message string `json:"message" doc:"Success message"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}

// GetCategoryGroupsInput contains parameters for listing a category's groups.
type GetCategoryGroupsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Category ID"`
}

func categoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      c.Slug,
		Icon:      c.Icon,
		Color:     c.Color,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
	}
}

// === Handlers ===

func (s *Server) handleListCategories(ctx context.Context, _ *ListCategoriesInput) (*ListCategoriesOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	categories, err := s.services.Category.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		resp[i] = categoryResponse(c)
	}

	return &ListCategoriesOutput{Body: ListCategoriesResponse{Categories: resp}}, nil
}

func (s *Server) handleCreateCategory(ctx context.Context, input *CreateCategoryInput) (*CategoryOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	c, err := s.services.Category.Create(ctx, service.CategoryInput{
		Name:      input.Body.Name,
		Slug:      input.Body.Slug,
		Icon:      input.Body.Icon,
		Color:     input.Body.Color,
		SortOrder: input.Body.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: categoryResponse(c)}, nil
}

func (s *Server) handleGetCategory(ctx context.Context, input *GetCategoryInput) (*CategoryOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	c, err := s.services.Category.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: categoryResponse(c)}, nil
}

func (s *Server) handleUpdateCategory(ctx context.Context, input *UpdateCategoryInput) (*CategoryOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	var in service.CategoryInput
	if input.Body.Name != nil {
		in.Name = *input.Body.Name
	}
	if input.Body.Slug != nil {
		in.Slug = *input.Body.Slug
	}
	if input.Body.Icon != nil {
		in.Icon = *input.Body.Icon
	}
	if input.Body.Color != nil {
		in.Color = *input.Body.Color
	}
	if input.Body.SortOrder != nil {
		in.SortOrder = *input.Body.SortOrder
	}

	c, err := s.services.Category.Update(ctx, input.ID, in)
	if err != nil {
		return nil, err
	}

	return &CategoryOutput{Body: categoryResponse(c)}, nil
}

func (s *Server) handleDeleteCategory(ctx context.Context, input *DeleteCategoryInput) (*MessageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Category.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Category deleted"}}, nil
}

func (s *Server) handleGetCategoryGroups(ctx context.Context, input *GetCategoryGroupsInput) (*ListGroupsOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	groups, err := s.services.Group.List(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]GroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = groupResponse(g)
	}

	return &ListGroupsOutput{Body: ListGroupsResponse{Groups: resp}}, nil
}
