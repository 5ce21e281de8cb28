package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/service"
)

func (s *Server) registerGroupRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGroups",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups",
		Summary:     "List groups",
		Description: "Returns subcategory groups, optionally filtered by category",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGroups)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGroup",
		Method:      http.MethodPost,
		Path:        "/api/v1/groups",
		Summary:     "Create group",
		Description: "Creates a subcategory group inside a category",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGroup",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{id}",
		Summary:     "Get group",
		Description: "Returns a subcategory group by ID",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGroup",
		Method:      http.MethodPatch,
		Path:        "/api/v1/groups/{id}",
		Summary:     "Update group",
		Description: "Updates a subcategory group",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteGroup",
		Method:      http.MethodDelete,
		Path:        "/api/v1/groups/{id}",
		Summary:     "Delete group",
		Description: "Deletes a subcategory group; prompts inside it are detached, not deleted",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteGroup)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSubcategories",
		Method:      http.MethodGet,
		Path:        "/api/v1/subcategories",
		Summary:     "List subcategories",
		Description: "Returns distinct free-text subcategory labels on the user's prompts with counts",
		Tags:        []string{"Groups"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListSubcategories)
}

// === DTOs ===

// ListGroupsInput contains parameters for listing groups.
type ListGroupsInput struct {
	Authorization string `header:"Authorization"`
	CategoryID    string `query:"category_id" doc:"Filter by category ID"`
}

// GroupResponse contains subcategory group data in API responses.
type GroupResponse struct {
	ID         string    `json:"id" doc:"Group ID"`
	CategoryID string    `json:"category_id" doc:"Owning category ID"`
	Name       string    `json:"name" doc:"Group name"`
	Slug       string    `json:"slug" doc:"URL-safe slug"`
	SortOrder  int       `json:"sort_order" doc:"Position within the category"`
	CreatedAt  time.Time `json:"created_at" doc:"Creation time"`
}

// ListGroupsResponse contains a list of groups.
type ListGroupsResponse struct {
	Groups []GroupResponse `json:"groups" doc:"List of groups"`
}

// ListGroupsOutput wraps the list groups response for Huma.
type ListGroupsOutput struct {
	Body ListGroupsResponse
}

// CreateGroupRequest is the request body for creating a group.
type CreateGroupRequest struct {
	Name       string `json:"name" validate:"required,min=1,max=100" doc:"Group name"`
	Slug       string `json:"slug,omitempty" validate:"omitempty,max=100" doc:"URL-safe slug (derived from name when omitted)"`
	CategoryID string `json:"category_id" validate:"required" doc:"Owning category ID"`
	SortOrder  int    `json:"sort_order,omitempty" doc:"Position within the category (appended when omitted)"`
}

// CreateGroupInput wraps the create group request for Huma.
type CreateGroupInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateGroupRequest
}

// GroupOutput wraps the group response for Huma.
type GroupOutput struct {
	Body GroupResponse
}

// GetGroupInput contains parameters for getting a group.
type GetGroupInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Group ID"`
}

// UpdateGroupRequest is the request body for updating a group.
type UpdateGroupRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"Group name"`
	Slug       *string `json:"slug,omitempty" validate:"omitempty,max=100" doc:"URL-safe slug"`
	CategoryID *string `json:"category_id,omitempty" doc:"Move the group to another category"`
	SortOrder  *int    `json:"sort_order,omitempty" doc:"Position within the category"`
}

// UpdateGroupInput wraps the update group request for Huma.
type UpdateGroupInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Group ID"`
	Body          UpdateGroupRequest
}

// DeleteGroupInput contains parameters for deleting a group.
type DeleteGroupInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Group ID"`
}

// ListSubcategoriesInput contains parameters for listing subcategories.
type ListSubcategoriesInput struct {
	Authorization string `header:"Authorization"`
	GroupID       string `query:"group_id" doc:"Restrict to one group"`
}

// SubcategoryResponse is one subcategory label with its prompt count.
type SubcategoryResponse struct {
	Name  string `json:"name" doc:"Subcategory label"`
	Count int    `json:"count" doc:"Number of prompts with this label"`
}

// ListSubcategoriesResponse contains subcategory labels with counts.
type ListSubcategoriesResponse struct {
	Subcategories []SubcategoryResponse `json:"subcategories" doc:"Subcategory labels"`
}

// ListSubcategoriesOutput wraps the subcategories response for Huma.
type ListSubcategoriesOutput struct {
	Body ListSubcategoriesResponse
}

func groupResponse(g *domain.SubcategoryGroup) GroupResponse {
	return GroupResponse{
		ID:         g.ID,
		CategoryID: g.CategoryID,
		Name:       g.Name,
		Slug:       g.Slug,
		SortOrder:  g.SortOrder,
		CreatedAt:  g.CreatedAt,
	}
}

// === Handlers ===

func (s *Server) handleListGroups(ctx context.Context, input *ListGroupsInput) (*ListGroupsOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	groups, err := s.services.Group.List(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	resp := make([]GroupResponse, len(groups))
	for i, g := range groups {
		resp[i] = groupResponse(g)
	}

	return &ListGroupsOutput{Body: ListGroupsResponse{Groups: resp}}, nil
}

func (s *Server) handleCreateGroup(ctx context.Context, input *CreateGroupInput) (*GroupOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	g, err := s.services.Group.Create(ctx, service.GroupInput{
		Name:       input.Body.Name,
		Slug:       input.Body.Slug,
		CategoryID: input.Body.CategoryID,
		SortOrder:  input.Body.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: groupResponse(g)}, nil
}

func (s *Server) handleGetGroup(ctx context.Context, input *GetGroupInput) (*GroupOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	g, err := s.services.Group.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: groupResponse(g)}, nil
}

func (s *Server) handleUpdateGroup(ctx context.Context, input *UpdateGroupInput) (*GroupOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	var in service.GroupInput
	if input.Body.Name != nil {
		in.Name = *input.Body.Name
	}
	if input.Body.Slug != nil {
		in.Slug = *input.Body.Slug
	}
	if input.Body.CategoryID != nil {
		in.CategoryID = *input.Body.CategoryID
	}
	if input.Body.SortOrder != nil {
		in.SortOrder = *input.Body.SortOrder
	}

	g, err := s.services.Group.Update(ctx, input.ID, in)
	if err != nil {
		return nil, err
	}

	return &GroupOutput{Body: groupResponse(g)}, nil
}

func (s *Server) handleDeleteGroup(ctx context.Context, input *DeleteGroupInput) (*MessageOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	if err := s.services.Group.Delete(ctx, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Group deleted"}}, nil
}

func (s *Server) handleListSubcategories(ctx context.Context, input *ListSubcategoriesInput) (*ListSubcategoriesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	subs, err := s.services.Prompt.Subcategories(ctx, userID, input.GroupID)
	if err != nil {
		return nil, err
	}

	resp := make([]SubcategoryResponse, len(subs))
	for i, sc := range subs {
		resp[i] = SubcategoryResponse{Name: sc.Name, Count: sc.Count}
	}

	return &ListSubcategoriesOutput{Body: ListSubcategoriesResponse{Subcategories: resp}}, nil
}
