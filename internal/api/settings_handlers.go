package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/service"
)

func (s *Server) registerSettingsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getSettings",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings",
		Summary:     "Get settings",
		Description: "Returns the user's settings",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateSettings",
		Method:      http.MethodPatch,
		Path:        "/api/v1/settings",
		Summary:     "Update settings",
		Description: "Updates the user's settings",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateSettings)

	huma.Register(s.api, huma.Operation{
		OperationID: "listCopyPrefixes",
		Method:      http.MethodGet,
		Path:        "/api/v1/settings/prefixes",
		Summary:     "List copy prefixes",
		Description: "Returns the user's copy prefixes in sort order",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListCopyPrefixes)

	huma.Register(s.api, huma.Operation{
		OperationID: "createCopyPrefix",
		Method:      http.MethodPost,
		Path:        "/api/v1/settings/prefixes",
		Summary:     "Create copy prefix",
		Description: "Creates a copy prefix, appended to the end when no sort order is given",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateCopyPrefix)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCopyPrefix",
		Method:      http.MethodPatch,
		Path:        "/api/v1/settings/prefixes/{id}",
		Summary:     "Update copy prefix",
		Description: "Updates a copy prefix",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCopyPrefix)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCopyPrefix",
		Method:      http.MethodDelete,
		Path:        "/api/v1/settings/prefixes/{id}",
		Summary:     "Delete copy prefix",
		Description: "Deletes a copy prefix",
		Tags:        []string{"Settings"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCopyPrefix)
}

// === DTOs ===

// GetSettingsInput contains parameters for getting settings.
type GetSettingsInput struct {
	Authorization string `header:"Authorization"`
}

// SettingsResponse contains user settings in API responses.
type SettingsResponse struct {
	PrefixesEnabled bool      `json:"prefixes_enabled" doc:"Whether copy prefixes are applied on copy"`
	UpdatedAt       time.Time `json:"updated_at" doc:"Last update time"`
}

// SettingsOutput wraps the settings response for Huma.
type SettingsOutput struct {
	Body SettingsResponse
}

// UpdateSettingsRequest is the request body for updating settings.
type UpdateSettingsRequest struct {
	PrefixesEnabled *bool `json:"prefixes_enabled,omitempty" doc:"Whether copy prefixes are applied on copy"`
}

// UpdateSettingsInput wraps the update settings request for Huma.
type UpdateSettingsInput struct {
	Authorization string `header:"Authorization"`
	Body          UpdateSettingsRequest
}

// CopyPrefixResponse contains copy prefix data in API responses.
type CopyPrefixResponse struct {
	ID        string    `json:"id" doc:"Prefix ID"`
	Text      string    `json:"text" doc:"Prefix text prepended on copy"`
	IsActive  bool      `json:"is_active" doc:"Whether this prefix is applied"`
	SortOrder int       `json:"sort_order" doc:"Position among prefixes"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// ListCopyPrefixesResponse contains a list of copy prefixes.
type ListCopyPrefixesResponse struct {
	Prefixes []CopyPrefixResponse `json:"prefixes" doc:"Copy prefixes in sort order"`
}

// ListCopyPrefixesOutput wraps the list response for Huma.
type ListCopyPrefixesOutput struct {
	Body ListCopyPrefixesResponse
}

// CreateCopyPrefixRequest is the request body for creating a prefix.
type CreateCopyPrefixRequest struct {
	Text      string `json:"text" validate:"required,min=1,max=500" doc:"Prefix text"`
	IsActive  *bool  `json:"is_active,omitempty" doc:"Whether this prefix is applied (default true)"`
	SortOrder *int   `json:"sort_order,omitempty" doc:"Position among prefixes (appended when omitted)"`
}

// CreateCopyPrefixInput wraps the create request for Huma.
type CreateCopyPrefixInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateCopyPrefixRequest
}

// CopyPrefixOutput wraps a single prefix response for Huma.
type CopyPrefixOutput struct {
	Body CopyPrefixResponse
}

// UpdateCopyPrefixRequest is the request body for updating a prefix.
type UpdateCopyPrefixRequest struct {
	Text      string `json:"text,omitempty" validate:"omitempty,min=1,max=500" doc:"Prefix text"`
	IsActive  *bool  `json:"is_active,omitempty" doc:"Whether this prefix is applied"`
	SortOrder *int   `json:"sort_order,omitempty" doc:"Position among prefixes"`
}

// UpdateCopyPrefixInput wraps the update request for Huma.
type UpdateCopyPrefixInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Prefix ID"`
	Body          UpdateCopyPrefixRequest
}

// DeleteCopyPrefixInput contains parameters for deleting a prefix.
type DeleteCopyPrefixInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Prefix ID"`
}

func copyPrefixResponse(p *domain.CopyPrefix) CopyPrefixResponse {
	return CopyPrefixResponse{
		ID:        p.ID,
		Text:      p.Text,
		IsActive:  p.IsActive,
		SortOrder: p.SortOrder,
		CreatedAt: p.CreatedAt,
	}
}

// === Handlers ===

func (s *Server) handleGetSettings(ctx context.Context, _ *GetSettingsInput) (*SettingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &SettingsOutput{
		Body: SettingsResponse{
			PrefixesEnabled: settings.PrefixesEnabled,
			UpdatedAt:       settings.UpdatedAt,
		},
	}, nil
}

func (s *Server) handleUpdateSettings(ctx context.Context, input *UpdateSettingsInput) (*SettingsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	settings, err := s.services.Settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Body.PrefixesEnabled != nil {
		settings, err = s.services.Settings.SetPrefixesEnabled(ctx, userID, *input.Body.PrefixesEnabled)
		if err != nil {
			return nil, err
		}
	}

	return &SettingsOutput{
		Body: SettingsResponse{
			PrefixesEnabled: settings.PrefixesEnabled,
			UpdatedAt:       settings.UpdatedAt,
		},
	}, nil
}

func (s *Server) handleListCopyPrefixes(ctx context.Context, _ *GetSettingsInput) (*ListCopyPrefixesOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	prefixes, err := s.services.Settings.ListPrefixes(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]CopyPrefixResponse, len(prefixes))
	for i, p := range prefixes {
		resp[i] = copyPrefixResponse(p)
	}

	return &ListCopyPrefixesOutput{Body: ListCopyPrefixesResponse{Prefixes: resp}}, nil
}

func (s *Server) handleCreateCopyPrefix(ctx context.Context, input *CreateCopyPrefixInput) (*CopyPrefixOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Settings.CreatePrefix(ctx, userID, service.PrefixInput{
		Text:      input.Body.Text,
		IsActive:  input.Body.IsActive,
		SortOrder: input.Body.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	return &CopyPrefixOutput{Body: copyPrefixResponse(p)}, nil
}

func (s *Server) handleUpdateCopyPrefix(ctx context.Context, input *UpdateCopyPrefixInput) (*CopyPrefixOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Settings.UpdatePrefix(ctx, userID, input.ID, service.PrefixInput{
		Text:      input.Body.Text,
		IsActive:  input.Body.IsActive,
		SortOrder: input.Body.SortOrder,
	})
	if err != nil {
		return nil, err
	}

	return &CopyPrefixOutput{Body: copyPrefixResponse(p)}, nil
}

func (s *Server) handleDeleteCopyPrefix(ctx context.Context, input *DeleteCopyPrefixInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Settings.DeletePrefix(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Copy prefix deleted"}}, nil
}
