package api

import (
	"bytes"
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerImportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "importPrompts",
		Method:      http.MethodPost,
		Path:        "/api/v1/import",
		Summary:     "Import prompts from CSV",
		Description: "Imports a CSV export into the target category. Re-running the same file updates existing prompts instead of duplicating them.",
		Tags:        []string{"Import"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleImportPrompts)
}

// === DTOs ===

// ImportPromptsInput wraps a raw CSV upload for Huma.
type ImportPromptsInput struct {
	Authorization string `header:"Authorization"`
	Category      string `query:"category" validate:"required" doc:"Target category slug"`
	RawBody       []byte `contentType:"text/csv"`
}

// ImportPromptsResponse reports the outcome of an import run.
type ImportPromptsResponse struct {
	Total         int      `json:"total" doc:"Rows considered"`
	Inserted      int      `json:"inserted" doc:"New prompts created"`
	Updated       int      `json:"updated" doc:"Existing prompts updated"`
	Errors        int      `json:"errors" doc:"Rows that failed"`
	GroupsCreated []string `json:"groups_created" doc:"Names of auto-created subcategory groups"`
}

// ImportPromptsOutput wraps the import response for Huma.
type ImportPromptsOutput struct {
	Body ImportPromptsResponse
}

// === Handlers ===

func (s *Server) handleImportPrompts(ctx context.Context, input *ImportPromptsInput) (*ImportPromptsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	// Imports rewrite large parts of the library; keep them from
	// being hammered.
	if !s.importRateLimiter.Allow(userID) {
		return nil, huma.Error429TooManyRequests("Too many import requests. Please try again later.")
	}

	if len(input.RawBody) == 0 {
		return nil, huma.Error400BadRequest("CSV body is required")
	}

	result, err := s.services.Import.Run(ctx, bytes.NewReader(input.RawBody), userID, input.Category, nil)
	if err != nil {
		return nil, err
	}

	groups := result.GroupsCreated
	if groups == nil {
		groups = []string{}
	}

	return &ImportPromptsOutput{
		Body: ImportPromptsResponse{
			Total:         result.Total,
			Inserted:      result.Inserted,
			Updated:       result.Updated,
			Errors:        result.Errors,
			GroupsCreated: groups,
		},
	}, nil
}
