package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/promptdeck/promptdeck-server/internal/export"
)

func (s *Server) registerExportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportPrompts",
		Method:      http.MethodGet,
		Path:        "/api/v1/export",
		Summary:     "Export prompts",
		Description: "Downloads the user's prompt library as CSV or JSON",
		Tags:        []string{"Export"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleExportPrompts)
}

// ExportPromptsInput contains parameters for exporting prompts.
type ExportPromptsInput struct {
	Authorization string `header:"Authorization"`
	Format        string `query:"format" enum:"csv,json" default:"csv" doc:"Export format"`
}

func (s *Server) handleExportPrompts(ctx context.Context, input *ExportPromptsInput) (*huma.StreamResponse, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	format := input.Format
	if format == "" {
		format = "csv"
	}

	var (
		data        []byte
		contentType string
	)
	switch format {
	case "json":
		data, err = s.services.Export.JSON(ctx, userID)
		contentType = "application/json"
	default:
		data, err = s.services.Export.CSV(ctx, userID)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to export prompts", err)
	}

	fileName := export.FileName(format)

	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			ctx.SetHeader("Content-Type", contentType)
			ctx.SetHeader("Content-Disposition", "attachment; filename=\""+fileName+"\"")
			_, _ = ctx.BodyWriter().Write(data)
		},
	}, nil
}
