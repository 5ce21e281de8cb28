package api

import (
	"github.com/promptdeck/promptdeck-server/internal/export"
	"github.com/promptdeck/promptdeck-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Category *service.CategoryService
	Group    *service.GroupService
	Prompt   *service.PromptService
	Project  *service.ProjectService
	Settings *service.SettingsService
	Import   *service.ImportService
	Export   *export.Exporter
	Search   *service.SearchService
}
