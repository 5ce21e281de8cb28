// Package di provides dependency injection configuration for the PromptDeck server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/promptdeck/promptdeck-server/internal/config"
	"github.com/promptdeck/promptdeck-server/internal/di/providers"
	"github.com/promptdeck/promptdeck-server/internal/export"
	"github.com/promptdeck/promptdeck-server/internal/importer"
	"github.com/promptdeck/promptdeck-server/internal/logger"
	"github.com/promptdeck/promptdeck-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchService)

	// Business services
	do.Provide(injector, providers.ProvideCategoryService)
	do.Provide(injector, providers.ProvideGroupService)
	do.Provide(injector, providers.ProvidePromptService)
	do.Provide(injector, providers.ProvideProjectService)
	do.Provide(injector, providers.ProvideSettingsService)
	do.Provide(injector, providers.ProvideImporter)
	do.Provide(injector, providers.ProvideImportService)
	do.Provide(injector, providers.ProvideExporter)

	// Workers
	do.Provide(injector, providers.ProvideDropFolder)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*service.SearchService](injector)

	// Business services
	_ = do.MustInvoke[*service.CategoryService](injector)
	_ = do.MustInvoke[*service.GroupService](injector)
	_ = do.MustInvoke[*service.PromptService](injector)
	_ = do.MustInvoke[*service.ProjectService](injector)
	_ = do.MustInvoke[*service.SettingsService](injector)
	_ = do.MustInvoke[*importer.Importer](injector)
	_ = do.MustInvoke[*service.ImportService](injector)
	_ = do.MustInvoke[*export.Exporter](injector)

	// Workers
	_ = do.MustInvoke[*providers.DropFolderHandle](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the search index if it is empty but prompts exist
	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
