package providers

import (
	"github.com/samber/do/v2"

	"github.com/promptdeck/promptdeck-server/internal/export"
	"github.com/promptdeck/promptdeck-server/internal/importer"
	"github.com/promptdeck/promptdeck-server/internal/logger"
	"github.com/promptdeck/promptdeck-server/internal/service"
)

// ProvideCategoryService provides the category service.
func ProvideCategoryService(i do.Injector) (*service.CategoryService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewCategoryService(storeHandle.Store, log.Logger), nil
}

// ProvideGroupService provides the subcategory group service.
func ProvideGroupService(i do.Injector) (*service.GroupService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewGroupService(storeHandle.Store, log.Logger), nil
}

// ProvidePromptService provides the prompt service.
func ProvidePromptService(i do.Injector) (*service.PromptService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewPromptService(storeHandle.Store, log.Logger), nil
}

// ProvideProjectService provides the project service.
func ProvideProjectService(i do.Injector) (*service.ProjectService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewProjectService(storeHandle.Store, log.Logger), nil
}

// ProvideSettingsService provides the settings service.
func ProvideSettingsService(i do.Injector) (*service.SettingsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewSettingsService(storeHandle.Store, log.Logger), nil
}

// ProvideImporter provides the CSV importer.
func ProvideImporter(i do.Injector) (*importer.Importer, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return importer.New(storeHandle.Store, log.Logger), nil
}

// ProvideImportService provides the import service.
func ProvideImportService(i do.Injector) (*service.ImportService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	imp := do.MustInvoke[*importer.Importer](i)
	log := do.MustInvoke[*logger.Logger](i)
	return service.NewImportService(storeHandle.Store, imp, log.Logger), nil
}

// ProvideExporter provides the CSV and JSON exporter.
func ProvideExporter(i do.Injector) (*export.Exporter, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return export.New(storeHandle.Store, log.Logger), nil
}
