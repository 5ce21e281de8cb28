package service

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/promptdeck/promptdeck-server/internal/errors"
	"github.com/promptdeck/promptdeck-server/internal/importer"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

// ImportService runs CSV imports into a target category.
type ImportService struct {
	store    store.Store
	importer *importer.Importer
	logger   *slog.Logger
}

func NewImportService(st store.Store, imp *importer.Importer, logger *slog.Logger) *ImportService {
	return &ImportService{store: st, importer: imp, logger: logger}
}

// Run imports a CSV stream into the category identified by slug. The
// progress callback is optional.
func (s *ImportService) Run(ctx context.Context, r io.Reader, userID, categorySlug string, onProgress importer.ProgressFunc) (importer.Progress, error) {
	cat, err := s.store.GetCategoryBySlug(ctx, categorySlug)
	if err != nil {
		if store.IsNotFound(err) {
			return importer.Progress{}, errors.NotFoundf("category %q not found", categorySlug)
		}
		return importer.Progress{}, err
	}

	// Correlation ID ties the start and finish lines of concurrent runs together.
	log := s.logger.With("import_id", uuid.NewString())

	log.Info("import started", "category", cat.Name)
	result, err := s.importer.Run(ctx, r, userID, cat.ID, onProgress)
	if err != nil {
		return result, err
	}
	log.Info("import finished",
		"inserted", result.Inserted,
		"updated", result.Updated,
		"errors", result.Errors,
		"groups_created", len(result.GroupsCreated))
	return result, nil
}
