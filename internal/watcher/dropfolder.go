package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/promptdeck/promptdeck-server/internal/importer"
	"github.com/promptdeck/promptdeck-server/internal/service"
)

// DropFolder wires a Watcher to the import pipeline: every settled CSV file
// in the watched directory is imported into a fixed category, then renamed so
// it is not picked up again.
type DropFolder struct {
	watcher      *Watcher
	imports      *service.ImportService
	userID       string
	categorySlug string
	logger       *slog.Logger
}

// NewDropFolder creates the auto-import runner for dir.
func NewDropFolder(dir string, imports *service.ImportService, userID, categorySlug string, logger *slog.Logger) (*DropFolder, error) {
	w, err := New(dir, logger, Options{})
	if err != nil {
		return nil, err
	}
	return &DropFolder{
		watcher:      w,
		imports:      imports,
		userID:       userID,
		categorySlug: categorySlug,
		logger:       logger,
	}, nil
}

// Run watches the folder until the context is cancelled.
func (d *DropFolder) Run(ctx context.Context) error {
	d.logger.Info("watching drop folder", "category", d.categorySlug)

	d.watcher.wg.Add(1)
	go func() {
		defer d.watcher.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-d.watcher.done:
				return
			case event, ok := <-d.watcher.Events():
				if !ok {
					return
				}
				d.importFile(ctx, event.Path)
			case err, ok := <-d.watcher.Errors():
				if !ok {
					return
				}
				d.logger.Error("drop folder watch error", "error", err)
			}
		}
	}()

	return d.watcher.Start(ctx)
}

// Stop stops the underlying watcher.
func (d *DropFolder) Stop() error {
	return d.watcher.Stop()
}

// importFile imports one CSV file and renames it with a result suffix.
func (d *DropFolder) importFile(ctx context.Context, path string) {
	d.logger.Info("importing dropped file", "path", path)

	result, err := d.runImport(ctx, path)
	if err != nil {
		d.logger.Error("drop folder import failed", "path", path, "error", err)
		d.markDone(path, ".failed")
		return
	}

	d.logger.Info("drop folder import complete",
		"path", path,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"errors", result.Errors)
	d.markDone(path, ".imported")
}

func (d *DropFolder) runImport(ctx context.Context, path string) (importer.Progress, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Progress{}, fmt.Errorf("failed to open dropped file: %w", err)
	}
	defer f.Close()

	return d.imports.Run(ctx, f, d.userID, d.categorySlug, nil)
}

// markDone renames the processed file so the watcher ignores it from now on.
func (d *DropFolder) markDone(path, suffix string) {
	if err := os.Rename(path, path+suffix); err != nil {
		d.logger.Warn("failed to rename processed file", "path", path, "error", err)
	}
}
