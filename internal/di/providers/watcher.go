package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/promptdeck/promptdeck-server/internal/config"
	"github.com/promptdeck/promptdeck-server/internal/logger"
	"github.com/promptdeck/promptdeck-server/internal/service"
	"github.com/promptdeck/promptdeck-server/internal/watcher"
)

// DropFolderHandle wraps the drop-folder watcher for lifecycle management.
// The DropFolder is nil when no drop path is configured.
type DropFolderHandle struct {
	*watcher.DropFolder
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *DropFolderHandle) Shutdown() error {
	if h.DropFolder == nil {
		return nil
	}
	h.cancel()
	return h.Stop()
}

// ProvideDropFolder provides the CSV drop-folder auto-importer. Disabled when
// IMPORT_DROP_PATH is not set.
func ProvideDropFolder(i do.Injector) (*DropFolderHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Import.DropPath == "" {
		log.Info("Drop folder disabled - no import drop path configured")
		return &DropFolderHandle{}, nil
	}
	if cfg.Import.DefaultCategorySlug == "" {
		log.Warn("Drop folder disabled - IMPORT_CATEGORY not set", "path", cfg.Import.DropPath)
		return &DropFolderHandle{}, nil
	}

	imports := do.MustInvoke[*service.ImportService](i)

	df, err := watcher.NewDropFolder(cfg.Import.DropPath, imports, cfg.Auth.UserID, cfg.Import.DefaultCategorySlug, log.Logger)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := df.Run(ctx); err != nil {
			log.Error("Drop folder watcher stopped", "error", err)
		}
	}()

	log.Info("Drop folder watcher started",
		"path", cfg.Import.DropPath,
		"category", cfg.Import.DefaultCategorySlug,
	)

	return &DropFolderHandle{DropFolder: df, cancel: cancel}, nil
}
