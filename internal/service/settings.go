package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/errors"
	"github.com/promptdeck/promptdeck-server/internal/id"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

// SettingsService manages per-user settings and copy prefixes.
type SettingsService struct {
	store  store.Store
	logger *slog.Logger
}

func NewSettingsService(st store.Store, logger *slog.Logger) *SettingsService {
	return &SettingsService{store: st, logger: logger}
}

func (s *SettingsService) Get(ctx context.Context, userID string) (*domain.UserSettings, error) {
	return s.store.GetUserSettings(ctx, userID)
}

func (s *SettingsService) SetPrefixesEnabled(ctx context.Context, userID string, enabled bool) (*domain.UserSettings, error) {
	settings, err := s.store.GetUserSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings.PrefixesEnabled = enabled
	settings.UpdatedAt = time.Now()
	if err := s.store.SaveUserSettings(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("prefixes toggled", "enabled", enabled)
	return settings, nil
}

// PrefixInput carries the writable copy prefix fields.
type PrefixInput struct {
	Text      string
	IsActive  *bool
	SortOrder *int
}

func (s *SettingsService) CreatePrefix(ctx context.Context, userID string, in PrefixInput) (*domain.CopyPrefix, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, errors.Validation("prefix text is required")
	}

	p := &domain.CopyPrefix{
		ID:        id.MustGenerate(id.PrefixPrefix),
		UserID:    userID,
		Text:      in.Text,
		IsActive:  true,
		CreatedAt: time.Now(),
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		p.SortOrder = *in.SortOrder
	} else {
		existing, err := s.store.ListCopyPrefixes(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, e := range existing {
			if e.SortOrder >= p.SortOrder {
				p.SortOrder = e.SortOrder + 1
			}
		}
	}

	if err := s.store.CreateCopyPrefix(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("copy prefix created", "prefix_id", p.ID)
	return p, nil
}

func (s *SettingsService) ListPrefixes(ctx context.Context, userID string) ([]*domain.CopyPrefix, error) {
	return s.store.ListCopyPrefixes(ctx, userID)
}

func (s *SettingsService) UpdatePrefix(ctx context.Context, userID, prefixID string, in PrefixInput) (*domain.CopyPrefix, error) {
	p, err := s.getPrefix(ctx, userID, prefixID)
	if err != nil {
		return nil, err
	}

	if in.Text != "" {
		p.Text = in.Text
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.SortOrder != nil {
		p.SortOrder = *in.SortOrder
	}

	if err := s.store.UpdateCopyPrefix(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SettingsService) DeletePrefix(ctx context.Context, userID, prefixID string) error {
	if _, err := s.getPrefix(ctx, userID, prefixID); err != nil {
		return err
	}
	return s.store.DeleteCopyPrefix(ctx, prefixID)
}

func (s *SettingsService) getPrefix(ctx context.Context, userID, prefixID string) (*domain.CopyPrefix, error) {
	prefixes, err := s.store.ListCopyPrefixes(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, p := range prefixes {
		if p.ID == prefixID {
			return p, nil
		}
	}
	return nil, errors.NotFound("copy prefix not found")
}
