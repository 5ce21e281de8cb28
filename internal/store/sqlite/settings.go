package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

const copyPrefixColumns = `id, user_id, text, is_active, sort_order, created_at`

func scanCopyPrefix(scanner interface{ Scan(dest ...any) error }) (*domain.CopyPrefix, error) {
	var p domain.CopyPrefix

	var (
		isActive  int
		createdAt string
	)

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.Text,
		&isActive,
		&p.SortOrder,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.IsActive = isActive != 0

	return &p, nil
}

// CreateCopyPrefix inserts a new copy prefix.
func (s *Store) CreateCopyPrefix(ctx context.Context, p *domain.CopyPrefix) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO copy_prefixes (id, user_id, text, is_active, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.UserID,
		p.Text,
		boolToInt(p.IsActive),
		p.SortOrder,
		formatTime(p.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ListCopyPrefixes returns the user's copy prefixes in sort order.
func (s *Store) ListCopyPrefixes(ctx context.Context, userID string) ([]*domain.CopyPrefix, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+copyPrefixColumns+` FROM copy_prefixes WHERE user_id = ? ORDER BY sort_order, created_at`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefixes []*domain.CopyPrefix
	for rows.Next() {
		p, err := scanCopyPrefix(rows)
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, p)
	}
	return prefixes, rows.Err()
}

// UpdateCopyPrefix updates an existing copy prefix.
func (s *Store) UpdateCopyPrefix(ctx context.Context, p *domain.CopyPrefix) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE copy_prefixes SET text = ?, is_active = ?, sort_order = ? WHERE id = ?`,
		p.Text,
		boolToInt(p.IsActive),
		p.SortOrder,
		p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteCopyPrefix removes a copy prefix.
func (s *Store) DeleteCopyPrefix(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM copy_prefixes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// GetUserSettings returns the user's settings, or defaults when no row
// exists yet.
func (s *Store) GetUserSettings(ctx context.Context, userID string) (*domain.UserSettings, error) {
	var (
		settings        domain.UserSettings
		prefixesEnabled int
		updatedAt       string
	)

	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, prefixes_enabled, updated_at FROM user_settings WHERE user_id = ?`,
		userID).Scan(&settings.UserID, &prefixesEnabled, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.UserSettings{UserID: userID}, nil
		}
		return nil, err
	}

	settings.PrefixesEnabled = prefixesEnabled != 0
	settings.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveUserSettings inserts or replaces the user's settings row.
func (s *Store) SaveUserSettings(ctx context.Context, settings *domain.UserSettings) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, prefixes_enabled, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			prefixes_enabled = excluded.prefixes_enabled,
			updated_at = excluded.updated_at`,
		settings.UserID,
		boolToInt(settings.PrefixesEnabled),
		formatTime(settings.UpdatedAt),
	)
	return err
}
