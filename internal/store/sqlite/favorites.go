package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/store"
)

// AddFavorite marks a prompt as favorited by the user. Favoriting the
// same prompt twice is a no-op.
func (s *Store) AddFavorite(ctx context.Context, userID, promptID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, prompt_id, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, prompt_id) DO NOTHING`,
		userID, promptID, formatTime(time.Now()))
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.NotFoundError("prompt")
		}
		return err
	}
	return nil
}

// RemoveFavorite clears a favorite mark.
func (s *Store) RemoveFavorite(ctx context.Context, userID, promptID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND prompt_id = ?`,
		userID, promptID)
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

// IsFavorite reports whether the user has favorited the prompt.
func (s *Store) IsFavorite(ctx context.Context, userID, promptID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM favorites WHERE user_id = ? AND prompt_id = ?`,
		userID, promptID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFavoriteIDs returns the IDs of the user's favorited prompts,
// most recently favorited first.
func (s *Store) ListFavoriteIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT prompt_id FROM favorites WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
