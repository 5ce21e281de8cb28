package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

// groupColumns is the ordered list of columns selected in subcategory
// group queries. Must match the scan order in scanGroup.
const groupColumns = `id, name, slug, category_id, sort_order, created_at`

func scanGroup(scanner interface{ Scan(dest ...any) error }) (*domain.SubcategoryGroup, error) {
	var g domain.SubcategoryGroup

	var createdAt string

	err := scanner.Scan(
		&g.ID,
		&g.Name,
		&g.Slug,
		&g.CategoryID,
		&g.SortOrder,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	g.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &g, nil
}

// CreateGroup inserts a new subcategory group.
func (s *Store) CreateGroup(ctx context.Context, g *domain.SubcategoryGroup) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO subcategory_groups (id, name, slug, category_id, sort_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		g.ID,
		g.Name,
		g.Slug,
		g.CategoryID,
		g.SortOrder,
		formatTime(g.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return store.NotFoundError("category")
		}
		return err
	}
	return nil
}

// GetGroup retrieves a subcategory group by ID.
func (s *Store) GetGroup(ctx context.Context, id string) (*domain.SubcategoryGroup, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM subcategory_groups WHERE id = ?`, id)

	g, err := scanGroup(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return g, nil
}

// ListGroups returns all subcategory groups ordered by sort order, then name.
func (s *Store) ListGroups(ctx context.Context) ([]*domain.SubcategoryGroup, error) {
	return s.queryGroups(ctx,
		`SELECT `+groupColumns+` FROM subcategory_groups ORDER BY sort_order, name`)
}

// ListGroupsByCategory returns the groups under one category.
func (s *Store) ListGroupsByCategory(ctx context.Context, categoryID string) ([]*domain.SubcategoryGroup, error) {
	return s.queryGroups(ctx,
		`SELECT `+groupColumns+` FROM subcategory_groups WHERE category_id = ? ORDER BY sort_order, name`,
		categoryID)
}

func (s *Store) queryGroups(ctx context.Context, query string, args ...any) ([]*domain.SubcategoryGroup, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []*domain.SubcategoryGroup
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// UpdateGroup updates an existing subcategory group.
func (s *Store) UpdateGroup(ctx context.Context, g *domain.SubcategoryGroup) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE subcategory_groups
		SET name = ?, slug = ?, category_id = ?, sort_order = ?
		WHERE id = ?`,
		g.Name,
		g.Slug,
		g.CategoryID,
		g.SortOrder,
		g.ID,
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

// DeleteGroup removes a subcategory group. Prompts pointing at it keep
// their rows with the group reference cleared.
func (s *Store) DeleteGroup(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM subcategory_groups WHERE id = ?`, id)
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

// MaxGroupSortOrder returns the highest sort_order across all groups,
// or 0 when no groups exist. Imports use it to append new groups after
// the existing ones.
func (s *Store) MaxGroupSortOrder(ctx context.Context) (int, error) {
	var max sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(sort_order) FROM subcategory_groups`).Scan(&max)
	if err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}
