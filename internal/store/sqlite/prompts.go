package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

// promptColumns is the ordered list of prompt columns selected in prompt
// queries, with joined category and group fields appended. Must match the
// scan order in scanPrompt. Queries using it must alias prompts as p,
// categories as c and subcategory_groups as g.
const promptColumns = `p.id, p.user_id, p.category_id, p.subcategory_group_id,
	p.title, p.content, p.subcategory, p.rating, p.usage_count, p.legacy_score,
	p.tags, p.legacy_id, p.last_used_at, p.created_at, p.updated_at,
	c.name, c.slug, g.name, g.slug`

// promptJoins attaches the denormalized taxonomy names to prompt queries.
const promptJoins = `
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN subcategory_groups g ON g.id = p.subcategory_group_id`

func scanPrompt(scanner interface{ Scan(dest ...any) error }) (*domain.Prompt, error) {
	var p domain.Prompt

	var (
		categoryID  sql.NullString
		groupID     sql.NullString
		subcategory sql.NullString
		tagsJSON    string
		legacyID    sql.NullString
		lastUsedAt  sql.NullString
		createdAt   string
		updatedAt   string
		catName     sql.NullString
		catSlug     sql.NullString
		grpName     sql.NullString
		grpSlug     sql.NullString
	)

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&categoryID,
		&groupID,
		&p.Title,
		&p.Content,
		&subcategory,
		&p.Rating,
		&p.UsageCount,
		&p.LegacyScore,
		&tagsJSON,
		&legacyID,
		&lastUsedAt,
		&createdAt,
		&updatedAt,
		&catName,
		&catSlug,
		&grpName,
		&grpSlug,
	)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	p.LastUsedAt, err = parseNullableTime(lastUsedAt)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		p.CategoryID = categoryID.String
	}
	if groupID.Valid {
		p.SubcategoryGroupID = groupID.String
	}
	if subcategory.Valid {
		p.Subcategory = subcategory.String
	}
	if legacyID.Valid {
		p.LegacyID = legacyID.String
	}

	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &p.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
	}

	if catName.Valid {
		p.Category = &domain.Category{ID: p.CategoryID, Name: catName.String, Slug: catSlug.String}
	}
	if grpName.Valid {
		p.Group = &domain.SubcategoryGroup{ID: p.SubcategoryGroupID, Name: grpName.String, Slug: grpSlug.String, CategoryID: p.CategoryID}
	}

	return &p, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode tags: %w", err)
	}
	return string(b), nil
}

// CreatePrompt inserts a new prompt and feeds it to the search indexer.
func (s *Store) CreatePrompt(ctx context.Context, p *domain.Prompt) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO prompts (
			id, user_id, category_id, subcategory_group_id, title, content,
			subcategory, rating, usage_count, legacy_score, tags, legacy_id,
			last_used_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.UserID,
		nullString(p.CategoryID),
		nullString(p.SubcategoryGroupID),
		p.Title,
		p.Content,
		nullString(p.Subcategory),
		p.Rating,
		p.UsageCount,
		p.LegacyScore,
		tags,
		nullString(p.LegacyID),
		nullTimeString(p.LastUsedAt),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}

	if err := s.searchIndexer.IndexPrompt(p); err != nil {
		s.logger.Warn("index prompt failed", "prompt_id", p.ID, "error", err)
	}
	return nil
}

// GetPrompt retrieves a prompt by ID with its taxonomy names attached.
func (s *Store) GetPrompt(ctx context.Context, id string) (*domain.Prompt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts p`+promptJoins+` WHERE p.id = ?`, id)

	p, err := scanPrompt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// FindPromptByLegacyID looks up a prompt by its import identity key.
// Returns store.ErrNotFound when no prompt matches.
func (s *Store) FindPromptByLegacyID(ctx context.Context, legacyID, userID string) (*domain.Prompt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+promptColumns+` FROM prompts p`+promptJoins+`
		 WHERE p.legacy_id = ? AND p.user_id = ?`, legacyID, userID)

	p, err := scanPrompt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// promptFilterConds translates a filter into WHERE conditions and args.
// Queries using it must alias prompts as p and categories as c.
func promptFilterConds(filter store.PromptFilter) ([]string, []any) {
	var (
		conds []string
		args  []any
	)

	if filter.UserID != "" {
		conds = append(conds, "p.user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.CategorySlug != "" {
		conds = append(conds, "c.slug = ?")
		args = append(args, filter.CategorySlug)
	}
	if filter.GroupID != "" {
		conds = append(conds, "p.subcategory_group_id = ?")
		args = append(args, filter.GroupID)
	}
	if filter.Subcategory != "" {
		conds = append(conds, "p.subcategory = ?")
		args = append(args, filter.Subcategory)
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		conds = append(conds, `(p.title LIKE ? ESCAPE '\' COLLATE NOCASE OR p.content LIKE ? ESCAPE '\' COLLATE NOCASE)`)
		args = append(args, pattern, pattern)
	}
	if filter.FavoritesOf != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM favorites f WHERE f.prompt_id = p.id AND f.user_id = ?)")
		args = append(args, filter.FavoritesOf)
	}
	if filter.ProjectID != "" {
		conds = append(conds, "EXISTS (SELECT 1 FROM project_prompts pp WHERE pp.prompt_id = p.id AND pp.project_id = ?)")
		args = append(args, filter.ProjectID)
	}

	return conds, args
}

// ListPrompts returns prompts matching the filter.
func (s *Store) ListPrompts(ctx context.Context, filter store.PromptFilter) ([]*domain.Prompt, error) {
	query := `SELECT ` + promptColumns + ` FROM prompts p` + promptJoins
	conds, args := promptFilterConds(filter)

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	switch filter.Order {
	case store.OrderCreatedDesc:
		query += " ORDER BY p.created_at DESC"
	default:
		query += " ORDER BY p.rating DESC, p.usage_count DESC, p.legacy_score DESC, p.last_used_at DESC"
	}

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prompts []*domain.Prompt
	for rows.Next() {
		p, err := scanPrompt(rows)
		if err != nil {
			return nil, err
		}
		prompts = append(prompts, p)
	}
	return prompts, rows.Err()
}

// escapeLike escapes LIKE metacharacters in a user-supplied search term.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// CountPrompts returns the number of prompts matching the filter,
// ignoring its pagination fields.
func (s *Store) CountPrompts(ctx context.Context, filter store.PromptFilter) (int, error) {
	query := `SELECT COUNT(*) FROM prompts p` + promptJoins
	conds, args := promptFilterConds(filter)
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	var n int
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

// UpdatePrompt updates an existing prompt and re-indexes it.
func (s *Store) UpdatePrompt(ctx context.Context, p *domain.Prompt) error {
	tags, err := encodeTags(p.Tags)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE prompts
		SET category_id = ?, subcategory_group_id = ?, title = ?, content = ?,
			subcategory = ?, rating = ?, usage_count = ?, legacy_score = ?,
			tags = ?, legacy_id = ?, last_used_at = ?, updated_at = ?
		WHERE id = ?`,
		nullString(p.CategoryID),
		nullString(p.SubcategoryGroupID),
		p.Title,
		p.Content,
		nullString(p.Subcategory),
		p.Rating,
		p.UsageCount,
		p.LegacyScore,
		tags,
		nullString(p.LegacyID),
		nullTimeString(p.LastUsedAt),
		formatTime(p.UpdatedAt),
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

	if err := s.searchIndexer.IndexPrompt(p); err != nil {
		s.logger.Warn("index prompt failed", "prompt_id", p.ID, "error", err)
	}
	return nil
}

// DeletePrompt removes a prompt and drops it from the search index.
func (s *Store) DeletePrompt(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
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

	if err := s.searchIndexer.RemovePrompt(id); err != nil {
		s.logger.Warn("remove prompt from index failed", "prompt_id", id, "error", err)
	}
	return nil
}

// DeletePrompts removes the given prompts owned by the user and returns
// how many rows were deleted. IDs that don't exist or belong to someone
// else are skipped silently.
func (s *Store) DeletePrompts(ctx context.Context, userID string, ids []string) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	args := make([]any, 0, len(ids)+1)
	args = append(args, userID)
	for _, id := range ids {
		args = append(args, id)
	}

	res, err := s.db.ExecContext(ctx,
		`DELETE FROM prompts WHERE user_id = ? AND id IN (`+placeholders+`)`, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	for _, id := range ids {
		if err := s.searchIndexer.RemovePrompt(id); err != nil {
			s.logger.Warn("remove prompt from index failed", "prompt_id", id, "error", err)
		}
	}
	return int(n), nil
}

// IncrementPromptUsage bumps the usage counter and stamps the last-used
// time, returning the updated prompt.
func (s *Store) IncrementPromptUsage(ctx context.Context, id string, usedAt time.Time) (*domain.Prompt, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE prompts
		SET usage_count = usage_count + 1, last_used_at = ?, updated_at = ?
		WHERE id = ?`,
		formatTime(usedAt),
		formatTime(usedAt),
		id,
	)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetPrompt(ctx, id)
}

// SetPromptRating stores a new display rating, returning the updated prompt.
// The caller is expected to clamp the rating first.
func (s *Store) SetPromptRating(ctx context.Context, id string, rating float64) (*domain.Prompt, error) {
	now := time.Now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE prompts SET rating = ?, updated_at = ? WHERE id = ?`,
		rating, formatTime(now), id)
	if err != nil {
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, store.ErrNotFound
	}
	return s.GetPrompt(ctx, id)
}

// ListSubcategories aggregates the free-text subcategory values on the
// user's prompts, optionally narrowed to one group, with usage counts.
func (s *Store) ListSubcategories(ctx context.Context, userID, groupID string) ([]*domain.SubcategoryCount, error) {
	query := `
		SELECT subcategory, COUNT(*) FROM prompts
		WHERE user_id = ? AND subcategory IS NOT NULL AND subcategory != ''`
	args := []any{userID}

	if groupID != "" {
		query += ` AND subcategory_group_id = ?`
		args = append(args, groupID)
	}
	query += ` GROUP BY subcategory ORDER BY COUNT(*) DESC, subcategory`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []*domain.SubcategoryCount
	for rows.Next() {
		var sc domain.SubcategoryCount
		if err := rows.Scan(&sc.Name, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, &sc)
	}
	return counts, rows.Err()
}
