package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

const projectColumns = `id, user_id, name, description, created_at, updated_at`

func scanProject(scanner interface{ Scan(dest ...any) error }) (*domain.Project, error) {
	var p domain.Project

	var (
		description sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.Name,
		&description,
		&createdAt,
		&updatedAt,
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

	if description.Valid {
		p.Description = description.String
	}

	return &p, nil
}

// CreateProject inserts a new project.
func (s *Store) CreateProject(ctx context.Context, p *domain.Project) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO projects (id, user_id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.UserID,
		p.Name,
		nullString(p.Description),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListProjects returns the user's projects, most recently touched first.
func (s *Store) ListProjects(ctx context.Context, userID string) ([]*domain.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE user_id = ? ORDER BY updated_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*domain.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// UpdateProject updates an existing project.
func (s *Store) UpdateProject(ctx context.Context, p *domain.Project) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE projects SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
		p.Name,
		nullString(p.Description),
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
	return nil
}

// DeleteProject removes a project and its membership rows.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
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

// AddPromptsToProject adds prompts to a project, skipping ones already
// present, and returns how many rows were actually inserted.
func (s *Store) AddPromptsToProject(ctx context.Context, projectID string, promptIDs []string) (int, error) {
	if len(promptIDs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := formatTime(time.Now())
	added := 0
	for _, promptID := range promptIDs {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO project_prompts (project_id, prompt_id, added_at)
			VALUES (?, ?, ?)
			ON CONFLICT (project_id, prompt_id) DO NOTHING`,
			projectID, promptID, now)
		if err != nil {
			if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
				return 0, store.NotFoundError("prompt")
			}
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

// RemovePromptFromProject removes a single membership row.
func (s *Store) RemovePromptFromProject(ctx context.Context, projectID, promptID string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM project_prompts WHERE project_id = ? AND prompt_id = ?`,
		projectID, promptID)
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

// ListProjectPrompts returns the project's membership rows with the
// full prompt attached, most recently added first.
func (s *Store) ListProjectPrompts(ctx context.Context, projectID string) ([]*domain.ProjectPrompt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT pp.project_id, pp.prompt_id, pp.added_at, `+promptColumns+`
		FROM project_prompts pp
		JOIN prompts p ON p.id = pp.prompt_id`+promptJoins+`
		WHERE pp.project_id = ?
		ORDER BY pp.added_at DESC, pp.prompt_id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*domain.ProjectPrompt
	for rows.Next() {
		m, err := scanProjectPrompt(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func scanProjectPrompt(rows *sql.Rows) (*domain.ProjectPrompt, error) {
	var (
		m       domain.ProjectPrompt
		p       domain.Prompt
		addedAt string

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

	err := rows.Scan(
		&m.ProjectID,
		&m.PromptID,
		&addedAt,
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

	m.AddedAt, err = parseTime(addedAt)
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
			return nil, err
		}
	}
	if catName.Valid {
		p.Category = &domain.Category{ID: p.CategoryID, Name: catName.String, Slug: catSlug.String}
	}
	if grpName.Valid {
		p.Group = &domain.SubcategoryGroup{ID: p.SubcategoryGroupID, Name: grpName.String, Slug: grpSlug.String, CategoryID: p.CategoryID}
	}

	m.Prompt = &p
	return &m, nil
}
