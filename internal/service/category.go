// Package service holds the business logic between the API layer and
// the store: ownership checks, slug and ID derivation, and translation
// of storage errors into domain errors.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/color"
	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/errors"
	"github.com/promptdeck/promptdeck-server/internal/id"
	"github.com/promptdeck/promptdeck-server/internal/store"
	"github.com/promptdeck/promptdeck-server/internal/util"
)

// CategoryService manages the taxonomy roots. Categories are operator
// managed; the import pipeline selects them but never creates them.
type CategoryService struct {
	store  store.Store
	logger *slog.Logger
}

func NewCategoryService(st store.Store, logger *slog.Logger) *CategoryService {
	return &CategoryService{store: st, logger: logger}
}

// CategoryInput carries the writable category fields.
type CategoryInput struct {
	Name      string
	Slug      string
	Icon      string
	Color     string
	SortOrder int
}

// Create adds a new category. The slug is derived from the name when
// not given.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	slug := in.Slug
	if slug == "" {
		slug = util.Slugify(in.Name)
	}
	if slug == "" {
		return nil, errors.Validation("category name produces an empty slug")
	}

	if in.Color == "" {
		in.Color = color.ForKey(slug)
	}

	c := &domain.Category{
		ID:        id.MustGenerate(id.PrefixCategory),
		Name:      in.Name,
		Slug:      slug,
		Icon:      in.Icon,
		Color:     in.Color,
		SortOrder: in.SortOrder,
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		if store.IsAlreadyExists(err) {
			return nil, errors.AlreadyExists("a category with this slug already exists")
		}
		return nil, err
	}

	s.logger.Info("category created", "category_id", c.ID, "slug", c.Slug)
	return c, nil
}

// List returns all categories in display order.
func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.store.ListCategories(ctx)
}

// Get returns a category by ID.
func (s *CategoryService) Get(ctx context.Context, categoryID string) (*domain.Category, error) {
	c, err := s.store.GetCategory(ctx, categoryID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, errors.NotFound("category not found")
		}
		return nil, err
	}
	return c, nil
}

// GetBySlug returns a category by its slug.
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c, err := s.store.GetCategoryBySlug(ctx, slug)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, errors.NotFound("category not found")
		}
		return nil, err
	}
	return c, nil
}

// Update modifies an existing category. Empty input fields keep their
// current values; the slug follows a renamed category unless given
// explicitly.
func (s *CategoryService) Update(ctx context.Context, categoryID string, in CategoryInput) (*domain.Category, error) {
	c, err := s.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" && in.Name != c.Name {
		c.Name = in.Name
		if in.Slug == "" {
			c.Slug = util.Slugify(in.Name)
		}
	}
	if in.Slug != "" {
		c.Slug = in.Slug
	}
	if in.Icon != "" {
		c.Icon = in.Icon
	}
	if in.Color != "" {
		c.Color = in.Color
	}
	if in.SortOrder != 0 {
		c.SortOrder = in.SortOrder
	}

	if err := s.store.UpdateCategory(ctx, c); err != nil {
		if store.IsAlreadyExists(err) {
			return nil, errors.AlreadyExists("a category with this slug already exists")
		}
		return nil, err
	}
	return c, nil
}

// Delete removes a category, cascading its groups. Prompts keep their
// rows and lose the taxonomy reference.
func (s *CategoryService) Delete(ctx context.Context, categoryID string) error {
	if err := s.store.DeleteCategory(ctx, categoryID); err != nil {
		if store.IsNotFound(err) {
			return errors.NotFound("category not found")
		}
		return err
	}
	s.logger.Info("category deleted", "category_id", categoryID)
	return nil
}
