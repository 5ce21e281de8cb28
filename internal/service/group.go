package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/errors"
	"github.com/promptdeck/promptdeck-server/internal/id"
	"github.com/promptdeck/promptdeck-server/internal/store"
	"github.com/promptdeck/promptdeck-server/internal/util"
)

// GroupService manages subcategory groups under categories.
type GroupService struct {
	store  store.Store
	logger *slog.Logger
}

func NewGroupService(st store.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: st, logger: logger}
}

// GroupInput carries the writable group fields.
type GroupInput struct {
	Name       string
	Slug       string
	CategoryID string
	SortOrder  int
}

// Create adds a new group under a category. When no sort order is
// given, the group is appended after the current maximum, matching how
// the import pipeline orders auto-created groups.
func (s *GroupService) Create(ctx context.Context, in GroupInput) (*domain.SubcategoryGroup, error) {
	if _, err := s.store.GetCategory(ctx, in.CategoryID); err != nil {
		if store.IsNotFound(err) {
			return nil, errors.NotFound("category not found")
		}
		return nil, err
	}

	slug := in.Slug
	if slug == "" {
		slug = util.Slugify(in.Name)
	}
	if slug == "" {
		return nil, errors.Validation("group name produces an empty slug")
	}

	sortOrder := in.SortOrder
	if sortOrder == 0 {
		max, err := s.store.MaxGroupSortOrder(ctx)
		if err != nil {
			return nil, err
		}
		sortOrder = max + 1
	}

	g := &domain.SubcategoryGroup{
		ID:         id.MustGenerate(id.PrefixGroup),
		Name:       in.Name,
		Slug:       slug,
		CategoryID: in.CategoryID,
		SortOrder:  sortOrder,
		CreatedAt:  time.Now(),
	}
	if err := s.store.CreateGroup(ctx, g); err != nil {
		if store.IsAlreadyExists(err) {
			return nil, errors.AlreadyExists("group already exists")
		}
		return nil, err
	}

	s.logger.Info("group created", "group_id", g.ID, "category_id", g.CategoryID)
	return g, nil
}

// List returns all groups, or the groups of one category when
// categoryID is set.
func (s *GroupService) List(ctx context.Context, categoryID string) ([]*domain.SubcategoryGroup, error) {
	if categoryID != "" {
		return s.store.ListGroupsByCategory(ctx, categoryID)
	}
	return s.store.ListGroups(ctx)
}

// Get returns a group by ID.
func (s *GroupService) Get(ctx context.Context, groupID string) (*domain.SubcategoryGroup, error) {
	g, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, errors.NotFound("group not found")
		}
		return nil, err
	}
	return g, nil
}

// Update modifies an existing group.
func (s *GroupService) Update(ctx context.Context, groupID string, in GroupInput) (*domain.SubcategoryGroup, error) {
	g, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" && in.Name != g.Name {
		g.Name = in.Name
		if in.Slug == "" {
			g.Slug = util.Slugify(in.Name)
		}
	}
	if in.Slug != "" {
		g.Slug = in.Slug
	}
	if in.CategoryID != "" && in.CategoryID != g.CategoryID {
		if _, err := s.store.GetCategory(ctx, in.CategoryID); err != nil {
			if store.IsNotFound(err) {
				return nil, errors.NotFound("category not found")
			}
			return nil, err
		}
		g.CategoryID = in.CategoryID
	}
	if in.SortOrder != 0 {
		g.SortOrder = in.SortOrder
	}

	if err := s.store.UpdateGroup(ctx, g); err != nil {
		if store.IsNotFound(err) {
			return nil, errors.NotFound("group not found")
		}
		return nil, err
	}
	return g, nil
}

// Delete removes a group. Prompts referencing it keep their rows with
// the reference cleared.
func (s *GroupService) Delete(ctx context.Context, groupID string) error {
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		if store.IsNotFound(err) {
			return errors.NotFound("group not found")
		}
		return err
	}
	s.logger.Info("group deleted", "group_id", groupID)
	return nil
}
