// Package store defines the persistence interface for the prompt library
// and the storage-level error model shared by its implementations.
package store

import (
	"context"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
)

// PromptOrder selects the ordering of prompt listings.
type PromptOrder int

const (
	// OrderMeritocratic ranks by rating, then usage, then legacy score,
	// then recency of use.
	OrderMeritocratic PromptOrder = iota
	// OrderCreatedDesc ranks by creation time, newest first.
	OrderCreatedDesc
)

// PromptFilter narrows a prompt listing. Zero-value fields are ignored.
type PromptFilter struct {
	UserID       string
	CategorySlug string
	GroupID      string
	Subcategory  string
	Search       string
	FavoritesOf  string // user ID; restrict to that user's favorites
	ProjectID    string
	Order        PromptOrder
	Limit        int
	Offset       int
}

// Store is the persistence interface for all prompt library entities.
type Store interface {
	// Categories
	CreateCategory(ctx context.Context, c *domain.Category) error
	GetCategory(ctx context.Context, id string) (*domain.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id string) error

	// Subcategory groups
	CreateGroup(ctx context.Context, g *domain.SubcategoryGroup) error
	GetGroup(ctx context.Context, id string) (*domain.SubcategoryGroup, error)
	ListGroups(ctx context.Context) ([]*domain.SubcategoryGroup, error)
	ListGroupsByCategory(ctx context.Context, categoryID string) ([]*domain.SubcategoryGroup, error)
	UpdateGroup(ctx context.Context, g *domain.SubcategoryGroup) error
	DeleteGroup(ctx context.Context, id string) error
	MaxGroupSortOrder(ctx context.Context) (int, error)

	// Prompts
	CreatePrompt(ctx context.Context, p *domain.Prompt) error
	GetPrompt(ctx context.Context, id string) (*domain.Prompt, error)
	FindPromptByLegacyID(ctx context.Context, legacyID, userID string) (*domain.Prompt, error)
	ListPrompts(ctx context.Context, filter PromptFilter) ([]*domain.Prompt, error)
	CountPrompts(ctx context.Context, filter PromptFilter) (int, error)
	UpdatePrompt(ctx context.Context, p *domain.Prompt) error
	DeletePrompt(ctx context.Context, id string) error
	DeletePrompts(ctx context.Context, userID string, ids []string) (int, error)
	IncrementPromptUsage(ctx context.Context, id string, usedAt time.Time) (*domain.Prompt, error)
	SetPromptRating(ctx context.Context, id string, rating float64) (*domain.Prompt, error)
	ListSubcategories(ctx context.Context, userID, groupID string) ([]*domain.SubcategoryCount, error)

	// Projects
	CreateProject(ctx context.Context, p *domain.Project) error
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	ListProjects(ctx context.Context, userID string) ([]*domain.Project, error)
	UpdateProject(ctx context.Context, p *domain.Project) error
	DeleteProject(ctx context.Context, id string) error
	AddPromptsToProject(ctx context.Context, projectID string, promptIDs []string) (int, error)
	RemovePromptFromProject(ctx context.Context, projectID, promptID string) error
	ListProjectPrompts(ctx context.Context, projectID string) ([]*domain.ProjectPrompt, error)

	// Favorites
	AddFavorite(ctx context.Context, userID, promptID string) error
	RemoveFavorite(ctx context.Context, userID, promptID string) error
	IsFavorite(ctx context.Context, userID, promptID string) (bool, error)
	ListFavoriteIDs(ctx context.Context, userID string) ([]string, error)

	// Copy prefixes and settings
	CreateCopyPrefix(ctx context.Context, p *domain.CopyPrefix) error
	ListCopyPrefixes(ctx context.Context, userID string) ([]*domain.CopyPrefix, error)
	UpdateCopyPrefix(ctx context.Context, p *domain.CopyPrefix) error
	DeleteCopyPrefix(ctx context.Context, id string) error
	GetUserSettings(ctx context.Context, userID string) (*domain.UserSettings, error)
	SaveUserSettings(ctx context.Context, s *domain.UserSettings) error

	Close() error
}

// SearchIndexer receives prompt changes so a search index can stay in sync
// with the store without the store depending on the index implementation.
type SearchIndexer interface {
	IndexPrompt(p *domain.Prompt) error
	RemovePrompt(id string) error
}

// NoopSearchIndexer discards all index updates. Used until a real indexer
// is attached during startup.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexPrompt(*domain.Prompt) error { return nil }
func (NoopSearchIndexer) RemovePrompt(string) error        { return nil }
