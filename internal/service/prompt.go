package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/errors"
	"github.com/promptdeck/promptdeck-server/internal/id"
	"github.com/promptdeck/promptdeck-server/internal/importer"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

// PromptService manages prompts, the copy action and favorites.
type PromptService struct {
	store  store.Store
	logger *slog.Logger
}

func NewPromptService(st store.Store, logger *slog.Logger) *PromptService {
	return &PromptService{store: st, logger: logger}
}

// PromptInput carries the writable prompt fields.
type PromptInput struct {
	Title              string
	Content            string
	CategoryID         string
	SubcategoryGroupID string
	Subcategory        string
	Rating             *float64
	Tags               []string
}

// ListFilter narrows a prompt listing for one user.
type ListFilter struct {
	CategorySlug  string
	GroupID       string
	Subcategory   string
	Search        string
	FavoritesOnly bool
	Limit         int
	Offset        int
}

// List returns the user's prompts in meritocratic order: best rated
// first, then most used, then highest legacy score, then most recently
// used.
func (s *PromptService) List(ctx context.Context, userID string, f ListFilter) ([]*domain.Prompt, error) {
	filter := store.PromptFilter{
		UserID:       userID,
		CategorySlug: f.CategorySlug,
		GroupID:      f.GroupID,
		Subcategory:  f.Subcategory,
		Search:       f.Search,
		Limit:        f.Limit,
		Offset:       f.Offset,
	}
	if f.FavoritesOnly {
		filter.FavoritesOf = userID
	}
	return s.store.ListPrompts(ctx, filter)
}

// Count reports how many prompts match the filter, ignoring pagination.
func (s *PromptService) Count(ctx context.Context, userID string, f ListFilter) (int, error) {
	filter := store.PromptFilter{
		UserID:       userID,
		CategorySlug: f.CategorySlug,
		GroupID:      f.GroupID,
		Subcategory:  f.Subcategory,
		Search:       f.Search,
	}
	if f.FavoritesOnly {
		filter.FavoritesOf = userID
	}
	return s.store.CountPrompts(ctx, filter)
}

// Get returns one of the user's prompts.
func (s *PromptService) Get(ctx context.Context, userID, promptID string) (*domain.Prompt, error) {
	p, err := s.store.GetPrompt(ctx, promptID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, errors.NotFound("prompt not found")
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, errors.NotFound("prompt not found")
	}
	return p, nil
}

// Create adds a manually entered prompt. A missing title is derived
// from the content the same way imported titles are. Manual prompts
// carry no legacy id; only the import pipeline assigns those.
func (s *PromptService) Create(ctx context.Context, userID string, in PromptInput) (*domain.Prompt, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, errors.Validation("content is required")
	}

	title := in.Title
	if strings.TrimSpace(title) == "" {
		title = importer.GenerateTitle(in.Subcategory, in.Content)
	}

	var rating float64
	if in.Rating != nil {
		rating = domain.ClampRating(*in.Rating)
	}

	now := time.Now()
	p := &domain.Prompt{
		ID:                 id.MustGenerate(id.PrefixPrompt),
		UserID:             userID,
		CategoryID:         in.CategoryID,
		SubcategoryGroupID: in.SubcategoryGroupID,
		Title:              title,
		Content:            in.Content,
		Subcategory:        in.Subcategory,
		Rating:             rating,
		Tags:               capTags(in.Tags),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.store.CreatePrompt(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("prompt created", "prompt_id", p.ID)
	return s.store.GetPrompt(ctx, p.ID)
}

// Update modifies an existing prompt the user owns.
func (s *PromptService) Update(ctx context.Context, userID, promptID string, in PromptInput) (*domain.Prompt, error) {
	p, err := s.Get(ctx, userID, promptID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		p.Title = in.Title
	}
	if in.Content != "" {
		p.Content = in.Content
	}
	if in.CategoryID != "" {
		p.CategoryID = in.CategoryID
	}
	if in.SubcategoryGroupID != "" {
		p.SubcategoryGroupID = in.SubcategoryGroupID
	}
	if in.Subcategory != "" {
		p.Subcategory = in.Subcategory
	}
	if in.Rating != nil {
		p.Rating = domain.ClampRating(*in.Rating)
	}
	if in.Tags != nil {
		p.Tags = capTags(in.Tags)
	}
	p.Touch()

	if err := s.store.UpdatePrompt(ctx, p); err != nil {
		return nil, err
	}
	return s.store.GetPrompt(ctx, p.ID)
}

// Rate sets the display rating, clamped to [0, 5]. The legacy score is
// historical and never changes here.
func (s *PromptService) Rate(ctx context.Context, userID, promptID string, rating float64) (*domain.Prompt, error) {
	if _, err := s.Get(ctx, userID, promptID); err != nil {
		return nil, err
	}
	return s.store.SetPromptRating(ctx, promptID, domain.ClampRating(rating))
}

// CopyResult is what a copy action hands back to the client: the text
// to place on the clipboard (prefixes applied) and the refreshed prompt.
type CopyResult struct {
	Text   string
	Prompt *domain.Prompt
}

// Copy registers a use of the prompt: bumps its usage counter, stamps
// last_used_at, and returns the content with the user's active copy
// prefixes prepended (in sort order) when prefixes are enabled.
func (s *PromptService) Copy(ctx context.Context, userID, promptID string) (*CopyResult, error) {
	if _, err := s.Get(ctx, userID, promptID); err != nil {
		return nil, err
	}

	p, err := s.store.IncrementPromptUsage(ctx, promptID, time.Now())
	if err != nil {
		return nil, err
	}

	text := p.Content
	settings, err := s.store.GetUserSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings.PrefixesEnabled {
		prefixes, err := s.store.ListCopyPrefixes(ctx, userID)
		if err != nil {
			return nil, err
		}
		var parts []string
		for _, pfx := range prefixes {
			if pfx.IsActive {
				parts = append(parts, pfx.Text)
			}
		}
		if len(parts) > 0 {
			text = strings.Join(parts, "\n") + "\n\n" + text
		}
	}

	return &CopyResult{Text: text, Prompt: p}, nil
}

// Delete removes one prompt the user owns.
func (s *PromptService) Delete(ctx context.Context, userID, promptID string) error {
	if _, err := s.Get(ctx, userID, promptID); err != nil {
		return err
	}
	if err := s.store.DeletePrompt(ctx, promptID); err != nil {
		return err
	}
	s.logger.Info("prompt deleted", "prompt_id", promptID)
	return nil
}

// BulkDelete removes the given prompts, skipping IDs that don't exist
// or belong to someone else, and reports how many were deleted.
func (s *PromptService) BulkDelete(ctx context.Context, userID string, promptIDs []string) (int, error) {
	n, err := s.store.DeletePrompts(ctx, userID, promptIDs)
	if err != nil {
		return 0, err
	}
	s.logger.Info("prompts bulk deleted", "requested", len(promptIDs), "deleted", n)
	return n, nil
}

// Subcategories aggregates the free-text subcategory values on the
// user's prompts with usage counts, optionally narrowed to one group.
func (s *PromptService) Subcategories(ctx context.Context, userID, groupID string) ([]*domain.SubcategoryCount, error) {
	return s.store.ListSubcategories(ctx, userID, groupID)
}

// Favorite marks a prompt as a favorite. Repeats are no-ops.
func (s *PromptService) Favorite(ctx context.Context, userID, promptID string) error {
	if _, err := s.Get(ctx, userID, promptID); err != nil {
		return err
	}
	return s.store.AddFavorite(ctx, userID, promptID)
}

// Unfavorite clears a favorite mark.
func (s *PromptService) Unfavorite(ctx context.Context, userID, promptID string) error {
	if err := s.store.RemoveFavorite(ctx, userID, promptID); err != nil {
		if store.IsNotFound(err) {
			return errors.NotFound("favorite not found")
		}
		return err
	}
	return nil
}

// capTags trims, drops empties and caps a tag list the way imported
// tags are treated.
func capTags(tags []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
		if len(out) == domain.MaxTags {
			break
		}
	}
	return out
}
