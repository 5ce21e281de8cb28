package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/errors"
	"github.com/promptdeck/promptdeck-server/internal/id"
	"github.com/promptdeck/promptdeck-server/internal/store"
	"github.com/promptdeck/promptdeck-server/internal/store/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "user-1"

// setupServiceTest creates a store backed by a temp database for
// service tests.
func setupServiceTest(t *testing.T) store.Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func createTestPrompt(t *testing.T, s store.Store, content string, rating float64) *domain.Prompt {
	t.Helper()

	now := time.Now()
	p := &domain.Prompt{
		ID:        id.MustGenerate(id.PrefixPrompt),
		UserID:    testUserID,
		Title:     "Test prompt",
		Content:   content,
		Rating:    rating,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.CreatePrompt(context.Background(), p))
	return p
}

func TestPromptCreateDerivesTitle(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewPromptService(s, testLogger())
	ctx := context.Background()

	p, err := svc.Create(ctx, testUserID, PromptInput{
		Content:     "Write a melancholic verse about rain on empty streets",
		Subcategory: "Verses",
	})
	require.NoError(t, err)

	assert.Equal(t, "Verses: Write a melancholic verse about rain on...", p.Title)
	assert.Empty(t, p.LegacyID)
	assert.Equal(t, 0, p.UsageCount)
}

func TestPromptCreateRequiresContent(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewPromptService(s, testLogger())

	_, err := svc.Create(context.Background(), testUserID, PromptInput{Content: "   "})
	require.Error(t, err)

	var domainErr *errors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, errors.CodeValidation, domainErr.Code)
}

func TestPromptGetScopedToUser(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewPromptService(s, testLogger())
	ctx := context.Background()

	p := createTestPrompt(t, s, "mine", 3)

	got, err := svc.Get(ctx, testUserID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.Get(ctx, "user-2", p.ID)
	var domainErr *errors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, errors.CodeNotFound, domainErr.Code)
}

func TestPromptRateClampsRange(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewPromptService(s, testLogger())
	ctx := context.Background()

	p := createTestPrompt(t, s, "rate me", 0)

	got, err := svc.Rate(ctx, testUserID, p.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 5.0, got.Rating)

	got, err = svc.Rate(ctx, testUserID, p.ID, -1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.Rating)
}

func TestPromptCopyBumpsUsage(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewPromptService(s, testLogger())
	ctx := context.Background()

	p := createTestPrompt(t, s, "copy me", 4)

	res, err := svc.Copy(ctx, testUserID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "copy me", res.Text)
	assert.Equal(t, 1, res.Prompt.UsageCount)
	require.NotNil(t, res.Prompt.LastUsedAt)

	res, err = svc.Copy(ctx, testUserID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Prompt.UsageCount)
}

func TestPromptCopyAppliesActivePrefixes(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewPromptService(s, testLogger())
	ctx := context.Background()

	p := createTestPrompt(t, s, "the prompt body", 4)

	require.NoError(t, s.SaveUserSettings(ctx, &domain.UserSettings{
		UserID:          testUserID,
		PrefixesEnabled: true,
		UpdatedAt:       time.Now(),
	}))
	require.NoError(t, s.CreateCopyPrefix(ctx, &domain.CopyPrefix{
		ID: "pfx-b", UserID: testUserID, Text: "Answer in Portuguese.",
		IsActive: true, SortOrder: 2, CreatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateCopyPrefix(ctx, &domain.CopyPrefix{
		ID: "pfx-a", UserID: testUserID, Text: "Be concise.",
		IsActive: true, SortOrder: 1, CreatedAt: time.Now(),
	}))
	require.NoError(t, s.CreateCopyPrefix(ctx, &domain.CopyPrefix{
		ID: "pfx-off", UserID: testUserID, Text: "Never seen.",
		IsActive: false, SortOrder: 0, CreatedAt: time.Now(),
	}))

	res, err := svc.Copy(ctx, testUserID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Be concise.\nAnswer in Portuguese.\n\nthe prompt body", res.Text)
}

func TestPromptCopyPrefixesDisabled(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewPromptService(s, testLogger())
	ctx := context.Background()

	p := createTestPrompt(t, s, "plain body", 4)

	require.NoError(t, s.CreateCopyPrefix(ctx, &domain.CopyPrefix{
		ID: "pfx-1", UserID: testUserID, Text: "Ignored while disabled.",
		IsActive: true, CreatedAt: time.Now(),
	}))

	res, err := svc.Copy(ctx, testUserID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "plain body", res.Text)
}

func TestPromptBulkDeleteSkipsForeign(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewPromptService(s, testLogger())
	ctx := context.Background()

	mine := createTestPrompt(t, s, "mine", 1)

	theirs := &domain.Prompt{
		ID: "prm-theirs", UserID: "user-2", Title: "t", Content: "c",
		Tags: []string{}, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	require.NoError(t, s.CreatePrompt(ctx, theirs))

	n, err := svc.BulkDelete(ctx, testUserID, []string{mine.ID, theirs.ID, "prm-missing"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.GetPrompt(ctx, theirs.ID)
	assert.NoError(t, err)
}

func TestPromptFavoriteLifecycle(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewPromptService(s, testLogger())
	ctx := context.Background()

	p := createTestPrompt(t, s, "favorite me", 2)

	require.NoError(t, svc.Favorite(ctx, testUserID, p.ID))
	// Favoriting twice is a no-op.
	require.NoError(t, svc.Favorite(ctx, testUserID, p.ID))

	favs, err := svc.List(ctx, testUserID, ListFilter{FavoritesOnly: true})
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, p.ID, favs[0].ID)

	require.NoError(t, svc.Unfavorite(ctx, testUserID, p.ID))

	favs, err = svc.List(ctx, testUserID, ListFilter{FavoritesOnly: true})
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestPromptUpdateTagCap(t *testing.T) {
	s := setupServiceTest(t)
	svc := NewPromptService(s, testLogger())
	ctx := context.Background()

	p := createTestPrompt(t, s, "tagged", 0)

	tags := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	got, err := svc.Update(ctx, testUserID, p.ID, PromptInput{Tags: tags})
	require.NoError(t, err)
	assert.Len(t, got.Tags, domain.MaxTags)
	assert.Equal(t, "j", got.Tags[len(got.Tags)-1])
}
