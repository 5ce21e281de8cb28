package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

func TestFavorites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreatePrompt(ctx, makeTestPrompt("prm-1", "usr-1", "content")); err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}

	if err := s.AddFavorite(ctx, "usr-1", "prm-1"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	// Favoriting twice is a no-op.
	if err := s.AddFavorite(ctx, "usr-1", "prm-1"); err != nil {
		t.Fatalf("AddFavorite twice: %v", err)
	}

	fav, err := s.IsFavorite(ctx, "usr-1", "prm-1")
	if err != nil {
		t.Fatalf("IsFavorite: %v", err)
	}
	if !fav {
		t.Error("expected favorite")
	}

	ids, err := s.ListFavoriteIDs(ctx, "usr-1")
	if err != nil {
		t.Fatalf("ListFavoriteIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "prm-1" {
		t.Errorf("ids: got %v", ids)
	}

	// Favorites restrict prompt listings.
	list, err := s.ListPrompts(ctx, store.PromptFilter{UserID: "usr-1", FavoritesOf: "usr-1"})
	if err != nil {
		t.Fatalf("ListPrompts: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("favorites filter: got %d prompts", len(list))
	}

	if err := s.RemoveFavorite(ctx, "usr-1", "prm-1"); err != nil {
		t.Fatalf("RemoveFavorite: %v", err)
	}
	if err := s.RemoveFavorite(ctx, "usr-1", "prm-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFavoriteCascadesOnPromptDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreatePrompt(ctx, makeTestPrompt("prm-1", "usr-1", "content")); err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}
	if err := s.AddFavorite(ctx, "usr-1", "prm-1"); err != nil {
		t.Fatalf("AddFavorite: %v", err)
	}
	if err := s.DeletePrompt(ctx, "prm-1"); err != nil {
		t.Fatalf("DeletePrompt: %v", err)
	}

	ids, err := s.ListFavoriteIDs(ctx, "usr-1")
	if err != nil {
		t.Fatalf("ListFavoriteIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected favorites cascaded, got %v", ids)
	}
}

func TestCopyPrefixesCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := &domain.CopyPrefix{ID: "pfx-a", UserID: "usr-1", Text: "Be concise.", IsActive: true, SortOrder: 2, CreatedAt: time.Now()}
	b := &domain.CopyPrefix{ID: "pfx-b", UserID: "usr-1", Text: "Answer in English.", IsActive: false, SortOrder: 1, CreatedAt: time.Now()}
	for _, p := range []*domain.CopyPrefix{a, b} {
		if err := s.CreateCopyPrefix(ctx, p); err != nil {
			t.Fatalf("CreateCopyPrefix %s: %v", p.ID, err)
		}
	}

	list, err := s.ListCopyPrefixes(ctx, "usr-1")
	if err != nil {
		t.Fatalf("ListCopyPrefixes: %v", err)
	}
	if len(list) != 2 || list[0].ID != "pfx-b" {
		t.Errorf("wrong order: got %v", []string{list[0].ID, list[1].ID})
	}

	b.IsActive = true
	b.Text = "Respond in English."
	if err := s.UpdateCopyPrefix(ctx, b); err != nil {
		t.Fatalf("UpdateCopyPrefix: %v", err)
	}

	list, err = s.ListCopyPrefixes(ctx, "usr-1")
	if err != nil {
		t.Fatalf("ListCopyPrefixes: %v", err)
	}
	if !list[0].IsActive || list[0].Text != "Respond in English." {
		t.Errorf("update not applied: %+v", list[0])
	}

	if err := s.DeleteCopyPrefix(ctx, "pfx-a"); err != nil {
		t.Fatalf("DeleteCopyPrefix: %v", err)
	}
	if err := s.DeleteCopyPrefix(ctx, "pfx-a"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUserSettingsDefaultsAndUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// No row yet: defaults.
	settings, err := s.GetUserSettings(ctx, "usr-1")
	if err != nil {
		t.Fatalf("GetUserSettings: %v", err)
	}
	if settings.PrefixesEnabled {
		t.Error("expected prefixes disabled by default")
	}

	settings.PrefixesEnabled = true
	settings.UpdatedAt = time.Now()
	if err := s.SaveUserSettings(ctx, settings); err != nil {
		t.Fatalf("SaveUserSettings: %v", err)
	}

	got, err := s.GetUserSettings(ctx, "usr-1")
	if err != nil {
		t.Fatalf("GetUserSettings: %v", err)
	}
	if !got.PrefixesEnabled {
		t.Error("expected prefixes enabled after save")
	}

	// Saving again updates in place.
	got.PrefixesEnabled = false
	got.UpdatedAt = time.Now()
	if err := s.SaveUserSettings(ctx, got); err != nil {
		t.Fatalf("SaveUserSettings: %v", err)
	}
	got2, err := s.GetUserSettings(ctx, "usr-1")
	if err != nil {
		t.Fatalf("GetUserSettings: %v", err)
	}
	if got2.PrefixesEnabled {
		t.Error("expected prefixes disabled after second save")
	}
}
