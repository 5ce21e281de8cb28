package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

func makeTestCategory(id, name, slug string) *domain.Category {
	return &domain.Category{
		ID:        id,
		Name:      name,
		Slug:      slug,
		CreatedAt: time.Now(),
	}
}

func TestCreateAndGetCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := makeTestCategory("cat-1", "Writing", "writing")
	c.Icon = "pen"
	c.Color = "#3366FF"
	c.SortOrder = 2

	if err := s.CreateCategory(ctx, c); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	got, err := s.GetCategory(ctx, "cat-1")
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if got.Name != "Writing" {
		t.Errorf("Name: got %q, want %q", got.Name, "Writing")
	}
	if got.Slug != "writing" {
		t.Errorf("Slug: got %q, want %q", got.Slug, "writing")
	}
	if got.Icon != "pen" || got.Color != "#3366FF" {
		t.Errorf("Icon/Color: got %q/%q", got.Icon, got.Color)
	}
	if got.SortOrder != 2 {
		t.Errorf("SortOrder: got %d, want 2", got.SortOrder)
	}
}

func TestGetCategoryBySlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateCategory(ctx, makeTestCategory("cat-1", "Coding", "coding")); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	got, err := s.GetCategoryBySlug(ctx, "coding")
	if err != nil {
		t.Fatalf("GetCategoryBySlug: %v", err)
	}
	if got.ID != "cat-1" {
		t.Errorf("ID: got %q, want cat-1", got.ID)
	}

	if _, err := s.GetCategoryBySlug(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateCategoryDuplicateSlug(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateCategory(ctx, makeTestCategory("cat-1", "Writing", "writing")); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	err := s.CreateCategory(ctx, makeTestCategory("cat-2", "Writing Again", "writing"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestListCategoriesOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestCategory("cat-a", "Alpha", "alpha")
	a.SortOrder = 2
	b := makeTestCategory("cat-b", "Beta", "beta")
	b.SortOrder = 1
	for _, c := range []*domain.Category{a, b} {
		if err := s.CreateCategory(ctx, c); err != nil {
			t.Fatalf("CreateCategory: %v", err)
		}
	}

	list, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(list))
	}
	if list[0].ID != "cat-b" || list[1].ID != "cat-a" {
		t.Errorf("wrong order: got %s, %s", list[0].ID, list[1].ID)
	}
}

func TestUpdateCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	c := makeTestCategory("cat-1", "Writing", "writing")
	if err := s.CreateCategory(ctx, c); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}

	c.Name = "Creative Writing"
	c.Slug = "creative-writing"
	if err := s.UpdateCategory(ctx, c); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}

	got, err := s.GetCategory(ctx, "cat-1")
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if got.Name != "Creative Writing" || got.Slug != "creative-writing" {
		t.Errorf("update not applied: got %q/%q", got.Name, got.Slug)
	}

	missing := makeTestCategory("cat-x", "X", "x")
	if err := s.UpdateCategory(ctx, missing); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteCategoryCascadesGroups(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateCategory(ctx, makeTestCategory("cat-1", "Writing", "writing")); err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	g := &domain.SubcategoryGroup{
		ID:         "grp-1",
		Name:       "Fiction",
		Slug:       "fiction",
		CategoryID: "cat-1",
		CreatedAt:  time.Now(),
	}
	if err := s.CreateGroup(ctx, g); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}

	if err := s.DeleteCategory(ctx, "cat-1"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, err := s.GetGroup(ctx, "grp-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected group cascade delete, got %v", err)
	}
}
