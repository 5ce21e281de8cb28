package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

func makeTestProject(id, userID, name string) *domain.Project {
	now := time.Now()
	return &domain.Project{
		ID:        id,
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGetProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := makeTestProject("proj-1", "usr-1", "Blog pipeline")
	p.Description = "Prompts for drafting blog posts"
	if err := s.CreateProject(ctx, p); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	got, err := s.GetProject(ctx, "proj-1")
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if got.Name != "Blog pipeline" || got.Description != "Prompts for drafting blog posts" {
		t.Errorf("unexpected project: %+v", got)
	}
}

func TestAddPromptsToProjectIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateProject(ctx, makeTestProject("proj-1", "usr-1", "Research")); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	for _, id := range []string{"prm-a", "prm-b"} {
		if err := s.CreatePrompt(ctx, makeTestPrompt(id, "usr-1", "content "+id)); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}
	}

	n, err := s.AddPromptsToProject(ctx, "proj-1", []string{"prm-a", "prm-b"})
	if err != nil {
		t.Fatalf("AddPromptsToProject: %v", err)
	}
	if n != 2 {
		t.Errorf("added: got %d, want 2", n)
	}

	// Re-adding one existing plus nothing new inserts zero rows.
	n, err = s.AddPromptsToProject(ctx, "proj-1", []string{"prm-a"})
	if err != nil {
		t.Fatalf("AddPromptsToProject: %v", err)
	}
	if n != 0 {
		t.Errorf("re-add: got %d, want 0", n)
	}

	members, err := s.ListProjectPrompts(ctx, "proj-1")
	if err != nil {
		t.Fatalf("ListProjectPrompts: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].Prompt == nil || members[0].Prompt.Content == "" {
		t.Error("expected denormalized prompt on membership row")
	}
}

func TestRemovePromptFromProject(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateProject(ctx, makeTestProject("proj-1", "usr-1", "Research")); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := s.CreatePrompt(ctx, makeTestPrompt("prm-a", "usr-1", "content")); err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}
	if _, err := s.AddPromptsToProject(ctx, "proj-1", []string{"prm-a"}); err != nil {
		t.Fatalf("AddPromptsToProject: %v", err)
	}

	if err := s.RemovePromptFromProject(ctx, "proj-1", "prm-a"); err != nil {
		t.Fatalf("RemovePromptFromProject: %v", err)
	}
	if err := s.RemovePromptFromProject(ctx, "proj-1", "prm-a"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteProjectCascadesMembership(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateProject(ctx, makeTestProject("proj-1", "usr-1", "Research")); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := s.CreatePrompt(ctx, makeTestPrompt("prm-a", "usr-1", "content")); err != nil {
		t.Fatalf("CreatePrompt: %v", err)
	}
	if _, err := s.AddPromptsToProject(ctx, "proj-1", []string{"prm-a"}); err != nil {
		t.Fatalf("AddPromptsToProject: %v", err)
	}

	if err := s.DeleteProject(ctx, "proj-1"); err != nil {
		t.Fatalf("DeleteProject: %v", err)
	}

	// The prompt itself survives.
	if _, err := s.GetPrompt(ctx, "prm-a"); err != nil {
		t.Errorf("prompt should survive project deletion: %v", err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM project_prompts`).Scan(&n); err != nil {
		t.Fatalf("count memberships: %v", err)
	}
	if n != 0 {
		t.Errorf("expected membership rows cascaded, got %d", n)
	}
}

func TestListProjectsRecentlyUpdatedFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stale := makeTestProject("proj-stale", "usr-1", "Stale")
	stale.CreatedAt = time.Now().Add(-2 * time.Hour)
	stale.UpdatedAt = time.Now().Add(-time.Hour)
	if err := s.CreateProject(ctx, stale); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	if err := s.CreateProject(ctx, makeTestProject("proj-fresh", "usr-1", "Fresh")); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}

	list, err := s.ListProjects(ctx, "usr-1")
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(list) != 2 || list[0].ID != "proj-fresh" {
		t.Errorf("wrong order: got %v", []string{list[0].ID, list[1].ID})
	}

	// Touching the stale project moves it back to the front.
	stale.UpdatedAt = time.Now()
	if err := s.UpdateProject(ctx, stale); err != nil {
		t.Fatalf("UpdateProject: %v", err)
	}
	list, err = s.ListProjects(ctx, "usr-1")
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if list[0].ID != "proj-stale" {
		t.Errorf("expected updated project first, got %v", []string{list[0].ID, list[1].ID})
	}
}

func TestListProjectPromptsRecentlyAddedFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateProject(ctx, makeTestProject("proj-1", "usr-1", "Research")); err != nil {
		t.Fatalf("CreateProject: %v", err)
	}
	for _, id := range []string{"prm-a", "prm-b"} {
		if err := s.CreatePrompt(ctx, makeTestPrompt(id, "usr-1", "content "+id)); err != nil {
			t.Fatalf("CreatePrompt: %v", err)
		}
	}

	// Separate calls so the membership rows carry distinct timestamps.
	if _, err := s.AddPromptsToProject(ctx, "proj-1", []string{"prm-a"}); err != nil {
		t.Fatalf("AddPromptsToProject: %v", err)
	}
	if _, err := s.AddPromptsToProject(ctx, "proj-1", []string{"prm-b"}); err != nil {
		t.Fatalf("AddPromptsToProject: %v", err)
	}

	members, err := s.ListProjectPrompts(ctx, "proj-1")
	if err != nil {
		t.Fatalf("ListProjectPrompts: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if members[0].PromptID != "prm-b" || members[1].PromptID != "prm-a" {
		t.Errorf("wrong order: got %v", []string{members[0].PromptID, members[1].PromptID})
	}
}
