package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/errors"
	"github.com/promptdeck/promptdeck-server/internal/id"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

// ProjectService manages projects and their prompt membership.
type ProjectService struct {
	store  store.Store
	logger *slog.Logger
}

func NewProjectService(st store.Store, logger *slog.Logger) *ProjectService {
	return &ProjectService{store: st, logger: logger}
}

// ProjectInput carries the writable project fields.
type ProjectInput struct {
	Name        string
	Description string
}

func (s *ProjectService) Create(ctx context.Context, userID string, in ProjectInput) (*domain.Project, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, errors.Validation("project name is required")
	}

	now := time.Now()
	p := &domain.Project{
		ID:          id.MustGenerate(id.PrefixProject),
		UserID:      userID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateProject(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("project created", "project_id", p.ID, "name", p.Name)
	return p, nil
}

func (s *ProjectService) List(ctx context.Context, userID string) ([]*domain.Project, error) {
	return s.store.ListProjects(ctx, userID)
}

func (s *ProjectService) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, errors.NotFound("project not found")
		}
		return nil, err
	}
	if p.UserID != userID {
		return nil, errors.NotFound("project not found")
	}
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, userID, projectID string, in ProjectInput) (*domain.Project, error) {
	p, err := s.Get(ctx, userID, projectID)
	if err != nil {
		return nil, err
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	p.Description = in.Description
	p.Touch()

	if err := s.store.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a project. Prompts linked to it survive; only the
// membership rows go away.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID string) error {
	if _, err := s.Get(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		return err
	}
	s.logger.Info("project deleted", "project_id", projectID)
	return nil
}

// AddPrompts links prompts to a project. Already-linked prompts are
// skipped; the count of newly linked prompts is returned.
func (s *ProjectService) AddPrompts(ctx context.Context, userID, projectID string, promptIDs []string) (int, error) {
	if _, err := s.Get(ctx, userID, projectID); err != nil {
		return 0, err
	}
	n, err := s.store.AddPromptsToProject(ctx, projectID, promptIDs)
	if err != nil {
		if store.IsNotFound(err) {
			return 0, errors.NotFound("prompt not found")
		}
		return 0, err
	}
	s.logger.Info("prompts added to project", "project_id", projectID, "requested", len(promptIDs), "added", n)
	return n, nil
}

// RemovePrompt unlinks one prompt from a project.
func (s *ProjectService) RemovePrompt(ctx context.Context, userID, projectID, promptID string) error {
	if _, err := s.Get(ctx, userID, projectID); err != nil {
		return err
	}
	if err := s.store.RemovePromptFromProject(ctx, projectID, promptID); err != nil {
		if store.IsNotFound(err) {
			return errors.NotFound("prompt is not in this project")
		}
		return err
	}
	return nil
}

// Prompts lists the prompts linked to a project, most recently added first.
func (s *ProjectService) Prompts(ctx context.Context, userID, projectID string) ([]*domain.Prompt, error) {
	if _, err := s.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}

	links, err := s.store.ListProjectPrompts(ctx, projectID)
	if err != nil {
		return nil, err
	}

	prompts := make([]*domain.Prompt, 0, len(links))
	for _, link := range links {
		if link.Prompt != nil {
			prompts = append(prompts, link.Prompt)
		}
	}
	return prompts, nil
}
