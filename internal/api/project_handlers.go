package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/service"
)

func (s *Server) registerProjectRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listProjects",
		Method:      http.MethodGet,
		Path:        "/api/v1/projects",
		Summary:     "List projects",
		Description: "Returns the user's projects",
		Tags:        []string{"Projects"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListProjects)

	huma.Register(s.api, huma.Operation{
		OperationID: "createProject",
		Method:      http.MethodPost,
		Path:        "/api/v1/projects",
		Summary:     "Create project",
		Description: "Creates a project",
		Tags:        []string{"Projects"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProject",
		Method:      http.MethodGet,
		Path:        "/api/v1/projects/{id}",
		Summary:     "Get project",
		Description: "Returns a project by ID",
		Tags:        []string{"Projects"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProject",
		Method:      http.MethodPatch,
		Path:        "/api/v1/projects/{id}",
		Summary:     "Update project",
		Description: "Updates a project",
		Tags:        []string{"Projects"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteProject",
		Method:      http.MethodDelete,
		Path:        "/api/v1/projects/{id}",
		Summary:     "Delete project",
		Description: "Deletes a project; linked prompts survive",
		Tags:        []string{"Projects"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteProject)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProjectPrompts",
		Method:      http.MethodGet,
		Path:        "/api/v1/projects/{id}/prompts",
		Summary:     "Get project prompts",
		Description: "Returns the prompts linked to a project in meritocratic order",
		Tags:        []string{"Projects"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProjectPrompts)

	huma.Register(s.api, huma.Operation{
		OperationID: "addProjectPrompts",
		Method:      http.MethodPost,
		Path:        "/api/v1/projects/{id}/prompts",
		Summary:     "Add prompts to project",
		Description: "Links prompts to a project, skipping ones already linked",
		Tags:        []string{"Projects"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddProjectPrompts)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeProjectPrompt",
		Method:      http.MethodDelete,
		Path:        "/api/v1/projects/{id}/prompts/{promptID}",
		Summary:     "Remove prompt from project",
		Description: "Unlinks a prompt from a project without deleting it",
		Tags:        []string{"Projects"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveProjectPrompt)
}

// === DTOs ===

// ListProjectsInput contains parameters for listing projects.
type ListProjectsInput struct {
	Authorization string `header:"Authorization"`
}

// ProjectResponse contains project data in API responses.
type ProjectResponse struct {
	ID          string    `json:"id" doc:"Project ID"`
	Name        string    `json:"name" doc:"Project name"`
	Description string    `json:"description,omitempty" doc:"Project description"`
	CreatedAt   time.Time `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time `json:"updated_at" doc:"Last update time"`
}

// ListProjectsResponse contains a list of projects.
type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects" doc:"List of projects"`
}

// ListProjectsOutput wraps the list projects response for Huma.
type ListProjectsOutput struct {
	Body ListProjectsResponse
}

// CreateProjectRequest is the request body for creating a project.
type CreateProjectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100" doc:"Project name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Project description"`
}

// CreateProjectInput wraps the create project request for Huma.
type CreateProjectInput struct {
	Authorization string `header:"Authorization"`
	Body          CreateProjectRequest
}

// ProjectOutput wraps the project response for Huma.
type ProjectOutput struct {
	Body ProjectResponse
}

// GetProjectInput contains parameters for getting a project.
type GetProjectInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Project ID"`
}

// UpdateProjectRequest is the request body for updating a project.
type UpdateProjectRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=1,max=100" doc:"Project name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=500" doc:"Project description"`
}

// UpdateProjectInput wraps the update project request for Huma.
type UpdateProjectInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Project ID"`
	Body          UpdateProjectRequest
}

// DeleteProjectInput contains parameters for deleting a project.
type DeleteProjectInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Project ID"`
}

// ProjectPromptsInput contains parameters for listing a project's prompts.
type ProjectPromptsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Project ID"`
}

// AddProjectPromptsRequest is the request body for linking prompts.
type AddProjectPromptsRequest struct {
	PromptIDs []string `json:"prompt_ids" validate:"required,min=1,max=500" doc:"Prompt IDs to link"`
}

// AddProjectPromptsInput wraps the link request for Huma.
type AddProjectPromptsInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Project ID"`
	Body          AddProjectPromptsRequest
}

// AddProjectPromptsResponse reports how many prompts were linked.
type AddProjectPromptsResponse struct {
	Added int `json:"added" doc:"Number of newly linked prompts"`
}

// AddProjectPromptsOutput wraps the link response for Huma.
type AddProjectPromptsOutput struct {
	Body AddProjectPromptsResponse
}

// RemoveProjectPromptInput contains parameters for unlinking a prompt.
type RemoveProjectPromptInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Project ID"`
	PromptID      string `path:"promptID" doc:"Prompt ID"`
}

func projectResponse(p *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// === Handlers ===

func (s *Server) handleListProjects(ctx context.Context, _ *ListProjectsInput) (*ListProjectsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	projects, err := s.services.Project.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]ProjectResponse, len(projects))
	for i, p := range projects {
		resp[i] = projectResponse(p)
	}

	return &ListProjectsOutput{Body: ListProjectsResponse{Projects: resp}}, nil
}

func (s *Server) handleCreateProject(ctx context.Context, input *CreateProjectInput) (*ProjectOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Project.Create(ctx, userID, service.ProjectInput{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &ProjectOutput{Body: projectResponse(p)}, nil
}

func (s *Server) handleGetProject(ctx context.Context, input *GetProjectInput) (*ProjectOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Project.Get(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	return &ProjectOutput{Body: projectResponse(p)}, nil
}

func (s *Server) handleUpdateProject(ctx context.Context, input *UpdateProjectInput) (*ProjectOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	p, err := s.services.Project.Update(ctx, userID, input.ID, service.ProjectInput{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &ProjectOutput{Body: projectResponse(p)}, nil
}

func (s *Server) handleDeleteProject(ctx context.Context, input *DeleteProjectInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Project.Delete(ctx, userID, input.ID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Project deleted"}}, nil
}

func (s *Server) handleGetProjectPrompts(ctx context.Context, input *ProjectPromptsInput) (*ListPromptsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	prompts, err := s.services.Project.Prompts(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]PromptResponse, len(prompts))
	for i, p := range prompts {
		resp[i] = promptResponse(p)
	}

	return &ListPromptsOutput{Body: ListPromptsResponse{Prompts: resp, Total: len(resp)}}, nil
}

func (s *Server) handleAddProjectPrompts(ctx context.Context, input *AddProjectPromptsInput) (*AddProjectPromptsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(&input.Body); err != nil {
		return nil, err
	}

	n, err := s.services.Project.AddPrompts(ctx, userID, input.ID, input.Body.PromptIDs)
	if err != nil {
		return nil, err
	}

	return &AddProjectPromptsOutput{Body: AddProjectPromptsResponse{Added: n}}, nil
}

func (s *Server) handleRemoveProjectPrompt(ctx context.Context, input *RemoveProjectPromptInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Project.RemovePrompt(ctx, userID, input.ID, input.PromptID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Prompt removed from project"}}, nil
}
