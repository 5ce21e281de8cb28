package domain

import "time"

// Project is a named collection of prompts curated by the user.
type Project struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Touch updates the UpdatedAt timestamp.
func (p *Project) Touch() {
	p.UpdatedAt = time.Now()
}

// ProjectPrompt is the many-to-many junction between projects and prompts.
// (ProjectID, PromptID) is unique; adding the same prompt twice is a no-op
// at the store level.
type ProjectPrompt struct {
	ProjectID string    `json:"project_id"`
	PromptID  string    `json:"prompt_id"`
	AddedAt   time.Time `json:"added_at"`

	// Denormalized prompt, populated on project listing queries.
	Prompt *Prompt `json:"prompt,omitempty"`
}
