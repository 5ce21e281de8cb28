package domain

import "time"

// Favorite marks a prompt as favorited by the user.
// (UserID, PromptID) is unique.
type Favorite struct {
	UserID    string    `json:"user_id"`
	PromptID  string    `json:"prompt_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CopyPrefix is a snippet prepended to prompt content on copy actions
// when prefixes are enabled. Prefixes apply in sort order.
type CopyPrefix struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	IsActive  bool      `json:"is_active"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSettings holds per-user preferences.
type UserSettings struct {
	UserID          string    `json:"user_id"`
	PrefixesEnabled bool      `json:"prefixes_enabled"`
	UpdatedAt       time.Time `json:"updated_at"`
}
