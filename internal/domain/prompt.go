package domain

import "time"

// MaxTags caps the number of tags stored on a prompt.
const MaxTags = 10

// Prompt is a reusable text prompt owned by a single user.
//
// Rating is the display rating, clamped to [0, 5]. LegacyScore preserves
// the raw imported rating on its original scale for historical reference.
// UsageCount is a monotonic counter bumped on every copy action, together
// with LastUsedAt.
//
// LegacyID is a content-derived identity key ("legacy_" + abs(hash(content)))
// used to detect "the same prompt" across repeated imports. The hash is
// deliberately weak; collisions are possible and unhandled.
type Prompt struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	CategoryID         string     `json:"category_id,omitempty"`
	SubcategoryGroupID string     `json:"subcategory_group_id,omitempty"`
	Title              string     `json:"title"`
	Content            string     `json:"content"`
	Subcategory        string     `json:"subcategory,omitempty"`
	Rating             float64    `json:"rating"`
	UsageCount         int        `json:"usage_count"`
	LegacyScore        float64    `json:"legacy_score"`
	Tags               []string   `json:"tags"`
	LegacyID           string     `json:"legacy_id,omitempty"`
	LastUsedAt         *time.Time `json:"last_used_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	// Denormalized joins, populated on list/get queries.
	Category *Category         `json:"category,omitempty"`
	Group    *SubcategoryGroup `json:"group,omitempty"`
}

// Touch updates the UpdatedAt timestamp.
func (p *Prompt) Touch() {
	p.UpdatedAt = time.Now()
}

// MarkUsed records a copy action: bumps the usage counter and stamps
// the last-used time.
func (p *Prompt) MarkUsed(now time.Time) {
	p.UsageCount++
	p.LastUsedAt = &now
	p.UpdatedAt = now
}

// ClampRating clamps a raw rating to the stored [0, 5] display range.
func ClampRating(raw float64) float64 {
	if raw < 0 {
		return 0
	}
	if raw > 5 {
		return 5
	}
	return raw
}
