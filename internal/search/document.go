// Package search provides full-text prompt search using Bleve, with
// relevance ranking, fuzzy matching and taxonomy filters. It complements
// the store's plain substring filter for the interactive search box.
package search

import (
	"github.com/promptdeck/promptdeck-server/internal/domain"
)

// Document is the indexed form of a prompt.
type Document struct {
	ID           string   `json:"id"`
	UserID       string   `json:"user_id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	Subcategory  string   `json:"subcategory,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	CategorySlug string   `json:"category_slug,omitempty"`
	GroupID      string   `json:"group_id,omitempty"`
	Rating       float64  `json:"rating"`
	UsageCount   int      `json:"usage_count"`
	CreatedAt    int64    `json:"created_at"` // Unix millis
	UpdatedAt    int64    `json:"updated_at"` // Unix millis
}

// FromPrompt builds the index document for a prompt.
func FromPrompt(p *domain.Prompt) *Document {
	doc := &Document{
		ID:          p.ID,
		UserID:      p.UserID,
		Title:       p.Title,
		Content:     p.Content,
		Subcategory: p.Subcategory,
		Tags:        p.Tags,
		GroupID:     p.SubcategoryGroupID,
		Rating:      p.Rating,
		UsageCount:  p.UsageCount,
		CreatedAt:   p.CreatedAt.UnixMilli(),
		UpdatedAt:   p.UpdatedAt.UnixMilli(),
	}
	if p.Category != nil {
		doc.CategorySlug = p.Category.Slug
	}
	return doc
}

// ToMap converts the document to a map with lowercase field names so
// they line up with the index mapping.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":          d.ID,
		"user_id":     d.UserID,
		"title":       d.Title,
		"content":     d.Content,
		"rating":      d.Rating,
		"usage_count": d.UsageCount,
		"created_at":  d.CreatedAt,
		"updated_at":  d.UpdatedAt,
	}
	if d.Subcategory != "" {
		m["subcategory"] = d.Subcategory
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.CategorySlug != "" {
		m["category_slug"] = d.CategorySlug
	}
	if d.GroupID != "" {
		m["group_id"] = d.GroupID
	}
	return m
}
