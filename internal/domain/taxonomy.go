// Package domain contains the core entity types for the PromptDeck server.
package domain

import "time"

// Category is the stable root of the prompt taxonomy.
// Categories are managed by the operator and are never auto-created
// by the import pipeline; imports select a category, they don't derive one.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Icon      string    `json:"icon,omitempty"`
	Color     string    `json:"color,omitempty"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// SubcategoryGroup is the second taxonomy level under a category.
// Groups may be auto-created by the import pipeline when a parsed group
// name has no existing case-insensitive match within the category.
// Name uniqueness within a category is assumed but not enforced: imports
// collapse by case-insensitive match, but differing whitespace does not
// collapse beyond a simple trim.
type SubcategoryGroup struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CategoryID string    `json:"category_id"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubcategoryCount is a query-time aggregation of the free-text
// subcategory field on prompts. Subcategories are not stored entities;
// nothing enforces consistent spelling across prompts.
type SubcategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
