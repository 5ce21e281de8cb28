// Package export produces full-library prompt dumps as CSV or JSON.
// Exports are read-only and independent of the import pipeline.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/store"
)

// utf8BOM prefixes CSV exports so spreadsheet tools detect the encoding.
const utf8BOM = "\uFEFF"

// csvHeaders is the fixed CSV column layout.
var csvHeaders = []string{
	"ID", "Title", "Content", "Category", "Group", "Subcategory",
	"Rating", "Usage", "Tags", "Created At", "Updated At",
}

// Envelope is the JSON export document.
type Envelope struct {
	ExportedAt   time.Time      `json:"exportedAt"`
	TotalPrompts int            `json:"totalPrompts"`
	Prompts      []PromptRecord `json:"prompts"`
}

// PromptRecord is one denormalized prompt in a JSON export, with the
// category and group names inlined.
type PromptRecord struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Category     *string   `json:"category"`
	CategorySlug *string   `json:"categorySlug"`
	Group        *string   `json:"group"`
	GroupSlug    *string   `json:"groupSlug"`
	Subcategory  *string   `json:"subcategory"`
	Rating       float64   `json:"rating"`
	UsageCount   int       `json:"usageCount"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Exporter produces prompt dumps from the store.
type Exporter struct {
	store  store.Store
	logger *slog.Logger
}

func New(st store.Store, logger *slog.Logger) *Exporter {
	return &Exporter{store: st, logger: logger}
}

// FileName returns the conventional export file name for the extension,
// e.g. "prompts_export_2026-08-30.csv".
func FileName(ext string) string {
	return fmt.Sprintf("prompts_export_%s.%s", time.Now().Format("2006-01-02"), ext)
}

func (e *Exporter) fetch(ctx context.Context, userID string) ([]*domain.Prompt, error) {
	prompts, err := e.store.ListPrompts(ctx, store.PromptFilter{
		UserID: userID,
		Order:  store.OrderCreatedDesc,
	})
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	return prompts, nil
}

// CSV dumps all of the user's prompts as CSV, newest first, with a
// UTF-8 BOM and quoted text fields.
func (e *Exporter) CSV(ctx context.Context, userID string) ([]byte, error) {
	prompts, err := e.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(utf8BOM)
	sb.WriteString(strings.Join(csvHeaders, ","))

	for _, p := range prompts {
		var categoryName, groupName string
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		if p.Group != nil {
			groupName = p.Group.Name
		}

		fields := []string{
			p.ID,
			quote(p.Title),
			quote(p.Content),
			quote(categoryName),
			quote(groupName),
			quote(p.Subcategory),
			strconv.FormatFloat(p.Rating, 'f', -1, 64),
			strconv.Itoa(p.UsageCount),
			quote(strings.Join(p.Tags, ", ")),
			p.CreatedAt.UTC().Format(time.RFC3339Nano),
			p.UpdatedAt.UTC().Format(time.RFC3339Nano),
		}
		sb.WriteString("\n")
		sb.WriteString(strings.Join(fields, ","))
	}

	e.logger.Info("exported prompts", "format", "csv", "count", len(prompts))
	return []byte(sb.String()), nil
}

// quote wraps a CSV field in double quotes, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// JSON dumps all of the user's prompts as an indented JSON envelope,
// newest first.
func (e *Exporter) JSON(ctx context.Context, userID string) ([]byte, error) {
	prompts, err := e.fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	env := Envelope{
		ExportedAt:   time.Now().UTC(),
		TotalPrompts: len(prompts),
		Prompts:      make([]PromptRecord, 0, len(prompts)),
	}
	for _, p := range prompts {
		rec := PromptRecord{
			ID:          p.ID,
			Title:       p.Title,
			Content:     p.Content,
			Subcategory: nullable(p.Subcategory),
			Rating:      p.Rating,
			UsageCount:  p.UsageCount,
			Tags:        p.Tags,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
		if p.Category != nil {
			rec.Category = nullable(p.Category.Name)
			rec.CategorySlug = nullable(p.Category.Slug)
		}
		if p.Group != nil {
			rec.Group = nullable(p.Group.Name)
			rec.GroupSlug = nullable(p.Group.Slug)
		}
		env.Prompts = append(env.Prompts, rec)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}

	e.logger.Info("exported prompts", "format", "json", "count", len(prompts))
	return data, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
