// Package importer implements the legacy CSV import pipeline: tokenize
// the file, reconcile subcategory groups against the target category,
// then upsert prompts one row at a time keyed by their content hash.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/id"
	"github.com/promptdeck/promptdeck-server/internal/store"
	"github.com/promptdeck/promptdeck-server/internal/util"
)

// progressInterval is how many rows pass between progress callbacks.
const progressInterval = 10

// Stage identifies where the pipeline currently is. Transitions run
// strictly forward; row failures never move the pipeline backwards or
// into a failed stage.
type Stage int

const (
	StageIdle Stage = iota
	StageParsing
	StageReconciling
	StageUpserting
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageParsing:
		return "parsing"
	case StageReconciling:
		return "reconciling"
	case StageUpserting:
		return "upserting"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Progress is the running import report. It is a best-effort summary:
// per-row failures are counted, never fatal, and nothing is rolled back.
type Progress struct {
	Current       int      `json:"current"`
	Total         int      `json:"total"`
	Inserted      int      `json:"inserted"`
	Updated       int      `json:"updated"`
	Errors        int      `json:"errors"`
	GroupsCreated []string `json:"groupsCreated"`
}

// ProgressFunc receives periodic snapshots of the running report.
// Observation only; the import does not depend on it.
type ProgressFunc func(Progress)

// Importer runs CSV imports against the store.
type Importer struct {
	store  store.Store
	logger *slog.Logger
}

func New(st store.Store, logger *slog.Logger) *Importer {
	return &Importer{store: st, logger: logger}
}

// Run imports the CSV stream into the given category for the given
// user. Only a failure to read the source aborts, returning the
// zero-progress report; everything after that is absorbed per row.
// Rows are processed strictly sequentially so counters are
// deterministic and group creation is visible before any row that
// references the group.
func (im *Importer) Run(ctx context.Context, r io.Reader, userID, categoryID string, onProgress ProgressFunc) (Progress, error) {
	progress := Progress{GroupsCreated: []string{}}

	data, err := io.ReadAll(r)
	if err != nil {
		return progress, fmt.Errorf("read import source: %w", err)
	}

	im.logger.Info("import started", "category_id", categoryID, "stage", StageParsing.String())

	// Our own exports carry a UTF-8 BOM for spreadsheet compatibility.
	text := strings.TrimPrefix(string(data), "\uFEFF")
	rows := ParseCSV(text)
	if len(rows) == 0 {
		im.logger.Info("import finished", "stage", StageDone.String(), "total", 0)
		return progress, nil
	}

	cols := ResolveColumns(rows[0])
	dataRows := rows[1:]
	progress.Total = len(dataRows)

	im.logger.Info("import reconciling taxonomy", "stage", StageReconciling.String(), "rows", len(dataRows))
	groupIDs := im.reconcileGroups(ctx, categoryID, dataRows, cols, &progress)

	im.logger.Info("import upserting", "stage", StageUpserting.String())

	for i, row := range dataRows {
		progress.Current = i + 1

		content := cell(row, cols.Text)
		if strings.TrimSpace(content) == "" {
			continue
		}

		path := ParseCategoryPath(cell(row, cols.Category))
		rating := parseRating(cell(row, cols.Rating))
		tags := ParseTags(cell(row, cols.Comments), cell(row, cols.Tags))
		legacyID := GenerateLegacyID(content)
		title := GenerateTitle(path.Subcategory, content)

		var groupID string
		if path.Group != "" {
			groupID = groupIDs[strings.ToLower(path.Group)]
		}

		if err := im.upsertRow(ctx, upsertRow{
			userID:      userID,
			categoryID:  categoryID,
			groupID:     groupID,
			title:       title,
			content:     content,
			subcategory: path.Subcategory,
			rating:      rating,
			tags:        tags,
			legacyID:    legacyID,
			createdAt:   parseCreatedAt(cell(row, cols.Created)),
		}, &progress); err != nil {
			progress.Errors++
			im.logger.Warn("import row failed", "row", i+1, "legacy_id", legacyID, "error", err)
		}

		if onProgress != nil && (i%progressInterval == 0 || i == len(dataRows)-1) {
			onProgress(progress)
		}
	}

	im.logger.Info("import finished",
		"stage", StageDone.String(),
		"inserted", progress.Inserted,
		"updated", progress.Updated,
		"errors", progress.Errors,
		"groups_created", len(progress.GroupsCreated),
	)
	return progress, nil
}

// reconcileGroups builds the case-insensitive group-name to group-id map
// for the category, creating groups the file references that don't exist
// yet. New groups get monotonically increasing sort orders after the
// current per-category maximum, in first-seen file order. A failed
// insert is skipped, not retried: rows referencing that group fall back
// to no group.
func (im *Importer) reconcileGroups(ctx context.Context, categoryID string, dataRows [][]string, cols Columns, progress *Progress) map[string]string {
	groupIDs := make(map[string]string)
	maxSortOrder := 0

	existing, err := im.store.ListGroupsByCategory(ctx, categoryID)
	if err != nil {
		im.logger.Warn("list groups failed, importing against empty taxonomy", "error", err)
	}
	for _, g := range existing {
		groupIDs[strings.ToLower(g.Name)] = g.ID
		if g.SortOrder > maxSortOrder {
			maxSortOrder = g.SortOrder
		}
	}

	// First pass: distinct group names the file needs, in file order.
	var pending []string
	seen := make(map[string]bool)
	for _, row := range dataRows {
		path := cell(row, cols.Category)
		if strings.TrimSpace(path) == "" {
			continue
		}
		group := ParseCategoryPath(path).Group
		if group == "" || seen[group] {
			continue
		}
		if _, ok := groupIDs[strings.ToLower(group)]; ok {
			continue
		}
		seen[group] = true
		pending = append(pending, group)
	}

	for _, name := range pending {
		maxSortOrder++
		g := &domain.SubcategoryGroup{
			ID:         id.MustGenerate(id.PrefixGroup),
			Name:       name,
			Slug:       util.Slugify(name),
			CategoryID: categoryID,
			SortOrder:  maxSortOrder,
			CreatedAt:  time.Now(),
		}
		if err := im.store.CreateGroup(ctx, g); err != nil {
			im.logger.Warn("create group failed, skipping", "group", name, "error", err)
			continue
		}
		groupIDs[strings.ToLower(name)] = g.ID
		progress.GroupsCreated = append(progress.GroupsCreated, name)
	}

	return groupIDs
}

type upsertRow struct {
	userID      string
	categoryID  string
	groupID     string
	title       string
	content     string
	subcategory string
	rating      float64
	tags        []string
	legacyID    string
	createdAt   time.Time
}

// upsertRow updates the prompt matching (legacy_id, user_id) in place,
// or inserts a fresh one. Updates keep the stored created_at; only
// inserts take the source row's timestamp.
func (im *Importer) upsertRow(ctx context.Context, row upsertRow, progress *Progress) error {
	existing, err := im.store.FindPromptByLegacyID(ctx, row.legacyID, row.userID)
	if err != nil && !store.IsNotFound(err) {
		return fmt.Errorf("lookup by legacy id: %w", err)
	}

	if existing != nil {
		existing.CategoryID = row.categoryID
		existing.SubcategoryGroupID = row.groupID
		existing.Title = row.title
		existing.Content = row.content
		existing.Subcategory = row.subcategory
		existing.Rating = domain.ClampRating(row.rating)
		existing.LegacyScore = row.rating
		existing.Tags = row.tags
		existing.Touch()
		if err := im.store.UpdatePrompt(ctx, existing); err != nil {
			return fmt.Errorf("update prompt: %w", err)
		}
		progress.Updated++
		return nil
	}

	now := time.Now()
	p := &domain.Prompt{
		ID:                 id.MustGenerate(id.PrefixPrompt),
		UserID:             row.userID,
		CategoryID:         row.categoryID,
		SubcategoryGroupID: row.groupID,
		Title:              row.title,
		Content:            row.content,
		Subcategory:        row.subcategory,
		Rating:             domain.ClampRating(row.rating),
		LegacyScore:        row.rating,
		Tags:               row.tags,
		LegacyID:           row.legacyID,
		CreatedAt:          row.createdAt,
		UpdatedAt:          now,
	}
	if err := im.store.CreatePrompt(ctx, p); err != nil {
		return fmt.Errorf("insert prompt: %w", err)
	}
	progress.Inserted++
	return nil
}

// createdAtLayouts are the timestamp shapes seen in legacy export files.
var createdAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseCreatedAt reads a creation-timestamp cell, falling back to the
// current time when the cell is empty or unreadable.
func parseCreatedAt(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Now()
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}
