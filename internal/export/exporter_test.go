package export

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/store/sqlite"
)

func newTestExporter(t *testing.T) (*Exporter, *sqlite.Store) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return New(st, logger), st
}

func seedPrompts(t *testing.T, st *sqlite.Store) {
	t.Helper()
	ctx := context.Background()

	if err := st.CreateCategory(ctx, &domain.Category{
		ID: "cat-1", Name: "Música", Slug: "musica", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("create category: %v", err)
	}
	if err := st.CreateGroup(ctx, &domain.SubcategoryGroup{
		ID: "grp-1", Name: "Selecionados", Slug: "selecionados", CategoryID: "cat-1", CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("create group: %v", err)
	}

	old := &domain.Prompt{
		ID: "prm-old", UserID: "usr-1", CategoryID: "cat-1", SubcategoryGroupID: "grp-1",
		Title: "Older", Content: "older content", Subcategory: "Reggae",
		Rating: 4.5, UsageCount: 3, Tags: []string{"a", "b"},
		CreatedAt: time.Now().Add(-time.Hour), UpdatedAt: time.Now(),
	}
	recent := &domain.Prompt{
		ID: "prm-new", UserID: "usr-1",
		Title: `Has "quotes", commas`, Content: "newer content",
		Tags:      []string{},
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	for _, p := range []*domain.Prompt{old, recent} {
		if err := st.CreatePrompt(ctx, p); err != nil {
			t.Fatalf("create prompt %s: %v", p.ID, err)
		}
	}
}

func TestCSVExport(t *testing.T) {
	e, st := newTestExporter(t)
	seedPrompts(t, st)

	data, err := e.CSV(context.Background(), "usr-1")
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	text := string(data)

	if !strings.HasPrefix(text, "\uFEFF") {
		t.Error("expected UTF-8 BOM prefix")
	}

	lines := strings.Split(strings.TrimPrefix(text, "\uFEFF"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "ID,Title,Content") {
		t.Errorf("header: %q", lines[0])
	}

	// Newest first.
	if !strings.HasPrefix(lines[1], "prm-new,") {
		t.Errorf("first row should be prm-new: %q", lines[1])
	}
	// Embedded quotes doubled inside a quoted field.
	if !strings.Contains(lines[1], `"Has ""quotes"", commas"`) {
		t.Errorf("quoting: %q", lines[1])
	}
	// Denormalized names on the older prompt.
	if !strings.Contains(lines[2], `"Música"`) || !strings.Contains(lines[2], `"Selecionados"`) {
		t.Errorf("taxonomy names: %q", lines[2])
	}
	if !strings.Contains(lines[2], `"a, b"`) {
		t.Errorf("tags: %q", lines[2])
	}
}

func TestJSONExport(t *testing.T) {
	e, st := newTestExporter(t)
	seedPrompts(t, st)

	data, err := e.JSON(context.Background(), "usr-1")
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.TotalPrompts != 2 || len(env.Prompts) != 2 {
		t.Fatalf("totals: %d/%d", env.TotalPrompts, len(env.Prompts))
	}
	if env.ExportedAt.IsZero() {
		t.Error("ExportedAt not set")
	}

	first, second := env.Prompts[0], env.Prompts[1]
	if first.ID != "prm-new" {
		t.Errorf("order: first is %s", first.ID)
	}
	// No taxonomy: explicit nulls.
	if first.Category != nil || first.GroupSlug != nil {
		t.Errorf("expected null taxonomy on %s", first.ID)
	}
	if second.Category == nil || *second.Category != "Música" {
		t.Errorf("category: %v", second.Category)
	}
	if second.CategorySlug == nil || *second.CategorySlug != "musica" {
		t.Errorf("categorySlug: %v", second.CategorySlug)
	}
	if second.Group == nil || *second.Group != "Selecionados" {
		t.Errorf("group: %v", second.Group)
	}
	if second.Subcategory == nil || *second.Subcategory != "Reggae" {
		t.Errorf("subcategory: %v", second.Subcategory)
	}
}

func TestExportEmptyLibrary(t *testing.T) {
	e, _ := newTestExporter(t)

	data, err := e.CSV(context.Background(), "usr-1")
	if err != nil {
		t.Fatalf("CSV: %v", err)
	}
	if string(data) != "\uFEFF"+strings.Join(csvHeaders, ",") {
		t.Errorf("empty CSV: %q", string(data))
	}

	jsonData, err := e.JSON(context.Background(), "usr-1")
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var env Envelope
	if err := json.Unmarshal(jsonData, &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.TotalPrompts != 0 || len(env.Prompts) != 0 {
		t.Errorf("expected empty export, got %+v", env)
	}
}

func TestFileName(t *testing.T) {
	name := FileName("csv")
	if !strings.HasPrefix(name, "prompts_export_") || !strings.HasSuffix(name, ".csv") {
		t.Errorf("unexpected name: %q", name)
	}
	if len(name) != len("prompts_export_2006-01-02.csv") {
		t.Errorf("unexpected date shape: %q", name)
	}
}
