// Package main provides a tool to seed a fresh database with starter
// categories so the extension has somewhere to file prompts on first run.
//
// Usage:
//
//	go run ./cmd/seed -db ~/promptdeck/promptdeck.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/promptdeck/promptdeck-server/internal/domain"
	"github.com/promptdeck/promptdeck-server/internal/service"
	"github.com/promptdeck/promptdeck-server/internal/store/sqlite"
	"github.com/promptdeck/promptdeck-server/internal/util"
)

var starters = []struct {
	name  string
	icon  string
	color string
}{
	{"Música", "music", "#8b5cf6"},
	{"Imagens", "image", "#f59e0b"},
	{"Escrita", "pen", "#10b981"},
	{"Código", "code", "#3b82f6"},
}

func main() {
	dbPath := flag.String("db", "", "Path to the SQLite database file")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: seed -db <path>")
		os.Exit(2)
	}

	if err := run(*dbPath); err != nil {
		fmt.Fprintf(os.Stderr, "Seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	cats := service.NewCategoryService(st, logger)

	existing, err := st.ListCategories(ctx)
	if err != nil {
		return err
	}
	taken := make(map[string]bool, len(existing))
	for _, c := range existing {
		taken[c.Slug] = true
	}

	var created []*domain.Category
	for i, s := range starters {
		if taken[util.Slugify(s.name)] {
			continue
		}
		c, err := cats.Create(ctx, service.CategoryInput{
			Name:      s.name,
			Icon:      s.icon,
			Color:     s.color,
			SortOrder: i,
		})
		if err != nil {
			fmt.Printf("Skipping %s: %v\n", s.name, err)
			continue
		}
		created = append(created, c)
	}

	if len(created) == 0 {
		fmt.Printf("Nothing to do: %d categories already present\n", len(existing))
		return nil
	}

	for _, c := range created {
		fmt.Printf("Created category %s (%s)\n", c.Name, c.Slug)
	}
	return nil
}
