// Package main provides a CLI tool to import a prompt CSV export directly
// into the database, without going through the HTTP API.
//
// Usage:
//
//	importcsv -db ~/promptdeck/promptdeck.db -category musica -user usr-local export.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/promptdeck/promptdeck-server/internal/importer"
	"github.com/promptdeck/promptdeck-server/internal/service"
	"github.com/promptdeck/promptdeck-server/internal/store/sqlite"
)

func main() {
	dbPath := flag.String("db", "", "Path to the SQLite database file")
	category := flag.String("category", "", "Slug of the category to import into")
	userID := flag.String("user", "usr-local", "Owner user ID for imported prompts")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	if *dbPath == "" || *category == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: importcsv -db <path> -category <slug> [-user <id>] <file.csv>")
		os.Exit(2)
	}

	if err := run(*dbPath, *category, *userID, flag.Arg(0), *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(dbPath, category, userID, csvPath string, verbose bool) error {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	f, err := os.Open(csvPath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	imports := service.NewImportService(st, importer.New(st, logger), logger)

	onProgress := func(p importer.Progress) {
		fmt.Printf("\r%d/%d rows (inserted %d, updated %d, errors %d)",
			p.Current, p.Total, p.Inserted, p.Updated, p.Errors)
	}

	result, err := imports.Run(context.Background(), f, userID, category, onProgress)
	fmt.Println()
	if err != nil {
		return err
	}

	fmt.Printf("Done: %d inserted, %d updated, %d errors\n",
		result.Inserted, result.Updated, result.Errors)
	if len(result.GroupsCreated) > 0 {
		fmt.Printf("Created groups: %s\n", strings.Join(result.GroupsCreated, ", "))
	}
	return nil
}
