package importer

import "strings"

// ParseCSV tokenizes raw CSV text into rows of trimmed cells.
//
// This is deliberately not encoding/csv: the legacy export format needs
// cell-level trimming, blank-row dropping and tolerance for unquoted
// cells containing stray quotes, and existing files must keep parsing
// byte-for-byte the way they always have. Quoted fields may contain
// commas, newlines and doubled quotes; \r\n, \n and lone \r all
// terminate a row outside quotes.
func ParseCSV(text string) [][]string {
	var (
		rows         [][]string
		currentRow   []string
		currentCell  strings.Builder
		insideQuotes bool
	)

	endRow := func() {
		if currentCell.Len() == 0 && len(currentRow) == 0 {
			return
		}
		currentRow = append(currentRow, strings.TrimSpace(currentCell.String()))
		currentCell.Reset()
		for _, cell := range currentRow {
			if cell != "" {
				rows = append(rows, currentRow)
				break
			}
		}
		currentRow = nil
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		char := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case char == '"':
			if insideQuotes && next == '"' {
				currentCell.WriteRune('"')
				i++
			} else {
				insideQuotes = !insideQuotes
			}
		case char == ',' && !insideQuotes:
			currentRow = append(currentRow, strings.TrimSpace(currentCell.String()))
			currentCell.Reset()
		case (char == '\n' || char == '\r') && !insideQuotes:
			if char == '\r' && next == '\n' {
				i++
			}
			endRow()
		default:
			currentCell.WriteRune(char)
		}
	}

	endRow()
	return rows
}

// Columns holds the resolved column indexes for an import file.
// A missing column is -1 and reads as an empty cell.
type Columns struct {
	Text     int
	Category int
	Rating   int
	Comments int
	Tags     int
	Created  int
}

// ResolveColumns locates the known columns in a header row by
// case-insensitive name. The creation-timestamp column matches any
// header containing "created".
func ResolveColumns(headers []string) Columns {
	find := func(name string) int {
		for i, h := range headers {
			if strings.EqualFold(h, name) {
				return i
			}
		}
		return -1
	}
	findContains := func(substr string) int {
		for i, h := range headers {
			if strings.Contains(strings.ToLower(h), substr) {
				return i
			}
		}
		return -1
	}

	return Columns{
		Text:     find("text"),
		Category: find("category"),
		Rating:   find("rating"),
		Comments: find("comments"),
		Tags:     find("tags"),
		Created:  findContains("created"),
	}
}

// cell reads one column from a row, tolerating short rows and missing
// columns.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
