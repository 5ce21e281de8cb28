package importer

import (
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/promptdeck/promptdeck-server/internal/domain"
)

// titlePreviewLen is how many UTF-16 code units of content go into a
// generated title.
const titlePreviewLen = 40

// GenerateTitle derives a display title from the subcategory and the
// first few characters of content, with newlines collapsed to spaces.
func GenerateTitle(subcategory, content string) string {
	units := utf16.Encode([]rune(content))
	if len(units) > titlePreviewLen {
		units = units[:titlePreviewLen]
	}
	preview := strings.TrimSpace(strings.ReplaceAll(string(utf16.Decode(units)), "\n", " "))

	if subcategory != "" {
		return subcategory + ": " + preview + "..."
	}
	return preview + "..."
}

// GenerateLegacyID derives the content-identity key used to match
// prompts across repeated imports: "legacy_" + abs(h) where h is a
// 32-bit signed rolling hash (h = h*31 + unit) over the UTF-16 code
// units of content. The wraparound must stay exactly 32-bit signed so
// previously generated ids keep resolving. The hash is weak; collisions
// are possible and unhandled.
func GenerateLegacyID(content string) string {
	var hash int32
	for _, unit := range utf16.Encode([]rune(content)) {
		hash = hash<<5 - hash + int32(unit)
	}

	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}
	return "legacy_" + strconv.FormatInt(abs, 10)
}

// ParseTags combines the comments and tags cells into one tag list:
// both split on commas and semicolons, each entry trimmed, empties
// dropped, case-sensitive first-seen dedup, capped at the prompt tag
// limit. Comments come first, so they win ties against the tags cell.
func ParseTags(comments, tags string) []string {
	split := func(s string) []string {
		parts := strings.FieldsFunc(s, func(r rune) bool {
			return r == ',' || r == ';'
		})
		var out []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}

	seen := make(map[string]bool)
	result := []string{}
	for _, t := range append(split(comments), split(tags)...) {
		if seen[t] {
			continue
		}
		seen[t] = true
		result = append(result, t)
		if len(result) == domain.MaxTags {
			break
		}
	}
	return result
}

// parseRating reads a rating cell, treating anything unparseable as 0.
func parseRating(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
