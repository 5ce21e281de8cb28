// Package util provides common utility functions.
package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics decomposes to NFD and drops combining marks,
// so "Coração" becomes "Coracao".
var stripDiacritics = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Slugify converts a display name to a canonical URL-safe slug.
//
// Normalization rules:
//  1. Lowercase
//  2. Strip diacritics (accents)
//  3. Collapse every run of non-alphanumeric characters to a single dash
//  4. Trim leading/trailing dashes
//
// Examples:
//
//	"Selecionados"          → "selecionados"
//	"Som do Coração"        → "som-do-coracao"
//	"METATAGS > Refrão"     → "metatags-refrao"
//	"  --weird  input--  "  → "weird-input"
func Slugify(name string) string {
	s := strings.ToLower(name)

	if stripped, _, err := transform.String(stripDiacritics, s); err == nil {
		s = stripped
	}

	var b strings.Builder
	b.Grow(len(s))
	lastDash := true // suppress a leading dash
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}

	return strings.Trim(b.String(), "-")
}
