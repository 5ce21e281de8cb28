// Package color assigns badge colors to categories.
package color

// Badge palette tuned for light backgrounds with dark text. Muted
// mid-tones so the badge reads as an accent rather than a highlight.
var palette = []string{
	"#C75C5C", // brick
	"#D98943", // amber
	"#C2A23A", // mustard
	"#7FA65A", // olive
	"#4FA386", // sea green
	"#4C9FB0", // teal
	"#5B8BC9", // slate blue
	"#7D76C4", // periwinkle
	"#A46BBF", // violet
	"#C468A9", // orchid
	"#C9608A", // rose
	"#8A8578", // warm gray
}

// ForKey picks a palette color for a key such as a category slug. The
// same key always maps to the same entry, so a category keeps its badge
// color without storing anything.
func ForKey(key string) string {
	h := 0
	for _, c := range key {
		h = 31*h + int(c)
	}
	if h < 0 {
		h = -h
	}
	return palette[h%len(palette)]
}
