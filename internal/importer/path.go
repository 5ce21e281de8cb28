package importer

import "strings"

// CategoryPath is the parsed form of a "Group > Subcategory" column value.
type CategoryPath struct {
	Group       string
	Subcategory string
}

// ParseCategoryPath splits a category-path cell into a group name and a
// subcategory.
//
//	"Diversos"                      -> {Group: "Diversos"}
//	"Selecionados > Reggae Master"  -> {Group: "Selecionados", Subcategory: "Reggae Master"}
//	"Projetos > Som > LO-FI"        -> {Group: "Projetos > Som", Subcategory: "LO-FI"}
//
// Paths with three or more segments fold everything but the last segment
// into a single compound group name; deeper paths never create deeper
// taxonomy levels.
func ParseCategoryPath(path string) CategoryPath {
	parts := strings.Split(path, ">")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	switch {
	case len(parts) >= 3:
		return CategoryPath{
			Group:       strings.Join(parts[:len(parts)-1], " > "),
			Subcategory: parts[len(parts)-1],
		}
	case len(parts) == 2:
		return CategoryPath{Group: parts[0], Subcategory: parts[1]}
	default:
		return CategoryPath{Group: parts[0]}
	}
}
