package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for prompt documents.
// Titles and content get English stemming; subcategory and tags use the
// simple analyzer so exact words match without stemming surprises; the
// user and taxonomy filters are keyword fields.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Title - primary search target, stored for result rendering.
	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	titleField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("title", titleField)

	// Content - searchable and highlighted, not stored (can be large).
	contentField := bleve.NewTextFieldMapping()
	contentField.Analyzer = en.AnalyzerName
	contentField.Store = false
	contentField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("content", contentField)

	subcategoryField := bleve.NewTextFieldMapping()
	subcategoryField.Analyzer = simple.Name
	subcategoryField.Store = true
	docMapping.AddFieldMappingsAt("subcategory", subcategoryField)

	tagsField := bleve.NewTextFieldMapping()
	tagsField.Analyzer = simple.Name
	tagsField.Store = true
	docMapping.AddFieldMappingsAt("tags", tagsField)

	// Exact-match filter fields.
	for _, name := range []string{"user_id", "category_slug", "group_id"} {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = keyword.Name
		f.Store = name != "user_id"
		docMapping.AddFieldMappingsAt(name, f)
	}

	// Numeric fields for sorting.
	for _, name := range []string{"rating", "usage_count", "created_at", "updated_at"} {
		f := bleve.NewNumericFieldMapping()
		f.Store = true
		docMapping.AddFieldMappingsAt(name, f)
	}

	indexMapping.DefaultMapping = docMapping
	return indexMapping
}
