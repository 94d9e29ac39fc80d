// Package search filters an ingested inventory table by free text.
package search

import (
	"strings"

	"github.com/giygas/inventario-farmacia/inventoryparser/entities"
)

// PreviewLimit caps the rows returned for an empty query
const PreviewLimit = 10

// Strategy names accepted in configuration
const (
	StrategyIndex  = "index"
	StrategyFields = "fields"
)

// Result is the subset of rows matching a query, in table order
type Result struct {
	Query   string                  `json:"query"`
	Count   int                     `json:"count"`
	Total   int                     `json:"total"`
	Preview bool                    `json:"preview"`
	Rows    []entities.InventoryRow `json:"rows"`
}

// Matcher decides whether a row matches an already lower-cased query.
type Matcher interface {
	Match(row *entities.InventoryRow, lowerQuery string) bool
}

// IndexMatcher tests the precomputed search index once per row
type IndexMatcher struct{}

func (IndexMatcher) Match(row *entities.InventoryRow, lowerQuery string) bool {
	return strings.Contains(row.SearchIndex, lowerQuery)
}

// FieldMatcher tests code, product and substance separately. It does not need
// the search index.
type FieldMatcher struct{}

func (FieldMatcher) Match(row *entities.InventoryRow, lowerQuery string) bool {
	return containsFold(row.Code, lowerQuery) ||
		containsFold(row.ProductName, lowerQuery) ||
		(row.SubstanceName != entities.PlaceholderSubstance && containsFold(row.SubstanceName, lowerQuery))
}

func containsFold(value, lowerQuery string) bool {
	return value != "" && strings.Contains(strings.ToLower(value), lowerQuery)
}

// NewMatcher returns the matcher for a configured strategy name, defaulting to
// the index matcher.
func NewMatcher(strategy string) Matcher {
	if strategy == StrategyFields {
		return FieldMatcher{}
	}
	return IndexMatcher{}
}

// Filter returns the rows of table containing query, ignoring case. An empty
// query returns the first PreviewLimit rows instead of the whole table.
func Filter(table *entities.Table, query string, matcher Matcher) Result {
	result := Result{
		Query: query,
		Total: table.Len(),
		Rows:  []entities.InventoryRow{},
	}
	if table == nil {
		return result
	}

	if query == "" {
		n := min(PreviewLimit, len(table.Rows))
		result.Rows = append(result.Rows, table.Rows[:n]...)
		result.Count = n
		result.Preview = true
		return result
	}

	if matcher == nil {
		matcher = IndexMatcher{}
	}

	lowerQuery := strings.ToLower(query)
	for i := range table.Rows {
		if matcher.Match(&table.Rows[i], lowerQuery) {
			result.Rows = append(result.Rows, table.Rows[i])
		}
	}
	result.Count = len(result.Rows)

	return result
}
