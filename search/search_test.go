package search

import (
	"fmt"
	"testing"

	"github.com/giygas/inventario-farmacia/inventoryparser"
	"github.com/giygas/inventario-farmacia/inventoryparser/entities"
)

func newRow(code, product, substance string) entities.InventoryRow {
	row := entities.InventoryRow{
		Code:          code,
		ProductName:   product,
		SubstanceName: substance,
		Stock:         "1",
		NearExpiry:    "NO",
	}
	row.SearchIndex = inventoryparser.BuildSearchIndex(row)
	return row
}

func newTable(rows ...entities.InventoryRow) *entities.Table {
	return &entities.Table{Rows: rows, FileName: "inventario.csv"}
}

func sampleTable() *entities.Table {
	return newTable(
		newRow("V0102", "TYLENOL 500MG", "PARACETAMOL"),
		newRow("X9999", "GASAS ESTERILES", entities.PlaceholderSubstance),
		newRow("A0200", "Advil 400mg", "IBUPROFENO"),
		newRow("V0103", "TEMPRA INFANTIL", "PARACETAMOL"),
	)
}

func codes(result Result) []string {
	out := make([]string, len(result.Rows))
	for i, row := range result.Rows {
		out[i] = row.Code
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{"substance prefix", "paraceta", []string{"V0102", "V0103"}},
		{"upper case query", "PARACETAMOL", []string{"V0102", "V0103"}},
		{"mixed case product", "ADVIL", []string{"A0200"}},
		{"code", "x99", []string{"X9999"}},
		{"substring inside product", "500", []string{"V0102"}},
		{"placeholder never matches", "---", []string{}},
		{"partial placeholder never matches", "-", []string{}},
		{"no match", "insulina", []string{}},
		{"spaces are literal", "tylenol 500", []string{"V0102"}},
	}

	for _, matcher := range []Matcher{IndexMatcher{}, FieldMatcher{}} {
		for _, tt := range tests {
			t.Run(fmt.Sprintf("%T/%s", matcher, tt.name), func(t *testing.T) {
				result := Filter(sampleTable(), tt.query, matcher)

				got := codes(result)
				if len(got) != len(tt.expected) {
					t.Fatalf("Expected %v, got %v", tt.expected, got)
				}
				for i := range got {
					if got[i] != tt.expected[i] {
						t.Errorf("Expected %v, got %v", tt.expected, got)
						break
					}
				}

				if result.Count != len(tt.expected) {
					t.Errorf("Expected count %d, got %d", len(tt.expected), result.Count)
				}
				if result.Total != 4 {
					t.Errorf("Expected total 4, got %d", result.Total)
				}
				if result.Preview {
					t.Error("A non-empty query is not a preview")
				}
				if result.Query != tt.query {
					t.Errorf("Expected query %q echoed, got %q", tt.query, result.Query)
				}
			})
		}
	}
}

func TestFilterQueryAcrossFields(t *testing.T) {
	// The index joins fields with a space, so a query may run from one field
	// into the next. The field matcher tests each field on its own.
	tests := []struct {
		query    string
		expected map[string][]string
	}{
		{"500mg paracetamol", map[string][]string{
			"index":  {"V0102"},
			"fields": {},
		}},
		{"v0102 tylenol", map[string][]string{
			"index":  {"V0102"},
			"fields": {},
		}},
		{"tylenol", map[string][]string{
			"index":  {"V0102"},
			"fields": {"V0102"},
		}},
	}

	for _, tt := range tests {
		for strategy, expected := range tt.expected {
			t.Run(strategy+"/"+tt.query, func(t *testing.T) {
				got := codes(Filter(sampleTable(), tt.query, NewMatcher(strategy)))
				if fmt.Sprint(got) != fmt.Sprint(expected) {
					t.Errorf("Expected %v, got %v", expected, got)
				}
			})
		}
	}
}

func TestFilterEmptyQueryPreview(t *testing.T) {
	rows := make([]entities.InventoryRow, 25)
	for i := range rows {
		rows[i] = newRow(fmt.Sprintf("C%04d", i), "PRODUCTO", "SUSTANCIA")
	}

	result := Filter(newTable(rows...), "", IndexMatcher{})

	if !result.Preview {
		t.Error("Empty query should be a preview")
	}
	if len(result.Rows) != PreviewLimit || result.Count != PreviewLimit {
		t.Fatalf("Expected %d rows, got %d", PreviewLimit, len(result.Rows))
	}
	if result.Total != 25 {
		t.Errorf("Expected total 25, got %d", result.Total)
	}
	for i, row := range result.Rows {
		if row.Code != rows[i].Code {
			t.Errorf("Preview row %d: expected %s, got %s", i, rows[i].Code, row.Code)
		}
	}
}

func TestFilterPreviewSmallTable(t *testing.T) {
	result := Filter(sampleTable(), "", FieldMatcher{})
	if len(result.Rows) != 4 {
		t.Errorf("Expected the whole 4-row table, got %d", len(result.Rows))
	}
}

func TestFilterDoesNotAliasTable(t *testing.T) {
	table := sampleTable()

	result := Filter(table, "", IndexMatcher{})
	result.Rows[0].Code = "CHANGED"

	if table.Rows[0].Code != "V0102" {
		t.Error("Changing a result row should not change the table")
	}
}

func TestFilterNilTableAndMatcher(t *testing.T) {
	result := Filter(nil, "paracetamol", IndexMatcher{})
	if result.Count != 0 || result.Total != 0 || result.Rows == nil {
		t.Errorf("Unexpected result for nil table: %+v", result)
	}

	result = Filter(sampleTable(), "tempra", nil)
	if result.Count != 1 {
		t.Errorf("Nil matcher should fall back to the index matcher, got %d rows", result.Count)
	}
}

func TestNewMatcher(t *testing.T) {
	if _, ok := NewMatcher(StrategyFields).(FieldMatcher); !ok {
		t.Error("Expected FieldMatcher for fields strategy")
	}
	if _, ok := NewMatcher(StrategyIndex).(IndexMatcher); !ok {
		t.Error("Expected IndexMatcher for index strategy")
	}
	if _, ok := NewMatcher("unknown").(IndexMatcher); !ok {
		t.Error("Expected IndexMatcher by default")
	}
}

func BenchmarkFilter(b *testing.B) {
	rows := make([]entities.InventoryRow, 5000)
	for i := range rows {
		rows[i] = newRow(fmt.Sprintf("C%05d", i), fmt.Sprintf("PRODUCTO %d", i), "PARACETAMOL")
	}
	table := newTable(rows...)

	for _, matcher := range []Matcher{IndexMatcher{}, FieldMatcher{}} {
		b.Run(fmt.Sprintf("%T", matcher), func(b *testing.B) {
			for b.Loop() {
				Filter(table, "producto 49", matcher)
			}
		})
	}
}
