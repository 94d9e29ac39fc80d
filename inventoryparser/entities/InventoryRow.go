package entities

import "time"

// PlaceholderSubstance is shown when a code has no active substance in the catalog.
const PlaceholderSubstance = "---"

// InventoryRow is a product line of the daily inventory joined with the catalog.
type InventoryRow struct {
	Code          string `json:"CODIGO"`
	ProductName   string `json:"PRODUCTO"`
	SubstanceName string `json:"SUSTANCIA ACTIVA"`
	Stock         string `json:"EXISTENCIA"`
	NearExpiry    string `json:"CORTA_CAD"`
	SearchIndex   string `json:"-"` // Pre-computed: ToLower(code + product + substance)
}

// IngestionReport summarises what happened to an uploaded file
type IngestionReport struct {
	Format             string `json:"format"`
	Encoding           string `json:"encoding"`
	TotalRows          int    `json:"total_rows"`
	DroppedMissingCode int    `json:"dropped_missing_code"`
	MatchedCodes       int    `json:"matched_codes"`
	UnmatchedCodes     int    `json:"unmatched_codes"`
}

// Table is the result of ingesting one upload. It is never modified once built;
// a new upload produces a new Table.
type Table struct {
	Rows        []InventoryRow  `json:"-"`
	FileName    string          `json:"file_name"`
	Fingerprint string          `json:"fingerprint"`
	Report      IngestionReport `json:"report"`
	IngestedAt  time.Time       `json:"ingested_at"`
}

// Len returns the number of rows, tolerating a nil table.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}
