package inventoryparser

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/giygas/inventario-farmacia/inventoryparser/entities"
	"github.com/giygas/inventario-farmacia/logging"
)

// Upload formats
const (
	FormatCSV         = "csv"
	FormatSpreadsheet = "xlsx"
)

// Layout of the daily inventory export. Header names drift between exports,
// so columns are taken by position.
const (
	headerRowIndex = 1 // row 0 is a cosmetic banner
	minColumns     = 7

	colCode       = 0
	colProduct    = 1
	colNearExpiry = 5
	colStock      = 6
)

var spreadsheetExtensions = map[string]bool{
	".xlsx": true,
	".xlsm": true,
	".xltx": true,
	".xltm": true,
}

// DetectFormat chooses the reader from the file name suffix
func DetectFormat(fileName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch {
	case ext == ".csv":
		return FormatCSV, nil
	case spreadsheetExtensions[ext]:
		return FormatSpreadsheet, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .csv or .xlsx)", ErrUnsupportedFormat, ext)
	}
}

// Ingest parses an uploaded inventory file and left-joins it with the catalog.
// Any failure aborts the whole upload with an *IngestionError.
func Ingest(fileName string, content []byte, catalog *entities.Catalog) (*entities.Table, error) {
	format, err := DetectFormat(fileName)
	if err != nil {
		return nil, &IngestionError{Stage: StageFormat, FileName: fileName, Err: err}
	}

	report := entities.IngestionReport{Format: format}

	var records [][]string
	switch format {
	case FormatCSV:
		records, report.Encoding, err = readCSVWithFallback(content, csvDecodings)
	default:
		records, err = readSpreadsheetRecords(content)
	}
	if err != nil {
		return nil, &IngestionError{Stage: StageRead, FileName: fileName, Err: err}
	}

	rows, dropped, err := extractRows(records)
	if err != nil {
		return nil, &IngestionError{Stage: StageColumns, FileName: fileName, Err: err}
	}

	report.TotalRows = len(rows)
	report.DroppedMissingCode = dropped

	for i := range rows {
		if name, ok := catalog.Lookup(rows[i].Code); ok {
			rows[i].SubstanceName = name
			report.MatchedCodes++
		} else {
			rows[i].SubstanceName = entities.PlaceholderSubstance
			report.UnmatchedCodes++
		}
		rows[i].SearchIndex = BuildSearchIndex(rows[i])
	}

	if dropped > 0 || report.UnmatchedCodes > 0 {
		logging.Info("Inventory ingestion statistics",
			"file", fileName,
			"rows", report.TotalRows,
			"dropped_missing_code", dropped,
			"unmatched_codes", report.UnmatchedCodes)
	}

	return &entities.Table{
		Rows:        rows,
		FileName:    fileName,
		Fingerprint: Fingerprint(content),
		Report:      report,
		IngestedAt:  time.Now(),
	}, nil
}

// Fingerprint identifies upload content, so the same file uploaded twice can
// reuse the table already built for it.
func Fingerprint(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// readCSVWithFallback tries each decoding in order and returns the records of
// the first one that parses, with the name of the encoding used.
func readCSVWithFallback(content []byte, decodings []textDecoding) ([][]string, string, error) {
	var failures []string

	for _, d := range decodings {
		text, err := d.decode(content)
		if err == nil {
			var records [][]string
			if records, err = readCSVRecords(text); err == nil {
				return records, d.name, nil
			}
		}
		logging.Debug("CSV decoding attempt failed", "encoding", d.name, "error", err)
		failures = append(failures, fmt.Sprintf("%s: %v", d.name, err))
	}

	return nil, "", fmt.Errorf("%w (%s)", ErrDecode, strings.Join(failures, "; "))
}

// extractRows selects the positional columns below the header row. It returns
// the rows that have a code and how many were dropped for lacking one.
func extractRows(records [][]string) ([]entities.InventoryRow, int, error) {
	if len(records) <= headerRowIndex {
		return nil, 0, ErrEmptyFile
	}

	width := 0
	for _, record := range records[headerRowIndex:] {
		width = max(width, len(record))
	}
	if width < minColumns {
		return nil, 0, fmt.Errorf("%w: found %d, need at least %d", ErrInsufficientColumns, width, minColumns)
	}

	rows := make([]entities.InventoryRow, 0, len(records)-headerRowIndex-1)
	dropped := 0

	for _, record := range records[headerRowIndex+1:] {
		if isEmptyRecord(record) {
			continue
		}

		code := entities.NormalizeCode(cell(record, colCode))
		if code == "" {
			dropped++
			continue
		}

		rows = append(rows, entities.InventoryRow{
			Code:        code,
			ProductName: cell(record, colProduct),
			NearExpiry:  cell(record, colNearExpiry),
			Stock:       cell(record, colStock),
		})
	}

	return rows, dropped, nil
}

// BuildSearchIndex concatenates the searchable fields in lower case. The
// placeholder substance is left out so it never matches a query.
func BuildSearchIndex(row entities.InventoryRow) string {
	parts := []string{row.Code, row.ProductName}
	if row.SubstanceName != entities.PlaceholderSubstance {
		parts = append(parts, row.SubstanceName)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// cell returns the trimmed value at index i, or "" when the row is too short
func cell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
