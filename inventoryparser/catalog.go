package inventoryparser

import (
	"fmt"
	"os"
	"strings"

	"github.com/giygas/inventario-farmacia/inventoryparser/entities"
	"github.com/giygas/inventario-farmacia/logging"
)

const (
	catalogKeyColumn       = "CLAVE"
	catalogSubstanceColumn = "SUSTANCIA ACTIVA"
)

// UTF-8 byte order mark as it reads once decoded with a single-byte charset
const latin1BOMArtifact = "ï»¿"

// LoadCatalog reads the reference substance list. The file is always decoded
// as ISO-8859-1 because it carries accented names that are not UTF-8.
// Every failure wraps ErrCatalogLoad.
func LoadCatalog(path string) (*entities.Catalog, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrCatalogLoad, path, err)
	}

	text, err := latin1Decoding.decode(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogLoad, err)
	}

	records, err := readCSVRecords(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogLoad, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrCatalogLoad, path)
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = cleanHeader(h)
	}

	// Header names drift between catalog revisions: without CLAVE the first
	// column holds the code.
	keyIdx := indexOf(header, catalogKeyColumn)
	if keyIdx < 0 {
		keyIdx = 0
	}

	substanceIdx := indexOf(header, catalogSubstanceColumn)
	if substanceIdx < 0 {
		return nil, fmt.Errorf("%w: column %q not found in %v", ErrCatalogLoad, catalogSubstanceColumn, header)
	}
	if substanceIdx == keyIdx {
		return nil, fmt.Errorf("%w: no code column besides %q", ErrCatalogLoad, catalogSubstanceColumn)
	}

	entries := make([]entities.SubstanceEntry, 0, len(records)-1)
	for _, record := range records[1:] {
		if isEmptyRecord(record) {
			continue
		}
		entries = append(entries, entities.SubstanceEntry{
			Code:          entities.NormalizeCode(rawCell(record, keyIdx)),
			SubstanceName: rawCell(record, substanceIdx),
		})
	}

	catalog := entities.NewCatalog(entries, path)

	if catalog.DuplicateCodes > 0 {
		logging.Warn("Duplicate codes in substance catalog, keeping first occurrence",
			"path", path,
			"duplicates", catalog.DuplicateCodes)
	}

	logging.Info("Substance catalog loaded", "path", path, "entries", catalog.Len())
	return catalog, nil
}

func cleanHeader(h string) string {
	h = strings.ReplaceAll(h, latin1BOMArtifact, "")
	h = strings.ReplaceAll(h, "\ufeff", "")
	return strings.TrimSpace(h)
}

func indexOf(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

// rawCell returns the untrimmed value at index i, or "" when the row is too short
func rawCell(record []string, i int) string {
	if i >= len(record) {
		return ""
	}
	return record[i]
}
