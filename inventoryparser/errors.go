package inventoryparser

import (
	"errors"
	"fmt"
)

var (
	// ErrCatalogLoad marks any failure reading the reference catalog
	ErrCatalogLoad = errors.New("catalog load failed")

	ErrUnsupportedFormat   = errors.New("unsupported file format")
	ErrDecode              = errors.New("could not read file with any supported encoding")
	ErrEmptyFile           = errors.New("file has no header row")
	ErrInsufficientColumns = errors.New("not enough columns")
)

// Ingestion stages reported in IngestionError
const (
	StageFormat  = "format"
	StageRead    = "read"
	StageColumns = "columns"
)

// IngestionError aborts the ingestion of one upload. No partial table is ever
// returned alongside it.
type IngestionError struct {
	Stage    string
	FileName string
	Err      error
}

func (e *IngestionError) Error() string {
	return fmt.Sprintf("failed to process %q at %s stage: %v", e.FileName, e.Stage, e.Err)
}

func (e *IngestionError) Unwrap() error {
	return e.Err
}
