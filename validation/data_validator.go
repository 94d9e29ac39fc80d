// Package validation checks user supplied input before it reaches the
// ingestion pipeline or the search.
package validation

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/inventario-farmacia/interfaces"
)

const (
	maxQueryLength    = 100
	maxFileNameLength = 255
	maxCodeLength     = 50
)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() interfaces.DataValidator {
	return &DataValidatorImpl{}
}

// ValidateQuery accepts any printable text up to maxQueryLength runes. Product
// names carry slashes, dots, percent signs and accents, so there is no
// character whitelist. Results are only ever returned as JSON, so markup in a
// query is just text to look for.
func (v *DataValidatorImpl) ValidateQuery(query string) error {
	if !utf8.ValidString(query) {
		return fmt.Errorf("query is not valid UTF-8")
	}

	if n := utf8.RuneCountInString(query); n > maxQueryLength {
		return fmt.Errorf("query too long: %d characters (max %d)", n, maxQueryLength)
	}

	for _, r := range query {
		if unicode.IsControl(r) {
			return fmt.Errorf("query contains control characters")
		}
	}

	return nil
}

// ValidateFileName rejects empty, overlong or path-like upload names
func (v *DataValidatorImpl) ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name is empty")
	}

	if len(name) > maxFileNameLength {
		return fmt.Errorf("file name too long: %d bytes (max %d)", len(name), maxFileNameLength)
	}

	if name == "." || name == ".." || filepath.Base(name) != name || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("file name must not contain a path")
	}

	return nil
}

// ValidateCode checks a catalog lookup code
func (v *DataValidatorImpl) ValidateCode(code string) error {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return fmt.Errorf("code is empty")
	}

	if len(trimmed) > maxCodeLength {
		return fmt.Errorf("code too long: %d characters (max %d)", len(trimmed), maxCodeLength)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return fmt.Errorf("code contains control characters")
		}
	}

	return nil
}
