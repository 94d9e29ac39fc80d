package entities

import (
	"strings"
	"time"
)

// NormalizeCode is the single join-key rule shared by catalog and inventory:
// the cell text with surrounding whitespace removed.
func NormalizeCode(raw string) string {
	return strings.TrimSpace(raw)
}

// Catalog maps product codes to active substance names. It is built once and
// only read afterwards.
type Catalog struct {
	substances     map[string]string
	Source         string
	LoadedAt       time.Time
	DuplicateCodes int
}

// NewCatalog builds a catalog from entries. The first entry of a repeated code
// wins; entries with an empty substance are treated as absent.
func NewCatalog(entries []SubstanceEntry, source string) *Catalog {
	c := &Catalog{
		substances: make(map[string]string, len(entries)),
		Source:     source,
		LoadedAt:   time.Now(),
	}

	for _, e := range entries {
		code := NormalizeCode(e.Code)
		if code == "" || e.SubstanceName == "" {
			continue
		}
		if _, exists := c.substances[code]; exists {
			c.DuplicateCodes++
			continue
		}
		c.substances[code] = e.SubstanceName
	}

	return c
}

// EmptyCatalog returns a catalog without entries, used when loading fails.
func EmptyCatalog(source string) *Catalog {
	return NewCatalog(nil, source)
}

// Lookup returns the substance for code after normalizing it.
func (c *Catalog) Lookup(code string) (string, bool) {
	if c == nil {
		return "", false
	}
	name, ok := c.substances[NormalizeCode(code)]
	return name, ok
}

// Len returns the number of distinct codes
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.substances)
}
