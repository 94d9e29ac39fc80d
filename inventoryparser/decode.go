// Package inventoryparser reads the reference substance catalog and the daily
// inventory uploads, and joins them into searchable tables.
package inventoryparser

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// textDecoding is one step of the CSV encoding fallback chain
type textDecoding struct {
	name     string
	encoding encoding.Encoding
	strict   bool // reject input that is not valid in this encoding
}

var (
	latin1Decoding = textDecoding{name: "iso-8859-1", encoding: charmap.ISO8859_1}
	utf8Decoding   = textDecoding{name: "utf-8", encoding: unicode.UTF8BOM, strict: true}

	// Export tools disagree on encoding, the legacy one is tried first.
	csvDecodings = []textDecoding{latin1Decoding, utf8Decoding}
)

// decode converts content to UTF-8. Each call starts from the original bytes.
func (d textDecoding) decode(content []byte) ([]byte, error) {
	if d.strict && !utf8.Valid(content) {
		return nil, fmt.Errorf("content is not valid %s", d.name)
	}

	out, err := d.encoding.NewDecoder().Bytes(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode as %s: %w", d.name, err)
	}
	return out, nil
}
