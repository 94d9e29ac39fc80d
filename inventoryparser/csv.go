package inventoryparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Candidate separators, comma first so it wins ties.
var csvDelimiters = []byte{',', ';', '\t'}

// readCSVRecords parses already decoded text into rows of cells. Rows may have
// different widths; blank lines are skipped.
//
// Parsing is strict first. Only a bare quote inside an unquoted cell, as in
// TUBO 1/2", switches to lazy quoting, and even then a quoted cell may not run
// past the end of its line.
func readCSVRecords(text []byte) ([][]string, error) {
	records, err := parseCSV(text, false)
	if errors.Is(err, csv.ErrBareQuote) {
		records, err = parseCSV(text, true)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return records, nil
}

func parseCSV(text []byte, lazyQuotes bool) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(text))
	r.Comma = rune(detectDelimiter(text))
	r.LazyQuotes = lazyQuotes
	r.FieldsPerRecord = -1

	var records [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		if lazyQuotes {
			// An unclosed quote swallows the following lines into one cell
			for i, field := range record {
				if strings.ContainsRune(field, '\n') {
					line, column := r.FieldPos(i)
					return nil, &csv.ParseError{StartLine: line, Line: line, Column: column, Err: csv.ErrQuote}
				}
			}
		}

		records = append(records, record)
	}

	return records, nil
}

// detectDelimiter looks at the banner and header lines and picks the separator
// that occurs most often.
func detectDelimiter(text []byte) byte {
	sample := text
	for i, lines := 0, 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines++
			if lines == 2 {
				sample = text[:i]
				break
			}
		}
	}

	best, bestCount := csvDelimiters[0], 0
	for _, d := range csvDelimiters {
		if n := bytes.Count(sample, []byte{d}); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}
