// Package tabular turns delimited source files into rows of named fields.
// It is a thin I/O wrapper: all taxonomy semantics live in the pipeline.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Row is one record keyed by column name.
type Row map[string]string

// Get returns the trimmed value of the named column. Missing optional
// columns read as empty strings.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadFile parses a delimited file into rows keyed by the header line.
// Content is decoded as UTF-8; a leading BOM is stripped, and files that
// are not valid UTF-8 fall back to the cp1252 and latin1 codepages found
// in legacy exports.
func ReadFile(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		decoded, derr := charmap.Windows1252.NewDecoder().Bytes(data)
		if derr != nil {
			decoded, derr = charmap.ISO8859_1.NewDecoder().Bytes(data)
		}
		if derr != nil {
			return nil, fmt.Errorf("decode table %s: %w", path, derr)
		}
		data = decoded
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse table %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty table: %s", path)
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
