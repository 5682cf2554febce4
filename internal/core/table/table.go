// Package table provides the generic tabular-data abstraction the core
// operates on: a header row plus string cell rows, decoded from and encoded
// to CSV. The core never sees uploads, buttons or files, only tables.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/tanmayk/meritalloc/internal/pkg/apperrors"
)

// Table is an in-memory tabular dataset with a header row.
type Table struct {
	Header []string
	Rows   [][]string
}

// New creates a table from a header and rows. Every row must have exactly
// len(header) cells.
func New(header []string, rows [][]string) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d columns", i+1, len(row), len(header))
		}
	}
	return &Table{Header: header, Rows: rows}, nil
}

// ReadCSV decodes a CSV stream with a header row into a Table. Ragged rows
// are rejected by the csv reader (ErrFieldCount).
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, apperrors.ErrEmptyDataset
	}

	header := make([]string, len(records[0]))
	for i, name := range records[0] {
		header[i] = strings.TrimSpace(name)
	}

	return &Table{Header: header, Rows: records[1:]}, nil
}

// WriteCSV encodes the table, header first, to the writer.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range t.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ColumnIndex returns the index of the named column, or -1 if absent.
// Matching is case-sensitive and exact.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Cell returns the value at (row, col). The caller is expected to stay in
// bounds; row indexes are 0-based over data rows, excluding the header.
func (t *Table) Cell(row, col int) string {
	return t.Rows[row][col]
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}
