// Package table implements the in-memory transaction table: an ordered,
// header-indexed matrix of cells with typed accessors. Tables are loaded
// once per run and never mutated; every filtering operation returns a copy.
package table

import (
	"time"

	"cardstats/internal/core"
)

// Table is an ordered collection of transaction rows under a named header.
// The zero value is not usable; construct with New.
type Table struct {
	header []string
	index  map[string]int
	rows   [][]string
}

// New builds a table from a header and a row matrix, as produced by the
// CSV, SQLite and Sheets backends. Short rows are padded so that every
// column access is in bounds.
func New(header []string, rows [][]string) *Table {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[name] = i
	}
	padded := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row) < len(header) {
			grown := make([]string, len(header))
			copy(grown, row)
			row = grown
		}
		padded = append(padded, row)
	}
	return &Table{header: append([]string(nil), header...), index: idx, rows: padded}
}

// Empty returns a table with no columns and no rows, the neutral result of
// degraded aggregations.
func Empty() *Table {
	return New(nil, nil)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Header returns a copy of the column names in order.
func (t *Table) Header() []string {
	return append([]string(nil), t.header...)
}

// HasColumn reports whether the named column is present.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the raw cell at row i, column name. Missing columns yield
// the empty string.
func (t *Table) Cell(i int, name string) string {
	col, ok := t.index[name]
	if !ok || i < 0 || i >= len(t.rows) {
		return ""
	}
	return t.rows[i][col]
}

// Date parses the cell at row i, column name as a calendar date.
func (t *Table) Date(i int, name string) (time.Time, error) {
	return core.ParseCellDate(t.Cell(i, name))
}

// Amount parses the cell at row i, column name as a signed amount.
func (t *Table) Amount(i int, name string) (float64, error) {
	return core.ParseAmount(t.Cell(i, name))
}

// Select returns a new table holding the rows for which keep returns true.
// The receiver is left untouched; row slices are shared, never written.
func (t *Table) Select(keep func(i int) bool) *Table {
	out := &Table{header: t.header, index: t.index}
	for i := range t.rows {
		if keep(i) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// Sorted returns a new table with rows reordered by idx. Indices outside
// the table are skipped.
func (t *Table) Sorted(idx []int) *Table {
	out := &Table{header: t.header, index: t.index}
	for _, i := range idx {
		if i >= 0 && i < len(t.rows) {
			out.rows = append(out.rows, t.rows[i])
		}
	}
	return out
}

// Rows projects the table onto the given columns and returns the cell
// matrix. With no columns it returns the rows in header order. Columns
// absent from the table project as empty cells.
func (t *Table) Rows(cols ...string) [][]string {
	if len(cols) == 0 {
		cols = t.header
	}
	out := make([][]string, 0, len(t.rows))
	for i := range t.rows {
		row := make([]string, len(cols))
		for j, name := range cols {
			row[j] = t.Cell(i, name)
		}
		out = append(out, row)
	}
	return out
}

// Records converts the table to a list of column-keyed records, the shape
// report artifacts are serialized in. Date-typed cells are reformatted to
// DD.MM.YYYY; everything else is carried verbatim. An empty table yields
// an empty (non-nil) slice.
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.rows))
	for i := range t.rows {
		rec := make(map[string]string, len(t.header))
		for _, name := range t.header {
			cell := t.Cell(i, name)
			if name == core.ColOperationDate || name == core.ColPaymentDate {
				if d, err := core.ParseCellDate(cell); err == nil {
					cell = d.Format(core.DateLayout)
				}
			}
			rec[name] = cell
		}
		records = append(records, rec)
	}
	return records
}
