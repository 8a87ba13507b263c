package dataprocessing

import (
	"strings"

	"athletepulse/pkg/contracts/domain"
)

// Column is a table column. Source names the spreadsheet the column came from
// and drives collision renaming during merges.
type Column struct {
	Name   string
	Source string
}

// Table is an in-memory tabular dataset. Tables are treated as values: every
// transform returns a new Table and leaves its input untouched.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]domain.Value
}

// NewTable builds a table from a header and raw string rows. Short rows are
// padded with missing values and long rows truncated to the header.
func NewTable(name string, header []string, rows [][]string) Table {
	t := Table{Name: name, Columns: make([]Column, len(header))}
	for i, h := range header {
		t.Columns[i] = Column{Name: strings.TrimSpace(h), Source: name}
	}
	t.Rows = make([][]domain.Value, 0, len(rows))
	for _, raw := range rows {
		row := make([]domain.Value, len(header))
		for i := range row {
			if i < len(raw) {
				row[i] = domain.CellValue(raw[i])
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Len returns the number of rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// ColumnNames returns the column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (t Table) Index(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether the table has the named column.
func (t Table) Has(name string) bool {
	return t.Index(name) >= 0
}

// Cell returns the value at row i of the named column. An absent column reads
// as missing.
func (t Table) Cell(i int, name string) domain.Value {
	idx := t.Index(name)
	if idx < 0 || i < 0 || i >= len(t.Rows) {
		return domain.Missing
	}
	return t.Rows[i][idx]
}

// Clone returns a deep copy.
func (t Table) Clone() Table {
	out := Table{Name: t.Name, Columns: append([]Column(nil), t.Columns...)}
	out.Rows = make([][]domain.Value, len(t.Rows))
	for i, row := range t.Rows {
		out.Rows[i] = append([]domain.Value(nil), row...)
	}
	return out
}

// WithColumn returns a copy with one more column whose values are computed per row.
func (t Table) WithColumn(col Column, fn func(row int) domain.Value) Table {
	out := Table{Name: t.Name, Columns: append(append([]Column(nil), t.Columns...), col)}
	out.Rows = make([][]domain.Value, len(t.Rows))
	for i, row := range t.Rows {
		r := make([]domain.Value, 0, len(row)+1)
		r = append(r, row...)
		out.Rows[i] = append(r, fn(i))
	}
	return out
}

// Strings renders a row as text, missing cells as empty strings.
func (t Table) Strings(i int) []string {
	out := make([]string, len(t.Columns))
	for j, v := range t.Rows[i] {
		out[j] = v.String()
	}
	return out
}
