package core

import (
	"fmt"
)

// Table is the in-memory tabular value the pipeline operates on.
//
// Columns are ordered and unique. Rows are stored positionally; every row has
// exactly one cell per column and blank cells are "".
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable builds a Table from column names and positional rows.
// Returns an error if a column name repeats or a row has the wrong width.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	t := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		rows:    make([][]string, len(rows)),
	}

	for i, c := range t.columns {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		t.index[c] = i
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, expected %d", i+1, len(row), len(columns))
		}
		t.rows[i] = append([]string(nil), row...)
	}

	return t, nil
}

// MustTable is like NewTable but panics on error. Intended for tests and
// static fixtures.
func MustTable(columns []string, rows [][]string) *Table {
	t, err := NewTable(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.columns)
}

// Has reports whether a column exists.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Value returns the cell at row i for the named column, or "" if the column
// does not exist.
func (t *Table) Value(i int, column string) string {
	pos, ok := t.index[column]
	if !ok {
		return ""
	}
	return t.rows[i][pos]
}

// Row returns a copy of row i as a column-name keyed map.
func (t *Table) Row(i int) map[string]string {
	m := make(map[string]string, len(t.columns))
	for pos, c := range t.columns {
		m[c] = t.rows[i][pos]
	}
	return m
}

// Record returns a copy of row i in column order.
func (t *Table) Record(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

// Column returns a copy of every value of the named column.
func (t *Table) Column(column string) []string {
	pos, ok := t.index[column]
	if !ok {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[pos]
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	c := &Table{
		columns: append([]string(nil), t.columns...),
		index:   make(map[string]int, len(t.index)),
		rows:    make([][]string, len(t.rows)),
	}
	for k, v := range t.index {
		c.index[k] = v
	}
	for i, row := range t.rows {
		c.rows[i] = append([]string(nil), row...)
	}
	return c
}

// Validate checks the table invariants. A failure here is an internal fault,
// not a user error.
func (t *Table) Validate() error {
	if len(t.index) != len(t.columns) {
		return fmt.Errorf("column index out of sync: %d names, %d indexed", len(t.columns), len(t.index))
	}
	for i, c := range t.columns {
		if pos, ok := t.index[c]; !ok || pos != i {
			return fmt.Errorf("column %q not indexed at position %d", c, i)
		}
	}
	for i, row := range t.rows {
		if len(row) != len(t.columns) {
			return fmt.Errorf("row %d has %d cells, expected %d", i+1, len(row), len(t.columns))
		}
	}
	return nil
}

// mapColumn rewrites every cell of an existing column in place.
func (t *Table) mapColumn(column string, fn func(string) string) {
	pos := t.index[column]
	for _, row := range t.rows {
		row[pos] = fn(row[pos])
	}
}

// setColumn writes values into a column, appending it when new.
// len(values) must equal Len().
func (t *Table) setColumn(column string, values []string) {
	pos, ok := t.index[column]
	if !ok {
		pos = len(t.columns)
		t.columns = append(t.columns, column)
		t.index[column] = pos
		for i := range t.rows {
			t.rows[i] = append(t.rows[i], "")
		}
	}
	for i, row := range t.rows {
		row[pos] = values[i]
	}
}

// project returns a new table containing only the given columns, in order.
// Every name must exist.
func (t *Table) project(columns []string) *Table {
	p := &Table{
		columns: append([]string(nil), columns...),
		index:   make(map[string]int, len(columns)),
		rows:    make([][]string, len(t.rows)),
	}
	src := make([]int, len(columns))
	for i, c := range columns {
		p.index[c] = i
		src[i] = t.index[c]
	}
	for i, row := range t.rows {
		out := make([]string, len(columns))
		for j, pos := range src {
			out[j] = row[pos]
		}
		p.rows[i] = out
	}
	return p
}
