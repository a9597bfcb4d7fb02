package table

import "strings"

// Row is a single record keyed by column header
type Row map[string]string

// Table is an immutable, ordered view over a delimited file.
// Columns are probed at use time; nothing about the schema is fixed.
type Table struct {
	source  string
	headers []string
	index   map[string]int
	rows    []Row
}

// New builds a table from headers and rows. Header names are trimmed and
// duplicate headers keep their first position.
func New(source string, headers []string, rows []Row) *Table {
	t := &Table{
		source: source,
		index:  make(map[string]int, len(headers)),
		rows:   rows,
	}
	for _, h := range headers {
		h = strings.TrimSpace(h)
		if _, seen := t.index[h]; seen {
			continue
		}
		t.index[h] = len(t.headers)
		t.headers = append(t.headers, h)
	}
	return t
}

// Empty returns a table with zero rows and no columns
func Empty(source string) *Table {
	return New(source, nil, nil)
}

// Source returns the path the table was loaded from
func (t *Table) Source() string { return t.source }

// Len returns the number of data rows
func (t *Table) Len() int { return len(t.rows) }

// IsEmpty reports whether the table has no data rows
func (t *Table) IsEmpty() bool { return len(t.rows) == 0 }

// Headers returns a copy of the column names in file order
func (t *Table) Headers() []string {
	out := make([]string, len(t.headers))
	copy(out, t.headers)
	return out
}

// HasColumn reports whether the named column exists
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// HasColumns reports whether every named column exists
func (t *Table) HasColumns(names ...string) bool {
	for _, n := range names {
		if !t.HasColumn(n) {
			return false
		}
	}
	return true
}

// Value returns the cell at row i for the column. The second result is false
// when the column is absent or the cell is blank.
func (t *Table) Value(i int, column string) (string, bool) {
	if i < 0 || i >= len(t.rows) {
		return "", false
	}
	v, ok := t.rows[i][column]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// Column returns every cell of the column in row order; absent cells are "".
func (t *Table) Column(name string) []string {
	if !t.HasColumn(name) {
		return nil
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[name]
	}
	return out
}

// Head returns the row indices of the first n rows in file order
func (t *Table) Head(n int) []int {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	if n < 0 {
		n = 0
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
