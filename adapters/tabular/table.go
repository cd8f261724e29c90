package tabular

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gnnreport/domain/core"
)

// Table holds tabular data with header-addressed column access
type Table struct {
	Headers []string
	Rows    [][]string
	index   map[string]int
}

// NewTable builds a table from headers and raw rows. Short rows are padded so
// every row aligns with the header count.
func NewTable(headers []string, rows [][]string) *Table {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[strings.ToLower(h)] = i
	}
	aligned := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) >= len(headers) {
			aligned[i] = row[:len(headers)]
			continue
		}
		padded := make([]string, len(headers))
		copy(padded, row)
		aligned[i] = padded
	}
	return &Table{Headers: headers, Rows: aligned, index: index}
}

// Len returns the number of data rows
func (t *Table) Len() int {
	return len(t.Rows)
}

// HasColumn reports whether a column exists, case-insensitively
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[strings.ToLower(name)]
	return ok
}

// ColumnIndex returns the position of a column, case-insensitively
func (t *Table) ColumnIndex(name string) (int, bool) {
	i, ok := t.index[strings.ToLower(name)]
	return i, ok
}

// Cell returns the raw value at a row and column name
func (t *Table) Cell(row int, name string) string {
	i, ok := t.ColumnIndex(name)
	if !ok || row < 0 || row >= len(t.Rows) {
		return ""
	}
	return t.Rows[row][i]
}

// Strings returns a column as raw strings
func (t *Table) Strings(name string) ([]string, error) {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return nil, core.NewColumnMissingError([]string{name})
	}
	out := make([]string, len(t.Rows))
	for r, row := range t.Rows {
		out[r] = row[i]
	}
	return out, nil
}

// Floats returns a column parsed as float64. Empty or unparseable cells are
// an error; callers that tolerate nulls should inspect Strings first.
func (t *Table) Floats(name string) ([]float64, error) {
	raw, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for r, s := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", name, r+1, err)
		}
		out[r] = v
	}
	return out, nil
}

// Ints returns a column parsed as int
func (t *Table) Ints(name string) ([]int, error) {
	raw, err := t.Strings(name)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(raw))
	for r, s := range raw {
		v, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", name, r+1, err)
		}
		out[r] = v
	}
	return out, nil
}

// HasNulls reports whether any cell in the named columns is empty
func (t *Table) HasNulls(names ...string) bool {
	for _, name := range names {
		i, ok := t.ColumnIndex(name)
		if !ok {
			continue
		}
		for _, row := range t.Rows {
			if strings.TrimSpace(row[i]) == "" {
				return true
			}
		}
	}
	return false
}

// Row gives access to one row's cells by column name
type Row struct {
	t *Table
	i int
}

// Get returns the cell value for a column name
func (r Row) Get(name string) string {
	return r.t.Cell(r.i, name)
}

// Float parses the cell value for a column name, returning 0 on failure
func (r Row) Float(name string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(r.Get(name)), 64)
	if err != nil {
		return 0
	}
	return v
}

// Filter returns a new table containing the rows the predicate accepts
func (t *Table) Filter(pred func(Row) bool) *Table {
	var kept [][]string
	for i := range t.Rows {
		if pred(Row{t: t, i: i}) {
			kept = append(kept, t.Rows[i])
		}
	}
	return NewTable(t.Headers, kept)
}

// SortBy returns a new table with rows in the order the comparison gives,
// stable over ties. The receiver is unchanged.
func (t *Table) SortBy(less func(a, b Row) bool) *Table {
	order := make([]int, len(t.Rows))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		return less(Row{t: t, i: order[x]}, Row{t: t, i: order[y]})
	})
	sorted := make([][]string, len(t.Rows))
	for i, idx := range order {
		sorted[i] = t.Rows[idx]
	}
	return NewTable(t.Headers, sorted)
}

// Unique returns the distinct values of a column in first-seen order
func (t *Table) Unique(name string) []string {
	i, ok := t.ColumnIndex(name)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var out []string
	for _, row := range t.Rows {
		v := row[i]
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
