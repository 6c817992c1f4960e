package table

import (
	"fmt"
	"sort"
	"strings"
)

// Table is an ordered set of equally long named columns. A Table is never
// modified after construction; every derive operation returns a new Table.
type Table struct {
	Name string
	// Truncated counts data rows skipped because of Options.MaxRows.
	Truncated int

	cols  []*Column
	index map[string]int
	rows  int
}

// New assembles a Table and enforces the equal-length invariant.
func New(name string, cols ...*Column) (*Table, error) {
	t := &Table{Name: name, index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, dup := t.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		if i == 0 {
			t.rows = c.Len()
		} else if c.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), t.rows)
		}
		t.index[c.Name] = i
		t.cols = append(t.cols, c)
	}
	return t, nil
}

// Rows returns the row count.
func (t *Table) Rows() int { return t.rows }

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Shape returns rows and columns.
func (t *Table) Shape() (int, int) { return t.rows, len(t.cols) }

// Columns returns the columns in order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.cols))
	copy(out, t.cols)
	return out
}

// Names returns column names in order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Has reports whether the table has the named column.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, &ColumnError{Table: t.Name, Column: name}
	}
	return t.cols[i], nil
}

// NumericColumns lists numeric column names in order.
func (t *Table) NumericColumns() []string {
	var out []string
	for _, c := range t.cols {
		if c.Kind == KindNumeric {
			out = append(out, c.Name)
		}
	}
	return out
}

// Row returns the cell text of row i.
func (t *Table) Row(i int) []string {
	out := make([]string, len(t.cols))
	for j, c := range t.cols {
		out[j] = c.String(i)
	}
	return out
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.Take(idx)
}

// Take returns the rows at idx, in that order.
func (t *Table) Take(idx []int) *Table {
	out := &Table{Name: t.Name, index: make(map[string]int, len(t.cols)), rows: len(idx)}
	for i, c := range t.cols {
		out.cols = append(out.cols, c.take(idx))
		out.index[c.Name] = i
	}
	return out
}

// Select projects the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, n := range names {
		c, err := t.Column(n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	out, err := New(t.Name, cols...)
	if err != nil {
		return nil, err
	}
	out.rows = t.rows
	return out, nil
}

// WithColumn returns a copy of t with c appended, or replacing the column of
// the same name.
func (t *Table) WithColumn(c *Column) (*Table, error) {
	if len(t.cols) > 0 && c.Len() != t.rows {
		return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), t.rows)
	}
	cols := t.Columns()
	if i, ok := t.index[c.Name]; ok {
		cols[i] = c
	} else {
		cols = append(cols, c)
	}
	out, err := New(t.Name, cols...)
	if err != nil {
		return nil, err
	}
	out.Truncated = t.Truncated
	return out, nil
}

// SortBy orders rows by one column. The sort is stable and nulls go last in
// both directions. Numeric and datetime columns sort by value, others by text.
func (t *Table) SortBy(name string, ascending bool) (*Table, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	idx := make([]int, t.rows)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		i, j := idx[a], idx[b]
		if c.null[i] || c.null[j] {
			return !c.null[i] && c.null[j]
		}
		cmp := compareCells(c, i, j)
		if ascending {
			return cmp < 0
		}
		return cmp > 0
	})
	return t.Take(idx), nil
}

func compareCells(c *Column, i, j int) int {
	switch c.Kind {
	case KindNumeric:
		switch {
		case c.nums[i] < c.nums[j]:
			return -1
		case c.nums[i] > c.nums[j]:
			return 1
		}
		return 0
	case KindDatetime:
		return c.times[i].Compare(c.times[j])
	default:
		return strings.Compare(c.cells[i], c.cells[j])
	}
}
