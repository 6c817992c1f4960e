package table

import (
	"math"
	"strconv"
	"time"
)

// Kind is the inferred type of a column.
type Kind string

const (
	KindNumeric     Kind = "numeric"
	KindDatetime    Kind = "datetime"
	KindCategorical Kind = "categorical"
	// KindEmpty marks a column with no non-null cell.
	KindEmpty Kind = "empty"
)

// Column is a homogeneous, immutable sequence of cells. Every column keeps the
// original cell text so a Table can be written back out unchanged; numeric and
// datetime columns additionally carry parsed values.
type Column struct {
	Name string
	Kind Kind

	cells []string
	null  []bool
	nums  []float64
	times []time.Time
}

// NewNumeric builds a numeric column. NaN values and indexes set in null are
// treated as missing. null may be nil.
func NewNumeric(name string, vals []float64, null []bool) *Column {
	c := &Column{Name: name, Kind: KindNumeric, cells: make([]string, len(vals)), null: make([]bool, len(vals)), nums: make([]float64, len(vals))}
	for i, v := range vals {
		if math.IsNaN(v) || (null != nil && null[i]) {
			c.null[i] = true
			c.nums[i] = math.NaN()
			continue
		}
		c.nums[i] = v
		c.cells[i] = FormatFloat(v)
	}
	c.settle()
	return c
}

// NewCategorical builds a categorical column. null may be nil.
func NewCategorical(name string, vals []string, null []bool) *Column {
	c := &Column{Name: name, Kind: KindCategorical, cells: make([]string, len(vals)), null: make([]bool, len(vals))}
	for i, v := range vals {
		if null != nil && null[i] {
			c.null[i] = true
			continue
		}
		c.cells[i] = v
	}
	c.settle()
	return c
}

// NewDatetime builds a datetime column whose cell text uses layout.
func NewDatetime(name string, vals []time.Time, null []bool, layout string) *Column {
	c := &Column{Name: name, Kind: KindDatetime, cells: make([]string, len(vals)), null: make([]bool, len(vals)), times: make([]time.Time, len(vals))}
	for i, v := range vals {
		if null != nil && null[i] {
			c.null[i] = true
			continue
		}
		c.times[i] = v
		c.cells[i] = v.Format(layout)
	}
	c.settle()
	return c
}

// settle downgrades a column with no values to KindEmpty.
func (c *Column) settle() {
	if c.NonNull() == 0 {
		c.Kind = KindEmpty
	}
}

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.cells) }

// IsNull reports whether cell i is missing.
func (c *Column) IsNull(i int) bool { return c.null[i] }

// String returns the cell text, or "" for a null cell.
func (c *Column) String(i int) string { return c.cells[i] }

// Float returns the numeric value of cell i.
func (c *Column) Float(i int) (float64, bool) {
	if c.Kind != KindNumeric || c.null[i] {
		return 0, false
	}
	return c.nums[i], true
}

// Time returns the parsed timestamp of cell i.
func (c *Column) Time(i int) (time.Time, bool) {
	if c.Kind != KindDatetime || c.null[i] {
		return time.Time{}, false
	}
	return c.times[i], true
}

// Floats returns the non-null numeric values in row order.
func (c *Column) Floats() []float64 {
	if c.Kind != KindNumeric {
		return nil
	}
	out := make([]float64, 0, len(c.nums))
	for i, v := range c.nums {
		if !c.null[i] {
			out = append(out, v)
		}
	}
	return out
}

// NonNull counts cells with a value.
func (c *Column) NonNull() int {
	n := 0
	for _, isNull := range c.null {
		if !isNull {
			n++
		}
	}
	return n
}

// Missing counts null cells.
func (c *Column) Missing() int { return c.Len() - c.NonNull() }

// Unique counts distinct non-null values. Numeric cells compare by value so
// "1" and "1.0" are the same.
func (c *Column) Unique() int {
	seen := make(map[string]struct{})
	for i := range c.cells {
		if c.null[i] {
			continue
		}
		seen[c.key(i)] = struct{}{}
	}
	return len(seen)
}

// Example returns the first non-null cell.
func (c *Column) Example() (string, bool) {
	for i, s := range c.cells {
		if !c.null[i] {
			return s, true
		}
	}
	return "", false
}

// Dtype returns a pandas-style dtype tag.
func (c *Column) Dtype() string {
	switch c.Kind {
	case KindNumeric:
		if c.Missing() > 0 {
			return "float64"
		}
		for _, v := range c.nums {
			if v != math.Trunc(v) || math.IsInf(v, 0) {
				return "float64"
			}
		}
		return "int64"
	case KindDatetime:
		return "datetime64[ns]"
	case KindEmpty:
		return "float64"
	default:
		return "object"
	}
}

// MemoryBytes approximates the in-memory footprint of the column.
func (c *Column) MemoryBytes() int64 {
	var n int64
	for _, s := range c.cells {
		n += int64(len(s)) + 16
	}
	switch c.Kind {
	case KindNumeric:
		n += int64(len(c.nums)) * 8
	case KindDatetime:
		n += int64(len(c.times)) * 24
	}
	return n + int64(len(c.null))
}

// key identifies the value of cell i for grouping and distinct counts.
func (c *Column) key(i int) string {
	if c.Kind == KindNumeric && !c.null[i] {
		return FormatFloat(c.nums[i])
	}
	return c.cells[i]
}

// Key is the grouping identity of cell i; numeric cells are normalised.
func (c *Column) Key(i int) string { return c.key(i) }

// take returns a new column with the rows at idx, in that order.
func (c *Column) take(idx []int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, cells: make([]string, len(idx)), null: make([]bool, len(idx))}
	if c.nums != nil {
		out.nums = make([]float64, len(idx))
	}
	if c.times != nil {
		out.times = make([]time.Time, len(idx))
	}
	for j, i := range idx {
		out.cells[j] = c.cells[i]
		out.null[j] = c.null[i]
		if c.nums != nil {
			out.nums[j] = c.nums[i]
		}
		if c.times != nil {
			out.times[j] = c.times[i]
		}
	}
	if out.Kind != KindEmpty {
		out.settle()
	}
	return out
}

// Rename returns a shallow copy of c under a new name.
func (c *Column) Rename(name string) *Column {
	cp := *c
	cp.Name = name
	return &cp
}

// FormatFloat renders v in its shortest round-tripping form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
