package analysis

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// NoExample is reported as the example value of a column with no values.
const NoExample = "N/A"

// ErrTooFewColumns is returned when a correlation has fewer than two numeric columns.
var ErrTooFewColumns = errors.New("need at least two numeric columns")

// Options controls what Summarize computes.
type Options struct {
	// SampleRows is the number of leading rows kept in Summary.Head.
	SampleRows int
	// TopValues limits the most frequent values listed per categorical column.
	TopValues int
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
}

// DefaultOptions returns reasonable defaults for dataset summaries.
func DefaultOptions() Options {
	return Options{
		SampleRows:       5,
		TopValues:        5,
		Outliers:         true,
		OutlierThreshold: 3.5,
	}
}

// Summary is the per-table overview shown on the overview pages.
type Summary struct {
	Name      string
	Rows      int
	Cols      int
	Truncated int
	Columns   []ColumnInfo
	Describe  []NumericStats
	Missing   []MissingCount
	// MemoryBytes approximates the in-memory footprint of the table.
	MemoryBytes int64
	Head        *table.Table
	Warnings    []string
}

// ColumnInfo is one row of the info table.
type ColumnInfo struct {
	Name      string
	Kind      table.Kind
	Dtype     string
	NonNull   int
	Missing   int
	Unique    int
	Example   string
	TopValues []CategoryCount
}

// NumericStats is one column of describe().
type NumericStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
}

// MissingCount is a per-column null count.
type MissingCount struct {
	Column string
	Count  int
}

// CategoryCount is one entry of a value count.
type CategoryCount struct {
	Value string
	Count int
}

// Summarize computes the info table, describe(), missing counts and memory
// footprint of t. Columns without values are reported, not rejected.
func Summarize(t *table.Table, opt Options) (*Summary, error) {
	if t == nil {
		return nil, fmt.Errorf("summarize: nil table")
	}
	rows, cols := t.Shape()
	s := &Summary{Name: t.Name, Rows: rows, Cols: cols, Truncated: t.Truncated}
	if opt.SampleRows > 0 {
		s.Head = t.Head(opt.SampleRows)
	}
	for _, c := range t.Columns() {
		info := ColumnInfo{
			Name:    c.Name,
			Kind:    c.Kind,
			Dtype:   c.Dtype(),
			NonNull: c.NonNull(),
			Missing: c.Missing(),
			Unique:  c.Unique(),
			Example: NoExample,
		}
		if ex, ok := c.Example(); ok {
			info.Example = ex
		}
		if c.Kind == table.KindCategorical && opt.TopValues > 0 {
			info.TopValues = countValues(c, opt.TopValues)
		}
		s.Columns = append(s.Columns, info)
		s.MemoryBytes += c.MemoryBytes()

		if info.Missing > 0 {
			s.Missing = append(s.Missing, MissingCount{Column: c.Name, Count: info.Missing})
		}
		if c.Kind == table.KindNumeric {
			st := describe(c)
			if opt.Outliers {
				thr := opt.OutlierThreshold
				if thr <= 0 {
					thr = 3.5
				}
				st.OutliersCount, st.OutliersMaxAbsZ = robustOutliers(c.Floats(), thr)
				st.OutlierThreshold = thr
			}
			s.Describe = append(s.Describe, st)
		}
		if c.Kind == table.KindEmpty {
			s.Warnings = append(s.Warnings, fmt.Sprintf("column %q has no values", c.Name))
		}
	}
	sort.SliceStable(s.Missing, func(i, j int) bool {
		if s.Missing[i].Count == s.Missing[j].Count {
			return s.Missing[i].Column < s.Missing[j].Column
		}
		return s.Missing[i].Count > s.Missing[j].Count
	})
	if t.Truncated > 0 {
		s.Warnings = append(s.Warnings, fmt.Sprintf("loaded only %d/%d rows due to max_rows", rows, rows+t.Truncated))
	}
	return s, nil
}

// MemoryMB returns MemoryBytes in mebibytes.
func (s *Summary) MemoryMB() float64 { return float64(s.MemoryBytes) / (1024 * 1024) }

// Column returns the info row for name.
func (s *Summary) Column(name string) (ColumnInfo, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnInfo{}, false
}

// Stats returns the describe() column for name.
func (s *Summary) Stats(name string) (NumericStats, bool) {
	for _, d := range s.Describe {
		if d.Column == name {
			return d, true
		}
	}
	return NumericStats{}, false
}

func describe(c *table.Column) NumericStats {
	vals := c.Floats()
	st := NumericStats{Column: c.Name, Count: len(vals)}
	if len(vals) == 0 {
		nan := math.NaN()
		st.Mean, st.Std, st.Min, st.Q25, st.Q50, st.Q75, st.Max = nan, nan, nan, nan, nan, nan, nan
		return st
	}
	st.Mean, st.Std = meanStd(vals)
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	st.Min = sorted[0]
	st.Max = sorted[len(sorted)-1]
	st.Q25 = quantile(sorted, 0.25)
	st.Q50 = quantile(sorted, 0.5)
	st.Q75 = quantile(sorted, 0.75)
	return st
}
