package analysis

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// Markdown renders the summary in bracketed sections for the terminal or docs.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	if s.Truncated > 0 {
		b.WriteString(fmt.Sprintf("Rows: %d (of ~%d)\n", s.Rows, s.Rows+s.Truncated))
	} else {
		b.WriteString(fmt.Sprintf("Rows: %d\n", s.Rows))
	}
	b.WriteString(fmt.Sprintf("Columns: %d\n", s.Cols))
	b.WriteString(fmt.Sprintf("Memory: %.2f MB\n\n", s.MemoryMB()))

	b.WriteString("[SCHEMA]\n")
	b.WriteString("| Column | Dtype | Non-Null | Missing | Unique | Example |\n")
	b.WriteString("| --- | --- | --- | --- | --- | --- |\n")
	for _, c := range s.Columns {
		b.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %d | %s |\n",
			safeName(c.Name), c.Dtype, c.NonNull, c.Missing, c.Unique, clip(safeVal(c.Example), 40)))
	}

	if len(s.Describe) > 0 {
		b.WriteString("\n[DESCRIBE]\n")
		b.WriteString("| stat |")
		for _, d := range s.Describe {
			b.WriteString(" " + safeName(d.Column) + " |")
		}
		b.WriteString("\n|---|")
		for range s.Describe {
			b.WriteString("---|")
		}
		b.WriteString("\n")
		rows := []struct {
			label string
			get   func(NumericStats) float64
		}{
			{"count", func(d NumericStats) float64 { return float64(d.Count) }},
			{"mean", func(d NumericStats) float64 { return d.Mean }},
			{"std", func(d NumericStats) float64 { return d.Std }},
			{"min", func(d NumericStats) float64 { return d.Min }},
			{"25%", func(d NumericStats) float64 { return d.Q25 }},
			{"50%", func(d NumericStats) float64 { return d.Q50 }},
			{"75%", func(d NumericStats) float64 { return d.Q75 }},
			{"max", func(d NumericStats) float64 { return d.Max }},
		}
		for _, r := range rows {
			b.WriteString("| " + r.label + " |")
			for _, d := range s.Describe {
				b.WriteString(" " + FormatStat(r.get(d)) + " |")
			}
			b.WriteString("\n")
		}
		for _, d := range s.Describe {
			if d.OutlierThreshold > 0 && d.OutliersCount > 0 {
				b.WriteString(fmt.Sprintf("- %s: outliers: %d above |z|>%.1f (max |z|≈%.2f)\n",
					d.Column, d.OutliersCount, d.OutlierThreshold, d.OutliersMaxAbsZ))
			}
		}
	}

	b.WriteString("\n[MISSING VALUES]\n")
	if len(s.Missing) == 0 {
		b.WriteString("- none\n")
	}
	for _, m := range s.Missing {
		pct := 0.0
		if s.Rows > 0 {
			pct = float64(m.Count) * 100 / float64(s.Rows)
		}
		b.WriteString(fmt.Sprintf("- %s: %d (%.1f%%)\n", safeName(m.Column), m.Count, pct))
	}

	var cats []ColumnInfo
	for _, c := range s.Columns {
		if len(c.TopValues) > 0 {
			cats = append(cats, c)
		}
	}
	if len(cats) > 0 {
		b.WriteString("\n[TOP VALUES]\n")
		for _, c := range cats {
			b.WriteString(fmt.Sprintf("- %s: ", safeName(c.Name)))
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
			b.WriteString("\n")
		}
	}

	if s.Head != nil && s.Head.Rows() > 0 {
		b.WriteString("\n[HEAD]\n")
		b.WriteString(Markdown(s.Head, 0))
	}
	if len(s.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range s.Warnings {
			b.WriteString("- ")
			b.WriteString(w)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Markdown renders t as a grid. limit > 0 caps the rows shown.
func Markdown(t *table.Table, limit int) string {
	var b strings.Builder
	names := t.Names()
	if len(names) == 0 {
		return "(no columns)\n"
	}
	b.WriteString("| ")
	for i, n := range names {
		if i > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(safeName(n))
	}
	b.WriteString(" |\n|")
	for range names {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	rows := t.Rows()
	if limit > 0 && rows > limit {
		rows = limit
	}
	for i := 0; i < rows; i++ {
		b.WriteString("| ")
		for j, v := range t.Row(i) {
			if j > 0 {
				b.WriteString(" | ")
			}
			b.WriteString(clip(safeVal(v), 80))
		}
		b.WriteString(" |\n")
	}
	if rows < t.Rows() {
		b.WriteString(fmt.Sprintf("(%d more rows)\n", t.Rows()-rows))
	}
	return b.String()
}

// CountsMarkdown renders value counts under a heading.
func CountsMarkdown(column string, counts []CategoryCount) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[VALUE COUNTS: %s]\n", safeName(column)))
	b.WriteString("| " + safeName(column) + " | count |\n| --- | --- |\n")
	for _, kv := range counts {
		b.WriteString(fmt.Sprintf("| %s | %d |\n", safeVal(kv.Value), kv.Count))
	}
	return b.String()
}

// Markdown renders the matrix and its strongest pairs.
func (m *CorrMatrix) Markdown() string {
	var b strings.Builder
	b.WriteString("[CORRELATIONS]\n|  |")
	for _, c := range m.Columns {
		b.WriteString(" " + safeName(c) + " |")
	}
	b.WriteString("\n|---|")
	for range m.Columns {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, c := range m.Columns {
		b.WriteString("| " + safeName(c) + " |")
		for j := range m.Columns {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				b.WriteString(" NaN |")
				continue
			}
			b.WriteString(fmt.Sprintf(" %.3f |", r))
		}
		b.WriteString("\n")
	}
	for _, p := range m.TopPairs(10) {
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
	}
	return b.String()
}

// FormatStat prints a statistic with up to six decimals, like pandas.
func FormatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
