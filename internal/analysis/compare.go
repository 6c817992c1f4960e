package analysis

import (
	"fmt"
	"strings"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// Comparison contrasts a raw dataset with its cleaned counterpart.
type Comparison struct {
	RawName, CleanName string
	RawRows, RawCols   int
	CleanRows          int
	CleanCols          int
	// Dropped are raw columns absent from the cleaned table; Added the reverse.
	Dropped []string
	Added   []string
	// Retyped lists columns present in both whose kind changed.
	Retyped []Retype
	// RawMissing and CleanMissing are total null cells.
	RawMissing   int
	CleanMissing int
}

// Retype records a column whose inferred kind differs between raw and cleaned.
type Retype struct {
	Column  string
	Raw     table.Kind
	Cleaned table.Kind
}

// Compare reports how the cleaned table differs from the raw one.
func Compare(raw, clean *table.Table) *Comparison {
	cmp := &Comparison{RawName: raw.Name, CleanName: clean.Name}
	cmp.RawRows, cmp.RawCols = raw.Shape()
	cmp.CleanRows, cmp.CleanCols = clean.Shape()
	for _, c := range raw.Columns() {
		cmp.RawMissing += c.Missing()
		other, err := clean.Column(c.Name)
		if err != nil {
			cmp.Dropped = append(cmp.Dropped, c.Name)
			continue
		}
		if other.Kind != c.Kind {
			cmp.Retyped = append(cmp.Retyped, Retype{Column: c.Name, Raw: c.Kind, Cleaned: other.Kind})
		}
	}
	for _, c := range clean.Columns() {
		cmp.CleanMissing += c.Missing()
		if !raw.Has(c.Name) {
			cmp.Added = append(cmp.Added, c.Name)
		}
	}
	return cmp
}

// Markdown renders the comparison as a [SHAPES] section.
func (c *Comparison) Markdown() string {
	var b strings.Builder
	b.WriteString("[SHAPES]\n")
	b.WriteString(fmt.Sprintf("- raw %s: %d rows x %d columns, %d missing cells\n", c.RawName, c.RawRows, c.RawCols, c.RawMissing))
	b.WriteString(fmt.Sprintf("- cleaned %s: %d rows x %d columns, %d missing cells\n", c.CleanName, c.CleanRows, c.CleanCols, c.CleanMissing))
	if d := c.RawRows - c.CleanRows; d > 0 {
		b.WriteString(fmt.Sprintf("- cleaning removed %d row(s)\n", d))
	}
	if len(c.Dropped) > 0 {
		b.WriteString("- dropped columns: " + strings.Join(c.Dropped, ", ") + "\n")
	}
	if len(c.Added) > 0 {
		b.WriteString("- added columns: " + strings.Join(c.Added, ", ") + "\n")
	}
	for _, r := range c.Retyped {
		b.WriteString(fmt.Sprintf("- %s: %s -> %s\n", r.Column, r.Raw, r.Cleaned))
	}
	return b.String()
}
