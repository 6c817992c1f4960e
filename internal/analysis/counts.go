package analysis

import (
	"fmt"
	"sort"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// ValueCounts counts the non-null values of a column, most frequent first.
// Ties keep the order of first appearance. limit <= 0 returns every value.
func ValueCounts(t *table.Table, column string, limit int) ([]CategoryCount, error) {
	c, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	return countValues(c, limit), nil
}

func countValues(c *table.Column, limit int) []CategoryCount {
	idx := map[string]int{}
	var out []CategoryCount
	for i := 0; i < c.Len(); i++ {
		if c.IsNull(i) {
			continue
		}
		k := c.Key(i)
		if j, ok := idx[k]; ok {
			out[j].Count++
			continue
		}
		idx[k] = len(out)
		out = append(out, CategoryCount{Value: k, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// TopN returns the n rows with the largest values of the numeric column by,
// projected onto cols when any are given. Nulls in by never rank.
func TopN(t *table.Table, by string, n int, cols ...string) (*table.Table, error) {
	c, err := t.Column(by)
	if err != nil {
		return nil, err
	}
	if c.Kind != table.KindNumeric {
		return nil, fmt.Errorf("top by %q: %w", by, table.ErrNotNumeric)
	}
	sorted, err := t.SortBy(by, false)
	if err != nil {
		return nil, err
	}
	if n > c.NonNull() {
		n = c.NonNull()
	}
	out := sorted.Head(n)
	if len(cols) == 0 {
		return out, nil
	}
	return out.Select(cols...)
}
