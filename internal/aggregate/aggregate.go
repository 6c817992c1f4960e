// Package aggregate groups a Table by key columns and reduces a target column,
// producing Derived Tables for the trend and ranking pages.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// ErrNotNumeric is returned when a numeric reducer meets a non-numeric target.
var ErrNotNumeric = table.ErrNotNumeric

// ColumnError reports a key or target column missing from the input.
type ColumnError = table.ColumnError

// Reducer names the statistic computed per group.
type Reducer string

const (
	Mean  Reducer = "mean"
	Sum   Reducer = "sum"
	Max   Reducer = "max"
	Min   Reducer = "min"
	Count Reducer = "count"
)

// ParseReducer validates a reducer name.
func ParseReducer(s string) (Reducer, error) {
	switch r := Reducer(strings.ToLower(strings.TrimSpace(s))); r {
	case Mean, Sum, Max, Min, Count:
		return r, nil
	}
	return "", fmt.Errorf("unknown reducer %q (use mean|sum|max|min|count)", s)
}

// Request describes one group-and-reduce.
type Request struct {
	Keys    []string
	Target  string
	Reducer Reducer
	// SortKeys orders groups by key instead of by first occurrence.
	SortKeys bool
}

// Group is one row of a Result.
type Group struct {
	Key []string
	// Value is meaningless when Null is set.
	Value float64
	Null  bool
	// Size counts rows in the group; Count counts those with a target value.
	Size  int
	Count int
}

// Label joins a composite key for display.
func (g Group) Label() string { return strings.Join(g.Key, ", ") }

// Result is a grouped and reduced table, in group order.
type Result struct {
	Name    string
	Keys    []string
	Target  string
	Reducer Reducer
	Groups  []Group
	// Dropped lists keys removed by a Reindex with DropUnknown.
	Dropped []string

	keyKinds []table.Kind
}

type acc struct {
	group Group
	sum   float64
	max   float64
	min   float64
}

// GroupBy groups t by req.Keys and reduces req.Target. Rows with a null key are
// skipped; null targets are ignored, and a group with no target values reduces
// to null (or 0 for Count).
func GroupBy(t *table.Table, req Request) (*Result, error) {
	if len(req.Keys) == 0 {
		return nil, fmt.Errorf("group by: no key columns")
	}
	if req.Reducer == "" {
		req.Reducer = Mean
	}
	if _, err := ParseReducer(string(req.Reducer)); err != nil {
		return nil, err
	}
	keys := make([]*table.Column, len(req.Keys))
	kinds := make([]table.Kind, len(req.Keys))
	for i, k := range req.Keys {
		c, err := t.Column(k)
		if err != nil {
			return nil, fmt.Errorf("group key: %w", err)
		}
		keys[i], kinds[i] = c, c.Kind
	}
	target, err := t.Column(req.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	if req.Reducer != Count && target.Kind != table.KindNumeric && target.Kind != table.KindEmpty {
		return nil, fmt.Errorf("%s of %q (%s): %w", req.Reducer, req.Target, target.Kind, ErrNotNumeric)
	}

	index := map[string]int{}
	var accs []*acc
rows:
	for i := 0; i < t.Rows(); i++ {
		key := make([]string, len(keys))
		for j, c := range keys {
			if c.IsNull(i) {
				continue rows
			}
			key[j] = c.Key(i)
		}
		id := strings.Join(key, "\x1f")
		pos, ok := index[id]
		if !ok {
			pos = len(accs)
			index[id] = pos
			accs = append(accs, &acc{group: Group{Key: key}, max: math.Inf(-1), min: math.Inf(1)})
		}
		a := accs[pos]
		a.group.Size++
		if target.IsNull(i) {
			continue
		}
		a.group.Count++
		if x, ok := target.Float(i); ok {
			a.sum += x
			a.max = math.Max(a.max, x)
			a.min = math.Min(a.min, x)
		}
	}

	res := &Result{
		Name:     fmt.Sprintf("%s of %s by %s", req.Reducer, req.Target, strings.Join(req.Keys, ", ")),
		Keys:     append([]string(nil), req.Keys...),
		Target:   req.Target,
		Reducer:  req.Reducer,
		keyKinds: kinds,
	}
	for _, a := range accs {
		g := a.group
		switch {
		case req.Reducer == Count:
			g.Value = float64(g.Count)
		case g.Count == 0:
			g.Null = true
		case req.Reducer == Mean:
			g.Value = a.sum / float64(g.Count)
		case req.Reducer == Sum:
			g.Value = a.sum
		case req.Reducer == Max:
			g.Value = a.max
		case req.Reducer == Min:
			g.Value = a.min
		}
		res.Groups = append(res.Groups, g)
	}
	if req.SortKeys {
		sort.SliceStable(res.Groups, func(i, j int) bool {
			return compareKeys(res.Groups[i].Key, res.Groups[j].Key) < 0
		})
	}
	return res, nil
}

// compareKeys orders composite keys position by position, numerically when
// both parts are numbers.
func compareKeys(a, b []string) int {
	for i := range a {
		x, errx := strconv.ParseFloat(a[i], 64)
		y, erry := strconv.ParseFloat(b[i], 64)
		if errx == nil && erry == nil {
			if x != y {
				if x < y {
					return -1
				}
				return 1
			}
			continue
		}
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func (r *Result) clone() *Result {
	out := *r
	out.Groups = append([]Group(nil), r.Groups...)
	out.Dropped = append([]string(nil), r.Dropped...)
	return &out
}

// Len returns the number of groups.
func (r *Result) Len() int { return len(r.Groups) }

// Lookup finds the group with the given key.
func (r *Result) Lookup(key ...string) (Group, bool) {
	for _, g := range r.Groups {
		if len(g.Key) == len(key) && compareKeys(g.Key, key) == 0 {
			return g, true
		}
	}
	return Group{}, false
}

// SortByValue orders groups by value; nulls go last and ties keep their order.
func (r *Result) SortByValue(desc bool) *Result {
	out := r.clone()
	sort.SliceStable(out.Groups, func(i, j int) bool {
		a, b := out.Groups[i], out.Groups[j]
		if a.Null || b.Null {
			return !a.Null && b.Null
		}
		if desc {
			return a.Value > b.Value
		}
		return a.Value < b.Value
	})
	return out
}

// Round rounds every value half away from zero to places decimals.
func (r *Result) Round(places int) *Result {
	out := r.clone()
	p := math.Pow(10, float64(places))
	for i := range out.Groups {
		if !out.Groups[i].Null {
			out.Groups[i].Value = math.Round(out.Groups[i].Value*p) / p
		}
	}
	return out
}

// IdxMax returns the first group holding the largest value.
func (r *Result) IdxMax() (Group, bool) {
	best := -1
	for i, g := range r.Groups {
		if g.Null {
			continue
		}
		if best < 0 || g.Value > r.Groups[best].Value {
			best = i
		}
	}
	if best < 0 {
		return Group{}, false
	}
	return r.Groups[best], true
}

// Labels and Values return the group keys and values as parallel slices; null
// groups are NaN.
func (r *Result) Labels() []string {
	out := make([]string, len(r.Groups))
	for i, g := range r.Groups {
		out[i] = g.Label()
	}
	return out
}

func (r *Result) Values() []float64 {
	out := make([]float64, len(r.Groups))
	for i, g := range r.Groups {
		if g.Null {
			out[i] = math.NaN()
			continue
		}
		out[i] = g.Value
	}
	return out
}

// Table returns the result as a Derived Table: one column per key followed by
// the reduced value column.
func (r *Result) Table() (*table.Table, error) {
	cols := make([]*table.Column, 0, len(r.Keys)+1)
	for j, name := range r.Keys {
		vals := make([]string, len(r.Groups))
		for i, g := range r.Groups {
			vals[i] = g.Key[j]
		}
		cols = append(cols, keyColumn(name, vals, r.keyKinds[j]))
	}
	valueName := r.Target
	for _, k := range r.Keys {
		if k == valueName {
			valueName = fmt.Sprintf("%s_%s", r.Target, r.Reducer)
		}
	}
	cols = append(cols, table.NewNumeric(valueName, r.Values(), nil))
	return table.New(r.Name, cols...)
}

func keyColumn(name string, vals []string, kind table.Kind) *table.Column {
	if kind == table.KindNumeric {
		nums := make([]float64, len(vals))
		ok := true
		for i, v := range vals {
			x, err := strconv.ParseFloat(v, 64)
			if err != nil {
				ok = false
				break
			}
			nums[i] = x
		}
		if ok {
			return table.NewNumeric(name, nums, nil)
		}
	}
	return table.NewCategorical(name, vals, nil)
}
