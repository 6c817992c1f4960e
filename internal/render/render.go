package render

import (
	"fmt"

	"github.com/Proxpekt/EDA-Projects/internal/aggregate"
	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// Result is everything one page rerun shows: charts, an optional notice and
// an optional error. Err holds either a planning error (nothing was drawn) or
// a *BuildError (the other charts are still present).
type Result struct {
	Layout *Layout
	Charts []*Chart
	Notice *Notice
	Err    error
}

// Render plans and builds the charts for sel. It does not panic and does not
// modify t.
func Render(t *table.Table, sel Selection, s Style) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("render: %v", r)}
		}
	}()
	s = s.withDefaults()
	if sel.Limit == 0 {
		sel.Limit = s.HeatmapColumns
	}
	l, err := Plan(t, sel)
	if err != nil {
		return Result{Err: err}
	}
	charts, err := Build(t, l, s)
	return Result{Layout: l, Charts: charts, Notice: l.Notice, Err: err}
}

// TrendCharts draws the hourly and daily lines and the weekday and monthly
// bars of a trend set.
func TrendCharts(set *aggregate.TrendSet, s Style) ([]*Chart, error) {
	if set == nil {
		return nil, fmt.Errorf("trend charts: nil trend set")
	}
	views := []struct {
		res   *aggregate.Result
		kind  ChartKind
		title string
	}{
		{set.Hourly, Line, "Hourly average"},
		{set.Daily, Line, "Daily total"},
		{set.Weekday, Bar, "Average by weekday"},
		{set.Monthly, Bar, "Average by month"},
	}
	var (
		charts []*Chart
		first  error
	)
	for _, v := range views {
		if v.res == nil {
			continue
		}
		tbl, err := v.res.Table()
		if err != nil {
			return charts, err
		}
		names := tbl.Names()
		step := Step{Kind: v.kind, X: names[0], Y: names[len(names)-1], Title: fmt.Sprintf("%s %s", v.title, v.res.Target)}
		got, err := Build(tbl, &Layout{Analysis: Trend, Steps: []Step{step}}, s)
		if err != nil && first == nil {
			first = err
		}
		charts = append(charts, got...)
	}
	return charts, first
}
