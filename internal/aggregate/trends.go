package aggregate

import (
	"fmt"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// TrendOptions names the timestamp and the measured column.
type TrendOptions struct {
	TimeColumn string
	Target     string
	// Policy applies to the weekday and month reindexing.
	Policy Policy
}

// TrendSet is the hourly, daily, weekday and monthly view of one measure.
type TrendSet struct {
	Hourly   *Result
	Daily    *Result
	Weekday  *Result
	Monthly  *Result
	Insights Insights
}

// Insights are the headline facts drawn from a TrendSet.
type Insights struct {
	PeakHour        string
	PeakHourValue   float64
	HighestDay      string
	HighestDayValue float64
}

// Trends derives hour, date, weekday and month keys from the time column and
// reduces the target over each: hourly mean, daily sum, weekday mean in
// Monday..Sunday order and monthly mean in Jan..Dec order.
func Trends(t *table.Table, opt TrendOptions) (*TrendSet, error) {
	tc, err := t.Column(opt.TimeColumn)
	if err != nil {
		return nil, fmt.Errorf("time column: %w", err)
	}
	if tc.Kind != table.KindDatetime {
		if tc, err = table.ParseTimeColumn(tc); err != nil {
			return nil, fmt.Errorf("time column %q: %w", opt.TimeColumn, err)
		}
	}
	target, err := t.Column(opt.Target)
	if err != nil {
		return nil, fmt.Errorf("target: %w", err)
	}
	if target.Kind != table.KindNumeric {
		return nil, fmt.Errorf("trend of %q (%s): %w", opt.Target, target.Kind, ErrNotNumeric)
	}

	parts := []struct {
		part table.TimePart
		name string
	}{
		{table.PartHour, "hour"},
		{table.PartDate, "date"},
		{table.PartWeekday, "weekday"},
		{table.PartMonthName, "month"},
	}
	work, err := table.New(t.Name, target)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		c, err := table.DeriveTimePart(tc, p.part, p.name)
		if err != nil {
			return nil, err
		}
		if work, err = work.WithColumn(c); err != nil {
			return nil, err
		}
	}

	set := &TrendSet{}
	if set.Hourly, err = GroupBy(work, Request{Keys: []string{"hour"}, Target: opt.Target, Reducer: Mean, SortKeys: true}); err != nil {
		return nil, err
	}
	if set.Daily, err = GroupBy(work, Request{Keys: []string{"date"}, Target: opt.Target, Reducer: Sum, SortKeys: true}); err != nil {
		return nil, err
	}
	weekday, err := GroupBy(work, Request{Keys: []string{"weekday"}, Target: opt.Target, Reducer: Mean})
	if err != nil {
		return nil, err
	}
	if set.Weekday, err = weekday.Reindex(Weekdays, opt.Policy); err != nil {
		return nil, fmt.Errorf("weekday order: %w", err)
	}
	monthly, err := GroupBy(work, Request{Keys: []string{"month"}, Target: opt.Target, Reducer: Mean})
	if err != nil {
		return nil, err
	}
	if set.Monthly, err = monthly.Reindex(Months, opt.Policy); err != nil {
		return nil, fmt.Errorf("month order: %w", err)
	}

	if g, ok := set.Hourly.IdxMax(); ok {
		set.Insights.PeakHour, set.Insights.PeakHourValue = g.Label(), g.Value
	}
	if g, ok := set.Daily.IdxMax(); ok {
		set.Insights.HighestDay, set.Insights.HighestDayValue = g.Label(), g.Value
	}
	return set, nil
}
