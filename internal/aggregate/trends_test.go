package aggregate

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// powerWeek spans 2006-12-16 (Saturday) to 2006-12-22 with two readings a day:
// 17:24 reads d+1 and 18:24 reads 2(d+1).
func powerWeek(t *testing.T) *table.Table {
	t.Helper()
	var b strings.Builder
	b.WriteString("DateTime,Total_sub_metering\n")
	for d := 0; d < 7; d++ {
		fmt.Fprintf(&b, "2006-12-%d 17:24:00,%d\n", 16+d, d+1)
		fmt.Fprintf(&b, "2006-12-%d 18:24:00,%d\n", 16+d, 2*(d+1))
	}
	opt := table.DefaultOptions()
	opt.TimeColumns = []string{"DateTime"}
	tbl, err := table.Read(strings.NewReader(b.String()), "power", opt)
	require.NoError(t, err)
	return tbl
}

func TestTrends(t *testing.T) {
	set, err := Trends(powerWeek(t), TrendOptions{TimeColumn: "DateTime", Target: "Total_sub_metering"})
	require.NoError(t, err)

	assert.Equal(t, []string{"17", "18"}, set.Hourly.Labels())
	assert.Equal(t, []float64{4, 8}, set.Hourly.Values())

	assert.Equal(t, 7, set.Daily.Len())
	first, _ := set.Daily.Lookup("2006-12-16")
	assert.Equal(t, 3.0, first.Value)

	assert.Equal(t, Weekdays, set.Weekday.Labels())
	sat, _ := set.Weekday.Lookup("Saturday")
	assert.Equal(t, 1.5, sat.Value)
	mon, _ := set.Weekday.Lookup("Monday")
	assert.Equal(t, 4.5, mon.Value)

	assert.Equal(t, Months, set.Monthly.Labels())
	dec, _ := set.Monthly.Lookup("Dec")
	assert.Equal(t, 6.0, dec.Value)
	jan, _ := set.Monthly.Lookup("Jan")
	assert.True(t, jan.Null)

	assert.Equal(t, "18", set.Insights.PeakHour)
	assert.Equal(t, 8.0, set.Insights.PeakHourValue)
	assert.Equal(t, "2006-12-22", set.Insights.HighestDay)
	assert.Equal(t, 21.0, set.Insights.HighestDayValue)
}

func TestTrendsParsesTextTimestamps(t *testing.T) {
	opt := table.DefaultOptions()
	opt.InferTimes = false
	tbl, err := table.Read(strings.NewReader("Date,v\n16/12/2006,1\n17/12/2006,2\n"), "p", opt)
	require.NoError(t, err)

	set, err := Trends(tbl, TrendOptions{TimeColumn: "Date", Target: "v"})
	require.NoError(t, err)
	assert.Equal(t, "2006-12-17", set.Insights.HighestDay)
}

func TestTrendsErrors(t *testing.T) {
	tbl := powerWeek(t)
	_, err := Trends(tbl, TrendOptions{TimeColumn: "When", Target: "Total_sub_metering"})
	assert.True(t, errors.Is(err, table.ErrColumnNotFound))

	_, err = Trends(tbl, TrendOptions{TimeColumn: "DateTime", Target: "Voltage"})
	assert.True(t, errors.Is(err, table.ErrColumnNotFound))

	_, err = Trends(tbl, TrendOptions{TimeColumn: "Total_sub_metering", Target: "Total_sub_metering"})
	assert.True(t, errors.Is(err, table.ErrNotDatetime))
}
