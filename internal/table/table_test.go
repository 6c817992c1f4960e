package table

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsRaggedColumns(t *testing.T) {
	a := NewNumeric("a", []float64{1, 2}, nil)
	b := NewNumeric("b", []float64{1}, nil)
	_, err := New("t", a, b)
	assert.Error(t, err)

	_, err = New("t", a, a.Rename("a"))
	assert.Error(t, err)
}

func TestSelectHeadAndMissingColumn(t *testing.T) {
	tbl, err := Read(strings.NewReader(carsCSV), "cars", DefaultOptions())
	require.NoError(t, err)

	sel, err := tbl.Select("Name", "Price")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Price"}, sel.Names())
	assert.Equal(t, tbl.Rows(), sel.Rows())

	head := tbl.Head(2)
	assert.Equal(t, 2, head.Rows())
	assert.Equal(t, "Hyundai Creta", head.Row(1)[0])
	assert.Equal(t, tbl.Rows(), tbl.Head(50).Rows())

	_, err = tbl.Select("Nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrColumnNotFound))
	var ce *ColumnError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Nope", ce.Column)
}

func TestSortByNullsLast(t *testing.T) {
	tbl, err := Read(strings.NewReader(carsCSV), "cars", DefaultOptions())
	require.NoError(t, err)

	desc, err := tbl.SortBy("Kilometers_Driven", false)
	require.NoError(t, err)
	assert.Equal(t, "Maruti Ertiga", desc.Row(0)[0])

	byPrice, err := tbl.SortBy("Price", true)
	require.NoError(t, err)
	assert.Equal(t, "Maruti Wagon R", byPrice.Row(0)[0])
	assert.Equal(t, "Audi A4", byPrice.Row(4)[0])

	byPriceDesc, err := tbl.SortBy("Price", false)
	require.NoError(t, err)
	assert.Equal(t, "Audi A4", byPriceDesc.Row(4)[0])
}

func TestWithColumnAndTimeParts(t *testing.T) {
	opt := DefaultOptions()
	opt.TimeColumns = []string{"DateTime"}
	tbl, err := Read(strings.NewReader("DateTime,v\n2006-12-16 17:24:00,1\n2007-01-01 00:05:00,2\n"), "p", opt)
	require.NoError(t, err)
	dt, _ := tbl.Column("DateTime")

	hour, err := DeriveTimePart(dt, PartHour, "")
	require.NoError(t, err)
	wd, err := DeriveTimePart(dt, PartWeekday, "weekday")
	require.NoError(t, err)
	mn, err := DeriveTimePart(dt, PartMonthName, "")
	require.NoError(t, err)

	out, err := tbl.WithColumn(hour)
	require.NoError(t, err)
	out, err = out.WithColumn(wd)
	require.NoError(t, err)
	out, err = out.WithColumn(mn)
	require.NoError(t, err)

	assert.Equal(t, []string{"DateTime", "v", "hour", "weekday", "month_name"}, out.Names())
	assert.Equal(t, []string{"2006-12-16 17:24:00", "1", "17", "Saturday", "Dec"}, out.Row(0))
	assert.Equal(t, 2, tbl.NumCols(), "source table must not change")

	v, _ := tbl.Column("v")
	_, err = DeriveTimePart(v, PartHour, "")
	assert.True(t, errors.Is(err, ErrNotDatetime))
}

func TestParseTimeColumn(t *testing.T) {
	c := NewCategorical("Date", []string{"16/12/2006", "17/12/2006"}, nil)
	dt, err := ParseTimeColumn(c)
	require.NoError(t, err)
	ts, ok := dt.Time(1)
	require.True(t, ok)
	assert.Equal(t, time.Date(2006, 12, 17, 0, 0, 0, 0, time.UTC), ts)
	assert.Equal(t, "17/12/2006", dt.String(1))
}
