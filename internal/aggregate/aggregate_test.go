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

const carsCSV = `Name,Location,Year,Kilometers_Driven,Fuel_Type,Price,Company_Name
Maruti Wagon R,Mumbai,2010,72000,CNG,1.75,Maruti
Hyundai Creta,Pune,2015,41000,Diesel,12.5,Hyundai
Honda Jazz,Chennai,2011,46000,Petrol,4.5,Honda
Maruti Ertiga,Chennai,2012,87000,Diesel,6,Maruti
Audi A4,Coimbatore,2013,40670,Diesel,,Audi
`

func loadCars(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.Read(strings.NewReader(carsCSV), "cars.csv", table.DefaultOptions())
	require.NoError(t, err)
	return tbl
}

func TestGroupByMeanMatchesRestrictedMean(t *testing.T) {
	cars := loadCars(t)
	res, err := GroupBy(cars, Request{Keys: []string{"Company_Name"}, Target: "Price", Reducer: Mean})
	require.NoError(t, err)

	assert.Equal(t, []string{"Maruti", "Hyundai", "Honda", "Audi"}, res.Labels())
	maruti, ok := res.Lookup("Maruti")
	require.True(t, ok)
	assert.InDelta(t, (1.75+6)/2, maruti.Value, 1e-12)
	assert.Equal(t, 2, maruti.Size)

	audi, _ := res.Lookup("Audi")
	assert.True(t, audi.Null, "a group with only null targets reduces to null")
	assert.Equal(t, 1, audi.Size)
	assert.Equal(t, 0, audi.Count)
}

func TestGroupByReducers(t *testing.T) {
	cars := loadCars(t)
	cases := []struct {
		reducer Reducer
		want    float64
	}{
		{Sum, 18.5},
		{Max, 12.5},
		{Min, 6},
		{Count, 2},
	}
	for _, tc := range cases {
		t.Run(string(tc.reducer), func(t *testing.T) {
			res, err := GroupBy(cars, Request{Keys: []string{"Fuel_Type"}, Target: "Price", Reducer: tc.reducer})
			require.NoError(t, err)
			g, ok := res.Lookup("Diesel")
			require.True(t, ok)
			assert.Equal(t, tc.want, g.Value)
		})
	}

	res, err := GroupBy(cars, Request{Keys: []string{"Fuel_Type"}, Target: "Name", Reducer: Count})
	require.NoError(t, err)
	g, _ := res.Lookup("Diesel")
	assert.Equal(t, 3.0, g.Value)
}

func TestGroupBySortKeysAndCompositeKeys(t *testing.T) {
	cars := loadCars(t)
	res, err := GroupBy(cars, Request{Keys: []string{"Year"}, Target: "Kilometers_Driven", Reducer: Max, SortKeys: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"2010", "2011", "2012", "2013", "2015"}, res.Labels())

	multi, err := GroupBy(cars, Request{Keys: []string{"Location", "Fuel_Type"}, Target: "Price", Reducer: Count})
	require.NoError(t, err)
	assert.Equal(t, 5, multi.Len())
	g, ok := multi.Lookup("Chennai", "Diesel")
	require.True(t, ok)
	assert.Equal(t, "Chennai, Diesel", g.Label())

	_, err = multi.Reindex([]string{"Chennai"}, DropUnknown)
	assert.Error(t, err)
}

func TestGroupByDropsNullKeys(t *testing.T) {
	tbl, err := table.Read(strings.NewReader("k,v\na,1\n,2\na,3\nb,4\n"), "n", table.DefaultOptions())
	require.NoError(t, err)
	res, err := GroupBy(tbl, Request{Keys: []string{"k"}, Target: "v", Reducer: Sum})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, res.Labels())
	assert.Equal(t, []float64{4, 4}, res.Values())
}

func TestGroupByErrors(t *testing.T) {
	cars := loadCars(t)

	_, err := GroupBy(cars, Request{Keys: []string{"Brand"}, Target: "Price"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, table.ErrColumnNotFound))
	var ce *ColumnError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "Brand", ce.Column)

	_, err = GroupBy(cars, Request{Keys: []string{"Fuel_Type"}, Target: "Cost"})
	assert.True(t, errors.Is(err, table.ErrColumnNotFound))

	_, err = GroupBy(cars, Request{Keys: []string{"Fuel_Type"}, Target: "Location", Reducer: Mean})
	assert.True(t, errors.Is(err, ErrNotNumeric))

	_, err = GroupBy(cars, Request{Keys: []string{"Fuel_Type"}, Target: "Price", Reducer: "median"})
	assert.Error(t, err)

	_, err = GroupBy(cars, Request{Target: "Price"})
	assert.Error(t, err)
}

func TestAverageByBrandSortedAndRounded(t *testing.T) {
	cars := loadCars(t)
	res, err := GroupBy(cars, Request{Keys: []string{"Company_Name"}, Target: "Price", Reducer: Mean})
	require.NoError(t, err)
	ranked := res.SortByValue(true).Round(2)

	assert.Equal(t, []string{"Hyundai", "Honda", "Maruti", "Audi"}, ranked.Labels())
	assert.Equal(t, 3.88, ranked.Groups[2].Value)
	assert.True(t, ranked.Groups[3].Null)
	assert.Equal(t, []string{"Maruti", "Hyundai", "Honda", "Audi"}, res.Labels(), "source result unchanged")

	top, ok := res.IdxMax()
	require.True(t, ok)
	assert.Equal(t, "Hyundai", top.Label())
}

func TestResultTableKeepsLengthInvariant(t *testing.T) {
	cars := loadCars(t)
	res, err := GroupBy(cars, Request{Keys: []string{"Company_Name"}, Target: "Price", Reducer: Mean})
	require.NoError(t, err)
	out, err := res.Table()
	require.NoError(t, err)

	assert.Equal(t, []string{"Company_Name", "Price"}, out.Names())
	assert.Equal(t, res.Len(), out.Rows())
	for _, c := range out.Columns() {
		assert.Equal(t, out.Rows(), c.Len())
	}
	price, _ := out.Column("Price")
	assert.True(t, price.IsNull(3))
	assert.Equal(t, "3.875", price.String(0))

	byYear, err := GroupBy(cars, Request{Keys: []string{"Year"}, Target: "Year", Reducer: Count})
	require.NoError(t, err)
	yt, err := byYear.Table()
	require.NoError(t, err)
	assert.Equal(t, []string{"Year", "Year_count"}, yt.Names())
	year, _ := yt.Column("Year")
	assert.Equal(t, table.KindNumeric, year.Kind)
}

func weekdayResult(t *testing.T, extra ...string) *Result {
	t.Helper()
	var b strings.Builder
	b.WriteString("day,v\n")
	for i, d := range append([]string{"Sunday", "Wednesday", "Monday", "Saturday", "Tuesday", "Friday", "Thursday"}, extra...) {
		fmt.Fprintf(&b, "%s,%d\n", d, i+1)
	}
	tbl, err := table.Read(strings.NewReader(b.String()), "days", table.DefaultOptions())
	require.NoError(t, err)
	res, err := GroupBy(tbl, Request{Keys: []string{"day"}, Target: "v", Reducer: Mean})
	require.NoError(t, err)
	return res
}

func TestReindexWeekdaysReturnsSevenRowsInOrder(t *testing.T) {
	res, err := weekdayResult(t).Reindex(Weekdays, DropUnknown)
	require.NoError(t, err)
	assert.Equal(t, Weekdays, res.Labels())
	assert.Empty(t, res.Dropped)
	mon, _ := res.Lookup("Monday")
	assert.Equal(t, 3.0, mon.Value)
}

func TestReindexUnknownKeyPolicies(t *testing.T) {
	src := weekdayResult(t, "Funday")

	dropped, err := src.Reindex(Weekdays, DropUnknown)
	require.NoError(t, err)
	assert.Equal(t, 7, dropped.Len())
	assert.Equal(t, []string{"Funday"}, dropped.Dropped)

	_, err = src.Reindex(Weekdays, RejectUnknown)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownKeys))
	var uk *UnknownKeysError
	require.True(t, errors.As(err, &uk))
	assert.Equal(t, []string{"Funday"}, uk.Keys)

	appended, err := src.Reindex(Weekdays, AppendUnknown)
	require.NoError(t, err)
	assert.Equal(t, append(append([]string(nil), Weekdays...), "Funday"), appended.Labels())
}

func TestReindexMissingCanonicalKeyIsNull(t *testing.T) {
	tbl, err := table.Read(strings.NewReader("month,v\nJan,1\nMar,3\n"), "m", table.DefaultOptions())
	require.NoError(t, err)
	res, err := GroupBy(tbl, Request{Keys: []string{"month"}, Target: "v", Reducer: Mean})
	require.NoError(t, err)
	out, err := res.Reindex(Months, "")
	require.NoError(t, err)
	assert.Equal(t, Months, out.Labels())
	feb, _ := out.Lookup("Feb")
	assert.True(t, feb.Null)

	dt, err := out.Table()
	require.NoError(t, err)
	assert.Equal(t, 12, dt.Rows())
}

func TestParseHelpers(t *testing.T) {
	r, err := ParseReducer(" SUM ")
	require.NoError(t, err)
	assert.Equal(t, Sum, r)

	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, DropUnknown, p)
	_, err = ParsePolicy("ignore")
	assert.Error(t, err)

	assert.Equal(t, Weekdays, NamedOrder("weekdays"))
	assert.Equal(t, Months, NamedOrder("Months"))
	assert.Equal(t, []string{"b", "a"}, NamedOrder("b, a,"))
	assert.Nil(t, NamedOrder(""))
}
