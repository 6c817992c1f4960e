package table

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const carsCSV = `Name,Location,Year,Kilometers_Driven,Fuel_Type,Price,Company_Name
Maruti Wagon R,Mumbai,2010,72000,CNG,1.75,Maruti
Hyundai Creta,Pune,2015,41000,Diesel,12.5,Hyundai
Honda Jazz,Chennai,2011,46000,Petrol,4.5,Honda
Maruti Ertiga,Chennai,2012,87000,Diesel,6,Maruti
Audi A4,Coimbatore,2013,40670,Diesel,,Audi
`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestReadCSVInfersKinds(t *testing.T) {
	p := writeFile(t, "cars.csv", carsCSV)
	tbl, err := ReadCSV(p, DefaultOptions())
	require.NoError(t, err)

	rows, cols := tbl.Shape()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 7, cols)
	assert.Equal(t, "cars.csv", tbl.Name)

	year, err := tbl.Column("Year")
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, year.Kind)
	assert.Equal(t, "int64", year.Dtype())

	price, err := tbl.Column("Price")
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, price.Kind)
	assert.Equal(t, "float64", price.Dtype())
	assert.True(t, price.IsNull(4))
	assert.Equal(t, 4, price.NonNull())

	fuel, err := tbl.Column("Fuel_Type")
	require.NoError(t, err)
	assert.Equal(t, KindCategorical, fuel.Kind)
	assert.Equal(t, "object", fuel.Dtype())
	assert.Equal(t, 3, fuel.Unique())

	for _, c := range tbl.Columns() {
		assert.Equal(t, tbl.Rows(), c.Len(), c.Name)
	}
}

func TestReadCSVMissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"), DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadCSVTooManyFieldsIsParseError(t *testing.T) {
	p := writeFile(t, "bad.csv", "a,b\n1,2\n3,4,5\n")
	_, err := ReadCSV(p, DefaultOptions())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, p, pe.Path)
}

func TestReadCSVShortRowsArePadded(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b,c\n1,2\n3,4,5\n"), "short", DefaultOptions())
	require.NoError(t, err)
	c, err := tbl.Column("c")
	require.NoError(t, err)
	assert.True(t, c.IsNull(0))
	v, ok := c.Float(1)
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestReadCSVDeclaredTimeColumn(t *testing.T) {
	body := "DateTime,Global_active_power\n2006-12-16 17:24:00,4.216\n2006-12-16 17:25:00,5.36\n"
	opt := DefaultOptions()
	opt.TimeColumns = []string{"DateTime"}
	tbl, err := Read(strings.NewReader(body), "power", opt)
	require.NoError(t, err)
	dt, err := tbl.Column("DateTime")
	require.NoError(t, err)
	assert.Equal(t, KindDatetime, dt.Kind)
	ts, ok := dt.Time(1)
	require.True(t, ok)
	assert.Equal(t, 25, ts.Minute())

	_, err = Read(strings.NewReader("DateTime,x\n2006-12-16 17:24:00,1\nyesterday,2\n"), "power", opt)
	require.Error(t, err)
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "DateTime", pe.Column)
	assert.Equal(t, 3, pe.Line)

	opt.TimeColumns = []string{"Missing"}
	_, err = Read(strings.NewReader(body), "power", opt)
	assert.True(t, errors.Is(err, ErrColumnNotFound))
}

func TestReadCSVNullTokensAndDuplicateHeaders(t *testing.T) {
	opt := DefaultOptions()
	opt.NullValues = []string{"", "?"}
	tbl, err := Read(strings.NewReader("x,x,\n?,1,a\n2,?,b\n"), "dups", opt)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "x.1", "Unnamed: 2"}, tbl.Names())
	x, _ := tbl.Column("x")
	assert.Equal(t, KindNumeric, x.Kind)
	assert.True(t, x.IsNull(0))
}

func TestReadCSVMaxRows(t *testing.T) {
	opt := DefaultOptions()
	opt.MaxRows = 2
	tbl, err := Read(strings.NewReader(carsCSV), "cars", opt)
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Rows())
	assert.Equal(t, 3, tbl.Truncated)
}

func TestAllNullColumnIsEmpty(t *testing.T) {
	tbl, err := Read(strings.NewReader("a,b\n1,\n2,NA\n"), "nulls", DefaultOptions())
	require.NoError(t, err)
	b, _ := tbl.Column("b")
	assert.Equal(t, KindEmpty, b.Kind)
	assert.Equal(t, 0, b.Unique())
	_, ok := b.Example()
	assert.False(t, ok)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	src, err := Read(strings.NewReader(carsCSV), "cars", DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.WriteCSV(&buf))
	assert.Equal(t, carsCSV, buf.String())

	back, err := Read(&buf, "cars", DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, src.Names(), back.Names())
	require.Equal(t, src.Rows(), back.Rows())
	for i := 0; i < src.Rows(); i++ {
		assert.Equal(t, src.Row(i), back.Row(i))
	}
}

func TestWriteCSVFileDerivedColumns(t *testing.T) {
	price := NewNumeric("Price", []float64{1.5, 2, 0.1}, []bool{false, true, false})
	brand := NewCategorical("Brand", []string{"Audi", "BMW", "Kia"}, nil)
	tbl, err := New("derived", brand, price)
	require.NoError(t, err)

	p := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, tbl.WriteCSVFile(p))
	b, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "Brand,Price\nAudi,1.5\nBMW,\nKia,0.1\n", string(b))
}

func TestReadCSVSniffsSemicolons(t *testing.T) {
	p := writeFile(t, "household_power_consumption.csv", "Date;Time;Global_active_power\n16/12/2006;17:24:00;4.216\n16/12/2006;17:25:00;5.360\n")
	tbl, err := ReadCSV(p, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Time", "Global_active_power"}, tbl.Names())
	gap, err := tbl.Column("Global_active_power")
	require.NoError(t, err)
	assert.Equal(t, KindNumeric, gap.Kind)

	assert.Equal(t, '\t', sniffDelimiter("x.tsv", []byte("a,b")))
	assert.Equal(t, ',', sniffDelimiter("x.csv", nil))
	assert.Equal(t, '|', sniffDelimiter("x.txt", []byte("a|b|c\n1,2|3|4")))
}

func TestReadCSVStripsByteOrderMark(t *testing.T) {
	p := writeFile(t, "bom.csv", "\xef\xbb\xbfName,Price\nA,1\nB,2\n")
	tbl, err := ReadCSV(p, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Price"}, tbl.Names())
	assert.True(t, tbl.Has("Name"))

	tbl, err = Read(strings.NewReader("\ufeffName;Price\nA;1\n"), "bom", Options{Delimiter: ';'})
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Price"}, tbl.Names())
}
