package store

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
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

func csvText(t *testing.T, tbl *table.Table) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, tbl.WriteCSV(&buf))
	return buf.String()
}

func TestWriteAndReadTableRoundTrip(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "out", "cars.db")
	cars := loadCars(t)

	n, err := WriteTable(ctx, dbPath, "cars", cars, Replace)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	back, err := ReadTable(ctx, dbPath, "cars")
	require.NoError(t, err)
	assert.Equal(t, cars.Names(), back.Names())
	assert.Equal(t, cars.Rows(), back.Rows())
	assert.Equal(t, csvText(t, cars), csvText(t, back))

	price, err := back.Column("Price")
	require.NoError(t, err)
	assert.Equal(t, table.KindNumeric, price.Kind)
	assert.True(t, price.IsNull(4))
}

func TestWriteTableModes(t *testing.T) {
	ctx := context.Background()
	db, err := Open(filepath.Join(t.TempDir(), "eda.db"))
	require.NoError(t, err)
	defer db.Close()
	cars := loadCars(t)

	_, err = db.WriteTable(ctx, "cars", cars, Replace)
	require.NoError(t, err)
	_, err = db.WriteTable(ctx, "cars", cars, Append)
	require.NoError(t, err)
	back, err := db.ReadTable(ctx, "cars")
	require.NoError(t, err)
	assert.Equal(t, 10, back.Rows())

	_, err = db.WriteTable(ctx, "cars", cars, Replace)
	require.NoError(t, err)
	back, err = db.ReadTable(ctx, "cars")
	require.NoError(t, err)
	assert.Equal(t, 5, back.Rows())

	names, err := db.Tables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"cars"}, names)
}

func TestWriteTableQuotesIdentifiers(t *testing.T) {
	ctx := context.Background()
	tbl, err := table.Read(strings.NewReader("Price (lakh),\"say \"\"hi\"\"\"\n4.5,a\n"), "odd", table.DefaultOptions())
	require.NoError(t, err)
	dbPath := filepath.Join(t.TempDir(), "odd.db")

	_, err = WriteTable(ctx, dbPath, `drop "me"`, tbl, Replace)
	require.NoError(t, err)
	back, err := ReadTable(ctx, dbPath, `drop "me"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Price (lakh)", `say "hi"`}, back.Names())
}

func TestWriteTableCancelledRollsBack(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "eda.db")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WriteTable(ctx, dbPath, "cars", loadCars(t), Replace)
	require.Error(t, err)

	_, err = ReadTable(context.Background(), dbPath, "cars")
	assert.True(t, errors.Is(err, ErrNoTable))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Replace, m)
	m, err = ParseMode("APPEND")
	require.NoError(t, err)
	assert.Equal(t, Append, m)
	_, err = ParseMode("upsert")
	assert.Error(t, err)
}
