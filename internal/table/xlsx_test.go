package table

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	workbookXML = `<?xml version="1.0" encoding="UTF-8"?>
<workbook xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
<sheets><sheet name="Notes" sheetId="1" r:id="rId1"/><sheet name="Cars" sheetId="2" r:id="rId2"/></sheets>
</workbook>`
	relsXML = `<?xml version="1.0" encoding="UTF-8"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="worksheet" Target="worksheets/sheet1.xml"/>
<Relationship Id="rId2" Type="worksheet" Target="/xl/worksheets/sheet2.xml"/>
</Relationships>`
	sharedXML = `<?xml version="1.0" encoding="UTF-8"?>
<sst xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main">
<si><t>Name</t></si><si><t>Price</t></si><si><t>Honda Jazz</t></si><si><t>Audi A4</t></si><si><t>note</t></si>
</sst>`
	notesSheetXML = `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="s"><v>4</v></c></row>
<row r="2"><c r="A2" t="inlineStr"><is><t>hello</t></is></c></row>
</sheetData></worksheet>`
	carsSheetXML = `<?xml version="1.0" encoding="UTF-8"?>
<worksheet xmlns="http://schemas.openxmlformats.org/spreadsheetml/2006/main"><sheetData>
<row r="1"><c r="A1" t="s"><v>0</v></c><c r="B1" t="s"><v>1</v></c></row>
<row r="2"><c r="A2" t="s"><v>2</v></c><c r="B2"><v>4.5</v></c></row>
<row r="3"><c r="A3" t="s"><v>3</v></c></row>
</sheetData></worksheet>`
)

func writeXLSX(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "cars.xlsx")
	f, err := os.Create(p)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, body := range map[string]string{
		"xl/workbook.xml":            workbookXML,
		"xl/_rels/workbook.xml.rels": relsXML,
		"xl/sharedStrings.xml":       sharedXML,
		"xl/worksheets/sheet1.xml":   notesSheetXML,
		"xl/worksheets/sheet2.xml":   carsSheetXML,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
	return p
}

func TestReadXLSXSelectsSheetByName(t *testing.T) {
	p := writeXLSX(t)
	opt := DefaultOptions()
	opt.Sheet = "cars"
	tbl, err := Load(p, opt)
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Price"}, tbl.Names())
	assert.Equal(t, 2, tbl.Rows())
	price, _ := tbl.Column("Price")
	assert.Equal(t, KindNumeric, price.Kind)
	assert.True(t, price.IsNull(1), "missing trailing cell is padded")
	assert.Equal(t, "Audi A4", tbl.Row(1)[0])
}

func TestReadXLSXDefaultsToFirstSheet(t *testing.T) {
	tbl, err := ReadXLSX(writeXLSX(t), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"note"}, tbl.Names())
	assert.Equal(t, []string{"hello"}, tbl.Row(0))
}

func TestReadXLSXErrors(t *testing.T) {
	p := writeXLSX(t)
	opt := DefaultOptions()
	opt.Sheet = "Nope"
	_, err := ReadXLSX(p, opt)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Notes, Cars")

	bogus := filepath.Join(t.TempDir(), "bogus.xlsx")
	require.NoError(t, os.WriteFile(bogus, []byte("a,b\n"), 0o644))
	_, err = ReadXLSX(bogus, DefaultOptions())
	assert.True(t, errors.Is(err, ErrParse))
}

func TestSheetPath(t *testing.T) {
	cases := map[string]string{
		"/xl/worksheets/sheet1.xml": "xl/worksheets/sheet1.xml",
		"xl/worksheets/sheet1.xml":  "xl/worksheets/sheet1.xml",
		"/worksheets/sheet1.xml":    "xl/worksheets/sheet1.xml",
		"worksheets/sheet1.xml":     "xl/worksheets/sheet1.xml",
		"":                          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, sheetPath(in), in)
	}
	assert.Equal(t, 2, columnIndex("C12"))
	assert.Equal(t, 27, columnIndex("AB3"))
}
