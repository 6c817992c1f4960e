package table

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ReadXLSX loads one worksheet of an .xlsx workbook. The first row is the
// header. Options.Sheet selects the sheet by name; empty means the first.
func ReadXLSX(p string, opt Options) (*Table, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	name := filepath.Base(p)
	zr, err := zip.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return nil, &ParseError{Path: p, Err: fmt.Errorf("not an xlsx workbook: %w", err)}
	}
	sheets := workbookSheets(zipEntry(zr, "xl/workbook.xml"))
	rels := workbookRels(zipEntry(zr, "xl/_rels/workbook.xml.rels"))

	target := ""
	if opt.Sheet != "" {
		for _, s := range sheets {
			if strings.EqualFold(s.name, opt.Sheet) {
				target = sheetPath(rels[s.rid])
				break
			}
		}
		if target == "" {
			avail := make([]string, len(sheets))
			for i, s := range sheets {
				avail[i] = s.name
			}
			return nil, fmt.Errorf("sheet %q not found in %s (available: %s)", opt.Sheet, name, strings.Join(avail, ", "))
		}
	} else if len(sheets) > 0 {
		target = sheetPath(rels[sheets[0].rid])
	}
	if target == "" {
		target = "xl/worksheets/sheet1.xml"
	}
	data := zipEntry(zr, target)
	if data == nil {
		return nil, &ParseError{Path: p, Err: fmt.Errorf("missing worksheet %s", target)}
	}

	rr := &sheetRows{dec: xml.NewDecoder(bytes.NewReader(data)), shared: sharedStrings(zipEntry(zr, "xl/sharedStrings.xml"))}
	header, _, ok := rr.next()
	if !ok {
		return New(name)
	}
	next := func() ([]string, int, error) {
		row, line, ok := rr.next()
		if !ok {
			return nil, 0, io.EOF
		}
		return row, line, nil
	}
	t, err := build(name, header, next, opt)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = p
		}
		return nil, err
	}
	return t, nil
}

type sheetRef struct {
	name string
	rid  string
}

func workbookSheets(data []byte) []sheetRef {
	var out []sheetRef
	eachStart(data, func(se xml.StartElement) {
		if se.Name.Local != "sheet" {
			return
		}
		var s sheetRef
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "name":
				s.name = a.Value
			case "id":
				s.rid = a.Value
			}
		}
		out = append(out, s)
	})
	return out
}

func workbookRels(data []byte) map[string]string {
	out := map[string]string{}
	eachStart(data, func(se xml.StartElement) {
		if se.Name.Local != "Relationship" {
			return
		}
		var id, target string
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "Id":
				id = a.Value
			case "Target":
				target = a.Value
			}
		}
		if id != "" && target != "" {
			out[id] = target
		}
	})
	return out
}

func eachStart(data []byte, fn func(xml.StartElement)) {
	if len(data) == 0 {
		return
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := dec.Token()
		if err != nil {
			return
		}
		if se, ok := tok.(xml.StartElement); ok {
			fn(se)
		}
	}
}

// sheetPath turns a relationship target into a zip entry name. Targets may be
// absolute ("/xl/worksheets/sheet1.xml") or relative to xl/.
func sheetPath(rel string) string {
	if rel == "" {
		return ""
	}
	rel = strings.TrimPrefix(rel, "/")
	if strings.HasPrefix(rel, "xl/") {
		return rel
	}
	return path.Join("xl", rel)
}

func zipEntry(zr *zip.Reader, name string) []byte {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil
		}
		defer rc.Close()
		b, _ := io.ReadAll(rc)
		return b
	}
	return nil
}

func sharedStrings(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	dec := xml.NewDecoder(bytes.NewReader(data))
	var out []string
	var buf strings.Builder
	inT := false
	for {
		tok, err := dec.Token()
		if err != nil {
			return out
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "si":
				buf.Reset()
			case "t":
				inT = true
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "t":
				inT = false
			case "si":
				out = append(out, buf.String())
			}
		case xml.CharData:
			if inT {
				buf.Write(se)
			}
		}
	}
}

// sheetRows streams the rows of a worksheet. Cells are placed by their A1
// reference, so sparse rows come back with empty gaps.
type sheetRows struct {
	dec    *xml.Decoder
	shared []string
	line   int
}

func (r *sheetRows) next() ([]string, int, bool) {
	var row []string
	inRow := false
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return nil, 0, false
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch {
			case se.Name.Local == "row":
				inRow = true
				row = nil
				r.line++
				for _, a := range se.Attr {
					if a.Name.Local == "r" {
						if n := leadingInt(a.Value); n > 0 {
							r.line = n
						}
					}
				}
			case inRow && se.Name.Local == "c":
				var ref, typ string
				for _, a := range se.Attr {
					switch a.Name.Local {
					case "r":
						ref = a.Value
					case "t":
						typ = a.Value
					}
				}
				idx := len(row)
				if ref != "" {
					idx = columnIndex(ref)
				}
				val := r.cellValue(typ)
				for len(row) <= idx {
					row = append(row, "")
				}
				row[idx] = val
			}
		case xml.EndElement:
			if se.Name.Local == "row" {
				return row, r.line, true
			}
		}
	}
}

// cellValue reads up to the end of the current <c> element.
func (r *sheetRows) cellValue(typ string) string {
	var val string
	for {
		tok, err := r.dec.Token()
		if err != nil {
			return val
		}
		switch se := tok.(type) {
		case xml.StartElement:
			if se.Name.Local == "v" || se.Name.Local == "t" {
				var sb strings.Builder
				for {
					tk, err := r.dec.Token()
					if err != nil {
						break
					}
					if ed, ok := tk.(xml.EndElement); ok && (ed.Name.Local == "v" || ed.Name.Local == "t") {
						break
					}
					if ch, ok := tk.(xml.CharData); ok {
						sb.Write(ch)
					}
				}
				val = sb.String()
			}
		case xml.EndElement:
			if se.Name.Local == "c" {
				if typ == "s" {
					i := leadingInt(val)
					if i >= 0 && i < len(r.shared) {
						return r.shared[i]
					}
					return ""
				}
				return val
			}
		}
	}
}

// columnIndex maps an A1 reference to a 0-based column: "C12" is 2.
func columnIndex(ref string) int {
	idx := 0
	for i := 0; i < len(ref); i++ {
		c := ref[i]
		switch {
		case c >= 'A' && c <= 'Z':
			idx = idx*26 + int(c-'A'+1)
		case c >= 'a' && c <= 'z':
			idx = idx*26 + int(c-'a'+1)
		default:
			return idx - 1
		}
	}
	return idx - 1
}

func leadingInt(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}
