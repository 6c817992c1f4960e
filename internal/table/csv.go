package table

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultNullValues mirrors the NA markers pandas recognises by default.
var DefaultNullValues = []string{"", "NA", "N/A", "n/a", "NaN", "nan", "-NaN", "null", "NULL", "None", "#N/A", "<NA>"}

// Options controls how a CSV becomes a Table.
type Options struct {
	// Delimiter for CSV. If 0, sniffed from the extension and header line.
	Delimiter rune
	// MaxRows limits data rows kept; 0 means unlimited.
	MaxRows int
	// TimeColumns must parse as timestamps; a failure is a ParseError.
	TimeColumns []string
	// InferTimes types undeclared columns as datetime when every value parses.
	InferTimes bool
	// NullValues lists cell texts read as missing. Nil means DefaultNullValues.
	NullValues []string
	// DecimalSeparator defaults to '.'.
	DecimalSeparator rune
	// ThousandsSeparator is stripped from numbers when set.
	ThousandsSeparator rune
	// Sheet names the worksheet of an .xlsx file; empty means the first one.
	Sheet string
}

// DefaultOptions returns reasonable defaults for dataset loading.
func DefaultOptions() Options {
	return Options{InferTimes: true}
}

// Fingerprint identifies the options for cache keys.
func (o Options) Fingerprint() string {
	tc := append([]string(nil), o.TimeColumns...)
	sort.Strings(tc)
	nv := o.NullValues
	if nv == nil {
		nv = DefaultNullValues
	}
	return fmt.Sprintf("d=%q;max=%d;tc=%s;infer=%t;nv=%s;dec=%q;thou=%q;sheet=%q",
		o.Delimiter, o.MaxRows, strings.Join(tc, ","), o.InferTimes, strings.Join(nv, "\x1f"), o.DecimalSeparator, o.ThousandsSeparator, o.Sheet)
}

// Load reads a dataset file, dispatching on its extension: .xlsx goes to
// ReadXLSX and everything else is read as delimited text.
func Load(path string, opt Options) (*Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path, opt)
	}
	return ReadCSV(path, opt)
}

// ReadCSV loads a CSV file with a header row.
func ReadCSV(path string, opt Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	br := bufio.NewReader(f)
	if bom, _ := br.Peek(len(utf8BOM)); string(bom) == utf8BOM {
		_, _ = br.Discard(len(utf8BOM))
	}
	if opt.Delimiter == 0 {
		head, _ := br.Peek(4096)
		opt.Delimiter = sniffDelimiter(path, head)
	}
	t, err := Read(br, filepath.Base(path), opt)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return t, nil
}

const utf8BOM = "\xef\xbb\xbf"

// Read parses CSV text from r. name labels the resulting Table.
func Read(r io.Reader, name string, opt Options) (*Table, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return New(name)
		}
		return nil, wrapCSVError(name, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	next := func() ([]string, int, error) {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, 0, io.EOF
			}
			return nil, 0, wrapCSVError(name, err)
		}
		line, _ := cr.FieldPos(0)
		return rec, line, nil
	}
	return build(name, header, next, opt)
}

// build types the records yielded by next into a Table. next returns io.EOF
// after the last record; line numbers are used in ParseErrors.
func build(name string, header []string, next func() ([]string, int, error), opt Options) (*Table, error) {
	names := headerNames(header)
	ncol := len(names)

	nulls := opt.NullValues
	if nulls == nil {
		nulls = DefaultNullValues
	}
	nullSet := make(map[string]struct{}, len(nulls))
	for _, v := range nulls {
		nullSet[v] = struct{}{}
	}

	cells := make([][]string, ncol)
	null := make([][]bool, ncol)
	lines := []int{}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	var kept, skipped int
	for {
		rec, line, err := next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, err
		}
		if len(rec) > ncol {
			return nil, &ParseError{Path: name, Line: line, Err: fmt.Errorf("expected %d fields, saw %d", ncol, len(rec))}
		}
		if kept >= maxRows {
			skipped++
			continue
		}
		kept++
		lines = append(lines, line)
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			_, isNull := nullSet[v]
			if isNull {
				v = ""
			}
			cells[j] = append(cells[j], v)
			null[j] = append(null[j], isNull)
		}
	}

	declared := make(map[string]bool, len(opt.TimeColumns))
	for _, tc := range opt.TimeColumns {
		declared[tc] = true
	}
	cols := make([]*Column, ncol)
	for j, n := range names {
		col, err := inferColumn(n, cells[j], null[j], declared[n], opt)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) {
				pe.Path = name
				if pe.Line > 0 && pe.Line <= len(lines) {
					pe.Line = lines[pe.Line-1]
				}
			}
			return nil, err
		}
		cols[j] = col
		delete(declared, n)
	}
	for _, tc := range opt.TimeColumns {
		if declared[tc] {
			return nil, fmt.Errorf("time column: %w", &ColumnError{Table: name, Column: tc})
		}
	}
	t, err := New(name, cols...)
	if err != nil {
		return nil, err
	}
	t.Truncated = skipped
	return t, nil
}

func wrapCSVError(name string, err error) error {
	var ce *csv.ParseError
	if errors.As(err, &ce) {
		return &ParseError{Path: name, Line: ce.Line, Err: ce.Err}
	}
	return fmt.Errorf("read %s: %w", name, err)
}

// headerNames applies pandas' naming for blank and repeated header cells.
func headerNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		base := h
		for {
			if _, dup := seen[h]; !dup {
				break
			}
			seen[base]++
			h = fmt.Sprintf("%s.%d", base, seen[base])
		}
		seen[h] = 0
		out[i] = h
	}
	return out
}

// inferColumn types a column from its cells. A returned ParseError carries the
// 1-based data row in Line; the caller maps it to a file line.
func inferColumn(name string, cells []string, null []bool, isTime bool, opt Options) (*Column, error) {
	c := &Column{Name: name, cells: cells, null: null}
	if c.NonNull() == 0 {
		if isTime {
			c.Kind = KindDatetime
			c.times = make([]time.Time, len(cells))
			return c, nil
		}
		c.Kind = KindEmpty
		return c, nil
	}
	if isTime {
		times, bad, ok := parseTimes(cells, null)
		if !ok {
			return nil, &ParseError{Line: bad + 1, Column: name, Err: fmt.Errorf("unparseable timestamp %q", cells[bad])}
		}
		c.Kind, c.times = KindDatetime, times
		return c, nil
	}
	if nums, ok := parseNumbers(cells, null, opt); ok {
		c.Kind, c.nums = KindNumeric, nums
		return c, nil
	}
	if opt.InferTimes {
		if times, _, ok := parseTimes(cells, null); ok {
			c.Kind, c.times = KindDatetime, times
			return c, nil
		}
	}
	c.Kind = KindCategorical
	return c, nil
}

func parseNumbers(cells []string, null []bool, opt Options) ([]float64, bool) {
	out := make([]float64, len(cells))
	for i, s := range cells {
		if null[i] {
			out[i] = math.NaN()
			continue
		}
		x, ok := parseNumeric(s, opt)
		if !ok {
			return nil, false
		}
		out[i] = x
	}
	return out, true
}

func parseTimes(cells []string, null []bool) ([]time.Time, int, bool) {
	out := make([]time.Time, len(cells))
	layout := ""
	for i, s := range cells {
		if null[i] {
			continue
		}
		// Columns almost always share one layout; try the last hit first.
		if layout != "" {
			if t, err := time.Parse(layout, s); err == nil {
				out[i] = t
				continue
			}
		}
		t, l, ok := parseTimeMaybe(s)
		if !ok {
			return nil, i, false
		}
		out[i], layout = t, l
	}
	return out, -1, true
}

// TimeLayouts are tried in order when parsing timestamps.
var TimeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "2006-01-02T15:04:05", "2006-01-02 15:04:05.999999999",
	"2/1/2006", "1/2/2006 15:04", "1/2/2006 15:04:05", "2/1/2006 15:04:05",
}

func parseTimeMaybe(s string) (time.Time, string, bool) {
	for _, l := range TimeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, l, true
		}
	}
	return time.Time{}, "", false
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	if opt.ThousandsSeparator != 0 {
		raw = strings.ReplaceAll(raw, string(opt.ThousandsSeparator), "")
	}
	if dec := opt.DecimalSeparator; dec != 0 && dec != '.' {
		if strings.ContainsRune(raw, '.') {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	// ParseFloat accepts hex and underscore forms that CSV readers do not.
	if strings.ContainsAny(raw, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// sniffDelimiter picks tab for .tsv files, otherwise the most frequent of
// comma, semicolon, tab and pipe in the header line, defaulting to comma.
func sniffDelimiter(path string, head []byte) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	line := string(head)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, n := ',', strings.Count(line, ",")
	for _, r := range []rune{';', '\t', '|'} {
		if c := strings.Count(line, string(r)); c > n {
			best, n = r, c
		}
	}
	return best
}

// WriteCSV writes a header row and every data row, without an index column.
// Null cells are written empty.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := 0; i < t.rows; i++ {
		if err := cw.Write(t.Row(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the table to path.
func (t *Table) WriteCSVFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := t.WriteCSV(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
