package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Style sizes and tunes the charts Build produces.
type Style struct {
	Width, Height vg.Length
	// CountTop caps the categories of a count plot.
	CountTop int
	// HeatmapColumns is used when a Selection leaves Limit at zero.
	HeatmapColumns int
	// KDEPoints is the number of samples on the density curve.
	KDEPoints int
	// Bins of the histogram; zero picks from the row count.
	Bins int
}

// DefaultStyle returns the page defaults: 8x5in, top 15 categories, 5 heatmap
// columns.
func DefaultStyle() Style {
	return Style{
		Width:          8 * vg.Inch,
		Height:         5 * vg.Inch,
		CountTop:       15,
		HeatmapColumns: DefaultHeatmapColumns,
		KDEPoints:      100,
	}
}

func (s Style) withDefaults() Style {
	d := DefaultStyle()
	if s.Width <= 0 {
		s.Width = d.Width
	}
	if s.Height <= 0 {
		s.Height = d.Height
	}
	if s.CountTop <= 0 {
		s.CountTop = d.CountTop
	}
	if s.HeatmapColumns <= 0 {
		s.HeatmapColumns = d.HeatmapColumns
	}
	if s.KDEPoints <= 1 {
		s.KDEPoints = d.KDEPoints
	}
	return s
}

// Chart is one built plot ready to be encoded.
type Chart struct {
	ID    uuid.UUID
	Kind  ChartKind
	Title string

	plot          *plot.Plot
	width, height vg.Length
}

func newChart(kind ChartKind, title string, p *plot.Plot, s Style) *Chart {
	p.Title.Text = title
	return &Chart{ID: uuid.New(), Kind: kind, Title: title, plot: p, width: s.Width, height: s.Height}
}

// Plot exposes the underlying gonum plot.
func (c *Chart) Plot() *plot.Plot { return c.plot }

// ParseFormat validates an output format name.
func ParseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")); f {
	case "":
		return "svg", nil
	case "svg", "png", "pdf":
		return f, nil
	}
	return "", fmt.Errorf("unsupported chart format %q (use svg|png|pdf)", s)
}

// Encode writes the chart to w in the given format.
func (c *Chart) Encode(w io.Writer, format string) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}
	wt, err := c.plot.WriterTo(c.width, c.height, f)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.Kind, err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// FileName is <kind>-<slug of title>.<format>.
func (c *Chart) FileName(format string) string {
	return fmt.Sprintf("%s-%s.%s", c.Kind, slug(c.Title), format)
}

// Save encodes the chart into dir and returns the file path.
func (c *Chart) Save(dir, format string) (string, error) {
	f, err := ParseFormat(format)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create chart dir: %w", err)
	}
	path := filepath.Join(dir, c.FileName(f))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create chart file: %w", err)
	}
	if err := c.Encode(out, f); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return path, nil
}

func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "chart"
	}
	return out
}
