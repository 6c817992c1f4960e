package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Proxpekt/EDA-Projects/internal/aggregate"
	"github.com/Proxpekt/EDA-Projects/internal/analysis"
	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// ErrNoData is returned when a chart has nothing to draw.
var ErrNoData = errors.New("no data to plot")

// BuildError reports a chart that could not be drawn. It never stops the
// other charts of a Layout.
type BuildError struct {
	Kind  ChartKind
	Title string
	Err   error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Kind, e.Title, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Build draws every step of l. Steps that fail are skipped and the first
// failure is returned as a *BuildError next to the charts that did build.
func Build(t *table.Table, l *Layout, s Style) ([]*Chart, error) {
	if t == nil || l == nil {
		return nil, fmt.Errorf("build: nil table or layout")
	}
	s = s.withDefaults()
	var (
		charts []*Chart
		first  error
	)
	for _, step := range l.Steps {
		c, err := buildStep(t, step, s)
		if err != nil {
			if first == nil {
				first = &BuildError{Kind: step.Kind, Title: step.Title, Err: err}
			}
			continue
		}
		charts = append(charts, c)
	}
	return charts, first
}

func buildStep(t *table.Table, step Step, s Style) (c *Chart, err error) {
	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("plot panicked: %v", r)
		}
	}()
	p := plot.New()
	switch step.Kind {
	case Distribution:
		err = drawDistribution(p, t, step, s)
	case Box:
		err = drawBox(p, t, step)
	case Count:
		err = drawCount(p, t, step, s)
	case Scatter:
		err = drawHueScatter(p, t, Step{X: step.X, Y: step.Y})
	case GroupedBox:
		err = drawGroupedBox(p, t, step)
	case Heatmap:
		err = drawHeatmap(p, t, step)
	case HueScatter:
		err = drawHueScatter(p, t, step)
	case HueBar:
		err = drawHueBar(p, t, step)
	case Line:
		err = drawLine(p, t, step)
	case Bar:
		err = drawBar(p, t, step)
	default:
		err = fmt.Errorf("unknown chart kind %q", step.Kind)
	}
	if err != nil {
		return nil, err
	}
	return newChart(step.Kind, step.Title, p, s), nil
}

func numeric(t *table.Table, name string) (*table.Column, error) {
	c, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != table.KindNumeric {
		return nil, fmt.Errorf("%q is %s: %w", name, c.Kind, table.ErrNotNumeric)
	}
	return c, nil
}

func drawDistribution(p *plot.Plot, t *table.Table, step Step, s Style) error {
	c, err := numeric(t, step.X)
	if err != nil {
		return err
	}
	vals := c.Floats()
	if len(vals) == 0 {
		return ErrNoData
	}
	bins := s.Bins
	if bins <= 0 {
		// Sturges
		bins = int(math.Ceil(math.Log2(float64(len(vals))))) + 1
	}
	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return err
	}
	h.Normalize(1)
	h.FillColor = plotutil.Color(0)
	p.Add(h)

	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if bw := scottBandwidth(vals); bw > 0 {
		kde := plotter.NewFunction(gaussianKDE(vals, bw))
		kde.Samples = s.KDEPoints
		kde.XMin, kde.XMax = lo-3*bw, hi+3*bw
		kde.Color = plotutil.Color(1)
		kde.Width = vg.Points(1.5)
		p.Add(kde)
		p.Legend.Add("density", kde)
	}
	p.X.Label.Text = step.X
	p.Y.Label.Text = "Density"
	return nil
}

// scottBandwidth is std * n^(-1/5); zero when the sample has no spread.
func scottBandwidth(vals []float64) float64 {
	n := float64(len(vals))
	if n < 2 {
		return 0
	}
	var mean float64
	for _, v := range vals {
		mean += v
	}
	mean /= n
	var ss float64
	for _, v := range vals {
		ss += (v - mean) * (v - mean)
	}
	bw := math.Sqrt(ss/(n-1)) * math.Pow(n, -0.2)
	if math.IsNaN(bw) || math.IsInf(bw, 0) {
		return 0
	}
	return bw
}

func gaussianKDE(vals []float64, bw float64) func(float64) float64 {
	norm := 1 / (float64(len(vals)) * bw * math.Sqrt(2*math.Pi))
	return func(x float64) float64 {
		var sum float64
		for _, v := range vals {
			u := (x - v) / bw
			sum += math.Exp(-0.5 * u * u)
		}
		return sum * norm
	}
}

func drawBox(p *plot.Plot, t *table.Table, step Step) error {
	c, err := numeric(t, step.X)
	if err != nil {
		return err
	}
	vals := c.Floats()
	if len(vals) == 0 {
		return ErrNoData
	}
	b, err := plotter.NewBoxPlot(vg.Points(40), 0, plotter.Values(vals))
	if err != nil {
		return err
	}
	b.Horizontal = true
	b.FillColor = plotutil.Color(0)
	p.Add(b)
	p.HideY()
	p.X.Label.Text = step.X
	return nil
}

func drawCount(p *plot.Plot, t *table.Table, step Step, s Style) error {
	counts, err := analysis.ValueCounts(t, step.X, s.CountTop)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		return ErrNoData
	}
	vals := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, cc := range counts {
		vals[i], names[i] = float64(cc.Count), cc.Value
	}
	bars, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return err
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)
	p.Y.Label.Text = "count"
	return nil
}

// groups splits row indexes by the key of column by, in first-occurrence
// order. Null keys are skipped.
func groups(by *table.Column, rows []int) ([]string, map[string][]int) {
	var order []string
	idx := map[string][]int{}
	for _, i := range rows {
		if by.IsNull(i) {
			continue
		}
		k := by.Key(i)
		if _, ok := idx[k]; !ok {
			order = append(order, k)
		}
		idx[k] = append(idx[k], i)
	}
	return order, idx
}

func allRows(t *table.Table) []int {
	rows := make([]int, t.Rows())
	for i := range rows {
		rows[i] = i
	}
	return rows
}

func drawGroupedBox(p *plot.Plot, t *table.Table, step Step) error {
	cat, err := t.Column(step.X)
	if err != nil {
		return err
	}
	val, err := numeric(t, step.Y)
	if err != nil {
		return err
	}
	order, idx := groups(cat, allRows(t))
	var names []string
	for _, k := range order {
		var vals plotter.Values
		for _, i := range idx[k] {
			if v, ok := val.Float(i); ok {
				vals = append(vals, v)
			}
		}
		if len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(20), float64(len(names)), vals)
		if err != nil {
			return err
		}
		b.FillColor = plotutil.Color(len(names))
		p.Add(b)
		names = append(names, k)
	}
	if len(names) == 0 {
		return ErrNoData
	}
	p.NominalX(names...)
	p.X.Label.Text = step.X
	p.Y.Label.Text = step.Y
	return nil
}

// corrGrid lays a correlation matrix out with the first column on the top row.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int)   { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[len(g.m.Columns)-1-r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

func drawHeatmap(p *plot.Plot, t *table.Table, step Step) error {
	m, err := analysis.Correlate(t, step.Columns)
	if err != nil {
		return err
	}
	n := len(m.Columns)
	if n < 2 {
		return ErrNoData
	}
	cm := moreland.SmoothBlueRed()
	cm.SetMax(1)
	cm.SetMin(-1)
	hm := plotter.NewHeatMap(corrGrid{m}, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 200}
	p.Add(hm)

	var annot plotter.XYLabels
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := m.Values[n-1-r][c]
			label := "nan"
			if !math.IsNaN(v) {
				label = fmt.Sprintf("%.2f", v)
			}
			annot.XYs = append(annot.XYs, plotter.XY{X: float64(c), Y: float64(r)})
			annot.Labels = append(annot.Labels, label)
		}
	}
	labels, err := plotter.NewLabels(annot)
	if err != nil {
		return err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
	}
	p.Add(labels)

	rev := make([]string, n)
	for i, name := range m.Columns {
		rev[n-1-i] = name
	}
	p.NominalX(m.Columns...)
	p.NominalY(rev...)
	return nil
}

func drawHueScatter(p *plot.Plot, t *table.Table, step Step) error {
	xc, err := numeric(t, step.X)
	if err != nil {
		return err
	}
	yc, err := numeric(t, step.Y)
	if err != nil {
		return err
	}
	order, idx := []string{""}, map[string][]int{"": allRows(t)}
	if step.Hue != "" {
		hc, err := t.Column(step.Hue)
		if err != nil {
			return err
		}
		order, idx = groups(hc, allRows(t))
	}
	points := 0
	for gi, k := range order {
		var xys plotter.XYs
		for _, i := range idx[k] {
			x, okx := xc.Float(i)
			y, oky := yc.Float(i)
			if okx && oky {
				xys = append(xys, plotter.XY{X: x, Y: y})
			}
		}
		if len(xys) == 0 {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		sc.GlyphStyle.Color = plotutil.Color(gi)
		sc.GlyphStyle.Shape = plotutil.Shape(gi)
		p.Add(sc)
		if step.Hue != "" {
			p.Legend.Add(k, sc)
		}
		points += len(xys)
	}
	if points == 0 {
		return ErrNoData
	}
	p.X.Label.Text = step.X
	p.Y.Label.Text = step.Y
	return nil
}

func drawHueBar(p *plot.Plot, t *table.Table, step Step) error {
	keys := []string{step.X}
	if step.Hue != "" {
		keys = append(keys, step.Hue)
	}
	res, err := aggregate.GroupBy(t, aggregate.Request{Keys: keys, Target: step.Y, Reducer: aggregate.Mean})
	if err != nil {
		return err
	}
	if res.Len() == 0 {
		return ErrNoData
	}
	var xs, hues []string
	seenX, seenHue := map[string]bool{}, map[string]bool{}
	for _, g := range res.Groups {
		if !seenX[g.Key[0]] {
			seenX[g.Key[0]] = true
			xs = append(xs, g.Key[0])
		}
		if len(g.Key) > 1 && !seenHue[g.Key[1]] {
			seenHue[g.Key[1]] = true
			hues = append(hues, g.Key[1])
		}
	}
	if len(hues) == 0 {
		hues = []string{""}
	}
	width := vg.Points(40) / vg.Length(len(hues))
	for j, h := range hues {
		vals := make(plotter.Values, len(xs))
		for i, x := range xs {
			key := []string{x}
			if h != "" {
				key = append(key, h)
			}
			if g, ok := res.Lookup(key...); ok && !g.Null {
				vals[i] = g.Value
			}
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return err
		}
		bars.Color = plotutil.Color(j)
		bars.Offset = vg.Length(float64(j)-float64(len(hues)-1)/2) * width
		p.Add(bars)
		if h != "" {
			p.Legend.Add(h, bars)
		}
	}
	p.NominalX(xs...)
	p.X.Label.Text = step.X
	p.Y.Label.Text = "mean " + step.Y
	return nil
}

func drawLine(p *plot.Plot, t *table.Table, step Step) error {
	xc, err := t.Column(step.X)
	if err != nil {
		return err
	}
	yc, err := numeric(t, step.Y)
	if err != nil {
		return err
	}
	if xc.Kind == table.KindCategorical {
		if parsed, err := table.ParseTimeColumn(xc); err == nil {
			xc = parsed
		}
	}
	var (
		xys   plotter.XYs
		names []string
	)
	for i := 0; i < t.Rows(); i++ {
		y, ok := yc.Float(i)
		if !ok || xc.IsNull(i) {
			continue
		}
		var x float64
		switch xc.Kind {
		case table.KindDatetime:
			ts, _ := xc.Time(i)
			x = float64(ts.Unix())
		case table.KindNumeric:
			x, _ = xc.Float(i)
		default:
			x = float64(len(names))
			names = append(names, xc.String(i))
		}
		xys = append(xys, plotter.XY{X: x, Y: y})
	}
	if len(xys) == 0 {
		return ErrNoData
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	switch {
	case xc.Kind == table.KindDatetime:
		p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	case len(names) > 0:
		p.NominalX(names...)
	}
	p.X.Label.Text = step.X
	p.Y.Label.Text = step.Y
	return nil
}

func drawBar(p *plot.Plot, t *table.Table, step Step) error {
	xc, err := t.Column(step.X)
	if err != nil {
		return err
	}
	yc, err := numeric(t, step.Y)
	if err != nil {
		return err
	}
	names, at, vals := presentBars(xc, yc)
	if len(at) == 0 {
		return ErrNoData
	}
	// null groups leave a gap
	for j, i := range at {
		bars, err := plotter.NewBarChart(plotter.Values{vals[j]}, vg.Points(20))
		if err != nil {
			return err
		}
		bars.XMin = float64(i)
		bars.Color = plotutil.Color(0)
		p.Add(bars)
	}
	p.NominalX(names...)
	p.X.Label.Text = step.X
	p.Y.Label.Text = step.Y
	return nil
}

// presentBars labels every row of x and returns the positions and values of
// the rows whose y is not null.
func presentBars(x, y *table.Column) (names []string, at []int, vals plotter.Values) {
	names = make([]string, y.Len())
	for i := range names {
		names[i] = x.String(i)
		if v, ok := y.Float(i); ok {
			at = append(at, i)
			vals = append(vals, v)
		}
	}
	return names, at, vals
}
