package render

import (
	"fmt"
	"strings"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// DefaultHeatmapColumns is how many numeric columns a heatmap uses when none
// are selected.
const DefaultHeatmapColumns = 5

// Selection is what the user picked on a visualization page.
type Selection struct {
	Analysis Analysis
	// Columns holds the univariate column, the bivariate pair or the heatmap
	// columns, depending on Analysis.
	Columns []string
	// X, Y and Hue drive the multivariate hue plot and trend charts. For
	// univariate and bivariate they override Columns when set.
	X, Y, Hue string
	// PlotType is "scatter" or "bar" for hue plots, "line" or "bar" for trends.
	PlotType string
	// Limit caps the default heatmap columns; zero means DefaultHeatmapColumns.
	Limit int
}

// Severity grades a Notice.
type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
)

// Notice is a message shown instead of, or next to, charts. It is not an error.
type Notice struct {
	Severity Severity
	Message  string
}

func (n *Notice) String() string {
	if n.Severity == Warning {
		return "⚠ " + n.Message
	}
	return "ℹ " + n.Message
}

// Step is one chart to build.
type Step struct {
	Kind    ChartKind
	X, Y    string
	Hue     string
	Columns []string
	Title   string
}

// Layout is the ordered list of charts for a Selection.
type Layout struct {
	Analysis Analysis
	Steps    []Step
	Notice   *Notice
}

// Plan decides which charts a selection produces. It reads column kinds only
// and never touches cell data. Unknown columns are errors; unsupported
// combinations come back as a Notice.
func Plan(t *table.Table, sel Selection) (*Layout, error) {
	if t == nil {
		return nil, fmt.Errorf("plan: nil table")
	}
	p := &Layout{Analysis: sel.Analysis}
	var err error
	switch sel.Analysis {
	case Univariate:
		err = planUnivariate(t, sel, p)
	case Bivariate:
		err = planBivariate(t, sel, p)
	case Multivariate:
		err = planMultivariate(t, sel, p)
	case Trend:
		err = planTrend(t, sel, p)
	default:
		_, err = ParseAnalysis(string(sel.Analysis))
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func classOf(t *table.Table, name string) (Class, error) {
	c, err := t.Column(name)
	if err != nil {
		return "", err
	}
	return Classify(c.Kind), nil
}

func pick(sel Selection, i int, override string) string {
	if override != "" {
		return override
	}
	if i < len(sel.Columns) {
		return sel.Columns[i]
	}
	return ""
}

func planUnivariate(t *table.Table, sel Selection, p *Layout) error {
	col := pick(sel, 0, sel.X)
	if col == "" {
		return fmt.Errorf("univariate: select a column")
	}
	class, err := classOf(t, col)
	if err != nil {
		return fmt.Errorf("univariate: %w", err)
	}
	if class == Numeric {
		p.Steps = append(p.Steps,
			Step{Kind: Distribution, X: col, Title: "Distribution of " + col},
			Step{Kind: Box, X: col, Title: "Boxplot of " + col},
		)
		return nil
	}
	p.Steps = append(p.Steps, Step{Kind: Count, X: col, Title: "Count of " + col})
	return nil
}

func planBivariate(t *table.Table, sel Selection, p *Layout) error {
	x, y := pick(sel, 0, sel.X), pick(sel, 1, sel.Y)
	if x == "" || y == "" {
		return fmt.Errorf("bivariate: select two columns")
	}
	cx, err := classOf(t, x)
	if err != nil {
		return fmt.Errorf("bivariate: %w", err)
	}
	cy, err := classOf(t, y)
	if err != nil {
		return fmt.Errorf("bivariate: %w", err)
	}
	kind, ok := Decide(cx, cy)
	if !ok {
		p.Notice = &Notice{Severity: Warning, Message: fmt.Sprintf("Bivariate plot not available for %s (%s) and %s (%s).", x, cx, y, cy)}
		return nil
	}
	switch kind {
	case Scatter:
		p.Steps = append(p.Steps, Step{Kind: Scatter, X: x, Y: y, Title: y + " vs " + x})
	case GroupedBox:
		// the category goes on x, the numeric column is the value axis
		if cx == Numeric {
			x, y = y, x
		}
		p.Steps = append(p.Steps, Step{Kind: GroupedBox, X: x, Y: y, Title: y + " by " + x})
	}
	return nil
}

func planMultivariate(t *table.Table, sel Selection, p *Layout) error {
	cols := sel.Columns
	if len(cols) == 0 {
		limit := sel.Limit
		if limit <= 0 {
			limit = DefaultHeatmapColumns
		}
		cols = t.NumericColumns()
		if len(cols) > limit {
			cols = cols[:limit]
		}
	}
	for _, name := range cols {
		class, err := classOf(t, name)
		if err != nil {
			return fmt.Errorf("heatmap: %w", err)
		}
		if class != Numeric {
			return fmt.Errorf("heatmap column %q: %w", name, table.ErrNotNumeric)
		}
	}
	if len(cols) < 2 {
		p.Notice = &Notice{Severity: Info, Message: "Select at least two numeric columns to generate the heatmap."}
	} else {
		p.Steps = append(p.Steps, Step{Kind: Heatmap, Columns: append([]string(nil), cols...), Title: "Correlation heatmap"})
	}

	if sel.X == "" && sel.Y == "" {
		return nil
	}
	if sel.X == "" || sel.Y == "" {
		return fmt.Errorf("hue plot: select both x and y")
	}
	for _, name := range []string{sel.X, sel.Y, sel.Hue} {
		if name == "" {
			continue
		}
		if _, err := t.Column(name); err != nil {
			return fmt.Errorf("hue plot: %w", err)
		}
	}
	step := Step{X: sel.X, Y: sel.Y, Hue: sel.Hue}
	switch strings.ToLower(sel.PlotType) {
	case "", "scatter":
		step.Kind, step.Title = HueScatter, sel.Y+" vs "+sel.X
	case "bar":
		step.Kind, step.Title = HueBar, "Mean "+sel.Y+" by "+sel.X
	default:
		return fmt.Errorf("unknown plot type %q (use scatter|bar)", sel.PlotType)
	}
	if sel.Hue != "" {
		step.Title += " by " + sel.Hue
	}
	p.Steps = append(p.Steps, step)
	return nil
}

func planTrend(t *table.Table, sel Selection, p *Layout) error {
	x, y := pick(sel, 0, sel.X), pick(sel, 1, sel.Y)
	if x == "" || y == "" {
		return fmt.Errorf("trend: select x and y columns")
	}
	for _, name := range []string{x, y} {
		if _, err := t.Column(name); err != nil {
			return fmt.Errorf("trend: %w", err)
		}
	}
	step := Step{X: x, Y: y, Title: y + " by " + x}
	switch strings.ToLower(sel.PlotType) {
	case "", "line":
		step.Kind = Line
	case "bar":
		step.Kind = Bar
	default:
		return fmt.Errorf("unknown plot type %q (use line|bar)", sel.PlotType)
	}
	p.Steps = append(p.Steps, step)
	return nil
}
