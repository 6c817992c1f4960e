// Package render turns a column selection into chart plans and gonum/plot
// charts for the visualization pages.
package render

import (
	"fmt"
	"strings"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// Class is the coarse type a chart decision is made on.
type Class string

const (
	Numeric     Class = "numeric"
	Categorical Class = "categorical"
)

// Classify maps a column kind to a Class. Datetime and empty columns plot as
// categories.
func Classify(kind table.Kind) Class {
	if kind == table.KindNumeric {
		return Numeric
	}
	return Categorical
}

// ChartKind names one chart a plan can produce.
type ChartKind string

const (
	Distribution ChartKind = "distribution"
	Box          ChartKind = "box"
	Count        ChartKind = "count"
	Scatter      ChartKind = "scatter"
	GroupedBox   ChartKind = "grouped_box"
	Heatmap      ChartKind = "heatmap"
	HueScatter   ChartKind = "hue_scatter"
	HueBar       ChartKind = "hue_bar"
	Line         ChartKind = "line"
	Bar          ChartKind = "bar"
)

// pairCharts is the bivariate decision table. Pairs not listed are rejected.
var pairCharts = map[[2]Class]ChartKind{
	{Numeric, Numeric}:     Scatter,
	{Numeric, Categorical}: GroupedBox,
	{Categorical, Numeric}: GroupedBox,
}

// Decide looks up the chart for a pair of column classes.
func Decide(a, b Class) (ChartKind, bool) {
	k, ok := pairCharts[[2]Class{a, b}]
	return k, ok
}

// Analysis selects a visualization page mode.
type Analysis string

const (
	Univariate   Analysis = "univariate"
	Bivariate    Analysis = "bivariate"
	Multivariate Analysis = "multivariate"
	Trend        Analysis = "trend"
)

// ParseAnalysis validates an analysis name.
func ParseAnalysis(s string) (Analysis, error) {
	switch a := Analysis(strings.ToLower(strings.TrimSpace(s))); a {
	case Univariate, Bivariate, Multivariate, Trend:
		return a, nil
	}
	return "", fmt.Errorf("unknown analysis %q (use univariate|bivariate|multivariate|trend)", s)
}
