package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/Proxpekt/EDA-Projects/internal/table"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// PairCorr is a simple correlation pair summary.
type PairCorr struct {
	A, B string
	R    float64
}

// Correlate computes pairwise-complete Pearson correlations between columns.
// An empty columns list means every numeric column of t. Pairs without
// enough overlapping values are NaN.
func Correlate(t *table.Table, columns []string) (*CorrMatrix, error) {
	if len(columns) == 0 {
		columns = t.NumericColumns()
	}
	cols := make([]*table.Column, 0, len(columns))
	for _, name := range columns {
		c, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if c.Kind != table.KindNumeric {
			return nil, fmt.Errorf("correlate %q: %w", name, table.ErrNotNumeric)
		}
		cols = append(cols, c)
	}
	if len(cols) < 2 {
		return nil, fmt.Errorf("correlate %d column(s): %w", len(cols), ErrTooFewColumns)
	}

	n := len(cols)
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
		mat[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			var pa pairAcc
			for i := 0; i < t.Rows(); i++ {
				x, okx := cols[a].Float(i)
				y, oky := cols[b].Float(i)
				if okx && oky {
					pa.add(x, y)
				}
			}
			r := pa.r()
			mat[a][b], mat[b][a] = r, r
		}
	}
	names := make([]string, n)
	for i, c := range cols {
		names[i] = c.Name
	}
	return &CorrMatrix{Columns: names, Values: mat}, nil
}

// At returns the correlation between two named columns.
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return 0, false
	}
	return m.Values[ia][ib], true
}

// TopPairs lists the strongest off-diagonal pairs by |r|. NaN pairs are skipped.
func (m *CorrMatrix) TopPairs(limit int) []PairCorr {
	var pairs []PairCorr
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := m.Values[i][j]
			if math.IsNaN(r) {
				continue
			}
			pairs = append(pairs, PairCorr{A: m.Columns[i], B: m.Columns[j], R: r})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	return pairs
}
