// Package correlate computes the pairwise Pearson correlation matrix over the
// numeric columns and renders it two ways. The matrix is computed once and
// shared by every renderer.
package correlate

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/motorlab/carscope/internal/dataset"
)

// Matrix is a symmetric Pearson correlation matrix: unit diagonal, entries
// clamped to [-1, 1].
type Matrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Pair is one off-diagonal correlation.
type Pair struct {
	A, B string
	R    float64
}

// Compute builds the correlation matrix over the table's numeric columns.
// A constant column has no defined correlation and is an error.
func Compute(t *dataset.Table) (*Matrix, error) {
	cols := t.NumericColumns()
	if len(cols) < 2 {
		return nil, fmt.Errorf("correlate: need at least 2 numeric columns, have %d", len(cols))
	}
	series := make([][]float64, len(cols))
	for i, name := range cols {
		vals, err := t.Numeric(name)
		if err != nil {
			return nil, err
		}
		if stat.Variance(vals, nil) == 0 {
			return nil, fmt.Errorf("correlate: column %q is constant", name)
		}
		series[i] = vals
	}

	n := len(cols)
	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		values[i][i] = 1
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r := stat.Correlation(series[i], series[j], nil)
			r = math.Max(-1, math.Min(1, r))
			values[i][j] = r
			values[j][i] = r
		}
	}
	return &Matrix{Columns: cols, Values: values}, nil
}

// At returns the correlation of two named columns.
func (m *Matrix) At(a, b string) (float64, error) {
	i, j := -1, -1
	for k, c := range m.Columns {
		if c == a {
			i = k
		}
		if c == b {
			j = k
		}
	}
	if i < 0 || j < 0 {
		return 0, fmt.Errorf("correlate: no such column pair (%s, %s)", a, b)
	}
	return m.Values[i][j], nil
}

// TopPairs returns the strongest off-diagonal correlations by magnitude.
func (m *Matrix) TopPairs(limit int) []Pair {
	var pairs []Pair
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			pairs = append(pairs, Pair{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
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
