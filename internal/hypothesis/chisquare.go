package hypothesis

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/motorlab/carscope/internal/dataset"
)

// ChiSquareResult reports a chi-square test of independence over the
// contingency table of two nominal columns.
type ChiSquareResult struct {
	A, B        string
	RowLevels   []string
	ColLevels   []string
	Observed    [][]int
	Stat        float64
	DF          int
	P           float64
	LowExpected bool // any expected cell count < 5; the usual approximation caveat
}

// ChiSquare builds the contingency table of two nominal columns and tests
// independence of the two classifications.
func ChiSquare(t *dataset.Table, a, b string) (*ChiSquareResult, error) {
	catsA, err := t.Categories(a)
	if err != nil {
		return nil, fmt.Errorf("chi-square: %w", err)
	}
	catsB, err := t.Categories(b)
	if err != nil {
		return nil, fmt.Errorf("chi-square: %w", err)
	}
	rowLevels, err := t.Levels(a)
	if err != nil {
		return nil, err
	}
	colLevels, err := t.Levels(b)
	if err != nil {
		return nil, err
	}
	if len(rowLevels) < 2 || len(colLevels) < 2 {
		return nil, fmt.Errorf("chi-square: %s x %s has a single-level margin", a, b)
	}

	rowIdx := indexOf(rowLevels)
	colIdx := indexOf(colLevels)
	obs := make([][]int, len(rowLevels))
	for i := range obs {
		obs[i] = make([]int, len(colLevels))
	}
	for i := range catsA {
		obs[rowIdx[catsA[i]]][colIdx[catsB[i]]]++
	}

	n := len(catsA)
	rowTot := make([]int, len(rowLevels))
	colTot := make([]int, len(colLevels))
	for i := range obs {
		for j := range obs[i] {
			rowTot[i] += obs[i][j]
			colTot[j] += obs[i][j]
		}
	}

	var stat float64
	low := false
	for i := range obs {
		for j := range obs[i] {
			exp := float64(rowTot[i]) * float64(colTot[j]) / float64(n)
			if exp < 5 {
				low = true
			}
			d := float64(obs[i][j]) - exp
			stat += d * d / exp
		}
	}
	df := (len(rowLevels) - 1) * (len(colLevels) - 1)
	dist := distuv.ChiSquared{K: float64(df)}
	return &ChiSquareResult{
		A: a, B: b,
		RowLevels:   rowLevels,
		ColLevels:   colLevels,
		Observed:    obs,
		Stat:        stat,
		DF:          df,
		P:           1 - dist.CDF(stat),
		LowExpected: low,
	}, nil
}

func (r *ChiSquareResult) String() string {
	s := fmt.Sprintf("Chi-square %s x %s: X2(%d) = %.3f, p = %.4g", r.A, r.B, r.DF, r.Stat, r.P)
	if r.LowExpected {
		s += " (expected counts < 5 in some cells; approximation may be poor)"
	}
	return s
}

func indexOf(levels []string) map[string]int {
	m := make(map[string]int, len(levels))
	for i, l := range levels {
		m[l] = i
	}
	return m
}
