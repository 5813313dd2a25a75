package model

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motorlab/carscope/internal/dataset"
)

func fixture(t *testing.T) (*dataset.Table, *Design, *Split) {
	t.Helper()
	tbl, err := dataset.Builtin()
	require.NoError(t, err)
	require.NoError(t, tbl.Normalize(dataset.NominalColumns...))
	d, err := BuildDesign(tbl, "mpg", []string{"wt", "hp", "cyl"})
	require.NoError(t, err)
	s, err := StratifiedSplit(d.Y, 0.8, 42)
	require.NoError(t, err)
	return tbl, d, s
}

func TestStratifiedSplitPartitionsExactly(t *testing.T) {
	_, _, s := fixture(t)

	require.InDelta(t, 26, len(s.Train), 1)
	require.InDelta(t, 6, len(s.Test), 1)
	require.Equal(t, 32, len(s.Train)+len(s.Test))

	seen := map[int]int{}
	for _, i := range s.Train {
		seen[i]++
	}
	for _, i := range s.Test {
		seen[i]++
	}
	require.Len(t, seen, 32, "every row appears")
	for i, n := range seen {
		require.Equal(t, 1, n, "row %d appears once", i)
	}
}

func TestStratifiedSplitDeterminism(t *testing.T) {
	_, d, _ := fixture(t)
	a, err := StratifiedSplit(d.Y, 0.8, 99)
	require.NoError(t, err)
	b, err := StratifiedSplit(d.Y, 0.8, 99)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestStratifiedSplitBadFraction(t *testing.T) {
	_, d, _ := fixture(t)
	_, err := StratifiedSplit(d.Y, 0, 1)
	require.Error(t, err)
	_, err = StratifiedSplit(d.Y, 1, 1)
	require.Error(t, err)
}

func TestBuildDesignExpandsNominal(t *testing.T) {
	_, d, _ := fixture(t)
	// wt, hp, then cyl indicators for the non-reference levels 6 and 8.
	require.Equal(t, []string{"wt", "hp", "cyl=6", "cyl=8"}, d.Terms)
	require.Len(t, d.X, 32)
	for _, row := range d.X {
		require.Len(t, row, 4)
		require.Contains(t, []float64{0, 1}, row[2])
		require.Contains(t, []float64{0, 1}, row[3])
		require.LessOrEqual(t, row[2]+row[3], 1.0)
	}
}

func TestFitOLS(t *testing.T) {
	_, d, s := fixture(t)
	res, err := FitOLS(d, "mpg", s)
	require.NoError(t, err)

	require.GreaterOrEqual(t, res.R2, 0.0)
	require.LessOrEqual(t, res.R2, 1.0)
	// Weight, horsepower and cylinders explain most of the variance here.
	require.Greater(t, res.R2, 0.7)

	require.Len(t, res.Coef, 5) // intercept + 4 terms
	require.Equal(t, "(intercept)", res.Terms[0])
	for i := range res.Coef {
		require.False(t, math.IsNaN(res.Coef[i]))
		require.Greater(t, res.StdErr[i], 0.0)
	}
	// Heavier cars predict lower mpg.
	require.Less(t, res.Coef[1], 0.0)

	require.Len(t, res.TestPred, len(s.Test))
	for _, p := range res.TestPred {
		require.False(t, math.IsNaN(p) || math.IsInf(p, 0))
	}

	sum := res.Summary()
	require.Contains(t, sum, "R2 =")
	require.Contains(t, sum, "cyl=8")
}

func TestFitTreePredictsWithinObservedRange(t *testing.T) {
	_, d, s := fixture(t)
	tree, preds, err := FitTree(d, "mpg", s, DefaultTreeConfig())
	require.NoError(t, err)
	require.Len(t, preds, len(s.Test))

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range d.Y {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	for _, p := range preds {
		require.GreaterOrEqual(t, p, min)
		require.LessOrEqual(t, p, max)
	}

	dump := tree.String()
	require.Contains(t, dump, "root")
	require.Contains(t, dump, "n=")
	require.Contains(t, dump, "dev=")
	// The tree should actually split on something.
	require.True(t, strings.Contains(dump, "<="), "tree has at least one split:\n%s", dump)
}

func TestFitTreeLeafBounds(t *testing.T) {
	_, d, s := fixture(t)
	cfg := DefaultTreeConfig()
	tree, _, err := FitTree(d, "mpg", s, cfg)
	require.NoError(t, err)

	// Every training row lands in a leaf whose prediction is a training mean,
	// so train predictions stay in range too.
	Xtrain, ytrain := d.Rows(s.Train)
	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range ytrain {
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	for _, row := range Xtrain {
		p := tree.Predict(row)
		require.GreaterOrEqual(t, p, min)
		require.LessOrEqual(t, p, max)
	}
}
