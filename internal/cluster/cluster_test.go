package cluster

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/motorlab/carscope/internal/dataset"
)

func normalized(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Builtin()
	require.NoError(t, err)
	require.NoError(t, tbl.Normalize(dataset.NominalColumns...))
	return tbl
}

func TestStandardizedMatrix(t *testing.T) {
	X, err := StandardizedMatrix(normalized(t))
	require.NoError(t, err)
	require.Len(t, X, 32)
	p := len(X[0])
	require.Equal(t, 6, p)

	for j := 0; j < p; j++ {
		var sum, sumSq float64
		for i := range X {
			sum += X[i][j]
			sumSq += X[i][j] * X[i][j]
		}
		mean := sum / float64(len(X))
		sd := math.Sqrt((sumSq - sum*mean) / float64(len(X)-1))
		require.InDelta(t, 0, mean, 1e-9, "column %d mean", j)
		require.InDelta(t, 1, sd, 1e-9, "column %d stddev", j)
	}
}

func TestFitAssignsEveryRow(t *testing.T) {
	X, err := StandardizedMatrix(normalized(t))
	require.NoError(t, err)

	assign, err := NewKMeans(3).Fit(X, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	require.Len(t, assign, len(X))

	seen := map[int]int{}
	for _, a := range assign {
		require.GreaterOrEqual(t, a, 0)
		require.Less(t, a, 3)
		seen[a]++
	}
	require.Len(t, seen, 3, "all three clusters used")
}

func TestFitIsDeterministicForFixedSeed(t *testing.T) {
	X, err := StandardizedMatrix(normalized(t))
	require.NoError(t, err)

	first, err := NewKMeans(3).Fit(X, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := NewKMeans(3).Fit(X, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestAnnotateAppendsNominalColumn(t *testing.T) {
	tbl := normalized(t)
	labels, err := Annotate(tbl, 3, 42)
	require.NoError(t, err)
	require.Len(t, labels, 32)

	require.True(t, tbl.IsNominal(dataset.ClusterColumn))
	levels, err := tbl.Levels(dataset.ClusterColumn)
	require.NoError(t, err)
	require.Subset(t, []string{"1", "2", "3"}, levels)

	// The numeric view is unchanged by the annotation.
	require.Equal(t, 6, len(tbl.NumericColumns()))
}

func TestFitErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := NewKMeans(3).Fit(nil, rng)
	require.Error(t, err)
	_, err = NewKMeans(3).Fit([][]float64{{1}, {2}}, rng)
	require.Error(t, err)
}

func TestProject(t *testing.T) {
	X, err := StandardizedMatrix(normalized(t))
	require.NoError(t, err)
	points, err := Project(X)
	require.NoError(t, err)
	require.Len(t, points, len(X))
	for _, p := range points {
		require.False(t, math.IsNaN(p[0]) || math.IsNaN(p[1]))
	}
}
