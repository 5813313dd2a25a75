// Package cluster partitions the table's rows with k-means on the
// standardized numeric columns and annotates the table with the result.
package cluster

import (
	"fmt"
	"math"
	"math/rand"
	"strconv"

	"gonum.org/v1/gonum/stat"

	"github.com/motorlab/carscope/internal/dataset"
)

// KMeans holds the clustering configuration and, after Fit, the centroids.
type KMeans struct {
	K       int
	MaxIter int

	Centroids [][]float64
	Inertia   float64 // within-cluster sum of squared distances
}

// NewKMeans returns a clusterer for k groups with a sane iteration cap.
func NewKMeans(k int) *KMeans {
	return &KMeans{K: k, MaxIter: 100}
}

// Fit partitions the rows of X into K groups. Initialization is k-means++
// drawn from rng, so a fixed seed reproduces the same partition on the same
// input.
func (m *KMeans) Fit(X [][]float64, rng *rand.Rand) ([]int, error) {
	n := len(X)
	if n == 0 {
		return nil, fmt.Errorf("kmeans: empty input")
	}
	if n < m.K {
		return nil, fmt.Errorf("kmeans: %d rows for k=%d", n, m.K)
	}
	p := len(X[0])

	m.initCentroids(X, rng)
	assign := make([]int, n)

	for it := 0; it < m.MaxIter; it++ {
		changed := false
		m.Inertia = 0

		for i, x := range X {
			best, bestD := -1, math.MaxFloat64
			for k := range m.Centroids {
				if d := sqDist(x, m.Centroids[k]); d < bestD {
					bestD = d
					best = k
				}
			}
			if assign[i] != best {
				changed = true
				assign[i] = best
			}
			m.Inertia += bestD
		}

		sums := make([][]float64, m.K)
		counts := make([]int, m.K)
		for k := range sums {
			sums[k] = make([]float64, p)
		}
		for i, x := range X {
			k := assign[i]
			counts[k]++
			for j, v := range x {
				sums[k][j] += v
			}
		}
		for k := range m.Centroids {
			if counts[k] == 0 {
				continue
			}
			for j := range m.Centroids[k] {
				m.Centroids[k][j] = sums[k][j] / float64(counts[k])
			}
		}

		if !changed {
			break
		}
	}
	return assign, nil
}

// initCentroids seeds the centroids k-means++ style: first pick uniform, each
// later pick weighted by squared distance to the nearest chosen centroid.
func (m *KMeans) initCentroids(X [][]float64, rng *rand.Rand) {
	n := len(X)
	m.Centroids = make([][]float64, 0, m.K)
	m.Centroids = append(m.Centroids, append([]float64(nil), X[rng.Intn(n)]...))

	for len(m.Centroids) < m.K {
		distSq := make([]float64, n)
		total := 0.0
		for i, x := range X {
			minD := math.MaxFloat64
			for _, c := range m.Centroids {
				if d := sqDist(x, c); d < minD {
					minD = d
				}
			}
			distSq[i] = minD
			total += minD
		}
		r := rng.Float64() * total
		cum := 0.0
		picked := n - 1
		for i, d := range distSq {
			cum += d
			if cum >= r {
				picked = i
				break
			}
		}
		m.Centroids = append(m.Centroids, append([]float64(nil), X[picked]...))
	}
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// Annotate clusters the table's numeric columns (standardized to zero mean
// and unit variance so no column dominates the distance) and appends the
// assignment as a new nominal column. It returns the per-row labels.
func Annotate(t *dataset.Table, k int, seed int64) ([]string, error) {
	X, err := StandardizedMatrix(t)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	assign, err := NewKMeans(k).Fit(X, rng)
	if err != nil {
		return nil, err
	}
	labels := make([]string, len(assign))
	for i, a := range assign {
		labels[i] = strconv.Itoa(a + 1)
	}
	if err := t.AppendNominal(dataset.ClusterColumn, labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// StandardizedMatrix extracts the numeric columns as rows of z-scores.
// A constant column cannot be standardized and is an error.
func StandardizedMatrix(t *dataset.Table) ([][]float64, error) {
	cols := t.NumericColumns()
	X, err := t.Matrix(cols)
	if err != nil {
		return nil, err
	}
	for j, name := range cols {
		col := make([]float64, len(X))
		for i := range X {
			col[i] = X[i][j]
		}
		mean, std := stat.MeanStdDev(col, nil)
		if std == 0 {
			return nil, fmt.Errorf("cluster: column %q is constant", name)
		}
		for i := range X {
			X[i][j] = (X[i][j] - mean) / std
		}
	}
	return X, nil
}
