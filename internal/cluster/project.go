package cluster

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Project reduces the standardized matrix to its first two principal axes via
// SVD and returns one (x, y) point per row.
func Project(X [][]float64) ([][2]float64, error) {
	n, p := len(X), len(X[0])
	flat := make([]float64, 0, n*p)
	for _, row := range X {
		flat = append(flat, row...)
	}
	M := mat.NewDense(n, p, flat)

	var svd mat.SVD
	if ok := svd.Factorize(M, mat.SVDThin); !ok {
		return nil, fmt.Errorf("cluster projection: SVD failed to converge")
	}
	var v mat.Dense
	svd.VTo(&v)

	points := make([][2]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < 2; j++ {
			var s float64
			for k := 0; k < p; k++ {
				s += M.At(i, k) * v.At(k, j)
			}
			points[i][j] = s
		}
	}
	return points, nil
}

// Plot renders the 2-D projection as a scatter colored by cluster label.
func Plot(points [][2]float64, labels []string, k int) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Cluster projection (first two principal axes)"
	p.X.Label.Text = "PC1"
	p.Y.Label.Text = "PC2"

	byLabel := make(map[string]plotter.XYs)
	for i, pt := range points {
		byLabel[labels[i]] = append(byLabel[labels[i]], plotter.XY{X: pt[0], Y: pt[1]})
	}
	for c := 1; c <= k; c++ {
		label := fmt.Sprintf("%d", c)
		xys, ok := byLabel[label]
		if !ok {
			continue
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return nil, fmt.Errorf("cluster plot: %w", err)
		}
		sc.GlyphStyle.Shape = draw.CircleGlyph{}
		sc.GlyphStyle.Radius = vg.Points(4)
		sc.GlyphStyle.Color = plotutil.Color(c - 1)
		p.Add(sc)
		p.Legend.Add("cluster "+label, sc)
	}
	p.Legend.Top = true
	return p, nil
}
