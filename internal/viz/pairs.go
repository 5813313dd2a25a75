package viz

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/motorlab/carscope/internal/dataset"
)

// PairPlot writes an n x n grid of scatter panels over the given numeric
// columns, points colored by the levels of the nominal factor. Diagonal
// panels carry the column name.
func PairPlot(t *dataset.Table, columns []string, factor, path string) error {
	cats, err := t.Categories(factor)
	if err != nil {
		return err
	}
	levels, err := t.Levels(factor)
	if err != nil {
		return err
	}
	levelIdx := make(map[string]int, len(levels))
	for i, l := range levels {
		levelIdx[l] = i
	}

	vals := make(map[string][]float64, len(columns))
	for _, c := range columns {
		v, err := t.Numeric(c)
		if err != nil {
			return err
		}
		vals[c] = v
	}

	n := len(columns)
	plots := make([][]*plot.Plot, n)
	for i := range plots {
		plots[i] = make([]*plot.Plot, n)
		for j := range plots[i] {
			p := plot.New()
			if i == n-1 {
				p.X.Label.Text = columns[j]
			}
			if j == 0 {
				p.Y.Label.Text = columns[i]
			}
			if i == j {
				p.Title.Text = columns[i]
				plots[i][j] = p
				continue
			}
			// One scatter per factor level so each keeps its color.
			perLevel := make([]plotter.XYs, len(levels))
			for r := 0; r < t.Nrow(); r++ {
				k := levelIdx[cats[r]]
				perLevel[k] = append(perLevel[k], plotter.XY{
					X: vals[columns[j]][r],
					Y: vals[columns[i]][r],
				})
			}
			for k, xys := range perLevel {
				if len(xys) == 0 {
					continue
				}
				sc, err := plotter.NewScatter(xys)
				if err != nil {
					return fmt.Errorf("pair plot %s/%s: %w", columns[i], columns[j], err)
				}
				sc.GlyphStyle.Radius = vg.Points(2)
				sc.GlyphStyle.Color = plotutil.Color(k)
				p.Add(sc)
			}
			plots[i][j] = p
		}
	}

	img := vgimg.New(vg.Points(float64(n)*160), vg.Points(float64(n)*160))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: n, Cols: n,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		for j := range plots[i] {
			plots[i][j].Draw(canvases[i][j])
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("pair plot: %w", err)
	}
	defer f.Close()
	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("pair plot: write %s: %w", path, err)
	}
	return nil
}
