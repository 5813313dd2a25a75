package correlate

import (
	"fmt"
	"image/color"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	positiveGlyph = color.RGBA{R: 33, G: 102, B: 172, A: 255}
	negativeGlyph = color.RGBA{R: 178, G: 24, B: 43, A: 255}
)

// GlyphPlot renders the upper triangle of the matrix as a grid of circles:
// area tracks |r|, blue for positive and red for negative correlations.
func (m *Matrix) GlyphPlot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "Pairwise correlations"
	n := len(m.Columns)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r := m.Values[i][j]
			cell, err := plotter.NewScatter(plotter.XYs{{X: float64(j), Y: float64(n - 1 - i)}})
			if err != nil {
				return nil, fmt.Errorf("glyph plot: %w", err)
			}
			cell.GlyphStyle.Shape = draw.CircleGlyph{}
			cell.GlyphStyle.Radius = vg.Points(2 + 8*math.Abs(r))
			if r >= 0 {
				cell.GlyphStyle.Color = positiveGlyph
			} else {
				cell.GlyphStyle.Color = negativeGlyph
			}
			p.Add(cell)
		}
	}

	p.NominalX(m.Columns...)
	p.Y.Tick.Marker = reversedTicks(m.Columns)
	p.X.Min, p.X.Max = -0.5, float64(n)-0.5
	p.Y.Min, p.Y.Max = -0.5, float64(n)-0.5
	return p, nil
}

// WriteGlyphPlot draws the glyph plot into the named image file. The file
// handle is scoped to this call and closed even when drawing fails.
func (m *Matrix) WriteGlyphPlot(path string) error {
	p, err := m.GlyphPlot()
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("glyph plot: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("glyph plot: %w", err)
	}
	defer f.Close()
	if _, err := wt.WriteTo(f); err != nil {
		return fmt.Errorf("glyph plot: write %s: %w", path, err)
	}
	return nil
}

// Heatmap renders the matrix as a diverging color map, first column on top.
func (m *Matrix) Heatmap() (*plot.Plot, error) {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	pal := cm.Palette(255)

	h := plotter.NewHeatMap(corrGrid{m}, pal)
	h.Min, h.Max = -1, 1

	p := plot.New()
	p.Title.Text = "Correlation heatmap"
	p.Add(h)
	p.NominalX(m.Columns...)
	p.Y.Tick.Marker = reversedTicks(m.Columns)
	return p, nil
}

// corrGrid adapts a Matrix to the plotter grid interface with rows flipped so
// the matrix reads top-down like its printed form.
type corrGrid struct{ m *Matrix }

func (g corrGrid) Dims() (c, r int) { n := len(g.m.Columns); return n, n }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }
func (g corrGrid) Z(c, r int) float64 {
	n := len(g.m.Columns)
	return g.m.Values[n-1-r][c]
}

// reversedTicks labels integer Y positions with column names, last name at 0.
func reversedTicks(names []string) plot.ConstantTicks {
	n := len(names)
	ticks := make([]plot.Tick, n)
	for i, name := range names {
		ticks[i] = plot.Tick{Value: float64(n - 1 - i), Label: name}
	}
	return plot.ConstantTicks(ticks)
}
