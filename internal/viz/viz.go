// Package viz renders the univariate and bivariate plots of the pipeline with
// gonum/plot. Every renderer returns a *plot.Plot; writing to disk goes
// through Save so each file handle stays scoped to one call.
package viz

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/motorlab/carscope/internal/dataset"
)

// Save draws a plot into the named PNG file, closing the handle even when
// drawing fails.
func Save(p *plot.Plot, w, h vg.Length, path string) error {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	defer f.Close()
	if _, err := wt.WriteTo(f); err != nil {
		return fmt.Errorf("plot %s: %w", path, err)
	}
	return nil
}

// Histogram renders a frequency histogram of one numeric column.
func Histogram(t *dataset.Table, column string, bins int) (*plot.Plot, error) {
	vals, err := t.Numeric(column)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = "Histogram of " + column
	p.X.Label.Text = column
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(plotter.Values(vals), bins)
	if err != nil {
		return nil, fmt.Errorf("histogram %s: %w", column, err)
	}
	p.Add(h)
	return p, nil
}

// groupedValues collects a numeric column's values per level of a nominal
// column, level order preserved.
func groupedValues(t *dataset.Table, value, factor string) ([]string, [][]float64, error) {
	vals, err := t.Numeric(value)
	if err != nil {
		return nil, nil, err
	}
	cats, err := t.Categories(factor)
	if err != nil {
		return nil, nil, err
	}
	levels, err := t.Levels(factor)
	if err != nil {
		return nil, nil, err
	}
	byLevel := make(map[string][]float64)
	for i, c := range cats {
		byLevel[c] = append(byLevel[c], vals[i])
	}
	groups := make([][]float64, len(levels))
	for i, l := range levels {
		groups[i] = byLevel[l]
	}
	return levels, groups, nil
}

// Boxplot renders one box per level of the nominal factor.
func Boxplot(t *dataset.Table, value, factor string) (*plot.Plot, error) {
	levels, groups, err := groupedValues(t, value, factor)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s by %s", value, factor)
	p.Y.Label.Text = value
	p.X.Label.Text = factor

	for i, g := range groups {
		b, err := plotter.NewBoxPlot(vg.Points(24), float64(i), plotter.Values(g))
		if err != nil {
			return nil, fmt.Errorf("boxplot %s/%s: %w", value, levels[i], err)
		}
		p.Add(b)
	}
	p.NominalX(levels...)
	return p, nil
}
