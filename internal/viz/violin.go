package viz

import (
	"fmt"
	"image/color"

	"github.com/aclements/go-moremath/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"

	"github.com/motorlab/carscope/internal/dataset"
)

// violinSteps is the vertical resolution of each density outline.
const violinSteps = 60

// Violin renders one kernel-density outline per level of the nominal factor,
// mirrored around the level's position like a violin plot.
func Violin(t *dataset.Table, value, factor string) (*plot.Plot, error) {
	levels, groups, err := groupedValues(t, value, factor)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s by %s (density)", value, factor)
	p.Y.Label.Text = value
	p.X.Label.Text = factor

	for i, g := range groups {
		poly, err := violinPolygon(g, float64(i))
		if err != nil {
			return nil, fmt.Errorf("violin %s/%s: %w", value, levels[i], err)
		}
		c := plotutil.Color(i)
		if rgba, ok := c.(color.RGBA); ok {
			rgba.A = 128
			poly.Color = rgba
		} else {
			poly.Color = c
		}
		p.Add(poly)
	}
	p.NominalX(levels...)
	return p, nil
}

// violinPolygon builds a mirrored density outline centered at x for one
// group's values, widths scaled so every violin has the same maximum width.
func violinPolygon(vals []float64, x float64) (*plotter.Polygon, error) {
	s := stats.Sample{Xs: append([]float64(nil), vals...)}
	s.Sort()
	lo, hi := s.Quantile(0), s.Quantile(1)
	pad := (hi - lo) * 0.15
	lo, hi = lo-pad, hi+pad

	kde := stats.KDE{Sample: s}
	dens := make([]float64, violinSteps+1)
	maxD := 0.0
	for k := 0; k <= violinSteps; k++ {
		yv := lo + (hi-lo)*float64(k)/violinSteps
		dens[k] = kde.PDF(yv)
		if dens[k] > maxD {
			maxD = dens[k]
		}
	}
	if maxD == 0 {
		return nil, fmt.Errorf("zero density")
	}

	const halfWidth = 0.4
	xys := make(plotter.XYs, 0, 2*(violinSteps+1))
	for k := 0; k <= violinSteps; k++ {
		yv := lo + (hi-lo)*float64(k)/violinSteps
		xys = append(xys, plotter.XY{X: x + halfWidth*dens[k]/maxD, Y: yv})
	}
	for k := violinSteps; k >= 0; k-- {
		yv := lo + (hi-lo)*float64(k)/violinSteps
		xys = append(xys, plotter.XY{X: x - halfWidth*dens[k]/maxD, Y: yv})
	}
	return plotter.NewPolygon(xys)
}
