package model

import (
	"fmt"

	"github.com/motorlab/carscope/internal/dataset"
)

// Design is the expanded predictor matrix for a model formula: numeric
// predictors pass through, nominal ones become one indicator column per
// non-reference level. Levels come from the full table, so a level missing
// from the training rows shows up as a singular design rather than silently
// shifting meaning.
type Design struct {
	Terms []string    // column names of X, expansion order
	X     [][]float64 // one row per table row
	Y     []float64
}

// BuildDesign expands target ~ predictors over every table row.
func BuildDesign(t *dataset.Table, target string, predictors []string) (*Design, error) {
	y, err := t.Numeric(target)
	if err != nil {
		return nil, fmt.Errorf("design: target: %w", err)
	}

	n := t.Nrow()
	d := &Design{Y: y, X: make([][]float64, n)}
	for i := range d.X {
		d.X[i] = []float64{}
	}

	for _, name := range predictors {
		if name == target {
			return nil, fmt.Errorf("design: %q is the target", name)
		}
		if !t.IsNominal(name) {
			vals, err := t.Numeric(name)
			if err != nil {
				return nil, fmt.Errorf("design: %w", err)
			}
			d.Terms = append(d.Terms, name)
			for i := range d.X {
				d.X[i] = append(d.X[i], vals[i])
			}
			continue
		}

		levels, err := t.Levels(name)
		if err != nil {
			return nil, err
		}
		if len(levels) < 2 {
			return nil, fmt.Errorf("design: nominal %q has a single level", name)
		}
		cats, err := t.Categories(name)
		if err != nil {
			return nil, err
		}
		// First level is the reference and gets no indicator.
		for _, level := range levels[1:] {
			d.Terms = append(d.Terms, name+"="+level)
			for i := range d.X {
				ind := 0.0
				if cats[i] == level {
					ind = 1
				}
				d.X[i] = append(d.X[i], ind)
			}
		}
	}
	if len(d.Terms) == 0 {
		return nil, fmt.Errorf("design: no predictors")
	}
	return d, nil
}

// Rows gathers the design rows and targets at the given indices.
func (d *Design) Rows(idx []int) ([][]float64, []float64) {
	X := make([][]float64, len(idx))
	y := make([]float64, len(idx))
	for i, r := range idx {
		X[i] = d.X[r]
		y[i] = d.Y[r]
	}
	return X, y
}
