// Package hypothesis runs the two read-only significance tests of the
// pipeline: a one-way ANOVA and a chi-square independence test. Both consume
// the table and produce a scalar report without mutating anything.
package hypothesis

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/motorlab/carscope/internal/dataset"
)

// ANOVAResult reports a one-way analysis of variance.
type ANOVAResult struct {
	Response string
	Factor   string
	Groups   int
	F        float64
	DFB      int // between-groups degrees of freedom
	DFW      int // within-groups degrees of freedom
	P        float64
}

// OneWayANOVA tests whether the mean of a numeric response differs across the
// levels of a nominal factor. Groups may be of unequal size; fewer than two
// groups or zero within-group variance is an error.
func OneWayANOVA(t *dataset.Table, response, factor string) (*ANOVAResult, error) {
	y, err := t.Numeric(response)
	if err != nil {
		return nil, fmt.Errorf("anova: %w", err)
	}
	cats, err := t.Categories(factor)
	if err != nil {
		return nil, fmt.Errorf("anova: %w", err)
	}

	groups := make(map[string][]float64)
	for i, c := range cats {
		groups[c] = append(groups[c], y[i])
	}
	k := len(groups)
	n := len(y)
	if k < 2 {
		return nil, fmt.Errorf("anova: factor %q has %d level(s), need at least 2", factor, k)
	}

	grand := 0.0
	for _, v := range y {
		grand += v
	}
	grand /= float64(n)

	var ssb, ssw float64
	for _, g := range groups {
		m := 0.0
		for _, v := range g {
			m += v
		}
		m /= float64(len(g))
		d := m - grand
		ssb += float64(len(g)) * d * d
		for _, v := range g {
			ssw += (v - m) * (v - m)
		}
	}
	dfb := k - 1
	dfw := n - k
	if dfw <= 0 || ssw == 0 {
		return nil, fmt.Errorf("anova: degenerate within-group variance for %s ~ %s", response, factor)
	}

	f := (ssb / float64(dfb)) / (ssw / float64(dfw))
	dist := distuv.F{D1: float64(dfb), D2: float64(dfw)}
	return &ANOVAResult{
		Response: response,
		Factor:   factor,
		Groups:   k,
		F:        f,
		DFB:      dfb,
		DFW:      dfw,
		P:        1 - dist.CDF(f),
	}, nil
}

func (r *ANOVAResult) String() string {
	return fmt.Sprintf("ANOVA %s ~ %s: F(%d,%d) = %.3f, p = %.4g",
		r.Response, r.Factor, r.DFB, r.DFW, r.F, r.P)
}
