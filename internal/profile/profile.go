// Package profile computes the descriptive pass over the observation table:
// head rows, per-column summaries, a structural listing, and the missing-cell
// count.
package profile

import (
	"fmt"
	"strings"

	"github.com/aclements/go-moremath/stats"

	"github.com/motorlab/carscope/internal/dataset"
)

// HeadRows is how many leading rows the head listing shows.
const HeadRows = 6

// ColumnSummary captures the per-column statistics. Numeric columns carry the
// five-number summary plus the mean; nominal columns carry level counts.
type ColumnSummary struct {
	Name   string
	Kind   string // numeric|nominal
	Min    float64
	Q1     float64
	Median float64
	Mean   float64
	Q3     float64
	Max    float64
	Levels []LevelCount
}

// LevelCount is a category label and its frequency.
type LevelCount struct {
	Label string
	Count int
}

// Profile is the full descriptive report over a table at a point in time.
type Profile struct {
	Rows    int
	Head    [][]string
	Columns []ColumnSummary
	Missing int
}

// Describe profiles the table as it currently stands. Columns already recast
// to nominal are summarized by level counts, numeric ones by quantile stats.
func Describe(t *dataset.Table) (*Profile, error) {
	p := &Profile{
		Rows:    t.Nrow(),
		Head:    t.Head(HeadRows),
		Missing: t.MissingCount(),
	}
	for _, name := range t.Columns() {
		if t.IsNominal(name) {
			s, err := summarizeNominal(t, name)
			if err != nil {
				return nil, err
			}
			p.Columns = append(p.Columns, s)
			continue
		}
		s, err := summarizeNumeric(t, name)
		if err != nil {
			return nil, err
		}
		p.Columns = append(p.Columns, s)
	}
	return p, nil
}

func summarizeNumeric(t *dataset.Table, name string) (ColumnSummary, error) {
	vals, err := t.Numeric(name)
	if err != nil {
		return ColumnSummary{}, err
	}
	s := stats.Sample{Xs: append([]float64(nil), vals...)}
	s.Sort()
	return ColumnSummary{
		Name:   name,
		Kind:   "numeric",
		Min:    s.Quantile(0),
		Q1:     s.Quantile(0.25),
		Median: s.Quantile(0.5),
		Mean:   s.Mean(),
		Q3:     s.Quantile(0.75),
		Max:    s.Quantile(1),
	}, nil
}

func summarizeNominal(t *dataset.Table, name string) (ColumnSummary, error) {
	cats, err := t.Categories(name)
	if err != nil {
		return ColumnSummary{}, err
	}
	levels, err := t.Levels(name)
	if err != nil {
		return ColumnSummary{}, err
	}
	counts := make(map[string]int)
	for _, c := range cats {
		counts[c]++
	}
	sum := ColumnSummary{Name: name, Kind: "nominal"}
	for _, l := range levels {
		sum.Levels = append(sum.Levels, LevelCount{Label: l, Count: counts[l]})
	}
	return sum, nil
}

// StructureLine renders one structural listing entry: name, kind and the
// leading sample values, in the style of a compact str() dump.
func (p *Profile) StructureLine(i int) string {
	c := p.Columns[i]
	var b strings.Builder
	fmt.Fprintf(&b, "$ %-7s %s", c.Name, c.Kind)
	if c.Kind == "nominal" {
		labels := make([]string, 0, len(c.Levels))
		for _, l := range c.Levels {
			labels = append(labels, l.Label)
		}
		fmt.Fprintf(&b, " w/ %d levels: %s", len(c.Levels), strings.Join(labels, ", "))
	} else {
		fmt.Fprintf(&b, "  min %.4g, median %.4g, max %.4g", c.Min, c.Median, c.Max)
	}
	return b.String()
}
