package profile

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/motorlab/carscope/internal/dataset"
)

// Print writes the head rows, summary table, structure listing and missing
// count to w in pipeline order.
func (p *Profile) Print(w io.Writer, t *dataset.Table) {
	fmt.Fprintf(w, "Head (first %d of %d rows):\n", len(p.Head), p.Rows)
	head := tablewriter.NewWriter(w)
	head.SetHeader(append([]string{"model"}, t.Columns()...))
	head.SetBorder(false)
	for _, row := range p.Head {
		head.Append(row)
	}
	head.Render()

	fmt.Fprintln(w, "\nSummary:")
	sum := tablewriter.NewWriter(w)
	sum.SetHeader([]string{"column", "kind", "min", "q1", "median", "mean", "q3", "max / levels"})
	sum.SetBorder(false)
	for _, c := range p.Columns {
		if c.Kind == "nominal" {
			var levels string
			for i, l := range c.Levels {
				if i > 0 {
					levels += ", "
				}
				levels += fmt.Sprintf("%s:%d", l.Label, l.Count)
			}
			sum.Append([]string{c.Name, c.Kind, "", "", "", "", "", levels})
			continue
		}
		sum.Append([]string{
			c.Name, c.Kind,
			fmtG(c.Min), fmtG(c.Q1), fmtG(c.Median), fmtG(c.Mean), fmtG(c.Q3), fmtG(c.Max),
		})
	}
	sum.Render()

	fmt.Fprintln(w, "\nStructure:")
	for i := range p.Columns {
		fmt.Fprintln(w, p.StructureLine(i))
	}

	fmt.Fprintf(w, "\nMissing cells: %d\n", p.Missing)
}

func fmtG(v float64) string {
	return strconv.FormatFloat(v, 'g', 4, 64)
}
