// Package dataset holds the observation table that the analysis pipeline is
// threaded through: a fixed set of named columns, all numeric at load time,
// with some recast to nominal categories before the statistical stages run.
package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// RequiredColumns is the fixed column set every input must provide, in
// canonical order. Column identity is never renamed downstream.
var RequiredColumns = []string{
	"mpg", "cyl", "disp", "hp", "drat", "wt", "qsec", "vs", "am", "gear", "carb",
}

// NominalColumns are the columns recast from numeric codes to unordered
// categories by Normalize.
var NominalColumns = []string{"cyl", "vs", "am", "gear", "carb"}

// ClusterColumn is appended by the clustering stage.
const ClusterColumn = "cluster"

// Table is the process-wide observation table. It wraps a gota DataFrame and
// tracks which columns are nominal. Mutation (nominal recast, cluster append)
// is in place and visible to every later stage holding the same *Table.
type Table struct {
	df      dataframe.DataFrame
	labels  []string // row labels (car model names), display only
	nominal map[string]bool
}

func newTable(df dataframe.DataFrame, labels []string) (*Table, error) {
	if df.Err != nil {
		return nil, fmt.Errorf("load table: %w", df.Err)
	}
	if df.Nrow() == 0 {
		return nil, fmt.Errorf("load table: input has no rows")
	}
	have := make(map[string]bool, df.Ncol())
	for _, n := range df.Names() {
		have[n] = true
	}
	for _, n := range RequiredColumns {
		if !have[n] {
			return nil, fmt.Errorf("load table: missing required column %q", n)
		}
	}
	if len(labels) == 0 {
		labels = make([]string, df.Nrow())
		for i := range labels {
			labels[i] = fmt.Sprintf("row %d", i+1)
		}
	}
	return &Table{df: df, labels: labels, nominal: make(map[string]bool)}, nil
}

// Nrow returns the constant row count.
func (t *Table) Nrow() int { return t.df.Nrow() }

// Columns returns the current column names in table order.
func (t *Table) Columns() []string { return t.df.Names() }

// RowLabels returns the display label of each row.
func (t *Table) RowLabels() []string { return t.labels }

// IsNominal reports whether a column is currently treated as categorical.
func (t *Table) IsNominal(name string) bool { return t.nominal[name] }

// NumericColumns returns the columns still treated as numbers.
func (t *Table) NumericColumns() []string {
	out := make([]string, 0, t.df.Ncol())
	for _, n := range t.df.Names() {
		if !t.nominal[n] {
			out = append(out, n)
		}
	}
	return out
}

// Numeric returns the float values of a numeric column.
func (t *Table) Numeric(name string) ([]float64, error) {
	if t.nominal[name] {
		return nil, fmt.Errorf("column %q is nominal, not numeric", name)
	}
	col := t.df.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("column %q: %w", name, col.Err)
	}
	return col.Float(), nil
}

// Categories returns the per-row category labels of a nominal column.
func (t *Table) Categories(name string) ([]string, error) {
	if !t.nominal[name] {
		return nil, fmt.Errorf("column %q is not nominal", name)
	}
	col := t.df.Col(name)
	if col.Err != nil {
		return nil, fmt.Errorf("column %q: %w", name, col.Err)
	}
	return col.Records(), nil
}

// Levels returns the distinct labels of a nominal column in sorted order.
// Labels that parse as numbers sort numerically so code-derived levels keep
// their natural order (4, 6, 8 rather than "4", "6", "8" lexically).
func (t *Table) Levels(name string) ([]string, error) {
	cats, err := t.Categories(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var levels []string
	for _, c := range cats {
		if !seen[c] {
			seen[c] = true
			levels = append(levels, c)
		}
	}
	sort.Slice(levels, func(i, j int) bool {
		a, errA := strconv.ParseFloat(levels[i], 64)
		b, errB := strconv.ParseFloat(levels[j], 64)
		if errA == nil && errB == nil {
			return a < b
		}
		return levels[i] < levels[j]
	})
	return levels, nil
}

// Normalize recasts the named numeric columns to nominal categories in place.
// The recast is label-preserving: each numeric code becomes its shortest
// decimal form, so grouping by category matches grouping by the original code.
func (t *Table) Normalize(names ...string) error {
	for _, name := range names {
		col := t.df.Col(name)
		if col.Err != nil {
			return fmt.Errorf("normalize: unknown column %q: %w", name, col.Err)
		}
		if t.nominal[name] {
			continue
		}
		vals := col.Float()
		labels := make([]string, len(vals))
		for i, v := range vals {
			labels[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		df := t.df.Mutate(series.New(labels, series.String, name))
		if df.Err != nil {
			return fmt.Errorf("normalize %q: %w", name, df.Err)
		}
		t.df = df
		t.nominal[name] = true
	}
	return nil
}

// AppendNominal adds a new nominal column, one label per row. Used by the
// clustering stage to annotate the table with cluster membership.
func (t *Table) AppendNominal(name string, labels []string) error {
	if len(labels) != t.Nrow() {
		return fmt.Errorf("append %q: have %d labels for %d rows", name, len(labels), t.Nrow())
	}
	df := t.df.Mutate(series.New(labels, series.String, name))
	if df.Err != nil {
		return fmt.Errorf("append %q: %w", name, df.Err)
	}
	t.df = df
	t.nominal[name] = true
	return nil
}

// Matrix extracts the given numeric columns as a row-major matrix.
func (t *Table) Matrix(cols []string) ([][]float64, error) {
	data := make([][]float64, len(cols))
	for j, name := range cols {
		vals, err := t.Numeric(name)
		if err != nil {
			return nil, err
		}
		data[j] = vals
	}
	rows := make([][]float64, t.Nrow())
	for i := range rows {
		row := make([]float64, len(cols))
		for j := range cols {
			row[j] = data[j][i]
		}
		rows[i] = row
	}
	return rows, nil
}

// Head returns the first n rows as display records, row label first.
func (t *Table) Head(n int) [][]string {
	if n > t.Nrow() {
		n = t.Nrow()
	}
	recs := t.df.Records() // first record is the header
	out := make([][]string, 0, n)
	for i := 1; i <= n; i++ {
		row := append([]string{t.labels[i-1]}, recs[i]...)
		out = append(out, row)
	}
	return out
}

// MissingCount counts missing cells across the whole table: NaN in numeric
// columns, empty or NaN records in nominal ones.
func (t *Table) MissingCount() int {
	missing := 0
	for _, name := range t.df.Names() {
		col := t.df.Col(name)
		if t.nominal[name] {
			for _, r := range col.Records() {
				if r == "" || r == "NaN" {
					missing++
				}
			}
			continue
		}
		for _, v := range col.Float() {
			if math.IsNaN(v) {
				missing++
			}
		}
	}
	return missing
}
