package profile

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/motorlab/carscope/internal/dataset"
)

func builtin(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	return tbl
}

func TestDescribeNumeric(t *testing.T) {
	p, err := Describe(builtin(t))
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if p.Rows != 32 {
		t.Fatalf("rows = %d", p.Rows)
	}
	if p.Missing != 0 {
		t.Fatalf("missing = %d, want 0", p.Missing)
	}
	if len(p.Head) != HeadRows {
		t.Fatalf("head rows = %d, want %d", len(p.Head), HeadRows)
	}

	var mpg *ColumnSummary
	for i := range p.Columns {
		if p.Columns[i].Name == "mpg" {
			mpg = &p.Columns[i]
		}
	}
	if mpg == nil {
		t.Fatal("no mpg summary")
	}
	if mpg.Kind != "numeric" {
		t.Fatalf("mpg kind = %s", mpg.Kind)
	}
	if math.Abs(mpg.Mean-20.0906) > 0.001 {
		t.Errorf("mpg mean = %v, want ~20.09", mpg.Mean)
	}
	if mpg.Min != 10.4 || mpg.Max != 33.9 {
		t.Errorf("mpg range = [%v, %v], want [10.4, 33.9]", mpg.Min, mpg.Max)
	}
	if math.Abs(mpg.Median-19.2) > 1e-9 {
		t.Errorf("mpg median = %v, want 19.2", mpg.Median)
	}
}

func TestDescribeNominal(t *testing.T) {
	tbl := builtin(t)
	if err := tbl.Normalize(dataset.NominalColumns...); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	p, err := Describe(tbl)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	for _, c := range p.Columns {
		if c.Name != "cyl" {
			continue
		}
		if c.Kind != "nominal" {
			t.Fatalf("cyl kind = %s", c.Kind)
		}
		want := map[string]int{"4": 11, "6": 7, "8": 14}
		if len(c.Levels) != len(want) {
			t.Fatalf("cyl levels = %v", c.Levels)
		}
		for _, l := range c.Levels {
			if want[l.Label] != l.Count {
				t.Errorf("cyl level %s count = %d, want %d", l.Label, l.Count, want[l.Label])
			}
		}
		return
	}
	t.Fatal("no cyl summary")
}

func TestPrint(t *testing.T) {
	tbl := builtin(t)
	p, err := Describe(tbl)
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	var buf bytes.Buffer
	p.Print(&buf, tbl)
	out := buf.String()
	for _, want := range []string{"Head (first 6 of 32 rows)", "Summary:", "Structure:", "Missing cells: 0", "Mazda RX4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
