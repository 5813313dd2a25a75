package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuiltinShape(t *testing.T) {
	tbl, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if got := tbl.Nrow(); got != 32 {
		t.Fatalf("row count = %d, want 32", got)
	}
	if got := len(tbl.Columns()); got != 11 {
		t.Fatalf("column count = %d, want 11", got)
	}
	if got := tbl.MissingCount(); got != 0 {
		t.Fatalf("missing cells = %d, want 0", got)
	}
	if got := len(tbl.RowLabels()); got != 32 {
		t.Fatalf("row labels = %d, want 32", got)
	}
	if tbl.RowLabels()[0] != "Mazda RX4" {
		t.Fatalf("first row label = %q", tbl.RowLabels()[0])
	}
}

func TestNormalizeIsLabelPreserving(t *testing.T) {
	tbl, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	codes, err := tbl.Numeric("cyl")
	if err != nil {
		t.Fatalf("Numeric(cyl): %v", err)
	}

	if err := tbl.Normalize("cyl"); err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if !tbl.IsNominal("cyl") {
		t.Fatal("cyl not nominal after Normalize")
	}
	if tbl.Nrow() != 32 {
		t.Fatalf("row count changed to %d", tbl.Nrow())
	}

	cats, err := tbl.Categories("cyl")
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	// Grouping by category must match grouping by the original numeric code.
	byCode := map[float64]int{}
	for _, c := range codes {
		byCode[c]++
	}
	byCat := map[string]int{}
	for _, c := range cats {
		byCat[c]++
	}
	if len(byCode) != len(byCat) {
		t.Fatalf("group count mismatch: %d codes vs %d categories", len(byCode), len(byCat))
	}
	for code, n := range map[float64]int{4: 11, 6: 7, 8: 14} {
		if byCode[code] != n {
			t.Errorf("code %v count = %d, want %d", code, byCode[code], n)
		}
	}
	if byCat["4"] != 11 || byCat["6"] != 7 || byCat["8"] != 14 {
		t.Errorf("category counts = %v", byCat)
	}

	levels, err := tbl.Levels("cyl")
	if err != nil {
		t.Fatalf("Levels: %v", err)
	}
	if strings.Join(levels, ",") != "4,6,8" {
		t.Errorf("levels = %v, want numeric order 4,6,8", levels)
	}
}

func TestNormalizeUnknownColumn(t *testing.T) {
	tbl, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if err := tbl.Normalize("no_such_column"); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestAppendNominal(t *testing.T) {
	tbl, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	if err := tbl.AppendNominal(ClusterColumn, []string{"1", "2"}); err == nil {
		t.Fatal("expected length-mismatch error")
	}
	labels := make([]string, tbl.Nrow())
	for i := range labels {
		labels[i] = "1"
	}
	if err := tbl.AppendNominal(ClusterColumn, labels); err != nil {
		t.Fatalf("AppendNominal: %v", err)
	}
	if got := len(tbl.Columns()); got != 12 {
		t.Fatalf("column count = %d, want 12 after append", got)
	}
	if !tbl.IsNominal(ClusterColumn) {
		t.Fatal("cluster column not nominal")
	}
}

func TestLoadMissingColumn(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "bad.csv")
	csv := "mpg,cyl\n21,6\n22,4\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "missing required column") {
		t.Fatalf("want missing-column error, got %v", err)
	}
}

func TestLoadEmpty(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "empty.csv")
	header := strings.Join(RequiredColumns, ",")
	if err := os.WriteFile(path, []byte(header+"\n"), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for empty input")
	}
}

func TestHead(t *testing.T) {
	tbl, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin: %v", err)
	}
	head := tbl.Head(6)
	if len(head) != 6 {
		t.Fatalf("head rows = %d, want 6", len(head))
	}
	// Row label plus the 11 data columns.
	if len(head[0]) != 12 {
		t.Fatalf("head width = %d, want 12", len(head[0]))
	}
	if head[2][0] != "Datsun 710" {
		t.Errorf("head[2] label = %q", head[2][0])
	}
}
