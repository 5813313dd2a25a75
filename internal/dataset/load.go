package dataset

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// The 1974 Motor Trend road-test dataset: 32 car models, 11 numeric columns.
//
//go:embed motortrend.csv
var motortrendCSV string

// Builtin materializes the built-in motor-trend table.
func Builtin() (*Table, error) {
	return fromCSV(strings.NewReader(motortrendCSV))
}

// Load reads a CSV file with the same 11 named numeric columns as the builtin
// dataset. An optional leading "model" column supplies row labels. A missing
// column or empty file is a configuration error, reported before any analysis.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	t, err := fromCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

func fromCSV(r io.Reader) (*Table, error) {
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.Float),
		dataframe.WithTypes(map[string]series.Type{"model": series.String}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}
	var labels []string
	for _, n := range df.Names() {
		if n == "model" {
			labels = df.Col("model").Records()
			df = df.Drop("model")
			if df.Err != nil {
				return nil, fmt.Errorf("drop label column: %w", df.Err)
			}
			break
		}
	}
	return newTable(df, labels)
}
