// Package report renders the templated analysis document. The template mixes
// narrative text with results computed earlier in the pipeline; the default
// lives alongside this package and can be overridden with a file path.
package report

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/google/uuid"

	"github.com/motorlab/carscope/internal/correlate"
	"github.com/motorlab/carscope/internal/profile"
	"github.com/motorlab/carscope/internal/utils"
)

//go:embed template.md
var defaultTemplate string

// Data is everything the report template can reference.
type Data struct {
	RunID     string
	Timestamp string

	Rows        int
	ColumnCount int
	Missing     int
	Target      string
	Predictors  []string
	Columns     []profile.ColumnSummary

	ANOVA     string
	ChiSquare string

	TopPairs      []correlate.Pair
	GlyphPlotFile string
	HeatmapFile   string

	Clusters        int
	Seed            int64
	ClusterSizes    map[string]int
	ClusterPlotFile string

	TrainRows   int
	TestRows    int
	OLSSummary  string
	TreeSummary string

	PlotFiles []string
}

// NewData stamps run identity onto a report payload.
func NewData() *Data {
	return &Data{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// Render executes the template (templatePath empty means the embedded
// default) and writes the document atomically to outPath.
func Render(d *Data, templatePath, outPath string) error {
	text := defaultTemplate
	if templatePath != "" {
		b, err := os.ReadFile(templatePath)
		if err != nil {
			return fmt.Errorf("report template: %w", err)
		}
		text = string(b)
	}

	tmpl, err := template.New("report").Funcs(funcMap()).Parse(text)
	if err != nil {
		return fmt.Errorf("parse report template: %w", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := utils.SafeWriteFile(outPath, buf.Bytes()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func funcMap() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"numeric": func(v float64, kind string) string {
			if kind != "numeric" {
				return ""
			}
			return strconv.FormatFloat(v, 'g', 4, 64)
		},
		"levelsOrMax": func(c profile.ColumnSummary) string {
			if c.Kind == "numeric" {
				return strconv.FormatFloat(c.Max, 'g', 4, 64)
			}
			parts := make([]string, 0, len(c.Levels))
			for _, l := range c.Levels {
				parts = append(parts, fmt.Sprintf("%s:%d", l.Label, l.Count))
			}
			return strings.Join(parts, ", ")
		},
	}
}
