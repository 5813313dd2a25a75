package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/motorlab/carscope/internal/cluster"
	"github.com/motorlab/carscope/internal/correlate"
	"github.com/motorlab/carscope/internal/dataset"
	"github.com/motorlab/carscope/internal/hypothesis"
	"github.com/motorlab/carscope/internal/model"
	"github.com/motorlab/carscope/internal/profile"
	"github.com/motorlab/carscope/internal/report"
	"github.com/motorlab/carscope/internal/utils"
	"github.com/motorlab/carscope/internal/viz"
)

// GlyphPlotName is the fixed default name of the exported correlation image.
const GlyphPlotName = "correlation_glyphs.png"

var (
	runDataPath  string
	runOutDir    string
	runTemplate  string
	runSeed      int64
	runClusters  int
	runTrainFrac float64
	runSkipPlots bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full analysis pipeline and render the report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("no configuration loaded")
		}
		f := cmd.Flags()
		if f.Changed("data") {
			cfg.DataPath = runDataPath
		}
		if f.Changed("out") {
			cfg.OutDir = runOutDir
		}
		if f.Changed("template") {
			cfg.TemplatePath = runTemplate
		}
		if f.Changed("seed") {
			cfg.Seed = runSeed
		}
		if f.Changed("clusters") {
			cfg.Clusters = runClusters
		}
		if f.Changed("train-frac") {
			cfg.TrainFrac = runTrainFrac
		}
		return runPipeline(runSkipPlots)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDataPath, "data", "", "CSV dataset path (default: built-in motor-trend data)")
	runCmd.Flags().StringVarP(&runOutDir, "out", "o", "carscope_out", "output directory for plots and the report")
	runCmd.Flags().StringVar(&runTemplate, "template", "", "report template path (default: embedded template)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 42, "random seed for clustering and the train/test split")
	runCmd.Flags().IntVar(&runClusters, "clusters", 3, "number of k-means clusters")
	runCmd.Flags().Float64Var(&runTrainFrac, "train-frac", 0.8, "training fraction of the train/test split")
	runCmd.Flags().BoolVar(&runSkipPlots, "skip-plots", false, "skip plot rendering (report and console output only)")
}

var stepBanner = color.New(color.FgCyan, color.Bold)

func banner(format string, args ...any) {
	stepBanner.Printf("\n== "+format+" ==\n", args...)
}

func runPipeline(skipPlots bool) error {
	if err := utils.EnsureDir(cfg.OutDir); err != nil {
		return fmt.Errorf("output dir: %w", err)
	}
	data := report.NewData()
	data.Target = cfg.Target
	data.Predictors = cfg.Predictors
	data.Seed = cfg.Seed
	data.Clusters = cfg.Clusters

	// 1. Load
	banner("Load")
	t, err := loadTable()
	if err != nil {
		return err
	}
	fmt.Printf("Loaded %d rows x %d columns\n", t.Nrow(), len(t.Columns()))

	// 2. Profile (all columns still numeric here)
	banner("Profile")
	prof, err := profile.Describe(t)
	if err != nil {
		return err
	}
	prof.Print(os.Stdout, t)

	// 3. Recast discrete codes to nominal categories
	banner("Normalize types")
	if err := t.Normalize(dataset.NominalColumns...); err != nil {
		return err
	}
	fmt.Printf("Nominal columns: %v\n", dataset.NominalColumns)

	// Re-profile so the report shows the post-recast view.
	prof, err = profile.Describe(t)
	if err != nil {
		return err
	}
	data.Rows = prof.Rows
	data.ColumnCount = len(prof.Columns)
	data.Missing = prof.Missing
	data.Columns = prof.Columns

	// 4. Hypothesis tests
	banner("Hypothesis tests")
	anova, err := hypothesis.OneWayANOVA(t, cfg.Target, cfg.AnovaFactor)
	if err != nil {
		return err
	}
	fmt.Println(anova)
	chi, err := hypothesis.ChiSquare(t, cfg.ChiSquareA, cfg.ChiSquareB)
	if err != nil {
		return err
	}
	fmt.Println(chi)
	printContingency(chi)
	data.ANOVA = anova.String()
	data.ChiSquare = chi.String()

	// 5. Univariate and bivariate plots
	if !skipPlots {
		banner("Plots")
		if err := renderPlots(t, data); err != nil {
			return err
		}
	}

	// 6. Correlation matrix, computed once and reused by both renderers
	banner("Correlations")
	corr, err := correlate.Compute(t)
	if err != nil {
		return err
	}
	data.TopPairs = corr.TopPairs(10)
	for _, p := range data.TopPairs {
		fmt.Printf("  %s ~ %s: r = %.3f\n", p.A, p.B, p.R)
	}
	if !skipPlots {
		glyphPath := filepath.Join(cfg.OutDir, GlyphPlotName)
		if err := corr.WriteGlyphPlot(glyphPath); err != nil {
			return err
		}
		data.GlyphPlotFile = GlyphPlotName
		data.PlotFiles = append(data.PlotFiles, GlyphPlotName)
		heat, err := corr.Heatmap()
		if err != nil {
			return err
		}
		if err := savePlot(heat, "correlation_heatmap.png", data); err != nil {
			return err
		}
		data.HeatmapFile = "correlation_heatmap.png"
	}

	// 7. Clustering
	banner("Clustering (k=%d, seed %d)", cfg.Clusters, cfg.Seed)
	X, err := cluster.StandardizedMatrix(t)
	if err != nil {
		return err
	}
	labels, err := cluster.Annotate(t, cfg.Clusters, cfg.Seed)
	if err != nil {
		return err
	}
	data.ClusterSizes = make(map[string]int)
	for _, l := range labels {
		data.ClusterSizes[l]++
	}
	fmt.Printf("Cluster sizes: %v\n", data.ClusterSizes)
	if !skipPlots {
		points, err := cluster.Project(X)
		if err != nil {
			return err
		}
		cp, err := cluster.Plot(points, labels, cfg.Clusters)
		if err != nil {
			return err
		}
		if err := savePlot(cp, "clusters.png", data); err != nil {
			return err
		}
		data.ClusterPlotFile = "clusters.png"
	}

	// 8. Models
	banner("Models")
	if err := runModels(t, data); err != nil {
		return err
	}

	// 9. Report
	banner("Report")
	reportPath := filepath.Join(cfg.OutDir, "report.md")
	if err := report.Render(data, cfg.TemplatePath, reportPath); err != nil {
		return err
	}
	fmt.Printf("✓ Report written to %s\n", reportPath)
	return nil
}

func loadTable() (*dataset.Table, error) {
	if cfg.DataPath != "" {
		return dataset.Load(cfg.DataPath)
	}
	return dataset.Builtin()
}

func renderPlots(t *dataset.Table, data *report.Data) error {
	for _, col := range t.NumericColumns() {
		p, err := viz.Histogram(t, col, cfg.HistBins)
		if err != nil {
			return err
		}
		if err := savePlot(p, "hist_"+col+".png", data); err != nil {
			return err
		}
	}

	box, err := viz.Boxplot(t, cfg.Target, cfg.AnovaFactor)
	if err != nil {
		return err
	}
	if err := savePlot(box, "box_"+cfg.Target+"_by_"+cfg.AnovaFactor+".png", data); err != nil {
		return err
	}

	violin, err := viz.Violin(t, cfg.Target, cfg.AnovaFactor)
	if err != nil {
		return err
	}
	if err := savePlot(violin, "violin_"+cfg.Target+"_by_"+cfg.AnovaFactor+".png", data); err != nil {
		return err
	}

	pairPath := filepath.Join(cfg.OutDir, "pairs.png")
	if err := viz.PairPlot(t, t.NumericColumns(), cfg.AnovaFactor, pairPath); err != nil {
		return err
	}
	data.PlotFiles = append(data.PlotFiles, "pairs.png")
	fmt.Printf("Plots written to %s\n", cfg.OutDir)
	return nil
}

func savePlot(p *plot.Plot, name string, data *report.Data) error {
	if err := viz.Save(p, 6*vg.Inch, 4*vg.Inch, filepath.Join(cfg.OutDir, name)); err != nil {
		return err
	}
	data.PlotFiles = append(data.PlotFiles, name)
	return nil
}

func runModels(t *dataset.Table, data *report.Data) error {
	design, err := model.BuildDesign(t, cfg.Target, cfg.Predictors)
	if err != nil {
		return err
	}
	split, err := model.StratifiedSplit(design.Y, cfg.TrainFrac, cfg.Seed)
	if err != nil {
		return err
	}
	data.TrainRows = len(split.Train)
	data.TestRows = len(split.Test)
	fmt.Printf("Split: %d train / %d test rows\n", data.TrainRows, data.TestRows)

	ols, err := model.FitOLS(design, cfg.Target, split)
	if err != nil {
		return err
	}
	fmt.Println(ols.Summary())
	data.OLSSummary = ols.Summary()

	tree, treePred, err := model.FitTree(design, cfg.Target, split, model.DefaultTreeConfig())
	if err != nil {
		return err
	}
	fmt.Println(tree)
	data.TreeSummary = tree.String()

	printHoldout(t, split, design, ols.TestPred, treePred)
	return nil
}

// printHoldout shows the held-out rows next to each model's prediction.
func printHoldout(t *dataset.Table, s *model.Split, d *model.Design, olsPred, treePred []float64) {
	labels := t.RowLabels()
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader([]string{"held-out row", "actual", "ols", "tree"})
	tw.SetBorder(false)
	for i, r := range s.Test {
		tw.Append([]string{
			labels[r],
			fmt.Sprintf("%.2f", d.Y[r]),
			fmt.Sprintf("%.2f", olsPred[i]),
			fmt.Sprintf("%.2f", treePred[i]),
		})
	}
	tw.Render()

	var sse float64
	for i, r := range s.Test {
		resid := d.Y[r] - olsPred[i]
		sse += resid * resid
	}
	fmt.Printf("OLS held-out RMSE: %.3f\n", math.Sqrt(sse/float64(len(s.Test))))
}

func printContingency(chi *hypothesis.ChiSquareResult) {
	tw := tablewriter.NewWriter(os.Stdout)
	tw.SetHeader(append([]string{chi.A + " \\ " + chi.B}, chi.ColLevels...))
	tw.SetBorder(false)
	for i, rl := range chi.RowLevels {
		row := []string{rl}
		for _, c := range chi.Observed[i] {
			row = append(row, fmt.Sprintf("%d", c))
		}
		tw.Append(row)
	}
	tw.Render()
}
