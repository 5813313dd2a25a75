package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/motorlab/carscope/internal/dashboard"
	"github.com/motorlab/carscope/internal/dataset"
)

var (
	serveAddr string
	serveData string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive scatter dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("no configuration loaded")
		}
		f := cmd.Flags()
		if f.Changed("addr") {
			cfg.DashboardAddr = serveAddr
		}
		if f.Changed("data") {
			cfg.DataPath = serveData
		}

		var t *dataset.Table
		var err error
		if cfg.DataPath != "" {
			t, err = dataset.Load(cfg.DataPath)
		} else {
			t, err = dataset.Builtin()
		}
		if err != nil {
			return err
		}
		// The dashboard sees the same post-recast view as the batch pipeline.
		if err := t.Normalize(dataset.NominalColumns...); err != nil {
			return err
		}

		s, err := dashboard.New(t, cfg.Target)
		if err != nil {
			return err
		}
		fmt.Printf("Dashboard listening on http://%s\n", cfg.DashboardAddr)
		return s.ListenAndServe(cfg.DashboardAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "127.0.0.1:8077", "dashboard listen address")
	serveCmd.Flags().StringVar(&serveData, "data", "", "CSV dataset path (default: built-in motor-trend data)")
}
