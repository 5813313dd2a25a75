package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/motorlab/carscope/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set carscope configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("data_path: %s\n", cfg.DataPath)
		fmt.Printf("out_dir: %s\n", cfg.OutDir)
		fmt.Printf("template_path: %s\n", cfg.TemplatePath)
		fmt.Printf("target: %s\n", cfg.Target)
		fmt.Printf("predictors: %s\n", strings.Join(cfg.Predictors, ","))
		fmt.Printf("anova_factor: %s\n", cfg.AnovaFactor)
		fmt.Printf("chi_square_a: %s\n", cfg.ChiSquareA)
		fmt.Printf("chi_square_b: %s\n", cfg.ChiSquareB)
		fmt.Printf("clusters: %d\n", cfg.Clusters)
		fmt.Printf("train_frac: %.2f\n", cfg.TrainFrac)
		fmt.Printf("seed: %d\n", cfg.Seed)
		fmt.Printf("hist_bins: %d\n", cfg.HistBins)
		fmt.Printf("dashboard_addr: %s\n", cfg.DashboardAddr)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "data_path":
			cfg.DataPath = val
		case "out_dir":
			cfg.OutDir = val
		case "template_path":
			cfg.TemplatePath = val
		case "target":
			cfg.Target = val
		case "predictors":
			cfg.Predictors = strings.Split(val, ",")
		case "anova_factor":
			cfg.AnovaFactor = val
		case "chi_square_a":
			cfg.ChiSquareA = val
		case "chi_square_b":
			cfg.ChiSquareB = val
		case "clusters":
			i, err := strconv.Atoi(val)
			if err != nil || i < 2 {
				return fmt.Errorf("invalid int for clusters: %v", val)
			}
			cfg.Clusters = i
		case "train_frac":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f >= 1 {
				return fmt.Errorf("invalid fraction for train_frac: %v", val)
			}
			cfg.TrainFrac = f
		case "seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for seed: %w", err)
			}
			cfg.Seed = i
		case "hist_bins":
			i, err := strconv.Atoi(val)
			if err != nil || i < 1 {
				return fmt.Errorf("invalid int for hist_bins: %v", val)
			}
			cfg.HistBins = i
		case "dashboard_addr":
			cfg.DashboardAddr = val
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
