package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	// Dataset input. Empty means the built-in motor-trend table.
	DataPath string `mapstructure:"data_path" yaml:"data_path"`

	// Output directory for plots and the rendered report.
	OutDir string `mapstructure:"out_dir" yaml:"out_dir"`
	// Report template path. Empty means the embedded default.
	TemplatePath string `mapstructure:"template_path" yaml:"template_path"`

	// Analysis parameters.
	Target      string   `mapstructure:"target" yaml:"target"`
	Predictors  []string `mapstructure:"predictors" yaml:"predictors"`
	AnovaFactor string   `mapstructure:"anova_factor" yaml:"anova_factor"`
	ChiSquareA  string   `mapstructure:"chi_square_a" yaml:"chi_square_a"`
	ChiSquareB  string   `mapstructure:"chi_square_b" yaml:"chi_square_b"`
	Clusters    int      `mapstructure:"clusters" yaml:"clusters"`
	TrainFrac   float64  `mapstructure:"train_frac" yaml:"train_frac"`
	Seed        int64    `mapstructure:"seed" yaml:"seed"`
	HistBins    int      `mapstructure:"hist_bins" yaml:"hist_bins"`

	// Dashboard listen address.
	DashboardAddr string `mapstructure:"dashboard_addr" yaml:"dashboard_addr"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.carscope/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".carscope")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("CARSCOPE")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("data_path", "")
	v.SetDefault("out_dir", "carscope_out")
	v.SetDefault("template_path", "")
	v.SetDefault("target", "mpg")
	v.SetDefault("predictors", []string{"wt", "hp", "cyl"})
	v.SetDefault("anova_factor", "cyl")
	v.SetDefault("chi_square_a", "vs")
	v.SetDefault("chi_square_b", "am")
	v.SetDefault("clusters", 3)
	v.SetDefault("train_frac", 0.8)
	v.SetDefault("seed", 42)
	v.SetDefault("hist_bins", 10)
	v.SetDefault("dashboard_addr", "127.0.0.1:8077")

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".carscope")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &c, nil
}
