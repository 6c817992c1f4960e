package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Global configuration structure.
type Global struct {
	DashboardsDir string `mapstructure:"dashboards_dir" yaml:"dashboards_dir"`

	// Loading
	Delimiter  string   `mapstructure:"delimiter" yaml:"delimiter"`
	NullValues []string `mapstructure:"null_values" yaml:"null_values"`
	MaxRows    int      `mapstructure:"max_rows" yaml:"max_rows"`
	InferTimes bool     `mapstructure:"infer_times" yaml:"infer_times"`

	// Summaries
	SampleRows       int     `mapstructure:"sample_rows" yaml:"sample_rows"`
	OutlierThreshold float64 `mapstructure:"outlier_threshold" yaml:"outlier_threshold"`

	// Charts
	ChartDir           string  `mapstructure:"chart_dir" yaml:"chart_dir"`
	ChartFormat        string  `mapstructure:"chart_format" yaml:"chart_format"`
	ChartWidthIn       float64 `mapstructure:"chart_width_in" yaml:"chart_width_in"`
	ChartHeightIn      float64 `mapstructure:"chart_height_in" yaml:"chart_height_in"`
	CountPlotTop       int     `mapstructure:"count_plot_top" yaml:"count_plot_top"`
	HeatmapDefaultCols int     `mapstructure:"heatmap_default_cols" yaml:"heatmap_default_cols"`
	KDEPoints          int     `mapstructure:"kde_points" yaml:"kde_points"`

	// Watch
	WatchIntervalMs int `mapstructure:"watch_interval_ms" yaml:"watch_interval_ms"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"dashboards_dir", "delimiter", "null_values", "max_rows", "infer_times",
	"sample_rows", "outlier_threshold", "chart_dir", "chart_format",
	"chart_width_in", "chart_height_in", "count_plot_top", "heatmap_default_cols",
	"kde_points", "watch_interval_ms",
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".eda"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.eda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
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
	v.SetEnvPrefix("EDA")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("dashboards_dir", "")
	v.SetDefault("delimiter", "")
	v.SetDefault("null_values", []string{})
	v.SetDefault("max_rows", 0)
	v.SetDefault("infer_times", true)
	v.SetDefault("sample_rows", 5)
	v.SetDefault("outlier_threshold", 3.5)
	v.SetDefault("chart_dir", "charts")
	v.SetDefault("chart_format", "svg")
	v.SetDefault("chart_width_in", 8.0)
	v.SetDefault("chart_height_in", 5.0)
	v.SetDefault("count_plot_top", 15)
	v.SetDefault("heatmap_default_cols", 5)
	v.SetDefault("kde_points", 100)
	v.SetDefault("watch_interval_ms", 500)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
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
	// Resolve dashboards_dir default: ~/.eda/dashboards
	if c.DashboardsDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.DashboardsDir = filepath.Join(dir, "dashboards")
	}
	return &c, nil
}

// DelimiterRune returns the configured delimiter, or 0 to sniff it.
func (c *Global) DelimiterRune() rune {
	switch c.Delimiter {
	case "", "auto":
		return 0
	case `\t`, "tab":
		return '\t'
	}
	return []rune(c.Delimiter)[0]
}

// WatchInterval is the debounce between a file change and a rerun.
func (c *Global) WatchInterval() time.Duration {
	if c.WatchIntervalMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.WatchIntervalMs) * time.Millisecond
}
