package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/Proxpekt/EDA-Projects/internal/config"
	"github.com/Proxpekt/EDA-Projects/internal/render"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set eda configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("dashboards_dir: %s\n", cfg.DashboardsDir)
		if cfg.Delimiter != "" {
			fmt.Printf("delimiter: %q\n", cfg.Delimiter)
		}
		if len(cfg.NullValues) > 0 {
			fmt.Printf("null_values: %s\n", strings.Join(cfg.NullValues, ", "))
		}
		fmt.Printf("max_rows: %d\n", cfg.MaxRows)
		fmt.Printf("infer_times: %t\n", cfg.InferTimes)
		fmt.Printf("sample_rows: %d\n", cfg.SampleRows)
		fmt.Printf("outlier_threshold: %.2f\n", cfg.OutlierThreshold)
		fmt.Printf("chart_dir: %s\n", cfg.ChartDir)
		fmt.Printf("chart_format: %s\n", cfg.ChartFormat)
		fmt.Printf("chart_width_in: %.1f\n", cfg.ChartWidthIn)
		fmt.Printf("chart_height_in: %.1f\n", cfg.ChartHeightIn)
		fmt.Printf("count_plot_top: %d\n", cfg.CountPlotTop)
		fmt.Printf("heatmap_default_cols: %d\n", cfg.HeatmapDefaultCols)
		fmt.Printf("kde_points: %d\n", cfg.KDEPoints)
		fmt.Printf("watch_interval_ms: %d\n", cfg.WatchIntervalMs)
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
		if err := applyConfig(cfg, key, val); err != nil {
			return err
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func applyConfig(c *cfgpkg.Global, key, val string) error {
	atoi := func(lo int) (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < lo {
			return 0, fmt.Errorf("invalid int for %s: %v", key, val)
		}
		return i, nil
	}
	positive := func() (float64, error) {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil || f <= 0 {
			return 0, fmt.Errorf("invalid float for %s: %v", key, val)
		}
		return f, nil
	}
	var err error
	switch key {
	case "dashboards_dir":
		c.DashboardsDir = val
	case "delimiter":
		c.Delimiter = val
	case "null_values":
		c.NullValues = nil
		for _, v := range strings.Split(val, ",") {
			c.NullValues = append(c.NullValues, strings.TrimSpace(v))
		}
	case "max_rows":
		c.MaxRows, err = atoi(0)
	case "infer_times":
		c.InferTimes, err = strconv.ParseBool(val)
	case "sample_rows":
		c.SampleRows, err = atoi(0)
	case "outlier_threshold":
		c.OutlierThreshold, err = positive()
	case "chart_dir":
		c.ChartDir = val
	case "chart_format":
		c.ChartFormat, err = render.ParseFormat(val)
	case "chart_width_in":
		c.ChartWidthIn, err = positive()
	case "chart_height_in":
		c.ChartHeightIn, err = positive()
	case "count_plot_top":
		c.CountPlotTop, err = atoi(1)
	case "heatmap_default_cols":
		c.HeatmapDefaultCols, err = atoi(2)
	case "kde_points":
		c.KDEPoints, err = atoi(2)
	case "watch_interval_ms":
		c.WatchIntervalMs, err = atoi(1)
	default:
		return fmt.Errorf("unknown key: %s (known: %s)", key, strings.Join(cfgpkg.Keys, ", "))
	}
	return err
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
