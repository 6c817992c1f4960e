package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/Proxpekt/EDA-Projects/internal/analysis"
	"github.com/Proxpekt/EDA-Projects/internal/dashboard"
	"github.com/Proxpekt/EDA-Projects/internal/render"
	"github.com/Proxpekt/EDA-Projects/internal/table"
	"github.com/Proxpekt/EDA-Projects/internal/utils"
)

// dataFlags selects a dataset either by file argument or by dashboard and
// dataset name, and carries the load options shared by every page command.
type dataFlags struct {
	dashboard string
	dataset   string
	raw       bool

	delimiter string
	decimal   string
	thousands string
	sheet     string
	maxRows   int
	timeCols  []string
}

func (f *dataFlags) register(c *cobra.Command) {
	c.Flags().StringVarP(&f.dashboard, "dashboard", "p", "", "dashboard name (use with --dataset)")
	c.Flags().StringVar(&f.dataset, "dataset", "", "dataset name or id inside the dashboard")
	c.Flags().BoolVar(&f.raw, "raw", false, "read the raw file instead of the cleaned one")
	c.Flags().StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' | '|' (sniffed if omitted)")
	c.Flags().StringVar(&f.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	c.Flags().StringVar(&f.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	c.Flags().StringVar(&f.sheet, "sheet", "", "XLSX: sheet name (default first sheet)")
	c.Flags().IntVar(&f.maxRows, "max-rows", 0, "maximum rows to load (0 = unlimited or config)")
	c.Flags().StringSliceVar(&f.timeCols, "time-col", nil, "columns to parse as timestamps (repeatable)")
}

func (f *dataFlags) options() (table.Options, error) {
	opt := table.DefaultOptions()
	if cfg != nil {
		opt.Delimiter = cfg.DelimiterRune()
		opt.MaxRows = cfg.MaxRows
		opt.InferTimes = cfg.InferTimes
		if len(cfg.NullValues) > 0 {
			opt.NullValues = cfg.NullValues
		}
	}
	switch strings.ToLower(f.delimiter) {
	case "":
	case ",", ";", "|":
		opt.Delimiter = rune(f.delimiter[0])
	case "\t", `\t`, "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	// Locale separators
	switch strings.ToLower(strings.TrimSpace(f.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", f.decimal)
	}
	switch strings.ToLower(f.thousands) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", f.thousands)
	}
	if f.maxRows > 0 {
		opt.MaxRows = f.maxRows
	}
	opt.Sheet = f.sheet
	opt.TimeColumns = append(opt.TimeColumns, f.timeCols...)
	return opt, nil
}

// resolve returns the file to read and its options. A registered dataset
// contributes its declared time columns unless --raw is set.
func (f *dataFlags) resolve(args []string) (string, table.Options, *dashboard.Dataset, error) {
	opt, err := f.options()
	if err != nil {
		return "", opt, nil, err
	}
	if len(args) > 0 {
		if f.dashboard != "" {
			return "", opt, nil, errors.New("give either a file or --dashboard/--dataset, not both")
		}
		return args[0], opt, nil, nil
	}
	ds, err := f.lookup()
	if err != nil {
		return "", opt, nil, err
	}
	if f.raw {
		return ds.RawPath, opt, ds, nil
	}
	return ds.Path(), ds.Options(opt), ds, nil
}

func (f *dataFlags) lookup() (*dashboard.Dataset, error) {
	if f.dashboard == "" || f.dataset == "" {
		return nil, errors.New("a file argument or --dashboard with --dataset is required")
	}
	d, err := loadDashboard(f.dashboard)
	if err != nil {
		return nil, err
	}
	return d.Dataset(f.dataset)
}

// load reads the selected dataset through the process cache.
func (f *dataFlags) load(args []string) (*table.Table, error) {
	path, opt, _, err := f.resolve(args)
	if err != nil {
		return nil, err
	}
	return dataCache.Load(path, opt)
}

func loadDashboard(name string) (*dashboard.Dashboard, error) {
	dir, err := resolveDashboardDirByName(name)
	if err != nil {
		return nil, err
	}
	return dashboard.Load(dir)
}

func summaryOptions() analysis.Options {
	opt := analysis.DefaultOptions()
	if cfg != nil {
		if cfg.SampleRows > 0 {
			opt.SampleRows = cfg.SampleRows
		}
		if cfg.OutlierThreshold > 0 {
			opt.OutlierThreshold = cfg.OutlierThreshold
		}
	}
	return opt
}

func chartStyle() render.Style {
	s := render.DefaultStyle()
	if cfg == nil {
		return s
	}
	if cfg.ChartWidthIn > 0 {
		s.Width = vg.Length(cfg.ChartWidthIn) * vg.Inch
	}
	if cfg.ChartHeightIn > 0 {
		s.Height = vg.Length(cfg.ChartHeightIn) * vg.Inch
	}
	if cfg.CountPlotTop > 0 {
		s.CountTop = cfg.CountPlotTop
	}
	if cfg.HeatmapDefaultCols > 0 {
		s.HeatmapColumns = cfg.HeatmapDefaultCols
	}
	if cfg.KDEPoints > 1 {
		s.KDEPoints = cfg.KDEPoints
	}
	return s
}

func chartDefaults() (dir, format string) {
	dir, format = "charts", "svg"
	if cfg != nil {
		if cfg.ChartDir != "" {
			dir = cfg.ChartDir
		}
		if cfg.ChartFormat != "" {
			format = cfg.ChartFormat
		}
	}
	return dir, format
}

// writeOutput writes text to path, or prints it when path is empty.
func writeOutput(path, text string) error {
	if path == "" {
		fmt.Println(text)
		return nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := utils.EnsureDir(dir); err != nil {
			return err
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("✓ Wrote %s\n", path)
	return nil
}
