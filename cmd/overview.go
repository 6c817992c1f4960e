package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Proxpekt/EDA-Projects/internal/analysis"
	"github.com/Proxpekt/EDA-Projects/internal/table"
)

var (
	ovData       dataFlags
	ovCleanPath  string
	ovColumns    []string
	ovOutputPath string
)

var overviewCmd = &cobra.Command{
	Use:   "overview [raw-file]",
	Short: "Compare a raw dataset with its cleaned version: shapes, heads and describe",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawPath, cleanPath, opt, err := overviewPaths(args)
		if err != nil {
			return err
		}
		var b strings.Builder
		if cleanPath == "" {
			t, err := dataCache.Load(rawPath, opt)
			if err != nil {
				return err
			}
			if err := writeOverview(&b, "DATASET", t, ovColumns); err != nil {
				return err
			}
			return writeOutput(ovOutputPath, b.String())
		}

		raw, clean, err := dataCache.LoadPair(rawPath, cleanPath, opt)
		if err != nil {
			return err
		}
		b.WriteString(analysis.Compare(raw, clean).Markdown())
		b.WriteString("\n")
		// the explorer only covers the cleaned table
		if len(ovColumns) == 0 {
			if err := writeOverview(&b, "RAW", raw, nil); err != nil {
				return err
			}
			b.WriteString("\n")
		}
		if err := writeOverview(&b, "CLEANED", clean, ovColumns); err != nil {
			return err
		}
		return writeOutput(ovOutputPath, b.String())
	},
}

func overviewPaths(args []string) (raw, clean string, opt table.Options, err error) {
	if len(args) > 0 {
		opt, err = ovData.options()
		return args[0], ovCleanPath, opt, err
	}
	path, opt, ds, err := ovData.resolve(nil)
	if err != nil {
		return "", "", opt, err
	}
	if ovData.raw || ds.CleanPath == "" {
		return path, "", opt, nil
	}
	return ds.RawPath, ds.CleanPath, opt, nil
}

// writeOverview appends the summary of t, or the column explorer over cols.
func writeOverview(b *strings.Builder, label string, t *table.Table, cols []string) error {
	opt := summaryOptions()
	s, err := analysis.Summarize(t, opt)
	if err != nil {
		return err
	}
	fmt.Fprintf(b, "==== %s: %s ====\n", label, t.Name)
	if len(cols) == 0 {
		b.WriteString(s.Markdown())
		return nil
	}
	view, err := t.Select(cols...)
	if err != nil {
		return fmt.Errorf("column explorer: %w", err)
	}
	b.WriteString("[SELECTED COLUMNS]\n")
	b.WriteString(analysis.Markdown(view, opt.SampleRows))
	b.WriteString("\n")
	for _, name := range cols {
		info, ok := s.Column(name)
		if !ok {
			return fmt.Errorf("column explorer: %w", &table.ColumnError{Table: t.Name, Column: name})
		}
		fmt.Fprintf(b, "[COLUMN: %s]\n", name)
		fmt.Fprintf(b, "- Dtype: %s\n- Non-Null: %d\n- Missing: %d\n- Unique: %d\n- Example: %s\n",
			info.Dtype, info.NonNull, info.Missing, info.Unique, info.Example)
		if st, ok := s.Stats(name); ok {
			fmt.Fprintf(b, "- Mean: %s\n- Std: %s\n- Min: %s\n- Median: %s\n- Max: %s\n",
				analysis.FormatStat(st.Mean), analysis.FormatStat(st.Std), analysis.FormatStat(st.Min),
				analysis.FormatStat(st.Q50), analysis.FormatStat(st.Max))
		}
		if len(info.TopValues) > 0 {
			parts := make([]string, len(info.TopValues))
			for i, kv := range info.TopValues {
				parts[i] = fmt.Sprintf("%s(%d)", kv.Value, kv.Count)
			}
			fmt.Fprintf(b, "- Top values: %s\n", strings.Join(parts, ", "))
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(overviewCmd)
	ovData.register(overviewCmd)
	overviewCmd.Flags().StringVar(&ovCleanPath, "clean", "", "cleaned file to compare against the raw file argument")
	overviewCmd.Flags().StringSliceVar(&ovColumns, "columns", nil, "column explorer: show details for these columns only")
	overviewCmd.Flags().StringVarP(&ovOutputPath, "output", "o", "", "optional path to write the overview (Markdown)")
}
