package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Proxpekt/EDA-Projects/internal/aggregate"
	"github.com/Proxpekt/EDA-Projects/internal/analysis"
)

var (
	sumData        dataFlags
	sumOutputPath  string
	sumSampleRows  int
	sumValueCounts []string
	sumCountLimit  int
	sumTopBy       string
	sumTopN        int
	sumTopShow     []string
	sumAvgBy       string
	sumAvgTarget   string
	sumCorr        bool
	sumOutliers    bool
	sumOutlierThr  float64
)

var summaryCmd = &cobra.Command{
	Use:   "summary [file]",
	Short: "Summarize a dataset: info, describe, missing values, value counts and rankings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := sumData.load(args)
		if err != nil {
			return err
		}
		opt := summaryOptions()
		if cmd.Flags().Changed("sample-rows") {
			opt.SampleRows = sumSampleRows
		}
		if cmd.Flags().Changed("outliers") {
			opt.Outliers = sumOutliers
		}
		if sumOutlierThr > 0 {
			opt.OutlierThreshold = sumOutlierThr
		}
		s, err := analysis.Summarize(t, opt)
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString(s.Markdown())
		for _, col := range sumValueCounts {
			counts, err := analysis.ValueCounts(t, col, sumCountLimit)
			if err != nil {
				return fmt.Errorf("value counts: %w", err)
			}
			b.WriteString("\n")
			b.WriteString(analysis.CountsMarkdown(col, counts))
		}
		if sumTopBy != "" {
			top, err := analysis.TopN(t, sumTopBy, sumTopN, sumTopShow...)
			if err != nil {
				return err
			}
			fmt.Fprintf(&b, "\n[TOP %d BY %s]\n", top.Rows(), sumTopBy)
			b.WriteString(analysis.Markdown(top, 0))
		}
		if sumAvgBy != "" {
			if sumAvgTarget == "" {
				return fmt.Errorf("--target is required with --avg-by")
			}
			res, err := aggregate.GroupBy(t, aggregate.Request{Keys: []string{sumAvgBy}, Target: sumAvgTarget, Reducer: aggregate.Mean})
			if err != nil {
				return err
			}
			out, err := res.SortByValue(true).Round(2).Table()
			if err != nil {
				return err
			}
			fmt.Fprintf(&b, "\n[AVERAGE %s BY %s]\n", sumAvgTarget, sumAvgBy)
			b.WriteString(analysis.Markdown(out, 0))
		}
		if sumCorr {
			m, err := analysis.Correlate(t, nil)
			if err != nil {
				return err
			}
			b.WriteString("\n")
			b.WriteString(m.Markdown())
		}
		return writeOutput(sumOutputPath, b.String())
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	sumData.register(summaryCmd)
	summaryCmd.Flags().StringVarP(&sumOutputPath, "output", "o", "", "optional path to write the summary (Markdown)")
	summaryCmd.Flags().IntVar(&sumSampleRows, "sample-rows", 5, "number of head rows to include")
	summaryCmd.Flags().StringSliceVar(&sumValueCounts, "value-counts", nil, "columns to list value counts for (repeatable)")
	summaryCmd.Flags().IntVar(&sumCountLimit, "count-limit", 0, "maximum values per value count (0 = all)")
	summaryCmd.Flags().StringVar(&sumTopBy, "top-by", "", "numeric column to rank rows by")
	summaryCmd.Flags().IntVar(&sumTopN, "top", 5, "rows to show with --top-by")
	summaryCmd.Flags().StringSliceVar(&sumTopShow, "show", nil, "columns to show with --top-by")
	summaryCmd.Flags().StringVar(&sumAvgBy, "avg-by", "", "column to average --target by, sorted descending")
	summaryCmd.Flags().StringVar(&sumAvgTarget, "target", "", "numeric column averaged by --avg-by")
	summaryCmd.Flags().BoolVar(&sumCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	summaryCmd.Flags().BoolVar(&sumOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	summaryCmd.Flags().Float64Var(&sumOutlierThr, "outlier-threshold", 0, "robust |z| threshold for outliers (default from config, 3.5)")
}
