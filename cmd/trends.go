package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Proxpekt/EDA-Projects/internal/aggregate"
	"github.com/Proxpekt/EDA-Projects/internal/analysis"
	"github.com/Proxpekt/EDA-Projects/internal/render"
)

var (
	trData       dataFlags
	trTimeCol    string
	trTarget     string
	trUnknown    string
	trChartDir   string
	trFormat     string
	trOutputPath string
)

var trendsCmd = &cobra.Command{
	Use:   "trends [file]",
	Short: "Hourly, daily, weekday and monthly trends of a measure, with insights",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if trTimeCol == "" || trTarget == "" {
			return fmt.Errorf("--time-column and --target are required")
		}
		policy, err := aggregate.ParsePolicy(trUnknown)
		if err != nil {
			return err
		}
		t, err := trData.load(args)
		if err != nil {
			return err
		}
		set, err := aggregate.Trends(t, aggregate.TrendOptions{TimeColumn: trTimeCol, Target: trTarget, Policy: policy})
		if err != nil {
			return err
		}

		var b strings.Builder
		views := []struct {
			label string
			res   *aggregate.Result
		}{
			{"HOURLY AVERAGE", set.Hourly},
			{"DAILY TOTAL", set.Daily},
			{"AVERAGE BY WEEKDAY", set.Weekday},
			{"AVERAGE BY MONTH", set.Monthly},
		}
		for _, v := range views {
			out, err := v.res.Round(4).Table()
			if err != nil {
				return err
			}
			fmt.Fprintf(&b, "[%s: %s]\n", v.label, trTarget)
			b.WriteString(analysis.Markdown(out, 0))
			b.WriteString("\n")
		}
		b.WriteString(insightsMarkdown(set.Insights))
		if err := writeOutput(trOutputPath, b.String()); err != nil {
			return err
		}

		if trChartDir == "" {
			return nil
		}
		_, format := chartDefaults()
		if trFormat != "" {
			format = trFormat
		}
		charts, err := render.TrendCharts(set, chartStyle())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ Plotting failed: %v\n", err)
		}
		for _, c := range charts {
			path, err := c.Save(trChartDir, format)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Chart saved: %s\n", path)
		}
		return nil
	},
}

// insightsMarkdown renders the [INSIGHTS] section; a view without any value
// reads n/a.
func insightsMarkdown(ins aggregate.Insights) string {
	var b strings.Builder
	b.WriteString("[INSIGHTS]\n")
	if ins.PeakHour == "" {
		b.WriteString("- Peak hour: n/a\n")
	} else {
		fmt.Fprintf(&b, "- Peak hour: %s:00 (average %s)\n", ins.PeakHour, analysis.FormatStat(ins.PeakHourValue))
	}
	if ins.HighestDay == "" {
		b.WriteString("- Highest day: n/a\n")
	} else {
		fmt.Fprintf(&b, "- Highest day: %s (total %s)\n", ins.HighestDay, analysis.FormatStat(ins.HighestDayValue))
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(trendsCmd)
	trData.register(trendsCmd)
	trendsCmd.Flags().StringVar(&trTimeCol, "time-column", "", "timestamp column (parsed if stored as text)")
	trendsCmd.Flags().StringVar(&trTarget, "target", "", "numeric column to trend")
	trendsCmd.Flags().StringVar(&trUnknown, "unknown", "drop", "weekday/month keys outside the canonical order: drop | reject | append")
	trendsCmd.Flags().StringVar(&trChartDir, "charts", "", "directory to save trend charts into (none if empty)")
	trendsCmd.Flags().StringVar(&trFormat, "format", "", "chart format: svg | png | pdf (default from config)")
	trendsCmd.Flags().StringVarP(&trOutputPath, "output", "o", "", "optional path to write the trend tables (Markdown)")
}
