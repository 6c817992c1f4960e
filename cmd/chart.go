package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Proxpekt/EDA-Projects/internal/render"
)

var (
	chData     dataFlags
	chAnalysis string
	chColumns  []string
	chX        string
	chY        string
	chHue      string
	chPlot     string
	chOutDir   string
	chFormat   string
)

var chartCmd = &cobra.Command{
	Use:   "chart [file]",
	Short: "Render univariate, bivariate, multivariate or trend charts for selected columns",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analysisKind, err := render.ParseAnalysis(chAnalysis)
		if err != nil {
			return err
		}
		dir, format := chartDefaults()
		if chOutDir != "" {
			dir = chOutDir
		}
		if chFormat != "" {
			format = chFormat
		}
		if format, err = render.ParseFormat(format); err != nil {
			return err
		}
		t, err := chData.load(args)
		if err != nil {
			return err
		}

		res := render.Render(t, render.Selection{
			Analysis: analysisKind,
			Columns:  chColumns,
			X:        chX,
			Y:        chY,
			Hue:      chHue,
			PlotType: chPlot,
		}, chartStyle())

		var be *render.BuildError
		if res.Err != nil && !errors.As(res.Err, &be) {
			return res.Err
		}
		if res.Notice != nil {
			if res.Notice.Severity == render.Warning {
				fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", res.Notice.Message)
			} else {
				fmt.Println(res.Notice.String())
			}
		}
		for _, c := range res.Charts {
			path, err := c.Save(dir, format)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Chart saved: %s\n", path)
		}
		if be != nil {
			// the page keeps running; only this chart is lost
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ Plotting failed: %v\n", be)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(chartCmd)
	chData.register(chartCmd)
	chartCmd.Flags().StringVar(&chAnalysis, "analysis", "univariate", "univariate | bivariate | multivariate | trend")
	chartCmd.Flags().StringSliceVar(&chColumns, "col", nil, "selected column(s); repeat for pairs and heatmap columns")
	chartCmd.Flags().StringVar(&chX, "x", "", "x-axis column (hue plots and trends)")
	chartCmd.Flags().StringVar(&chY, "y", "", "y-axis column (hue plots and trends)")
	chartCmd.Flags().StringVar(&chHue, "hue", "", "grouping column for multivariate plots")
	chartCmd.Flags().StringVar(&chPlot, "plot", "", "scatter | bar for hue plots, line | bar for trends")
	chartCmd.Flags().StringVar(&chOutDir, "out", "", "directory to save charts into (default from config)")
	chartCmd.Flags().StringVar(&chFormat, "format", "", "svg | png | pdf (default from config)")
}
