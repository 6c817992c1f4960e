package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Proxpekt/EDA-Projects/internal/aggregate"
	"github.com/Proxpekt/EDA-Projects/internal/analysis"
)

var (
	aggData       dataFlags
	aggBy         []string
	aggTarget     string
	aggReducer    string
	aggOrder      string
	aggUnknown    string
	aggSortKeys   bool
	aggDesc       bool
	aggRound      int
	aggOutputPath string
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate [file]",
	Short: "Group a dataset by key columns and reduce a target column",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(aggBy) == 0 || aggTarget == "" {
			return fmt.Errorf("--by and --target are required")
		}
		reducer, err := aggregate.ParseReducer(aggReducer)
		if err != nil {
			return err
		}
		policy, err := aggregate.ParsePolicy(aggUnknown)
		if err != nil {
			return err
		}
		t, err := aggData.load(args)
		if err != nil {
			return err
		}
		res, err := aggregate.GroupBy(t, aggregate.Request{Keys: aggBy, Target: aggTarget, Reducer: reducer, SortKeys: aggSortKeys})
		if err != nil {
			return err
		}
		if order := aggregate.NamedOrder(aggOrder); order != nil {
			if res, err = res.Reindex(order, policy); err != nil {
				return err
			}
		}
		if cmd.Flags().Changed("desc") {
			res = res.SortByValue(aggDesc)
		}
		if aggRound >= 0 {
			res = res.Round(aggRound)
		}
		out, err := res.Table()
		if err != nil {
			return err
		}
		if strings.HasSuffix(strings.ToLower(aggOutputPath), ".csv") {
			if err := out.WriteCSVFile(aggOutputPath); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %d groups to %s\n", out.Rows(), aggOutputPath)
			return nil
		}
		var b strings.Builder
		fmt.Fprintf(&b, "[%s]\n", strings.ToUpper(res.Name))
		b.WriteString(analysis.Markdown(out, 0))
		if len(res.Dropped) > 0 {
			fmt.Fprintf(&b, "\n⚠ Dropped keys outside the order: %s\n", strings.Join(res.Dropped, ", "))
		}
		return writeOutput(aggOutputPath, b.String())
	},
}

func init() {
	rootCmd.AddCommand(aggregateCmd)
	aggData.register(aggregateCmd)
	aggregateCmd.Flags().StringSliceVar(&aggBy, "by", nil, "key columns to group by (comma-separated or repeatable)")
	aggregateCmd.Flags().StringVar(&aggTarget, "target", "", "column to reduce")
	aggregateCmd.Flags().StringVar(&aggReducer, "reducer", "mean", "mean | sum | max | min | count")
	aggregateCmd.Flags().StringVar(&aggOrder, "order", "", "canonical key order: weekdays | months | a,b,c")
	aggregateCmd.Flags().StringVar(&aggUnknown, "unknown", "drop", "keys outside --order: drop | reject | append")
	aggregateCmd.Flags().BoolVar(&aggSortKeys, "sort-keys", false, "order groups by key instead of first appearance")
	aggregateCmd.Flags().BoolVar(&aggDesc, "desc", false, "sort groups by value (descending when true, ascending when --desc=false)")
	aggregateCmd.Flags().IntVar(&aggRound, "round", -1, "round values to this many decimals (-1 = no rounding)")
	aggregateCmd.Flags().StringVarP(&aggOutputPath, "output", "o", "", "optional path to write the result (Markdown, or CSV when the path ends in .csv)")
}
