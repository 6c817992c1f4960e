package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addDashboardName string
	addCleanPath     string
	addDatasetName   string
	addTimeCols      []string
)

var addCmd = &cobra.Command{
	Use:   "add <raw-file>",
	Short: "Register a dataset (raw file and optional cleaned file) in a dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		if addDashboardName == "" {
			return fmt.Errorf("--dashboard is required")
		}
		d, err := loadDashboard(addDashboardName)
		if err != nil {
			return err
		}
		opt, err := (&dataFlags{}).options()
		if err != nil {
			return err
		}
		ds, err := d.AddDataset(addDatasetName, file, addCleanPath, addTimeCols, opt)
		if err != nil {
			return err
		}
		if err := d.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Dataset added: %s (%d rows x %d columns)\n", ds.Name, ds.Rows, ds.Columns)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addDashboardName, "dashboard", "p", "", "dashboard name")
	addCmd.Flags().StringVar(&addCleanPath, "clean", "", "cleaned version of the raw file")
	addCmd.Flags().StringVar(&addDatasetName, "name", "", "dataset name (default: raw file name)")
	addCmd.Flags().StringSliceVar(&addTimeCols, "time-col", nil, "columns of the cleaned file to parse as timestamps")
}
