package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	listDashboards bool
	listDatasets   bool
	listDashName   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List dashboards or datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listDashboards == listDatasets { // either both true or both false
			return fmt.Errorf("specify exactly one of --dashboards or --datasets")
		}
		if listDashboards {
			return listAllDashboards()
		}
		if listDashName == "" {
			return fmt.Errorf("--dashboard is required when using --datasets")
		}
		d, err := loadDashboard(listDashName)
		if err != nil {
			return err
		}
		datasets := d.List()
		if len(datasets) == 0 {
			fmt.Println("(no datasets)")
			return nil
		}
		for _, ds := range datasets {
			line := fmt.Sprintf("- %s: %s", ds.Name, ds.RawPath)
			if ds.CleanPath != "" {
				line += " -> " + ds.CleanPath
			}
			if len(ds.TimeColumns) > 0 {
				line += fmt.Sprintf(" [time: %s]", strings.Join(ds.TimeColumns, ", "))
			}
			fmt.Printf("%s (%dx%d, id %s)\n", line, ds.Rows, ds.Columns, ds.ID)
		}
		return nil
	},
}

func listAllDashboards() error {
	root, err := defaultDashboardsDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(root, e.Name(), "dashboard.json")); err == nil {
			fmt.Printf("- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Println("(no dashboards)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listDashboards, "dashboards", false, "list dashboards")
	listCmd.Flags().BoolVar(&listDatasets, "datasets", false, "list datasets in a dashboard")
	listCmd.Flags().StringVarP(&listDashName, "dashboard", "p", "", "dashboard name for --datasets")
}
