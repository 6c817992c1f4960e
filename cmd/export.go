package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Proxpekt/EDA-Projects/internal/store"
)

var (
	expData    dataFlags
	expOutput  string
	expSQLite  string
	expTable   string
	expMode    string
	expColumns []string
)

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export a dataset to CSV or into a SQLite table",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if expOutput == "" && expSQLite == "" {
			return fmt.Errorf("specify --output and/or --sqlite")
		}
		t, err := expData.load(args)
		if err != nil {
			return err
		}
		if len(expColumns) > 0 {
			if t, err = t.Select(expColumns...); err != nil {
				return err
			}
		}
		if expOutput != "" {
			if err := t.WriteCSVFile(expOutput); err != nil {
				return err
			}
			fmt.Printf("✓ Exported %d rows to %s\n", t.Rows(), expOutput)
		}
		if expSQLite != "" {
			mode, err := store.ParseMode(expMode)
			if err != nil {
				return err
			}
			name := expTable
			if name == "" {
				base := filepath.Base(t.Name)
				name = strings.TrimSuffix(base, filepath.Ext(base))
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			n, err := store.WriteTable(ctx, expSQLite, name, t, mode)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Wrote %d rows to %s (table %q, %s)\n", n, expSQLite, name, mode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	expData.register(exportCmd)
	exportCmd.Flags().StringVarP(&expOutput, "output", "o", "", "CSV file to write (header row, no index column)")
	exportCmd.Flags().StringVar(&expSQLite, "sqlite", "", "SQLite database file to write into")
	exportCmd.Flags().StringVar(&expTable, "table", "", "SQLite table name (default: dataset file name)")
	exportCmd.Flags().StringVar(&expMode, "mode", "replace", "replace | append")
	exportCmd.Flags().StringSliceVar(&expColumns, "columns", nil, "only export these columns, in this order")
}
