package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Proxpekt/EDA-Projects/internal/dashboard"
	"github.com/Proxpekt/EDA-Projects/internal/utils"
)

var (
	initDescription string
)

var initCmd = &cobra.Command{
	Use:   "init <dashboard-name>",
	Short: "Initialize a new dashboard",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		root, err := defaultDashboardsDir()
		if err != nil {
			return err
		}
		dir := filepath.Join(root, name)
		// Refuse to overwrite an existing dashboard.
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			if _, err := os.Stat(filepath.Join(dir, "dashboard.json")); err == nil {
				return fmt.Errorf("dashboard already exists at %s", dir)
			}
			entries, err := os.ReadDir(dir)
			if err != nil {
				return fmt.Errorf("inspect dashboard directory: %w", err)
			}
			if len(entries) > 0 {
				return fmt.Errorf("directory %s already exists and is not empty; refusing to initialize dashboard", dir)
			}
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat dashboard directory: %w", err)
		}
		if err := utils.EnsureDir(dir); err != nil {
			return err
		}
		d := dashboard.New(name, initDescription, dir)
		if err := d.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Dashboard initialized: %s\n", dir)
		return nil
	},
}

func defaultDashboardsDir() (string, error) {
	if cfg != nil && cfg.DashboardsDir != "" {
		dir := cfg.DashboardsDir
		if strings.HasPrefix(dir, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home dir: %w", err)
			}
			dir = strings.TrimPrefix(dir, "~")
			dir = strings.TrimPrefix(dir, string(os.PathSeparator))
			dir = strings.TrimPrefix(dir, "/")
			dir = filepath.Join(home, dir)
		}
		dir = filepath.Clean(dir)
		if err := utils.EnsureDir(dir); err != nil {
			return "", err
		}
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".eda", "dashboards")
	if err := utils.EnsureDir(dir); err != nil {
		return "", err
	}
	return dir, nil
}

func resolveDashboardDirByName(name string) (string, error) {
	if name == "" {
		return "", errors.New("dashboard name is required")
	}
	root, err := defaultDashboardsDir()
	if err != nil {
		return "", err
	}
	return utils.DashboardDir(root, name), nil
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVarP(&initDescription, "desc", "d", "", "dashboard description")
}
