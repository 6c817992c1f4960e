package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Proxpekt/EDA-Projects/internal/analysis"
	"github.com/Proxpekt/EDA-Projects/internal/table"
)

var (
	wData     dataFlags
	wInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [file]",
	Short: "Re-summarize a dataset every time its file changes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, opt, _, err := wData.resolve(args)
		if err != nil {
			return err
		}
		interval := wInterval
		if interval <= 0 && cfg != nil {
			interval = cfg.WatchInterval()
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, path, opt, interval)
	},
}

// runWatch prints a summary of path, then reprints it after every change
// until ctx is done.
func runWatch(ctx context.Context, path string, opt table.Options, interval time.Duration) error {
	if err := printSummary(path, opt); err != nil {
		return err
	}
	changes, err := dataCache.Watch(ctx, interval, path)
	if err != nil {
		return err
	}
	fmt.Printf("Watching %s (Ctrl+C to stop)\n", path)
	for range changes {
		log.Printf("watch: rerun for %s", path)
		if err := printSummary(path, opt); err != nil {
			// a half-written file is common mid-save; wait for the next change
			fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		}
	}
	st := dataCache.Stats()
	log.Printf("watch: stopped (hits=%d misses=%d reloads=%d invalidations=%d)", st.Hits, st.Misses, st.Reloads, st.Invalidations)
	return nil
}

func printSummary(path string, opt table.Options) error {
	t, err := dataCache.Load(path, opt)
	if err != nil {
		return err
	}
	s, err := analysis.Summarize(t, summaryOptions())
	if err != nil {
		return err
	}
	fmt.Printf("---- %s ----\n%s\n", time.Now().Format("15:04:05"), s.Markdown())
	return nil
}

func init() {
	rootCmd.AddCommand(watchCmd)
	wData.register(watchCmd)
	watchCmd.Flags().DurationVar(&wInterval, "interval", 0, "debounce between a change and the rerun (default from config, 500ms)")
}
