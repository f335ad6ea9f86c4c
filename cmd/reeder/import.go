// ABOUTME: Import command for bulk OPML subscription imports
// ABOUTME: Runs bounded-concurrency syncs and reports per-feed outcomes

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/reeder/internal/fetch"
	"github.com/harper/reeder/internal/importer"
	syncer "github.com/harper/reeder/internal/sync"
)

var importCmd = &cobra.Command{
	Use:   "import <opml-file>",
	Short: "Import feeds from an OPML file",
	Long: `Import subscriptions from an OPML file, syncing every feed it lists.

Feeds are synced concurrently with a bounded worker pool. One feed
failing does not abort the rest; each outline is reported individually.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workers, _ := cmd.Flags().GetInt("workers")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open OPML file: %w", err)
		}
		defer file.Close()

		engine := syncEngine
		if timeout > 0 {
			engine = syncer.New(fetch.New(timeout), store, store, logger)
		}

		imp := importer.New(engine, importWorkers(workers, cfg.Workers), logger)
		results, err := imp.Import(context.Background(), file)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		imported := 0
		failed := 0
		totalNew := 0

		for _, result := range results {
			if result.Err != nil {
				fmt.Printf("%s %s: %s\n", red("x"), result.URL, result.Err.Error())
				failed++
				continue
			}
			fmt.Printf("%s %s (%d posts)\n", green("v"), result.Feed.Title, result.NewPosts)
			imported++
			totalNew += result.NewPosts
		}

		fmt.Println()
		fmt.Printf("Summary: %d feed(s) imported, %d failed\n", imported, failed)
		if totalNew > 0 {
			fmt.Printf("  %s %d posts fetched\n", green("v"), totalNew)
		}

		return nil
	},
}

// importWorkers resolves the pool size: the flag wins, then the
// configured value (REEDER_WORKERS or config file), then the importer
// default via its non-positive fallback.
func importWorkers(flagWorkers, configured int) int {
	if flagWorkers > 0 {
		return flagWorkers
	}
	return configured
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().IntP("workers", "w", 0, fmt.Sprintf("concurrent syncs (default %d)", importer.DefaultWorkers))
	importCmd.Flags().Duration("timeout", 0, fmt.Sprintf("per-feed fetch timeout (default %s)", fetch.DefaultTimeout))
}
