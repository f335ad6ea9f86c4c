// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, opens storage, and wires the sync engine

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/harper/reeder/internal/config"
	"github.com/harper/reeder/internal/fetch"
	"github.com/harper/reeder/internal/storage"
	syncer "github.com/harper/reeder/internal/sync"
)

var (
	dataDir string
	verbose bool

	cfg        *config.Config
	store      storage.Store
	fetcher    *fetch.Fetcher
	syncEngine *syncer.Syncer
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reeder",
	Short: "RSS/Atom feed reader with full-text search",
	Long: `reeder tracks RSS, Atom, and RDF feeds from the command line.

Subscribe to feeds, sync new posts, import subscriptions from OPML,
and search everything you've collected.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if dataDir != "" {
			cfg.DataDir = dataDir
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		store, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}

		fetcher = fetch.New(cfg.FetchTimeout)
		syncEngine = syncer.New(fetcher, store, store, logger)

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if store != nil {
			if err := store.Close(); err != nil {
				return fmt.Errorf("failed to close storage: %w", err)
			}
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: ~/.local/share/reeder)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
