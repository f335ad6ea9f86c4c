// ABOUTME: Add command for subscribing to a new feed
// ABOUTME: Discovers the feed endpoint from any URL and runs the first sync

package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/reeder/internal/discover"
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Subscribe to a feed",
	Long: `Subscribe to a feed and fetch its current posts.

The URL may point directly at an RSS/Atom/RDF feed, or at an HTML page;
reeder will look for an advertised feed link or probe common feed paths.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputURL := args[0]
		ctx := context.Background()

		green := color.New(color.FgGreen).SprintFunc()

		discoverer := discover.New(fetcher)
		found, err := discoverer.Discover(ctx, inputURL)
		if err != nil {
			return fmt.Errorf("failed to discover feed: %w", err)
		}
		if found.URL != inputURL {
			fmt.Printf("Discovered feed: %s\n", found.URL)
		}

		result, err := syncEngine.SyncURL(ctx, found.URL)
		if err != nil {
			return fmt.Errorf("failed to sync feed: %w", err)
		}

		fmt.Printf("%s Subscribed to %s\n", green("v"), result.Feed.Title)
		fmt.Printf("  URL: %s\n", result.Feed.URL)
		fmt.Printf("  ID: %s\n", result.Feed.ID)
		fmt.Printf("  %d post(s) fetched\n", result.NewPosts)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
