// ABOUTME: Sync command to refresh subscribed feeds
// ABOUTME: Syncs all feeds or a single feed with colored progress output

package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/reeder/internal/models"
)

var syncCmd = &cobra.Command{
	Use:   "sync [url]",
	Short: "Fetch new posts from feeds",
	Long:  "Fetch new posts from all subscribed feeds, or from a single feed by URL.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		feeds, err := store.ListFeeds()
		if err != nil {
			return fmt.Errorf("failed to list feeds: %w", err)
		}

		if len(feeds) == 0 {
			fmt.Println("No feeds found. Add a feed with 'reeder add <url>'")
			return nil
		}

		if len(args) == 1 {
			targetURL := args[0]
			var filtered []*models.Feed
			for _, feed := range feeds {
				if feed.URL == targetURL {
					filtered = append(filtered, feed)
					break
				}
			}
			if len(filtered) == 0 {
				return fmt.Errorf("feed not found: %s", targetURL)
			}
			feeds = filtered
		}

		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()

		totalNew := 0
		totalErrors := 0

		for _, feed := range feeds {
			fmt.Printf("Syncing %s... ", feedDisplayName(feed))

			result, err := syncEngine.Sync(ctx, feed)
			if err != nil {
				fmt.Printf("%s %s\n", red("x"), err.Error())
				totalErrors++
				continue
			}

			if result.NewPosts > 0 {
				fmt.Printf("%s %d new\n", green("v"), result.NewPosts)
				totalNew += result.NewPosts
			} else {
				fmt.Printf("%s no new posts\n", green("v"))
			}
		}

		fmt.Println()
		fmt.Printf("Summary: %d feed(s) synced\n", len(feeds))
		if totalNew > 0 {
			fmt.Printf("  %s %d new posts\n", green("v"), totalNew)
		}
		if totalErrors > 0 {
			fmt.Printf("  %s %d errors\n", red("x"), totalErrors)
		}

		return nil
	},
}

// feedDisplayName returns a human-readable name for the feed
func feedDisplayName(feed *models.Feed) string {
	if feed.Title != "" {
		return feed.Title
	}
	return feed.URL
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
