// ABOUTME: Feed listing and removal commands
// ABOUTME: Shows per-feed post counts and deletes subscriptions with their posts

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List subscribed feeds",
	Long:    "List all subscribed feeds with post and unread counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := store.GetFeedStats()
		if err != nil {
			return fmt.Errorf("failed to list feeds: %w", err)
		}

		if len(stats) == 0 {
			fmt.Println("No feeds found. Add a feed with 'reeder add <url>'")
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()

		fmt.Printf("Found %d feed(s):\n\n", len(stats))
		for _, row := range stats {
			idShort := row.FeedID
			if len(idShort) > 8 {
				idShort = idShort[:8]
			}
			fmt.Printf("%s %s\n", faint(idShort), row.FeedTitle)
			fmt.Printf("  URL: %s\n", row.FeedURL)
			fmt.Printf("  %d post(s), %d unread", row.PostCount, row.UnreadCount)
			if row.LastModifiedAt != nil {
				fmt.Printf(", last synced %s", row.LastModifiedAt.Format("02 Jan 06 15:04"))
			}
			fmt.Println()
			fmt.Println()
		}

		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <url-or-id>",
	Short: "Unsubscribe from a feed",
	Long:  "Remove a feed and all of its posts. Accepts a feed URL, ID, or ID prefix.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := args[0]

		feed, err := store.GetFeedByRef(ref)
		if err != nil {
			return err
		}

		if err := store.DeleteFeed(feed.ID); err != nil {
			return fmt.Errorf("failed to remove feed: %w", err)
		}

		fmt.Printf("Removed feed: %s\n", feed.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(rmCmd)
}
