// ABOUTME: Posts command for browsing stored posts with filters
// ABOUTME: Supports feed, unread, bookmark, and period filtering with paged output

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/reeder/internal/storage"
	"github.com/harper/reeder/internal/timeutil"
)

var postsCmd = &cobra.Command{
	Use:   "posts",
	Short: "List posts",
	Long:  "List stored posts, newest first, with optional filtering by feed, read status, bookmark, and period.",
	RunE: func(cmd *cobra.Command, args []string) error {
		feedRef, _ := cmd.Flags().GetString("feed")
		unread, _ := cmd.Flags().GetBool("unread")
		bookmarked, _ := cmd.Flags().GetBool("bookmarked")
		period, _ := cmd.Flags().GetString("period")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		filter := &storage.PostFilter{
			Limit:  &limit,
			Offset: &offset,
		}

		if unread {
			filter.UnreadOnly = &unread
		}
		if bookmarked {
			filter.BookmarkedOnly = &bookmarked
		}

		if feedRef != "" {
			feed, err := store.GetFeedByRef(feedRef)
			if err != nil {
				return err
			}
			filter.FeedID = &feed.ID
		}

		if period != "" {
			window, ok := timeutil.ParsePeriod(period)
			if !ok {
				return fmt.Errorf("invalid period %q: use today, yesterday, week, or month", period)
			}
			filter.Since = &window.Since
			if !window.Until.IsZero() {
				filter.Until = &window.Until
			}
		}

		posts, err := store.ListPosts(filter)
		if err != nil {
			return fmt.Errorf("failed to list posts: %w", err)
		}

		if len(posts) == 0 {
			fmt.Println("No posts found")
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()

		for _, post := range posts {
			idShort := post.ID
			if len(idShort) > 8 {
				idShort = idShort[:8]
			}
			fmt.Print(faint(idShort))
			fmt.Print(" ")

			if post.Read() {
				fmt.Print("✓ ")
			} else {
				fmt.Print("  ")
			}
			if post.Bookmarked {
				fmt.Print("* ")
			} else {
				fmt.Print("  ")
			}

			title := post.Title
			if title == "" {
				title = "Untitled"
			}
			fmt.Print(title)

			fmt.Print(" ")
			fmt.Print(faint(post.PublishedAt.Format("02 Jan 06 15:04")))
			fmt.Println()
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(postsCmd)

	postsCmd.Flags().StringP("feed", "f", "", "filter by feed URL, ID, or ID prefix")
	postsCmd.Flags().BoolP("unread", "u", false, "show only unread posts")
	postsCmd.Flags().BoolP("bookmarked", "b", false, "show only bookmarked posts")
	postsCmd.Flags().StringP("period", "p", "", "filter by period: today, yesterday, week, month")
	postsCmd.Flags().IntP("limit", "n", 20, "max posts to show")
	postsCmd.Flags().IntP("offset", "o", 0, "number of posts to skip (for pagination)")
}
