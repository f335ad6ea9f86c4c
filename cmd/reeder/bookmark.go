// ABOUTME: Bookmark command for flagging posts to keep
// ABOUTME: Accepts a post ID or ID prefix; bookmarking is idempotent

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var bookmarkCmd = &cobra.Command{
	Use:   "bookmark <post-id>",
	Short: "Bookmark a post",
	Long:  "Bookmark a post by ID or ID prefix so it can be found later with 'reeder posts --bookmarked'.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		post, err := store.GetPostByRef(args[0])
		if err != nil {
			return err
		}

		post, err = store.BookmarkPost(post.ID)
		if err != nil {
			return fmt.Errorf("failed to bookmark post: %w", err)
		}

		fmt.Printf("Bookmarked: %s\n", post.Title)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookmarkCmd)
}
