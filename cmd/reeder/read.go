// ABOUTME: Read command for marking posts as read
// ABOUTME: Accepts a post ID or ID prefix; marking is idempotent

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var readCmd = &cobra.Command{
	Use:   "read <post-id>",
	Short: "Mark a post as read",
	Long:  "Mark a post as read by ID or ID prefix. A post already read keeps its original read time.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		post, err := store.GetPostByRef(args[0])
		if err != nil {
			return err
		}

		alreadyRead := post.Read()

		post, err = store.MarkPostRead(post.ID)
		if err != nil {
			return fmt.Errorf("failed to mark post as read: %w", err)
		}

		if alreadyRead {
			fmt.Printf("Already read: %s\n", post.Title)
		} else {
			fmt.Printf("Marked as read: %s\n", post.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}
