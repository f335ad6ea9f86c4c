// ABOUTME: Search command for full-text search over stored posts
// ABOUTME: Queries the FTS index across titles, authors, and content

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search posts",
	Long:  "Full-text search across post titles, authors, and content. Results are ranked by relevance.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		query := strings.Join(args, " ")

		posts, err := store.Search(query, limit)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if len(posts) == 0 {
			fmt.Println("No matching posts")
			return nil
		}

		faint := color.New(color.Faint).SprintFunc()

		for _, post := range posts {
			idShort := post.ID
			if len(idShort) > 8 {
				idShort = idShort[:8]
			}
			fmt.Printf("%s %s", faint(idShort), post.Title)
			if post.Author != "" {
				fmt.Printf(" %s", faint(post.Author))
			}
			fmt.Println()
			fmt.Printf("  %s\n", post.URL)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntP("limit", "n", 20, "max results to show")
}
