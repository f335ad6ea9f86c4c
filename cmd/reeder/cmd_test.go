// ABOUTME: Tests for CLI commands
// ABOUTME: Tests command structure, flags, and subcommands

package main

import (
	"testing"
)

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "reeder" {
		t.Errorf("expected Use to be 'reeder', got %q", rootCmd.Use)
	}
	if rootCmd.Short == "" {
		t.Error("expected root command to have a short description")
	}
}

func TestAddCommand(t *testing.T) {
	if addCmd.Use != "add <url>" {
		t.Errorf("expected Use to be 'add <url>', got %q", addCmd.Use)
	}
}

func TestListCommand(t *testing.T) {
	if listCmd.Use != "list" {
		t.Errorf("expected Use to be 'list', got %q", listCmd.Use)
	}
	if len(listCmd.Aliases) == 0 {
		t.Error("expected list command to have aliases")
	}
}

func TestRmCommand(t *testing.T) {
	if rmCmd.Use != "rm <url-or-id>" {
		t.Errorf("expected Use to be 'rm <url-or-id>', got %q", rmCmd.Use)
	}
}

func TestSyncCommand(t *testing.T) {
	if syncCmd.Use != "sync [url]" {
		t.Errorf("expected Use to be 'sync [url]', got %q", syncCmd.Use)
	}
}

func TestImportCommand(t *testing.T) {
	if importCmd.Use != "import <opml-file>" {
		t.Errorf("expected Use to be 'import <opml-file>', got %q", importCmd.Use)
	}

	// Check flags exist
	if importCmd.Flags().Lookup("workers") == nil {
		t.Error("expected --workers flag to exist")
	}
	if importCmd.Flags().Lookup("timeout") == nil {
		t.Error("expected --timeout flag to exist")
	}
}

func TestPostsCommand(t *testing.T) {
	if postsCmd.Use != "posts" {
		t.Errorf("expected Use to be 'posts', got %q", postsCmd.Use)
	}

	// Check flags exist
	if postsCmd.Flags().Lookup("feed") == nil {
		t.Error("expected --feed flag to exist")
	}
	if postsCmd.Flags().Lookup("unread") == nil {
		t.Error("expected --unread flag to exist")
	}
	if postsCmd.Flags().Lookup("bookmarked") == nil {
		t.Error("expected --bookmarked flag to exist")
	}
	if postsCmd.Flags().Lookup("period") == nil {
		t.Error("expected --period flag to exist")
	}
	if postsCmd.Flags().Lookup("limit") == nil {
		t.Error("expected --limit flag to exist")
	}
	if postsCmd.Flags().Lookup("offset") == nil {
		t.Error("expected --offset flag to exist")
	}
}

func TestReadCommand(t *testing.T) {
	if readCmd.Use != "read <post-id>" {
		t.Errorf("expected Use to be 'read <post-id>', got %q", readCmd.Use)
	}
}

func TestBookmarkCommand(t *testing.T) {
	if bookmarkCmd.Use != "bookmark <post-id>" {
		t.Errorf("expected Use to be 'bookmark <post-id>', got %q", bookmarkCmd.Use)
	}
}

func TestSearchCommand(t *testing.T) {
	if searchCmd.Use != "search <query>" {
		t.Errorf("expected Use to be 'search <query>', got %q", searchCmd.Use)
	}
	if searchCmd.Flags().Lookup("limit") == nil {
		t.Error("expected --limit flag to exist")
	}
}

func TestRootPersistentFlags(t *testing.T) {
	if rootCmd.PersistentFlags().Lookup("data-dir") == nil {
		t.Error("expected --data-dir flag to exist")
	}
}

func TestCommandRegistration(t *testing.T) {
	// Check that subcommands are registered
	commands := rootCmd.Commands()

	commandNames := make(map[string]bool)
	for _, cmd := range commands {
		commandNames[cmd.Name()] = true
	}

	expectedCommands := []string{
		"add",
		"list",
		"rm",
		"sync",
		"import",
		"posts",
		"read",
		"bookmark",
		"search",
		"version",
	}

	for _, expected := range expectedCommands {
		if !commandNames[expected] {
			t.Errorf("expected command %q to be registered", expected)
		}
	}
}
