// ABOUTME: Tests for HTML detection and content cleanup
// ABOUTME: Verifies Markdown conversion and plain-text passthrough

package content

import (
	"strings"
	"testing"
)

func TestIsHTML(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"plain text", "Just some plain text", false},
		{"paragraph tag", "<p>Hello world</p>", true},
		{"anchor tag", `Read <a href="https://example.com">more</a>`, true},
		{"doctype", "<!DOCTYPE html><html></html>", true},
		{"angle brackets in text", "use x < y and y > z", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHTML(tt.content); got != tt.want {
				t.Errorf("IsHTML(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestCleanConvertsHTML(t *testing.T) {
	got := Clean("<p>Hello <strong>world</strong></p>")
	if !strings.Contains(got, "**world**") {
		t.Errorf("expected Markdown bold, got %q", got)
	}
	if strings.Contains(got, "<p>") {
		t.Errorf("expected tags removed, got %q", got)
	}
}

func TestCleanPassesThroughPlainText(t *testing.T) {
	if got := Clean("  plain text  "); got != "plain text" {
		t.Errorf("expected trimmed passthrough, got %q", got)
	}
	if got := Clean(""); got != "" {
		t.Errorf("expected empty passthrough, got %q", got)
	}
}
