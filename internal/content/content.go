// ABOUTME: Content cleanup for normalized post bodies
// ABOUTME: Detects HTML and converts it to Markdown so stored content is plain text

package content

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTagPattern matches common HTML tags
var htmlTagPattern = regexp.MustCompile(`<\s*(p|div|span|a|br|img|h[1-6]|ul|ol|li|table|tr|td|th|strong|em|b|i|code|pre|blockquote)[^>]*>`)

// IsHTML checks if content appears to be HTML
func IsHTML(s string) bool {
	if strings.Contains(s, "<!DOCTYPE") || strings.Contains(s, "<html") {
		return true
	}
	return htmlTagPattern.MatchString(s)
}

// Clean trims whitespace and, when the body looks like HTML, converts it
// to Markdown. Conversion failures fall back to the original text; a
// sync should never lose a post over markup it cannot convert.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !IsHTML(s) {
		return s
	}

	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(markdown)
}
