// ABOUTME: Post normalizer mapping a raw feed entry into a canonical post shape
// ABOUTME: Pure value transformation with fallback rules; no I/O and no side effects

package normalize

import (
	"fmt"
	"net/url"
	"time"

	"github.com/harper/reeder/internal/content"
	"github.com/harper/reeder/internal/parse"
)

// MissingFieldError indicates a raw entry lacked a required field and
// every fallback for it. The entry is skipped, not the whole sync.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("entry is missing required field %q", e.Field)
}

// Post is the canonical shape of a normalized entry, ready to persist.
type Post struct {
	Title       string
	Author      string
	URL         string
	Content     string
	PublishedAt time.Time
}

// Entry normalizes a raw entry. syncTime is the policy fallback for
// entries with no parseable timestamp.
//
// Fallback rules:
//   - url: entry link, else the guid when it is itself an absolute
//     http(s) URL
//   - content: full content field, else summary/description
//   - published_at: entry timestamp, else syncTime
func Entry(raw parse.RawEntry, syncTime time.Time) (*Post, error) {
	if raw.Title == "" {
		return nil, &MissingFieldError{Field: "title"}
	}

	postURL := raw.Link
	if postURL == "" && isAbsoluteURL(raw.GUID) {
		postURL = raw.GUID
	}
	if postURL == "" {
		return nil, &MissingFieldError{Field: "url"}
	}

	body := raw.Content
	if body == "" {
		body = raw.Summary
	}
	if body == "" {
		return nil, &MissingFieldError{Field: "content"}
	}

	publishedAt := syncTime
	if raw.PublishedAt != nil {
		publishedAt = *raw.PublishedAt
	}

	return &Post{
		Title:       raw.Title,
		Author:      raw.Author,
		URL:         postURL,
		Content:     content.Clean(body),
		PublishedAt: publishedAt,
	}, nil
}

func isAbsoluteURL(s string) bool {
	if s == "" {
		return false
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != ""
}
