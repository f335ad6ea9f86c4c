// ABOUTME: Post model representing a single syndicated item belonging to exactly one feed
// ABOUTME: Read and bookmark mutators are idempotent and never clear existing state

package models

import (
	"time"

	"github.com/google/uuid"
)

// Post represents one syndicated item. URL is unique within the owning
// feed, not globally. Posts are immutable once created by a sync; only
// read/bookmark state changes afterwards.
type Post struct {
	ID          string
	FeedID      string
	Title       string
	Author      string
	URL         string
	Content     string
	PublishedAt time.Time
	ReadAt      *time.Time // nil means unread
	Bookmarked  bool
	CreatedAt   time.Time
}

// NewPost creates a new Post for the given feed with a generated ID and
// creation timestamp.
func NewPost(feedID, title, url, content string) *Post {
	return &Post{
		ID:        uuid.New().String(),
		FeedID:    feedID,
		Title:     title,
		URL:       url,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// Read reports whether the post has been read.
func (p *Post) Read() bool {
	return p.ReadAt != nil
}

// MarkRead sets ReadAt to the current time. Marking an already-read post
// is a no-op; ReadAt is never cleared.
func (p *Post) MarkRead() {
	if p.ReadAt != nil {
		return
	}
	now := time.Now()
	p.ReadAt = &now
}

// MarkBookmarked sets the bookmark flag. Idempotent; never cleared.
func (p *Post) MarkBookmarked() {
	p.Bookmarked = true
}
