// ABOUTME: Feed model representing a tracked syndication source with a globally unique URL
// ABOUTME: Metadata (title, description, site URL) is refreshed on every successful sync

package models

import (
	"time"

	"github.com/google/uuid"
)

// Feed represents a tracked RSS/Atom/RDF feed. URL is unique across all
// feeds; deleting a feed cascades deletion of its posts.
type Feed struct {
	ID             string     // Unique identifier for the feed
	URL            string     // Feed URL (globally unique)
	Title          string     // Feed title (from feed metadata, required once synced)
	Description    string     // Feed description (optional)
	SiteURL        string     // Human-facing homepage of the feed (optional)
	LastModifiedAt *time.Time // Timestamp of most recent successful sync
	CreatedAt      time.Time  // Feed creation timestamp
}

// NewFeed creates a new Feed instance with a generated ID and timestamp
func NewFeed(url string) *Feed {
	return &Feed{
		ID:        uuid.New().String(),
		URL:       url,
		CreatedAt: time.Now(),
	}
}

// Touch records a successful sync at the given time.
func (f *Feed) Touch(at time.Time) {
	f.LastModifiedAt = &at
}
