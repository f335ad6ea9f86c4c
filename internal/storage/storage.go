// ABOUTME: Storage interface and filter types for feed and post persistence
// ABOUTME: Defines the contract the sync engine and CLI depend on

package storage

import (
	"time"

	"github.com/harper/reeder/internal/models"
)

// PostFilter specifies criteria for listing posts.
type PostFilter struct {
	FeedID         *string
	UnreadOnly     *bool
	BookmarkedOnly *bool
	Since          *time.Time
	Until          *time.Time
	Limit          *int
	Offset         *int
}

// FeedStatsRow represents statistics for a single feed.
type FeedStatsRow struct {
	FeedID         string
	FeedURL        string
	FeedTitle      string
	LastModifiedAt *time.Time
	PostCount      int
	UnreadCount    int
}

// Store defines the persistence contract.
//
// The sync engine relies on two guarantees: CommitSync applies the feed
// upsert and post inserts as a single unit (no partial writes visible
// mid-sync), and the feed upsert is atomic create-if-url-absent.
type Store interface {
	// Close closes the store and releases resources.
	Close() error

	// Feed Operations

	// GetFeed retrieves a feed by ID.
	GetFeed(id string) (*models.Feed, error)

	// GetFeedByURL finds a feed by its URL. Returns (nil, nil) when no
	// feed with that URL exists.
	GetFeedByURL(url string) (*models.Feed, error)

	// GetFeedByRef finds a feed by exact URL, exact ID, or ID prefix.
	GetFeedByRef(ref string) (*models.Feed, error)

	// ListFeeds returns all feeds, most recently synced first.
	ListFeeds() ([]*models.Feed, error)

	// DeleteFeed removes a feed and all its posts (cascade).
	DeleteFeed(id string) error

	// Sync Operations

	// CommitSync upserts the feed by URL and inserts the given posts in
	// one transaction. When the URL already exists the stored feed keeps
	// its identity and only metadata is refreshed; feed.ID and the
	// posts' FeedID are rewritten to the stored identity.
	CommitSync(feed *models.Feed, posts []*models.Post) error

	// PostURLs returns the set of post URLs already stored for a feed.
	PostURLs(feedID string) (map[string]struct{}, error)

	// Post Operations

	// GetPost retrieves a post by ID.
	GetPost(id string) (*models.Post, error)

	// GetPostByRef finds a post by exact ID or ID prefix.
	GetPostByRef(ref string) (*models.Post, error)

	// ListPosts returns posts matching the filter, newest first.
	ListPosts(filter *PostFilter) ([]*models.Post, error)

	// MarkPostRead sets the post's read timestamp. Idempotent: an
	// already-read post keeps its original timestamp. Returns the post.
	MarkPostRead(id string) (*models.Post, error)

	// BookmarkPost sets the post's bookmark flag. Idempotent. Returns
	// the post.
	BookmarkPost(id string) (*models.Post, error)

	// CountUnreadPosts counts unread posts, optionally per feed.
	CountUnreadPosts(feedID *string) (int, error)

	// Statistics

	// GetFeedStats retrieves per-feed post and unread counts.
	GetFeedStats() ([]FeedStatsRow, error)

	// Search

	// IndexPost adds a post to the full-text index. Called best-effort
	// after a sync commits; the index is populated explicitly, not by
	// the write path.
	IndexPost(post *models.Post) error

	// Search performs full-text search over indexed posts.
	Search(query string, limit int) ([]*models.Post, error)

	// Maintenance

	// Compact performs database maintenance (VACUUM).
	Compact() error
}
