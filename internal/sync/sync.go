// ABOUTME: Sync coordinator owning one feed's full refresh: fetch, parse, normalize, dedup, persist
// ABOUTME: Transient fetch failures retry with exponential backoff; entry-level failures are skipped, never fatal

package sync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/harper/reeder/internal/fetch"
	"github.com/harper/reeder/internal/models"
	"github.com/harper/reeder/internal/normalize"
	"github.com/harper/reeder/internal/parse"
	"github.com/harper/reeder/internal/storage"
)

const (
	// maxFetchRetries bounds retry attempts for transient fetch errors.
	maxFetchRetries = 2

	initialRetryInterval = 500 * time.Millisecond
)

// Indexer receives normalized post text for full-text indexing. The
// coordinator notifies it once per newly created post, best-effort:
// indexing failure never fails a sync.
type Indexer interface {
	IndexPost(post *models.Post) error
}

// Result reports the outcome of one feed sync.
type Result struct {
	Feed     *models.Feed
	NewPosts int
}

// Syncer orchestrates single-feed synchronization. Safe for concurrent
// use; syncs of the same feed URL are serialized on that URL.
type Syncer struct {
	fetcher *fetch.Fetcher
	store   storage.Store
	indexer Indexer
	log     *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New creates a Syncer. indexer may be nil to disable search indexing.
func New(fetcher *fetch.Fetcher, store storage.Store, indexer Indexer, log *slog.Logger) *Syncer {
	if log == nil {
		log = slog.Default()
	}
	return &Syncer{
		fetcher: fetcher,
		store:   store,
		indexer: indexer,
		log:     log,
		locks:   make(map[string]*sync.Mutex),
	}
}

// SyncURL refreshes the feed at url, creating the feed record on first
// successful fetch+parse. No feed is ever persisted on fetch or parse
// failure. Fetch, parse, and validation errors propagate unchanged.
func (s *Syncer) SyncURL(ctx context.Context, url string) (*Result, error) {
	if err := fetch.ValidateURL(url); err != nil {
		return nil, err
	}

	// Serialize per feed URL: two import entries resolving to the same
	// URL must not race the upsert.
	unlock := s.lockURL(url)
	defer unlock()

	result, err := s.fetchWithRetry(ctx, url)
	if err != nil {
		return nil, err
	}

	parsed, err := parse.Parse(result.Body)
	if err != nil {
		return nil, err
	}

	feed, err := s.store.GetFeedByURL(url)
	if err != nil {
		return nil, err
	}
	if feed == nil {
		feed = models.NewFeed(url)
	}

	syncTime := time.Now()
	feed.Title = parsed.Metadata.Title
	feed.Description = parsed.Metadata.Description
	feed.SiteURL = parsed.Metadata.SiteURL
	feed.Touch(syncTime)

	newPosts, err := s.newPosts(feed, parsed.Entries, syncTime)
	if err != nil {
		return nil, err
	}

	// Feed upsert and post inserts commit as one unit
	if err := s.store.CommitSync(feed, newPosts); err != nil {
		return nil, err
	}

	s.notifyIndexer(newPosts)

	return &Result{Feed: feed, NewPosts: len(newPosts)}, nil
}

// Sync refreshes an already-tracked feed.
func (s *Syncer) Sync(ctx context.Context, feed *models.Feed) (*Result, error) {
	return s.SyncURL(ctx, feed.URL)
}

// newPosts normalizes entries and drops the ones whose URL is already
// stored for this feed. Dedup key is (feed id, post url), exact string
// match. Entries failing normalization are logged and skipped.
func (s *Syncer) newPosts(feed *models.Feed, entries []parse.RawEntry, syncTime time.Time) ([]*models.Post, error) {
	existing, err := s.store.PostURLs(feed.ID)
	if err != nil {
		return nil, err
	}

	var posts []*models.Post
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		normalized, err := normalize.Entry(entry, syncTime)
		if err != nil {
			s.log.Warn("skipping entry",
				"feed", feed.URL,
				"entry", entry.Title,
				"error", err)
			continue
		}

		if _, ok := existing[normalized.URL]; ok {
			continue
		}
		// A feed document may repeat the same URL within itself
		if _, ok := seen[normalized.URL]; ok {
			continue
		}
		seen[normalized.URL] = struct{}{}

		post := models.NewPost(feed.ID, normalized.Title, normalized.URL, normalized.Content)
		post.Author = normalized.Author
		post.PublishedAt = normalized.PublishedAt
		posts = append(posts, post)
	}
	return posts, nil
}

// fetchWithRetry retries transient fetch failures (timeout, unreachable)
// with exponential backoff. All other error classes fail immediately.
func (s *Syncer) fetchWithRetry(ctx context.Context, url string) (*fetch.Result, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialRetryInterval

	var result *fetch.Result
	operation := func() error {
		var err error
		result, err = s.fetcher.Fetch(ctx, url)
		if err != nil && !fetch.Transient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, maxFetchRetries), ctx))
	if err != nil {
		return nil, err
	}
	return result, nil
}

// notifyIndexer pushes newly created posts into the search index.
// Failures are logged and ignored.
func (s *Syncer) notifyIndexer(posts []*models.Post) {
	if s.indexer == nil {
		return
	}
	for _, post := range posts {
		if err := s.indexer.IndexPost(post); err != nil {
			s.log.Warn("search indexing failed", "post", post.ID, "error", err)
		}
	}
}

// lockURL acquires the per-URL mutex, creating it on first use.
func (s *Syncer) lockURL(url string) func() {
	s.mu.Lock()
	lock, ok := s.locks[url]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[url] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
