// ABOUTME: OPML bulk importer driving the sync coordinator concurrently across feeds
// ABOUTME: Bounded worker pool with per-feed failure isolation; results preserve input order

package importer

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/harper/reeder/internal/models"
	"github.com/harper/reeder/internal/opml"
	syncer "github.com/harper/reeder/internal/sync"
)

// DefaultWorkers is the worker pool size when none is configured.
const DefaultWorkers = 8

// Result is the outcome for a single OPML outline. Exactly one of Feed
// or Err is set, except for outlines skipped by cancellation, which
// carry the context error.
type Result struct {
	URL      string
	Feed     *models.Feed
	NewPosts int
	Err      error
}

// Importer runs bulk OPML imports.
type Importer struct {
	syncer  *syncer.Syncer
	workers int
	log     *slog.Logger
}

// New creates an Importer running at most workers concurrent feed
// syncs. A non-positive worker count falls back to DefaultWorkers.
func New(s *syncer.Syncer, workers int, log *slog.Logger) *Importer {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if log == nil {
		log = slog.Default()
	}
	return &Importer{syncer: s, workers: workers, log: log}
}

// Import parses an OPML document and syncs every discovered feed URL
// concurrently. One feed's failure never aborts its siblings; each
// outline gets a result slot, and the returned slice matches outline
// order regardless of completion order.
//
// Cancelling ctx stops dispatch of new syncs; in-flight syncs finish
// and their results are still returned. Skipped slots carry ctx.Err().
func (i *Importer) Import(ctx context.Context, r io.Reader) ([]Result, error) {
	doc, err := opml.Parse(r)
	if err != nil {
		return nil, err
	}
	urls := doc.FeedURLs()

	results := make([]Result, len(urls))
	sem := make(chan struct{}, i.workers)
	var wg sync.WaitGroup

	for idx, url := range urls {
		results[idx].URL = url

		// Checked before the semaphore acquire: a free slot must not
		// win the select against an already-cancelled context.
		if ctx.Err() != nil {
			results[idx].Err = ctx.Err()
			continue
		}

		select {
		case <-ctx.Done():
			results[idx].Err = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(idx int, url string) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := i.syncer.SyncURL(ctx, url)
			if err != nil {
				i.log.Warn("feed import failed", "url", url, "error", err)
				results[idx].Err = err
				return
			}
			results[idx].Feed = res.Feed
			results[idx].NewPosts = res.NewPosts
		}(idx, url)
	}

	wg.Wait()
	return results, nil
}
