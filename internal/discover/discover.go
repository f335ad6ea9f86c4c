// ABOUTME: Feed endpoint discovery for arbitrary URLs
// ABOUTME: Tries the URL as a direct feed, then HTML alternate links, then common feed paths

package discover

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/harper/reeder/internal/fetch"
	"github.com/harper/reeder/internal/parse"
)

// Common feed paths to probe when other discovery methods fail
var commonFeedPaths = []string{
	"/feed.xml",
	"/feed",
	"/rss.xml",
	"/rss",
	"/atom.xml",
	"/atom",
	"/index.xml",
	"/feed/rss",
	"/feed/atom",
	"/feeds/posts/default",
}

// ErrNoFeedFound is returned when no strategy yields a valid feed.
var ErrNoFeedFound = errors.New("no RSS/Atom feed found at URL")

// Feed is a feed endpoint found during discovery.
type Feed struct {
	URL   string // Absolute URL of the feed
	Title string // Feed title (from content or link element)
}

// Discoverer resolves arbitrary URLs to feed endpoints.
type Discoverer struct {
	fetcher *fetch.Fetcher
}

// New creates a Discoverer using the given fetcher.
func New(fetcher *fetch.Fetcher) *Discoverer {
	return &Discoverer{fetcher: fetcher}
}

// Discover attempts to find a feed endpoint at inputURL. Strategies, in
// order: parse the URL as a direct feed; parse it as HTML and follow
// <link rel="alternate"> elements; probe common feed paths on the host.
func (d *Discoverer) Discover(ctx context.Context, inputURL string) (*Feed, error) {
	if err := fetch.ValidateURL(inputURL); err != nil {
		return nil, err
	}
	parsedURL, err := url.Parse(inputURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fetch.ErrInvalidURL, err)
	}

	// Strategy 1: direct feed
	feed, body, err := d.tryDirectFeed(ctx, inputURL)
	if err != nil {
		return nil, err
	}
	if feed != nil {
		return feed, nil
	}

	// Strategy 2: alternate links in HTML
	for _, candidate := range extractFeedLinks(body, parsedURL) {
		verified, _, verifyErr := d.tryDirectFeed(ctx, candidate.URL)
		if verifyErr == nil && verified != nil {
			if verified.Title == "" && candidate.Title != "" {
				verified.Title = candidate.Title
			}
			return verified, nil
		}
	}

	// Strategy 3: common paths on the host root
	probeBase := &url.URL{Scheme: parsedURL.Scheme, Host: parsedURL.Host}
	for _, path := range commonFeedPaths {
		probed, _, probeErr := d.tryDirectFeed(ctx, probeBase.String()+path)
		if probeErr == nil && probed != nil {
			return probed, nil
		}
	}

	return nil, ErrNoFeedFound
}

// tryDirectFeed fetches and parses the URL as a feed. A fetch failure is
// an error; a parse failure is not, the raw body comes back for HTML
// link extraction instead.
func (d *Discoverer) tryDirectFeed(ctx context.Context, feedURL string) (*Feed, []byte, error) {
	result, err := d.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return nil, nil, err
	}

	parsed, parseErr := parse.Parse(result.Body)
	if parseErr != nil {
		return nil, result.Body, nil
	}

	return &Feed{URL: feedURL, Title: parsed.Metadata.Title}, result.Body, nil
}

// extractFeedLinks parses HTML and returns feed URLs from
// <link rel="alternate"> elements, resolved against baseURL.
func extractFeedLinks(htmlBody []byte, baseURL *url.URL) []Feed {
	doc, err := html.Parse(strings.NewReader(string(htmlBody)))
	if err != nil {
		return nil
	}

	var feeds []Feed
	var findLinks func(*html.Node)
	findLinks = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			var rel, linkType, href, title string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "rel":
					rel = attr.Val
				case "type":
					linkType = attr.Val
				case "href":
					href = attr.Val
				case "title":
					title = attr.Val
				}
			}

			if rel == "alternate" && isFeedContentType(linkType) && href != "" {
				if refURL, err := url.Parse(href); err == nil {
					feeds = append(feeds, Feed{
						URL:   baseURL.ResolveReference(refURL).String(),
						Title: title,
					})
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findLinks(c)
		}
	}

	findLinks(doc)
	return feeds
}

// isFeedContentType checks if the content type indicates a feed
func isFeedContentType(contentType string) bool {
	contentType = strings.ToLower(contentType)
	return strings.Contains(contentType, "rss") ||
		strings.Contains(contentType, "atom") ||
		strings.Contains(contentType, "xml")
}
