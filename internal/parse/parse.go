// ABOUTME: Feed parsing for RSS 2.0, Atom, and RDF/RSS 1.0 using the gofeed universal parser
// ABOUTME: Produces feed-level metadata plus raw entries; missing optional fields are deferred to normalization

package parse

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
)

// Errors returned by Parse.
var (
	ErrMalformedXML      = errors.New("malformed XML")
	ErrUnsupportedFormat = errors.New("unsupported feed format")
	ErrMissingFeedTitle  = errors.New("feed has no title")
)

// Metadata holds feed-level fields extracted during parsing.
type Metadata struct {
	Title       string
	Description string
	SiteURL     string // the feed's human-facing homepage, distinct from item links
}

// RawEntry carries whatever fields an item/entry declared. Only the
// normalizer decides which fields are required; a nil PublishedAt means
// the entry had no parseable timestamp.
type RawEntry struct {
	Title       string
	Author      string
	Link        string
	GUID        string
	Content     string
	Summary     string
	PublishedAt *time.Time
}

// Feed is the parsed representation of one feed document.
type Feed struct {
	Metadata Metadata
	Entries  []RawEntry
}

// Parse converts raw feed bytes into metadata plus an ordered list of
// raw entries. Format detection is by root element, not content type:
// gofeed recognizes RSS 2.0, Atom, and RDF/RSS 1.0 envelopes and
// tolerates both RFC 822 and RFC 3339 timestamps.
func Parse(data []byte) (*Feed, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, err
	}

	parser := gofeed.NewParser()
	parsed, err := parser.Parse(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
			return nil, fmt.Errorf("%w: root element matches no known feed schema", ErrUnsupportedFormat)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedXML, err)
	}

	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		return nil, ErrMissingFeedTitle
	}

	feed := &Feed{
		Metadata: Metadata{
			Title:       title,
			Description: strings.TrimSpace(parsed.Description),
			SiteURL:     strings.TrimSpace(parsed.Link),
		},
		Entries: make([]RawEntry, 0, len(parsed.Items)),
	}

	for _, item := range parsed.Items {
		entry := RawEntry{
			Title:   strings.TrimSpace(item.Title),
			Link:    strings.TrimSpace(item.Link),
			GUID:    strings.TrimSpace(item.GUID),
			Content: strings.TrimSpace(item.Content),
			Summary: strings.TrimSpace(item.Description),
		}

		if item.Author != nil {
			entry.Author = strings.TrimSpace(item.Author.Name)
		}

		// Prefer the published timestamp, fall back to updated.
		// Unparseable dates surface as nil and default at normalization.
		if item.PublishedParsed != nil {
			entry.PublishedAt = item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			entry.PublishedAt = item.UpdatedParsed
		}

		feed.Entries = append(feed.Entries, entry)
	}

	return feed, nil
}

// checkWellFormed scans the document with a strict XML tokenizer so that
// broken XML reports ErrMalformedXML instead of a detection failure.
// HTML entities are allowed since feeds commonly embed them, and
// declared legacy encodings (ISO-8859-1 and friends) are decoded rather
// than rejected.
func checkWellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Entity = xml.HTMLEntity
	decoder.CharsetReader = charset.NewReaderLabel
	for {
		_, err := decoder.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedXML, err)
		}
	}
}
