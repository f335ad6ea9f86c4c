// ABOUTME: Test suite for feed parsing across RSS 2.0, Atom, and RDF envelope shapes
// ABOUTME: Uses inline XML fixtures; verifies typed errors for malformed and unsupported documents

package parse

import (
	"errors"
	"testing"
	"time"
)

const rss20XML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test RSS Feed</title>
    <link>https://example.com</link>
    <description>A test RSS feed</description>
    <item>
      <guid>https://example.com/post/1</guid>
      <title>First Post</title>
      <link>https://example.com/post/1</link>
      <author>john@example.com (John Doe)</author>
      <pubDate>Mon, 02 Jan 2006 15:04:05 MST</pubDate>
      <description>First post description</description>
    </item>
    <item>
      <title>Second Post</title>
      <link>https://example.com/post/2</link>
      <pubDate>Tue, 03 Jan 2006 15:04:05 MST</pubDate>
      <description>Second post description</description>
    </item>
  </channel>
</rss>`

const atomXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Test Atom Feed</title>
  <link href="https://example.com"/>
  <updated>2006-01-02T15:04:05Z</updated>
  <entry>
    <id>https://example.com/entry/1</id>
    <title>First Entry</title>
    <link href="https://example.com/entry/1"/>
    <author>
      <name>Jane Smith</name>
    </author>
    <published>2006-01-02T15:04:05Z</published>
    <content type="html">First entry content</content>
    <summary>First entry summary</summary>
  </entry>
  <entry>
    <id>https://example.com/entry/2</id>
    <title>Summary Only</title>
    <link href="https://example.com/entry/2"/>
    <updated>2006-01-03T15:04:05Z</updated>
    <summary>Only a summary here</summary>
  </entry>
</feed>`

const rdfXML = `<?xml version="1.0" encoding="UTF-8"?>
<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
         xmlns="http://purl.org/rss/1.0/"
         xmlns:dc="http://purl.org/dc/elements/1.1/">
  <channel rdf:about="https://example.com/rss">
    <title>Test RDF Feed</title>
    <link>https://example.com</link>
    <description>An RSS 1.0 feed</description>
  </channel>
  <item rdf:about="https://example.com/item/1">
    <title>RDF Item</title>
    <link>https://example.com/item/1</link>
    <dc:date>2006-01-02T15:04:05Z</dc:date>
    <description>RDF item description</description>
  </item>
</rdf:RDF>`

func TestParseRSS20(t *testing.T) {
	feed, err := Parse([]byte(rss20XML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if feed.Metadata.Title != "Test RSS Feed" {
		t.Errorf("title mismatch: got %q", feed.Metadata.Title)
	}
	if feed.Metadata.SiteURL != "https://example.com" {
		t.Errorf("site URL mismatch: got %q", feed.Metadata.SiteURL)
	}
	if feed.Metadata.Description != "A test RSS feed" {
		t.Errorf("description mismatch: got %q", feed.Metadata.Description)
	}
	if len(feed.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(feed.Entries))
	}

	first := feed.Entries[0]
	if first.Title != "First Post" {
		t.Errorf("entry title mismatch: got %q", first.Title)
	}
	if first.Link != "https://example.com/post/1" {
		t.Errorf("entry link mismatch: got %q", first.Link)
	}
	if first.GUID != "https://example.com/post/1" {
		t.Errorf("entry guid mismatch: got %q", first.GUID)
	}
	if first.PublishedAt == nil {
		t.Fatal("expected parsed RFC 822 timestamp")
	}

	// Second item has no guid; parser leaves it empty
	if feed.Entries[1].GUID == feed.Entries[1].Link && feed.Entries[1].GUID == "" {
		t.Error("expected link to be present on second entry")
	}
}

func TestParseAtom(t *testing.T) {
	feed, err := Parse([]byte(atomXML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if feed.Metadata.Title != "Test Atom Feed" {
		t.Errorf("title mismatch: got %q", feed.Metadata.Title)
	}
	if len(feed.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(feed.Entries))
	}

	first := feed.Entries[0]
	if first.Author != "Jane Smith" {
		t.Errorf("author mismatch: got %q", first.Author)
	}
	if first.Content != "First entry content" {
		t.Errorf("content mismatch: got %q", first.Content)
	}
	if first.Summary != "First entry summary" {
		t.Errorf("summary mismatch: got %q", first.Summary)
	}

	want := time.Date(2006, 1, 2, 15, 4, 5, 0, time.UTC)
	if first.PublishedAt == nil || !first.PublishedAt.Equal(want) {
		t.Errorf("published mismatch: got %v, want %v", first.PublishedAt, want)
	}

	// Entry without <published> falls back to <updated>
	second := feed.Entries[1]
	if second.PublishedAt == nil {
		t.Error("expected updated timestamp fallback")
	}
	if second.Content != "" {
		t.Errorf("expected empty content, got %q", second.Content)
	}
	if second.Summary != "Only a summary here" {
		t.Errorf("summary mismatch: got %q", second.Summary)
	}
}

func TestParseRDF(t *testing.T) {
	feed, err := Parse([]byte(rdfXML))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if feed.Metadata.Title != "Test RDF Feed" {
		t.Errorf("title mismatch: got %q", feed.Metadata.Title)
	}
	if len(feed.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(feed.Entries))
	}
	if feed.Entries[0].Link != "https://example.com/item/1" {
		t.Errorf("link mismatch: got %q", feed.Entries[0].Link)
	}
}

func TestParseLegacyEncoding(t *testing.T) {
	// ISO-8859-1 document with a real Latin-1 byte (0xE9, é) in the
	// title. Must decode, not report malformed XML.
	latin1 := []byte(`<?xml version="1.0" encoding="ISO-8859-1"?>
<rss version="2.0">
  <channel>
    <title>M`)
	latin1 = append(latin1, 0xE9)
	latin1 = append(latin1, []byte(`t`)...)
	latin1 = append(latin1, 0xE9)
	latin1 = append(latin1, []byte(`o du jour</title>
    <link>https://example.fr</link>
    <description>Bulletin quotidien</description>
    <item>
      <title>Pr`)...)
	latin1 = append(latin1, 0xE9)
	latin1 = append(latin1, []byte(`visions</title>
      <link>https://example.fr/1</link>
      <description>Beau temps</description>
    </item>
  </channel>
</rss>`)...)

	feed, err := Parse(latin1)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if feed.Metadata.Title != "Météo du jour" {
		t.Errorf("title mismatch: got %q", feed.Metadata.Title)
	}
	if len(feed.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(feed.Entries))
	}
	if feed.Entries[0].Title != "Prévisions" {
		t.Errorf("entry title mismatch: got %q", feed.Entries[0].Title)
	}
}

func TestParseMalformedXML(t *testing.T) {
	_, err := Parse([]byte(`<rss version="2.0"><channel><title>Broken`))
	if !errors.Is(err, ErrMalformedXML) {
		t.Fatalf("expected ErrMalformedXML, got %v", err)
	}
}

func TestParseUnsupportedFormat(t *testing.T) {
	html := `<?xml version="1.0"?>
<html xmlns="http://www.w3.org/1999/xhtml">
  <head><title>Not a feed</title></head>
  <body><p>Just a web page</p></body>
</html>`

	_, err := Parse([]byte(html))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseMissingFeedTitle(t *testing.T) {
	noTitle := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <link>https://example.com</link>
    <description>No title here</description>
  </channel>
</rss>`

	_, err := Parse([]byte(noTitle))
	if !errors.Is(err, ErrMissingFeedTitle) {
		t.Fatalf("expected ErrMissingFeedTitle, got %v", err)
	}
}

func TestParseUnparseableDateBecomesNil(t *testing.T) {
	badDate := `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Feed</title>
    <item>
      <title>Item</title>
      <link>https://example.com/1</link>
      <pubDate>sometime last tuesday</pubDate>
      <description>desc</description>
    </item>
  </channel>
</rss>`

	feed, err := Parse([]byte(badDate))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(feed.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(feed.Entries))
	}
	if feed.Entries[0].PublishedAt != nil {
		t.Errorf("expected nil timestamp for unparseable date, got %v", feed.Entries[0].PublishedAt)
	}
}
