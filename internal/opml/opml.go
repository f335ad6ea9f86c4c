// ABOUTME: OPML subscription list parsing for bulk feed import
// ABOUTME: Flattens nested outlines into candidate feed URLs in document order

package opml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Errors returned by Parse.
var (
	ErrMalformedOPML = errors.New("malformed OPML document")
	ErrNoFeedsFound  = errors.New("no feed URLs found in OPML document")
)

// Document represents a parsed OPML document.
type Document struct {
	Title    string
	Outlines []Outline
}

// Outline is a node in the OPML tree. A node with an XMLURL is a feed;
// one without is a folder grouping its children.
type Outline struct {
	Text     string
	Title    string
	Type     string
	XMLURL   string
	Children []Outline
}

// XML structs for decoding OPML files
type opmlXML struct {
	XMLName xml.Name `xml:"opml"`
	Head    headXML  `xml:"head"`
	Body    bodyXML  `xml:"body"`
}

type headXML struct {
	Title string `xml:"title"`
}

type bodyXML struct {
	Outlines []outlineXML `xml:"outline"`
}

type outlineXML struct {
	Text     string       `xml:"text,attr"`
	Title    string       `xml:"title,attr"`
	Type     string       `xml:"type,attr"`
	XMLURL   string       `xml:"xmlUrl,attr"`
	Children []outlineXML `xml:"outline"`
}

// Parse reads OPML data from r. It fails with ErrMalformedOPML when the
// document is not well-formed XML, and with ErrNoFeedsFound when it is
// well-formed but contains no feed URLs.
func Parse(r io.Reader) (*Document, error) {
	var raw opmlXML
	decoder := xml.NewDecoder(r)
	decoder.Entity = xml.HTMLEntity
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOPML, err)
	}

	doc := &Document{
		Title:    raw.Head.Title,
		Outlines: make([]Outline, len(raw.Body.Outlines)),
	}
	for i, outline := range raw.Body.Outlines {
		doc.Outlines[i] = convertOutline(outline)
	}

	if len(doc.FeedURLs()) == 0 {
		return nil, ErrNoFeedsFound
	}
	return doc, nil
}

// FeedURLs returns every feed URL in the document, nested outlines
// flattened, preserving document order. Duplicate URLs are kept; the
// importer reports one result slot per outline.
func (d *Document) FeedURLs() []string {
	var urls []string
	for _, outline := range d.Outlines {
		urls = append(urls, collectURLs(outline)...)
	}
	return urls
}

func convertOutline(x outlineXML) Outline {
	o := Outline{
		Text:     x.Text,
		Title:    x.Title,
		Type:     x.Type,
		XMLURL:   x.XMLURL,
		Children: make([]Outline, len(x.Children)),
	}
	for i, child := range x.Children {
		o.Children[i] = convertOutline(child)
	}
	return o
}

func collectURLs(outline Outline) []string {
	var urls []string
	if outline.XMLURL != "" {
		urls = append(urls, outline.XMLURL)
	}
	for _, child := range outline.Children {
		urls = append(urls, collectURLs(child)...)
	}
	return urls
}
