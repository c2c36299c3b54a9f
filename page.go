package ragdex

import (
	"context"
	"regexp"
)

// ExtractedPage is the product of the fetch/extract collaborator: plain
// text plus heading metadata for a single page. Failed extraction is
// represented by empty values, not an error, so the pipeline can mark the
// URL failed and continue.
type ExtractedPage struct {
	URL   string
	Title string

	// Text is the whitespace-normalized plain text of the page.
	Text string

	// Metadata carries headings, breadcrumbs, links, and similar
	// free-form extraction detail that ends up in chunk metadata.
	Metadata map[string]any

	// ContentHash is the SHA-256 digest of Text, used for change
	// detection.
	ContentHash string
}

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch returns the HTML body for the URL. The context controls
	// timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any underlying resources.
	Close() error
}

// Extractor reduces raw HTML to plain text with heading hierarchy.
// DOM parsing details are hidden behind this boundary.
type Extractor interface {
	Extract(html string, url string) (*ExtractedPage, error)
}

// SitemapService discovers the URLs of a documentation site.
type SitemapService interface {
	// DiscoverURLs finds all same-site URLs, preferring the sitemap and
	// falling back to links on the start page. If filter is nil, all
	// URLs are returned.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter specifies patterns for including/excluding URLs.
type URLFilter struct {
	// Include patterns - if set, only URLs matching at least one pattern
	// are included.
	Include []*regexp.Regexp

	// Exclude patterns - URLs matching any pattern are excluded.
	// Exclude is applied after Include.
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter.
// If the filter is nil, all URLs pass.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}

	if len(f.Include) > 0 {
		matched := false
		for _, re := range f.Include {
			if re.MatchString(url) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, re := range f.Exclude {
		if re.MatchString(url) {
			return false
		}
	}

	return true
}

// Asker synthesizes a natural language answer from retrieved chunks.
type Asker interface {
	// Ask answers the question using only the given retrieval results.
	// Returns ENOTFOUND if there are no results to answer from.
	Ask(ctx context.Context, question string, results []RetrievalResult) (string, error)
}
