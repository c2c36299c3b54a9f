// Package goquery implements HTML content extraction for ragdex using CSS
// selectors.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ragdex/ragdex"
)

// Ensure Extractor implements ragdex.Extractor at compile time.
var _ ragdex.Extractor = (*Extractor)(nil)

// Extractor reduces documentation HTML to whitespace-normalized plain text
// plus heading metadata. Navigation chrome (scripts, styles, nav, header,
// footer, aside) is stripped before text extraction.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses the HTML and returns the page's plain text, title, and
// heading metadata. A page with no extractable text yields an empty Text,
// not an error; the caller decides whether that is a failure.
func (e *Extractor) Extract(html string, pageURL string) (*ragdex.ExtractedPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, ragdex.Errorf(ragdex.EINVALID, "failed to parse HTML: %v", err)
	}

	metadata := make(map[string]any)

	// Meta tags have to be read before chrome removal strips <head>
	// adjacent content.
	if desc := metaContent(doc, "meta[name='description']"); desc != "" {
		metadata["description"] = desc
	}
	if ogTitle := metaContent(doc, "meta[property='og:title']"); ogTitle != "" {
		metadata["og_title"] = ogTitle
	}
	if ogDesc := metaContent(doc, "meta[property='og:description']"); ogDesc != "" {
		metadata["og_description"] = ogDesc
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}

	if trail := breadcrumbTrail(doc); len(trail) > 0 {
		metadata["breadcrumbs"] = trail
	}

	doc.Find("script, style, nav, header, footer, aside").Remove()

	var headings []string
	doc.Find("h1, h2, h3").Each(func(_ int, sel *goquery.Selection) {
		if h := strings.TrimSpace(sel.Text()); h != "" {
			headings = append(headings, h)
		}
	})
	if len(headings) > 0 {
		metadata["headings"] = headings
	}

	if module := moduleFromURL(pageURL); module != "" {
		metadata["module"] = module
	}

	text := strings.Join(strings.Fields(doc.Find("body").Text()), " ")

	return &ragdex.ExtractedPage{
		URL:         pageURL,
		Title:       title,
		Text:        text,
		Metadata:    metadata,
		ContentHash: ragdex.ContentHash(text),
	}, nil
}

// metaContent returns the content attribute of the first element matching
// the selector.
func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// breadcrumbTrail collects breadcrumb link texts in document order.
func breadcrumbTrail(doc *goquery.Document) []string {
	var trail []string
	doc.Find("nav[aria-label='breadcrumb'] a, .breadcrumb a, .breadcrumbs a").Each(func(_ int, sel *goquery.Selection) {
		if t := strings.TrimSpace(sel.Text()); t != "" {
			trail = append(trail, t)
		}
	})
	return trail
}

// moduleFromURL derives a module ID from the first URL path segment with a
// module- prefix, e.g. /module-auth/intro yields "module-auth".
func moduleFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	for _, segment := range strings.Split(parsed.Path, "/") {
		if strings.HasPrefix(segment, "module-") {
			return segment
		}
	}
	return ""
}
