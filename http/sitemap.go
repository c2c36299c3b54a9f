package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/ragdex/ragdex"
)

// Ensure SitemapService implements ragdex.SitemapService.
var _ ragdex.SitemapService = (*SitemapService)(nil)

// LinkExtractor pulls same-site links out of an HTML page. Used as the
// discovery fallback when a site publishes no sitemap.
type LinkExtractor interface {
	ExtractLinks(html, baseURL string) ([]string, error)
}

// SitemapService discovers URLs from website sitemaps via HTTP, falling
// back to links on the start page when no sitemap exists.
type SitemapService struct {
	client *http.Client
	links  LinkExtractor
}

// NewSitemapService creates a new SitemapService. If client is nil,
// http.DefaultClient is used. A nil links extractor disables the
// crawl fallback.
func NewSitemapService(client *http.Client, links LinkExtractor) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	return &SitemapService{client: client, links: links}
}

// DiscoverURLs finds all URLs for the site rooted at baseURL. Sitemaps
// from robots.txt are preferred, then /sitemap.xml, then links on the
// start page. Returns an empty slice (not nil) when nothing is found.
//
// When baseURL has a non-root path, only URLs under that path are
// returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *ragdex.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, ragdex.Errorf(ragdex.EINVALID, "invalid base URL: %v", err)
	}

	pathPrefix := base.Path
	if pathPrefix == "/" {
		pathPrefix = ""
	}

	// Sitemap discovery starts from the domain root even when the base
	// URL points into a subdirectory.
	sitemapBase := *base
	sitemapBase.Path = ""

	sitemapURLs, err := s.findSitemapURLs(ctx, &sitemapBase)
	if err != nil {
		return nil, err
	}

	var allURLs []string
	if len(sitemapURLs) > 0 {
		seenSitemaps := make(map[string]bool)
		seenURLs := make(map[string]bool)
		for _, sitemapURL := range sitemapURLs {
			urls, err := s.processSitemap(ctx, sitemapURL, seenSitemaps)
			if err != nil {
				return nil, err
			}
			for _, u := range urls {
				if !seenURLs[u] {
					seenURLs[u] = true
					allURLs = append(allURLs, u)
				}
			}
		}
	} else {
		allURLs, err = s.crawlStartPage(ctx, baseURL, base)
		if err != nil {
			return nil, err
		}
	}

	var out []string
	for _, u := range allURLs {
		if pathPrefix != "" && !matchesPathPrefix(u, pathPrefix) {
			continue
		}
		if isAssetURL(u) {
			continue
		}
		if !filter.Match(u) {
			continue
		}
		out = append(out, u)
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// crawlStartPage fetches the base page and extracts its same-host links.
func (s *SitemapService) crawlStartPage(ctx context.Context, baseURL string, base *url.URL) ([]string, error) {
	if s.links == nil {
		return nil, nil
	}

	body, err := s.fetchURL(ctx, baseURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	defer body.Close()

	html, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	links, err := s.links.ExtractLinks(string(html), baseURL)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{baseURL: true}
	out := []string{baseURL}
	for _, link := range links {
		parsed, err := url.Parse(link)
		if err != nil || parsed.Host != base.Host {
			continue
		}
		if !seen[link] {
			seen[link] = true
			out = append(out, link)
		}
	}
	return out, nil
}

// matchesPathPrefix checks if a URL's path starts with the given prefix at
// a path boundary, so /docs matches /docs/intro but not /documentation.
func matchesPathPrefix(rawURL, prefix string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return strings.HasPrefix(parsed.Path, prefix) || parsed.Path+"/" == prefix
}

var assetExtensions = map[string]bool{
	".css": true, ".js": true, ".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".svg": true, ".ico": true, ".pdf": true, ".zip": true,
	".woff": true, ".woff2": true, ".ttf": true, ".mp4": true, ".webp": true,
}

// isAssetURL reports whether the URL points at a static asset rather than
// an HTML page.
func isAssetURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return assetExtensions[strings.ToLower(path.Ext(parsed.Path))]
}

// findSitemapURLs discovers sitemap URLs from robots.txt or falls back to
// /sitemap.xml.
func (s *SitemapService) findSitemapURLs(ctx context.Context, base *url.URL) ([]string, error) {
	robotsURL := base.ResolveReference(&url.URL{Path: "/robots.txt"})
	sitemaps, err := s.parseSitemapsFromRobots(ctx, robotsURL.String())
	if err == nil && len(sitemaps) > 0 {
		return sitemaps, nil
	}

	sitemapURL := base.ResolveReference(&url.URL{Path: "/sitemap.xml"})
	exists, err := s.urlExists(ctx, sitemapURL.String())
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	if exists {
		return []string{sitemapURL.String()}, nil
	}

	return nil, nil
}

// parseSitemapsFromRobots extracts Sitemap: directives from robots.txt.
func (s *SitemapService) parseSitemapsFromRobots(ctx context.Context, robotsURL string) ([]string, error) {
	body, err := s.fetchURL(ctx, robotsURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	var sitemaps []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(strings.ToLower(line), "sitemap:") {
			sitemapURL := strings.TrimSpace(line[len("sitemap:"):])
			if sitemapURL != "" {
				sitemaps = append(sitemaps, sitemapURL)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading robots.txt: %w", err)
	}

	return sitemaps, nil
}

// processSitemap fetches and parses a sitemap, handling both urlset and
// sitemapindex documents.
func (s *SitemapService) processSitemap(ctx context.Context, sitemapURL string, seen map[string]bool) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if seen[sitemapURL] {
		return nil, nil
	}
	seen[sitemapURL] = true

	body, err := s.fetchURL(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, fmt.Errorf("parsing sitemap XML: %w", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty sitemap XML")
	}

	if root.Tag == "sitemapindex" {
		return s.processSitemapIndex(ctx, root, seen)
	}

	return parseURLSet(root), nil
}

// processSitemapIndex processes a <sitemapindex> element recursively.
func (s *SitemapService) processSitemapIndex(ctx context.Context, root *etree.Element, seen map[string]bool) ([]string, error) {
	var allURLs []string

	for _, sitemap := range root.SelectElements("sitemap") {
		loc := sitemap.SelectElement("loc")
		if loc == nil {
			continue
		}
		sitemapURL := strings.TrimSpace(loc.Text())
		if sitemapURL == "" {
			continue
		}

		urls, err := s.processSitemap(ctx, sitemapURL, seen)
		if err != nil {
			return nil, err
		}
		allURLs = append(allURLs, urls...)
	}

	return allURLs, nil
}

// parseURLSet extracts URLs from a <urlset> element.
func parseURLSet(root *etree.Element) []string {
	var urls []string
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// fetchURL fetches a URL and returns the response body.
func (s *SitemapService) fetchURL(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}

	return resp.Body, nil
}

// urlExists checks if a URL returns 200 OK.
func (s *SitemapService) urlExists(ctx context.Context, targetURL string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, targetURL, nil)
	if err != nil {
		return false, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}
