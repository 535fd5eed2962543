package crawler

import (
	"context"
	"encoding/xml"
	"log/slog"
	"net/url"
	"strings"
)

// sitemapPaths are tried in order at the working root; the first candidate
// that returns 200 and parses wins.
var sitemapPaths = []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemap/sitemap.xml"}

// maxSitemapDepth bounds recursive sitemap-index descent.
const maxSitemapDepth = 3

// sitemapIndex represents a sitemap index XML file.
type sitemapIndex struct {
	XMLName  xml.Name       `xml:"sitemapindex"`
	Sitemaps []sitemapEntry `xml:"sitemap"`
}

// sitemapEntry is an entry in a sitemap index.
type sitemapEntry struct {
	Loc string `xml:"loc"`
}

// urlset represents a sitemap URL set XML file.
type urlset struct {
	XMLName xml.Name   `xml:"urlset"`
	URLs    []urlEntry `xml:"url"`
}

// urlEntry is a single URL in a sitemap.
type urlEntry struct {
	Loc string `xml:"loc"`
}

// DiscoverSitemap collects page URLs from the site's sitemap, trying the
// standard locations in order. Discovery stops at the first candidate that
// fetches and parses, even when it lists no URLs: a valid empty sitemap is
// the site's answer. The result is an unordered, deduplicated set keyed by
// exact URL string. A site without a working sitemap yields an empty set,
// never an error.
func (c *Crawler) DiscoverSitemap(ctx context.Context, rootURL string) map[string]struct{} {
	parsed, err := url.Parse(rootURL)
	if err != nil {
		return map[string]struct{}{}
	}
	// Standard locations live at the root even when probing landed on a
	// deeper page.
	origin := Origin(parsed)

	for _, path := range sitemapPaths {
		urls, ok := c.fetchSitemap(ctx, origin+path, 0)
		if !ok {
			continue
		}
		set := make(map[string]struct{}, len(urls))
		for _, u := range urls {
			set[u] = struct{}{}
		}
		return set
	}

	return map[string]struct{}{}
}

// fetchSitemap fetches and parses one sitemap document, reporting whether
// the document itself was retrieved and understood. Sitemap indexes are
// descended recursively; each sub-sitemap fetch is robots-gated and any
// failure in a branch contributes no URLs rather than aborting discovery,
// so the ok result reflects only the top document.
func (c *Crawler) fetchSitemap(ctx context.Context, sitemapURL string, depth int) ([]string, bool) {
	if depth > maxSitemapDepth {
		return nil, false
	}

	body, err := c.fetchGated(ctx, sitemapURL, c.cfg.SitemapTimeout)
	if err != nil {
		slog.Debug("sitemap: fetch failed", "url", sitemapURL, "error", err)
		return nil, false
	}

	// Try parsing as a sitemap index first.
	var idx sitemapIndex
	if err := xml.Unmarshal(body, &idx); err == nil && len(idx.Sitemaps) > 0 {
		var urls []string
		for _, s := range idx.Sitemaps {
			if loc := strings.TrimSpace(s.Loc); loc != "" {
				children, _ := c.fetchSitemap(ctx, loc, depth+1)
				urls = append(urls, children...)
			}
		}
		return urls, true
	}

	// Otherwise a regular URL set.
	var us urlset
	if err := xml.Unmarshal(body, &us); err != nil {
		slog.Debug("sitemap: unparseable document", "url", sitemapURL, "error", err)
		return nil, false
	}

	var urls []string
	for _, u := range us.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, true
}
