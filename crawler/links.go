package crawler

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxLinkLength drops unreasonably long URLs (session tokens, tracking blobs).
const maxLinkLength = 200

// reNonContent matches URLs and link texts that never lead to business
// content: auth and commerce flows, admin areas, feeds and binary documents,
// and legal boilerplate pages.
var reNonContent = regexp.MustCompile(`(?i)` +
	`/(login|signin|signup|register|logout|cart|checkout|account|admin|wp-admin|wp-login)` +
	`|\.(pdf|docx?|xlsx?|pptx?|zip|rar|xml|rss|atom|json)($|\?)` +
	`|/(feed|rss|atom)(/|$)` +
	`|(privacy|terms|cookie-policy|legal|disclaimer|sitemap)`)

// rePseudoLink matches hrefs that are not navigable pages.
var rePseudoLink = regexp.MustCompile(`(?i)^(#|javascript:|mailto:|tel:)`)

// DiscoverLinks fetches the homepage and collects same-origin content links
// up to the configured budget. Any fetch or parse failure yields an empty
// set: link-graph discovery is best-effort on top of the sitemap.
func (c *Crawler) DiscoverLinks(ctx context.Context, homeURL string, budget int) map[string]struct{} {
	links := map[string]struct{}{}

	body, err := c.fetchGated(ctx, homeURL, c.cfg.PerPageTimeout)
	if err != nil {
		slog.Debug("links: homepage fetch failed", "url", homeURL, "error", err)
		return links
	}

	base, err := url.Parse(homeURL)
	if err != nil {
		return links
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		slog.Debug("links: homepage parse failed", "url", homeURL, "error", err)
		return links
	}

	doc.Find("a[href]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if budget > 0 && len(links) >= budget {
			return false
		}

		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || rePseudoLink.MatchString(href) {
			return true
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return true
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return true
		}
		// Same-origin only: no cross-domain crawling.
		if !strings.EqualFold(resolved.Host, base.Host) {
			return true
		}
		resolved.Fragment = ""

		absURL := resolved.String()
		if len(absURL) > maxLinkLength {
			return true
		}

		text := strings.TrimSpace(s.Text())
		if reNonContent.MatchString(absURL) || reNonContent.MatchString(text) {
			return true
		}

		links[absURL] = struct{}{}
		return true
	})

	return links
}
