package crawler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// robotsAgent is the token robots policies use to address this crawler.
const robotsAgent = "SiteSignal"

// robotsEntry is one cached per-origin policy. A nil group means no policy
// could be fetched or parsed and the origin is allowed by default.
type robotsEntry struct {
	group     *robotstxt.Group
	fetchedAt time.Time
}

// RobotsCache holds per-origin fetch policies for the lifetime of one
// crawler instance. Entries are created lazily on the first fetch attempt
// for an origin and are never persisted across runs.
//
// The cache is mutex-guarded so one crawler instance can serve concurrent
// API requests; duplicated robots fetches under race are idempotent.
type RobotsCache struct {
	mu      sync.Mutex
	entries map[string]*robotsEntry

	client  *http.Client
	agent   string
	timeout time.Duration
}

// NewRobotsCache creates an empty cache using the crawler's HTTP session.
func NewRobotsCache(client *http.Client, userAgent string, timeout time.Duration) *RobotsCache {
	return &RobotsCache{
		entries: make(map[string]*robotsEntry),
		client:  client,
		agent:   userAgent,
		timeout: timeout,
	}
}

// CanFetch reports whether the crawler may fetch the target URL. It returns
// true unless the origin's parsed policy explicitly disallows the crawler's
// agent for the URL's path. Unparseable URLs are refused.
func (rc *RobotsCache) CanFetch(ctx context.Context, target string) bool {
	parsed, err := url.Parse(target)
	if err != nil {
		return false
	}

	entry := rc.lookup(ctx, Origin(parsed))
	if entry.group == nil {
		return true
	}

	path := parsed.Path
	if path == "" {
		path = "/"
	}
	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return entry.group.Test(path)
}

// lookup returns the cached entry for an origin, fetching and parsing
// /robots.txt on a miss. Any non-200 status or network error stores the
// allow-by-default sentinel (fail-open).
func (rc *RobotsCache) lookup(ctx context.Context, origin string) *robotsEntry {
	rc.mu.Lock()
	if entry, ok := rc.entries[origin]; ok {
		rc.mu.Unlock()
		return entry
	}
	rc.mu.Unlock()

	entry := rc.fetch(ctx, origin)

	rc.mu.Lock()
	rc.entries[origin] = entry
	rc.mu.Unlock()
	return entry
}

func (rc *RobotsCache) fetch(ctx context.Context, origin string) *robotsEntry {
	allow := &robotsEntry{fetchedAt: time.Now()}

	fetchCtx, cancel := context.WithTimeout(ctx, rc.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return allow
	}
	req.Header.Set("User-Agent", rc.agent)

	resp, err := rc.client.Do(req)
	if err != nil {
		slog.Debug("robots: fetch failed, allowing by default", "origin", origin, "error", err)
		return allow
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return allow
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1*1024*1024)) // 1MB limit
	if err != nil {
		return allow
	}

	data, err := robotstxt.FromBytes(body)
	if err != nil {
		slog.Debug("robots: unparseable policy, allowing by default", "origin", origin, "error", err)
		return allow
	}

	return &robotsEntry{group: data.FindGroup(robotsAgent), fetchedAt: time.Now()}
}
