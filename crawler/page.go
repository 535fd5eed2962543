package crawler

import (
	"context"
	"time"
)

// FetchPage normalizes, validates and fetches one URL through the robots
// gate, returning the canonical URL and raw body. Used by the single-page
// extraction surface; the full run path goes through ScrapeBusiness.
func (c *Crawler) FetchPage(ctx context.Context, rawURL string, timeout time.Duration) (string, []byte, error) {
	candidate, err := NormalizeURL(rawURL)
	if err != nil {
		return "", nil, err
	}
	if err := ValidateURL(candidate); err != nil {
		return "", nil, err
	}

	body, err := c.fetchGated(ctx, candidate, timeout)
	if err != nil {
		return candidate, nil, err
	}
	return candidate, body, nil
}
