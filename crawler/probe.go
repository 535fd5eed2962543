package crawler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// probeVariants generates the ordered reachability candidates for a
// normalized URL: the candidate itself, its www-toggled form, and an http
// fallback when the candidate is https.
func probeVariants(candidate string) []string {
	variants := []string{candidate}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return variants
	}

	host := parsed.Hostname()
	toggled := *parsed
	if strings.HasPrefix(host, "www.") {
		toggled.Host = strings.TrimPrefix(parsed.Host, "www.")
	} else {
		toggled.Host = "www." + parsed.Host
	}
	variants = append(variants, toggled.String())

	if parsed.Scheme == "https" {
		insecure := *parsed
		insecure.Scheme = "http"
		variants = append(variants, insecure.String())
	}

	return variants
}

// ProbeReachable issues a lightweight HEAD check against each variant in
// order and returns the first that answers with a non-error status. Probing
// is advisory: when every variant fails the original candidate is returned
// unchanged and the caller proceeds optimistically.
func (c *Crawler) ProbeReachable(ctx context.Context, candidate string) string {
	for _, variant := range probeVariants(candidate) {
		probeCtx, cancel := context.WithTimeout(ctx, c.cfg.ProbeTimeout)
		ok := c.headOK(probeCtx, variant)
		cancel()
		if ok {
			return variant
		}
	}

	slog.Debug("probe: no variant reachable, proceeding with candidate", "url", candidate)
	return candidate
}

// headOK reports whether a HEAD request to the URL yields a non-error
// status. Redirects are followed by the underlying client.
func (c *Crawler) headOK(ctx context.Context, target string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode < 400
}
