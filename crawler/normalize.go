package crawler

import (
	"net/url"
	"strings"

	"github.com/risklens/sitesignal/models"
)

// NormalizeURL turns free-text input into a well-formed candidate URL:
// trims whitespace, prepends https:// when no scheme is present, and
// rewrites bare two-label hosts ("example.com") to their www form while
// preserving path, query and fragment. It does not verify reachability.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", models.NewCrawlError(models.ErrCodeInvalidInput, "empty URL", nil)
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", models.NewCrawlError(models.ErrCodeInvalidInput, "unparseable URL", err)
	}

	host := parsed.Hostname()
	if strings.Count(host, ".") == 1 && !strings.HasPrefix(host, "www.") {
		if port := parsed.Port(); port != "" {
			parsed.Host = "www." + host + ":" + port
		} else {
			parsed.Host = "www." + host
		}
	}

	return parsed.String(), nil
}

// ValidateURL confirms a candidate has an http or https scheme and a
// non-empty host. Anything else fails with INVALID_URL.
func ValidateURL(candidate string) error {
	parsed, err := url.Parse(candidate)
	if err != nil {
		return models.NewCrawlError(models.ErrCodeInvalidURL, "unparseable URL", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return models.NewCrawlError(models.ErrCodeInvalidURL, "scheme must be http or https", nil)
	}
	if parsed.Host == "" {
		return models.NewCrawlError(models.ErrCodeInvalidURL, "missing host", nil)
	}
	return nil
}

// Origin returns scheme://host for a URL — the unit at which robots policy
// is cached.
func Origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

// Domain extracts the host from a URL with any www. prefix stripped,
// for display in summaries and discover responses.
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
