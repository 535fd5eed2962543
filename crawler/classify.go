package crawler

import (
	"net/url"
	"sort"
	"strings"

	"github.com/risklens/sitesignal/models"
)

// Keyword groups for classification, checked in this order. The first group
// with a match in the URL's path or query labels the page.
var classifierGroups = []struct {
	pageType models.PageType
	keywords []string
}{
	{models.PageTypeHome, []string{"home", "index"}},
	{models.PageTypeAbout, []string{"about", "company", "who-we-are", "our-story", "team"}},
	{models.PageTypeServices, []string{"service", "product", "solution", "offering", "what-we-do"}},
	{models.PageTypeContact, []string{"contact", "reach-us", "get-in-touch", "location"}},
}

// Priority keyword lists. High-value pages describe what the business does;
// medium-value pages identify and locate it.
var (
	highValueKeywords = []string{
		"about", "services", "products", "team", "portfolio",
		"case-studies", "industries", "clients", "testimonials",
	}
	mediumValueKeywords = []string{"home", "contact", "careers", "press"}
)

// ClassifyURL labels a URL by the first matching keyword group in its path
// and query. The literal root path is always home; anything unmatched is
// labelled other.
func ClassifyURL(rawURL string) models.PageType {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return models.PageTypeUnknown
	}

	path := strings.ToLower(parsed.Path)
	if path == "" || path == "/" {
		return models.PageTypeHome
	}

	haystack := path
	if parsed.RawQuery != "" {
		haystack += "?" + strings.ToLower(parsed.RawQuery)
	}

	for _, group := range classifierGroups {
		for _, kw := range group.keywords {
			if strings.Contains(haystack, kw) {
				return group.pageType
			}
		}
	}

	return models.PageTypeOther
}

// PriorityScore ranks a URL by expected business relevance: keyword hits,
// URL brevity and path shallowness all add to the score.
func PriorityScore(rawURL string) int {
	lower := strings.ToLower(rawURL)
	score := 0

	for _, kw := range highValueKeywords {
		if strings.Contains(lower, kw) {
			score += 10
		}
	}
	for _, kw := range mediumValueKeywords {
		if strings.Contains(lower, kw) {
			score += 5
		}
	}

	switch {
	case len(rawURL) < 50:
		score += 3
	case len(rawURL) < 100:
		score += 1
	}

	switch depth := pathDepth(rawURL); {
	case depth <= 1:
		score += 5
	case depth <= 2:
		score += 2
	}

	return score
}

// pathDepth counts non-empty path segments.
func pathDepth(rawURL string) int {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return 0
	}
	depth := 0
	for _, seg := range strings.Split(parsed.Path, "/") {
		if seg != "" {
			depth++
		}
	}
	return depth
}

// Prioritize classifies and ranks a discovered URL set, filters it to the
// accepted page types, and truncates to maxPages. The homepage is pinned to
// the front of the selection and never truncated out, regardless of how it
// scores against the rest of the set; it still passes through the accepted
// filter like any other page. Ties among the remaining candidates keep
// discovery order, which for the set input means insertion order of the
// urls slice.
func Prioritize(homeURL string, urls []string, accepted func(models.PageType) bool, maxPages int) []models.DiscoveredURL {
	seen := map[string]struct{}{homeURL: {}}
	var candidates []models.DiscoveredURL
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		pt := ClassifyURL(u)
		if accepted != nil && !accepted(pt) {
			continue
		}
		candidates = append(candidates, models.DiscoveredURL{
			URL:      u,
			PageType: pt,
			Priority: PriorityScore(u),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	var selected []models.DiscoveredURL
	if homeType := ClassifyURL(homeURL); accepted == nil || accepted(homeType) {
		selected = append(selected, models.DiscoveredURL{
			URL:      homeURL,
			PageType: homeType,
			Priority: PriorityScore(homeURL),
		})
	}
	selected = append(selected, candidates...)

	if maxPages > 0 && len(selected) > maxPages {
		selected = selected[:maxPages]
	}
	return selected
}
