package crawler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"github.com/risklens/sitesignal/config"
	"github.com/risklens/sitesignal/extractor"
	"github.com/risklens/sitesignal/models"
	"github.com/risklens/sitesignal/simhash"
)

// nearDuplicateThreshold is the max fingerprint Hamming distance at which
// two pages count as near-duplicates in the content metrics.
const nearDuplicateThreshold = 3

// Crawler turns a free-text domain string into a bounded, prioritized,
// policy-compliant set of scraped pages. One instance owns its HTTP session
// and robots cache; pages within a run are fetched strictly one at a time.
type Crawler struct {
	cfg    config.CrawlerConfig
	client *http.Client
	robots *RobotsCache
	pacer  *rate.Limiter
}

// New creates a Crawler with its own HTTP session and empty robots cache.
func New(cfg config.CrawlerConfig) *Crawler {
	if cfg.UserAgent == "" {
		cfg.UserAgent = config.DefaultUserAgent
	}
	client := newHTTPClient()

	rps := cfg.FetchRPS
	if rps <= 0 {
		rps = 4
	}

	return &Crawler{
		cfg:    cfg,
		client: client,
		robots: NewRobotsCache(client, cfg.UserAgent, cfg.RobotsTimeout),
		pacer:  rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Discover runs normalization, probing and discovery and returns the
// prioritized URL list without extracting any content.
func (c *Crawler) Discover(ctx context.Context, rawURL string, maxPages int) (string, []models.DiscoveredURL, error) {
	candidate, err := NormalizeURL(rawURL)
	if err != nil {
		return "", nil, err
	}
	if err := ValidateURL(candidate); err != nil {
		return "", nil, err
	}

	rootURL := c.ProbeReachable(ctx, candidate)
	urls := c.discoverURLs(ctx, rootURL, maxPages)
	return rootURL, Prioritize(rootURL, urls, nil, maxPages), nil
}

// ScrapeBusiness is the aggregate entry point for one run: normalize →
// probe → discover → prioritize → extract each selected page sequentially →
// derive the intelligence summary.
//
// The only error return is a malformed initial URL. Every later failure —
// unreachable site, empty discovery, per-page fetch errors — is folded into
// the returned SiteResult so callers always get a well-formed result.
func (c *Crawler) ScrapeBusiness(ctx context.Context, rawURL string, cfg models.ScrapeConfig) (*models.SiteResult, error) {
	cfg.Defaults()
	startedAt := time.Now().UTC()

	candidate, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}
	if err := ValidateURL(candidate); err != nil {
		return nil, err
	}

	rootURL := c.ProbeReachable(ctx, candidate)
	result := &models.SiteResult{
		RootURL:   rootURL,
		StartedAt: startedAt,
		Pages:     []models.PageRecord{},
	}

	urls := c.discoverURLs(ctx, rootURL, cfg.MaxPages)
	selected := Prioritize(rootURL, urls, cfg.Accepts, cfg.MaxPages)

	if len(selected) == 0 {
		result.Intelligence = summarize(result.Pages,
			[]string{"no pages discovered for " + rootURL})
		return result, nil
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	for _, cand := range selected {
		if err := ctx.Err(); err != nil {
			result.Intelligence = summarize(result.Pages, []string{"run cancelled: " + err.Error()})
			return result, nil
		}
		_ = c.pacer.Wait(ctx)
		record := c.scrapePage(ctx, cand, timeout, cfg)
		result.Pages = append(result.Pages, record)
	}

	result.Intelligence = summarize(result.Pages, nil)

	slog.Info("crawl run finished",
		"root", rootURL,
		"attempted", result.Intelligence.Scraping.PagesAttempted,
		"succeeded", result.Intelligence.Scraping.PagesSucceeded,
		"quality", result.Intelligence.Pages.ContentQualityScore,
	)
	return result, nil
}

// discoverURLs merges sitemap and link-graph discovery. The sitemap is
// preferred; homepage links only top up when the sitemap leaves the run
// short of the page cap. Dedup is by exact URL string — no canonicalization
// beyond what the Normalizer already did.
//
// Each source's set is flattened in lexicographic order so two runs against
// an unchanged site select the same pages even when scores tie at the cap.
func (c *Crawler) discoverURLs(ctx context.Context, rootURL string, maxPages int) []string {
	set := c.DiscoverSitemap(ctx, rootURL)

	urls := make([]string, 0, len(set))
	for u := range set {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	if len(urls) < maxPages {
		budget := c.cfg.LinkBudget
		if budget <= 0 {
			budget = 30
		}
		var linked []string
		for u := range c.DiscoverLinks(ctx, rootURL, budget) {
			if _, ok := set[u]; !ok {
				set[u] = struct{}{}
				linked = append(linked, u)
			}
		}
		sort.Strings(linked)
		urls = append(urls, linked...)
	}

	return urls
}

// scrapePage fetches and extracts one page. Failures are never fatal: they
// produce a failed PageRecord carrying the error text.
func (c *Crawler) scrapePage(ctx context.Context, cand models.DiscoveredURL, timeout time.Duration, cfg models.ScrapeConfig) models.PageRecord {
	record := models.PageRecord{
		URL:       cand.URL,
		Type:      cand.PageType,
		Images:    []models.ImageRef{},
		ScrapedAt: time.Now().UTC(),
	}

	body, err := c.fetchGated(ctx, cand.URL, timeout)
	if err != nil {
		record.ErrorMessage = err.Error()
		return record
	}

	text, err := extractor.ExtractText(body, cand.URL)
	if err != nil {
		record.ErrorMessage = err.Error()
		return record
	}

	record.Text = text
	record.TextLength = len(text)
	record.Success = true

	if cfg.CollectImages() {
		images, err := extractor.ExtractImages(body, cand.URL, cand.PageType, extractor.ImageFilter{
			MinDimension: c.cfg.MinImageDimension,
			MaxPerPage:   cfg.MaxImagesPerPage,
		})
		if err == nil {
			record.Images = images
		} else {
			slog.Debug("image extraction failed", "url", cand.URL, "error", err)
		}
	}

	return record
}

// summarize derives the intelligence summary from the page records.
// succeeded + failed always equals attempted; the quality score is computed
// over succeeded pages only, and a run with no successes is flagged as a
// global analysis failure.
func summarize(pages []models.PageRecord, runErrors []string) models.IntelligenceSummary {
	summary := models.IntelligenceSummary{Errors: runErrors}

	attempted := len(pages)
	succeeded := 0
	totalText := 0
	totalImages := 0
	var texts []string
	typesSeen := map[models.PageType]bool{}

	for _, p := range pages {
		if !p.Success {
			continue
		}
		succeeded++
		totalText += p.TextLength
		totalImages += len(p.Images)
		texts = append(texts, p.Text)
		typesSeen[p.Type] = true
	}
	failed := attempted - succeeded

	summary.Scraping = models.ScrapingMetrics{
		PagesAttempted: attempted,
		PagesSucceeded: succeeded,
		PagesFailed:    failed,
	}
	if attempted > 0 {
		summary.Scraping.SuccessRate = round2(float64(succeeded) / float64(attempted))
	}

	summary.Content = models.ContentMetrics{
		TotalTextLength:    totalText,
		TotalImages:        totalImages,
		NearDuplicatePages: simhash.CountNearDuplicates(texts, nearDuplicateThreshold),
	}
	if succeeded > 0 {
		summary.Content.AvgTextLength = round2(float64(totalText) / float64(succeeded))
		summary.Content.AvgImagesPerPage = round2(float64(totalImages) / float64(succeeded))
	}

	var typesFound []models.PageType
	for _, t := range []models.PageType{
		models.PageTypeHome, models.PageTypeAbout, models.PageTypeServices,
		models.PageTypeContact, models.PageTypeOther, models.PageTypeUnknown,
	} {
		if typesSeen[t] {
			typesFound = append(typesFound, t)
		}
	}

	summary.Pages = models.PageAnalysis{
		PageTypesFound: typesFound,
		KeyPagesPresent: models.KeyPages{
			HasHome:     typesSeen[models.PageTypeHome],
			HasAbout:    typesSeen[models.PageTypeAbout],
			HasServices: typesSeen[models.PageTypeServices],
			HasContact:  typesSeen[models.PageTypeContact],
		},
	}

	if succeeded == 0 {
		summary.AnalysisFailed = true
		return summary
	}

	summary.Pages.ContentQualityScore = qualityScore(summary, succeeded, attempted)
	return summary
}

// qualityScore is a weighted sum over succeeded pages: text richness (0-0.4),
// image presence (0-0.2), key-page coverage (0-0.3) and success rate (0-0.1),
// clamped to [0,1].
func qualityScore(s models.IntelligenceSummary, succeeded, attempted int) float64 {
	score := 0.0

	switch avg := s.Content.AvgTextLength; {
	case avg > 5000:
		score += 0.4
	case avg > 2000:
		score += 0.3
	case avg > 500:
		score += 0.2
	case avg > 100:
		score += 0.1
	}

	switch avg := s.Content.AvgImagesPerPage; {
	case avg > 5:
		score += 0.2
	case avg > 2:
		score += 0.1
	case avg > 0:
		score += 0.05
	}

	covered := 0
	kp := s.Pages.KeyPagesPresent
	for _, present := range []bool{kp.HasHome, kp.HasAbout, kp.HasServices, kp.HasContact} {
		if present {
			covered++
		}
	}
	score += 0.3 * float64(covered) / float64(len(models.KeyPageTypes))

	score += 0.1 * float64(succeeded) / float64(attempted)

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return round2(score)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
