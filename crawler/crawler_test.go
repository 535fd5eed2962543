package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risklens/sitesignal/models"
)

// newBusinessSite builds a small fake business site: home, about, services
// with real content, a contact page that always errors, and a sitemap
// listing all of them.
func newBusinessSite(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	page := func(title, text string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `<html><head><title>%s</title></head><body><main><h1>%s</h1><p>%s</p></main></body></html>`, title, title, text)
		}
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		page("Acme Plumbing", "Family owned plumbing company serving the metro area since 1990 with licensed technicians.")(w, r)
	})
	mux.HandleFunc("/about", page("About", "Our story began in a small garage and we now employ forty certified plumbing professionals."))
	mux.HandleFunc("/services", page("Services", "Drain cleaning, water heater installation, pipe repair and full bathroom remodels for any budget."))
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "temporary outage", http.StatusInternalServerError)
	})

	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<urlset>
  <url><loc>%s/about</loc></url>
  <url><loc>%s/services</loc></url>
  <url><loc>%s/contact</loc></url>
</urlset>`, srv.URL, srv.URL, srv.URL)
	})

	return srv
}

func TestScrapeBusiness_AggregatesSite(t *testing.T) {
	srv := newBusinessSite(t)

	result, err := newTestCrawler().ScrapeBusiness(context.Background(), srv.URL, models.ScrapeConfig{})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, srv.URL, result.RootURL)
	require.Len(t, result.Pages, 4) // home + 3 sitemap entries

	scraping := result.Intelligence.Scraping
	assert.Equal(t, 4, scraping.PagesAttempted)
	assert.Equal(t, 3, scraping.PagesSucceeded)
	assert.Equal(t, 1, scraping.PagesFailed)
	assert.Equal(t, scraping.PagesAttempted, scraping.PagesSucceeded+scraping.PagesFailed)
	assert.InDelta(t, 0.75, scraping.SuccessRate, 0.001)

	kp := result.Intelligence.Pages.KeyPagesPresent
	assert.True(t, kp.HasHome)
	assert.True(t, kp.HasAbout)
	assert.True(t, kp.HasServices)
	// The contact page failed, so it never counts as present.
	assert.False(t, kp.HasContact)

	assert.False(t, result.Intelligence.AnalysisFailed)
	assert.Greater(t, result.Intelligence.Pages.ContentQualityScore, 0.0)
	assert.Greater(t, result.Intelligence.Content.TotalTextLength, 0)
}

func TestScrapeBusiness_FailedPageRecord(t *testing.T) {
	srv := newBusinessSite(t)

	result, err := newTestCrawler().ScrapeBusiness(context.Background(), srv.URL, models.ScrapeConfig{})
	require.NoError(t, err)

	var contactRecord *models.PageRecord
	for i := range result.Pages {
		if result.Pages[i].URL == srv.URL+"/contact" {
			contactRecord = &result.Pages[i]
		}
	}
	require.NotNil(t, contactRecord, "failed page must still produce a record")
	assert.False(t, contactRecord.Success)
	assert.NotEmpty(t, contactRecord.ErrorMessage)
	assert.Empty(t, contactRecord.Text)
}

func TestScrapeBusiness_AllPagesFail(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	// HEAD probes succeed so the site looks reachable, but every GET errors.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		http.Error(w, "down", http.StatusInternalServerError)
	})

	result, err := newTestCrawler().ScrapeBusiness(context.Background(), srv.URL, models.ScrapeConfig{})
	require.NoError(t, err)

	assert.True(t, result.Intelligence.AnalysisFailed)
	assert.Equal(t, 0, result.Intelligence.Scraping.PagesSucceeded)
	assert.Equal(t, 0.0, result.Intelligence.Pages.ContentQualityScore)
}

func TestScrapeBusiness_InvalidInput(t *testing.T) {
	_, err := newTestCrawler().ScrapeBusiness(context.Background(), "   ", models.ScrapeConfig{})
	require.Error(t, err)

	crawlErr, ok := err.(*models.CrawlError)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeInvalidInput, crawlErr.Code)
}

func TestScrapeBusiness_MaxPagesCap(t *testing.T) {
	srv := newBusinessSite(t)

	result, err := newTestCrawler().ScrapeBusiness(context.Background(), srv.URL, models.ScrapeConfig{MaxPages: 2})
	require.NoError(t, err)
	assert.Len(t, result.Pages, 2)
}

func TestScrapeBusiness_HomepageSurvivesCap(t *testing.T) {
	srv := newBusinessSite(t)

	// about/services/contact all outscore the homepage, so a cap equal to
	// the sitemap size would squeeze it out if it weren't pinned.
	result, err := newTestCrawler().ScrapeBusiness(context.Background(), srv.URL, models.ScrapeConfig{MaxPages: 3})
	require.NoError(t, err)
	require.Len(t, result.Pages, 3)

	assert.Equal(t, srv.URL, result.Pages[0].URL)
	assert.Equal(t, models.PageTypeHome, result.Pages[0].Type)
	assert.True(t, result.Intelligence.Pages.KeyPagesPresent.HasHome)
}

func TestScrapeBusiness_PageTypeFilter(t *testing.T) {
	srv := newBusinessSite(t)

	cfg := models.ScrapeConfig{PageTypes: []models.PageType{models.PageTypeHome, models.PageTypeAbout}}
	result, err := newTestCrawler().ScrapeBusiness(context.Background(), srv.URL, cfg)
	require.NoError(t, err)

	for _, p := range result.Pages {
		assert.Contains(t, []models.PageType{models.PageTypeHome, models.PageTypeAbout}, p.Type)
	}
}

func TestScrapeBusiness_RespectsRobots(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><main><p>Public homepage content that is long enough to matter here.</p></main></body></html>`)
	})
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<urlset><url><loc>%s/private/internal</loc></url></urlset>`, srv.URL)
	})

	result, err := newTestCrawler().ScrapeBusiness(context.Background(), srv.URL, models.ScrapeConfig{})
	require.NoError(t, err)

	for _, p := range result.Pages {
		if p.URL == srv.URL+"/private/internal" {
			assert.False(t, p.Success)
			assert.Contains(t, p.ErrorMessage, "robots")
		}
	}
}

func TestDiscover_ReturnsPrioritizedList(t *testing.T) {
	srv := newBusinessSite(t)

	rootURL, urls, err := newTestCrawler().Discover(context.Background(), srv.URL, 10)
	require.NoError(t, err)
	assert.Equal(t, srv.URL, rootURL)
	require.NotEmpty(t, urls)

	assert.Equal(t, rootURL, urls[0].URL)
	assert.Equal(t, models.PageTypeHome, urls[0].PageType)

	// After the pinned homepage the list is sorted by descending priority.
	for i := 2; i < len(urls); i++ {
		assert.GreaterOrEqual(t, urls[i-1].Priority, urls[i].Priority)
	}
}

func TestDiscover_StableAcrossRuns(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {})
	// Thirty pages that all score identically, far more than the cap, so
	// the selection at the cut line is decided purely by ordering.
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<urlset>")
		for i := 1; i <= 30; i++ {
			fmt.Fprintf(w, "<url><loc>%s/p%02d</loc></url>", srv.URL, i)
		}
		fmt.Fprint(w, "</urlset>")
	})

	cr := newTestCrawler()
	_, first, err := cr.Discover(context.Background(), srv.URL, 5)
	require.NoError(t, err)
	_, second, err := cr.Discover(context.Background(), srv.URL, 5)
	require.NoError(t, err)

	require.Len(t, first, 5)
	require.Len(t, second, 5)
	for i := range first {
		assert.Equal(t, first[i].URL, second[i].URL)
	}
}

func TestSummarize_EmptyRun(t *testing.T) {
	summary := summarize(nil, []string{"no pages discovered"})
	assert.True(t, summary.AnalysisFailed)
	assert.Equal(t, 0, summary.Scraping.PagesAttempted)
	assert.Equal(t, 0.0, summary.Pages.ContentQualityScore)
	assert.Equal(t, []string{"no pages discovered"}, summary.Errors)
}

func TestQualityScore_Bands(t *testing.T) {
	rich := models.IntelligenceSummary{
		Content: models.ContentMetrics{AvgTextLength: 6000, AvgImagesPerPage: 6},
		Pages: models.PageAnalysis{KeyPagesPresent: models.KeyPages{
			HasHome: true, HasAbout: true, HasServices: true, HasContact: true,
		}},
	}
	assert.Equal(t, 1.0, qualityScore(rich, 4, 4))

	sparse := models.IntelligenceSummary{
		Content: models.ContentMetrics{AvgTextLength: 50},
	}
	// Only the success-rate component contributes.
	assert.InDelta(t, 0.1, qualityScore(sparse, 2, 2), 0.001)
}
