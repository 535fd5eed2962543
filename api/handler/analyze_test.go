package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risklens/sitesignal/config"
	"github.com/risklens/sitesignal/crawler"
	"github.com/risklens/sitesignal/models"
)

func testCrawler() *crawler.Crawler {
	return crawler.New(config.CrawlerConfig{
		PerPageTimeout: 2 * time.Second,
		ProbeTimeout:   time.Second,
		RobotsTimeout:  time.Second,
		SitemapTimeout: time.Second,
		FetchRPS:       1000,
	})
}

func TestAnalyze_RejectsMissingURL(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/analyze", Analyze(testCrawler(), nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, models.ErrCodeInvalidInput, resp.Error.Code)
}

func TestAnalyze_RejectsMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/analyze", Analyze(testCrawler(), nil))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader(`{not json`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAnalyzeJob_NotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/analyze/:id", GetAnalyzeJob())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/analyze/job-does-not-exist", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAnalyzeAsync_CreatesJob(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/analyze/async", AnalyzeAsync(testCrawler()))
	r.GET("/analyze/:id", GetAnalyzeJob())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/analyze/async",
		strings.NewReader(`{"url":"definitely-not-reachable.invalid"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	var job models.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &job))
	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "processing", job.Status)

	// The job is queryable immediately, whatever state it has reached.
	w2 := httptest.NewRecorder()
	req2 := httptest.NewRequest(http.MethodGet, "/analyze/"+job.ID, nil)
	r.ServeHTTP(w2, req2)
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{models.ErrCodeInvalidInput, http.StatusBadRequest},
		{models.ErrCodeInvalidURL, http.StatusBadRequest},
		{models.ErrCodeRobotsDisallowed, http.StatusForbidden},
		{models.ErrCodeFetch, http.StatusBadGateway},
		{models.ErrCodeTimeout, http.StatusGatewayTimeout},
		{models.ErrCodeRateLimited, http.StatusTooManyRequests},
		{models.ErrCodeUnauthorized, http.StatusUnauthorized},
		{models.ErrCodeInternal, http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			e := models.NewCrawlError(tt.code, "boom", nil)
			assert.Equal(t, tt.want, mapErrorToStatus(e))
		})
	}
}
