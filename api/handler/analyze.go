package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/risklens/sitesignal/cache"
	"github.com/risklens/sitesignal/crawler"
	"github.com/risklens/sitesignal/models"
	"github.com/risklens/sitesignal/webhook"
)

// jobStore holds all in-flight and completed async analyze jobs.
var jobStore sync.Map

func init() {
	// Background goroutine to expire jobs older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			jobStore.Range(func(key, value any) bool {
				job := value.(*models.AnalyzeJob)
				if job.CreatedAt < cutoff {
					jobStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// Analyze returns a handler for POST /api/v1/analyze.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup when max_age is set.
//  3. Crawler.ScrapeBusiness → full site result.
//  4. Cache store, return 200.
func Analyze(cr *crawler.Crawler, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.AnalyzeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Config.Defaults()

		// Cache lookup.
		var cacheKey string
		if cc != nil && req.MaxAge > 0 {
			cacheKey = cache.Key(req.URL, req.Config)
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				c.JSON(http.StatusOK, models.AnalyzeResponse{
					Success:     true,
					Result:      cached,
					CacheStatus: "hit",
					DurationMs:  time.Since(totalStart).Milliseconds(),
				})
				return
			}
		}

		result, err := cr.ScrapeBusiness(c.Request.Context(), req.URL, req.Config)
		if err != nil {
			respondError(c, err, time.Since(totalStart).Milliseconds())
			return
		}

		resp := models.AnalyzeResponse{
			Success:    true,
			Result:     result,
			DurationMs: time.Since(totalStart).Milliseconds(),
		}
		if cacheKey != "" {
			cc.Set(cacheKey, result)
			resp.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// AnalyzeAsync returns a handler for POST /api/v1/analyze/async.
// It validates the request, registers a job, and runs the crawl in the
// background. An optional webhook is notified when the job finishes.
func AnalyzeAsync(cr *crawler.Crawler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.AnalyzeResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Config.Defaults()

		jobID := "job-" + randomID()
		job := &models.AnalyzeJob{
			ID:            jobID,
			Status:        "processing",
			CreatedAt:     time.Now().Unix(),
			WebhookURL:    req.WebhookURL,
			WebhookSecret: req.WebhookSecret,
		}
		jobStore.Store(jobID, job)

		go runAnalyzeJob(cr, job, req)

		c.JSON(http.StatusAccepted, models.JobResponse{
			ID:     jobID,
			Status: "processing",
		})
	}
}

// GetAnalyzeJob returns a handler for GET /api/v1/analyze/:id.
func GetAnalyzeJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		val, ok := jobStore.Load(jobID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "analyze job not found",
				},
			})
			return
		}

		job := val.(*models.AnalyzeJob)
		c.JSON(http.StatusOK, models.JobStatusResponse{
			ID:     job.ID,
			Status: job.Status,
			Result: job.Result,
			Error:  job.Error,
		})
	}
}

// runAnalyzeJob performs the crawl for an async job and fires the webhook.
func runAnalyzeJob(cr *crawler.Crawler, job *models.AnalyzeJob, req models.AnalyzeRequest) {
	result, err := cr.ScrapeBusiness(context.Background(), req.URL, req.Config)
	if err != nil {
		crawlErr, ok := err.(*models.CrawlError)
		if !ok {
			crawlErr = models.NewCrawlError(models.ErrCodeInternal, err.Error(), err)
		}
		job.Error = crawlErr.ToDetail()
		job.Status = "failed"

		slog.Warn("analyze job failed", "id", job.ID, "url", req.URL, "error", err)

		if job.WebhookURL != "" {
			webhook.DeliverAsync(job.WebhookURL, job.WebhookSecret, &webhook.Event{
				Type:      "analyze.failed",
				JobID:     job.ID,
				Timestamp: time.Now().Unix(),
				Data:      gin.H{"error": job.Error},
			})
		}
		return
	}

	job.Result = result
	job.Status = "completed"

	slog.Info("analyze job finished",
		"id", job.ID,
		"url", result.RootURL,
		"pages", len(result.Pages),
	)

	if job.WebhookURL != "" {
		webhook.DeliverAsync(job.WebhookURL, job.WebhookSecret, &webhook.Event{
			Type:      "analyze.completed",
			JobID:     job.ID,
			Timestamp: time.Now().Unix(),
			Data:      result,
		})
	}
}

// respondError maps a CrawlError to the correct HTTP status code and writes
// a structured JSON error response.
func respondError(c *gin.Context, err error, durationMs int64) {
	crawlErr, ok := err.(*models.CrawlError)
	if !ok {
		crawlErr = models.NewCrawlError(models.ErrCodeInternal, err.Error(), err)
	}

	c.JSON(mapErrorToStatus(crawlErr), models.AnalyzeResponse{
		Success:    false,
		Error:      crawlErr.ToDetail(),
		DurationMs: durationMs,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.CrawlError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeInvalidURL:
		return http.StatusBadRequest // 400
	case models.ErrCodeRobotsDisallowed:
		return http.StatusForbidden // 403
	case models.ErrCodeFetch:
		return http.StatusBadGateway // 502
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
