package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/risklens/sitesignal/crawler"
	"github.com/risklens/sitesignal/extractor"
	"github.com/risklens/sitesignal/models"
)

// Page returns a handler for POST /api/v1/page: fetch a single URL and
// extract its content as cleaned text or Markdown, with optional image
// metadata. No discovery or classification happens here.
func Page(cr *crawler.Crawler, imgFilter extractor.ImageFilter) gin.HandlerFunc {
	mdConverter := extractor.NewMarkdownConverter()

	return func(c *gin.Context) {
		totalStart := time.Now()

		var req models.PageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.PageResponse{
				Success: false,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		finalURL, body, err := cr.FetchPage(c.Request.Context(), req.URL, time.Duration(req.Timeout)*time.Second)
		if err != nil {
			crawlErr, ok := err.(*models.CrawlError)
			if !ok {
				crawlErr = models.NewCrawlError(models.ErrCodeInternal, err.Error(), err)
			}
			c.JSON(mapErrorToStatus(crawlErr), models.PageResponse{
				Success:    false,
				URL:        req.URL,
				Error:      crawlErr.ToDetail(),
				DurationMs: time.Since(totalStart).Milliseconds(),
			})
			return
		}

		var content string
		switch req.OutputFormat {
		case "markdown":
			content, err = extractor.ToMarkdown(mdConverter, string(body), crawler.Domain(finalURL))
		default:
			content, err = extractor.ExtractText(body, finalURL)
		}
		if err != nil {
			crawlErr := models.NewCrawlError(models.ErrCodeParse, "content extraction failed", err)
			c.JSON(mapErrorToStatus(crawlErr), models.PageResponse{
				Success:    false,
				URL:        finalURL,
				Error:      crawlErr.ToDetail(),
				DurationMs: time.Since(totalStart).Milliseconds(),
			})
			return
		}

		resp := models.PageResponse{
			Success:    true,
			URL:        finalURL,
			Title:      extractor.ExtractTitle(body),
			Content:    content,
			DurationMs: time.Since(totalStart).Milliseconds(),
		}

		if *req.IncludeImages {
			pageType := crawler.ClassifyURL(finalURL)
			images, imgErr := extractor.ExtractImages(body, finalURL, pageType, imgFilter)
			if imgErr == nil {
				resp.Images = images
			}
		}

		c.JSON(http.StatusOK, resp)
	}
}
