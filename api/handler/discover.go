package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/risklens/sitesignal/crawler"
	"github.com/risklens/sitesignal/models"
)

// Discover returns a handler for POST /api/v1/discover.
//
// It runs the discovery pipeline only (normalize, probe, sitemap, links,
// classify, prioritize) without extracting any page content.
func Discover(cr *crawler.Crawler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.DiscoverRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.DiscoverResponse{
				Success: false,
				URLs:    []models.DiscoveredURL{},
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		if req.MaxPages == 0 {
			req.MaxPages = 10
		}

		rootURL, urls, err := cr.Discover(c.Request.Context(), req.URL, req.MaxPages)
		if err != nil {
			crawlErr, ok := err.(*models.CrawlError)
			if !ok {
				crawlErr = models.NewCrawlError(models.ErrCodeInternal, err.Error(), err)
			}
			c.JSON(mapErrorToStatus(crawlErr), models.DiscoverResponse{
				Success: false,
				URLs:    []models.DiscoveredURL{},
				Error:   crawlErr.ToDetail(),
			})
			return
		}

		c.JSON(http.StatusOK, models.DiscoverResponse{
			Success: true,
			Domain:  crawler.Domain(rootURL),
			URLs:    urls,
			Total:   len(urls),
		})
	}
}
