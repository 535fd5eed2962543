package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/risklens/sitesignal/api/handler"
	"github.com/risklens/sitesignal/api/middleware"
	"github.com/risklens/sitesignal/cache"
	"github.com/risklens/sitesignal/config"
	"github.com/risklens/sitesignal/crawler"
	"github.com/risklens/sitesignal/extractor"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(cr *crawler.Crawler, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	imgFilter := extractor.ImageFilter{
		MinDimension: cfg.Crawler.MinImageDimension,
		MaxPerPage:   cfg.Crawler.MaxImagesPerPage,
	}

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Full site analysis
	protected.POST("/analyze", handler.Analyze(cr, cc))
	protected.POST("/analyze/async", handler.AnalyzeAsync(cr))
	protected.GET("/analyze/:id", handler.GetAnalyzeJob())

	// URL discovery only
	protected.POST("/discover", handler.Discover(cr))

	// Single-page extraction
	protected.POST("/page", handler.Page(cr, imgFilter))

	return r
}
