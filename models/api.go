package models

// AnalyzeRequest is the payload for POST /api/v1/analyze and
// POST /api/v1/analyze/async.
type AnalyzeRequest struct {
	// URL is the free-text site address. Required. The crawler normalizes
	// it, so bare domains like "example.com" are accepted.
	URL string `json:"url" binding:"required"`

	// Config carries the per-run crawl settings.
	Config ScrapeConfig `json:"config"`

	// MaxAge enables the in-memory result cache: a cached result younger
	// than MaxAge milliseconds is returned instead of re-crawling.
	MaxAge int `json:"max_age,omitempty"`

	// WebhookURL, if set on an async request, receives the finished result.
	WebhookURL string `json:"webhook_url,omitempty" binding:"omitempty,url"`

	// WebhookSecret signs the webhook payload when non-empty.
	WebhookSecret string `json:"webhook_secret,omitempty"`
}

// AnalyzeResponse is the synchronous response for POST /api/v1/analyze.
type AnalyzeResponse struct {
	Success bool `json:"success"`

	// Result is the aggregate crawl output.
	Result *SiteResult `json:"result,omitempty"`

	// CacheStatus is "hit" or "miss" when caching was requested.
	CacheStatus string `json:"cache_status,omitempty"`

	// DurationMs is the end-to-end run duration.
	DurationMs int64 `json:"duration_ms"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// JobResponse is the immediate response for POST /api/v1/analyze/async.
type JobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// JobStatusResponse is the response for GET /api/v1/analyze/:id.
type JobStatusResponse struct {
	ID     string       `json:"id"`
	Status string       `json:"status"`
	Result *SiteResult  `json:"result,omitempty"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// AnalyzeJob tracks an in-progress async analyze operation.
type AnalyzeJob struct {
	ID            string
	Status        string // "processing", "completed", "failed"
	Result        *SiteResult
	Error         *ErrorDetail
	CreatedAt     int64 // unix timestamp
	WebhookURL    string
	WebhookSecret string
}

// DiscoverRequest is the payload for POST /api/v1/discover.
type DiscoverRequest struct {
	// URL is the free-text site address. Required.
	URL string `json:"url" binding:"required"`

	// MaxPages caps the prioritized URL list. Default: 10.
	MaxPages int `json:"max_pages,omitempty" binding:"omitempty,min=1,max=50"`
}

// DiscoveredURL is one entry in a discover response, carrying the
// classification and priority the crawler assigned.
type DiscoveredURL struct {
	URL      string   `json:"url"`
	PageType PageType `json:"page_type"`
	Priority int      `json:"priority"`
}

// DiscoverResponse is the response for POST /api/v1/discover.
type DiscoverResponse struct {
	Success bool            `json:"success"`
	Domain  string          `json:"domain,omitempty"`
	URLs    []DiscoveredURL `json:"urls"`
	Total   int             `json:"total"`
	Error   *ErrorDetail    `json:"error,omitempty"`
}

// PageRequest is the payload for POST /api/v1/page.
type PageRequest struct {
	// URL is the page to extract. Required.
	URL string `json:"url" binding:"required,url"`

	// OutputFormat controls the content format.
	// Allowed: "text" (default), "markdown".
	OutputFormat string `json:"output_format,omitempty" binding:"omitempty,oneof=text markdown"`

	// IncludeImages toggles image metadata in the response. Default: true.
	IncludeImages *bool `json:"include_images,omitempty"`

	// Timeout is the fetch timeout in seconds. Default: 30.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`
}

// Defaults applies default values to unset fields.
func (r *PageRequest) Defaults() {
	if r.OutputFormat == "" {
		r.OutputFormat = "text"
	}
	if r.IncludeImages == nil {
		t := true
		r.IncludeImages = &t
	}
	if r.Timeout == 0 {
		r.Timeout = 30
	}
}

// PageResponse is the response for POST /api/v1/page.
type PageResponse struct {
	Success bool `json:"success"`

	// URL is the page URL after normalization.
	URL string `json:"url"`

	// Title is the page title, when one could be extracted.
	Title string `json:"title,omitempty"`

	// Content is the extracted content in the requested format.
	Content string `json:"content"`

	// Images holds filtered image metadata, when requested.
	Images []ImageRef `json:"images,omitempty"`

	// DurationMs is the end-to-end operation duration.
	DurationMs int64 `json:"duration_ms"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string `json:"status"` // "healthy"
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}
