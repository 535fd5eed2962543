package models

import "time"

// SiteResult is the aggregate output of one crawl run. It is always
// well-formed: a run that fails before any page is processed still yields a
// SiteResult with zero pages and the failure recorded in the summary.
type SiteResult struct {
	// RootURL is the URL supplied by the caller, post-normalization.
	RootURL string `json:"root_url"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// Pages is the ordered list of per-page records, in extraction order.
	Pages []PageRecord `json:"pages"`

	// Intelligence is the derived summary over Pages.
	Intelligence IntelligenceSummary `json:"business_intelligence"`
}

// IntelligenceSummary is the derived business-content summary for one run.
type IntelligenceSummary struct {
	Scraping ScrapingMetrics `json:"scraping_metrics"`
	Content  ContentMetrics  `json:"content_metrics"`
	Pages    PageAnalysis    `json:"page_analysis"`

	// Errors lists run-level failures (discovery errors, invalid variants).
	// Per-page errors live on their PageRecord instead.
	Errors []string `json:"errors,omitempty"`

	// AnalysisFailed is true when no page succeeded.
	AnalysisFailed bool `json:"analysis_failed"`
}

// ScrapingMetrics counts fetch outcomes. PagesSucceeded + PagesFailed is
// always PagesAttempted.
type ScrapingMetrics struct {
	PagesAttempted int     `json:"pages_attempted"`
	PagesSucceeded int     `json:"pages_succeeded"`
	PagesFailed    int     `json:"pages_failed"`
	SuccessRate    float64 `json:"success_rate"`
}

// ContentMetrics totals extracted content over succeeded pages.
type ContentMetrics struct {
	TotalTextLength  int     `json:"total_text_length"`
	TotalImages      int     `json:"total_images"`
	AvgTextLength    float64 `json:"avg_text_length"`
	AvgImagesPerPage float64 `json:"avg_images_per_page"`

	// NearDuplicatePages counts succeeded pages whose text fingerprint is
	// within a small Hamming distance of an earlier page's.
	NearDuplicatePages int `json:"near_duplicate_pages"`
}

// PageAnalysis describes page-type coverage and overall content quality.
type PageAnalysis struct {
	PageTypesFound []PageType `json:"page_types_found"`

	KeyPagesPresent KeyPages `json:"key_pages_present"`

	// ContentQualityScore is a [0,1] composite of text richness, image
	// presence, key-page coverage and success rate, computed over
	// succeeded pages only.
	ContentQualityScore float64 `json:"content_quality_score"`
}

// KeyPages flags which of the minimal business page set were scraped
// successfully.
type KeyPages struct {
	HasHome     bool `json:"has_home"`
	HasAbout    bool `json:"has_about"`
	HasServices bool `json:"has_services"`
	HasContact  bool `json:"has_contact"`
}
