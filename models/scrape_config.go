package models

// ScrapeConfig is the caller-supplied configuration for one crawl run.
// It is treated as immutable once the run starts.
type ScrapeConfig struct {
	// MaxPages caps how many pages are selected for extraction.
	// Default: 10. Values below 1 fall back to the default.
	MaxPages int `json:"max_pages,omitempty" binding:"omitempty,min=1,max=50"`

	// IncludeImages toggles image metadata collection. Default: true.
	IncludeImages *bool `json:"include_images,omitempty"`

	// Timeout is the per-page fetch timeout in seconds. Default: 30.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// PageTypes is the accepted page-type set. Pages classified outside this
	// set are dropped before prioritization truncates to MaxPages.
	// Default: about, services, contact, home, other.
	PageTypes []PageType `json:"page_types,omitempty"`

	// MaxImagesPerPage caps images collected from one page. Default: 10.
	MaxImagesPerPage int `json:"max_images_per_page,omitempty" binding:"omitempty,min=1,max=50"`
}

// Defaults applies default values to unset fields and enforces the
// MaxPages >= 1 invariant.
func (c *ScrapeConfig) Defaults() {
	if c.MaxPages < 1 {
		c.MaxPages = 10
	}
	if c.IncludeImages == nil {
		t := true
		c.IncludeImages = &t
	}
	if c.Timeout == 0 {
		c.Timeout = 30
	}
	if len(c.PageTypes) == 0 {
		c.PageTypes = append([]PageType(nil), DefaultPageTypes...)
	}
	if c.MaxImagesPerPage == 0 {
		c.MaxImagesPerPage = 10
	}
}

// Accepts reports whether the given page type is in the accepted set.
func (c *ScrapeConfig) Accepts(pt PageType) bool {
	for _, t := range c.PageTypes {
		if t == pt {
			return true
		}
	}
	return false
}

// CollectImages reports whether image collection is enabled.
func (c *ScrapeConfig) CollectImages() bool {
	return c.IncludeImages == nil || *c.IncludeImages
}
