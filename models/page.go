package models

import "time"

// PageType labels a discovered URL by its semantic role on a business site.
type PageType string

const (
	PageTypeHome     PageType = "home"
	PageTypeAbout    PageType = "about"
	PageTypeServices PageType = "services"
	PageTypeContact  PageType = "contact"
	PageTypeOther    PageType = "other"
	PageTypeUnknown  PageType = "unknown"
)

// KeyPageTypes are the page types considered for business-content
// completeness in the intelligence summary.
var KeyPageTypes = []PageType{PageTypeHome, PageTypeAbout, PageTypeServices, PageTypeContact}

// DefaultPageTypes is the accepted page-type set when the caller leaves it unset.
var DefaultPageTypes = []PageType{PageTypeAbout, PageTypeServices, PageTypeContact, PageTypeHome, PageTypeOther}

// ImageRef is extracted image metadata from one page.
type ImageRef struct {
	// URL is the absolute image URL after resolving against the page.
	URL string `json:"url"`

	// Alt is the trimmed alt text, if any.
	Alt string `json:"alt_text,omitempty"`

	// Title is the trimmed title attribute, if any.
	Title string `json:"title,omitempty"`

	// Width and Height are the declared dimensions in pixels; 0 means the
	// attribute was absent or unparseable.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// SourcePage is the URL of the page the image was found on.
	SourcePage string `json:"source_page"`

	// SourcePageType is the classified type of the source page.
	SourcePageType PageType `json:"source_page_type"`

	// RelevanceScore is assigned by the downstream visual-analysis pass.
	// The crawler always leaves it zero; it is carried as an extension point.
	RelevanceScore float64 `json:"relevance_score"`
}

// PageRecord is the immutable result of scraping one page. Records are built
// once and appended to the SiteResult; they are never mutated afterwards.
type PageRecord struct {
	// URL is the canonical post-normalization page URL.
	URL string `json:"url"`

	// Type is the classified page type.
	Type PageType `json:"page_type"`

	// Text is the cleaned extracted text. Empty when Success is false.
	Text string `json:"text"`

	// TextLength is always len(Text).
	TextLength int `json:"text_length"`

	// Images holds filtered image metadata. Empty when Success is false
	// or image collection was disabled.
	Images []ImageRef `json:"images"`

	// ScrapedAt is when the fetch for this page started.
	ScrapedAt time.Time `json:"scraped_at"`

	// Success reports whether fetch and extraction completed.
	Success bool `json:"scrape_success"`

	// ErrorMessage describes the failure when Success is false.
	ErrorMessage string `json:"error_message,omitempty"`
}
