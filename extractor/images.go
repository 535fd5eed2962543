package extractor

import (
	"bytes"
	"fmt"
	nurl "net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/risklens/sitesignal/models"
)

// reDecorative matches alt text or source paths of decorative and tracking
// images that carry no business signal.
var reDecorative = regexp.MustCompile(`(?i)logo|icon|favicon|pixel|tracker|spacer|button|bullet|1x1`)

// ImageFilter holds the tunable thresholds for image collection.
type ImageFilter struct {
	// MinDimension rejects images declaring a smaller width or height.
	// Images without declared dimensions pass; this mirrors the original
	// permissive behaviour and is deliberately tunable.
	MinDimension int

	// MaxPerPage caps how many images are collected from one page.
	MaxPerPage int
}

// ExtractImages scans img elements, resolves sources against the page URL
// and returns filtered image metadata tagged with the originating page.
func ExtractImages(body []byte, pageURL string, pageType models.PageType, filter ImageFilter) ([]models.ImageRef, error) {
	base, err := nurl.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("extractor: parse page url: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("extractor: parse html: %w", err)
	}

	images := []models.ImageRef{}
	seen := make(map[string]struct{})

	doc.Find("img[src]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if filter.MaxPerPage > 0 && len(images) >= filter.MaxPerPage {
			return false
		}

		src, _ := s.Attr("src")
		if src == "" {
			return true
		}

		resolved, err := base.Parse(src)
		if err != nil || resolved.Scheme == "data" {
			return true
		}
		absURL := resolved.String()
		if _, ok := seen[absURL]; ok {
			return true
		}
		seen[absURL] = struct{}{}

		alt := strings.TrimSpace(s.AttrOr("alt", ""))
		title := strings.TrimSpace(s.AttrOr("title", ""))
		width := dimension(s, "width")
		height := dimension(s, "height")

		if !keepImage(absURL, alt, width, height, filter.MinDimension) {
			return true
		}

		images = append(images, models.ImageRef{
			URL:            absURL,
			Alt:            alt,
			Title:          title,
			Width:          width,
			Height:         height,
			SourcePage:     pageURL,
			SourcePageType: pageType,
		})
		return true
	})

	return images, nil
}

// keepImage rejects decorative/tracking images and images declared smaller
// than minDim in either dimension. A dimension of 0 means "not declared"
// and never causes rejection.
func keepImage(src, alt string, width, height, minDim int) bool {
	if reDecorative.MatchString(alt) || reDecorative.MatchString(src) {
		return false
	}
	if minDim > 0 {
		if width > 0 && width < minDim {
			return false
		}
		if height > 0 && height < minDim {
			return false
		}
	}
	return true
}

// dimension parses a width/height attribute as a positive integer,
// tolerating a trailing "px". Returns 0 for anything else.
func dimension(s *goquery.Selection, attr string) int {
	raw := strings.TrimSpace(s.AttrOr(attr, ""))
	raw = strings.TrimSuffix(raw, "px")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
