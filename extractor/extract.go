package extractor

import (
	"bytes"
	"fmt"
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// minFragmentLength drops stray fragments (single menu words, icons glyphs)
// below this many characters.
const minFragmentLength = 10

// minStructuralLength is the minimum structural-pass output length before the
// readability fallback kicks in.
const minStructuralLength = 50

// textBearingSelector matches the elements whose text makes up page content.
const textBearingSelector = "h1, h2, h3, h4, h5, h6, p, li, td, blockquote"

// ExtractText pulls the business-relevant text from one page's markup.
//
// Structural pass: boilerplate containers (script/style/noscript/nav/footer/
// header) are removed, then text-bearing elements are collected — from inside
// semantic main/article/section containers when the page has them, otherwise
// from the whole body. Fragments shorter than minFragmentLength are dropped.
//
// When the structural pass yields almost nothing (heavily div-based markup),
// the Mozilla Readability algorithm is tried as a fallback before giving up.
func ExtractText(body []byte, sourceURL string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("extractor: parse html: %w", err)
	}

	doc.Find("script, style, noscript, nav, footer, header").Remove()

	scope := doc.Selection
	if semantic := doc.Find("main, article, section"); semantic.Length() > 0 {
		scope = semantic
	}

	var fragments []string
	seen := make(map[string]struct{})
	scope.Find(textBearingSelector).Each(func(_ int, s *goquery.Selection) {
		// Skip elements that contain other text-bearing elements so nested
		// markup is not collected twice.
		if s.Find(textBearingSelector).Length() > 0 {
			return
		}
		text := strings.TrimSpace(s.Text())
		if len(text) < minFragmentLength {
			return
		}
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		fragments = append(fragments, text)
	})

	text := CleanText(strings.Join(fragments, " "))
	if len(text) >= minStructuralLength {
		return text, nil
	}

	// Fallback: readability handles pages built entirely from divs.
	if fallback := readabilityText(body, sourceURL); len(fallback) > len(text) {
		return fallback, nil
	}

	return text, nil
}

// readabilityText runs go-readability and returns the cleaned plain text,
// or "" when extraction fails.
func readabilityText(body []byte, sourceURL string) string {
	parsed, err := nurl.Parse(sourceURL)
	if err != nil {
		return ""
	}

	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		slog.Debug("extractor: readability fallback failed", "url", sourceURL, "error", err)
		return ""
	}

	return CleanText(article.TextContent)
}
