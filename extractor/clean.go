package extractor

import (
	"bytes"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// maxTextLength hard-caps cleaned page text; longer text is truncated with
// a marker so downstream consumers can tell it was cut.
const maxTextLength = 10000

// truncationMarker is appended when text is cut at maxTextLength.
const truncationMarker = "..."

var (
	reWhitespace = regexp.MustCompile(`\s+`)

	// Repeated table-separator rows ("| --- | --- |") left behind by
	// markdown-ish markup.
	reSeparatorRow = regexp.MustCompile(`(?m)^\s*\|[\s|:-]*\|\s*$`)

	// Consent-banner boilerplate ("Cookies help us ... Accept").
	reCookieNotice = regexp.MustCompile(`(?i)cookie.{0,200}?accept`)

	// Noscript warnings ("JavaScript must be enabled").
	reJSWarning = regexp.MustCompile(`(?i)javascript.{0,100}?enabled`)
)

// CleanText normalizes extracted page text: collapses whitespace, strips
// separator rows and consent/JS boilerplate, and enforces the length cap.
func CleanText(text string) string {
	if text == "" {
		return ""
	}

	text = reSeparatorRow.ReplaceAllString(text, "")
	text = reCookieNotice.ReplaceAllString(text, "")
	text = reJSWarning.ReplaceAllString(text, "")
	text = reWhitespace.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	if len(text) > maxTextLength {
		text = text[:maxTextLength] + truncationMarker
	}

	return text
}

// ExtractTitle extracts the <title> content from raw HTML bytes using the
// streaming tokenizer, avoiding a full DOM parse.
func ExtractTitle(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}
