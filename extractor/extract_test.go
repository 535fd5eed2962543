package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_StripsBoilerplateContainers(t *testing.T) {
	body := []byte(`<html><body>
		<nav><a href="/">Home</a><a href="/about">About Our Company</a></nav>
		<header><p>Site-wide header banner with promotional text</p></header>
		<main>
			<h1>Acme Plumbing Services</h1>
			<p>We have served the metro area for over thirty years with honest pricing.</p>
		</main>
		<footer><p>Copyright 2024 Acme Plumbing, all rights reserved worldwide.</p></footer>
		<script>console.log("tracking code that should never appear");</script>
	</body></html>`)

	text, err := ExtractText(body, "https://www.acmeplumbing.com/")
	require.NoError(t, err)

	assert.Contains(t, text, "Acme Plumbing Services")
	assert.Contains(t, text, "honest pricing")
	assert.NotContains(t, text, "Copyright 2024")
	assert.NotContains(t, text, "header banner")
	assert.NotContains(t, text, "tracking code")
}

func TestExtractText_ScopesToSemanticContainers(t *testing.T) {
	body := []byte(`<html><body>
		<div><p>Sidebar widget text that lives outside any semantic container.</p></div>
		<article>
			<h2>Our Story Since 1990</h2>
			<p>Founded in a garage, we now employ forty certified technicians.</p>
		</article>
	</body></html>`)

	text, err := ExtractText(body, "https://www.acmeplumbing.com/about")
	require.NoError(t, err)

	assert.Contains(t, text, "Our Story Since 1990")
	assert.Contains(t, text, "certified technicians")
	assert.NotContains(t, text, "Sidebar widget")
}

func TestExtractText_DropsShortFragments(t *testing.T) {
	body := []byte(`<html><body><main>
		<p>Menu</p>
		<p>This paragraph is long enough to survive the fragment filter.</p>
	</main></body></html>`)

	text, err := ExtractText(body, "https://example.com/")
	require.NoError(t, err)

	assert.NotContains(t, text, "Menu")
	assert.Contains(t, text, "fragment filter")
}

func TestExtractText_DeduplicatesRepeatedFragments(t *testing.T) {
	body := []byte(`<html><body><main>
		<p>Call us today for a free estimate on any job.</p>
		<p>Call us today for a free estimate on any job.</p>
		<p>We also offer emergency weekend service at no extra charge.</p>
	</main></body></html>`)

	text, err := ExtractText(body, "https://example.com/")
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(text, "Call us today for a free estimate on any job."))
}

func TestExtractText_SkipsNestedTextBearingElements(t *testing.T) {
	body := []byte(`<html><body><main>
		<li>Outer item wrapping <p>an inner paragraph with plenty of words to pass the structural threshold</p></li>
	</main></body></html>`)

	text, err := ExtractText(body, "https://example.com/")
	require.NoError(t, err)

	// Collected from the inner element only, so the text appears once.
	assert.Equal(t, 1, strings.Count(text, "inner paragraph"))
}
