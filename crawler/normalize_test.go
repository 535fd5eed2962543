package crawler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/risklens/sitesignal/models"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain", "example.com", "https://www.example.com"},
		{"bare domain with path", "example.com/about", "https://www.example.com/about"},
		{"already www", "www.example.com", "https://www.example.com"},
		{"subdomain untouched", "shop.example.com", "https://shop.example.com"},
		{"scheme preserved", "http://example.com", "http://www.example.com"},
		{"https preserved", "https://example.com/contact", "https://www.example.com/contact"},
		{"whitespace trimmed", "  example.com  ", "https://www.example.com"},
		{"query preserved", "example.com/search?q=plumbing", "https://www.example.com/search?q=plumbing"},
		{"port preserved", "example.com:8443/x", "https://www.example.com:8443/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURL_Empty(t *testing.T) {
	_, err := NormalizeURL("   ")
	require.Error(t, err)

	crawlErr, ok := err.(*models.CrawlError)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeInvalidInput, crawlErr.Code)
}

func TestValidateURL(t *testing.T) {
	assert.NoError(t, ValidateURL("https://www.example.com"))
	assert.NoError(t, ValidateURL("http://example.com/path"))
	assert.Error(t, ValidateURL("ftp://example.com"))
	assert.Error(t, ValidateURL("https://"))
}

func TestDomain(t *testing.T) {
	assert.Equal(t, "example.com", Domain("https://www.example.com/about"))
	assert.Equal(t, "shop.example.com", Domain("https://shop.example.com"))
	assert.Equal(t, "example.com", Domain("http://example.com:8080/x"))
}

func TestProbeVariants(t *testing.T) {
	variants := probeVariants("https://www.example.com")
	require.Len(t, variants, 3)
	assert.Equal(t, "https://www.example.com", variants[0])
	assert.Equal(t, "https://example.com", variants[1])
	assert.Equal(t, "http://www.example.com", variants[2])

	variants = probeVariants("http://sub.example.com/x")
	require.Len(t, variants, 2)
	assert.Equal(t, "http://sub.example.com/x", variants[0])
	assert.Equal(t, "http://www.sub.example.com/x", variants[1])
}
