package crawler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscoverLinks_SameOriginContentOnly(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<a href="/about">About us</a>
			<a href="%s/services">Services</a>
			<a href="https://www.facebook.com/acme">Facebook</a>
			<a href="/cart">Cart</a>
			<a href="/files/brochure.pdf">Brochure</a>
			<a href="/privacy">Privacy policy</a>
			<a href="#section">Jump</a>
			<a href="mailto:info@acme.com">Email us</a>
			<a href="javascript:void(0)">Widget</a>
			<a href="/contact#form">Contact</a>
		</body></html>`, srv.URL)
	})

	links := newTestCrawler().DiscoverLinks(context.Background(), srv.URL+"/", 30)

	assert.Contains(t, links, srv.URL+"/about")
	assert.Contains(t, links, srv.URL+"/services")
	// Fragment stripped before dedup.
	assert.Contains(t, links, srv.URL+"/contact")

	assert.NotContains(t, links, "https://www.facebook.com/acme")
	assert.NotContains(t, links, srv.URL+"/cart")
	assert.NotContains(t, links, srv.URL+"/files/brochure.pdf")
	assert.NotContains(t, links, srv.URL+"/privacy")
	assert.Len(t, links, 3)
}

func TestDiscoverLinks_DenyListMatchesLinkText(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/p/9917342">Terms and conditions</a>
			<a href="/p/4410233">Our services</a>
		</body></html>`)
	})

	links := newTestCrawler().DiscoverLinks(context.Background(), srv.URL+"/", 30)
	assert.NotContains(t, links, srv.URL+"/p/9917342")
	assert.Contains(t, links, srv.URL+"/p/4410233")
}

func TestDiscoverLinks_BudgetCap(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>")
		for i := 0; i < 20; i++ {
			fmt.Fprintf(w, `<a href="/page-%d">Page %d content</a>`, i, i)
		}
		fmt.Fprint(w, "</body></html>")
	})

	links := newTestCrawler().DiscoverLinks(context.Background(), srv.URL+"/", 5)
	assert.Len(t, links, 5)
}

func TestDiscoverLinks_UnreachableHomepage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	links := newTestCrawler().DiscoverLinks(context.Background(), srv.URL+"/", 30)
	assert.Empty(t, links)
}

func TestDiscoverLinks_OverlongURLDropped(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		long := "/x"
		for len(long) < 250 {
			long += "/segment"
		}
		fmt.Fprintf(w, `<html><body><a href="%s">Deep link with session junk</a><a href="/about">About</a></body></html>`, long)
	})

	links := newTestCrawler().DiscoverLinks(context.Background(), srv.URL+"/", 30)
	require.Len(t, links, 1)
	assert.Contains(t, links, srv.URL+"/about")
}
