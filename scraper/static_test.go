package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricescout/config"
)

const productHTML = `<!doctype html>
<html><body>
  <h1>Bezdrátová myš Logitech</h1>
  <div class="price-box__price">1 234,56 Kč</div>
  <div class="price-box__old-price">1 499 Kč</div>
</body></html>`

const searchHTML = `<!doctype html>
<html><body>
  <div class="browsingitem">
    <a class="name" href="/produkt-1">Myš A</a>
    <span class="price">599 Kč</span>
  </div>
  <div class="browsingitem">
    <a class="name" href="https://www.alza.cz/produkt-2">Myš B</a>
    <span class="price">899 Kč</span>
    <del>999 Kč</del>
  </div>
</body></html>`

func newTestStaticFetcher() *StaticFetcher {
	cfg := &config.ScraperConfig{NavigationTimeout: 5 * time.Second}
	return NewStaticFetcher(cfg, zerolog.Nop())
}

func TestStaticFetcherProductPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productHTML))
	}))
	defer server.Close()

	fetcher := newTestStaticFetcher()
	page, err := fetcher.Open(context.Background(), server.URL)
	require.NoError(t, err)
	defer page.Close()

	rec, err := extractProduct(page, profiles[SiteAlza], time.Second)
	require.NoError(t, err)
	assert.Equal(t, "Bezdrátová myš Logitech", rec.Name)
	assert.InDelta(t, 1234.56, rec.Price, 0.001)
	assert.True(t, rec.IsOnSale)
	require.NotNil(t, rec.OriginalPrice)
	assert.InDelta(t, 1499.0, *rec.OriginalPrice, 0.001)
}

func TestStaticFetcherSearchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchHTML))
	}))
	defer server.Close()

	fetcher := newTestStaticFetcher()
	page, err := fetcher.Open(context.Background(), server.URL)
	require.NoError(t, err)
	defer page.Close()

	results, err := extractResults(page, profiles[SiteAlza], 10, time.Second)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "Myš A", results[0].Name)
	assert.Equal(t, "https://www.alza.cz/produkt-1", results[0].ProductURL)
	assert.False(t, results[0].IsOnSale)

	assert.Equal(t, "Myš B", results[1].Name)
	assert.True(t, results[1].IsOnSale)
	require.NotNil(t, results[1].OriginalPrice)
	assert.InDelta(t, 999.0, *results[1].OriginalPrice, 0.001)
}

func TestStaticFetcherRemoteStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	fetcher := newTestStaticFetcher()
	_, err := fetcher.Open(context.Background(), server.URL)
	var statusErr *RemoteStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestStaticFetcherConnectivity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	fetcher := newTestStaticFetcher()
	_, err := fetcher.Open(context.Background(), url)
	var connectErr *ConnectivityError
	assert.ErrorAs(t, err, &connectErr)
}

func TestStaticPageWaitForIsPresenceCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(productHTML))
	}))
	defer server.Close()

	fetcher := newTestStaticFetcher()
	page, err := fetcher.Open(context.Background(), server.URL)
	require.NoError(t, err)
	defer page.Close()

	assert.NoError(t, page.WaitFor("h1", time.Second))
	assert.Error(t, page.WaitFor(".does-not-exist", time.Second))
}
