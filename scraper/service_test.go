package scraper

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pricescout/config"
)

// fakeFetcher records every opened URL and serves a canned page or error.
type fakeFetcher struct {
	opens []string
	page  Page
	err   error
}

func (f *fakeFetcher) Open(_ context.Context, rawURL string) (Page, error) {
	f.opens = append(f.opens, rawURL)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeFetcher) Close() error { return nil }

func newTestService(f *fakeFetcher, offline bool) *Service {
	cfg := &config.ScraperConfig{
		Timeout:     time.Second,
		OfflineMode: offline,
	}
	return NewService(f, cfg, zerolog.Nop())
}

func TestFetchProductDetailsUnsupportedSite(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := newTestService(fetcher, false)

	_, err := svc.FetchProductDetails(context.Background(), "https://www.amazon.com/dp/B0001")
	var unsupported *UnsupportedSiteError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, err.Error(), "alza, smarty, allegro")
	assert.Empty(t, fetcher.opens, "unsupported URLs must not hit the network")
}

func TestFetchProductDetailsSuccess(t *testing.T) {
	page := &fakePage{fakeElement: fakeElement{children: map[string][]*fakeElement{
		"h1":                {{text: "Bezdrátová myš"}},
		".price-box__price": {{text: "1 234,56 Kč"}},
	}}}
	fetcher := &fakeFetcher{page: page}
	svc := newTestService(fetcher, false)

	rec, err := svc.FetchProductDetails(context.Background(), "https://www.alza.cz/mys-d1.htm")
	require.NoError(t, err)
	assert.Equal(t, "Bezdrátová myš", rec.Name)
	assert.InDelta(t, 1234.56, rec.Price, 0.001)
	assert.False(t, rec.Synthetic)
	assert.True(t, page.closed, "the page must be closed after extraction")
}

func TestFetchProductDetailsOfflineFallback(t *testing.T) {
	fetcher := &fakeFetcher{err: &ConnectivityError{URL: "https://www.alza.cz/mys-d1.htm", Err: errors.New("refused")}}
	svc := newTestService(fetcher, true)

	rec, err := svc.FetchProductDetails(context.Background(), "https://www.alza.cz/mys-d1.htm")
	require.NoError(t, err)
	assert.True(t, rec.Synthetic)
	assert.Contains(t, rec.Name, "mys-d1.htm")
}

func TestFetchProductDetailsOfflineDoesNotMaskTimeouts(t *testing.T) {
	fetcher := &fakeFetcher{err: &TimeoutError{URL: "https://www.alza.cz/mys-d1.htm"}}
	svc := newTestService(fetcher, true)

	_, err := svc.FetchProductDetails(context.Background(), "https://www.alza.cz/mys-d1.htm")
	var timeout *TimeoutError
	assert.ErrorAs(t, err, &timeout)
}

func TestFetchProductDetailsConnectivityPropagatesWhenOnline(t *testing.T) {
	fetcher := &fakeFetcher{err: &ConnectivityError{URL: "https://www.alza.cz/x", Err: errors.New("refused")}}
	svc := newTestService(fetcher, false)

	_, err := svc.FetchProductDetails(context.Background(), "https://www.alza.cz/x")
	var connect *ConnectivityError
	assert.ErrorAs(t, err, &connect)
}

func TestSearchSiteUnknownTag(t *testing.T) {
	svc := newTestService(&fakeFetcher{}, false)

	_, err := svc.SearchSite(context.Background(), "ebay", "mouse", 5)
	var unsupported *UnsupportedSiteError
	assert.ErrorAs(t, err, &unsupported)
}

func TestSearchSiteZeroLimitSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := newTestService(fetcher, false)

	results, err := svc.SearchSite(context.Background(), "alza", "mouse", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, fetcher.opens)
}

func TestSearchSiteNegativeLimitSkipsFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	svc := newTestService(fetcher, false)

	results, err := svc.SearchSite(context.Background(), "alza", "mouse", -1)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Empty(t, fetcher.opens)
}

func TestSearchSiteBuildsEscapedSearchURL(t *testing.T) {
	fetcher := &fakeFetcher{err: &ConnectivityError{Err: errors.New("offline")}}
	svc := newTestService(fetcher, true)

	_, err := svc.SearchSite(context.Background(), "alza", "wireless mouse", 5)
	require.NoError(t, err)
	require.Len(t, fetcher.opens, 1)
	assert.Equal(t, "https://www.alza.cz/search.htm?extext=wireless+mouse", fetcher.opens[0])
}

func TestSearchSiteOfflineFallback(t *testing.T) {
	fetcher := &fakeFetcher{err: &ConnectivityError{Err: errors.New("offline")}}
	svc := newTestService(fetcher, true)

	results, err := svc.SearchSite(context.Background(), "smarty", "notebook", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.Synthetic)
		assert.Contains(t, r.Name, "notebook")
	}
}

func TestSearchSiteExtractsResults(t *testing.T) {
	boxes := []*fakeElement{
		resultBox("Mouse A", "https://www.alza.cz/a", "599 Kč"),
		resultBox("Mouse B", "https://www.alza.cz/b", "899 Kč"),
	}
	page := &fakePage{fakeElement: fakeElement{children: map[string][]*fakeElement{
		".box.browsingitem, .browsingitem": boxes,
	}}}
	fetcher := &fakeFetcher{page: page}
	svc := newTestService(fetcher, false)

	results, err := svc.SearchSite(context.Background(), "alza", "mouse", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Mouse A", results[0].Name)
	assert.True(t, page.closed)
}
