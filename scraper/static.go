package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"pricescout/config"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// StaticFetcher retrieves pages over plain HTTP and parses them with goquery.
// The supported sites render prices server-side, so this backend covers most
// product pages without the weight of a browser. WaitFor on a static page is
// an immediate presence check since the document cannot change after parse.
type StaticFetcher struct {
	client *http.Client
	log    zerolog.Logger
}

// NewStaticFetcher creates an HTTP-backed fetcher with browser-like headers.
func NewStaticFetcher(cfg *config.ScraperConfig, log zerolog.Logger) *StaticFetcher {
	return &StaticFetcher{
		client: &http.Client{Timeout: cfg.NavigationTimeout},
		log:    log,
	}
}

// Open fetches and parses the page at the URL.
func (f *StaticFetcher) Open(ctx context.Context, rawURL string) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &ConnectivityError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			return nil, &TimeoutError{URL: rawURL, Err: err}
		}
		return nil, &ConnectivityError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RemoteStatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, &ConnectivityError{URL: rawURL, Err: fmt.Errorf("read page body: %w", err)}
	}

	return &staticPage{doc: doc}, nil
}

// Close releases pooled connections.
func (f *StaticFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

type staticPage struct {
	doc *goquery.Document
}

func (p *staticPage) WaitFor(selector string, _ time.Duration) error {
	if p.doc.Find(selector).Length() == 0 {
		return fmt.Errorf("selector %q not present", selector)
	}
	return nil
}

func (p *staticPage) Element(selector string) (Element, bool) {
	sel := p.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &staticElement{sel: sel}, true
}

func (p *staticPage) Elements(selector string) []Element {
	var out []Element
	p.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		out = append(out, &staticElement{sel: sel})
	})
	return out
}

func (p *staticPage) Close() error { return nil }

type staticElement struct {
	sel *goquery.Selection
}

func (e *staticElement) Element(selector string) (Element, bool) {
	sel := e.sel.Find(selector).First()
	if sel.Length() == 0 {
		return nil, false
	}
	return &staticElement{sel: sel}, true
}

func (e *staticElement) Elements(selector string) []Element {
	var out []Element
	e.sel.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		out = append(out, &staticElement{sel: sel})
	})
	return out
}

func (e *staticElement) Text() string {
	return e.sel.Text()
}

func (e *staticElement) Attribute(name string) (string, bool) {
	return e.sel.Attr(name)
}
