package scraper

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/rs/zerolog"

	"pricescout/config"
)

// stealthScript trims the obvious automation fingerprints sites key on.
const stealthScript = `
	Object.defineProperty(navigator, 'webdriver', {
		get: () => undefined,
	});
	Object.defineProperty(navigator, 'languages', {
		get: () => ['en-US', 'en'],
	});
	window.chrome = { runtime: {} };
`

// Browser is a rod-backed fetcher for sites that render prices client-side.
// The browser instance is owned by whoever constructed it and must be closed;
// each Open call gets its own tab.
type Browser struct {
	browser *rod.Browser
	cfg     *config.ScraperConfig
	log     zerolog.Logger
}

// NewBrowser launches a headless browser. Uses the system Chromium when one
// is installed (the Docker image ships one), auto-detects otherwise.
func NewBrowser(cfg *config.ScraperConfig, log zerolog.Logger) (*Browser, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(true).
		Leakless(false)

	if _, err := os.Stat("/usr/bin/chromium-browser"); err == nil {
		l = l.Bin("/usr/bin/chromium-browser")
		log.Info().Msg("using system chromium")
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	log.Info().Str("control_url", controlURL).Msg("browser connected")
	return &Browser{browser: browser, cfg: cfg, log: log}, nil
}

// Open navigates a fresh tab to the URL and waits for the load event.
// The tab is released when the returned page is closed.
func (b *Browser) Open(ctx context.Context, rawURL string) (Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, &ConnectivityError{URL: rawURL, Err: err}
	}
	page = page.Context(ctx)

	if _, err := page.EvalOnNewDocument(stealthScript); err != nil {
		b.log.Debug().Err(err).Msg("stealth script injection failed")
	}

	nav := page.Timeout(b.cfg.NavigationTimeout)
	if err := nav.Navigate(rawURL); err != nil {
		_ = page.Close()
		return nil, classifyNavError(rawURL, err)
	}
	if err := nav.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, classifyNavError(rawURL, err)
	}

	return &rodPage{page: page}, nil
}

// Close shuts the browser down, closing any tabs still open.
func (b *Browser) Close() error {
	return b.browser.Close()
}

// classifyNavError separates "took too long" from "could not connect" so the
// service can apply its fallback policy per error kind.
func classifyNavError(rawURL string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{URL: rawURL, Err: err}
	}
	return &ConnectivityError{URL: rawURL, Err: err}
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) WaitFor(selector string, timeout time.Duration) error {
	_, err := p.page.Timeout(timeout).Element(selector)
	return err
}

func (p *rodPage) Element(selector string) (Element, bool) {
	has, el, err := p.page.Has(selector)
	if err != nil || !has {
		return nil, false
	}
	return &rodElement{el: el}, true
}

func (p *rodPage) Elements(selector string) []Element {
	els, err := p.page.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out
}

func (p *rodPage) Close() error {
	return p.page.Close()
}

type rodElement struct {
	el *rod.Element
}

func (e *rodElement) Element(selector string) (Element, bool) {
	has, el, err := e.el.Has(selector)
	if err != nil || !has {
		return nil, false
	}
	return &rodElement{el: el}, true
}

func (e *rodElement) Elements(selector string) []Element {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil
	}
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, &rodElement{el: el})
	}
	return out
}

func (e *rodElement) Text() string {
	text, err := e.el.Text()
	if err != nil {
		return ""
	}
	return text
}

func (e *rodElement) Attribute(name string) (string, bool) {
	value, err := e.el.Attribute(name)
	if err != nil || value == nil {
		return "", false
	}
	return *value, true
}
