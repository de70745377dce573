package scraper

import (
	"context"
	"time"
)

// Queryable is the read side shared by whole pages and element subtrees.
// Search-result extraction runs the same cascade scoped to a single item box,
// so the cascade only ever sees this interface.
type Queryable interface {
	// Element returns the first match for the CSS selector without waiting.
	Element(selector string) (Element, bool)
	// Elements returns every match for the selector in document order.
	Elements(selector string) []Element
}

// Element is a single node of rendered page content.
type Element interface {
	Queryable

	// Text returns the element's visible text, empty on failure.
	Text() string
	// Attribute returns the named attribute value, false when absent.
	Attribute(name string) (string, bool)
}

// Page is queryable rendered content for one URL. Callers must Close it on
// every exit path; closing releases the underlying tab or buffer.
type Page interface {
	Queryable

	// WaitFor blocks until the selector matches or the timeout elapses.
	WaitFor(selector string, timeout time.Duration) error
	Close() error
}

// Fetcher produces queryable page content for a URL. Implementations map
// their transport failures to ConnectivityError, TimeoutError or
// RemoteStatusError so the service can tell "unreachable" from "unparseable".
type Fetcher interface {
	Open(ctx context.Context, url string) (Page, error)
	Close() error
}
