package scraper

import (
	"fmt"
	"strings"
)

// UnsupportedSiteError is returned when a URL or site tag does not match any
// known site. The message names the supported sites so the user can correct
// the request.
type UnsupportedSiteError struct {
	URL  string
	Site string
}

func (e *UnsupportedSiteError) Error() string {
	target := e.URL
	if target == "" {
		target = e.Site
	}
	return fmt.Sprintf("unsupported e-shop %q, currently supported sites: %s",
		target, strings.Join(SupportedSites(), ", "))
}

// PageLoadError signals that the page rendered but its structural anchor
// (the product heading) never appeared within the wait bound. Usually the
// markup changed or the product was removed.
type PageLoadError struct {
	Site Site
}

func (e *PageLoadError) Error() string {
	return fmt.Sprintf("the %s product page did not load correctly: the page structure may have changed or the product is no longer available, please verify the URL and try again", e.Site)
}

// PriceNotFoundError signals that the product name was found but no price
// candidate selector yielded a value.
type PriceNotFoundError struct {
	Site Site
}

func (e *PriceNotFoundError) Error() string {
	return fmt.Sprintf("unable to find the product price on %s: the page layout may have changed or the product might not be available", e.Site)
}

// SearchUnavailableError signals that the search results container never
// appeared within the wait bound.
type SearchUnavailableError struct {
	Site Site
}

func (e *SearchUnavailableError) Error() string {
	return fmt.Sprintf("unable to search %s: the website layout may have changed or the search is taking too long", e.Site)
}

// ConnectivityError wraps a transport failure reaching the site.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach %s: check your internet connection or try again later, the website might be temporarily unavailable", e.URL)
}

func (e *ConnectivityError) Unwrap() error { return e.Err }

// TimeoutError signals that the site did not respond within the navigation
// bound.
type TimeoutError struct {
	URL string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s is taking too long to respond, please try again in a few moments", e.URL)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// RemoteStatusError signals a non-2xx HTTP response from the site.
type RemoteStatusError struct {
	URL        string
	StatusCode int
}

func (e *RemoteStatusError) Error() string {
	return fmt.Sprintf("unable to load %s: HTTP %d", e.URL, e.StatusCode)
}
