// Package fetcher retrieves source markup from a live page so it can be
// migrated without saving it first.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// Fetcher abstracts page fetching strategies.
type Fetcher interface {
	// Fetch retrieves page content from a URL.
	Fetch(ctx context.Context, url string, opts Options) (Content, error)

	// Type returns a string identifying the fetcher type.
	Type() string
}

// Options controls fetching behavior.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string

	// Selector, if set, narrows the returned markup to the inner HTML of
	// the first element matching this CSS selector.
	Selector string
}

// Content represents fetched page data.
type Content struct {
	URL         string
	HTML        string
	Title       string
	StatusCode  int
	ContentType string
	FetchedAt   time.Time
}

// ErrSelectorNotFound is returned when Options.Selector matches nothing.
var ErrSelectorNotFound = errors.New("selector matched no element")
