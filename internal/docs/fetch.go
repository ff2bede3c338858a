package docs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"rdatasets/internal/logging"

	"github.com/gocolly/colly/v2"
)

// DefaultUserAgent identifies documentation requests.
const DefaultUserAgent = "rdata/1.0 (+https://vincentarelbundock.github.io/Rdatasets)"

// ParseError marks a page that was fetched but could not be read.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// PageFetcher is what the browser needs from a documentation source.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*Page, error)
}

// Fetcher downloads documentation pages with a colly collector.
type Fetcher struct {
	Timeout   time.Duration
	UserAgent string
}

// NewFetcher returns a Fetcher with the given request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{Timeout: timeout, UserAgent: DefaultUserAgent}
}

// Fetch GETs url and parses it. Transport and HTTP status failures are
// returned as-is; failures reading the body come back as *ParseError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	log := logging.Get(logging.CategoryDocs).With("url", url)
	start := time.Now()

	opts := []colly.CollectorOption{colly.StdlibContext(ctx)}
	if f.UserAgent != "" {
		opts = append(opts, colly.UserAgent(f.UserAgent))
	}
	c := colly.NewCollector(opts...)
	if f.Timeout > 0 {
		c.SetRequestTimeout(f.Timeout)
	}

	var (
		page     *Page
		parseErr error
		fetchErr error
	)
	c.OnResponse(func(r *colly.Response) {
		page, parseErr = Parse(bytes.NewReader(r.Body), url)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			fetchErr = fmt.Errorf("HTTP %d: %w", r.StatusCode, err)
			return
		}
		fetchErr = err
	})

	if err := c.Visit(url); err != nil && fetchErr == nil {
		fetchErr = err
	}
	if fetchErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(fetchErr, ctxErr) {
			fetchErr = fmt.Errorf("%w: %v", ctxErr, fetchErr)
		}
		log.Warn("fetch failed after %s: %v", time.Since(start), fetchErr)
		return nil, fetchErr
	}
	if parseErr != nil {
		log.Warn("parse failed: %v", parseErr)
		return nil, &ParseError{Err: parseErr}
	}
	if page == nil {
		return nil, errors.New("empty response")
	}

	logging.Docs("fetched %q in %s (%d variables)", page.Title, time.Since(start), len(page.Variables))
	return page, nil
}

// RenderText fetches url and returns its plain-text rendering. Failures are
// rendered as messages instead of returned.
func RenderText(ctx context.Context, f PageFetcher, url string, maxChars int) string {
	page, err := f.Fetch(ctx, url)
	if err != nil {
		return ErrorText(err, url)
	}
	return page.Text(maxChars)
}

// RenderMarkdown is RenderText for the full-screen browser.
func RenderMarkdown(ctx context.Context, f PageFetcher, url string, maxChars int) string {
	page, err := f.Fetch(ctx, url)
	if err != nil {
		return ErrorText(err, url)
	}
	return page.Markdown(maxChars)
}

// ErrorText formats a Fetch failure for display.
func ErrorText(err error, url string) string {
	var pe *ParseError
	if errors.As(err, &pe) {
		return fmt.Sprintf("Error parsing documentation: %v\nURL: %s", pe.Err, url)
	}
	return fmt.Sprintf("Error fetching documentation: %v\nURL: %s", err, url)
}
