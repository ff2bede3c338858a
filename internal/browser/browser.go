// Package browser pages through a filtered dataset index and shows
// documentation and downloads for individual rows.
//
// The navigation rules live in Transition, a pure function over State.
// RunLines drives it from a line reader; RunTUI drives it from a
// bubbletea program.
package browser

import (
	"context"
	"path/filepath"

	"rdatasets/internal/docs"
	"rdatasets/internal/download"
	"rdatasets/internal/index"
	"rdatasets/internal/logging"
)

// Downloader saves a CSV URL to a local path.
type Downloader interface {
	Fetch(ctx context.Context, url, dest string) (int64, error)
}

// Options configures a Browser.
type Options struct {
	// PageSize is rows per table page; zero uses DefaultPageSize.
	PageSize int

	// Width is the terminal width; zero when unknown.
	Width int

	// MaxWidth caps the table width; zero leaves titles at their
	// default cut.
	MaxWidth int

	// MaxChars is the documentation budget; zero uses docs.DefaultMaxChars.
	MaxChars int

	// DownloadDir receives CSV files; empty means the working directory.
	DownloadDir string

	// ClearScreen enables ANSI clears in the line shell.
	ClearScreen bool

	// DocStyle is the glamour style name; empty selects by background.
	DocStyle string
}

// Browser owns one result set and the services used while browsing it.
type Browser struct {
	idx  *index.Index
	docs docs.PageFetcher
	dl   Downloader
	opts Options
}

// New returns a Browser over idx.
func New(idx *index.Index, fetcher docs.PageFetcher, dl Downloader, opts Options) *Browser {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = docs.DefaultMaxChars
	}
	return &Browser{idx: idx, docs: fetcher, dl: dl, opts: opts}
}

// Start returns the initial state.
func (b *Browser) Start() State {
	return NewState(b.idx.Len(), b.opts.PageSize)
}

// row returns the 1-based result row n.
func (b *Browser) row(n int) index.Row {
	return b.idx.Row(n - 1)
}

func (b *Browser) pageRows(s State) []index.Row {
	start, end := s.Bounds()
	return b.idx.Slice(start, end)
}

func (b *Browser) destination(r index.Row) (file, path string) {
	file = download.Filename(r.Package, r.Item)
	return file, filepath.Join(b.opts.DownloadDir, file)
}

// separatorWidth is the terminal width capped at 80.
func (b *Browser) separatorWidth() int {
	if b.opts.Width <= 0 || b.opts.Width > 80 {
		return 80
	}
	return b.opts.Width
}

// download runs a confirmed download and returns the outcome line.
func (b *Browser) download(ctx context.Context, n int) string {
	r := b.row(n)
	file, dest := b.destination(r)
	size, err := b.dl.Fetch(ctx, r.CSV, dest)
	if err == nil {
		logging.Download("saved %s as %s (%d bytes)", r.Name(), dest, size)
	}
	return download.Outcome(file, err)
}
