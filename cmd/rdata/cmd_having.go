package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"rdatasets/internal/browser"
	"rdatasets/internal/docs"
	"rdatasets/internal/download"
	"rdatasets/internal/filter"
	"rdatasets/internal/index"
	"rdatasets/internal/logging"
	"rdatasets/internal/store"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const msgNoMatches = "No datasets found matching the specified criteria."

// refresh drops the cached index before loading
var refresh bool

// havingCmd filters the index and browses the matches
var havingCmd = &cobra.Command{
	Use:   "having FILTER...",
	Short: "Filter R datasets by data types and size criteria",
	Long: `Filter R datasets by data types and size criteria.

All filters must match. A filter is either a data type name (binary,
character, factor, logical, numeric), selecting datasets with at least one
column of that type, or a comparison on rows or cols.`,
	Example: `  rdata having binary
  rdata having "rows > 100"
  rdata having binary "rows > 100" numeric
  rdata having "cols == 5" character`,
	Args: func(cmd *cobra.Command, args []string) error {
		if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	},
	RunE: runHaving,
}

func runHaving(cmd *cobra.Command, args []string) error {
	preds, err := filter.Parse(args...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idx, err := loadIndex(ctx)
	if err != nil {
		return unexpectedError{err}
	}

	logging.Index("index holds %d datasets", idx.Len())
	result := filter.Select(idx, preds)
	logging.Filter("%d of %d datasets match %q", result.Len(), idx.Len(), args)

	out := cmd.OutOrStdout()
	if result.Len() == 0 {
		fmt.Fprintln(out, msgNoMatches)
		return nil
	}
	if err := index.Summarize(result).Write(out); err != nil {
		return unexpectedError{err}
	}

	if err := browse(ctx, result, cmd.InOrStdin(), out); err != nil {
		return unexpectedError{err}
	}
	return nil
}

func loadIndex(ctx context.Context) (*index.Index, error) {
	loader := index.NewLoader(cfg.Index.URL, cfg.IndexTimeout())
	loader.UserAgent = cfg.Docs.UserAgent

	if cfg.Index.CachePath != "" {
		st, err := store.Open(cfg.Index.CachePath)
		if err != nil {
			logging.Get(logging.CategoryStore).Warn("index cache disabled: %v", err)
		} else {
			defer st.Close()
			if refresh {
				n, err := st.Purge(ctx)
				if err != nil {
					return nil, fmt.Errorf("failed to refresh index cache %s: %w", st.Path(), err)
				}
				logging.Store("purged %d cached index entries from %s", n, st.Path())
			}
			loader.Cache = st
			loader.TTL = cfg.CacheTTL()
		}
	}

	return loader.Load(ctx)
}

func browse(ctx context.Context, result *index.Index, in io.Reader, out io.Writer) error {
	fetcher := docs.NewFetcher(cfg.DocsTimeout())
	fetcher.UserAgent = cfg.Docs.UserAgent
	dl := download.NewClient(cfg.DownloadTimeout())
	dl.UserAgent = cfg.Docs.UserAgent

	width, height, sized := terminalSize(out)
	pageSize := cfg.UI.PageSize
	if pageSize == 0 {
		pageSize = browser.PageSize(height, sized)
	}

	fullScreen := !cfg.UI.Plain && isTerminal(in) && isTerminal(out)
	b := browser.New(result, fetcher, dl, browser.Options{
		PageSize:    pageSize,
		Width:       width,
		MaxWidth:    cfg.UI.MaxWidth,
		MaxChars:    cfg.Docs.MaxChars,
		DownloadDir: cfg.Download.Dir,
		ClearScreen: isTerminal(out),
		DocStyle:    cfg.UI.DocStyle,
	})

	logging.Browser("browsing %d results, page size %d, full screen %v", result.Len(), pageSize, fullScreen)
	if fullScreen {
		return b.RunTUI(ctx)
	}
	return b.RunLines(ctx, in, out)
}

type fder interface {
	Fd() uintptr
}

func isTerminal(v interface{}) bool {
	f, ok := v.(fder)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func terminalSize(v interface{}) (width, height int, ok bool) {
	f, isFile := v.(fder)
	if !isFile || !isTerminal(v) {
		return 0, 0, false
	}
	w, h, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}
