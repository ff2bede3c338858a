package index

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"rdatasets/internal/logging"

	"github.com/dustin/go-humanize"
)

// DefaultMaxBytes bounds the index download.
const DefaultMaxBytes = 64 << 20

// Cache stores raw index bodies keyed by source URL.
type Cache interface {
	Get(ctx context.Context, url string) (data []byte, fetchedAt time.Time, ok bool, err error)
	Put(ctx context.Context, url string, data []byte, fetchedAt time.Time) error
}

// Loader fetches and parses the index.
type Loader struct {
	URL       string
	Client    *http.Client
	UserAgent string
	MaxBytes  int64 // zero means DefaultMaxBytes

	// Optional cache; nil means always fetch.
	Cache Cache
	TTL   time.Duration

	now func() time.Time
}

// NewLoader returns a Loader with its own client and timeout.
func NewLoader(url string, timeout time.Duration) *Loader {
	return &Loader{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
		now:    time.Now,
	}
}

func (l *Loader) clock() time.Time {
	if l.now == nil {
		return time.Now()
	}
	return l.now()
}

// Load returns the parsed index, from the cache when a fresh copy exists.
func (l *Loader) Load(ctx context.Context) (*Index, error) {
	log := logging.Get(logging.CategoryIndex).With("url", l.URL)

	if l.Cache != nil {
		data, fetchedAt, ok, err := l.Cache.Get(ctx, l.URL)
		switch {
		case err != nil:
			log.Warn("cache read failed, fetching: %v", err)
		case ok && l.clock().Sub(fetchedAt) < l.TTL:
			idx, perr := Parse(bytes.NewReader(data))
			if perr == nil {
				log.Info("loaded %d rows from cache (fetched %s)", idx.Len(), fetchedAt.Format(time.RFC3339))
				return idx, nil
			}
			log.Warn("cached index unreadable, fetching: %v", perr)
		case ok:
			log.Debug("cached index is stale (fetched %s)", fetchedAt.Format(time.RFC3339))
		}
	}

	data, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	idx, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse index: %w", err)
	}
	log.Info("fetched %d rows (%d bytes)", idx.Len(), len(data))

	if l.Cache != nil {
		if err := l.Cache.Put(ctx, l.URL, data, l.clock()); err != nil {
			log.Warn("cache write failed: %v", err)
		}
	}

	return idx, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if l.UserAgent != "" {
		req.Header.Set("User-Agent", l.UserAgent)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch index: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch index: HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	limit := l.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("failed to read index: larger than %s", humanize.IBytes(uint64(limit)))
	}
	return data, nil
}
