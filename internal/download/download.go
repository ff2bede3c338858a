// Package download saves dataset CSV files to local disk.
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"rdatasets/internal/logging"

	"github.com/dustin/go-humanize"
)

// Messages shown around a download.
const (
	MsgCancelled = "Download cancelled."
)

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]`)

const maxNameLen = 200

// fileMode is applied to new downloads; an existing file keeps its mode.
const fileMode os.FileMode = 0o644

// Name returns the dataset identifier used in prompts, <package>_<item>.
func Name(pkg, item string) string {
	return pkg + "_" + item
}

// Filename returns the CSV file name for a dataset. Separators and control
// characters are replaced so the result is always a single path element.
func Filename(pkg, item string) string {
	safe := unsafeFilenameChars.ReplaceAllString(Name(pkg, item), "_")
	safe = strings.ReplaceAll(safe, "..", "_")
	safe = strings.TrimLeft(safe, ".")
	if len(safe) > maxNameLen {
		safe = safe[:maxNameLen]
	}
	if safe == "" {
		safe = "dataset"
	}
	return safe + ".csv"
}

// Prompt is the confirmation question for a dataset saved into dir. An
// empty dir or "." is the current directory.
func Prompt(pkg, item, dir string) string {
	where := "current directory"
	if dir != "" && filepath.Clean(dir) != "." {
		where = filepath.Clean(dir)
	}
	return fmt.Sprintf("Download %s.csv to %s? (yes/no): ", Name(pkg, item), where)
}

// Confirmed reports whether answer accepts the download prompt.
func Confirmed(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "yes", "y":
		return true
	}
	return false
}

// Progress is the line printed before a download starts.
func Progress(pkg, item string) string {
	return fmt.Sprintf("Downloading %s.csv...", Name(pkg, item))
}

// SaveError is a failure writing the file locally, as opposed to a
// failure retrieving it.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string { return fmt.Sprintf("%s: %v", e.Path, e.Err) }
func (e *SaveError) Unwrap() error { return e.Err }

// Outcome formats the result line of a download.
func Outcome(file string, err error) string {
	if err == nil {
		return "Successfully downloaded " + file
	}
	var se *SaveError
	if errors.As(err, &se) {
		return fmt.Sprintf("Error saving file: %v", err)
	}
	return fmt.Sprintf("Error downloading file: %v", err)
}

// Client fetches CSV files over HTTP.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// NewClient returns a Client with the given overall timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{HTTP: &http.Client{Timeout: timeout}}
}

// Fetch downloads url into dest, replacing any existing file. The body is
// staged in a temporary file in the same directory and renamed into place,
// so dest is never left partially written.
func (c *Client) Fetch(ctx context.Context, url, dest string) (int64, error) {
	log := logging.Get(logging.CategoryDownload).With("url", url, "dest", dest)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Warn("request failed: %v", err)
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("unexpected status %d", resp.StatusCode)
		return 0, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return 0, &SaveError{Path: dest, Err: err}
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			if rmErr := os.Remove(tmpPath); rmErr != nil && !os.IsNotExist(rmErr) {
				log.Warn("failed to remove partial file %s: %v", tmpPath, rmErr)
			}
		}
	}()

	mode := fileMode
	if fi, err := os.Stat(dest); err == nil && fi.Mode().IsRegular() {
		mode = fi.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return 0, &SaveError{Path: dest, Err: err}
	}

	w := &trackingWriter{w: tmp}
	written, err := io.Copy(w, resp.Body)
	if err != nil {
		tmp.Close()
		if w.err != nil {
			return written, &SaveError{Path: dest, Err: w.err}
		}
		return written, fmt.Errorf("failed to read response (got %d bytes): %w", written, err)
	}
	if err := tmp.Close(); err != nil {
		return written, &SaveError{Path: dest, Err: err}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return written, &SaveError{Path: dest, Err: err}
	}
	success = true

	log.Info("saved %s in %s", humanize.Bytes(uint64(written)), time.Since(start))
	return written, nil
}

// trackingWriter remembers the first write error so Fetch can tell disk
// failures from network ones.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}
	return n, err
}
