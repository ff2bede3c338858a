package browser

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"rdatasets/internal/docs"
	"rdatasets/internal/download"
	"rdatasets/internal/index/indextest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeDocs struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (f *fakeDocs) Fetch(_ context.Context, url string) (*docs.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.urls = append(f.urls, url)
	if f.err != nil {
		return nil, f.err
	}
	name := url[strings.LastIndex(url, "/")+1:]
	return &docs.Page{
		Title:       "Doc " + name,
		URL:         url,
		Description: []string{"About " + name + "."},
		HasFormat:   true,
		Variables:   []docs.Variable{{Term: "x", Definition: "a column"}},
	}, nil
}

func (f *fakeDocs) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.urls...)
}

type fakeDownloader struct {
	mu    sync.Mutex
	calls [][2]string
	err   error
}

func (f *fakeDownloader) Fetch(_ context.Context, url, dest string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, [2]string{url, dest})
	if f.err != nil {
		return 0, f.err
	}
	return 42, nil
}

func newTestBrowser(t *testing.T, pageSize int) (*Browser, *fakeDocs, *fakeDownloader) {
	t.Helper()
	fd, dl := &fakeDocs{}, &fakeDownloader{}
	b := New(indextest.Fixture(), fd, dl, Options{PageSize: pageSize, Width: 60, DownloadDir: "out", DocStyle: "notty"})
	return b, fd, dl
}

func runLines(t *testing.T, b *Browser, input string) string {
	t.Helper()
	var out strings.Builder
	require.NoError(t, b.RunLines(context.Background(), strings.NewReader(input), &out))
	return out.String()
}

func TestRunLines_Paging(t *testing.T) {
	b, _, _ := newTestBrowser(t, 10)

	out := runLines(t, b, "n\np\nq\n")

	assert.Equal(t, 2, strings.Count(out, "Page 1 of 2 (showing 1-10 of 14 results)"))
	assert.Contains(t, out, "Page 2 of 2 (showing 11-14 of 14 results)")
	assert.Contains(t, out, "Navigation: n) Next page | q) Quit | g) Go to page | NUMBER) Show documentation")
	assert.Contains(t, out, "Navigation: p) Previous page | q) Quit | g) Go to page | NUMBER) Show documentation")
	assert.Contains(t, out, strings.Repeat("=", 60))
	assert.NotContains(t, out, clearSequence)
	assert.NotContains(t, out, MsgExiting)
}

func TestRunLines_TableShowsGlobalRowNumbers(t *testing.T) {
	b, _, _ := newTestBrowser(t, 10)

	out := runLines(t, b, "n\nq\n")
	second := out[strings.Index(out, "Page 2 of 2"):]

	for _, h := range Columns {
		assert.Contains(t, out, h)
	}
	assert.Contains(t, second, "Stat2Data")
	assert.Contains(t, second, "11 |")
	assert.Contains(t, second, "14 |")
	assert.NotContains(t, second, "AirPassengers")
}

func TestRunLines_GoToPage(t *testing.T) {
	b, _, _ := newTestBrowser(t, 10)

	out := runLines(t, b, "g\n2\ng\n9\n\ng\nabc\n\nq\n")

	assert.Contains(t, out, "Enter page number (1-2): ")
	assert.Contains(t, out, "Page 2 of 2")
	assert.Contains(t, out, "Invalid page number. Please enter a number between 1 and 2.")
	assert.Contains(t, out, MsgInvalidPageInput)
	assert.Equal(t, 2, strings.Count(out, MsgPressEnter))
}

func TestRunLines_DocAndBack(t *testing.T) {
	b, fd, _ := newTestBrowser(t, 10)

	out := runLines(t, b, "2\nb\n2\nq\n")

	assert.Contains(t, out, "Fetching documentation for dataset #2...")
	assert.Contains(t, out, "Documentation for dataset #2")
	assert.Contains(t, out, "Title: Doc iris.html\n")
	assert.Contains(t, out, "x : a column\n")
	assert.Contains(t, out, MsgDocNav)

	// Every entry refetches.
	assert.Equal(t, []string{
		"https://vincentarelbundock.github.io/Rdatasets/doc/datasets/iris.html",
		"https://vincentarelbundock.github.io/Rdatasets/doc/datasets/iris.html",
	}, fd.fetched())
}

func TestRunLines_DocInvalidChoiceRedisplaysWithoutFetch(t *testing.T) {
	b, fd, _ := newTestBrowser(t, 10)

	out := runLines(t, b, "1\nz\n\nq\n")

	assert.Contains(t, out, MsgInvalidDocChoice)
	assert.Equal(t, 2, strings.Count(out, "Documentation for dataset #1"))
	assert.Len(t, fd.fetched(), 1)
}

func TestRunLines_DocFetchError(t *testing.T) {
	b, fd, _ := newTestBrowser(t, 10)
	fd.err = errors.New("connection refused")

	out := runLines(t, b, "3\nb\nq\n")

	assert.Contains(t, out, "Error fetching documentation: connection refused\nURL: https://vincentarelbundock.github.io/Rdatasets/doc/datasets/mtcars.html")
	assert.Contains(t, out, "Page 1 of 2", "browsing continues")
}

func TestRunLines_Download(t *testing.T) {
	b, _, dl := newTestBrowser(t, 10)

	out := runLines(t, b, "2\nd\nY\n\nq\n")

	assert.Contains(t, out, "Download datasets_iris.csv to out? (yes/no): ")
	assert.Contains(t, out, "Downloading datasets_iris.csv...")
	assert.Contains(t, out, "Successfully downloaded datasets_iris.csv")
	require.Len(t, dl.calls, 1)
	assert.Equal(t, "https://vincentarelbundock.github.io/Rdatasets/csv/datasets/iris.csv", dl.calls[0][0])
	assert.Equal(t, "out/datasets_iris.csv", dl.calls[0][1])
}

func TestRunLines_DownloadCancelledAndFailed(t *testing.T) {
	b, _, dl := newTestBrowser(t, 10)

	out := runLines(t, b, "2\nd\nno\n\nq\n")
	assert.Contains(t, out, download.MsgCancelled)
	assert.Empty(t, dl.calls)

	dl.err = errors.New("HTTP 500: 500 Internal Server Error")
	out = runLines(t, b, "2\nd\ny\n\nq\n")
	assert.Contains(t, out, "Error downloading file: HTTP 500: 500 Internal Server Error")

	dl.err = &download.SaveError{Path: "out/datasets_iris.csv", Err: errors.New("read-only file system")}
	out = runLines(t, b, "2\nd\ny\n\nb\nq\n")
	assert.Contains(t, out, "Error saving file: out/datasets_iris.csv: read-only file system")
	assert.Contains(t, out, "Page 1 of 2")
}

func TestRunLines_InvalidTableInput(t *testing.T) {
	b, _, _ := newTestBrowser(t, 10)

	out := runLines(t, b, "p\n\n99\n\nq\n")

	assert.Contains(t, out, MsgInvalidChoice)
	assert.Contains(t, out, "Invalid dataset number. Please enter a number between 1 and 14.")
}

func TestRunLines_EndOfInputQuits(t *testing.T) {
	b, _, _ := newTestBrowser(t, 10)

	out := runLines(t, b, "n")
	assert.Contains(t, out, "Page 2 of 2")
	assert.True(t, strings.HasSuffix(out, "\n"+MsgExiting+"\n"))

	// In the middle of a prompt.
	out = runLines(t, b, "1\nd\n")
	assert.NotContains(t, out, "Downloading")
}

func TestRunLines_CancelledContextQuits(t *testing.T) {
	b, _, _ := newTestBrowser(t, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out strings.Builder
	require.NoError(t, b.RunLines(ctx, strings.NewReader(""), &out))
	assert.Contains(t, out.String(), MsgExiting)
}

func TestRunLines_ClearScreen(t *testing.T) {
	b, _, _ := newTestBrowser(t, 10)
	b.opts.ClearScreen = true

	out := runLines(t, b, "q\n")
	assert.True(t, strings.HasPrefix(out, clearSequence))
}

func TestPageTable_EllipsizesTitles(t *testing.T) {
	idx := indextest.Fixture()
	rows := idx.Slice(8, 9)

	tbl := PageTable(rows, 9, 0)
	require.Len(t, tbl.Rows, 1)
	title := tbl.Rows[0][titleColumn]
	assert.LessOrEqual(t, len([]rune(title)), maxTitleWidth)
	assert.True(t, strings.HasSuffix(title, "…"))

	narrow := PageTable(rows, 9, 60)
	assert.Less(t, len([]rune(narrow.Rows[0][titleColumn])), len([]rune(title)))
}

func TestEllipsize(t *testing.T) {
	assert.Equal(t, "short", Ellipsize("short", 10))
	assert.Equal(t, "abcd…", Ellipsize("abcdefgh", 5))
	assert.Equal(t, "…", Ellipsize("abc", 1))
}
