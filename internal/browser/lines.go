package browser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"rdatasets/internal/docs"
	"rdatasets/internal/download"
	"rdatasets/internal/logging"
)

const clearSequence = "\033[H\033[2J"

// lineReader delivers input lines until EOF or the context ends.
type lineReader struct {
	lines chan string
	done  chan struct{}
}

func newLineReader(in io.Reader) *lineReader {
	lr := &lineReader{lines: make(chan string), done: make(chan struct{})}
	go func() {
		defer close(lr.lines)
		br := bufio.NewReader(in)
		for {
			line, err := br.ReadString('\n')
			if line != "" || err == nil {
				select {
				case lr.lines <- strings.TrimRight(line, "\r\n"):
				case <-lr.done:
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return lr
}

// read returns false on end of input or cancellation.
func (lr *lineReader) read(ctx context.Context) (string, bool) {
	select {
	case line, ok := <-lr.lines:
		return line, ok
	case <-ctx.Done():
		return "", false
	}
}

func (lr *lineReader) close() { close(lr.done) }

// lineShell renders screens as plain text and reads commands line by line.
type lineShell struct {
	b      *Browser
	out    io.Writer
	in     *lineReader
	styles Styles
	doc    string
}

// RunLines runs the browser against a line-oriented reader and writer.
// End of input or a cancelled context quits.
func (b *Browser) RunLines(ctx context.Context, in io.Reader, out io.Writer) error {
	sh := &lineShell{b: b, out: out, in: newLineReader(in), styles: NewStyles(out, DetectTheme())}
	defer sh.in.close()

	log := logging.Get(logging.CategoryBrowser)
	s := b.Start()
	log.Debug("line browser started: %d results, %d pages", s.Total, s.Pages)

	for s.Screen != ScreenExit {
		sh.render(s)

		line, ok := sh.in.read(ctx)
		if !ok {
			if s.Screen == ScreenTable {
				sh.printf("\n%s\n", MsgExiting)
			}
			s = Quit(s)
			break
		}

		next, eff := Transition(s, line)
		log.Debug("%s %q -> %s", s.Screen, line, next.Screen)

		switch eff.Kind {
		case EffectFetchDoc:
			sh.clear()
			sh.printf("Fetching documentation for dataset #%d...\n", eff.Row)
			sh.separator()
			sh.doc = docs.RenderText(ctx, b.docs, b.row(eff.Row).Doc, b.opts.MaxChars)
		case EffectDownload:
			r := b.row(eff.Row)
			sh.printf("%s\n", download.Progress(r.Package, r.Item))
			sh.printf("%s\n", b.download(ctx, eff.Row))
			if !sh.pause(ctx) {
				next = Quit(next)
			}
		case EffectCancelDownload:
			sh.printf("%s\n", download.MsgCancelled)
			if !sh.pause(ctx) {
				next = Quit(next)
			}
		case EffectInvalid:
			sh.printf("%s\n", eff.Message)
			if !sh.pause(ctx) {
				next = Quit(next)
			}
		}
		s = next
	}

	log.Debug("line browser exited on page %d", s.Page)
	return nil
}

func (sh *lineShell) printf(format string, args ...interface{}) {
	fmt.Fprintf(sh.out, format, args...)
}

func (sh *lineShell) clear() {
	if sh.b.opts.ClearScreen {
		io.WriteString(sh.out, clearSequence)
	}
}

func (sh *lineShell) separator() {
	sh.printf("%s\n", sh.styles.Divider.Render(strings.Repeat("=", sh.b.separatorWidth())))
}

func (sh *lineShell) pause(ctx context.Context) bool {
	io.WriteString(sh.out, MsgPressEnter)
	_, ok := sh.in.read(ctx)
	return ok
}

func (sh *lineShell) render(s State) {
	switch s.Screen {
	case ScreenTable:
		sh.clear()
		start, _ := s.Bounds()
		sh.printf("%s\n", sh.styles.Header.Render(s.Header()))
		sh.separator()
		io.WriteString(sh.out, PageTable(sh.b.pageRows(s), start+1, sh.b.opts.MaxWidth).View(sh.styles))
		sh.printf("\n")
		sh.separator()
		sh.printf("%s\n", s.NavOptions())
		sh.printf("\n%s", MsgChoicePrompt)
	case ScreenPagePrompt:
		io.WriteString(sh.out, s.PagePrompt())
	case ScreenDoc:
		sh.clear()
		sh.printf("%s\n", sh.styles.Header.Render(fmt.Sprintf("Documentation for dataset #%d", s.Row)))
		sh.separator()
		sh.printf("%s\n", sh.doc)
		sh.printf("\n")
		sh.separator()
		sh.printf("%s\n", MsgDocNav)
		sh.printf("\n%s", MsgChoicePrompt)
	case ScreenConfirm:
		r := sh.b.row(s.Row)
		io.WriteString(sh.out, download.Prompt(r.Package, r.Item, sh.b.opts.DownloadDir))
	}
}
