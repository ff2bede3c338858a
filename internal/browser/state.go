package browser

import (
	"fmt"
	"strconv"
	"strings"

	"rdatasets/internal/config"
	"rdatasets/internal/download"
)

// Screen identifies what the browser is showing.
type Screen int

const (
	ScreenTable Screen = iota
	ScreenPagePrompt
	ScreenDoc
	ScreenConfirm
	ScreenExit
)

func (s Screen) String() string {
	switch s {
	case ScreenTable:
		return "table"
	case ScreenPagePrompt:
		return "page-prompt"
	case ScreenDoc:
		return "doc"
	case ScreenConfirm:
		return "confirm"
	case ScreenExit:
		return "exit"
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

// Page size bounds.
const (
	MinPageSize     = config.MinPageSize
	MaxPageSize     = config.MaxPageSize
	DefaultPageSize = config.DefaultPageSize

	// reservedLines covers the header, separators and navigation.
	reservedLines = 10
)

// User-facing messages.
const (
	MsgInvalidChoice    = "Invalid choice. Please try again."
	MsgInvalidDocChoice = "Invalid choice. Press 'b' to go back, 'd' to download, or 'q' to quit."
	MsgInvalidPageInput = "Invalid input. Please enter a valid page number."
	MsgPressEnter       = "Press Enter to continue..."
	MsgExiting          = "Exiting..."
	MsgDocNav           = "Navigation: b) Back to table | d) Download CSV | q) Quit"
	MsgChoicePrompt     = "Enter your choice: "
)

// State is the browser position. The zero Row means no dataset is selected.
type State struct {
	Screen   Screen
	Page     int
	Pages    int
	Total    int
	PageSize int
	Row      int
}

// NewState returns the first table page for total results.
func NewState(total, pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return State{Screen: ScreenTable, Page: 1, Pages: pages, Total: total, PageSize: pageSize}
}

// EffectKind is the side effect a transition asks the shell to perform.
type EffectKind int

const (
	EffectNone EffectKind = iota
	EffectFetchDoc
	EffectDownload
	EffectCancelDownload
	EffectInvalid
)

// Effect accompanies a transition. Row is the 1-based result row for
// fetch and download effects; Message is set for EffectInvalid.
type Effect struct {
	Kind    EffectKind
	Row     int
	Message string
}

func invalid(msg string) Effect { return Effect{Kind: EffectInvalid, Message: msg} }

// Transition applies one line of user input. It has no side effects.
func Transition(s State, input string) (State, Effect) {
	in := strings.ToLower(strings.TrimSpace(input))

	switch s.Screen {
	case ScreenTable:
		switch {
		case in == "q":
			return Quit(s), Effect{}
		case in == "n" && s.Page < s.Pages:
			s.Page++
			return s, Effect{}
		case in == "p" && s.Page > 1:
			s.Page--
			return s, Effect{}
		case in == "g":
			s.Screen = ScreenPagePrompt
			return s, Effect{}
		case isDigits(in):
			n, err := strconv.Atoi(in)
			if err != nil || n < 1 || n > s.Total {
				return s, invalid(fmt.Sprintf("Invalid dataset number. Please enter a number between 1 and %d.", s.Total))
			}
			s.Screen, s.Row = ScreenDoc, n
			return s, Effect{Kind: EffectFetchDoc, Row: n}
		}
		return s, invalid(MsgInvalidChoice)

	case ScreenPagePrompt:
		s.Screen = ScreenTable
		n, err := strconv.Atoi(in)
		if err != nil {
			return s, invalid(MsgInvalidPageInput)
		}
		if n < 1 || n > s.Pages {
			return s, invalid(fmt.Sprintf("Invalid page number. Please enter a number between 1 and %d.", s.Pages))
		}
		s.Page = n
		return s, Effect{}

	case ScreenDoc:
		switch in {
		case "b":
			s.Screen, s.Row = ScreenTable, 0
			return s, Effect{}
		case "d":
			s.Screen = ScreenConfirm
			return s, Effect{}
		case "q":
			return Quit(s), Effect{}
		}
		return s, invalid(MsgInvalidDocChoice)

	case ScreenConfirm:
		s.Screen = ScreenDoc
		if download.Confirmed(in) {
			return s, Effect{Kind: EffectDownload, Row: s.Row}
		}
		return s, Effect{Kind: EffectCancelDownload, Row: s.Row}
	}

	return s, Effect{}
}

// Quit moves to the exit screen; end of input and interrupts use it.
func Quit(s State) State {
	s.Screen = ScreenExit
	return s
}

// Bounds returns the 0-based half-open range of result rows on the
// current page.
func (s State) Bounds() (start, end int) {
	start = (s.Page - 1) * s.PageSize
	end = start + s.PageSize
	if end > s.Total {
		end = s.Total
	}
	if start > end {
		start = end
	}
	return start, end
}

// Header is the line above the table.
func (s State) Header() string {
	start, end := s.Bounds()
	return fmt.Sprintf("Page %d of %d (showing %d-%d of %d results)", s.Page, s.Pages, start+1, end, s.Total)
}

// NavOptions lists the table commands valid on the current page.
func (s State) NavOptions() string {
	var opts []string
	if s.Page > 1 {
		opts = append(opts, "p) Previous page")
	}
	if s.Page < s.Pages {
		opts = append(opts, "n) Next page")
	}
	opts = append(opts, "q) Quit", "g) Go to page", "NUMBER) Show documentation")
	return "Navigation: " + strings.Join(opts, " | ")
}

// PagePrompt asks for a page number.
func (s State) PagePrompt() string {
	return fmt.Sprintf("Enter page number (1-%d): ", s.Pages)
}

// PageSize derives rows per page from the terminal height. ok is false
// when the height is unknown.
func PageSize(height int, ok bool) int {
	if !ok {
		return DefaultPageSize
	}
	n := height - reservedLines
	if n < MinPageSize {
		return MinPageSize
	}
	if n > MaxPageSize {
		return MaxPageSize
	}
	return n
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
