package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewState(t *testing.T) {
	tests := []struct {
		total, size, pages int
	}{
		{95, 30, 4},
		{60, 30, 2},
		{61, 30, 3},
		{1, 10, 1},
		{0, 30, 1},
		{14, 0, 1},
	}
	for _, tt := range tests {
		s := NewState(tt.total, tt.size)
		assert.Equal(t, tt.pages, s.Pages, "total=%d size=%d", tt.total, tt.size)
		assert.Equal(t, 1, s.Page)
		assert.Equal(t, ScreenTable, s.Screen)
	}
}

func TestState_HeaderAndBounds(t *testing.T) {
	s := NewState(95, 30)
	assert.Equal(t, "Page 1 of 4 (showing 1-30 of 95 results)", s.Header())

	s.Page = 4
	start, end := s.Bounds()
	assert.Equal(t, 90, start)
	assert.Equal(t, 95, end)
	assert.Equal(t, "Page 4 of 4 (showing 91-95 of 95 results)", s.Header())
}

func TestState_NavOptions(t *testing.T) {
	s := NewState(95, 30)
	assert.Equal(t, "Navigation: n) Next page | q) Quit | g) Go to page | NUMBER) Show documentation", s.NavOptions())

	s.Page = 2
	assert.Equal(t, "Navigation: p) Previous page | n) Next page | q) Quit | g) Go to page | NUMBER) Show documentation", s.NavOptions())

	s.Page = 4
	assert.Equal(t, "Navigation: p) Previous page | q) Quit | g) Go to page | NUMBER) Show documentation", s.NavOptions())

	single := NewState(5, 30)
	assert.Equal(t, "Navigation: q) Quit | g) Go to page | NUMBER) Show documentation", single.NavOptions())
}

func TestPageSize(t *testing.T) {
	tests := []struct {
		height int
		ok     bool
		want   int
	}{
		{0, false, 30},
		{5, true, 10},
		{20, true, 10},
		{25, true, 15},
		{39, true, 29},
		{40, true, 30},
		{200, true, 30},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PageSize(tt.height, tt.ok), "height=%d ok=%v", tt.height, tt.ok)
	}
}

func TestTransition_Table(t *testing.T) {
	start := NewState(95, 30)
	last := start
	last.Page = 4

	tests := []struct {
		name   string
		from   State
		input  string
		screen Screen
		page   int
		effect Effect
	}{
		{"next", start, "n", ScreenTable, 2, Effect{}},
		{"next uppercase with spaces", start, "  N \n", ScreenTable, 2, Effect{}},
		{"next on last page", last, "n", ScreenTable, 4, invalid(MsgInvalidChoice)},
		{"previous", last, "p", ScreenTable, 3, Effect{}},
		{"previous on first page", start, "p", ScreenTable, 1, invalid(MsgInvalidChoice)},
		{"quit", start, "q", ScreenExit, 1, Effect{}},
		{"go to", start, "g", ScreenPagePrompt, 1, Effect{}},
		{"row on another page", start, "42", ScreenDoc, 1, Effect{Kind: EffectFetchDoc, Row: 42}},
		{"first row", last, "1", ScreenDoc, 4, Effect{Kind: EffectFetchDoc, Row: 1}},
		{"last row", start, "95", ScreenDoc, 1, Effect{Kind: EffectFetchDoc, Row: 95}},
		{"row zero", start, "0", ScreenTable, 1, invalid("Invalid dataset number. Please enter a number between 1 and 95.")},
		{"row past end", start, "96", ScreenTable, 1, invalid("Invalid dataset number. Please enter a number between 1 and 95.")},
		{"huge row", start, "99999999999999999999999", ScreenTable, 1, invalid("Invalid dataset number. Please enter a number between 1 and 95.")},
		{"negative row", start, "-3", ScreenTable, 1, invalid(MsgInvalidChoice)},
		{"empty", start, "", ScreenTable, 1, invalid(MsgInvalidChoice)},
		{"garbage", start, "xyz", ScreenTable, 1, invalid(MsgInvalidChoice)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, eff := Transition(tt.from, tt.input)
			assert.Equal(t, tt.screen, got.Screen)
			assert.Equal(t, tt.page, got.Page)
			assert.Equal(t, tt.effect, eff)
			assert.Equal(t, tt.from.Pages, got.Pages)
			assert.Equal(t, tt.from.Total, got.Total)
		})
	}
}

func TestTransition_PagePrompt(t *testing.T) {
	prompt := NewState(95, 30)
	prompt.Screen = ScreenPagePrompt
	assert.Equal(t, "Enter page number (1-4): ", prompt.PagePrompt())

	tests := []struct {
		input  string
		page   int
		effect Effect
	}{
		{"3", 3, Effect{}},
		{" 4 ", 4, Effect{}},
		{"+2", 2, Effect{}},
		{"0", 1, invalid("Invalid page number. Please enter a number between 1 and 4.")},
		{"5", 1, invalid("Invalid page number. Please enter a number between 1 and 4.")},
		{"-1", 1, invalid("Invalid page number. Please enter a number between 1 and 4.")},
		{"two", 1, invalid(MsgInvalidPageInput)},
		{"", 1, invalid(MsgInvalidPageInput)},
	}
	for _, tt := range tests {
		got, eff := Transition(prompt, tt.input)
		assert.Equal(t, ScreenTable, got.Screen, "input %q", tt.input)
		assert.Equal(t, tt.page, got.Page, "input %q", tt.input)
		assert.Equal(t, tt.effect, eff, "input %q", tt.input)
	}
}

func TestTransition_DocAndConfirm(t *testing.T) {
	s := NewState(95, 30)
	s.Page = 2
	s, eff := Transition(s, "7")
	assert.Equal(t, Effect{Kind: EffectFetchDoc, Row: 7}, eff)

	t.Run("back keeps page", func(t *testing.T) {
		got, eff := Transition(s, "b")
		assert.Equal(t, ScreenTable, got.Screen)
		assert.Equal(t, 2, got.Page)
		assert.Zero(t, got.Row)
		assert.Equal(t, Effect{}, eff)
	})

	t.Run("invalid keeps state", func(t *testing.T) {
		got, eff := Transition(s, "x")
		assert.Equal(t, s, got)
		assert.Equal(t, invalid(MsgInvalidDocChoice), eff)
	})

	t.Run("quit", func(t *testing.T) {
		got, _ := Transition(s, "Q")
		assert.Equal(t, ScreenExit, got.Screen)
	})

	confirm, eff := Transition(s, "d")
	assert.Equal(t, ScreenConfirm, confirm.Screen)
	assert.Equal(t, Effect{}, eff)

	for _, yes := range []string{"yes", "y", "Y", "YES"} {
		got, eff := Transition(confirm, yes)
		assert.Equal(t, ScreenDoc, got.Screen)
		assert.Equal(t, 7, got.Row)
		assert.Equal(t, Effect{Kind: EffectDownload, Row: 7}, eff)
	}
	for _, no := range []string{"no", "n", "", "q", "yess"} {
		got, eff := Transition(confirm, no)
		assert.Equal(t, ScreenDoc, got.Screen)
		assert.Equal(t, Effect{Kind: EffectCancelDownload, Row: 7}, eff)
	}
}

func TestTransition_ExitIsTerminal(t *testing.T) {
	s := Quit(NewState(10, 10))
	for _, in := range []string{"n", "1", "b", "q"} {
		got, eff := Transition(s, in)
		assert.Equal(t, ScreenExit, got.Screen)
		assert.Equal(t, Effect{}, eff)
	}
}

func TestScreen_String(t *testing.T) {
	assert.Equal(t, "table", ScreenTable.String())
	assert.Equal(t, "confirm", ScreenConfirm.String())
	assert.Equal(t, "screen(42)", Screen(42).String())
}
