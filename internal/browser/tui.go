package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"rdatasets/internal/docs"
	"rdatasets/internal/download"
	"rdatasets/internal/logging"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Layout
const (
	defaultWidth  = 100
	defaultHeight = 40
	chromeLines   = 8
)

type docMsg struct {
	row     int
	content string
}

type downloadMsg struct {
	line string
}

// Model is the bubbletea model of the full-screen browser.
type Model struct {
	ctx context.Context
	b   *Browser

	state  State
	styles Styles

	table    table.Model
	input    textinput.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	width  int
	height int

	doc    string
	status string
	busy   string
}

// NewModel returns the initial full-screen model.
func NewModel(ctx context.Context, b *Browser) Model {
	styles := NewStyles(os.Stdout, DetectTheme())

	ti := textinput.New()
	ti.Prompt = MsgChoicePrompt
	ti.PromptStyle = styles.Prompt
	ti.CharLimit = 64
	ti.Width = 20
	ti.Focus()

	t := table.New(
		table.WithFocused(true),
		table.WithHeight(b.opts.PageSize),
	)

	m := Model{
		ctx:      ctx,
		b:        b,
		state:    b.Start(),
		styles:   styles,
		table:    t,
		input:    ti,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeLines),
		width:    defaultWidth,
		height:   defaultHeight,
	}
	m.resize(b.opts.Width, 0)
	return m
}

// State returns the navigation state.
func (m Model) State() State { return m.state }

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.doc != "" {
			m.viewport.SetContent(m.renderDoc(m.doc))
		}
		return m, nil

	case docMsg:
		if m.state.Screen != ScreenDoc || m.state.Row != msg.row {
			return m, nil
		}
		m.busy = ""
		m.doc = msg.content
		m.viewport.SetContent(m.renderDoc(msg.content))
		m.viewport.GotoTop()
		return m, nil

	case downloadMsg:
		m.busy = ""
		m.status = msg.line
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.state = Quit(m.state)
			return m, tea.Quit
		}
		if m.busy != "" {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEnter:
			return m.submit()
		case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown, tea.KeyHome, tea.KeyEnd:
			var cmd tea.Cmd
			if m.state.Screen == ScreenDoc {
				m.viewport, cmd = m.viewport.Update(msg)
			} else if m.state.Screen == ScreenTable {
				m.table, cmd = m.table.Update(msg)
			}
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit feeds the input line through Transition. An empty line on the
// table opens the highlighted row.
func (m Model) submit() (tea.Model, tea.Cmd) {
	line := m.input.Value()
	m.input.Reset()
	if strings.TrimSpace(line) == "" && m.state.Screen == ScreenTable && len(m.table.Rows()) > 0 {
		start, _ := m.state.Bounds()
		line = strconv.Itoa(start + m.table.Cursor() + 1)
	}

	prev := m.state
	next, eff := Transition(m.state, line)
	logging.Get(logging.CategoryBrowser).Debug("tui %s %q -> %s", prev.Screen, line, next.Screen)
	m.state = next
	m.status = ""

	if next.Page != prev.Page {
		m.refreshTable()
	}

	switch next.Screen {
	case ScreenPagePrompt:
		m.input.Prompt = next.PagePrompt()
	case ScreenConfirm:
		r := m.b.row(next.Row)
		m.input.Prompt = download.Prompt(r.Package, r.Item, m.b.opts.DownloadDir)
	default:
		m.input.Prompt = MsgChoicePrompt
	}

	switch eff.Kind {
	case EffectFetchDoc:
		m.doc = ""
		m.viewport.SetContent("")
		m.busy = fmt.Sprintf("Fetching documentation for dataset #%d...", eff.Row)
		return m, m.fetchDoc(eff.Row)
	case EffectDownload:
		r := m.b.row(eff.Row)
		m.busy = download.Progress(r.Package, r.Item)
		return m, m.runDownload(eff.Row)
	case EffectCancelDownload:
		m.status = download.MsgCancelled
	case EffectInvalid:
		m.status = eff.Message
	}

	if next.Screen == ScreenExit {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) fetchDoc(row int) tea.Cmd {
	ctx, b := m.ctx, m.b
	return func() tea.Msg {
		return docMsg{row: row, content: docs.RenderMarkdown(ctx, b.docs, b.row(row).Doc, b.opts.MaxChars)}
	}
}

func (m Model) runDownload(row int) tea.Cmd {
	ctx, b := m.ctx, m.b
	return func() tea.Msg {
		return downloadMsg{line: b.download(ctx, row)}
	}
}

func (m *Model) resize(width, height int) {
	if width > 0 {
		m.width = width
	}
	if height > 0 {
		m.height = height
	}
	m.viewport.Width = m.width
	if h := m.height - chromeLines; h > 0 {
		m.viewport.Height = h
	}
	m.table.SetColumns(m.columns())
	m.refreshTable()

	style := glamour.WithAutoStyle()
	if m.b.opts.DocStyle != "" {
		style = glamour.WithStandardStyle(m.b.opts.DocStyle)
	}
	if r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(m.width-4)); err == nil {
		m.renderer = r
	}
}

func (m Model) columns() []table.Column {
	cols := []table.Column{
		{Title: "No.", Width: 5},
		{Title: "Package", Width: 12},
		{Title: "Item", Width: 20},
		{Title: "Title", Width: maxTitleWidth},
		{Title: "Rows", Width: 8},
		{Title: "Cols", Width: 5},
	}
	limit := m.width
	if m.b.opts.MaxWidth > 0 && m.b.opts.MaxWidth < limit {
		limit = m.b.opts.MaxWidth
	}
	// each column carries two cells of padding
	other := 0
	for i, c := range cols {
		if i != titleColumn {
			other += c.Width + 2
		}
	}
	if w := limit - other - 2; w < maxTitleWidth {
		if w < minTitleWidth {
			w = minTitleWidth
		}
		cols[titleColumn].Width = w
	}
	return cols
}

func (m *Model) refreshTable() {
	start, _ := m.state.Bounds()
	titleWidth := m.table.Columns()[titleColumn].Width
	rows := m.b.pageRows(m.state)
	out := make([]table.Row, len(rows))
	for i, r := range rows {
		out[i] = table.Row{
			strconv.Itoa(start + i + 1),
			r.Package,
			r.Item,
			Ellipsize(r.Title, titleWidth),
			strconv.FormatInt(r.Rows, 10),
			strconv.FormatInt(r.Cols, 10),
		}
	}
	m.table.SetRows(out)
	m.table.SetCursor(0)
}

func (m Model) renderDoc(content string) string {
	if m.renderer == nil {
		return content
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

// View renders the current screen.
func (m Model) View() string {
	if m.state.Screen == ScreenExit {
		return ""
	}

	var sb strings.Builder
	divider := m.styles.Divider.Render(strings.Repeat("─", m.b.separatorWidth()))

	switch m.state.Screen {
	case ScreenTable, ScreenPagePrompt:
		sb.WriteString(m.styles.Header.Render(m.state.Header()))
		sb.WriteString("\n")
		sb.WriteString(m.table.View())
		sb.WriteString("\n")
		sb.WriteString(divider)
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render(m.state.NavOptions()))
	case ScreenDoc, ScreenConfirm:
		sb.WriteString(m.styles.Header.Render(fmt.Sprintf("Documentation for dataset #%d", m.state.Row)))
		sb.WriteString("\n")
		sb.WriteString(divider)
		sb.WriteString("\n")
		sb.WriteString(m.viewport.View())
		sb.WriteString("\n")
		sb.WriteString(divider)
		sb.WriteString("\n")
		sb.WriteString(m.styles.Muted.Render(MsgDocNav))
	}
	sb.WriteString("\n\n")

	switch {
	case m.busy != "":
		sb.WriteString(m.styles.Status.Render(m.busy))
	default:
		if m.status != "" {
			style := m.styles.Error
			if strings.HasPrefix(m.status, "Successfully") {
				style = m.styles.Success
			}
			sb.WriteString(style.Render(m.status))
			sb.WriteString("\n")
		}
		sb.WriteString(m.input.View())
	}

	return lipgloss.NewStyle().MaxWidth(m.width).Render(sb.String())
}

// RunTUI runs the full-screen browser until the user quits or ctx ends.
func (b *Browser) RunTUI(ctx context.Context, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, b), opts...)

	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
