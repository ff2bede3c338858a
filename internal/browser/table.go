package browser

import (
	"strconv"
	"strings"

	"rdatasets/internal/index"

	"github.com/charmbracelet/lipgloss"
)

// Column widths
const (
	maxTitleWidth = 50
	minTitleWidth = 10
)

// Columns shown for each result row.
var Columns = []string{"No.", "Package", "Item", "Title", "Rows", "Cols"}

const titleColumn = 3

// SimpleTable renders static rows as aligned text.
type SimpleTable struct {
	Headers []string
	Rows    [][]string

	// RightAlign marks numeric columns.
	RightAlign map[int]bool
}

// AddRow adds a row to the table.
func (t *SimpleTable) AddRow(row ...string) {
	t.Rows = append(t.Rows, row)
}

// PageTable builds the table for rows, numbering from first (1-based).
// Titles are cut to fit maxWidth when it is positive.
func PageTable(rows []index.Row, first, maxWidth int) *SimpleTable {
	t := &SimpleTable{
		Headers:    Columns,
		RightAlign: map[int]bool{0: true, 4: true, 5: true},
	}
	for i, r := range rows {
		t.AddRow(
			strconv.Itoa(first+i),
			r.Package,
			r.Item,
			r.Title,
			strconv.FormatInt(r.Rows, 10),
			strconv.FormatInt(r.Cols, 10),
		)
	}
	t.fitTitles(maxWidth)
	return t
}

func (t *SimpleTable) fitTitles(maxWidth int) {
	limit := maxTitleWidth
	if maxWidth > 0 {
		other := 0
		for i, w := range t.widths() {
			if i != titleColumn {
				other += w
			}
		}
		// separators
		other += len(t.Headers) - 1
		if avail := maxWidth - other - 2; avail < limit {
			limit = avail
		}
	}
	if limit < minTitleWidth {
		limit = minTitleWidth
	}
	for _, row := range t.Rows {
		if titleColumn < len(row) {
			row[titleColumn] = Ellipsize(row[titleColumn], limit)
		}
	}
}

// widths includes one cell of padding on each side.
func (t *SimpleTable) widths() []int {
	w := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		w[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < len(w) {
				if cw := lipgloss.Width(cell); cw > w[i] {
					w[i] = cw
				}
			}
		}
	}
	for i := range w {
		w[i] += 2
	}
	return w
}

// View renders the table with the given styles.
func (t *SimpleTable) View(styles Styles) string {
	widths := t.widths()
	var sb strings.Builder

	cell := func(style lipgloss.Style, i int, s string) string {
		style = style.Padding(0, 1).Width(widths[i])
		if t.RightAlign[i] {
			style = style.Align(lipgloss.Right)
		}
		return style.Render(s)
	}
	sep := styles.Divider.Render("|")

	for i, h := range t.Headers {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(cell(styles.Bold, i, h))
	}
	sb.WriteString("\n")

	total := len(widths) - 1
	for _, w := range widths {
		total += w
	}
	sb.WriteString(styles.Divider.Render(strings.Repeat("-", total)))
	sb.WriteString("\n")

	for _, row := range t.Rows {
		for i, c := range row {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				sb.WriteString(sep)
			}
			sb.WriteString(cell(styles.Body, i, c))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Ellipsize shortens s to at most n display columns.
func Ellipsize(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	if n <= 1 {
		return "…"
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > n {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}
