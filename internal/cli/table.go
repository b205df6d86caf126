package cli

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jmylchreest/tinctd/internal/colour"
)

// Table is a plain column formatter. Cells may contain ANSI styling.
type Table struct {
	headers []string
	rows    [][]string
	padding int
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		padding: 2, // 2 spaces between columns
	}
}

// AddRow adds a row, padding or truncating it to the header count.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Render formats and returns the table as a string.
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}

	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			sb.WriteString(cell)
			if i < len(cells)-1 {
				sb.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+t.padding))
			}
		}
		sb.WriteString("\n")
	}

	writeRow(t.headers)
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	writeRow(sep)
	for _, row := range t.rows {
		writeRow(row)
	}
	return sb.String()
}

// newRenderer detects the colour support of w. Non-terminals and NO_COLOR
// get plain text.
func newRenderer(w io.Writer) *lipgloss.Renderer {
	return lipgloss.NewRenderer(w)
}

// swatch renders hex behind a block of the colour itself when r supports colour.
func swatch(r *lipgloss.Renderer, c colour.ARGB) string {
	if r.ColorProfile() == termenv.Ascii {
		return c.Hex()
	}
	block := r.NewStyle().Background(lipgloss.Color(c.Hex())).Render("    ")
	return block + " " + c.Hex()
}
