// Package render turns query results and failures into terminal text.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bawdo/sqlterm/engine"
)

const (
	// NoResults is shown for a result without rows.
	NoResults = "No results found."
	// ErrorPrefix marks failure lines.
	ErrorPrefix = "Error: "
	// NullText is shown for SQL NULL.
	NullText = "NULL"
)

// Renderer formats results. The zero value renders plain text.
type Renderer struct {
	notice lipgloss.Style
	failed lipgloss.Style
}

// New returns a renderer whose styles match the color support of w.
func New(w io.Writer) Renderer {
	r := lipgloss.NewRenderer(w)
	return Renderer{
		notice: r.NewStyle().Foreground(lipgloss.Color("1")),
		failed: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
}

// Render formats the outcome of one command. A non-nil err wins over res.
// Lines are separated by '\n' and the text ends with a newline.
func (r Renderer) Render(res engine.Result, err error) string {
	if err != nil {
		return r.Failure(err)
	}
	if res.Empty() {
		return r.notice.Render(NoResults) + "\n"
	}
	return Table(res)
}

// Failure formats an engine error.
func (r Renderer) Failure(err error) string {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return r.failed.Render(ErrorPrefix+msg) + "\n"
}

// Elapsed formats the time spent on a command.
func Elapsed(d time.Duration) string {
	return fmt.Sprintf("Time: %.3fs\n", d.Seconds())
}

// Table renders res as a fixed-width, pipe-delimited table.
func Table(res engine.Result) string {
	widths := make([]int, len(res.Columns))
	for i, c := range res.Columns {
		widths[i] = runewidth.StringWidth(c)
	}
	cells := make([][]string, len(res.Rows))
	for i, row := range res.Rows {
		cells[i] = make([]string, len(res.Columns))
		for j := range res.Columns {
			var v any
			if j < len(row) {
				v = row[j]
			}
			s := Value(v)
			cells[i][j] = s
			if w := runewidth.StringWidth(s); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var b strings.Builder
	sep := divider(widths)

	b.WriteString(sep)
	writeRow(&b, res.Columns, widths)
	b.WriteString(sep)
	for _, row := range cells {
		writeRow(&b, row, widths)
	}
	b.WriteString(sep)

	n := len(res.Rows)
	if n == 1 {
		b.WriteString("(1 row)\n")
	} else {
		fmt.Fprintf(&b, "(%d rows)\n", n)
	}
	if res.Truncated {
		fmt.Fprintf(&b, "(truncated at %d rows)\n", n)
	}
	return b.String()
}

// Value converts a cell to display text.
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return NullText
	case string:
		return x
	case []byte:
		return string(x)
	case time.Time:
		return x.Format("2006-01-02 15:04:05.999999999Z07:00")
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}

func writeRow(b *strings.Builder, cells []string, widths []int) {
	b.WriteByte('|')
	for i, c := range cells {
		b.WriteString(runewidth.FillRight(c, widths[i]))
		b.WriteByte('|')
	}
	b.WriteByte('\n')
}

func divider(widths []int) string {
	var b strings.Builder
	b.WriteByte('|')
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w))
		b.WriteByte('|')
	}
	b.WriteByte('\n')
	return b.String()
}
