// Package output renders command results for terminals and scripts.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode selects the rendering style.
type Mode string

const (
	// ModeAuto picks text on a TTY and plain otherwise.
	ModeAuto Mode = "auto"
	// ModeText renders styled terminal output.
	ModeText Mode = "text"
	// ModePlain renders unstyled output for scripts and CI logs.
	ModePlain Mode = "plain"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Renderer writes styled or plain output depending on its mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	styled bool
}

// NewRenderer creates a renderer. Unknown modes behave like ModeAuto.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	styled := false
	switch mode {
	case ModeText:
		styled = true
	case ModePlain:
		styled = false
	default:
		styled = isTerminal(out) && termenv.ColorProfile() != termenv.Ascii
	}
	return &Renderer{out: out, errOut: errOut, styled: styled}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Styled reports whether output is rendered for an interactive
// terminal.
func (r *Renderer) Styled() bool {
	return r.styled
}

// Success prints a success line.
func (r *Renderer) Success(format string, args ...interface{}) {
	r.line(r.out, successStyle, "✓", format, args...)
}

// Error prints an error line to the error stream.
func (r *Renderer) Error(format string, args ...interface{}) {
	r.line(r.errOut, errorStyle, "✗", format, args...)
}

// Warning prints a warning line to the error stream.
func (r *Renderer) Warning(format string, args ...interface{}) {
	r.line(r.errOut, warnStyle, "!", format, args...)
}

// Info prints an informational line.
func (r *Renderer) Info(format string, args ...interface{}) {
	r.line(r.out, infoStyle, "•", format, args...)
}

// Header prints a section heading.
func (r *Renderer) Header(text string) {
	if r.styled {
		fmt.Fprintln(r.out, headerStyle.Render(text))
		return
	}
	fmt.Fprintf(r.out, "%s\n", text)
}

// Plain prints an unstyled line regardless of mode.
func (r *Renderer) Plain(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) line(w io.Writer, style lipgloss.Style, marker, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if r.styled {
		fmt.Fprintln(w, style.Render(marker+" ")+msg)
		return
	}
	fmt.Fprintf(w, "%s %s\n", marker, msg)
}

// Table renders a table with the given header and rows.
func (r *Renderer) Table(header []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	h := make(table.Row, len(header))
	for i, c := range header {
		h[i] = c
	}
	t.AppendHeader(h)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, c := range row {
			tr[i] = c
		}
		t.AppendRow(tr)
	}

	if r.styled {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleDefault)
	}
	t.Render()
}
