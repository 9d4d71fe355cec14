package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed    = "\033[1;31m"
	ansiYellow = "\033[1;33m"
	ansiBlue   = "\033[1;34m"
	ansiPurple = "\033[1;35m"
	ansiReset  = "\033[0m"
)

// Renderer formats diagnostics for a terminal: a message line, the source
// location, a gutter with the offending line and a caret, and a hint.
type Renderer struct {
	out   io.Writer
	color bool
}

// NewRenderer creates a renderer for out. Color is enabled only when out is
// a terminal and NO_COLOR is unset.
func NewRenderer(out *os.File) *Renderer {
	color := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	if os.Getenv("NO_COLOR") != "" {
		color = false
	}
	return &Renderer{out: out, color: color}
}

// NewPlainRenderer creates a renderer with color disabled, for tests and
// non-terminal writers.
func NewPlainRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) SetColor(enabled bool) { r.color = enabled }

func (r *Renderer) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + ansiReset
}

// Render writes one diagnostic in the gutter format.
func (r *Renderer) Render(d *Diagnostic) {
	msg := d.Message()
	if d.Detail != "" {
		msg += ": " + d.Detail
	}
	fmt.Fprintf(r.out, "%s %s [%s]\n", r.paint(ansiRed, "error:"), msg, d.Code)
	fmt.Fprintf(r.out, "%s line %d, col %d\n", r.paint(ansiPurple, "  @"), d.Token.Line, d.Token.Column)

	if d.Context != "" {
		gutter := r.paint(ansiBlue, "  | ")
		fmt.Fprintf(r.out, "%s\n", gutter)
		fmt.Fprintf(r.out, "%s%s\n", gutter, d.Context)
		fmt.Fprintf(r.out, "%s%s^\n", gutter, strings.Repeat(" ", caretOffset(d)))
	}

	if d.TypeRepr != "" {
		fmt.Fprintf(r.out, "%s %s\n", r.paint(ansiPurple, "  Γ ⊢"), d.TypeRepr)
	}

	if d.Hint != "" {
		fmt.Fprintf(r.out, "%s %s\n", r.paint(ansiYellow, "  hint:"), d.Hint)
	}
}

// RenderAll renders diagnostics in order, separated by blank lines.
// At most limit diagnostics are shown when limit > 0; a trailing note
// reports how many were suppressed.
func (r *Renderer) RenderAll(diags []*Diagnostic, limit int) {
	shown := len(diags)
	if limit > 0 && shown > limit {
		shown = limit
	}
	for i := 0; i < shown; i++ {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		r.Render(diags[i])
	}
	if suppressed := len(diags) - shown; suppressed > 0 {
		fmt.Fprintf(r.out, "\n... and %d more error(s)\n", suppressed)
	}
}

func caretOffset(d *Diagnostic) int {
	col := d.Token.Column
	if col < 1 {
		col = 1
	}
	if col > len(d.Context)+1 {
		col = len(d.Context) + 1
	}
	return col - 1
}
