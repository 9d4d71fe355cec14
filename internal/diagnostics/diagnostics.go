package diagnostics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/elricmann/typed-lisp/internal/token"
)

type ErrorCode string

const (
	// Parser errors (reported by the parser, never produced by the checker itself)
	ErrP001 ErrorCode = "P001" // unexpected end of input
	ErrP002 ErrorCode = "P002" // unclosed list
	ErrP003 ErrorCode = "P003" // unexpected closing parenthesis

	// Checker errors
	ErrT001 ErrorCode = "T001" // malformed form
	ErrT002 ErrorCode = "T002" // unbound variable
	ErrT003 ErrorCode = "T003" // type mismatch
	ErrT004 ErrorCode = "T004" // recursive unification
	ErrT005 ErrorCode = "T005" // type error in let binding
	ErrT006 ErrorCode = "T006" // return type mismatch
	ErrT007 ErrorCode = "T007" // type error in assignment
	ErrT008 ErrorCode = "T008" // condition must be boolean
	ErrT009 ErrorCode = "T009" // branches have different types
	ErrT010 ErrorCode = "T010" // type error in function call
	ErrT011 ErrorCode = "T011" // expected function name
	ErrT012 ErrorCode = "T012" // unknown operator

	// Configuration errors
	ErrC001 ErrorCode = "C001" // invalid project configuration
)

var messages = map[ErrorCode]string{
	ErrP001: "unexpected end of input",
	ErrP002: "unclosed list",
	ErrP003: "unexpected closing parenthesis",
	ErrT001: "malformed form",
	ErrT002: "unbound variable",
	ErrT003: "type mismatch",
	ErrT004: "recursive unification",
	ErrT005: "type error in let binding",
	ErrT006: "return type mismatch",
	ErrT007: "type error in assignment",
	ErrT008: "condition must be boolean",
	ErrT009: "branches have different types",
	ErrT010: "type error in function call",
	ErrT011: "expected function name",
	ErrT012: "unknown operator",
	ErrC001: "invalid project configuration",
}

// Diagnostic is a structured error produced by any pipeline stage.
// The checker never aborts on one; it collects them and keeps walking.
type Diagnostic struct {
	Code     ErrorCode
	Token    token.Token
	File     string
	Context  string // text of the offending source line
	TypeRepr string // rendering of the offending type, when applicable
	Hint     string
	Detail   string
}

// NewError creates a diagnostic for the given code at the given token.
// Extra args are joined into the detail suffix of the message.
func NewError(code ErrorCode, tok token.Token, args ...interface{}) *Diagnostic {
	d := &Diagnostic{Code: code, Token: tok}
	if len(args) > 0 {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, fmt.Sprint(a))
		}
		d.Detail = strings.Join(parts, " ")
	}
	return d
}

func (d *Diagnostic) WithHint(hint string) *Diagnostic {
	d.Hint = hint
	return d
}

func (d *Diagnostic) WithType(repr string) *Diagnostic {
	d.TypeRepr = repr
	return d
}

// Message returns the kind-level message for the diagnostic's code.
func (d *Diagnostic) Message() string {
	if m, ok := messages[d.Code]; ok {
		return m
	}
	return string(d.Code)
}

func (d *Diagnostic) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", d.Code, d.Message())
	if d.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(d.Detail)
	}
	if d.Token.Line > 0 {
		fmt.Fprintf(&sb, " (line %d, col %d)", d.Token.Line, d.Token.Column)
	}
	return sb.String()
}

// Sort orders diagnostics by line, then column, for deterministic output.
func Sort(diags []*Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Token.Line != diags[j].Token.Line {
			return diags[i].Token.Line < diags[j].Token.Line
		}
		return diags[i].Token.Column < diags[j].Token.Column
	})
}

// SourceLine extracts the 1-based line from source, for diagnostic context.
func SourceLine(source string, line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return ""
	}
	return lines[line-1]
}
