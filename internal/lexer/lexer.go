package lexer

import (
	"unicode/utf8"

	"github.com/elricmann/typed-lisp/internal/token"
)

type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number
}

func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Line: l.line, Column: l.column}
	case '(':
		tok := token.Token{Type: token.LPAREN, Lexeme: "(", Line: l.line, Column: l.column}
		l.readChar()
		return tok
	case ')':
		tok := token.Token{Type: token.RPAREN, Lexeme: ")", Line: l.line, Column: l.column}
		l.readChar()
		return tok
	case '"':
		return l.readString()
	default:
		return l.readAtom()
	}
}

// skipWhitespace consumes whitespace and line comments (";" to end of line).
func (l *Lexer) skipWhitespace() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n':
			l.readChar()
		case l.ch == ';':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// readAtom scans an opaque lexeme: everything up to whitespace, a
// parenthesis, or end of input.
func (l *Lexer) readAtom() token.Token {
	line, column := l.line, l.column
	start := l.position
	for l.ch != 0 && !isDelimiter(l.ch) {
		l.readChar()
	}
	return token.Token{
		Type:   token.ATOM,
		Lexeme: l.input[start:l.position],
		Line:   line,
		Column: column,
	}
}

// readString scans a quoted string as a single atom, spaces included.
// An unterminated string ends at the newline or end of input.
func (l *Lexer) readString() token.Token {
	line, column := l.line, l.column
	start := l.position
	l.readChar()
	for l.ch != '"' && l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
	if l.ch == '"' {
		l.readChar()
	}
	return token.Token{
		Type:   token.ATOM,
		Lexeme: l.input[start:l.position],
		Line:   line,
		Column: column,
	}
}

func isDelimiter(ch rune) bool {
	switch ch {
	case ' ', '\t', '\r', '\n', '(', ')', ';':
		return true
	}
	return false
}
