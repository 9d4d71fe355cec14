package ast

import (
	"strings"

	"github.com/elricmann/typed-lisp/internal/token"
)

// Node is the interface for all nodes of the surface tree.
// The parser produces exactly two structural kinds: Atom and List.
type Node interface {
	GetToken() token.Token
	String() string
}

// Atom is an opaque lexeme: a literal, a name, or a structural token like ":".
type Atom struct {
	Token token.Token
	Value string
}

func (a *Atom) GetToken() token.Token { return a.Token }

func (a *Atom) String() string { return a.Value }

// List is an ordered sequence of child nodes. Its token is the opening
// parenthesis, which anchors diagnostics for the whole form.
type List struct {
	Token    token.Token
	Children []Node
}

func (l *List) GetToken() token.Token { return l.Token }

func (l *List) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, child := range l.Children {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(child.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Program is the sequence of top-level forms of one source file.
type Program struct {
	File  string
	Forms []Node
}

func (p *Program) GetToken() token.Token {
	if len(p.Forms) > 0 {
		return p.Forms[0].GetToken()
	}
	return token.Token{}
}

func (p *Program) String() string {
	parts := make([]string, 0, len(p.Forms))
	for _, form := range p.Forms {
		parts = append(parts, form.String())
	}
	return strings.Join(parts, "\n")
}
