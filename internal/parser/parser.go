package parser

import (
	"github.com/elricmann/typed-lisp/internal/ast"
	"github.com/elricmann/typed-lisp/internal/diagnostics"
	"github.com/elricmann/typed-lisp/internal/token"
)

// Parser builds the uniform atom/list tree from the token stream.
// Parse errors are collected, not fatal: an unclosed list is reported and
// kept with the children read so far, and a stray closing parenthesis at
// top level is reported and skipped before the next form.
type Parser struct {
	tokens   []token.Token
	position int
	errors   []*diagnostics.Diagnostic
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

func (p *Parser) Errors() []*diagnostics.Diagnostic { return p.errors }

func (p *Parser) current() token.Token {
	if p.position >= len(p.tokens) {
		return token.Token{Type: token.EOF}
	}
	return p.tokens[p.position]
}

func (p *Parser) advance() token.Token {
	tok := p.current()
	if p.position < len(p.tokens) {
		p.position++
	}
	return tok
}

// ParseProgram parses a sequence of top-level expressions.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for p.current().Type != token.EOF {
		if p.current().Type == token.RPAREN {
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP003, p.current()))
			p.advance()
			continue
		}
		if expr := p.parseExpression(); expr != nil {
			program.Forms = append(program.Forms, expr)
		}
	}

	return program
}

func (p *Parser) parseExpression() ast.Node {
	tok := p.current()

	switch tok.Type {
	case token.EOF:
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP001, tok))
		return nil
	case token.LPAREN:
		return p.parseList()
	case token.RPAREN:
		p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP003, tok))
		p.advance()
		return nil
	default:
		p.advance()
		return &ast.Atom{Token: tok, Value: tok.Lexeme}
	}
}

func (p *Parser) parseList() ast.Node {
	open := p.advance() // consume '('
	list := &ast.List{Token: open}

	for {
		switch p.current().Type {
		case token.RPAREN:
			p.advance()
			return list
		case token.EOF:
			p.errors = append(p.errors, diagnostics.NewError(diagnostics.ErrP002, open).
				WithHint("this list is never closed"))
			return list
		default:
			if child := p.parseExpression(); child != nil {
				list.Children = append(list.Children, child)
			}
		}
	}
}
