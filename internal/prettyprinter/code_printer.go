package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/elricmann/typed-lisp/internal/ast"
	"github.com/elricmann/typed-lisp/internal/config"
)

// --- Code Printer (output looks like source code) ---

// CodePrinter renders a parsed tree back to canonical source text: one
// top-level form per line, def bodies indented on their own line.
type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders node and returns the accumulated text.
func (p *CodePrinter) Print(node ast.Node) string {
	p.buf.Reset()
	p.printNode(node)
	return p.buf.String()
}

func (p *CodePrinter) printNode(node ast.Node) {
	switch n := node.(type) {
	case *ast.Program:
		for i, form := range n.Forms {
			if i > 0 {
				p.buf.WriteByte('\n')
			}
			p.printNode(form)
		}
	case *ast.Atom:
		p.buf.WriteString(n.Value)
	case *ast.List:
		p.printList(n)
	}
}

func (p *CodePrinter) printList(n *ast.List) {
	if len(n.Children) >= 6 {
		if head, ok := n.Children[0].(*ast.Atom); ok && head.Value == config.DefKeyword {
			p.printDef(n)
			return
		}
	}

	p.buf.WriteByte('(')
	for i, child := range n.Children {
		if i > 0 {
			p.buf.WriteByte(' ')
		}
		p.printNode(child)
	}
	p.buf.WriteByte(')')
}

// printDef renders (def name : ret (params) body) with the body indented
// on its own line.
func (p *CodePrinter) printDef(n *ast.List) {
	p.buf.WriteByte('(')
	for i, child := range n.Children {
		if i == 5 {
			break
		}
		if i > 0 {
			p.buf.WriteByte(' ')
		}
		p.printNode(child)
	}

	p.indent++
	for _, child := range n.Children[5:] {
		p.buf.WriteByte('\n')
		p.buf.WriteString(strings.Repeat("  ", p.indent))
		p.printNode(child)
	}
	p.indent--
	p.buf.WriteByte(')')
}
