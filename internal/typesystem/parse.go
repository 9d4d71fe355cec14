package typesystem

import (
	"fmt"
	"strings"
)

// ParseTypeExpr parses a type expression such as "int -> int -> bool" or
// "'a -> 'a". The arrow is right-associative and parentheses group.
// Variables with the same spelling are linked within one expression; their
// ids are drawn from ctx and returned in first-occurrence order so callers
// can record them as generalized.
func ParseTypeExpr(expr string, ctx *InferenceContext) (Type, []int, error) {
	p := &typeExprParser{
		tokens: tokenizeTypeExpr(expr),
		ctx:    ctx,
		vars:   make(map[string]TVar),
	}
	t, err := p.parseArrow()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing type %q: %w", expr, err)
	}
	if p.position < len(p.tokens) {
		return nil, nil, fmt.Errorf("parsing type %q: unexpected %q", expr, p.tokens[p.position])
	}
	return t, p.poly, nil
}

type typeExprParser struct {
	tokens   []string
	position int
	ctx      *InferenceContext
	vars     map[string]TVar
	poly     []int
}

func (p *typeExprParser) parseArrow() (Type, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	if p.position < len(p.tokens) && p.tokens[p.position] == "->" {
		p.position++
		right, err := p.parseArrow()
		if err != nil {
			return nil, err
		}
		return TFunc{Arg: left, Ret: right}, nil
	}
	return left, nil
}

func (p *typeExprParser) parseOperand() (Type, error) {
	if p.position >= len(p.tokens) {
		return nil, fmt.Errorf("unexpected end of expression")
	}
	tok := p.tokens[p.position]
	p.position++

	switch {
	case tok == "(":
		inner, err := p.parseArrow()
		if err != nil {
			return nil, err
		}
		if p.position >= len(p.tokens) || p.tokens[p.position] != ")" {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.position++
		return inner, nil
	case tok == ")" || tok == "->":
		return nil, fmt.Errorf("unexpected %q", tok)
	case strings.HasPrefix(tok, "'"):
		if v, ok := p.vars[tok]; ok {
			return v, nil
		}
		v := p.ctx.FreshVar()
		p.vars[tok] = v
		p.poly = append(p.poly, v.ID)
		return v, nil
	default:
		return TCon{Name: tok}, nil
	}
}

func tokenizeTypeExpr(expr string) []string {
	expr = strings.ReplaceAll(expr, "(", " ( ")
	expr = strings.ReplaceAll(expr, ")", " ) ")
	return strings.Fields(expr)
}
