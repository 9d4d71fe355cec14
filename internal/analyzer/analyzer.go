package analyzer

import (
	"fmt"
	"sort"

	"github.com/elricmann/typed-lisp/internal/ast"
	"github.com/elricmann/typed-lisp/internal/diagnostics"
	"github.com/elricmann/typed-lisp/internal/symbols"
	"github.com/elricmann/typed-lisp/internal/typesystem"
)

// Analyzer performs type inference over a parsed program. One Analyzer
// owns one inference context (fresh-variable counter plus unifier) and one
// global scope; it is built per pass and not reused.
type Analyzer struct {
	ctx     *typesystem.InferenceContext
	global  *symbols.Scope
	TypeMap map[ast.Node]typesystem.Type
}

func New() *Analyzer {
	ctx := typesystem.NewInferenceContext()
	return &Analyzer{
		ctx:     ctx,
		global:  symbols.NewScope(ctx),
		TypeMap: make(map[ast.Node]typesystem.Type),
	}
}

func (a *Analyzer) GlobalScope() *symbols.Scope { return a.global }

func (a *Analyzer) Context() *typesystem.InferenceContext { return a.ctx }

// Analyze walks the tree and returns the collected diagnostics, sorted by
// position. It never aborts: every failure is recorded and traversal
// continues with a placeholder type.
func (a *Analyzer) Analyze(root ast.Node) []*diagnostics.Diagnostic {
	w := &walker{
		ctx:      a.ctx,
		scope:    a.global,
		errorSet: make(map[string]*diagnostics.Diagnostic),
		typeMap:  a.TypeMap,
	}
	w.inferNode(root)
	return w.getErrors()
}

// walker carries the traversal state: the current scope, the current-type
// output register (returned through inferNode), and the diagnostic set.
type walker struct {
	ctx      *typesystem.InferenceContext
	scope    *symbols.Scope
	errorSet map[string]*diagnostics.Diagnostic
	typeMap  map[ast.Node]typesystem.Type
}

// addError records a diagnostic, deduplicating by position and code.
func (w *walker) addError(d *diagnostics.Diagnostic) {
	key := fmt.Sprintf("%d:%d:%s", d.Token.Line, d.Token.Column, d.Code)
	w.errorSet[key] = d
}

// getErrors returns all unique diagnostics sorted by position.
func (w *walker) getErrors() []*diagnostics.Diagnostic {
	result := make([]*diagnostics.Diagnostic, 0, len(w.errorSet))
	for _, d := range w.errorSet {
		result = append(result, d)
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Token.Line != result[j].Token.Line {
			return result[i].Token.Line < result[j].Token.Line
		}
		return result[i].Token.Column < result[j].Token.Column
	})
	return result
}

func (w *walker) unify(t1, t2 typesystem.Type) error {
	return w.ctx.Unifier().Unify(t1, t2)
}

func (w *walker) resolve(t typesystem.Type) typesystem.Type {
	return w.ctx.Resolve(t)
}
