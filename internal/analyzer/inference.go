package analyzer

import (
	"strconv"
	"strings"

	"github.com/elricmann/typed-lisp/internal/ast"
	"github.com/elricmann/typed-lisp/internal/config"
	"github.com/elricmann/typed-lisp/internal/diagnostics"
	"github.com/elricmann/typed-lisp/internal/token"
	"github.com/elricmann/typed-lisp/internal/typesystem"
)

// inferNode synthesizes the type of a node, records it in the type map,
// and returns it. Failures are reported and replaced with a fresh
// variable so traversal continues.
func (w *walker) inferNode(node ast.Node) typesystem.Type {
	var t typesystem.Type

	switch n := node.(type) {
	case *ast.Program:
		for _, form := range n.Forms {
			t = w.inferNode(form)
		}
	case *ast.Atom:
		t = w.inferLiteral(n)
	case *ast.List:
		t = w.inferList(n)
	}

	if t == nil {
		t = w.ctx.FreshVar()
	}
	w.typeMap[node] = t
	return t
}

// inferLiteral types a bare atom: boolean and integer and string literals,
// inline polymorphic markers, and finally names resolved through the
// current scope.
func (w *walker) inferLiteral(n *ast.Atom) typesystem.Type {
	v := n.Value

	if v == config.TrueLiteral || v == config.FalseLiteral {
		return typesystem.Bool
	}
	if _, err := strconv.Atoi(v); err == nil {
		return typesystem.Int
	}
	if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
		return typesystem.String
	}
	if strings.HasPrefix(v, "'") {
		// Inline polymorphic marker: each occurrence is its own variable.
		return w.ctx.FreshVar()
	}

	if t, ok := w.scope.LookupType(v); ok {
		return t
	}

	if IsOperatorLexeme(v) {
		w.addError(diagnostics.NewError(diagnostics.ErrT012, n.Token, v).
			WithHint("supported operators are + - * / = < >"))
	} else {
		w.addError(diagnostics.NewError(diagnostics.ErrT002, n.Token, v).
			WithHint("define " + v + " with let or def before using it"))
	}
	return w.ctx.FreshVar()
}

// inferList dispatches a list form on its head atom.
func (w *walker) inferList(n *ast.List) typesystem.Type {
	if len(n.Children) == 0 {
		return nil
	}

	head, ok := n.Children[0].(*ast.Atom)
	if !ok {
		w.addError(diagnostics.NewError(diagnostics.ErrT011, n.GetToken()).
			WithHint("the first element of a call must name a function"))
		return nil
	}

	switch head.Value {
	case config.LetKeyword:
		return w.inferLet(n)
	case config.DefKeyword:
		return w.inferDef(n)
	case config.SetKeyword:
		return w.inferSet(n)
	case config.IfKeyword:
		return w.inferIf(n)
	default:
		return w.inferCall(n, head)
	}
}

// annotationTable links same-spelling type-variable annotations for the
// duration of one form: two 'a in the same def share one variable.
type annotationTable struct {
	ctx  *typesystem.InferenceContext
	vars map[string]typesystem.TVar
	poly []int
}

func newAnnotationTable(ctx *typesystem.InferenceContext) *annotationTable {
	return &annotationTable{ctx: ctx, vars: make(map[string]typesystem.TVar)}
}

// typeFor maps an annotation lexeme to a type: 'x becomes a (shared)
// fresh variable recorded as generalized, anything else is nominal.
func (a *annotationTable) typeFor(lexeme string) typesystem.Type {
	if !strings.HasPrefix(lexeme, "'") {
		return typesystem.TCon{Name: lexeme}
	}
	if v, ok := a.vars[lexeme]; ok {
		return v
	}
	v := a.ctx.FreshVar()
	a.vars[lexeme] = v
	a.poly = append(a.poly, v.ID)
	return v
}

// (let NAME : TYPE VALUE)
func (w *walker) inferLet(n *ast.List) typesystem.Type {
	const hint = "expected (let name : type value)"

	if len(n.Children) != 5 {
		w.addError(diagnostics.NewError(diagnostics.ErrT001, n.GetToken(), "let").WithHint(hint))
		return nil
	}

	name, okName := n.Children[1].(*ast.Atom)
	colon, okColon := n.Children[2].(*ast.Atom)
	typeNode, okType := n.Children[3].(*ast.Atom)
	if !okName || !okColon || !okType || colon.Value != config.ColonToken {
		w.addError(diagnostics.NewError(diagnostics.ErrT001, n.GetToken(), "let").WithHint(hint))
		return nil
	}

	annotations := newAnnotationTable(w.ctx)
	declared := annotations.typeFor(typeNode.Value)

	valueType := w.inferNode(n.Children[4])

	if err := w.unify(declared, valueType); err != nil {
		w.addError(w.unifyError(diagnostics.ErrT005, n.GetToken(), err).
			WithType(w.resolve(declared).String()))
	}

	// Bind even on failure so later uses do not cascade as unbound.
	w.scope.Define(name.Value, declared, annotations.poly...)
	return declared
}

// (def NAME : RET_TYPE (P1 : T1 P2 : T2 ...) BODY)
func (w *walker) inferDef(n *ast.List) typesystem.Type {
	const hint = "expected (def name : return_type (params) body)"

	if len(n.Children) < 6 {
		w.addError(diagnostics.NewError(diagnostics.ErrT001, n.GetToken(), "def").WithHint(hint))
		return nil
	}

	name, okName := n.Children[1].(*ast.Atom)
	colon, okColon := n.Children[2].(*ast.Atom)
	retNode, okRet := n.Children[3].(*ast.Atom)
	params, okParams := n.Children[4].(*ast.List)
	if !okName || !okColon || !okRet || !okParams || colon.Value != config.ColonToken {
		w.addError(diagnostics.NewError(diagnostics.ErrT001, n.GetToken(), "def").WithHint(hint))
		return nil
	}

	fnScope := w.scope.NewEnclosed()
	annotations := newAnnotationTable(w.ctx)

	var paramTypes []typesystem.Type
	for i := 0; i < len(params.Children); i += 3 {
		if i+2 >= len(params.Children) {
			w.addError(diagnostics.NewError(diagnostics.ErrT001, params.GetToken(), "parameter list").
				WithHint("parameters come in name : type triples"))
			break
		}

		pName, ok1 := params.Children[i].(*ast.Atom)
		pColon, ok2 := params.Children[i+1].(*ast.Atom)
		pType, ok3 := params.Children[i+2].(*ast.Atom)
		if !ok1 || !ok2 || !ok3 || pColon.Value != config.ColonToken {
			w.addError(diagnostics.NewError(diagnostics.ErrT001, params.Children[i].GetToken(), "parameter").
				WithHint("parameters come in name : type triples"))
			continue
		}

		paramType := annotations.typeFor(pType.Value)
		// Parameters are monomorphic inside the body; only the def
		// binding carries the generalized ids.
		fnScope.Define(pName.Value, paramType)
		paramTypes = append(paramTypes, paramType)
	}

	returnType := annotations.typeFor(retNode.Value)
	fnType := typesystem.MakeFunc(paramTypes, returnType)

	// Bind the name before the body so recursive calls resolve.
	w.scope.Define(name.Value, fnType, annotations.poly...)

	prev := w.scope
	w.scope = fnScope
	bodyType := w.inferNode(n.Children[5])
	w.scope = prev

	if err := w.unify(returnType, bodyType); err != nil {
		w.addError(w.unifyError(diagnostics.ErrT006, n.GetToken(), err).
			WithType(w.resolve(returnType).String()))
	}

	return fnType
}

// (set NAME VALUE)
func (w *walker) inferSet(n *ast.List) typesystem.Type {
	const hint = "expected (set name value)"

	if len(n.Children) != 3 {
		w.addError(diagnostics.NewError(diagnostics.ErrT001, n.GetToken(), "set").WithHint(hint))
		return nil
	}

	name, ok := n.Children[1].(*ast.Atom)
	if !ok {
		w.addError(diagnostics.NewError(diagnostics.ErrT001, n.GetToken(), "set").WithHint(hint))
		return nil
	}

	valueType := w.inferNode(n.Children[2])

	sym, _, found := w.scope.Find(name.Value)
	if !found {
		w.addError(diagnostics.NewError(diagnostics.ErrT002, name.Token, name.Value).
			WithHint("set assigns to an existing binding; declare it with let first"))
		return valueType
	}

	// Unify against the stored type, not a fresh instantiation:
	// assignment pins the binding down and drops its generalized list.
	if err := w.unify(sym.Type, valueType); err != nil {
		w.addError(w.unifyError(diagnostics.ErrT007, n.GetToken(), err).
			WithType(w.resolve(sym.Type).String()))
	}
	w.scope.Monomorphize(name.Value)

	return valueType
}

// (if COND THEN ELSE)
func (w *walker) inferIf(n *ast.List) typesystem.Type {
	const hint = "expected (if cond then else)"

	if len(n.Children) != 4 {
		w.addError(diagnostics.NewError(diagnostics.ErrT001, n.GetToken(), "if").WithHint(hint))
		return nil
	}

	condType := w.inferNode(n.Children[1])
	if err := w.unify(condType, typesystem.Bool); err != nil {
		w.addError(w.unifyError(diagnostics.ErrT008, n.Children[1].GetToken(), err).
			WithType(w.resolve(condType).String()))
	}

	thenType := w.inferNode(n.Children[2])
	elseType := w.inferNode(n.Children[3])

	if err := w.unify(thenType, elseType); err != nil {
		w.addError(w.unifyError(diagnostics.ErrT009, n.GetToken(), err).
			WithType(w.resolve(thenType).String()))
		return nil
	}

	return thenType
}

// (F A1 ... An)
func (w *walker) inferCall(n *ast.List, head *ast.Atom) typesystem.Type {
	argTypes := make([]typesystem.Type, 0, len(n.Children)-1)
	for _, arg := range n.Children[1:] {
		argTypes = append(argTypes, w.inferNode(arg))
	}

	fnType, found := w.scope.LookupType(head.Value)
	if !found {
		if IsOperatorLexeme(head.Value) {
			w.addError(diagnostics.NewError(diagnostics.ErrT012, head.Token, head.Value).
				WithHint("supported operators are + - * / = < >"))
		} else {
			w.addError(diagnostics.NewError(diagnostics.ErrT002, head.Token, head.Value).
				WithHint("define " + head.Value + " with def before calling it"))
		}
		return nil
	}

	resultType := w.ctx.FreshVar()
	expected := typesystem.MakeFunc(argTypes, resultType)

	if err := w.unify(fnType, expected); err != nil {
		w.addError(w.unifyError(diagnostics.ErrT010, head.Token, err).
			WithType(w.resolve(fnType).String()))
	}

	return resultType
}

// unifyError converts a unifier failure into a coded diagnostic, keeping
// the unifier's message as the hint. Occurs-check failures get their own
// code regardless of the form they surfaced in; everything else keeps the
// form-level kind.
func (w *walker) unifyError(code diagnostics.ErrorCode, tok token.Token, err error) *diagnostics.Diagnostic {
	if _, ok := err.(*typesystem.RecursiveUnificationError); ok {
		return diagnostics.NewError(diagnostics.ErrT004, tok).WithHint(err.Error())
	}
	return diagnostics.NewError(code, tok).WithHint(err.Error())
}
