package analyzer

import (
	"strings"

	"github.com/elricmann/typed-lisp/internal/diagnostics"
	"github.com/elricmann/typed-lisp/internal/project"
	"github.com/elricmann/typed-lisp/internal/symbols"
	"github.com/elricmann/typed-lisp/internal/token"
	"github.com/elricmann/typed-lisp/internal/typesystem"
)

const operatorRunes = "+-*/=<>!"

// RegisterBuiltins seeds the global scope with the primitive operators as
// curried function types. Structural keywords are not registered; the
// walker skips them instead of typing them.
func RegisterBuiltins(scope *symbols.Scope) {
	arith := typesystem.MakeFunc(
		[]typesystem.Type{typesystem.Int, typesystem.Int}, typesystem.Int)
	compare := typesystem.MakeFunc(
		[]typesystem.Type{typesystem.Int, typesystem.Int}, typesystem.Bool)

	for _, op := range []string{"+", "-", "*", "/"} {
		scope.Define(op, arith)
	}
	for _, op := range []string{"=", "<", ">"} {
		scope.Define(op, compare)
	}
}

// RegisterConfigBuiltins adds the extra builtin signatures declared in
// typedlisp.yaml. Signatures that fail to parse become C001 diagnostics;
// valid ones are bound with their annotation variables generalized.
func RegisterConfigBuiltins(scope *symbols.Scope, sigs []project.BuiltinSig) []*diagnostics.Diagnostic {
	var errs []*diagnostics.Diagnostic
	for _, sig := range sigs {
		t, poly, err := typesystem.ParseTypeExpr(sig.Type, scope.Context())
		if err != nil {
			errs = append(errs, diagnostics.NewError(diagnostics.ErrC001, token.Token{},
				"builtin "+sig.Name+": "+err.Error()))
			continue
		}
		scope.Define(sig.Name, t, poly...)
	}
	return errs
}

// IsOperatorLexeme reports whether name is spelled entirely from operator
// punctuation. Such heads resolve through the operator table: an
// unregistered one is an unknown operator, not an unbound variable.
func IsOperatorLexeme(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !strings.ContainsRune(operatorRunes, r) {
			return false
		}
	}
	return true
}
