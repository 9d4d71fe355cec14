package analyzer

import (
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/elricmann/typed-lisp/internal/ast"
	"github.com/elricmann/typed-lisp/internal/diagnostics"
	"github.com/elricmann/typed-lisp/internal/lexer"
	"github.com/elricmann/typed-lisp/internal/parser"
	"github.com/elricmann/typed-lisp/internal/token"
	"github.com/elricmann/typed-lisp/internal/typesystem"
)

// parseProgram lexes and parses input, failing the test on parse errors.
func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()

	l := lexer.New(input)
	var tokens []token.Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == token.EOF {
			break
		}
	}

	p := parser.New(tokens)
	program := p.ParseProgram()
	if len(p.Errors()) > 0 {
		t.Fatalf("parse errors: %v\ninput: %s", p.Errors(), input)
	}
	return program
}

// inferSource parses and analyzes input with the default builtins
// registered, returning the analyzer and the parsed program for type
// queries.
func inferSource(t *testing.T, input string) (*Analyzer, *ast.Program, []*diagnostics.Diagnostic) {
	t.Helper()
	program := parseProgram(t, input)
	a := New()
	RegisterBuiltins(a.GlobalScope())
	return a, program, a.Analyze(program)
}

// expectCodes asserts the exact multiset of diagnostic codes for input.
func expectCodes(t *testing.T, input string, want ...diagnostics.ErrorCode) {
	t.Helper()
	_, _, errs := inferSource(t, input)

	got := make([]string, 0, len(errs))
	for _, e := range errs {
		got = append(got, string(e.Code))
	}
	wantStrs := make([]string, 0, len(want))
	for _, c := range want {
		wantStrs = append(wantStrs, string(c))
	}
	sort.Strings(got)
	sort.Strings(wantStrs)

	if diff := cmp.Diff(wantStrs, got); diff != "" {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Errorf("diagnostic codes mismatch (-want +got):\n%s\nfull diagnostics:\n%s\ninput: %s",
			diff, strings.Join(msgs, "\n"), input)
	}
}

// lastFormType resolves the inferred type of the program's last form.
func lastFormType(t *testing.T, input string) typesystem.Type {
	t.Helper()
	a, program, errs := inferSource(t, input)
	if len(errs) > 0 {
		t.Fatalf("unexpected diagnostics: %v\ninput: %s", errs, input)
	}
	if len(program.Forms) == 0 {
		t.Fatal("empty program")
	}
	last := program.Forms[len(program.Forms)-1]
	return a.Context().Resolve(a.TypeMap[last])
}

func TestWellTypedLet(t *testing.T) {
	expectCodes(t, `(let x : int 42)`)
}

func TestLetValueMismatch(t *testing.T) {
	expectCodes(t, `(let x : int "hello")`, diagnostics.ErrT005)
}

func TestLetThenSet(t *testing.T) {
	expectCodes(t, `(let x : int 1) (set x 2)`)
}

func TestSetValueMismatch(t *testing.T) {
	expectCodes(t, `(let x : int 1) (set x "two")`, diagnostics.ErrT007)
}

func TestIfWellTyped(t *testing.T) {
	typ := lastFormType(t, `(if true 1 2)`)
	if diff := cmp.Diff(typesystem.Type(typesystem.Int), typ); diff != "" {
		t.Errorf("if type (-want +got):\n%s", diff)
	}
}

func TestIfConditionNotBoolean(t *testing.T) {
	expectCodes(t, `(if 1 2 3)`, diagnostics.ErrT008)
}

func TestIfBranchesMismatched(t *testing.T) {
	expectCodes(t, `(if true 1 "x")`, diagnostics.ErrT009)
}

func TestPolymorphicIdentity(t *testing.T) {
	typ := lastFormType(t, `(def id : 'a (x : 'a) x) (id 5)`)
	if diff := cmp.Diff(typesystem.Type(typesystem.Int), typ); diff != "" {
		t.Errorf("call type (-want +got):\n%s", diff)
	}
}

func TestTwoParameterFunction(t *testing.T) {
	typ := lastFormType(t, `(def f : int (x : int y : int) (+ x y)) (f 1 2)`)
	if diff := cmp.Diff(typesystem.Type(typesystem.Int), typ); diff != "" {
		t.Errorf("call type (-want +got):\n%s", diff)
	}
}

func TestBodyCallMismatchReportsOnce(t *testing.T) {
	// The inner call fails; its fresh placeholder then satisfies the
	// declared return type, so no cascading return-type error.
	expectCodes(t, `(def f : int (x : int) (+ x "s"))`, diagnostics.ErrT010)
}

func TestReturnTypeMismatch(t *testing.T) {
	expectCodes(t, `(def f : int (x : int) "nope")`, diagnostics.ErrT006)
}

func TestUnboundVariable(t *testing.T) {
	expectCodes(t, `(let x : int missing)`, diagnostics.ErrT002)
}

func TestUnboundVariableDoesNotCascade(t *testing.T) {
	// The let still binds x, so the set after it stays clean.
	expectCodes(t, `(let x : int missing) (set x 2)`, diagnostics.ErrT002)
}

func TestUnboundCall(t *testing.T) {
	expectCodes(t, `(foo 1)`, diagnostics.ErrT002)
}

func TestUnknownOperator(t *testing.T) {
	expectCodes(t, `(!= 1 2)`, diagnostics.ErrT012)
}

func TestExpectedFunctionName(t *testing.T) {
	_, _, errs := inferSource(t, `((f) 1)`)
	if len(errs) != 1 || errs[0].Code != diagnostics.ErrT011 {
		t.Fatalf("got %v, want one T011", errs)
	}
}

func TestSetUnbound(t *testing.T) {
	expectCodes(t, `(set y 1)`, diagnostics.ErrT002)
}

func TestMalformedForms(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"let wrong arity", `(let x : int)`},
		{"let missing colon", `(let x int 5)`},
		{"def wrong arity", `(def f : int (x : int))`},
		{"set wrong arity", `(set x)`},
		{"if wrong arity", `(if true 1)`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectCodes(t, tt.input, diagnostics.ErrT001)
		})
	}
}

func TestMalformedFormSkipsChildren(t *testing.T) {
	// The ill-formed let is skipped whole: the unbound name inside it is
	// not visited.
	expectCodes(t, `(let x int missing)`, diagnostics.ErrT001)
}

func TestRecursion(t *testing.T) {
	expectCodes(t, `(def fact : int (n : int) (if (= n 0) 1 (* n (fact (- n 1)))))`)
}

func TestPolymorphicReuseAcrossCalls(t *testing.T) {
	expectCodes(t, `
		(def id : 'a (x : 'a) x)
		(let a : int (id 5))
		(let b : string (id "s"))
	`)
}

func TestParameterMonomorphicInsideBody(t *testing.T) {
	// x is one variable inside the body: the if condition pins it to
	// bool, so the arithmetic use fails even though the def binding is
	// polymorphic across calls.
	expectCodes(t, `(def f : int (x : 'a) (if x (+ x 1) 0))`, diagnostics.ErrT010)
}

func TestSetMonomorphizesBinding(t *testing.T) {
	// Before the set, p would instantiate fresh at every use; after it,
	// p is pinned to int, so a string context fails.
	expectCodes(t, `
		(let p : 'a 1)
		(set p 2)
		(let q : string p)
	`, diagnostics.ErrT005)
}

func TestLinkedAnnotationSpellings(t *testing.T) {
	// Both 'a occurrences in one def share a variable, so the argument
	// type fixes the return type.
	expectCodes(t, `
		(def id : 'a (x : 'a) x)
		(let n : string (id 5))
	`, diagnostics.ErrT005)
}

func TestRecursiveUnification(t *testing.T) {
	expectCodes(t, `(def f : 'a (x : 'a) (f x x))`, diagnostics.ErrT004)
}

func TestArityMismatchInCall(t *testing.T) {
	expectCodes(t, `(def f : int (x : int) x) (f 1 2)`, diagnostics.ErrT010)
}

func TestConditionTypeFlowsFromParameter(t *testing.T) {
	expectCodes(t, `(def f : int (b : bool x : int) (if b x 0)) (f true 3)`)
}

func TestInlineMarkerIsFresh(t *testing.T) {
	// A bare 'x in value position is a fresh variable, so it unifies
	// with any declared type.
	expectCodes(t, `(let v : int 'x)`)
}

func TestHigherOrderFunction(t *testing.T) {
	typ := lastFormType(t, `
		(def twice : int (f : 'a n : int) (f (f n)))
		(def inc : int (n : int) (+ n 1))
		(twice inc 5)
	`)
	if diff := cmp.Diff(typesystem.Type(typesystem.Int), typ); diff != "" {
		t.Errorf("call type (-want +got):\n%s", diff)
	}
}

func TestEmptyProgram(t *testing.T) {
	expectCodes(t, `; nothing but a comment`)
}

func TestBuiltinOperatorTypes(t *testing.T) {
	a := New()
	RegisterBuiltins(a.GlobalScope())

	tests := []struct {
		name string
		want string
	}{
		{"+", "(int -> (int -> int))"},
		{"-", "(int -> (int -> int))"},
		{"*", "(int -> (int -> int))"},
		{"/", "(int -> (int -> int))"},
		{"=", "(int -> (int -> bool))"},
		{"<", "(int -> (int -> bool))"},
		{">", "(int -> (int -> bool))"},
	}

	for _, tt := range tests {
		typ, ok := a.GlobalScope().LookupType(tt.name)
		if !ok {
			t.Errorf("operator %s not registered", tt.name)
			continue
		}
		if got := typ.String(); got != tt.want {
			t.Errorf("%s : %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestKeywordsAreNotBindings(t *testing.T) {
	// Structural keywords are skipped by the walker, not typed, so they
	// must not appear in the global scope.
	a := New()
	RegisterBuiltins(a.GlobalScope())

	for _, kw := range []string{"let", "def", "set", "if", ":", "int", "bool"} {
		if _, ok := a.GlobalScope().LookupType(kw); ok {
			t.Errorf("%q is registered as a binding", kw)
		}
	}
}

func TestIsOperatorLexeme(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"+", true},
		{"!=", true},
		{"<=", true},
		{"x", false},
		{"-5", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := IsOperatorLexeme(tt.name); got != tt.want {
			t.Errorf("IsOperatorLexeme(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
