package symbols

import (
	"github.com/benbjohnson/immutable"

	"github.com/elricmann/typed-lisp/internal/typesystem"
)

// Symbol is one name binding: the declared type plus the ordered list of
// type-variable ids generalized at the binding. A nonempty PolyVars list
// means every lookup instantiates those ids with fresh variables.
type Symbol struct {
	Name     string
	Type     typesystem.Type
	PolyVars []int
}

var emptyBindings = immutable.NewSortedMap(nil)

// Scope is one node of the lexical scope tree. The local bindings are a
// persistent map, so snapshots taken mid-pass (e.g. for debug dumps) stay
// valid while the scope keeps evolving.
//
// A scope cannot be used concurrently; every pass builds its own tree.
type Scope struct {
	parent   *Scope
	bindings *immutable.SortedMap
	ctx      *typesystem.InferenceContext
}

// NewScope creates a root (global) scope sharing the given inference
// context. The context is logically one per program pass.
func NewScope(ctx *typesystem.InferenceContext) *Scope {
	return &Scope{bindings: emptyBindings, ctx: ctx}
}

// NewEnclosed creates a child scope. Children read through to ancestors
// on lookup; definitions stay local.
func (s *Scope) NewEnclosed() *Scope {
	return &Scope{parent: s, bindings: emptyBindings, ctx: s.ctx}
}

func (s *Scope) Parent() *Scope { return s.parent }

func (s *Scope) Context() *typesystem.InferenceContext { return s.ctx }

// Define inserts a binding into this scope. Redefinition in the same
// scope overwrites the previous entry.
func (s *Scope) Define(name string, t typesystem.Type, polyVars ...int) {
	s.bindings = s.bindings.Set(name, Symbol{Name: name, Type: t, PolyVars: polyVars})
}

// Find resolves name through the scope chain and returns the raw symbol
// without instantiation, along with the scope that owns it.
func (s *Scope) Find(name string) (Symbol, *Scope, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if v, ok := sc.bindings.Get(name); ok {
			return v.(Symbol), sc, true
		}
	}
	return Symbol{}, nil, false
}

// LookupType resolves name and returns its type. When the binding carries
// generalized variables, a fresh instantiation is returned: each
// generalized id is replaced by a new variable, so no two lookups share
// inference state.
func (s *Scope) LookupType(name string) (typesystem.Type, bool) {
	sym, _, ok := s.Find(name)
	if !ok {
		return nil, false
	}
	if len(sym.PolyVars) == 0 {
		return sym.Type, true
	}
	subst := make(typesystem.Subst, len(sym.PolyVars))
	for _, id := range sym.PolyVars {
		subst[id] = s.ctx.FreshVar()
	}
	return sym.Type.Apply(subst), true
}

// Monomorphize drops the generalized list of an existing binding in the
// scope that owns it. Assignment calls this: after the first `set`, a
// binding stops producing fresh copies.
func (s *Scope) Monomorphize(name string) {
	sym, owner, ok := s.Find(name)
	if !ok || len(sym.PolyVars) == 0 {
		return
	}
	owner.bindings = owner.bindings.Set(name, Symbol{Name: name, Type: sym.Type})
}

// Names returns the locally bound names in sorted order.
func (s *Scope) Names() []string {
	names := make([]string, 0, s.bindings.Len())
	itr := s.bindings.Iterator()
	for !itr.Done() {
		k, _ := itr.Next()
		names = append(names, k.(string))
	}
	return names
}
