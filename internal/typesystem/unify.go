package typesystem

// Unifier maintains the single substitution shared by one inference pass
// and updates it destructively. A failed unification does not roll back
// bindings made during the successful prefix; the walker recovers with a
// fresh variable and keeps going.
type Unifier struct {
	subst Subst
}

func NewUnifier() *Unifier {
	return &Unifier{subst: Subst{}}
}

// Subst exposes the current substitution. Callers must not retain it
// across passes.
func (u *Unifier) Subst() Subst { return u.subst }

// Unify makes t1 and t2 equal under an extension of the substitution, or
// returns a *MismatchError or *RecursiveUnificationError.
func (u *Unifier) Unify(t1, t2 Type) error {
	a := u.prune(t1)
	b := u.prune(t2)

	if av, ok := a.(TVar); ok {
		if bv, ok := b.(TVar); ok && bv.ID == av.ID {
			return nil
		}
		resolved := u.Resolve(b)
		if OccursIn(av.ID, resolved) {
			return &RecursiveUnificationError{Var: av, Type: resolved}
		}
		u.subst[av.ID] = b
		return nil
	}

	if _, ok := b.(TVar); ok {
		return u.Unify(b, a)
	}

	if af, ok := a.(TFunc); ok {
		if bf, ok := b.(TFunc); ok {
			if err := u.Unify(af.Arg, bf.Arg); err != nil {
				return err
			}
			return u.Unify(af.Ret, bf.Ret)
		}
	}

	if ac, ok := a.(TCon); ok {
		if bc, ok := b.(TCon); ok && ac.Name == bc.Name {
			return nil
		}
	}

	return &MismatchError{Expected: u.Resolve(a), Found: u.Resolve(b)}
}

// prune chases a variable to its representative, compressing the chain as
// it goes. Non-variables are returned unchanged.
func (u *Unifier) prune(t Type) Type {
	v, ok := t.(TVar)
	if !ok {
		return t
	}
	bound, ok := u.subst[v.ID]
	if !ok {
		return v
	}
	representative := u.prune(bound)
	u.subst[v.ID] = representative
	return representative
}

// Resolve fully normalizes t by applying the substitution until no bound
// variable remains free. The occurs check keeps the substitution acyclic,
// so this terminates.
func (u *Unifier) Resolve(t Type) Type {
	for {
		bound := false
		for _, id := range t.FreeTypeVars() {
			if _, ok := u.subst[id]; ok {
				bound = true
				break
			}
		}
		if !bound {
			return t
		}
		t = t.Apply(u.subst)
	}
}
