package typesystem

// InferenceContext carries the state shared by a single inference pass:
// the fresh-variable counter and the unifier with its substitution. It is
// passed explicitly rather than held in package globals so concurrent
// passes over different programs never interfere.
type InferenceContext struct {
	nextID  int
	unifier *Unifier
}

func NewInferenceContext() *InferenceContext {
	return &InferenceContext{unifier: NewUnifier()}
}

// FreshVar allocates the next type variable. Ids increase monotonically
// for the lifetime of the context.
func (c *InferenceContext) FreshVar() TVar {
	id := c.nextID
	c.nextID++
	return TVar{ID: id}
}

func (c *InferenceContext) Unifier() *Unifier { return c.unifier }

// Resolve normalizes t against the current substitution.
func (c *InferenceContext) Resolve(t Type) Type {
	return c.unifier.Resolve(t)
}
