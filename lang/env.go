package lang

import (
	"maps"
	"slices"
)

// Env is one lexical scope: a set of bindings plus a link to the enclosing
// scope. Scopes are shared by reference between the evaluator and the
// functions that capture them.
type Env struct {
	vars   map[string]Value
	parent *Env
}

// NewEnv returns an empty scope nested inside parent, which may be nil for a
// root scope.
func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value), parent: parent}
}

// Parent returns the enclosing scope, or nil for a root scope.
func (e *Env) Parent() *Env { return e.parent }

// Get looks name up in this scope and then each enclosing scope in turn.
func (e *Env) Get(name string) (Value, error) {
	for s := e; s != nil; s = s.parent {
		if v, ok := s.vars[name]; ok {
			return v, nil
		}
	}

	return nil, ErrUndefinedVariable.Wrapf("%s", name)
}

// Set replaces the value of the nearest existing binding of name.
func (e *Env) Set(name string, v Value) error {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.vars[name]; ok {
			s.vars[name] = v

			return nil
		}
	}

	return ErrAssignUndefined.Wrapf("%s", name)
}

// Define creates a binding in this scope. It fails if this scope already
// binds name; bindings in enclosing scopes are shadowed.
func (e *Env) Define(name string, v Value) error {
	if _, ok := e.vars[name]; ok {
		return ErrRedefinition.Wrapf("%s", name)
	}

	e.vars[name] = v

	return nil
}

// Names returns the sorted names visible from this scope.
func (e *Env) Names() []string {
	seen := make(map[string]struct{})

	for s := e; s != nil; s = s.parent {
		for name := range s.vars {
			seen[name] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen))
}
