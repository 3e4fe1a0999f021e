package lang

import "slices"

// eliminate removes dead stores from a statement list and from every list
// nested in it.
//
// A declaration whose name is never read in its scope is removed along with
// every assignment to it. A store that is overwritten by a later assignment
// in the same list, with no possible read of the name in between, is
// removed too; if that store was the declaration, the overwriting
// assignment becomes the declaration. Removed stores whose values have side
// effects leave their value behind as an expression statement. Vacated
// [Empty] slots are dropped.
//
// Plain blocks share their enclosing scope, so their statements are
// spliced into the enclosing list. Top-level declarations of names in
// shared are read by other programs and always stay.
func eliminate(stmts []Node, shared map[string]struct{}) []Node {
	return dropOverwritten(dropUnread(splice(stmts), shared))
}

// eliminateBody is eliminate for a list whose running result is observable,
// such as a function or branch body. If the list ended in a store, which
// yields undefined, the result still ends in undefined.
func eliminateBody(stmts []Node) []Node {
	out := dropOverwritten(dropUnread(splice(stmts), nil))

	if len(out) > 0 && undefinedResult(stmts) && !undefinedResult(out) {
		out = append(out, lit(Undefined{}, stmts[len(stmts)-1].Span()))
	}

	return out
}

// splice flattens plain blocks into stmts and eliminates inside every
// nested body.
func splice(stmts []Node) []Node {
	out := make([]Node, 0, len(stmts))

	for _, s := range stmts {
		switch s := s.(type) {
		case *Empty:
		case *Block:
			out = append(out, splice(s.Stmts)...)
		default:
			out = append(out, descend(s, eliminateBody))
		}
	}

	return out
}

// undefinedResult reports whether running stmts in order always yields
// undefined when no return is reached.
func undefinedResult(stmts []Node) bool {
	for _, s := range slices.Backward(stmts) {
		switch s := s.(type) {
		case *Empty:
			continue
		case *Let, *Assign, *Func:
			return true
		case *Block:
			return undefinedResult(s.Stmts)
		default:
			return false
		}
	}

	return true
}

// dropUnread removes declarations nobody reads, other than those in
// shared, repeating until removing one no longer makes another unread.
func dropUnread(stmts []Node, shared map[string]struct{}) []Node {
	for {
		i := slices.IndexFunc(stmts, func(s Node) bool {
			name, ok := declaredName(s)
			if _, keep := shared[name]; keep {
				return false
			}

			return ok && unread(stmts, name)
		})
		if i < 0 {
			return stmts
		}

		name, _ := declaredName(stmts[i])
		out := make([]Node, 0, len(stmts))

		for _, s := range stmts {
			if !isStoreTo(s, name) {
				out = append(out, s)

				continue
			}

			if v := storedValue(s); v != nil && hasEffect(v) {
				out = append(out, v)
			}
		}

		stmts = out
	}
}

// unread reports whether name is never read in stmts and is not assigned
// anywhere but at the top level of stmts.
func unread(stmts []Node, name string) bool {
	for _, s := range stmts {
		if reads(s, name) {
			return false
		}

		if isStoreTo(s, name) {
			continue
		}

		if writes(s, name) {
			return false
		}
	}

	return true
}

func dropOverwritten(stmts []Node) []Node {
	out := slices.Clone(stmts)

	for i := 0; i < len(out); {
		name, ok := assignedName(out[i])
		if !ok {
			i++

			continue
		}

		j, ok := overwrittenAt(out, i, name)
		if !ok {
			i++

			continue
		}

		if _, isLet := out[i].(*Let); isLet {
			a := out[j].(*Assign) //nolint:forcetypeassert // checked by overwrittenAt
			out[j] = &Let{Name: a.Name, Value: a.Value, node: a.node}
		}

		if v := storedValue(out[i]); hasEffect(v) {
			out[i] = v
			i++

			continue
		}

		out = slices.Delete(out, i, i+1)
	}

	return out
}

// overwrittenAt returns the index of the assignment that overwrites the
// store at i before anything can observe it.
func overwrittenAt(stmts []Node, i int, name string) (int, bool) {
	for j := i + 1; j < len(stmts); j++ {
		s := stmts[j]

		if a, ok := s.(*Assign); ok && a.Name == name {
			return j, !reads(a.Value, name) && !hasCall(a.Value)
		}

		// A call may read the name through a closure, and a return may
		// leave it visible to the caller.
		if reads(s, name) || writes(s, name) || hasCall(s) || hasReturn(s) {
			return 0, false
		}
	}

	return 0, false
}

func isStoreTo(n Node, name string) bool {
	switch n := n.(type) {
	case *Let:
		return n.Name == name
	case *Assign:
		return n.Name == name
	case *Func:
		return n.Name == name
	}

	return false
}

// assignedName returns the variable written by a let or assignment.
func assignedName(n Node) (string, bool) {
	switch n := n.(type) {
	case *Let:
		return n.Name, true
	case *Assign:
		return n.Name, true
	}

	return "", false
}

func storedValue(n Node) Node {
	switch n := n.(type) {
	case *Let:
		return n.Value
	case *Assign:
		return n.Value
	}

	return nil
}
