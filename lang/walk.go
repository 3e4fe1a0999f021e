package lang

// children returns the direct child nodes of n in source order. The returned
// slice is always freshly allocated.
func children(n Node) []Node {
	switch n := n.(type) {
	case *Unary:
		return []Node{n.X}
	case *Binary:
		return []Node{n.Left, n.Right}
	case *Call:
		return append([]Node{n.Callee}, n.Args...)
	case *Builtin:
		return append([]Node(nil), n.Args...)
	case *VectorLit:
		return append([]Node(nil), n.Elems...)
	case *ObjectLit:
		cs := make([]Node, len(n.Entries))
		for i, e := range n.Entries {
			cs[i] = e.Value
		}

		return cs
	case *Let:
		return []Node{n.Value}
	case *Assign:
		return []Node{n.Value}
	case *Block:
		return append([]Node(nil), n.Stmts...)
	case *Func:
		return []Node{n.Body}
	case *Return:
		return []Node{n.Value}
	case *If:
		if n.Else == nil {
			return []Node{n.Cond, n.Then}
		}

		return []Node{n.Cond, n.Then, n.Else}
	case *Else:
		return []Node{n.Body}
	case *While:
		return []Node{n.Cond, n.Body}
	default:
		return nil
	}
}

// withChildren returns a shallow copy of n with its children replaced by cs,
// which must be shaped like the result of children(n).
func withChildren(n Node, cs []Node) Node {
	switch n := n.(type) {
	case *Unary:
		c := *n
		c.X = cs[0]

		return &c
	case *Binary:
		c := *n
		c.Left, c.Right = cs[0], cs[1]

		return &c
	case *Call:
		c := *n
		c.Callee, c.Args = cs[0], cs[1:]

		return &c
	case *Builtin:
		c := *n
		c.Args = cs

		return &c
	case *VectorLit:
		c := *n
		c.Elems = cs

		return &c
	case *ObjectLit:
		c := *n
		c.Entries = make([]Entry, len(n.Entries))

		for i, e := range n.Entries {
			c.Entries[i] = Entry{Key: e.Key, Value: cs[i]}
		}

		return &c
	case *Let:
		c := *n
		c.Value = cs[0]

		return &c
	case *Assign:
		c := *n
		c.Value = cs[0]

		return &c
	case *Block:
		c := *n
		c.Stmts = cs

		return &c
	case *Func:
		c := *n
		c.Body = cs[0]

		return &c
	case *Return:
		c := *n
		c.Value = cs[0]

		return &c
	case *If:
		c := *n
		c.Cond, c.Then = cs[0], cs[1]

		if len(cs) > 2 {
			c.Else = cs[2]
		}

		return &c
	case *Else:
		c := *n
		c.Body = cs[0]

		return &c
	case *While:
		c := *n
		c.Cond, c.Body = cs[0], cs[1]

		return &c
	default:
		return n
	}
}

// rewrite applies f to every node of the tree rooted at n, children first,
// and returns the resulting tree. Nodes whose subtrees f leaves unchanged
// are reused; nothing in the input tree is modified.
func rewrite(n Node, f func(Node) Node) Node {
	if n == nil {
		return nil
	}

	cs := children(n)
	changed := false

	for i, c := range cs {
		if r := rewrite(c, f); r != c {
			cs[i], changed = r, true
		}
	}

	if changed {
		n = withChildren(n, cs)
	}

	return f(n)
}

// inspect calls f for every node of the tree rooted at n in depth-first
// order. Children of a node are skipped when f returns false for it.
func inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}

	for _, c := range children(n) {
		inspect(c, f)
	}
}

// anyNode reports whether pred holds for some node of the tree rooted at n.
func anyNode(n Node, pred func(Node) bool) bool {
	found := false

	inspect(n, func(n Node) bool {
		if found || pred(n) {
			found = true

			return false
		}

		return true
	})

	return found
}

// descend returns a copy of n with fn applied to each statement list nested
// directly inside it: block contents, function bodies, branches and loop
// bodies. Expressions are left alone.
func descend(n Node, fn func([]Node) []Node) Node {
	switch n := n.(type) {
	case *Block:
		c := *n
		c.Stmts = fn(n.Stmts)

		return &c
	case *Func:
		c := *n
		c.Body = descend(n.Body, fn)

		return &c
	case *If:
		c := *n
		c.Then = descend(n.Then, fn)
		c.Else = descend(n.Else, fn)

		return &c
	case *Else:
		c := *n
		c.Body = descend(n.Body, fn)

		return &c
	case *While:
		c := *n
		c.Body = descend(n.Body, fn)

		return &c
	default:
		return n
	}
}

func reads(n Node, name string) bool {
	return anyNode(n, func(n Node) bool {
		id, ok := n.(*Ident)

		return ok && id.Name == name
	})
}

// writes reports whether n assigns or declares name anywhere.
func writes(n Node, name string) bool {
	return anyNode(n, func(n Node) bool {
		switch n := n.(type) {
		case *Assign:
			return n.Name == name
		case *Let:
			return n.Name == name
		case *Func:
			return n.Name == name
		}

		return false
	})
}

func hasCall(n Node) bool {
	return anyNode(n, func(n Node) bool {
		_, ok := n.(*Call)

		return ok
	})
}

// hasEffect reports whether evaluating n can have an observable side effect.
func hasEffect(n Node) bool {
	return anyNode(n, func(n Node) bool {
		switch n.(type) {
		case *Call, *Builtin:
			return true
		}

		return false
	})
}

func hasReturn(n Node) bool {
	return anyNode(n, func(n Node) bool {
		_, ok := n.(*Return)

		return ok
	})
}

// assignedNames returns every name assigned anywhere in n.
func assignedNames(n Node, into map[string]struct{}) {
	inspect(n, func(n Node) bool {
		if a, ok := n.(*Assign); ok {
			into[a.Name] = struct{}{}
		}

		return true
	})
}

// declaredName returns the name bound by a top-level declaration.
func declaredName(n Node) (string, bool) {
	switch n := n.(type) {
	case *Let:
		return n.Name, true
	case *Func:
		return n.Name, true
	}

	return "", false
}

func isEmpty(n Node) bool {
	_, ok := n.(*Empty)

	return ok
}
