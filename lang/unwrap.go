package lang

// unwrap replaces each if statement whose condition is a literal with the
// statements of the branch it would take. The branch runs in the enclosing
// scope afterward, so an if is left alone when that would declare a name
// the enclosing list already declares.
func unwrap(stmts []Node) []Node {
	return unwrapScope(stmts, nil)
}

// unwrapScope unwraps one statement list whose scope also binds reserved,
// such as the parameters of a function body.
func unwrapScope(stmts []Node, reserved []string) []Node {
	out := make([]Node, 0, len(stmts))

	for i, s := range stmts {
		if f, ok := s.(*Func); ok {
			c := *f
			c.Body = descend(f.Body, func(body []Node) []Node {
				return unwrapScope(body, f.Params)
			})
			out = append(out, &c)

			continue
		}

		s = descend(s, unwrap)

		n, ok := s.(*If)
		if !ok {
			out = append(out, s)

			continue
		}

		cond, ok := n.Cond.(*Literal)
		if !ok {
			out = append(out, s)

			continue
		}

		branch := n.Else
		if Truthy(cond.Value) {
			branch = n.Then
		}

		spliced := unwrap(statements(branch))

		if conflicts(spliced, reserved, out, stmts[i+1:]) {
			out = append(out, s)

			continue
		}

		out = append(out, spliced...)
	}

	return out
}

// conflicts reports whether any declaration in spliced names something
// reserved or declared by one of the surrounding statements.
func conflicts(spliced []Node, reserved []string, before, after []Node) bool {
	taken := make(map[string]struct{}, len(reserved))

	for _, name := range reserved {
		taken[name] = struct{}{}
	}

	for _, s := range before {
		declarations(s, taken)
	}

	for _, s := range after {
		declarations(s, taken)
	}

	for _, s := range spliced {
		names := make(map[string]struct{})
		declarations(s, names)

		for name := range names {
			if _, dup := taken[name]; dup {
				return true
			}

			taken[name] = struct{}{}
		}
	}

	return false
}

// declarations adds the names n declares in the scope it runs in. Plain
// blocks share their enclosing scope.
func declarations(n Node, into map[string]struct{}) {
	if b, ok := n.(*Block); ok {
		for _, s := range b.Stmts {
			declarations(s, into)
		}

		return
	}

	if name, ok := declaredName(n); ok {
		into[name] = struct{}{}
	}
}
