package lang

type propagator struct {
	// escaped holds names assigned inside some function body or shared with
	// another program. Any call may change them, so their values are never
	// tracked.
	escaped map[string]struct{}
}

// propagate substitutes variables whose values are known literals into the
// statements that follow their assignment, folding the result. Knowledge
// never crosses into function bodies, branch bodies or loop bodies, and
// anything a branch or loop may have assigned is forgotten after it. Names
// in shared may be changed by other programs and are never tracked.
func propagate(stmts []Node, shared map[string]struct{}) []Node {
	p := &propagator{escaped: escapedNames(stmts)}
	for name := range shared {
		p.escaped[name] = struct{}{}
	}

	return p.list(stmts, make(map[string]*Literal))
}

func escapedNames(stmts []Node) map[string]struct{} {
	names := make(map[string]struct{})

	for _, s := range stmts {
		inspect(s, func(n Node) bool {
			if f, ok := n.(*Func); ok {
				assignedNames(f.Body, names)
			}

			return true
		})
	}

	return names
}

func (p *propagator) list(stmts []Node, known map[string]*Literal) []Node {
	out := make([]Node, len(stmts))

	for i, s := range stmts {
		out[i] = p.stmt(s, known)
	}

	return out
}

func (p *propagator) stmt(n Node, known map[string]*Literal) Node {
	switch n := n.(type) {
	case *Let:
		c := *n
		c.Value = p.subst(n.Value, known)
		p.record(c.Name, c.Value, known)

		return &c

	case *Assign:
		c := *n
		c.Value = p.subst(n.Value, known)
		p.record(c.Name, c.Value, known)

		return &c

	case *Block:
		c := *n
		c.Stmts = p.list(n.Stmts, known)

		return &c

	case *Func:
		c := *n
		c.Body = p.body(n.Body)

		return &c

	case *Return:
		c := *n
		c.Value = p.subst(n.Value, known)

		return &c

	case *If:
		c := *n
		c.Cond = p.subst(n.Cond, known)
		c.Then = p.body(n.Then)
		c.Else = p.body(n.Else)
		forget(n, known)

		return &c

	case *Else:
		c := *n
		c.Body = p.body(n.Body)
		forget(n, known)

		return &c

	case *While:
		c := *n
		c.Body = p.body(n.Body)
		forget(n, known)

		return &c

	case *Bad, *Empty:
		return n

	default:
		return p.subst(n, known)
	}
}

// body processes a nested body with nothing known on entry.
func (p *propagator) body(n Node) Node {
	switch n := n.(type) {
	case nil:
		return nil
	case *Block:
		c := *n
		c.Stmts = p.list(n.Stmts, make(map[string]*Literal))

		return &c
	default:
		return p.stmt(n, make(map[string]*Literal))
	}
}

func (p *propagator) record(name string, value Node, known map[string]*Literal) {
	l, ok := value.(*Literal)
	if _, esc := p.escaped[name]; !ok || esc {
		delete(known, name)

		return
	}

	known[name] = l
}

func (p *propagator) subst(n Node, known map[string]*Literal) Node {
	if len(known) == 0 {
		return n
	}

	return foldExpr(rewrite(n, func(n Node) Node {
		id, ok := n.(*Ident)
		if !ok {
			return n
		}

		l, ok := known[id.Name]
		if !ok {
			return n
		}

		return lit(l.Value, id.Span())
	}))
}

// forget drops what is known about every name n may assign.
func forget(n Node, known map[string]*Literal) {
	names := make(map[string]struct{})
	assignedNames(n, names)

	for name := range names {
		delete(known, name)
	}
}
