package lang

// merge attaches each stand-alone else statement to the if statement before
// it, skipping over slots already vacated. The else joins the innermost if
// of an else-if chain that still lacks an else branch, and its own slot
// becomes [Empty]. An else with nothing to attach to is left for the
// evaluator to report.
func merge(stmts []Node) []Node {
	out := make([]Node, len(stmts))

	for i, s := range stmts {
		out[i] = descend(s, merge)
	}

	for i, s := range out {
		e, ok := s.(*Else)
		if !ok {
			continue
		}

		j := i - 1
		for j >= 0 && isEmpty(out[j]) {
			j--
		}

		if j < 0 {
			continue
		}

		if joined, ok := attachElse(out[j], e.Body); ok {
			out[j] = joined
			out[i] = &Empty{node{e.Span()}}
		}
	}

	return out
}

func attachElse(n Node, body Node) (Node, bool) {
	i, ok := n.(*If)
	if !ok {
		return n, false
	}

	c := *i
	c.Pos = i.Span().Join(body.Span())

	if i.Else == nil {
		c.Else = body

		return &c, true
	}

	inner, ok := attachElse(i.Else, body)
	if !ok {
		return n, false
	}

	c.Else = inner

	return &c, true
}
