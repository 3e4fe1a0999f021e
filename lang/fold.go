package lang

// fold evaluates, bottom-up, every operator whose operands are all literals.
// An operator that fails to evaluate is left in place so the error surfaces
// at run time with its source position.
func fold(stmts []Node) []Node {
	out := make([]Node, len(stmts))

	for i, s := range stmts {
		out[i] = foldExpr(s)
	}

	return out
}

func foldExpr(n Node) Node {
	return rewrite(n, foldNode)
}

func foldNode(n Node) Node {
	switch n := n.(type) {
	case *Unary:
		x, ok := n.X.(*Literal)
		if !ok {
			return n
		}

		v, err := UnaryOp(n.Op, x.Value)
		if err != nil {
			return n
		}

		return lit(v, n.Span())

	case *Binary:
		l, ok := n.Left.(*Literal)
		if !ok {
			return n
		}

		r, ok := n.Right.(*Literal)
		if !ok {
			return n
		}

		v, err := BinaryOp(n.Op, l.Value, r.Value)
		if err != nil {
			return n
		}

		return lit(v, n.Span())
	}

	return n
}
