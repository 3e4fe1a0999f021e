package lang

// builtinPrint is the name of the reserved print built-in.
const builtinPrint = "print"

// Binary operator precedence, lowest first. All levels are left-associative.
const (
	precLogical = 1 + iota
	precCompare
	precSum
	precProduct
)

func binaryOperator(tok Token) (Op, int, bool) {
	if tok.Kind != TokenSymbol {
		return 0, 0, false
	}

	switch tok.Text {
	case "&&", "and":
		return OpAnd, precLogical, true
	case "||", "or":
		return OpOr, precLogical, true
	case "==":
		return OpEq, precCompare, true
	case "!=":
		return OpNeq, precCompare, true
	case "<":
		return OpLt, precCompare, true
	case "<=":
		return OpLte, precCompare, true
	case ">":
		return OpGt, precCompare, true
	case ">=":
		return OpGte, precCompare, true
	case "+":
		return OpAdd, precSum, true
	case "-":
		return OpSub, precSum, true
	case "*":
		return OpMul, precProduct, true
	case "/":
		return OpDiv, precProduct, true
	case "%":
		return OpMod, precProduct, true
	}

	return 0, 0, false
}

func (p *parser) expr() Node {
	return p.binary(precLogical)
}

// binary parses operators of at least minPrec by precedence climbing.
func (p *parser) binary(minPrec int) Node {
	left := p.unary()

	for {
		op, prec, ok := binaryOperator(p.peek())
		if !ok || prec < minPrec {
			return left
		}

		p.next()

		right := p.binary(prec + 1)
		left = &Binary{
			Left:  left,
			Right: right,
			Op:    op,
			node:  node{left.Span().Join(right.Span())},
		}
	}
}

func (p *parser) unary() Node {
	tok := p.peek()

	var op Op

	switch {
	case tok.Is(TokenSymbol, "!"):
		op = OpNot
	case tok.Is(TokenSymbol, "-"):
		op = OpNeg
	default:
		return p.postfix()
	}

	p.next()

	x := p.unary()

	return &Unary{X: x, Op: op, node: node{tok.Span.Join(x.Span())}}
}

func (p *parser) postfix() Node {
	x := p.primary()

	for p.peek().Is(TokenDelim, "(") {
		args, end, ok := p.args()
		if !ok {
			x = &Bad{node{x.Span().Join(end)}}

			continue
		}

		x = &Call{Callee: x, Args: args, node: node{x.Span().Join(end)}}
	}

	return x
}

func (p *parser) primary() Node {
	tok := p.peek()

	switch tok.Kind {
	case TokenNumber:
		p.next()

		return lit(Number(tok.Num), tok.Span)

	case TokenString:
		p.next()

		return lit(String(tok.Text), tok.Span)

	case TokenBool:
		p.next()

		return lit(Bool(tok.Text == "true"), tok.Span)

	case TokenIdent:
		p.next()

		if tok.Text == builtinPrint && p.peek().Is(TokenDelim, "(") {
			args, end, ok := p.args()
			if !ok {
				return &Bad{node{tok.Span.Join(end)}}
			}

			return &Builtin{Name: tok.Text, Args: args, node: node{tok.Span.Join(end)}}
		}

		return &Ident{Name: tok.Text, node: node{tok.Span}}

	case TokenDelim:
		switch tok.Text {
		case "(":
			return p.group()
		case "[":
			return p.vector()
		case "{":
			return p.object()
		}

	case TokenSymbol:
		// A stray infix operator in operand position is reported and
		// skipped so that the operand after it still parses.
		if _, _, ok := binaryOperator(tok); ok && startsOperand(p.peekAt(1)) {
			p.next()
			p.errorf(tok.Span, "unexpected operator %s, expected expression", tok)

			return p.unary()
		}

		if !isStructural(tok) {
			p.next()
			p.errorf(tok.Span, "unexpected %s, expected expression", tok)

			return &Bad{node{tok.Span}}
		}
	}

	p.errorf(tok.Span, "expected expression, found %s", tok)

	return &Bad{node{Span{Start: tok.Span.Start, End: tok.Span.Start}}}
}

func (p *parser) group() Node {
	open := p.next()
	defer p.enter("parenthesized expression", open.Span)()

	p.nest++

	inner := p.expr()

	end, ok := p.closeDelim(open, ")")
	if !ok {
		return &Bad{node{open.Span.Join(end)}}
	}

	return inner
}

func (p *parser) vector() Node {
	open := p.next()
	defer p.enter("vector", open.Span)()

	p.nest++

	elems := p.list("]")

	end, ok := p.closeDelim(open, "]")
	if !ok {
		return &Bad{node{open.Span.Join(end)}}
	}

	return &VectorLit{Elems: elems, node: node{open.Span.Join(end)}}
}

func (p *parser) args() ([]Node, Span, bool) {
	open := p.next()
	defer p.enter("call arguments", open.Span)()

	p.nest++

	args := p.list(")")

	end, ok := p.closeDelim(open, ")")

	return args, open.Span.Join(end), ok
}

// list parses comma-separated expressions up to closer, allowing a trailing
// comma. The closer itself is left for closeDelim.
func (p *parser) list(closer string) []Node {
	var elems []Node

	for !p.peek().Is(TokenDelim, closer) {
		elems = append(elems, p.expr())

		if !p.peek().Is(TokenSymbol, ",") {
			break
		}

		p.next()
	}

	return elems
}

func (p *parser) object() Node {
	open := p.next()
	defer p.enter("object", open.Span)()

	p.nest++

	var entries []Entry

	for !p.peek().Is(TokenDelim, "}") {
		tok := p.peek()

		var key Key

		switch tok.Kind {
		case TokenString:
			key = StringKey(tok.Text)
		case TokenNumber:
			key = NumberKey(tok.Num)
		default:
			p.errorf(tok.Span, "expected object key, found %s", tok)

			return p.abandon(open, "}")
		}

		p.next()

		if colon := p.peek(); !colon.Is(TokenSymbol, ":") {
			p.errorf(colon.Span, "expected ':', found %s", colon)

			return p.abandon(open, "}")
		}

		p.next()

		entries = append(entries, Entry{Key: key, Value: p.expr()})

		if !p.peek().Is(TokenSymbol, ",") {
			break
		}

		p.next()
	}

	end, ok := p.closeDelim(open, "}")
	if !ok {
		return &Bad{node{open.Span.Join(end)}}
	}

	return &ObjectLit{Entries: entries, node: node{open.Span.Join(end)}}
}

// closeDelim consumes the closer matching open. If the next token is not the
// closer, it skips ahead to the matching closer when one exists before the
// next statement keyword, and otherwise reports the delimiter as unclosed
// without consuming anything. It must be called with p.nest incremented for
// open, and decrements it.
func (p *parser) closeDelim(open Token, closer string) (Span, bool) {
	tok := p.peek()
	if tok.Is(TokenDelim, closer) {
		p.next()
		p.nest--

		return tok.Span, true
	}

	p.nest--

	if i, ok := p.matchingClose(closer); ok {
		p.errorf(tok.Span, "expected '%s', found %s", closer, tok)
		p.pos, p.last = i+1, p.toks[i].Span

		return p.last, false
	}

	p.errorf(open.Span, "unclosed delimiter %s", open)

	return p.last, false
}

// abandon gives up on the delimited construct opened by open after an error
// has already been reported, skipping to its matching closer if possible.
func (p *parser) abandon(open Token, closer string) Node {
	p.nest--

	if i, ok := p.matchingClose(closer); ok {
		p.pos, p.last = i+1, p.toks[i].Span
	}

	return &Bad{node{open.Span.Join(p.last)}}
}

// matchingClose finds the index of the closer that balances the delimiters
// from the current position, giving up at a statement keyword outside nested
// delimiters, at a mismatched closer or at end of input.
func (p *parser) matchingClose(closer string) (int, bool) {
	depth := 0

	for i := p.pos; i < len(p.toks); i++ {
		t := p.toks[i]

		switch {
		case t.Kind == TokenEOF:
			return 0, false
		case t.Kind == TokenKeyword && depth == 0:
			return 0, false
		case t.Kind == TokenDelim && isOpener(t.Text):
			depth++
		case t.Kind == TokenDelim:
			if depth == 0 {
				return i, t.Text == closer
			}

			depth--
		}
	}

	return 0, false
}

// startsOperand reports whether tok can begin an operand.
func startsOperand(tok Token) bool {
	switch tok.Kind {
	case TokenNumber, TokenString, TokenBool, TokenIdent:
		return true
	case TokenDelim:
		return isOpener(tok.Text)
	case TokenSymbol:
		return tok.Text == "!" || tok.Text == "-"
	default:
		return false
	}
}

// isStructural reports whether tok delimits statements or constructs and so
// must not be consumed by expression recovery.
func isStructural(tok Token) bool {
	switch tok.Kind {
	case TokenNewline, TokenEOF, TokenKeyword, TokenDelim:
		return true
	case TokenSymbol:
		return tok.Text == ";" || tok.Text == "," || tok.Text == ":"
	default:
		return false
	}
}
