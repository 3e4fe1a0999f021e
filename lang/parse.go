package lang

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// ParseString parses src into an AST.
//
// Parsing never stops at the first error. When src has lexical or syntax
// errors the returned error is a [*SyntaxError] carrying every diagnostic,
// and the returned AST is still usable for inspection: each region that
// failed to parse is represented by a [Bad] node.
func ParseString(ctx context.Context, src string, opts ...Option) (*AST, error) {
	toks, lexDiags := Lex(src)
	stmts, parseDiags := ParseTokens(toks)

	return makeAST(ctx, makeConfig(opts...), src, stmts,
		sortDiagnostics(lexDiags, parseDiags), len(toks))
}

func makeAST(
	ctx context.Context,
	cfg config,
	src string,
	stmts []Node,
	diags []Diagnostic,
	tokenCount int,
) (*AST, error) {
	ast := &AST{
		logger: cfg.logger,
		Name:   cfg.name,
		Source: src,
		Stmts:  stmts,
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.String("source", cfg.name),
		slog.Int("token_count", tokenCount),
		slog.Int("statement_count", len(stmts)),
		slog.Int("diagnostic_count", len(diags)),
	)

	if len(diags) > 0 {
		return ast, &SyntaxError{Name: cfg.name, Source: src, Diagnostics: diags}
	}

	return ast, nil
}

// sortDiagnostics merges lexical and syntax diagnostics in source order.
func sortDiagnostics(lex, parse []Diagnostic) []Diagnostic {
	diags := slices.Concat(lex, parse)
	slices.SortStableFunc(diags, func(a, b Diagnostic) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})

	return diags
}

// ParseTokens parses a token stream produced by [Lex] into top-level
// statements, collecting syntax diagnostics along the way.
func ParseTokens(toks []Token) ([]Node, []Diagnostic) {
	if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEOF {
		end := 0
		if len(toks) > 0 {
			end = toks[len(toks)-1].Span.End
		}

		toks = append(slices.Clip(toks), Token{
			Kind: TokenEOF,
			Span: Span{Start: end, End: end},
		})
	}

	p := &parser{toks: toks}

	return p.program(), p.diags
}

// parser holds the parser state.
type parser struct {
	toks   []Token
	diags  []Diagnostic
	labels []Label
	last   Span // span of the most recently consumed token
	pos    int
	nest   int // newlines are insignificant while nest > 0
}

func (p *parser) program() []Node {
	var stmts []Node

	for {
		p.skipTerminators()

		if p.peek().Kind == TokenEOF {
			return stmts
		}

		stmts = append(stmts, p.terminated())
	}
}

// terminated parses one statement and the terminator that must follow it.
// A missing terminator is only reported when the statement itself parsed
// cleanly; either way the parser resynchronizes at the next terminator.
func (p *parser) terminated() Node {
	mark := len(p.diags)
	stmt := p.statement()

	tok := p.peek()
	if isTerminator(tok) || tok.Is(TokenDelim, "}") {
		return stmt
	}

	if len(p.diags) == mark {
		p.errorf(tok.Span, "expected end of statement, found %s", tok)
	}

	p.synchronize()

	return stmt
}

func (p *parser) statement() Node {
	tok := p.peek()

	switch tok.Kind {
	case TokenKeyword:
		switch tok.Text {
		case "let":
			return p.letStmt()
		case "fn":
			return p.fnStmt()
		case "return":
			return p.returnStmt()
		case "if":
			return p.ifStmt()
		case "else":
			return p.elseStmt()
		case "while":
			return p.whileStmt()
		}

	case TokenIdent:
		if p.peekAt(1).Is(TokenSymbol, "=") {
			return p.assignStmt()
		}

	case TokenDelim:
		switch tok.Text {
		case "{":
			if !p.objectAhead() {
				return p.block()
			}

		case ")", "]", "}":
			p.next()
			p.errorf(tok.Span, "unmatched closing delimiter %s", tok)

			return &Bad{node{tok.Span}}
		}
	}

	return p.expr()
}

func (p *parser) assignStmt() Node {
	name := p.next()
	defer p.enter("assignment", name.Span)()

	p.next() // '='
	value := p.expr()

	return &Assign{
		Name:  name.Text,
		Value: value,
		node:  node{name.Span.Join(value.Span())},
	}
}

func (p *parser) letStmt() Node {
	kw := p.next()
	defer p.enter("let statement", kw.Span)()

	name, ok := p.ident()
	if !ok {
		return p.bad(kw.Span)
	}

	var value Node = lit(Undefined{}, name.Span)

	if p.peek().Is(TokenSymbol, "=") {
		p.next()
		value = p.expr()
	}

	return &Let{
		Name:  name.Text,
		Value: value,
		node:  node{kw.Span.Join(p.last)},
	}
}

func (p *parser) fnStmt() Node {
	kw := p.next()
	defer p.enter("function declaration", kw.Span)()

	name, ok := p.ident()
	if !ok {
		return p.bad(kw.Span)
	}

	params, ok := p.params()
	if !ok {
		return p.bad(kw.Span)
	}

	var body Node

	switch tok := p.peek(); {
	case tok.Is(TokenSymbol, "="):
		p.next()

		value := p.expr()
		body = &Return{Value: value, node: node{value.Span()}}

	case tok.Is(TokenDelim, "{"):
		body = p.block()

	default:
		p.errorf(tok.Span, "expected '=' or '{', found %s", tok)

		return p.bad(kw.Span)
	}

	return &Func{
		Name:   name.Text,
		Params: params,
		Body:   body,
		node:   node{kw.Span.Join(p.last)},
	}
}

func (p *parser) params() ([]string, bool) {
	open := p.peek()
	if !open.Is(TokenDelim, "(") {
		p.errorf(open.Span, "expected '(', found %s", open)

		return nil, false
	}

	p.next()
	p.nest++

	var params []string

	for {
		tok := p.peek()
		if tok.Kind != TokenIdent {
			break
		}

		p.next()
		params = append(params, tok.Text)

		if !p.peek().Is(TokenSymbol, ",") {
			break
		}

		p.next()
	}

	_, ok := p.closeDelim(open, ")")

	return params, ok
}

func (p *parser) returnStmt() Node {
	kw := p.next()
	defer p.enter("return statement", kw.Span)()

	if tok := p.peek(); isTerminator(tok) || tok.Is(TokenDelim, "}") {
		return &Return{Value: lit(Undefined{}, kw.Span), node: node{kw.Span}}
	}

	value := p.expr()

	return &Return{Value: value, node: node{kw.Span.Join(value.Span())}}
}

func (p *parser) ifStmt() Node {
	kw := p.next()
	defer p.enter("if statement", kw.Span)()

	cond := p.expr()
	then := p.body()

	var els Node

	if p.peek().Is(TokenKeyword, "else") {
		p.next()
		els = p.elseBody()
	}

	return &If{
		Cond: cond,
		Then: then,
		Else: els,
		node: node{kw.Span.Join(p.last)},
	}
}

// elseStmt parses an else branch that begins its own statement. It is
// attached to the preceding if statement by the merge pass that runs before
// evaluation and optimization, or reported at run time if there is none.
func (p *parser) elseStmt() Node {
	kw := p.next()
	defer p.enter("else branch", kw.Span)()

	body := p.elseBody()

	return &Else{Body: body, node: node{kw.Span.Join(p.last)}}
}

func (p *parser) elseBody() Node {
	if p.peek().Is(TokenKeyword, "if") {
		return p.ifStmt()
	}

	return p.body()
}

func (p *parser) whileStmt() Node {
	kw := p.next()
	defer p.enter("while loop", kw.Span)()

	cond := p.expr()
	body := p.body()

	return &While{
		Cond: cond,
		Body: body,
		node: node{kw.Span.Join(p.last)},
	}
}

func (p *parser) body() Node {
	tok := p.peek()
	if tok.Is(TokenDelim, "{") {
		return p.block()
	}

	p.errorf(tok.Span, "expected '{', found %s", tok)

	return &Bad{node{Span{Start: tok.Span.Start, End: tok.Span.Start}}}
}

// block parses '{' statement* '}'. A block containing any syntax error is
// replaced as a whole by a Bad node spanning it.
func (p *parser) block() Node {
	open := p.next()
	defer p.enter("block", open.Span)()

	nest := p.nest
	p.nest = 0

	defer func() { p.nest = nest }()

	mark := len(p.diags)

	var stmts []Node

	for {
		p.skipTerminators()

		tok := p.peek()
		if tok.Is(TokenDelim, "}") {
			p.next()

			break
		}

		if tok.Kind == TokenEOF {
			p.errorf(open.Span, "unclosed delimiter %s", open)

			break
		}

		stmts = append(stmts, p.terminated())
	}

	span := open.Span.Join(p.last)
	if len(p.diags) > mark {
		return &Bad{node{span}}
	}

	return &Block{Stmts: stmts, node: node{span}}
}

// objectAhead reports whether the '{' at the current position opens an
// object literal rather than a block: its first entry is a literal key
// followed by ':'.
func (p *parser) objectAhead() bool {
	i := p.skipNewlines(p.index(p.pos) + 1)

	key := p.toks[i]
	if key.Kind != TokenString && key.Kind != TokenNumber {
		return false
	}

	return p.toks[p.skipNewlines(i+1)].Is(TokenSymbol, ":")
}

// synchronize discards tokens up to the next statement boundary: a newline,
// or a ';' or '}' outside of any nested delimiters.
func (p *parser) synchronize() {
	depth := 0

	for {
		tok := p.peek()

		switch {
		case tok.Kind == TokenEOF, tok.Kind == TokenNewline:
			return
		case depth == 0 && (tok.Is(TokenSymbol, ";") || tok.Is(TokenDelim, "}")):
			return
		case tok.Kind == TokenDelim && isOpener(tok.Text):
			depth++
		case tok.Kind == TokenDelim && depth > 0:
			depth--
		}

		p.next()
	}
}

func (p *parser) skipTerminators() {
	for tok := p.peek(); tok.Kind == TokenNewline || tok.Is(TokenSymbol, ";"); tok = p.peek() {
		p.next()
	}
}

func (p *parser) ident() (Token, bool) {
	tok := p.peek()
	if tok.Kind != TokenIdent {
		p.errorf(tok.Span, "expected identifier, found %s", tok)

		return Token{}, false
	}

	return p.next(), true
}

func (p *parser) bad(start Span) Node {
	return &Bad{node{start.Join(p.last)}}
}

// Token access

func (p *parser) skipNewlines(i int) int {
	for p.toks[i].Kind == TokenNewline {
		i++
	}

	return i
}

// index returns the position of the next significant token at or after i.
func (p *parser) index(i int) int {
	if p.nest > 0 {
		return p.skipNewlines(i)
	}

	return i
}

func (p *parser) peek() Token {
	return p.toks[p.index(p.pos)]
}

func (p *parser) peekAt(n int) Token {
	i := p.index(p.pos)

	for ; n > 0 && p.toks[i].Kind != TokenEOF; n-- {
		i = p.index(i + 1)
	}

	return p.toks[i]
}

func (p *parser) next() Token {
	i := p.index(p.pos)
	tok := p.toks[i]

	if tok.Kind != TokenEOF {
		p.pos = i + 1
		p.last = tok.Span
	}

	return tok
}

// Diagnostics

// enter pushes a production label that is attached to every diagnostic
// raised until the returned function pops it.
func (p *parser) enter(production string, start Span) func() {
	p.labels = append(p.labels, Label{Production: production, Span: start})

	return func() { p.labels = p.labels[:len(p.labels)-1] }
}

func (p *parser) errorf(span Span, format string, args ...any) {
	d := Diagnostic{
		Message: fmt.Sprintf(format, args...),
		Span:    span,
		Labels:  make([]Label, 0, len(p.labels)),
	}

	for i := len(p.labels) - 1; i >= 0; i-- {
		l := p.labels[i]
		d.Labels = append(d.Labels, Label{
			Production: l.Production,
			Span:       Span{Start: l.Span.Start, End: max(span.End, l.Span.End)},
		})
	}

	p.diags = append(p.diags, d)
}

func isTerminator(tok Token) bool {
	return tok.Kind == TokenNewline || tok.Kind == TokenEOF ||
		tok.Is(TokenSymbol, ";")
}

func isOpener(s string) bool {
	return s == "(" || s == "[" || s == "{"
}
