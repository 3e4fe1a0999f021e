package lang

//go:generate go tool stringer --linecomment --type TokenKind,Kind --output kind_string.go

import (
	"strconv"
	"strings"
)

// TokenKind classifies a lexical token.
type TokenKind uint8

const (
	TokenEOF     TokenKind = iota // end of input
	TokenNewline                  // newline
	TokenNumber                   // number
	TokenString                   // string
	TokenBool                     // boolean
	TokenIdent                    // identifier
	TokenKeyword                  // keyword
	TokenSymbol                   // symbol
	TokenDelim                    // delimiter
)

// Span is a half-open range of byte offsets into the source text.
type Span struct {
	Start int
	End   int
}

// Join returns the smallest span covering both s and o.
func (s Span) Join(o Span) Span {
	return Span{Start: min(s.Start, o.Start), End: max(s.End, o.End)}
}

// Position returns the 1-based line and column of the span's start offset
// within src. Columns count runes, not bytes.
func (s Span) Position(src string) (line, col int) {
	start := min(max(s.Start, 0), len(src))
	head := src[:start]
	line = strings.Count(head, "\n") + 1

	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		head = head[i+1:]
	}

	return line, len([]rune(head)) + 1
}

// Token is a single lexical unit with its source span.
type Token struct {
	Text string
	Num  float64
	Span Span
	Kind TokenKind
}

// Is reports whether the token has the given kind and text.
func (t Token) Is(kind TokenKind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// String describes the token for diagnostics.
func (t Token) String() string {
	switch t.Kind {
	case TokenEOF, TokenNewline:
		return t.Kind.String()
	case TokenString:
		return "string " + strconv.Quote(t.Text)
	default:
		return "'" + t.Text + "'"
	}
}

var keywords = map[string]struct{}{
	"let":    {},
	"fn":     {},
	"return": {},
	"if":     {},
	"else":   {},
	"while":  {},
}

// wordOperators are identifiers lexed as logical operator symbols.
var wordOperators = map[string]struct{}{
	"and": {},
	"or":  {},
}

// Keywords returns the reserved words of the language, including the word
// operators and boolean literals.
func Keywords() []string {
	return []string{
		"let", "fn", "return", "if", "else", "while",
		"and", "or", "true", "false", builtinPrint,
	}
}
