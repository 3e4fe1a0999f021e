package lang

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lex splits src into tokens. Lexical errors are collected rather than
// returned early; the offending input is skipped and scanning resumes. The
// returned token slice always ends with a single [TokenEOF].
func Lex(src string) ([]Token, []Diagnostic) {
	lx := &lexer{src: src}
	lx.run()

	return lx.toks, lx.diags
}

type lexer struct {
	src   string
	toks  []Token
	diags []Diagnostic
	pos   int
}

func (lx *lexer) run() {
	for lx.pos < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[lx.pos:])

		switch {
		case r == '\n':
			lx.emit(TokenNewline, "\n", lx.pos, lx.pos+size)
		case r == '\r' && strings.HasPrefix(lx.src[lx.pos:], "\r\n"):
			lx.emit(TokenNewline, "\n", lx.pos, lx.pos+2)
		case unicode.IsSpace(r):
			lx.pos += size
		case strings.HasPrefix(lx.src[lx.pos:], "//"):
			lx.lineComment()
		case strings.HasPrefix(lx.src[lx.pos:], "/*"):
			lx.blockComment()
		case r == '"':
			lx.quoted()
		case isDigit(r):
			lx.number()
		case isIdentifierStart(r):
			lx.word()
		case strings.ContainsRune("()[]{}", r):
			lx.emit(TokenDelim, string(r), lx.pos, lx.pos+size)
		default:
			lx.symbol(r, size)
		}
	}

	lx.toks = append(lx.toks, Token{
		Kind: TokenEOF,
		Span: Span{Start: len(lx.src), End: len(lx.src)},
	})
}

func (lx *lexer) emit(kind TokenKind, text string, start, end int) {
	lx.toks = append(lx.toks, Token{
		Kind: kind,
		Text: text,
		Span: Span{Start: start, End: end},
	})
	lx.pos = end
}

func (lx *lexer) errorf(start, end int, msg string) {
	lx.diags = append(lx.diags, Diagnostic{
		Message: msg,
		Span:    Span{Start: start, End: end},
	})
}

func (lx *lexer) lineComment() {
	end := strings.IndexByte(lx.src[lx.pos:], '\n')
	if end < 0 {
		lx.pos = len(lx.src)

		return
	}

	// Leave the newline for the next iteration so it still terminates the
	// statement preceding the comment.
	lx.pos += end
	if lx.pos > 0 && lx.src[lx.pos-1] == '\r' {
		lx.pos--
	}
}

func (lx *lexer) blockComment() {
	start := lx.pos

	end := strings.Index(lx.src[lx.pos+2:], "*/")
	if end < 0 {
		lx.errorf(start, len(lx.src), "unterminated block comment")
		lx.pos = len(lx.src)

		return
	}

	lx.pos += 2 + end + 2
}

func (lx *lexer) quoted() {
	start := lx.pos

	for i := lx.pos + 1; i < len(lx.src); i++ {
		switch lx.src[i] {
		case '"':
			lx.emit(TokenString, lx.src[start+1:i], start, i+1)

			return
		case '\n':
			lx.errorf(start, i, "unterminated string")
			lx.pos = i

			return
		}
	}

	lx.errorf(start, len(lx.src), "unterminated string")
	lx.pos = len(lx.src)
}

func (lx *lexer) number() {
	start := lx.pos
	end := lx.scanDigits(start)

	if end+1 < len(lx.src) && lx.src[end] == '.' && isDigit(rune(lx.src[end+1])) {
		end = lx.scanDigits(end + 1)
	}

	text := lx.src[start:end]

	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		lx.errorf(start, end, "invalid number literal "+strconv.Quote(text))
		lx.pos = end

		return
	}

	lx.toks = append(lx.toks, Token{
		Kind: TokenNumber,
		Text: text,
		Num:  num,
		Span: Span{Start: start, End: end},
	})
	lx.pos = end
}

func (lx *lexer) scanDigits(i int) int {
	for i < len(lx.src) && isDigit(rune(lx.src[i])) {
		i++
	}

	return i
}

func (lx *lexer) word() {
	start := lx.pos
	end := start

	for end < len(lx.src) {
		r, size := utf8.DecodeRuneInString(lx.src[end:])
		if !isIdentifierContinue(r) {
			break
		}

		end += size
	}

	text := lx.src[start:end]

	switch {
	case text == "true" || text == "false":
		lx.emit(TokenBool, text, start, end)
	case isKeyword(text):
		lx.emit(TokenKeyword, text, start, end)
	case isWordOperator(text):
		lx.emit(TokenSymbol, text, start, end)
	default:
		lx.emit(TokenIdent, text, start, end)
	}
}

// symbols lists operator and punctuation tokens, longest first.
var symbols = []string{
	"==", "!=", "<=", ">=", "&&", "||",
	"+", "-", "*", "/", "%", "!", "<", ">", "=", ",", ":", ";",
}

func (lx *lexer) symbol(r rune, size int) {
	rest := lx.src[lx.pos:]

	for _, sym := range symbols {
		if strings.HasPrefix(rest, sym) {
			lx.emit(TokenSymbol, sym, lx.pos, lx.pos+len(sym))

			return
		}
	}

	lx.errorf(lx.pos, lx.pos+size, "unexpected character "+strconv.QuoteRune(r))
	lx.pos += size
}

func isKeyword(s string) bool {
	_, ok := keywords[s]

	return ok
}

func isWordOperator(s string) bool {
	_, ok := wordOperators[s]

	return ok
}

func isDigit(r rune) bool { return '0' <= r && r <= '9' }

func isIdentifierStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentifierContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
