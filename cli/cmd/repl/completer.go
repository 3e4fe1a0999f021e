package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/nv/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "edit", "reset", "clear", "quit"}

// isIdentRune reports whether r can appear in an identifier.
func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// wordBounds returns the identifier at the cursor position and its byte
// boundaries within input. The word is empty when the cursor is not touching
// an identifier.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if !isIdentRune(r) {
			break
		}

		start -= size
	}

	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if !isIdentRune(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best-first, along with the word boundaries. An empty word
// has no matches so the hint line stays visible.
func (m model) computeMatches() (matches fuzzy.Matches, wordStart, wordEnd int) {
	word, wordStart, wordEnd := wordBounds(m.input.Value(), m.input.Position())
	if word == "" {
		return nil, wordStart, wordEnd
	}

	candidates := ctrlCommands
	if m.mode == modeEval {
		candidates = m.session.names()
	}

	return fuzzy.Find(word, candidates), wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Matched characters are highlighted and the
// candidate selected while tab-cycling is inverted.
func (m model) renderCandidateBar() string {
	if len(m.matches) == 0 || m.width <= 0 {
		return ""
	}

	const sep = "  "

	ellipsis := hintStyle.Render("...")
	limit := m.width - lipgloss.Width(ellipsis) - len(sep)

	var b strings.Builder

	for i, match := range m.matches {
		rendered := m.renderCandidate(match, m.tabActive && i == m.suggIdx)

		if i > 0 {
			if lipgloss.Width(b.String())+len(sep)+lipgloss.Width(rendered) > limit &&
				i < len(m.matches)-1 {
				b.WriteString(sep + ellipsis)

				break
			}

			b.WriteString(sep)
		}

		b.WriteString(rendered)
	}

	return b.String()
}

// renderCandidate renders one candidate. Functions get a "()" suffix that is
// not part of the completion.
func (m model) renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, matchStyle
	if selected {
		base, highlight = selectedStyle, selectedMatchStyle
	}

	hit := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		hit[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if hit[i] {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	if m.mode == modeEval && m.isFunction(match.Str) {
		b.WriteString(base.Render("()"))
	}

	return b.String()
}

// isFunction reports whether name is the print builtin or is bound to a
// function in the root scope.
func (m model) isFunction(name string) bool {
	if name == "print" {
		return true
	}

	v, ok := m.session.lookup(name)

	return ok && v.Kind() == lang.KindFunction
}
