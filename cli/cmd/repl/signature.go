package repl

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ardnew/nv/lang"
)

var (
	signatureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	signatureNameStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("6")).
				Bold(true)
	currentParamStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("11")).
				Bold(true)
)

// functionCall describes the call whose argument list contains the cursor.
type functionCall struct {
	name     string
	argIndex int // 0-based index of the argument under the cursor
	inCall   bool
}

// detectFunctionCall finds the innermost unclosed call before cursor. Commas
// and parentheses inside string literals are ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	// Record the open parens and the comma count at each nesting level.
	type frame struct{ open, commas int }

	var (
		stack []frame
		quote bool
	)

	for i := 0; i < cursor; i++ {
		switch ch := input[i]; {
		case quote && ch == '\\':
			i++
		case ch == '"':
			quote = !quote
		case quote:
		case ch == '(' || ch == '[' || ch == '{':
			stack = append(stack, frame{open: i})
		case (ch == ')' || ch == ']' || ch == '}') && len(stack) > 0:
			stack = stack[:len(stack)-1]
		case ch == ',' && len(stack) > 0:
			stack[len(stack)-1].commas++
		}
	}

	if len(stack) == 0 {
		return functionCall{}
	}

	top := stack[len(stack)-1]
	if input[top.open] != '(' {
		return functionCall{}
	}

	name, _, _ := wordBounds(input, top.open)
	if name == "" {
		return functionCall{}
	}

	return functionCall{name: name, argIndex: top.commas, inCall: true}
}

// signature returns the parameter names of the function called name. The
// print builtin takes any number of values.
func (m model) signature(name string) ([]string, bool) {
	if name == "print" {
		return []string{"...values"}, true
	}

	v, ok := m.session.lookup(name)
	if !ok {
		return nil, false
	}

	fn, ok := v.(*lang.Function)
	if !ok {
		return nil, false
	}

	return fn.Params, true
}

// renderSignatureHint renders name(params) with the parameter at argIndex
// highlighted. A variadic parameter stays highlighted for every later
// argument.
func renderSignatureHint(name string, params []string, argIndex int) string {
	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureStyle.Render(", "))
		}

		variadic := strings.HasPrefix(param, "...")
		if i == argIndex || (variadic && argIndex >= i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
