package lang

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MarshalJSON implements json.Marshaler for AST.
func (ast *AST) MarshalJSON() ([]byte, error) {
	return json.Marshal(ast.ToMap())
}

// ToMap converts the AST to a tree of native Go maps and slices. Every node
// becomes a map holding its type under "node" and its byte span under
// "span", plus its own fields.
func (ast *AST) ToMap() map[string]any {
	stmts := make([]any, 0, len(ast.Stmts))

	for _, s := range ast.Stmts {
		if !isEmpty(s) {
			stmts = append(stmts, nodeMap(s))
		}
	}

	m := map[string]any{"statements": stmts}
	if ast.Name != "" {
		m["source"] = ast.Name
	}

	return m
}

func nodeMap(n Node) map[string]any {
	if n == nil {
		return nil
	}

	span := n.Span()
	m := map[string]any{
		"node": strings.ToLower(strings.TrimPrefix(fmt.Sprintf("%T", n), "*lang.")),
		"span": []int{span.Start, span.End},
	}

	switch n := n.(type) {
	case *Literal:
		m["value"] = ToNative(n.Value)
	case *Ident:
		m["name"] = n.Name
	case *Unary:
		m["op"] = n.Op.String()
		m["operand"] = nodeMap(n.X)
	case *Binary:
		m["op"] = n.Op.String()
		m["left"] = nodeMap(n.Left)
		m["right"] = nodeMap(n.Right)
	case *Call:
		m["callee"] = nodeMap(n.Callee)
		m["args"] = nodeList(n.Args)
	case *Builtin:
		m["name"] = n.Name
		m["args"] = nodeList(n.Args)
	case *VectorLit:
		m["elements"] = nodeList(n.Elems)
	case *ObjectLit:
		entries := make([]any, len(n.Entries))
		for i, e := range n.Entries {
			entries[i] = map[string]any{
				"key":   ToNative(e.Key.Value()),
				"value": nodeMap(e.Value),
			}
		}

		m["entries"] = entries
	case *Let:
		m["name"] = n.Name
		m["value"] = nodeMap(n.Value)
	case *Assign:
		m["name"] = n.Name
		m["value"] = nodeMap(n.Value)
	case *Block:
		m["statements"] = nodeList(n.Stmts)
	case *Func:
		m["name"] = n.Name
		m["params"] = append([]string{}, n.Params...)
		m["body"] = nodeMap(n.Body)
	case *Return:
		m["value"] = nodeMap(n.Value)
	case *If:
		m["cond"] = nodeMap(n.Cond)
		m["then"] = nodeMap(n.Then)

		if n.Else != nil {
			m["else"] = nodeMap(n.Else)
		}
	case *Else:
		m["body"] = nodeMap(n.Body)
	case *While:
		m["cond"] = nodeMap(n.Cond)
		m["body"] = nodeMap(n.Body)
	}

	return m
}

func nodeList(ns []Node) []any {
	out := make([]any, 0, len(ns))

	for _, n := range ns {
		if !isEmpty(n) {
			out = append(out, nodeMap(n))
		}
	}

	return out
}

// ToNative converts a Value to its native Go representation: nil, float64,
// string, bool, []any or map[string]any. Object keys become their display
// text. Functions become their display form.
func ToNative(v Value) any {
	switch v := v.(type) {
	case Undefined:
		return nil
	case Number:
		return float64(v)
	case String:
		return string(v)
	case Bool:
		return bool(v)
	case Vector:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = ToNative(e)
		}

		return out
	case *Object:
		out := make(map[string]any, v.Len())
		for k, e := range v.All() {
			out[k.Value().String()] = ToNative(e)
		}

		return out
	default:
		return v.String()
	}
}
