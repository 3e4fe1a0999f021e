package lang

import (
	"log/slog"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/expr-lang/expr"
)

// Define evaluates a host expression and converts its result to a [Value].
//
// The expression is written in the expr-lang language, not in nv, so that
// values can be computed from the host environment before a program runs:
// env("HOME") returns the value of an environment variable from environ
// (KEY=VALUE pairs, as returned by os.Environ), or "" if it is unset.
func Define(source string, environ []string) (Value, error) {
	vars := environment(environ)
	env := map[string]any{
		"env": func(key string) string { return vars[key] },
	}

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return nil, ErrInvalidDefine.Wrap(err).With(slog.String("source", source))
	}

	out, err := expr.Run(program, env)
	if err != nil {
		return nil, ErrInvalidDefine.Wrap(err).With(slog.String("source", source))
	}

	return FromGo(out)
}

// ParseDefines evaluates definitions of the form name=expression with
// [Define] and returns the resulting bindings, suitable for [WithGlobals].
// Each name must be a valid identifier that is not reserved.
func ParseDefines(defs []string, environ []string) (map[string]Value, error) {
	vals := make(map[string]Value, len(defs))

	for _, def := range defs {
		name, source, ok := strings.Cut(def, "=")
		name = strings.TrimSpace(name)

		if !ok || !isIdentifier(name) {
			return nil, ErrInvalidDefine.Wrapf("%q: expected name=expression", def)
		}

		v, err := Define(source, environ)
		if err != nil {
			return nil, err
		}

		vals[name] = v
	}

	return vals, nil
}

// FromGo converts a native Go value to a [Value]. Supported inputs are nil,
// booleans, integers, floats, strings, slices and arrays of supported
// values, and maps with string keys (converted to objects with keys in
// sorted order). Values of type Value are returned unchanged.
func FromGo(v any) (Value, error) {
	switch v := v.(type) {
	case nil:
		return Undefined{}, nil
	case Value:
		return v, nil
	case bool:
		return Bool(v), nil
	case string:
		return String(v), nil
	case float64:
		return Number(v), nil
	case int:
		return Number(v), nil
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.String:
		return String(rv.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Number(rv.Uint()), nil

	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil

	case reflect.Slice, reflect.Array:
		vec := make(Vector, rv.Len())

		for i := range rv.Len() {
			e, err := FromGo(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}

			vec[i] = e
		}

		return vec, nil

	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			break
		}

		entries := make(map[string]reflect.Value, rv.Len())
		for iter := rv.MapRange(); iter.Next(); {
			entries[iter.Key().String()] = iter.Value()
		}

		obj := NewObject()

		for _, k := range slices.Sorted(maps.Keys(entries)) {
			e, err := FromGo(entries[k].Interface())
			if err != nil {
				return nil, err
			}

			obj.Set(StringKey(k), e)
		}

		return obj, nil
	}

	return nil, ErrInvalidValueType.Wrapf("%T", v)
}

// isIdentifier reports whether s lexes as a single, unreserved identifier.
func isIdentifier(s string) bool {
	toks, diags := Lex(s)

	return len(diags) == 0 && len(toks) == 2 &&
		toks[0].Kind == TokenIdent && toks[0].Text == s && s != builtinPrint
}

func environment(environ []string) map[string]string {
	vars := make(map[string]string, len(environ))

	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	return vars
}
