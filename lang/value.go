package lang

import (
	"iter"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the dynamic type of a [Value].
type Kind uint8

const (
	KindUndefined Kind = iota // undefined
	KindNumber                // number
	KindString                // string
	KindBool                  // bool
	KindVector                // vector
	KindObject                // object
	KindFunction              // function
)

// Value is a runtime value. String returns the display form used by print.
type Value interface {
	Kind() Kind
	String() string
}

type (
	// Undefined is the value of uninitialized variables and of statements
	// that produce nothing.
	Undefined struct{}

	// Number is a double-precision floating point number.
	Number float64

	// String is an immutable string.
	String string

	// Bool is a boolean.
	Bool bool

	// Vector is an ordered sequence of values.
	Vector []Value
)

func (Undefined) Kind() Kind { return KindUndefined }
func (Number) Kind() Kind    { return KindNumber }
func (String) Kind() Kind    { return KindString }
func (Bool) Kind() Kind      { return KindBool }
func (Vector) Kind() Kind    { return KindVector }

func (Undefined) String() string { return "undefined" }
func (n Number) String() string  { return formatNumber(float64(n)) }
func (s String) String() string  { return string(s) }
func (b Bool) String() string    { return strconv.FormatBool(bool(b)) }

func (v Vector) String() string {
	var b strings.Builder

	b.WriteByte('[')

	for i, e := range v {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(nested(e))
	}

	b.WriteByte(']')

	return b.String()
}

// Key is an object key: either a string or a number.
type Key struct {
	str   string
	num   float64
	isNum bool
}

// StringKey returns a string object key.
func StringKey(s string) Key { return Key{str: s} }

// NumberKey returns a numeric object key.
func NumberKey(n float64) Key { return Key{num: n, isNum: true} }

// Value returns the key as a runtime value.
func (k Key) Value() Value {
	if k.isNum {
		return Number(k.num)
	}

	return String(k.str)
}

// String returns the key as it appears in an object literal.
func (k Key) String() string {
	if k.isNum {
		return formatNumber(k.num)
	}

	return strconv.Quote(k.str)
}

// Object is a mapping from keys to values that remembers insertion order.
// Objects are built once and then treated as immutable; operators that
// combine objects return new ones.
type Object struct {
	vals map[Key]Value
	keys []Key
}

// NewObject returns an empty object.
func NewObject() *Object {
	return &Object{vals: make(map[Key]Value)}
}

func (*Object) Kind() Kind { return KindObject }

func (o *Object) String() string {
	var b strings.Builder

	b.WriteByte('{')

	for i, k := range o.keys {
		if i > 0 {
			b.WriteString(", ")
		}

		b.WriteString(k.String())
		b.WriteString(": ")
		b.WriteString(nested(o.vals[k]))
	}

	b.WriteByte('}')

	return b.String()
}

// Set binds key to val. A new key is appended to the iteration order; an
// existing key keeps its position.
func (o *Object) Set(key Key, val Value) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}

	o.vals[key] = val
}

// Get returns the value bound to key.
func (o *Object) Get(key Key) (Value, bool) {
	v, ok := o.vals[key]

	return v, ok
}

// Len returns the number of keys.
func (o *Object) Len() int { return len(o.keys) }

// All iterates over the entries in insertion order.
func (o *Object) All() iter.Seq2[Key, Value] {
	return func(yield func(Key, Value) bool) {
		for _, k := range o.keys {
			if !yield(k, o.vals[k]) {
				return
			}
		}
	}
}

func (o *Object) clone() *Object {
	c := &Object{
		vals: make(map[Key]Value, len(o.vals)),
		keys: make([]Key, 0, len(o.keys)),
	}

	for k, v := range o.All() {
		c.Set(k, v)
	}

	return c
}

// Function is a user-defined function value. It captures the environment it
// was defined in by reference, so later writes to captured variables are
// visible when it is called.
type Function struct {
	Body   Node
	Env    *Env
	Name   string
	Params []string
}

func (*Function) Kind() Kind { return KindFunction }

func (f *Function) String() string {
	return "<fn " + f.Name + "(" + strings.Join(f.Params, ", ") + ")>"
}

// Truthy reports whether v counts as true in a condition.
func Truthy(v Value) bool {
	switch v := v.(type) {
	case Bool:
		return bool(v)
	case Number:
		return v != 0
	case String:
		return v != ""
	case Vector:
		return len(v) > 0
	case *Object:
		return v.Len() > 0
	case *Function:
		return true
	default:
		return false
	}
}

// Equal reports whether a and b are structurally equal. Values of different
// kinds are never equal and functions compare by identity.
func Equal(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}

	switch a := a.(type) {
	case Vector:
		b := b.(Vector) //nolint:forcetypeassert // kinds match
		if len(a) != len(b) {
			return false
		}

		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}

		return true

	case *Object:
		b := b.(*Object) //nolint:forcetypeassert // kinds match
		if a.Len() != b.Len() {
			return false
		}

		for k, av := range a.All() {
			bv, ok := b.Get(k)
			if !ok || !Equal(av, bv) {
				return false
			}
		}

		return true

	default:
		return a == b
	}
}

// nested renders v as an element of a vector or object, where strings are
// quoted.
func nested(v Value) string {
	if s, ok := v.(String); ok {
		return strconv.Quote(string(s))
	}

	return v.String()
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "NaN"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
