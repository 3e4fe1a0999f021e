package lang

import (
	"math"
	"strings"
)

type (
	binaryFunc func(a, b Value) (Value, error)
	unaryFunc  func(x Value) (Value, error)
)

type binaryKey struct {
	op          Op
	left, right Kind
}

type unaryKey struct {
	op Op
	x  Kind
}

// Every (operator, kind, kind) combination resolves through these tables; a
// missing entry is an unsupported operation.
var (
	binaryOps = makeBinaryOps()
	unaryOps  = makeUnaryOps()
)

// BinaryOp applies a binary operator to two values.
func BinaryOp(op Op, a, b Value) (Value, error) {
	fn, ok := binaryOps[binaryKey{op, a.Kind(), b.Kind()}]
	if !ok {
		return nil, ErrUnsupportedOperation.Wrapf("%s %s %s",
			a.Kind(), op, b.Kind())
	}

	return fn(a, b)
}

// UnaryOp applies a prefix operator to a value.
func UnaryOp(op Op, x Value) (Value, error) {
	fn, ok := unaryOps[unaryKey{op, x.Kind()}]
	if !ok {
		return nil, ErrUnsupportedOperation.Wrapf("%s%s", op, x.Kind())
	}

	return fn(x)
}

var allKinds = []Kind{
	KindUndefined,
	KindNumber,
	KindString,
	KindBool,
	KindVector,
	KindObject,
	KindFunction,
}

// dataKinds are the kinds that Undefined acts as an identity for.
var dataKinds = []Kind{KindNumber, KindString, KindBool, KindVector, KindObject}

// numericKinds participate in arithmetic; booleans count as 0 and 1.
var numericKinds = []Kind{KindNumber, KindBool}

func makeBinaryOps() map[binaryKey]binaryFunc {
	t := make(map[binaryKey]binaryFunc)

	set := func(op Op, l, r Kind, fn binaryFunc) { t[binaryKey{op, l, r}] = fn }

	arith := func(op Op, fn func(a, b float64) (Value, error)) {
		for _, l := range numericKinds {
			for _, r := range numericKinds {
				set(op, l, r, func(a, b Value) (Value, error) {
					return fn(number(a), number(b))
				})
			}
		}
	}

	arith(OpAdd, func(a, b float64) (Value, error) { return Number(a + b), nil })
	arith(OpSub, func(a, b float64) (Value, error) { return Number(a - b), nil })
	arith(OpMul, func(a, b float64) (Value, error) { return Number(a * b), nil })
	arith(OpDiv, func(a, b float64) (Value, error) {
		if b == 0 {
			return nil, ErrDivisionByZero
		}

		return Number(a / b), nil
	})
	arith(OpMod, func(a, b float64) (Value, error) {
		if b == 0 {
			return nil, ErrDivisionByZero
		}

		return Number(math.Mod(a, b)), nil
	})

	concat := func(a, b Value) (Value, error) {
		return String(a.String() + b.String()), nil
	}

	set(OpAdd, KindString, KindString, concat)

	for _, k := range numericKinds {
		set(OpAdd, k, KindString, concat)
		set(OpAdd, KindString, k, concat)
	}

	set(OpAdd, KindVector, KindVector, func(a, b Value) (Value, error) {
		av, bv := a.(Vector), b.(Vector) //nolint:forcetypeassert // keyed by kind
		out := make(Vector, 0, len(av)+len(bv))

		return append(append(out, av...), bv...), nil
	})

	set(OpAdd, KindObject, KindObject, func(a, b Value) (Value, error) {
		out := a.(*Object).clone() //nolint:forcetypeassert // keyed by kind
		for k, v := range b.(*Object).All() {
			out.Set(k, v)
		}

		return out, nil
	})

	set(OpSub, KindObject, KindObject, func(a, b Value) (Value, error) {
		rm := b.(*Object) //nolint:forcetypeassert // keyed by kind
		out := NewObject()

		for k, v := range a.(*Object).All() {
			if _, ok := rm.Get(k); !ok {
				out.Set(k, v)
			}
		}

		return out, nil
	})

	// A negative or NaN count repeats zero times.
	repeat := func(s String, n Number) (Value, error) {
		if n < 0 || math.IsNaN(float64(n)) {
			return String(""), nil
		}

		if math.IsInf(float64(n), 0) || float64(len(s))*float64(n) > maxRepeatLen {
			return nil, ErrRepeatCount.Wrapf("%s", n)
		}

		return String(strings.Repeat(string(s), int(n))), nil
	}

	set(OpMul, KindString, KindNumber, func(a, b Value) (Value, error) {
		return repeat(a.(String), b.(Number)) //nolint:forcetypeassert // keyed by kind
	})
	set(OpMul, KindNumber, KindString, func(a, b Value) (Value, error) {
		return repeat(b.(String), a.(Number)) //nolint:forcetypeassert // keyed by kind
	})

	// Undefined is the identity of the arithmetic operators. Dividing
	// Undefined by anything stays Undefined. Multiplication and division
	// accept Undefined next to any kind, functions included.
	left := func(a, _ Value) (Value, error) { return a, nil }
	right := func(_, b Value) (Value, error) { return b, nil }

	for _, op := range []Op{OpAdd, OpSub, OpMul, OpDiv, OpMod} {
		kinds := dataKinds
		if op == OpMul || op == OpDiv {
			kinds = allKinds
		}

		for _, k := range kinds {
			set(op, k, KindUndefined, left)

			if op == OpDiv || op == OpMod {
				set(op, KindUndefined, k, left)
			} else {
				set(op, KindUndefined, k, right)
			}
		}

		set(op, KindUndefined, KindUndefined, left)
	}

	for _, l := range allKinds {
		for _, r := range allKinds {
			set(OpEq, l, r, func(a, b Value) (Value, error) {
				return Bool(Equal(a, b)), nil
			})
			set(OpNeq, l, r, func(a, b Value) (Value, error) {
				return Bool(!Equal(a, b)), nil
			})
			set(OpAnd, l, r, func(a, b Value) (Value, error) {
				return Bool(Truthy(a) && Truthy(b)), nil
			})
			set(OpOr, l, r, func(a, b Value) (Value, error) {
				return Bool(Truthy(a) || Truthy(b)), nil
			})
		}
	}

	compare := func(op Op, cmp func(c int) bool) {
		set(op, KindNumber, KindNumber, func(a, b Value) (Value, error) {
			//nolint:forcetypeassert // keyed by kind
			x, y := a.(Number), b.(Number)

			switch {
			case x < y:
				return Bool(cmp(-1)), nil
			case x > y:
				return Bool(cmp(1)), nil
			case x == y:
				return Bool(cmp(0)), nil
			default: // NaN is unordered
				return Bool(false), nil
			}
		})
		set(op, KindString, KindString, func(a, b Value) (Value, error) {
			//nolint:forcetypeassert // keyed by kind
			return Bool(cmp(strings.Compare(string(a.(String)), string(b.(String))))), nil
		})
		set(op, KindUndefined, KindUndefined, func(Value, Value) (Value, error) {
			return Bool(cmp(0)), nil
		})
	}

	compare(OpLt, func(c int) bool { return c < 0 })
	compare(OpLte, func(c int) bool { return c <= 0 })
	compare(OpGt, func(c int) bool { return c > 0 })
	compare(OpGte, func(c int) bool { return c >= 0 })

	return t
}

func makeUnaryOps() map[unaryKey]unaryFunc {
	t := make(map[unaryKey]unaryFunc)

	for _, k := range allKinds {
		t[unaryKey{OpNot, k}] = func(x Value) (Value, error) {
			return Bool(!Truthy(x)), nil
		}
	}

	for _, k := range numericKinds {
		t[unaryKey{OpNeg, k}] = func(x Value) (Value, error) {
			return Number(-number(x)), nil
		}
	}

	t[unaryKey{OpNeg, KindUndefined}] = func(x Value) (Value, error) {
		return x, nil
	}

	return t
}

// maxRepeatLen bounds the length of a string produced by repetition.
const maxRepeatLen = 1 << 28

// number converts a numeric-kind value to float64.
func number(v Value) float64 {
	switch v := v.(type) {
	case Number:
		return float64(v)
	case Bool:
		if v {
			return 1
		}
	}

	return 0
}
