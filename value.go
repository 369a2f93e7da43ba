package equation

import (
	"math/big"
	"strconv"
)

// Kind is the kind of an evaluated value.
type Kind uint8

const (
	// KindUndefined is the result of an operation with no meaningful
	// value, like division by zero or comparing a number to a truth value.
	KindUndefined Kind = iota
	// KindInt is a 64-bit integer.
	KindInt
	// KindDecimal is an arbitrary-precision floating-point number.
	KindDecimal
	// KindEq is the result of = or !=.
	KindEq
	// KindCmp is the result of > or <.
	KindCmp
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "Undefined"
	case KindInt:
		return "Int"
	case KindDecimal:
		return "Decimal"
	case KindEq:
		return "Eq"
	case KindCmp:
		return "Cmp"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is the result of evaluating an expression or part of one. The zero
// Value is Undefined. Values are immutable; operations on decimals always
// produce new floats.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    *big.Float
}

// Int creates an integer value.
func Int(x int64) Value {
	return Value{kind: KindInt, i: x}
}

// Decimal creates a decimal value. The value refers to x, which must not be
// modified afterward. A nil x gives Undefined.
func Decimal(x *big.Float) Value {
	if x == nil {
		return Value{}
	}
	return Value{kind: KindDecimal, f: x}
}

// DecimalString creates a decimal value by parsing s in base 10 with the
// given precision. Overflowing exponents give infinities.
func DecimalString(s string, prec uint) (Value, error) {
	f, err := parsefloat(s, prec)
	if err != nil {
		return Value{}, err
	}
	return Decimal(f), nil
}

// Eq creates the result of an equality comparison.
func Eq(b bool) Value {
	return Value{kind: KindEq, b: b}
}

// Cmp creates the result of an ordering comparison. For >, true means
// greater. For <, true means less.
func Cmp(b bool) Value {
	return Value{kind: KindCmp, b: b}
}

// Undefined returns the undefined value.
func Undefined() Value {
	return Value{}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNumber reports whether v is an Int or Decimal.
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindDecimal
}

// Int returns the integer value of v and whether v is an Int.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Decimal returns the float of a Decimal value, or nil if v is not a Decimal.
// The result must not be modified.
func (v Value) Decimal() *big.Float {
	if v.kind != KindDecimal {
		return nil
	}
	return v.f
}

// Bool returns the truth value of an Eq or Cmp and whether v is one.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindEq || v.kind == KindCmp
}

// Float returns a new float holding v's number with at least the given
// precision. Integers are converted exactly. The result is nil if v is not a
// number.
func (v Value) Float(prec uint) *big.Float {
	switch v.kind {
	case KindInt:
		if prec < 64 {
			prec = 64
		}
		return new(big.Float).SetPrec(prec).SetInt64(v.i)
	case KindDecimal:
		return new(big.Float).SetPrec(prec).Set(v.f)
	default:
		return nil
	}
}

// Float64 returns v's number as the nearest float64. The second result is
// false if v is not a number.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.i), true
	case KindDecimal:
		f, _ := v.f.Float64()
		return f, true
	default:
		return 0, false
	}
}

// Equal reports whether v and w are the same kind and hold the same value.
// Unlike the = operator, it does not compare an Int to a Decimal.
func (v Value) Equal(w Value) bool {
	if v.kind != w.kind {
		return false
	}
	switch v.kind {
	case KindInt:
		return v.i == w.i
	case KindDecimal:
		return v.f.Cmp(w.f) == 0
	case KindEq, KindCmp:
		return v.b == w.b
	default:
		return true
	}
}

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindDecimal:
		return v.f.Text('g', -1)
	case KindEq, KindCmp:
		return strconv.FormatBool(v.b)
	default:
		return "undefined"
	}
}

// Text formats a number the way big.Float.Text does, with prec significant
// digits for decimals. Other kinds format as String does.
func (v Value) Text(format byte, prec int) string {
	if v.kind != KindDecimal {
		return v.String()
	}
	return v.f.Text(format, prec)
}
