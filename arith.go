package equation

import (
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// guard is the number of extra bits used for intermediate results of
// repeated squaring.
const guard = 32

// arith applies an arithmetic operator. The result is false if either operand
// is a truth value, which has no arithmetic.
func arith(op NodeKind, l, r Value, prec uint) (Value, bool) {
	if _, ok := l.Bool(); ok {
		return Value{}, false
	}
	if _, ok := r.Bool(); ok {
		return Value{}, false
	}
	if l.kind == KindUndefined || r.kind == KindUndefined {
		return Value{}, true
	}
	if l.kind == KindInt && r.kind == KindInt {
		if v, ok := intop(op, l.i, r.i); ok {
			return v, true
		}
	}
	return floatop(op, l.Float(prec), r.Float(prec), prec), true
}

// intop applies an arithmetic operator to integers. The result is false if
// the exact result is not an integer or does not fit in one.
func intop(op NodeKind, x, y int64) (Value, bool) {
	switch op {
	case NodeAdd:
		if y > 0 && x > math.MaxInt64-y || y < 0 && x < math.MinInt64-y {
			return Value{}, false
		}
		return Int(x + y), true
	case NodeSub:
		if y < 0 && x > math.MaxInt64+y || y > 0 && x < math.MinInt64+y {
			return Value{}, false
		}
		return Int(x - y), true
	case NodeMul:
		p, ok := mul(x, y)
		return Int(p), ok
	case NodeDiv:
		switch {
		case y == 0:
			return Value{}, true
		case x == math.MinInt64 && y == -1, x%y != 0:
			return Value{}, false
		}
		return Int(x / y), true
	case NodeMod:
		if y == 0 {
			return Value{}, true
		}
		return Int(x % y), true
	case NodePow:
		if y < 0 {
			return Value{}, false
		}
		r, b := int64(1), x
		for {
			var ok bool
			if y&1 != 0 {
				if r, ok = mul(r, b); !ok {
					return Value{}, false
				}
			}
			y >>= 1
			if y == 0 {
				return Int(r), true
			}
			if b, ok = mul(b, b); !ok {
				return Value{}, false
			}
		}
	default:
		panic("equation: not an arithmetic operator: " + op.String())
	}
}

// mul multiplies integers and reports whether the product is exact.
func mul(x, y int64) (int64, bool) {
	if x == 0 || y == 0 {
		return 0, true
	}
	p := x * y
	if p/y != x || x == -1 && y == math.MinInt64 || y == -1 && x == math.MinInt64 {
		return 0, false
	}
	return p, true
}

// floatop applies an arithmetic operator to decimals. Operations without a
// value, like subtracting infinity from itself, give Undefined.
func floatop(op NodeKind, x, y *big.Float, prec uint) (v Value) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := r.(big.ErrNaN); !ok {
			panic(r)
		}
		v = Value{}
	}()
	z := new(big.Float).SetPrec(prec)
	switch op {
	case NodeAdd:
		z.Add(x, y)
	case NodeSub:
		z.Sub(x, y)
	case NodeMul:
		z.Mul(x, y)
	case NodeDiv:
		if y.Sign() == 0 {
			return Value{}
		}
		z.Quo(x, y)
	case NodeMod:
		switch {
		case y.Sign() == 0, x.IsInf():
			return Value{}
		case y.IsInf():
			z.Set(x)
		default:
			fmod(z, x, y)
		}
	case NodePow:
		return pow(z, x, y)
	default:
		panic("equation: not an arithmetic operator: " + op.String())
	}
	return Decimal(z)
}

// fmod sets z to x - y*trunc(x/y), which has the sign of x like the integer
// remainder. The remainder of finite floats is exact before rounding to z, so
// it is computed on integer mantissas.
func fmod(z, x, y *big.Float) *big.Float {
	ax, ay := new(big.Float).Abs(x), new(big.Float).Abs(y)
	if ax.Cmp(ay) < 0 {
		return z.Set(x)
	}
	// x = a*2^ea and y = b*2^eb, so with k = min(ea, eb), the remainder is
	// (a*2^(ea-k) mod b*2^(eb-k)) * 2^k. Since |y| <= |x|, eb-k is at most
	// the number of bits in a, but ea-k can be anything up to the exponent
	// range, so that power of two is reduced modulo the divisor.
	a, ea := mantint(ax)
	b, eb := mantint(ay)
	k := min(ea, eb)
	b.Lsh(b, uint(eb-k))
	r := new(big.Int).Exp(big.NewInt(2), big.NewInt(int64(ea-k)), b)
	r.Mul(r, a)
	r.Rem(r, b)
	if x.Signbit() {
		r.Neg(r)
	}
	return z.SetMantExp(new(big.Float).SetInt(r), k)
}

// mantint splits a finite nonzero x into an integer a and exponent e such that
// x = a*2^e exactly.
func mantint(x *big.Float) (*big.Int, int) {
	m := new(big.Float)
	e := x.MantExp(m)
	p := int(m.MinPrec())
	a, _ := m.SetMantExp(m, p).Int(nil)
	return a, e - p
}

// pow sets z to x^y. Negative bases with fractional exponents and zero with
// negative exponents give Undefined.
func pow(z, x, y *big.Float) Value {
	if x.IsInf() || y.IsInf() {
		xf, _ := x.Float64()
		yf, _ := y.Float64()
		p := math.Pow(xf, yf)
		if math.IsNaN(p) {
			return Value{}
		}
		return Decimal(z.SetFloat64(p))
	}
	if n, acc := y.Int64(); acc == big.Exact {
		return powint(z, x, n)
	}
	switch x.Sign() {
	case 0:
		if y.Sign() > 0 {
			return Decimal(z.SetInt64(0))
		}
		return Value{}
	case -1:
		if !y.IsInt() {
			return Value{}
		}
		// Exponents this large are always even unless the float holds every
		// bit of the integer.
		ax := new(big.Float).SetPrec(z.Prec()).Abs(x)
		fpow(z, ax, y)
		if i, _ := y.Int(nil); i.Bit(0) != 0 {
			z.Neg(z)
		}
		return Decimal(z)
	}
	return Decimal(fpow(z, x, y))
}

// fpow sets z to x^y for positive x. bigfloat.Pow may return a different
// float than the one it is given, with the given one left holding an
// intermediate result, so only its return value is used.
func fpow(z, x, y *big.Float) *big.Float {
	return z.Set(bigfloat.Pow(new(big.Float).SetPrec(z.Prec()), x, y))
}

// powint sets z to x^n by repeated squaring.
func powint(z, x *big.Float, n int64) Value {
	if n < 0 && x.Sign() == 0 {
		return Value{}
	}
	var m uint64
	if n < 0 {
		m = uint64(-(n + 1)) + 1
	} else {
		m = uint64(n)
	}
	prec := z.Prec() + guard
	r := new(big.Float).SetPrec(prec).SetInt64(1)
	b := new(big.Float).SetPrec(prec).Set(x)
	for m > 0 {
		if m&1 != 0 {
			r.Mul(r, b)
		}
		m >>= 1
		if m > 0 {
			b.Mul(b, b)
		}
	}
	if n < 0 {
		return Decimal(z.Quo(b.SetInt64(1), r))
	}
	return Decimal(z.Set(r))
}

// compare applies an equation operator. Eq and Neq compare numbers to numbers
// and truth values to truth values of the same kind. Ge and Le compare only
// numbers. Other comparisons are Undefined.
func compare(op NodeKind, l, r Value) Value {
	switch op {
	case NodeEq, NodeNeq:
		var eq bool
		switch {
		case l.IsNumber() && r.IsNumber():
			eq = cmpnum(l, r) == 0
		case l.kind == r.kind && (l.kind == KindEq || l.kind == KindCmp):
			eq = l.b == r.b
		default:
			return Value{}
		}
		return Eq(eq != (op == NodeNeq))
	case NodeGe, NodeLe:
		if !l.IsNumber() || !r.IsNumber() {
			return Value{}
		}
		c := cmpnum(l, r)
		if op == NodeGe {
			return Cmp(c > 0)
		}
		return Cmp(c < 0)
	default:
		panic("equation: not an equation operator: " + op.String())
	}
}

// cmpnum compares two numbers exactly.
func cmpnum(l, r Value) int {
	if l.kind == KindInt && r.kind == KindInt {
		switch {
		case l.i < r.i:
			return -1
		case l.i > r.i:
			return 1
		default:
			return 0
		}
	}
	x, y := l.f, r.f
	if l.kind == KindInt {
		x = l.Float(64)
	}
	if r.kind == KindInt {
		y = r.Float(64)
	}
	return x.Cmp(y)
}

// parsefloat parses a base 10 number with the given precision. Numbers with
// exponents too large for big.Float become infinities or zeros.
func parsefloat(s string, prec uint) (*big.Float, error) {
	r, _, err := new(big.Float).SetPrec(prec).Parse(s, 10)
	if err == nil {
		return r, nil
	}
	// big.Float reports exponents outside its range as errors instead of
	// rounding, either from strconv when the exponent doesn't fit in an int64
	// or on its own when the result doesn't fit in a Float. Both of those
	// happen only when the mantissa and exponent parse separately.
	i := strings.LastIndexAny(s, "eE")
	if i < 0 {
		return nil, err
	}
	m, _, merr := new(big.Float).SetPrec(prec).Parse(s[:i], 10)
	if merr != nil {
		return nil, err
	}
	e, eerr := strconv.ParseInt(s[i+1:], 10, 64)
	if eerr != nil && !errors.Is(eerr, strconv.ErrRange) {
		return nil, err
	}
	r = new(big.Float).SetPrec(prec)
	if e < 0 || m.Sign() == 0 {
		r.SetInt64(0)
		if m.Signbit() {
			r.Neg(r)
		}
		return r, nil
	}
	return r.SetInf(m.Signbit()), nil
}
