package resolver

import (
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/equation"
)

// Default creates a table of common constants and functions computed to the
// given precision.
//
// Constants are pi, e, tau, phi, and inf. Functions are exp, ln, log (base 10,
// or log(x, b) for base b), log2, log10, sqrt, abs, floor, ceil, min, max,
// sin, cos, tan, arcsin, arccos, arctan, sinh, cosh, tanh, arsinh, arcosh,
// and artanh. The inverse trigonometric functions are also named asin, acos,
// atan, asinh, acosh, and atanh. Trigonometric functions are computed with
// float64 precision.
func Default(prec uint) *Table {
	t := New(prec)
	for name, f := range defaultFuncs {
		t.SetFunc(name, f)
	}
	for alias, target := range defaultAliases {
		t.Alias(alias, target)
	}
	prec = t.prec
	pi := bigfloat.Pi(new(big.Float).SetPrec(prec))
	one := new(big.Float).SetPrec(prec).SetInt64(1)
	phi := new(big.Float).SetPrec(prec).SetInt64(5)
	phi.Sqrt(phi).Add(phi, one).Quo(phi, big.NewFloat(2))
	t.Set("pi", equation.Decimal(pi))
	t.Set("tau", equation.Decimal(new(big.Float).SetPrec(prec).Mul(pi, big.NewFloat(2))))
	t.Set("e", equation.Decimal(bigfloat.Exp(new(big.Float).SetPrec(prec), one)))
	t.Set("phi", equation.Decimal(phi))
	t.Set("inf", equation.Decimal(new(big.Float).SetPrec(prec).SetInf(false)))
	return t
}

var defaultFuncs = map[string]Func{
	"exp":   Monadic(exp),
	"ln":    Monadic(ln),
	"log":   Variadic(1, 2, logb),
	"log2":  Monadic(logn(2)),
	"log10": Monadic(logn(10)),
	"sqrt":  Monadic((*big.Float).Sqrt),
	"abs":   Variadic(1, 1, abs),
	"floor": Variadic(1, 1, rounding(big.ToNegativeInf)),
	"ceil":  Variadic(1, 1, rounding(big.ToPositiveInf)),
	"min":   Variadic(1, -1, extreme(-1)),
	"max":   Variadic(1, -1, extreme(1)),

	// trig, not implemented in arbitrary precision
	"sin":    Float64(math.Sin),
	"cos":    Float64(math.Cos),
	"tan":    Float64(math.Tan),
	"arcsin": Float64(math.Asin),
	"arccos": Float64(math.Acos),
	"arctan": Float64(math.Atan),
	"sinh":   Float64(math.Sinh),
	"cosh":   Float64(math.Cosh),
	"tanh":   Float64(math.Tanh),
	"arsinh": Float64(math.Asinh),
	"arcosh": Float64(math.Acosh),
	"artanh": Float64(math.Atanh),
}

var defaultAliases = map[string]string{
	"asin":  "arcsin",
	"acos":  "arccos",
	"atan":  "arctan",
	"asinh": "arsinh",
	"acosh": "arcosh",
	"atanh": "artanh",
}

func exp(out, in *big.Float) *big.Float {
	if in.IsInf() {
		if in.Signbit() {
			return out.SetInt64(0)
		}
		return out.SetInf(false)
	}
	// Exp returns a new float instead of setting out for large arguments.
	return out.Set(bigfloat.Exp(new(big.Float).SetPrec(out.Prec()), in))
}

func ln(out, in *big.Float) *big.Float {
	switch {
	case in.Signbit() && in.Sign() != 0:
		panic(big.ErrNaN{})
	case in.Sign() == 0:
		return out.SetInf(true)
	case in.IsInf():
		return out.SetInf(false)
	}
	return bigfloat.Log(out, in)
}

// logn creates a logarithm with a fixed base.
func logn(base int64) func(out, in *big.Float) *big.Float {
	return func(out, in *big.Float) *big.Float {
		ln(out, in)
		b := new(big.Float).SetPrec(out.Prec()).SetInt64(base)
		bigfloat.Log(b, b)
		return out.Quo(out, b)
	}
}

// logb is log(x) in base 10 or log(x, b) in base b.
func logb(prec uint, args []equation.Value) (equation.Value, error) {
	if len(args) == 1 {
		return Monadic(logn(10)).Call(prec, args)
	}
	x, err := floats(prec, args)
	if x == nil {
		return equation.Undefined(), err
	}
	if b := x[1]; b.Sign() <= 0 || b.IsInf() || b.Cmp(big.NewFloat(1)) == 0 {
		return equation.Undefined(), &DomainError{X: args[1], Arg: 2}
	}
	if x[0].Sign() < 0 {
		return equation.Undefined(), &DomainError{X: args[0], Arg: 1}
	}
	n := ln(new(big.Float).SetPrec(prec), x[0])
	d := bigfloat.Log(new(big.Float).SetPrec(prec), x[1])
	return equation.Decimal(n.Quo(n, d)), nil
}

func abs(prec uint, args []equation.Value) (equation.Value, error) {
	v := args[0]
	switch v.Kind() {
	case equation.KindInt:
		i, _ := v.Int()
		switch {
		case i == math.MinInt64:
			return equation.Decimal(new(big.Float).Neg(v.Float(prec))), nil
		case i < 0:
			return equation.Int(-i), nil
		}
		return v, nil
	case equation.KindDecimal:
		return equation.Decimal(new(big.Float).Abs(v.Decimal())), nil
	case equation.KindUndefined:
		return v, nil
	default:
		return equation.Undefined(), &DomainError{X: v, Arg: 1}
	}
}

// rounding creates floor or ceil. Results that fit in an integer are Int.
func rounding(mode big.RoundingMode) func(prec uint, args []equation.Value) (equation.Value, error) {
	return func(prec uint, args []equation.Value) (equation.Value, error) {
		v := args[0]
		switch v.Kind() {
		case equation.KindInt, equation.KindUndefined:
			return v, nil
		case equation.KindDecimal:
		default:
			return equation.Undefined(), &DomainError{X: v, Arg: 1}
		}
		x := v.Decimal()
		if x.IsInf() {
			return v, nil
		}
		i, acc := x.Int(nil)
		// Int truncates toward zero. It is below x when positive and above x
		// when negative.
		switch {
		case mode == big.ToNegativeInf && acc == big.Above:
			i.Sub(i, big.NewInt(1))
		case mode == big.ToPositiveInf && acc == big.Below:
			i.Add(i, big.NewInt(1))
		}
		if i.IsInt64() {
			return equation.Int(i.Int64()), nil
		}
		return equation.Decimal(new(big.Float).SetPrec(prec).SetInt(i)), nil
	}
}

// extreme creates min for sign -1 or max for sign 1. The result is the
// argument itself, so integers stay integers.
func extreme(sign int) func(prec uint, args []equation.Value) (equation.Value, error) {
	return func(prec uint, args []equation.Value) (equation.Value, error) {
		x, err := floats(prec, args)
		if x == nil {
			return equation.Undefined(), err
		}
		k := 0
		for i := 1; i < len(x); i++ {
			if x[i].Cmp(x[k]) == sign {
				k = i
			}
		}
		return args[k], nil
	}
}
