package resolver

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/equation"
)

// Func is a function callable from expressions.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. prec is the precision to use for decimal results.
	// Call may modify the elements of args but must not retain the slice.
	Call(prec uint, args []equation.Value) (equation.Value, error)

	// CanCall returns whether the function can be called with n arguments.
	CanCall(n int) bool
}

// floats converts arguments to floats. If any argument is Undefined, the
// result is nil with no error, and the function's result should be Undefined
// too. Truth values give a DomainError.
func floats(prec uint, args []equation.Value) ([]*big.Float, error) {
	r := make([]*big.Float, len(args))
	for i, v := range args {
		switch v.Kind() {
		case equation.KindUndefined:
			return nil, nil
		case equation.KindInt, equation.KindDecimal:
			r[i] = v.Float(prec)
		default:
			return nil, &DomainError{X: v, Arg: i + 1}
		}
	}
	return r, nil
}

// catchNaN converts a big.ErrNaN panic into a DomainError on x.
func catchNaN(x equation.Value, err *error) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(big.ErrNaN); !ok {
		panic(r)
	}
	*err = &DomainError{X: x, Arg: 1}
}

type monadic struct {
	f func(out, in *big.Float) *big.Float
}

func (m monadic) Call(prec uint, args []equation.Value) (r equation.Value, err error) {
	x, err := floats(prec, args)
	if x == nil {
		return equation.Undefined(), err
	}
	defer catchNaN(args[0], &err)
	out := new(big.Float).SetPrec(prec)
	m.f(out, x[0])
	return equation.Decimal(out), nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. f must set out to its
// result, to the precision of out; its return value is always ignored. If f is
// called on an argument outside f's domain, it should panic with big.ErrNaN.
func Monadic(f func(out, in *big.Float) *big.Float) Func {
	return monadic{f}
}

type niladic struct {
	f func(out *big.Float) *big.Float
}

func (n niladic) Call(prec uint, args []equation.Value) (equation.Value, error) {
	out := new(big.Float).SetPrec(prec)
	n.f(out)
	return equation.Decimal(out), nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic wraps a function of zero variables, generally a function which
// computes a constant, into a Func. f must set out to its result; its return
// value is always ignored. Unlike Monadic, the wrapped function is expected
// never to panic.
func Niladic(f func(out *big.Float) *big.Float) Func {
	return niladic{f}
}

type variadic struct {
	min, max int
	f        func(prec uint, args []equation.Value) (equation.Value, error)
}

func (v variadic) Call(prec uint, args []equation.Value) (equation.Value, error) {
	return v.f(prec, args)
}

func (v variadic) CanCall(n int) bool {
	return n >= v.min && (v.max < 0 || n <= v.max)
}

// Variadic wraps a function of values into a Func that accepts from min to
// max arguments. A negative max allows any number from min up.
func Variadic(min, max int, f func(prec uint, args []equation.Value) (equation.Value, error)) Func {
	return variadic{min, max, f}
}

type float64f struct {
	f func(float64) float64
}

func (f float64f) Call(prec uint, args []equation.Value) (equation.Value, error) {
	switch args[0].Kind() {
	case equation.KindUndefined:
		return equation.Undefined(), nil
	case equation.KindInt, equation.KindDecimal:
	default:
		return equation.Undefined(), &DomainError{X: args[0], Arg: 1}
	}
	x, _ := args[0].Float64()
	y := f.f(x)
	if math.IsNaN(y) {
		return equation.Undefined(), &DomainError{X: args[0], Arg: 1}
	}
	return equation.Decimal(new(big.Float).SetPrec(prec).SetFloat64(y)), nil
}

func (f float64f) CanCall(n int) bool {
	return n == 1
}

// Float64 wraps a function of one float64 into a Func. Results have only
// float64 precision regardless of the precision of the call. A NaN result
// gives a DomainError.
func Float64(f func(float64) float64) Func {
	return float64f{f}
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X equation.Value
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := err.X.String() + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

// ArityError is an error returned when a function is called with a number of
// arguments it does not accept.
type ArityError struct {
	// Func is the function name.
	Func string
	// N is the number of arguments in the call.
	N int
}

func (err *ArityError) Error() string {
	s := " arguments"
	if err.N == 1 {
		s = " argument"
	}
	return err.Func + " does not take " + strconv.Itoa(err.N) + s
}
