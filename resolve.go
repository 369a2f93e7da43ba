package equation

import "errors"

// Resolver gives meaning to the names in an expression.
type Resolver interface {
	// ResolveConstant returns the value of a named constant. The result is
	// false if the resolver does not know the name.
	ResolveConstant(name string) (Value, bool)

	// ResolveFunction calls a named function. args holds exactly the
	// arguments written in the call, leftmost first; the resolver checks
	// their number itself. The resolver may modify the elements of args but
	// must not retain the slice. If the resolver does not know the name, the
	// error should be or wrap ErrUnknownFunction.
	ResolveFunction(name string, args []Value) (Value, error)
}

// ErrUnknownFunction is the error a resolver returns for a function name it
// does not know.
var ErrUnknownFunction = errors.New("unknown function")

type chain []Resolver

// Chain creates a resolver that tries each of rs in order. A constant
// resolves to the first value found. A function call goes to each resolver
// in turn until one returns an error that is not ErrUnknownFunction.
func Chain(rs ...Resolver) Resolver {
	return chain(append([]Resolver(nil), rs...))
}

func (c chain) ResolveConstant(name string) (Value, bool) {
	for _, r := range c {
		if v, ok := r.ResolveConstant(name); ok {
			return v, true
		}
	}
	return Value{}, false
}

func (c chain) ResolveFunction(name string, args []Value) (Value, error) {
	err := ErrUnknownFunction
	for _, r := range c {
		var v Value
		v, err = r.ResolveFunction(name, args)
		if !errors.Is(err, ErrUnknownFunction) {
			return v, err
		}
	}
	return Value{}, err
}

// ResolverFuncs adapts plain functions to a Resolver. A nil field resolves
// nothing.
type ResolverFuncs struct {
	Constant func(name string) (Value, bool)
	Function func(name string, args []Value) (Value, error)
}

func (f ResolverFuncs) ResolveConstant(name string) (Value, bool) {
	if f.Constant == nil {
		return Value{}, false
	}
	return f.Constant(name)
}

func (f ResolverFuncs) ResolveFunction(name string, args []Value) (Value, error) {
	if f.Function == nil {
		return Value{}, ErrUnknownFunction
	}
	return f.Function(name, args)
}

// Constants is a Resolver with a fixed set of constants and no functions.
type Constants map[string]Value

func (c Constants) ResolveConstant(name string) (Value, bool) {
	v, ok := c[name]
	return v, ok
}

func (c Constants) ResolveFunction(name string, args []Value) (Value, error) {
	return Value{}, ErrUnknownFunction
}
