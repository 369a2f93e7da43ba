package resolver

import (
	"errors"
	"maps"
	"slices"

	"github.com/zephyrtronium/equation"
)

// Table is a resolver with named constants and functions. Functions are
// called with the table's precision. A Table is safe for concurrent
// resolution but not for concurrent modification.
type Table struct {
	prec   uint
	consts map[string]equation.Value
	funcs  map[string]Func
}

// New creates an empty table that calls functions with the given precision.
// Zero selects 64 bits.
func New(prec uint) *Table {
	if prec == 0 {
		prec = 64
	}
	return &Table{
		prec:   prec,
		consts: make(map[string]equation.Value),
		funcs:  make(map[string]Func),
	}
}

// Prec returns the precision of function calls.
func (t *Table) Prec() uint {
	return t.prec
}

// Set defines a constant. Returns t for chaining.
func (t *Table) Set(name string, v equation.Value) *Table {
	t.consts[name] = v
	return t
}

// SetFunc defines a function. A nil f removes the function. Returns t for
// chaining.
func (t *Table) SetFunc(name string, f Func) *Table {
	if f == nil {
		delete(t.funcs, name)
		return t
	}
	t.funcs[name] = f
	return t
}

// Alias makes name refer to the constant or function called target. The
// result is false if target is neither.
func (t *Table) Alias(name, target string) bool {
	ok := false
	if v, has := t.consts[target]; has {
		t.consts[name] = v
		ok = true
	}
	if f := t.funcs[target]; f != nil {
		t.funcs[name] = f
		ok = true
	}
	return ok
}

// Constant returns the value of a constant and whether it is defined.
func (t *Table) Constant(name string) (equation.Value, bool) {
	v, ok := t.consts[name]
	return v, ok
}

// Func returns a function, or nil if it is not defined.
func (t *Table) Func(name string) Func {
	return t.funcs[name]
}

// Names returns the sorted names of all constants and functions.
func (t *Table) Names() []string {
	names := slices.Collect(maps.Keys(t.consts))
	for k := range t.funcs {
		if _, ok := t.consts[k]; !ok {
			names = append(names, k)
		}
	}
	slices.Sort(names)
	return names
}

// Clone creates a copy of the table with the given precision. Constants keep
// the precision they were defined with. Zero keeps the table's precision.
func (t *Table) Clone(prec uint) *Table {
	if prec == 0 {
		prec = t.prec
	}
	return &Table{
		prec:   prec,
		consts: maps.Clone(t.consts),
		funcs:  maps.Clone(t.funcs),
	}
}

// ResolveConstant implements equation.Resolver.
func (t *Table) ResolveConstant(name string) (equation.Value, bool) {
	return t.Constant(name)
}

// ResolveFunction implements equation.Resolver.
func (t *Table) ResolveFunction(name string, args []equation.Value) (equation.Value, error) {
	f := t.funcs[name]
	if f == nil {
		return equation.Undefined(), equation.ErrUnknownFunction
	}
	if !f.CanCall(len(args)) {
		return equation.Undefined(), &ArityError{Func: name, N: len(args)}
	}
	v, err := f.Call(t.prec, args)
	var de *DomainError
	if errors.As(err, &de) && de.Func == "" {
		de.Func = name
	}
	return v, err
}

var _ equation.Resolver = (*Table)(nil)
