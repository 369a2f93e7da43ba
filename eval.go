package equation

import (
	"io"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/equation/lex"
)

// Context is a context for evaluating expressions. It holds the resolver for
// constants and functions, the precision of decimal arithmetic, and a cache of
// decimal literals. It is not safe to use a Context concurrently.
type Context struct {
	r     Resolver
	prec  uint
	stack []Value
	nums  map[string]*big.Float
	busy  bool
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption(*Context)
}

type precopt uint

func (o precopt) ctxOption(ctx *Context) {
	if o == 0 {
		o = defaultPrec
	}
	if uint(o) != ctx.prec {
		// Cached literals are rounded to the old precision.
		ctx.nums = make(map[string]*big.Float)
	}
	ctx.prec = uint(o)
}

// defaultPrec is the precision of decimal arithmetic when none is given.
const defaultPrec = 64

// Prec sets the precision of decimal arithmetic in bits. Zero selects the
// default of 64.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// NewContext creates a new evaluation context that resolves constants and
// functions with r. r may be nil, in which case every constant and function
// is unresolved.
func NewContext(r Resolver, opts ...ContextOption) *Context {
	ctx := Context{r: r, prec: defaultPrec, nums: make(map[string]*big.Float)}
	for _, opt := range opts {
		if opt != nil {
			opt.ctxOption(&ctx)
		}
	}
	return &ctx
}

// Clone creates a copy of a context and applies options to it. The copy keeps
// the literal cache if its precision is unchanged.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{r: ctx.r, prec: ctx.prec, nums: make(map[string]*big.Float, len(ctx.nums))}
	for k, v := range ctx.nums {
		n.nums[k] = v
	}
	for _, opt := range opts {
		if opt != nil {
			opt.ctxOption(&n)
		}
	}
	return &n
}

// Prec returns the precision of decimal arithmetic in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Resolver returns the context's resolver.
func (ctx *Context) Resolver() Resolver {
	return ctx.r
}

// Eval evaluates a parsed expression.
func (ctx *Context) Eval(e *Expr) (Value, error) {
	return ctx.EvalNodes(Nodes(e.nodes))
}

// EvalNodes evaluates a node sequence, reading it to the end. If ns returns
// an error other than io.EOF, evaluation stops with that error. Calling
// EvalNodes from a resolver during evaluation panics.
func (ctx *Context) EvalNodes(ns NodeSource) (Value, error) {
	if ctx.busy {
		panic("equation: Eval during Eval")
	}
	ctx.busy = true
	defer func() {
		clear(ctx.stack)
		ctx.stack = ctx.stack[:0]
		ctx.busy = false
	}()
	var last lex.Span
	for {
		n, err := ns.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Value{}, err
		}
		if err := ctx.step(n); err != nil {
			return Value{}, err
		}
		last = n.Span
	}
	if len(ctx.stack) != 1 {
		return Value{}, &StackError{At: last, Have: len(ctx.stack), End: true}
	}
	return ctx.stack[0], nil
}

// step applies one node to the stack.
func (ctx *Context) step(n Node) error {
	switch n.Kind {
	case NodeInt:
		ctx.push(Int(n.Int))
	case NodeDecimal:
		f, err := ctx.num(n.Name)
		if err != nil {
			return &NumberError{At: n.Span, Text: n.Name, Err: err}
		}
		ctx.push(Decimal(f))
	case NodeConstant:
		if ctx.r == nil {
			return &NameError{At: n.Span, Name: n.Name}
		}
		v, ok := ctx.r.ResolveConstant(n.Name)
		if !ok {
			return &NameError{At: n.Span, Name: n.Name}
		}
		ctx.push(v)
	case NodeFunction:
		k := len(ctx.stack) - n.Args
		if n.Args < 0 || k < 0 {
			return &StackError{At: n.Span, Need: n.Args, Have: len(ctx.stack)}
		}
		if ctx.r == nil {
			return &CallError{At: n.Span, Name: n.Name, Err: ErrUnknownFunction}
		}
		// The resolver sees only the arguments. Capping the capacity keeps
		// appends from reaching past them.
		args := ctx.stack[k:len(ctx.stack):len(ctx.stack)]
		v, err := ctx.r.ResolveFunction(n.Name, args)
		if err != nil {
			return &CallError{At: n.Span, Name: n.Name, Err: err}
		}
		clear(ctx.stack[k:])
		ctx.stack = append(ctx.stack[:k], v)
	case NodeAdd, NodeSub, NodeMul, NodeDiv, NodeMod, NodePow:
		l, r, err := ctx.pop2(n)
		if err != nil {
			return err
		}
		v, ok := arith(n.Kind, l, r, ctx.prec)
		if !ok {
			return &TypeError{At: n.Span, Op: n.Kind.Symbol(), Left: l.kind, Right: r.kind}
		}
		ctx.push(v)
	case NodeEq, NodeNeq, NodeGe, NodeLe:
		l, r, err := ctx.pop2(n)
		if err != nil {
			return err
		}
		ctx.push(compare(n.Kind, l, r))
	default:
		return &NodeError{At: n.Span, Kind: n.Kind}
	}
	return nil
}

func (ctx *Context) push(v Value) {
	ctx.stack = append(ctx.stack, v)
}

// pop2 removes the operands of a binary node from the stack.
func (ctx *Context) pop2(n Node) (l, r Value, err error) {
	k := len(ctx.stack)
	if k < 2 {
		return Value{}, Value{}, &StackError{At: n.Span, Need: 2, Have: k}
	}
	l, r = ctx.stack[k-2], ctx.stack[k-1]
	ctx.stack[k-2], ctx.stack[k-1] = Value{}, Value{}
	ctx.stack = ctx.stack[:k-2]
	return l, r, nil
}

// num gets a possibly cached decimal from its text.
func (ctx *Context) num(s string) (*big.Float, error) {
	if r := ctx.nums[s]; r != nil {
		return r, nil
	}
	r, err := parsefloat(s, ctx.prec)
	if err != nil {
		return nil, err
	}
	ctx.nums[s] = r
	return r, nil
}

// Eval is a shortcut to parse and evaluate an expression with a new context.
// Nodes are evaluated as the parser produces them, so an evaluation error
// early in src is reported before a syntax error later in it. To report syntax
// errors first, use Parse and then Context.Eval.
func Eval(r Resolver, src string, opts ...ContextOption) (Value, error) {
	return NewContext(r, opts...).EvalNodes(NewParser(src))
}

// EvalTokens parses and evaluates an expression from tokens scanned from src.
// Like Eval, it evaluates nodes as they are parsed.
func EvalTokens(r Resolver, src string, toks TokenSource, opts ...ContextOption) (Value, error) {
	return NewContext(r, opts...).EvalNodes(NewTokenParser(src, toks))
}

// EvalNodes evaluates a node sequence with a new context.
func EvalNodes(r Resolver, nodes NodeSource, opts ...ContextOption) (Value, error) {
	return NewContext(r, opts...).EvalNodes(nodes)
}

// NameError is an error from a constant that the resolver does not know.
type NameError struct {
	// At is the span of the constant.
	At lex.Span
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return errpos(err.At, "unresolved constant "+strconv.Quote(err.Name))
}

func (err *NameError) Span() lex.Span {
	return err.At
}

// CallError is an error returned by the resolver for a function call.
type CallError struct {
	// At is the span of the call, from the name through the closing bracket.
	At lex.Span
	// Name is the function name.
	Name string
	// Err is the resolver's error.
	Err error
}

func (err *CallError) Error() string {
	return errpos(err.At, "calling "+err.Name+": "+err.Err.Error())
}

func (err *CallError) Unwrap() error {
	return err.Err
}

func (err *CallError) Span() lex.Span {
	return err.At
}

// TypeError is an error from applying arithmetic to a truth value.
type TypeError struct {
	// At is the span of the operator.
	At lex.Span
	// Op is the operator symbol.
	Op string
	// Left and Right are the kinds of the operands.
	Left, Right Kind
}

func (err *TypeError) Error() string {
	return errpos(err.At, "cannot apply "+err.Op+" to "+err.Left.String()+" and "+err.Right.String())
}

func (err *TypeError) Span() lex.Span {
	return err.At
}

// StackError is an error indicating a malformed node sequence: a node that
// needs more operands than the stack holds, or a sequence that does not leave
// exactly one value. The parser never produces such sequences.
type StackError struct {
	// At is the span of the node that failed, or of the last node if End.
	At lex.Span
	// Need is the number of operands the node needed.
	Need int
	// Have is the number of values on the stack.
	Have int
	// End is whether the error was detected at the end of the sequence.
	End bool
}

func (err *StackError) Error() string {
	if err.End {
		return errpos(err.At, "expression left "+strconv.Itoa(err.Have)+" values, want 1")
	}
	return errpos(err.At, "need "+strconv.Itoa(err.Need)+" operands, have "+strconv.Itoa(err.Have))
}

func (err *StackError) Span() lex.Span {
	return err.At
}

// NodeError is an error indicating a node whose kind is not one of the
// defined kinds, such as the zero Node. It implements InputError.
type NodeError struct {
	// At is the span of the node.
	At lex.Span
	// Kind is the node's kind.
	Kind NodeKind
}

func (err *NodeError) Error() string {
	return errpos(err.At, "invalid node "+err.Kind.String())
}

func (err *NodeError) Span() lex.Span {
	return err.At
}
