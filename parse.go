package equation

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/zephyrtronium/equation/lex"
)

// Expr = num | name | Call | Neg | Plus | Binary | '(' Expr ')' | '[' Expr ']' | '{' Expr '}'
// Call = name '(' [ Expr { ',' Expr } ] ')' | name '[' ... ']' | name '{' ... '}'   (no space before the bracket)
// Neg = '-' Expr
// Plus = '+' Expr
// Binary = Expr op Expr
// op = '=' | '==' | '!=' | '>' | '<' | '+' | '-' | '*' | '/' | '%' | '^'
//
// Precedence, loosest first: comparisons, then + -, then * / %, then unary
// minus, then ^. Exponentiation is right-associative and everything else
// associates left, so "-2^2" is "-(2^2)" and "2^-1" is "2^(-1)".

// TokenSource is a forward-only sequence of tokens. *lex.Tokenizer
// implements it.
type TokenSource interface {
	Next() (lex.Token, bool)
}

type tokenslice struct {
	toks []lex.Token
}

func (s *tokenslice) Next() (lex.Token, bool) {
	if len(s.toks) == 0 {
		return lex.Token{}, false
	}
	tok := s.toks[0]
	s.toks = s.toks[1:]
	return tok, true
}

// Tokens creates a TokenSource from already scanned tokens.
func Tokens(toks []lex.Token) TokenSource {
	return &tokenslice{toks: toks}
}

// Parser converts tokens into nodes in postfix order. It is lazy: each call
// to Next reads only as many tokens as it takes to produce another node.
type Parser struct {
	src  string
	toks TokenSource
	p    parsectx

	// pushed is a token read ahead and returned to the parser.
	pushed lex.Token
	havep  bool

	// out is the queue of nodes ready to be returned.
	out  []Node
	head int
	// ops is the operator stack.
	ops []pending

	// operand is whether the parser expects an operand next.
	operand bool
	started bool
	done    bool
	depth   int
	err     error
}

// pending is an operator or bracket waiting on the operator stack.
type pending struct {
	// tok is the operator or opening bracket token. span may be wider for
	// two-character operators.
	tok  lex.Token
	span lex.Span
	// kind is the node to emit for operators. Brackets have nodeNone, or
	// NodeFunction when they open an argument list.
	kind  NodeKind
	prec  int8
	right bool
	// name, start, and args describe a function call.
	name  string
	start int
	args  int
}

func (p *pending) bracket() bool {
	return p.kind == nodeNone || p.kind == NodeFunction
}

// NewParser creates a parser over src.
func NewParser(src string, opts ...ParseOption) *Parser {
	return NewTokenParser(src, lex.New(src), opts...)
}

// NewTokenParser creates a parser over tokens that were scanned from src.
// Token spans must refer to src.
func NewTokenParser(src string, toks TokenSource, opts ...ParseOption) *Parser {
	ps := Parser{src: src, toks: toks, operand: true}
	for _, opt := range opts {
		ps.p = opt.parseOption(ps.p)
	}
	return &ps
}

// Next returns the next node. After the last node, the result is io.EOF. If
// the input is malformed, the result is an InputError, and every later call
// returns the same error.
func (ps *Parser) Next() (Node, error) {
	for ps.head == len(ps.out) {
		if ps.err != nil {
			return Node{}, ps.err
		}
		if ps.done {
			return Node{}, io.EOF
		}
		ps.out, ps.head = ps.out[:0], 0
		if err := ps.step(); err != nil {
			ps.err = err
			ps.out = ps.out[:0]
		}
	}
	n := ps.out[ps.head]
	ps.head++
	return n, nil
}

// raw gets the next token, including whitespace.
func (ps *Parser) raw() (lex.Token, bool) {
	if ps.havep {
		ps.havep = false
		return ps.pushed, true
	}
	return ps.toks.Next()
}

// push unreads a token so that it is the next token returned from raw. Panics
// if there is already a pushed token.
func (ps *Parser) push(tok lex.Token) {
	if ps.havep {
		panic("equation: double push")
	}
	ps.pushed, ps.havep = tok, true
}

// next gets the next token that is not whitespace.
func (ps *Parser) next() (lex.Token, bool) {
	for {
		tok, ok := ps.raw()
		if !ok || tok.Kind != lex.Ws {
			return tok, ok
		}
	}
}

func (ps *Parser) emit(n Node) {
	ps.out = append(ps.out, n)
}

func (ps *Parser) top() *pending {
	if len(ps.ops) == 0 {
		return nil
	}
	return &ps.ops[len(ps.ops)-1]
}

func (ps *Parser) text(tok lex.Token) string {
	return ps.slice(tok.Span)
}

// slice gets the source text in a span, or the empty string if the span is not
// within the source, as can happen with tokens from elsewhere.
func (ps *Parser) slice(s lex.Span) string {
	if s.Start < 0 || s.Start > s.End || s.End > len(ps.src) {
		return ""
	}
	return s.Text(ps.src)
}

// step consumes one token, plus any lookahead it needs.
func (ps *Parser) step() error {
	tok, ok := ps.next()
	if !ok {
		return ps.finish()
	}
	ps.started = true
	switch tok.Kind {
	case lex.Invalid:
		return &InvalidTokenError{At: tok.Span, Text: ps.text(tok)}
	case lex.Number:
		if !ps.operand {
			return &OperandError{At: tok.Span, Text: ps.text(tok), Operator: true}
		}
		n, err := ps.number(tok)
		if err != nil {
			return err
		}
		ps.emit(n)
		ps.operand = false
	case lex.Chars:
		if !ps.operand {
			return &OperandError{At: tok.Span, Text: ps.text(tok), Operator: true}
		}
		return ps.name(tok)
	case lex.Brace:
		if tok.Open {
			if !ps.operand {
				return &OperandError{At: tok.Span, Text: ps.text(tok), Operator: true}
			}
			return ps.open(tok, "", tok.Span.Start)
		}
		return ps.close(tok)
	case lex.Comma:
		return ps.comma(tok)
	default:
		return ps.operator(tok)
	}
	return nil
}

// name handles an identifier, which is a function call if an opening bracket
// follows it immediately and a constant otherwise.
func (ps *Parser) name(tok lex.Token) error {
	name := ps.text(tok)
	if nx, ok := ps.raw(); ok {
		if nx.IsOpen() {
			return ps.open(nx, name, tok.Span.Start)
		}
		ps.push(nx)
	}
	if ps.p.known != nil && !ps.p.known(name) {
		return &SymbolError{At: tok.Span, Name: name}
	}
	ps.emit(Node{Kind: NodeConstant, Span: tok.Span, Name: name})
	ps.operand = false
	return nil
}

// open pushes a bracket. If name is not empty, the bracket opens the argument
// list of a call to name.
func (ps *Parser) open(tok lex.Token, name string, start int) error {
	ps.depth++
	if ps.p.maxdepth > 0 && ps.depth > ps.p.maxdepth {
		return &DepthError{At: tok.Span, Max: ps.p.maxdepth}
	}
	b := pending{tok: tok, span: tok.Span, kind: nodeNone}
	if name != "" {
		b.kind, b.name, b.start = NodeFunction, name, start
	}
	ps.ops = append(ps.ops, b)
	ps.operand = true
	return nil
}

// close handles a closing bracket.
func (ps *Parser) close(tok lex.Token) error {
	right := ps.text(tok)
	if ps.operand {
		t := ps.top()
		switch {
		case t == nil:
			return &BracketError{At: tok.Span, Right: right}
		case !t.bracket():
			return &OperandError{At: t.span, Text: ps.slice(t.span)}
		case t.kind != NodeFunction || t.args != 0:
			return &EmptyExpressionError{At: tok.Span, End: right}
		}
		// f() is a call with no arguments.
	} else {
		ps.unwind()
		if ps.top() == nil {
			return &BracketError{At: tok.Span, Right: right}
		}
		ps.top().args++
	}
	b := ps.ops[len(ps.ops)-1]
	if b.tok.Brace != tok.Brace {
		return &BracketError{At: tok.Span, Left: ps.text(b.tok), Right: right}
	}
	ps.ops = ps.ops[:len(ps.ops)-1]
	ps.depth--
	if b.kind == NodeFunction {
		ps.emit(Node{
			Kind: NodeFunction,
			Span: lex.Span{Start: b.start, End: tok.Span.End},
			Name: b.name,
			Args: b.args,
		})
	}
	ps.operand = false
	return nil
}

// comma handles an argument separator.
func (ps *Parser) comma(tok lex.Token) error {
	if ps.operand {
		t := ps.top()
		switch {
		case t == nil:
			return &SeparatorError{At: tok.Span, Sep: ","}
		case !t.bracket():
			return &OperandError{At: t.span, Text: ps.slice(t.span)}
		case t.kind == NodeFunction:
			return &EmptyExpressionError{At: tok.Span, End: ","}
		default:
			return &SeparatorError{At: tok.Span, Sep: ","}
		}
	}
	ps.unwind()
	t := ps.top()
	if t == nil || t.kind != NodeFunction {
		return &SeparatorError{At: tok.Span, Sep: ","}
	}
	t.args++
	ps.operand = true
	return nil
}

// unwind emits operators until the stack is empty or has a bracket on top.
func (ps *Parser) unwind() {
	for len(ps.ops) > 0 {
		t := ps.ops[len(ps.ops)-1]
		if t.bracket() {
			return
		}
		ps.emit(Node{Kind: t.kind, Span: t.span})
		ps.ops = ps.ops[:len(ps.ops)-1]
	}
}

// operator handles an operator token in either unary or binary position.
func (ps *Parser) operator(tok lex.Token) error {
	if ps.operand {
		switch tok.Kind {
		case lex.Minus:
			// -x is 0 - x, with the subtraction binding tighter than
			// anything but exponentiation.
			ps.emit(Node{Kind: NodeInt, Span: tok.Span})
			ps.ops = append(ps.ops, pending{tok: tok, span: tok.Span, kind: NodeSub, prec: negprec.prec, right: true})
			return nil
		case lex.Plus:
			return nil
		case lex.Amp, lex.Bang:
			return &OperatorError{At: tok.Span, Operator: ps.text(tok), Unary: true}
		default:
			return &OperandError{At: tok.Span, Text: ps.text(tok)}
		}
	}
	span := tok.Span
	var kind NodeKind
	switch tok.Kind {
	case lex.Plus:
		kind = NodeAdd
	case lex.Minus:
		kind = NodeSub
	case lex.Star:
		kind = NodeMul
	case lex.Slash:
		kind = NodeDiv
	case lex.Percent:
		kind = NodeMod
	case lex.Caret:
		kind = NodePow
	case lex.Greater:
		kind = NodeGe
	case lex.Less:
		kind = NodeLe
	case lex.Eq:
		// = and == are the same.
		kind = NodeEq
		if nx, ok := ps.raw(); ok {
			if nx.Kind == lex.Eq {
				span.End = nx.Span.End
			} else {
				ps.push(nx)
			}
		}
	case lex.Bang:
		nx, ok := ps.raw()
		if !ok || nx.Kind != lex.Eq {
			if ok {
				ps.push(nx)
			}
			return &OperatorError{At: tok.Span, Operator: "!"}
		}
		kind = NodeNeq
		span.End = nx.Span.End
	case lex.Amp:
		return &OperatorError{At: tok.Span, Operator: ps.text(tok)}
	default:
		return &OperatorError{At: tok.Span, Operator: ps.text(tok)}
	}
	prec := binop(kind)
	for len(ps.ops) > 0 {
		t := ps.ops[len(ps.ops)-1]
		if t.bracket() || !(operator{t.prec, t.right, t.kind}).before(prec) {
			break
		}
		ps.emit(Node{Kind: t.kind, Span: t.span})
		ps.ops = ps.ops[:len(ps.ops)-1]
	}
	ps.ops = append(ps.ops, pending{tok: tok, span: span, kind: kind, prec: prec.prec, right: prec.right})
	ps.operand = true
	return nil
}

// finish handles the end of input.
func (ps *Parser) finish() error {
	ps.done = true
	end := lex.Span{Start: len(ps.src), End: len(ps.src)}
	if ps.operand {
		t := ps.top()
		switch {
		case !ps.started:
			return &EmptyExpressionError{At: end}
		case t == nil:
			return &OperandError{At: end}
		case !t.bracket():
			return &OperandError{At: t.span, Text: ps.slice(t.span)}
		}
	}
	ps.unwind()
	if t := ps.top(); t != nil {
		return &BracketError{At: t.tok.Span, Left: ps.text(t.tok)}
	}
	return nil
}

var errEmptyLiteral = errors.New("no digits")

// number converts a number token to a node.
func (ps *Parser) number(tok lex.Token) (Node, error) {
	text := ps.text(tok)
	n := Node{Kind: NodeInt, Span: tok.Span}
	switch tok.Number {
	case lex.Hexadecimal, lex.Binary:
		base := 16
		if tok.Number == lex.Binary {
			base = 2
		}
		if len(text) <= 2 {
			return Node{}, &NumberError{At: tok.Span, Text: text, Err: errEmptyLiteral}
		}
		v, err := strconv.ParseInt(text[2:], base, 64)
		if err != nil {
			return Node{}, &NumberError{At: tok.Span, Text: text, Err: numerr(err)}
		}
		n.Int = v
		return n, nil
	}
	if !strings.ContainsAny(text, ".eE") {
		v, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			n.Int = v
			return n, nil
		}
		// Too large for an integer. Use a decimal instead.
	}
	if !decimalSyntax(text) {
		return Node{}, &NumberError{At: tok.Span, Text: text}
	}
	n.Kind, n.Name = NodeDecimal, text
	return n, nil
}

// numerr strips the redundant function and input details from strconv errors.
func numerr(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

// decimalSyntax checks that s is digits, optionally followed by a point and
// more digits, optionally followed by an exponent marker and more digits.
func decimalSyntax(s string) bool {
	var dig, dot, e, ed bool
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '.':
			if dot || e || !dig {
				return false
			}
			dot = true
			dig = false
		case 'e', 'E':
			if e || !dig {
				return false
			}
			e = true
		default:
			if c < '0' || '9' < c {
				return false
			}
			if e {
				ed = true
			} else {
				dig = true
			}
		}
	}
	return dig && (!e || ed)
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op NodeKind
}

// before reports whether p, already on the stack, must be applied before an
// incoming operator next.
func (p operator) before(next operator) bool {
	if p.prec != next.prec {
		return p.prec > next.prec
	}
	return !next.right
}

// binop gets the precedence of a binary operator node kind.
func binop(k NodeKind) operator {
	switch k {
	case NodeEq, NodeNeq, NodeGe, NodeLe:
		return operator{1, false, k}
	case NodeAdd, NodeSub:
		return operator{2, false, k}
	case NodeMul, NodeDiv, NodeMod:
		return operator{3, false, k}
	case NodePow:
		return operator{5, true, k}
	default:
		panic("equation: no precedence for " + k.String())
	}
}

// negprec is the precedence of unary minus.
var negprec = operator{4, true, NodeSub}

// Expr is a parsed expression: its complete node sequence, collected so that
// it can be evaluated any number of times.
type Expr struct {
	src   string
	nodes []Node
	// names and funcs are the sorted, deduplicated constant and function
	// names the expression uses.
	names []string
	funcs []string
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	return collect(src, NewParser(src, opts...))
}

// ParseTokens parses an expression from tokens scanned from src.
func ParseTokens(src string, toks TokenSource, opts ...ParseOption) (*Expr, error) {
	return collect(src, NewTokenParser(src, toks, opts...))
}

func collect(src string, ps *Parser) (*Expr, error) {
	e := Expr{src: src}
	names := make(map[string]bool)
	funcs := make(map[string]bool)
	for {
		n, err := ps.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		e.nodes = append(e.nodes, n)
		switch n.Kind {
		case NodeConstant:
			if !names[n.Name] {
				names[n.Name] = true
				e.names = append(e.names, n.Name)
			}
		case NodeFunction:
			if !funcs[n.Name] {
				funcs[n.Name] = true
				e.funcs = append(e.funcs, n.Name)
			}
		}
	}
	sortstrs(e.names)
	sortstrs(e.funcs)
	return &e, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// Source returns the text the expression was parsed from.
func (e *Expr) Source() string {
	return e.src
}

// Nodes returns a copy of the expression's nodes in postfix order.
func (e *Expr) Nodes() []Node {
	return append([]Node(nil), e.nodes...)
}

// Names returns the constant names used in the expression.
func (e *Expr) Names() []string {
	return append([]string(nil), e.names...)
}

// Funcs returns the function names called in the expression.
func (e *Expr) Funcs() []string {
	return append([]string(nil), e.funcs...)
}

// String formats the expression in postfix notation, with nodes separated
// by spaces.
func (e *Expr) String() string {
	var b strings.Builder
	for i, n := range e.nodes {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(n.String())
	}
	return b.String()
}

// NodeSource is a forward-only sequence of nodes. Next returns io.EOF after
// the last node. *Parser implements it.
type NodeSource interface {
	Next() (Node, error)
}

type nodeslice struct {
	nodes []Node
}

func (s *nodeslice) Next() (Node, error) {
	if len(s.nodes) == 0 {
		return Node{}, io.EOF
	}
	n := s.nodes[0]
	s.nodes = s.nodes[1:]
	return n, nil
}

// Nodes creates a NodeSource from a slice of nodes.
func Nodes(nodes []Node) NodeSource {
	return &nodeslice{nodes: nodes}
}
