package equation

import (
	"errors"
	"io"
	"reflect"
	"regexp"
	"slices"
	"testing"

	"github.com/zephyrtronium/equation/lex"
)

func TestOpPrecsExist(t *testing.T) {
	for k := NodeAdd; k <= NodeLe; k++ {
		b := binop(k)
		if b.op != k {
			t.Errorf("binop(%v) gives operator for %v", k, b.op)
		}
		if k.Symbol() == "" {
			t.Errorf("no symbol for %v", k)
		}
	}
}

func TestNegPrec(t *testing.T) {
	if p := binop(NodeMul).prec; p >= negprec.prec {
		t.Errorf("negation has prec %d but * has prec %d", negprec.prec, p)
	}
	if p := binop(NodePow).prec; p <= negprec.prec {
		t.Errorf("negation has prec %d but ^ has prec %d", negprec.prec, p)
	}
}

func TestNodeKinds(t *testing.T) {
	cases := []struct {
		k         NodeKind
		unary, op bool
		eq        bool
		sym, name string
	}{
		{NodeInt, true, false, false, "", "Int"},
		{NodeDecimal, true, false, false, "", "Decimal"},
		{NodeConstant, true, false, false, "", "Constant"},
		{NodeFunction, false, false, false, "", "Function"},
		{NodeAdd, false, true, false, "+", "Add"},
		{NodeMod, false, true, false, "%", "Mod"},
		{NodePow, false, true, false, "^", "Pow"},
		{NodeEq, false, false, true, "=", "Eq"},
		{NodeNeq, false, false, true, "!=", "Neq"},
		{NodeLe, false, false, true, "<", "Le"},
		{NodeKind(99), false, false, false, "", "NodeKind(99)"},
	}
	for _, c := range cases {
		if c.k.IsUnary() != c.unary || c.k.IsOperator() != c.op || c.k.IsEquation() != c.eq {
			t.Errorf("%v: wrong class: unary %t op %t eq %t", c.k, c.k.IsUnary(), c.k.IsOperator(), c.k.IsEquation())
		}
		if s := c.k.Symbol(); s != c.sym {
			t.Errorf("%v: want symbol %q, got %q", c.k, c.sym, s)
		}
		if s := c.k.String(); s != c.name {
			t.Errorf("want name %q, got %q", c.name, s)
		}
	}
}

func TestParsePostfix(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"int", "1", "1"},
		{"hex", "0x1F", "31"},
		{"bin", "0b101", "5"},
		{"decimal", "1.5", "1.5"},
		{"exponent", "2e3", "2e3"},
		{"bigint", "18446744073709551616", "18446744073709551616"},
		{"const", "pi", "pi"},
		{"paren", "(1)", "1"},
		{"nested", "([{1}])", "1"},
		{"ws", "  1 +\t2\n", "1 2 +"},

		{"add", "1+2", "1 2 +"},
		{"left-assoc", "1-2-3", "1 2 - 3 -"},
		{"prec", "1+2*3", "1 2 3 * +"},
		{"prec-rev", "1*2+3", "1 2 * 3 +"},
		{"parens", "(1+2)*3", "1 2 + 3 *"},
		{"mod", "7%3*2", "7 3 % 2 *"},
		{"div", "8/4/2", "8 4 / 2 /"},
		{"pow-right", "2^3^2", "2 3 2 ^ ^"},
		{"pow-mul", "2*3^2", "2 3 2 ^ *"},

		{"neg", "-1", "0 1 -"},
		{"neg-pow", "-2^2", "0 2 2 ^ -"},
		{"pow-neg", "2^-1", "2 0 1 - ^"},
		{"neg-mul", "-2*3", "0 2 - 3 *"},
		{"mul-neg", "2*-3", "2 0 3 - *"},
		{"negneg", "--2", "0 0 2 - -"},
		{"sub-neg", "1--2", "1 0 2 - -"},
		{"plus", "+2", "2"},
		{"plus-neg", "+-2", "0 2 -"},
		{"neg-paren", "-(1+2)", "0 1 2 + -"},

		{"eq", "1=2", "1 2 ="},
		{"eqeq", "1==2", "1 2 ="},
		{"neq", "1!=2", "1 2 !="},
		{"ge", "1>2", "1 2 >"},
		{"le", "1<2", "1 2 <"},
		{"cmp-prec", "1+2=3*1", "1 2 + 3 1 * ="},
		{"cmp-left", "1=2=3", "1 2 = 3 ="},

		{"call0", "f()", "f/0"},
		{"call1", "f(1)", "1 f/1"},
		{"call2", "f(1, 2)", "1 2 f/2"},
		{"call-square", "f[1]", "1 f/1"},
		{"call-curly", "f{1,2,3}", "1 2 3 f/3"},
		{"call-nested", "f(g(1), h())", "1 g/1 h/0 f/2"},
		{"call-exprs", "f(1+2, 3*4)", "1 2 + 3 4 * f/2"},
		{"call-op", "2*f(3)^2", "2 3 f/1 2 ^ *"},
		{"call-neg", "-f(2)", "0 2 f/1 -"},
		{"call-parens", "f((1), (2))", "1 2 f/2"},
		{"call-const-arg", "f(x)", "x f/1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			if s := e.String(); s != c.want {
				t.Errorf("%q parsed wrong:\n\twant %s\n\tgot  %s", c.src, c.want, s)
			}
			if e.Source() != c.src {
				t.Errorf("wrong source: want %q, got %q", c.src, e.Source())
			}
		})
	}
}

func TestParseSpans(t *testing.T) {
	e, err := Parse("-x + f(2, 0x1)")
	if err != nil {
		t.Fatal(err)
	}
	want := []Node{
		{Kind: NodeInt, Span: lex.Span{Start: 0, End: 1}},
		{Kind: NodeConstant, Span: lex.Span{Start: 1, End: 2}, Name: "x"},
		{Kind: NodeSub, Span: lex.Span{Start: 0, End: 1}},
		{Kind: NodeInt, Span: lex.Span{Start: 7, End: 8}, Int: 2},
		{Kind: NodeInt, Span: lex.Span{Start: 10, End: 13}, Int: 1},
		{Kind: NodeFunction, Span: lex.Span{Start: 5, End: 14}, Name: "f", Args: 2},
		{Kind: NodeAdd, Span: lex.Span{Start: 3, End: 4}},
	}
	if got := e.Nodes(); !reflect.DeepEqual(got, want) {
		t.Errorf("wrong nodes:\n\twant %+v\n\tgot  %+v", want, got)
	}

	e, err = Parse("1 == 2 != 3")
	if err != nil {
		t.Fatal(err)
	}
	nodes := e.Nodes()
	if got, want := nodes[2].Span, (lex.Span{Start: 2, End: 4}); got != want {
		t.Errorf("== has span %v, want %v", got, want)
	}
	if got, want := nodes[4].Span, (lex.Span{Start: 7, End: 9}); got != want {
		t.Errorf("!= has span %v, want %v", got, want)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  InputError
		at   lex.Span
		res  []string
	}{
		{"empty", "", new(EmptyExpressionError), lex.Span{0, 0}, []string{`(?i)\bno expression\b`}},
		{"blank", "  ", new(EmptyExpressionError), lex.Span{2, 2}, []string{`(?i)\bno expression\b`}},
		{"emptyparen", "()", new(EmptyExpressionError), lex.Span{1, 2}, []string{`(?i)\bno expression\b`, `\)`}},
		{"haskell", "(+)", new(EmptyExpressionError), lex.Span{2, 3}, []string{`\)`}},
		{"emptyarg", "f(1,)", new(EmptyExpressionError), lex.Span{4, 5}, []string{`\)`}},
		{"emptyarg-first", "f(,1)", new(EmptyExpressionError), lex.Span{2, 3}, []string{`","`}},

		{"trailing", "2*", new(OperandError), lex.Span{1, 2}, []string{`(?i)\bmissing operand\b`, `"\*"`}},
		{"trailing-sub", "1+2-", new(OperandError), lex.Span{3, 4}, []string{`"-"`}},
		{"trailing-neg", "1*-", new(OperandError), lex.Span{2, 3}, []string{`"-"`}},
		{"leading", "*2", new(OperandError), lex.Span{0, 1}, []string{`(?i)\bmissing operand\b`, `"\*"`}},
		{"doubled", "1= =2", new(OperandError), lex.Span{3, 4}, []string{`"="`}},
		{"paren-op", "(1+)", new(OperandError), lex.Span{2, 3}, []string{`"\+"`}},
		{"arg-op", "f(1*, 2)", new(OperandError), lex.Span{3, 4}, []string{`"\*"`}},
		{"juxtapose", "2 3", new(OperandError), lex.Span{2, 3}, []string{`(?i)\bmissing operator\b`, `"3"`}},
		{"juxtapose-name", "2 x", new(OperandError), lex.Span{2, 3}, []string{`(?i)\bmissing operator\b`, `"x"`}},
		{"space-call", "f (1)", new(OperandError), lex.Span{2, 3}, []string{`(?i)\bmissing operator\b`, `"\("`}},
		{"after-close", "(1)2", new(OperandError), lex.Span{3, 4}, []string{`(?i)\bmissing operator\b`}},

		{"left", "(1", new(BracketError), lex.Span{0, 1}, []string{`(?i)\bbracket\b`, `\(`}},
		{"right", "1)", new(BracketError), lex.Span{1, 2}, []string{`(?i)\bbracket\b`, `\)`}},
		{"mismatch", "(1]", new(BracketError), lex.Span{2, 3}, []string{`(?i)\bbracket\b`, `\(`, `]`}},
		{"call-mismatch", "f(1]", new(BracketError), lex.Span{3, 4}, []string{`\(`, `]`}},
		{"call-open", "f(", new(BracketError), lex.Span{1, 2}, []string{`\(`}},
		{"call-open-arg", "f(1, 2", new(BracketError), lex.Span{1, 2}, []string{`\(`}},

		{"sep", "1, 2", new(SeparatorError), lex.Span{1, 2}, []string{`","`}},
		{"sep-paren", "(1, 2)", new(SeparatorError), lex.Span{2, 3}, []string{`","`}},
		{"sep-start", ",", new(SeparatorError), lex.Span{0, 1}, []string{`","`}},

		{"amp", "1&2", new(OperatorError), lex.Span{1, 2}, []string{`(?i)\bbinary\b`, `"&"`}},
		{"amp-unary", "&2", new(OperatorError), lex.Span{0, 1}, []string{`(?i)\bunary\b`, `"&"`}},
		{"bang", "1!2", new(OperatorError), lex.Span{1, 2}, []string{`(?i)\bbinary\b`, `"!"`}},
		{"bang-end", "1!", new(OperatorError), lex.Span{1, 2}, []string{`"!"`}},
		{"bang-unary", "!1", new(OperatorError), lex.Span{0, 1}, []string{`(?i)\bunary\b`, `"!"`}},

		{"invalid", "2^$", new(InvalidTokenError), lex.Span{2, 3}, []string{`"\$"`}},
		{"invalid-run", "1 + @#", new(InvalidTokenError), lex.Span{4, 6}, []string{`"@#"`}},
		{"invalid-dot", ".5", new(InvalidTokenError), lex.Span{0, 1}, []string{`"\."`}},
		{"invalid-unicode", "1 × 2", new(InvalidTokenError), lex.Span{2, 4}, []string{`"×"`}},

		{"hex-empty", "0x", new(NumberError), lex.Span{0, 2}, []string{`"0x"`, `(?i)\bno digits\b`}},
		{"bin-digits", "0b102", new(NumberError), lex.Span{0, 5}, []string{`"0b102"`, `(?i)\binvalid syntax\b`}},
		{"hex-range", "0x10000000000000000", new(NumberError), lex.Span{0, 19}, []string{`(?i)\bout of range\b`}},
		{"dots", "1.2.3", new(NumberError), lex.Span{0, 5}, []string{`"1\.2\.3"`}},
		{"exponent", "1e", new(NumberError), lex.Span{0, 2}, []string{`"1e"`}},
		{"exponent-dot", "1e2.5", new(NumberError), lex.Span{0, 5}, []string{`"1e2\.5"`}},
		{"trailing-dot", "1.", new(NumberError), lex.Span{0, 2}, []string{`"1\."`}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := Parse(c.src)
			if e != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, e)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Fatalf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			var ie InputError
			if !errors.As(err, &ie) {
				t.Fatalf("%#v is not an InputError", err)
			}
			if at := ie.Span(); at != c.at {
				t.Errorf("error from %q at %v, want %v", c.src, at, c.at)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestParseLazy(t *testing.T) {
	ps := NewParser("1+2+)")
	var got []string
	var err error
	for {
		var n Node
		n, err = ps.Next()
		if err != nil {
			break
		}
		got = append(got, n.String())
	}
	if want := []string{"1", "2", "+"}; !slices.Equal(got, want) {
		t.Errorf("nodes before error: want %q, got %q", want, got)
	}
	var oe *OperandError
	if !errors.As(err, &oe) {
		t.Fatalf("wrong error %#v", err)
	}
	if _, again := ps.Next(); again != err {
		t.Errorf("error not sticky: first %v, then %v", err, again)
	}

	ps = NewParser("1")
	if _, err := ps.Next(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if _, err := ps.Next(); err != io.EOF {
			t.Errorf("call %d after end gave %v", i, err)
		}
	}
}

// countsrc counts the tokens a parser reads.
type countsrc struct {
	toks *lex.Tokenizer
	n    int
}

func (s *countsrc) Next() (lex.Token, bool) {
	tok, ok := s.toks.Next()
	if ok {
		s.n++
	}
	return tok, ok
}

func TestParseReadsOnDemand(t *testing.T) {
	const src = "1 + 2 * 3"
	s := &countsrc{toks: lex.New(src)}
	ps := NewTokenParser(src, s)
	if _, err := ps.Next(); err != nil {
		t.Fatal(err)
	}
	if s.n != 1 {
		t.Errorf("first node read %d tokens, want 1", s.n)
	}
	for {
		if _, err := ps.Next(); err != nil {
			break
		}
	}
	if want := len(lex.Tokenize(src)); s.n != want {
		t.Errorf("read %d tokens in total, want %d", s.n, want)
	}
}

func TestParseTokens(t *testing.T) {
	const src = "f(1, -x) ^ 2 = y"
	a, err := Parse(src)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseTokens(src, Tokens(lex.Tokenize(src)))
	if err != nil {
		t.Fatal(err)
	}
	c, err := ParseTokens(src, lex.New(src))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Nodes(), b.Nodes()) || !reflect.DeepEqual(a.Nodes(), c.Nodes()) {
		t.Errorf("token parsing differs:\n\t%v\n\t%v\n\t%v", a, b, c)
	}
}

func TestParseForeignTokens(t *testing.T) {
	num := func(k lex.NumberKind, start, end int) lex.Token {
		return lex.Token{Kind: lex.Number, Number: k, Span: lex.Span{start, end}}
	}
	cases := []struct {
		name string
		src  string
		toks []lex.Token
		err  InputError
		at   lex.Span
	}{
		{
			name: "unknown-binary",
			src:  "1 ?",
			toks: []lex.Token{num(lex.Decimal, 0, 1), {Kind: 200, Span: lex.Span{2, 3}}},
			err:  new(OperatorError),
			at:   lex.Span{2, 3},
		},
		{
			name: "unknown-operand",
			src:  "?",
			toks: []lex.Token{{Kind: 200, Span: lex.Span{0, 1}}},
			err:  new(OperandError),
			at:   lex.Span{0, 1},
		},
		{
			name: "short-hex",
			src:  "1 + 7",
			toks: []lex.Token{num(lex.Decimal, 0, 1), {Kind: lex.Plus, Span: lex.Span{2, 3}}, num(lex.Hexadecimal, 4, 5)},
			err:  new(NumberError),
			at:   lex.Span{4, 5},
		},
		{
			name: "outside",
			src:  "1+",
			toks: []lex.Token{num(lex.Decimal, 0, 1), {Kind: lex.Plus, Span: lex.Span{1, 2}}, num(lex.Decimal, 7, 9)},
			err:  new(NumberError),
			at:   lex.Span{7, 9},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := ParseTokens(c.src, Tokens(c.toks))
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Fatalf("wrong error type: want %T, got %T (%v)", c.err, err, err)
			}
			if at := err.(InputError).Span(); at != c.at {
				t.Errorf("error at %v, want %v", at, c.at)
			}
		})
	}
}

func TestKnownSymbols(t *testing.T) {
	known := KnownSymbols(func(name string) bool { return name == "pi" || name == "e" })
	for _, src := range []string{"pi+e", "f(pi)", "x(1)", "2*e^pi"} {
		if _, err := Parse(src, known); err != nil {
			t.Errorf("%q failed to parse: %v", src, err)
		}
	}
	cases := []struct {
		src  string
		name string
		at   lex.Span
	}{
		{"pi+x", "x", lex.Span{3, 4}},
		{"f(x)", "x", lex.Span{2, 3}},
		{"tau", "tau", lex.Span{0, 3}},
	}
	for _, c := range cases {
		_, err := Parse(c.src, known)
		var se *SymbolError
		if !errors.As(err, &se) {
			t.Errorf("%q gave %v, not SymbolError", c.src, err)
			continue
		}
		if se.Name != c.name || se.At != c.at {
			t.Errorf("%q: want %q at %v, got %q at %v", c.src, c.name, c.at, se.Name, se.At)
		}
	}
}

func TestMaxDepth(t *testing.T) {
	cases := []struct {
		src string
		max int
		at  lex.Span
		bad bool
	}{
		{"((1))", 2, lex.Span{}, false},
		{"f(g(1))", 2, lex.Span{}, false},
		{"(1)+(1)+(1)", 1, lex.Span{}, false},
		{"(((1)))", 2, lex.Span{2, 3}, true},
		{"f(g(h(1)))", 2, lex.Span{5, 6}, true},
		{"(((((((1)))))))", 0, lex.Span{}, false},
		{"(((((((1)))))))", -1, lex.Span{}, false},
	}
	for _, c := range cases {
		_, err := Parse(c.src, MaxDepth(c.max))
		if !c.bad {
			if err != nil {
				t.Errorf("%q with max %d failed: %v", c.src, c.max, err)
			}
			continue
		}
		var de *DepthError
		if !errors.As(err, &de) {
			t.Errorf("%q with max %d gave %v, not DepthError", c.src, c.max, err)
			continue
		}
		if de.At != c.at || de.Max != c.max {
			t.Errorf("%q: want max %d at %v, got %d at %v", c.src, c.max, c.at, de.Max, de.At)
		}
	}
}

func TestParsingPreset(t *testing.T) {
	preset := ParsingPreset(MaxDepth(1))
	if _, err := Parse("(1)", preset); err != nil {
		t.Errorf("preset rejected (1): %v", err)
	}
	if _, err := Parse("((1))", preset); err == nil {
		t.Error("preset accepted ((1))")
	}
	if _, err := Parse("((1))", preset, MaxDepth(2)); err != nil {
		t.Errorf("option after preset not applied: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("preset after option didn't panic")
		}
	}()
	Parse("1", MaxDepth(2), preset)
}

func TestExprNames(t *testing.T) {
	e, err := Parse("b + a(c) + b(a) + c + sin(b)")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := e.Names(), []string{"a", "b", "c"}; !slices.Equal(got, want) {
		t.Errorf("wrong names: want %q, got %q", want, got)
	}
	if got, want := e.Funcs(), []string{"a", "b", "sin"}; !slices.Equal(got, want) {
		t.Errorf("wrong funcs: want %q, got %q", want, got)
	}
	e, err = Parse("1 + 2")
	if err != nil {
		t.Fatal(err)
	}
	if e.Names() != nil || e.Funcs() != nil {
		t.Errorf("names in constant expression: %q %q", e.Names(), e.Funcs())
	}
}

func TestExprNodesCopy(t *testing.T) {
	e, err := Parse("1+2")
	if err != nil {
		t.Fatal(err)
	}
	n := e.Nodes()
	n[0].Int = 100
	if e.String() != "1 2 +" {
		t.Errorf("modifying Nodes changed the expression to %v", e)
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"descasc", "w^x*y+z+a*b^c"},
		{"descasc-parens", "(((w^x)*y)+z)+a*(b^c)"},
		{"ascdesc", "w+x*y^z^a*b+c"},
		{"ascdesc-parens", "w+((x*(y^(z^a)))*b)+c"},
		{"nums", "1^1.1*1.1e1+0x11-0b11*9223372036854775808"},
		{"call0", "zero()"},
		{"call5", "five(a, b, c, d, e)"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Parse(c.src)
			}
		})
	}
}
