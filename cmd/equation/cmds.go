package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/readahead"

	"github.com/zephyrtronium/equation"
	"github.com/zephyrtronium/equation/lex"
)

type evalCmd struct {
	File  string   `short:"f" help:"Read expressions from a file, one per line. Use - for standard input."`
	Echo  bool     `help:"Print each expression in postfix form before its result."`
	Exprs []string `arg:"" optional:"" help:"Expressions to evaluate. With none and no file, expressions are read from standard input."`
}

func (c *evalCmd) Run(e *env) error {
	srcs := c.Exprs
	if c.File != "" || len(srcs) == 0 {
		lines, err := e.lines(c.File)
		if err != nil {
			return err
		}
		srcs = append(srcs, lines...)
	}
	failed := false
	for _, src := range srcs {
		if strings.TrimSpace(src) == "" {
			continue
		}
		if _, ok := e.eval(src, nil, c.Echo); !ok {
			failed = true
		}
	}
	if failed {
		return errFailed
	}
	return nil
}

// lines reads expressions from a file, or from standard input if path is
// empty or "-". Lines starting with # are comments.
func (e *env) lines(path string) ([]string, error) {
	r := e.in
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	ra := readahead.NewReader(r)
	defer ra.Close()
	var lines []string
	sc := bufio.NewScanner(ra)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines = append(lines, line)
	}
	e.log.Debug("read expressions", slog.String("file", path), slog.Int("lines", len(lines)))
	return lines, sc.Err()
}

// eval parses and evaluates one expression, printing the result or a
// diagnostic. r overrides the resolver if it is not nil.
func (e *env) eval(src string, r equation.Resolver, echo bool) (equation.Value, bool) {
	x, err := equation.Parse(src)
	if err != nil {
		e.style.diagnose(e.errw, src, err, e.tab.Suggest)
		return equation.Undefined(), false
	}
	return e.evalExpr(x, r, echo)
}

func (e *env) evalExpr(x *equation.Expr, r equation.Resolver, echo bool) (equation.Value, bool) {
	if echo {
		fmt.Fprintln(e.out, e.style.hint.Render(x.String()))
	}
	v, err := e.context(r).Eval(x)
	if err != nil {
		e.style.diagnose(e.errw, x.Source(), err, e.tab.Suggest)
		return equation.Undefined(), false
	}
	e.log.Debug("evaluated", slog.String("src", x.Source()), slog.String("kind", v.Kind().String()))
	fmt.Fprintln(e.out, e.style.value(v, e.digits))
	return v, true
}

type tokensCmd struct {
	Expr string `arg:"" help:"Expression to scan."`
}

func (c *tokensCmd) Run(e *env) error {
	printTokens(e, c.Expr)
	return nil
}

func printTokens(e *env, src string) {
	for tok := range lex.New(src).All() {
		kind := tok.Kind.String()
		switch tok.Kind {
		case lex.Brace:
			kind += "(" + tok.Brace.String() + ")"
		case lex.Number:
			kind += "(" + tok.Number.String() + ")"
		}
		fmt.Fprintf(e.out, "%s %s %q\n",
			e.style.kind.Render(fmt.Sprintf("%-18s", kind)),
			e.style.hint.Render(fmt.Sprintf("%-8s", tok.Span)),
			tok.Text(src),
		)
	}
}

type nodesCmd struct {
	Postfix bool   `help:"Print the nodes on one line."`
	Expr    string `arg:"" help:"Expression to parse."`
}

func (c *nodesCmd) Run(e *env) error {
	if !printNodes(e, c.Expr, c.Postfix) {
		return errFailed
	}
	return nil
}

func printNodes(e *env, src string, postfix bool) bool {
	x, err := equation.Parse(src)
	if err != nil {
		e.style.diagnose(e.errw, src, err, e.tab.Suggest)
		return false
	}
	if postfix {
		fmt.Fprintln(e.out, x)
		return true
	}
	for _, n := range x.Nodes() {
		fmt.Fprintf(e.out, "%s %s %s\n",
			e.style.kind.Render(fmt.Sprintf("%-8s", n.Kind)),
			e.style.hint.Render(fmt.Sprintf("%-8s", n.Span)),
			n,
		)
	}
	return true
}
