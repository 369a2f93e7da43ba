// Command equation evaluates mathematical expressions.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/profile"

	"github.com/zephyrtronium/equation"
	"github.com/zephyrtronium/equation/resolver"
)

type cli struct {
	Prec       uint       `default:"64" short:"p" help:"Precision of decimal arithmetic in bits."`
	Digits     int        `default:"-1" help:"Significant digits to print for decimals, or -1 for the shortest exact form."`
	Constants  string     `type:"existingfile" short:"c" help:"YAML file of extra constants and aliases."`
	LogLevel   slog.Level `default:"warn" help:"Log level (debug, info, warn, error)."`
	Profile    string     `default:"none" enum:"none,cpu,mem,allocs,heap,block,mutex,trace,goroutine" help:"Write a profile of the given kind."`
	ProfileDir string     `default:"." help:"Directory for profiles." type:"path"`

	Eval   evalCmd   `cmd:"" default:"withargs" help:"Evaluate expressions."`
	Tokens tokensCmd `cmd:"" help:"Print the tokens of an expression."`
	Nodes  nodesCmd  `cmd:"" help:"Print the postfix nodes of an expression."`
	Repl   replCmd   `cmd:"" help:"Evaluate expressions interactively."`
}

// env is what commands need to run.
type env struct {
	tab   *resolver.Table
	prec  uint
	in    io.Reader
	out   io.Writer
	errw  io.Writer
	style *styles
	log   *slog.Logger
	// digits is the number of significant digits for decimals.
	digits int
}

// errFailed reports that some expression failed after its diagnostic has
// already been printed.
var errFailed = errors.New("some expressions failed")

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var c cli
	code := -1
	k, err := kong.New(&c,
		kong.Name("equation"),
		kong.Description("Evaluate mathematical expressions."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(n int) { code = n }),
	)
	if err != nil {
		panic(err)
	}
	kctx, err := k.Parse(args)
	if code >= 0 {
		// Help or version output.
		return code
	}
	if err != nil {
		fmt.Fprintln(stderr, "equation:", err)
		return 2
	}

	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: c.LogLevel}))
	if p := startProfile(c.Profile, c.ProfileDir); p != nil {
		defer p.Stop()
	}

	e, err := c.env(log)
	if err != nil {
		log.Error("couldn't set up", slog.Any("err", err))
		return 1
	}
	e.in, e.out, e.errw, e.style = stdin, stdout, stderr, newStyles(stdout)
	if err := kctx.Run(e); err != nil {
		if !errors.Is(err, errFailed) {
			log.Error("failed", slog.String("command", kctx.Command()), slog.Any("err", err))
		}
		return 1
	}
	return 0
}

// env builds the command environment from the global flags.
func (c *cli) env(log *slog.Logger) (*env, error) {
	tab := resolver.Default(c.Prec)
	if c.Constants != "" {
		f, err := os.Open(c.Constants)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := resolver.Load(tab, f); err != nil {
			return nil, fmt.Errorf("loading %s: %w", c.Constants, err)
		}
		log.Info("loaded constants", slog.String("file", c.Constants), slog.Int("names", len(tab.Names())))
	}
	return &env{tab: tab, prec: tab.Prec(), log: log, digits: c.Digits}, nil
}

var profileModes = map[string]func(*profile.Profile){
	"cpu":       profile.CPUProfile,
	"mem":       profile.MemProfile,
	"allocs":    profile.MemProfileAllocs,
	"heap":      profile.MemProfileHeap,
	"block":     profile.BlockProfile,
	"mutex":     profile.MutexProfile,
	"trace":     profile.TraceProfile,
	"goroutine": profile.GoroutineProfile,
}

// startProfile starts a profile if mode names one.
func startProfile(mode, dir string) interface{ Stop() } {
	m := profileModes[mode]
	if m == nil {
		return nil
	}
	return profile.Start(m, profile.ProfilePath(dir), profile.Quiet, profile.NoShutdownHook)
}

// context creates an evaluation context with the environment's resolver and
// precision.
func (e *env) context(r equation.Resolver) *equation.Context {
	if r == nil {
		r = e.tab
	}
	return equation.NewContext(r, equation.Prec(e.prec))
}
