package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/zephyrtronium/equation"
)

type replCmd struct {
	History   string `help:"History file. Defaults to a file in the user cache directory." type:"path"`
	NoHistory bool   `help:"Do not read or write history."`
}

const replHelp = `Enter an expression to evaluate it. The last result is named ans.
Commands:
  :tokens EXPR   print the tokens of EXPR
  :nodes EXPR    print the postfix nodes of EXPR
  :names         list known constants and functions
  :help          show this message
  :quit          exit`

func (c *replCmd) Run(e *env) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetWordCompleter(e.complete)

	hist := c.historyPath()
	if hist != "" {
		f, err := os.Open(hist)
		switch {
		case err == nil:
			_, err = ln.ReadHistory(f)
			f.Close()
			if err != nil {
				e.log.Warn("couldn't read history", slog.String("file", hist), slog.Any("err", err))
			}
		case !errors.Is(err, fs.ErrNotExist):
			e.log.Warn("couldn't open history", slog.String("file", hist), slog.Any("err", err))
		}
		defer c.save(e, ln, hist)
	}

	cache := equation.NewCache()
	var ans equation.Resolver = e.tab
	for {
		line, err := ln.Prompt("> ")
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(e.out)
			return nil
		case err != nil:
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ln.AppendHistory(line)
		if strings.HasPrefix(line, ":") {
			if e.command(line) {
				return nil
			}
			continue
		}
		x, err := cache.Parse(line)
		if err != nil {
			e.style.diagnose(e.errw, line, err, e.tab.Suggest)
			continue
		}
		if v, ok := e.evalExpr(x, ans, false); ok {
			ans = equation.Chain(equation.Constants{"ans": v}, e.tab)
		}
	}
}

// command runs a REPL command. The result is true if the REPL should exit.
func (e *env) command(line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case ":q", ":quit", ":exit":
		return true
	case ":h", ":help":
		fmt.Fprintln(e.out, replHelp)
	case ":tokens":
		printTokens(e, arg)
	case ":nodes":
		printNodes(e, arg, false)
	case ":names":
		fmt.Fprintln(e.out, strings.Join(e.tab.Names(), " "))
	default:
		fmt.Fprintln(e.errw, e.style.err.Render("unknown command "+cmd+"; try :help"))
	}
	return false
}

// complete completes the name before the cursor.
func (e *env) complete(line string, pos int) (head string, completions []string, tail string) {
	rs := []rune(line)
	if pos > len(rs) {
		pos = len(rs)
	}
	start := pos
	for start > 0 && isNameRune(rs[start-1]) {
		start--
	}
	word := string(rs[start:pos])
	head, tail = string(rs[:start]), string(rs[pos:])
	if word == "" || ('0' <= rs[start] && rs[start] <= '9') {
		return head, nil, tail
	}
	for _, name := range append(e.tab.Names(), "ans") {
		if strings.HasPrefix(name, word) {
			completions = append(completions, name)
		}
	}
	return head, completions, tail
}

func isNameRune(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9'
}

// historyPath returns the history file to use, or the empty string if there
// is none.
func (c *replCmd) historyPath() string {
	if c.NoHistory {
		return ""
	}
	if c.History != "" {
		return c.History
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "equation", "history")
}

func (c *replCmd) save(e *env, ln *liner.State, hist string) {
	if err := os.MkdirAll(filepath.Dir(hist), 0o755); err != nil {
		e.log.Warn("couldn't create history directory", slog.String("file", hist), slog.Any("err", err))
		return
	}
	f, err := os.Create(hist)
	if err != nil {
		e.log.Warn("couldn't write history", slog.String("file", hist), slog.Any("err", err))
		return
	}
	defer f.Close()
	if _, err := ln.WriteHistory(f); err != nil {
		e.log.Warn("couldn't write history", slog.String("file", hist), slog.Any("err", err))
	}
}
