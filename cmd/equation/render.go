package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zephyrtronium/equation"
)

type styles struct {
	result lipgloss.Style
	undef  lipgloss.Style
	err    lipgloss.Style
	caret  lipgloss.Style
	hint   lipgloss.Style
	kind   lipgloss.Style
}

// newStyles creates styles for output to w. Colors are dropped when w is not
// a terminal.
func newStyles(w io.Writer) *styles {
	r := lipgloss.NewRenderer(w)
	return &styles{
		result: r.NewStyle().Foreground(lipgloss.Color("2")),
		undef:  r.NewStyle().Foreground(lipgloss.Color("3")),
		err:    r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		caret:  r.NewStyle().Foreground(lipgloss.Color("1")),
		hint:   r.NewStyle().Foreground(lipgloss.Color("8")),
		kind:   r.NewStyle().Foreground(lipgloss.Color("6")),
	}
}

// value formats a result. Decimals use the given number of significant
// digits, or the shortest exact form if digits is negative.
func (s *styles) value(v equation.Value, digits int) string {
	if v.Kind() == equation.KindUndefined {
		return s.undef.Render(v.String())
	}
	if digits < 0 {
		return s.result.Render(v.String())
	}
	return s.result.Render(v.Text('g', digits))
}

// diagnose prints an error. If the error has a position, it also prints the
// source line with the span underlined, and if it is about an unknown name,
// it prints similar names that the user might have meant.
func (s *styles) diagnose(w io.Writer, src string, err error, suggest func(name string, n int) []string) {
	fmt.Fprintln(w, s.err.Render("error:"), err)
	var ie equation.InputError
	if !errors.As(err, &ie) {
		return
	}
	at := ie.Span()
	if at.Start < 0 || at.Start > at.End || at.End > len(src) {
		return
	}
	// Show only the line containing the start of the span.
	ls := strings.LastIndexByte(src[:at.Start], '\n') + 1
	le := strings.IndexByte(src[at.Start:], '\n')
	if le < 0 {
		le = len(src)
	} else {
		le += at.Start
	}
	end := min(at.End, le)
	pad := lipgloss.Width(src[ls:at.Start])
	n := max(1, lipgloss.Width(src[at.Start:end]))
	fmt.Fprintln(w, "  "+src[ls:le])
	fmt.Fprintln(w, "  "+strings.Repeat(" ", pad)+s.caret.Render(strings.Repeat("^", n)))

	if suggest == nil {
		return
	}
	name := unknownName(err)
	if name == "" {
		return
	}
	if names := suggest(name, 3); len(names) != 0 {
		fmt.Fprintln(w, s.hint.Render("  did you mean "+strings.Join(names, ", ")+"?"))
	}
}

// unknownName returns the name an error reports as unknown, or the empty
// string if it is not that kind of error.
func unknownName(err error) string {
	var (
		ne *equation.NameError
		se *equation.SymbolError
		ce *equation.CallError
	)
	switch {
	case errors.As(err, &ne):
		return ne.Name
	case errors.As(err, &se):
		return se.Name
	case errors.As(err, &ce) && errors.Is(err, equation.ErrUnknownFunction):
		return ce.Name
	}
	return ""
}
