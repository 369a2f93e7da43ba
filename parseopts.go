package equation

import "strconv"

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	symsopt  func(name string) bool
	depthopt int
)

// parsectx holds the settings for a parse. It is also a ParseOption.
type parsectx struct {
	// known reports whether a bare name is a constant. If nil, every bare
	// name is accepted and left for the evaluator to resolve.
	known func(name string) bool
	// maxdepth is the deepest allowed bracket nesting, or 0 for no limit.
	maxdepth int
}

// KnownSymbols tells the parser to reject names that are not function calls
// and for which known returns false. Without it, unknown names are only
// detected when the expression is evaluated.
func KnownSymbols(known func(name string) bool) ParseOption {
	return symsopt(known)
}

func (o symsopt) parseOption(p parsectx) parsectx {
	p.known = o
	return p
}

// MaxDepth limits how deeply brackets may nest. Parsing and evaluating are
// otherwise unbounded in the size of their input; callers handling untrusted
// expressions should cap the input length or use this option. n <= 0
// removes the limit.
func MaxDepth(n int) ParseOption {
	if n < 0 {
		n = 0
	}
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}

// ParsingPreset creates a parsing preset that may be more efficient when using
// the same non-default parsing options for many calls to Parse. A preset
// panics when it would change any option from the default, but it is safe to
// apply other options after a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	if p.known != nil || p.maxdepth != 0 {
		panic("equation: preset applied to non-default parse config (maxdepth " + strconv.Itoa(p.maxdepth) + ")")
	}
	return *o
}
