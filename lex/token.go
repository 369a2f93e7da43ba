package lex

import "strconv"

// Span is a half-open range of byte offsets into the source text.
type Span struct {
	Start, End int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Text slices the span out of src.
func (s Span) Text(src string) string {
	return src[s.Start:s.End]
}

func (s Span) String() string {
	return strconv.Itoa(s.Start) + ".." + strconv.Itoa(s.End)
}

// TokenKind is the kind of a token.
type TokenKind uint8

const (
	// Invalid is one or more consecutive characters the scanner cannot
	// classify.
	Invalid TokenKind = iota
	Plus              // +
	Minus             // -
	Star              // *
	Slash             // /
	Percent           // %
	Eq                // =
	Greater           // >
	Less              // <
	Amp               // &
	Caret             // ^
	Bang              // !
	Comma             // ,
	// Brace is a bracket of any kind. Token.Brace and Token.Open describe it.
	Brace
	// Chars is a run of ASCII letters and digits starting with a letter: a
	// magic constant, a function name, or nothing meaningful at all.
	Chars
	// Number is a numeric literal. Token.Number describes its base.
	Number
	// Ws is a run of ASCII whitespace.
	Ws
)

var kindnames = [...]string{
	Invalid: "Invalid",
	Plus:    "Plus",
	Minus:   "Minus",
	Star:    "Star",
	Slash:   "Slash",
	Percent: "Percent",
	Eq:      "Eq",
	Greater: "Greater",
	Less:    "Less",
	Amp:     "Amp",
	Caret:   "Caret",
	Bang:    "Bang",
	Comma:   "Comma",
	Brace:   "Brace",
	Chars:   "Chars",
	Number:  "Number",
	Ws:      "Ws",
}

func (k TokenKind) String() string {
	if int(k) < len(kindnames) {
		return kindnames[k]
	}
	return "TokenKind(" + strconv.Itoa(int(k)) + ")"
}

// BraceKind is the shape of a bracket.
type BraceKind uint8

const (
	Round  BraceKind = iota // ( )
	Square                  // [ ]
	Curly                   // { }
)

func (b BraceKind) String() string {
	switch b {
	case Round:
		return "Round"
	case Square:
		return "Square"
	case Curly:
		return "Curly"
	default:
		return "BraceKind(" + strconv.Itoa(int(b)) + ")"
	}
}

// Glyph returns the bracket character for the given openness.
func (b BraceKind) Glyph(open bool) string {
	const opens, closes = "([{", ")]}"
	if int(b) >= len(opens) {
		panic("lex: invalid brace kind " + b.String())
	}
	if open {
		return opens[b : b+1]
	}
	return closes[b : b+1]
}

// NumberKind is the base of a numeric literal.
type NumberKind uint8

const (
	// Decimal is a base 10 literal, possibly with points and exponents.
	Decimal NumberKind = iota
	// Hexadecimal is a literal with a 0x prefix.
	Hexadecimal
	// Binary is a literal with a 0b prefix. The scanner does not check that
	// its digits are binary.
	Binary
)

func (n NumberKind) String() string {
	switch n {
	case Decimal:
		return "Decimal"
	case Hexadecimal:
		return "Hexadecimal"
	case Binary:
		return "Binary"
	default:
		return "NumberKind(" + strconv.Itoa(int(n)) + ")"
	}
}

// Token is a classified run of source text. A token does not hold its text;
// slice the source with Span to get it.
type Token struct {
	Kind TokenKind
	// Brace and Open are set for Brace tokens.
	Brace BraceKind
	Open  bool
	// Number is set for Number tokens.
	Number NumberKind
	// Len is the number of code points the token consumed.
	Len int
	// Span is the byte range of the token in the source.
	Span Span
}

// Text returns the token's text from the source it was scanned from.
func (t Token) Text(src string) string {
	return t.Span.Text(src)
}

// Is reports whether t is of kind k. It is a shortcut for the common
// single-character kinds.
func (t Token) Is(k TokenKind) bool {
	return t.Kind == k
}

// IsOpen reports whether t is an opening bracket of any shape.
func (t Token) IsOpen() bool {
	return t.Kind == Brace && t.Open
}

// IsClose reports whether t is a closing bracket of any shape.
func (t Token) IsClose() bool {
	return t.Kind == Brace && !t.Open
}

func (t Token) String() string {
	var s string
	switch t.Kind {
	case Brace:
		s = t.Brace.Glyph(t.Open)
	case Number:
		s = t.Kind.String() + "(" + t.Number.String() + ")"
	default:
		s = t.Kind.String()
	}
	return s + ":" + strconv.Itoa(t.Len) + "@" + t.Span.String()
}
