package lex

import (
	"iter"
	"unicode/utf8"
)

// Tokenizer scans a source string into tokens. Every byte of the source
// belongs to exactly one token, so the token lengths always add up to the
// number of code points in the source. A Tokenizer never fails: text it
// cannot classify becomes Invalid tokens.
//
// A Tokenizer is forward-only. To scan the same text again, create a new one.
type Tokenizer struct {
	src string
	pos int
}

// New creates a tokenizer over src.
func New(src string) *Tokenizer {
	return &Tokenizer{src: src}
}

// Source returns the text the tokenizer scans.
func (t *Tokenizer) Source() string {
	return t.src
}

// Next scans the next token and advances past it. The second result is false
// once the input is exhausted.
func (t *Tokenizer) Next() (Token, bool) {
	tok, ok := scan(t.src, t.pos)
	if ok {
		t.pos = tok.Span.End
	}
	return tok, ok
}

// Peek returns the token by positions ahead without advancing, so that
// Peek(1) is the token Next would return. Peek(0) is never a token, and
// peeking past the end of the input gives false.
func (t *Tokenizer) Peek(by int) (Token, bool) {
	if by <= 0 {
		return Token{}, false
	}
	pos := t.pos
	for {
		tok, ok := scan(t.src, pos)
		if !ok {
			return Token{}, false
		}
		by--
		if by == 0 {
			return tok, true
		}
		pos = tok.Span.End
	}
}

// All returns an iterator over the remaining tokens. Ranging over it advances
// the tokenizer.
func (t *Tokenizer) All() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			tok, ok := t.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Tokenize scans all of src.
func Tokenize(src string) []Token {
	var toks []Token
	for tok := range New(src).All() {
		toks = append(toks, tok)
	}
	return toks
}

// scan classifies the token starting at byte offset pos.
func scan(src string, pos int) (Token, bool) {
	if pos >= len(src) {
		return Token{}, false
	}
	tok := classify(src, pos)
	if tok.Kind == Invalid {
		// Fold every following unclassifiable character into this token.
		for tok.Span.End < len(src) {
			r, sz := utf8.DecodeRuneInString(src[tok.Span.End:])
			if !invalid(r) {
				break
			}
			tok.Len++
			tok.Span.End += sz
		}
	}
	return tok, true
}

// classify scans one token at pos without invalid coalescing. pos must be
// within src.
func classify(src string, pos int) Token {
	r, sz := utf8.DecodeRuneInString(src[pos:])
	tok := Token{Len: 1, Span: Span{Start: pos, End: pos + sz}}
	switch r {
	case '+':
		tok.Kind = Plus
	case '-':
		tok.Kind = Minus
	case '*':
		tok.Kind = Star
	case '/':
		tok.Kind = Slash
	case '%':
		tok.Kind = Percent
	case '=':
		tok.Kind = Eq
	case '>':
		tok.Kind = Greater
	case '<':
		tok.Kind = Less
	case '&':
		tok.Kind = Amp
	case '^':
		tok.Kind = Caret
	case '!':
		tok.Kind = Bang
	case ',':
		tok.Kind = Comma
	case '(', ')':
		tok.Kind, tok.Brace, tok.Open = Brace, Round, r == '('
	case '[', ']':
		tok.Kind, tok.Brace, tok.Open = Brace, Square, r == '['
	case '{', '}':
		tok.Kind, tok.Brace, tok.Open = Brace, Curly, r == '{'
	default:
		switch {
		case isDigit(r):
			tok.Kind = Number
			tok.Number, tok.Len = number(src[pos:])
			tok.Span.End = pos + tok.Len
		case isLetter(r):
			tok.Kind = Chars
			tok.Len = 1 + run(src[pos+1:], isAlnum)
			tok.Span.End = pos + tok.Len
		case isSpace(r):
			tok.Kind = Ws
			tok.Len = 1 + run(src[pos+1:], isSpace)
			tok.Span.End = pos + tok.Len
		default:
			tok.Kind = Invalid
		}
	}
	return tok
}

// number classifies a numeric literal at the start of s, which must begin
// with a digit. Every rune a number can contain is ASCII, so the length is
// both bytes and code points.
func number(s string) (NumberKind, int) {
	if s[0] != '0' || len(s) == 1 {
		return Decimal, 1 + run(s[1:], isNumeric)
	}
	switch c := s[1]; {
	case c == 'x':
		return Hexadecimal, 2 + run(s[2:], isHex)
	case c == 'b':
		return Binary, 2 + run(s[2:], isNumeric)
	case c == '.', c == 'e', c == 'E', isDigit(rune(c)):
		return Decimal, 2 + run(s[2:], isNumeric)
	default:
		return Decimal, 1
	}
}

// run counts the leading ASCII bytes of s that satisfy f.
func run(s string, f func(rune) bool) int {
	n := 0
	for n < len(s) && s[n] < utf8.RuneSelf && f(rune(s[n])) {
		n++
	}
	return n
}

// invalid reports whether r begins no valid token.
func invalid(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '=', '>', '<', '&', '^', '!', ',',
		'(', ')', '[', ']', '{', '}':
		return false
	}
	return !isDigit(r) && !isLetter(r) && !isSpace(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isAlnum(r rune) bool {
	return isLetter(r) || isDigit(r)
}

func isHex(r rune) bool {
	return isDigit(r) || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

// isNumeric is the deliberately lax class of runes that may continue a
// number. Whether the result is a well-formed number is for the parser to
// decide.
func isNumeric(r rune) bool {
	return isDigit(r) || r == '.' || r == 'e' || r == 'E'
}

// isSpace matches ASCII whitespace: space, tab, newline, form feed and
// carriage return.
func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\f', '\r':
		return true
	}
	return false
}
