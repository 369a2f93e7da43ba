package equation

import (
	"strconv"

	"github.com/zephyrtronium/equation/lex"
)

// InvalidTokenError is an error indicating text the scanner could not
// classify. It implements InputError.
type InvalidTokenError struct {
	// At is the span of the invalid run.
	At lex.Span
	// Text is the invalid text.
	Text string
}

func (err *InvalidTokenError) Error() string {
	return errpos(err.At, "invalid token "+strconv.Quote(err.Text))
}

func (err *InvalidTokenError) Span() lex.Span {
	return err.At
}

// OperatorError is an error indicating an operator token that is not
// understood by the parser. It implements InputError.
type OperatorError struct {
	// At is the span of the operator.
	At lex.Span
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.At, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Span() lex.Span {
	return err.At
}

// OperandError is an error indicating a missing operand, as in "2*" or
// "*2", or a missing operator between two operands, as in "2 3". It
// implements InputError.
type OperandError struct {
	// At is the span of the token where something was missing.
	At lex.Span
	// Text is the text of that token, or empty at the end of input.
	Text string
	// Operator is true if an operator is missing before Text and false if
	// an operand is missing.
	Operator bool
}

func (err *OperandError) Error() string {
	switch {
	case err.Operator:
		return errpos(err.At, "missing operator before "+strconv.Quote(err.Text))
	case err.Text == "":
		return errpos(err.At, "missing operand at end")
	default:
		return errpos(err.At, "missing operand for "+strconv.Quote(err.Text))
	}
}

func (err *OperandError) Span() lex.Span {
	return err.At
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements InputError.
type BracketError struct {
	// At is the span of the offending bracket.
	At lex.Span
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.At, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.At, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.At, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Span() lex.Span {
	return err.At
}

// SeparatorError is an error indicating a comma outside a function argument
// list. It implements InputError.
type SeparatorError struct {
	// At is the span of the separator.
	At lex.Span
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.At, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Span() lex.Span {
	return err.At
}

// EmptyExpressionError is an error indicating an empty expression,
// subexpression, or function argument. It implements InputError.
type EmptyExpressionError struct {
	// At is the span of the token that ended the subexpression.
	At lex.Span
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.At.Start == 0 {
			return errpos(err.At, "no expression")
		}
		return errpos(err.At, "no expression at end")
	}
	return errpos(err.At, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Span() lex.Span {
	return err.At
}

// NumberError is an error indicating a malformed number literal, e.g. "1.2.3"
// or "0b102". It implements InputError.
type NumberError struct {
	// At is the span of the literal.
	At lex.Span
	// Text is the literal.
	Text string
	// Err is the conversion error, if any.
	Err error
}

func (err *NumberError) Error() string {
	msg := "invalid number " + strconv.Quote(err.Text)
	if err.Err != nil {
		msg += ": " + err.Err.Error()
	}
	return errpos(err.At, msg)
}

func (err *NumberError) Unwrap() error {
	return err.Err
}

func (err *NumberError) Span() lex.Span {
	return err.At
}

// SymbolError is an error indicating a name that is neither a known constant
// nor followed by an argument list. The parser returns it only when the
// KnownSymbols option is used. It implements InputError.
type SymbolError struct {
	// At is the span of the name.
	At lex.Span
	// Name is the unknown name.
	Name string
}

func (err *SymbolError) Error() string {
	return errpos(err.At, "unknown symbol "+strconv.Quote(err.Name))
}

func (err *SymbolError) Span() lex.Span {
	return err.At
}

// DepthError is an error indicating brackets nested more deeply than the
// MaxDepth option allows. It implements InputError.
type DepthError struct {
	// At is the span of the bracket that exceeded the limit.
	At lex.Span
	// Max is the limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.At, "brackets nested deeper than "+strconv.Itoa(err.Max))
}

func (err *DepthError) Span() lex.Span {
	return err.At
}

// errpos is a shortcut to create an error message with a position.
func errpos(at lex.Span, msg string) string {
	return at.String() + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input or from evaluating it implements InputError.
type InputError interface {
	error
	// Span returns the source range of the token or node that caused the
	// error.
	Span() lex.Span
}

var (
	_ InputError = (*InvalidTokenError)(nil)
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*NumberError)(nil)
	_ InputError = (*SymbolError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*NameError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*TypeError)(nil)
	_ InputError = (*StackError)(nil)
)
