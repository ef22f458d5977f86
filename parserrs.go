package safecalc

import "strconv"

// SyntaxError is the error Parse returns when its input is not an
// expression. Err is the specific problem.
type SyntaxError struct {
	Err InputError
}

func (err *SyntaxError) Error() string {
	return "syntax error at " + err.Err.Error()
}

func (err *SyntaxError) Unwrap() error {
	return err.Err
}

func (err *SyntaxError) Pos() int {
	return err.Err.Pos()
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "string", "operator", or the empty string (if a token kind hadn't been
	// decided).
	Kind string
	// Col is the position of the last rune the lexer scanned, which is the
	// invalid one.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return errpos(err.Col, "invalid token "+strconv.Quote(err.Text))
	}
	return errpos(err.Col, "invalid "+err.Kind+" token "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}

// OperatorError is an error indicating an operator in a position where it
// cannot be used, e.g. a binary-only operator with no left operand. It
// implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
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
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

// BracketError is an error indicating mismatched parentheses in the input.
// It implements InputError.
type BracketError struct {
	// Col is the position of the offending token.
	Col int
	// Left is the opening bracket, or empty if there was none.
	Left string
	// Right is the closing bracket, or empty if the input ended first.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

// SeparatorError is an error indicating a comma outside of a call's argument
// list. It implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

// UnexpectedTokenError is an error indicating a token that cannot continue
// the expression parsed so far, e.g. the second of two adjacent numbers.
type UnexpectedTokenError struct {
	// Col is the position of the token.
	Col int
	// Token is the token text.
	Token string
}

func (err *UnexpectedTokenError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Token))
}

func (err *UnexpectedTokenError) Pos() int {
	return err.Col
}

// DepthError is an error indicating that an expression nests more deeply
// than the parser allows.
type DepthError struct {
	// Col is the position of the token that exceeded the limit.
	Col int
	// Max is the nesting limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression nested deeper than "+strconv.Itoa(err.Max)+" levels")
}

func (err *DepthError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError, whether it is found while parsing or
// while evaluating.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*LexError)(nil)
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*UnexpectedTokenError)(nil)
	_ InputError = (*DepthError)(nil)
)
