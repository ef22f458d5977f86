package safecalc

import (
	"math/big"
	"strconv"
)

// UnsupportedOperatorError is an error indicating an operator outside the
// operator whitelist. It implements InputError.
type UnsupportedOperatorError struct {
	// Col is the position of the operator.
	Col int
	// Op is the rejected operator.
	Op Op
	// Unary is whether the operator was applied to a single operand.
	Unary bool
}

func (err *UnsupportedOperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, s+" operator "+strconv.Quote(err.Op.String())+" not allowed")
}

func (err *UnsupportedOperatorError) Pos() int {
	return err.Col
}

// UnknownFunctionError is an error indicating a call to a function outside
// the function whitelist. It implements InputError.
type UnknownFunctionError struct {
	// Col is the position of the function name.
	Col int
	// Name is the function name as written.
	Name string
}

func (err *UnknownFunctionError) Error() string {
	return errpos(err.Col, "unknown function "+strconv.Quote(err.Name))
}

func (err *UnknownFunctionError) Pos() int {
	return err.Col
}

// MalformedCallError is an error indicating a call that is not a single
// function name applied to exactly one argument. It implements InputError.
type MalformedCallError struct {
	// Col is the position of the callee.
	Col int
	// Func is the function name, or the empty string if the callee is not a
	// name.
	Func string
	// Args is the number of arguments in the call.
	Args int
}

func (err *MalformedCallError) Error() string {
	if err.Func == "" {
		return errpos(err.Col, "call of something other than a function name")
	}
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Args)+" arguments")
}

func (err *MalformedCallError) Pos() int {
	return err.Col
}

// InvalidExpressionError is an error indicating a construct that the parser
// recognizes but that is never evaluable, such as a variable name or a
// comparison. It implements InputError.
type InvalidExpressionError struct {
	// Col is the position of the construct.
	Col int
	// What describes the construct.
	What string
}

func (err *InvalidExpressionError) Error() string {
	return errpos(err.Col, "invalid expression: "+err.What+" not allowed")
}

func (err *InvalidExpressionError) Pos() int {
	return err.Col
}

// DomainError is an error returned when a function or operator is applied to
// arguments for which it has no real result. It implements InputError.
type DomainError struct {
	// Col is the position of the function or operator.
	Col int
	// X is the out-of-domain argument.
	X *big.Float
	// Func is a name identifying the function or operator.
	Func string
}

func (err *DomainError) Error() string {
	r := "argument outside domain"
	if err.X != nil {
		r = err.X.Text('g', 10) + " outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	return errpos(err.Col, r)
}

func (err *DomainError) Pos() int {
	return err.Col
}

// DivisionByZeroError is an error indicating a division by exactly zero, or
// zero raised to a negative power. It implements InputError.
type DivisionByZeroError struct {
	// Col is the position of the operator.
	Col int
	// X is the dividend or base.
	X *big.Float
	// Op is OpDiv or OpPow.
	Op Op
}

func (err *DivisionByZeroError) Error() string {
	if err.Op == OpPow {
		return errpos(err.Col, "division by zero: zero raised to a negative power")
	}
	return errpos(err.Col, "division by zero")
}

func (err *DivisionByZeroError) Pos() int {
	return err.Col
}

var (
	_ InputError = (*UnsupportedOperatorError)(nil)
	_ InputError = (*UnknownFunctionError)(nil)
	_ InputError = (*MalformedCallError)(nil)
	_ InputError = (*InvalidExpressionError)(nil)
	_ InputError = (*DomainError)(nil)
	_ InputError = (*DivisionByZeroError)(nil)
)
