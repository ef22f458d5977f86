// Package safecalc implements a calculator that evaluates arithmetic text
// without ever executing anything outside a fixed set of operations.
//
// Expressions use the usual infix arithmetic: "+", "-", "*", "/", and "**"
// (or "^") for exponentiation, parentheses, and the functions sin, cos, tan,
// and sqrt applied to a single parenthesized argument. "-2**2" is the same as
// "-(2**2)", and "2**3**2" is "2**(3**2)".
//
// The parser accepts a somewhat larger language than the evaluator will run,
// so that names, comparisons, calls to unknown functions, and the like are
// reported with a precise error instead of a generic syntax failure. Every
// node of a parsed expression is checked against the operator and function
// whitelists before any arithmetic happens.
//
// Results can be turned into fractions with ToFraction, which finds the
// closest rational with a bounded denominator.
package safecalc
