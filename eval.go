package safecalc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// DefaultPrec is the precision of a Context created without a Prec option.
// It is the mantissa width of a float64, so that results match ordinary
// floating-point arithmetic.
const DefaultPrec = 53

// Context is a context for evaluating expressions. A Context is immutable, so
// it is safe to use concurrently.
type Context struct {
	prec uint
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type precopt uint

func (precopt) ctxOption() {}

// Prec sets the precision of calculations in bits. Panics during NewContext
// or Clone if prec is zero.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// NewContext creates a new evaluation context.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{prec: DefaultPrec}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := *ctx
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case precopt:
			if opt == 0 || opt > big.MaxPrec {
				panic("safecalc: invalid precision " + strconv.FormatUint(uint64(opt), 10))
			}
			n.prec = uint(opt)
		default:
			panic("safecalc: unknown option type")
		}
	}
	return &n
}

// Prec returns the precision to which values are computed in the context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Eval evaluates an expression and returns the result as a float64. Results
// too large for a float64 are infinite. If the expression uses anything
// outside the operator and function whitelists, the error says what, and no
// arithmetic is performed.
func (ctx *Context) Eval(e *Expr) (float64, error) {
	r, err := ctx.EvalFloat(e)
	if err != nil {
		return 0, err
	}
	f, _ := r.Float64()
	return f, nil
}

// EvalFloat is like Eval, but returns the result at the context's precision.
// The exponent range is still that of a float64: anything that overflows is
// infinite, and anything that underflows is zero, at every step.
func (ctx *Context) EvalFloat(e *Expr) (*big.Float, error) {
	if err := e.Check(); err != nil {
		return nil, err
	}
	return ctx.reduce(e.n)
}

// Check reports whether every node of the expression is within the operator
// and function whitelists. If not, the error describes the first violation.
func (e *Expr) Check() error {
	return e.n.check()
}

func (n *node) check() error {
	switch n.kind {
	case nodeNum:
		return nil
	case nodeUnary:
		if !n.op.Allowed() || !n.op.Unary() {
			return &UnsupportedOperatorError{Col: n.pos, Op: n.op, Unary: true}
		}
		return n.left.check()
	case nodeBinary:
		if !n.op.Allowed() || n.op.Unary() {
			return &UnsupportedOperatorError{Col: n.pos, Op: n.op}
		}
		if err := n.left.check(); err != nil {
			return err
		}
		return n.right.check()
	case nodeCall:
		if n.left.kind != nodeName {
			return &MalformedCallError{Col: n.pos, Args: len(n.args)}
		}
		f, ok := LookupFunc(n.left.name)
		if !ok {
			return &UnknownFunctionError{Col: n.left.pos, Name: n.left.name}
		}
		if len(n.args) != 1 {
			return &MalformedCallError{Col: n.pos, Func: f.String(), Args: len(n.args)}
		}
		return n.args[0].check()
	case nodeName:
		return &InvalidExpressionError{Col: n.pos, What: "name " + strconv.Quote(n.name)}
	case nodeStr:
		return &InvalidExpressionError{Col: n.pos, What: "string literal"}
	case nodeCompare:
		return &InvalidExpressionError{Col: n.pos, What: "comparison " + strconv.Quote(n.op.String())}
	case nodeAssign:
		return &InvalidExpressionError{Col: n.pos, What: "assignment"}
	case nodeAttr:
		return &InvalidExpressionError{Col: n.pos, What: "attribute access " + strconv.Quote("."+n.name)}
	default:
		return &InvalidExpressionError{Col: n.pos, What: "node " + n.kind.String()}
	}
}

// reduce computes the value of a checked tree. Every intermediate value is
// limited to the exponent range of a float64.
func (ctx *Context) reduce(n *node) (*big.Float, error) {
	z := new(big.Float).SetPrec(ctx.prec)
	switch n.kind {
	case nodeNum:
		num(z, n.name)
	case nodeUnary:
		x, err := ctx.reduce(n.left)
		if err != nil {
			return nil, err
		}
		if err := n.op.unary(n.pos, z, x); err != nil {
			return nil, err
		}
	case nodeBinary:
		x, err := ctx.reduce(n.left)
		if err != nil {
			return nil, err
		}
		y, err := ctx.reduce(n.right)
		if err != nil {
			return nil, err
		}
		if err := n.op.binary(n.pos, z, x, y); err != nil {
			return nil, err
		}
	case nodeCall:
		f, ok := LookupFunc(n.left.name)
		if !ok {
			return nil, &UnknownFunctionError{Col: n.left.pos, Name: n.left.name}
		}
		x, err := ctx.reduce(n.args[0])
		if err != nil {
			return nil, err
		}
		if err := f.call(n.left.pos, z, x); err != nil {
			return nil, err
		}
	default:
		panic("safecalc: reduce on unchecked node " + n.kind.String())
	}
	clamp(z)
	return z, nil
}

// clamp rounds z to a signed zero or infinity if it is outside the range of
// a float64, and to a float64 subnormal if it is in that range. Values in the
// normal range keep their full precision.
func clamp(z *big.Float) {
	if z.IsInf() || z.Sign() == 0 {
		return
	}
	f, _ := z.Float64()
	if math.IsInf(f, 0) || math.Abs(f) < minNormal {
		z.SetFloat64(f)
	}
}

// minNormal is the smallest positive normal float64.
const minNormal = 0x1p-1022

// num sets z to the value of a number literal at z's precision.
func num(z *big.Float, s string) {
	_, _, err := z.Parse(s, 10)
	switch {
	case err == nil: // do nothing
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		// Literals are unsigned, so only the exponent's sign matters.
		mant := s
		if i := strings.IndexAny(s, "eE"); i >= 0 {
			mant = s[:i]
		}
		if strings.Contains(s, "-") || strings.Trim(mant, "0.") == "" {
			z.SetInt64(0)
		} else {
			z.SetInf(false)
		}
	default:
		panic("safecalc: invalid number: " + s + " (" + err.Error() + ")")
	}
}

// Normalize rewrites the caret spelling of exponentiation, "^", to "**".
func Normalize(expr string) string {
	return strings.ReplaceAll(expr, "^", "**")
}

var defaultContext = NewContext()

// Evaluate normalizes, parses, and evaluates an expression with the default
// parsing options and context.
func Evaluate(expr string) (float64, error) {
	e, err := ParseString(Normalize(expr))
	if err != nil {
		return 0, err
	}
	return defaultContext.Eval(e)
}
