package safecalc

import (
	"math"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/bigfloat"
)

// Op is an operator that can appear in a parsed expression. Only the
// operators for which Allowed reports true are ever evaluated; the others
// exist so that the evaluator can reject them by name.
type Op int8

const (
	opNone Op = iota

	OpAdd // x + y
	OpSub // x - y
	OpMul // x * y
	OpDiv // x / y
	OpPow // x ** y
	OpNeg // -x

	OpPos      // +x
	OpMod      // x % y
	OpFloorDiv // x // y
	OpLess     // x < y
	OpGreater  // x > y
	OpLessEq   // x <= y
	OpGreaterEq
	OpEq
	OpNotEq
	OpAssign
)

func (op Op) String() string {
	switch op {
	case OpAdd, OpPos:
		return "+"
	case OpSub, OpNeg:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpPow:
		return "**"
	case OpMod:
		return "%"
	case OpFloorDiv:
		return "//"
	case OpLess:
		return "<"
	case OpGreater:
		return ">"
	case OpLessEq:
		return "<="
	case OpGreaterEq:
		return ">="
	case OpEq:
		return "=="
	case OpNotEq:
		return "!="
	case OpAssign:
		return "="
	default:
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
}

// Allowed reports whether op is in the operator whitelist.
func (op Op) Allowed() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpPow, OpNeg:
		return true
	default:
		return false
	}
}

// Unary reports whether op takes a single operand.
func (op Op) Unary() bool {
	return op == OpNeg || op == OpPos
}

// unary sets z to op x. col is the position reported in errors.
func (op Op) unary(col int, z, x *big.Float) (err error) {
	defer nanerr(col, op.String(), x, &err)
	switch op {
	case OpNeg:
		z.Neg(x)
		return nil
	default:
		return &UnsupportedOperatorError{Col: col, Op: op, Unary: true}
	}
}

// binary sets z to x op y. col is the position reported in errors.
func (op Op) binary(col int, z, x, y *big.Float) (err error) {
	defer nanerr(col, op.String(), y, &err)
	switch op {
	case OpAdd:
		z.Add(x, y)
	case OpSub:
		z.Sub(x, y)
	case OpMul:
		z.Mul(x, y)
	case OpDiv:
		if y.Sign() == 0 {
			return &DivisionByZeroError{Col: col, X: x, Op: op}
		}
		z.Quo(x, y)
	case OpPow:
		return pow(col, z, x, y)
	default:
		return &UnsupportedOperatorError{Col: col, Op: op}
	}
	return nil
}

// powLimit is the base-2 magnitude beyond which a power is certain to
// overflow or underflow a float64, so it is not worth computing exactly.
const powLimit = 1100

// pow sets z to x**y.
func pow(col int, z, x, y *big.Float) error {
	switch {
	case y.Sign() == 0:
		z.SetInt64(1)
		return nil
	case x.Sign() == 0:
		if y.Sign() < 0 {
			return &DivisionByZeroError{Col: col, X: x, Op: OpPow}
		}
		z.SetInt64(0)
		return nil
	}
	neg := false
	if x.Signbit() {
		// A negative base has a real power only for integer exponents.
		if !y.IsInt() {
			return &DomainError{Col: col, X: x, Func: OpPow.String()}
		}
		neg = odd(y)
		x = new(big.Float).Neg(x)
	}
	fx, _ := x.Float64()
	fy, _ := y.Float64()
	switch mag := fy * math.Log2(fx); {
	case x.IsInf(), y.IsInf(), math.IsNaN(mag):
		// bigfloat only handles finite operands, and float64 decides these
		// limits just as well.
		r := math.Pow(fx, fy)
		if math.IsNaN(r) {
			return &DomainError{Col: col, X: x, Func: OpPow.String()}
		}
		z.SetFloat64(r)
	case mag > powLimit:
		z.SetInf(neg)
		return nil
	case mag < -powLimit:
		z.SetInt64(0)
	case y.IsInt():
		ipow(z, x, y)
	default:
		bigfloat.Pow(z, x, y)
	}
	if neg {
		z.Neg(z)
	}
	return nil
}

// odd reports whether the finite integer y is odd. The lowest set bit of y
// is MinPrec bits below its binary exponent.
func odd(y *big.Float) bool {
	exp := y.MantExp(nil)
	return exp > 0 && uint(exp) == y.MinPrec()
}

// ipow sets z to x**y for integer y by repeated squaring. Guard bits keep
// exact results exact.
func ipow(z, x, y *big.Float) {
	n, _ := y.Int(nil)
	inv := n.Sign() < 0
	n.Abs(n)
	prec := z.Prec() + 64
	r := new(big.Float).SetPrec(prec).SetInt64(1)
	b := new(big.Float).SetPrec(prec).Set(x)
	for i := 0; i < n.BitLen(); i++ {
		if n.Bit(i) == 1 {
			r.Mul(r, b)
		}
		b.Mul(b, b)
	}
	if inv {
		r.Quo(new(big.Float).SetPrec(prec).SetInt64(1), r)
	}
	z.Set(r)
}

// nanerr recovers a big.ErrNaN panic into a DomainError stored in *err.
// Other panics continue.
func nanerr(col int, fn string, x *big.Float, err *error) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(big.ErrNaN); !ok {
		panic(r)
	}
	*err = &DomainError{Col: col, X: x, Func: fn}
}
