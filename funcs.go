package safecalc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Func is a function in the function whitelist. Each takes exactly one
// argument.
type Func int8

const (
	funcNone Func = iota

	FuncSin  // sine, radians
	FuncCos  // cosine, radians
	FuncTan  // tangent, radians
	FuncSqrt // square root
)

// LookupFunc returns the whitelisted function with the given name, ignoring
// case. The second result is false if there is no such function.
func LookupFunc(name string) (Func, bool) {
	switch strings.ToLower(name) {
	case "sin":
		return FuncSin, true
	case "cos":
		return FuncCos, true
	case "tan":
		return FuncTan, true
	case "sqrt":
		return FuncSqrt, true
	default:
		return funcNone, false
	}
}

func (f Func) String() string {
	switch f {
	case FuncSin:
		return "sin"
	case FuncCos:
		return "cos"
	case FuncTan:
		return "tan"
	case FuncSqrt:
		return "sqrt"
	default:
		return "Func(" + strconv.Itoa(int(f)) + ")"
	}
}

// call sets z to f(x). col is the position reported in errors.
func (f Func) call(col int, z, x *big.Float) (err error) {
	defer nanerr(col, f.String(), x, &err)
	switch f {
	case FuncSqrt:
		if x.Sign() < 0 {
			return &DomainError{Col: col, X: x, Func: f.String()}
		}
		z.Sqrt(x)
		return nil
	case FuncSin:
		return trig(col, f, math.Sin, z, x)
	case FuncCos:
		return trig(col, f, math.Cos, z, x)
	case FuncTan:
		return trig(col, f, math.Tan, z, x)
	default:
		return &UnknownFunctionError{Col: col, Name: f.String()}
	}
}

// trig evaluates a trigonometric function in float64, since math/big has none.
func trig(col int, f Func, fn func(float64) float64, z, x *big.Float) error {
	v, _ := x.Float64()
	r := fn(v)
	if math.IsNaN(r) {
		return &DomainError{Col: col, X: x, Func: f.String()}
	}
	z.SetFloat64(r)
	return nil
}
