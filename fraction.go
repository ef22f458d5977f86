package safecalc

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// DefaultMaxDenominator is the largest denominator ToFraction will produce.
const DefaultMaxDenominator = 1000000

// ToFraction finds the fraction closest to x with a denominator no larger
// than DefaultMaxDenominator and formats it as "numerator/denominator".
// Integers format with a denominator of 1.
func ToFraction(x float64) (string, error) {
	r, err := Rational(x, DefaultMaxDenominator)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// ToFractionResult is like ToFraction, but accepts the results of Evaluate
// directly. If err is not nil, the result is a *ConversionError wrapping it.
func ToFractionResult(x float64, err error) (string, error) {
	if err != nil {
		return "", &ConversionError{Value: err.Error(), Err: err}
	}
	return ToFraction(x)
}

// ToFractionText is like ToFraction, but converts the text of a previously
// displayed result. Text that is not a finite decimal number, such as an
// error message, produces a *ConversionError.
func ToFractionText(s string) (string, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return "", &ConversionError{Value: s, Err: err}
	}
	return ToFraction(x)
}

// Rational finds the rational number closest to x with a denominator no larger
// than maxden. When two candidates are equally close, the one found first by
// the continued fraction expansion of x wins. Panics if maxden < 1.
func Rational(x float64, maxden int64) (*big.Rat, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil, &ConversionError{Value: strconv.FormatFloat(x, 'g', -1, 64)}
	}
	return limitDenominator(new(big.Rat).SetFloat64(x), maxden), nil
}

// RationalFloat is like Rational for an arbitrary-precision value.
func RationalFloat(x *big.Float, maxden int64) (*big.Rat, error) {
	if x.IsInf() {
		return nil, &ConversionError{Value: x.String()}
	}
	r, _ := x.Rat(nil)
	return limitDenominator(r, maxden), nil
}

// limitDenominator walks the convergents of the continued fraction of r until
// the next denominator would exceed maxden, then picks the better of the last
// convergent and the largest admissible semiconvergent.
func limitDenominator(r *big.Rat, maxden int64) *big.Rat {
	if maxden < 1 {
		panic("safecalc: max denominator must be at least 1, not " + strconv.FormatInt(maxden, 10))
	}
	m := big.NewInt(maxden)
	if r.Denom().Cmp(m) <= 0 {
		return r
	}
	var (
		p0, q0 = big.NewInt(0), big.NewInt(1)
		p1, q1 = big.NewInt(1), big.NewInt(0)
		n      = new(big.Int).Set(r.Num())
		d      = new(big.Int).Set(r.Denom())
		a, t   big.Int
	)
	for {
		// d is always positive, so Euclidean division floors.
		a.Div(n, d)
		q2 := new(big.Int).Mul(&a, q1)
		q2.Add(q2, q0)
		if q2.Cmp(m) > 0 {
			break
		}
		p2 := new(big.Int).Mul(&a, p1)
		p2.Add(p2, p0)
		p0, q0, p1, q1 = p1, q1, p2, q2
		t.Mul(&a, d)
		t.Sub(n, &t)
		n.Set(d)
		d.Set(&t)
	}
	// The semiconvergent with the largest k whose denominator fits.
	k := new(big.Int).Sub(m, q0)
	k.Div(k, q1)
	bp := new(big.Int).Mul(k, p1)
	bp.Add(bp, p0)
	bq := new(big.Int).Mul(k, q1)
	bq.Add(bq, q0)
	semi := new(big.Rat).SetFrac(bp, bq)
	conv := new(big.Rat).SetFrac(p1, q1)
	if ratdist(conv, r).Cmp(ratdist(semi, r)) <= 0 {
		return conv
	}
	return semi
}

// ratdist returns |x - y|.
func ratdist(x, y *big.Rat) *big.Rat {
	d := new(big.Rat).Sub(x, y)
	return d.Abs(d)
}

// ConversionError is an error indicating a value that cannot be converted to
// a fraction.
type ConversionError struct {
	// Value is the text of the value that could not be converted.
	Value string
	// Err is the underlying error, if any.
	Err error
}

func (err *ConversionError) Error() string {
	r := "cannot convert " + strconv.Quote(err.Value) + " to a fraction"
	if err.Err != nil {
		r += ": " + err.Err.Error()
	}
	return r
}

func (err *ConversionError) Unwrap() error {
	return err.Err
}
