package safecalc_test

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/zephyrtronium/safecalc"
)

func TestToFraction(t *testing.T) {
	cases := []struct {
		name string
		x    float64
		want string
	}{
		{"half", 0.5, "1/2"},
		{"third", 1.0 / 3, "1/3"},
		{"rounded-third", 0.3333333, "1/3"},
		{"tenth", 0.1, "1/10"},
		{"neg", -0.75, "-3/4"},
		{"int", 2, "2/1"},
		{"zero", 0, "0/1"},
		{"negzero", math.Copysign(0, -1), "0/1"},
		{"tiny", 1e-9, "0/1"},
		{"decimal", 123456.789, "123456789/1000"},
		{"pi", math.Pi, "3126535/995207"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := safecalc.ToFraction(c.x)
			assert.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestRational(t *testing.T) {
	cases := []struct {
		name   string
		x      float64
		maxden int64
		want   string
	}{
		{"pi-1000", math.Pi, 1000, "355/113"},
		{"pi-100", math.Pi, 100, "311/99"},
		{"pi-1", math.Pi, 1, "3/1"},
		{"negpi-1000", -math.Pi, 1000, "-355/113"},
		{"e-1000", math.E, 1000, "1457/536"},
		{"twothirds", 0.6666667, 10000, "2/3"},
		{"sqrt2", math.Sqrt2, 10000, "11482/8119"},
		{"exact", 0.375, 8, "3/8"},
		{"tie-half", 0.5, 1, "0/1"},
		{"tie-threehalves", 1.5, 1, "1/1"},
		{"tie-neghalf", -0.5, 1, "-1/1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := safecalc.Rational(c.x, c.maxden)
			assert.NoError(t, err)
			assert.Equal(t, c.want, r.String())
			assert.True(t, r.Denom().Cmp(big.NewInt(c.maxden)) <= 0, "denominator %v exceeds %d", r.Denom(), c.maxden)
		})
	}
}

func TestRationalBound(t *testing.T) {
	xs := []float64{math.Pi, math.E, math.Sqrt2, math.Phi, -math.Ln2, 1e-7, 12345.6789}
	for _, x := range xs {
		for _, maxden := range []int64{1, 2, 7, 100, 65536, safecalc.DefaultMaxDenominator} {
			r, err := safecalc.Rational(x, maxden)
			assert.NoError(t, err)
			assert.True(t, r.Denom().Cmp(big.NewInt(maxden)) <= 0, "%g with bound %d gave %v", x, maxden, r)
			// No fraction with a smaller bound may be closer.
			if maxden > 1 {
				s, err := safecalc.Rational(x, maxden/2)
				assert.NoError(t, err)
				exact := new(big.Rat).SetFloat64(x)
				d1 := new(big.Rat).Sub(r, exact)
				d2 := new(big.Rat).Sub(s, exact)
				assert.True(t, d1.Abs(d1).Cmp(d2.Abs(d2)) <= 0, "%g: %v with bound %d is worse than %v", x, r, maxden, s)
			}
		}
	}
}

func TestRationalPanics(t *testing.T) {
	assert.Panics(t, func() { safecalc.Rational(0.5, 0) })
	assert.Panics(t, func() { safecalc.Rational(0.5, -1) })
}

func TestRationalFloat(t *testing.T) {
	r, err := safecalc.RationalFloat(big.NewFloat(0.25), safecalc.DefaultMaxDenominator)
	assert.NoError(t, err)
	assert.Equal(t, "1/4", r.String())

	x := new(big.Float).SetPrec(200)
	x.Quo(big.NewFloat(1), big.NewFloat(3))
	r, err = safecalc.RationalFloat(x, safecalc.DefaultMaxDenominator)
	assert.NoError(t, err)
	assert.Equal(t, "1/3", r.String())

	_, err = safecalc.RationalFloat(new(big.Float).SetInf(true), safecalc.DefaultMaxDenominator)
	var ce *safecalc.ConversionError
	assert.True(t, errors.As(err, &ce), "got %#v", err)
}

func TestToFractionErrors(t *testing.T) {
	for _, x := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := safecalc.ToFraction(x)
		var ce *safecalc.ConversionError
		assert.True(t, errors.As(err, &ce), "%g gave %#v", x, err)
	}
}

func TestToFractionText(t *testing.T) {
	cases := []struct {
		name string
		s    string
		want string
		ok   bool
	}{
		{"plain", "0.25", "1/4", true},
		{"spaces", " 0.5\n", "1/2", true},
		{"int", "3", "3/1", true},
		{"neg", "-1.5", "-3/2", true},
		{"error", "Error: 1: unknown function \"foo\"", "", false},
		{"empty", "", "", false},
		{"inf", "1e999", "", false},
		{"nan", "NaN", "", false},
		{"word", "x", "", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := safecalc.ToFractionText(c.s)
			if c.ok {
				assert.NoError(t, err)
				assert.Equal(t, c.want, got)
				return
			}
			var ce *safecalc.ConversionError
			assert.True(t, errors.As(err, &ce), "got %#v", err)
			assert.Equal(t, "", got)
			assert.Contains(t, err.Error(), "fraction")
		})
	}
}

func TestToFractionResult(t *testing.T) {
	got, err := safecalc.ToFractionResult(safecalc.Evaluate("1/4 + 1/2"))
	assert.NoError(t, err)
	assert.Equal(t, "3/4", got)

	_, err = safecalc.ToFractionResult(safecalc.Evaluate("1/0"))
	var ce *safecalc.ConversionError
	assert.True(t, errors.As(err, &ce), "got %#v", err)
	var de *safecalc.DivisionByZeroError
	assert.True(t, errors.As(err, &de), "%#v doesn't wrap the evaluation error", err)

	orig := errors.New("no result")
	_, err = safecalc.ToFractionResult(0, orig)
	assert.IsError(t, err, orig)
}

func ExampleToFraction() {
	s, err := safecalc.ToFraction(0.75)
	fmt.Println(s, err)
	s, err = safecalc.ToFractionResult(safecalc.Evaluate("22/7"))
	fmt.Println(s, err)
	_, err = safecalc.ToFractionResult(safecalc.Evaluate("1/0"))
	fmt.Println(err)

	// Output:
	// 3/4 <nil>
	// 22/7 <nil>
	// cannot convert "2: division by zero" to a fraction: 2: division by zero
}
