package safecalc

import (
	"errors"
	"testing"
)

func FuzzParse(f *testing.F) {
	f.Add("x")
	f.Add("2**-1")
	f.Add("sqrt(1, 2)")
	f.Add("math.pi")
	f.Add("'a' < 1")
	f.Add("(((1)))")
	f.Fuzz(func(t *testing.T, s string) {
		a, err := ParseString(s)
		if err != nil {
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("%q gave %#v, not a *SyntaxError", s, err)
			}
			return
		}
		r := a.String()
		// Rendering adds parentheses, so the result may nest more deeply.
		b, err := ParseString(r, MaxDepth(0))
		if err != nil {
			t.Fatalf("%q -> %q failed to parse: %v", s, r, err)
		}
		if d, e := a.n.diff(b.n); d != nil || e != nil {
			t.Errorf("mismatched AST:\n\t%q parses %v has %v\n\t%q parses %v has %v", s, a.n, d, r, b.n, e)
		}
	})
}
