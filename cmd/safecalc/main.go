package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math/big"
	"os"
	"strings"

	"github.com/zephyrtronium/safecalc"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb   string
		nl, echo, frac bool
		prec, depth    int
		maxden         int64
	)
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.IntVar(&prec, "p", safecalc.DefaultPrec, "precision of calculations in bits")
	flag.IntVar(&depth, "depth", safecalc.DefaultMaxDepth, "maximum nesting depth of an expression")
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&frac, "frac", false, "also print each result as a fraction")
	flag.Int64Var(&maxden, "maxden", safecalc.DefaultMaxDenominator, "largest denominator for -frac")
	flag.Parse()
	if err := checkflags(prec, maxden); err != nil {
		log.Fatal(err)
	}

	var srcs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		b, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			log.Fatal(err)
		}
		if nl {
			srcs = append(srcs, lines(string(b))...)
		} else {
			srcs = append(srcs, string(b))
		}
	}
	srcs = append(srcs, flag.Args()...)

	ctx := safecalc.NewContext(safecalc.Prec(uint(prec)))
	verb += "\n"
	for _, src := range srcs {
		a, err := safecalc.ParseString(safecalc.Normalize(src), safecalc.MaxDepth(depth))
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		if echo {
			fmt.Printf("%v : ", a)
		}
		r, err := ctx.EvalFloat(a)
		if err != nil {
			fmt.Println("Error:", err)
			continue
		}
		fmt.Printf(verb, r)
		if frac {
			q, err := safecalc.RationalFloat(r, maxden)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println(q)
		}
	}
}

// checkflags reports whether the numeric flags are usable.
func checkflags(prec int, maxden int64) error {
	if prec <= 0 || uint64(prec) > big.MaxPrec {
		return fmt.Errorf("precision (%d) must be between 1 and %d", prec, uint64(big.MaxPrec))
	}
	if maxden < 1 {
		return fmt.Errorf("max denominator (%d) must be positive", maxden)
	}
	return nil
}

// lines splits input into its non-blank lines.
func lines(s string) []string {
	var r []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			r = append(r, l)
		}
	}
	return r
}

func infile(inname string, std bool) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return io.NopCloser(os.Stdin), nil
	}
	return nil, nil
}
