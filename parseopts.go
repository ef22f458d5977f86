package safecalc

// DefaultMaxDepth is the nesting limit Parse uses unless given MaxDepth.
const DefaultMaxDepth = 200

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type depthopt int

// parsectx holds general data for parsing.
type parsectx struct {
	// depth is the current recursion depth of the parser.
	depth int
	// maxdepth bounds both parser recursion and the height of the tree. If
	// it is not positive, there is no limit.
	maxdepth int
}

// MaxDepth limits how deeply an expression may nest, counting both
// parentheses and the height of the resulting tree. A flat chain of
// left-associative operators also counts: "1+1+...+1" with n terms has
// height n, so by default a sum of more than DefaultMaxDepth terms is
// rejected. Evaluation recurses over the tree, so this bounds the cost of
// pathological inputs. A limit that is not positive disables the check.
func MaxDepth(n int) ParseOption {
	return depthopt(n)
}

func (o depthopt) parseOption(p parsectx) parsectx {
	p.maxdepth = int(o)
	return p
}
