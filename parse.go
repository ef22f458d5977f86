package safecalc

import (
	"io"
	"strings"
)

// Expr    = Assign
// Assign  = Compare [ '=' Assign ]
// Compare = Sum { ('<' | '>' | '<=' | '>=' | '==' | '!=') Sum }
// Sum     = Product { ('+' | '-') Product }
// Product = Unary { ('*' | '/' | '//' | '%') Unary }
// Unary   = ('-' | '+') Unary | Power
// Power   = Postfix [ '**' Unary ]
// Postfix = Primary { '(' [ Expr { ',' Expr } ] ')' | '.' name }
// Primary = num | name | string | '(' Expr ')'

// Expr is a parsed expression. An Expr is immutable and may be evaluated
// concurrently by any number of goroutines.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order. If the input is not an expression, the error
// is a *SyntaxError.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	scan := lex(src)
	p := parsectx{maxdepth: DefaultMaxDepth}
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	n, err := parseterm(scan, &p, exprprec)
	if err == nil {
		if tok := scan.must(); tok.kind != tokenEOF {
			err = itShouldNotHaveEndedThisWay(tok, false)
		}
	}
	if err != nil {
		if ie, ok := err.(InputError); ok {
			return nil, &SyntaxError{Err: ie}
		}
		return nil, err
	}
	return &Expr{n: n}, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.maxdepth > 0 && p.depth > p.maxdepth {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		return nil, &DepthError{Col: tok.pos, Max: p.maxdepth}
	}
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			prec := binop(tok.text)
			if prec.op == opNone {
				return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: false}
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				end := scan.must()
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n, err = p.grow(&node{kind: prec.kind, op: prec.op, left: n, right: rhs, pos: tok.pos})
			if err != nil {
				return nil, err
			}
		case tokenClose, tokenSep, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			// Adjacent terms are not a product here: "2 3", "import os".
			return nil, &UnexpectedTokenError{Col: tok.pos, Token: tok.text}
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary,
// and any encountered token must be valid as the start of a subexpression.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		n = &node{kind: nodeNum, name: tok.text, pos: tok.pos, height: 1}
	case tokenIdent:
		n = &node{kind: nodeName, name: tok.text, pos: tok.pos, height: 1}
	case tokenStr:
		n = &node{kind: nodeStr, name: tok.text, pos: tok.pos, height: 1}
	case tokenOp:
		prec := unop(tok.text)
		if prec.op == opNone {
			return nil, &OperatorError{Col: tok.pos, Operator: tok.text, Unary: true}
		}
		if !prec.moreBinding(until) {
			// x**-y -> x**(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			end := scan.must()
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		// Postfix operators bind to the operand, not the negation.
		return p.grow(&node{kind: nodeUnary, op: prec.op, left: rhs, pos: tok.pos})
	case tokenOpen:
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			return nil, err
		}
		end := scan.must()
		if end.kind != tokenClose {
			return nil, itShouldNotHaveEndedThisWay(end, true)
		}
		if rhs == nil {
			return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
		}
		n = rhs
	case tokenClose:
		// Let the caller decide whether an empty subexpression is an error,
		// as for f().
		scan.push(tok)
		return nil, nil
	case tokenSep:
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenEOF:
		return nil, &EmptyExpressionError{Col: tok.pos, End: ""}
	case tokenDot:
		return nil, &UnexpectedTokenError{Col: tok.pos, Token: tok.text}
	default:
		panic("safecalc: unknown token: " + tok.String())
	}
	return parsepostfix(scan, p, n)
}

// parsepostfix parses any calls and attribute accesses applied to n.
func parsepostfix(scan *lexer, p *parsectx, n *node) (*node, error) {
	for {
		tok, err := scan.next()
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOpen:
			args, err := parsearglist(scan, p)
			if err != nil {
				return nil, err
			}
			n, err = p.grow(&node{kind: nodeCall, left: n, args: args, pos: n.pos})
			if err != nil {
				return nil, err
			}
		case tokenDot:
			name, err := scan.next()
			if err != nil {
				return nil, err
			}
			switch name.kind {
			case tokenIdent: // do nothing
			case tokenEOF:
				return nil, &EmptyExpressionError{Col: name.pos, End: ""}
			default:
				return nil, &UnexpectedTokenError{Col: name.pos, Token: name.text}
			}
			n, err = p.grow(&node{kind: nodeAttr, left: n, name: name.text, pos: tok.pos})
			if err != nil {
				return nil, err
			}
		default:
			scan.push(tok)
			return n, nil
		}
	}
}

// parsearglist parses a parenthesized list of zero or more args following the
// open parenthesis. On success, the close parenthesis is consumed.
func parsearglist(scan *lexer, p *parsectx) ([]*node, error) {
	var args []*node
	for {
		rhs, err := parseterm(scan, p, exprprec)
		if err != nil {
			// As a special case, reporting mismatched brackets is more helpful
			// than empty expression, if that's what we'd do here.
			if ee, _ := err.(*EmptyExpressionError); ee != nil && ee.End == "" {
				err = &BracketError{Col: ee.Col, Left: "("}
			}
			return nil, err
		}
		end := scan.must()
		switch end.kind {
		case tokenClose:
			if rhs == nil {
				// f() is allowed, but f(a,) isn't.
				if len(args) != 0 {
					return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
				}
				return nil, nil
			}
			return append(args, rhs), nil
		case tokenSep:
			args = append(args, rhs)
		case tokenEOF:
			return nil, &BracketError{Col: end.pos, Left: "(", Right: ""}
		default:
			panic("safecalc: parseterm ended on non-end token " + end.String())
		}
	}
}

// grow records the height of a newly built node, whose children must already
// have heights, and checks it against the nesting limit.
func (p *parsectx) grow(n *node) (*node, error) {
	h := 0
	if n.left != nil && n.left.height > h {
		h = n.left.height
	}
	if n.right != nil && n.right.height > h {
		h = n.right.height
	}
	for _, arg := range n.args {
		if arg.height > h {
			h = arg.height
		}
	}
	n.height = h + 1
	if p.maxdepth > 0 && n.height > p.maxdepth {
		return nil, &DepthError{Col: n.pos, Max: p.maxdepth}
	}
	return n, nil
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is whether the subexpression
// began with an open bracket.
func itShouldNotHaveEndedThisWay(tok lexToken, open bool) error {
	left := ""
	if open {
		left = "("
	}
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: left, Right: ""}
	case tokenClose:
		return &BracketError{Col: tok.pos, Left: left, Right: tok.text}
	case tokenSep:
		// Separator outside a function call.
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("safecalc: it really should not have ended this way: " + tok.String())
	}
}

// String creates a string representation of the parsed expression, with
// every operation parenthesized.
func (e *Expr) String() string {
	return e.n.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the operator selected.
	op Op
	// kind is the node kind to use when this operator is selected.
	kind nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of opNone.
func binop(text string) operator {
	switch text {
	case "=":
		return operator{0, true, OpAssign, nodeAssign}
	case "<":
		return operator{1, false, OpLess, nodeCompare}
	case ">":
		return operator{1, false, OpGreater, nodeCompare}
	case "<=":
		return operator{1, false, OpLessEq, nodeCompare}
	case ">=":
		return operator{1, false, OpGreaterEq, nodeCompare}
	case "==":
		return operator{1, false, OpEq, nodeCompare}
	case "!=":
		return operator{1, false, OpNotEq, nodeCompare}
	case "+":
		return operator{3, false, OpAdd, nodeBinary}
	case "-":
		return operator{3, false, OpSub, nodeBinary}
	case "*":
		return operator{5, false, OpMul, nodeBinary}
	case "/":
		return operator{5, false, OpDiv, nodeBinary}
	case "//":
		return operator{5, false, OpFloorDiv, nodeBinary}
	case "%":
		return operator{5, false, OpMod, nodeBinary}
	case "**":
		return operator{15, true, OpPow, nodeBinary}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of opNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, OpPos, nodeUnary}
	case "-":
		return operator{10, true, OpNeg, nodeUnary}
	default:
		return operator{}
	}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, opNone, nodeNone}
