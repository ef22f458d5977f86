package safecalc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Nodes are
// never modified after parsing.
type node struct {
	kind nodeKind
	op   Op

	// name is the text of a number, name, or string literal, or the
	// attribute name of an attribute access.
	name string

	// left is the operand of a unary operator, the left operand of a binary
	// operator, the callee of a call, or the receiver of an attribute access.
	left  *node
	right *node
	args  []*node

	// pos is the column of the token that produced the node.
	pos int
	// height is the height of the tree rooted at this node.
	height int
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum  // literal number
	nodeName // bare identifier
	nodeStr  // string literal

	nodeUnary   // op left
	nodeBinary  // left op right, op arithmetic
	nodeCompare // left op right, op a comparison
	nodeAssign  // left = right

	nodeCall // left(args...)
	nodeAttr // left.name
)

func (k nodeKind) String() string {
	switch k {
	case nodeNone:
		return "None"
	case nodeNum:
		return "Num"
	case nodeName:
		return "Name"
	case nodeStr:
		return "Str"
	case nodeUnary:
		return "Unary"
	case nodeBinary:
		return "Binary"
	case nodeCompare:
		return "Compare"
	case nodeAssign:
		return "Assign"
	case nodeCall:
		return "Call"
	case nodeAttr:
		return "Attr"
	default:
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes n such that parsing the result produces the same tree.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b)
		}
		b.WriteByte('$')
	case nodeNum, nodeName:
		b.WriteString(n.name)
	case nodeStr:
		// The lexer keeps the rune after a backslash literally.
		b.WriteByte('"')
		for _, r := range n.name {
			if r == '"' || r == '\\' {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		b.WriteByte('"')
	case nodeUnary:
		b.WriteByte('(')
		b.WriteString(n.op.String())
		n.left.fmt(b)
		b.WriteByte(')')
	case nodeBinary, nodeCompare, nodeAssign:
		b.WriteByte('(')
		n.left.fmt(b)
		b.WriteByte(' ')
		b.WriteString(n.op.String())
		b.WriteByte(' ')
		n.right.fmt(b)
		b.WriteByte(')')
	case nodeCall:
		n.left.fmtrecv(b)
		b.WriteByte('(')
		for i, arg := range n.args {
			if i > 0 {
				b.WriteString(", ")
			}
			arg.fmt(b)
		}
		b.WriteByte(')')
	case nodeAttr:
		n.left.fmtrecv(b)
		b.WriteByte('.')
		b.WriteString(n.name)
	default:
		panic("safecalc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

// fmtrecv writes n as the receiver of a postfix call or attribute access.
func (n *node) fmtrecv(b *strings.Builder) {
	switch n.kind {
	case nodeName, nodeCall, nodeAttr:
		n.fmt(b)
	default:
		b.WriteByte('(')
		n.fmt(b)
		b.WriteByte(')')
	}
}
