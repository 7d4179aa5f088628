package rpncalc

import "strings"

// node is a node in the expression tree reconstructed from RPN. The parser
// never builds trees; they exist only for display.
type node struct {
	tok  Token
	args []*node
}

// tree rebuilds the expression tree of an RPN sequence. The result is nil if
// the sequence does not describe exactly one tree.
func tree(defs *Definitions, rpn []Token) *node {
	var stack []*node
	for _, tok := range rpn {
		n := 0
		switch tok.Kind {
		case Operator:
			op, ok := defs.Operator(tok.Text)
			if !ok {
				return nil
			}
			n = op.Arity
		case Function:
			f, ok := defs.Func(tok.Text)
			if !ok {
				return nil
			}
			n = f.Arity()
		}
		if len(stack) < n {
			return nil
		}
		k := len(stack) - n
		nd := &node{tok: tok, args: append([]*node(nil), stack[k:]...)}
		stack = append(stack[:k], nd)
	}
	if len(stack) != 1 {
		return nil
	}
	return stack[0]
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *node) fmt(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch {
	case n.tok.Kind == Function:
		b.WriteString(n.tok.Text)
		n.fmtargs(b, !square)
	case n.tok.Kind == Operator && len(n.args) == 1:
		if n.tok.Text == UnaryMinus {
			b.WriteByte('-')
		} else {
			b.WriteString(n.tok.Text)
		}
		n.args[0].fmt(b, !square)
	case n.tok.Kind == Operator && len(n.args) == 2:
		n.args[0].fmt(b, !square)
		b.WriteByte(' ')
		b.WriteString(n.tok.Text)
		b.WriteByte(' ')
		n.args[1].fmt(b, !square)
	default:
		b.WriteString(n.tok.Text)
	}
}

func (n *node) fmtargs(b *strings.Builder, square bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	for i, a := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.fmt(b, !square)
	}
}
