package rpncalc

import "strings"

// Expr is a parsed expression that can be evaluated with a context. An Expr is
// immutable and may be evaluated concurrently by different contexts.
type Expr struct {
	// rpn is the expression in postfix order.
	rpn []Token
	// defs is the registry the expression was parsed with.
	defs *Definitions
	// names is the sorted list of variable names used in the expression.
	names []string
}

// Parse tokenizes and parses an expression so it can be evaluated with a
// context. The given options are applied in order.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	d, t := options(opts).resolve()
	toks, err := t.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return parse(d, toks)
}

// ParseTokens parses an already tokenized expression. Function and constant
// tokens are checked against the registry the options select.
func ParseTokens(toks []Token, opts ...ParseOption) (*Expr, error) {
	d, _ := options(opts).resolve()
	return parse(d, toks)
}

func options(opts []ParseOption) parsectx {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	return p
}

func parse(d *Definitions, toks []Token) (*Expr, error) {
	rpn, err := NewParser(d).Parse(toks)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	ex := Expr{rpn: rpn, defs: d}
	for _, tok := range rpn {
		if tok.Kind == Variable && !seen[tok.Text] {
			seen[tok.Text] = true
			ex.names = append(ex.names, tok.Text)
		}
	}
	sortstrs(ex.names)
	return &ex, nil
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}

// Eval evaluates the expression in ctx. It is the same as ctx.Eval(e).
func (e *Expr) Eval(ctx *Context) (float64, error) {
	return ctx.Eval(e)
}

// Vars returns the variable names used when evaluating the expression.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// RPN returns a copy of the expression's tokens in postfix order.
func (e *Expr) RPN() []Token {
	return append(([]Token)(nil), e.rpn...)
}

// Definitions returns the registry the expression uses.
func (e *Expr) Definitions() *Definitions {
	return e.defs
}

// Postfix returns the expression's tokens in postfix order separated by
// spaces. Negation appears as ~.
func (e *Expr) Postfix() string {
	var b strings.Builder
	for i, tok := range e.rpn {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

// String creates a string representation of the parsed expression, with
// alternating round and square brackets grouping each term.
func (e *Expr) String() string {
	n := tree(e.defs, e.rpn)
	if n == nil {
		return e.Postfix()
	}
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}
