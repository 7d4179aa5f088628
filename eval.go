package rpncalc

import (
	"errors"
	"log/slog"
	"strconv"
)

// Context is a context for evaluating expressions. It holds variable bindings
// and an operand stack. It is not safe to use a Context concurrently; use
// Clone to give each goroutine its own.
type Context struct {
	stack []float64
	names map[string]float64
	log   *slog.Logger
}

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  float64
	}
	varsopt map[string]float64
	logopt  struct{ l *slog.Logger }
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}
func (logopt) ctxOption()  {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val float64) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]float64) ContextOption {
	return varsopt(vars)
}

// Logger sets a logger which receives a debug record for each evaluation.
func Logger(l *slog.Logger) ContextOption {
	return logopt{l}
}

// NewContext creates a new evaluation context.
func NewContext(opts ...ContextOption) *Context {
	var ctx Context
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it. The copy has
// its own bindings, so Set on either context does not affect the other.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		stack: make([]float64, 0, cap(ctx.stack)),
		names: make(map[string]float64, len(ctx.names)),
		log:   ctx.log,
	}
	for k, v := range ctx.names {
		n.names[k] = v
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = opt.val
		case varsopt:
			for k, v := range opt {
				n.names[k] = v
			}
		case logopt:
			n.log = opt.l
		default:
			panic("rpncalc: unknown option type")
		}
	}
	return &n
}

// Set sets the value of a variable. Names are case-sensitive. Returns ctx for
// chaining.
func (ctx *Context) Set(name string, value float64) *Context {
	if ctx.names == nil {
		ctx.names = make(map[string]float64)
	}
	ctx.names[name] = value
	return ctx
}

// Unset removes a variable binding. Returns ctx for chaining.
func (ctx *Context) Unset(name string) *Context {
	delete(ctx.names, name)
	return ctx
}

// Lookup returns the value of a variable and whether it is set.
func (ctx *Context) Lookup(name string) (float64, bool) {
	v, ok := ctx.names[name]
	return v, ok
}

// Vars returns a copy of the context's variable bindings.
func (ctx *Context) Vars() map[string]float64 {
	m := make(map[string]float64, len(ctx.names))
	for k, v := range ctx.names {
		m[k] = v
	}
	return m
}

// Eval evaluates a parsed expression with the context's current bindings.
// Evaluating the same expression with the same bindings always gives the same
// result.
func (ctx *Context) Eval(e *Expr) (float64, error) {
	r, err := ctx.run(e.defs, e.rpn)
	logEval(ctx.log, e, r, err)
	return r, err
}

// Evaluate evaluates an RPN sequence, as produced by Parser.Parse, using the
// registry defs and the variable bindings vars. vars is not modified. If defs
// is nil, the default registry is used.
func Evaluate(defs *Definitions, rpn []Token, vars map[string]float64) (float64, error) {
	if defs == nil {
		defs = defaults
	}
	ctx := Context{names: vars}
	return ctx.run(defs, rpn)
}

// run walks the RPN sequence with the operand stack.
func (ctx *Context) run(defs *Definitions, rpn []Token) (float64, error) {
	ctx.stack = ctx.stack[:0]
	for _, tok := range rpn {
		switch tok.Kind {
		case Number:
			v, err := number(tok.Text)
			if err != nil {
				return 0, &EvaluationError{Kind: BadNumber, Tok: tok, Err: err}
			}
			ctx.push(v)
		case Constant:
			v, ok := defs.Constant(tok.Text)
			if !ok {
				return 0, &EvaluationError{Kind: UnknownName, Tok: tok}
			}
			ctx.push(v)
		case Variable:
			v, ok := ctx.names[tok.Text]
			if !ok {
				return 0, &EvaluationError{Kind: Unset, Tok: tok}
			}
			ctx.push(v)
		case Operator:
			op, ok := defs.Operator(tok.Text)
			if !ok {
				return 0, &EvaluationError{Kind: UnknownName, Tok: tok}
			}
			if err := ctx.apply(tok, op.Arity, op.apply); err != nil {
				return 0, err
			}
		case Function:
			f, ok := defs.Func(tok.Text)
			if !ok {
				return 0, &EvaluationError{Kind: UnknownName, Tok: tok}
			}
			if err := ctx.apply(tok, f.arity, f.fn); err != nil {
				return 0, err
			}
		default:
			return 0, &EvaluationError{Kind: BadToken, Tok: tok}
		}
	}
	if len(ctx.stack) != 1 {
		return 0, &EvaluationError{Kind: Malformed, Depth: len(ctx.stack)}
	}
	return ctx.pop(), nil
}

// apply pops n operands, calls fn with them in the order they were pushed,
// and pushes the result.
func (ctx *Context) apply(tok Token, n int, fn func([]float64) (float64, error)) error {
	if len(ctx.stack) < n {
		return &EvaluationError{Kind: StackUnderflow, Tok: tok}
	}
	k := len(ctx.stack) - n
	r, err := fn(ctx.stack[k:])
	if err != nil {
		return &EvaluationError{Kind: Domain, Tok: tok, Err: err}
	}
	ctx.stack = append(ctx.stack[:k], r)
	return nil
}

func (ctx *Context) push(v float64) {
	ctx.stack = append(ctx.stack, v)
}

func (ctx *Context) pop() float64 {
	r := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	return r
}

// errNumeral is the cause of BadNumber errors for text outside the number
// grammar.
var errNumeral = errors.New("not a decimal numeral")

// number converts the text of a Number token. The text must match the
// tokenizer's number grammar. Numerals too large for a float64 become
// infinity.
func number(s string) (float64, error) {
	if !isNumeral(s) {
		return 0, errNumeral
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return v, nil
}

// isNumeral checks s against digits with an optional fraction.
func isNumeral(s string) bool {
	i := 0
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	if i == 0 {
		return false
	}
	if i == len(s) {
		return true
	}
	if s[i] != '.' {
		return false
	}
	i++
	j := i
	for i < len(s) && isDigit(rune(s[i])) {
		i++
	}
	return i > j && i == len(s)
}

// EvalString is a shortcut to parse a string with the default registry and
// evaluate it in a new context.
func EvalString(src string, opts ...ContextOption) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return NewContext(opts...).Eval(e)
}
