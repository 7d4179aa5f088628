package rpncalc

import (
	"math"

	"golang.org/x/text/cases"
)

// Operator precedences. Higher binds tighter.
const (
	PrecAdditive       = 10
	PrecMultiplicative = 20
	PrecPower          = 30
	PrecUnary          = 40
)

// Epsilon is the magnitude at or below which divisors and tangents count as
// zero.
const Epsilon = 1e-10

// UnaryMinus is the symbol the parser emits for negation. It never appears in
// source text.
const UnaryMinus = "~"

// OperatorDef describes an operator.
type OperatorDef struct {
	// Symbol is the canonical symbol of the operator.
	Symbol string
	// Arity is 1 for unary and 2 for binary operators.
	Arity int
	// Right indicates right-associativity.
	Right bool
	apply func(args []float64) (float64, error)
}

// Apply evaluates the operator on exactly Arity operands.
func (op OperatorDef) Apply(args []float64) (float64, error) {
	return op.apply(args)
}

// Definitions is a registry of the constants, functions, and operators an
// expression may use. Definitions are immutable and safe for concurrent use.
type Definitions struct {
	consts map[string]float64
	funcs  map[string]Func
	ops    map[string]OperatorDef
	prec   map[string]int
	angle  AngleUnit
}

var defaults = &Definitions{
	consts: map[string]float64{
		"pi": math.Pi,
		"π":  math.Pi,
		"e":  math.E,
	},
	funcs: defaultFuncs(Radians),
	ops: map[string]OperatorDef{
		"+": {"+", 2, false, func(a []float64) (float64, error) { return a[0] + a[1], nil }},
		"-": {"-", 2, false, func(a []float64) (float64, error) { return a[0] - a[1], nil }},
		"*": {"*", 2, false, func(a []float64) (float64, error) { return a[0] * a[1], nil }},
		"/": {"/", 2, false, divide},
		"^": {"^", 2, true, power},
		"~": {"~", 1, false, func(a []float64) (float64, error) { return -a[0], nil }},
	},
	prec: map[string]int{
		"+": PrecAdditive,
		"-": PrecAdditive,
		"*": PrecMultiplicative,
		"×": PrecMultiplicative,
		"/": PrecMultiplicative,
		"÷": PrecMultiplicative,
		"^": PrecPower,
		"~": PrecUnary,
	},
}

func divide(a []float64) (float64, error) {
	if math.Abs(a[1]) <= Epsilon {
		return 0, &DomainError{X: a[1], Arg: 2, Func: "/", Reason: "division by zero"}
	}
	return a[0] / a[1], nil
}

func power(a []float64) (float64, error) {
	r := math.Pow(a[0], a[1])
	if math.IsNaN(r) && !math.IsNaN(a[0]) && !math.IsNaN(a[1]) {
		return 0, &DomainError{X: a[0], Arg: 1, Func: "^", Reason: "negative base with fractional exponent"}
	}
	return r, nil
}

// DefaultDefinitions returns the shared default registry.
func DefaultDefinitions() *Definitions {
	return defaults
}

// NewDefinitions creates a registry from the defaults with options applied
// in order.
func NewDefinitions(opts ...DefOption) *Definitions {
	return defaults.With(opts...)
}

// With returns a copy of d with options applied in order. d is unchanged.
func (d *Definitions) With(opts ...DefOption) *Definitions {
	if len(opts) == 0 {
		return d
	}
	n := &Definitions{
		consts: make(map[string]float64, len(d.consts)),
		funcs:  make(map[string]Func, len(d.funcs)),
		ops:    d.ops,
		prec:   d.prec,
		angle:  d.angle,
	}
	for k, v := range d.consts {
		n.consts[k] = v
	}
	for k, v := range d.funcs {
		n.funcs[k] = v
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(n)
		}
	}
	return n
}

// fold normalizes a name for case-insensitive lookup. Casers are stateful,
// so each call uses its own.
func fold(name string) string {
	return cases.Fold().String(name)
}

// Constant looks up a constant by case-insensitive name.
func (d *Definitions) Constant(name string) (float64, bool) {
	v, ok := d.consts[fold(name)]
	return v, ok
}

// Func looks up a function by case-insensitive name.
func (d *Definitions) Func(name string) (Func, bool) {
	f, ok := d.funcs[fold(name)]
	return f, ok
}

// Operator looks up an operator by symbol. × and ÷ are synonyms for * and /.
func (d *Definitions) Operator(symbol string) (OperatorDef, bool) {
	op, ok := d.ops[normalizeOp(symbol)]
	return op, ok
}

// Precedence returns the binding power of an operator symbol.
func (d *Definitions) Precedence(symbol string) (int, bool) {
	p, ok := d.prec[symbol]
	return p, ok
}

// AngleUnit returns the unit trigonometric functions use.
func (d *Definitions) AngleUnit() AngleUnit {
	return d.angle
}

// FuncNames returns the sorted names of all functions.
func (d *Definitions) FuncNames() []string {
	return sortedKeys(d.funcs)
}

// ConstNames returns the sorted names of all constants.
func (d *Definitions) ConstNames() []string {
	return sortedKeys(d.consts)
}

func sortedKeys[V any](m map[string]V) []string {
	r := make([]string, 0, len(m))
	for k := range m {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

func normalizeOp(symbol string) string {
	switch symbol {
	case "×":
		return "*"
	case "÷":
		return "/"
	default:
		return symbol
	}
}

// DefOption modifies a registry under construction.
type DefOption interface {
	apply(d *Definitions)
}

type (
	constopt struct {
		name string
		val  float64
	}
	funcopt struct {
		name string
		fn   Func
		del  bool
	}
	angleopt AngleUnit
)

// WithConstant adds or replaces a constant.
func WithConstant(name string, val float64) DefOption {
	return constopt{name, val}
}

func (o constopt) apply(d *Definitions) {
	d.consts[fold(o.name)] = o.val
}

// WithFunc adds or replaces a function.
func WithFunc(name string, fn Func) DefOption {
	return funcopt{name: name, fn: fn}
}

// WithoutFunc removes a function so that its name becomes a variable.
func WithoutFunc(name string) DefOption {
	return funcopt{name: name, del: true}
}

func (o funcopt) apply(d *Definitions) {
	if o.del {
		delete(d.funcs, fold(o.name))
		return
	}
	if o.fn.arity < 1 {
		panic("rpncalc: invalid function " + o.name)
	}
	d.funcs[fold(o.name)] = o.fn
}

// WithAngleUnit sets the angle unit of the trigonometric functions. It
// replaces any earlier definitions of those functions.
func WithAngleUnit(unit AngleUnit) DefOption {
	return angleopt(unit)
}

func (o angleopt) apply(d *Definitions) {
	d.angle = AngleUnit(o)
	for k, v := range trigFuncs(d.angle) {
		d.funcs[k] = v
	}
}
