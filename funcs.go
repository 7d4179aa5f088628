package rpncalc

import (
	"math"
	"strconv"
)

// Func is a function from reals to reals taking a fixed number of arguments.
// The zero Func is not callable.
type Func struct {
	arity int
	fn    func(args []float64) (float64, error)
}

// NewFunc creates a function of arity arguments. Panics if arity is not
// positive. fn receives exactly arity arguments, in the order they were
// written. It may return a *DomainError for arguments outside its domain.
func NewFunc(arity int, fn func(args []float64) (float64, error)) Func {
	if arity < 1 {
		panic("rpncalc: function arity must be positive, not " + strconv.Itoa(arity))
	}
	return Func{arity: arity, fn: fn}
}

// Monadic wraps a function of one variable that is defined everywhere.
func Monadic(f func(x float64) float64) Func {
	return Func{arity: 1, fn: func(args []float64) (float64, error) {
		return f(args[0]), nil
	}}
}

// MonadicErr wraps a function of one variable that may reject its argument.
func MonadicErr(f func(x float64) (float64, error)) Func {
	return Func{arity: 1, fn: func(args []float64) (float64, error) {
		return f(args[0])
	}}
}

// Dyadic wraps a function of two variables that is defined everywhere.
func Dyadic(f func(x, y float64) float64) Func {
	return Func{arity: 2, fn: func(args []float64) (float64, error) {
		return f(args[0], args[1]), nil
	}}
}

// Arity returns the number of arguments the function takes.
func (f Func) Arity() int {
	return f.arity
}

// Call evaluates the function. Panics if len(args) differs from the arity.
func (f Func) Call(args []float64) (float64, error) {
	if len(args) != f.arity {
		panic("rpncalc: called function of arity " + strconv.Itoa(f.arity) + " with " + strconv.Itoa(len(args)) + " arguments")
	}
	return f.fn(args)
}

// AngleUnit selects how trigonometric functions interpret angles.
type AngleUnit int8

const (
	// Radians is the default angle unit.
	Radians AngleUnit = iota
	// Degrees makes trigonometric functions take degrees and inverse
	// trigonometric functions return degrees.
	Degrees
)

func (u AngleUnit) String() string {
	if u == Degrees {
		return "degrees"
	}
	return "radians"
}

// maxFactorial is the largest argument whose factorial fits in a uint64.
const maxFactorial = 20

func domain(x float64, fn, reason string) error {
	return &DomainError{X: x, Arg: 1, Func: fn, Reason: reason}
}

func positiveLog(name string, f func(float64) float64) Func {
	return MonadicErr(func(x float64) (float64, error) {
		if x <= 0 {
			return 0, domain(x, name, "logarithm defined only for positive numbers")
		}
		return f(x), nil
	})
}

var sqrtFunc = MonadicErr(func(x float64) (float64, error) {
	if x < 0 {
		return 0, domain(x, "sqrt", "square root of negative number")
	}
	return math.Sqrt(x), nil
})

var factFunc = MonadicErr(func(x float64) (float64, error) {
	if x < 0 || x > maxFactorial || x != math.Floor(x) {
		return 0, domain(x, "fact", "factorial defined only for integers 0 through "+strconv.Itoa(maxFactorial))
	}
	r := uint64(1)
	for i := uint64(2); i <= uint64(x); i++ {
		r *= i
	}
	return float64(r), nil
})

// trigFuncs builds the trigonometric functions for an angle unit.
func trigFuncs(unit AngleUnit) map[string]Func {
	in, out := 1.0, 1.0
	if unit == Degrees {
		in, out = math.Pi/180, 180/math.Pi
	}
	inverse := func(name string, f func(float64) float64) Func {
		return MonadicErr(func(x float64) (float64, error) {
			if x < -1 || x > 1 {
				return 0, domain(x, name, "argument must be in [-1, 1]")
			}
			return f(x) * out, nil
		})
	}
	return map[string]Func{
		"sin": Monadic(func(x float64) float64 { return math.Sin(x * in) }),
		"cos": Monadic(func(x float64) float64 { return math.Cos(x * in) }),
		"tan": Monadic(func(x float64) float64 { return math.Tan(x * in) }),
		"cot": MonadicErr(func(x float64) (float64, error) {
			t := math.Tan(x * in)
			if math.Abs(t) <= Epsilon {
				return 0, domain(x, "cot", "cotangent undefined where tangent is zero")
			}
			return 1 / t, nil
		}),
		"asin": inverse("asin", math.Asin),
		"acos": inverse("acos", math.Acos),
		"atan": Monadic(func(x float64) float64 { return math.Atan(x) * out }),
	}
}

// defaultFuncs builds the default function table.
func defaultFuncs(unit AngleUnit) map[string]Func {
	m := map[string]Func{
		"ln":   positiveLog("ln", math.Log),
		"log":  positiveLog("log", math.Log10),
		"sqrt": sqrtFunc,
		"√":    sqrtFunc,
		"abs":  Monadic(math.Abs),
		"exp":  Monadic(math.Exp),
		"fact": factFunc,
		"max":  Dyadic(math.Max),
		"min":  Dyadic(math.Min),
	}
	for k, v := range trigFuncs(unit) {
		m[k] = v
	}
	return m
}
