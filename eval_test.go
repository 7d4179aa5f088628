package rpncalc_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/zephyrtronium/rpncalc"
)

func TestEval(t *testing.T) {
	type vv struct {
		n string
		v float64
	}
	type vc struct {
		vars []vv
		r    float64
	}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"num", "1", []vc{{nil, 1}}},
		{"decimal", "1.5", []vc{{nil, 1.5}}},
		{"ident", "x", []vc{
			{[]vv{{"x", 4}}, 4},
			{[]vv{{"x", 5}}, 5},
			{[]vv{{"x", 6}}, 6},
		}},
		{"plus", "+x", []vc{
			{[]vv{{"x", 4}}, 4},
			{[]vv{{"x", 5}}, 5},
		}},
		{"neg", "-x", []vc{
			{[]vv{{"x", 4}}, -4},
			{[]vv{{"x", -5}}, 5},
		}},
		{"sum", "x+y", []vc{
			{[]vv{{"x", 5}, {"y", 3}}, 8},
			{[]vv{{"x", 1}, {"y", -1}}, 0},
		}},
		{"prec", "2+3*4", []vc{{nil, 14}}},
		{"paren", "(2+3)*4", []vc{{nil, 20}}},
		{"add", "4+5+6", []vc{{nil, 4 + 5 + 6}}},
		{"sub", "4-5-6", []vc{{nil, 4 - 5 - 6}}},
		{"mul", "4*5*6", []vc{{nil, 4 * 5 * 6}}},
		{"div", "4/5/6", []vc{{nil, 4.0 / 5.0 / 6.0}}},
		{"div-frac", "10/4", []vc{{nil, 2.5}}},
		{"synonyms", "2×3÷4", []vc{{nil, 1.5}}},
		{"pow", "2^3^2", []vc{{nil, 512}}},
		{"pow-neg", "2^-1", []vc{{nil, 0.5}}},
		{"neg-pow", "-2^2", []vc{{nil, 4}}},
		{"neg-base-int", "(-2)^3", []vc{{nil, -8}}},
		{"sub-neg", "5 - -3", []vc{{nil, 8}}},
		{"pi", "pi", []vc{{nil, math.Pi}}},
		{"PI", "PI", []vc{{nil, math.Pi}}},
		{"π", "π", []vc{{nil, math.Pi}}},
		{"e", "e", []vc{{nil, math.E}}},
		{"exp", "exp(1)", []vc{{nil, math.Exp(1)}}},
		{"ln", "ln(e)", []vc{{nil, math.Log(math.E)}}},
		{"log", "log(1000)", []vc{{nil, math.Log10(1000)}}},
		{"sqrt", "sqrt(16)", []vc{{nil, 4}}},
		{"√", "√(16)", []vc{{nil, 4}}},
		{"abs", "abs(-3)", []vc{{nil, 3}}},
		{"max", "max(5,3)", []vc{{nil, 5}}},
		{"min", "min(5,3)", []vc{{nil, 3}}},
		{"max-order", "max(x, 3)", []vc{
			{[]vv{{"x", 1}}, 3},
			{[]vv{{"x", 7}}, 7},
		}},
		{"sin", "sin(pi/2)", []vc{{nil, math.Sin(math.Pi / 2)}}},
		{"cos", "cos(0)", []vc{{nil, 1}}},
		{"tan", "tan(0)", []vc{{nil, 0}}},
		{"cot", "cot(1)", []vc{{nil, 1 / math.Tan(1)}}},
		{"asin", "asin(1)", []vc{{nil, math.Asin(1)}}},
		{"acos", "acos(1)", []vc{{nil, 0}}},
		{"atan", "atan(1)", []vc{{nil, math.Atan(1)}}},
		{"fact", "fact(5)", []vc{{nil, 120}}},
		{"fact0", "fact(0)", []vc{{nil, 1}}},
		{"fact20", "fact(20)", []vc{{nil, 2432902008176640000}}},
		{"nested", "max(1+2, min(3,4)) * 2", []vc{{nil, 6}}},
		{"huge", strings.Repeat("9", 400), []vc{{nil, math.Inf(1)}}},
	}
	ctx := rpncalc.NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := rpncalc.Parse(c.src)
			if err != nil {
				t.Fatal(c.src, "failed to parse:", err)
			}
			for _, v := range c.r {
				ctx := ctx.Clone()
				for _, x := range v.vars {
					ctx.Set(x.n, x.v)
				}
				r, err := a.Eval(ctx)
				if err != nil {
					t.Error("evaluation error:", err)
				}
				if r != v.r {
					t.Errorf("wrong result: want %g, got %g", v.r, r)
				}
			}
		})
	}
}

func TestEvalUnset(t *testing.T) {
	cases := []struct {
		name string
		src  string
		miss string
	}{
		{"x", "x", "x"},
		{"neg", "-x", "x"},
		{"add-lhs", "x+1", "x"},
		{"add-rhs", "1+x", "x"},
		{"pow-rhs", "1^x", "x"},
		{"call", "exp(x)", "x"},
		{"second", "x+y", "y"},
	}
	ctx := rpncalc.NewContext(rpncalc.SetVar("x", 5))
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := rpncalc.Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			cx := ctx
			if c.miss == "x" {
				cx = rpncalc.NewContext()
			}
			_, err = a.Eval(cx)
			var eerr *rpncalc.EvaluationError
			if !errors.As(err, &eerr) {
				t.Fatalf("error was %#v, not EvaluationError", err)
			}
			if eerr.Kind != rpncalc.Unset {
				t.Errorf("wrong kind %v", eerr.Kind)
			}
			if eerr.Tok.Text != c.miss {
				t.Errorf("error names %q, want %q", eerr.Tok.Text, c.miss)
			}
			if msg := err.Error(); !strings.Contains(msg, `"`+c.miss+`"`) {
				t.Errorf("%q doesn't mention %q", msg, c.miss)
			}
		})
	}
}

func TestEvalDomain(t *testing.T) {
	cases := []struct {
		name string
		src  string
		fn   string
	}{
		{"div-zero", "5/0", "/"},
		{"div-epsilon", "5/0.0000000001", "/"},
		{"div-tiny", "5/0.00000000001", "/"},
		{"div-alt", "0÷0", "/"},
		{"div-expr", "1/(2-2)", "/"},
		{"ln", "ln(-1)", "ln"},
		{"ln-zero", "ln(0)", "ln"},
		{"log", "log(0)", "log"},
		{"sqrt", "sqrt(-4)", "sqrt"},
		{"√", "√(-4)", "sqrt"},
		{"cot-zero", "cot(0)", "cot"},
		{"cot-pi", "cot(pi)", "cot"},
		{"fact-neg", "fact(-1)", "fact"},
		{"fact-frac", "fact(2.5)", "fact"},
		{"fact-big", "fact(21)", "fact"},
		{"asin", "asin(2)", "asin"},
		{"acos", "acos(-1.5)", "acos"},
		{"pow-neg", "(-1)^0.5", "^"},
	}
	ctx := rpncalc.NewContext()
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := rpncalc.Parse(c.src)
			if err != nil {
				t.Fatalf("%q failed to parse: %v", c.src, err)
			}
			r, err := a.Eval(ctx)
			if err == nil {
				t.Fatalf("evaluating %q gave %g and no error", c.src, r)
			}
			var eerr *rpncalc.EvaluationError
			if !errors.As(err, &eerr) || eerr.Kind != rpncalc.Domain {
				t.Fatalf("%#v is not a domain EvaluationError", err)
			}
			var derr *rpncalc.DomainError
			if !errors.As(err, &derr) {
				t.Fatalf("%#v does not wrap *DomainError", err)
			}
			if derr.Func != c.fn {
				t.Errorf("domain error from %q, want %q", derr.Func, c.fn)
			}
		})
	}
}

func TestEvaluateMalformed(t *testing.T) {
	num := func(s string) rpncalc.Token { return rpncalc.Token{Kind: rpncalc.Number, Text: s} }
	op := func(s string) rpncalc.Token { return rpncalc.Token{Kind: rpncalc.Operator, Text: s} }
	cases := []struct {
		name string
		rpn  []rpncalc.Token
		kind rpncalc.EvalKind
	}{
		{"empty", nil, rpncalc.Malformed},
		{"leftover", []rpncalc.Token{num("1"), num("2")}, rpncalc.Malformed},
		{"underflow", []rpncalc.Token{num("1"), op("+")}, rpncalc.StackUnderflow},
		{"underflow-fn", []rpncalc.Token{num("1"), {Kind: rpncalc.Function, Text: "max"}}, rpncalc.StackUnderflow},
		{"bad-number", []rpncalc.Token{num("1e5")}, rpncalc.BadNumber},
		{"bad-number-dot", []rpncalc.Token{num(".5")}, rpncalc.BadNumber},
		{"unknown-op", []rpncalc.Token{num("1"), num("2"), op("%")}, rpncalc.UnknownName},
		{"unknown-fn", []rpncalc.Token{num("1"), {Kind: rpncalc.Function, Text: "nope"}}, rpncalc.UnknownName},
		{"unknown-const", []rpncalc.Token{{Kind: rpncalc.Constant, Text: "tau"}}, rpncalc.UnknownName},
		{"paren", []rpncalc.Token{{Kind: rpncalc.LeftParen, Text: "("}}, rpncalc.BadToken},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := rpncalc.Evaluate(nil, c.rpn, nil)
			var eerr *rpncalc.EvaluationError
			if !errors.As(err, &eerr) {
				t.Fatalf("error was %#v, not EvaluationError", err)
			}
			if eerr.Kind != c.kind {
				t.Errorf("wrong kind: want %v, got %v (%v)", c.kind, eerr.Kind, err)
			}
		})
	}
}

func TestEvaluateOperandOrder(t *testing.T) {
	rpn := []rpncalc.Token{
		{Kind: rpncalc.Number, Text: "8"},
		{Kind: rpncalc.Variable, Text: "x"},
		{Kind: rpncalc.Operator, Text: "-"},
		{Kind: rpncalc.Number, Text: "2"},
		{Kind: rpncalc.Operator, Text: "÷"},
	}
	vars := map[string]float64{"x": 2}
	r, err := rpncalc.Evaluate(nil, rpn, vars)
	if err != nil {
		t.Fatal(err)
	}
	if r != 3 {
		t.Errorf("(8-x)/2 with x=2 gave %g", r)
	}
	if len(vars) != 1 || vars["x"] != 2 {
		t.Errorf("vars modified: %v", vars)
	}
}

func TestDeterministic(t *testing.T) {
	a, err := rpncalc.Parse("sin(x)^2 + cos(x)^2 + ln(x)")
	if err != nil {
		t.Fatal(err)
	}
	ctx := rpncalc.NewContext(rpncalc.SetVar("x", 0.7))
	first, err := a.Eval(ctx)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		r, err := a.Eval(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if r != first {
			t.Fatalf("evaluation %d gave %g, first gave %g", i, r, first)
		}
	}
}

func TestConcurrentEval(t *testing.T) {
	a, err := rpncalc.Parse("x^2 + 2*x + 1")
	if err != nil {
		t.Fatal(err)
	}
	base := rpncalc.NewContext()
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(x float64) {
			defer wg.Done()
			ctx := base.Clone(rpncalc.SetVar("x", x))
			for j := 0; j < 100; j++ {
				r, err := a.Eval(ctx)
				if err != nil {
					errs <- err
					return
				}
				if want := (x + 1) * (x + 1); r != want {
					errs <- fmt.Errorf("x=%g: want %g, got %g", x, want, r)
					return
				}
			}
		}(float64(i))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestContextVars(t *testing.T) {
	ctx := rpncalc.NewContext(rpncalc.SetVar("x", 0))
	if x, ok := ctx.Lookup("x"); !ok || x != 0 {
		t.Errorf("x should be 0 but is %g (%t)", x, ok)
	}
	if y, ok := ctx.Lookup("y"); ok {
		t.Errorf("context has y: %g", y)
	}
	ctx.Set("y", 1)
	if y, ok := ctx.Lookup("y"); !ok || y != 1 {
		t.Errorf("y should be 1 but is %g (%t)", y, ok)
	}
	ctx.Set("x", 1).Unset("y")
	if x, _ := ctx.Lookup("x"); x != 1 {
		t.Errorf("x should be 1 but is %g", x)
	}
	if _, ok := ctx.Lookup("y"); ok {
		t.Error("y still set after Unset")
	}
	if _, ok := ctx.Lookup("X"); ok {
		t.Error("variable names should be case-sensitive")
	}

	v := ctx.Vars()
	v["z"] = 3
	if _, ok := ctx.Lookup("z"); ok {
		t.Error("Vars returned the context's own map")
	}
}

func TestClone(t *testing.T) {
	ctx := rpncalc.NewContext(rpncalc.SetVars(map[string]float64{"x": 1, "y": 2}))
	cl := ctx.Clone(rpncalc.SetVar("x", 10))
	cl.Set("z", 3)
	if x, _ := ctx.Lookup("x"); x != 1 {
		t.Errorf("clone option changed original: x=%g", x)
	}
	if _, ok := ctx.Lookup("z"); ok {
		t.Error("Set on clone changed original")
	}
	want := map[string]float64{"x": 10, "y": 2, "z": 3}
	if got := cl.Vars(); !reflect.DeepEqual(got, want) {
		t.Errorf("wrong clone vars: want %v, got %v", want, got)
	}
}

func TestVars(t *testing.T) {
	cases := []struct {
		name string
		src  string
		opts []rpncalc.ParseOption
		vars []string
	}{
		{"none", "1+2+3", nil, nil},
		{"one", "1+2+x", nil, []string{"x"}},
		{"sort", "z+y+x+w+v+u+t+s+r+q+p+o+n+m+l+k+j+i+h+g+f+d+c+b+a", nil, strings.Fields("a b c d f g h i j k l m n o p q r s t u v w x y z")},
		{"reuse", "a+b+c+b+a", nil, []string{"a", "b", "c"}},
		{"not-const", "pi*r^2", nil, []string{"r"}},
		{"funcs-off", "sin+cos", []rpncalc.ParseOption{rpncalc.DisableDefaultFuncs()}, []string{"cos", "sin"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := rpncalc.Parse(c.src, c.opts...)
			if err != nil {
				t.Fatalf("%q didn't parse: %v", c.src, err)
			}
			vars := a.Vars()
			if !reflect.DeepEqual(vars, c.vars) {
				t.Errorf("%q gave wrong variable names:\n\twant %q\n\tgot  %q", c.src, c.vars, vars)
			}
		})
	}
}

func TestDegrees(t *testing.T) {
	cases := []struct {
		src string
		r   float64
	}{
		{"sin(90)", 1},
		{"cos(180)", -1},
		{"tan(45)", 1},
		{"cot(45)", 1},
		{"asin(1)", 90},
		{"acos(0)", 90},
		{"atan(1)", 45},
	}
	opt := rpncalc.ParsingPreset(rpncalc.ParseDefs(rpncalc.WithAngleUnit(rpncalc.Degrees)))
	for _, c := range cases {
		a, err := rpncalc.Parse(c.src, opt)
		if err != nil {
			t.Fatalf("%q failed to parse: %v", c.src, err)
		}
		r, err := a.Eval(rpncalc.NewContext())
		if err != nil {
			t.Errorf("%q: %v", c.src, err)
			continue
		}
		if math.Abs(r-c.r) > 1e-12 {
			t.Errorf("%q in degrees: want %g, got %g", c.src, c.r, r)
		}
	}
	if _, err := rpncalc.EvalString("cot(180)"); err != nil {
		t.Errorf("radian cot(180): %v", err)
	}
	a, _ := rpncalc.Parse("cot(180)", opt)
	if _, err := a.Eval(rpncalc.NewContext()); err == nil {
		t.Error("cot(180) in degrees gave no error")
	}
}

func TestEvalString(t *testing.T) {
	r, err := rpncalc.EvalString("x * 2", rpncalc.SetVar("x", 21))
	if err != nil {
		t.Fatal(err)
	}
	if r != 42 {
		t.Errorf("want 42, got %g", r)
	}
	if _, err := rpncalc.EvalString("2 $ 3"); err == nil {
		t.Error("no error for unknown symbol")
	} else if !strings.Contains(err.Error(), `"$"`) {
		t.Errorf("%q doesn't list the unknown symbol", err)
	}
}

func TestInputError(t *testing.T) {
	for _, src := range []string{"2 $ 3", "(1", "max(1)", "y", "1/0"} {
		_, err := rpncalc.EvalString(src)
		var ierr rpncalc.InputError
		if !errors.As(err, &ierr) {
			t.Errorf("%q: %#v is not an InputError", src, err)
		}
	}
}

func TestEvalLogs(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := rpncalc.NewContext(rpncalc.Logger(l))
	a, err := rpncalc.Parse("2+3")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.Eval(ctx); err != nil {
		t.Fatal(err)
	}
	b, _ := rpncalc.Parse("1/0")
	b.Eval(ctx)
	out := buf.String()
	for _, want := range []string{"expression evaluated", `rpn="2 3 +"`, "result=5", "evaluation failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func BenchmarkEval(b *testing.B) {
	vars := map[string]float64{
		"x": 2,
		"y": 3,
		"z": 4,
	}
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		ctx := rpncalc.NewContext()
		a, err := rpncalc.Parse("2+3+4")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			a.Eval(ctx)
		}
	})
	b.Run("vars", func(b *testing.B) {
		b.ReportAllocs()
		ctx := rpncalc.NewContext(rpncalc.SetVars(vars))
		a, err := rpncalc.Parse("x+y+z")
		if err != nil {
			b.Fatal(err)
		}
		for i := 0; i < b.N; i++ {
			a.Eval(ctx)
		}
	})
}

func Example() {
	a, _ := rpncalc.Parse("x^3/2 - x")
	b, _ := rpncalc.Parse("3*x^2/2 - 1")
	c, _ := rpncalc.Parse("3*x")
	ctx := rpncalc.NewContext()
	for i := 0; i < 4; i++ {
		x := float64(i)
		ctx.Set("x", x)
		y, _ := a.Eval(ctx)
		yp, _ := b.Eval(ctx)
		ypp, _ := c.Eval(ctx)
		fmt.Printf("x = %g   y = %-4g  y' = %-4g  y'' = %g\n", x, y, yp, ypp)
	}

	// Output:
	// x = 0   y = 0     y' = -1    y'' = 0
	// x = 1   y = -0.5  y' = 0.5   y'' = 3
	// x = 2   y = 2     y' = 5     y'' = 6
	// x = 3   y = 10.5  y' = 12.5  y'' = 9
}

func ExampleExpr_Postfix() {
	a, _ := rpncalc.Parse("2 + 3 * -4")
	fmt.Println(a.Postfix())
	fmt.Println(a)

	// Output:
	// 2 3 4 ~ * +
	// ([2] + [(3) * (-[4])])
}
