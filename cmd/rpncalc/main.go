package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/zephyrtronium/rpncalc"
	"github.com/zephyrtronium/rpncalc/internal/config"
	"github.com/zephyrtronium/rpncalc/internal/metrics"
)

func main() {
	log.SetFlags(0)
	var (
		inname, verb, cfgname string
		with                  [][2]string
		nl, echo, rpn         bool
		deg, verbose, showm   bool
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "", "result formatting string (default %g)")
	flag.StringVar(&cfgname, "config", "", "YAML or JSON configuration file")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.BoolVar(&rpn, "rpn", false, "print expressions in postfix order")
	flag.BoolVar(&deg, "deg", false, "trigonometric functions use degrees")
	flag.BoolVar(&verbose, "v", false, "log debug information to stderr")
	flag.BoolVar(&showm, "metrics", false, "print metrics to stderr on exit")
	flag.Parse()

	cfg := config.Default()
	if cfgname != "" {
		c, err := config.FromFile(cfgname)
		if err != nil {
			log.Fatal(err)
		}
		cfg = c
	}
	if verb != "" {
		cfg.Format = verb
	}
	if deg {
		cfg.Angle = "degrees"
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	defs, err := cfg.Definitions()
	if err != nil {
		log.Fatal(err)
	}
	vars, err := cfg.Bindings(defs)
	if err != nil {
		log.Fatal(err)
	}
	var rec metrics.Recorder = metrics.Noop{}
	var m *metrics.Metrics
	if showm {
		m = metrics.New()
		rec = m
	}
	calc := &calculator{
		defs: defs,
		ctx:  rpncalc.NewContext(rpncalc.SetVars(vars), rpncalc.Logger(logger)),
		rec:  rec,
		log:  logger,
		verb: cfg.Format,
	}
	for _, d := range with {
		r, err := calc.evalString(d[1])
		if err != nil {
			log.Fatalf("setting %s: %v", d[0], err)
		}
		calc.ctx.Set(d[0], r)
	}

	if flag.NArg() == 0 && inname == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		if err := runREPL(calc, newHistory(cfg.History)); err != nil {
			log.Fatal(err)
		}
	} else {
		batch(calc, inname, nl, echo, rpn)
	}

	if m != nil {
		if err := m.WriteText(os.Stderr); err != nil {
			log.Fatal(err)
		}
	}
}

// batch evaluates every expression from the input file and arguments.
func batch(calc *calculator, inname string, nl, echo, rpn bool) {
	var srcs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		b, err := io.ReadAll(f)
		if err != nil {
			log.Fatal(err)
		}
		srcs = append(srcs, split(string(b), nl)...)
	}
	for _, arg := range flag.Args() {
		srcs = append(srcs, split(arg, nl)...)
	}

	var p []*rpncalc.Expr
	for _, src := range srcs {
		a, err := calc.parse(src)
		if err != nil {
			log.Fatal(err)
		}
		p = append(p, a)
	}

	for _, a := range p {
		if echo {
			fmt.Printf("%v : ", a)
		}
		if rpn {
			fmt.Printf("%s : ", a.Postfix())
		}
		r, err := calc.eval(a)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(calc.format(r))
	}
}

// split divides input into expressions. With nl, each non-blank line is an
// expression; otherwise the whole input is one.
func split(s string, nl bool) []string {
	if !nl {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return []string{s}
	}
	var r []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			r = append(r, line)
		}
	}
	return r
}

func infile(inname string, std bool) (io.Reader, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return nil, err
		}
		f = in
	case inname == "-", std:
		f = os.Stdin
	}
	if f == nil {
		return nil, nil
	}
	return bufio.NewReader(f), nil
}
