package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/google/shlex"
	"github.com/peterh/liner"
)

const (
	prompt = "> "
	ansVar = "ans"
)

const helpText = `Enter an expression to evaluate it. The last result is available as ans.
Commands:
  :set NAME EXPR   bind NAME to the value of EXPR
  :unset NAME      remove the binding for NAME
  :vars            list variable bindings
  :rpn EXPR        show EXPR in postfix order
  :tree EXPR       show the parse tree of EXPR
  :history         show recent results
  :clear           forget recent results
  :help            show this message
  :quit            leave
`

// session is the interactive state of the REPL.
type session struct {
	calc *calculator
	hist *history
	out  io.Writer
}

func runREPL(calc *calculator, hist *history) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	s := &session{calc: calc, hist: hist, out: os.Stdout}
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		if s.handle(line) {
			return nil
		}
	}
}

// handle processes one line of input. It returns true when the session
// should end.
func (s *session) handle(line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case strings.HasPrefix(line, ":"):
		return s.command(line)
	}
	r, err := s.calc.evalString(line)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return false
	}
	s.calc.ctx.Set(ansVar, r)
	res := s.calc.format(r)
	s.hist.add(line + " = " + res)
	fmt.Fprintln(s.out, res)
	return false
}

func (s *session) command(line string) bool {
	fields, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return false
	}
	if len(fields) == 0 {
		return false
	}
	rest := fields[1:]
	switch strings.ToLower(fields[0]) {
	case ":quit", ":exit", ":q":
		return true
	case ":help":
		fmt.Fprint(s.out, helpText)
	case ":set":
		if len(rest) < 2 {
			fmt.Fprintln(s.out, "usage: :set NAME EXPR")
			return false
		}
		r, err := s.calc.evalString(strings.Join(rest[1:], " "))
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		s.calc.ctx.Set(rest[0], r)
		fmt.Fprintf(s.out, "%s = %s\n", rest[0], s.calc.format(r))
	case ":unset":
		if len(rest) != 1 {
			fmt.Fprintln(s.out, "usage: :unset NAME")
			return false
		}
		s.calc.ctx.Unset(rest[0])
	case ":vars":
		vars := s.calc.ctx.Vars()
		names := make([]string, 0, len(vars))
		for k := range vars {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			fmt.Fprintf(s.out, "%s = %s\n", k, s.calc.format(vars[k]))
		}
	case ":rpn", ":tree":
		if len(rest) == 0 {
			fmt.Fprintf(s.out, "usage: %s EXPR\n", fields[0])
			return false
		}
		e, err := s.calc.parse(strings.Join(rest, " "))
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		if strings.EqualFold(fields[0], ":rpn") {
			fmt.Fprintln(s.out, e.Postfix())
		} else {
			fmt.Fprintln(s.out, e)
		}
	case ":history":
		if h := s.hist.String(); h != "" {
			fmt.Fprintln(s.out, h)
		}
	case ":clear":
		s.hist.clear()
	default:
		fmt.Fprintf(s.out, "unknown command %s; :help lists commands\n", fields[0])
	}
	return false
}
