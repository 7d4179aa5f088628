package rpncalc

import (
	"strconv"
	"strings"
)

// SyntaxKind classifies a SyntaxError.
type SyntaxKind int8

const (
	// UnknownSymbol means the tokenizer found characters it does not
	// recognize. Symbols lists all of them.
	UnknownSymbol SyntaxKind = iota + 1
	// UnexpectedToken means a token appeared where it cannot, including
	// leftover tokens after a complete expression.
	UnexpectedToken
	// UnexpectedEnd means the input ended where a term was required.
	UnexpectedEnd
	// MissingParen means a required ( or ) is absent. Want holds which.
	MissingParen
	// MissingDelimiter means two function arguments were not separated by a
	// comma.
	MissingDelimiter
	// ArgCount means a function call has the wrong number of arguments.
	ArgCount
	// UnknownFunc means a Function token names no registered function.
	UnknownFunc
)

// SyntaxError is an error from tokenizing or parsing an expression. It
// implements InputError.
type SyntaxError struct {
	// Kind is the class of the error.
	Kind SyntaxKind
	// Tok is the offending token. For UnexpectedEnd, it is an empty token
	// positioned at the end of the input.
	Tok Token
	// Symbols holds each unrecognized character for UnknownSymbol.
	Symbols []string
	// Func is the function being called, if any.
	Func string
	// Want is the missing bracket for MissingParen.
	Want string
	// Arity and Got are the declared and given argument counts for
	// ArgCount.
	Arity, Got int
}

func (err *SyntaxError) Error() string {
	switch err.Kind {
	case UnknownSymbol:
		q := make([]string, len(err.Symbols))
		for i, s := range err.Symbols {
			q[i] = strconv.Quote(s)
		}
		return errpos(err.Tok, "unrecognized characters: "+strings.Join(q, ", "))
	case UnexpectedToken:
		return errpos(err.Tok, "unexpected token "+strconv.Quote(err.Tok.Text))
	case UnexpectedEnd:
		return errpos(err.Tok, "unexpected end of expression")
	case MissingParen:
		if err.Func != "" && err.Want == "(" {
			return errpos(err.Tok, "expected ( after function "+strconv.Quote(err.Func))
		}
		if err.Func != "" {
			return errpos(err.Tok, "expected ) after arguments to function "+strconv.Quote(err.Func))
		}
		return errpos(err.Tok, "expected "+err.Want)
	case MissingDelimiter:
		return errpos(err.Tok, "expected , between arguments to function "+strconv.Quote(err.Func))
	case ArgCount:
		return errpos(err.Tok, "function "+strconv.Quote(err.Func)+" takes "+strconv.Itoa(err.Arity)+" arguments, got "+strconv.Itoa(err.Got))
	case UnknownFunc:
		return errpos(err.Tok, "unknown function "+strconv.Quote(err.Tok.Text))
	default:
		return errpos(err.Tok, "syntax error")
	}
}

func (err *SyntaxError) Pos() int {
	return err.Tok.Start
}

// EvalKind classifies an EvaluationError.
type EvalKind int8

const (
	// BadNumber means a Number token's text is not a numeral.
	BadNumber EvalKind = iota + 1
	// UnknownName means a constant, operator, or function is not
	// registered.
	UnknownName
	// Unset means a variable has no value in the context.
	Unset
	// StackUnderflow means an operator or function had too few operands.
	StackUnderflow
	// Malformed means evaluation did not end with exactly one value.
	Malformed
	// Domain means a function or operator rejected its arguments. The
	// EvaluationError wraps a *DomainError.
	Domain
	// BadToken means the RPN sequence contains a token kind that cannot be
	// evaluated, such as a parenthesis.
	BadToken
)

// EvaluationError is an error from evaluating an RPN sequence. It implements
// InputError.
type EvaluationError struct {
	// Kind is the class of the error.
	Kind EvalKind
	// Tok is the token being evaluated when the error occurred. It is the
	// zero Token for Malformed.
	Tok Token
	// Depth is the number of values left on the stack for Malformed.
	Depth int
	// Err is the underlying error for Domain.
	Err error
}

func (err *EvaluationError) Error() string {
	switch err.Kind {
	case BadNumber:
		return errpos(err.Tok, "invalid number "+strconv.Quote(err.Tok.Text))
	case UnknownName:
		return errpos(err.Tok, "unknown "+strings.ToLower(err.Tok.Kind.String())+" "+strconv.Quote(err.Tok.Text))
	case Unset:
		return errpos(err.Tok, "value of variable "+strconv.Quote(err.Tok.Text)+" is not set")
	case StackUnderflow:
		return errpos(err.Tok, "not enough operands for "+strconv.Quote(err.Tok.Text))
	case Malformed:
		return "malformed expression: " + strconv.Itoa(err.Depth) + " values left on stack"
	case Domain:
		return errpos(err.Tok, err.Err.Error())
	case BadToken:
		return errpos(err.Tok, "cannot evaluate token "+strconv.Quote(err.Tok.Text))
	default:
		return errpos(err.Tok, "evaluation error")
	}
}

func (err *EvaluationError) Unwrap() error {
	return err.Err
}

func (err *EvaluationError) Pos() int {
	return err.Tok.Start
}

// DomainError is an error returned when a function or operator is called on
// arguments outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function or operator.
	Func string
	// Reason optionally describes the domain.
	Reason string
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	if err.Reason != "" {
		r += ": " + err.Reason
	}
	return r
}

// errpos is a shortcut to create an error message with a position.
func errpos(tok Token, msg string) string {
	return tok.span() + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the rune offset of the start of the token that caused the
	// error.
	Pos() int
}

var (
	_ InputError = (*SyntaxError)(nil)
	_ InputError = (*EvaluationError)(nil)
)

var syntaxnames = [...]string{
	UnknownSymbol:    "unknown_symbol",
	UnexpectedToken:  "unexpected_token",
	UnexpectedEnd:    "unexpected_end",
	MissingParen:     "missing_paren",
	MissingDelimiter: "missing_delimiter",
	ArgCount:         "arg_count",
	UnknownFunc:      "unknown_func",
}

func (k SyntaxKind) String() string {
	if k <= 0 || int(k) >= len(syntaxnames) {
		return "syntax_error"
	}
	return syntaxnames[k]
}

var evalnames = [...]string{
	BadNumber:      "bad_number",
	UnknownName:    "unknown_name",
	Unset:          "unset",
	StackUnderflow: "stack_underflow",
	Malformed:      "malformed",
	Domain:         "domain",
	BadToken:       "bad_token",
}

func (k EvalKind) String() string {
	if k <= 0 || int(k) >= len(evalnames) {
		return "evaluation_error"
	}
	return evalnames[k]
}
