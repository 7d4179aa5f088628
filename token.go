package rpncalc

import "strconv"

// Token is a lexical unit of an expression. Tokens are values; the tokenizer
// creates them and nothing modifies them afterward.
type Token struct {
	// Kind is the lexical class of the token.
	Kind TokenKind
	// Text is the lexeme as it appears in the source.
	Text string
	// Start and End are the rune offsets of the token in the source, with
	// Start inclusive and End exclusive.
	Start, End int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Start) + ":" + strconv.Itoa(t.End)
}

// span formats the token position for error messages.
func (t Token) span() string {
	return strconv.Itoa(t.Start) + ":" + strconv.Itoa(t.End)
}

// TokenKind is the lexical class of a token.
type TokenKind int8

const (
	// Unknown is a character the tokenizer does not recognize. Expressions
	// containing Unknown tokens never parse.
	Unknown TokenKind = iota
	// Number is an integer or decimal literal.
	Number
	// Constant is a name registered as a constant, e.g. pi.
	Constant
	// Variable is an identifier that is neither a function nor a constant.
	Variable
	// Operator is an arithmetic operator symbol.
	Operator
	// Function is a name registered as a function.
	Function
	// LeftParen is (.
	LeftParen
	// RightParen is ).
	RightParen
	// Delimiter separates function arguments.
	Delimiter
)

var kindnames = [...]string{
	Unknown:    "Unknown",
	Number:     "Number",
	Constant:   "Constant",
	Variable:   "Variable",
	Operator:   "Operator",
	Function:   "Function",
	LeftParen:  "LeftParen",
	RightParen: "RightParen",
	Delimiter:  "Delimiter",
}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(kindnames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindnames[k]
}
