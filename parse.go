package rpncalc

import "unicode"

// Expr = Term { binop Term }
// Term = number | constant | variable | Call | '-' Term | '+' Term | '(' Expr ')'
// Call = function '(' [ Expr { ',' Expr } ] ')'
// binop = '+' | '-' | '*' | '×' | '/' | '÷' | '^'

// Parser converts infix token sequences to postfix order by precedence
// climbing. A Parser holds a cursor and is not safe for concurrent use, but
// it may be reused for many parses.
type Parser struct {
	defs *Definitions
	toks []Token
	pos  int
	rpn  []Token
}

// NewParser creates a parser using the operator precedences and function
// arities in defs. If defs is nil, the default registry is used.
func NewParser(defs *Definitions) *Parser {
	if defs == nil {
		defs = defaults
	}
	return &Parser{defs: defs}
}

// Parse converts tokens to RPN. Operators and function calls follow their
// operands in the result. Tokens of kind Unknown whose text is only whitespace
// are ignored. Any syntax problem results in a *SyntaxError and no tokens.
func (p *Parser) Parse(toks []Token) ([]Token, error) {
	p.toks = filterBlank(toks)
	p.pos = 0
	p.rpn = make([]Token, 0, len(p.toks))
	defer func() {
		p.toks = nil
		p.rpn = nil
	}()
	if err := p.parseExpression(0); err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, &SyntaxError{Kind: UnexpectedToken, Tok: p.toks[p.pos]}
	}
	return p.rpn, nil
}

// filterBlank removes whitespace tokens, which the tokenizer never produces
// but hand-built token lists might contain.
func filterBlank(toks []Token) []Token {
	r := make([]Token, 0, len(toks))
	for _, tok := range toks {
		if tok.Kind == Unknown && isBlank(tok.Text) {
			continue
		}
		r = append(r, tok)
	}
	return r
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}

// parseExpression parses a prefix term followed by any binary operators
// binding at least as tightly as min.
func (p *Parser) parseExpression(min int) error {
	if err := p.parsePrefix(); err != nil {
		return err
	}
	for p.pos < len(p.toks) {
		tok := p.toks[p.pos]
		op, prec, ok := p.binop(tok)
		if !ok || prec < min {
			break
		}
		p.pos++
		// x^y^z groups to the right, everything else to the left.
		next := prec + 1
		if op.Right {
			next = prec
		}
		if err := p.parseExpression(next); err != nil {
			return err
		}
		p.rpn = append(p.rpn, tok)
	}
	return nil
}

// binop gets the binary operator for a token, if it is one.
func (p *Parser) binop(tok Token) (OperatorDef, int, bool) {
	if tok.Kind != Operator {
		return OperatorDef{}, 0, false
	}
	op, ok := p.defs.Operator(tok.Text)
	if !ok || op.Arity != 2 {
		return OperatorDef{}, 0, false
	}
	prec, ok := p.defs.Precedence(tok.Text)
	return op, prec, ok
}

// parsePrefix parses exactly one leading term.
func (p *Parser) parsePrefix() error {
	if p.pos >= len(p.toks) {
		return &SyntaxError{Kind: UnexpectedEnd, Tok: p.end()}
	}
	tok := p.toks[p.pos]
	p.pos++
	switch tok.Kind {
	case Number, Constant, Variable:
		p.rpn = append(p.rpn, tok)
	case Function:
		return p.parseCall(tok)
	case LeftParen:
		if err := p.parseExpression(0); err != nil {
			return err
		}
		if !p.accept(RightParen) {
			return &SyntaxError{Kind: MissingParen, Tok: p.peek(), Want: ")"}
		}
	case Operator:
		unary, _ := p.defs.Precedence(UnaryMinus)
		switch tok.Text {
		case "-":
			if err := p.parseExpression(unary); err != nil {
				return err
			}
			p.rpn = append(p.rpn, Token{Kind: Operator, Text: UnaryMinus, Start: tok.Start, End: tok.End})
		case "+":
			// Unary plus is the identity, so it emits nothing.
			return p.parseExpression(unary)
		default:
			return &SyntaxError{Kind: UnexpectedToken, Tok: tok}
		}
	default:
		return &SyntaxError{Kind: UnexpectedToken, Tok: tok}
	}
	return nil
}

// parseCall parses the parenthesized argument list of a function and checks
// the argument count against the function's arity.
func (p *Parser) parseCall(fn Token) error {
	f, ok := p.defs.Func(fn.Text)
	if !ok {
		return &SyntaxError{Kind: UnknownFunc, Tok: fn, Func: fn.Text}
	}
	if !p.accept(LeftParen) {
		return &SyntaxError{Kind: MissingParen, Tok: p.peek(), Func: fn.Text, Want: "("}
	}
	n := 0
	for p.pos < len(p.toks) && p.toks[p.pos].Kind != RightParen {
		if n > 0 && !p.accept(Delimiter) {
			return &SyntaxError{Kind: MissingDelimiter, Tok: p.toks[p.pos], Func: fn.Text}
		}
		if err := p.parseExpression(0); err != nil {
			return err
		}
		n++
	}
	if !p.accept(RightParen) {
		return &SyntaxError{Kind: MissingParen, Tok: p.end(), Func: fn.Text, Want: ")"}
	}
	if n != f.Arity() {
		return &SyntaxError{Kind: ArgCount, Tok: fn, Func: fn.Text, Arity: f.Arity(), Got: n}
	}
	p.rpn = append(p.rpn, fn)
	return nil
}

// accept consumes the next token if it has the given kind.
func (p *Parser) accept(kind TokenKind) bool {
	if p.pos < len(p.toks) && p.toks[p.pos].Kind == kind {
		p.pos++
		return true
	}
	return false
}

// peek returns the next token, or the end token if there is none.
func (p *Parser) peek() Token {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return p.end()
}

// end returns an empty token positioned after the last token.
func (p *Parser) end() Token {
	if len(p.toks) == 0 {
		return Token{}
	}
	e := p.toks[len(p.toks)-1].End
	return Token{Start: e, End: e}
}
