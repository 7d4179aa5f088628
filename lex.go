package rpncalc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Operators contains the runes which are considered to be operators.
const Operators = "+-*/^×÷"

// Tokenizer splits expression text into tokens. It classifies identifiers
// using a registry. A Tokenizer is immutable and safe for concurrent use.
type Tokenizer struct {
	defs *Definitions
	// glyphs maps folded single-rune names that are not identifiers, like π
	// and √, to their token kinds.
	glyphs map[string]TokenKind
}

// NewTokenizer creates a tokenizer that recognizes the functions and
// constants in defs. If defs is nil, the default registry is used.
func NewTokenizer(defs *Definitions) *Tokenizer {
	if defs == nil {
		defs = defaults
	}
	t := Tokenizer{defs: defs, glyphs: make(map[string]TokenKind)}
	for name := range defs.consts {
		if isGlyph(name) {
			t.glyphs[name] = Constant
		}
	}
	for name := range defs.funcs {
		if isGlyph(name) {
			t.glyphs[name] = Function
		}
	}
	return &t
}

// isGlyph reports whether a registered name is a single rune that the
// identifier and punctuation rules would not otherwise recognize.
func isGlyph(name string) bool {
	r, sz := utf8.DecodeRuneInString(name)
	if sz == 0 || sz != len(name) {
		return false
	}
	return !isIdentRune(r) && !unicode.IsSpace(r) && !strings.ContainsRune(Operators+"(),", r)
}

var defaultTokenizer = NewTokenizer(defaults)

// Tokenize splits text into tokens using the default registry.
func Tokenize(text string) ([]Token, error) {
	return defaultTokenizer.Tokenize(text)
}

// Tokenize splits text into tokens. Whitespace separates tokens and is
// dropped. If any character is not recognized, the result is a *SyntaxError
// of kind UnknownSymbol listing every such character, and no tokens.
func (t *Tokenizer) Tokenize(text string) ([]Token, error) {
	l := lexer{src: []rune(text), glyphs: t.glyphs, defs: t.defs}
	var toks []Token
	var bad []Token
	for {
		tok, ok := l.next()
		if !ok {
			break
		}
		if tok.Kind == Unknown {
			bad = append(bad, tok)
		}
		toks = append(toks, tok)
	}
	if len(bad) != 0 {
		syms := make([]string, len(bad))
		for i, tok := range bad {
			syms[i] = tok.Text
		}
		return nil, &SyntaxError{Kind: UnknownSymbol, Tok: bad[0], Symbols: syms}
	}
	return toks, nil
}

type lexer struct {
	src    []rune
	pos    int
	glyphs map[string]TokenKind
	defs   *Definitions
}

// peek returns the rune k places ahead of the cursor, or -1 past the end.
func (l *lexer) peek(k int) rune {
	if l.pos+k >= len(l.src) {
		return -1
	}
	return l.src[l.pos+k]
}

// next scans the next token from the input. The second result is false at
// the end of the input.
func (l *lexer) next() (Token, bool) {
	for l.pos < len(l.src) && unicode.IsSpace(l.src[l.pos]) {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return Token{}, false
	}
	tok := Token{Start: l.pos}
	r := l.src[l.pos]
	switch {
	case r == '(':
		l.pos++
		tok.Kind = LeftParen
	case r == ')':
		l.pos++
		tok.Kind = RightParen
	case r == ',':
		l.pos++
		tok.Kind = Delimiter
	case strings.ContainsRune(Operators, r):
		l.pos++
		tok.Kind = Operator
	case isIdentStart(r):
		l.scanIdent()
		tok.Kind = l.classify(string(l.src[tok.Start:l.pos]))
	case isDigit(r):
		l.scanNum()
		tok.Kind = Number
	default:
		l.pos++
		tok.Kind = l.glyphs[fold(string(r))]
	}
	tok.Text = string(l.src[tok.Start:l.pos])
	tok.End = l.pos
	return tok, true
}

// scanNum scans digits with an optional fraction. A dot not followed by a
// digit is not part of the number.
func (l *lexer) scanNum() {
	for isDigit(l.peek(0)) {
		l.pos++
	}
	if l.peek(0) == '.' && isDigit(l.peek(1)) {
		l.pos++
		for isDigit(l.peek(0)) {
			l.pos++
		}
	}
}

func (l *lexer) scanIdent() {
	l.pos++
	for isIdentRune(l.peek(0)) {
		l.pos++
	}
}

// classify decides whether an identifier names a function, a constant, or a
// variable. Functions take priority.
func (l *lexer) classify(name string) TokenKind {
	if _, ok := l.defs.Func(name); ok {
		return Function
	}
	if _, ok := l.defs.Constant(name); ok {
		return Constant
	}
	return Variable
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

func isIdentRune(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}
