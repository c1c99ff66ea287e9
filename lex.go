package mathexpr

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zephyrtronium/mathexpr/units"
)

// Token is a lexical unit of an expression.
type Token struct {
	Kind TokenKind
	Text string
	// Pos is the byte offset of the token in the source.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the kind of a token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenEOF indicates the end of the input.
	TokenEOF
	// TokenNum is a decimal, hexadecimal, octal, or binary number.
	TokenNum
	// TokenIdent is a variable or function name.
	TokenIdent
	// TokenKeyword is a reserved word, e.g. if or and.
	TokenKeyword
	// TokenUnit is a unit symbol following a number or the to keyword.
	TokenUnit
	// TokenComplex is the imaginary unit i or a polar literal like 2∠45°.
	TokenComplex
	// TokenString is a quoted string. Text excludes the quotes.
	TokenString
	// TokenOp is a binary or assignment operator.
	TokenOp
	// TokenUnary is a prefix + or -.
	TokenUnary
	// TokenPostfix is a factorial, increment, or decrement.
	TokenPostfix
	// TokenSymbol is a bracket, comma, or semicolon.
	TokenSymbol
)

func (k TokenKind) String() string {
	switch k {
	case TokenNone:
		return "None"
	case TokenEOF:
		return "EOF"
	case TokenNum:
		return "Num"
	case TokenIdent:
		return "Ident"
	case TokenKeyword:
		return "Keyword"
	case TokenUnit:
		return "Unit"
	case TokenComplex:
		return "Complex"
	case TokenString:
		return "String"
	case TokenOp:
		return "Op"
	case TokenUnary:
		return "Unary"
	case TokenPostfix:
		return "Postfix"
	case TokenSymbol:
		return "Symbol"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// operators contains the operator spellings, longest first so that the first
// match is the longest.
var operators = []string{
	"<->",
	":=", "+=", "-=", "*=", "/=", "->", "=>", "==", "!=", "<=", ">=",
	"&&", "||", "//", "++", "--",
	"<", ">", "+", "-", "*", "/", "^", "%", "?", ":", "!", "·", "×", "÷",
}

// keywords contains the reserved words. Keywords are case-sensitive.
var keywords = map[string]bool{
	"if": true, "then": true, "else": true,
	"for": true, "while": true,
	"def": true, "undef": true,
	"true": true, "false": true,
	"and": true, "or": true, "xor": true, "not": true,
	"nand": true, "nor": true, "impl": true, "eq": true,
	"mod": true, "to": true,
}

const symbols = "(){},;"

// tokenFactory attempts to scan a token at the lexer's offset. It returns the
// number of bytes consumed, or 0 if it does not match. A factory may consume
// input without producing a token by returning a token of kind TokenNone.
type tokenFactory func(l *lexer) (Token, int, error)

// factories is the ordered list of token factories. The first to match wins.
var factories = []tokenFactory{
	scanSpace,
	scanPolar,
	scanNumber,
	scanString,
	scanDegree,
	scanIdent,
	scanSymbol,
	scanOperator,
}

type lexer struct {
	src  string
	off  int
	toks []Token
	// parens records for each open parenthesis whether it opened the header
	// of a loop or definition, after which no multiplication is implied.
	parens []bool
	// header is set when the last token was a close parenthesis ending such a
	// header.
	header bool
}

// Tokenize scans the source into tokens. The final token always has kind
// TokenEOF.
func Tokenize(src string) ([]Token, error) {
	l := lexer{src: src}
	for l.off < len(l.src) {
		if err := l.scan(); err != nil {
			return nil, err
		}
	}
	l.toks = append(l.toks, Token{Kind: TokenEOF, Pos: len(src)})
	return l.toks, nil
}

// scan applies the token factories at the current offset.
func (l *lexer) scan() error {
	for _, f := range factories {
		tok, n, err := f(l)
		if err != nil {
			return err
		}
		if n == 0 {
			continue
		}
		l.off += n
		if tok.Kind != TokenNone {
			l.emit(tok)
		}
		return nil
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	return l.error("", string(r), l.off)
}

// prev returns the last emitted token, or a token of kind TokenNone at the
// start of the input.
func (l *lexer) prev() Token {
	if len(l.toks) == 0 {
		return Token{}
	}
	return l.toks[len(l.toks)-1]
}

// emit appends a token, first synthesizing a multiplication operator when the
// token is juxtaposed with a preceding value: 2x, 3(4+1), (a)(b), 2i.
func (l *lexer) emit(tok Token) {
	if l.implied(tok) {
		l.toks = append(l.toks, Token{Kind: TokenOp, Text: "*", Pos: tok.Pos})
	}
	header := false
	if tok.Kind == TokenSymbol {
		switch tok.Text {
		case "(":
			p := l.prev()
			l.parens = append(l.parens, p.Kind == TokenKeyword && (p.Text == "for" || p.Text == "while"))
		case ")":
			if k := len(l.parens); k > 0 {
				header = l.parens[k-1]
				l.parens = l.parens[:k-1]
			}
		}
	}
	l.header = header
	l.toks = append(l.toks, tok)
}

// implied reports whether a multiplication is implied before tok.
func (l *lexer) implied(tok Token) bool {
	p := l.prev()
	var value bool
	switch p.Kind {
	case TokenNum, TokenComplex:
		value = true
	case TokenSymbol:
		value = p.Text == ")" && !l.header
	}
	if !value {
		return false
	}
	switch tok.Kind {
	case TokenIdent, TokenComplex:
		return true
	case TokenNum:
		return p.Kind == TokenSymbol
	case TokenSymbol:
		return tok.Text == "("
	}
	return false
}

// valueBefore reports whether the previous token ends a value, so that an
// operator following it is binary or postfix.
func (l *lexer) valueBefore() bool {
	p := l.prev()
	switch p.Kind {
	case TokenNum, TokenIdent, TokenUnit, TokenComplex, TokenString, TokenPostfix:
		return true
	case TokenKeyword:
		return p.Text == "true" || p.Text == "false"
	case TokenSymbol:
		return p.Text == ")" || p.Text == "}"
	}
	return false
}

func scanSpace(l *lexer) (Token, int, error) {
	n := 0
	for _, r := range l.src[l.off:] {
		if !unicode.IsSpace(r) {
			break
		}
		n += utf8.RuneLen(r)
	}
	return Token{}, n, nil
}

// scanPolar scans a polar complex literal: magnitude∠phase°, where the phase
// may be signed.
func scanPolar(l *lexer) (Token, int, error) {
	s := l.src[l.off:]
	m, err := numLen(s)
	if m == 0 || err != nil {
		// Let scanNumber report the error.
		return Token{}, 0, nil
	}
	rest := s[m:]
	if !strings.HasPrefix(rest, "∠") {
		return Token{}, 0, nil
	}
	n := m + len("∠")
	if strings.HasPrefix(s[n:], "-") || strings.HasPrefix(s[n:], "+") {
		n++
	}
	p, err := numLen(s[n:])
	if p == 0 || err != nil {
		return Token{}, 0, l.error("complex", s[:n+p], l.off)
	}
	n += p
	if !strings.HasPrefix(s[n:], "°") {
		return Token{}, 0, l.error("complex", s[:n], l.off)
	}
	n += len("°")
	return Token{Kind: TokenComplex, Text: s[:n], Pos: l.off}, n, nil
}

func scanNumber(l *lexer) (Token, int, error) {
	s := l.src[l.off:]
	n, err := numLen(s)
	if err != nil {
		return Token{}, 0, l.error("number", s[:n], l.off)
	}
	if n == 0 {
		return Token{}, 0, nil
	}
	return Token{Kind: TokenNum, Text: s[:n], Pos: l.off}, n, nil
}

// numLen returns the length of the numeric literal at the start of s. If s
// does not start with a digit or a dot followed by a digit, the result is 0.
// On error, the length covers the invalid text.
func numLen(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if len(s) >= 2 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			return prefixed(s, isHex)
		case 'b', 'B':
			return prefixed(s, isBin)
		}
	}
	var dig, dot bool
	n := 0
	for n < len(s) {
		c := s[n]
		switch {
		case '0' <= c && c <= '9':
			dig = true
		case c == '.' && !dot:
			dot = true
		case (c == 'e' || c == 'E') && dig:
			// An exponent marker must be followed by digits, possibly signed.
			// Otherwise, e is an identifier, as in 2e for 2·e.
			k := n + 1
			if k < len(s) && (s[k] == '+' || s[k] == '-') {
				k++
			}
			if k >= len(s) || s[k] < '0' || s[k] > '9' {
				return n, octal(s[:n])
			}
			for k < len(s) && '0' <= s[k] && s[k] <= '9' {
				k++
			}
			return k, nil
		default:
			if !dig {
				return 0, nil
			}
			return n, octal(s[:n])
		}
		n++
	}
	if !dig {
		return 0, nil
	}
	return n, octal(s)
}

// octal validates a literal with a leading zero as octal when it has no
// fraction.
func octal(s string) error {
	if len(s) < 2 || s[0] != '0' || strings.ContainsRune(s, '.') {
		return nil
	}
	for _, c := range s[1:] {
		if c > '7' {
			return errNumber
		}
	}
	return nil
}

var errNumber = &LexError{Kind: "number"}

func prefixed(s string, ok func(byte) bool) (int, error) {
	n := 2
	for n < len(s) && ok(s[n]) {
		n++
	}
	if n == 2 {
		return n, errNumber
	}
	return n, nil
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func isBin(c byte) bool {
	return c == '0' || c == '1'
}

func scanString(l *lexer) (Token, int, error) {
	s := l.src[l.off:]
	if s[0] != '\'' && s[0] != '"' {
		return Token{}, 0, nil
	}
	k := strings.IndexByte(s[1:], s[0])
	if k < 0 {
		return Token{}, 0, l.error("string", s, l.off)
	}
	return Token{Kind: TokenString, Text: s[1 : k+1], Pos: l.off}, k + 2, nil
}

// scanDegree scans the degree sign, which is an angle unit on its own and a
// temperature unit as °C or °F. It is only valid after a number.
func scanDegree(l *lexer) (Token, int, error) {
	s := l.src[l.off:]
	if !strings.HasPrefix(s, "°") {
		return Token{}, 0, nil
	}
	n := len("°")
	if len(s) > n && (s[n] == 'C' || s[n] == 'F') {
		n++
	}
	if l.prev().Kind != TokenNum && !l.afterTo() {
		return Token{}, 0, l.error("unit", s[:n], l.off)
	}
	return Token{Kind: TokenUnit, Text: s[:n], Pos: l.off}, n, nil
}

// spacedNum reports whether the previous token is a number separated from the
// current offset by space. A unit symbol must be written apart from its
// value, so that 2m is 2·m but 2 m is two meters.
func (l *lexer) spacedNum() bool {
	p := l.prev()
	return p.Kind == TokenNum && p.Pos+len(p.Text) < l.off
}

// afterTo reports whether the previous token is the conversion keyword.
func (l *lexer) afterTo() bool {
	p := l.prev()
	return p.Kind == TokenKeyword && p.Text == "to"
}

func scanIdent(l *lexer) (Token, int, error) {
	s := l.src[l.off:]
	r, sz := utf8.DecodeRuneInString(s)
	if r != '_' && !unicode.IsLetter(r) {
		return Token{}, 0, nil
	}
	n := sz
	for n < len(s) {
		r, sz := utf8.DecodeRuneInString(s[n:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		n += sz
	}
	text := s[:n]
	tok := Token{Kind: TokenIdent, Text: text, Pos: l.off}
	switch {
	case keywords[text]:
		tok.Kind = TokenKeyword
	case l.spacedNum() || l.afterTo():
		// Area and volume symbols end in a superscript.
		if r, sz := utf8.DecodeRuneInString(s[n:]); r == '²' || r == '³' {
			if units.IsUnit(text + string(r)) {
				n += sz
				text = s[:n]
				tok.Text = text
			}
		}
		if units.IsUnit(text) {
			tok.Kind = TokenUnit
		}
	}
	if tok.Kind == TokenIdent && text == "i" {
		tok.Kind = TokenComplex
	}
	return tok, n, nil
}

func scanSymbol(l *lexer) (Token, int, error) {
	c := l.src[l.off]
	if strings.IndexByte(symbols, c) < 0 {
		return Token{}, 0, nil
	}
	return Token{Kind: TokenSymbol, Text: l.src[l.off : l.off+1], Pos: l.off}, 1, nil
}

func scanOperator(l *lexer) (Token, int, error) {
	s := l.src[l.off:]
	for _, op := range operators {
		if !strings.HasPrefix(s, op) {
			continue
		}
		tok := Token{Kind: TokenOp, Text: op, Pos: l.off}
		switch op {
		case "++", "--":
			// Increment and decrement apply only to variables. Elsewhere the
			// operator is two separate signs, as in 3--5.
			if l.prev().Kind != TokenIdent {
				continue
			}
			tok.Kind = TokenPostfix
		case "!":
			if !l.valueBefore() {
				return Token{}, 0, l.error("operator", op, l.off)
			}
			tok.Kind = TokenPostfix
		case "+", "-":
			if !l.valueBefore() {
				tok.Kind = TokenUnary
			}
		}
		return tok, len(op), nil
	}
	return Token{}, 0, nil
}

func (l *lexer) error(kind, text string, pos int) error {
	return &LexError{
		Text:   text,
		Kind:   kind,
		Offset: pos,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the text the lexer could not turn into a token.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "string", "complex", "unit", "operator", or the empty string (if a token
	// kind hadn't been decided).
	Kind string
	// Offset is the byte offset of the invalid token in the source.
	Offset int
}

func (err *LexError) Error() string {
	pos := "offset " + strconv.Itoa(err.Offset)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + strconv.Quote(err.Text)
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + strconv.Quote(err.Text)
}

func (err *LexError) Pos() int {
	return err.Offset
}
