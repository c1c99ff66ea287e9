package mathexpr

import (
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/zephyrtronium/mathexpr/units"
)

// Expr = Assign | Ternary | Convert | Binary | Unary | Postfix | Primary
// Assign = name (':=' | '+=' | '-=' | '*=' | '/=') Expr | name '(' names ')' ':=' Expr
// Ternary = Expr '?' Expr ':' Expr
// Convert = Expr 'to' unit
// Postfix = Expr '!' | name '++' | name '--'
// Primary = num [unit] | complex | string | name | name '(' [List] ')' | '(' Expr ')'
//	| '{' List '}' | '{' '{' List '}' { ',' '{' List '}' } '}'
//	| Lambda | If | For | While | Def | Undef | 'true' | 'false'
// Lambda = name '=>' Expr | '(' [names] ')' '=>' Expr
// If = 'if' Expr 'then' Expr ['else' Expr]
// For = 'for' '(' Expr ';' Expr ';' Expr ')' Expr
// While = 'while' '(' Expr ')' Expr
// Def = 'def' '(' (name | name '(' names ')') ',' Expr ')'
// Undef = 'undef' '(' (name | name '(' names ')') ')'
// List = Expr { ',' Expr }

// Expr is a parsed expression that can be evaluated with a context.
type Expr struct {
	// n is the root node of the expression.
	n Node
	// names is the list of free variable names used in the expression.
	names []string
}

// NewExpr wraps a node as an expression.
func NewExpr(n Node) *Expr {
	mustNode(n)
	return &Expr{n: n, names: freeVars(n)}
}

// Parse parses an expression so it can be evaluated with a context. The given
// options are applied in order.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	var b strings.Builder
	for {
		r, _, err := src.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		b.WriteRune(r)
	}
	return ParseString(b.String(), opts...)
}

// ParseString is a shortcut to tokenize and parse a string expression.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	return ParseTokens(toks, opts...)
}

// ParseTokens parses a token sequence produced by Tokenize.
func ParseTokens(toks []Token, opts ...ParseOption) (*Expr, error) {
	if len(toks) == 0 || toks[len(toks)-1].Kind != TokenEOF {
		end := 0
		if len(toks) > 0 {
			t := toks[len(toks)-1]
			end = t.Pos + len(t.Text)
		}
		toks = append(toks[:len(toks):len(toks)], Token{Kind: TokenEOF, Pos: end})
	}
	p := parser{toks: toks, ctx: newParsectx(opts)}
	n, err := p.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	if tok := p.next(); tok.Kind != TokenEOF {
		return nil, itShouldNotHaveEndedThisWay(tok, "")
	}
	return NewExpr(n), nil
}

type parser struct {
	toks []Token
	i    int
	ctx  parsectx
}

// next returns the next token. After the end of input, it returns EOF
// forever.
func (p *parser) next() Token {
	t := p.peek()
	p.i++
	return t
}

// push backs up over the last token returned by next.
func (p *parser) push(Token) {
	p.i--
}

func (p *parser) peek() Token {
	if p.i < len(p.toks) {
		return p.toks[p.i]
	}
	return p.toks[len(p.toks)-1]
}

// is returns whether a token is a particular symbol, keyword, or operator.
func is(t Token, text string) bool {
	switch t.Kind {
	case TokenSymbol, TokenKeyword, TokenOp:
		return t.Text == text
	}
	return false
}

// expect consumes a token with the given text or returns a ParseError naming
// what was expected.
func (p *parser) expect(text, what string) (Token, error) {
	t := p.next()
	if !is(t, text) {
		return t, &ParseError{Offset: t.Pos, Expected: what, Found: t.Text}
	}
	return t, nil
}

// ends returns whether a token cannot begin an expression.
func ends(t Token) bool {
	switch t.Kind {
	case TokenEOF:
		return true
	case TokenSymbol:
		return t.Text != "(" && t.Text != "{"
	case TokenKeyword:
		switch t.Text {
		case "then", "else", "to", "and", "or", "xor", "nand", "nor", "impl", "eq", "mod":
			return true
		}
	case TokenOp:
		return true
	}
	return false
}

// required parses a full subexpression that the named construct needs.
func (p *parser) required(what string) (Node, error) {
	if t := p.peek(); ends(t) {
		return nil, &ParseError{Offset: t.Pos, Expected: what, Found: t.Text}
	}
	return p.parseterm(exprprec)
}

// parseterm parses operators binding more tightly than until. It stops without
// consuming the first token that cannot continue the term.
func (p *parser) parseterm(until operator) (Node, error) {
	n, err := p.parselhs(until)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.next()
		switch tok.Kind {
		case TokenPostfix:
			if !postprec.moreBinding(until) {
				p.push(tok)
				return n, nil
			}
			n, err = postfix(n, tok)
			if err != nil {
				return nil, err
			}
		case TokenOp, TokenKeyword:
			op := binop(tok)
			if op.kind == opNone || !op.moreBinding(until) {
				p.push(tok)
				return n, nil
			}
			n, err = p.parseop(n, tok, op)
			if err != nil {
				return nil, err
			}
		case TokenUnit:
			return nil, &ParseError{Offset: tok.Pos, Expected: "number before unit", Found: tok.Text}
		default:
			p.push(tok)
			return n, nil
		}
	}
}

// parseop parses the right side of a binary operator whose left side is n.
func (p *parser) parseop(n Node, tok Token, op operator) (Node, error) {
	switch op.kind {
	case opConvert:
		u := p.next()
		if u.Kind != TokenUnit {
			return nil, &ParseError{Offset: u.Pos, Expected: "unit after to", Found: u.Text}
		}
		return NewConvert(n, u.Text), nil
	case opTernary:
		then, err := p.required("then-branch of ternary")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(":", "colon in ternary"); err != nil {
			return nil, err
		}
		els, err := p.operand(op, "else-branch of ternary")
		if err != nil {
			return nil, err
		}
		return NewTernary(n, then, els), nil
	case opAssign:
		rhs, err := p.operand(op, "value of assignment")
		if err != nil {
			return nil, err
		}
		switch t := n.(type) {
		case *Variable:
			return NewAssign(op.asg, t.name, rhs), nil
		case *UserCall:
			if _, ok := definedParams(t); ok && op.asg == AssignSet {
				return NewDefine(t, rhs), nil
			}
		}
		return nil, &ParseError{Offset: tok.Pos, Expected: "assignable target", Found: tok.Text}
	default:
		rhs, err := p.operand(op, "right operand of "+tok.Text)
		if err != nil {
			return nil, err
		}
		return NewBinary(op.bin, n, rhs), nil
	}
}

// operand parses the right operand of an operator.
func (p *parser) operand(op operator, what string) (Node, error) {
	if t := p.peek(); ends(t) {
		return nil, &ParseError{Offset: t.Pos, Expected: what, Found: t.Text}
	}
	return p.parseterm(op)
}

func postfix(n Node, tok Token) (Node, error) {
	if tok.Text == "!" {
		return NewUnary(OpFactorial, n), nil
	}
	v, ok := n.(*Variable)
	if !ok {
		return nil, &ParseError{Offset: tok.Pos, Expected: "assignable target", Found: tok.Text}
	}
	if tok.Text == "++" {
		return NewAssign(AssignInc, v.name, nil), nil
	}
	return NewAssign(AssignDec, v.name, nil), nil
}

// parselhs parses the first component of a term. Operators here are unary,
// and the token must be valid as the start of a subexpression.
func (p *parser) parselhs(until operator) (Node, error) {
	tok := p.next()
	switch tok.Kind {
	case TokenNum:
		v := parseNum(tok.Text)
		if u := p.peek(); u.Kind == TokenUnit {
			p.next()
			return unitLit(v, u)
		}
		return NewNumber(v), nil
	case TokenComplex:
		if tok.Text == "i" {
			return NewImaginary(), nil
		}
		return parsePolar(tok)
	case TokenString:
		return NewString(tok.Text), nil
	case TokenIdent:
		return p.ident(tok)
	case TokenKeyword:
		return p.keyword(tok, until)
	case TokenUnary:
		prec := unaryprec
		if !prec.moreBinding(until) {
			// x^-y -> x^(-y)
			prec = until
		}
		if t := p.peek(); ends(t) {
			return nil, &ParseError{Offset: t.Pos, Expected: "operand of unary " + tok.Text, Found: t.Text}
		}
		x, err := p.parseterm(prec)
		if err != nil {
			return nil, err
		}
		if tok.Text == "-" {
			return NewUnary(OpNeg, x), nil
		}
		return NewUnary(OpPlus, x), nil
	case TokenSymbol:
		switch tok.Text {
		case "(":
			return p.paren(tok)
		case "{":
			return p.brace(tok)
		case ",", ";":
			return nil, &SeparatorError{Offset: tok.Pos, Sep: tok.Text}
		default:
			return nil, &EmptyExpressionError{Offset: tok.Pos, End: tok.Text}
		}
	case TokenEOF:
		return nil, &EmptyExpressionError{Offset: tok.Pos}
	case TokenOp, TokenPostfix:
		return nil, &OperatorError{Offset: tok.Pos, Operator: tok.Text, Unary: true}
	case TokenUnit:
		return nil, &ParseError{Offset: tok.Pos, Expected: "number before unit", Found: tok.Text}
	default:
		panic("mathexpr: unknown token: " + tok.String())
	}
}

// parseNum converts the text of a number token. Integers in base 2, 8, or 16
// are exact up to the precision of a float64. Out-of-range values become
// infinity.
func parseNum(s string) float64 {
	base := 0
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	case len(s) > 1 && s[0] == '0' && !strings.ContainsAny(s, ".eE"):
		base, s = 8, s[1:]
	}
	if base != 0 {
		i, ok := new(big.Int).SetString(s, base)
		if !ok {
			panic("mathexpr: invalid number: " + s)
		}
		f, _ := new(big.Float).SetInt(i).Float64()
		return f
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !math.IsInf(f, 0) {
		panic("mathexpr: invalid number: " + s + " (" + err.Error() + ")")
	}
	return f
}

// unitLit creates the literal for a number followed by a unit.
func unitLit(v float64, u Token) (Node, error) {
	if a, ok := units.ParseAngleUnit(u.Text); ok {
		return NewAngle(v, a), nil
	}
	if q, ok := units.Lookup(u.Text); ok {
		return NewQuantity(v, q), nil
	}
	return nil, &ParseError{Offset: u.Pos, Expected: "unit", Found: u.Text}
}

func parsePolar(tok Token) (Node, error) {
	s := strings.TrimSuffix(tok.Text, "°")
	k := strings.Index(s, "∠")
	if k < 0 {
		return nil, &ParseError{Offset: tok.Pos, Expected: "polar complex literal", Found: tok.Text}
	}
	mag := parseNum(s[:k])
	phase, err := strconv.ParseFloat(s[k+len("∠"):], 64)
	if err != nil {
		return nil, &ParseError{Offset: tok.Pos, Expected: "phase of polar complex literal", Found: tok.Text}
	}
	return NewPolar(mag, phase), nil
}

// ident parses a term beginning with an identifier: a variable, a constant, a
// function call, or a single-parameter lambda.
func (p *parser) ident(tok Token) (Node, error) {
	next := p.peek()
	if fn, ok := p.ctx.funcs.Lookup(tok.Text); ok {
		if fn.IsConstant() {
			return NewConstant(fn), nil
		}
		if !is(next, "(") {
			return nil, &CallError{Offset: tok.Pos, Func: tok.Text, Len: 0}
		}
		open := p.next()
		args, err := p.list(open, ")", "comma or close-paren in call of "+tok.Text)
		if err != nil {
			return nil, err
		}
		if !fn.CanCall(len(args)) {
			return nil, &CallError{Offset: tok.Pos, Func: tok.Text, Len: len(args)}
		}
		return NewCall(fn, args...), nil
	}
	switch {
	case is(next, "("):
		open := p.next()
		args, err := p.list(open, ")", "comma or close-paren in call of "+tok.Text)
		if err != nil {
			return nil, err
		}
		return NewUserCall(tok.Text, args...), nil
	case is(next, "=>"):
		p.next()
		body, err := p.required("body of lambda")
		if err != nil {
			return nil, err
		}
		return NewLambda([]string{tok.Text}, body), nil
	}
	return NewVariable(tok.Text), nil
}

// list parses a comma-separated list of expressions up to a closing symbol.
// The open token has already been consumed.
func (p *parser) list(open Token, close, what string) ([]Node, error) {
	if t := p.peek(); is(t, close) {
		p.next()
		return nil, nil
	}
	var r []Node
	for {
		n, err := p.parseterm(exprprec)
		if err != nil {
			return nil, err
		}
		r = append(r, n)
		end := p.next()
		switch {
		case is(end, ","):
			// Continue to the next element.
		case is(end, close):
			return r, nil
		case end.Kind == TokenEOF:
			return nil, &BracketError{Offset: end.Pos, Left: open.Text}
		default:
			return nil, &ParseError{Offset: end.Pos, Expected: what, Found: end.Text}
		}
	}
}

// paren parses a parenthesized expression or a lambda with a parenthesized
// parameter list.
func (p *parser) paren(open Token) (Node, error) {
	if p.lambdaAhead() {
		return p.lambda(open)
	}
	if t := p.peek(); is(t, ")") {
		// () must be the parameter list of a lambda.
		p.next()
		t = p.peek()
		return nil, &ParseError{Offset: t.Pos, Expected: "lambda arrow", Found: t.Text}
	}
	n, err := p.parseterm(exprprec)
	if err != nil {
		return nil, err
	}
	if end := p.next(); !is(end, ")") {
		return nil, itShouldNotHaveEndedThisWay(end, "(")
	}
	return n, nil
}

// lambdaAhead returns whether the parenthesized group starting at the current
// token is followed by a lambda arrow.
func (p *parser) lambdaAhead() bool {
	depth := 1
	for i := p.i; i < len(p.toks); i++ {
		t := p.toks[i]
		switch {
		case t.Kind == TokenEOF:
			return false
		case is(t, "("), is(t, "{"):
			depth++
		case is(t, ")"), is(t, "}"):
			depth--
			if depth == 0 {
				return i+1 < len(p.toks) && is(p.toks[i+1], "=>")
			}
		}
	}
	return false
}

func (p *parser) lambda(open Token) (Node, error) {
	var params []string
	if t := p.peek(); is(t, ")") {
		p.next()
	} else {
		for {
			t := p.next()
			if t.Kind != TokenIdent {
				return nil, &ParseError{Offset: t.Pos, Expected: "lambda parameter", Found: t.Text}
			}
			params = append(params, t.Text)
			end := p.next()
			if is(end, ")") {
				break
			}
			if !is(end, ",") {
				return nil, &ParseError{Offset: end.Pos, Expected: "comma or close-paren in lambda parameters", Found: end.Text}
			}
		}
	}
	if _, err := p.expect("=>", "lambda arrow"); err != nil {
		return nil, err
	}
	body, err := p.required("body of lambda")
	if err != nil {
		return nil, err
	}
	return NewLambda(params, body), nil
}

// brace parses a vector or matrix literal. Matrix rows must have equal
// lengths, which is checked once the whole literal is parsed.
func (p *parser) brace(open Token) (Node, error) {
	if !is(p.peek(), "{") {
		elems, err := p.list(open, "}", "comma or close-brace in vector")
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			t := p.toks[p.i-1]
			return nil, &ParseError{Offset: t.Pos, Expected: "vector element", Found: t.Text}
		}
		return NewVector(elems...), nil
	}
	var rows []*VectorLit
	for {
		t := p.next()
		if !is(t, "{") {
			return nil, &ParseError{Offset: t.Pos, Expected: "open-brace of matrix row", Found: t.Text}
		}
		elems, err := p.list(t, "}", "comma or close-brace in matrix row")
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			e := p.toks[p.i-1]
			return nil, &ParseError{Offset: e.Pos, Expected: "vector element", Found: e.Text}
		}
		rows = append(rows, NewVector(elems...))
		end := p.next()
		if is(end, "}") {
			break
		}
		if end.Kind == TokenEOF {
			return nil, &BracketError{Offset: end.Pos, Left: open.Text}
		}
		if !is(end, ",") {
			return nil, &ParseError{Offset: end.Pos, Expected: "comma in matrix", Found: end.Text}
		}
	}
	for _, r := range rows[1:] {
		if r.Len() != rows[0].Len() {
			return nil, &ParseError{
				Offset:   open.Pos,
				Expected: "rows of equal length in matrix",
				Found:    "rows of " + strconv.Itoa(rows[0].Len()) + " and " + strconv.Itoa(r.Len()) + " elements",
			}
		}
	}
	return NewMatrix(rows...), nil
}

// keyword parses a term beginning with a keyword.
func (p *parser) keyword(tok Token, until operator) (Node, error) {
	switch tok.Text {
	case "true":
		return NewBool(true), nil
	case "false":
		return NewBool(false), nil
	case "not":
		prec := unaryprec
		if !prec.moreBinding(until) {
			prec = until
		}
		if t := p.peek(); ends(t) {
			return nil, &ParseError{Offset: t.Pos, Expected: "operand of not", Found: t.Text}
		}
		x, err := p.parseterm(prec)
		if err != nil {
			return nil, err
		}
		return NewUnary(OpNot, x), nil
	case "if":
		return p.parseIf()
	case "for":
		return p.parseFor()
	case "while":
		return p.parseWhile()
	case "def":
		return p.parseDef()
	case "undef":
		return p.parseUndef()
	default:
		return nil, &ParseError{Offset: tok.Pos, Expected: "expression", Found: tok.Text}
	}
}

func (p *parser) parseIf() (Node, error) {
	cond, err := p.required("condition of if")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect("then", "then-branch of if"); err != nil {
		return nil, err
	}
	then, err := p.required("then-branch of if")
	if err != nil {
		return nil, err
	}
	if !is(p.peek(), "else") {
		return NewIf(cond, then, nil), nil
	}
	p.next()
	els, err := p.required("else-branch of if")
	if err != nil {
		return nil, err
	}
	return NewIf(cond, then, els), nil
}

func (p *parser) parseFor() (Node, error) {
	if _, err := p.expect("(", "open-paren of for"); err != nil {
		return nil, err
	}
	init, err := p.required("initializer of for")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";", "semicolon after for initializer"); err != nil {
		return nil, err
	}
	cond, err := p.required("condition of for")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(";", "semicolon after for condition"); err != nil {
		return nil, err
	}
	iter, err := p.required("iterator of for")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")", "close-paren after for iterator"); err != nil {
		return nil, err
	}
	body, err := p.required("loop body of for")
	if err != nil {
		return nil, err
	}
	return NewFor(init, cond, iter, body), nil
}

func (p *parser) parseWhile() (Node, error) {
	if _, err := p.expect("(", "open-paren of while"); err != nil {
		return nil, err
	}
	cond, err := p.required("condition of while")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")", "close-paren after while condition"); err != nil {
		return nil, err
	}
	body, err := p.required("loop body of while")
	if err != nil {
		return nil, err
	}
	return NewWhile(cond, body), nil
}

// target parses the target of def or undef.
func (p *parser) target() (Node, error) {
	t := p.peek()
	n, err := p.required("function parameter")
	if err != nil {
		return nil, err
	}
	if _, ok := definedParams(n); !ok {
		return nil, &ParseError{Offset: t.Pos, Expected: "assignable target", Found: n.String()}
	}
	return n, nil
}

func (p *parser) parseDef() (Node, error) {
	if _, err := p.expect("(", "open-paren of def"); err != nil {
		return nil, err
	}
	target, err := p.target()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(",", "comma in def"); err != nil {
		return nil, err
	}
	value, err := p.required("value of def")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")", "close-paren of def"); err != nil {
		return nil, err
	}
	return NewDefine(target, value), nil
}

func (p *parser) parseUndef() (Node, error) {
	if _, err := p.expect("(", "open-paren of undef"); err != nil {
		return nil, err
	}
	target, err := p.target()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(")", "close-paren of undef"); err != nil {
		return nil, err
	}
	return NewUndefine(target), nil
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. open is the bracket that the
// expression should have closed, or the empty string if none.
func itShouldNotHaveEndedThisWay(tok Token, open string) error {
	switch {
	case tok.Kind == TokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Offset: tok.Pos, Left: open}
	case is(tok, ")"), is(tok, "}"):
		return &BracketError{Offset: tok.Pos, Left: open, Right: tok.Text}
	case is(tok, ","), is(tok, ";"):
		return &SeparatorError{Offset: tok.Pos, Sep: tok.Text}
	case tok.Kind == TokenOp || tok.Kind == TokenKeyword:
		return &OperatorError{Offset: tok.Pos, Operator: tok.Text}
	default:
		return &ParseError{Offset: tok.Pos, Expected: "operator", Found: tok.Text}
	}
}

// Root returns the root node of the expression.
func (e *Expr) Root() Node {
	return e.n
}

// Vars returns the sorted names of variables the expression uses, excluding
// lambda and function parameters.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String formats the expression as source text.
func (e *Expr) String() string {
	return e.n.String()
}

// Derivative returns the derivative of the expression with respect to a
// variable.
func (e *Expr) Derivative(x string) (*Expr, error) {
	d, err := Differentiate(e.n, x)
	if err != nil {
		return nil, err
	}
	return NewExpr(d), nil
}

// Simplify returns the expression with one pass of simplification applied.
func (e *Expr) Simplify() (*Expr, error) {
	s, err := Simplify(e.n)
	if err != nil {
		return nil, err
	}
	return NewExpr(s), nil
}

// opKind distinguishes operators which build nodes other than Binary.
type opKind int8

const (
	opNone opKind = iota
	opBinary
	opAssign
	opTernary
	opConvert
)

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	kind  opKind
	bin   BinaryOp
	asg   AssignOp
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

func infix(prec int8, op BinaryOp) operator {
	return operator{prec: prec, kind: opBinary, bin: op}
}

func assign(op AssignOp) operator {
	return operator{prec: 1, right: true, kind: opAssign, asg: op}
}

// binop gets the binary operator for a token. If there is no such operator,
// the result has kind opNone.
func binop(tok Token) operator {
	if tok.Kind != TokenOp && tok.Kind != TokenKeyword {
		return operator{}
	}
	switch tok.Text {
	case ":=":
		return assign(AssignSet)
	case "+=":
		return assign(AssignAdd)
	case "-=":
		return assign(AssignSub)
	case "*=":
		return assign(AssignMul)
	case "/=":
		return assign(AssignDiv)
	case "?":
		return operator{prec: 2, right: true, kind: opTernary}
	case "to":
		return operator{prec: 3, kind: opConvert}
	case "or", "||":
		return infix(4, OpOr)
	case "xor":
		return infix(4, OpXor)
	case "nor":
		return infix(4, OpNor)
	case "->", "impl":
		return infix(4, OpImpl)
	case "<->", "eq":
		return infix(4, OpEquality)
	case "and", "&&":
		return infix(5, OpAnd)
	case "nand":
		return infix(5, OpNand)
	case "==":
		return infix(6, OpEq)
	case "!=":
		return infix(6, OpNe)
	case "<":
		return infix(6, OpLt)
	case "<=":
		return infix(6, OpLe)
	case ">":
		return infix(6, OpGt)
	case ">=":
		return infix(6, OpGe)
	case "+":
		return infix(7, OpAdd)
	case "-":
		return infix(7, OpSub)
	case "*", "·", "×":
		return infix(8, OpMul)
	case "/", "÷":
		return infix(8, OpDiv)
	case "%", "mod":
		return infix(8, OpMod)
	case "//":
		return infix(8, OpRational)
	case "^":
		return operator{prec: 10, right: true, kind: opBinary, bin: OpPow}
	default:
		return operator{}
	}
}

var (
	// unaryprec is the precedence of prefix operators.
	unaryprec = operator{prec: 9, right: true}
	// postprec is the precedence of postfix operators.
	postprec = operator{prec: 11}
	// exprprec is the precedence required to parse an entire subexpression.
	exprprec = operator{prec: -128, right: true}
)
