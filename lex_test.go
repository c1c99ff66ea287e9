package mathexpr

import (
	"errors"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

// tk is shorthand for a token in test tables.
func tk(kind TokenKind, text string, pos int) Token {
	return Token{Kind: kind, Text: text, Pos: pos}
}

func eof(pos int) Token {
	return Token{Kind: TokenEOF, Pos: pos}
}

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []Token
	}{
		{"empty", "", []Token{eof(0)}},
		{"space", " \t \r\n ", []Token{eof(6)}},
		{"num", "1.5e-3", []Token{tk(TokenNum, "1.5e-3", 0), eof(6)}},
		{"dot", ".5", []Token{tk(TokenNum, ".5", 0), eof(2)}},
		{"hex", "0x1F", []Token{tk(TokenNum, "0x1F", 0), eof(4)}},
		{"bin", "0b101", []Token{tk(TokenNum, "0b101", 0), eof(5)}},
		{"oct", "017", []Token{tk(TokenNum, "017", 0), eof(3)}},
		{"e-ident", "2e", []Token{tk(TokenNum, "2", 0), tk(TokenOp, "*", 1), tk(TokenIdent, "e", 1), eof(2)}},

		// Unary and binary minus.
		{"paren-neg", "(-5)", []Token{
			tk(TokenSymbol, "(", 0), tk(TokenUnary, "-", 1), tk(TokenNum, "5", 2), tk(TokenSymbol, ")", 3), eof(4),
		}},
		{"sub", "3-5", []Token{tk(TokenNum, "3", 0), tk(TokenOp, "-", 1), tk(TokenNum, "5", 2), eof(3)}},
		{"sub-neg", "3 - -5", []Token{
			tk(TokenNum, "3", 0), tk(TokenOp, "-", 2), tk(TokenUnary, "-", 4), tk(TokenNum, "5", 5), eof(6),
		}},
		{"call-neg", "f(-5)", []Token{
			tk(TokenIdent, "f", 0), tk(TokenSymbol, "(", 1), tk(TokenUnary, "-", 2), tk(TokenNum, "5", 3), tk(TokenSymbol, ")", 4), eof(5),
		}},
		{"start-neg", "-x", []Token{tk(TokenUnary, "-", 0), tk(TokenIdent, "x", 1), eof(2)}},
		{"comma-neg", "{1,-2}", []Token{
			tk(TokenSymbol, "{", 0), tk(TokenNum, "1", 1), tk(TokenSymbol, ",", 2), tk(TokenUnary, "-", 3), tk(TokenNum, "2", 4), tk(TokenSymbol, "}", 5), eof(6),
		}},
		{"double-sign", "3--5", []Token{
			tk(TokenNum, "3", 0), tk(TokenOp, "-", 1), tk(TokenUnary, "-", 2), tk(TokenNum, "5", 3), eof(4),
		}},

		// Implicit multiplication.
		{"num-ident", "2x", []Token{tk(TokenNum, "2", 0), tk(TokenOp, "*", 1), tk(TokenIdent, "x", 1), eof(2)}},
		{"num-paren", "3(4+1)", []Token{
			tk(TokenNum, "3", 0), tk(TokenOp, "*", 1), tk(TokenSymbol, "(", 1), tk(TokenNum, "4", 2),
			tk(TokenOp, "+", 3), tk(TokenNum, "1", 4), tk(TokenSymbol, ")", 5), eof(6),
		}},
		{"paren-paren", "(a)(b)", []Token{
			tk(TokenSymbol, "(", 0), tk(TokenIdent, "a", 1), tk(TokenSymbol, ")", 2), tk(TokenOp, "*", 3),
			tk(TokenSymbol, "(", 3), tk(TokenIdent, "b", 4), tk(TokenSymbol, ")", 5), eof(6),
		}},
		{"num-i", "2i", []Token{tk(TokenNum, "2", 0), tk(TokenOp, "*", 1), tk(TokenComplex, "i", 1), eof(2)}},
		{"ident-paren", "f(x)", []Token{
			tk(TokenIdent, "f", 0), tk(TokenSymbol, "(", 1), tk(TokenIdent, "x", 2), tk(TokenSymbol, ")", 3), eof(4),
		}},
		{"loop-header", "while(x) y", []Token{
			tk(TokenKeyword, "while", 0), tk(TokenSymbol, "(", 5), tk(TokenIdent, "x", 6), tk(TokenSymbol, ")", 7),
			tk(TokenIdent, "y", 9), eof(10),
		}},

		// Postfix.
		{"fact", "x!", []Token{tk(TokenIdent, "x", 0), tk(TokenPostfix, "!", 1), eof(2)}},
		{"inc", "x++", []Token{tk(TokenIdent, "x", 0), tk(TokenPostfix, "++", 1), eof(3)}},

		// Complex numbers and units.
		{"i", "i", []Token{tk(TokenComplex, "i", 0), eof(1)}},
		{"ident-i", "ii", []Token{tk(TokenIdent, "ii", 0), eof(2)}},
		{"polar", "2∠45°", []Token{tk(TokenComplex, "2∠45°", 0), eof(8)}},
		{"degrees", "90°", []Token{tk(TokenNum, "90", 0), tk(TokenUnit, "°", 2), eof(4)}},
		{"meters", "5 m", []Token{tk(TokenNum, "5", 0), tk(TokenUnit, "m", 2), eof(3)}},
		{"not-meters", "5m", []Token{tk(TokenNum, "5", 0), tk(TokenOp, "*", 1), tk(TokenIdent, "m", 1), eof(2)}},
		{"convert", "x to km", []Token{
			tk(TokenIdent, "x", 0), tk(TokenKeyword, "to", 2), tk(TokenUnit, "km", 5), eof(7),
		}},

		// Keywords and strings.
		{"if", "if x then 1", []Token{
			tk(TokenKeyword, "if", 0), tk(TokenIdent, "x", 3), tk(TokenKeyword, "then", 5), tk(TokenNum, "1", 10), eof(11),
		}},
		{"string", "'hi'", []Token{tk(TokenString, "hi", 0), eof(4)}},
		{"assign", "x:=1", []Token{tk(TokenIdent, "x", 0), tk(TokenOp, ":=", 1), tk(TokenNum, "1", 3), eof(4)}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := Tokenize(c.src)
			if err != nil {
				t.Fatalf("%q failed to lex: %v", c.src, err)
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Errorf("%q lexed wrong:\nwant %s\ngot  %s", c.src, spew.Sdump(c.want), spew.Sdump(got))
			}
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind string
		text string
		pos  int
	}{
		{"symbol", "$", "", "$", 0},
		{"after-ident", "a$", "", "$", 1},
		{"bang", "!", "operator", "!", 0},
		{"bang-op", "1+!", "operator", "!", 2},
		{"octal", "08", "number", "08", 0},
		{"hex", "0x", "number", "0x", 0},
		{"string", "'abc", "string", "'abc", 0},
		{"degree", "°", "unit", "°", 0},
		{"polar", "2∠x", "complex", "2∠", 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Tokenize(c.src)
			if err == nil {
				t.Fatalf("%q lexed without error: %v", c.src, toks)
			}
			var lerr *LexError
			if !errors.As(err, &lerr) {
				t.Fatalf("%q gave wrong error type: %#v", c.src, err)
			}
			if lerr.Kind != c.kind || lerr.Text != c.text || lerr.Pos() != c.pos {
				t.Errorf("%q gave wrong error: want kind %q text %q at %d, got %s", c.src, c.kind, c.text, c.pos, spew.Sdump(lerr))
			}
		})
	}
}

func BenchmarkTokenize(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"arith", "w^x*y+z+a*b^c"},
		{"implicit", "2x + 3(4+1) - (a)(b)"},
		{"nums", "1^1.1*1.1e1+1.1e-1+.1*0x1f^0b11"},
		{"script", "for(i := 0; i < 10; i++) s += i^2"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				Tokenize(c.src)
			}
		})
	}
}
