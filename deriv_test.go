package mathexpr

import (
	"errors"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func mustParse(t testing.TB, src string) Node {
	t.Helper()
	a, err := ParseString(src)
	if err != nil {
		t.Fatalf("%q failed to parse: %v", src, err)
	}
	return a.Root()
}

// shared returns a node which appears in both trees.
func shared(a, b Node) Node {
	seen := make(map[Node]bool)
	var walk func(Node, func(Node) bool) Node
	walk = func(n Node, f func(Node) bool) Node {
		if f(n) {
			return n
		}
		for _, k := range children(n) {
			if r := walk(k, f); r != nil {
				return r
			}
		}
		return nil
	}
	walk(a, func(n Node) bool { seen[n] = true; return false })
	return walk(b, func(n Node) bool { return seen[n] })
}

func TestDifferentiate(t *testing.T) {
	cases := []struct {
		src  string
		x    string
		want string
	}{
		{"x", "x", "1"},
		{"y", "x", "0"},
		{"5", "x", "0"},
		{"x + 3", "x", "1"},
		{"x - y", "x", "1"},
		{"y - x", "x", "-1"},
		{"-x", "x", "-1"},
		{"3 * x", "x", "3"},
		{"x * y", "x", "y"},
		{"x * x", "x", "x + x"},
		{"x / y", "x", "1 / y"},
		{"1 / x", "x", "(-1) / (x ^ 2)"},
		{"x^2", "x", "2 * x"},
		{"x^3", "x", "3 * (x ^ 2)"},
		{"x^2 + 1", "x", "2 * x"},
		{"2^x", "x", "(2 ^ x) * ln(2)"},
		{"x^x", "x", "(x ^ x) * (ln(x) + (x / x))"},
		{"t^2 + x", "t", "2 * t"},
		{"sin(x)", "x", "cos(x)"},
		{"cos(x)", "x", "-sin(x)"},
		{"sin(2*x)", "x", "cos(2 * x) * 2"},
		{"tan(x)", "x", "1 / (cos(x) ^ 2)"},
		{"exp(x)", "x", "exp(x)"},
		{"ln(x)", "x", "1 / x"},
		{"sqrt(x)", "x", "1 / (2 * sqrt(x))"},
		{"arcsin(x)", "x", "1 / sqrt(1 - (x ^ 2))"},
		{"arccos(x)", "x", "-(1 / sqrt(1 - (x ^ 2)))"},
		{"arctan(2*x)", "x", "2 / (1 + ((2 * x) ^ 2))"},
		{"sinh(x)", "x", "cosh(x)"},
		{"abs(x)", "x", "sign(x)"},
		{"log(2, x)", "x", "(1 / x) / ln(2)"},
		{"{x, x^2, 3}", "x", "{1, 2 * x, 0}"},
		{"x > 0 ? x^2 : 0", "x", "x > 0 ? 2 * x : 0"},
		{"if x > 0 then x", "x", "if x > 0 then 1 else 0"},
		{"(y) => x * y", "x", "(y) => y"},
		{"(x) => x", "x", "0"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			n := mustParse(t, c.src)
			d, err := Differentiate(n, c.x)
			if err != nil {
				t.Fatalf("d/d%s %q failed: %v", c.x, c.src, err)
			}
			if got := Format(d); got != c.want {
				t.Errorf("d/d%s %q: want %q, got %q\n%s", c.x, c.src, c.want, got, spew.Sdump(d))
			}
			if s := shared(n, d); s != nil {
				t.Errorf("d/d%s %q shares node %s with its source", c.x, c.src, Format(s))
			}
		})
	}
}

func TestDifferentiateErrors(t *testing.T) {
	cases := []string{
		"floor(x)",
		"x > 1",
		"x!",
		"f(x)",
		"x := x + 1",
		"x to km",
		"x and true",
		"for(i := 0; i < x; i++) 1",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			d, err := Differentiate(mustParse(t, src), "x")
			if err == nil {
				t.Fatalf("%q differentiated to %s", src, Format(d))
			}
			var ue *UndifferentiableError
			if !errors.As(err, &ue) {
				t.Errorf("%q gave wrong error: want *UndifferentiableError, got %T (%v)", src, err, err)
			}
		})
	}
}

// TestDifferentiateNoAliasing checks that changing the source after
// differentiation leaves the derivative unchanged.
func TestDifferentiateNoAliasing(t *testing.T) {
	n := mustParse(t, "arctan(2*x)")
	d, err := Differentiate(n, "x")
	if err != nil {
		t.Fatal(err)
	}
	const want = "2 / (1 + ((2 * x) ^ 2))"
	if got := Format(d); got != want {
		t.Fatalf("wrong derivative: want %q, got %q", want, got)
	}
	n.(*Call).args[0].(*Binary).x.(*Number).v = 7
	if got := Format(n); got != "arctan(7 * x)" {
		t.Fatalf("mutation missed: %q", got)
	}
	if got := Format(d); got != want {
		t.Errorf("derivative changed with source: want %q, got %q", want, got)
	}
}

func TestDifferentiateIn(t *testing.T) {
	ctx := NewContext(SetVar("h", mustLambda("u => u^3")))
	ctx.Define("f", []string{"t"}, mustParse(t, "t^2"))
	cases := []struct {
		src  string
		want string
	}{
		{"f(x)", "2 * x"},
		{"f(3*x)", "(2 * (3 * x)) * 3"},
		{"h(x)", "3 * (x ^ 2)"},
		{"f(y)", "0"},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			n := mustParse(t, c.src)
			d, err := DifferentiateIn(n, "x", ctx)
			if err != nil {
				t.Fatalf("%q failed: %v", c.src, err)
			}
			if got := Format(d); got != c.want {
				t.Errorf("%q: want %q, got %q", c.src, c.want, got)
			}
		})
	}
}

func TestDifferentiateInErrors(t *testing.T) {
	ctx := NewContext(SetVar("k", 2))
	ctx.Define("g", []string{"t"}, mustParse(t, "g(t)"))
	_, err := DifferentiateIn(mustParse(t, "g(x)"), "x", ctx)
	if !errors.Is(err, ErrDepth) {
		t.Errorf("recursive function: want %v, got %v", ErrDepth, err)
	}
	_, err = DifferentiateIn(mustParse(t, "k(x)"), "x", ctx)
	if reflect.TypeOf(err) != reflect.TypeOf(new(UndifferentiableError)) {
		t.Errorf("call of number: want *UndifferentiableError, got %T (%v)", err, err)
	}
	_, err = DifferentiateIn(mustParse(t, "q(x)"), "x", ctx)
	if reflect.TypeOf(err) != reflect.TypeOf(new(UndifferentiableError)) {
		t.Errorf("call of undefined: want *UndifferentiableError, got %T (%v)", err, err)
	}
}

func BenchmarkDifferentiate(b *testing.B) {
	n := mustParse(b, "sin(x^2) * exp(2*x) / sqrt(1 + x^2)")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Differentiate(n, "x")
	}
}
