package mathexpr

import "testing"

func TestSimplify(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"add-zero", "x + 0", "x"},
		{"zero-add", "0 + x", "x"},
		{"sub-zero", "x - 0", "x"},
		{"zero-sub", "0 - x", "-x"},
		{"sub-self", "x - x", "0"},
		{"mul-zero", "0 * x", "0"},
		{"mul-one", "x * 1", "x"},
		{"one-mul", "1 * x", "x"},
		{"div-one", "x / 1", "x"},
		{"zero-div", "0 / x", "0"},
		{"pow-one", "x ^ 1", "x"},
		{"pow-zero", "x ^ 0", "1"},
		{"one-pow", "1 ^ x", "1"},
		{"fold", "2 + 3 * 4", "14"},
		{"fold-partial", "2 * x + 3 * 4", "(2 * x) + 12"},
		{"fold-neg", "-(3)", "-3"},
		{"fold-compare", "1 < 2", "true"},
		{"div-zero", "1 / 0", "1 / 0"},
		{"zero-over-zero", "0 / 0", "0 / 0"},
		{"complex-result", "(-8) ^ (1 / 2)", "(-8) ^ 0.5"},
		{"double-neg", "-(-x)", "x"},
		{"double-not", "not not a", "a"},
		{"and-true", "true and b", "b"},
		{"or-false", "b or false", "b"},
		{"and-false", "false and b", "false"},
		{"or-true", "b or true", "true"},
		{"ln-e", "ln(e)", "1"},
		{"ln-one", "ln(1)", "0"},
		{"ln-exp", "ln(exp(x))", "x"},
		{"exp-ln", "exp(ln(x))", "x"},
		{"exp-zero", "exp(0)", "1"},
		{"abs-abs", "abs(abs(x))", "abs(x)"},
		{"call-args", "sin(0 + x)", "sin(x)"},
		{"nested", "(x * 1) + (0 * y)", "x"},
		{"vector", "{x + 0, 2 * 3}", "{x, 6}"},
		{"ternary-true", "true ? x : y", "x"},
		{"if-false", "if false then x else y", "y"},
		{"if-false-no-else", "if false then x", "if false then x"},
		{"if-open", "if c then x * 1 else 0 + y", "if c then x else y"},
		{"lambda", "(x) => x * 1", "(x) => x"},
		{"assign", "x := 1 + 2", "x := 3"},
		{"impure-mul", "0 * (x := 1)", "0 * (x := 1)"},
		{"impure-sub", "f(x) - f(x)", "f(x) - f(x)"},
		{"impure-pow", "(x := 2) ^ 0", "(x := 2) ^ 0"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			n := mustParse(t, c.src)
			s, err := Simplify(n)
			if err != nil {
				t.Fatalf("%q failed: %v", c.src, err)
			}
			if got := Format(s); got != c.want {
				t.Errorf("%q simplified wrong: want %q, got %q", c.src, c.want, got)
			}
			if k := shared(n, s); k != nil {
				t.Errorf("%q shares node %s with its simplification", c.src, Format(k))
			}
		})
	}
}

// TestSimplifyAgrees checks that simplified expressions evaluate to the same
// results as the originals.
func TestSimplifyAgrees(t *testing.T) {
	srcs := []string{
		"x * 1 + 0",
		"2 ^ 3 - x / 1",
		"ln(exp(x)) * (y - y)",
		"x > 2 ? x * 0 : 1 ^ y",
		"abs(abs(x - 10))",
		"(1 + 2) * x - 3 * x",
	}
	vars := map[string]any{"x": 3, "y": 4}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			n := mustParse(t, src)
			s, err := Simplify(n)
			if err != nil {
				t.Fatal(err)
			}
			want, err := Execute(n, NewContext(SetVars(vars)))
			if err != nil {
				t.Fatal(err)
			}
			got, err := Execute(s, NewContext(SetVars(vars)))
			if err != nil {
				t.Fatalf("simplified %s failed: %v", Format(s), err)
			}
			if !sameResult(got, want.Value()) {
				t.Errorf("%q simplified to %s: want %v, got %v", src, Format(s), want, got)
			}
		})
	}
}

func TestSimplifyCall(t *testing.T) {
	r, err := EvalString("simplify(x => x * 1 + 0)")
	if err != nil {
		t.Fatal(err)
	}
	l, ok := r.Lambda()
	if !ok {
		t.Fatalf("wrong kind: want lambda, got %v", r.Kind())
	}
	if got := Format(l); got != "(x) => x" {
		t.Errorf("wrong simplification: want %q, got %q", "(x) => x", got)
	}
}
