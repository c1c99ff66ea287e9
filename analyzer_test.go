package mathexpr

import (
	"math"
	"reflect"
	"sort"
	"testing"
)

// size counts the nodes in a tree with a single default method.
func size(n Node) (int, error) {
	var a DefaultAnalyzer[int, struct{}]
	a.Default = func(n Node, _ struct{}) (int, error) {
		r := 1
		for _, k := range children(n) {
			c, err := Analyze[int, struct{}](k, a, struct{}{})
			if err != nil {
				return 0, err
			}
			r += c
		}
		return r, nil
	}
	return Analyze[int, struct{}](n, a, struct{}{})
}

// varNames collects every variable name, overriding one method.
type varNames struct {
	DefaultAnalyzer[struct{}, map[string]bool]
}

func (varNames) VisitVariable(n *Variable, m map[string]bool) (struct{}, error) {
	m[n.name] = true
	return struct{}{}, nil
}

func TestAnalyzeDefault(t *testing.T) {
	cases := []struct {
		src  string
		want int
	}{
		{"1", 1},
		{"1 + 2 * x", 5},
		{"sin(x) + f(1, 2)", 6},
		{"{{1, 2}, {3, 4}}", 7},
		{"if a then b else c", 4},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			got, err := size(mustParse(t, c.src))
			if err != nil {
				t.Fatal(err)
			}
			if got != c.want {
				t.Errorf("wrong size: want %d, got %d", c.want, got)
			}
		})
	}
}

func TestAnalyzeOverride(t *testing.T) {
	var a varNames
	a.Default = func(n Node, m map[string]bool) (struct{}, error) {
		for _, k := range children(n) {
			if _, err := Analyze[struct{}, map[string]bool](k, a, m); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	}
	m := make(map[string]bool)
	if _, err := Analyze[struct{}, map[string]bool](mustParse(t, "f(x, y) + sin(z) * w"), a, m); err != nil {
		t.Fatal(err)
	}
	var got []string
	for k := range m {
		got = append(got, k)
	}
	sort.Strings(got)
	if want := []string{"w", "x", "y", "z"}; !reflect.DeepEqual(got, want) {
		t.Errorf("wrong names: want %q, got %q", want, got)
	}
}

func TestAnalyzeUnhandled(t *testing.T) {
	_, err := Analyze[int, struct{}](NewNumber(1), DefaultAnalyzer[int, struct{}]{}, struct{}{})
	u, ok := err.(*UnhandledNodeError)
	if !ok {
		t.Fatalf("wrong error: want *UnhandledNodeError, got %T (%v)", err, err)
	}
	if u.Kind != "number" {
		t.Errorf("wrong kind: %q", u.Kind)
	}
}

func TestAnalyzeNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("nil analyzer did not panic")
		}
	}()
	Analyze[int, struct{}](NewNumber(1), nil, struct{}{})
}

func TestCloneEqual(t *testing.T) {
	for _, c := range parseCases {
		t.Run(c.name, func(t *testing.T) {
			n := mustParse(t, c.src)
			k := Clone(n)
			if !Equal(n, k) {
				t.Errorf("clone of %q is unequal: %s", c.src, Format(k))
			}
			// Imaginary nodes have no state, so their copies may share an
			// address.
			if s := shared(n, k); s != nil {
				if _, ok := s.(*Imaginary); !ok {
					t.Errorf("clone of %q shares %s", c.src, Format(s))
				}
			}
		})
	}
}

func TestEqual(t *testing.T) {
	nan := NewNumber(math.NaN())
	cases := []struct {
		a, b Node
		want bool
	}{
		{NewNumber(1), NewNumber(1), true},
		{NewNumber(1), NewNumber(2), false},
		{nan, NewNumber(math.NaN()), true},
		{NewVariable("x"), NewVariable("y"), false},
		{NewBinary(OpAdd, NewVariable("x"), NewNumber(1)), NewBinary(OpAdd, NewVariable("x"), NewNumber(1)), true},
		{NewBinary(OpAdd, NewVariable("x"), NewNumber(1)), NewBinary(OpSub, NewVariable("x"), NewNumber(1)), false},
		{NewCall(FuncSin, NewVariable("x")), NewCall(FuncCos, NewVariable("x")), false},
		{NewLambda([]string{"x"}, NewVariable("x")), NewLambda([]string{"y"}, NewVariable("x")), false},
		{NewIf(NewBool(true), NewNumber(1), nil), NewIf(NewBool(true), NewNumber(1), NewNumber(0)), false},
		{NewNumber(1), NewBool(true), false},
	}
	for _, c := range cases {
		if got := Equal(c.a, c.b); got != c.want {
			t.Errorf("Equal(%s, %s): want %t, got %t", Format(c.a), Format(c.b), c.want, got)
		}
	}
}

func TestConstructorPanics(t *testing.T) {
	cases := map[string]func(){
		"empty-vector": func() { NewVector() },
		"empty-matrix": func() { NewMatrix() },
		"ragged":       func() { NewMatrix(NewVector(NewNumber(1)), NewVector(NewNumber(1), NewNumber(2))) },
		"nil-operand":  func() { NewBinary(OpAdd, nil, NewNumber(1)) },
		"nil-body":     func() { NewLambda(nil, nil) },
	}
	for name, f := range cases {
		t.Run(name, func(t *testing.T) {
			if catch(f) == nil {
				t.Error("did not panic")
			}
		})
	}
}
