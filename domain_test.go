package mathexpr

import (
	"errors"
	"math"
	"testing"
)

func TestDomainContains(t *testing.T) {
	inf := math.Inf(1)
	d := NewDomain().Range(-inf, false, -1, true).Open(0, 1).Closed(2, 3).Build()
	cases := []struct {
		x    float64
		want bool
	}{
		{math.Inf(-1), false},
		{-5, true},
		{-1, true},
		{-0.5, false},
		{0, false},
		{0.5, true},
		{1, false},
		{2, true},
		{2.5, true},
		{3, true},
		{3.5, false},
		{math.NaN(), false},
	}
	for _, c := range cases {
		if got := d.Contains(c.x); got != c.want {
			t.Errorf("%v in %v: want %t, got %t", c.x, d, c.want, got)
		}
	}
}

func TestDomainString(t *testing.T) {
	inf := math.Inf(1)
	cases := []struct {
		d    *Domain
		want string
	}{
		{NewDomain().Closed(-1, 1).Build(), "[-1, 1]"},
		{NewDomain().Open(0, inf).Build(), "(0, inf)"},
		{NewDomain().Range(1, true, inf, true).Build(), "[1, inf)"},
		{NewDomain().Open(1, inf).Open(-inf, -1).Build(), "(-inf, -1) ∪ (1, inf)"},
	}
	for _, c := range cases {
		if got := c.d.String(); got != c.want {
			t.Errorf("wrong string: want %q, got %q", c.want, got)
		}
	}
}

func TestDomainRanges(t *testing.T) {
	b := NewDomain().Closed(5, 6)
	d := b.Build()
	b.Closed(0, 1)
	if len(d.Ranges()) != 1 {
		t.Errorf("built domain changed with its builder: %v", d)
	}
	r := d.Ranges()
	r[0].Low.Value = -100
	if d.Contains(0) {
		t.Errorf("domain shares ranges with Ranges")
	}
	if catch(func() { NewDomain().Closed(1, 0) }) == nil {
		t.Errorf("inverted range did not panic")
	}
}

func TestFuncDomains(t *testing.T) {
	cases := []struct {
		fn   Func
		in   []float64
		out  []float64
		none bool
	}{
		{fn: FuncArcsin, in: []float64{-1, 0, 1}, out: []float64{-1.5, 1.5}},
		{fn: FuncArcosh, in: []float64{1, 10}, out: []float64{0.5, -1}},
		{fn: FuncArtanh, in: []float64{-0.5, 0.5}, out: []float64{-1, 1}},
		{fn: FuncLn, in: []float64{1e-300, 5}, out: []float64{0, -1}},
		{fn: FuncArcsec, in: []float64{-2, -1, 1, 2}, out: []float64{0, 0.5}},
		{fn: FuncSin, none: true},
	}
	for _, c := range cases {
		t.Run(c.fn.String(), func(t *testing.T) {
			d := c.fn.Domain()
			if c.none {
				if d != nil {
					t.Errorf("unexpected domain %v", d)
				}
				return
			}
			for _, x := range c.in {
				if !d.Contains(x) {
					t.Errorf("%v not in %v", x, d)
				}
			}
			for _, x := range c.out {
				if d.Contains(x) {
					t.Errorf("%v in %v", x, d)
				}
			}
		})
	}
}

func TestDomainError(t *testing.T) {
	_, err := EvalString("arccos(2)")
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("wrong error: want *DomainError, got %T (%v)", err, err)
	}
	if de.X != 2 || de.Arg != 1 || de.Func != "arccos" || de.Domain == nil {
		t.Errorf("wrong error fields: %+v", de)
	}
	const want = "2 outside domain of arccos [-1, 1] (argument 1)"
	if got := de.Error(); got != want {
		t.Errorf("wrong message: want %q, got %q", want, got)
	}
}
