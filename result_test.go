package mathexpr

import (
	"math"
	"math/big"
	"reflect"
	"strings"
	"testing"

	"github.com/zephyrtronium/mathexpr/units"
)

func quantity(v float64, d units.Dimension) units.Quantity {
	return units.Quantity{Value: v, Unit: units.BaseUnit(d)}
}

// resultKinds has a raw value of every result kind, with its rendering.
var resultKinds = []struct {
	kind ResultKind
	raw  any
	str  string
}{
	{KindEmpty, Empty{}, ""},
	{KindNumber, 2.5, "2.5"},
	{KindAngle, units.Angle{Value: 90, Unit: units.Degree}, "90°"},
	{KindPower, quantity(3, units.Power), "3 W"},
	{KindTemperature, quantity(300, units.Temperature), "300 K"},
	{KindMass, quantity(2, units.Mass), "2 kg"},
	{KindLength, quantity(5, units.Length), "5 m"},
	{KindTime, quantity(60, units.Time), "60 s"},
	{KindArea, quantity(4, units.Area), "4 m²"},
	{KindVolume, quantity(1, units.Volume), "1 m³"},
	{KindComplex, complex(3, 2), "3+2i"},
	{KindBool, true, "true"},
	{KindString, "hi", "hi"},
	{KindLambda, NewLambda([]string{"x"}, NewVariable("x")), "(x) => x"},
	{KindVector, Vector{1, 2}, "{1, 2}"},
	{KindMatrix, Matrix{{1, 2}, {3, 4}}, "{{1, 2}, {3, 4}}"},
	{KindRational, big.NewRat(1, 3), "1 // 3"},
}

// accessors has the non-panicking accessor of each kind.
var accessors = map[ResultKind]func(Result) bool{
	KindEmpty:       Result.IsEmpty,
	KindNumber:      func(r Result) bool { _, ok := r.Number(); return ok },
	KindAngle:       func(r Result) bool { _, ok := r.Angle(); return ok },
	KindPower:       func(r Result) bool { _, ok := r.Power(); return ok },
	KindTemperature: func(r Result) bool { _, ok := r.Temperature(); return ok },
	KindMass:        func(r Result) bool { _, ok := r.Mass(); return ok },
	KindLength:      func(r Result) bool { _, ok := r.Length(); return ok },
	KindTime:        func(r Result) bool { _, ok := r.Time(); return ok },
	KindArea:        func(r Result) bool { _, ok := r.Area(); return ok },
	KindVolume:      func(r Result) bool { _, ok := r.Volume(); return ok },
	KindComplex:     func(r Result) bool { _, ok := r.Complex(); return ok },
	KindBool:        func(r Result) bool { _, ok := r.Bool(); return ok },
	KindString:      func(r Result) bool { _, ok := r.Text(); return ok },
	KindLambda:      func(r Result) bool { _, ok := r.Lambda(); return ok },
	KindVector:      func(r Result) bool { _, ok := r.Vector(); return ok },
	KindMatrix:      func(r Result) bool { _, ok := r.Matrix(); return ok },
	KindRational:    func(r Result) bool { _, ok := r.Rational(); return ok },
}

// musts has the panicking accessor of each non-empty kind.
var musts = map[ResultKind]func(Result){
	KindNumber:      func(r Result) { r.MustNumber() },
	KindAngle:       func(r Result) { r.MustAngle() },
	KindPower:       func(r Result) { r.MustPower() },
	KindTemperature: func(r Result) { r.MustTemperature() },
	KindMass:        func(r Result) { r.MustMass() },
	KindLength:      func(r Result) { r.MustLength() },
	KindTime:        func(r Result) { r.MustTime() },
	KindArea:        func(r Result) { r.MustArea() },
	KindVolume:      func(r Result) { r.MustVolume() },
	KindComplex:     func(r Result) { r.MustComplex() },
	KindBool:        func(r Result) { r.MustBool() },
	KindString:      func(r Result) { r.MustText() },
	KindLambda:      func(r Result) { r.MustLambda() },
	KindVector:      func(r Result) { r.MustVector() },
	KindMatrix:      func(r Result) { r.MustMatrix() },
	KindRational:    func(r Result) { r.MustRational() },
}

func TestResultKinds(t *testing.T) {
	if len(resultKinds) != len(kindNames) {
		t.Fatalf("have %d kinds but test %d", len(kindNames), len(resultKinds))
	}
	for _, c := range resultKinds {
		t.Run(c.kind.String(), func(t *testing.T) {
			r, err := NewResult(c.raw)
			if err != nil {
				t.Fatalf("NewResult(%#v) failed: %v", c.raw, err)
			}
			if r.Kind() != c.kind {
				t.Errorf("wrong kind: want %v, got %v", c.kind, r.Kind())
			}
			if got := r.String(); got != c.str {
				t.Errorf("wrong string: want %q, got %q", c.str, got)
			}
			for k, f := range accessors {
				if f(r) != (k == c.kind) {
					t.Errorf("%v accessor on %v result gave %t", k, c.kind, f(r))
				}
			}
		})
	}
}

func TestResultMust(t *testing.T) {
	for _, c := range resultKinds {
		r, err := NewResult(c.raw)
		if err != nil {
			t.Fatal(err)
		}
		for k, f := range musts {
			err := catch(func() { f(r) })
			switch {
			case k == c.kind && err != nil:
				t.Errorf("Must%v on %v panicked: %v", k, c.kind, err)
			case k != c.kind:
				want := &CastError{Want: k, Have: c.kind}
				if !reflect.DeepEqual(err, want) {
					t.Errorf("Must%v on %v: want panic %v, got %v", k, c.kind, want, err)
				}
			}
		}
	}
}

// catch calls f and returns the value it panics with, if any.
func catch(f func()) (r any) {
	defer func() { r = recover() }()
	f()
	return nil
}

func TestResultZero(t *testing.T) {
	var r Result
	if !r.IsEmpty() || r.Kind() != KindEmpty || r.String() != "" {
		t.Errorf("zero result is not empty: %v %q", r.Kind(), r.String())
	}
	if _, ok := r.Value().(Empty); !ok {
		t.Errorf("zero result has value %#v", r.Value())
	}
	n, err := NewResult(nil)
	if err != nil || !n.IsEmpty() {
		t.Errorf("NewResult(nil) gave %v, %v", n, err)
	}
}

func TestResultInt(t *testing.T) {
	r, err := NewResult(3)
	if err != nil {
		t.Fatal(err)
	}
	if v, ok := r.Number(); !ok || v != 3 {
		t.Errorf("wrong value: %v %t", v, ok)
	}
}

func TestResultInvalid(t *testing.T) {
	cases := []struct {
		name string
		raw  any
	}{
		{"struct", struct{}{}},
		{"int8", int8(1)},
		{"empty-vector", Vector{}},
		{"empty-matrix", Matrix{}},
		{"ragged", Matrix{{1}, {1, 2}}},
		{"nil-rat", (*big.Rat)(nil)},
		{"nil-lambda", (*Lambda)(nil)},
		{"dimensionless", units.Quantity{Value: 1}},
		{"result", Result{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := NewResult(c.raw)
			if err == nil {
				t.Fatalf("NewResult(%#v) gave %v", c.raw, r)
			}
			if _, ok := err.(*InvalidResultError); !ok {
				t.Errorf("wrong error: want *InvalidResultError, got %T (%v)", err, err)
			}
		})
	}
}

func TestResultCopies(t *testing.T) {
	v := Vector{1, 2}
	r, _ := NewResult(v)
	v[0] = 9
	if got := r.MustVector(); got[0] != 1 {
		t.Errorf("result shares vector with its source: %v", got)
	}
	got, _ := r.Vector()
	got[1] = 9
	if r.MustVector()[1] != 2 {
		t.Errorf("result shares vector with its accessor: %v", r)
	}

	q := big.NewRat(1, 2)
	r, _ = NewResult(q)
	q.SetInt64(5)
	if r.MustRational().Cmp(big.NewRat(1, 2)) != 0 {
		t.Errorf("result shares rational with its source: %v", r)
	}

	m := Matrix{{1, 2}, {3, 4}}
	r, _ = NewResult(m)
	m[1][1] = 0
	r.MustMatrix()[0][0] = 0
	if !reflect.DeepEqual(r.MustMatrix(), Matrix{{1, 2}, {3, 4}}) {
		t.Errorf("result shares matrix storage: %v", r)
	}
}

func TestResultKindString(t *testing.T) {
	if got := KindRational.String(); got != "rational" {
		t.Errorf("wrong name: %q", got)
	}
	if got := ResultKind(200).String(); got != "ResultKind(200)" {
		t.Errorf("wrong name for invalid kind: %q", got)
	}
}

func TestComplexString(t *testing.T) {
	negz := math.Copysign(0, -1)
	cases := []struct {
		c    complex128
		want string
	}{
		{complex(3, negz), "3+0i"},
		{complex(negz, 2), "0+2i"},
		{complex(negz, negz), "0+0i"},
		{complex(1, -2), "1-2i"},
		{complex(-1.5, 0.5), "-1.5+0.5i"},
	}
	for _, c := range cases {
		r, err := NewResult(c.c)
		if err != nil {
			t.Fatal(err)
		}
		if got := r.String(); got != c.want {
			t.Errorf("wrong string for %v: want %q, got %q", c.c, c.want, got)
		}
	}

	r, err := EvalString("cos(2i)")
	if err != nil {
		t.Fatal(err)
	}
	if s := r.String(); !strings.HasSuffix(s, "+0i") {
		t.Errorf("cos(2i) rendered with signed zero: %q", s)
	}
}
