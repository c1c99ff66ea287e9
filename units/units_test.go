package units

import (
	"math"
	"sort"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(b))
}

func unit(t *testing.T, sym string) Unit {
	t.Helper()
	u, ok := Lookup(sym)
	if !ok {
		t.Fatalf("no unit %q", sym)
	}
	return u
}

func TestAngleTo(t *testing.T) {
	cases := []struct {
		a    Angle
		to   AngleUnit
		want float64
	}{
		{Angle{180, Degree}, Radian, math.Pi},
		{Angle{math.Pi, Radian}, Gradian, 200},
		{Angle{100, Gradian}, Degree, 90},
		{Angle{-90, Degree}, Gradian, -100},
		{Angle{2, Radian}, Radian, 2},
	}
	for _, c := range cases {
		got := c.a.To(c.to)
		if got.Unit != c.to || !near(got.Value, c.want) {
			t.Errorf("%v to %v: want %v, got %v", c.a, c.to, c.want, got)
		}
	}
}

func TestAngleString(t *testing.T) {
	cases := []struct {
		a    Angle
		want string
	}{
		{Angle{90, Degree}, "90°"},
		{Angle{1.5, Radian}, "1.5 rad"},
		{Angle{100, Gradian}, "100 grad"},
	}
	for _, c := range cases {
		if got := c.a.String(); got != c.want {
			t.Errorf("wrong string: want %q, got %q", c.want, got)
		}
	}
	if got := AngleUnit(9).String(); got != "AngleUnit(9)" {
		t.Errorf("wrong name for invalid unit: %q", got)
	}
}

func TestParseAngleUnit(t *testing.T) {
	cases := map[string]AngleUnit{
		"°":        Degree,
		"deg":      Degree,
		"radians":  Radian,
		"rad":      Radian,
		"gradian":  Gradian,
		"grad":     Gradian,
		"degrees":  Degree,
		"gradians": Gradian,
	}
	for s, want := range cases {
		got, ok := ParseAngleUnit(s)
		if !ok || got != want {
			t.Errorf("%q: want %v, got %v (%t)", s, want, got, ok)
		}
	}
	if _, ok := ParseAngleUnit("turn"); ok {
		t.Error("parsed unknown angle unit")
	}
}

func TestQuantityTo(t *testing.T) {
	cases := []struct {
		v        float64
		from, to string
		want     float64
	}{
		{5, "m", "km", 0.005},
		{0, "°C", "K", 273.15},
		{212, "°F", "°C", 100},
		{1, "mi", "ft", 5280},
		{2, "h", "min", 120},
		{1, "ha", "m²", 1e4},
		{1, "l", "ml", 1000},
		{1, "kW", "W", 1000},
		{1, "lb", "oz", 16},
	}
	for _, c := range cases {
		t.Run(c.from+"-"+c.to, func(t *testing.T) {
			q := Quantity{Value: c.v, Unit: unit(t, c.from)}
			got, err := q.To(unit(t, c.to))
			if err != nil {
				t.Fatal(err)
			}
			if got.Unit.Symbol() != c.to || !near(got.Value, c.want) {
				t.Errorf("wrong conversion: want %v %s, got %v", c.want, c.to, got)
			}
		})
	}
}

func TestConversionError(t *testing.T) {
	q := Quantity{Value: 1, Unit: unit(t, "m")}
	_, err := q.To(unit(t, "kg"))
	e, ok := err.(*ConversionError)
	if !ok {
		t.Fatalf("wrong error: want *ConversionError, got %T (%v)", err, err)
	}
	if e.From != "m" || e.To != "kg" {
		t.Errorf("wrong error fields: %+v", e)
	}
	if got, want := e.Error(), `cannot convert "m" to "kg"`; got != want {
		t.Errorf("wrong message: want %q, got %q", want, got)
	}
	if _, err := q.Cmp(Quantity{Value: 1, Unit: unit(t, "s")}); err == nil {
		t.Error("compared length to time")
	}
}

func TestQuantityArithmetic(t *testing.T) {
	km, m := unit(t, "km"), unit(t, "m")
	s, err := Quantity{1, km}.Add(Quantity{500, m})
	if err != nil {
		t.Fatal(err)
	}
	if s.Unit != km || !near(s.Value, 1.5) {
		t.Errorf("wrong sum: %v", s)
	}
	d, err := Quantity{1, km}.Sub(Quantity{1500, m})
	if err != nil {
		t.Fatal(err)
	}
	if !near(d.Value, -0.5) {
		t.Errorf("wrong difference: %v", d)
	}
	if c, err := (Quantity{1, km}).Cmp(Quantity{999, m}); err != nil || c != 1 {
		t.Errorf("wrong comparison: %d, %v", c, err)
	}
	if c, err := (Quantity{1, km}).Cmp(Quantity{1000, m}); err != nil || c != 0 {
		t.Errorf("wrong comparison: %d, %v", c, err)
	}
	if q := (Quantity{3, km}).Scale(2); q.Value != 6 || q.Unit != km {
		t.Errorf("wrong scale: %v", q)
	}
}

func TestDimensions(t *testing.T) {
	m, kg := unit(t, "m"), unit(t, "kg")
	a, ok := Mul(Quantity{2, m}, Quantity{3, m})
	if !ok || a.Unit != BaseUnit(Area) || a.Value != 6 {
		t.Errorf("wrong area: %v %t", a, ok)
	}
	v, ok := Mul(a, Quantity{100, unit(t, "cm")})
	if !ok || v.Unit.Dim() != Volume || !near(v.Value, 6) {
		t.Errorf("wrong volume: %v %t", v, ok)
	}
	if _, ok := Mul(Quantity{1, m}, Quantity{1, kg}); ok {
		t.Error("multiplied length by mass")
	}
	l, ok := Div(a, Quantity{2, m})
	if !ok || l.Unit != m || l.Value != 3 {
		t.Errorf("wrong quotient: %v %t", l, ok)
	}
	if _, ok := Div(Quantity{1, m}, Quantity{1, m}); ok {
		t.Error("divided length into a quantity")
	}
	r, ok := Ratio(Quantity{1, unit(t, "km")}, Quantity{1, m})
	if !ok || r != 1000 {
		t.Errorf("wrong ratio: %v %t", r, ok)
	}
	if _, ok := Ratio(Quantity{1, m}, Quantity{1, kg}); ok {
		t.Error("ratio of length to mass")
	}
}

func TestLookup(t *testing.T) {
	u := unit(t, "us")
	if u.Symbol() != "μs" || u.Dim() != Time {
		t.Errorf("wrong alias: %v (%v)", u, u.Dim())
	}
	for _, s := range []string{"kg", "rad", "°", "°F", "gal"} {
		if !IsUnit(s) {
			t.Errorf("%q is not a unit", s)
		}
	}
	for _, s := range []string{"x", "", "KG"} {
		if IsUnit(s) {
			t.Errorf("%q is a unit", s)
		}
	}
	syms := Symbols()
	if !sort.StringsAreSorted(syms) {
		t.Error("symbols are not sorted")
	}
	if i := sort.SearchStrings(syms, "kg"); i == len(syms) || syms[i] != "kg" {
		t.Error("symbols lack kg")
	}
}

func TestBaseUnit(t *testing.T) {
	cases := map[Dimension]string{
		Power:       "W",
		Temperature: "K",
		Mass:        "kg",
		Length:      "m",
		Time:        "s",
		Area:        "m²",
		Volume:      "m³",
	}
	for d, want := range cases {
		if got := BaseUnit(d).Symbol(); got != want {
			t.Errorf("%v: want %q, got %q", d, want, got)
		}
	}
	defer func() {
		if recover() == nil {
			t.Error("no panic for dimensionless base unit")
		}
	}()
	BaseUnit(None)
}
