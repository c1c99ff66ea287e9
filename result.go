package mathexpr

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/zephyrtronium/mathexpr/units"
)

// ResultKind is the kind of value a Result holds.
type ResultKind uint8

const (
	KindEmpty ResultKind = iota
	KindNumber
	KindAngle
	KindPower
	KindTemperature
	KindMass
	KindLength
	KindTime
	KindArea
	KindVolume
	KindComplex
	KindBool
	KindString
	KindLambda
	KindVector
	KindMatrix
	KindRational
)

var kindNames = [...]string{
	KindEmpty:       "empty",
	KindNumber:      "number",
	KindAngle:       "angle",
	KindPower:       "power",
	KindTemperature: "temperature",
	KindMass:        "mass",
	KindLength:      "length",
	KindTime:        "time",
	KindArea:        "area",
	KindVolume:      "volume",
	KindComplex:     "complex",
	KindBool:        "bool",
	KindString:      "string",
	KindLambda:      "lambda",
	KindVector:      "vector",
	KindMatrix:      "matrix",
	KindRational:    "rational",
}

func (k ResultKind) String() string {
	if int(k) >= len(kindNames) {
		return "ResultKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// quantityKinds maps unit dimensions to result kinds.
var quantityKinds = map[units.Dimension]ResultKind{
	units.Power:       KindPower,
	units.Temperature: KindTemperature,
	units.Mass:        KindMass,
	units.Length:      KindLength,
	units.Time:        KindTime,
	units.Area:        KindArea,
	units.Volume:      KindVolume,
}

// Result is the value of an executed expression. Exactly one kind of value is
// active. The zero Result is empty.
type Result struct {
	kind ResultKind
	v    any
}

// NewResult creates a result from a raw value. The raw value must be one of
// nil, Empty, float64, int, units.Angle, units.Quantity, complex128, bool,
// string, *Lambda, Vector, Matrix, or *big.Rat; otherwise the error is an
// *InvalidResultError. Slices and rationals are copied.
func NewResult(raw any) (Result, error) {
	switch v := raw.(type) {
	case nil, Empty:
		return Result{}, nil
	case float64:
		return Result{kind: KindNumber, v: v}, nil
	case int:
		return Result{kind: KindNumber, v: float64(v)}, nil
	case units.Angle:
		return Result{kind: KindAngle, v: v}, nil
	case units.Quantity:
		k, ok := quantityKinds[v.Unit.Dim()]
		if !ok {
			return Result{}, &InvalidResultError{Value: raw}
		}
		return Result{kind: k, v: v}, nil
	case complex128:
		return Result{kind: KindComplex, v: v}, nil
	case bool:
		return Result{kind: KindBool, v: v}, nil
	case string:
		return Result{kind: KindString, v: v}, nil
	case *Lambda:
		if v == nil {
			return Result{}, &InvalidResultError{Value: raw}
		}
		return Result{kind: KindLambda, v: v}, nil
	case Vector:
		if len(v) == 0 {
			return Result{}, &InvalidResultError{Value: raw}
		}
		return Result{kind: KindVector, v: append(Vector(nil), v...)}, nil
	case Matrix:
		if len(v) == 0 || len(v[0]) == 0 {
			return Result{}, &InvalidResultError{Value: raw}
		}
		for _, r := range v {
			if len(r) != len(v[0]) {
				return Result{}, &InvalidResultError{Value: raw}
			}
		}
		return Result{kind: KindMatrix, v: v.clone()}, nil
	case *big.Rat:
		if v == nil {
			return Result{}, &InvalidResultError{Value: raw}
		}
		return Result{kind: KindRational, v: new(big.Rat).Set(v)}, nil
	default:
		return Result{}, &InvalidResultError{Value: raw}
	}
}

// Kind returns the kind of the active value.
func (r Result) Kind() ResultKind {
	return r.kind
}

// Value returns the active value as the raw type NewResult accepts. An empty
// result returns Empty.
func (r Result) Value() any {
	switch v := r.v.(type) {
	case nil:
		return Empty{}
	case Vector:
		return append(Vector(nil), v...)
	case Matrix:
		return v.clone()
	case *big.Rat:
		return new(big.Rat).Set(v)
	default:
		return v
	}
}

// IsEmpty returns whether the result has no value.
func (r Result) IsEmpty() bool {
	return r.kind == KindEmpty
}

// Number returns the value if it is a plain number.
func (r Result) Number() (float64, bool) {
	v, ok := r.v.(float64)
	return v, ok
}

// Angle returns the value if it is an angle.
func (r Result) Angle() (units.Angle, bool) {
	v, ok := r.v.(units.Angle)
	return v, ok
}

func (r Result) quantity(k ResultKind) (units.Quantity, bool) {
	if r.kind != k {
		return units.Quantity{}, false
	}
	return r.v.(units.Quantity), true
}

// Power returns the value if it is a power quantity.
func (r Result) Power() (units.Quantity, bool) { return r.quantity(KindPower) }

// Temperature returns the value if it is a temperature.
func (r Result) Temperature() (units.Quantity, bool) { return r.quantity(KindTemperature) }

// Mass returns the value if it is a mass.
func (r Result) Mass() (units.Quantity, bool) { return r.quantity(KindMass) }

// Length returns the value if it is a length.
func (r Result) Length() (units.Quantity, bool) { return r.quantity(KindLength) }

// Time returns the value if it is a duration.
func (r Result) Time() (units.Quantity, bool) { return r.quantity(KindTime) }

// Area returns the value if it is an area.
func (r Result) Area() (units.Quantity, bool) { return r.quantity(KindArea) }

// Volume returns the value if it is a volume.
func (r Result) Volume() (units.Quantity, bool) { return r.quantity(KindVolume) }

// Complex returns the value if it is a complex number.
func (r Result) Complex() (complex128, bool) {
	v, ok := r.v.(complex128)
	return v, ok
}

// Bool returns the value if it is a boolean.
func (r Result) Bool() (bool, bool) {
	v, ok := r.v.(bool)
	return v, ok
}

// Text returns the value if it is a string.
func (r Result) Text() (string, bool) {
	v, ok := r.v.(string)
	return v, ok
}

// Lambda returns the value if it is a lambda.
func (r Result) Lambda() (*Lambda, bool) {
	v, ok := r.v.(*Lambda)
	return v, ok
}

// Vector returns a copy of the value if it is a vector.
func (r Result) Vector() (Vector, bool) {
	v, ok := r.v.(Vector)
	if !ok {
		return nil, false
	}
	return append(Vector(nil), v...), true
}

// Matrix returns a copy of the value if it is a matrix.
func (r Result) Matrix() (Matrix, bool) {
	v, ok := r.v.(Matrix)
	if !ok {
		return nil, false
	}
	return v.clone(), true
}

// Rational returns a copy of the value if it is a rational number.
func (r Result) Rational() (*big.Rat, bool) {
	v, ok := r.v.(*big.Rat)
	if !ok {
		return nil, false
	}
	return new(big.Rat).Set(v), true
}

func (r Result) must(k ResultKind) {
	if r.kind != k {
		panic(&CastError{Want: k, Have: r.kind})
	}
}

// MustNumber returns the value if it is a plain number. Otherwise, it panics
// with a *CastError. The other Must methods are similar.
func (r Result) MustNumber() float64 {
	r.must(KindNumber)
	return r.v.(float64)
}

func (r Result) MustAngle() units.Angle {
	r.must(KindAngle)
	return r.v.(units.Angle)
}

func (r Result) MustPower() units.Quantity {
	r.must(KindPower)
	return r.v.(units.Quantity)
}

func (r Result) MustTemperature() units.Quantity {
	r.must(KindTemperature)
	return r.v.(units.Quantity)
}

func (r Result) MustMass() units.Quantity {
	r.must(KindMass)
	return r.v.(units.Quantity)
}

func (r Result) MustLength() units.Quantity {
	r.must(KindLength)
	return r.v.(units.Quantity)
}

func (r Result) MustTime() units.Quantity {
	r.must(KindTime)
	return r.v.(units.Quantity)
}

func (r Result) MustArea() units.Quantity {
	r.must(KindArea)
	return r.v.(units.Quantity)
}

func (r Result) MustVolume() units.Quantity {
	r.must(KindVolume)
	return r.v.(units.Quantity)
}

func (r Result) MustComplex() complex128 {
	r.must(KindComplex)
	return r.v.(complex128)
}

func (r Result) MustBool() bool {
	r.must(KindBool)
	return r.v.(bool)
}

func (r Result) MustText() string {
	r.must(KindString)
	return r.v.(string)
}

func (r Result) MustLambda() *Lambda {
	r.must(KindLambda)
	return r.v.(*Lambda)
}

func (r Result) MustVector() Vector {
	r.must(KindVector)
	return append(Vector(nil), r.v.(Vector)...)
}

func (r Result) MustMatrix() Matrix {
	r.must(KindMatrix)
	return r.v.(Matrix).clone()
}

func (r Result) MustRational() *big.Rat {
	r.must(KindRational)
	return new(big.Rat).Set(r.v.(*big.Rat))
}

// String renders the value. Complex numbers render like 3+2i and rationals
// like 1 // 3. An empty result renders as the empty string.
func (r Result) String() string {
	switch v := r.v.(type) {
	case nil:
		return ""
	case float64:
		return fmtFloat(v)
	case units.Angle:
		return v.String()
	case units.Quantity:
		return v.String()
	case complex128:
		return fmtComplex(v)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	case *Lambda:
		return v.String()
	case Vector:
		return v.String()
	case Matrix:
		return v.String()
	case *big.Rat:
		return fmtRat(v)
	default:
		panic("mathexpr: invalid result value")
	}
}

func fmtComplex(c complex128) string {
	// Zero parts are always rendered unsigned.
	re, im := real(c), imag(c)
	if re == 0 {
		re = 0
	}
	if im == 0 {
		im = 0
	}
	s := strconv.FormatComplex(complex(re, im), 'g', -1, 128)
	return s[1 : len(s)-1]
}

func fmtRat(r *big.Rat) string {
	if r.IsInt() {
		return r.Num().String()
	}
	return r.Num().String() + " // " + r.Denom().String()
}

// InvalidResultError indicates a raw value that is not any kind of Result.
type InvalidResultError struct {
	Value any
}

func (err *InvalidResultError) Error() string {
	return "invalid result value of type " + typeName(err.Value)
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return kindName(v) + " (" + fmt.Sprintf("%T", v) + ")"
}

// CastError is the panic value of a strict Result accessor applied to the
// wrong kind of value.
type CastError struct {
	Want, Have ResultKind
}

func (err *CastError) Error() string {
	return "result is " + err.Have.String() + ", not " + err.Want.String()
}
