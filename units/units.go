// Package units implements the angle and physical quantity values that
// expressions evaluate to, with conversion between units of one dimension.
//
// Every unit of a dimension is defined by its factor and offset relative to
// the dimension's base unit, so converting a value is a trip through the base
// unit: base = (value + offset) × factor.
package units

import (
	"math"
	"strconv"
)

// AngleUnit is a unit in which an angle is measured.
type AngleUnit uint8

const (
	Degree AngleUnit = iota
	Radian
	Gradian
)

func (u AngleUnit) String() string {
	switch u {
	case Degree:
		return "degree"
	case Radian:
		return "radian"
	case Gradian:
		return "gradian"
	default:
		return "AngleUnit(" + strconv.Itoa(int(u)) + ")"
	}
}

// Symbol returns the symbol used to write an angle in the unit.
func (u AngleUnit) Symbol() string {
	switch u {
	case Degree:
		return "°"
	case Radian:
		return "rad"
	case Gradian:
		return "grad"
	default:
		panic("units: invalid angle unit " + u.String())
	}
}

// perRadian is the size of a full turn in each angle unit divided by 2π.
func (u AngleUnit) perRadian() float64 {
	switch u {
	case Degree:
		return 180 / math.Pi
	case Radian:
		return 1
	case Gradian:
		return 200 / math.Pi
	default:
		panic("units: invalid angle unit " + u.String())
	}
}

// ParseAngleUnit finds the angle unit for a name or symbol.
func ParseAngleUnit(s string) (AngleUnit, bool) {
	switch s {
	case "°", "deg", "degree", "degrees":
		return Degree, true
	case "rad", "radian", "radians":
		return Radian, true
	case "grad", "gradian", "gradians":
		return Gradian, true
	}
	return 0, false
}

// Angle is an angle measured in a particular unit.
type Angle struct {
	Value float64
	Unit  AngleUnit
}

// FromRadians creates an angle of r radians expressed in unit u.
func FromRadians(r float64, u AngleUnit) Angle {
	return Angle{Value: r * u.perRadian(), Unit: u}
}

// Radians returns the angle in radians. Degrees convert as deg·π/180 and
// gradians as grad·π/200.
func (a Angle) Radians() float64 {
	switch a.Unit {
	case Degree:
		return a.Value * math.Pi / 180
	case Radian:
		return a.Value
	case Gradian:
		return a.Value * math.Pi / 200
	default:
		panic("units: invalid angle unit " + a.Unit.String())
	}
}

// To converts the angle to another unit.
func (a Angle) To(u AngleUnit) Angle {
	if a.Unit == u {
		return a
	}
	return FromRadians(a.Radians(), u)
}

func (a Angle) String() string {
	v := strconv.FormatFloat(a.Value, 'g', -1, 64)
	if a.Unit == Degree {
		return v + "°"
	}
	return v + " " + a.Unit.Symbol()
}

// Dimension is the physical dimension of a quantity.
type Dimension uint8

const (
	// None is the zero Dimension. No unit has it.
	None Dimension = iota
	Power
	Temperature
	Mass
	Length
	Time
	Area
	Volume
)

func (d Dimension) String() string {
	switch d {
	case None:
		return "none"
	case Power:
		return "power"
	case Temperature:
		return "temperature"
	case Mass:
		return "mass"
	case Length:
		return "length"
	case Time:
		return "time"
	case Area:
		return "area"
	case Volume:
		return "volume"
	default:
		return "Dimension(" + strconv.Itoa(int(d)) + ")"
	}
}

// Unit is a unit of measure of some dimension. Units are comparable.
type Unit struct {
	symbol string
	dim    Dimension
	factor float64
	offset float64
}

// Symbol returns the symbol for the unit, e.g. "kg".
func (u Unit) Symbol() string { return u.symbol }

// Dim returns the dimension the unit measures.
func (u Unit) Dim() Dimension { return u.dim }

func (u Unit) String() string { return u.symbol }

// Quantity is a value with a unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Base returns the value of q in the base unit of its dimension.
func (q Quantity) Base() float64 {
	return (q.Value + q.Unit.offset) * q.Unit.factor
}

// To converts q to another unit of the same dimension.
func (q Quantity) To(u Unit) (Quantity, error) {
	if q.Unit == u {
		return q, nil
	}
	if q.Unit.dim != u.dim {
		return Quantity{}, &ConversionError{From: q.Unit.symbol, To: u.symbol}
	}
	return FromBase(q.Base(), u), nil
}

// FromBase creates a quantity in unit u from a value in the base unit of u's
// dimension.
func FromBase(v float64, u Unit) Quantity {
	return Quantity{Value: v/u.factor - u.offset, Unit: u}
}

// Scale multiplies the value of q by f, keeping its unit.
func (q Quantity) Scale(f float64) Quantity {
	return Quantity{Value: q.Value * f, Unit: q.Unit}
}

// Add adds r to q in q's unit.
func (q Quantity) Add(r Quantity) (Quantity, error) {
	r, err := r.To(q.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: q.Value + r.Value, Unit: q.Unit}, nil
}

// Sub subtracts r from q in q's unit.
func (q Quantity) Sub(r Quantity) (Quantity, error) {
	r, err := r.To(q.Unit)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{Value: q.Value - r.Value, Unit: q.Unit}, nil
}

// Cmp compares q and r, which must have the same dimension.
func (q Quantity) Cmp(r Quantity) (int, error) {
	if q.Unit.dim != r.Unit.dim {
		return 0, &ConversionError{From: r.Unit.symbol, To: q.Unit.symbol}
	}
	a, b := q.Base(), r.Base()
	switch {
	case a < b:
		return -1, nil
	case a > b:
		return 1, nil
	}
	return 0, nil
}

// Mul multiplies two quantities whose dimensions combine into another: length
// by length is area and length by area is volume. The result is in base units.
func Mul(q, r Quantity) (Quantity, bool) {
	switch {
	case q.Unit.dim == Length && r.Unit.dim == Length:
		return FromBase(q.Base()*r.Base(), BaseUnit(Area)), true
	case q.Unit.dim == Length && r.Unit.dim == Area,
		q.Unit.dim == Area && r.Unit.dim == Length:
		return FromBase(q.Base()*r.Base(), BaseUnit(Volume)), true
	}
	return Quantity{}, false
}

// Ratio divides two quantities of the same dimension.
func Ratio(q, r Quantity) (float64, bool) {
	if q.Unit.dim != r.Unit.dim {
		return 0, false
	}
	return q.Base() / r.Base(), true
}

// Div divides area or volume by length or area. The result is in base units.
func Div(q, r Quantity) (Quantity, bool) {
	switch {
	case q.Unit.dim == Area && r.Unit.dim == Length:
		return FromBase(q.Base()/r.Base(), BaseUnit(Length)), true
	case q.Unit.dim == Volume && r.Unit.dim == Length:
		return FromBase(q.Base()/r.Base(), BaseUnit(Area)), true
	case q.Unit.dim == Volume && r.Unit.dim == Area:
		return FromBase(q.Base()/r.Base(), BaseUnit(Length)), true
	}
	return Quantity{}, false
}

func (q Quantity) String() string {
	return strconv.FormatFloat(q.Value, 'g', -1, 64) + " " + q.Unit.symbol
}

// ConversionError is an error converting between units of different
// dimensions, or to a unit which does not exist.
type ConversionError struct {
	From, To string
}

func (err *ConversionError) Error() string {
	return "cannot convert " + strconv.Quote(err.From) + " to " + strconv.Quote(err.To)
}
