package mathexpr

import (
	"math"
	"math/big"
	"math/cmplx"
	"strconv"
	"strings"

	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/mathexpr/units"
)

// numeric returns whether v is a plain number, rational, or complex number.
func numeric(v any) bool {
	switch v.(type) {
	case float64, *big.Rat, complex128:
		return true
	}
	return false
}

// isReal returns whether v is a plain number or rational.
func isReal(v any) bool {
	switch v.(type) {
	case float64, *big.Rat:
		return true
	}
	return false
}

// toFloat converts a real value to a plain number.
func toFloat(v any) float64 {
	switch v := v.(type) {
	case float64:
		return v
	case *big.Rat:
		f, _ := v.Float64()
		return f
	default:
		panic("mathexpr: toFloat on " + kindName(v))
	}
}

// toComplex converts a numeric value to a complex number.
func toComplex(v any) complex128 {
	if c, ok := v.(complex128); ok {
		return c
	}
	return complex(toFloat(v), 0)
}

// demote converts a rational to a plain number so that it combines with
// non-numeric values as a number does.
func demote(v any) any {
	if r, ok := v.(*big.Rat); ok {
		f, _ := r.Float64()
		return f
	}
	return v
}

// integral returns whether f is a finite integer.
func integral(f float64) bool {
	return f == math.Trunc(f) && !math.IsInf(f, 0)
}

// maxExact is the largest magnitude below which every integer is exact in a
// float64.
const maxExact = 1 << 53

// toInt converts an integral real value to an int64.
func toInt(v any) (int64, bool) {
	switch v := v.(type) {
	case float64:
		if !integral(v) || math.Abs(v) > maxExact {
			return 0, false
		}
		return int64(v), true
	case *big.Rat:
		if !v.IsInt() || !v.Num().IsInt64() {
			return 0, false
		}
		return v.Num().Int64(), true
	}
	return 0, false
}

// toBigInt converts an integral real value to a big.Int.
func toBigInt(v any) (*big.Int, bool) {
	switch v := v.(type) {
	case float64:
		if !integral(v) {
			return nil, false
		}
		i, _ := big.NewFloat(v).Int(nil)
		return i, true
	case *big.Rat:
		if !v.IsInt() {
			return nil, false
		}
		return new(big.Int).Set(v.Num()), true
	}
	return nil, false
}

// ratOf converts a plain number to the rational with the same shortest
// decimal representation, so that 0.1 becomes 1/10.
func ratOf(f float64) (*big.Rat, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, false
	}
	return new(big.Rat).SetString(strconv.FormatFloat(f, 'g', -1, 64))
}

// toRat converts a real value to a rational.
func toRat(v any) (*big.Rat, bool) {
	switch v := v.(type) {
	case float64:
		return ratOf(v)
	case *big.Rat:
		return v, true
	}
	return nil, false
}

// arith applies an arithmetic operator to numeric values. Two rationals
// combine exactly with r, complex numbers with c, and other real values with
// f. The result is false if either value is not numeric.
func arith(x, y any, f func(a, b float64) float64, r func(z, a, b *big.Rat) *big.Rat, c func(a, b complex128) complex128) (any, bool) {
	if !numeric(x) || !numeric(y) {
		return nil, false
	}
	xr, xok := x.(*big.Rat)
	yr, yok := y.(*big.Rat)
	if xok && yok {
		return r(new(big.Rat), xr, yr), true
	}
	_, xc := x.(complex128)
	_, yc := y.(complex128)
	if xc || yc {
		return c(toComplex(x), toComplex(y)), true
	}
	return f(toFloat(x), toFloat(y)), true
}

// binary applies a binary operator to two values. The logical operators here
// are not short-circuited; the executor handles that.
func binary(op BinaryOp, x, y any, ctx *Context) (any, error) {
	switch op {
	case OpAdd:
		return add(x, y)
	case OpSub:
		return sub(x, y)
	case OpMul:
		return mul(x, y)
	case OpDiv:
		return div(x, y)
	case OpPow:
		return pow(x, y, ctx)
	case OpMod:
		return mod(x, y)
	case OpRational:
		return rational(x, y)
	case OpEq:
		return equal(x, y), nil
	case OpNe:
		return !equal(x, y), nil
	case OpLt, OpLe, OpGt, OpGe:
		return compare(op, x, y)
	case OpAnd, OpOr, OpXor, OpNand, OpNor, OpImpl, OpEquality:
		return logic(op, x, y)
	default:
		panic("mathexpr: unknown binary operator " + op.String())
	}
}

func add(x, y any) (any, error) {
	if v, ok := arith(x, y, func(a, b float64) float64 { return a + b }, (*big.Rat).Add, func(a, b complex128) complex128 { return a + b }); ok {
		return v, nil
	}
	switch x := demote(x).(type) {
	case float64:
		if y, ok := y.(units.Angle); ok {
			return units.Angle{Value: x + y.Value, Unit: y.Unit}, nil
		}
	case units.Angle:
		switch y := demote(y).(type) {
		case units.Angle:
			return units.Angle{Value: x.Value + y.To(x.Unit).Value, Unit: x.Unit}, nil
		case float64:
			return units.Angle{Value: x.Value + y, Unit: x.Unit}, nil
		}
	case units.Quantity:
		if y, ok := y.(units.Quantity); ok {
			q, err := x.Add(y)
			if err != nil {
				return nil, err
			}
			return q, nil
		}
	case string:
		if y, ok := y.(string); ok {
			return x + y, nil
		}
	case Vector:
		if y, ok := y.(Vector); ok {
			return elementwise("+", x, y, func(a, b float64) float64 { return a + b })
		}
	case Matrix:
		if y, ok := y.(Matrix); ok {
			return elementwise("+", x, y, func(a, b float64) float64 { return a + b })
		}
	}
	return nil, notSupported("+", x, y)
}

func sub(x, y any) (any, error) {
	if v, ok := arith(x, y, func(a, b float64) float64 { return a - b }, (*big.Rat).Sub, func(a, b complex128) complex128 { return a - b }); ok {
		return v, nil
	}
	switch x := demote(x).(type) {
	case float64:
		if y, ok := y.(units.Angle); ok {
			return units.Angle{Value: x - y.Value, Unit: y.Unit}, nil
		}
	case units.Angle:
		switch y := demote(y).(type) {
		case units.Angle:
			return units.Angle{Value: x.Value - y.To(x.Unit).Value, Unit: x.Unit}, nil
		case float64:
			return units.Angle{Value: x.Value - y, Unit: x.Unit}, nil
		}
	case units.Quantity:
		if y, ok := y.(units.Quantity); ok {
			q, err := x.Sub(y)
			if err != nil {
				return nil, err
			}
			return q, nil
		}
	case Vector:
		if y, ok := y.(Vector); ok {
			return elementwise("-", x, y, func(a, b float64) float64 { return a - b })
		}
	case Matrix:
		if y, ok := y.(Matrix); ok {
			return elementwise("-", x, y, func(a, b float64) float64 { return a - b })
		}
	}
	return nil, notSupported("-", x, y)
}

func mul(x, y any) (any, error) {
	if v, ok := arith(x, y, func(a, b float64) float64 { return a * b }, (*big.Rat).Mul, func(a, b complex128) complex128 { return a * b }); ok {
		return v, nil
	}
	x, y = demote(x), demote(y)
	// Scaling commutes, so put the number first.
	if _, ok := y.(float64); ok {
		x, y = y, x
	}
	switch x := x.(type) {
	case float64:
		switch y := y.(type) {
		case units.Angle:
			return units.Angle{Value: x * y.Value, Unit: y.Unit}, nil
		case units.Quantity:
			return y.Scale(x), nil
		case Vector, Matrix:
			return scale(y, func(v float64) float64 { return x * v }), nil
		}
	case units.Quantity:
		if y, ok := y.(units.Quantity); ok {
			if q, ok := units.Mul(x, y); ok {
				return q, nil
			}
		}
	case Vector:
		switch y := y.(type) {
		case Vector:
			d, err := Dot(x, y)
			if err != nil {
				return nil, err
			}
			return d, nil
		case Matrix:
			m, err := MatMul(x.row(), y)
			if err != nil {
				return nil, err
			}
			return Vector(m[0]), nil
		}
	case Matrix:
		switch y := y.(type) {
		case Vector:
			m, err := MatMul(x, y.column())
			if err != nil {
				return nil, err
			}
			r := make(Vector, len(m))
			for i, row := range m {
				r[i] = row[0]
			}
			return r, nil
		case Matrix:
			m, err := MatMul(x, y)
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	return nil, notSupported("*", x, y)
}

func div(x, y any) (any, error) {
	if isReal(x) && isReal(y) {
		if xr, ok := x.(*big.Rat); ok {
			if yr, ok := y.(*big.Rat); ok {
				if yr.Sign() == 0 {
					return nil, &DomainError{X: 0, Arg: 2, Func: "/"}
				}
				return new(big.Rat).Quo(xr, yr), nil
			}
		}
		a, b := toFloat(x), toFloat(y)
		if a == 0 && b == 0 {
			return nil, &DomainError{X: b, Arg: 2, Func: "/"}
		}
		return a / b, nil
	}
	if numeric(x) && numeric(y) {
		return toComplex(x) / toComplex(y), nil
	}
	x, y = demote(x), demote(y)
	switch x := x.(type) {
	case units.Angle:
		switch y := y.(type) {
		case float64:
			return units.Angle{Value: x.Value / y, Unit: x.Unit}, nil
		case units.Angle:
			return x.Radians() / y.Radians(), nil
		}
	case units.Quantity:
		switch y := y.(type) {
		case float64:
			return units.Quantity{Value: x.Value / y, Unit: x.Unit}, nil
		case units.Quantity:
			if r, ok := units.Ratio(x, y); ok {
				return r, nil
			}
			if q, ok := units.Div(x, y); ok {
				return q, nil
			}
		}
	case Vector, Matrix:
		if y, ok := y.(float64); ok {
			return scale(x, func(v float64) float64 { return v / y }), nil
		}
	}
	return nil, notSupported("/", x, y)
}

func pow(x, y any, ctx *Context) (any, error) {
	if xr, ok := x.(*big.Rat); ok && isReal(y) {
		if n, ok := toInt(y); ok {
			return ratPow(xr, n)
		}
		if xr.Sign() > 0 {
			yf := new(big.Float).SetPrec(ctx.prec).SetFloat64(toFloat(y))
			return f64(bigfloat.Pow(new(big.Float).SetPrec(ctx.prec), ctx.bigf(xr), yf)), nil
		}
	}
	if isReal(x) && isReal(y) {
		a, b := toFloat(x), toFloat(y)
		if a < 0 && !integral(b) && !math.IsInf(b, 0) {
			return cmplx.Pow(complex(a, 0), complex(b, 0)), nil
		}
		return math.Pow(a, b), nil
	}
	if numeric(x) && numeric(y) {
		return cmplx.Pow(toComplex(x), toComplex(y)), nil
	}
	if m, ok := x.(Matrix); ok {
		if n, ok := toInt(y); ok && n >= 0 {
			return matPow(m, n)
		}
	}
	return nil, notSupported("^", x, y)
}

// maxRatExp is the largest exponent with which a rational is raised exactly.
const maxRatExp = 1 << 12

// ratPow raises a rational to an integer power exactly.
func ratPow(x *big.Rat, n int64) (any, error) {
	if n < -maxRatExp || n > maxRatExp {
		f, _ := x.Float64()
		return math.Pow(f, float64(n)), nil
	}
	if n < 0 && x.Sign() == 0 {
		return nil, &DomainError{X: 0, Arg: 1, Func: "^"}
	}
	e := big.NewInt(n)
	if n < 0 {
		e.Neg(e)
	}
	num := new(big.Int).Exp(x.Num(), e, nil)
	den := new(big.Int).Exp(x.Denom(), e, nil)
	if n < 0 {
		num, den = den, num
	}
	return new(big.Rat).SetFrac(num, den), nil
}

func matPow(m Matrix, n int64) (any, error) {
	rows, cols := m.Size()
	if rows != cols {
		return nil, &MatrixSizeError{Op: "^", Rows: rows, Cols: cols, Want: "square matrix"}
	}
	r := make(Matrix, rows)
	for i := range r {
		r[i] = make([]float64, cols)
		r[i][i] = 1
	}
	b := m
	for ; n > 0; n >>= 1 {
		if n&1 != 0 {
			r, _ = MatMul(r, b)
		}
		b, _ = MatMul(b, b)
	}
	return r, nil
}

func mod(x, y any) (any, error) {
	if !isReal(x) || !isReal(y) {
		return nil, notSupported("mod", x, y)
	}
	b := toFloat(y)
	if b == 0 {
		return nil, &DomainError{X: b, Arg: 2, Func: "mod"}
	}
	return math.Mod(toFloat(x), b), nil
}

func rational(x, y any) (any, error) {
	a, aok := toRat(x)
	b, bok := toRat(y)
	if !isReal(x) || !isReal(y) {
		return nil, notSupported("//", x, y)
	}
	if !aok {
		return nil, &DomainError{X: toFloat(x), Arg: 1, Func: "//"}
	}
	if !bok || b.Sign() == 0 {
		return nil, &DomainError{X: toFloat(y), Arg: 2, Func: "//"}
	}
	return new(big.Rat).Quo(a, b), nil
}

// equal compares two values for equality. Values of different kinds are
// unequal, except that numbers of different representations compare by value.
func equal(x, y any) bool {
	if numeric(x) && numeric(y) {
		xr, xok := x.(*big.Rat)
		yr, yok := y.(*big.Rat)
		if xok && yok {
			return xr.Cmp(yr) == 0
		}
		return toComplex(x) == toComplex(y)
	}
	switch x := x.(type) {
	case units.Angle:
		y, ok := y.(units.Angle)
		return ok && x.Value == y.To(x.Unit).Value
	case units.Quantity:
		y, ok := y.(units.Quantity)
		if !ok || x.Unit.Dim() != y.Unit.Dim() {
			return false
		}
		c, _ := x.Cmp(y)
		return c == 0
	case bool:
		y, ok := y.(bool)
		return ok && x == y
	case string:
		y, ok := y.(string)
		return ok && x == y
	case *Lambda:
		y, ok := y.(*Lambda)
		return ok && Equal(x, y)
	case Vector:
		y, ok := y.(Vector)
		return ok && sameFloats(x, y)
	case Matrix:
		y, ok := y.(Matrix)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !sameFloats(x[i], y[i]) {
				return false
			}
		}
		return true
	case Empty:
		_, ok := y.(Empty)
		return ok
	}
	return false
}

func sameFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func compare(op BinaryOp, x, y any) (any, error) {
	if isReal(x) && isReal(y) {
		xr, xok := x.(*big.Rat)
		yr, yok := y.(*big.Rat)
		if xok && yok {
			return ordered(op, xr.Cmp(yr)), nil
		}
		return floatOrdered(op, toFloat(x), toFloat(y)), nil
	}
	switch x := x.(type) {
	case units.Angle:
		if y, ok := y.(units.Angle); ok {
			return floatOrdered(op, x.Radians(), y.Radians()), nil
		}
	case units.Quantity:
		if y, ok := y.(units.Quantity); ok {
			c, err := x.Cmp(y)
			if err != nil {
				return nil, err
			}
			return ordered(op, c), nil
		}
	case string:
		if y, ok := y.(string); ok {
			return ordered(op, strings.Compare(x, y)), nil
		}
	}
	return nil, notSupported(op.String(), x, y)
}

func ordered(op BinaryOp, c int) bool {
	switch op {
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	default:
		panic("mathexpr: not an ordering: " + op.String())
	}
}

func floatOrdered(op BinaryOp, a, b float64) bool {
	switch op {
	case OpLt:
		return a < b
	case OpLe:
		return a <= b
	case OpGt:
		return a > b
	case OpGe:
		return a >= b
	default:
		panic("mathexpr: not an ordering: " + op.String())
	}
}

// logic applies a logical operator to booleans, or bitwise to integers.
func logic(op BinaryOp, x, y any) (any, error) {
	if a, ok := x.(bool); ok {
		if b, ok := y.(bool); ok {
			switch op {
			case OpAnd:
				return a && b, nil
			case OpOr:
				return a || b, nil
			case OpXor:
				return a != b, nil
			case OpNand:
				return !(a && b), nil
			case OpNor:
				return !(a || b), nil
			case OpImpl:
				return !a || b, nil
			case OpEquality:
				return a == b, nil
			}
		}
	}
	a, aok := toInt(x)
	b, bok := toInt(y)
	if aok && bok {
		var r int64
		switch op {
		case OpAnd:
			r = a & b
		case OpOr:
			r = a | b
		case OpXor:
			r = a ^ b
		case OpNand:
			r = ^(a & b)
		case OpNor:
			r = ^(a | b)
		case OpImpl:
			r = ^a | b
		case OpEquality:
			r = ^(a ^ b)
		}
		return float64(r), nil
	}
	return nil, notSupported(op.String(), x, y)
}

// unary applies a prefix or postfix operator.
func unary(op UnaryOp, x any) (any, error) {
	switch op {
	case OpNeg:
		switch x := x.(type) {
		case float64:
			return -x, nil
		case *big.Rat:
			return new(big.Rat).Neg(x), nil
		case complex128:
			return -x, nil
		case units.Angle:
			return units.Angle{Value: -x.Value, Unit: x.Unit}, nil
		case units.Quantity:
			return x.Scale(-1), nil
		case Vector, Matrix:
			return scale(x, func(v float64) float64 { return -v }), nil
		}
	case OpPlus:
		switch x.(type) {
		case float64, *big.Rat, complex128, units.Angle, units.Quantity, Vector, Matrix:
			return x, nil
		}
	case OpNot:
		if b, ok := x.(bool); ok {
			return !b, nil
		}
		if i, ok := toInt(x); ok {
			return float64(^i), nil
		}
	case OpFactorial:
		return factorial(x)
	default:
		panic("mathexpr: unknown unary operator " + op.String())
	}
	return nil, notSupported(op.String(), x)
}

// maxExactFact is the largest rational whose factorial is computed exactly.
const maxExactFact = 1 << 12

func factorial(x any) (any, error) {
	switch x := x.(type) {
	case *big.Rat:
		if x.IsInt() {
			if x.Sign() < 0 {
				return nil, &DomainError{X: toFloat(x), Arg: 1, Func: "!"}
			}
			if x.Num().IsInt64() && x.Num().Int64() <= maxExactFact {
				n := x.Num().Int64()
				if n == 0 {
					return big.NewRat(1, 1), nil
				}
				return new(big.Rat).SetInt(new(big.Int).MulRange(1, n)), nil
			}
		}
		return factorial(toFloat(x))
	case float64:
		if integral(x) && x < 0 || math.IsInf(x, -1) {
			return nil, &DomainError{X: x, Arg: 1, Func: "!"}
		}
		return math.Gamma(x + 1), nil
	}
	return nil, notSupported("!", x)
}

// convert converts a value to a unit. A plain number is read in the ambient
// angle unit when converting to an angle unit, or takes the unit otherwise.
func convert(x any, unit string, ctx *Context) (any, error) {
	x = demote(x)
	if au, ok := units.ParseAngleUnit(unit); ok {
		switch x := x.(type) {
		case units.Angle:
			return x.To(au), nil
		case float64:
			return units.Angle{Value: x, Unit: ctx.angle}.To(au), nil
		}
		return nil, &units.ConversionError{From: kindName(x), To: unit}
	}
	u, ok := units.Lookup(unit)
	if !ok {
		return nil, &units.ConversionError{From: kindName(x), To: unit}
	}
	switch x := x.(type) {
	case units.Quantity:
		q, err := x.To(u)
		if err != nil {
			return nil, err
		}
		return q, nil
	case float64:
		return units.Quantity{Value: x, Unit: u}, nil
	}
	return nil, &units.ConversionError{From: kindName(x), To: unit}
}

// bigf converts a rational to a float at the context's precision.
func (ctx *Context) bigf(r *big.Rat) *big.Float {
	return new(big.Float).SetPrec(ctx.prec).SetRat(r)
}

func f64(f *big.Float) float64 {
	v, _ := f.Float64()
	return v
}
