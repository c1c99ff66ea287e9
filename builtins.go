package mathexpr

import (
	"math"
	"math/big"
	"math/cmplx"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd"
	"github.com/zephyrtronium/bigfloat"

	"github.com/zephyrtronium/mathexpr/units"
)

// builtin calls a built-in function with evaluated arguments.
func (ctx *Context) builtin(fn Func, args []any) (any, error) {
	if !fn.CanCall(len(args)) {
		return nil, &CallError{Func: fn.String(), Len: len(args)}
	}
	switch fn {
	case FuncPi:
		return math.Pi, nil
	case FuncE:
		return math.E, nil
	case FuncAbs:
		return abs(args[0])
	case FuncSqrt:
		return ctx.sqrt(args[0])
	case FuncRoot:
		return root(args[0], args[1])
	case FuncExp:
		return ctx.exp(args[0])
	case FuncLn, FuncLg, FuncLb:
		return ctx.logarithm(fn, args[0])
	case FuncLog:
		return ctx.logBase(args[0], args[1])
	case FuncFloor:
		return rounding(fn, args[0], math.Floor, floorRat)
	case FuncCeil:
		return rounding(fn, args[0], math.Ceil, func(z *big.Int, r *big.Rat) {
			floorRat(z, new(big.Rat).Neg(r))
			z.Neg(z)
		})
	case FuncTrunc:
		return rounding(fn, args[0], math.Trunc, func(z *big.Int, r *big.Rat) { z.Quo(r.Num(), r.Denom()) })
	case FuncRound:
		return round(args)
	case FuncFrac:
		return frac(args[0])
	case FuncSign:
		return sign(args[0])
	case FuncFact:
		return factorial(args[0])
	case FuncGCD, FuncLCM:
		return gcdlcm(fn, args)

	case FuncSin, FuncCos, FuncTan, FuncCot, FuncSec, FuncCsc,
		FuncSinh, FuncCosh, FuncTanh, FuncCoth, FuncSech, FuncCsch:
		return ctx.trig(fn, args[0])
	case FuncArcsin, FuncArccos, FuncArctan, FuncArccot, FuncArcsec, FuncArccsc,
		FuncArsinh, FuncArcosh, FuncArtanh, FuncArcoth, FuncArsech, FuncArcsch:
		return ctx.inverse(fn, args[0])

	case FuncRe, FuncIm, FuncPhase, FuncConj, FuncToComplex:
		return ctx.complexPart(fn, args[0])
	case FuncReciprocal:
		return div(1.0, args[0])

	case FuncToDeg:
		return ctx.toAngle(fn, args[0], units.Degree)
	case FuncToRad:
		return ctx.toAngle(fn, args[0], units.Radian)
	case FuncToGrad:
		return ctx.toAngle(fn, args[0], units.Gradian)
	case FuncToNumber:
		return toNumber(args[0])
	case FuncToRational:
		return toRational(args[0])
	case FuncToBin:
		return toBase(fn, args[0], 2, "0b")
	case FuncToOct:
		return toBase(fn, args[0], 8, "0")
	case FuncToHex:
		return toBase(fn, args[0], 16, "0x")

	case FuncTranspose, FuncDet, FuncInverse:
		return linear(fn, args[0])
	case FuncDot:
		a, aok := args[0].(Vector)
		b, bok := args[1].(Vector)
		if !aok || !bok {
			return nil, notSupported(fn.String(), args...)
		}
		d, err := Dot(a, b)
		if err != nil {
			return nil, err
		}
		return d, nil
	case FuncCross:
		a, aok := args[0].(Vector)
		b, bok := args[1].(Vector)
		if !aok || !bok {
			return nil, notSupported(fn.String(), args...)
		}
		v, err := Cross(a, b)
		if err != nil {
			return nil, err
		}
		return v, nil

	case FuncAvg, FuncCount, FuncMax, FuncMin, FuncProduct,
		FuncStdev, FuncStdevp, FuncSum, FuncVar, FuncVarp:
		return stats(fn, args)
	case FuncDeriv, FuncSimplify:
		panic("mathexpr: " + fn.String() + " with evaluated arguments")
	default:
		panic("mathexpr: unknown function " + fn.String())
	}
}

// real1 gets an argument as a plain number.
func real1(fn Func, x any) (float64, error) {
	switch x := x.(type) {
	case float64:
		return x, nil
	case *big.Rat:
		return toFloat(x), nil
	}
	return 0, notSupported(fn.String(), x)
}

func abs(x any) (any, error) {
	switch x := x.(type) {
	case float64:
		return math.Abs(x), nil
	case *big.Rat:
		return new(big.Rat).Abs(x), nil
	case complex128:
		return cmplx.Abs(x), nil
	case units.Angle:
		return units.Angle{Value: math.Abs(x.Value), Unit: x.Unit}, nil
	case units.Quantity:
		return units.Quantity{Value: math.Abs(x.Value), Unit: x.Unit}, nil
	case Vector:
		var s float64
		for _, v := range x {
			s += v * v
		}
		return math.Sqrt(s), nil
	}
	return nil, notSupported("abs", x)
}

func (ctx *Context) sqrt(x any) (any, error) {
	switch x := x.(type) {
	case float64:
		if x < 0 {
			return cmplx.Sqrt(complex(x, 0)), nil
		}
		return math.Sqrt(x), nil
	case *big.Rat:
		if x.Sign() < 0 {
			return cmplx.Sqrt(complex(toFloat(x), 0)), nil
		}
		return f64(new(big.Float).SetPrec(ctx.prec).Sqrt(ctx.bigf(x))), nil
	case complex128:
		return cmplx.Sqrt(x), nil
	}
	return nil, notSupported("sqrt", x)
}

func root(x, n any) (any, error) {
	a, err := real1(FuncRoot, x)
	if err != nil {
		return nil, err
	}
	b, err := real1(FuncRoot, n)
	if err != nil {
		return nil, err
	}
	if b == 0 {
		return nil, &DomainError{X: b, Arg: 2, Func: "root"}
	}
	if a < 0 {
		if !integral(b) || math.Mod(b, 2) == 0 {
			return nil, &DomainError{X: a, Arg: 1, Func: "root"}
		}
		return -math.Pow(-a, 1/b), nil
	}
	return math.Pow(a, 1/b), nil
}

func (ctx *Context) exp(x any) (any, error) {
	switch x := x.(type) {
	case float64:
		return math.Exp(x), nil
	case *big.Rat:
		return f64(bigfloat.Exp(new(big.Float).SetPrec(ctx.prec), ctx.bigf(x))), nil
	case complex128:
		return cmplx.Exp(x), nil
	}
	return nil, notSupported("exp", x)
}

// ln computes the natural logarithm of a positive rational at the context's
// precision.
func (ctx *Context) ln(r *big.Rat) *big.Float {
	return bigfloat.Log(new(big.Float).SetPrec(ctx.prec), ctx.bigf(r))
}

func (ctx *Context) logarithm(fn Func, x any) (any, error) {
	var base float64
	switch fn {
	case FuncLg:
		base = 10
	case FuncLb:
		base = 2
	}
	if c, ok := x.(complex128); ok {
		r := cmplx.Log(c)
		if base != 0 {
			r /= complex(math.Log(base), 0)
		}
		return r, nil
	}
	a, err := real1(fn, x)
	if err != nil {
		return nil, err
	}
	if err := checkDomain(fn, 1, a); err != nil {
		return nil, err
	}
	if r, ok := x.(*big.Rat); ok {
		l := ctx.ln(r)
		if base != 0 {
			l.Quo(l, ctx.ln(new(big.Rat).SetFloat64(base)))
		}
		return f64(l), nil
	}
	switch fn {
	case FuncLg:
		return math.Log10(a), nil
	case FuncLb:
		return math.Log2(a), nil
	}
	return math.Log(a), nil
}

func (ctx *Context) logBase(b, x any) (any, error) {
	bf, err := real1(FuncLog, b)
	if err != nil {
		return nil, err
	}
	xf, err := real1(FuncLog, x)
	if err != nil {
		return nil, err
	}
	if err := checkDomain(FuncLog, 1, bf); err != nil {
		return nil, err
	}
	if bf == 1 {
		return nil, &DomainError{X: bf, Arg: 1, Func: "log"}
	}
	if err := checkDomain(FuncLog, 2, xf); err != nil {
		return nil, err
	}
	br, bok := b.(*big.Rat)
	xr, xok := x.(*big.Rat)
	if bok && xok {
		l := ctx.ln(xr)
		return f64(l.Quo(l, ctx.ln(br))), nil
	}
	return math.Log(xf) / math.Log(bf), nil
}

// floorRat sets z to the floor of r.
func floorRat(z *big.Int, r *big.Rat) {
	var m big.Int
	z.DivMod(r.Num(), r.Denom(), &m)
}

// rounding applies an integer rounding function. Rationals round exactly, and
// angles and quantities round their values.
func rounding(fn Func, x any, f func(float64) float64, r func(z *big.Int, r *big.Rat)) (any, error) {
	switch x := x.(type) {
	case float64:
		return f(x), nil
	case *big.Rat:
		var z big.Int
		r(&z, x)
		return new(big.Rat).SetInt(&z), nil
	case units.Angle:
		return units.Angle{Value: f(x.Value), Unit: x.Unit}, nil
	case units.Quantity:
		return units.Quantity{Value: f(x.Value), Unit: x.Unit}, nil
	case complex128:
		return complex(f(real(x)), f(imag(x))), nil
	}
	return nil, notSupported(fn.String(), x)
}

// roundPrec is the decimal precision of rounding. It exceeds the seventeen
// significant digits needed to represent any float64.
const roundPrec = 34

// roundDecimal rounds x half away from zero to a number of decimal digits
// after the point. Rounding happens on the shortest decimal representation of
// x, so that 2.675 rounds to 2.68 even though the nearest float64 is slightly
// less.
func roundDecimal(x float64, digits int64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) || digits > math.MaxInt32 || digits < math.MinInt32 {
		return x
	}
	var d, res apd.Decimal
	if _, err := d.SetFloat64(x); err != nil {
		return x
	}
	c := apd.BaseContext.WithPrecision(roundPrec)
	c.Rounding = apd.RoundHalfUp
	if _, err := c.Quantize(&res, &d, int32(-digits)); err != nil {
		return x
	}
	r, err := res.Float64()
	if err != nil {
		return x
	}
	return r
}

func round(args []any) (any, error) {
	var digits int64
	if len(args) > 1 {
		n, ok := toInt(args[1])
		if !ok {
			return nil, notSupported("round", args...)
		}
		digits = n
	}
	f := func(x float64) float64 { return roundDecimal(x, digits) }
	if r, ok := args[0].(*big.Rat); ok && digits == 0 {
		// Half away from zero: floor(|r| + 1/2) with the sign of r.
		a := new(big.Rat).Abs(r)
		a.Add(a, big.NewRat(1, 2))
		var z big.Int
		floorRat(&z, a)
		if r.Sign() < 0 {
			z.Neg(&z)
		}
		return new(big.Rat).SetInt(&z), nil
	}
	return rounding(FuncRound, demote(args[0]), f, nil)
}

func frac(x any) (any, error) {
	switch x := x.(type) {
	case float64:
		return x - math.Trunc(x), nil
	case *big.Rat:
		var z big.Int
		z.Quo(x.Num(), x.Denom())
		return new(big.Rat).Sub(x, new(big.Rat).SetInt(&z)), nil
	case units.Angle:
		return units.Angle{Value: x.Value - math.Trunc(x.Value), Unit: x.Unit}, nil
	}
	return nil, notSupported("frac", x)
}

func sign(x any) (any, error) {
	switch x := x.(type) {
	case float64:
		switch {
		case x > 0:
			return 1.0, nil
		case x < 0:
			return -1.0, nil
		}
		return x, nil
	case *big.Rat:
		return float64(x.Sign()), nil
	case complex128:
		if x == 0 {
			return x, nil
		}
		return x / complex(cmplx.Abs(x), 0), nil
	case units.Angle:
		return sign(x.Value)
	case units.Quantity:
		return sign(x.Value)
	}
	return nil, notSupported("sign", x)
}

func gcdlcm(fn Func, args []any) (any, error) {
	var r *big.Int
	for i, a := range args {
		n, ok := toBigInt(a)
		if !ok {
			if !isReal(a) {
				return nil, notSupported(fn.String(), a)
			}
			return nil, &DomainError{X: toFloat(a), Arg: i + 1, Func: fn.String()}
		}
		n.Abs(n)
		if r == nil {
			r = n
			continue
		}
		g := new(big.Int).GCD(nil, nil, r, n)
		if fn == FuncGCD {
			r = g
			continue
		}
		if g.Sign() == 0 {
			r.SetInt64(0)
			continue
		}
		r.Mul(r, n).Quo(r, g)
	}
	f, _ := new(big.Float).SetInt(r).Float64()
	return f, nil
}

type trigFunc struct {
	f func(float64) float64
	c func(complex128) complex128
	// angular indicates that the function reads its plain argument, or for
	// an inverse produces its result, in the context's angle unit.
	angular bool
}

var trigFuncs = map[Func]trigFunc{
	FuncSin: {math.Sin, cmplx.Sin, true},
	FuncCos: {math.Cos, cmplx.Cos, true},
	FuncTan: {math.Tan, cmplx.Tan, true},
	FuncCot: {func(x float64) float64 { return 1 / math.Tan(x) }, cmplx.Cot, true},
	FuncSec: {func(x float64) float64 { return 1 / math.Cos(x) }, func(z complex128) complex128 { return 1 / cmplx.Cos(z) }, true},
	FuncCsc: {func(x float64) float64 { return 1 / math.Sin(x) }, func(z complex128) complex128 { return 1 / cmplx.Sin(z) }, true},

	FuncSinh: {math.Sinh, cmplx.Sinh, true},
	FuncCosh: {math.Cosh, cmplx.Cosh, true},
	FuncTanh: {math.Tanh, cmplx.Tanh, true},
	FuncCoth: {func(x float64) float64 { return 1 / math.Tanh(x) }, func(z complex128) complex128 { return 1 / cmplx.Tanh(z) }, true},
	FuncSech: {func(x float64) float64 { return 1 / math.Cosh(x) }, func(z complex128) complex128 { return 1 / cmplx.Cosh(z) }, true},
	FuncCsch: {func(x float64) float64 { return 1 / math.Sinh(x) }, func(z complex128) complex128 { return 1 / cmplx.Sinh(z) }, true},
}

// trig evaluates a trigonometric or hyperbolic function. Plain numbers are
// read in the context's angle unit.
func (ctx *Context) trig(fn Func, x any) (any, error) {
	t := trigFuncs[fn]
	switch x := demote(x).(type) {
	case float64:
		if t.angular {
			x = units.Angle{Value: x, Unit: ctx.angle}.Radians()
		}
		return t.f(x), nil
	case units.Angle:
		return t.f(x.Radians()), nil
	case complex128:
		return t.c(x), nil
	}
	return nil, notSupported(fn.String(), x)
}

var inverseFuncs = map[Func]trigFunc{
	FuncArcsin: {math.Asin, cmplx.Asin, true},
	FuncArccos: {math.Acos, cmplx.Acos, true},
	FuncArctan: {math.Atan, cmplx.Atan, true},
	FuncArccot: {func(x float64) float64 { return math.Atan(1 / x) }, func(z complex128) complex128 { return cmplx.Atan(1 / z) }, true},
	FuncArcsec: {func(x float64) float64 { return math.Acos(1 / x) }, func(z complex128) complex128 { return cmplx.Acos(1 / z) }, true},
	FuncArccsc: {func(x float64) float64 { return math.Asin(1 / x) }, func(z complex128) complex128 { return cmplx.Asin(1 / z) }, true},

	FuncArsinh: {math.Asinh, cmplx.Asinh, false},
	FuncArcosh: {math.Acosh, cmplx.Acosh, false},
	FuncArtanh: {math.Atanh, cmplx.Atanh, false},
	FuncArcoth: {func(x float64) float64 { return math.Atanh(1 / x) }, func(z complex128) complex128 { return cmplx.Atanh(1 / z) }, false},
	FuncArsech: {func(x float64) float64 { return math.Acosh(1 / x) }, func(z complex128) complex128 { return cmplx.Acosh(1 / z) }, false},
	FuncArcsch: {func(x float64) float64 { return math.Asinh(1 / x) }, func(z complex128) complex128 { return cmplx.Asinh(1 / z) }, false},
}

// inverse evaluates an inverse trigonometric or hyperbolic function. Inverse
// circular functions produce angles in the context's angle unit.
func (ctx *Context) inverse(fn Func, x any) (any, error) {
	t := inverseFuncs[fn]
	switch x := demote(x).(type) {
	case float64:
		if err := checkDomain(fn, 1, x); err != nil {
			return nil, err
		}
		r := t.f(x)
		if t.angular {
			return units.FromRadians(r, ctx.angle), nil
		}
		return r, nil
	case complex128:
		return t.c(x), nil
	}
	return nil, notSupported(fn.String(), x)
}

func (ctx *Context) complexPart(fn Func, x any) (any, error) {
	if !numeric(x) {
		return nil, notSupported(fn.String(), x)
	}
	c := toComplex(x)
	switch fn {
	case FuncRe:
		return real(c), nil
	case FuncIm:
		return imag(c), nil
	case FuncPhase:
		return units.FromRadians(cmplx.Phase(c), ctx.angle), nil
	case FuncConj:
		return cmplx.Conj(c), nil
	case FuncToComplex:
		return c, nil
	default:
		panic("mathexpr: not a complex function: " + fn.String())
	}
}

func (ctx *Context) toAngle(fn Func, x any, u units.AngleUnit) (any, error) {
	switch x := demote(x).(type) {
	case float64:
		return units.Angle{Value: x, Unit: ctx.angle}.To(u), nil
	case units.Angle:
		return x.To(u), nil
	}
	return nil, notSupported(fn.String(), x)
}

func toNumber(x any) (any, error) {
	switch x := x.(type) {
	case float64:
		return x, nil
	case *big.Rat:
		return toFloat(x), nil
	case units.Angle:
		return x.Value, nil
	case units.Quantity:
		return x.Value, nil
	case bool:
		if x {
			return 1.0, nil
		}
		return 0.0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err == nil {
			return f, nil
		}
	case complex128:
		if imag(x) == 0 {
			return real(x), nil
		}
	}
	return nil, notSupported("tonumber", x)
}

func toRational(x any) (any, error) {
	switch x := x.(type) {
	case float64:
		r, ok := ratOf(x)
		if !ok {
			return nil, &DomainError{X: x, Arg: 1, Func: "torational"}
		}
		return r, nil
	case *big.Rat:
		return x, nil
	}
	return nil, notSupported("torational", x)
}

func toBase(fn Func, x any, base int, prefix string) (any, error) {
	n, ok := toBigInt(x)
	if !ok {
		if !isReal(x) {
			return nil, notSupported(fn.String(), x)
		}
		return nil, &DomainError{X: toFloat(x), Arg: 1, Func: fn.String()}
	}
	s := n.Text(base)
	if n.Sign() < 0 {
		return "-" + prefix + s[1:], nil
	}
	if base == 8 && n.Sign() == 0 {
		return "0", nil
	}
	return prefix + s, nil
}

func linear(fn Func, x any) (any, error) {
	switch x := x.(type) {
	case Vector:
		if fn == FuncTranspose {
			return x.column(), nil
		}
	case Matrix:
		switch fn {
		case FuncTranspose:
			return x.Transpose(), nil
		case FuncDet:
			d, err := x.Det()
			if err != nil {
				return nil, err
			}
			return d, nil
		case FuncInverse:
			m, err := x.Inverse()
			if err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	return nil, notSupported(fn.String(), x)
}

// flatten collects the numbers in statistics arguments. Vectors and matrices
// contribute each element.
func flatten(fn Func, args []any) ([]float64, error) {
	var r []float64
	for _, a := range args {
		switch a := a.(type) {
		case float64:
			r = append(r, a)
		case *big.Rat:
			r = append(r, toFloat(a))
		case Vector:
			r = append(r, a...)
		case Matrix:
			for _, row := range a {
				r = append(r, row...)
			}
		default:
			return nil, notSupported(fn.String(), a)
		}
	}
	return r, nil
}

func stats(fn Func, args []any) (any, error) {
	xs, err := flatten(fn, args)
	if err != nil {
		return nil, err
	}
	n := float64(len(xs))
	switch fn {
	case FuncCount:
		return n, nil
	case FuncSum:
		return sum(xs), nil
	case FuncAvg:
		return sum(xs) / n, nil
	case FuncProduct:
		p := 1.0
		for _, x := range xs {
			p *= x
		}
		return p, nil
	case FuncMax:
		m := math.Inf(-1)
		for _, x := range xs {
			m = math.Max(m, x)
		}
		return m, nil
	case FuncMin:
		m := math.Inf(1)
		for _, x := range xs {
			m = math.Min(m, x)
		}
		return m, nil
	}
	// Variance and standard deviation.
	d := n
	if fn == FuncVar || fn == FuncStdev {
		if len(xs) < 2 {
			return nil, &DomainError{X: n, Func: fn.String()}
		}
		d = n - 1
	}
	mean := sum(xs) / n
	var ss float64
	for _, x := range xs {
		ss += (x - mean) * (x - mean)
	}
	v := ss / d
	if fn == FuncStdev || fn == FuncStdevp {
		return math.Sqrt(v), nil
	}
	return v, nil
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
