package mathexpr

import (
	"sort"
	"strconv"
	"strings"
)

// Func identifies a built-in function or constant.
type Func int16

const (
	// FuncNone is the zero Func. Passing it to ParseFunc disables a name.
	FuncNone Func = iota

	// Constants.
	FuncPi
	FuncE

	FuncAbs
	FuncSqrt
	FuncRoot
	FuncExp
	FuncLn
	FuncLg
	FuncLb
	FuncLog
	FuncFloor
	FuncCeil
	FuncRound
	FuncTrunc
	FuncFrac
	FuncSign
	FuncFact
	FuncGCD
	FuncLCM

	FuncSin
	FuncCos
	FuncTan
	FuncCot
	FuncSec
	FuncCsc
	FuncArcsin
	FuncArccos
	FuncArctan
	FuncArccot
	FuncArcsec
	FuncArccsc

	FuncSinh
	FuncCosh
	FuncTanh
	FuncCoth
	FuncSech
	FuncCsch
	FuncArsinh
	FuncArcosh
	FuncArtanh
	FuncArcoth
	FuncArsech
	FuncArcsch

	FuncRe
	FuncIm
	FuncPhase
	FuncConj
	FuncReciprocal
	FuncToComplex

	FuncToDeg
	FuncToRad
	FuncToGrad
	FuncToNumber
	FuncToRational
	FuncToBin
	FuncToOct
	FuncToHex

	FuncTranspose
	FuncDet
	FuncInverse
	FuncDot
	FuncCross

	FuncAvg
	FuncCount
	FuncMax
	FuncMin
	FuncProduct
	FuncStdev
	FuncStdevp
	FuncSum
	FuncVar
	FuncVarp

	// FuncDeriv and FuncSimplify receive their arguments unevaluated.
	FuncDeriv
	FuncSimplify

	funcCount
)

// variadic marks a function taking any number of arguments at least its min.
const variadic = -1

// funcInfo describes each Func: its canonical name and the bounds on its
// number of arguments.
var funcInfo = [funcCount]struct {
	name     string
	min, max int
}{
	FuncPi: {"pi", 0, 0},
	FuncE:  {"e", 0, 0},

	FuncAbs:   {"abs", 1, 1},
	FuncSqrt:  {"sqrt", 1, 1},
	FuncRoot:  {"root", 2, 2},
	FuncExp:   {"exp", 1, 1},
	FuncLn:    {"ln", 1, 1},
	FuncLg:    {"lg", 1, 1},
	FuncLb:    {"lb", 1, 1},
	FuncLog:   {"log", 2, 2},
	FuncFloor: {"floor", 1, 1},
	FuncCeil:  {"ceil", 1, 1},
	FuncRound: {"round", 1, 2},
	FuncTrunc: {"trunc", 1, 1},
	FuncFrac:  {"frac", 1, 1},
	FuncSign:  {"sign", 1, 1},
	FuncFact:  {"fact", 1, 1},
	FuncGCD:   {"gcd", 1, variadic},
	FuncLCM:   {"lcm", 1, variadic},

	FuncSin:    {"sin", 1, 1},
	FuncCos:    {"cos", 1, 1},
	FuncTan:    {"tan", 1, 1},
	FuncCot:    {"cot", 1, 1},
	FuncSec:    {"sec", 1, 1},
	FuncCsc:    {"csc", 1, 1},
	FuncArcsin: {"arcsin", 1, 1},
	FuncArccos: {"arccos", 1, 1},
	FuncArctan: {"arctan", 1, 1},
	FuncArccot: {"arccot", 1, 1},
	FuncArcsec: {"arcsec", 1, 1},
	FuncArccsc: {"arccsc", 1, 1},

	FuncSinh:   {"sinh", 1, 1},
	FuncCosh:   {"cosh", 1, 1},
	FuncTanh:   {"tanh", 1, 1},
	FuncCoth:   {"coth", 1, 1},
	FuncSech:   {"sech", 1, 1},
	FuncCsch:   {"csch", 1, 1},
	FuncArsinh: {"arsinh", 1, 1},
	FuncArcosh: {"arcosh", 1, 1},
	FuncArtanh: {"artanh", 1, 1},
	FuncArcoth: {"arcoth", 1, 1},
	FuncArsech: {"arsech", 1, 1},
	FuncArcsch: {"arcsch", 1, 1},

	FuncRe:         {"re", 1, 1},
	FuncIm:         {"im", 1, 1},
	FuncPhase:      {"phase", 1, 1},
	FuncConj:       {"conjugate", 1, 1},
	FuncReciprocal: {"reciprocal", 1, 1},
	FuncToComplex:  {"tocomplex", 1, 1},

	FuncToDeg:      {"todeg", 1, 1},
	FuncToRad:      {"torad", 1, 1},
	FuncToGrad:     {"tograd", 1, 1},
	FuncToNumber:   {"tonumber", 1, 1},
	FuncToRational: {"torational", 1, 1},
	FuncToBin:      {"tobin", 1, 1},
	FuncToOct:      {"tooct", 1, 1},
	FuncToHex:      {"tohex", 1, 1},

	FuncTranspose: {"transpose", 1, 1},
	FuncDet:       {"det", 1, 1},
	FuncInverse:   {"inverse", 1, 1},
	FuncDot:       {"dotproduct", 2, 2},
	FuncCross:     {"crossproduct", 2, 2},

	FuncAvg:     {"avg", 1, variadic},
	FuncCount:   {"count", 1, variadic},
	FuncMax:     {"max", 1, variadic},
	FuncMin:     {"min", 1, variadic},
	FuncProduct: {"product", 1, variadic},
	FuncStdev:   {"stdev", 1, variadic},
	FuncStdevp:  {"stdevp", 1, variadic},
	FuncSum:     {"sum", 1, variadic},
	FuncVar:     {"var", 1, variadic},
	FuncVarp:    {"varp", 1, variadic},

	FuncDeriv:    {"deriv", 1, 2},
	FuncSimplify: {"simplify", 1, 1},
}

// aliases maps alternative spellings to functions. Canonical names are added
// by the default table.
var aliases = map[string]Func{
	"π":    FuncPi,
	"log2": FuncLb,

	"tg":     FuncTan,
	"ctg":    FuncCot,
	"cotg":   FuncCot,
	"cosec":  FuncCsc,
	"asin":   FuncArcsin,
	"acos":   FuncArccos,
	"atan":   FuncArctan,
	"arctg":  FuncArctan,
	"acot":   FuncArccot,
	"arcctg": FuncArccot,
	"asec":   FuncArcsec,
	"acsc":   FuncArccsc,

	"sh":    FuncSinh,
	"ch":    FuncCosh,
	"th":    FuncTanh,
	"cth":   FuncCoth,
	"asinh": FuncArsinh,
	"arcsh": FuncArsinh,
	"arsh":  FuncArsinh,
	"acosh": FuncArcosh,
	"arch":  FuncArcosh,
	"atanh": FuncArtanh,
	"arth":  FuncArtanh,
	"acoth": FuncArcoth,
	"arcth": FuncArcoth,
	"asech": FuncArsech,
	"arsch": FuncArsech,
	"acsch": FuncArcsch,

	"real":      FuncRe,
	"imaginary": FuncIm,
	"arg":       FuncPhase,
	"conj":      FuncConj,

	"todegree": FuncToDeg,

	"determinant": FuncDet,
	"dot":         FuncDot,
	"cross":       FuncCross,

	"average": FuncAvg,

	"derivative": FuncDeriv,
}

// String returns the canonical name of the function.
func (f Func) String() string {
	if f <= FuncNone || f >= funcCount {
		return "Func(" + strconv.Itoa(int(f)) + ")"
	}
	return funcInfo[f].name
}

// CanCall returns whether the function can be called with n arguments.
func (f Func) CanCall(n int) bool {
	if f <= FuncNone || f >= funcCount {
		return false
	}
	info := funcInfo[f]
	return n >= info.min && (info.max == variadic || n <= info.max)
}

// IsConstant returns whether the function is a named constant, which is
// written without an argument list.
func (f Func) IsConstant() bool {
	return f == FuncPi || f == FuncE
}

// FuncTable maps case-insensitive names to built-in functions. A FuncTable is
// immutable; methods which change it return a new table.
type FuncTable struct {
	names map[string]Func
}

var defaultFuncs = func() *FuncTable {
	t := FuncTable{names: make(map[string]Func, int(funcCount)+len(aliases))}
	for f := FuncNone + 1; f < funcCount; f++ {
		t.names[funcInfo[f].name] = f
	}
	for k, f := range aliases {
		t.names[k] = f
	}
	return &t
}()

// DefaultFuncs returns the table of built-in functions used when parsing
// without options.
func DefaultFuncs() *FuncTable {
	return defaultFuncs
}

// Lookup finds the function for a name.
func (t *FuncTable) Lookup(name string) (Func, bool) {
	f, ok := t.names[strings.ToLower(name)]
	return f, ok
}

// With returns a copy of the table with name bound to f. If f is FuncNone, the
// name is removed instead, so that it parses as a variable or user function.
func (t *FuncTable) With(name string, f Func) *FuncTable {
	r := FuncTable{names: make(map[string]Func, len(t.names)+1)}
	for k, v := range t.names {
		r.names[k] = v
	}
	name = strings.ToLower(name)
	if f == FuncNone {
		delete(r.names, name)
	} else {
		r.names[name] = f
	}
	return &r
}

// Names returns the sorted names in the table.
func (t *FuncTable) Names() []string {
	r := make([]string, 0, len(t.names))
	for k := range t.names {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

var emptyFuncs = &FuncTable{names: map[string]Func{}}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
	// Domain is the domain of the function, if it has one.
	Domain *Domain
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Domain != nil {
		r += " " + err.Domain.String()
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}
