package mathexpr

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Bound is one end of a range.
type Bound struct {
	Value     float64
	Inclusive bool
}

// Range is an interval of the real line. Infinite bounds are never
// inclusive.
type Range struct {
	Low, High Bound
}

// Contains returns whether x lies in r.
func (r Range) Contains(x float64) bool {
	switch {
	case math.IsNaN(x), x < r.Low.Value, x > r.High.Value:
		return false
	case x == r.Low.Value:
		return r.Low.Inclusive
	case x == r.High.Value:
		return r.High.Inclusive
	}
	return true
}

func (r Range) String() string {
	var b strings.Builder
	if r.Low.Inclusive {
		b.WriteByte('[')
	} else {
		b.WriteByte('(')
	}
	b.WriteString(fmtBound(r.Low.Value))
	b.WriteString(", ")
	b.WriteString(fmtBound(r.High.Value))
	if r.High.Inclusive {
		b.WriteByte(']')
	} else {
		b.WriteByte(')')
	}
	return b.String()
}

func fmtBound(x float64) string {
	switch {
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// Domain is an ordered set of ranges on which a function is defined.
type Domain struct {
	ranges []Range
}

// Contains returns whether x lies in any range of the domain. NaN is in no
// domain.
func (d *Domain) Contains(x float64) bool {
	for _, r := range d.ranges {
		if r.Contains(x) {
			return true
		}
	}
	return false
}

// Ranges returns the ranges of the domain in ascending order of their low
// bounds.
func (d *Domain) Ranges() []Range {
	return append([]Range(nil), d.ranges...)
}

func (d *Domain) String() string {
	s := make([]string, len(d.ranges))
	for i, r := range d.ranges {
		s[i] = r.String()
	}
	return strings.Join(s, " ∪ ")
}

// DomainBuilder builds a Domain.
type DomainBuilder struct {
	ranges []Range
}

// NewDomain starts a domain with no ranges.
func NewDomain() *DomainBuilder {
	return &DomainBuilder{}
}

// Range adds a range with explicit bounds. An infinite bound is made
// exclusive. Panics if low > high.
func (b *DomainBuilder) Range(low float64, lowInclusive bool, high float64, highInclusive bool) *DomainBuilder {
	if low > high {
		panic("mathexpr: empty domain range")
	}
	r := Range{
		Low:  Bound{Value: low, Inclusive: lowInclusive && !math.IsInf(low, 0)},
		High: Bound{Value: high, Inclusive: highInclusive && !math.IsInf(high, 0)},
	}
	b.ranges = append(b.ranges, r)
	return b
}

// Closed adds the range [low, high].
func (b *DomainBuilder) Closed(low, high float64) *DomainBuilder {
	return b.Range(low, true, high, true)
}

// Open adds the range (low, high).
func (b *DomainBuilder) Open(low, high float64) *DomainBuilder {
	return b.Range(low, false, high, false)
}

// Build creates the domain. The builder may continue to be used.
func (b *DomainBuilder) Build() *Domain {
	r := append([]Range(nil), b.ranges...)
	sort.SliceStable(r, func(i, j int) bool { return r[i].Low.Value < r[j].Low.Value })
	return &Domain{ranges: r}
}

var inf = math.Inf(1)

// domains holds the domain of each function which rejects some finite real
// arguments. Functions absent from the map accept every real.
var domains = map[Func]*Domain{
	FuncArcsin: NewDomain().Closed(-1, 1).Build(),
	FuncArccos: NewDomain().Closed(-1, 1).Build(),
	FuncArcsec: NewDomain().Range(-inf, false, -1, true).Range(1, true, inf, false).Build(),
	FuncArccsc: NewDomain().Range(-inf, false, -1, true).Range(1, true, inf, false).Build(),
	FuncArcosh: NewDomain().Range(1, true, inf, false).Build(),
	FuncArtanh: NewDomain().Open(-1, 1).Build(),
	FuncArcoth: NewDomain().Open(-inf, -1).Open(1, inf).Build(),
	FuncArsech: NewDomain().Range(0, false, 1, true).Build(),
	FuncArcsch: NewDomain().Open(-inf, 0).Open(0, inf).Build(),
	FuncLn:     NewDomain().Open(0, inf).Build(),
	FuncLg:     NewDomain().Open(0, inf).Build(),
	FuncLb:     NewDomain().Open(0, inf).Build(),
	FuncLog:    NewDomain().Open(0, inf).Build(),
}

// Domain returns the real domain of f, or nil if f accepts every real.
func (f Func) Domain() *Domain {
	return domains[f]
}

// checkDomain returns a DomainError if x is outside the domain of f.
func checkDomain(f Func, arg int, x float64) error {
	d := domains[f]
	if d == nil || d.Contains(x) {
		return nil
	}
	return &DomainError{X: x, Arg: arg, Func: f.String(), Domain: d}
}
