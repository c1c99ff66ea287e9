package mathexpr

import "math"

// Differentiate returns the derivative of n with respect to the variable x.
// Every other variable is treated as a constant. Trigonometric functions are
// differentiated as functions of radians.
//
// The result shares no nodes with n.
func Differentiate(n Node, x string) (Node, error) {
	return DifferentiateIn(n, x, nil)
}

// DifferentiateIn is like Differentiate, but calls of user functions defined
// in ctx are differentiated through the function bodies. ctx may be nil.
func DifferentiateIn(n Node, x string, ctx *Context) (Node, error) {
	mustNode(n)
	return derive(n, &dstate{x: x, ctx: ctx})
}

// UndifferentiableError is returned when differentiating a node which has no
// derivative rule.
type UndifferentiableError struct {
	// Kind is the kind of node or the name of the function.
	Kind string
}

func (err *UndifferentiableError) Error() string {
	return "cannot differentiate " + err.Kind
}

type dstate struct {
	x     string
	ctx   *Context
	depth int
}

// differ is the differentiation analyzer. Node kinds without derivative rules
// fall through to the default.
type differ struct {
	DefaultAnalyzer[Node, *dstate]
}

var differentiator = differ{DefaultAnalyzer[Node, *dstate]{
	Default: func(n Node, s *dstate) (Node, error) {
		return nil, &UndifferentiableError{Kind: nodeKind(n)}
	},
}}

// derive differentiates n. Subtrees which do not depend on the variable have
// derivative zero.
func derive(n Node, s *dstate) (Node, error) {
	if !s.depends(n) {
		return NewNumber(0), nil
	}
	return Analyze[Node, *dstate](n, differentiator, s)
}

// depends returns whether n might depend on the variable. User calls depend
// on it when they can be inlined, since function bodies see the caller's
// variables.
func (s *dstate) depends(n Node) bool {
	switch n := n.(type) {
	case *Variable:
		return n.name == s.x
	case *Lambda:
		for _, p := range n.params {
			if p == s.x {
				return false
			}
		}
	case *UserCall:
		if s.ctx != nil {
			return true
		}
	}
	for _, k := range children(n) {
		if s.depends(k) {
			return true
		}
	}
	return false
}

func (differ) VisitVariable(n *Variable, s *dstate) (Node, error) {
	if n.name == s.x {
		return NewNumber(1), nil
	}
	return NewNumber(0), nil
}

func (differ) VisitUnary(n *Unary, s *dstate) (Node, error) {
	switch n.op {
	case OpNeg, OpPlus:
		du, err := derive(n.x, s)
		if err != nil {
			return nil, err
		}
		if n.op == OpNeg {
			return dneg(du), nil
		}
		return du, nil
	}
	return nil, &UndifferentiableError{Kind: n.op.String()}
}

func (differ) VisitBinary(n *Binary, s *dstate) (Node, error) {
	switch n.op {
	case OpAdd, OpSub, OpMul, OpDiv, OpRational, OpPow:
	default:
		return nil, &UndifferentiableError{Kind: n.op.String()}
	}
	u, v := n.x, n.y
	du, err := derive(u, s)
	if err != nil {
		return nil, err
	}
	dv, err := derive(v, s)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case OpAdd:
		return dadd(du, dv), nil
	case OpSub:
		return dsub(du, dv), nil
	case OpMul:
		switch {
		case !s.depends(u):
			return dmul(Clone(u), dv), nil
		case !s.depends(v):
			return dmul(du, Clone(v)), nil
		}
		return dadd(dmul(du, Clone(v)), dmul(Clone(u), dv)), nil
	case OpDiv, OpRational:
		if !s.depends(v) {
			return ddiv(du, Clone(v)), nil
		}
		top := dsub(dmul(du, Clone(v)), dmul(Clone(u), dv))
		return ddiv(top, dpow(Clone(v), NewNumber(2))), nil
	default: // OpPow
		switch {
		case !s.depends(v):
			// d(u^c) = c·u^(c-1)·u'
			var e Node
			if c, ok := v.(*Number); ok {
				e = NewNumber(c.v - 1)
			} else {
				e = dsub(Clone(v), NewNumber(1))
			}
			return dmul(dmul(Clone(v), dpow(Clone(u), e)), du), nil
		case !s.depends(u):
			// d(c^v) = c^v·ln(c)·v'
			return dmul(dmul(Clone(n), NewCall(FuncLn, Clone(u))), dv), nil
		}
		// d(u^v) = u^v·(v'·ln(u) + v·u'/u)
		t := dadd(dmul(dv, NewCall(FuncLn, Clone(u))), ddiv(dmul(Clone(v), du), Clone(u)))
		return dmul(Clone(n), t), nil
	}
}

// chain applies the chain rule to a function of one argument. outer is the
// derivative of the function at u, or nil if the rule divides u' by denom.
type chainRule func(u Node) (outer, denom Node, negate bool)

var chainRules = map[Func]chainRule{
	FuncSqrt: func(u Node) (Node, Node, bool) {
		return nil, dmul(NewNumber(2), NewCall(FuncSqrt, u)), false
	},
	FuncExp: func(u Node) (Node, Node, bool) { return NewCall(FuncExp, u), nil, false },
	FuncLn:  func(u Node) (Node, Node, bool) { return nil, u, false },
	FuncLg: func(u Node) (Node, Node, bool) {
		return nil, dmul(u, NewCall(FuncLn, NewNumber(10))), false
	},
	FuncLb: func(u Node) (Node, Node, bool) {
		return nil, dmul(u, NewCall(FuncLn, NewNumber(2))), false
	},
	FuncAbs: func(u Node) (Node, Node, bool) { return NewCall(FuncSign, u), nil, false },

	FuncSin: func(u Node) (Node, Node, bool) { return NewCall(FuncCos, u), nil, false },
	FuncCos: func(u Node) (Node, Node, bool) { return dneg(NewCall(FuncSin, u)), nil, false },
	FuncTan: func(u Node) (Node, Node, bool) {
		return nil, dpow(NewCall(FuncCos, u), NewNumber(2)), false
	},
	FuncCot: func(u Node) (Node, Node, bool) {
		return nil, dpow(NewCall(FuncSin, u), NewNumber(2)), true
	},
	FuncSec: func(u Node) (Node, Node, bool) {
		return dmul(NewCall(FuncSec, u), NewCall(FuncTan, Clone(u))), nil, false
	},
	FuncCsc: func(u Node) (Node, Node, bool) {
		return dneg(dmul(NewCall(FuncCsc, u), NewCall(FuncCot, Clone(u)))), nil, false
	},
	FuncArcsin: func(u Node) (Node, Node, bool) { return nil, sqrt1m(u), false },
	FuncArccos: func(u Node) (Node, Node, bool) { return nil, sqrt1m(u), true },
	FuncArctan: func(u Node) (Node, Node, bool) { return nil, onePlusSq(u), false },
	FuncArccot: func(u Node) (Node, Node, bool) { return nil, onePlusSq(u), true },
	FuncArcsec: func(u Node) (Node, Node, bool) { return nil, absSqrtSqm1(u), false },
	FuncArccsc: func(u Node) (Node, Node, bool) { return nil, absSqrtSqm1(u), true },

	FuncSinh: func(u Node) (Node, Node, bool) { return NewCall(FuncCosh, u), nil, false },
	FuncCosh: func(u Node) (Node, Node, bool) { return NewCall(FuncSinh, u), nil, false },
	FuncTanh: func(u Node) (Node, Node, bool) {
		return nil, dpow(NewCall(FuncCosh, u), NewNumber(2)), false
	},
	FuncCoth: func(u Node) (Node, Node, bool) {
		return nil, dpow(NewCall(FuncSinh, u), NewNumber(2)), true
	},
	FuncSech: func(u Node) (Node, Node, bool) {
		return dneg(dmul(NewCall(FuncSech, u), NewCall(FuncTanh, Clone(u)))), nil, false
	},
	FuncCsch: func(u Node) (Node, Node, bool) {
		return dneg(dmul(NewCall(FuncCsch, u), NewCall(FuncCoth, Clone(u)))), nil, false
	},
	FuncArsinh: func(u Node) (Node, Node, bool) {
		return nil, NewCall(FuncSqrt, dadd(dpow(u, NewNumber(2)), NewNumber(1))), false
	},
	FuncArcosh: func(u Node) (Node, Node, bool) {
		return nil, NewCall(FuncSqrt, dsub(dpow(u, NewNumber(2)), NewNumber(1))), false
	},
	FuncArtanh: func(u Node) (Node, Node, bool) {
		return nil, dsub(NewNumber(1), dpow(u, NewNumber(2))), false
	},
	FuncArcoth: func(u Node) (Node, Node, bool) {
		return nil, dsub(NewNumber(1), dpow(u, NewNumber(2))), false
	},
	FuncArsech: func(u Node) (Node, Node, bool) { return nil, dmul(u, sqrt1m(Clone(u))), true },
	FuncArcsch: func(u Node) (Node, Node, bool) {
		a := NewCall(FuncAbs, u)
		return nil, dmul(a, NewCall(FuncSqrt, dadd(NewNumber(1), dpow(Clone(u), NewNumber(2))))), true
	},
}

// sqrt1m builds sqrt(1 - u^2).
func sqrt1m(u Node) Node {
	return NewCall(FuncSqrt, dsub(NewNumber(1), dpow(u, NewNumber(2))))
}

// onePlusSq builds 1 + u^2.
func onePlusSq(u Node) Node {
	return dadd(NewNumber(1), dpow(u, NewNumber(2)))
}

// absSqrtSqm1 builds abs(u)·sqrt(u^2 - 1).
func absSqrtSqm1(u Node) Node {
	return dmul(NewCall(FuncAbs, u), NewCall(FuncSqrt, dsub(dpow(Clone(u), NewNumber(2)), NewNumber(1))))
}

func (differ) VisitCall(n *Call, s *dstate) (Node, error) {
	switch n.fn {
	case FuncLog:
		// log(b, u) = ln(u) / ln(b)
		q := NewBinary(OpDiv, NewCall(FuncLn, Clone(n.args[1])), NewCall(FuncLn, Clone(n.args[0])))
		return derive(q, s)
	case FuncRoot:
		// root(u, k) = u^(1/k)
		p := NewBinary(OpPow, Clone(n.args[0]), NewBinary(OpDiv, NewNumber(1), Clone(n.args[1])))
		return derive(p, s)
	}
	rule, ok := chainRules[n.fn]
	if !ok {
		return nil, &UndifferentiableError{Kind: n.fn.String()}
	}
	du, err := derive(n.args[0], s)
	if err != nil {
		return nil, err
	}
	outer, denom, negate := rule(Clone(n.args[0]))
	var r Node
	if denom != nil {
		r = ddiv(du, denom)
	} else {
		r = dmul(outer, du)
	}
	if negate {
		r = dneg(r)
	}
	return r, nil
}

func (differ) VisitUserCall(n *UserCall, s *dstate) (Node, error) {
	if s.ctx == nil {
		return nil, &UndifferentiableError{Kind: "call of " + n.name}
	}
	var params []string
	var body Node
	if f, ok := s.ctx.function(n.name, len(n.args)); ok {
		params, body = f.params, f.body
	} else if v, ok := s.ctx.get(n.name); ok {
		l, ok := v.(*Lambda)
		if !ok || len(l.params) != len(n.args) {
			return nil, &UndifferentiableError{Kind: "call of " + n.name}
		}
		params, body = l.params, l.body
	} else {
		return nil, &UndifferentiableError{Kind: "call of " + n.name}
	}
	if s.depth >= maxDepth {
		return nil, ErrDepth
	}
	m := make(map[string]Node, len(params))
	for i, p := range params {
		m[p] = n.args[i]
	}
	inner := *s
	inner.depth++
	return derive(substitute(body, m), &inner)
}

func (differ) VisitVector(n *VectorLit, s *dstate) (Node, error) {
	r := make([]Node, len(n.args))
	for i, a := range n.args {
		var err error
		r[i], err = derive(a, s)
		if err != nil {
			return nil, err
		}
	}
	return NewVector(r...), nil
}

func (d differ) VisitMatrix(n *MatrixLit, s *dstate) (Node, error) {
	rows := make([]*VectorLit, len(n.rows))
	for i, row := range n.rows {
		r, err := d.VisitVector(row, s)
		if err != nil {
			return nil, err
		}
		rows[i] = r.(*VectorLit)
	}
	return NewMatrix(rows...), nil
}

func (differ) VisitLambda(n *Lambda, s *dstate) (Node, error) {
	b, err := derive(n.body, s)
	if err != nil {
		return nil, err
	}
	return NewLambda(n.params, b), nil
}

func (differ) VisitIf(n *If, s *dstate) (Node, error) {
	a, err := derive(n.then, s)
	if err != nil {
		return nil, err
	}
	var b Node = NewNumber(0)
	if n.els != nil {
		b, err = derive(n.els, s)
		if err != nil {
			return nil, err
		}
	}
	return NewIf(Clone(n.cond), a, b), nil
}

func (differ) VisitTernary(n *Ternary, s *dstate) (Node, error) {
	a, err := derive(n.then, s)
	if err != nil {
		return nil, err
	}
	b, err := derive(n.els, s)
	if err != nil {
		return nil, err
	}
	return NewTernary(Clone(n.cond), a, b), nil
}

// substitute replaces free variables in n with copies of nodes from m. It
// builds a new tree, so n is unchanged.
func substitute(n Node, m map[string]Node) Node {
	switch n := n.(type) {
	case *Variable:
		if r, ok := m[n.name]; ok {
			return Clone(r)
		}
		return Clone(n)
	case *Lambda:
		inner := make(map[string]Node, len(m))
		for k, v := range m {
			inner[k] = v
		}
		for _, p := range n.params {
			delete(inner, p)
		}
		return NewLambda(n.params, substitute(n.body, inner))
	}
	r, err := mapChildren(n, func(k Node) (Node, error) { return substitute(k, m), nil })
	if err != nil {
		panic(err)
	}
	if r == n {
		return Clone(n)
	}
	return r
}

// Folding constructors. They combine number literals and drop identities so
// that rules can be written plainly.

func num(n Node) (float64, bool) {
	if c, ok := n.(*Number); ok {
		return c.v, true
	}
	return 0, false
}

func isNum(n Node, v float64) bool {
	c, ok := num(n)
	return ok && c == v
}

// fold evaluates an operation on two number literals when the result is
// finite.
func fold(a, b Node, f func(x, y float64) float64) (Node, bool) {
	x, ok := num(a)
	if !ok {
		return nil, false
	}
	y, ok := num(b)
	if !ok {
		return nil, false
	}
	r := f(x, y)
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return nil, false
	}
	return NewNumber(r), true
}

func dadd(a, b Node) Node {
	switch {
	case isNum(a, 0):
		return b
	case isNum(b, 0):
		return a
	}
	if r, ok := fold(a, b, func(x, y float64) float64 { return x + y }); ok {
		return r
	}
	return NewBinary(OpAdd, a, b)
}

func dsub(a, b Node) Node {
	switch {
	case isNum(b, 0):
		return a
	case isNum(a, 0):
		return dneg(b)
	}
	if r, ok := fold(a, b, func(x, y float64) float64 { return x - y }); ok {
		return r
	}
	return NewBinary(OpSub, a, b)
}

func dmul(a, b Node) Node {
	switch {
	case isNum(a, 0), isNum(b, 0):
		return NewNumber(0)
	case isNum(a, 1):
		return b
	case isNum(b, 1):
		return a
	case isNum(a, -1):
		return dneg(b)
	case isNum(b, -1):
		return dneg(a)
	}
	if r, ok := fold(a, b, func(x, y float64) float64 { return x * y }); ok {
		return r
	}
	return NewBinary(OpMul, a, b)
}

func ddiv(a, b Node) Node {
	switch {
	case isNum(a, 0) && !isNum(b, 0):
		return NewNumber(0)
	case isNum(b, 1):
		return a
	}
	return NewBinary(OpDiv, a, b)
}

func dpow(a, b Node) Node {
	switch {
	case isNum(b, 1):
		return a
	case isNum(b, 0):
		return NewNumber(1)
	}
	return NewBinary(OpPow, a, b)
}

func dneg(a Node) Node {
	if v, ok := num(a); ok {
		return NewNumber(-v)
	}
	if u, ok := a.(*Unary); ok && u.op == OpNeg {
		return u.x
	}
	return NewUnary(OpNeg, a)
}
