package mathexpr

import "math"

// Simplify applies local algebraic rewrites to n, bottom-up, once per node.
// It folds operations on literals, eliminates identities such as x + 0 and
// x ^ 1, and collapses double negations. The result is not a canonical form.
//
// Rewrites which would discard an operand are made only when the discarded
// operand has no side effects. Simplification assumes numeric operands, so
// for example x - x becomes 0 even if x holds a vector.
//
// The result shares no nodes with n.
func Simplify(n Node) (Node, error) {
	mustNode(n)
	s := &sstate{ctx: NewContext()}
	return s.simplify(n)
}

// sstate holds a scratch context for folding literals, so that folded results
// agree with evaluation. Folding never depends on context state.
type sstate struct {
	ctx *Context
}

func (s *sstate) simplify(n Node) (Node, error) {
	a := simplifier{DefaultAnalyzer[Node, *sstate]{Default: rebuild}}
	return Analyze[Node, *sstate](n, a, s)
}

// rebuild simplifies the children of a node with no rules of its own.
func rebuild(n Node, s *sstate) (Node, error) {
	if len(children(n)) == 0 {
		return Clone(n), nil
	}
	return mapChildren(n, s.simplify)
}

type simplifier struct {
	DefaultAnalyzer[Node, *sstate]
}

func (simplifier) VisitUnary(n *Unary, s *sstate) (Node, error) {
	x, err := s.simplify(n.x)
	if err != nil {
		return nil, err
	}
	if r, ok := s.foldUnary(n.op, x); ok {
		return r, nil
	}
	switch n.op {
	case OpPlus:
		if _, ok := x.(*Number); ok {
			return x, nil
		}
	case OpNeg, OpNot:
		if u, ok := x.(*Unary); ok && u.op == n.op {
			return u.x, nil
		}
	}
	return NewUnary(n.op, x), nil
}

func (simplifier) VisitBinary(n *Binary, s *sstate) (Node, error) {
	x, err := s.simplify(n.x)
	if err != nil {
		return nil, err
	}
	y, err := s.simplify(n.y)
	if err != nil {
		return nil, err
	}
	if r, ok := s.foldBinary(n.op, x, y); ok {
		return r, nil
	}
	switch n.op {
	case OpAdd:
		switch {
		case isNum(y, 0):
			return x, nil
		case isNum(x, 0):
			return y, nil
		}
	case OpSub:
		switch {
		case isNum(y, 0):
			return x, nil
		case isNum(x, 0):
			return negate(y), nil
		case pure(x) && Equal(x, y):
			return NewNumber(0), nil
		}
	case OpMul:
		switch {
		case isNum(x, 0) && pure(y), isNum(y, 0) && pure(x):
			return NewNumber(0), nil
		case isNum(x, 1):
			return y, nil
		case isNum(y, 1):
			return x, nil
		}
	case OpDiv:
		switch {
		case isNum(y, 1):
			return x, nil
		case isNum(x, 0) && pure(y) && !isNum(y, 0):
			return NewNumber(0), nil
		}
	case OpPow:
		switch {
		case isNum(y, 1):
			return x, nil
		case isNum(y, 0) && pure(x), isNum(x, 1) && pure(y):
			return NewNumber(1), nil
		}
	case OpAnd, OpOr:
		// true and b = b, false or b = b
		unit := n.op == OpAnd
		switch {
		case isBool(x, unit):
			return y, nil
		case isBool(y, unit):
			return x, nil
		case isBool(x, !unit) && pure(y), isBool(y, !unit) && pure(x):
			return NewBool(!unit), nil
		}
	}
	return NewBinary(n.op, x, y), nil
}

func (simplifier) VisitCall(n *Call, s *sstate) (Node, error) {
	r, err := mapChildren(n, s.simplify)
	if err != nil {
		return nil, err
	}
	c := r.(*Call)
	if len(c.args) != 1 {
		return c, nil
	}
	u := c.args[0]
	switch c.fn {
	case FuncLn:
		switch {
		case isConst(u, FuncE):
			return NewNumber(1), nil
		case isNum(u, 1):
			return NewNumber(0), nil
		case isCall(u, FuncExp):
			return u.(*Call).args[0], nil
		}
	case FuncExp:
		switch {
		case isNum(u, 0):
			return NewNumber(1), nil
		case isCall(u, FuncLn):
			return u.(*Call).args[0], nil
		}
	case FuncAbs:
		if isCall(u, FuncAbs) {
			return u, nil
		}
	}
	return c, nil
}

func (simplifier) VisitTernary(n *Ternary, s *sstate) (Node, error) {
	c, err := s.simplify(n.cond)
	if err != nil {
		return nil, err
	}
	if b, ok := c.(*Bool); ok {
		if b.v {
			return s.simplify(n.then)
		}
		return s.simplify(n.els)
	}
	t, err := s.simplify(n.then)
	if err != nil {
		return nil, err
	}
	e, err := s.simplify(n.els)
	if err != nil {
		return nil, err
	}
	return NewTernary(c, t, e), nil
}

func (simplifier) VisitIf(n *If, s *sstate) (Node, error) {
	c, err := s.simplify(n.cond)
	if err != nil {
		return nil, err
	}
	if b, ok := c.(*Bool); ok && (b.v || n.els != nil) {
		if b.v {
			return s.simplify(n.then)
		}
		return s.simplify(n.els)
	}
	t, err := s.simplify(n.then)
	if err != nil {
		return nil, err
	}
	if n.els == nil {
		return NewIf(c, t, nil), nil
	}
	e, err := s.simplify(n.els)
	if err != nil {
		return nil, err
	}
	return NewIf(c, t, e), nil
}

// literal returns the value of a number or boolean literal.
func literal(n Node) (any, bool) {
	switch n := n.(type) {
	case *Number:
		return n.v, true
	case *Bool:
		return n.v, true
	}
	return nil, false
}

// toLiteral converts a folded value back to a node. Only finite numbers and
// booleans have literal forms.
func toLiteral(v any) (Node, bool) {
	switch v := v.(type) {
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, false
		}
		return NewNumber(v), true
	case bool:
		return NewBool(v), true
	}
	return nil, false
}

func (s *sstate) foldUnary(op UnaryOp, x Node) (Node, bool) {
	a, ok := literal(x)
	if !ok {
		return nil, false
	}
	v, err := unary(op, a)
	if err != nil {
		return nil, false
	}
	return toLiteral(v)
}

// foldBinary evaluates an operation on two literals. Operations which fail
// are left for evaluation to report.
func (s *sstate) foldBinary(op BinaryOp, x, y Node) (Node, bool) {
	a, ok := literal(x)
	if !ok {
		return nil, false
	}
	b, ok := literal(y)
	if !ok {
		return nil, false
	}
	v, err := binary(op, a, b, s.ctx)
	if err != nil {
		return nil, false
	}
	return toLiteral(v)
}

// negate builds the negation of an already simplified node.
func negate(n Node) Node {
	if v, ok := num(n); ok {
		return NewNumber(-v)
	}
	if u, ok := n.(*Unary); ok && u.op == OpNeg {
		return u.x
	}
	return NewUnary(OpNeg, n)
}

// pure reports whether evaluating n cannot change a context. Calls of user
// functions are not pure, since their bodies may assign.
func pure(n Node) bool {
	switch n.(type) {
	case *Assign, *Define, *Undefine, *UserCall, *For, *While:
		return false
	}
	for _, k := range children(n) {
		if !pure(k) {
			return false
		}
	}
	return true
}

func isBool(n Node, v bool) bool {
	b, ok := n.(*Bool)
	return ok && b.v == v
}

func isConst(n Node, fn Func) bool {
	c, ok := n.(*Constant)
	return ok && c.fn == fn
}

func isCall(n Node, fn Func) bool {
	c, ok := n.(*Call)
	return ok && c.fn == fn
}
