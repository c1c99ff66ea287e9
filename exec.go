package mathexpr

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
)

// ErrIterations is returned when a loop runs too many times.
var ErrIterations = errors.New("loop iteration limit exceeded")

// maxIterations is the limit on iterations of a single loop.
const maxIterations = 1 << 20

// Execute evaluates a node in a context. Assignments and definitions in the
// node change the context.
func Execute(n Node, ctx *Context) (Result, error) {
	if ctx == nil {
		panic("mathexpr: Execute with nil context")
	}
	v, err := ctx.exec(n)
	if err != nil {
		return Result{}, err
	}
	return NewResult(v)
}

// exec evaluates a node to a raw value.
func (ctx *Context) exec(n Node) (any, error) {
	return Analyze[any, *Context](n, executor{}, ctx)
}

// executor is the analyzer which evaluates nodes.
type executor struct{}

var _ Analyzer[any, *Context] = executor{}

func (executor) VisitNumber(n *Number, ctx *Context) (any, error)     { return n.v, nil }
func (executor) VisitBool(n *Bool, ctx *Context) (any, error)         { return n.v, nil }
func (executor) VisitString(n *StringLit, ctx *Context) (any, error)  { return n.s, nil }
func (executor) VisitConstant(n *Constant, ctx *Context) (any, error) { return n.Value(), nil }
func (executor) VisitAngle(n *AngleLit, ctx *Context) (any, error)    { return n.a, nil }
func (executor) VisitLambda(n *Lambda, ctx *Context) (any, error)     { return n, nil }

func (executor) VisitQuantity(n *QuantityLit, ctx *Context) (any, error) {
	return n.q, nil
}

func (executor) VisitImaginary(n *Imaginary, ctx *Context) (any, error) {
	return complex(0, 1), nil
}

func (executor) VisitPolar(n *Polar, ctx *Context) (any, error) {
	return cmplx.Rect(n.mag, n.phase*math.Pi/180), nil
}

func (executor) VisitVariable(n *Variable, ctx *Context) (any, error) {
	v, ok := ctx.get(n.name)
	if !ok {
		return nil, &NameError{Name: n.name, Suggestions: suggest(n.name, ctx.Vars())}
	}
	return v, nil
}

func (executor) VisitUnary(n *Unary, ctx *Context) (any, error) {
	x, err := ctx.exec(n.x)
	if err != nil {
		return nil, err
	}
	return unary(n.op, x)
}

func (executor) VisitBinary(n *Binary, ctx *Context) (any, error) {
	x, err := ctx.exec(n.x)
	if err != nil {
		return nil, err
	}
	if b, ok := x.(bool); ok {
		// Short circuit when the left operand decides the result.
		switch {
		case n.op == OpAnd && !b, n.op == OpNor && b:
			return false, nil
		case n.op == OpOr && b, n.op == OpNand && !b, n.op == OpImpl && !b:
			return true, nil
		}
	}
	y, err := ctx.exec(n.y)
	if err != nil {
		return nil, err
	}
	return binary(n.op, x, y, ctx)
}

func (executor) VisitCall(n *Call, ctx *Context) (any, error) {
	switch n.fn {
	case FuncDeriv:
		return ctx.deriv(n.args)
	case FuncSimplify:
		return ctx.simplify(n.args[0])
	}
	args, err := ctx.execAll(n.args)
	if err != nil {
		return nil, err
	}
	return ctx.builtin(n.fn, args)
}

func (ctx *Context) execAll(nodes []Node) ([]any, error) {
	r := make([]any, len(nodes))
	for i, a := range nodes {
		var err error
		r[i], err = ctx.exec(a)
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (executor) VisitUserCall(n *UserCall, ctx *Context) (any, error) {
	if f, ok := ctx.function(n.name, len(n.args)); ok {
		return ctx.call(n.name, f.params, f.body, n.args)
	}
	if v, ok := ctx.get(n.name); ok {
		l, ok := v.(*Lambda)
		if !ok {
			return nil, notSupported("call", v)
		}
		if len(l.params) != len(n.args) {
			return nil, &ArityError{Name: n.name, Got: len(n.args), Want: len(l.params)}
		}
		return ctx.call(n.name, l.params, l.body, n.args)
	}
	for c := ctx; c != nil; c = c.parent {
		for k := range c.funcs {
			if k.name == n.name {
				return nil, &ArityError{Name: n.name, Got: len(n.args), Want: k.arity}
			}
		}
	}
	cands := append(ctx.Funcs(), ctx.Vars()...)
	cands = append(cands, defaultFuncs.Names()...)
	return nil, &NameError{Name: n.name, Func: true, Suggestions: suggest(n.name, cands)}
}

// call evaluates arguments in the caller's scope and the body in a new scope
// binding them to the parameters. Names which are not parameters resolve in
// the caller's scope.
func (ctx *Context) call(name string, params []string, body Node, argn []Node) (any, error) {
	args, err := ctx.execAll(argn)
	if err != nil {
		return nil, err
	}
	s, err := ctx.scope(params, args)
	if err != nil {
		return nil, err
	}
	ctx.debug("call", "func", name, "args", len(args), "depth", s.depth)
	return s.exec(body)
}

func (executor) VisitVector(n *VectorLit, ctx *Context) (any, error) {
	r := make(Vector, len(n.args))
	for i, a := range n.args {
		v, err := ctx.exec(a)
		if err != nil {
			return nil, err
		}
		if !isReal(v) {
			return nil, notSupported("vector element", v)
		}
		r[i] = toFloat(v)
	}
	return r, nil
}

func (executor) VisitMatrix(n *MatrixLit, ctx *Context) (any, error) {
	r := make(Matrix, len(n.rows))
	for i, row := range n.rows {
		v, err := ctx.exec(row)
		if err != nil {
			return nil, err
		}
		r[i] = v.(Vector)
	}
	return r, nil
}

// cond evaluates the condition of a conditional or loop.
func (ctx *Context) cond(n Node, op string) (bool, error) {
	v, err := ctx.exec(n)
	if err != nil {
		return false, err
	}
	b, ok := v.(bool)
	if !ok {
		return false, notSupported(op, v)
	}
	return b, nil
}

func (executor) VisitIf(n *If, ctx *Context) (any, error) {
	c, err := ctx.cond(n.cond, "if")
	if err != nil {
		return nil, err
	}
	switch {
	case c:
		return ctx.exec(n.then)
	case n.els != nil:
		return ctx.exec(n.els)
	}
	return Empty{}, nil
}

func (executor) VisitTernary(n *Ternary, ctx *Context) (any, error) {
	c, err := ctx.cond(n.cond, "?:")
	if err != nil {
		return nil, err
	}
	if c {
		return ctx.exec(n.then)
	}
	return ctx.exec(n.els)
}

func (executor) VisitFor(n *For, ctx *Context) (any, error) {
	if _, err := ctx.exec(n.init); err != nil {
		return nil, err
	}
	for i := 0; ; i++ {
		if i == maxIterations {
			return nil, ErrIterations
		}
		c, err := ctx.cond(n.cond, "for")
		if err != nil {
			return nil, err
		}
		if !c {
			return Empty{}, nil
		}
		if _, err := ctx.exec(n.body); err != nil {
			return nil, err
		}
		if _, err := ctx.exec(n.iter); err != nil {
			return nil, err
		}
	}
}

func (executor) VisitWhile(n *While, ctx *Context) (any, error) {
	for i := 0; ; i++ {
		if i == maxIterations {
			return nil, ErrIterations
		}
		c, err := ctx.cond(n.cond, "while")
		if err != nil {
			return nil, err
		}
		if !c {
			return Empty{}, nil
		}
		if _, err := ctx.exec(n.body); err != nil {
			return nil, err
		}
	}
}

// compoundOps maps compound assignment operators to their binary operators.
var compoundOps = [...]BinaryOp{
	AssignAdd: OpAdd,
	AssignSub: OpSub,
	AssignMul: OpMul,
	AssignDiv: OpDiv,
	AssignInc: OpAdd,
	AssignDec: OpSub,
}

func (executor) VisitAssign(n *Assign, ctx *Context) (any, error) {
	var v any
	switch n.op {
	case AssignSet:
		var err error
		v, err = ctx.exec(n.value)
		if err != nil {
			return nil, err
		}
	default:
		old, ok := ctx.get(n.name)
		if !ok {
			return nil, &NameError{Name: n.name, Suggestions: suggest(n.name, ctx.Vars())}
		}
		var y any = 1.0
		if n.value != nil {
			var err error
			y, err = ctx.exec(n.value)
			if err != nil {
				return nil, err
			}
		}
		var err error
		v, err = binary(compoundOps[n.op], old, y, ctx)
		if err != nil {
			return nil, err
		}
	}
	if _, ok := v.(Empty); ok {
		return nil, notSupported(n.op.String(), v)
	}
	ctx.set(n.name, v)
	ctx.debug("assign", "var", n.name, "op", n.op.String(), "kind", kindName(v))
	return v, nil
}

func (executor) VisitDefine(n *Define, ctx *Context) (any, error) {
	switch t := n.target.(type) {
	case *Variable:
		v, err := ctx.exec(n.value)
		if err != nil {
			return nil, err
		}
		if _, ok := v.(Empty); ok {
			return nil, notSupported("def", v)
		}
		ctx.set(t.name, v)
		ctx.debug("define", "var", t.name, "kind", kindName(v))
		return v, nil
	case *UserCall:
		params, _ := definedParams(t)
		ctx.Define(t.name, params, n.value)
		ctx.debug("define", "func", t.name, "params", len(params))
		return Empty{}, nil
	default:
		panic("mathexpr: invalid definition target " + nodeKind(t))
	}
}

func (executor) VisitUndefine(n *Undefine, ctx *Context) (any, error) {
	switch t := n.target.(type) {
	case *Variable:
		ok := ctx.Unset(t.name)
		ctx.debug("undefine", "var", t.name, "found", ok)
	case *UserCall:
		ok := ctx.Undefine(t.name, len(t.args))
		ctx.debug("undefine", "func", t.name, "params", len(t.args), "found", ok)
	default:
		panic("mathexpr: invalid definition target " + nodeKind(t))
	}
	return Empty{}, nil
}

func (executor) VisitConvert(n *Convert, ctx *Context) (any, error) {
	x, err := ctx.exec(n.x)
	if err != nil {
		return nil, err
	}
	return convert(x, n.unit, ctx)
}

// lambdaOf finds the function an argument of deriv or simplify denotes: a
// lambda literal, a variable holding a lambda, or a user function. Otherwise,
// fn is false and the argument is an expression in its free variables.
func (ctx *Context) lambdaOf(n Node) (params []string, body Node, fn bool) {
	switch n := n.(type) {
	case *Lambda:
		return n.params, n.body, true
	case *Variable:
		if v, ok := ctx.get(n.name); ok {
			if l, ok := v.(*Lambda); ok {
				return l.params, l.body, true
			}
		}
		for c := ctx; c != nil; c = c.parent {
			for k, f := range c.funcs {
				if k.name == n.name {
					return f.params, f.body, true
				}
			}
		}
	}
	return freeVars(n), n, false
}

func (ctx *Context) deriv(args []Node) (any, error) {
	params, body, fn := ctx.lambdaOf(args[0])
	x := "x"
	switch {
	case len(args) > 1:
		v, ok := args[1].(*Variable)
		if !ok {
			return nil, &NotSupportedError{Op: "deriv", Kinds: []string{nodeKind(args[1])}}
		}
		x = v.name
	case fn && len(params) > 0, !fn && len(params) == 1:
		x = params[0]
	}
	if !fn {
		params = []string{x}
	}
	d, err := DifferentiateIn(body, x, ctx)
	if err != nil {
		return nil, err
	}
	return NewLambda(params, d), nil
}

func (ctx *Context) simplify(arg Node) (any, error) {
	params, body, _ := ctx.lambdaOf(arg)
	s, err := Simplify(body)
	if err != nil {
		return nil, err
	}
	return NewLambda(params, s), nil
}
