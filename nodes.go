package mathexpr

import (
	"math"
	"sort"
	"strconv"

	"github.com/zephyrtronium/mathexpr/units"
)

// Node is a node in the abstract syntax tree of an expression. The set of
// node types is closed: every Node is one of the pointer types in this
// package. Nodes are immutable once constructed.
type Node interface {
	// String formats the node as source text which parses to an equal node.
	String() string

	accept(v visitor) (any, error)
}

// Number is a real number literal.
type Number struct {
	v float64
}

// NewNumber creates a number literal.
func NewNumber(v float64) *Number { return &Number{v: v} }

// Value returns the number.
func (n *Number) Value() float64 { return n.v }

// Bool is true or false.
type Bool struct {
	v bool
}

// NewBool creates a boolean literal.
func NewBool(v bool) *Bool { return &Bool{v: v} }

// Value returns the boolean.
func (n *Bool) Value() bool { return n.v }

// StringLit is a quoted string.
type StringLit struct {
	s string
}

// NewString creates a string literal.
func NewString(s string) *StringLit { return &StringLit{s: s} }

// Value returns the string, without quotes.
func (n *StringLit) Value() string { return n.s }

// Variable is a reference to a named value in the evaluation context.
type Variable struct {
	name string
}

// NewVariable creates a variable reference.
func NewVariable(name string) *Variable { return &Variable{name: name} }

// Name returns the variable name.
func (n *Variable) Name() string { return n.name }

// Constant is a named mathematical constant, pi or e.
type Constant struct {
	fn Func
}

// NewConstant creates a constant. Panics if fn is not a constant.
func NewConstant(fn Func) *Constant {
	if !fn.IsConstant() {
		panic("mathexpr: " + fn.String() + " is not a constant")
	}
	return &Constant{fn: fn}
}

// Func returns the constant's identifier.
func (n *Constant) Func() Func { return n.fn }

// Value returns the value of the constant.
func (n *Constant) Value() float64 {
	if n.fn == FuncPi {
		return math.Pi
	}
	return math.E
}

// Imaginary is the imaginary unit i.
type Imaginary struct{}

// NewImaginary creates an imaginary unit node.
func NewImaginary() *Imaginary { return &Imaginary{} }

// Polar is a complex literal in polar form, magnitude∠phase°.
type Polar struct {
	mag, phase float64
}

// NewPolar creates a polar complex literal with the phase in degrees.
func NewPolar(mag, phase float64) *Polar { return &Polar{mag: mag, phase: phase} }

// Magnitude returns the magnitude of the literal.
func (n *Polar) Magnitude() float64 { return n.mag }

// Phase returns the phase of the literal in degrees.
func (n *Polar) Phase() float64 { return n.phase }

// AngleLit is an angle with an explicit unit, like 90° or 1 rad.
type AngleLit struct {
	a units.Angle
}

// NewAngle creates an angle literal.
func NewAngle(v float64, u units.AngleUnit) *AngleLit {
	return &AngleLit{a: units.Angle{Value: v, Unit: u}}
}

// Angle returns the angle.
func (n *AngleLit) Angle() units.Angle { return n.a }

// QuantityLit is a physical quantity, like 10 kg.
type QuantityLit struct {
	q units.Quantity
}

// NewQuantity creates a quantity literal.
func NewQuantity(v float64, u units.Unit) *QuantityLit {
	return &QuantityLit{q: units.Quantity{Value: v, Unit: u}}
}

// Quantity returns the quantity.
func (n *QuantityLit) Quantity() units.Quantity { return n.q }

// unaryShape is the child storage of nodes with one operand.
type unaryShape struct {
	x Node
}

// X returns the operand.
func (s unaryShape) X() Node { return s.x }

// binaryShape is the child storage of nodes with two operands.
type binaryShape struct {
	x, y Node
}

// X returns the left operand.
func (s binaryShape) X() Node { return s.x }

// Y returns the right operand.
func (s binaryShape) Y() Node { return s.y }

// naryShape is the child storage of nodes with a list of operands.
type naryShape struct {
	args []Node
}

// Args returns a copy of the operands.
func (s naryShape) Args() []Node { return append([]Node(nil), s.args...) }

// Len returns the number of operands.
func (s naryShape) Len() int { return len(s.args) }

// Arg returns the i'th operand.
func (s naryShape) Arg(i int) Node { return s.args[i] }

func nary(args []Node) naryShape {
	for _, a := range args {
		if a == nil {
			panic("mathexpr: nil operand")
		}
	}
	return naryShape{args: append([]Node(nil), args...)}
}

// UnaryOp is a prefix or postfix operator.
type UnaryOp int8

const (
	OpNeg UnaryOp = iota
	OpPlus
	OpNot
	OpFactorial
)

func (op UnaryOp) String() string {
	switch op {
	case OpNeg:
		return "-"
	case OpPlus:
		return "+"
	case OpNot:
		return "not"
	case OpFactorial:
		return "!"
	default:
		return "UnaryOp(" + strconv.Itoa(int(op)) + ")"
	}
}

// Unary is a prefix or postfix operation.
type Unary struct {
	op UnaryOp
	unaryShape
}

// NewUnary creates a unary operation.
func NewUnary(op UnaryOp, x Node) *Unary {
	mustNode(x)
	return &Unary{op: op, unaryShape: unaryShape{x: x}}
}

// Op returns the operator.
func (n *Unary) Op() UnaryOp { return n.op }

// BinaryOp is an infix operator.
type BinaryOp int8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpPow
	OpMod
	// OpRational is exact division of integers, a // b.
	OpRational

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpAnd
	OpOr
	OpXor
	OpNand
	OpNor
	OpImpl
	// OpEquality is logical equivalence, a <-> b.
	OpEquality
)

var binarySymbols = [...]string{
	OpAdd:      "+",
	OpSub:      "-",
	OpMul:      "*",
	OpDiv:      "/",
	OpPow:      "^",
	OpMod:      "%",
	OpRational: "//",
	OpEq:       "==",
	OpNe:       "!=",
	OpLt:       "<",
	OpLe:       "<=",
	OpGt:       ">",
	OpGe:       ">=",
	OpAnd:      "and",
	OpOr:       "or",
	OpXor:      "xor",
	OpNand:     "nand",
	OpNor:      "nor",
	OpImpl:     "->",
	OpEquality: "<->",
}

func (op BinaryOp) String() string {
	if op < 0 || int(op) >= len(binarySymbols) {
		return "BinaryOp(" + strconv.Itoa(int(op)) + ")"
	}
	return binarySymbols[op]
}

// Binary is an infix operation.
type Binary struct {
	op BinaryOp
	binaryShape
}

// NewBinary creates an infix operation.
func NewBinary(op BinaryOp, x, y Node) *Binary {
	mustNode(x)
	mustNode(y)
	return &Binary{op: op, binaryShape: binaryShape{x: x, y: y}}
}

// Op returns the operator.
func (n *Binary) Op() BinaryOp { return n.op }

// Call is an application of a built-in function.
type Call struct {
	fn Func
	naryShape
}

// NewCall creates a call of a built-in function. Panics if fn cannot be called
// with the given number of arguments.
func NewCall(fn Func, args ...Node) *Call {
	if !fn.CanCall(len(args)) || fn.IsConstant() {
		panic("mathexpr: cannot call " + fn.String() + " with " + strconv.Itoa(len(args)) + " arguments")
	}
	return &Call{fn: fn, naryShape: nary(args)}
}

// Func returns the called function.
func (n *Call) Func() Func { return n.fn }

// UserCall is an application of a function defined in the evaluation context
// or of a variable holding a lambda.
type UserCall struct {
	name string
	naryShape
}

// NewUserCall creates a call of a user function.
func NewUserCall(name string, args ...Node) *UserCall {
	return &UserCall{name: name, naryShape: nary(args)}
}

// Name returns the name of the called function.
func (n *UserCall) Name() string { return n.name }

// VectorLit is a vector literal, {a, b, c}.
type VectorLit struct {
	naryShape
}

// NewVector creates a vector literal. Panics if there are no elements.
func NewVector(elems ...Node) *VectorLit {
	if len(elems) == 0 {
		panic("mathexpr: empty vector")
	}
	return &VectorLit{naryShape: nary(elems)}
}

// MatrixLit is a matrix literal, {{a, b}, {c, d}}.
type MatrixLit struct {
	rows []*VectorLit
}

// NewMatrix creates a matrix literal. Panics if there are no rows or the rows
// differ in length.
func NewMatrix(rows ...*VectorLit) *MatrixLit {
	if len(rows) == 0 {
		panic("mathexpr: empty matrix")
	}
	for _, r := range rows[1:] {
		if r.Len() != rows[0].Len() {
			panic("mathexpr: matrix rows differ in length")
		}
	}
	return &MatrixLit{rows: append([]*VectorLit(nil), rows...)}
}

// Rows returns a copy of the rows of the matrix.
func (n *MatrixLit) Rows() []*VectorLit { return append([]*VectorLit(nil), n.rows...) }

// Size returns the number of rows and columns.
func (n *MatrixLit) Size() (rows, cols int) { return len(n.rows), n.rows[0].Len() }

// Lambda is an anonymous function, (x, y) => body.
type Lambda struct {
	params []string
	body   Node
}

// NewLambda creates a lambda.
func NewLambda(params []string, body Node) *Lambda {
	mustNode(body)
	return &Lambda{params: append([]string(nil), params...), body: body}
}

// Params returns a copy of the parameter names.
func (n *Lambda) Params() []string { return append([]string(nil), n.params...) }

// Body returns the lambda body.
func (n *Lambda) Body() Node { return n.body }

// If is a conditional, if c then a else b. The else branch may be absent.
type If struct {
	cond, then, els Node
}

// NewIf creates a conditional. els may be nil.
func NewIf(cond, then, els Node) *If {
	mustNode(cond)
	mustNode(then)
	return &If{cond: cond, then: then, els: els}
}

// Cond returns the condition.
func (n *If) Cond() Node { return n.cond }

// Then returns the branch taken when the condition is true.
func (n *If) Then() Node { return n.then }

// Else returns the branch taken when the condition is false, or nil.
func (n *If) Else() Node { return n.els }

// Ternary is a conditional, c ? a : b.
type Ternary struct {
	cond, then, els Node
}

// NewTernary creates a ternary conditional.
func NewTernary(cond, then, els Node) *Ternary {
	mustNode(cond)
	mustNode(then)
	mustNode(els)
	return &Ternary{cond: cond, then: then, els: els}
}

// Cond returns the condition.
func (n *Ternary) Cond() Node { return n.cond }

// Then returns the value when the condition is true.
func (n *Ternary) Then() Node { return n.then }

// Else returns the value when the condition is false.
func (n *Ternary) Else() Node { return n.els }

// For is a loop, for(init; cond; iter) body.
type For struct {
	init, cond, iter, body Node
}

// NewFor creates a for loop.
func NewFor(init, cond, iter, body Node) *For {
	mustNode(init)
	mustNode(cond)
	mustNode(iter)
	mustNode(body)
	return &For{init: init, cond: cond, iter: iter, body: body}
}

func (n *For) Init() Node { return n.init }
func (n *For) Cond() Node { return n.cond }
func (n *For) Iter() Node { return n.iter }
func (n *For) Body() Node { return n.body }

// While is a loop, while(cond) body.
type While struct {
	cond, body Node
}

// NewWhile creates a while loop.
func NewWhile(cond, body Node) *While {
	mustNode(cond)
	mustNode(body)
	return &While{cond: cond, body: body}
}

func (n *While) Cond() Node { return n.cond }
func (n *While) Body() Node { return n.body }

// AssignOp is an assignment operator.
type AssignOp int8

const (
	AssignSet AssignOp = iota
	AssignAdd
	AssignSub
	AssignMul
	AssignDiv
	// AssignInc and AssignDec have no value.
	AssignInc
	AssignDec
)

var assignSymbols = [...]string{
	AssignSet: ":=",
	AssignAdd: "+=",
	AssignSub: "-=",
	AssignMul: "*=",
	AssignDiv: "/=",
	AssignInc: "++",
	AssignDec: "--",
}

func (op AssignOp) String() string {
	if op < 0 || int(op) >= len(assignSymbols) {
		return "AssignOp(" + strconv.Itoa(int(op)) + ")"
	}
	return assignSymbols[op]
}

// Assign sets a variable in the evaluation context.
type Assign struct {
	op    AssignOp
	name  string
	value Node
}

// NewAssign creates an assignment. value must be nil for AssignInc and
// AssignDec and non-nil otherwise.
func NewAssign(op AssignOp, name string, value Node) *Assign {
	if (op == AssignInc || op == AssignDec) != (value == nil) {
		panic("mathexpr: bad value for assignment " + op.String())
	}
	return &Assign{op: op, name: name, value: value}
}

func (n *Assign) Op() AssignOp { return n.op }
func (n *Assign) Name() string { return n.name }
func (n *Assign) Value() Node  { return n.value }

// Define defines a variable or a user function in the evaluation context. The
// target is a *Variable or a *UserCall whose arguments are all variables.
type Define struct {
	target, value Node
}

// NewDefine creates a definition. Panics if the target is not definable.
func NewDefine(target, value Node) *Define {
	mustTarget(target)
	mustNode(value)
	return &Define{target: target, value: value}
}

func (n *Define) Target() Node { return n.target }
func (n *Define) Value() Node  { return n.value }

// Undefine removes a variable or user function from the evaluation context.
type Undefine struct {
	target Node
}

// NewUndefine creates an undefinition.
func NewUndefine(target Node) *Undefine {
	mustTarget(target)
	return &Undefine{target: target}
}

func (n *Undefine) Target() Node { return n.target }

// Convert converts a value to another unit, x to unit.
type Convert struct {
	unaryShape
	unit string
}

// NewConvert creates a unit conversion. The unit is checked on evaluation.
func NewConvert(x Node, unit string) *Convert {
	mustNode(x)
	return &Convert{unaryShape: unaryShape{x: x}, unit: unit}
}

// Unit returns the symbol of the target unit.
func (n *Convert) Unit() string { return n.unit }

func mustNode(n Node) {
	if n == nil {
		panic("mathexpr: nil operand")
	}
}

func mustTarget(n Node) {
	if _, ok := definedParams(n); !ok {
		panic("mathexpr: cannot define " + n.String())
	}
}

// definedParams returns the parameter names of a definition target. A
// variable target has no parameters.
func definedParams(n Node) ([]string, bool) {
	switch n := n.(type) {
	case *Variable:
		return nil, true
	case *UserCall:
		p := make([]string, len(n.args))
		for i, a := range n.args {
			v, ok := a.(*Variable)
			if !ok {
				return nil, false
			}
			p[i] = v.name
		}
		return p, true
	}
	return nil, false
}

func (n *Number) accept(v visitor) (any, error)      { return v.visitNumber(n) }
func (n *Bool) accept(v visitor) (any, error)        { return v.visitBool(n) }
func (n *StringLit) accept(v visitor) (any, error)   { return v.visitString(n) }
func (n *Variable) accept(v visitor) (any, error)    { return v.visitVariable(n) }
func (n *Constant) accept(v visitor) (any, error)    { return v.visitConstant(n) }
func (n *Imaginary) accept(v visitor) (any, error)   { return v.visitImaginary(n) }
func (n *Polar) accept(v visitor) (any, error)       { return v.visitPolar(n) }
func (n *AngleLit) accept(v visitor) (any, error)    { return v.visitAngle(n) }
func (n *QuantityLit) accept(v visitor) (any, error) { return v.visitQuantity(n) }
func (n *Unary) accept(v visitor) (any, error)       { return v.visitUnary(n) }
func (n *Binary) accept(v visitor) (any, error)      { return v.visitBinary(n) }
func (n *Call) accept(v visitor) (any, error)        { return v.visitCall(n) }
func (n *UserCall) accept(v visitor) (any, error)    { return v.visitUserCall(n) }
func (n *VectorLit) accept(v visitor) (any, error)   { return v.visitVector(n) }
func (n *MatrixLit) accept(v visitor) (any, error)   { return v.visitMatrix(n) }
func (n *Lambda) accept(v visitor) (any, error)      { return v.visitLambda(n) }
func (n *If) accept(v visitor) (any, error)          { return v.visitIf(n) }
func (n *Ternary) accept(v visitor) (any, error)     { return v.visitTernary(n) }
func (n *For) accept(v visitor) (any, error)         { return v.visitFor(n) }
func (n *While) accept(v visitor) (any, error)       { return v.visitWhile(n) }
func (n *Assign) accept(v visitor) (any, error)      { return v.visitAssign(n) }
func (n *Define) accept(v visitor) (any, error)      { return v.visitDefine(n) }
func (n *Undefine) accept(v visitor) (any, error)    { return v.visitUndefine(n) }
func (n *Convert) accept(v visitor) (any, error)     { return v.visitConvert(n) }

func (n *Number) String() string      { return Format(n) }
func (n *Bool) String() string        { return Format(n) }
func (n *StringLit) String() string   { return Format(n) }
func (n *Variable) String() string    { return Format(n) }
func (n *Constant) String() string    { return Format(n) }
func (n *Imaginary) String() string   { return Format(n) }
func (n *Polar) String() string       { return Format(n) }
func (n *AngleLit) String() string    { return Format(n) }
func (n *QuantityLit) String() string { return Format(n) }
func (n *Unary) String() string       { return Format(n) }
func (n *Binary) String() string      { return Format(n) }
func (n *Call) String() string        { return Format(n) }
func (n *UserCall) String() string    { return Format(n) }
func (n *VectorLit) String() string   { return Format(n) }
func (n *MatrixLit) String() string   { return Format(n) }
func (n *Lambda) String() string      { return Format(n) }
func (n *If) String() string          { return Format(n) }
func (n *Ternary) String() string     { return Format(n) }
func (n *For) String() string         { return Format(n) }
func (n *While) String() string       { return Format(n) }
func (n *Assign) String() string      { return Format(n) }
func (n *Define) String() string      { return Format(n) }
func (n *Undefine) String() string    { return Format(n) }
func (n *Convert) String() string     { return Format(n) }

// children returns the direct children of a node in evaluation order. Absent
// optional children are omitted.
func children(n Node) []Node {
	switch n := n.(type) {
	case *Number, *Bool, *StringLit, *Variable, *Constant, *Imaginary, *Polar, *AngleLit, *QuantityLit:
		return nil
	case *Unary:
		return []Node{n.x}
	case *Convert:
		return []Node{n.x}
	case *Binary:
		return []Node{n.x, n.y}
	case *Call:
		return n.Args()
	case *UserCall:
		return n.Args()
	case *VectorLit:
		return n.Args()
	case *MatrixLit:
		r := make([]Node, len(n.rows))
		for i, v := range n.rows {
			r[i] = v
		}
		return r
	case *Lambda:
		return []Node{n.body}
	case *If:
		if n.els == nil {
			return []Node{n.cond, n.then}
		}
		return []Node{n.cond, n.then, n.els}
	case *Ternary:
		return []Node{n.cond, n.then, n.els}
	case *For:
		return []Node{n.init, n.cond, n.iter, n.body}
	case *While:
		return []Node{n.cond, n.body}
	case *Assign:
		if n.value == nil {
			return nil
		}
		return []Node{n.value}
	case *Define:
		return []Node{n.target, n.value}
	case *Undefine:
		return []Node{n.target}
	default:
		panic("mathexpr: unknown node type")
	}
}

// mapChildren creates a node of the same kind as n with each child replaced by
// the result of f. Leaves are returned as they are.
func mapChildren(n Node, f func(Node) (Node, error)) (Node, error) {
	kids := children(n)
	if len(kids) == 0 {
		switch n := n.(type) {
		case *Assign:
			return NewAssign(n.op, n.name, nil), nil
		}
		return n, nil
	}
	r := make([]Node, len(kids))
	for i, k := range kids {
		var err error
		r[i], err = f(k)
		if err != nil {
			return nil, err
		}
	}
	switch n := n.(type) {
	case *Unary:
		return NewUnary(n.op, r[0]), nil
	case *Convert:
		return NewConvert(r[0], n.unit), nil
	case *Binary:
		return NewBinary(n.op, r[0], r[1]), nil
	case *Call:
		return &Call{fn: n.fn, naryShape: nary(r)}, nil
	case *UserCall:
		return NewUserCall(n.name, r...), nil
	case *VectorLit:
		return NewVector(r...), nil
	case *MatrixLit:
		rows := make([]*VectorLit, len(r))
		for i, v := range r {
			row, ok := v.(*VectorLit)
			if !ok {
				return nil, &NotSupportedError{Op: "matrix row", Kinds: []string{nodeKind(v)}}
			}
			rows[i] = row
		}
		return NewMatrix(rows...), nil
	case *Lambda:
		return NewLambda(n.params, r[0]), nil
	case *If:
		if len(r) == 2 {
			return NewIf(r[0], r[1], nil), nil
		}
		return NewIf(r[0], r[1], r[2]), nil
	case *Ternary:
		return NewTernary(r[0], r[1], r[2]), nil
	case *For:
		return NewFor(r[0], r[1], r[2], r[3]), nil
	case *While:
		return NewWhile(r[0], r[1]), nil
	case *Assign:
		return NewAssign(n.op, n.name, r[0]), nil
	case *Define:
		return NewDefine(r[0], r[1]), nil
	case *Undefine:
		return NewUndefine(r[0]), nil
	default:
		panic("mathexpr: unknown node type")
	}
}

// Clone creates a deep copy of a node. The copy shares no nodes with the
// original.
func Clone(n Node) Node {
	if n == nil {
		return nil
	}
	switch n := n.(type) {
	case *Number:
		return &Number{v: n.v}
	case *Bool:
		return &Bool{v: n.v}
	case *StringLit:
		return &StringLit{s: n.s}
	case *Variable:
		return &Variable{name: n.name}
	case *Constant:
		return &Constant{fn: n.fn}
	case *Imaginary:
		return &Imaginary{}
	case *Polar:
		return &Polar{mag: n.mag, phase: n.phase}
	case *AngleLit:
		return &AngleLit{a: n.a}
	case *QuantityLit:
		return &QuantityLit{q: n.q}
	}
	r, err := mapChildren(n, func(k Node) (Node, error) { return Clone(k), nil })
	if err != nil {
		// Cloning preserves every node kind, so rebuilding cannot fail.
		panic(err)
	}
	return r
}

// Equal reports whether two nodes are structurally equal. Number literals are
// equal if they are the same number or both NaN.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if !sameHead(a, b) {
		return false
	}
	ca, cb := children(a), children(b)
	if len(ca) != len(cb) {
		return false
	}
	for i := range ca {
		if !Equal(ca[i], cb[i]) {
			return false
		}
	}
	return true
}

// sameHead compares the kinds of two nodes and their non-node fields.
func sameHead(a, b Node) bool {
	switch a := a.(type) {
	case *Number:
		b, ok := b.(*Number)
		return ok && (a.v == b.v || math.IsNaN(a.v) && math.IsNaN(b.v))
	case *Bool:
		b, ok := b.(*Bool)
		return ok && a.v == b.v
	case *StringLit:
		b, ok := b.(*StringLit)
		return ok && a.s == b.s
	case *Variable:
		b, ok := b.(*Variable)
		return ok && a.name == b.name
	case *Constant:
		b, ok := b.(*Constant)
		return ok && a.fn == b.fn
	case *Imaginary:
		_, ok := b.(*Imaginary)
		return ok
	case *Polar:
		b, ok := b.(*Polar)
		return ok && *a == *b
	case *AngleLit:
		b, ok := b.(*AngleLit)
		return ok && a.a == b.a
	case *QuantityLit:
		b, ok := b.(*QuantityLit)
		return ok && a.q == b.q
	case *Unary:
		b, ok := b.(*Unary)
		return ok && a.op == b.op
	case *Binary:
		b, ok := b.(*Binary)
		return ok && a.op == b.op
	case *Call:
		b, ok := b.(*Call)
		return ok && a.fn == b.fn
	case *UserCall:
		b, ok := b.(*UserCall)
		return ok && a.name == b.name
	case *VectorLit:
		_, ok := b.(*VectorLit)
		return ok
	case *MatrixLit:
		_, ok := b.(*MatrixLit)
		return ok
	case *Lambda:
		b, ok := b.(*Lambda)
		if !ok || len(a.params) != len(b.params) {
			return false
		}
		for i := range a.params {
			if a.params[i] != b.params[i] {
				return false
			}
		}
		return true
	case *If:
		_, ok := b.(*If)
		return ok
	case *Ternary:
		_, ok := b.(*Ternary)
		return ok
	case *For:
		_, ok := b.(*For)
		return ok
	case *While:
		_, ok := b.(*While)
		return ok
	case *Assign:
		b, ok := b.(*Assign)
		return ok && a.op == b.op && a.name == b.name
	case *Define:
		_, ok := b.(*Define)
		return ok
	case *Undefine:
		_, ok := b.(*Undefine)
		return ok
	case *Convert:
		b, ok := b.(*Convert)
		return ok && a.unit == b.unit
	default:
		panic("mathexpr: unknown node type")
	}
}

// nodeKind names the type of a node for error messages.
func nodeKind(n Node) string {
	switch n.(type) {
	case *Number:
		return "number"
	case *Bool:
		return "bool"
	case *StringLit:
		return "string"
	case *Variable:
		return "variable"
	case *Constant:
		return "constant"
	case *Imaginary, *Polar:
		return "complex"
	case *AngleLit:
		return "angle"
	case *QuantityLit:
		return "quantity"
	case *Unary:
		return "unary"
	case *Binary:
		return "binary"
	case *Call:
		return "call"
	case *UserCall:
		return "user call"
	case *VectorLit:
		return "vector"
	case *MatrixLit:
		return "matrix"
	case *Lambda:
		return "lambda"
	case *If:
		return "if"
	case *Ternary:
		return "ternary"
	case *For:
		return "for"
	case *While:
		return "while"
	case *Assign:
		return "assignment"
	case *Define:
		return "def"
	case *Undefine:
		return "undef"
	case *Convert:
		return "conversion"
	default:
		return "unknown"
	}
}

// freeVars returns the sorted names of variables that n reads or assigns,
// excluding lambda and function parameters bound within n.
func freeVars(n Node) []string {
	seen := make(map[string]bool)
	var walk func(n Node, bound map[string]bool)
	walk = func(n Node, bound map[string]bool) {
		switch n := n.(type) {
		case *Variable:
			if !bound[n.name] {
				seen[n.name] = true
			}
			return
		case *Assign:
			if !bound[n.name] {
				seen[n.name] = true
			}
		case *Lambda:
			walk(n.body, bind(bound, n.params))
			return
		case *Define:
			p, _ := definedParams(n.target)
			if _, ok := n.target.(*Variable); ok {
				// Defining a variable does not read it.
				walk(n.value, bound)
				return
			}
			walk(n.value, bind(bound, p))
			return
		case *Undefine:
			return
		}
		for _, k := range children(n) {
			walk(k, bound)
		}
	}
	walk(n, nil)
	r := make([]string, 0, len(seen))
	for k := range seen {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// bind returns a set of bound names extended with params.
func bind(bound map[string]bool, params []string) map[string]bool {
	r := make(map[string]bool, len(bound)+len(params))
	for k := range bound {
		r[k] = true
	}
	for _, p := range params {
		r[p] = true
	}
	return r
}
