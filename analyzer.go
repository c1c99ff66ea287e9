package mathexpr

// Analyzer is a whole-tree operation over expressions. Analyze calls the
// method for the concrete type of a node, passing the context value through.
// Implementations typically recurse by calling Analyze on children.
//
// Embed DefaultAnalyzer to handle only some node types.
type Analyzer[R, C any] interface {
	VisitNumber(n *Number, ctx C) (R, error)
	VisitBool(n *Bool, ctx C) (R, error)
	VisitString(n *StringLit, ctx C) (R, error)
	VisitVariable(n *Variable, ctx C) (R, error)
	VisitConstant(n *Constant, ctx C) (R, error)
	VisitImaginary(n *Imaginary, ctx C) (R, error)
	VisitPolar(n *Polar, ctx C) (R, error)
	VisitAngle(n *AngleLit, ctx C) (R, error)
	VisitQuantity(n *QuantityLit, ctx C) (R, error)
	VisitUnary(n *Unary, ctx C) (R, error)
	VisitBinary(n *Binary, ctx C) (R, error)
	VisitCall(n *Call, ctx C) (R, error)
	VisitUserCall(n *UserCall, ctx C) (R, error)
	VisitVector(n *VectorLit, ctx C) (R, error)
	VisitMatrix(n *MatrixLit, ctx C) (R, error)
	VisitLambda(n *Lambda, ctx C) (R, error)
	VisitIf(n *If, ctx C) (R, error)
	VisitTernary(n *Ternary, ctx C) (R, error)
	VisitFor(n *For, ctx C) (R, error)
	VisitWhile(n *While, ctx C) (R, error)
	VisitAssign(n *Assign, ctx C) (R, error)
	VisitDefine(n *Define, ctx C) (R, error)
	VisitUndefine(n *Undefine, ctx C) (R, error)
	VisitConvert(n *Convert, ctx C) (R, error)
}

// Analyze applies an analyzer to a node. Panics if a is nil.
func Analyze[R, C any](n Node, a Analyzer[R, C], ctx C) (R, error) {
	if a == nil {
		panic("mathexpr: Analyze with nil analyzer")
	}
	r, err := n.accept(adapter[R, C]{a: a, ctx: ctx})
	if r == nil {
		var zero R
		return zero, err
	}
	return r.(R), err
}

// visitor is the non-generic form of Analyzer which nodes accept. Methods
// cannot have type parameters, so adapter carries them instead.
type visitor interface {
	visitNumber(*Number) (any, error)
	visitBool(*Bool) (any, error)
	visitString(*StringLit) (any, error)
	visitVariable(*Variable) (any, error)
	visitConstant(*Constant) (any, error)
	visitImaginary(*Imaginary) (any, error)
	visitPolar(*Polar) (any, error)
	visitAngle(*AngleLit) (any, error)
	visitQuantity(*QuantityLit) (any, error)
	visitUnary(*Unary) (any, error)
	visitBinary(*Binary) (any, error)
	visitCall(*Call) (any, error)
	visitUserCall(*UserCall) (any, error)
	visitVector(*VectorLit) (any, error)
	visitMatrix(*MatrixLit) (any, error)
	visitLambda(*Lambda) (any, error)
	visitIf(*If) (any, error)
	visitTernary(*Ternary) (any, error)
	visitFor(*For) (any, error)
	visitWhile(*While) (any, error)
	visitAssign(*Assign) (any, error)
	visitDefine(*Define) (any, error)
	visitUndefine(*Undefine) (any, error)
	visitConvert(*Convert) (any, error)
}

type adapter[R, C any] struct {
	a   Analyzer[R, C]
	ctx C
}

// wrap boxes an analyzer result. A failed visit yields no value.
func wrap[R any](r R, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (v adapter[R, C]) visitNumber(n *Number) (any, error) { return wrap(v.a.VisitNumber(n, v.ctx)) }
func (v adapter[R, C]) visitBool(n *Bool) (any, error)     { return wrap(v.a.VisitBool(n, v.ctx)) }
func (v adapter[R, C]) visitString(n *StringLit) (any, error) {
	return wrap(v.a.VisitString(n, v.ctx))
}
func (v adapter[R, C]) visitVariable(n *Variable) (any, error) {
	return wrap(v.a.VisitVariable(n, v.ctx))
}
func (v adapter[R, C]) visitConstant(n *Constant) (any, error) {
	return wrap(v.a.VisitConstant(n, v.ctx))
}
func (v adapter[R, C]) visitImaginary(n *Imaginary) (any, error) {
	return wrap(v.a.VisitImaginary(n, v.ctx))
}
func (v adapter[R, C]) visitPolar(n *Polar) (any, error)    { return wrap(v.a.VisitPolar(n, v.ctx)) }
func (v adapter[R, C]) visitAngle(n *AngleLit) (any, error) { return wrap(v.a.VisitAngle(n, v.ctx)) }
func (v adapter[R, C]) visitQuantity(n *QuantityLit) (any, error) {
	return wrap(v.a.VisitQuantity(n, v.ctx))
}
func (v adapter[R, C]) visitUnary(n *Unary) (any, error)   { return wrap(v.a.VisitUnary(n, v.ctx)) }
func (v adapter[R, C]) visitBinary(n *Binary) (any, error) { return wrap(v.a.VisitBinary(n, v.ctx)) }
func (v adapter[R, C]) visitCall(n *Call) (any, error)     { return wrap(v.a.VisitCall(n, v.ctx)) }
func (v adapter[R, C]) visitUserCall(n *UserCall) (any, error) {
	return wrap(v.a.VisitUserCall(n, v.ctx))
}
func (v adapter[R, C]) visitVector(n *VectorLit) (any, error) { return wrap(v.a.VisitVector(n, v.ctx)) }
func (v adapter[R, C]) visitMatrix(n *MatrixLit) (any, error) { return wrap(v.a.VisitMatrix(n, v.ctx)) }
func (v adapter[R, C]) visitLambda(n *Lambda) (any, error)    { return wrap(v.a.VisitLambda(n, v.ctx)) }
func (v adapter[R, C]) visitIf(n *If) (any, error)            { return wrap(v.a.VisitIf(n, v.ctx)) }
func (v adapter[R, C]) visitTernary(n *Ternary) (any, error) {
	return wrap(v.a.VisitTernary(n, v.ctx))
}
func (v adapter[R, C]) visitFor(n *For) (any, error)       { return wrap(v.a.VisitFor(n, v.ctx)) }
func (v adapter[R, C]) visitWhile(n *While) (any, error)   { return wrap(v.a.VisitWhile(n, v.ctx)) }
func (v adapter[R, C]) visitAssign(n *Assign) (any, error) { return wrap(v.a.VisitAssign(n, v.ctx)) }
func (v adapter[R, C]) visitDefine(n *Define) (any, error) { return wrap(v.a.VisitDefine(n, v.ctx)) }
func (v adapter[R, C]) visitUndefine(n *Undefine) (any, error) {
	return wrap(v.a.VisitUndefine(n, v.ctx))
}
func (v adapter[R, C]) visitConvert(n *Convert) (any, error) {
	return wrap(v.a.VisitConvert(n, v.ctx))
}

// DefaultAnalyzer implements every Analyzer method by calling Default. Embed it
// in an analyzer and override the methods for the node types of interest.
type DefaultAnalyzer[R, C any] struct {
	// Default handles every node type. If it is nil, each visit fails with an
	// *UnhandledNodeError.
	Default func(n Node, ctx C) (R, error)
}

func (a DefaultAnalyzer[R, C]) visit(n Node, ctx C) (R, error) {
	if a.Default == nil {
		var zero R
		return zero, &UnhandledNodeError{Kind: nodeKind(n)}
	}
	return a.Default(n, ctx)
}

func (a DefaultAnalyzer[R, C]) VisitNumber(n *Number, ctx C) (R, error)     { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitBool(n *Bool, ctx C) (R, error)         { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitString(n *StringLit, ctx C) (R, error)  { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitVariable(n *Variable, ctx C) (R, error) { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitConstant(n *Constant, ctx C) (R, error) { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitImaginary(n *Imaginary, ctx C) (R, error) {
	return a.visit(n, ctx)
}
func (a DefaultAnalyzer[R, C]) VisitPolar(n *Polar, ctx C) (R, error)    { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitAngle(n *AngleLit, ctx C) (R, error) { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitQuantity(n *QuantityLit, ctx C) (R, error) {
	return a.visit(n, ctx)
}
func (a DefaultAnalyzer[R, C]) VisitUnary(n *Unary, ctx C) (R, error)       { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitBinary(n *Binary, ctx C) (R, error)     { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitCall(n *Call, ctx C) (R, error)         { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitUserCall(n *UserCall, ctx C) (R, error) { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitVector(n *VectorLit, ctx C) (R, error)  { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitMatrix(n *MatrixLit, ctx C) (R, error)  { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitLambda(n *Lambda, ctx C) (R, error)     { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitIf(n *If, ctx C) (R, error)             { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitTernary(n *Ternary, ctx C) (R, error)   { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitFor(n *For, ctx C) (R, error)           { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitWhile(n *While, ctx C) (R, error)       { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitAssign(n *Assign, ctx C) (R, error)     { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitDefine(n *Define, ctx C) (R, error)     { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitUndefine(n *Undefine, ctx C) (R, error) { return a.visit(n, ctx) }
func (a DefaultAnalyzer[R, C]) VisitConvert(n *Convert, ctx C) (R, error)   { return a.visit(n, ctx) }

// UnhandledNodeError is returned by an analyzer for a node type it does not
// handle.
type UnhandledNodeError struct {
	Kind string
}

func (err *UnhandledNodeError) Error() string {
	return "no analysis for " + err.Kind + " node"
}
