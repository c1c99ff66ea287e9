package mathexpr

import (
	"strconv"
	"strings"
)

// Format renders a node as source text. Operands which are themselves
// operations are parenthesized, so the text parses to an equivalent tree
// regardless of precedence.
func Format(n Node) string {
	s, err := Analyze[string, struct{}](n, formatter{}, struct{}{})
	if err != nil {
		// formatter never fails.
		panic(err)
	}
	return s
}

type formatter struct{}

var _ Analyzer[string, struct{}] = formatter{}

func (f formatter) fmt(n Node) string {
	s, _ := Analyze[string, struct{}](n, f, struct{}{})
	return s
}

// operand formats n as an operand of an operator.
func (f formatter) operand(n Node) string {
	s := f.fmt(n)
	if compound(n) {
		return "(" + s + ")"
	}
	return s
}

// compound returns whether n must be parenthesized as an operand.
func compound(n Node) bool {
	switch n := n.(type) {
	case *Binary, *Unary, *Lambda, *If, *Ternary, *Assign, *Convert, *For, *While:
		return true
	case *Number:
		return n.v < 0 || n.v == 0 && strconv.FormatFloat(n.v, 'g', -1, 64)[0] == '-'
	case *AngleLit:
		return n.a.Value < 0
	case *QuantityLit:
		return n.q.Value < 0
	}
	return false
}

// loose formats n as a branch of a conditional, parenthesizing only forms
// which would otherwise consume the rest of the input.
func (f formatter) loose(n Node) string {
	switch n.(type) {
	case *Lambda, *If, *Ternary, *Assign, *For, *While:
		return "(" + f.fmt(n) + ")"
	}
	return f.fmt(n)
}

func (f formatter) list(args []Node) string {
	s := make([]string, len(args))
	for i, a := range args {
		s[i] = f.fmt(a)
	}
	return strings.Join(s, ", ")
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (f formatter) VisitNumber(n *Number, _ struct{}) (string, error) {
	return fmtFloat(n.v), nil
}

func (f formatter) VisitBool(n *Bool, _ struct{}) (string, error) {
	return strconv.FormatBool(n.v), nil
}

func (f formatter) VisitString(n *StringLit, _ struct{}) (string, error) {
	if strings.ContainsRune(n.s, '"') {
		return "'" + n.s + "'", nil
	}
	return `"` + n.s + `"`, nil
}

func (f formatter) VisitVariable(n *Variable, _ struct{}) (string, error) {
	return n.name, nil
}

func (f formatter) VisitConstant(n *Constant, _ struct{}) (string, error) {
	return n.fn.String(), nil
}

func (f formatter) VisitImaginary(n *Imaginary, _ struct{}) (string, error) {
	return "i", nil
}

func (f formatter) VisitPolar(n *Polar, _ struct{}) (string, error) {
	return fmtFloat(n.mag) + "∠" + fmtFloat(n.phase) + "°", nil
}

func (f formatter) VisitAngle(n *AngleLit, _ struct{}) (string, error) {
	return n.a.String(), nil
}

func (f formatter) VisitQuantity(n *QuantityLit, _ struct{}) (string, error) {
	return n.q.String(), nil
}

func (f formatter) VisitUnary(n *Unary, _ struct{}) (string, error) {
	switch n.op {
	case OpFactorial:
		return f.operand(n.x) + "!", nil
	case OpNot:
		return "not " + f.operand(n.x), nil
	default:
		return n.op.String() + f.operand(n.x), nil
	}
}

func (f formatter) VisitBinary(n *Binary, _ struct{}) (string, error) {
	return f.operand(n.x) + " " + n.op.String() + " " + f.operand(n.y), nil
}

func (f formatter) VisitCall(n *Call, _ struct{}) (string, error) {
	return n.fn.String() + "(" + f.list(n.args) + ")", nil
}

func (f formatter) VisitUserCall(n *UserCall, _ struct{}) (string, error) {
	return n.name + "(" + f.list(n.args) + ")", nil
}

func (f formatter) VisitVector(n *VectorLit, _ struct{}) (string, error) {
	return "{" + f.list(n.args) + "}", nil
}

func (f formatter) VisitMatrix(n *MatrixLit, _ struct{}) (string, error) {
	return "{" + f.list(children(n)) + "}", nil
}

func (f formatter) VisitLambda(n *Lambda, _ struct{}) (string, error) {
	return "(" + strings.Join(n.params, ", ") + ") => " + f.fmt(n.body), nil
}

func (f formatter) VisitIf(n *If, _ struct{}) (string, error) {
	s := "if " + f.loose(n.cond) + " then " + f.loose(n.then)
	if n.els != nil {
		s += " else " + f.loose(n.els)
	}
	return s, nil
}

func (f formatter) VisitTernary(n *Ternary, _ struct{}) (string, error) {
	return f.loose(n.cond) + " ? " + f.loose(n.then) + " : " + f.loose(n.els), nil
}

func (f formatter) VisitFor(n *For, _ struct{}) (string, error) {
	return "for(" + f.fmt(n.init) + "; " + f.fmt(n.cond) + "; " + f.fmt(n.iter) + ") " + f.fmt(n.body), nil
}

func (f formatter) VisitWhile(n *While, _ struct{}) (string, error) {
	return "while(" + f.fmt(n.cond) + ") " + f.fmt(n.body), nil
}

func (f formatter) VisitAssign(n *Assign, _ struct{}) (string, error) {
	if n.value == nil {
		return n.name + n.op.String(), nil
	}
	return n.name + " " + n.op.String() + " " + f.fmt(n.value), nil
}

func (f formatter) VisitDefine(n *Define, _ struct{}) (string, error) {
	return "def(" + f.fmt(n.target) + ", " + f.fmt(n.value) + ")", nil
}

func (f formatter) VisitUndefine(n *Undefine, _ struct{}) (string, error) {
	return "undef(" + f.fmt(n.target) + ")", nil
}

func (f formatter) VisitConvert(n *Convert, _ struct{}) (string, error) {
	return f.operand(n.x) + " to " + n.unit, nil
}
