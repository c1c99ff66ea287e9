package mathexpr

import "strconv"

// ParseError is an error indicating that the parser expected a particular
// construct, such as the close-paren after a for loop's iterator or the
// then-branch of an if. It implements InputError.
type ParseError struct {
	// Offset is the byte offset of the token where the construct was
	// expected.
	Offset int
	// Expected names the construct the parser was looking for.
	Expected string
	// Found is the text of the token that was found instead. It is empty at
	// the end of the input.
	Found string
}

func (err *ParseError) Error() string {
	if err.Found == "" {
		return errpos(err.Offset, "expected "+err.Expected+" at end of input")
	}
	return errpos(err.Offset, "expected "+err.Expected+", found "+strconv.Quote(err.Found))
}

func (err *ParseError) Pos() int {
	return err.Offset
}

// OperatorError is an error indicating an operator token that is not
// understood by the parser where it appears. It implements InputError.
type OperatorError struct {
	// Offset is the position of the operator.
	Offset int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Offset, "unexpected "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Offset
}

// BracketError is an error indicating mismatched brackets in the
// input. It implements InputError.
type BracketError struct {
	// Offset is the position of the offending bracket or end of input.
	Offset int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Offset, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Offset, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Offset, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Offset
}

// SeparatorError is an error indicating an illegal use of a comma or semicolon
// separator. It implements InputError.
type SeparatorError struct {
	// Offset is the position of the separator.
	Offset int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Offset, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Offset
}

// CallError is an error indicating a call of a built-in function with the
// wrong number of arguments. It implements InputError.
type CallError struct {
	// Offset is the position of the function name.
	Offset int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments the call supplied.
	Len int
}

func (err *CallError) Error() string {
	return errpos(err.Offset, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int {
	return err.Offset
}

// EmptyExpressionError is an error indicating an empty subexpression.
type EmptyExpressionError struct {
	// Offset is the position of the token that ended the subexpression.
	Offset int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Offset == 0 {
			return errpos(err.Offset, "no expression")
		}
		return errpos(err.Offset, "no expression at end")
	}
	return errpos(err.Offset, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Offset
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the byte offset in the source of the start of the token
	// that caused the error.
	Pos() int
}

var (
	_ InputError = (*ParseError)(nil)
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*LexError)(nil)
)
