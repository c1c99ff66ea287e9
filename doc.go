// Package mathexpr parses, evaluates, differentiates, and simplifies textual
// math expressions.
//
// The syntax is intended to be similar to math you'd write in your notes.
// "2x" and "3(4+1)" are multiplications. "-2^2" is "-(2^2)", where "a^b" is
// exponentiation. Vectors are written {1, 2, 3} and matrices {{1, 2}, {3, 4}}.
// Lambdas, conditionals, loops, and user function definitions make small
// scripts possible:
//
//	f(x) := x^2 + 1
//	g := deriv(f)
//	g(3)
//
// Parsing produces an immutable tree of Nodes. Evaluation, differentiation,
// simplification, and formatting are each an Analyzer over that tree, and new
// whole-tree analyses can be written the same way without changing the node
// types.
//
// Evaluation produces a Result, which is exactly one of a closed set of kinds:
// numbers, angles, physical quantities, complex numbers, booleans, strings,
// vectors, matrices, exact rationals, lambdas, or nothing. Trigonometric
// functions read plain numbers in the ambient angle unit of the Context, which
// is degrees by default.
//
// Variables let you parse an expression once and evaluate it for many inputs,
// or you can clone contexts for several expressions to use the same variable
// definitions everywhere.
package mathexpr
