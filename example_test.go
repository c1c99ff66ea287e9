package mathexpr_test

import (
	"fmt"

	"github.com/zephyrtronium/mathexpr"
)

func Example() {
	a, _ := mathexpr.ParseString("x^3/2 - x")
	dfx, _ := mathexpr.Differentiate(a.Root(), "x")
	ddfx, _ := mathexpr.Differentiate(dfx, "x")
	b := mathexpr.NewExpr(dfx)
	c := mathexpr.NewExpr(ddfx)
	fmt.Println("y'  =", b)
	fmt.Println("y'' =", c)

	for i := 0; i < 4; i++ {
		ctx := mathexpr.NewContext(mathexpr.SetVar("x", i))
		y, _ := ctx.Eval(a)
		yp, _ := ctx.Eval(b)
		ypp, _ := ctx.Eval(c)
		fmt.Printf("x = %d   y = %-4s  y' = %-4s  y'' = %s\n", i, y, yp, ypp)
	}

	// Output:
	// y'  = ((3 * (x ^ 2)) / 2) - 1
	// y'' = (3 * (2 * x)) / 2
	// x = 0   y = 0     y' = -1    y'' = 0
	// x = 1   y = -0.5  y' = 0.5   y'' = 3
	// x = 2   y = 2     y' = 5     y'' = 6
	// x = 3   y = 10.5  y' = 12.5  y'' = 9
}

func ExampleEvalString() {
	for _, src := range []string{
		"3(4+1)",
		"cos(180)",
		"round(2.675, 2)",
		"(1 // 3) + (1 // 6)",
		"sqrt(-4)",
		"5 m to km",
		"{{1,2},{3,4}} * {1,1}",
		"tohex(255)",
	} {
		r, err := mathexpr.EvalString(src)
		if err != nil {
			fmt.Println(src, "failed:", err)
			continue
		}
		fmt.Printf("%s = %v (%v)\n", src, r, r.Kind())
	}

	// Output:
	// 3(4+1) = 15 (number)
	// cos(180) = -1 (number)
	// round(2.675, 2) = 2.68 (number)
	// (1 // 3) + (1 // 6) = 1 // 2 (rational)
	// sqrt(-4) = 0+2i (complex)
	// 5 m to km = 0.005 km (length)
	// {{1,2},{3,4}} * {1,1} = {3, 7} (vector)
	// tohex(255) = 0xff (string)
}

func ExampleContext_Eval() {
	ctx := mathexpr.NewContext()
	for _, src := range []string{
		"f(x) := x^2 + 1",
		"g := deriv(f)",
		"g(3)",
		"simplify(x => x * 1 + 0)",
	} {
		a, err := mathexpr.ParseString(src)
		if err != nil {
			panic(err)
		}
		r, err := ctx.Eval(a)
		if err != nil {
			panic(err)
		}
		if r.IsEmpty() {
			fmt.Println(a, "-> empty")
			continue
		}
		fmt.Println(a, "->", r)
	}

	// Output:
	// def(f(x), (x ^ 2) + 1) -> empty
	// g := deriv(f) -> (x) => 2 * x
	// g(3) -> 6
	// simplify((x) => (x * 1) + 0) -> (x) => x
}
