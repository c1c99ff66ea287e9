package mathexpr

import (
	"math"
	"math/big"
	"strings"

	"github.com/zephyrtronium/mathexpr/units"
)

// Vector is the value of a vector expression.
type Vector []float64

// Matrix is the value of a matrix expression. Every row has the same
// length, and there is at least one row.
type Matrix [][]float64

// Empty is the value of an expression which produces no value, like a loop or
// an if without an else whose condition is false.
type Empty struct{}

// kindName names the kind of a raw value for error messages.
func kindName(v any) string {
	switch v := v.(type) {
	case float64:
		return "number"
	case units.Angle:
		return "angle"
	case units.Quantity:
		return v.Unit.Dim().String()
	case complex128:
		return "complex"
	case bool:
		return "bool"
	case string:
		return "string"
	case *Lambda:
		return "lambda"
	case Vector:
		return "vector"
	case Matrix:
		return "matrix"
	case *big.Rat:
		return "rational"
	case Empty, nil:
		return "empty"
	default:
		return "invalid"
	}
}

func (v Vector) String() string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = fmtFloat(x)
	}
	return "{" + strings.Join(s, ", ") + "}"
}

func (m Matrix) String() string {
	s := make([]string, len(m))
	for i, r := range m {
		s[i] = Vector(r).String()
	}
	return "{" + strings.Join(s, ", ") + "}"
}

// Size returns the number of rows and columns of the matrix.
func (m Matrix) Size() (rows, cols int) {
	if len(m) == 0 {
		return 0, 0
	}
	return len(m), len(m[0])
}

func (m Matrix) clone() Matrix {
	r := make(Matrix, len(m))
	for i, row := range m {
		r[i] = append([]float64(nil), row...)
	}
	return r
}

// column converts a vector to an n×1 matrix.
func (v Vector) column() Matrix {
	m := make(Matrix, len(v))
	for i, x := range v {
		m[i] = []float64{x}
	}
	return m
}

// row converts a vector to a 1×n matrix.
func (v Vector) row() Matrix {
	return Matrix{append([]float64(nil), v...)}
}

// Transpose returns the transpose of the matrix.
func (m Matrix) Transpose() Matrix {
	rows, cols := m.Size()
	r := make(Matrix, cols)
	for j := range r {
		r[j] = make([]float64, rows)
		for i := range m {
			r[j][i] = m[i][j]
		}
	}
	return r
}

// Det returns the determinant of a square matrix.
func (m Matrix) Det() (float64, error) {
	rows, cols := m.Size()
	if rows != cols {
		return 0, &MatrixSizeError{Op: "det", Rows: rows, Cols: cols, Want: "square matrix"}
	}
	// Gaussian elimination with partial pivoting.
	a := m.clone()
	det := 1.0
	for k := 0; k < rows; k++ {
		p := k
		for i := k + 1; i < rows; i++ {
			if math.Abs(a[i][k]) > math.Abs(a[p][k]) {
				p = i
			}
		}
		if a[p][k] == 0 {
			return 0, nil
		}
		if p != k {
			a[p], a[k] = a[k], a[p]
			det = -det
		}
		det *= a[k][k]
		for i := k + 1; i < rows; i++ {
			f := a[i][k] / a[k][k]
			for j := k; j < cols; j++ {
				a[i][j] -= f * a[k][j]
			}
		}
	}
	return det, nil
}

// Inverse returns the inverse of a square matrix.
func (m Matrix) Inverse() (Matrix, error) {
	rows, cols := m.Size()
	if rows != cols {
		return nil, &MatrixSizeError{Op: "inverse", Rows: rows, Cols: cols, Want: "square matrix"}
	}
	// Gauss-Jordan elimination on [m | I].
	n := rows
	a := make(Matrix, n)
	for i := range a {
		a[i] = make([]float64, 2*n)
		copy(a[i], m[i])
		a[i][n+i] = 1
	}
	for k := 0; k < n; k++ {
		p := k
		for i := k + 1; i < n; i++ {
			if math.Abs(a[i][k]) > math.Abs(a[p][k]) {
				p = i
			}
		}
		if a[p][k] == 0 {
			return nil, ErrSingular
		}
		a[p], a[k] = a[k], a[p]
		d := a[k][k]
		for j := range a[k] {
			a[k][j] /= d
		}
		for i := 0; i < n; i++ {
			if i == k {
				continue
			}
			f := a[i][k]
			for j := range a[i] {
				a[i][j] -= f * a[k][j]
			}
		}
	}
	r := make(Matrix, n)
	for i := range r {
		r[i] = a[i][n:]
	}
	return r, nil
}

// MatMul multiplies two matrices.
func MatMul(a, b Matrix) (Matrix, error) {
	ar, ac := a.Size()
	br, bc := b.Size()
	if ac != br {
		return nil, &MatrixSizeError{Op: "*", Rows: br, Cols: bc, Want: "matrix with " + itoa(ac) + " rows"}
	}
	r := make(Matrix, ar)
	for i := range r {
		r[i] = make([]float64, bc)
		for j := range r[i] {
			var s float64
			for k := 0; k < ac; k++ {
				s += a[i][k] * b[k][j]
			}
			r[i][j] = s
		}
	}
	return r, nil
}

// Dot returns the dot product of two vectors of equal length.
func Dot(a, b Vector) (float64, error) {
	if len(a) != len(b) {
		return 0, &MatrixSizeError{Op: "dot", Rows: 1, Cols: len(b), Want: "vector of " + itoa(len(a)) + " elements"}
	}
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s, nil
}

// Cross returns the cross product of two three-element vectors.
func Cross(a, b Vector) (Vector, error) {
	if len(a) != 3 || len(b) != 3 {
		n := len(a)
		if n == 3 {
			n = len(b)
		}
		return nil, &MatrixSizeError{Op: "cross", Rows: 1, Cols: n, Want: "vector of 3 elements"}
	}
	return Vector{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}, nil
}

// elementwise applies f to pairs of elements of equal-sized vectors or
// matrices.
func elementwise(op string, a, b any, f func(x, y float64) float64) (any, error) {
	switch a := a.(type) {
	case Vector:
		b := b.(Vector)
		if len(a) != len(b) {
			return nil, &MatrixSizeError{Op: op, Rows: 1, Cols: len(b), Want: "vector of " + itoa(len(a)) + " elements"}
		}
		r := make(Vector, len(a))
		for i := range a {
			r[i] = f(a[i], b[i])
		}
		return r, nil
	case Matrix:
		b := b.(Matrix)
		ar, ac := a.Size()
		br, bc := b.Size()
		if ar != br || ac != bc {
			return nil, &MatrixSizeError{Op: op, Rows: br, Cols: bc, Want: itoa(ar) + "×" + itoa(ac) + " matrix"}
		}
		r := make(Matrix, ar)
		for i := range a {
			r[i] = make([]float64, ac)
			for j := range a[i] {
				r[i][j] = f(a[i][j], b[i][j])
			}
		}
		return r, nil
	default:
		panic("mathexpr: elementwise on " + kindName(a))
	}
}

// scale applies f to each element of a vector or matrix.
func scale(a any, f func(x float64) float64) any {
	switch a := a.(type) {
	case Vector:
		r := make(Vector, len(a))
		for i, x := range a {
			r[i] = f(x)
		}
		return r
	case Matrix:
		r := make(Matrix, len(a))
		for i, row := range a {
			r[i] = make([]float64, len(row))
			for j, x := range row {
				r[i][j] = f(x)
			}
		}
		return r
	default:
		panic("mathexpr: scale on " + kindName(a))
	}
}
