package mathexpr

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestMatrixDet(t *testing.T) {
	cases := []struct {
		name string
		m    Matrix
		want float64
	}{
		{"1x1", Matrix{{5}}, 5},
		{"2x2", Matrix{{1, 2}, {3, 4}}, -2},
		{"singular", Matrix{{1, 2}, {2, 4}}, 0},
		{"identity", Matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}, 1},
		{"3x3", Matrix{{2, 0, 1}, {1, 3, 2}, {1, 1, 2}}, 6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := c.m.Det()
			if err != nil {
				t.Fatal(err)
			}
			if !near(got, c.want) {
				t.Errorf("wrong determinant: want %v, got %v", c.want, got)
			}
		})
	}
	_, err := Matrix{{1, 2, 3}, {4, 5, 6}}.Det()
	if _, ok := err.(*MatrixSizeError); !ok {
		t.Errorf("non-square det: want *MatrixSizeError, got %T (%v)", err, err)
	}
}

func TestMatrixInverse(t *testing.T) {
	m := Matrix{{4, 7}, {2, 6}}
	got, err := m.Inverse()
	if err != nil {
		t.Fatal(err)
	}
	want := Matrix{{0.6, -0.7}, {-0.2, 0.4}}
	for i := range want {
		if !nearAll(got[i], want[i]) {
			t.Fatalf("wrong inverse:\n%s", spew.Sdump(got))
		}
	}
	if !reflect.DeepEqual(m, Matrix{{4, 7}, {2, 6}}) {
		t.Errorf("inverse modified its receiver: %v", m)
	}
	if _, err := (Matrix{{1, 2}, {2, 4}}).Inverse(); !errors.Is(err, ErrSingular) {
		t.Errorf("singular inverse: want ErrSingular, got %v", err)
	}
	if _, err := (Matrix{{1, 2}}).Inverse(); err == nil {
		t.Error("non-square inverse succeeded")
	}
}

func TestMatrixTranspose(t *testing.T) {
	got := Matrix{{1, 2, 3}, {4, 5, 6}}.Transpose()
	want := Matrix{{1, 4}, {2, 5}, {3, 6}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("wrong transpose: want %v, got %v", want, got)
	}
}

func TestMatMul(t *testing.T) {
	got, err := MatMul(Matrix{{1, 2}, {3, 4}}, Matrix{{5}, {6}})
	if err != nil {
		t.Fatal(err)
	}
	if want := (Matrix{{17}, {39}}); !reflect.DeepEqual(got, want) {
		t.Errorf("wrong product: want %v, got %v", want, got)
	}
	_, err = MatMul(Matrix{{1, 2}}, Matrix{{1, 2}})
	e, ok := err.(*MatrixSizeError)
	if !ok {
		t.Fatalf("wrong error: want *MatrixSizeError, got %T (%v)", err, err)
	}
	if e.Rows != 1 || e.Cols != 2 {
		t.Errorf("wrong error size: %s", spew.Sdump(e))
	}
}

func TestVectorProducts(t *testing.T) {
	d, err := Dot(Vector{1, 2, 3}, Vector{4, 5, 6})
	if err != nil || d != 32 {
		t.Errorf("wrong dot product: %v, %v", d, err)
	}
	if _, err := Dot(Vector{1}, Vector{1, 2}); err == nil {
		t.Error("mismatched dot product succeeded")
	}
	c, err := Cross(Vector{1, 0, 0}, Vector{0, 1, 0})
	if err != nil {
		t.Fatal(err)
	}
	if want := (Vector{0, 0, 1}); !reflect.DeepEqual(c, want) {
		t.Errorf("wrong cross product: want %v, got %v", want, c)
	}
	_, err = Cross(Vector{1, 2, 3}, Vector{1, 2})
	if e, ok := err.(*MatrixSizeError); !ok || e.Cols != 2 {
		t.Errorf("wrong cross error: %v", err)
	}
}

func TestValueStrings(t *testing.T) {
	cases := []struct {
		v    fmt.Stringer
		want string
	}{
		{Vector{1, 2.5}, "{1, 2.5}"},
		{Vector{-3}, "{-3}"},
		{Matrix{{1}, {2}}, "{{1}, {2}}"},
		{Matrix{{1, 0}, {0, 1}}, "{{1, 0}, {0, 1}}"},
	}
	for _, c := range cases {
		if got := c.v.String(); got != c.want {
			t.Errorf("wrong string: want %q, got %q", c.want, got)
		}
	}
}

func BenchmarkInverse(b *testing.B) {
	m := Matrix{{2, 1, 0, 0}, {1, 2, 1, 0}, {0, 1, 2, 1}, {0, 0, 1, 2}}
	for i := 0; i < b.N; i++ {
		m.Inverse()
	}
}
