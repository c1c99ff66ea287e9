package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/zephyrtronium/mathexpr"
)

func TestInfile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(name, []byte("1 + 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := infile(name, false)
	if err != nil {
		t.Fatal(err)
	}
	b, err := io.ReadAll(f)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "1 + 2\n" {
		t.Errorf("wrong contents: %q", b)
	}
	if err := f.Close(); err != nil {
		t.Errorf("close failed: %v", err)
	}
	if _, err := f.Read(make([]byte, 1)); err == nil {
		t.Error("read succeeded after close")
	}

	if _, err := infile(filepath.Join(t.TempDir(), "missing"), false); err == nil {
		t.Error("opened a missing file")
	}
	f, err = infile("", false)
	if f != nil || err != nil {
		t.Errorf("no input gave %v, %v", f, err)
	}
}

func TestModeShow(t *testing.T) {
	cases := []struct {
		name string
		m    mode
		src  string
		want string
	}{
		{"eval", mode{}, "x^2 + 1", "10"},
		{"deriv", mode{deriv: "x"}, "x^2 + 1", "2 * x"},
		{"deriv-other", mode{deriv: "y"}, "x^2 + 1", "0"},
		{"simplify", mode{simp: true}, "x * 1 + 0", "x"},
		{"empty", mode{}, "if false then 1", ""},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := mathexpr.ParseString(c.src)
			if err != nil {
				t.Fatal(err)
			}
			ctx := mathexpr.NewContext(mathexpr.SetVar("x", 3))
			got, err := c.m.show(ctx, a)
			if err != nil {
				t.Fatalf("%q failed: %v", c.src, err)
			}
			if got != c.want {
				t.Errorf("%q: want %q, got %q", c.src, c.want, got)
			}
		})
	}

	a, err := mathexpr.ParseString("floor(x)")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := (mode{deriv: "x"}).show(mathexpr.NewContext(), a); err == nil {
		t.Error("derivative of floor succeeded")
	}
}
