package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/zephyrtronium/mathexpr"
	"github.com/zephyrtronium/mathexpr/units"
)

const historyFile = ".mathexpr_history"

func main() {
	log.SetFlags(0)
	var (
		inname, angle, deriv string
		with                 [][2]string
		nl, echo, simp       bool
		verbose, repl        bool
		prec                 int
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no args given)")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.IntVar(&prec, "p", 64, "precision of rational calculations in bits")
	flag.BoolVar(&nl, "n", false, "parse separate input lines as separate expressions")
	flag.BoolVar(&echo, "echo", false, "print parse trees")
	flag.StringVar(&angle, "angle", "deg", "ambient angle unit: deg, rad, or grad")
	flag.StringVar(&deriv, "deriv", "", "print the derivative with respect to this variable instead of evaluating")
	flag.BoolVar(&simp, "simplify", false, "print the simplified expression instead of evaluating")
	flag.BoolVar(&verbose, "v", false, "trace assignments and calls to stderr")
	flag.BoolVar(&repl, "i", false, "interactive mode")
	flag.Parse()
	if prec <= 0 {
		log.Fatalf("precision (%d) must be positive", prec)
	}
	u, ok := units.ParseAngleUnit(angle)
	if !ok {
		log.Fatalf("unknown angle unit %q", angle)
	}

	opts := []mathexpr.ContextOption{mathexpr.Prec(uint(prec)), mathexpr.Angles(u)}
	if verbose {
		h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		opts = append(opts, mathexpr.Logger(slog.New(h)))
	}
	ctx := mathexpr.NewContext(opts...)
	for _, d := range with {
		r, err := mathexpr.EvalString(d[1], opts...)
		if err != nil {
			log.Fatal(errors.Wrapf(err, "setting %s", d[0]))
		}
		if err := ctx.Set(d[0], r); err != nil {
			log.Fatal(errors.Wrapf(err, "setting %s", d[0]))
		}
	}

	m := mode{deriv: deriv, simp: simp}
	if repl {
		interact(ctx, m)
		return
	}

	var srcs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		log.Fatal(err)
	}
	if f != nil {
		b, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			log.Fatal(errors.Wrap(err, "reading input"))
		}
		if nl {
			for _, line := range strings.Split(string(b), "\n") {
				if strings.TrimSpace(line) != "" {
					srcs = append(srcs, line)
				}
			}
		} else {
			srcs = append(srcs, string(b))
		}
	}
	srcs = append(srcs, flag.Args()...)

	var p []*mathexpr.Expr
	for _, src := range srcs {
		a, err := mathexpr.ParseString(src)
		if err != nil {
			log.Fatal(errors.Wrapf(err, "parsing %q", src))
		}
		p = append(p, a)
	}

	for _, a := range p {
		if echo {
			fmt.Printf("%v : ", a)
		}
		s, err := m.show(ctx, a)
		if err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println(s)
	}
}

// mode selects what is printed for each expression.
type mode struct {
	// deriv is the variable to differentiate by, if any.
	deriv string
	simp  bool
}

// show renders the derivative or simplification of a, or else evaluates it
// in ctx.
func (m mode) show(ctx *mathexpr.Context, a *mathexpr.Expr) (string, error) {
	switch {
	case m.deriv != "":
		d, err := a.Derivative(m.deriv)
		if err != nil {
			return "", err
		}
		return d.String(), nil
	case m.simp:
		s, err := a.Simplify()
		if err != nil {
			return "", err
		}
		return s.String(), nil
	}
	r, err := ctx.Eval(a)
	if err != nil {
		return "", err
	}
	return r.String(), nil
}

// infile opens the input named by -in, or stdin when std is set. The result
// is nil if there is no input to read.
func infile(inname string, std bool) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		f, err := os.Open(inname)
		if err != nil {
			return nil, errors.Wrap(err, "opening input")
		}
		return f, nil
	case inname == "-", std:
		return io.NopCloser(bufio.NewReader(os.Stdin)), nil
	}
	return nil, nil
}

// interact handles lines from the terminal until EOF, printing what m
// selects. Definitions persist between lines.
func interact(ctx *mathexpr.Context, m mode) {
	home, _ := os.UserHomeDir()
	hist := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	if f, err := os.Open(hist); err == nil {
		ln.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(hist); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		line, err := ln.Prompt("> ")
		if err != nil {
			if err != io.EOF && err != liner.ErrPromptAborted {
				fmt.Fprintln(os.Stderr, err)
			}
			fmt.Println()
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)
		a, err := mathexpr.ParseString(line)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		r, err := m.show(ctx, a)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if r != "" {
			fmt.Println(r)
		}
	}
}
