package mathexpr

import (
	"sort"
	"strconv"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/pkg/errors"
)

// ErrSingular is returned when inverting a singular matrix.
var ErrSingular = errors.New("singular matrix")

// ErrDepth is returned when user function calls nest too deeply, usually
// because of unbounded recursion.
var ErrDepth = errors.New("user function calls nested too deeply")

// NotSupportedError indicates an operator or function applied to values of
// kinds for which it has no formula.
type NotSupportedError struct {
	// Op is the operator or function name.
	Op string
	// Kinds are the kinds of the operands.
	Kinds []string
}

func (err *NotSupportedError) Error() string {
	return "result not supported: " + err.Op + " on " + strings.Join(err.Kinds, " and ")
}

func notSupported(op string, vals ...any) error {
	k := make([]string, len(vals))
	for i, v := range vals {
		k[i] = kindName(v)
	}
	return &NotSupportedError{Op: op, Kinds: k}
}

// MatrixSizeError indicates a matrix or vector operand of the wrong size.
type MatrixSizeError struct {
	// Op is the operator or function name.
	Op string
	// Rows and Cols are the size of the offending operand. Vectors have one
	// row.
	Rows, Cols int
	// Want describes the operand size the operation requires.
	Want string
}

func (err *MatrixSizeError) Error() string {
	return err.Op + ": got " + itoa(err.Rows) + "×" + itoa(err.Cols) + ", need " + err.Want
}

// ArityError indicates a call of a user function or lambda with the wrong
// number of arguments.
type ArityError struct {
	Name      string
	Got, Want int
}

func (err *ArityError) Error() string {
	return "cannot call " + err.Name + " with " + itoa(err.Got) + " arguments (want " + itoa(err.Want) + ")"
}

// NameError is an error from a lookup for a variable or function that is
// missing from the evaluation context.
type NameError struct {
	// Name is the name that was missing.
	Name string
	// Func indicates that the name was called as a function.
	Func bool
	// Suggestions are defined names similar to Name, best first.
	Suggestions []string
}

func (err *NameError) Error() string {
	s := "undefined variable: "
	if err.Func {
		s = "undefined function: "
	}
	s += strconv.Quote(err.Name)
	if len(err.Suggestions) > 0 {
		s += " (did you mean " + strings.Join(err.Suggestions, ", ") + "?)"
	}
	return s
}

// maxSuggestions is the most suggestions a NameError carries.
const maxSuggestions = 3

// suggest finds the candidates closest to a missing name. Candidates that
// contain the name's letters in order rank first, then candidates within a
// small edit distance.
func suggest(name string, candidates []string) []string {
	ranks := fuzzy.RankFindFold(name, candidates)
	sort.Sort(ranks)
	var r []string
	seen := make(map[string]bool)
	for _, rk := range ranks {
		if len(r) == maxSuggestions {
			return r
		}
		if !seen[rk.Target] {
			seen[rk.Target] = true
			r = append(r, rk.Target)
		}
	}
	type near struct {
		s string
		d int
	}
	var ns []near
	for _, c := range candidates {
		if seen[c] {
			continue
		}
		if d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(c)); d <= 2 && d < len(name) {
			ns = append(ns, near{c, d})
		}
	}
	sort.Slice(ns, func(i, j int) bool {
		if ns[i].d != ns[j].d {
			return ns[i].d < ns[j].d
		}
		return ns[i].s < ns[j].s
	})
	for _, n := range ns {
		if len(r) == maxSuggestions {
			break
		}
		seen[n.s] = true
		r = append(r, n.s)
	}
	return r
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
