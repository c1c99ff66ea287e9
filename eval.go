package mathexpr

import (
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/zephyrtronium/mathexpr/units"
)

// Context is a context for evaluating expressions. It holds variables and
// user-defined functions, which expressions may change. It is not safe to use
// a Context concurrently.
type Context struct {
	vars   map[string]any
	funcs  map[funcKey]*userFunc
	parent *Context
	angle  units.AngleUnit
	prec   uint
	log    *slog.Logger
	depth  int
}

// funcKey identifies a user function. Functions of the same name with
// different numbers of parameters are distinct.
type funcKey struct {
	name  string
	arity int
}

type userFunc struct {
	params []string
	body   Node
}

// maxDepth is the limit on nested user function calls.
const maxDepth = 256

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  any
	}
	varsopt  map[string]any
	precopt  uint
	angleopt units.AngleUnit
	logopt   struct{ l *slog.Logger }
)

func (varopt) ctxOption()   {}
func (varsopt) ctxOption()  {}
func (precopt) ctxOption()  {}
func (angleopt) ctxOption() {}
func (logopt) ctxOption()   {}

// SetVar sets the value of a variable in the context. The value is any raw
// value NewResult accepts, or a Result. Creating a context with an invalid
// value panics.
func SetVar(name string, val any) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]any) ContextOption {
	return varsopt(vars)
}

// Prec sets the precision in bits of calculations on rational numbers which
// produce irrational results. The default is 64.
func Prec(prec uint) ContextOption {
	return precopt(prec)
}

// Angles sets the unit in which trigonometric functions read plain numbers and
// in which inverse trigonometric functions produce angles. The default is
// degrees.
func Angles(u units.AngleUnit) ContextOption {
	return angleopt(u)
}

// Logger sets a logger to trace assignments, definitions, and user function
// calls at debug level. By default, nothing is logged.
func Logger(l *slog.Logger) ContextOption {
	return logopt{l}
}

// NewContext creates a new evaluation context.
func NewContext(opts ...ContextOption) *Context {
	ctx := Context{
		vars:  make(map[string]any),
		funcs: make(map[funcKey]*userFunc),
		angle: units.Degree,
		prec:  64,
	}
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it. Changes to
// either context do not affect the other.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{
		vars:  make(map[string]any),
		funcs: make(map[funcKey]*userFunc),
		angle: ctx.angle,
		prec:  ctx.prec,
		log:   ctx.log,
	}
	// Flatten scopes so the clone stands alone. Inner scopes shadow outer.
	var scopes []*Context
	for c := ctx; c != nil; c = c.parent {
		scopes = append(scopes, c)
	}
	for i := len(scopes) - 1; i >= 0; i-- {
		for k, v := range scopes[i].vars {
			n.vars[k] = v
		}
		for k, v := range scopes[i].funcs {
			n.funcs[k] = v
		}
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.vars[opt.name] = mustRaw(opt.name, opt.val)
		case varsopt:
			for k, v := range opt {
				n.vars[k] = mustRaw(k, v)
			}
		case precopt:
			if opt == 0 {
				panic("mathexpr: zero precision")
			}
			n.prec = uint(opt)
		case angleopt:
			units.AngleUnit(opt).Symbol() // panics on invalid units
			n.angle = units.AngleUnit(opt)
		case logopt:
			n.log = opt.l
		default:
			panic("mathexpr: unknown option type")
		}
	}
	return &n
}

// rawValue converts a value for storage in a context.
func rawValue(val any) (any, error) {
	if r, ok := val.(Result); ok {
		return r.Value(), nil
	}
	r, err := NewResult(val)
	if err != nil {
		return nil, err
	}
	return r.Value(), nil
}

func mustRaw(name string, val any) any {
	v, err := rawValue(val)
	if err != nil {
		panic("mathexpr: invalid value for " + name + ": " + err.Error())
	}
	return v
}

// Eval evaluates an expression and returns the result. Assignments and
// definitions in the expression change the context.
func (ctx *Context) Eval(e *Expr) (Result, error) {
	return Execute(e.n, ctx)
}

// Set sets the value of a variable in the innermost scope which defines it, or
// in the current scope if none does. The value is any raw value NewResult
// accepts, or a Result.
func (ctx *Context) Set(name string, val any) error {
	v, err := rawValue(val)
	if err != nil {
		return err
	}
	ctx.set(name, v)
	return nil
}

func (ctx *Context) set(name string, v any) {
	for c := ctx; c != nil; c = c.parent {
		if _, ok := c.vars[name]; ok {
			c.vars[name] = v
			return
		}
	}
	ctx.vars[name] = v
}

// Lookup returns the value of a variable. The result is false if there is no
// such variable in the context.
func (ctx *Context) Lookup(name string) (Result, bool) {
	v, ok := ctx.get(name)
	if !ok {
		return Result{}, false
	}
	r, err := NewResult(v)
	if err != nil {
		panic("mathexpr: invalid stored value for " + name + ": " + err.Error())
	}
	return r, true
}

func (ctx *Context) get(name string) (any, bool) {
	for c := ctx; c != nil; c = c.parent {
		if v, ok := c.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Unset removes a variable from the scope which defines it. Returns false if
// there was no such variable.
func (ctx *Context) Unset(name string) bool {
	for c := ctx; c != nil; c = c.parent {
		if _, ok := c.vars[name]; ok {
			delete(c.vars, name)
			return true
		}
	}
	return false
}

// Define defines a user function. The body is copied, so later changes to the
// caller's tree cannot affect the function. Panics if body is nil.
func (ctx *Context) Define(name string, params []string, body Node) {
	mustNode(body)
	f := &userFunc{params: append([]string(nil), params...), body: Clone(body)}
	ctx.root().funcs[funcKey{name, len(params)}] = f
}

// Undefine removes a user function with the given number of parameters.
// Returns false if there was no such function.
func (ctx *Context) Undefine(name string, arity int) bool {
	k := funcKey{name, arity}
	for c := ctx; c != nil; c = c.parent {
		if _, ok := c.funcs[k]; ok {
			delete(c.funcs, k)
			return true
		}
	}
	return false
}

func (ctx *Context) root() *Context {
	c := ctx
	for c.parent != nil {
		c = c.parent
	}
	return c
}

func (ctx *Context) function(name string, arity int) (*userFunc, bool) {
	k := funcKey{name, arity}
	for c := ctx; c != nil; c = c.parent {
		if f, ok := c.funcs[k]; ok {
			return f, true
		}
	}
	return nil, false
}

// Vars returns the sorted names of all variables visible in the context.
func (ctx *Context) Vars() []string {
	seen := make(map[string]bool)
	for c := ctx; c != nil; c = c.parent {
		for k := range c.vars {
			seen[k] = true
		}
	}
	return sortedKeys(seen)
}

// Funcs returns the sorted names of all user functions in the context.
func (ctx *Context) Funcs() []string {
	seen := make(map[string]bool)
	for c := ctx; c != nil; c = c.parent {
		for k := range c.funcs {
			seen[k.name] = true
		}
	}
	return sortedKeys(seen)
}

func sortedKeys(m map[string]bool) []string {
	r := make([]string, 0, len(m))
	for k := range m {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Prec returns the precision to which rational values are computed in the
// context.
func (ctx *Context) Prec() uint {
	return ctx.prec
}

// Angles returns the ambient angle unit of the context.
func (ctx *Context) Angles() units.AngleUnit {
	return ctx.angle
}

// scope creates a child scope for a user function call.
func (ctx *Context) scope(params []string, args []any) (*Context, error) {
	if ctx.depth >= maxDepth {
		return nil, ErrDepth
	}
	c := &Context{
		vars:   make(map[string]any, len(params)),
		funcs:  make(map[funcKey]*userFunc),
		parent: ctx,
		angle:  ctx.angle,
		prec:   ctx.prec,
		log:    ctx.log,
		depth:  ctx.depth + 1,
	}
	for i, p := range params {
		c.vars[p] = args[i]
	}
	return c, nil
}

func (ctx *Context) debug(msg string, args ...any) {
	if ctx.log != nil {
		ctx.log.Debug(msg, args...)
	}
}

// Eval is a shortcut to parse an expression and return its result using the
// default functions.
func Eval(src io.RuneScanner, opts ...ContextOption) (Result, error) {
	ctx := NewContext(opts...)
	a, err := Parse(src)
	if err != nil {
		return Result{}, err
	}
	return ctx.Eval(a)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ContextOption) (Result, error) {
	return Eval(strings.NewReader(src), opts...)
}
