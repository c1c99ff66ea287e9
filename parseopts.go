package mathexpr

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
	tableopt struct{ t *FuncTable }
)

// parsectx holds general data for parsing.
type parsectx struct {
	// funcs resolves names of built-in functions and constants.
	funcs *FuncTable
}

// ParseFunc binds a name to a built-in function for parsing. It may add an
// alias, e.g. ParseFunc("sen", FuncSin). To disable parsing a function, pass
// FuncNone; the name then parses as a variable or user function.
func ParseFunc(name string, fn Func) ParseOption {
	return &funcopt{name, fn}
}

func (o *funcopt) parseOption(p parsectx) parsectx {
	p.funcs = p.funcs.With(o.name, o.fn)
	return p
}

// ParseFuncs binds a group of names. FuncNone disables a name.
func ParseFuncs(fns map[string]Func) ParseOption {
	return funcsopt(fns)
}

func (o funcsopt) parseOption(p parsectx) parsectx {
	for k, v := range o {
		p.funcs = p.funcs.With(k, v)
	}
	return p
}

// WithFuncs replaces the function table used for parsing.
func WithFuncs(t *FuncTable) ParseOption {
	return tableopt{t}
}

func (o tableopt) parseOption(p parsectx) parsectx {
	p.funcs = o.t
	return p
}

// DisableDefaultFuncs disables all default functions and constants during
// parsing. Their names will be parsed as variables and user functions
// instead. Later options may enable functions again.
func DisableDefaultFuncs() ParseOption {
	return tableopt{emptyFuncs}
}

func newParsectx(opts []ParseOption) parsectx {
	p := parsectx{funcs: DefaultFuncs()}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.parseOption(p)
	}
	return p
}
