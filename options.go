package rpncalc

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	defsopt struct{ d *Definitions }
	modsopt []DefOption
)

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// defs is the registry to start from. nil means the defaults.
	defs *Definitions
	// mods are registry changes to apply to defs.
	mods []DefOption
	// tok is a tokenizer for the resolved registry, set by presets.
	tok *Tokenizer
}

// resolve returns the registry and tokenizer the options select.
func (p parsectx) resolve() (*Definitions, *Tokenizer) {
	if p.tok != nil && len(p.mods) == 0 {
		return p.tok.defs, p.tok
	}
	d := p.defs
	if d == nil {
		d = defaults
	}
	d = d.With(p.mods...)
	if d == defaults {
		return d, defaultTokenizer
	}
	return d, NewTokenizer(d)
}

// UseDefinitions sets the registry for parsing and for evaluating the parsed
// expression. It discards the effects of earlier options.
func UseDefinitions(d *Definitions) ParseOption {
	return defsopt{d}
}

func (o defsopt) parseOption(p parsectx) parsectx {
	return parsectx{defs: o.d}
}

// ParseDefs applies registry options for parsing and for evaluating the
// parsed expression.
func ParseDefs(opts ...DefOption) ParseOption {
	return modsopt(opts)
}

func (o modsopt) parseOption(p parsectx) parsectx {
	// Always make a copy so that options can be reused.
	p.mods = append(p.mods[:len(p.mods):len(p.mods)], o...)
	return p
}

// ParseFunc sets a function for parsing. To disable parsing a function, pass
// the zero Func; its name is then parsed as a variable.
func ParseFunc(name string, fn Func) ParseOption {
	if fn.arity == 0 {
		return modsopt{WithoutFunc(name)}
	}
	return modsopt{WithFunc(name, fn)}
}

// ParseFuncs sets a group of functions for parsing. To disable parsing any
// function, set it to the zero Func.
func ParseFuncs(fns map[string]Func) ParseOption {
	o := make(modsopt, 0, len(fns))
	for _, k := range sortedKeys(fns) {
		o = append(o, ParseFunc(k, fns[k]).(modsopt)...)
	}
	return o
}

// ParseConst sets a constant for parsing.
func ParseConst(name string, val float64) ParseOption {
	return modsopt{WithConstant(name, val)}
}

// DisableDefaultFuncs disables all default functions during parsing. Their
// names will be parsed as variables instead. Constants are unaffected.
func DisableDefaultFuncs() ParseOption {
	return disablefns
}

var disablefns = func() modsopt {
	var o modsopt
	for _, k := range defaults.FuncNames() {
		o = append(o, WithoutFunc(k))
	}
	return o
}()

// ParsingPreset creates a parsing preset that may be more efficient when using
// the same non-default parsing options for many calls to Parse. A preset
// panics when it would change any option from the default, but it is safe to
// apply other options after a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	d, t := p.resolve()
	return &parsectx{defs: d, tok: t}
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	if p.defs != nil || p.tok != nil || len(p.mods) != 0 {
		panic("rpncalc: preset applied to non-default parse config")
	}
	return *o
}
