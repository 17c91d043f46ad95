package visitor

import "modelica-dae/core/ir"

// ScopePusher rewrites bare references copied out of a component's class
// equations so they resolve correctly once spliced into the instantiating
// class: `x` becomes `comp.x` (represented post-flatten as `comp_x` once
// SubCompNamer runs), unless the reference names a global symbol — a
// built-in operator/variable that is never itself a component, such as
// `time` or `der` — or a name the surrounding scope already introduced
// (e.g. a for-loop index), which Symbols tracks.
type ScopePusher struct {
	GlobalSymbols map[string]bool
	Symbols       map[string]bool
	Comp          string
}

// DefaultGlobalSymbols returns the built-in names ScopePusher never
// prefixes, matching the identifiers the expression grammar treats as
// reserved rather than as component references.
func DefaultGlobalSymbols() map[string]bool {
	return map[string]bool{
		"time": true,
		"der":  true,
		"pre":  true,
		"cos":  true,
		"sin":  true,
		"tan":  true,
	}
}

// NewScopePusher builds a ScopePusher prefixing references with comp,
// using DefaultGlobalSymbols.
func NewScopePusher(comp string) *ScopePusher {
	return &ScopePusher{GlobalSymbols: DefaultGlobalSymbols(), Comp: comp}
}

func (p *ScopePusher) VisitComponentReference(ref ir.ComponentReference) ir.ComponentReference {
	if ref.Local {
		return ref
	}
	first := ref.First()
	if p.GlobalSymbols[first] || p.Symbols[first] {
		return ref
	}
	return ref.WithPrefix(p.Comp)
}
