package visitor

import "modelica-dae/core/ir"

// SubCompNamer collapses a reference's leading "comp.subcomp" pair into
// the single mangled identifier "comp_subcomp" the flattener uses once it
// has inlined comp's subcomponents directly into the flat class. Applied
// across the whole flat class after a component is expanded, so any other
// equation already referring to one of its subcomponents picks up the new
// name too.
type SubCompNamer struct {
	Comp string
}

func (n *SubCompNamer) VisitComponentReference(ref ir.ComponentReference) ir.ComponentReference {
	if len(ref.Parts) < 2 || ref.Parts[0].Ident != n.Comp {
		return ref
	}
	return ref.CollapseFirstTwo("_")
}
