package dae

import (
	"modelica-dae/core/ir"
	"modelica-dae/internal/errors"
)

// Partition classifies fclass's components into the Dae's nine buckets
// and routes its equations into fx/fz/fm/fc.
func Partition(fclass *ir.ClassDefinition) (*Dae, error) {
	derNames := collectDerNames(fclass.Equations)
	whenAssigned := collectWhenAssigned(fclass.Equations)

	out := &Dae{
		T: &ir.Component{
			Name:     "time",
			TypeName: ir.Name{Parts: []ir.Token{{Text: "Real"}}},
			Start:    ir.DefaultStart("Real"),
		},
	}

	for _, name := range fclass.Components.Keys() {
		comp, _ := fclass.Components.Get(name)
		if comp.Name == "time" {
			continue
		}

		bucket := classifyPrimary(comp, derNames, whenAssigned)
		if comp.Causality == ir.CausalityInput {
			bucket = "u"
		}

		switch bucket {
		case "x":
			out.X = append(out.X, comp)
			out.XDot = append(out.XDot, &ir.Component{
				Name:     "der_" + comp.Name,
				TypeName: comp.TypeName,
				Start:    ir.DefaultStart(comp.TypeName.String()),
			})
		case "y":
			out.Y = append(out.Y, comp)
		case "cp":
			out.CP = append(out.CP, comp)
		case "p":
			out.P = append(out.P, comp)
		case "z":
			out.Z = append(out.Z, comp)
			out.PreZ = append(out.PreZ, &ir.Component{
				Name:     "pre_" + comp.Name,
				TypeName: comp.TypeName,
				Start:    comp.Start,
			})
		case "m":
			out.M = append(out.M, comp)
		case "u":
			out.U = append(out.U, comp)
		}
	}

	routeEquations(out, fclass)

	if err := checkInvariants(out); err != nil {
		return nil, err
	}
	return out, nil
}

// classifyPrimary applies the bucket rules in the order the design notes
// state them: states first (der-appearance wins regardless of
// variability), then constant/parameter, then discrete-real, then the
// discrete-valued types. Returns "" when nothing matches — a component
// the rules leave unclassified that later turns up in an equation trips
// the DanglingReference invariant check instead of being silently placed.
func classifyPrimary(comp *ir.Component, derNames, whenAssigned map[string]bool) string {
	typeName := comp.TypeName.String()

	if typeName == "Real" {
		if derNames[comp.Name] {
			return "x"
		}
		if comp.Variability == ir.VariabilityEmpty {
			return "y"
		}
	}

	switch comp.Variability {
	case ir.VariabilityConstant:
		return "cp"
	case ir.VariabilityParameter:
		return "p"
	case ir.VariabilityDiscrete:
		if typeName == "Real" {
			return "z"
		}
	}

	if (typeName == "Integer" || typeName == "Boolean" || typeName == "Bool") &&
		(comp.Variability == ir.VariabilityDiscrete || whenAssigned[comp.Name]) {
		return "m"
	}

	return ""
}

// routeEquations sorts fclass's top-level equations into fx/fz/fm/fc,
// passes connect equations through untranslated, and lifts each when
// block's condition into c (and, if relational, relation).
func routeEquations(out *Dae, fclass *ir.ClassDefinition) {
	for _, eq := range fclass.Equations {
		switch v := eq.(type) {
		case ir.ConnectEquation:
			out.Connects = append(out.Connects, v)

		case ir.WhenEquation:
			for _, block := range v.Blocks {
				out.C = append(out.C, block.Cond)
				if isRelation(block.Cond) {
					out.Relation = append(out.Relation, block.Cond)
				}
				for _, bodyEq := range block.Eqs {
					if isRealBodyEquation(fclass, bodyEq) {
						out.FZ = append(out.FZ, bodyEq)
					} else {
						out.FM = append(out.FM, bodyEq)
					}
				}
				out.FC = append(out.FC, block.Eqs)
			}

		default:
			out.FX = append(out.FX, eq)
		}
	}
}

// isRealBodyEquation reports whether a when-block body equation assigns a
// Real-typed component, determining its fz-vs-fm routing. An equation
// whose left side isn't a plain component reference defaults to fz, the
// more common case in practice.
func isRealBodyEquation(fclass *ir.ClassDefinition, eq ir.Equation) bool {
	se, ok := eq.(ir.SimpleEquation)
	if !ok {
		return true
	}
	ref, ok := se.Lhs.(ir.RefExpr)
	if !ok {
		return true
	}
	comp, ok := fclass.Components.Get(ref.Ref.First())
	if !ok {
		return true
	}
	return comp.TypeName.String() == "Real"
}

func isRelation(e ir.Expression) bool {
	b, ok := e.(ir.BinaryExpr)
	return ok && b.Op.IsRelational()
}

// collectDerNames scans every equation (including nested if/when bodies)
// for der(name) calls, returning the set of differentiated component names.
func collectDerNames(eqs []ir.Equation) map[string]bool {
	names := make(map[string]bool)
	forEachEquation(eqs, func(eq ir.Equation) {
		for _, e := range equationExpressions(eq) {
			findDerNames(e, names)
		}
	})
	return names
}

func findDerNames(e ir.Expression, names map[string]bool) {
	switch x := e.(type) {
	case ir.CallExpr:
		if ref, ok := x.Comp.(ir.RefExpr); ok && ref.Ref.First() == "der" && len(x.Args) == 1 {
			if arg, ok := x.Args[0].(ir.RefExpr); ok {
				names[arg.Ref.First()] = true
			}
		}
		findDerNames(x.Comp, names)
		for _, a := range x.Args {
			findDerNames(a, names)
		}
	case ir.UnaryExpr:
		findDerNames(x.Rhs, names)
	case ir.BinaryExpr:
		findDerNames(x.Lhs, names)
		findDerNames(x.Rhs, names)
	case ir.RangeExpr:
		findDerNames(x.Start, names)
		if x.Step != nil {
			findDerNames(x.Step, names)
		}
		findDerNames(x.End, names)
	}
}

// collectWhenAssigned returns the set of component names assigned by a
// simple equation inside some when block's body, used by the Integer/Bool
// classification rule's "assigned only inside When bodies" clause.
func collectWhenAssigned(eqs []ir.Equation) map[string]bool {
	names := make(map[string]bool)
	forEachEquation(eqs, func(eq ir.Equation) {
		w, ok := eq.(ir.WhenEquation)
		if !ok {
			return
		}
		for _, block := range w.Blocks {
			for _, bodyEq := range block.Eqs {
				if se, ok := bodyEq.(ir.SimpleEquation); ok {
					if ref, ok := se.Lhs.(ir.RefExpr); ok {
						names[ref.Ref.First()] = true
					}
				}
			}
		}
	})
	return names
}

// forEachEquation visits every equation reachable from eqs, including
// those nested in if/when branches, in source order.
func forEachEquation(eqs []ir.Equation, visit func(ir.Equation)) {
	for _, eq := range eqs {
		visit(eq)
		switch v := eq.(type) {
		case ir.IfEquation:
			for _, b := range v.CondBlocks {
				forEachEquation(b.Eqs, visit)
			}
			forEachEquation(v.ElseBlock, visit)
		case ir.WhenEquation:
			for _, b := range v.Blocks {
				forEachEquation(b.Eqs, visit)
			}
		}
	}
}

// equationExpressions returns eq's own expressions (not those of its
// nested branch bodies, which forEachEquation visits separately).
func equationExpressions(eq ir.Equation) []ir.Expression {
	switch v := eq.(type) {
	case ir.SimpleEquation:
		return []ir.Expression{v.Lhs, v.Rhs}
	case ir.CallEquation:
		return append([]ir.Expression{v.Comp}, v.Args...)
	case ir.IfEquation:
		exprs := make([]ir.Expression, 0, len(v.CondBlocks))
		for _, b := range v.CondBlocks {
			exprs = append(exprs, b.Cond)
		}
		return exprs
	case ir.WhenEquation:
		exprs := make([]ir.Expression, 0, len(v.Blocks))
		for _, b := range v.Blocks {
			exprs = append(exprs, b.Cond)
		}
		return exprs
	default:
		return nil
	}
}

// checkInvariants verifies |x| = |x_dot|, |z| = |pre_z|, and that every
// free identifier referenced from fx/fz/fm resolves to exactly one
// classification bucket.
func checkInvariants(out *Dae) error {
	if len(out.X) != len(out.XDot) {
		return errors.Internal("x/x_dot length mismatch", nil)
	}
	if len(out.Z) != len(out.PreZ) {
		return errors.Internal("z/pre_z length mismatch", nil)
	}

	known := make(map[string]int)
	add := func(comps []*ir.Component) {
		for _, c := range comps {
			known[c.Name]++
		}
	}
	add(out.P)
	add(out.CP)
	add(out.X)
	add(out.XDot)
	add(out.Y)
	add(out.U)
	add(out.Z)
	add(out.M)
	add(out.PreZ)
	known[out.T.Name]++

	globals := map[string]bool{
		"der": true, "pre": true, "cos": true, "sin": true, "tan": true,
		"reinit": true, "assert": true, "terminate": true,
	}

	check := func(eqs []ir.Equation) error {
		for _, eq := range eqs {
			for _, name := range collectRefs(eq) {
				if known[name] == 1 || globals[name] {
					continue
				}
				return errors.DanglingReference(name)
			}
		}
		return nil
	}
	if err := check(out.FX); err != nil {
		return err
	}
	if err := check(out.FZ); err != nil {
		return err
	}
	if err := check(out.FM); err != nil {
		return err
	}
	return nil
}

// collectRefs returns every component name referenced anywhere in eq,
// including nested if/when branch bodies.
func collectRefs(eq ir.Equation) []string {
	var names []string

	var walkExpr func(e ir.Expression)
	walkExpr = func(e ir.Expression) {
		switch x := e.(type) {
		case ir.RefExpr:
			names = append(names, x.Ref.First())
		case ir.UnaryExpr:
			walkExpr(x.Rhs)
		case ir.BinaryExpr:
			walkExpr(x.Lhs)
			walkExpr(x.Rhs)
		case ir.CallExpr:
			walkExpr(x.Comp)
			for _, a := range x.Args {
				walkExpr(a)
			}
		case ir.RangeExpr:
			walkExpr(x.Start)
			if x.Step != nil {
				walkExpr(x.Step)
			}
			walkExpr(x.End)
		}
	}

	var walkEq func(e ir.Equation)
	walkEq = func(e ir.Equation) {
		switch v := e.(type) {
		case ir.SimpleEquation:
			walkExpr(v.Lhs)
			walkExpr(v.Rhs)
		case ir.ConnectEquation:
			names = append(names, v.Lhs.First(), v.Rhs.First())
		case ir.CallEquation:
			walkExpr(v.Comp)
			for _, a := range v.Args {
				walkExpr(a)
			}
		case ir.IfEquation:
			for _, b := range v.CondBlocks {
				walkExpr(b.Cond)
				for _, sub := range b.Eqs {
					walkEq(sub)
				}
			}
			for _, sub := range v.ElseBlock {
				walkEq(sub)
			}
		case ir.WhenEquation:
			for _, b := range v.Blocks {
				walkExpr(b.Cond)
				for _, sub := range b.Eqs {
					walkEq(sub)
				}
			}
		}
	}
	walkEq(eq)
	return names
}
