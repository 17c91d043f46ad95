package lower

import (
	"modelica-dae/core/grammar"
	"modelica-dae/core/ir"
	"modelica-dae/internal/errors"
)

// StoredDefinition lowers the root of a parsed Modelica file.
func StoredDefinition(sd *grammar.StoredDefinition) (*ir.StoredDefinition, error) {
	out := ir.NewStoredDefinition()
	out.Within = sd.Within
	for _, cd := range sd.Classes {
		lowered, err := ClassDefinition(cd)
		if err != nil {
			return nil, err
		}
		out.Classes.Set(lowered.Name.Text, lowered)
	}
	return out, nil
}

// ClassDefinition lowers one class-definition production. Only the long
// class specifier form is supported; short and der class specifiers
// surface as Unimplemented, since extends/expansion lookups assume every
// reachable class carries a full composition.
func ClassDefinition(cd *grammar.ClassDefinition) (*ir.ClassDefinition, error) {
	switch spec := cd.Specifier.(type) {
	case grammar.LongClassSpecifier:
		return composition(spec.Name, cd.Encapsulated, spec.Composition)
	case grammar.ShortClassSpecifier:
		return nil, errors.Unimplemented("short class specifier", spec.Name.Location)
	case grammar.DerClassSpecifier:
		return nil, errors.Unimplemented("der class specifier", spec.Name.Location)
	default:
		return nil, errors.Internal("unrecognized class specifier node", nil)
	}
}

func composition(name ir.Token, encapsulated bool, comp *grammar.Composition) (*ir.ClassDefinition, error) {
	out := ir.NewClassDefinition(name)
	out.Encapsulated = encapsulated

	for _, el := range comp.Elements {
		switch e := el.(type) {
		case grammar.ElementClass:
			nested, err := ClassDefinition(e.Class)
			if err != nil {
				return nil, err
			}
			out.Classes.Set(nested.Name.Text, nested)

		case grammar.ElementComponent:
			components, err := componentClause(e)
			if err != nil {
				return nil, err
			}
			for _, c := range components {
				out.Components.Set(c.Name, c)
			}

		case grammar.ElementImport:
			if e.Alias.Text != "" {
				return nil, errors.Unimplemented("renaming import", e.Alias.Location)
			}
			out.Imports = append(out.Imports, e.Name.String())

		case grammar.ElementExtends:
			out.Extends = append(out.Extends, ir.Extend{Comp: e.Name})

		default:
			return nil, errors.Internal("unrecognized grammar element node", nil)
		}
	}

	for _, sec := range comp.Sections {
		switch s := sec.(type) {
		case grammar.EquationSection:
			eqs, err := equationList(s.Equations)
			if err != nil {
				return nil, err
			}
			if s.Initial {
				out.InitialEquations = append(out.InitialEquations, eqs...)
			} else {
				out.Equations = append(out.Equations, eqs...)
			}

		case grammar.AlgorithmSection:
			stmts, err := statementList(s.Statements)
			if err != nil {
				return nil, err
			}
			if s.Initial {
				out.InitialAlgorithms = append(out.InitialAlgorithms, stmts)
			} else {
				out.Algorithms = append(out.Algorithms, stmts)
			}

		default:
			return nil, errors.Internal("unrecognized grammar section node", nil)
		}
	}

	return out, nil
}

func componentClause(e grammar.ElementComponent) ([]*ir.Component, error) {
	variability := ir.VariabilityEmpty
	switch {
	case e.TypePrefixes.Parameter:
		variability = ir.VariabilityParameter
	case e.TypePrefixes.Constant:
		variability = ir.VariabilityConstant
	case e.TypePrefixes.Discrete:
		variability = ir.VariabilityDiscrete
	}

	causality := ir.CausalityEmpty
	switch {
	case e.TypePrefixes.Input:
		causality = ir.CausalityInput
	case e.TypePrefixes.Output:
		causality = ir.CausalityOutput
	}

	connection := ir.ConnectionEmpty
	switch {
	case e.TypePrefixes.Flow:
		connection = ir.ConnectionFlow
	case e.TypePrefixes.Stream:
		connection = ir.ConnectionStream
	}

	out := make([]*ir.Component, len(e.Declarations))
	for i, decl := range e.Declarations {
		mods, start, err := modification(decl.Modification, e.TypeName.String())
		if err != nil {
			return nil, err
		}
		out[i] = &ir.Component{
			Name:               decl.Name.Text,
			TypeName:           e.TypeName,
			Variability:        variability,
			Causality:          causality,
			Connection:         connection,
			Description:        decl.DescriptionStrings,
			Start:              start,
			ClassModifications: mods,
		}
	}
	return out, nil
}

// modification lowers a component declaration's modification clause. Only
// the direct `= expr` form sets Start; class-modification entries are
// parsed and retained on the component but not otherwise interpreted.
func modification(m *grammar.Modification, typeName string) ([]ir.ClassModificationEntry, ir.Expression, error) {
	if m == nil {
		return nil, ir.DefaultStart(typeName), nil
	}

	mods := make([]ir.ClassModificationEntry, len(m.ClassModifications))
	for i, entry := range m.ClassModifications {
		var value ir.Expression = ir.EmptyExpr{}
		if entry.Expr != nil {
			lowered, err := Expression(entry.Expr)
			if err != nil {
				return nil, nil, err
			}
			value = lowered
		}
		mods[i] = ir.ClassModificationEntry{Key: entry.Name.String(), Value: value}
	}

	if m.Expr != nil {
		start, err := Expression(m.Expr)
		if err != nil {
			return nil, nil, err
		}
		return mods, start, nil
	}

	// No direct "= expr": a parenthesized class-modification's entries
	// (including a "start=..." one) are parsed but never actioned, so
	// Start falls back to the type default.
	return mods, ir.DefaultStart(typeName), nil
}
