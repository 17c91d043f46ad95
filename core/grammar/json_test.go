package grammar

import (
	"encoding/json"
	"testing"

	"modelica-dae/core/ir"
)

func tok(text string) ir.Token { return ir.Token{Text: text} }

func refTo(name string) ComponentReference {
	return ComponentReference{Parts: []ComponentRefPart{{Ident: tok(name)}}}
}

// buildSample assembles a small but structurally rich StoredDefinition
// exercising every sum-type family the codec must round-trip: expressions
// (arithmetic, relation, function call), equations (simple, when), and
// elements (component, extends).
func buildSample() *StoredDefinition {
	sign := ArithSub
	negX := ArithmeticExpression{UnarySign: &sign, First: ComponentRefExpr{Ref: refTo("x")}}
	derX := FunctionCallExpr{Callee: refTo("der"), Args: []Expression{ComponentRefExpr{Ref: refTo("x")}}}

	one := Modification{Expr: UnsignedNumber{Token: tok("1.0"), Real: true}}
	xDecl := ComponentDeclaration{Name: tok("x"), Modification: &one}

	whenCond := Relation{Lhs: ComponentRefExpr{Ref: refTo("time")}, Op: RelGt, Rhs: UnsignedNumber{Token: tok("1")}}
	whenEq := WhenEquation{Branches: []EquationBranch{{
		Cond: whenCond,
		Equations: []Equation{SimpleEquation{
			Lhs: ComponentRefExpr{Ref: refTo("z")},
			Rhs: UnsignedNumber{Token: tok("2")},
		}},
	}}}

	comp := &Composition{
		Elements: []Element{
			ElementComponent{TypeName: ir.Name{Parts: []ir.Token{tok("Real")}}, Declarations: []ComponentDeclaration{xDecl}},
			ElementExtends{Name: ir.Name{Parts: []ir.Token{tok("Base")}}},
		},
		Sections: []Section{
			EquationSection{Equations: []Equation{
				SimpleEquation{Lhs: derX, Rhs: negX},
				whenEq,
			}},
		},
	}
	cd := &ClassDefinition{
		Token:     tok("M"),
		Specifier: LongClassSpecifier{Name: tok("M"), Composition: comp, EndName: tok("M")},
	}

	sd := &StoredDefinition{Classes: []*ClassDefinition{cd}}
	return sd
}

func TestStoredDefinitionJSONRoundTrip(t *testing.T) {
	sd := buildSample()

	data, err := json.Marshal(sd)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got StoredDefinition
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	again, err := json.Marshal(&got)
	if err != nil {
		t.Fatalf("second Marshal: %v", err)
	}
	if string(again) != string(data) {
		t.Fatalf("round-trip not byte-equal:\nfirst:  %s\nsecond: %s", data, again)
	}

	if len(got.Classes) != 1 {
		t.Fatalf("expected 1 class, got %d", len(got.Classes))
	}
	spec, ok := got.Classes[0].Specifier.(LongClassSpecifier)
	if !ok {
		t.Fatalf("expected LongClassSpecifier, got %#v", got.Classes[0].Specifier)
	}
	if len(spec.Composition.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(spec.Composition.Elements))
	}
	if _, ok := spec.Composition.Elements[1].(ElementExtends); !ok {
		t.Fatalf("expected second element to be ElementExtends")
	}
	eqSection, ok := spec.Composition.Sections[0].(EquationSection)
	if !ok {
		t.Fatalf("expected EquationSection")
	}
	if len(eqSection.Equations) != 2 {
		t.Fatalf("expected 2 equations, got %d", len(eqSection.Equations))
	}
	if _, ok := eqSection.Equations[1].(WhenEquation); !ok {
		t.Fatalf("expected second equation to be WhenEquation")
	}
}
