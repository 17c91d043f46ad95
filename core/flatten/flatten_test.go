package flatten

import (
	"testing"

	"modelica-dae/core/ir"
)

func realComponent(name string) *ir.Component {
	return &ir.Component{
		Name:     name,
		TypeName: ir.Name{Parts: []ir.Token{{Text: "Real"}}},
		Start:    ir.DefaultStart("Real"),
	}
}

func buildDef() *ir.StoredDefinition {
	def := ir.NewStoredDefinition()

	resistor := ir.NewClassDefinition(ir.Token{Text: "Resistor"})
	resistor.Components.Set("v", realComponent("v"))
	resistor.Components.Set("i", realComponent("i"))
	resistor.Equations = []ir.Equation{
		ir.SimpleEquation{
			Lhs: ir.RefExpr{Ref: ir.SimpleRef("v")},
			Rhs: ir.RefExpr{Ref: ir.SimpleRef("i")},
		},
	}
	def.Classes.Set("Resistor", resistor)

	circuit := ir.NewClassDefinition(ir.Token{Text: "Circuit"})
	circuit.Components.Set("r1", &ir.Component{
		Name:     "r1",
		TypeName: ir.Name{Parts: []ir.Token{{Text: "Resistor"}}},
	})
	def.Classes.Set("Circuit", circuit)

	return def
}

func TestFlattenExpandsComponent(t *testing.T) {
	def := buildDef()

	fclass, err := Flatten(def, "Circuit")
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	if _, ok := fclass.Components.Get("r1"); ok {
		t.Fatalf("expanded component r1 should have been removed")
	}
	if _, ok := fclass.Components.Get("r1_v"); !ok {
		t.Fatalf("expected subcomponent r1_v")
	}
	if _, ok := fclass.Components.Get("r1_i"); !ok {
		t.Fatalf("expected subcomponent r1_i")
	}

	if len(fclass.Equations) != 1 {
		t.Fatalf("expected 1 equation, got %d", len(fclass.Equations))
	}
	eq := fclass.Equations[0].(ir.SimpleEquation)
	if ref := eq.Lhs.(ir.RefExpr).Ref.String(); ref != "r1_v" {
		t.Fatalf("Lhs = %q, want r1_v", ref)
	}
	if ref := eq.Rhs.(ir.RefExpr).Ref.String(); ref != "r1_i" {
		t.Fatalf("Rhs = %q, want r1_i", ref)
	}
}

func TestFlattenMissingClass(t *testing.T) {
	def := buildDef()
	if _, err := Flatten(def, "DoesNotExist"); err == nil {
		t.Fatalf("expected ClassNotFound error")
	}
}

func TestFlattenIsIdempotentOnFlatClass(t *testing.T) {
	def := buildDef()
	fclass, err := Flatten(def, "Circuit")
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	def.Classes.Set("Circuit_flat", fclass)

	again, err := Flatten(def, "Circuit_flat")
	if err != nil {
		t.Fatalf("second Flatten: %v", err)
	}
	if again.Components.Len() != fclass.Components.Len() {
		t.Fatalf("re-flattening a flat class changed component count: %d vs %d",
			again.Components.Len(), fclass.Components.Len())
	}
}
