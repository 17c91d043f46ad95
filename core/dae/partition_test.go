package dae

import (
	"testing"

	"modelica-dae/core/ir"
)

func realComp(name string, variability ir.Variability) *ir.Component {
	return &ir.Component{
		Name:        name,
		TypeName:    ir.Name{Parts: []ir.Token{{Text: "Real"}}},
		Variability: variability,
		Start:       ir.DefaultStart("Real"),
	}
}

func newFlatClass() *ir.ClassDefinition {
	c := ir.NewClassDefinition(ir.Token{Text: "M"})
	return c
}

// der(x) = -x: a single continuous state, its matching derivative,
// and one fx equation.
func TestPartitionSimpleStateEquation(t *testing.T) {
	fclass := newFlatClass()
	fclass.Components.Set("x", realComp("x", ir.VariabilityEmpty))
	fclass.Equations = []ir.Equation{
		ir.SimpleEquation{
			Lhs: ir.CallExpr{
				Comp: ir.RefExpr{Ref: ir.SimpleRef("der")},
				Args: []ir.Expression{ir.RefExpr{Ref: ir.SimpleRef("x")}},
			},
			Rhs: ir.UnaryExpr{Op: ir.UnaryMinus, Rhs: ir.RefExpr{Ref: ir.SimpleRef("x")}},
		},
	}

	d, err := Partition(fclass)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(d.X) != 1 || d.X[0].Name != "x" {
		t.Fatalf("expected x in X, got %+v", d.X)
	}
	if len(d.XDot) != 1 || d.XDot[0].Name != "der_x" {
		t.Fatalf("expected der_x in XDot, got %+v", d.XDot)
	}
	if len(d.FX) != 1 {
		t.Fatalf("expected 1 fx equation, got %d", len(d.FX))
	}
}

// parameter k; y = k*2: one parameter, one algebraic variable, one fx
// equation.
func TestPartitionParameterAndAlgebraic(t *testing.T) {
	fclass := newFlatClass()
	fclass.Components.Set("k", realComp("k", ir.VariabilityParameter))
	fclass.Components.Set("y", realComp("y", ir.VariabilityEmpty))
	fclass.Equations = []ir.Equation{
		ir.SimpleEquation{
			Lhs: ir.RefExpr{Ref: ir.SimpleRef("y")},
			Rhs: ir.BinaryExpr{
				Lhs: ir.RefExpr{Ref: ir.SimpleRef("k")},
				Op:  ir.OpMul,
				Rhs: ir.DecimalFromInt(2),
			},
		},
	}

	d, err := Partition(fclass)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(d.P) != 1 || d.P[0].Name != "k" {
		t.Fatalf("expected k in P, got %+v", d.P)
	}
	if len(d.Y) != 1 || d.Y[0].Name != "y" {
		t.Fatalf("expected y in Y, got %+v", d.Y)
	}
	if len(d.FX) != 1 {
		t.Fatalf("expected 1 fx equation, got %d", len(d.FX))
	}
}

// A discrete Real z updated in a when block guarded by time > 1. The
// condition lands in C and Relation, the body lands in FZ and FC, and z
// gets a matching pre_z.
func TestPartitionWhenDiscreteReal(t *testing.T) {
	fclass := newFlatClass()
	fclass.Components.Set("z", realComp("z", ir.VariabilityDiscrete))
	cond := ir.BinaryExpr{
		Lhs: ir.RefExpr{Ref: ir.SimpleRef("time")},
		Op:  ir.OpGt,
		Rhs: ir.DecimalFromInt(1),
	}
	body := ir.SimpleEquation{
		Lhs: ir.RefExpr{Ref: ir.SimpleRef("z")},
		Rhs: ir.DecimalFromInt(2),
	}
	fclass.Equations = []ir.Equation{
		ir.WhenEquation{Blocks: []ir.EquationBlock{{Cond: cond, Eqs: []ir.Equation{body}}}},
	}

	d, err := Partition(fclass)
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if len(d.Z) != 1 || d.Z[0].Name != "z" {
		t.Fatalf("expected z in Z, got %+v", d.Z)
	}
	if len(d.PreZ) != 1 || d.PreZ[0].Name != "pre_z" {
		t.Fatalf("expected pre_z in PreZ, got %+v", d.PreZ)
	}
	if len(d.C) != 1 {
		t.Fatalf("expected 1 condition in C, got %d", len(d.C))
	}
	if len(d.Relation) != 1 {
		t.Fatalf("expected condition to also land in Relation, got %d", len(d.Relation))
	}
	if len(d.FZ) != 1 {
		t.Fatalf("expected 1 fz equation, got %d", len(d.FZ))
	}
	if len(d.FC) != 1 || len(d.FC[0]) != 1 {
		t.Fatalf("expected 1 fc callback with 1 body equation, got %+v", d.FC)
	}
}

// A reference to an undeclared identifier trips the DanglingReference
// invariant.
func TestPartitionDanglingReference(t *testing.T) {
	fclass := newFlatClass()
	fclass.Components.Set("x", realComp("x", ir.VariabilityEmpty))
	fclass.Equations = []ir.Equation{
		ir.SimpleEquation{
			Lhs: ir.RefExpr{Ref: ir.SimpleRef("x")},
			Rhs: ir.RefExpr{Ref: ir.SimpleRef("ghost")},
		},
	}

	_, err := Partition(fclass)
	if err == nil {
		t.Fatalf("expected DanglingReference error")
	}
}
