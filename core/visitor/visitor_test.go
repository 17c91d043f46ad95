package visitor

import (
	"testing"

	"modelica-dae/core/ir"
)

func TestScopePusherPrefixesBareReference(t *testing.T) {
	p := NewScopePusher("resistor")
	eq := ir.SimpleEquation{
		Lhs: ir.RefExpr{Ref: ir.SimpleRef("v")},
		Rhs: ir.BinaryExpr{
			Lhs: ir.RefExpr{Ref: ir.SimpleRef("i")},
			Op:  ir.OpMul,
			Rhs: ir.RefExpr{Ref: ir.SimpleRef("r")},
		},
	}

	got := WalkEquation(p, eq).(ir.SimpleEquation)

	lhsRef := got.Lhs.(ir.RefExpr).Ref
	if lhsRef.String() != "resistor.v" {
		t.Fatalf("Lhs = %q, want resistor.v", lhsRef.String())
	}
	rhs := got.Rhs.(ir.BinaryExpr)
	if ref := rhs.Lhs.(ir.RefExpr).Ref.String(); ref != "resistor.i" {
		t.Fatalf("Rhs.Lhs = %q, want resistor.i", ref)
	}
}

func TestScopePusherSkipsGlobalSymbols(t *testing.T) {
	p := NewScopePusher("c")
	eq := ir.SimpleEquation{
		Lhs: ir.RefExpr{Ref: ir.SimpleRef("x")},
		Rhs: ir.CallExpr{
			Comp: ir.RefExpr{Ref: ir.SimpleRef("der")},
			Args: []ir.Expression{ir.RefExpr{Ref: ir.SimpleRef("x")}},
		},
	}

	got := WalkEquation(p, eq).(ir.SimpleEquation)

	call := got.Rhs.(ir.CallExpr)
	if ref := call.Comp.(ir.RefExpr).Ref.String(); ref != "der" {
		t.Fatalf("Comp = %q, want der (unprefixed global)", ref)
	}
	if ref := call.Args[0].(ir.RefExpr).Ref.String(); ref != "c.x" {
		t.Fatalf("Args[0] = %q, want c.x", ref)
	}
}

func TestSubCompNamerCollapsesDottedReference(t *testing.T) {
	n := &SubCompNamer{Comp: "resistor"}
	eq := ir.SimpleEquation{
		Lhs: ir.RefExpr{Ref: ir.ComponentReference{Parts: []ir.ComponentRefPart{
			{Ident: "resistor"}, {Ident: "v"},
		}}},
		Rhs: ir.RefExpr{Ref: ir.SimpleRef("other")},
	}

	got := WalkEquation(n, eq).(ir.SimpleEquation)

	if ref := got.Lhs.(ir.RefExpr).Ref.String(); ref != "resistor_v" {
		t.Fatalf("Lhs = %q, want resistor_v", ref)
	}
	if ref := got.Rhs.(ir.RefExpr).Ref.String(); ref != "other" {
		t.Fatalf("Rhs = %q, want unchanged other", ref)
	}
}
