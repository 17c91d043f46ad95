package dae

import (
	"encoding/json"
	"testing"

	"modelica-dae/core/ir"
)

func sampleDae() *Dae {
	real := func() ir.Name { return ir.Name{Parts: []ir.Token{{Text: "Real"}}} }
	x := &ir.Component{Name: "x", TypeName: real(), Start: ir.DefaultStart("Real")}
	k := &ir.Component{Name: "k", TypeName: real(), Variability: ir.VariabilityParameter, Start: ir.DefaultStart("Real")}
	z := &ir.Component{Name: "z", TypeName: real(), Variability: ir.VariabilityDiscrete, Start: ir.DefaultStart("Real")}

	cond := ir.BinaryExpr{Lhs: ir.RefExpr{Ref: ir.SimpleRef("time")}, Op: ir.OpGt, Rhs: ir.DecimalFromInt(1)}
	body := ir.SimpleEquation{Lhs: ir.RefExpr{Ref: ir.SimpleRef("z")}, Rhs: ir.DecimalFromInt(2)}

	return &Dae{
		T:    &ir.Component{Name: "time", TypeName: real()},
		P:    []*ir.Component{k},
		X:    []*ir.Component{x},
		XDot: []*ir.Component{{Name: "der_x", TypeName: real()}},
		Z:    []*ir.Component{z},
		PreZ: []*ir.Component{{Name: "pre_z", TypeName: real()}},

		C:        []ir.Expression{cond},
		Relation: []ir.Expression{cond},

		FX: []ir.Equation{
			ir.SimpleEquation{
				Lhs: ir.CallExpr{Comp: ir.RefExpr{Ref: ir.SimpleRef("der")}, Args: []ir.Expression{ir.RefExpr{Ref: ir.SimpleRef("x")}}},
				Rhs: ir.UnaryExpr{Op: ir.UnaryMinus, Rhs: ir.RefExpr{Ref: ir.SimpleRef("x")}},
			},
		},
		FZ: []ir.Equation{body},
		FC: [][]ir.Equation{{body}},

		Connects: []ir.ConnectEquation{
			{Lhs: ir.SimpleRef("a"), Rhs: ir.SimpleRef("b")},
		},
	}
}

func TestDaeJSONRoundTripByteEqual(t *testing.T) {
	d := sampleDae()

	first, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Dae
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	second, err := json.Marshal(&decoded)
	if err != nil {
		t.Fatalf("remarshal: %v", err)
	}

	if string(first) != string(second) {
		t.Fatalf("round trip not byte-equal:\nfirst:  %s\nsecond: %s", first, second)
	}

	if len(decoded.FC) != 1 || len(decoded.FC[0]) != 1 {
		t.Fatalf("FC not round-tripped: %+v", decoded.FC)
	}
	if len(decoded.Connects) != 1 || decoded.Connects[0].Lhs.String() != "a" {
		t.Fatalf("Connects not round-tripped: %+v", decoded.Connects)
	}
}
