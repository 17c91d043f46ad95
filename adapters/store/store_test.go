package store

import (
	"context"
	"testing"

	"modelica-dae/core/dae"
	"modelica-dae/core/ir"
)

func sampleArtifact() *Artifact {
	x := &ir.Component{Name: "x", TypeName: ir.Name{Parts: []ir.Token{{Text: "Real"}}}, Start: ir.DefaultStart("Real")}
	d := &dae.Dae{
		T: &ir.Component{Name: "time", TypeName: ir.Name{Parts: []ir.Token{{Text: "Real"}}}},
		X: []*ir.Component{x},
		XDot: []*ir.Component{
			{Name: "der_x", TypeName: ir.Name{Parts: []ir.Token{{Text: "Real"}}}},
		},
		FX: []ir.Equation{
			ir.SimpleEquation{
				Lhs: ir.CallExpr{Comp: ir.RefExpr{Ref: ir.SimpleRef("der")}, Args: []ir.Expression{ir.RefExpr{Ref: ir.SimpleRef("x")}}},
				Rhs: ir.UnaryExpr{Op: ir.UnaryMinus, Rhs: ir.RefExpr{Ref: ir.SimpleRef("x")}},
			},
		},
	}
	hash, err := ir.Hash(d)
	if err != nil {
		panic(err)
	}
	return &Artifact{Hash: hash, ModelClassPath: "M", Dae: d}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := sampleArtifact()

	if err := s.Put(ctx, a); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get(ctx, a.Hash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected cache hit")
	}
	if len(got.Dae.X) != 1 || got.Dae.X[0].Name != "x" {
		t.Fatalf("X not round-tripped: %+v", got.Dae.X)
	}
	if len(got.Dae.FX) != 1 {
		t.Fatalf("FX not round-tripped: %+v", got.Dae.FX)
	}

	list, err := s.List(ctx, "M")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 listed artifact, got %d", len(list))
	}
}

func TestMemoryStoreMiss(t *testing.T) {
	s := NewMemoryStore()
	_, ok, err := s.Get(context.Background(), ir.ContentHash("does-not-exist"))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatalf("expected cache miss")
	}
}
