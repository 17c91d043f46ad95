package engine

import (
	"context"
	"testing"

	"modelica-dae/core/grammar"
	"modelica-dae/core/ir"
	"modelica-dae/internal/errors"
)

func tok(text string) ir.Token { return ir.Token{Text: text} }

func refTo(name string) grammar.ComponentReference {
	return grammar.ComponentReference{Parts: []grammar.ComponentRefPart{{Ident: tok(name)}}}
}

// oscillator is the grammar tree for
//
//	model M Real x; equation der(x) = -x; end M;
func oscillator() *grammar.StoredDefinition {
	derX := grammar.FunctionCallExpr{
		Callee: refTo("der"),
		Args:   []grammar.Expression{grammar.ComponentRefExpr{Ref: refTo("x")}},
	}
	sign := grammar.ArithSub
	negX := grammar.ArithmeticExpression{UnarySign: &sign, First: grammar.ComponentRefExpr{Ref: refTo("x")}}

	comp := &grammar.Composition{
		Elements: []grammar.Element{
			grammar.ElementComponent{
				TypeName:     ir.Name{Parts: []ir.Token{tok("Real")}},
				Declarations: []grammar.ComponentDeclaration{{Name: tok("x")}},
			},
		},
		Sections: []grammar.Section{
			grammar.EquationSection{Equations: []grammar.Equation{
				grammar.SimpleEquation{Lhs: derX, Rhs: negX},
			}},
		},
	}
	cd := &grammar.ClassDefinition{
		Token:     tok("M"),
		Specifier: grammar.LongClassSpecifier{Name: tok("M"), Composition: comp, EndName: tok("M")},
	}
	return &grammar.StoredDefinition{Classes: []*grammar.ClassDefinition{cd}}
}

func TestPipelineEndToEnd(t *testing.T) {
	p := NewPipeline(nil)
	result, err := p.Run(context.Background(), &Request{
		StoredDefinition: oscillator(),
		ModelClassPath:   "M",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Lowered == nil || result.Flat == nil || result.Dae == nil {
		t.Fatalf("expected all three artifacts, got %+v", result)
	}
	if result.Flat.Name.Text != "M" {
		t.Fatalf("flat class name = %q, want M", result.Flat.Name.Text)
	}
	if len(result.Dae.X) != 1 || result.Dae.X[0].Name != "x" {
		t.Fatalf("expected x as continuous state, got %+v", result.Dae.X)
	}
	if len(result.Dae.XDot) != 1 || result.Dae.XDot[0].Name != "der_x" {
		t.Fatalf("expected der_x, got %+v", result.Dae.XDot)
	}
	if len(result.Dae.FX) != 1 {
		t.Fatalf("expected 1 fx equation, got %d", len(result.Dae.FX))
	}
	if result.Stats.ClassesLowered != 1 {
		t.Fatalf("ClassesLowered = %d, want 1", result.Stats.ClassesLowered)
	}
}

func TestPipelineRunToStopsEarly(t *testing.T) {
	p := NewPipeline(nil)
	result, err := p.RunTo(context.Background(), &Request{
		StoredDefinition: oscillator(),
		ModelClassPath:   "M",
	}, PhaseFlatten)
	if err != nil {
		t.Fatalf("RunTo: %v", err)
	}
	if result.Flat == nil {
		t.Fatalf("expected flattened class")
	}
	if result.Dae != nil {
		t.Fatalf("partition should not have run, got %+v", result.Dae)
	}
}

func TestPipelineMissingClass(t *testing.T) {
	p := NewPipeline(nil)
	_, err := p.Run(context.Background(), &Request{
		StoredDefinition: oscillator(),
		ModelClassPath:   "DoesNotExist",
	})
	if err == nil {
		t.Fatalf("expected ClassNotFound error")
	}
}

func TestPipelineAbortsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(nil)
	_, err := p.Run(ctx, &Request{StoredDefinition: oscillator(), ModelClassPath: "M"})
	if err == nil {
		t.Fatalf("expected Aborted error")
	}
	var cerr *errors.Error
	for e := err; e != nil; {
		if te, ok := e.(*errors.Error); ok {
			cerr = te
			break
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			break
		}
		e = u.Unwrap()
	}
	if cerr == nil || cerr.Type != errors.TypeAborted {
		t.Fatalf("expected Aborted, got %v", err)
	}
}
