package lower

import (
	"testing"

	"modelica-dae/core/grammar"
	"modelica-dae/core/ir"
	"modelica-dae/internal/errors"
)

func ident(text string) ir.Token { return ir.Token{Text: text} }

func ref(name string) grammar.ComponentReference {
	return grammar.ComponentReference{Parts: []grammar.ComponentRefPart{{Ident: ident(name)}}}
}

func refExpr(name string) grammar.Expression {
	return grammar.ComponentRefExpr{Ref: ref(name)}
}

func intLit(n string) grammar.Expression {
	return grammar.UnsignedNumber{Token: ident(n)}
}

// "a + b * c" yields Binary(+, a, Binary(*, b, c)).
func TestPrecedenceAdditiveOverMultiplicative(t *testing.T) {
	// a + (b * c), expressed the way the grammar cascade would assemble it:
	// an ArithmeticExpression whose tail term is itself a Term(b * c).
	term := grammar.Term{First: refExpr("b"), Rest: []grammar.TermTail{{Op: grammar.MulMul, Factor: refExpr("c")}}}
	expr := grammar.ArithmeticExpression{First: refExpr("a"), Rest: []grammar.ArithTail{{Op: grammar.ArithAdd, Term: term}}}

	got, err := Expression(expr)
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	bin, ok := got.(ir.BinaryExpr)
	if !ok || bin.Op != ir.OpAdd {
		t.Fatalf("expected top-level +, got %#v", got)
	}
	rhs, ok := bin.Rhs.(ir.BinaryExpr)
	if !ok || rhs.Op != ir.OpMul {
		t.Fatalf("expected rhs to be b*c, got %#v", bin.Rhs)
	}
}

// "a * b + c" yields Binary(+, Binary(*, a, b), c).
func TestPrecedenceMultiplicativeOverAdditive(t *testing.T) {
	term := grammar.Term{First: refExpr("a"), Rest: []grammar.TermTail{{Op: grammar.MulMul, Factor: refExpr("b")}}}
	expr := grammar.ArithmeticExpression{First: term, Rest: []grammar.ArithTail{{Op: grammar.ArithAdd, Term: refExpr("c")}}}

	got, err := Expression(expr)
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	bin, ok := got.(ir.BinaryExpr)
	if !ok || bin.Op != ir.OpAdd {
		t.Fatalf("expected top-level +, got %#v", got)
	}
	lhs, ok := bin.Lhs.(ir.BinaryExpr)
	if !ok || lhs.Op != ir.OpMul {
		t.Fatalf("expected lhs to be a*b, got %#v", bin.Lhs)
	}
}

// "-a + b" yields Binary(+, Unary(-, a), b): unary sign wraps only the
// first term of an arithmetic expression.
func TestPrecedenceUnarySignOnlyFirstTerm(t *testing.T) {
	sign := grammar.ArithSub
	expr := grammar.ArithmeticExpression{
		UnarySign: &sign,
		First:     refExpr("a"),
		Rest:      []grammar.ArithTail{{Op: grammar.ArithAdd, Term: refExpr("b")}},
	}

	got, err := Expression(expr)
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	bin, ok := got.(ir.BinaryExpr)
	if !ok || bin.Op != ir.OpAdd {
		t.Fatalf("expected top-level +, got %#v", got)
	}
	un, ok := bin.Lhs.(ir.UnaryExpr)
	if !ok || un.Op != ir.UnaryMinus {
		t.Fatalf("expected lhs to be -a, got %#v", bin.Lhs)
	}
}

// "a and b or c" yields Binary(or, Binary(and, a, b), c): "and" binds
// tighter than "or".
func TestPrecedenceAndBindsTighterThanOr(t *testing.T) {
	and := grammar.LogicalBinary{Op: grammar.LogicalAnd, Operands: []grammar.Expression{refExpr("a"), refExpr("b")}}
	or := grammar.LogicalBinary{Op: grammar.LogicalOr, Operands: []grammar.Expression{and, refExpr("c")}}

	got, err := Expression(or)
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	bin, ok := got.(ir.BinaryExpr)
	if !ok || bin.Op != ir.OpOr {
		t.Fatalf("expected top-level or, got %#v", got)
	}
	lhs, ok := bin.Lhs.(ir.BinaryExpr)
	if !ok || lhs.Op != ir.OpAnd {
		t.Fatalf("expected lhs to be a and b, got %#v", bin.Lhs)
	}
}

// "a == b" is non-chained: Relation.Rhs is set once and there is no way to
// attach a second relational operator.
func TestRelationIsNonChained(t *testing.T) {
	rel := grammar.Relation{Lhs: refExpr("a"), Op: grammar.RelEq, Rhs: refExpr("b")}
	got, err := Expression(rel)
	if err != nil {
		t.Fatalf("Expression: %v", err)
	}
	bin, ok := got.(ir.BinaryExpr)
	if !ok || bin.Op != ir.OpEq {
		t.Fatalf("expected ==, got %#v", got)
	}
}

// "a^b^c" is MalformedInput: "^" does not associate.
func TestChainedPowerIsMalformedInput(t *testing.T) {
	inner := grammar.Factor{Base: refExpr("b"), Exponent: refExpr("c")}
	outer := grammar.Factor{Base: refExpr("a"), Exponent: inner}

	_, err := Expression(outer)
	if err == nil {
		t.Fatalf("expected MalformedInput error for chained ^, got nil")
	}
	if !errors.IsType(err, errors.TypeMalformedInput) {
		t.Fatalf("expected MalformedInput, got %v", err)
	}
}

// "model M Real x(start=1.0); equation der(x) = -x; end M;" lowers
// without error and its der(x) call lowers into a CallExpr over a bare ref.
func TestLowerClassWithDerEquation(t *testing.T) {
	one := grammar.Modification{Expr: grammar.UnsignedNumber{Token: ident("1.0"), Real: true}}
	xDecl := grammar.ComponentDeclaration{Name: ident("x"), Modification: &one}

	derX := grammar.FunctionCallExpr{Callee: ref("der"), Args: []grammar.Expression{refExpr("x")}}
	sign := grammar.ArithSub
	negX := grammar.ArithmeticExpression{UnarySign: &sign, First: refExpr("x")}

	eqSection := grammar.EquationSection{Equations: []grammar.Equation{
		grammar.SimpleEquation{Lhs: derX, Rhs: negX},
	}}

	comp := grammar.Composition{
		Elements: []grammar.Element{
			grammar.ElementComponent{TypeName: ir.Name{Parts: []ir.Token{ident("Real")}}, Declarations: []grammar.ComponentDeclaration{xDecl}},
		},
		Sections: []grammar.Section{eqSection},
	}
	cd := &grammar.ClassDefinition{Token: ident("M"), Specifier: grammar.LongClassSpecifier{Name: ident("M"), Composition: &comp, EndName: ident("M")}}

	out, err := ClassDefinition(cd)
	if err != nil {
		t.Fatalf("ClassDefinition: %v", err)
	}
	if out.Components.Len() != 1 {
		t.Fatalf("expected 1 component, got %d", out.Components.Len())
	}
	x, ok := out.Components.Get("x")
	if !ok {
		t.Fatalf("expected component x")
	}
	start := x.Start.(ir.Terminal)
	// decimal's String drops trailing zeros, so the literal 1.0 prints as 1.
	if got := start.Number.String(); got != "1" {
		t.Fatalf("x.Start = %s, want 1", got)
	}
	if len(out.Equations) != 1 {
		t.Fatalf("expected 1 equation, got %d", len(out.Equations))
	}
	eq := out.Equations[0].(ir.SimpleEquation)
	call, ok := eq.Lhs.(ir.CallExpr)
	if !ok {
		t.Fatalf("expected der(x) to lower to CallExpr, got %#v", eq.Lhs)
	}
	calleeRef := call.Comp.(ir.RefExpr).Ref
	if calleeRef.First() != "der" {
		t.Fatalf("callee = %q, want der", calleeRef.First())
	}
}

// A simple equation with no right-hand side lifts to a call equation when
// the left side is a call (reinit/assert/terminate), and is MalformedInput
// otherwise.
func TestEquationWithoutRhs(t *testing.T) {
	call := grammar.FunctionCallExpr{Callee: ref("reinit"), Args: []grammar.Expression{refExpr("x"), intLit("0")}}
	got, err := Equation(grammar.SimpleEquation{Lhs: call})
	if err != nil {
		t.Fatalf("Equation: %v", err)
	}
	ce, ok := got.(ir.CallEquation)
	if !ok {
		t.Fatalf("expected CallEquation, got %#v", got)
	}
	if ref := ce.Comp.(ir.RefExpr).Ref; ref.First() != "reinit" {
		t.Fatalf("callee = %q, want reinit", ref.First())
	}
	if len(ce.Args) != 2 {
		t.Fatalf("expected 2 args, got %d", len(ce.Args))
	}

	_, err = Equation(grammar.SimpleEquation{Lhs: refExpr("x")})
	if err == nil || !errors.IsType(err, errors.TypeMalformedInput) {
		t.Fatalf("expected MalformedInput for bare non-call equation, got %v", err)
	}
}

// Unsupported short class specifiers surface as Unimplemented rather than
// panicking: the only constructs allowed to fail lowering are the ones
// deliberately not modeled.
func TestShortClassSpecifierIsUnimplemented(t *testing.T) {
	cd := &grammar.ClassDefinition{
		Token:     ident("Voltage"),
		Specifier: grammar.ShortClassSpecifier{Name: ident("Voltage"), BaseName: ir.Name{Parts: []ir.Token{ident("Real")}}},
	}
	_, err := ClassDefinition(cd)
	if err == nil || !errors.IsType(err, errors.TypeUnimplemented) {
		t.Fatalf("expected Unimplemented, got %v", err)
	}
}
