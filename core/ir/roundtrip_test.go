package ir

import (
	"encoding/json"
	"testing"
)

func sampleClass() *ClassDefinition {
	cls := NewClassDefinition(Token{Text: "Foo"})
	cls.Components.Set("x", &Component{
		Name:        "x",
		TypeName:    Name{Parts: []Token{{Text: "Real"}}},
		Variability: VariabilityEmpty,
		Start:       DefaultStart("Real"),
	})
	cls.Components.Set("p", &Component{
		Name:        "p",
		TypeName:    Name{Parts: []Token{{Text: "Real"}}},
		Variability: VariabilityParameter,
		Start:       DecimalFromFloat(1.5),
		ClassModifications: []ClassModificationEntry{
			{Key: "fixed", Value: NewBoolTerminal(Token{Text: "true"}, true)},
		},
	})
	cls.Equations = []Equation{
		SimpleEquation{
			Lhs: RefExpr{Ref: SimpleRef("x")},
			Rhs: BinaryExpr{
				Lhs: RefExpr{Ref: SimpleRef("p")},
				Op:  OpMul,
				Rhs: CallExpr{Comp: RefExpr{Ref: SimpleRef("der")}, Args: []Expression{RefExpr{Ref: SimpleRef("x")}}},
			},
		},
		ConnectEquation{Lhs: SimpleRef("a"), Rhs: SimpleRef("b")},
		IfEquation{
			CondBlocks: []EquationBlock{
				{
					Cond: RefExpr{Ref: SimpleRef("p")},
					Eqs:  []Equation{SimpleEquation{Lhs: RefExpr{Ref: SimpleRef("x")}, Rhs: DecimalFromInt(0)}},
				},
			},
			ElseBlock: []Equation{SimpleEquation{Lhs: RefExpr{Ref: SimpleRef("x")}, Rhs: DecimalFromInt(1)}},
		},
	}
	cls.Algorithms = [][]Statement{
		{
			Assignment{Comp: SimpleRef("x"), Value: DecimalFromInt(2)},
			For{Indices: []string{"i"}, Statements: []Statement{
				Assignment{Comp: SimpleRef("x"), Value: RefExpr{Ref: SimpleRef("i")}},
			}},
			Break{Token: Token{Text: "break"}},
		},
	}
	return cls
}

func TestClassDefinitionRoundTripByteEqual(t *testing.T) {
	cls := sampleClass()

	first, err := json.Marshal(cls)
	if err != nil {
		t.Fatalf("first marshal: %v", err)
	}

	var decoded ClassDefinition
	if err := json.Unmarshal(first, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	second, err := json.Marshal(&decoded)
	if err != nil {
		t.Fatalf("second marshal: %v", err)
	}

	if string(first) != string(second) {
		t.Fatalf("round trip not byte-identical:\nfirst:  %s\nsecond: %s", first, second)
	}
}

func TestOrderedMapPreservesInsertionOrder(t *testing.T) {
	m := NewOrderedMap[string, int]()
	m.Set("b", 2)
	m.Set("a", 1)
	m.Set("c", 3)
	m.Set("a", 10) // overwrite, should not move

	want := []string{"b", "a", "c"}
	got := m.Keys()
	if len(got) != len(want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	v, ok := m.Get("a")
	if !ok || v != 10 {
		t.Fatalf("Get(a) = %d, %v, want 10, true", v, ok)
	}
}

func TestOrderedMapJSONRoundTrip(t *testing.T) {
	m := NewOrderedMap[string, int]()
	m.Set("z", 1)
	m.Set("y", 2)
	m.Set("x", 3)

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded := NewOrderedMap[string, int]()
	if err := json.Unmarshal(data, decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := decoded.Keys(); len(got) != 3 || got[0] != "z" || got[1] != "y" || got[2] != "x" {
		t.Fatalf("decoded.Keys() = %v, want [z y x]", got)
	}
}

func TestHashDeterministic(t *testing.T) {
	cls := sampleClass()
	h1, err := Hash(cls)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	h2, err := Hash(cls)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if h1 != h2 {
		t.Fatalf("Hash not deterministic: %s != %s", h1, h2)
	}
}
