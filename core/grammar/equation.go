package grammar

// Equation is the sum type over the equation-section grammar.
type Equation interface {
	isEquation()
}

// SimpleEquation is `simple-expression "=" expression comment`.
type SimpleEquation struct {
	Lhs Expression
	Rhs Expression
}

func (SimpleEquation) isEquation() {}

// ConnectClause is `connect "(" component-reference "," component-reference ")"`.
type ConnectClause struct {
	Lhs ComponentReference
	Rhs ComponentReference
}

func (ConnectClause) isEquation() {}

// FunctionCallEquation is a bare function-call used as an equation, e.g.
// `assert(...)`, `reinit(...)`, `terminate(...)`.
type FunctionCallEquation struct {
	Callee ComponentReference
	Args   []Expression
}

func (FunctionCallEquation) isEquation() {}

// EquationBranch pairs one if/elseif/when/elsewhen guard with its body.
type EquationBranch struct {
	Cond      Expression
	Equations []Equation
}

// IfEquation is `if ... elseif ... else ... end if`.
type IfEquation struct {
	Branches []EquationBranch
	Else     []Equation // nil if no else clause
}

func (IfEquation) isEquation() {}

// WhenEquation is `when ... elsewhen ... end when`.
type WhenEquation struct {
	Branches []EquationBranch
}

func (WhenEquation) isEquation() {}

// ForEquation is `for indices loop ... end for`; rejected by lowering as
// Unimplemented in the equation-section position (only algorithm `for` is
// supported), kept here so the parser's output is representable uniformly.
type ForEquation struct {
	Indices   []string
	Equations []Equation
}

func (ForEquation) isEquation() {}
