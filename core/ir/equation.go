package ir

// Equation is a tagged variant over the equation-section grammar.
type Equation interface {
	isEquation()
}

// SimpleEquation is `lhs = rhs`; at least one side involves an unknown
// (enforced by the lowering stage, not represented structurally).
type SimpleEquation struct {
	Lhs Expression
	Rhs Expression
}

func (SimpleEquation) isEquation() {}

// ConnectEquation is `connect(lhs, rhs)`.
type ConnectEquation struct {
	Lhs ComponentReference
	Rhs ComponentReference
}

func (ConnectEquation) isEquation() {}

// CallEquation is a bare function-call equation such as `reinit(x, 0)`,
// `assert(cond, msg)`, or `terminate(msg)`.
type CallEquation struct {
	Comp Expression
	Args []Expression
}

func (CallEquation) isEquation() {}

// EquationBlock pairs a guard expression with the equations it guards,
// used by both If and When equations.
type EquationBlock struct {
	Cond Expression
	Eqs  []Equation
}

// IfEquation is an if/elseif/else equation chain.
type IfEquation struct {
	CondBlocks []EquationBlock
	ElseBlock  []Equation // nil if there is no else branch
}

func (IfEquation) isEquation() {}

// WhenEquation is a when/elsewhen equation chain; each block fires once at
// the instant its condition becomes true.
type WhenEquation struct {
	Blocks []EquationBlock
}

func (WhenEquation) isEquation() {}
