package grammar

import "modelica-dae/core/ir"

// Statement is the sum type over the algorithm-section grammar.
type Statement interface {
	isStatement()
}

// AssignStatement is `component-reference ":=" expression comment`.
type AssignStatement struct {
	Lhs ComponentReference
	Rhs Expression
}

func (AssignStatement) isStatement() {}

// FunctionCallStatement is `component-reference function-call-args comment`,
// either a bare call or the `(out1, out2) := f(...)` tuple-assignment form
// reduced to its callee/args. The tuple-target list has no field here, so
// lowering sees only the call and emits a plain call statement.
type FunctionCallStatement struct {
	Callee ComponentReference
	Args   []Expression
}

func (FunctionCallStatement) isStatement() {}

// BreakStatement is the `break` statement.
type BreakStatement struct {
	Token ir.Token
}

func (BreakStatement) isStatement() {}

// ReturnStatement is the `return` statement.
type ReturnStatement struct {
	Token ir.Token
}

func (ReturnStatement) isStatement() {}

// StatementBranch pairs one if/elseif/when/elsewhen guard with its body.
type StatementBranch struct {
	Cond       Expression
	Statements []Statement
}

// IfStatement is `if ... elseif ... else ... end if`; Unimplemented by
// lowering per the algorithm-section scope decision (only `for` bodies of
// plain assignments/calls are supported).
type IfStatement struct {
	Branches []StatementBranch
	Else     []Statement
}

func (IfStatement) isStatement() {}

// WhenStatement is `when ... elsewhen ... end when` inside an algorithm;
// Unimplemented by lowering (when-equations are supported, when-statements
// are not).
type WhenStatement struct {
	Branches []StatementBranch
}

func (WhenStatement) isStatement() {}

// WhileStatement is `while cond loop ... end while`; Unimplemented by lowering.
type WhileStatement struct {
	Cond       Expression
	Statements []Statement
}

func (WhileStatement) isStatement() {}

// ForStatement is `for indices loop ... end for`.
type ForStatement struct {
	Indices    []string
	Statements []Statement
}

func (ForStatement) isStatement() {}
