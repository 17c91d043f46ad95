package ir

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Expression is a tagged variant over the flattened Modelica expression
// grammar. The grammar's precedence cascade is collapsed into this flat
// tree during lowering; nothing downstream re-parses precedence.
type Expression interface {
	isExpression()
}

// EmptyExpr is the absence of an expression (e.g. an omitted `= expr`
// modification, or Component.Start for a non-primitive type).
type EmptyExpr struct{}

func (EmptyExpr) isExpression() {}

// TerminalKind enumerates the terminal expression cases.
type TerminalKind int

const (
	TerminalUnsignedInteger TerminalKind = iota
	TerminalUnsignedReal
	TerminalString
	TerminalBool
	TerminalEnd
)

func (k TerminalKind) String() string {
	switch k {
	case TerminalUnsignedInteger:
		return "UnsignedInteger"
	case TerminalUnsignedReal:
		return "UnsignedReal"
	case TerminalString:
		return "String"
	case TerminalBool:
		return "Bool"
	case TerminalEnd:
		return "End"
	default:
		return "Unknown"
	}
}

// Terminal is a leaf literal. Numeric kinds carry their value as an exact
// decimal.Decimal (parsed once during lowering from Token.Text) rather
// than a float64, so that serializing and re-parsing a Dae produces a
// byte-identical second serialization. float64's binary-to-decimal
// formatting is not guaranteed to survive an encode/decode/encode cycle
// unchanged; decimal string formatting is.
type Terminal struct {
	Kind  TerminalKind
	Token Token

	// Number holds the parsed value for UnsignedInteger/UnsignedReal kinds
	// and is nil otherwise.
	Number *decimal.Decimal

	// Bool holds the parsed value for the Bool kind.
	Bool bool
}

func (Terminal) isExpression() {}

// NewIntTerminal builds an UnsignedInteger terminal from a token, parsing
// its exact decimal value.
func NewIntTerminal(tok Token) (Terminal, error) {
	d, err := decimal.NewFromString(tok.Text)
	if err != nil {
		return Terminal{}, fmt.Errorf("invalid integer literal %q: %w", tok.Text, err)
	}
	return Terminal{Kind: TerminalUnsignedInteger, Token: tok, Number: &d}, nil
}

// NewRealTerminal builds an UnsignedReal terminal from a token.
func NewRealTerminal(tok Token) (Terminal, error) {
	d, err := decimal.NewFromString(tok.Text)
	if err != nil {
		return Terminal{}, fmt.Errorf("invalid real literal %q: %w", tok.Text, err)
	}
	return Terminal{Kind: TerminalUnsignedReal, Token: tok, Number: &d}, nil
}

// NewStringTerminal builds a String terminal; tok.Text must already have
// its outer quotes stripped.
func NewStringTerminal(tok Token) Terminal {
	return Terminal{Kind: TerminalString, Token: tok}
}

// NewBoolTerminal builds a Bool terminal.
func NewBoolTerminal(tok Token, value bool) Terminal {
	return Terminal{Kind: TerminalBool, Token: tok, Bool: value}
}

// NewEndTerminal builds an `end` terminal (used in array-subscript contexts).
func NewEndTerminal(tok Token) Terminal {
	return Terminal{Kind: TerminalEnd, Token: tok}
}

// DecimalFromInt builds an UnsignedInteger terminal directly from an int,
// used when synthesizing defaults rather than lowering source tokens.
func DecimalFromInt(n int64) Terminal {
	d := decimal.NewFromInt(n)
	return Terminal{Kind: TerminalUnsignedInteger, Number: &d}
}

// DecimalFromFloat builds an UnsignedReal terminal from a float64, used
// when synthesizing defaults.
func DecimalFromFloat(f float64) Terminal {
	d := decimal.NewFromFloat(f)
	return Terminal{Kind: TerminalUnsignedReal, Number: &d}
}

// RefExpr wraps a ComponentReference used in value position.
type RefExpr struct {
	Ref ComponentReference
}

func (RefExpr) isExpression() {}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
)

func (o UnaryOp) String() string {
	switch o {
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case UnaryNot:
		return "not"
	default:
		return "?"
	}
}

// UnaryExpr applies a unary operator. A unary sign wraps only the first
// term of an arithmetic expression.
type UnaryExpr struct {
	Op  UnaryOp
	Rhs Expression
}

func (UnaryExpr) isExpression() {}

// BinaryOp enumerates the binary operators: arithmetic (including the
// element-wise dotted forms), relational, and logical.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpEAdd // .+
	OpESub // .-
	OpEMul // .*
	OpEDiv // ./
	OpPow
	OpEq // ==
	OpGt
	OpLt
	OpGe
	OpLe
	OpNe // <>
	OpAnd
	OpOr
)

func (o BinaryOp) String() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEAdd:
		return ".+"
	case OpESub:
		return ".-"
	case OpEMul:
		return ".*"
	case OpEDiv:
		return "./"
	case OpPow:
		return "^"
	case OpEq:
		return "=="
	case OpGt:
		return ">"
	case OpLt:
		return "<"
	case OpGe:
		return ">="
	case OpLe:
		return "<="
	case OpNe:
		return "<>"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "?"
	}
}

// IsRelational reports whether o is one of the non-chaining relational
// operators.
func (o BinaryOp) IsRelational() bool {
	switch o {
	case OpEq, OpGt, OpLt, OpGe, OpLe, OpNe:
		return true
	default:
		return false
	}
}

// BinaryExpr applies a binary operator. Expression trees are constructed
// left-associative; ^ is right-operand-primary-only (no chain); `and`
// binds tighter than `or`; relational operators are non-chained.
type BinaryExpr struct {
	Lhs Expression
	Op  BinaryOp
	Rhs Expression
}

func (BinaryExpr) isExpression() {}

// CallExpr is a function-call expression: a callee in reference position
// (`comp`) applied to an ordered argument list.
type CallExpr struct {
	Comp Expression
	Args []Expression
}

func (CallExpr) isExpression() {}

// RangeExpr is `start:end` or `start:step:end`; Step is nil when omitted.
type RangeExpr struct {
	Start Expression
	Step  Expression
	End   Expression
}

func (RangeExpr) isExpression() {}
