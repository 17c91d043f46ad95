// Package lower turns a grammar parse tree into a flat core/ir tree: it
// collapses the grammar's precedence cascade into ir.BinaryExpr/UnaryExpr
// nodes and rejects constructs the DAE pipeline does not model (if/while
// statements, tuple-return calls, short/der class specifiers) with a
// typed Unimplemented error rather than a panic.
package lower

import (
	"strings"

	"modelica-dae/core/grammar"
	"modelica-dae/core/ir"
	"modelica-dae/internal/errors"
)

// Expression collapses a grammar expression cascade into a flat ir.Expression.
func Expression(e grammar.Expression) (ir.Expression, error) {
	if e == nil {
		return ir.EmptyExpr{}, nil
	}
	switch v := e.(type) {
	case grammar.IfExpression:
		return nil, errors.Unimplemented("if-then-else expression", ir.SourceLocation{})

	case grammar.RangeExpression:
		start, err := Expression(v.Start)
		if err != nil {
			return nil, err
		}
		var step ir.Expression
		if v.Step != nil {
			step, err = Expression(v.Step)
			if err != nil {
				return nil, err
			}
		}
		end, err := Expression(v.End)
		if err != nil {
			return nil, err
		}
		return ir.RangeExpr{Start: start, Step: step, End: end}, nil

	case grammar.LogicalBinary:
		if len(v.Operands) == 0 {
			return ir.EmptyExpr{}, nil
		}
		op := ir.OpOr
		if v.Op == grammar.LogicalAnd {
			op = ir.OpAnd
		}
		acc, err := Expression(v.Operands[0])
		if err != nil {
			return nil, err
		}
		for _, operand := range v.Operands[1:] {
			rhs, err := Expression(operand)
			if err != nil {
				return nil, err
			}
			acc = ir.BinaryExpr{Lhs: acc, Op: op, Rhs: rhs}
		}
		return acc, nil

	case grammar.Not:
		operand, err := Expression(v.Operand)
		if err != nil {
			return nil, err
		}
		return ir.UnaryExpr{Op: ir.UnaryNot, Rhs: operand}, nil

	case grammar.Relation:
		lhs, err := Expression(v.Lhs)
		if err != nil {
			return nil, err
		}
		if v.Rhs == nil {
			return lhs, nil
		}
		rhs, err := Expression(v.Rhs)
		if err != nil {
			return nil, err
		}
		return ir.BinaryExpr{Lhs: lhs, Op: relOp(v.Op), Rhs: rhs}, nil

	case grammar.ArithmeticExpression:
		first, err := Expression(v.First)
		if err != nil {
			return nil, err
		}
		// Per the grammar, a leading unary sign wraps only the first term;
		// the remaining addends already carry their own operator.
		if v.UnarySign != nil {
			sign := ir.UnaryPlus
			if *v.UnarySign == grammar.ArithSub {
				sign = ir.UnaryMinus
			}
			first = ir.UnaryExpr{Op: sign, Rhs: first}
		}
		acc := first
		for _, tail := range v.Rest {
			term, err := Expression(tail.Term)
			if err != nil {
				return nil, err
			}
			acc = ir.BinaryExpr{Lhs: acc, Op: arithOp(tail.Op), Rhs: term}
		}
		return acc, nil

	case grammar.Term:
		first, err := Expression(v.First)
		if err != nil {
			return nil, err
		}
		acc := first
		for _, tail := range v.Rest {
			factor, err := Expression(tail.Factor)
			if err != nil {
				return nil, err
			}
			acc = ir.BinaryExpr{Lhs: acc, Op: mulOp(tail.Op), Rhs: factor}
		}
		return acc, nil

	case grammar.Factor:
		base, err := Expression(v.Base)
		if err != nil {
			return nil, err
		}
		if v.Exponent == nil {
			return base, nil
		}
		// "^" is right-operand-primary-only: its exponent can never itself
		// be another Factor. A parser that hands us one anyway means the
		// source chained "^" (e.g. a^b^c), which the grammar does not
		// associate.
		if _, chained := v.Exponent.(grammar.Factor); chained {
			return nil, errors.MalformedInput("chained ^ operator has no associativity", ir.SourceLocation{})
		}
		exp, err := Expression(v.Exponent)
		if err != nil {
			return nil, err
		}
		return ir.BinaryExpr{Lhs: base, Op: ir.OpPow, Rhs: exp}, nil

	case grammar.UnsignedNumber:
		if v.Real {
			return ir.NewRealTerminal(v.Token)
		}
		return ir.NewIntTerminal(v.Token)

	case grammar.StringLiteral:
		tok := v.Token
		tok.Text = strings.Trim(tok.Text, `"`)
		return ir.NewStringTerminal(tok), nil

	case grammar.BoolLiteral:
		return ir.NewBoolTerminal(v.Token, v.Value), nil

	case grammar.EndLiteral:
		return ir.NewEndTerminal(v.Token), nil

	case grammar.ComponentRefExpr:
		ref, err := ComponentReference(v.Ref)
		if err != nil {
			return nil, err
		}
		return ir.RefExpr{Ref: ref}, nil

	case grammar.FunctionCallExpr:
		callee, err := ComponentReference(v.Callee)
		if err != nil {
			return nil, err
		}
		args, err := exprList(v.Args)
		if err != nil {
			return nil, err
		}
		return ir.CallExpr{Comp: ir.RefExpr{Ref: callee}, Args: args}, nil

	case grammar.ParenExpr:
		if len(v.Exprs) == 1 {
			return Expression(v.Exprs[0])
		}
		return nil, errors.Unimplemented("tuple expression", ir.SourceLocation{})

	default:
		return nil, errors.Internal("unrecognized grammar expression node", nil)
	}
}

func exprList(es []grammar.Expression) ([]ir.Expression, error) {
	out := make([]ir.Expression, len(es))
	for i, e := range es {
		lowered, err := Expression(e)
		if err != nil {
			return nil, err
		}
		out[i] = lowered
	}
	return out, nil
}

func relOp(op grammar.RelOp) ir.BinaryOp {
	switch op {
	case grammar.RelLt:
		return ir.OpLt
	case grammar.RelLe:
		return ir.OpLe
	case grammar.RelGt:
		return ir.OpGt
	case grammar.RelGe:
		return ir.OpGe
	case grammar.RelEq:
		return ir.OpEq
	default:
		return ir.OpNe
	}
}

func arithOp(op grammar.ArithOp) ir.BinaryOp {
	switch op {
	case grammar.ArithAdd:
		return ir.OpAdd
	case grammar.ArithSub:
		return ir.OpSub
	case grammar.ArithEAdd:
		return ir.OpEAdd
	default:
		return ir.OpESub
	}
}

func mulOp(op grammar.MulOp) ir.BinaryOp {
	switch op {
	case grammar.MulMul:
		return ir.OpMul
	case grammar.MulDiv:
		return ir.OpDiv
	case grammar.MulEMul:
		return ir.OpEMul
	default:
		return ir.OpEDiv
	}
}

// ComponentReference lowers a grammar component reference, collapsing each
// part's subscript list along the way.
func ComponentReference(cr grammar.ComponentReference) (ir.ComponentReference, error) {
	parts := make([]ir.ComponentRefPart, len(cr.Parts))
	for i, p := range cr.Parts {
		subs, err := subscripts(p.Subscripts)
		if err != nil {
			return ir.ComponentReference{}, err
		}
		parts[i] = ir.ComponentRefPart{Ident: p.Ident.Text, Subscripts: subs}
	}
	return ir.ComponentReference{Local: cr.Local, Parts: parts}, nil
}

func subscripts(ss []grammar.Subscript) ([]ir.Subscript, error) {
	out := make([]ir.Subscript, len(ss))
	for i, s := range ss {
		if s.Colon {
			out[i] = ir.Subscript{Kind: ir.SubscriptColon}
			continue
		}
		e, err := Expression(s.Expr)
		if err != nil {
			return nil, err
		}
		out[i] = ir.Subscript{Kind: ir.SubscriptExpr, Expr: e}
	}
	return out, nil
}
