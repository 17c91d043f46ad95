// Package visitor implements the tree-rewrite pass the flattener runs
// over a class's equations, initial equations, and algorithms: every
// ComponentReference the tree contains is offered to a Visitor hook,
// which may return a different reference to substitute in its place. The
// IR is immutable, so walking a tree produces a new one rather than
// mutating in place.
package visitor

import "modelica-dae/core/ir"

// Visitor rewrites component references encountered during a Walk.
type Visitor interface {
	VisitComponentReference(ref ir.ComponentReference) ir.ComponentReference
}

// WalkComponentReference rewrites a reference's subscript expressions
// first, then offers the (subscript-rewritten) reference itself to v.
func WalkComponentReference(v Visitor, ref ir.ComponentReference) ir.ComponentReference {
	parts := make([]ir.ComponentRefPart, len(ref.Parts))
	for i, p := range ref.Parts {
		subs := make([]ir.Subscript, len(p.Subscripts))
		for j, s := range p.Subscripts {
			if s.Kind == ir.SubscriptColon {
				subs[j] = s
				continue
			}
			subs[j] = ir.Subscript{Kind: ir.SubscriptExpr, Expr: WalkExpression(v, s.Expr)}
		}
		parts[i] = ir.ComponentRefPart{Ident: p.Ident, Subscripts: subs}
	}
	rewritten := ir.ComponentReference{Local: ref.Local, Parts: parts}
	return v.VisitComponentReference(rewritten)
}

// WalkExpression rewrites every ComponentReference reachable from e.
func WalkExpression(v Visitor, e ir.Expression) ir.Expression {
	switch x := e.(type) {
	case nil:
		return nil
	case ir.EmptyExpr, ir.Terminal:
		return x
	case ir.RefExpr:
		return ir.RefExpr{Ref: WalkComponentReference(v, x.Ref)}
	case ir.UnaryExpr:
		return ir.UnaryExpr{Op: x.Op, Rhs: WalkExpression(v, x.Rhs)}
	case ir.BinaryExpr:
		return ir.BinaryExpr{Lhs: WalkExpression(v, x.Lhs), Op: x.Op, Rhs: WalkExpression(v, x.Rhs)}
	case ir.CallExpr:
		return ir.CallExpr{Comp: WalkExpression(v, x.Comp), Args: walkExprList(v, x.Args)}
	case ir.RangeExpr:
		var step ir.Expression
		if x.Step != nil {
			step = WalkExpression(v, x.Step)
		}
		return ir.RangeExpr{Start: WalkExpression(v, x.Start), Step: step, End: WalkExpression(v, x.End)}
	default:
		return e
	}
}

func walkExprList(v Visitor, es []ir.Expression) []ir.Expression {
	if es == nil {
		return nil
	}
	out := make([]ir.Expression, len(es))
	for i, e := range es {
		out[i] = WalkExpression(v, e)
	}
	return out
}

// WalkEquation rewrites every ComponentReference reachable from e.
func WalkEquation(v Visitor, e ir.Equation) ir.Equation {
	switch x := e.(type) {
	case nil:
		return nil
	case ir.SimpleEquation:
		return ir.SimpleEquation{Lhs: WalkExpression(v, x.Lhs), Rhs: WalkExpression(v, x.Rhs)}
	case ir.ConnectEquation:
		return ir.ConnectEquation{
			Lhs: WalkComponentReference(v, x.Lhs),
			Rhs: WalkComponentReference(v, x.Rhs),
		}
	case ir.CallEquation:
		return ir.CallEquation{Comp: WalkExpression(v, x.Comp), Args: walkExprList(v, x.Args)}
	case ir.IfEquation:
		return ir.IfEquation{
			CondBlocks: walkEquationBlocks(v, x.CondBlocks),
			ElseBlock:  walkEquationList(v, x.ElseBlock),
		}
	case ir.WhenEquation:
		return ir.WhenEquation{Blocks: walkEquationBlocks(v, x.Blocks)}
	default:
		return e
	}
}

func walkEquationList(v Visitor, es []ir.Equation) []ir.Equation {
	if es == nil {
		return nil
	}
	out := make([]ir.Equation, len(es))
	for i, e := range es {
		out[i] = WalkEquation(v, e)
	}
	return out
}

func walkEquationBlocks(v Visitor, blocks []ir.EquationBlock) []ir.EquationBlock {
	out := make([]ir.EquationBlock, len(blocks))
	for i, b := range blocks {
		out[i] = ir.EquationBlock{Cond: WalkExpression(v, b.Cond), Eqs: walkEquationList(v, b.Eqs)}
	}
	return out
}

// WalkStatement rewrites every ComponentReference reachable from s.
func WalkStatement(v Visitor, s ir.Statement) ir.Statement {
	switch x := s.(type) {
	case nil:
		return nil
	case ir.Assignment:
		return ir.Assignment{Comp: WalkComponentReference(v, x.Comp), Value: WalkExpression(v, x.Value)}
	case ir.CallStatement:
		return ir.CallStatement{Comp: WalkExpression(v, x.Comp), Args: walkExprList(v, x.Args)}
	case ir.Break, ir.Return:
		return x
	case ir.For:
		return ir.For{Indices: x.Indices, Statements: walkStatementList(v, x.Statements)}
	default:
		return s
	}
}

func walkStatementList(v Visitor, ss []ir.Statement) []ir.Statement {
	if ss == nil {
		return nil
	}
	out := make([]ir.Statement, len(ss))
	for i, s := range ss {
		out[i] = WalkStatement(v, s)
	}
	return out
}

// WalkClassDefinition rewrites every ComponentReference reachable from
// c's equations, initial equations, and algorithms, in place. Components
// and nested classes are not visited here; the flattener handles
// component renaming directly since it also changes map keys.
func WalkClassDefinition(v Visitor, c *ir.ClassDefinition) {
	c.Equations = walkEquationList(v, c.Equations)
	c.InitialEquations = walkEquationList(v, c.InitialEquations)
	for i, alg := range c.Algorithms {
		c.Algorithms[i] = walkStatementList(v, alg)
	}
	for i, alg := range c.InitialAlgorithms {
		c.InitialAlgorithms[i] = walkStatementList(v, alg)
	}
}
