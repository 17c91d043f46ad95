package lower

import (
	"modelica-dae/core/grammar"
	"modelica-dae/core/ir"
	"modelica-dae/internal/errors"
)

// Equation lowers one equation-section entry.
func Equation(e grammar.Equation) (ir.Equation, error) {
	switch v := e.(type) {
	case grammar.SimpleEquation:
		lhs, err := Expression(v.Lhs)
		if err != nil {
			return nil, err
		}
		if v.Rhs == nil {
			// No "= rhs": the lhs must itself be a function call
			// (reinit, assert, terminate), lifted to a call equation.
			call, ok := lhs.(ir.CallExpr)
			if !ok {
				return nil, errors.MalformedInput("bare non-call expression used as equation", ir.SourceLocation{})
			}
			return ir.CallEquation{Comp: call.Comp, Args: call.Args}, nil
		}
		rhs, err := Expression(v.Rhs)
		if err != nil {
			return nil, err
		}
		return ir.SimpleEquation{Lhs: lhs, Rhs: rhs}, nil

	case grammar.ConnectClause:
		lhs, err := ComponentReference(v.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := ComponentReference(v.Rhs)
		if err != nil {
			return nil, err
		}
		return ir.ConnectEquation{Lhs: lhs, Rhs: rhs}, nil

	case grammar.FunctionCallEquation:
		callee, err := ComponentReference(v.Callee)
		if err != nil {
			return nil, err
		}
		args, err := exprList(v.Args)
		if err != nil {
			return nil, err
		}
		return ir.CallEquation{Comp: ir.RefExpr{Ref: callee}, Args: args}, nil

	case grammar.IfEquation:
		condBlocks, err := equationBranches(v.Branches)
		if err != nil {
			return nil, err
		}
		elseBlock, err := equationList(v.Else)
		if err != nil {
			return nil, err
		}
		return ir.IfEquation{CondBlocks: condBlocks, ElseBlock: elseBlock}, nil

	case grammar.WhenEquation:
		blocks, err := equationBranches(v.Branches)
		if err != nil {
			return nil, err
		}
		return ir.WhenEquation{Blocks: blocks}, nil

	case grammar.ForEquation:
		return nil, errors.Unimplemented("for-equation", ir.SourceLocation{})

	default:
		return nil, errors.Internal("unrecognized grammar equation node", nil)
	}
}

func equationList(es []grammar.Equation) ([]ir.Equation, error) {
	if es == nil {
		return nil, nil
	}
	out := make([]ir.Equation, len(es))
	for i, e := range es {
		lowered, err := Equation(e)
		if err != nil {
			return nil, err
		}
		out[i] = lowered
	}
	return out, nil
}

func equationBranches(branches []grammar.EquationBranch) ([]ir.EquationBlock, error) {
	out := make([]ir.EquationBlock, len(branches))
	for i, b := range branches {
		cond, err := Expression(b.Cond)
		if err != nil {
			return nil, err
		}
		eqs, err := equationList(b.Equations)
		if err != nil {
			return nil, err
		}
		out[i] = ir.EquationBlock{Cond: cond, Eqs: eqs}
	}
	return out, nil
}
