package lower

import (
	"modelica-dae/core/grammar"
	"modelica-dae/core/ir"
	"modelica-dae/internal/errors"
)

// Statement lowers one algorithm-section entry. Only assignment, bare
// function-call, break, return, and for statements are modeled; if/when/
// while bodies surface as Unimplemented per the algorithm-section scope
// decision (the DAE pipeline has no branching-algorithm representation).
func Statement(s grammar.Statement) (ir.Statement, error) {
	switch v := s.(type) {
	case grammar.AssignStatement:
		comp, err := ComponentReference(v.Lhs)
		if err != nil {
			return nil, err
		}
		value, err := Expression(v.Rhs)
		if err != nil {
			return nil, err
		}
		return ir.Assignment{Comp: comp, Value: value}, nil

	case grammar.FunctionCallStatement:
		callee, err := ComponentReference(v.Callee)
		if err != nil {
			return nil, err
		}
		args, err := exprList(v.Args)
		if err != nil {
			return nil, err
		}
		return ir.CallStatement{Comp: ir.RefExpr{Ref: callee}, Args: args}, nil

	case grammar.BreakStatement:
		return ir.Break{Token: v.Token}, nil

	case grammar.ReturnStatement:
		return ir.Return{Token: v.Token}, nil

	case grammar.ForStatement:
		statements, err := statementList(v.Statements)
		if err != nil {
			return nil, err
		}
		return ir.For{Indices: v.Indices, Statements: statements}, nil

	case grammar.IfStatement:
		return nil, errors.Unimplemented("if-statement", ir.SourceLocation{})

	case grammar.WhenStatement:
		return nil, errors.Unimplemented("when-statement", ir.SourceLocation{})

	case grammar.WhileStatement:
		return nil, errors.Unimplemented("while-statement", ir.SourceLocation{})

	default:
		return nil, errors.Internal("unrecognized grammar statement node", nil)
	}
}

func statementList(ss []grammar.Statement) ([]ir.Statement, error) {
	out := make([]ir.Statement, len(ss))
	for i, s := range ss {
		lowered, err := Statement(s)
		if err != nil {
			return nil, err
		}
		out[i] = lowered
	}
	return out, nil
}
