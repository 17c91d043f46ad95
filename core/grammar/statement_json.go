package grammar

import (
	"encoding/json"
	"fmt"

	"modelica-dae/core/ir"
)

// statementEnvelope is the wire shape for the Statement sum type.
type statementEnvelope struct {
	Kind string `json:"kind"`

	// AssignStatement
	LhsRef *ComponentReference `json:"lhs_ref,omitempty"`
	Rhs    json.RawMessage     `json:"rhs,omitempty"`

	// FunctionCallStatement
	Callee *ComponentReference `json:"callee,omitempty"`
	Args   []json.RawMessage   `json:"args,omitempty"`

	// Break / Return
	Token *ir.Token `json:"token,omitempty"`

	// If / When / While
	Branches  []statementBranchWire `json:"branches,omitempty"`
	Else      []json.RawMessage     `json:"else,omitempty"`
	Cond      json.RawMessage       `json:"cond,omitempty"`
	WhileBody []json.RawMessage     `json:"while_body,omitempty"`

	// For
	Indices    []string          `json:"indices,omitempty"`
	Statements []json.RawMessage `json:"statements,omitempty"`
}

type statementBranchWire struct {
	Cond       json.RawMessage   `json:"cond"`
	Statements []json.RawMessage `json:"statements"`
}

func marshalRawStatement(s Statement) (json.RawMessage, error) {
	if s == nil {
		return json.Marshal(statementEnvelope{Kind: "Nil"})
	}
	return json.Marshal(s)
}

func marshalRawStatementList(ss []Statement) ([]json.RawMessage, error) {
	if ss == nil {
		return nil, nil
	}
	out := make([]json.RawMessage, len(ss))
	for i, s := range ss {
		raw, err := marshalRawStatement(s)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func decodeRawStatement(raw json.RawMessage) (Statement, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return DecodeStatement(raw)
}

func decodeRawStatementList(raws []json.RawMessage) ([]Statement, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]Statement, len(raws))
	for i, raw := range raws {
		s, err := decodeRawStatement(raw)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func marshalStatementBranches(branches []StatementBranch) ([]statementBranchWire, error) {
	out := make([]statementBranchWire, len(branches))
	for i, b := range branches {
		cond, err := marshalRaw(b.Cond)
		if err != nil {
			return nil, err
		}
		stmts, err := marshalRawStatementList(b.Statements)
		if err != nil {
			return nil, err
		}
		out[i] = statementBranchWire{Cond: cond, Statements: stmts}
	}
	return out, nil
}

func decodeStatementBranches(wires []statementBranchWire) ([]StatementBranch, error) {
	out := make([]StatementBranch, len(wires))
	for i, w := range wires {
		cond, err := decodeRaw(w.Cond)
		if err != nil {
			return nil, err
		}
		stmts, err := decodeRawStatementList(w.Statements)
		if err != nil {
			return nil, err
		}
		out[i] = StatementBranch{Cond: cond, Statements: stmts}
	}
	return out, nil
}

// DecodeStatement reconstructs a concrete grammar Statement from its envelope form.
func DecodeStatement(raw json.RawMessage) (Statement, error) {
	var env statementEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case "Nil":
		return nil, nil
	case "AssignStatement":
		rhs, err := decodeRaw(env.Rhs)
		if err != nil {
			return nil, err
		}
		var lhs ComponentReference
		if env.LhsRef != nil {
			lhs = *env.LhsRef
		}
		return AssignStatement{Lhs: lhs, Rhs: rhs}, nil
	case "FunctionCallStatement":
		args, err := decodeRawList(env.Args)
		if err != nil {
			return nil, err
		}
		var callee ComponentReference
		if env.Callee != nil {
			callee = *env.Callee
		}
		return FunctionCallStatement{Callee: callee, Args: args}, nil
	case "BreakStatement":
		tok := ir.Token{}
		if env.Token != nil {
			tok = *env.Token
		}
		return BreakStatement{Token: tok}, nil
	case "ReturnStatement":
		tok := ir.Token{}
		if env.Token != nil {
			tok = *env.Token
		}
		return ReturnStatement{Token: tok}, nil
	case "IfStatement":
		branches, err := decodeStatementBranches(env.Branches)
		if err != nil {
			return nil, err
		}
		els, err := decodeRawStatementList(env.Else)
		if err != nil {
			return nil, err
		}
		return IfStatement{Branches: branches, Else: els}, nil
	case "WhenStatement":
		branches, err := decodeStatementBranches(env.Branches)
		if err != nil {
			return nil, err
		}
		return WhenStatement{Branches: branches}, nil
	case "WhileStatement":
		cond, err := decodeRaw(env.Cond)
		if err != nil {
			return nil, err
		}
		stmts, err := decodeRawStatementList(env.WhileBody)
		if err != nil {
			return nil, err
		}
		return WhileStatement{Cond: cond, Statements: stmts}, nil
	case "ForStatement":
		stmts, err := decodeRawStatementList(env.Statements)
		if err != nil {
			return nil, err
		}
		return ForStatement{Indices: env.Indices, Statements: stmts}, nil
	default:
		return nil, fmt.Errorf("grammar: unknown statement kind %q", env.Kind)
	}
}

func (s AssignStatement) MarshalJSON() ([]byte, error) {
	rhs, err := marshalRaw(s.Rhs)
	if err != nil {
		return nil, err
	}
	lhs := s.Lhs
	return json.Marshal(statementEnvelope{Kind: "AssignStatement", LhsRef: &lhs, Rhs: rhs})
}

func (s FunctionCallStatement) MarshalJSON() ([]byte, error) {
	args, err := marshalRawList(s.Args)
	if err != nil {
		return nil, err
	}
	callee := s.Callee
	return json.Marshal(statementEnvelope{Kind: "FunctionCallStatement", Callee: &callee, Args: args})
}

func (s BreakStatement) MarshalJSON() ([]byte, error) {
	tok := s.Token
	return json.Marshal(statementEnvelope{Kind: "BreakStatement", Token: &tok})
}

func (s ReturnStatement) MarshalJSON() ([]byte, error) {
	tok := s.Token
	return json.Marshal(statementEnvelope{Kind: "ReturnStatement", Token: &tok})
}

func (s IfStatement) MarshalJSON() ([]byte, error) {
	branches, err := marshalStatementBranches(s.Branches)
	if err != nil {
		return nil, err
	}
	els, err := marshalRawStatementList(s.Else)
	if err != nil {
		return nil, err
	}
	return json.Marshal(statementEnvelope{Kind: "IfStatement", Branches: branches, Else: els})
}

func (s WhenStatement) MarshalJSON() ([]byte, error) {
	branches, err := marshalStatementBranches(s.Branches)
	if err != nil {
		return nil, err
	}
	return json.Marshal(statementEnvelope{Kind: "WhenStatement", Branches: branches})
}

func (s WhileStatement) MarshalJSON() ([]byte, error) {
	cond, err := marshalRaw(s.Cond)
	if err != nil {
		return nil, err
	}
	stmts, err := marshalRawStatementList(s.Statements)
	if err != nil {
		return nil, err
	}
	return json.Marshal(statementEnvelope{Kind: "WhileStatement", Cond: cond, WhileBody: stmts})
}

func (s ForStatement) MarshalJSON() ([]byte, error) {
	stmts, err := marshalRawStatementList(s.Statements)
	if err != nil {
		return nil, err
	}
	return json.Marshal(statementEnvelope{Kind: "ForStatement", Indices: s.Indices, Statements: stmts})
}
