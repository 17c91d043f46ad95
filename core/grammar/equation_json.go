package grammar

import (
	"encoding/json"
	"fmt"
)

// equationEnvelope is the wire shape for the Equation sum type, following
// the same "kind" dispatch as exprEnvelope.
type equationEnvelope struct {
	Kind string `json:"kind"`

	// SimpleEquation
	Lhs json.RawMessage `json:"lhs,omitempty"`
	Rhs json.RawMessage `json:"rhs,omitempty"`

	// ConnectClause
	LhsRef *ComponentReference `json:"lhs_ref,omitempty"`
	RhsRef *ComponentReference `json:"rhs_ref,omitempty"`

	// FunctionCallEquation
	Callee *ComponentReference `json:"callee,omitempty"`
	Args   []json.RawMessage   `json:"args,omitempty"`

	// IfEquation / WhenEquation
	Branches []equationBranchWire `json:"branches,omitempty"`
	Else     []json.RawMessage    `json:"else,omitempty"`

	// ForEquation
	Indices   []string          `json:"indices,omitempty"`
	Equations []json.RawMessage `json:"equations,omitempty"`
}

type equationBranchWire struct {
	Cond      json.RawMessage   `json:"cond"`
	Equations []json.RawMessage `json:"equations"`
}

func marshalRawEquation(e Equation) (json.RawMessage, error) {
	if e == nil {
		return json.Marshal(equationEnvelope{Kind: "Nil"})
	}
	return json.Marshal(e)
}

func marshalRawEquationList(es []Equation) ([]json.RawMessage, error) {
	if es == nil {
		return nil, nil
	}
	out := make([]json.RawMessage, len(es))
	for i, e := range es {
		raw, err := marshalRawEquation(e)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func decodeRawEquation(raw json.RawMessage) (Equation, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return DecodeEquation(raw)
}

func decodeRawEquationList(raws []json.RawMessage) ([]Equation, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]Equation, len(raws))
	for i, raw := range raws {
		e, err := decodeRawEquation(raw)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func marshalBranches(branches []EquationBranch) ([]equationBranchWire, error) {
	out := make([]equationBranchWire, len(branches))
	for i, b := range branches {
		cond, err := marshalRaw(b.Cond)
		if err != nil {
			return nil, err
		}
		eqs, err := marshalRawEquationList(b.Equations)
		if err != nil {
			return nil, err
		}
		out[i] = equationBranchWire{Cond: cond, Equations: eqs}
	}
	return out, nil
}

func decodeBranches(wires []equationBranchWire) ([]EquationBranch, error) {
	out := make([]EquationBranch, len(wires))
	for i, w := range wires {
		cond, err := decodeRaw(w.Cond)
		if err != nil {
			return nil, err
		}
		eqs, err := decodeRawEquationList(w.Equations)
		if err != nil {
			return nil, err
		}
		out[i] = EquationBranch{Cond: cond, Equations: eqs}
	}
	return out, nil
}

// DecodeEquation reconstructs a concrete grammar Equation from its envelope form.
func DecodeEquation(raw json.RawMessage) (Equation, error) {
	var env equationEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case "Nil":
		return nil, nil
	case "SimpleEquation":
		lhs, err := decodeRaw(env.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeRaw(env.Rhs)
		if err != nil {
			return nil, err
		}
		return SimpleEquation{Lhs: lhs, Rhs: rhs}, nil
	case "ConnectClause":
		c := ConnectClause{}
		if env.LhsRef != nil {
			c.Lhs = *env.LhsRef
		}
		if env.RhsRef != nil {
			c.Rhs = *env.RhsRef
		}
		return c, nil
	case "FunctionCallEquation":
		args, err := decodeRawList(env.Args)
		if err != nil {
			return nil, err
		}
		var callee ComponentReference
		if env.Callee != nil {
			callee = *env.Callee
		}
		return FunctionCallEquation{Callee: callee, Args: args}, nil
	case "IfEquation":
		branches, err := decodeBranches(env.Branches)
		if err != nil {
			return nil, err
		}
		els, err := decodeRawEquationList(env.Else)
		if err != nil {
			return nil, err
		}
		return IfEquation{Branches: branches, Else: els}, nil
	case "WhenEquation":
		branches, err := decodeBranches(env.Branches)
		if err != nil {
			return nil, err
		}
		return WhenEquation{Branches: branches}, nil
	case "ForEquation":
		eqs, err := decodeRawEquationList(env.Equations)
		if err != nil {
			return nil, err
		}
		return ForEquation{Indices: env.Indices, Equations: eqs}, nil
	default:
		return nil, fmt.Errorf("grammar: unknown equation kind %q", env.Kind)
	}
}

func (e SimpleEquation) MarshalJSON() ([]byte, error) {
	lhs, err := marshalRaw(e.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := marshalRaw(e.Rhs)
	if err != nil {
		return nil, err
	}
	return json.Marshal(equationEnvelope{Kind: "SimpleEquation", Lhs: lhs, Rhs: rhs})
}

func (e ConnectClause) MarshalJSON() ([]byte, error) {
	lhs, rhs := e.Lhs, e.Rhs
	return json.Marshal(equationEnvelope{Kind: "ConnectClause", LhsRef: &lhs, RhsRef: &rhs})
}

func (e FunctionCallEquation) MarshalJSON() ([]byte, error) {
	args, err := marshalRawList(e.Args)
	if err != nil {
		return nil, err
	}
	callee := e.Callee
	return json.Marshal(equationEnvelope{Kind: "FunctionCallEquation", Callee: &callee, Args: args})
}

func (e IfEquation) MarshalJSON() ([]byte, error) {
	branches, err := marshalBranches(e.Branches)
	if err != nil {
		return nil, err
	}
	els, err := marshalRawEquationList(e.Else)
	if err != nil {
		return nil, err
	}
	return json.Marshal(equationEnvelope{Kind: "IfEquation", Branches: branches, Else: els})
}

func (e WhenEquation) MarshalJSON() ([]byte, error) {
	branches, err := marshalBranches(e.Branches)
	if err != nil {
		return nil, err
	}
	return json.Marshal(equationEnvelope{Kind: "WhenEquation", Branches: branches})
}

func (e ForEquation) MarshalJSON() ([]byte, error) {
	eqs, err := marshalRawEquationList(e.Equations)
	if err != nil {
		return nil, err
	}
	return json.Marshal(equationEnvelope{Kind: "ForEquation", Indices: e.Indices, Equations: eqs})
}
