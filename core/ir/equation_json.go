package ir

import (
	"encoding/json"
	"fmt"
)

type eqEnvelope struct {
	Kind string `json:"kind"`

	Lhs json.RawMessage `json:"lhs,omitempty"`
	Rhs json.RawMessage `json:"rhs,omitempty"`

	LhsRef *ComponentReference `json:"lhs_ref,omitempty"`
	RhsRef *ComponentReference `json:"rhs_ref,omitempty"`

	Comp json.RawMessage   `json:"comp,omitempty"`
	Args []json.RawMessage `json:"args,omitempty"`

	CondBlocks []eqBlockWire     `json:"cond_blocks,omitempty"`
	ElseBlock  []json.RawMessage `json:"else_block,omitempty"`
	Blocks     []eqBlockWire     `json:"blocks,omitempty"`
}

type eqBlockWire struct {
	Cond json.RawMessage   `json:"cond"`
	Eqs  []json.RawMessage `json:"eqs"`
}

func marshalEqRaw(e Equation) (json.RawMessage, error) {
	if e == nil {
		return nil, nil
	}
	return json.Marshal(e)
}

func marshalEqRawList(es []Equation) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(es))
	for i, e := range es {
		raw, err := marshalEqRaw(e)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func decodeEqRaw(raw json.RawMessage) (Equation, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return DecodeEquation(raw)
}

func decodeEqRawList(raws []json.RawMessage) ([]Equation, error) {
	if raws == nil {
		return nil, nil
	}
	out := make([]Equation, len(raws))
	for i, raw := range raws {
		e, err := decodeEqRaw(raw)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func marshalEqBlocks(blocks []EquationBlock) ([]eqBlockWire, error) {
	out := make([]eqBlockWire, len(blocks))
	for i, b := range blocks {
		cond, err := marshalRaw(b.Cond)
		if err != nil {
			return nil, err
		}
		eqs, err := marshalEqRawList(b.Eqs)
		if err != nil {
			return nil, err
		}
		out[i] = eqBlockWire{Cond: cond, Eqs: eqs}
	}
	return out, nil
}

func decodeEqBlocks(wires []eqBlockWire) ([]EquationBlock, error) {
	out := make([]EquationBlock, len(wires))
	for i, w := range wires {
		cond, err := decodeRaw(w.Cond)
		if err != nil {
			return nil, err
		}
		eqs, err := decodeEqRawList(w.Eqs)
		if err != nil {
			return nil, err
		}
		out[i] = EquationBlock{Cond: cond, Eqs: eqs}
	}
	return out, nil
}

// DecodeEquation reconstructs a concrete Equation from its envelope form.
func DecodeEquation(raw json.RawMessage) (Equation, error) {
	var env eqEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case "Simple":
		lhs, err := decodeRaw(env.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeRaw(env.Rhs)
		if err != nil {
			return nil, err
		}
		return SimpleEquation{Lhs: lhs, Rhs: rhs}, nil
	case "Connect":
		eq := ConnectEquation{}
		if env.LhsRef != nil {
			eq.Lhs = *env.LhsRef
		}
		if env.RhsRef != nil {
			eq.Rhs = *env.RhsRef
		}
		return eq, nil
	case "Call":
		comp, err := decodeRaw(env.Comp)
		if err != nil {
			return nil, err
		}
		args, err := decodeRawList(env.Args)
		if err != nil {
			return nil, err
		}
		return CallEquation{Comp: comp, Args: args}, nil
	case "If":
		condBlocks, err := decodeEqBlocks(env.CondBlocks)
		if err != nil {
			return nil, err
		}
		elseBlock, err := decodeEqRawList(env.ElseBlock)
		if err != nil {
			return nil, err
		}
		return IfEquation{CondBlocks: condBlocks, ElseBlock: elseBlock}, nil
	case "When":
		blocks, err := decodeEqBlocks(env.Blocks)
		if err != nil {
			return nil, err
		}
		return WhenEquation{Blocks: blocks}, nil
	default:
		return nil, fmt.Errorf("ir: unknown equation kind %q", env.Kind)
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
	return json.Marshal(eqEnvelope{Kind: "Simple", Lhs: lhs, Rhs: rhs})
}

func (e ConnectEquation) MarshalJSON() ([]byte, error) {
	return json.Marshal(eqEnvelope{Kind: "Connect", LhsRef: &e.Lhs, RhsRef: &e.Rhs})
}

// UnmarshalJSON reads back the form MarshalJSON writes, so a
// ConnectEquation held by value (as in dae.Dae's Connects) round-trips.
func (e *ConnectEquation) UnmarshalJSON(data []byte) error {
	eq, err := DecodeEquation(data)
	if err != nil {
		return err
	}
	c, ok := eq.(ConnectEquation)
	if !ok {
		return fmt.Errorf("ir: expected Connect equation, got %T", eq)
	}
	*e = c
	return nil
}

func (e CallEquation) MarshalJSON() ([]byte, error) {
	comp, err := marshalRaw(e.Comp)
	if err != nil {
		return nil, err
	}
	args, err := marshalRawList(e.Args)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eqEnvelope{Kind: "Call", Comp: comp, Args: args})
}

func (e IfEquation) MarshalJSON() ([]byte, error) {
	condBlocks, err := marshalEqBlocks(e.CondBlocks)
	if err != nil {
		return nil, err
	}
	elseBlock, err := marshalEqRawList(e.ElseBlock)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eqEnvelope{Kind: "If", CondBlocks: condBlocks, ElseBlock: elseBlock})
}

func (e WhenEquation) MarshalJSON() ([]byte, error) {
	blocks, err := marshalEqBlocks(e.Blocks)
	if err != nil {
		return nil, err
	}
	return json.Marshal(eqEnvelope{Kind: "When", Blocks: blocks})
}
