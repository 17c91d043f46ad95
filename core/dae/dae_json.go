package dae

import (
	"encoding/json"

	"modelica-dae/core/ir"
)

// daeWire mirrors Dae but carries its interface-typed fields (Expression,
// Equation) as raw JSON, since encoding/json cannot unmarshal directly
// into an interface — see core/ir's expr_json.go/equation_json.go for the
// same pattern applied to the IR tree itself.
type daeWire struct {
	P    []*ir.Component `json:"p"`
	CP   []*ir.Component `json:"cp"`
	T    *ir.Component   `json:"t"`
	X    []*ir.Component `json:"x"`
	XDot []*ir.Component `json:"x_dot"`
	Y    []*ir.Component `json:"y"`
	U    []*ir.Component `json:"u"`
	PreZ []*ir.Component `json:"pre_z"`
	Z    []*ir.Component `json:"z"`
	M    []*ir.Component `json:"m"`

	C        []json.RawMessage `json:"c"`
	Relation []json.RawMessage `json:"relation"`

	FX []json.RawMessage   `json:"fx"`
	FZ []json.RawMessage   `json:"fz"`
	FM []json.RawMessage   `json:"fm"`
	FC [][]json.RawMessage `json:"fc"`

	Connects []ir.ConnectEquation `json:"connects,omitempty"`
}

func marshalExprList(exprs []ir.Expression) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(exprs))
	for i, e := range exprs {
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func decodeExprList(raws []json.RawMessage) ([]ir.Expression, error) {
	out := make([]ir.Expression, len(raws))
	for i, raw := range raws {
		e, err := ir.DecodeExpression(raw)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func marshalEqList(eqs []ir.Equation) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(eqs))
	for i, eq := range eqs {
		raw, err := json.Marshal(eq)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func decodeEqList(raws []json.RawMessage) ([]ir.Equation, error) {
	out := make([]ir.Equation, len(raws))
	for i, raw := range raws {
		eq, err := ir.DecodeEquation(raw)
		if err != nil {
			return nil, err
		}
		out[i] = eq
	}
	return out, nil
}

func (d Dae) MarshalJSON() ([]byte, error) {
	c, err := marshalExprList(d.C)
	if err != nil {
		return nil, err
	}
	relation, err := marshalExprList(d.Relation)
	if err != nil {
		return nil, err
	}
	fx, err := marshalEqList(d.FX)
	if err != nil {
		return nil, err
	}
	fz, err := marshalEqList(d.FZ)
	if err != nil {
		return nil, err
	}
	fm, err := marshalEqList(d.FM)
	if err != nil {
		return nil, err
	}
	fc := make([][]json.RawMessage, len(d.FC))
	for i, block := range d.FC {
		raws, err := marshalEqList(block)
		if err != nil {
			return nil, err
		}
		fc[i] = raws
	}

	return json.Marshal(daeWire{
		P: d.P, CP: d.CP, T: d.T, X: d.X, XDot: d.XDot, Y: d.Y, U: d.U,
		PreZ: d.PreZ, Z: d.Z, M: d.M,
		C: c, Relation: relation,
		FX: fx, FZ: fz, FM: fm, FC: fc,
		Connects: d.Connects,
	})
}

func (d *Dae) UnmarshalJSON(data []byte) error {
	var w daeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	c, err := decodeExprList(w.C)
	if err != nil {
		return err
	}
	relation, err := decodeExprList(w.Relation)
	if err != nil {
		return err
	}
	fx, err := decodeEqList(w.FX)
	if err != nil {
		return err
	}
	fz, err := decodeEqList(w.FZ)
	if err != nil {
		return err
	}
	fm, err := decodeEqList(w.FM)
	if err != nil {
		return err
	}
	fc := make([][]ir.Equation, len(w.FC))
	for i, raws := range w.FC {
		eqs, err := decodeEqList(raws)
		if err != nil {
			return err
		}
		fc[i] = eqs
	}

	*d = Dae{
		P: w.P, CP: w.CP, T: w.T, X: w.X, XDot: w.XDot, Y: w.Y, U: w.U,
		PreZ: w.PreZ, Z: w.Z, M: w.M,
		C: c, Relation: relation,
		FX: fx, FZ: fz, FM: fm, FC: fc,
		Connects: w.Connects,
	}
	return nil
}
