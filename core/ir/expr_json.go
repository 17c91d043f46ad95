package ir

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// exprEnvelope is the single wire shape every Expression variant marshals
// to and unmarshals from. Using one envelope (rather than one shadow
// struct per variant) keeps the interface-to-JSON dispatch in one place:
// MarshalJSON on each concrete type fills in only the fields it needs,
// and DecodeExpression switches on Kind to know which fields to read back.
type exprEnvelope struct {
	Kind string `json:"kind"`

	// Terminal
	TerminalKind *TerminalKind    `json:"terminal_kind,omitempty"`
	Token        *Token           `json:"token,omitempty"`
	Number       *decimal.Decimal `json:"number,omitempty"`
	Bool         *bool            `json:"bool,omitempty"`

	// Ref
	Ref *ComponentReference `json:"ref,omitempty"`

	// Unary / Binary
	UnaryOp  *UnaryOp        `json:"unary_op,omitempty"`
	BinaryOp *BinaryOp       `json:"binary_op,omitempty"`
	Lhs      json.RawMessage `json:"lhs,omitempty"`
	Rhs      json.RawMessage `json:"rhs,omitempty"`

	// Call
	Comp json.RawMessage   `json:"comp,omitempty"`
	Args []json.RawMessage `json:"args,omitempty"`

	// Range
	Start json.RawMessage `json:"start,omitempty"`
	Step  json.RawMessage `json:"step,omitempty"`
	End   json.RawMessage `json:"end,omitempty"`
}

func marshalRaw(e Expression) (json.RawMessage, error) {
	if e == nil {
		return json.Marshal(exprEnvelope{Kind: "Empty"})
	}
	return json.Marshal(e)
}

func marshalRawList(es []Expression) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, len(es))
	for i, e := range es {
		raw, err := marshalRaw(e)
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

func decodeRaw(raw json.RawMessage) (Expression, error) {
	if len(raw) == 0 {
		return EmptyExpr{}, nil
	}
	return DecodeExpression(raw)
}

func decodeRawList(raws []json.RawMessage) ([]Expression, error) {
	out := make([]Expression, len(raws))
	for i, raw := range raws {
		e, err := decodeRaw(raw)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// DecodeExpression reconstructs a concrete Expression from its envelope form.
func DecodeExpression(raw json.RawMessage) (Expression, error) {
	var env exprEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case "Empty":
		return EmptyExpr{}, nil
	case "Terminal":
		t := Terminal{Bool: false}
		if env.TerminalKind != nil {
			t.Kind = *env.TerminalKind
		}
		if env.Token != nil {
			t.Token = *env.Token
		}
		t.Number = env.Number
		if env.Bool != nil {
			t.Bool = *env.Bool
		}
		return t, nil
	case "Ref":
		if env.Ref == nil {
			return RefExpr{}, nil
		}
		return RefExpr{Ref: *env.Ref}, nil
	case "Unary":
		rhs, err := decodeRaw(env.Rhs)
		if err != nil {
			return nil, err
		}
		u := UnaryExpr{Rhs: rhs}
		if env.UnaryOp != nil {
			u.Op = *env.UnaryOp
		}
		return u, nil
	case "Binary":
		lhs, err := decodeRaw(env.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeRaw(env.Rhs)
		if err != nil {
			return nil, err
		}
		b := BinaryExpr{Lhs: lhs, Rhs: rhs}
		if env.BinaryOp != nil {
			b.Op = *env.BinaryOp
		}
		return b, nil
	case "Call":
		comp, err := decodeRaw(env.Comp)
		if err != nil {
			return nil, err
		}
		args, err := decodeRawList(env.Args)
		if err != nil {
			return nil, err
		}
		return CallExpr{Comp: comp, Args: args}, nil
	case "Range":
		start, err := decodeRaw(env.Start)
		if err != nil {
			return nil, err
		}
		var step Expression
		if len(env.Step) > 0 {
			step, err = decodeRaw(env.Step)
			if err != nil {
				return nil, err
			}
		}
		end, err := decodeRaw(env.End)
		if err != nil {
			return nil, err
		}
		return RangeExpr{Start: start, Step: step, End: end}, nil
	default:
		return nil, fmt.Errorf("ir: unknown expression kind %q", env.Kind)
	}
}

func (e EmptyExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(exprEnvelope{Kind: "Empty"})
}

func (t Terminal) MarshalJSON() ([]byte, error) {
	env := exprEnvelope{Kind: "Terminal", TerminalKind: &t.Kind, Token: &t.Token, Number: t.Number}
	if t.Kind == TerminalBool {
		env.Bool = &t.Bool
	}
	return json.Marshal(env)
}

func (r RefExpr) MarshalJSON() ([]byte, error) {
	return json.Marshal(exprEnvelope{Kind: "Ref", Ref: &r.Ref})
}

func (u UnaryExpr) MarshalJSON() ([]byte, error) {
	rhs, err := marshalRaw(u.Rhs)
	if err != nil {
		return nil, err
	}
	return json.Marshal(exprEnvelope{Kind: "Unary", UnaryOp: &u.Op, Rhs: rhs})
}

func (b BinaryExpr) MarshalJSON() ([]byte, error) {
	lhs, err := marshalRaw(b.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := marshalRaw(b.Rhs)
	if err != nil {
		return nil, err
	}
	return json.Marshal(exprEnvelope{Kind: "Binary", BinaryOp: &b.Op, Lhs: lhs, Rhs: rhs})
}

func (c CallExpr) MarshalJSON() ([]byte, error) {
	comp, err := marshalRaw(c.Comp)
	if err != nil {
		return nil, err
	}
	args, err := marshalRawList(c.Args)
	if err != nil {
		return nil, err
	}
	return json.Marshal(exprEnvelope{Kind: "Call", Comp: comp, Args: args})
}

func (r RangeExpr) MarshalJSON() ([]byte, error) {
	start, err := marshalRaw(r.Start)
	if err != nil {
		return nil, err
	}
	var step json.RawMessage
	if r.Step != nil {
		step, err = marshalRaw(r.Step)
		if err != nil {
			return nil, err
		}
	}
	end, err := marshalRaw(r.End)
	if err != nil {
		return nil, err
	}
	return json.Marshal(exprEnvelope{Kind: "Range", Start: start, Step: step, End: end})
}

// MarshalJSON on Subscript dispatches its Expr field (when present) through
// the same envelope so a colon subscript and an expression subscript are
// both round-trippable.
func (s Subscript) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind string          `json:"kind"`
		Expr json.RawMessage `json:"expr,omitempty"`
	}
	if s.Kind == SubscriptColon {
		return json.Marshal(wire{Kind: "Colon"})
	}
	raw, err := marshalRaw(s.Expr)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire{Kind: "Expr", Expr: raw})
}

func (s *Subscript) UnmarshalJSON(data []byte) error {
	var wire struct {
		Kind string          `json:"kind"`
		Expr json.RawMessage `json:"expr,omitempty"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Kind == "Colon" {
		s.Kind = SubscriptColon
		return nil
	}
	expr, err := decodeRaw(wire.Expr)
	if err != nil {
		return err
	}
	s.Kind = SubscriptExpr
	s.Expr = expr
	return nil
}
