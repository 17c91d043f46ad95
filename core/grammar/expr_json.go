package grammar

import (
	"encoding/json"
	"fmt"

	"modelica-dae/core/ir"
)

// exprEnvelope is the single wire shape every Expression variant in the
// grammar's precedence cascade marshals to and unmarshals from, mirroring
// core/ir's exprEnvelope pattern one level up the pipeline: this is the
// interchange form an external parser emits for the syntax tree it hands
// to the driver.
type exprEnvelope struct {
	Kind string `json:"kind"`

	// IfExpression
	CondExprs []condExprWire  `json:"cond_exprs,omitempty"`
	Else      json.RawMessage `json:"else,omitempty"`

	// RangeExpression
	Start json.RawMessage `json:"start,omitempty"`
	Step  json.RawMessage `json:"step,omitempty"`
	End   json.RawMessage `json:"end,omitempty"`

	// LogicalBinary
	LogicalOp *LogicalOp        `json:"logical_op,omitempty"`
	Operands  []json.RawMessage `json:"operands,omitempty"`

	// Not
	Operand json.RawMessage `json:"operand,omitempty"`

	// Relation
	RelOp *RelOp          `json:"rel_op,omitempty"`
	Lhs   json.RawMessage `json:"lhs,omitempty"`
	Rhs   json.RawMessage `json:"rhs,omitempty"`

	// ArithmeticExpression
	UnarySign *ArithOp        `json:"unary_sign,omitempty"`
	First     json.RawMessage `json:"first,omitempty"`
	ArithRest []arithTailWire `json:"arith_rest,omitempty"`

	// Term
	TermRest []termTailWire `json:"term_rest,omitempty"`

	// Factor
	Base        json.RawMessage `json:"base,omitempty"`
	Elementwise bool            `json:"elementwise,omitempty"`
	Exponent    json.RawMessage `json:"exponent,omitempty"`

	// UnsignedNumber / StringLiteral / BoolLiteral / EndLiteral
	Token *ir.Token `json:"token,omitempty"`
	Real  bool      `json:"real,omitempty"`
	Bool  bool      `json:"bool,omitempty"`

	// ComponentRefExpr / FunctionCallExpr
	Ref    *ComponentReference `json:"ref,omitempty"`
	Callee *ComponentReference `json:"callee,omitempty"`
	Args   []json.RawMessage   `json:"args,omitempty"`

	// ParenExpr
	Exprs []json.RawMessage `json:"exprs,omitempty"`
}

type condExprWire struct {
	Cond  json.RawMessage `json:"cond"`
	Value json.RawMessage `json:"value"`
}

type arithTailWire struct {
	Op   ArithOp         `json:"op"`
	Term json.RawMessage `json:"term"`
}

type termTailWire struct {
	Op     MulOp           `json:"op"`
	Factor json.RawMessage `json:"factor"`
}

func marshalRaw(e Expression) (json.RawMessage, error) {
	if e == nil {
		return json.Marshal(exprEnvelope{Kind: "Nil"})
	}
	return json.Marshal(e)
}

func marshalRawList(es []Expression) ([]json.RawMessage, error) {
	if es == nil {
		return nil, nil
	}
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
		return nil, nil
	}
	return DecodeExpression(raw)
}

func decodeRawList(raws []json.RawMessage) ([]Expression, error) {
	if raws == nil {
		return nil, nil
	}
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

// DecodeExpression reconstructs a concrete grammar Expression from its
// envelope form.
func DecodeExpression(raw json.RawMessage) (Expression, error) {
	var env exprEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case "Nil":
		return nil, nil
	case "IfExpression":
		conds := make([]CondExpr, len(env.CondExprs))
		for i, c := range env.CondExprs {
			cond, err := decodeRaw(c.Cond)
			if err != nil {
				return nil, err
			}
			value, err := decodeRaw(c.Value)
			if err != nil {
				return nil, err
			}
			conds[i] = CondExpr{Cond: cond, Value: value}
		}
		els, err := decodeRaw(env.Else)
		if err != nil {
			return nil, err
		}
		return IfExpression{CondExprs: conds, Else: els}, nil
	case "RangeExpression":
		start, err := decodeRaw(env.Start)
		if err != nil {
			return nil, err
		}
		step, err := decodeRaw(env.Step)
		if err != nil {
			return nil, err
		}
		end, err := decodeRaw(env.End)
		if err != nil {
			return nil, err
		}
		return RangeExpression{Start: start, Step: step, End: end}, nil
	case "LogicalBinary":
		operands, err := decodeRawList(env.Operands)
		if err != nil {
			return nil, err
		}
		lb := LogicalBinary{Operands: operands}
		if env.LogicalOp != nil {
			lb.Op = *env.LogicalOp
		}
		return lb, nil
	case "Not":
		operand, err := decodeRaw(env.Operand)
		if err != nil {
			return nil, err
		}
		return Not{Operand: operand}, nil
	case "Relation":
		lhs, err := decodeRaw(env.Lhs)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeRaw(env.Rhs)
		if err != nil {
			return nil, err
		}
		r := Relation{Lhs: lhs, Rhs: rhs}
		if env.RelOp != nil {
			r.Op = *env.RelOp
		}
		return r, nil
	case "ArithmeticExpression":
		first, err := decodeRaw(env.First)
		if err != nil {
			return nil, err
		}
		rest := make([]ArithTail, len(env.ArithRest))
		for i, t := range env.ArithRest {
			term, err := decodeRaw(t.Term)
			if err != nil {
				return nil, err
			}
			rest[i] = ArithTail{Op: t.Op, Term: term}
		}
		return ArithmeticExpression{UnarySign: env.UnarySign, First: first, Rest: rest}, nil
	case "Term":
		first, err := decodeRaw(env.First)
		if err != nil {
			return nil, err
		}
		rest := make([]TermTail, len(env.TermRest))
		for i, t := range env.TermRest {
			factor, err := decodeRaw(t.Factor)
			if err != nil {
				return nil, err
			}
			rest[i] = TermTail{Op: t.Op, Factor: factor}
		}
		return Term{First: first, Rest: rest}, nil
	case "Factor":
		base, err := decodeRaw(env.Base)
		if err != nil {
			return nil, err
		}
		exponent, err := decodeRaw(env.Exponent)
		if err != nil {
			return nil, err
		}
		return Factor{Base: base, Elementwise: env.Elementwise, Exponent: exponent}, nil
	case "UnsignedNumber":
		tok := ir.Token{}
		if env.Token != nil {
			tok = *env.Token
		}
		return UnsignedNumber{Token: tok, Real: env.Real}, nil
	case "StringLiteral":
		tok := ir.Token{}
		if env.Token != nil {
			tok = *env.Token
		}
		return StringLiteral{Token: tok}, nil
	case "BoolLiteral":
		tok := ir.Token{}
		if env.Token != nil {
			tok = *env.Token
		}
		return BoolLiteral{Token: tok, Value: env.Bool}, nil
	case "EndLiteral":
		tok := ir.Token{}
		if env.Token != nil {
			tok = *env.Token
		}
		return EndLiteral{Token: tok}, nil
	case "ComponentRefExpr":
		if env.Ref == nil {
			return ComponentRefExpr{}, nil
		}
		return ComponentRefExpr{Ref: *env.Ref}, nil
	case "FunctionCallExpr":
		args, err := decodeRawList(env.Args)
		if err != nil {
			return nil, err
		}
		var callee ComponentReference
		if env.Callee != nil {
			callee = *env.Callee
		}
		return FunctionCallExpr{Callee: callee, Args: args}, nil
	case "ParenExpr":
		exprs, err := decodeRawList(env.Exprs)
		if err != nil {
			return nil, err
		}
		return ParenExpr{Exprs: exprs}, nil
	default:
		return nil, fmt.Errorf("grammar: unknown expression kind %q", env.Kind)
	}
}

func (e IfExpression) MarshalJSON() ([]byte, error) {
	conds := make([]condExprWire, len(e.CondExprs))
	for i, c := range e.CondExprs {
		cond, err := marshalRaw(c.Cond)
		if err != nil {
			return nil, err
		}
		value, err := marshalRaw(c.Value)
		if err != nil {
			return nil, err
		}
		conds[i] = condExprWire{Cond: cond, Value: value}
	}
	els, err := marshalRaw(e.Else)
	if err != nil {
		return nil, err
	}
	return json.Marshal(exprEnvelope{Kind: "IfExpression", CondExprs: conds, Else: els})
}

func (e RangeExpression) MarshalJSON() ([]byte, error) {
	start, err := marshalRaw(e.Start)
	if err != nil {
		return nil, err
	}
	step, err := marshalRaw(e.Step)
	if err != nil {
		return nil, err
	}
	end, err := marshalRaw(e.End)
	if err != nil {
		return nil, err
	}
	return json.Marshal(exprEnvelope{Kind: "RangeExpression", Start: start, Step: step, End: end})
}

func (e LogicalBinary) MarshalJSON() ([]byte, error) {
	operands, err := marshalRawList(e.Operands)
	if err != nil {
		return nil, err
	}
	op := e.Op
	return json.Marshal(exprEnvelope{Kind: "LogicalBinary", LogicalOp: &op, Operands: operands})
}

func (e Not) MarshalJSON() ([]byte, error) {
	operand, err := marshalRaw(e.Operand)
	if err != nil {
		return nil, err
	}
	return json.Marshal(exprEnvelope{Kind: "Not", Operand: operand})
}

func (e Relation) MarshalJSON() ([]byte, error) {
	lhs, err := marshalRaw(e.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := marshalRaw(e.Rhs)
	if err != nil {
		return nil, err
	}
	op := e.Op
	return json.Marshal(exprEnvelope{Kind: "Relation", Lhs: lhs, Rhs: rhs, RelOp: &op})
}

func (e ArithmeticExpression) MarshalJSON() ([]byte, error) {
	first, err := marshalRaw(e.First)
	if err != nil {
		return nil, err
	}
	rest := make([]arithTailWire, len(e.Rest))
	for i, t := range e.Rest {
		term, err := marshalRaw(t.Term)
		if err != nil {
			return nil, err
		}
		rest[i] = arithTailWire{Op: t.Op, Term: term}
	}
	return json.Marshal(exprEnvelope{Kind: "ArithmeticExpression", UnarySign: e.UnarySign, First: first, ArithRest: rest})
}

func (e Term) MarshalJSON() ([]byte, error) {
	first, err := marshalRaw(e.First)
	if err != nil {
		return nil, err
	}
	rest := make([]termTailWire, len(e.Rest))
	for i, t := range e.Rest {
		factor, err := marshalRaw(t.Factor)
		if err != nil {
			return nil, err
		}
		rest[i] = termTailWire{Op: t.Op, Factor: factor}
	}
	return json.Marshal(exprEnvelope{Kind: "Term", First: first, TermRest: rest})
}

func (e Factor) MarshalJSON() ([]byte, error) {
	base, err := marshalRaw(e.Base)
	if err != nil {
		return nil, err
	}
	exponent, err := marshalRaw(e.Exponent)
	if err != nil {
		return nil, err
	}
	return json.Marshal(exprEnvelope{Kind: "Factor", Base: base, Elementwise: e.Elementwise, Exponent: exponent})
}

func (e UnsignedNumber) MarshalJSON() ([]byte, error) {
	tok := e.Token
	return json.Marshal(exprEnvelope{Kind: "UnsignedNumber", Token: &tok, Real: e.Real})
}

func (e StringLiteral) MarshalJSON() ([]byte, error) {
	tok := e.Token
	return json.Marshal(exprEnvelope{Kind: "StringLiteral", Token: &tok})
}

func (e BoolLiteral) MarshalJSON() ([]byte, error) {
	tok := e.Token
	return json.Marshal(exprEnvelope{Kind: "BoolLiteral", Token: &tok, Bool: e.Value})
}

func (e EndLiteral) MarshalJSON() ([]byte, error) {
	tok := e.Token
	return json.Marshal(exprEnvelope{Kind: "EndLiteral", Token: &tok})
}

func (e ComponentRefExpr) MarshalJSON() ([]byte, error) {
	ref := e.Ref
	return json.Marshal(exprEnvelope{Kind: "ComponentRefExpr", Ref: &ref})
}

func (e FunctionCallExpr) MarshalJSON() ([]byte, error) {
	args, err := marshalRawList(e.Args)
	if err != nil {
		return nil, err
	}
	callee := e.Callee
	return json.Marshal(exprEnvelope{Kind: "FunctionCallExpr", Callee: &callee, Args: args})
}

func (e ParenExpr) MarshalJSON() ([]byte, error) {
	exprs, err := marshalRawList(e.Exprs)
	if err != nil {
		return nil, err
	}
	return json.Marshal(exprEnvelope{Kind: "ParenExpr", Exprs: exprs})
}

// Subscript's Expr field is an Expression and therefore needs its own
// envelope dispatch; ComponentRefPart/ComponentReference hold no interface
// fields of their own and round-trip through default struct JSON tags.
func (s Subscript) MarshalJSON() ([]byte, error) {
	type wire struct {
		Colon bool            `json:"colon"`
		Expr  json.RawMessage `json:"expr,omitempty"`
	}
	if s.Colon {
		return json.Marshal(wire{Colon: true})
	}
	raw, err := marshalRaw(s.Expr)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wire{Expr: raw})
}

func (s *Subscript) UnmarshalJSON(data []byte) error {
	var wire struct {
		Colon bool            `json:"colon"`
		Expr  json.RawMessage `json:"expr,omitempty"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Colon {
		s.Colon = true
		return nil
	}
	expr, err := decodeRaw(wire.Expr)
	if err != nil {
		return err
	}
	s.Expr = expr
	return nil
}
