package ir

import "encoding/json"

type classDefWire struct {
	Name         Token `json:"name"`
	Encapsulated bool  `json:"encapsulated"`

	Classes    *OrderedMap[string, *ClassDefinition] `json:"classes"`
	Components *OrderedMap[string, *Component]       `json:"components"`

	Extends []Extend `json:"extends,omitempty"`
	Imports []string `json:"imports,omitempty"`

	Equations         []json.RawMessage   `json:"equations,omitempty"`
	InitialEquations  []json.RawMessage   `json:"initial_equations,omitempty"`
	Algorithms        [][]json.RawMessage `json:"algorithms,omitempty"`
	InitialAlgorithms [][]json.RawMessage `json:"initial_algorithms,omitempty"`
}

// MarshalJSON is required alongside UnmarshalJSON (not strictly for
// marshaling itself, since json.Marshal already dispatches each Equation's
// own MarshalJSON) but keeps the wire field names explicit and stable
// across the two directions.
func (c ClassDefinition) MarshalJSON() ([]byte, error) {
	eqs, err := marshalEqRawList(c.Equations)
	if err != nil {
		return nil, err
	}
	initEqs, err := marshalEqRawList(c.InitialEquations)
	if err != nil {
		return nil, err
	}
	algs := make([][]json.RawMessage, len(c.Algorithms))
	for i, a := range c.Algorithms {
		raw, err := marshalStmtRawList(a)
		if err != nil {
			return nil, err
		}
		algs[i] = raw
	}
	initAlgs := make([][]json.RawMessage, len(c.InitialAlgorithms))
	for i, a := range c.InitialAlgorithms {
		raw, err := marshalStmtRawList(a)
		if err != nil {
			return nil, err
		}
		initAlgs[i] = raw
	}
	return json.Marshal(classDefWire{
		Name:              c.Name,
		Encapsulated:      c.Encapsulated,
		Classes:           c.Classes,
		Components:        c.Components,
		Extends:           c.Extends,
		Imports:           c.Imports,
		Equations:         eqs,
		InitialEquations:  initEqs,
		Algorithms:        algs,
		InitialAlgorithms: initAlgs,
	})
}

func (c *ClassDefinition) UnmarshalJSON(data []byte) error {
	var w classDefWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	eqs, err := decodeEqRawList(w.Equations)
	if err != nil {
		return err
	}
	initEqs, err := decodeEqRawList(w.InitialEquations)
	if err != nil {
		return err
	}
	algs := make([][]Statement, len(w.Algorithms))
	for i, a := range w.Algorithms {
		stmts, err := decodeStmtRawList(a)
		if err != nil {
			return err
		}
		algs[i] = stmts
	}
	initAlgs := make([][]Statement, len(w.InitialAlgorithms))
	for i, a := range w.InitialAlgorithms {
		stmts, err := decodeStmtRawList(a)
		if err != nil {
			return err
		}
		initAlgs[i] = stmts
	}
	c.Name = w.Name
	c.Encapsulated = w.Encapsulated
	c.Classes = w.Classes
	c.Components = w.Components
	c.Extends = w.Extends
	c.Imports = w.Imports
	c.Equations = eqs
	c.InitialEquations = initEqs
	c.Algorithms = algs
	c.InitialAlgorithms = initAlgs
	return nil
}
