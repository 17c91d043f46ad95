package ir

import "encoding/json"

type classModEntryWire struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

type componentWire struct {
	Name        string          `json:"name"`
	TypeName    Name            `json:"type_name"`
	Variability Variability     `json:"variability"`
	Causality   Causality       `json:"causality"`
	Connection  Connection      `json:"connection"`
	Description []Token         `json:"description,omitempty"`
	Start       json.RawMessage `json:"start,omitempty"`

	ClassModifications []classModEntryWire `json:"class_modifications,omitempty"`
}

// MarshalJSON is required because Start and each ClassModifications entry's
// Value hold an Expression, which encoding/json cannot decode back into an
// interface field without a discriminant — see DecodeExpression.
func (c Component) MarshalJSON() ([]byte, error) {
	start, err := marshalRaw(c.Start)
	if err != nil {
		return nil, err
	}
	mods := make([]classModEntryWire, len(c.ClassModifications))
	for i, m := range c.ClassModifications {
		v, err := marshalRaw(m.Value)
		if err != nil {
			return nil, err
		}
		mods[i] = classModEntryWire{Key: m.Key, Value: v}
	}
	return json.Marshal(componentWire{
		Name:               c.Name,
		TypeName:           c.TypeName,
		Variability:        c.Variability,
		Causality:          c.Causality,
		Connection:         c.Connection,
		Description:        c.Description,
		Start:              start,
		ClassModifications: mods,
	})
}

func (c *Component) UnmarshalJSON(data []byte) error {
	var w componentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	start, err := decodeRaw(w.Start)
	if err != nil {
		return err
	}
	mods := make([]ClassModificationEntry, len(w.ClassModifications))
	for i, m := range w.ClassModifications {
		v, err := decodeRaw(m.Value)
		if err != nil {
			return err
		}
		mods[i] = ClassModificationEntry{Key: m.Key, Value: v}
	}
	c.Name = w.Name
	c.TypeName = w.TypeName
	c.Variability = w.Variability
	c.Causality = w.Causality
	c.Connection = w.Connection
	c.Description = w.Description
	c.Start = start
	c.ClassModifications = mods
	return nil
}
