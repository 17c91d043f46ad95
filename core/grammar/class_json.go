package grammar

import (
	"encoding/json"
	"fmt"

	"modelica-dae/core/ir"
)

// classSpecifierEnvelope is the wire shape for the ClassSpecifier sum type.
type classSpecifierEnvelope struct {
	Kind string `json:"kind"`

	Name        ir.Token  `json:"name"`
	Composition *wireComp `json:"composition,omitempty"`
	EndName     ir.Token  `json:"end_name,omitempty"`
	BaseName    *ir.Name  `json:"base_name,omitempty"`
	TypeName    *ir.Name  `json:"type_name,omitempty"`
}

// elementEnvelope is the wire shape for the Element sum type.
type elementEnvelope struct {
	Kind string `json:"kind"`

	Class *wireClassDef `json:"class,omitempty"`

	TypePrefixes TypePrefixes               `json:"type_prefixes,omitempty"`
	TypeName     *ir.Name                   `json:"type_name,omitempty"`
	Declarations []componentDeclarationWire `json:"declarations,omitempty"`

	Alias ir.Token `json:"alias,omitempty"`
	Name  *ir.Name `json:"name,omitempty"`
}

// sectionEnvelope is the wire shape for the Section sum type.
type sectionEnvelope struct {
	Kind       string            `json:"kind"`
	Initial    bool              `json:"initial,omitempty"`
	Equations  []json.RawMessage `json:"equations,omitempty"`
	Statements []json.RawMessage `json:"statements,omitempty"`
}

type componentDeclarationWire struct {
	Name               ir.Token          `json:"name"`
	Subscripts         []Subscript       `json:"subscripts,omitempty"`
	Modification       *modificationWire `json:"modification,omitempty"`
	DescriptionStrings []ir.Token        `json:"description_strings,omitempty"`
}

type modificationWire struct {
	ClassModifications []classModEntryWire `json:"class_modifications,omitempty"`
	Expr               json.RawMessage     `json:"expr,omitempty"`
}

type classModEntryWire struct {
	Name ir.Name         `json:"name"`
	Expr json.RawMessage `json:"expr,omitempty"`
}

// wireComp/wireClassDef break the Composition <-> ClassDefinition <->
// Element recursion into explicit, JSON-serializable intermediate shapes
// so MarshalJSON/UnmarshalJSON on each level only has to reason about its
// own direct fields.
type wireComp struct {
	Elements []json.RawMessage `json:"elements"`
	Sections []json.RawMessage `json:"sections"`
}

type wireClassDef struct {
	Encapsulated bool            `json:"encapsulated,omitempty"`
	Token        ir.Token        `json:"token"`
	Specifier    json.RawMessage `json:"specifier"`
}

func marshalModification(m *Modification) (*modificationWire, error) {
	if m == nil {
		return nil, nil
	}
	entries := make([]classModEntryWire, len(m.ClassModifications))
	for i, entry := range m.ClassModifications {
		raw, err := marshalRaw(entry.Expr)
		if err != nil {
			return nil, err
		}
		entries[i] = classModEntryWire{Name: entry.Name, Expr: raw}
	}
	expr, err := marshalRaw(m.Expr)
	if err != nil {
		return nil, err
	}
	return &modificationWire{ClassModifications: entries, Expr: expr}, nil
}

func decodeModification(w *modificationWire) (*Modification, error) {
	if w == nil {
		return nil, nil
	}
	entries := make([]ClassModificationEntry, len(w.ClassModifications))
	for i, e := range w.ClassModifications {
		expr, err := decodeRaw(e.Expr)
		if err != nil {
			return nil, err
		}
		entries[i] = ClassModificationEntry{Name: e.Name, Expr: expr}
	}
	expr, err := decodeRaw(w.Expr)
	if err != nil {
		return nil, err
	}
	return &Modification{ClassModifications: entries, Expr: expr}, nil
}

func marshalDeclarations(decls []ComponentDeclaration) ([]componentDeclarationWire, error) {
	out := make([]componentDeclarationWire, len(decls))
	for i, d := range decls {
		mod, err := marshalModification(d.Modification)
		if err != nil {
			return nil, err
		}
		out[i] = componentDeclarationWire{
			Name: d.Name, Subscripts: d.Subscripts, Modification: mod,
			DescriptionStrings: d.DescriptionStrings,
		}
	}
	return out, nil
}

func decodeDeclarations(wires []componentDeclarationWire) ([]ComponentDeclaration, error) {
	out := make([]ComponentDeclaration, len(wires))
	for i, w := range wires {
		mod, err := decodeModification(w.Modification)
		if err != nil {
			return nil, err
		}
		out[i] = ComponentDeclaration{
			Name: w.Name, Subscripts: w.Subscripts, Modification: mod,
			DescriptionStrings: w.DescriptionStrings,
		}
	}
	return out, nil
}

// --- ClassSpecifier ---

func marshalClassSpecifier(s ClassSpecifier) (json.RawMessage, error) {
	return json.Marshal(s)
}

func decodeClassSpecifier(raw json.RawMessage) (ClassSpecifier, error) {
	var env classSpecifierEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case "LongClassSpecifier":
		var comp *Composition
		if env.Composition != nil {
			c, err := decodeComposition(env.Composition)
			if err != nil {
				return nil, err
			}
			comp = c
		}
		return LongClassSpecifier{Name: env.Name, Composition: comp, EndName: env.EndName}, nil
	case "ShortClassSpecifier":
		base := ir.Name{}
		if env.BaseName != nil {
			base = *env.BaseName
		}
		return ShortClassSpecifier{Name: env.Name, BaseName: base}, nil
	case "DerClassSpecifier":
		tn := ir.Name{}
		if env.TypeName != nil {
			tn = *env.TypeName
		}
		return DerClassSpecifier{Name: env.Name, TypeName: tn}, nil
	default:
		return nil, fmt.Errorf("grammar: unknown class specifier kind %q", env.Kind)
	}
}

func (s LongClassSpecifier) MarshalJSON() ([]byte, error) {
	var comp *wireComp
	if s.Composition != nil {
		w, err := marshalComposition(s.Composition)
		if err != nil {
			return nil, err
		}
		comp = w
	}
	return json.Marshal(classSpecifierEnvelope{Kind: "LongClassSpecifier", Name: s.Name, Composition: comp, EndName: s.EndName})
}

func (s ShortClassSpecifier) MarshalJSON() ([]byte, error) {
	base := s.BaseName
	return json.Marshal(classSpecifierEnvelope{Kind: "ShortClassSpecifier", Name: s.Name, BaseName: &base})
}

func (s DerClassSpecifier) MarshalJSON() ([]byte, error) {
	tn := s.TypeName
	return json.Marshal(classSpecifierEnvelope{Kind: "DerClassSpecifier", Name: s.Name, TypeName: &tn})
}

// --- Element ---

func decodeElement(raw json.RawMessage) (Element, error) {
	var env elementEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case "ElementClass":
		if env.Class == nil {
			return ElementClass{}, nil
		}
		cd, err := decodeWireClassDef(env.Class)
		if err != nil {
			return nil, err
		}
		return ElementClass{Class: cd}, nil
	case "ElementComponent":
		decls, err := decodeDeclarations(env.Declarations)
		if err != nil {
			return nil, err
		}
		tn := ir.Name{}
		if env.TypeName != nil {
			tn = *env.TypeName
		}
		return ElementComponent{TypePrefixes: env.TypePrefixes, TypeName: tn, Declarations: decls}, nil
	case "ElementImport":
		n := ir.Name{}
		if env.Name != nil {
			n = *env.Name
		}
		return ElementImport{Alias: env.Alias, Name: n}, nil
	case "ElementExtends":
		n := ir.Name{}
		if env.Name != nil {
			n = *env.Name
		}
		return ElementExtends{Name: n}, nil
	default:
		return nil, fmt.Errorf("grammar: unknown element kind %q", env.Kind)
	}
}

func (e ElementClass) MarshalJSON() ([]byte, error) {
	var wc *wireClassDef
	if e.Class != nil {
		w, err := marshalWireClassDef(e.Class)
		if err != nil {
			return nil, err
		}
		wc = w
	}
	return json.Marshal(elementEnvelope{Kind: "ElementClass", Class: wc})
}

func (e ElementComponent) MarshalJSON() ([]byte, error) {
	decls, err := marshalDeclarations(e.Declarations)
	if err != nil {
		return nil, err
	}
	tn := e.TypeName
	return json.Marshal(elementEnvelope{Kind: "ElementComponent", TypePrefixes: e.TypePrefixes, TypeName: &tn, Declarations: decls})
}

func (e ElementImport) MarshalJSON() ([]byte, error) {
	n := e.Name
	return json.Marshal(elementEnvelope{Kind: "ElementImport", Alias: e.Alias, Name: &n})
}

func (e ElementExtends) MarshalJSON() ([]byte, error) {
	n := e.Name
	return json.Marshal(elementEnvelope{Kind: "ElementExtends", Name: &n})
}

// --- Section ---

func decodeSection(raw json.RawMessage) (Section, error) {
	var env sectionEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case "EquationSection":
		eqs, err := decodeRawEquationList(env.Equations)
		if err != nil {
			return nil, err
		}
		return EquationSection{Initial: env.Initial, Equations: eqs}, nil
	case "AlgorithmSection":
		stmts, err := decodeRawStatementList(env.Statements)
		if err != nil {
			return nil, err
		}
		return AlgorithmSection{Initial: env.Initial, Statements: stmts}, nil
	default:
		return nil, fmt.Errorf("grammar: unknown section kind %q", env.Kind)
	}
}

func (s EquationSection) MarshalJSON() ([]byte, error) {
	eqs, err := marshalRawEquationList(s.Equations)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sectionEnvelope{Kind: "EquationSection", Initial: s.Initial, Equations: eqs})
}

func (s AlgorithmSection) MarshalJSON() ([]byte, error) {
	stmts, err := marshalRawStatementList(s.Statements)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sectionEnvelope{Kind: "AlgorithmSection", Initial: s.Initial, Statements: stmts})
}

// --- Composition / ClassDefinition wiring ---

func marshalComposition(c *Composition) (*wireComp, error) {
	elements := make([]json.RawMessage, len(c.Elements))
	for i, el := range c.Elements {
		raw, err := json.Marshal(el)
		if err != nil {
			return nil, err
		}
		elements[i] = raw
	}
	sections := make([]json.RawMessage, len(c.Sections))
	for i, sec := range c.Sections {
		raw, err := json.Marshal(sec)
		if err != nil {
			return nil, err
		}
		sections[i] = raw
	}
	return &wireComp{Elements: elements, Sections: sections}, nil
}

func decodeComposition(w *wireComp) (*Composition, error) {
	elements := make([]Element, len(w.Elements))
	for i, raw := range w.Elements {
		el, err := decodeElement(raw)
		if err != nil {
			return nil, err
		}
		elements[i] = el
	}
	sections := make([]Section, len(w.Sections))
	for i, raw := range w.Sections {
		sec, err := decodeSection(raw)
		if err != nil {
			return nil, err
		}
		sections[i] = sec
	}
	return &Composition{Elements: elements, Sections: sections}, nil
}

func marshalWireClassDef(cd *ClassDefinition) (*wireClassDef, error) {
	spec, err := marshalClassSpecifier(cd.Specifier)
	if err != nil {
		return nil, err
	}
	return &wireClassDef{Encapsulated: cd.Encapsulated, Token: cd.Token, Specifier: spec}, nil
}

func decodeWireClassDef(w *wireClassDef) (*ClassDefinition, error) {
	spec, err := decodeClassSpecifier(w.Specifier)
	if err != nil {
		return nil, err
	}
	return &ClassDefinition{Encapsulated: w.Encapsulated, Token: w.Token, Specifier: spec}, nil
}

// MarshalJSON on ClassDefinition routes through wireClassDef so the
// Specifier interface round-trips; this is also the entry point used when
// ClassDefinition appears inside a StoredDefinition's Classes slice.
func (cd *ClassDefinition) MarshalJSON() ([]byte, error) {
	w, err := marshalWireClassDef(cd)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func (cd *ClassDefinition) UnmarshalJSON(data []byte) error {
	var w wireClassDef
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := decodeWireClassDef(&w)
	if err != nil {
		return err
	}
	*cd = *decoded
	return nil
}

// StoredDefinition needs no custom MarshalJSON/UnmarshalJSON of its own:
// Classes is []*ClassDefinition, and ClassDefinition already knows how to
// marshal/unmarshal itself, so the default struct codec recurses correctly.
