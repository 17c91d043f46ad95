package ir

// ClassDefinition is a single Modelica class's lowered contents: its
// nested classes, components, extends, imports, equations, initial
// equations, algorithms, and initial algorithms — all order-preserving.
type ClassDefinition struct {
	Name         Token
	Encapsulated bool

	Classes    *OrderedMap[string, *ClassDefinition]
	Components *OrderedMap[string, *Component]

	Extends []Extend
	Imports []string

	Equations         []Equation
	InitialEquations  []Equation
	Algorithms        [][]Statement
	InitialAlgorithms [][]Statement
}

// NewClassDefinition creates an empty, ready-to-populate ClassDefinition.
func NewClassDefinition(name Token) *ClassDefinition {
	return &ClassDefinition{
		Name:       name,
		Classes:    NewOrderedMap[string, *ClassDefinition](),
		Components: NewOrderedMap[string, *Component](),
	}
}

// Clone returns a deep-enough copy for the flattener to mutate without
// aliasing the original: Classes/Components get fresh backing maps, but
// Component/Equation/Statement values themselves are treated as immutable
// and shared (the flattener replaces, never mutates, their fields).
func (c *ClassDefinition) Clone() *ClassDefinition {
	out := &ClassDefinition{
		Name:              c.Name,
		Encapsulated:      c.Encapsulated,
		Classes:           c.Classes.Clone(),
		Components:        c.Components.Clone(),
		Extends:           append([]Extend(nil), c.Extends...),
		Imports:           append([]string(nil), c.Imports...),
		Equations:         append([]Equation(nil), c.Equations...),
		InitialEquations:  append([]Equation(nil), c.InitialEquations...),
		Algorithms:        append([][]Statement(nil), c.Algorithms...),
		InitialAlgorithms: append([][]Statement(nil), c.InitialAlgorithms...),
	}
	return out
}

// StoredDefinition is the top-level lowering output: an optional `within`
// clause and an ordered mapping from class name to ClassDefinition.
type StoredDefinition struct {
	Within  *Name
	Classes *OrderedMap[string, *ClassDefinition]
}

// NewStoredDefinition creates an empty StoredDefinition.
func NewStoredDefinition() *StoredDefinition {
	return &StoredDefinition{Classes: NewOrderedMap[string, *ClassDefinition]()}
}
