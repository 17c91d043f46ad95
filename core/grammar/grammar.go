// Package grammar holds the hierarchical parse tree an external Modelica
// parser delivers: one node type per grammar production, still carrying
// the language's precedence cascade and short/long class-specifier forms
// uncollapsed. core/lower turns this into the flat core/ir tree; nothing
// downstream of lowering imports this package.
package grammar

import "modelica-dae/core/ir"

// StoredDefinition is the root production: an optional `within` clause
// followed by one or more class definitions.
type StoredDefinition struct {
	Within  *ir.Name
	Classes []*ClassDefinition
}

// ClassDefinition is `[encapsulated] class-prefixes class-specifier ;`.
type ClassDefinition struct {
	Encapsulated bool
	Token        ir.Token
	Specifier    ClassSpecifier
}

// ClassSpecifier is the sum type over the three specifier forms the
// grammar distinguishes; only LongClassSpecifier is implemented by
// lowering, the others surface as Unimplemented.
type ClassSpecifier interface {
	isClassSpecifier()
}

// LongClassSpecifier is `identifier description-string composition
// "end" identifier`, the only form carrying a full Composition.
type LongClassSpecifier struct {
	Name        ir.Token
	Composition *Composition
	EndName     ir.Token
}

func (LongClassSpecifier) isClassSpecifier() {}

// ShortClassSpecifier is `identifier "=" base-prefix name [array-subscripts]
// [class-modification] comment`, e.g. `type Voltage = Real(unit="V")`.
type ShortClassSpecifier struct {
	Name     ir.Token
	BaseName ir.Name
}

func (ShortClassSpecifier) isClassSpecifier() {}

// DerClassSpecifier is `identifier "=" der (type-name, identifier-list)
// comment`.
type DerClassSpecifier struct {
	Name     ir.Token
	TypeName ir.Name
}

func (DerClassSpecifier) isClassSpecifier() {}

// Composition is a long class specifier's body: an element list followed
// by zero or more equation/algorithm sections, in source order.
type Composition struct {
	Elements []Element
	Sections []Section
}

// Element is a sum type over what can appear in an element-list: a nested
// class definition, a component clause, an import clause, or an extends
// clause.
type Element interface {
	isElement()
}

// ElementClass wraps a nested class definition appearing as an element.
type ElementClass struct {
	Class *ClassDefinition
}

func (ElementClass) isElement() {}

// ElementComponent is one `type-prefixes type-specifier component-list ;`
// component-clause production, still holding its declarations ungrouped.
type ElementComponent struct {
	TypePrefixes TypePrefixes
	TypeName     ir.Name
	Declarations []ComponentDeclaration
}

func (ElementComponent) isElement() {}

// TypePrefixes is the `[flow|stream] [discrete|parameter|constant]
// [input|output]` prefix sequence preceding a type-specifier.
type TypePrefixes struct {
	Flow      bool
	Stream    bool
	Discrete  bool
	Parameter bool
	Constant  bool
	Input     bool
	Output    bool
}

// ComponentDeclaration is one `declaration comment` inside a component-list.
type ComponentDeclaration struct {
	Name               ir.Token
	Subscripts         []Subscript
	Modification       *Modification
	DescriptionStrings []ir.Token
}

// Modification is `"=" expression` or `class-modification ["=" expression]`.
type Modification struct {
	ClassModifications []ClassModificationEntry
	Expr               Expression // nil if absent
}

// ClassModificationEntry is one `element-modification` inside a
// class-modification's parenthesized argument list.
type ClassModificationEntry struct {
	Name ir.Name
	Expr Expression // nil for a bare `each final name` with no "=" part
}

// ElementImport is an `import name [ "=" name ] ;` clause.
type ElementImport struct {
	Alias ir.Token // zero value if absent
	Name  ir.Name
}

func (ElementImport) isElement() {}

// ElementExtends is an `extends name [class-modification] ;` clause.
type ElementExtends struct {
	Name ir.Name
}

func (ElementExtends) isElement() {}

// Section is a sum type over the four section kinds a composition may
// contain, each tagged with whether it is an `initial` section.
type Section interface {
	isSection()
}

// EquationSection is an `[initial] equation` block.
type EquationSection struct {
	Initial   bool
	Equations []Equation
}

func (EquationSection) isSection() {}

// AlgorithmSection is an `[initial] algorithm` block.
type AlgorithmSection struct {
	Initial    bool
	Statements []Statement
}

func (AlgorithmSection) isSection() {}
