package ir

import "strings"

// Name is a non-empty ordered sequence of identifier tokens, joined with
// "." when stringified. Used for dotted references such as type names and
// within clauses.
type Name struct {
	Parts []Token
}

// String joins the name's parts with ".".
func (n Name) String() string {
	texts := make([]string, len(n.Parts))
	for i, p := range n.Parts {
		texts[i] = p.Text
	}
	return strings.Join(texts, ".")
}

// Empty reports whether the name carries no parts.
func (n Name) Empty() bool { return len(n.Parts) == 0 }

// SubscriptKind tags a Subscript as either a colon range or an expression.
type SubscriptKind int

const (
	SubscriptColon SubscriptKind = iota
	SubscriptExpr
)

// Subscript is either an unbounded colon range or an indexing expression.
type Subscript struct {
	Kind SubscriptKind
	Expr Expression // valid when Kind == SubscriptExpr
}

// ComponentRefPart is one dotted segment of a ComponentReference: an
// identifier plus an optional ordered list of subscripts.
type ComponentRefPart struct {
	Ident      string
	Subscripts []Subscript
}

// ComponentReference is a qualified variable reference, e.g. `a.b[i].c`.
type ComponentReference struct {
	// Local is true if the reference began with a leading "." meaning
	// root-anchored (bypassing lexical scoping).
	Local bool

	// Parts is a non-empty ordered list of dotted segments.
	Parts []ComponentRefPart
}

// String renders the reference in dotted form, including a leading "."
// when Local is set.
func (c ComponentReference) String() string {
	var b strings.Builder
	if c.Local {
		b.WriteByte('.')
	}
	for i, p := range c.Parts {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(p.Ident)
	}
	return b.String()
}

// First returns the identifier of the reference's first part. Parts is
// guaranteed non-empty by construction.
func (c ComponentReference) First() string {
	return c.Parts[0].Ident
}

// SimpleRef builds a single-part, non-local component reference for the
// common case of a plain variable name.
func SimpleRef(ident string) ComponentReference {
	return ComponentReference{Parts: []ComponentRefPart{{Ident: ident}}}
}

// WithPrefix returns a copy of c with a new leading part inserted before
// its existing parts, used by ScopePusher to qualify a bare reference with
// an enclosing component's name.
func (c ComponentReference) WithPrefix(ident string) ComponentReference {
	parts := make([]ComponentRefPart, 0, len(c.Parts)+1)
	parts = append(parts, ComponentRefPart{Ident: ident})
	parts = append(parts, c.Parts...)
	return ComponentReference{Local: c.Local, Parts: parts}
}

// CollapseFirstTwo merges the reference's first two parts into a single
// identifier "first_second", used by SubCompNamer. Panics if there are
// fewer than two parts; callers must check len(Parts) > 1 first.
func (c ComponentReference) CollapseFirstTwo(sep string) ComponentReference {
	merged := c.Parts[0].Ident + sep + c.Parts[1].Ident
	parts := make([]ComponentRefPart, 0, len(c.Parts)-1)
	parts = append(parts, ComponentRefPart{Ident: merged, Subscripts: c.Parts[1].Subscripts})
	parts = append(parts, c.Parts[2:]...)
	return ComponentReference{Local: c.Local, Parts: parts}
}
