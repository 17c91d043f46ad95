// Package flatten implements the Flattener: it takes a lowered
// StoredDefinition plus a dotted model-class path and produces one flat
// ClassDefinition with every extends clause inlined and every component
// whose declared type is itself a top-level class expanded in place.
package flatten

import (
	"strings"

	"modelica-dae/core/ir"
	"modelica-dae/core/visitor"
	"modelica-dae/internal/errors"
)

// Flatten resolves modelClassPath (a dotted name, navigating nested
// classes) to a class, then expands it. Extends and component-type
// lookups are resolved against def.Classes only — the top-level
// namespace — never against nested classes, matching the scope decision
// that a class can only extend or instantiate something visible at the
// top level of its StoredDefinition.
func Flatten(def *ir.StoredDefinition, modelClassPath string) (*ir.ClassDefinition, error) {
	parts := strings.Split(modelClassPath, ".")
	if len(parts) == 0 || parts[0] == "" {
		return nil, errors.MalformedInput("empty model class path", ir.SourceLocation{})
	}

	cur, ok := def.Classes.Get(parts[0])
	if !ok {
		return nil, errors.ClassNotFound(parts[0])
	}
	for _, part := range parts[1:] {
		next, ok := cur.Classes.Get(part)
		if !ok {
			return nil, errors.ClassNotFound(modelClassPath)
		}
		cur = next
	}

	mainClass := cur.Clone()
	mangledName := strings.Join(parts, "_")
	mainClass.Name = ir.Token{Text: mangledName, Location: cur.Name.Location}

	fclass := mainClass.Clone()

	for _, ext := range mainClass.Extends {
		className := ext.Comp.String()
		extClass, ok := def.Classes.Get(className)
		if !ok {
			return nil, errors.ClassNotFound(className)
		}
		// Later duplicates overwrite: a base-class component whose name the
		// instantiating class already declared replaces that declaration's
		// value but keeps its position, since Components.Set never reorders
		// an existing key. Base-class equations are appended. Extends are
		// applied before component expansion runs below.
		for _, name := range extClass.Components.Keys() {
			comp, _ := extClass.Components.Get(name)
			fclass.Components.Set(name, comp)
		}
		fclass.Equations = append(fclass.Equations, extClass.Equations...)
	}

	for _, compName := range mainClass.Components.Keys() {
		comp, _ := mainClass.Components.Get(compName)
		compClass, ok := def.Classes.Get(comp.TypeName.String())
		if !ok {
			continue
		}

		pusher := visitor.NewScopePusher(compName)
		for _, eq := range compClass.Equations {
			fclass.Equations = append(fclass.Equations, visitor.WalkEquation(pusher, eq))
		}

		namer := &visitor.SubCompNamer{Comp: compName}
		visitor.WalkClassDefinition(namer, fclass)

		for _, subName := range compClass.Components.Keys() {
			subComp, _ := compClass.Components.Get(subName)
			mangled := compName + "_" + subName
			scomp := *subComp
			scomp.Name = mangled
			fclass.Components.Set(mangled, &scomp)
		}

		fclass.Components.Delete(compName)
	}

	return fclass, nil
}
