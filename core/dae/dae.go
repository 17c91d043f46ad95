// Package dae implements the DAE partitioner: it classifies a flattened
// class's components into the nine bucket slots and routes its equations
// into fx/fz/fm/fc, per the classification rules in the Design Notes.
package dae

import "modelica-dae/core/ir"

// Dae is the canonical Differential-Algebraic-Equation partitioning:
//
//	v := [p; t; x_dot; x; y; z; m; pre(z); pre(m)]
//	0  = fx(v, c)
//	z  = fz(v, c) at events, pre(z) otherwise
//	m := fm(v, c)
//	c  := fc(relation, v)
type Dae struct {
	P    []*ir.Component // parameters
	CP   []*ir.Component // constants
	T    *ir.Component   // time
	X    []*ir.Component // continuous states
	XDot []*ir.Component // derivatives of continuous states
	Y    []*ir.Component // algebraic variables
	U    []*ir.Component // inputs
	PreZ []*ir.Component // z immediately before the current event
	Z    []*ir.Component // real discrete variables
	M    []*ir.Component // discrete-valued (Integer/Boolean) variables

	C        []ir.Expression // condition expressions lifted from when/if
	Relation []ir.Expression // the relational subset of C

	FX []ir.Equation   // continuous-time equations
	FZ []ir.Equation   // event-update equations, real discrete
	FM []ir.Equation   // event-update equations, other discrete
	FC [][]ir.Equation // one callback body per entry of C

	// Connects holds connect equations untranslated, per the scope
	// decision that connect resolution (sum-to-zero for flow, equality
	// for potential variables) is not implemented here.
	Connects []ir.ConnectEquation
}
