// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reconstruct rebuilds every named selection (node set,
// element set, surface) against a swapped-in mesh, using a per-name
// rule table with a geometric-inference fallback for names the table
// does not know about (spec.md §4.5).
package reconstruct

import "github.com/A6721jpn/vexis/geom"

// Kind is the selection's XML shape, which determines whether a
// Rule's output is read as node ids, element ids, or faces.
type Kind int

const (
	NodeSetKind Kind = iota
	ElementSetKind
	SurfaceKind
)

// Context carries everything a Rule needs to evaluate itself against
// the new mesh: the part it is reconstructing for, both meshes (the
// old one only matters to rules that compare against the template's
// geometry), and the numeric tolerances from configuration. It is the
// "immutable context value" Design Note §9 calls for in place of
// ambient globals.
type Context struct {
	OldMesh *geom.Mesh
	NewMesh *geom.Mesh
	Part    string

	EpsRel               float64
	NormalAngleDeg       float64
	CrossPartDistanceRel float64
}

// Eps returns the new mesh's absolute coordinate tolerance.
func (c *Context) Eps() float64 {
	return c.NewMesh.Eps(c.EpsRel)
}

// Result is what a Rule selects: node/element ids (for NodeSetKind
// and ElementSetKind respectively) or faces (for SurfaceKind). A rule
// only ever populates the field its variant produces.
type Result struct {
	IDs   []int
	Faces []geom.Face
}

// Empty reports whether the result carries no ids and no faces,
// using explicit length checks per Design Note §9's warning about
// ambiguous truthiness.
func (r Result) Empty() bool {
	return len(r.IDs) == 0 && len(r.Faces) == 0
}

// Rule is a closed set of reconstruction strategies (Design Note §9:
// "a tagged variant of rule kinds with a single apply operation per
// variant; no class hierarchy"). Apply must be a pure function of ctx
// — no rule may hold mutable state across calls.
type Rule interface {
	Apply(ctx *Context) Result
}
