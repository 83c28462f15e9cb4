// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reconstruct

import (
	"math"
	"sort"

	"github.com/A6721jpn/vexis/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// ZMinPlane selects every node of the part whose z-coordinate equals
// the part's global minimum within tolerance (spec.md §3, GLOSSARY
// "Reconstruction Rule").
type ZMinPlane struct{}

func (ZMinPlane) Apply(ctx *Context) Result {
	zmin := ctx.NewMesh.ZMin(ctx.Part)
	return Result{IDs: nodesOfPartOnPlane(ctx.NewMesh, ctx.Part, zmin, ctx.Eps())}
}

func nodesOfPartOnPlane(m *geom.Mesh, part string, z, eps float64) []int {
	seen := make(map[int]bool)
	var ids []int
	for _, e := range m.ElemsInPart(part) {
		for _, n := range e.Nodes {
			if seen[n] {
				continue
			}
			seen[n] = true
			if math.Abs(m.Nodes[n].Z-z) <= eps {
				ids = append(ids, n)
			}
		}
	}
	sort.Ints(ids)
	return ids
}

// ZDownExceptBottom selects boundary faces of the part whose outward
// normal points down beyond θ (normal·(0,0,-1) > cosθ) and whose
// centroid sits strictly above z_min(part)+ε, so it captures fillets
// and chamfers while excluding the flat ground face (spec.md §4.5).
type ZDownExceptBottom struct{}

func (ZDownExceptBottom) Apply(ctx *Context) Result {
	cosTheta := math.Cos(ctx.NormalAngleDeg * math.Pi / 180)
	eps := ctx.Eps()
	zmin := ctx.NewMesh.ZMin(ctx.Part)
	var faces []geom.Face
	for _, f := range ctx.NewMesh.BoundaryFaces(ctx.Part) {
		n := ctx.NewMesh.FaceNormal(f)
		c := ctx.NewMesh.FaceCentroid(f)
		if r3.Dot(n, r3.Vec{X: 0, Y: 0, Z: -1}) > cosTheta && c.Z > zmin+eps {
			faces = append(faces, f)
		}
	}
	return Result{Faces: faces}
}

// ZUp selects boundary faces of the part whose outward normal points
// up beyond θ (normal·(0,0,1) > cosθ), with no z_min exclusion — the
// top-contact counterpart to ZDownExceptBottom (spec.md §4.5, the
// "z_up" geometric rule).
type ZUp struct{}

func (ZUp) Apply(ctx *Context) Result {
	cosTheta := math.Cos(ctx.NormalAngleDeg * math.Pi / 180)
	var faces []geom.Face
	for _, f := range ctx.NewMesh.BoundaryFaces(ctx.Part) {
		n := ctx.NewMesh.FaceNormal(f)
		if r3.Dot(n, r3.Vec{X: 0, Y: 0, Z: 1}) > cosTheta {
			faces = append(faces, f)
		}
	}
	return Result{Faces: faces}
}

// RelativeBounds selects boundary faces (for SurfaceKind) and nodes
// (for NodeSetKind) whose position lies inside bbox(part) scaled by
// six fractions (fx_lo, fy_lo, fz_lo, fx_hi, fy_hi, fz_hi) — Strategy
// A in both cases (spec.md §4.5; grounded on
// original_source/src/mesh_swap/set_reconstructor.py's NodeSet branch,
// which filters nodes directly by relative bounds rather than faces,
// and its Surface "A" branch, which filters face centroids). A Rule
// populates whichever field its caller's Kind reads; both are always
// computed since Apply must stay a pure function of ctx alone.
type RelativeBounds struct {
	FxLo, FyLo, FzLo float64
	FxHi, FyHi, FzHi float64
}

func (b RelativeBounds) Apply(ctx *Context) Result {
	bbox := ctx.NewMesh.BBox(ctx.Part)
	lo := r3.Vec{
		X: bbox.Min.X + b.FxLo*(bbox.Max.X-bbox.Min.X),
		Y: bbox.Min.Y + b.FyLo*(bbox.Max.Y-bbox.Min.Y),
		Z: bbox.Min.Z + b.FzLo*(bbox.Max.Z-bbox.Min.Z),
	}
	hi := r3.Vec{
		X: bbox.Min.X + b.FxHi*(bbox.Max.X-bbox.Min.X),
		Y: bbox.Min.Y + b.FyHi*(bbox.Max.Y-bbox.Min.Y),
		Z: bbox.Min.Z + b.FzHi*(bbox.Max.Z-bbox.Min.Z),
	}
	inBounds := func(p r3.Vec) bool {
		return p.X >= lo.X && p.X <= hi.X && p.Y >= lo.Y && p.Y <= hi.Y && p.Z >= lo.Z && p.Z <= hi.Z
	}

	var faces []geom.Face
	for _, f := range ctx.NewMesh.BoundaryFaces(ctx.Part) {
		if inBounds(ctx.NewMesh.FaceCentroid(f)) {
			faces = append(faces, f)
		}
	}

	seen := make(map[int]bool)
	var ids []int
	for _, e := range ctx.NewMesh.ElemsInPart(ctx.Part) {
		for _, n := range e.Nodes {
			if seen[n] {
				continue
			}
			seen[n] = true
			if inBounds(ctx.NewMesh.Nodes[n]) {
				ids = append(ids, n)
			}
		}
	}
	sort.Ints(ids)

	return Result{IDs: ids, Faces: faces}
}

// CrossPartProximity selects boundary faces of the part whose nearest
// boundary-face centroid in Other lies within D. When D is zero,
// ctx.CrossPartDistanceRel (0.05 by configuration default) ×
// diagonal(bbox(whole mesh)) applies (spec.md §4.5,
// resolved per the diagonal-vs-edge Open Question using
// original_source's ProximityStrategy, which measures
// np.linalg.norm(bbox[1]-bbox[0]) — the diagonal norm).
type CrossPartProximity struct {
	Other string
	D     float64
}

func (r CrossPartProximity) Apply(ctx *Context) Result {
	otherFaces := ctx.NewMesh.BoundaryFaces(r.Other)
	d := r.D
	if d == 0 {
		d = ctx.CrossPartDistanceRel * ctx.NewMesh.BBox("").Diagonal()
	}
	if len(otherFaces) == 0 {
		return Result{}
	}
	set := geom.NewCentroidSet(ctx.NewMesh, otherFaces)
	tree := geom.BuildTree(set)
	var faces []geom.Face
	for _, f := range ctx.NewMesh.BoundaryFaces(ctx.Part) {
		if geom.NearestFaceDistance(tree, len(otherFaces), ctx.NewMesh, f) <= d {
			faces = append(faces, f)
		}
	}
	return Result{Faces: faces}
}

// Axis names a coordinate axis a cylindrical selection is centred on.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// AxisCylinder selects nodes of the part whose radial distance from
// Axis falls within [RMin, RMax] — the natural selection shape for an
// axisymmetric dome's inner/outer rim (spec.md §3).
type AxisCylinder struct {
	Axis       Axis
	RMin, RMax float64
}

func (r AxisCylinder) Apply(ctx *Context) Result {
	seen := make(map[int]bool)
	var ids []int
	for _, e := range ctx.NewMesh.ElemsInPart(ctx.Part) {
		for _, n := range e.Nodes {
			if seen[n] {
				continue
			}
			seen[n] = true
			radius := radialDistance(ctx.NewMesh.Nodes[n], r.Axis)
			if radius >= r.RMin && radius <= r.RMax {
				ids = append(ids, n)
			}
		}
	}
	sort.Ints(ids)
	return Result{IDs: ids}
}

func radialDistance(p r3.Vec, axis Axis) float64 {
	switch axis {
	case AxisX:
		return math.Hypot(p.Y, p.Z)
	case AxisY:
		return math.Hypot(p.X, p.Z)
	default:
		return math.Hypot(p.X, p.Y)
	}
}

// Intersect combines rules by set intersection: a node/element id or
// face survives only if every sub-rule's result contains it. Rules
// mixing node-id output with face output intersect independently per
// field, which lets an AxisCylinder+RelativeBounds combination narrow
// a node selection on two axes at once.
type Intersect struct {
	Rules []Rule
}

func (ix Intersect) Apply(ctx *Context) Result {
	if len(ix.Rules) == 0 {
		return Result{}
	}
	acc := ix.Rules[0].Apply(ctx)
	for _, r := range ix.Rules[1:] {
		next := r.Apply(ctx)
		acc = Result{
			IDs:   intersectInts(acc.IDs, next.IDs),
			Faces: intersectFaces(acc.Faces, next.Faces),
		}
	}
	return acc
}

func intersectInts(a, b []int) []int {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[int]bool, len(b))
	for _, id := range b {
		set[id] = true
	}
	var out []int
	for _, id := range a {
		if set[id] {
			out = append(out, id)
		}
	}
	return out
}

func intersectFaces(a, b []geom.Face) []geom.Face {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	set := make(map[geom.Face]bool, len(b))
	for _, f := range b {
		set[f] = true
	}
	var out []geom.Face
	for _, f := range a {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}
