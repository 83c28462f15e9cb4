// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// BBox is an axis-aligned bounding box.
type BBox struct {
	Min, Max r3.Vec
}

// Diagonal returns the Euclidean length of the box's diagonal.
func (b BBox) Diagonal() float64 {
	return r3.Norm(r3.Sub(b.Max, b.Min))
}

// MaxEdge returns the length of the box's longest edge.
func (b BBox) MaxEdge() float64 {
	d := r3.Sub(b.Max, b.Min)
	return math.Max(d.X, math.Max(d.Y, d.Z))
}

// Contains reports whether p lies within the box (inclusive).
func (b BBox) Contains(p r3.Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// BBox returns the bounding box over all nodes of part, or the whole
// mesh if part is empty.
func (m *Mesh) BBox(part string) BBox {
	var ids map[int]bool
	if part != "" {
		ids = make(map[int]bool)
		for _, e := range m.ElemsInPart(part) {
			for _, n := range e.Nodes {
				ids[n] = true
			}
		}
	}
	first := true
	var box BBox
	consider := func(p r3.Vec) {
		if first {
			box.Min, box.Max = p, p
			first = false
			return
		}
		box.Min = r3.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y), Z: math.Min(box.Min.Z, p.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y), Z: math.Max(box.Max.Z, p.Z)}
	}
	if ids == nil {
		for _, p := range m.Nodes {
			consider(p)
		}
	} else {
		for n := range ids {
			consider(m.Nodes[n])
		}
	}
	return box
}

// Eps returns the default coordinate-comparison tolerance: relTol
// times the largest bounding-box edge of the whole mesh (spec.md
// §4.1's "ε defaults to 1e-6 times the largest bounding-box edge").
func (m *Mesh) Eps(relTol float64) float64 {
	return relTol * m.BBox("").MaxEdge()
}

// NodesOnPlane returns the indices of nodes whose coordinate along
// axis (0=x, 1=y, 2=z) equals value within tolerance eps.
func (m *Mesh) NodesOnPlane(axis int, value, eps float64) []int {
	var out []int
	for i, p := range m.Nodes {
		var c float64
		switch axis {
		case 0:
			c = p.X
		case 1:
			c = p.Y
		default:
			c = p.Z
		}
		if math.Abs(c-value) <= eps {
			out = append(out, i)
		}
	}
	return out
}

// ZMin returns the minimum z-coordinate over the nodes of part.
func (m *Mesh) ZMin(part string) float64 {
	return m.BBox(part).Min.Z
}
