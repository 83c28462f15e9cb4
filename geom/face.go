// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"sort"

	"gonum.org/v1/gonum/spatial/r3"
)

// Face is derived, never stored by pointer: it is identified by the
// owning element's index and a local face number, and recomputes its
// node tuple from the mesh on demand. This is the Design Note §9
// answer to "mesh graph cycles" — a face never holds a back-reference
// to its element, it holds an index.
type Face struct {
	ElemIndex int
	LocalFace int
}

// Nodes returns the face's node indices, in canonical winding order,
// by looking them up from the owning element.
func (f Face) Nodes(m *Mesh) []int {
	e := m.Elems[f.ElemIndex]
	locals := e.Type.FaceLocalVerts(f.LocalFace)
	nodes := make([]int, len(locals))
	for i, l := range locals {
		nodes[i] = e.Nodes[l]
	}
	return nodes
}

// signature is the face's unordered node-index multiset, used as a
// map key to find faces that appear in more than one element. Node
// indices within an element are always distinct, so a sorted slice
// serialized to a string is a safe canonical key.
func signature(nodes []int) string {
	sorted := make([]int, len(nodes))
	copy(sorted, nodes)
	sort.Ints(sorted)
	// a comma after every id avoids '10' vs '1','0' collisions.
	buf := make([]byte, 0, len(sorted)*11)
	for _, n := range sorted {
		buf = appendFixedInt(buf, n)
	}
	return string(buf)
}

func appendFixedInt(buf []byte, n int) []byte {
	var tmp [11]byte
	neg := n < 0
	if neg {
		n = -n
	}
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	if neg {
		i--
		tmp[i] = '-'
	}
	buf = append(buf, tmp[i:]...)
	buf = append(buf, ',')
	return buf
}

// BoundaryFaces returns every boundary face of part: a face is a
// boundary face iff its node-multiset signature appears in exactly
// one element of the part (invariant 1, spec.md §8). Results are
// cached per part since the mesh's connectivity is immutable after
// construction (only node coordinates change, under Aligner).
func (m *Mesh) BoundaryFaces(part string) []Face {
	if cached, ok := m.boundaryCache[part]; ok {
		return cached
	}
	elems := m.ElemsInPart(part)
	counts := make(map[string]int)
	first := make(map[string]Face)
	for _, e := range elems {
		for lf := 0; lf < e.Type.NumFaces(); lf++ {
			face := Face{ElemIndex: e.Index, LocalFace: lf}
			sig := signature(face.Nodes(m))
			counts[sig]++
			if counts[sig] == 1 {
				first[sig] = face
			}
		}
	}
	// Never rely on implicit emptiness here: a zero count is tested
	// by explicit comparison, never by a truthy/falsy map lookup,
	// because a silently-lost boundary face here breaks every
	// downstream contact and constraint selection (spec.md §4.1).
	var out []Face
	for sig, c := range counts {
		if c == 1 {
			out = append(out, first[sig])
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ElemIndex != out[j].ElemIndex {
			return out[i].ElemIndex < out[j].ElemIndex
		}
		return out[i].LocalFace < out[j].LocalFace
	})
	m.boundaryCache[part] = out
	return out
}

// FaceCentroid returns the mean of the face's node positions.
func (m *Mesh) FaceCentroid(f Face) r3.Vec {
	nodes := f.Nodes(m)
	var sum r3.Vec
	for _, n := range nodes {
		sum = r3.Add(sum, m.Nodes[n])
	}
	inv := 1.0 / float64(len(nodes))
	return r3.Scale(inv, sum)
}

// elemCentroid returns the mean of all of an element's node
// positions, used to orient a face's normal outward.
func (m *Mesh) elemCentroid(elemIndex int) r3.Vec {
	e := m.Elems[elemIndex]
	var sum r3.Vec
	for _, n := range e.Nodes {
		sum = r3.Add(sum, m.Nodes[n])
	}
	return r3.Scale(1.0/float64(len(e.Nodes)), sum)
}

// FaceNormal returns the outward unit normal of a boundary face: the
// cross product of two non-collinear edges of the face's canonical
// ordering, oriented away from the owning element's centroid
// (invariant 2, spec.md §8). Grounded on
// original_source/.../geometry_utils.py's GeometricRuleStrategy
// _calculate_normal (v1 = p1-p0, v2 = p3-p0, n = v1 x v2).
func (m *Mesh) FaceNormal(f Face) r3.Vec {
	nodes := f.Nodes(m)
	p0 := m.Nodes[nodes[0]]
	p1 := m.Nodes[nodes[1]]
	// Walk forward from node 2 until a non-collinear edge is found,
	// so degenerate quad/tri windings still produce a valid normal.
	var n r3.Vec
	for k := 2; k < len(nodes); k++ {
		v1 := r3.Sub(p1, p0)
		v2 := r3.Sub(m.Nodes[nodes[k]], p0)
		n = r3.Cross(v1, v2)
		if r3.Norm(n) > 1e-14 {
			break
		}
	}
	n = r3.Unit(n)

	centroid := m.FaceCentroid(f)
	elemC := m.elemCentroid(f.ElemIndex)
	if r3.Dot(n, r3.Sub(centroid, elemC)) < 0 {
		n = r3.Scale(-1, n)
	}
	return n
}
