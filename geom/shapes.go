// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// faceLocalVerts holds, for an element type, the local vertex indices
// of each of its faces in canonical (outward-consistent) winding
// order. This is the Go generalization of the teacher's shp.Shape
// (FaceLocalVerts [][]int) table, extended with the hex8/hex20 face
// windings from the mesh-swap prototype's extract_boundary_faces.
var faceLocalVerts = map[ElemType][][]int{
	Hex8: {
		{0, 3, 2, 1}, // bottom
		{4, 5, 6, 7}, // top
		{0, 1, 5, 4}, // front
		{1, 2, 6, 5}, // right
		{2, 3, 7, 6}, // back
		{3, 0, 4, 7}, // left
	},
	Hex20: {
		{0, 3, 2, 1, 11, 10, 9, 8},
		{4, 5, 6, 7, 12, 13, 14, 15},
		{0, 1, 5, 4, 8, 17, 12, 16},
		{1, 2, 6, 5, 9, 18, 13, 17},
		{2, 3, 7, 6, 10, 19, 14, 18},
		{3, 0, 4, 7, 11, 16, 15, 19},
	},
	Tet4: {
		{0, 2, 1},
		{0, 1, 3},
		{1, 2, 3},
		{2, 0, 3},
	},
	Tet10: {
		{0, 2, 1, 6, 5, 4},
		{0, 1, 3, 4, 8, 7},
		{1, 2, 3, 5, 9, 8},
		{2, 0, 3, 6, 7, 9},
	},
	Wedge: {
		{0, 2, 1},
		{3, 4, 5},
		{0, 1, 4, 3},
		{1, 2, 5, 4},
		{2, 0, 3, 5},
	},
	Pyramid: {
		{0, 3, 2, 1},
		{0, 1, 4},
		{1, 2, 4},
		{2, 3, 4},
		{3, 0, 4},
	},
}

// Arity returns the number of nodes an element of this type has.
func (t ElemType) Arity() int {
	switch t {
	case Hex8:
		return 8
	case Hex20:
		return 20
	case Tet4:
		return 4
	case Tet10:
		return 10
	case Wedge:
		return 6
	case Pyramid:
		return 5
	}
	return 0
}

// NumFaces returns the number of local faces an element of this type
// has.
func (t ElemType) NumFaces() int {
	return len(faceLocalVerts[t])
}

// FaceLocalVerts returns the local vertex indices (into the element's
// Nodes slice) of the given local face number, in canonical winding
// order.
func (t ElemType) FaceLocalVerts(localFace int) []int {
	faces := faceLocalVerts[t]
	if localFace < 0 || localFace >= len(faces) {
		return nil
	}
	return faces[localFace]
}
