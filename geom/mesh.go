// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom implements the in-memory mesh representation and the
// geometric predicates the set-reconstruction engine is built on:
// bounding boxes, boundary-face extraction, face normals and
// centroids, and nearest-neighbour queries.
package geom

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"
)

// ElemType is the shape of an element's connectivity.
type ElemType int

const (
	Hex8 ElemType = iota
	Hex20
	Tet4
	Tet10
	Wedge
	Pyramid
)

func (t ElemType) String() string {
	switch t {
	case Hex8:
		return "hex8"
	case Hex20:
		return "hex20"
	case Tet4:
		return "tet4"
	case Tet10:
		return "tet10"
	case Wedge:
		return "wedge"
	case Pyramid:
		return "pyramid"
	}
	return "unknown"
}

// ElemTypeByName maps the mesher's cell-type strings to ElemType.
func ElemTypeByName(name string) (ElemType, bool) {
	switch name {
	case "hex8":
		return Hex8, true
	case "hex20":
		return Hex20, true
	case "tet4":
		return Tet4, true
	case "tet10":
		return Tet10, true
	case "wedge", "penta6":
		return Wedge, true
	case "pyramid":
		return Pyramid, true
	}
	return 0, false
}

// Element is a single volumetric cell: a node-index tuple, its owning
// part, and a stable index in Mesh.Elems (its position in E).
type Element struct {
	Type  ElemType
	Nodes []int // indices into Mesh.Nodes, arity of Type
	Part  string
	Index int
}

// PartRange is the contiguous index range of Mesh.Elems belonging to
// one part: [Start, End).
type PartRange struct {
	Start, End int
}

// Mesh is (N, E, P): an ordered point sequence, an ordered element
// sequence, and a part-name -> element-range map. Nodes and elements
// are held in flat slices and referenced everywhere by integer index
// (never by pointer) so that face<->element back-references never
// form an owning-pointer cycle.
type Mesh struct {
	Nodes []r3.Vec
	Elems []Element
	Parts map[string]PartRange

	// partOrder preserves the order parts were declared in, so that
	// PartNames() returns a stable, deterministic iteration order.
	partOrder []string

	boundaryCache map[string][]Face
}

// NewMesh builds a Mesh from nodes, elements (already grouped and
// ordered contiguously by part) and the part ranges, validating the
// two invariants from the data model: every node index referenced by
// an element is in range, and part ranges are disjoint and cover E.
func NewMesh(nodes []r3.Vec, elems []Element, partOrder []string, parts map[string]PartRange) (*Mesh, error) {
	for i := range elems {
		elems[i].Index = i
		for _, n := range elems[i].Nodes {
			if n < 0 || n >= len(nodes) {
				return nil, fmt.Errorf("geom: element %d references out-of-range node %d (have %d nodes)", i, n, len(nodes))
			}
		}
	}
	covered := make([]bool, len(elems))
	for _, name := range partOrder {
		pr, ok := parts[name]
		if !ok {
			return nil, fmt.Errorf("geom: part %q listed in partOrder but missing from parts map", name)
		}
		if pr.Start < 0 || pr.End > len(elems) || pr.Start > pr.End {
			return nil, fmt.Errorf("geom: part %q has invalid range [%d,%d) over %d elements", name, pr.Start, pr.End, len(elems))
		}
		for i := pr.Start; i < pr.End; i++ {
			if covered[i] {
				return nil, fmt.Errorf("geom: element %d covered by more than one part range", i)
			}
			covered[i] = true
			if elems[i].Part != name {
				return nil, fmt.Errorf("geom: element %d has part %q but lies in range for part %q", i, elems[i].Part, name)
			}
		}
	}
	for i, ok := range covered {
		if !ok {
			return nil, fmt.Errorf("geom: element %d is not covered by any part range", i)
		}
	}
	return &Mesh{
		Nodes:         nodes,
		Elems:         elems,
		Parts:         parts,
		partOrder:     partOrder,
		boundaryCache: make(map[string][]Face),
	}, nil
}

// PartNames returns part names in declaration order.
func (m *Mesh) PartNames() []string {
	out := make([]string, len(m.partOrder))
	copy(out, m.partOrder)
	return out
}

// ElemsInPart returns the elements belonging to part, in E order.
func (m *Mesh) ElemsInPart(part string) []Element {
	pr, ok := m.Parts[part]
	if !ok {
		return nil
	}
	return m.Elems[pr.Start:pr.End]
}
