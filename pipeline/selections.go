// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"
	"strconv"

	"github.com/A6721jpn/vexis/geom"
	"github.com/A6721jpn/vexis/reconstruct"
	"github.com/A6721jpn/vexis/xmldoc"
	"github.com/beevik/etree"
	"gonum.org/v1/gonum/spatial/r3"
)

// oldSelection is everything resolveRules needs to know about one
// named selection as it stood in the template, before the mesh swap.
type oldSelection struct {
	Name      string
	Kind      reconstruct.Kind
	Part      string
	NonEmpty  bool
	OldPoints []r3.Vec // node coordinates spanned by the old selection, for InferRule
}

// extractOldSelections walks every <NodeSet>, <ElementSet> and
// <Surface> the template declares, resolving each to the part it
// belongs to and the coordinates it spans on the old mesh — the
// inputs set_reconstructor.py's _calculate_relative_bounds_for_check
// derives from the template before reconstructing against the new
// mesh.
func extractOldSelections(doc *xmldoc.Document, oldMesh *geom.Mesh, nodeIndex, elemIndex map[int]int) (map[string]oldSelection, error) {
	out := make(map[string]oldSelection)

	for _, el := range doc.NamedNodeSets() {
		name := el.SelectAttrValue("name", "")
		ids, err := nodeIDsOf(el, nodeIndex)
		if err != nil {
			return nil, fmt.Errorf("pipeline: NodeSet %q: %w", name, err)
		}
		part, err := partOfNodeIndices(oldMesh, ids)
		if err != nil {
			return nil, fmt.Errorf("pipeline: NodeSet %q: %w", name, err)
		}
		out[name] = oldSelection{
			Name: name, Kind: reconstruct.NodeSetKind, Part: part,
			NonEmpty: len(ids) > 0, OldPoints: pointsOf(oldMesh, ids),
		}
	}

	for _, el := range doc.NamedElementSets() {
		name := el.SelectAttrValue("name", "")
		localIdx, err := elemIndicesOf(el, elemIndex)
		if err != nil {
			return nil, fmt.Errorf("pipeline: ElementSet %q: %w", name, err)
		}
		part, points := partAndPointsOfElems(oldMesh, localIdx)
		out[name] = oldSelection{
			Name: name, Kind: reconstruct.ElementSetKind, Part: part,
			NonEmpty: len(localIdx) > 0, OldPoints: points,
		}
	}

	for _, el := range doc.NamedSurfaces() {
		name := el.SelectAttrValue("name", "")
		faces, points, err := facesOf(el, oldMesh, nodeIndex)
		if err != nil {
			return nil, fmt.Errorf("pipeline: Surface %q: %w", name, err)
		}
		part := ""
		if len(faces) > 0 {
			part = oldMesh.Elems[faces[0].ElemIndex].Part
		}
		out[name] = oldSelection{
			Name: name, Kind: reconstruct.SurfaceKind, Part: part,
			NonEmpty: len(faces) > 0, OldPoints: points,
		}
	}

	return out, nil
}

// contactPartners maps a surface name to its partner's name in both
// directions, from every <SurfacePair>.
func contactPartners(doc *xmldoc.Document) map[string]string {
	partners := make(map[string]string)
	for _, pair := range doc.ContactPairs() {
		partners[pair.Primary] = pair.Secondary
		partners[pair.Secondary] = pair.Primary
	}
	return partners
}

func nodeIDsOf(nodeSet *etree.Element, nodeIndex map[int]int) ([]int, error) {
	var ids []int
	for _, n := range nodeSet.ChildElements() {
		id, err := strconv.Atoi(n.SelectAttrValue("id", ""))
		if err != nil {
			return nil, err
		}
		idx, ok := nodeIndex[id]
		if !ok {
			return nil, fmt.Errorf("references unknown node id %d", id)
		}
		ids = append(ids, idx)
	}
	return ids, nil
}

// elemIndicesOf resolves an <ElementSet>'s document element ids to
// their mesh-local element indices.
func elemIndicesOf(elementSet *etree.Element, elemIndex map[int]int) ([]int, error) {
	var idx []int
	for _, e := range elementSet.ChildElements() {
		id, err := strconv.Atoi(e.SelectAttrValue("id", ""))
		if err != nil {
			return nil, err
		}
		i, ok := elemIndex[id]
		if !ok {
			return nil, fmt.Errorf("references unknown element id %d", id)
		}
		idx = append(idx, i)
	}
	return idx, nil
}

// facesOf parses a <Surface>'s face children (quad4/tri3/...) into
// geom.Face values, by matching each face's node set against the
// owning element's node set — the mesh representation records faces
// as (element, local face number), not raw node lists.
func facesOf(surface *etree.Element, m *geom.Mesh, nodeIndex map[int]int) ([]geom.Face, []r3.Vec, error) {
	var faces []geom.Face
	var points []r3.Vec
	for _, faceEl := range surface.ChildElements() {
		docIDs, err := parseIntList(faceEl.Text())
		if err != nil {
			return nil, nil, err
		}
		meshIdx := make([]int, len(docIDs))
		for i, id := range docIDs {
			idx, ok := nodeIndex[id]
			if !ok {
				return nil, nil, fmt.Errorf("references unknown node id %d", id)
			}
			meshIdx[i] = idx
			points = append(points, m.Nodes[idx])
		}
		face, err := findFace(m, meshIdx)
		if err != nil {
			return nil, nil, err
		}
		faces = append(faces, face)
	}
	return faces, points, nil
}

// findFace locates the (element, local face) pair whose node set
// matches nodeIdx exactly, by scanning every boundary face of every
// part — faces declared in a template's <Surface> are always boundary
// faces of some element.
func findFace(m *geom.Mesh, nodeIdx []int) (geom.Face, error) {
	want := make(map[int]bool, len(nodeIdx))
	for _, n := range nodeIdx {
		want[n] = true
	}
	for _, part := range m.PartNames() {
		for _, f := range m.BoundaryFaces(part) {
			nodes := f.Nodes(m)
			if len(nodes) != len(want) {
				continue
			}
			match := true
			for _, n := range nodes {
				if !want[n] {
					match = false
					break
				}
			}
			if match {
				return f, nil
			}
		}
	}
	return geom.Face{}, fmt.Errorf("no boundary face matches surface node set")
}

func pointsOf(m *geom.Mesh, nodeIdx []int) []r3.Vec {
	points := make([]r3.Vec, len(nodeIdx))
	for i, n := range nodeIdx {
		points[i] = m.Nodes[n]
	}
	return points
}

// partOfNodeIndices returns the single part every node index belongs
// to, determined by which part's elements reference it.
func partOfNodeIndices(m *geom.Mesh, nodeIdx []int) (string, error) {
	if len(nodeIdx) == 0 {
		return "", nil
	}
	owner := make(map[int]string)
	for _, part := range m.PartNames() {
		for _, e := range m.ElemsInPart(part) {
			for _, n := range e.Nodes {
				owner[n] = part
			}
		}
	}
	part, ok := owner[nodeIdx[0]]
	if !ok {
		return "", fmt.Errorf("node %d belongs to no known part", nodeIdx[0])
	}
	for _, n := range nodeIdx[1:] {
		if p, ok := owner[n]; !ok || p != part {
			return "", fmt.Errorf("selection spans more than one part")
		}
	}
	return part, nil
}

// partAndPointsOfElems returns the owning part and the node
// coordinates spanned by a set of mesh-local element indices.
func partAndPointsOfElems(m *geom.Mesh, elemIdx []int) (string, []r3.Vec) {
	if len(elemIdx) == 0 {
		return "", nil
	}
	part := m.Elems[elemIdx[0]].Part
	var points []r3.Vec
	for _, i := range elemIdx {
		for _, n := range m.Elems[i].Nodes {
			points = append(points, m.Nodes[n])
		}
	}
	return part, points
}
