// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmldoc

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// tagOrder is the sibling-order priority used when inserting a new
// element into <Mesh>: an element is placed after every existing
// sibling whose tag sorts at or before its own, preserving the
// template's declaration order instead of appending blindly to the
// end (spec.md §4.6, "document structure besides the replaced content
// must be preserved byte-for-byte").
var tagOrder = []string{
	"Nodes", "Elements", "NodeSet", "Surface", "ElementSet", "DiscreteSet", "SurfacePair",
}

func tagRank(tag string) int {
	for i, t := range tagOrder {
		if t == tag {
			return i
		}
	}
	return len(tagOrder)
}

// findInsertBefore returns the existing child token that an element
// with tag newTag should be inserted immediately before, so that
// elements remain grouped by tag in tagOrder and, within a tag, new
// entries are appended after the existing ones of that tag. It
// returns nil when the new element belongs at the end.
func findInsertBefore(parent *etree.Element, newTag string) etree.Token {
	rank := tagRank(newTag)
	for _, c := range parent.Child {
		el, ok := c.(*etree.Element)
		if !ok {
			continue
		}
		if tagRank(el.Tag) > rank {
			return c
		}
	}
	return nil
}

func insertChild(parent *etree.Element, el *etree.Element) {
	before := findInsertBefore(parent, el.Tag)
	if before == nil {
		parent.AddChild(el)
		return
	}
	parent.InsertChild(before, el)
}

// ReplaceNodes overwrites the <Nodes name="part"> block's children
// with one <node id="ids[i]">x,y,z</node> per coordinate. ids is
// caller-assigned rather than always 1-based, since node ids are
// global across the whole document — a part's replacement must not
// collide with any other part's untouched node ids (mirrors the
// original mesh swap's document-wide gap-finding numbering).
func (d *Document) ReplaceNodes(part string, ids []int, coords [][3]float64) error {
	mesh := d.MeshRoot()
	if mesh == nil {
		return fmt.Errorf("xmldoc: document has no <Mesh> block")
	}
	nodesEl := d.Nodes(part)
	if nodesEl == nil {
		nodesEl = etree.NewElement("Nodes")
		nodesEl.CreateAttr("name", part)
		insertChild(mesh, nodesEl)
	} else {
		nodesEl.Child = nil
	}
	for i, c := range coords {
		n := nodesEl.CreateElement("node")
		n.CreateAttr("id", strconv.Itoa(ids[i]))
		n.SetText(formatTriple(c))
	}
	return nil
}

// ReplaceElements overwrites the <Elements name="part" type="..">
// block's children with one <elem id="ids[i]">n1,n2,...</elem> per
// element; conn entries already hold the document-global node ids
// ReplaceNodes assigned.
func (d *Document) ReplaceElements(part, elemType string, ids []int, conn [][]int) error {
	mesh := d.MeshRoot()
	if mesh == nil {
		return fmt.Errorf("xmldoc: document has no <Mesh> block")
	}
	elemsEl := d.Elements(part)
	if elemsEl == nil {
		elemsEl = etree.NewElement("Elements")
		elemsEl.CreateAttr("name", part)
		elemsEl.CreateAttr("type", elemType)
		insertChild(mesh, elemsEl)
	} else {
		elemsEl.CreateAttr("type", elemType)
		elemsEl.Child = nil
	}
	for i, nodeIDs := range conn {
		e := elemsEl.CreateElement("elem")
		e.CreateAttr("id", strconv.Itoa(ids[i]))
		e.SetText(formatIntList(nodeIDs))
	}
	return nil
}

// elemTags lists every element-data tag name the dialect uses inside an
// <Elements> block, across the element types the Mesh Loader supports.
var elemTags = []string{"elem", "hex8", "hex20", "tet4", "tet10", "penta6", "pyra5"}

// MaxNodeID returns the highest `id` attribute among every <node> in
// the document (0 if none), so a part replacement can assign new ids
// that continue past it instead of colliding with another part's
// untouched nodes.
func (d *Document) MaxNodeID() int {
	max := 0
	for _, n := range d.tree.FindElements("//Mesh/Nodes/node") {
		if id, err := strconv.Atoi(n.SelectAttrValue("id", "")); err == nil && id > max {
			max = id
		}
	}
	return max
}

// MaxElemID returns the highest `id` attribute among every element
// entry inside any <Elements> block in the document (0 if none).
func (d *Document) MaxElemID() int {
	max := 0
	mesh := d.MeshRoot()
	if mesh == nil {
		return 0
	}
	for _, elemsEl := range mesh.SelectElements("Elements") {
		for _, tag := range elemTags {
			for _, e := range elemsEl.SelectElements(tag) {
				if id, err := strconv.Atoi(e.SelectAttrValue("id", "")); err == nil && id > max {
					max = id
				}
			}
		}
	}
	return max
}

// SetNodeSet replaces (or creates) the <NodeSet name="name"> block
// with one <n id="i"/> per 1-based node id.
func (d *Document) SetNodeSet(name string, nodeIDs []int) error {
	mesh := d.MeshRoot()
	if mesh == nil {
		return fmt.Errorf("xmldoc: document has no <Mesh> block")
	}
	el := findNamed(mesh, "NodeSet", name)
	if el == nil {
		el = etree.NewElement("NodeSet")
		el.CreateAttr("name", name)
		insertChild(mesh, el)
	} else {
		el.Child = nil
	}
	sorted := append([]int(nil), nodeIDs...)
	sort.Ints(sorted)
	for _, id := range sorted {
		n := el.CreateElement("n")
		n.CreateAttr("id", strconv.Itoa(id))
	}
	return nil
}

// SetElementSet replaces (or creates) the <ElementSet name="name">
// block with one <e id="i"/> per 1-based element id.
func (d *Document) SetElementSet(name string, elemIDs []int) error {
	mesh := d.MeshRoot()
	if mesh == nil {
		return fmt.Errorf("xmldoc: document has no <Mesh> block")
	}
	el := findNamed(mesh, "ElementSet", name)
	if el == nil {
		el = etree.NewElement("ElementSet")
		el.CreateAttr("name", name)
		insertChild(mesh, el)
	} else {
		el.Child = nil
	}
	sorted := append([]int(nil), elemIDs...)
	sort.Ints(sorted)
	for _, id := range sorted {
		e := el.CreateElement("e")
		e.CreateAttr("id", strconv.Itoa(id))
	}
	return nil
}

// SetSurface replaces (or creates) the <Surface name="name"> block
// with one face element per entry; faceType picks the child tag
// ("quad4", "tri3", ...) and nodeIDs are 1-based.
func (d *Document) SetSurface(name, faceType string, faces [][]int) error {
	mesh := d.MeshRoot()
	if mesh == nil {
		return fmt.Errorf("xmldoc: document has no <Mesh> block")
	}
	el := findNamed(mesh, "Surface", name)
	if el == nil {
		el = etree.NewElement("Surface")
		el.CreateAttr("name", name)
		insertChild(mesh, el)
	} else {
		el.Child = nil
	}
	for i, nodeIDs := range faces {
		f := el.CreateElement(faceType)
		f.CreateAttr("id", strconv.Itoa(i+1))
		f.SetText(formatIntList(nodeIDs))
	}
	return nil
}

func findNamed(parent *etree.Element, tag, name string) *etree.Element {
	for _, el := range parent.SelectElements(tag) {
		if el.SelectAttrValue("name", "") == name {
			return el
		}
	}
	return nil
}

func formatTriple(c [3]float64) string {
	return strconv.FormatFloat(c[0], 'g', -1, 64) + "," +
		strconv.FormatFloat(c[1], 'g', -1, 64) + "," +
		strconv.FormatFloat(c[2], 'g', -1, 64)
}

func formatIntList(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
