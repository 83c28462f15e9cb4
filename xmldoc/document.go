// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xmldoc is the typed view over the FEA input document (the
// .feb dialect): it locates the mesh block, material-to-part
// bindings, named node/element sets, surface definitions, contact
// pairs and the control block, and provides the mutation operations
// the Document Rewriter uses to produce a prepared document.
package xmldoc

import (
	"fmt"
	"os"

	"github.com/beevik/etree"
)

// Document wraps an etree.Document parsed from a template .feb file,
// exposing the locators spec.md §4.2 names instead of ad-hoc XPath
// strings scattered across the pipeline.
type Document struct {
	tree *etree.Document
}

// Load reads and parses path as the template FEA input document. The
// input file is never mutated; Document.Save always writes to a new
// path (spec.md §4.6: "the input is read-only").
func Load(path string) (*Document, error) {
	tree := etree.NewDocument()
	tree.ReadSettings.Permissive = false
	if err := tree.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("xmldoc: reading %s: %w", path, err)
	}
	return &Document{tree: tree}, nil
}

// Clone returns a deep copy of the document, so the Document Rewriter
// can mutate a working copy while leaving the loaded template intact
// for a batch's next job.
func (d *Document) Clone() *Document {
	return &Document{tree: d.tree.Copy()}
}

// MeshRoot returns the <Mesh> element, or nil if absent.
func (d *Document) MeshRoot() *etree.Element {
	return d.tree.FindElement("//Mesh")
}

// Nodes returns the <Nodes name="part"> element for the given part,
// or nil if no such block exists.
func (d *Document) Nodes(part string) *etree.Element {
	mesh := d.MeshRoot()
	if mesh == nil {
		return nil
	}
	for _, n := range mesh.SelectElements("Nodes") {
		if n.SelectAttrValue("name", "") == part {
			return n
		}
	}
	return nil
}

// Elements returns the <Elements name="part"> element for the given
// part, or nil if no such block exists.
func (d *Document) Elements(part string) *etree.Element {
	mesh := d.MeshRoot()
	if mesh == nil {
		return nil
	}
	for _, e := range mesh.SelectElements("Elements") {
		if e.SelectAttrValue("name", "") == part {
			return e
		}
	}
	return nil
}

// Parts returns every part name the document declares a <Nodes> block
// for, in document order.
func (d *Document) Parts() []string {
	mesh := d.MeshRoot()
	if mesh == nil {
		return nil
	}
	var names []string
	for _, n := range mesh.SelectElements("Nodes") {
		if name := n.SelectAttrValue("name", ""); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// NamedNodeSets returns every <NodeSet name=".."> element.
func (d *Document) NamedNodeSets() []*etree.Element {
	mesh := d.MeshRoot()
	if mesh == nil {
		return nil
	}
	return mesh.SelectElements("NodeSet")
}

// NamedElementSets returns every <ElementSet name=".."> element.
func (d *Document) NamedElementSets() []*etree.Element {
	mesh := d.MeshRoot()
	if mesh == nil {
		return nil
	}
	return mesh.SelectElements("ElementSet")
}

// NamedSurfaces returns every <Surface name=".."> element.
func (d *Document) NamedSurfaces() []*etree.Element {
	mesh := d.MeshRoot()
	if mesh == nil {
		return nil
	}
	return mesh.SelectElements("Surface")
}

// ContactPair is a (primary, secondary) surface-name pair read from a
// <SurfacePair> element.
type ContactPair struct {
	Name      string
	Primary   string
	Secondary string
}

// ContactPairs returns every <SurfacePair> defined in the mesh block.
func (d *Document) ContactPairs() []ContactPair {
	mesh := d.MeshRoot()
	if mesh == nil {
		return nil
	}
	var out []ContactPair
	for _, sp := range mesh.SelectElements("SurfacePair") {
		p := sp.SelectElement("primary")
		s := sp.SelectElement("secondary")
		if p == nil || s == nil {
			continue
		}
		out = append(out, ContactPair{
			Name:      sp.SelectAttrValue("name", ""),
			Primary:   p.Text(),
			Secondary: s.Text(),
		})
	}
	return out
}

// ControlBlocks returns every <Control> element in the document,
// including those nested inside step sub-blocks, by recursive
// descent (spec.md §4.2's "Control discovery").
func (d *Document) ControlBlocks() []*etree.Element {
	return d.tree.FindElements("//Control")
}

// OutputPlotfile returns the <Output>/<plotfile> element, or nil.
func (d *Document) OutputPlotfile() *etree.Element {
	return d.tree.FindElement("//Output/plotfile")
}

// Save serializes the document to path with indentation matching the
// input style, and is always called against a .tmp sibling by the
// Document Rewriter (spec.md §5's cancellation guarantee).
func (d *Document) Save(path string) error {
	d.tree.Indent(2)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("xmldoc: creating %s: %w", path, err)
	}
	defer f.Close()
	if _, err := d.tree.WriteTo(f); err != nil {
		return fmt.Errorf("xmldoc: writing %s: %w", path, err)
	}
	return nil
}

// Equal reports whether two documents serialize identically.
func (d *Document) Equal(other *Document) bool {
	a, err1 := d.tree.WriteToString()
	b, err2 := other.tree.WriteToString()
	return err1 == nil && err2 == nil && a == b
}
