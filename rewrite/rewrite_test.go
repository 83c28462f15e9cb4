// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rewrite

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/A6721jpn/vexis/geom"
	"github.com/A6721jpn/vexis/reconstruct"
	"github.com/A6721jpn/vexis/xmldoc"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

const template = `<?xml version="1.0" encoding="ISO-8859-1"?>
<febio_spec version="3.0">
  <Material/>
  <Mesh>
    <Nodes name="dome">
      <node id="1">0,0,0</node>
      <node id="2">1,0,0</node>
      <node id="3">1,1,0</node>
      <node id="4">0,1,0</node>
      <node id="5">0,0,1</node>
      <node id="6">1,0,1</node>
      <node id="7">1,1,1</node>
      <node id="8">0,1,1</node>
    </Nodes>
    <Elements name="dome" type="hex8">
      <elem id="1">1,2,3,4,5,6,7,8</elem>
    </Elements>
    <NodeSet name="BOTTOM">
      <n id="1"/>
      <n id="2"/>
      <n id="3"/>
      <n id="4"/>
    </NodeSet>
  </Mesh>
  <Step>
    <Control>
      <time_steps>1</time_steps>
      <step_size>1</step_size>
    </Control>
  </Step>
</febio_spec>`

func loadTemplate(t *testing.T) (*xmldoc.Document, string) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "template.feb")
	require.NoError(t, os.WriteFile(path, []byte(template), 0o644))
	doc, err := xmldoc.Load(path)
	require.NoError(t, err)
	return doc, dir
}

func meshFromTemplateTranslated(t *testing.T, delta r3.Vec) *geom.Mesh {
	t.Helper()
	base := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	nodes := make([]r3.Vec, len(base))
	for i, n := range base {
		nodes[i] = r3.Add(n, delta)
	}
	elems := []geom.Element{{Type: geom.Hex8, Nodes: []int{0, 1, 2, 3, 4, 5, 6, 7}, Part: "dome"}}
	m, err := geom.NewMesh(nodes, elems, []string{"dome"}, map[string]geom.PartRange{"dome": {0, 1}})
	require.NoError(t, err)
	return m
}

func TestApplyRejectsMissingPart(t *testing.T) {
	doc, _ := loadTemplate(t)
	nodes := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	elems := []geom.Element{{Type: geom.Hex8, Nodes: []int{0, 1, 2, 3, 4, 5, 6, 7}, Part: "other"}}
	mesh, err := geom.NewMesh(nodes, elems, []string{"other"}, map[string]geom.PartRange{"other": {0, 1}})
	require.NoError(t, err)

	err = Apply(doc, mesh, nil)
	var missing *ErrTemplateMissingPart
	require.ErrorAs(t, err, &missing)
}

// TestDocumentPreservedOutsideMutatedBlocks is invariant 6 (spec.md
// §8): everything outside <Mesh> (and <Output>/<plotfile>, unused
// here) must survive untouched, in particular <Control> and
// <Material>.
func TestDocumentPreservedOutsideMutatedBlocks(t *testing.T) {
	doc, _ := loadTemplate(t)
	before := doc.TotalSimulatedTime()

	mesh := meshFromTemplateTranslated(t, r3.Vec{X: 1})
	selections := map[string]Selection{
		"BOTTOM": {Kind: reconstruct.NodeSetKind, Result: reconstruct.Result{IDs: []int{0, 1, 2, 3}}},
	}
	require.NoError(t, Apply(doc, mesh, selections))

	require.InDelta(t, before, doc.TotalSimulatedTime(), 1e-9)
	root := doc.MeshRoot().Parent()
	require.NotNil(t, root.SelectElement("Material"))
}

// TestApplyIsDeterministic is invariant 7 (spec.md §8): applying the
// same reconstructed selections to two separate loads of the same
// template produces byte-identical output.
func TestApplyIsDeterministic(t *testing.T) {
	doc1, dir1 := loadTemplate(t)
	doc2, dir2 := loadTemplate(t)

	mesh1 := meshFromTemplateTranslated(t, r3.Vec{X: 2})
	mesh2 := meshFromTemplateTranslated(t, r3.Vec{X: 2})

	selections := map[string]Selection{
		"BOTTOM": {Kind: reconstruct.NodeSetKind, Result: reconstruct.Result{IDs: []int{3, 1, 2, 0}}},
	}
	require.NoError(t, Apply(doc1, mesh1, selections))
	require.NoError(t, Apply(doc2, mesh2, selections))

	out1 := filepath.Join(dir1, "out.feb")
	out2 := filepath.Join(dir2, "out.feb")
	require.NoError(t, WriteAtomic(doc1, out1))
	require.NoError(t, WriteAtomic(doc2, out2))

	b1, err := os.ReadFile(out1)
	require.NoError(t, err)
	b2, err := os.ReadFile(out2)
	require.NoError(t, err)
	require.Equal(t, b1, b2)
}

// TestApplyAssignsGloballyUniqueIDsAcrossParts guards the global
// id-numbering fix: replacing two parts in the same document must not
// reuse ids across them, and a part's new ids must continue past the
// highest id found anywhere in the document rather than restarting at
// 1 per part (original_source/src/mesh_swap/mesh_replacer.py's
// find_available_start_id scans every node/element tag in the whole
// document, not just the part being replaced).
func TestApplyAssignsGloballyUniqueIDsAcrossParts(t *testing.T) {
	twoParts := `<?xml version="1.0" encoding="ISO-8859-1"?>
<febio_spec version="3.0">
  <Mesh>
    <Nodes name="dome">
      <node id="1">0,0,0</node>
      <node id="2">1,0,0</node>
      <node id="3">1,1,0</node>
      <node id="4">0,1,0</node>
      <node id="5">0,0,1</node>
      <node id="6">1,0,1</node>
      <node id="7">1,1,1</node>
      <node id="8">0,1,1</node>
    </Nodes>
    <Elements name="dome" type="hex8">
      <elem id="1">1,2,3,4,5,6,7,8</elem>
    </Elements>
    <Nodes name="indenter">
      <node id="9">5,5,5</node>
      <node id="10">6,5,5</node>
      <node id="11">6,6,5</node>
      <node id="12">5,6,5</node>
      <node id="13">5,5,6</node>
      <node id="14">6,5,6</node>
      <node id="15">6,6,6</node>
      <node id="16">5,6,6</node>
    </Nodes>
    <Elements name="indenter" type="hex8">
      <elem id="2">9,10,11,12,13,14,15,16</elem>
    </Elements>
  </Mesh>
  <Step>
    <Control>
      <time_steps>1</time_steps>
      <step_size>1</step_size>
    </Control>
  </Step>
</febio_spec>`
	dir := t.TempDir()
	path := filepath.Join(dir, "template.feb")
	require.NoError(t, os.WriteFile(path, []byte(twoParts), 0o644))
	doc, err := xmldoc.Load(path)
	require.NoError(t, err)

	domeNodes := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
	}
	indenterNodes := []r3.Vec{
		{X: 5, Y: 5, Z: 5}, {X: 6, Y: 5, Z: 5}, {X: 6, Y: 6, Z: 5}, {X: 5, Y: 6, Z: 5},
		{X: 5, Y: 5, Z: 6}, {X: 6, Y: 5, Z: 6}, {X: 6, Y: 6, Z: 6}, {X: 5, Y: 6, Z: 6},
	}
	allNodes := append(append([]r3.Vec(nil), domeNodes...), indenterNodes...)
	elems := []geom.Element{
		{Type: geom.Hex8, Nodes: []int{0, 1, 2, 3, 4, 5, 6, 7}, Part: "dome"},
		{Type: geom.Hex8, Nodes: []int{8, 9, 10, 11, 12, 13, 14, 15}, Part: "indenter"},
	}
	mesh, err := geom.NewMesh(allNodes, elems, []string{"dome", "indenter"}, map[string]geom.PartRange{
		"dome": {Start: 0, End: 1}, "indenter": {Start: 1, End: 2},
	})
	require.NoError(t, err)

	require.NoError(t, Apply(doc, mesh, nil))

	seen := make(map[int]bool)
	for _, tag := range []string{"dome", "indenter"} {
		for _, c := range doc.Nodes(tag).ChildElements() {
			id, convErr := strconv.Atoi(c.SelectAttrValue("id", ""))
			require.NoError(t, convErr)
			require.False(t, seen[id], "node id %d reused across parts", id)
			seen[id] = true
		}
	}
	seenElems := make(map[int]bool)
	for _, tag := range []string{"dome", "indenter"} {
		for _, c := range doc.Elements(tag).ChildElements() {
			id, convErr := strconv.Atoi(c.SelectAttrValue("id", ""))
			require.NoError(t, convErr)
			require.False(t, seenElems[id], "elem id %d reused across parts", id)
			seenElems[id] = true
		}
	}
}

func TestWriteAtomicLeavesNoTempFileOnSuccess(t *testing.T) {
	doc, dir := loadTemplate(t)
	out := filepath.Join(dir, "out.feb")
	require.NoError(t, WriteAtomic(doc, out))
	_, err := os.Stat(out + ".tmp")
	require.True(t, os.IsNotExist(err))
}
