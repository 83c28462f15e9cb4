// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rewrite produces a prepared input document: it atomically
// replaces a part's nodes and elements, and every named selection
// whose reconstructed contents differ from the template's, while
// leaving materials, load curves, contact algorithms and control
// parameters untouched (spec.md §4.6).
package rewrite

import (
	"fmt"
	"os"
	"sort"

	"github.com/A6721jpn/vexis/geom"
	"github.com/A6721jpn/vexis/reconstruct"
	"github.com/A6721jpn/vexis/xmldoc"
)

// ErrTemplateMissingPart is returned when the new mesh and the
// template's <Nodes>/<Elements> blocks disagree on which parts exist.
type ErrTemplateMissingPart struct {
	Part string
}

func (e *ErrTemplateMissingPart) Error() string {
	return fmt.Sprintf("rewrite: part %q is missing from the template or the new mesh", e.Part)
}

// Selection carries a reconstructed selection alongside the kind of
// XML block it belongs in.
type Selection struct {
	Kind   reconstruct.Kind
	Result reconstruct.Result
}

// Apply mutates doc in place: replaces mesh.Nodes/Elements part by
// part, then rewrites every named selection in selections. It never
// touches materials, load curves, contact algorithms or control
// parameters, since those aren't locators xmldoc exposes mutations
// for.
func Apply(doc *xmldoc.Document, mesh *geom.Mesh, selections map[string]Selection) error {
	if err := checkPartsMatch(doc, mesh); err != nil {
		return err
	}

	// Node and element ids are global across the whole document (a
	// part's untouched siblings keep theirs), so new ids continue past
	// whatever is already in the template rather than restarting at 1
	// per part.
	nextNodeID := doc.MaxNodeID() + 1
	nextElemID := doc.MaxElemID() + 1
	globalNodeID := make(map[int]int) // geom.Mesh node index -> document node id
	globalElemID := make(map[int]int) // geom.Mesh element index -> document elem id

	for _, part := range mesh.PartNames() {
		elems := mesh.ElemsInPart(part)
		if len(elems) == 0 {
			continue
		}
		coords := make([][3]float64, 0)
		ids := make([]int, 0)
		for _, e := range elems {
			for _, n := range e.Nodes {
				if _, ok := globalNodeID[n]; ok {
					continue
				}
				globalNodeID[n] = nextNodeID
				ids = append(ids, nextNodeID)
				nextNodeID++
				p := mesh.Nodes[n]
				coords = append(coords, [3]float64{p.X, p.Y, p.Z})
			}
		}
		if err := doc.ReplaceNodes(part, ids, coords); err != nil {
			return err
		}

		elemIDs := make([]int, len(elems))
		conn := make([][]int, len(elems))
		for i, e := range elems {
			globalElemID[e.Index] = nextElemID
			elemIDs[i] = nextElemID
			nextElemID++

			nodeIDs := make([]int, len(e.Nodes))
			for j, n := range e.Nodes {
				nodeIDs[j] = globalNodeID[n]
			}
			conn[i] = nodeIDs
		}
		if err := doc.ReplaceElements(part, elems[0].Type.String(), elemIDs, conn); err != nil {
			return err
		}
	}

	names := make([]string, 0, len(selections))
	for name := range selections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sel := selections[name]
		switch sel.Kind {
		case reconstruct.NodeSetKind:
			ids := mapIDs(reconstruct.OrderIDs(sel.Result.IDs), globalNodeID)
			if err := doc.SetNodeSet(name, ids); err != nil {
				return err
			}
		case reconstruct.ElementSetKind:
			ids := mapIDs(reconstruct.OrderIDs(sel.Result.IDs), globalElemID)
			if err := doc.SetElementSet(name, ids); err != nil {
				return err
			}
		case reconstruct.SurfaceKind:
			faces := reconstruct.OrderFaces(sel.Result.Faces)
			faceType, conn := surfaceConnectivity(mesh, faces, globalNodeID)
			if err := doc.SetSurface(name, faceType, conn); err != nil {
				return err
			}
		}
	}
	return nil
}

// mapIDs translates geom.Mesh-local indices to their document-global
// ids assigned during the node/element replacement above.
func mapIDs(localIDs []int, globalID map[int]int) []int {
	out := make([]int, len(localIDs))
	for i, id := range localIDs {
		out[i] = globalID[id]
	}
	return out
}

func checkPartsMatch(doc *xmldoc.Document, mesh *geom.Mesh) error {
	templateParts := make(map[string]bool)
	for _, p := range doc.Parts() {
		templateParts[p] = true
	}
	meshParts := make(map[string]bool)
	for _, p := range mesh.PartNames() {
		meshParts[p] = true
	}
	for p := range meshParts {
		if !templateParts[p] {
			return &ErrTemplateMissingPart{Part: p}
		}
	}
	for p := range templateParts {
		if !meshParts[p] {
			return &ErrTemplateMissingPart{Part: p}
		}
	}
	return nil
}

// surfaceConnectivity emits document-global node ids per face, in each
// face's own canonical winding, and picks the FEBio face-element tag
// by node arity (quad4 for 4-node faces, tri3 for 3-node faces).
// globalNodeID translates geom.Mesh node indices to the ids assigned
// by the node replacement above.
func surfaceConnectivity(mesh *geom.Mesh, faces []geom.Face, globalNodeID map[int]int) (string, [][]int) {
	conn := make([][]int, len(faces))
	faceType := "quad4"
	for i, f := range faces {
		nodes := f.Nodes(mesh)
		if len(nodes) == 3 {
			faceType = "tri3"
		}
		ids := make([]int, len(nodes))
		for j, n := range nodes {
			ids[j] = globalNodeID[n]
		}
		conn[i] = ids
	}
	return faceType, conn
}

// WriteAtomic writes doc to finalPath via a `.tmp` sibling, renaming
// into place only once the write has succeeded, so a cancellation or
// crash mid-write never leaves a half-written document at finalPath
// (spec.md §5's cancellation guarantee).
func WriteAtomic(doc *xmldoc.Document, finalPath string) error {
	tmpPath := finalPath + ".tmp"
	if err := doc.Save(tmpPath); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("rewrite: renaming %s to %s: %w", tmpPath, finalPath, err)
	}
	return nil
}
