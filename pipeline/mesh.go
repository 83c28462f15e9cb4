// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/A6721jpn/vexis/geom"
	"github.com/A6721jpn/vexis/xmldoc"
	"gonum.org/v1/gonum/spatial/r3"
)

// buildOldMesh parses the template's own embedded <Nodes>/<Elements>
// blocks into a *geom.Mesh, the way set_reconstructor.py's
// SetReconstructor(tree, part_name) reads the template directly
// rather than taking a separate "old mesh" file — the template *is*
// the old mesh. It also returns the document node id -> mesh node
// index map and the document element id -> mesh element index map,
// since named-selection extraction needs the same mappings to resolve
// <n id=".."/>, <elem id=".."/> and face connectivity entries.
func buildOldMesh(doc *xmldoc.Document) (*geom.Mesh, map[int]int, map[int]int, error) {
	parts := doc.Parts()
	if len(parts) == 0 {
		return nil, nil, nil, fmt.Errorf("pipeline: template has no <Nodes> blocks")
	}

	nodeIndex := make(map[int]int)
	var nodes []r3.Vec
	for _, part := range parts {
		nodesEl := doc.Nodes(part)
		if nodesEl == nil {
			return nil, nil, nil, fmt.Errorf("pipeline: template part %q has no <Nodes> block", part)
		}
		for _, n := range nodesEl.ChildElements() {
			id, err := strconv.Atoi(n.SelectAttrValue("id", ""))
			if err != nil {
				return nil, nil, nil, fmt.Errorf("pipeline: bad node id in part %q: %w", part, err)
			}
			coord, err := parseTriple(n.Text())
			if err != nil {
				return nil, nil, nil, fmt.Errorf("pipeline: bad node coordinate in part %q: %w", part, err)
			}
			nodeIndex[id] = len(nodes)
			nodes = append(nodes, coord)
		}
	}

	var elems []geom.Element
	elemIndex := make(map[int]int)
	partRanges := make(map[string]geom.PartRange, len(parts))
	for _, part := range parts {
		elemsEl := doc.Elements(part)
		if elemsEl == nil {
			return nil, nil, nil, fmt.Errorf("pipeline: template part %q has no <Elements> block", part)
		}
		et, ok := geom.ElemTypeByName(elemsEl.SelectAttrValue("type", ""))
		if !ok {
			return nil, nil, nil, fmt.Errorf("pipeline: part %q has unrecognized element type %q", part, elemsEl.SelectAttrValue("type", ""))
		}
		start := len(elems)
		for _, e := range elemsEl.ChildElements() {
			docElemID, err := strconv.Atoi(e.SelectAttrValue("id", ""))
			if err != nil {
				return nil, nil, nil, fmt.Errorf("pipeline: bad element id in part %q: %w", part, err)
			}
			docIDs, err := parseIntList(e.Text())
			if err != nil {
				return nil, nil, nil, fmt.Errorf("pipeline: bad element connectivity in part %q: %w", part, err)
			}
			localNodes := make([]int, len(docIDs))
			for i, id := range docIDs {
				idx, ok := nodeIndex[id]
				if !ok {
					return nil, nil, nil, fmt.Errorf("pipeline: element in part %q references unknown node id %d", part, id)
				}
				localNodes[i] = idx
			}
			elemIndex[docElemID] = len(elems)
			elems = append(elems, geom.Element{Type: et, Nodes: localNodes, Part: part})
		}
		partRanges[part] = geom.PartRange{Start: start, End: len(elems)}
	}

	mesh, err := geom.NewMesh(nodes, elems, parts, partRanges)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("pipeline: %w", err)
	}
	return mesh, nodeIndex, elemIndex, nil
}

func parseTriple(text string) (r3.Vec, error) {
	fields := strings.Split(text, ",")
	if len(fields) != 3 {
		return r3.Vec{}, fmt.Errorf("expected 3 comma-separated values, got %q", text)
	}
	vals := make([]float64, 3)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return r3.Vec{}, fmt.Errorf("bad coordinate %q: %w", f, err)
		}
		vals[i] = v
	}
	return r3.Vec{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func parseIntList(text string) ([]int, error) {
	fields := strings.Split(text, ",")
	ids := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", f, err)
		}
		ids[i] = v
	}
	return ids, nil
}
