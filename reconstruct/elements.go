// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reconstruct

import "github.com/A6721jpn/vexis/geom"

// ElementsWithAllNodesIn selects every element of part whose full node
// set is contained in nodeIDs — the element-set analogue of a
// node-level RelativeBounds selection. original_source never
// reconstructs ElementSets (only NodeSet and Surface), so this has no
// direct original_source counterpart; it generalizes the same
// "select by spatial containment" idea spec.md §4.5 describes for
// node/face selections to the third selection kind the XML dialect
// and this package's Kind enum both support.
func ElementsWithAllNodesIn(m *geom.Mesh, part string, nodeIDs []int) []int {
	in := make(map[int]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		in[id] = true
	}
	var ids []int
	for _, e := range m.ElemsInPart(part) {
		all := true
		for _, n := range e.Nodes {
			if !in[n] {
				all = false
				break
			}
		}
		if all {
			ids = append(ids, e.Index)
		}
	}
	return ids
}
