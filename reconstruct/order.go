// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reconstruct

import (
	"sort"

	"github.com/A6721jpn/vexis/geom"
)

// OrderFaces sorts faces first by owning element id ascending, then
// by local face number — the Surface emission rule (spec.md §4.5).
func OrderFaces(faces []geom.Face) []geom.Face {
	out := append([]geom.Face(nil), faces...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].ElemIndex != out[j].ElemIndex {
			return out[i].ElemIndex < out[j].ElemIndex
		}
		return out[i].LocalFace < out[j].LocalFace
	})
	return out
}

// OrderIDs returns ids sorted ascending and deduplicated, matching
// the NodeSet/ElementSet emission rule.
func OrderIDs(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	sorted := append([]int(nil), ids...)
	sort.Ints(sorted)
	out := make([]int, 0, len(sorted))
	for i, id := range sorted {
		if i == 0 || id != sorted[i-1] {
			out = append(out, id)
		}
	}
	return out
}
