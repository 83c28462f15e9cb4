// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package align implements the min-corner alignment step: before any
// named selection is reconstructed on a swapped-in mesh, the new mesh
// is translated so its reference part's bounding-box minimum corner
// coincides with the old mesh's, keeping every absolute-coordinate
// rule (z_min_plane, relative_bounds, ...) meaningful across a mesh
// swap (spec.md §4.4).
package align

import (
	"fmt"

	"github.com/A6721jpn/vexis/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// Delta computes the translation that brings the new mesh's reference
// part into alignment with the old mesh's: Δ = bbox_min(old, refPart)
// − bbox_min(new, refPart).
func Delta(old, new_ *geom.Mesh, refPart string) (r3.Vec, error) {
	if _, ok := old.Parts[refPart]; !ok {
		return r3.Vec{}, fmt.Errorf("align: reference part %q absent from old mesh", refPart)
	}
	if _, ok := new_.Parts[refPart]; !ok {
		return r3.Vec{}, fmt.Errorf("align: reference part %q absent from new mesh", refPart)
	}
	oldMin := old.BBox(refPart).Min
	newMin := new_.BBox(refPart).Min
	return r3.Sub(oldMin, newMin), nil
}

// Apply translates every node of m in place by delta.
func Apply(m *geom.Mesh, delta r3.Vec) {
	for i, n := range m.Nodes {
		m.Nodes[i] = r3.Add(n, delta)
	}
}

// Align is the composed operation: compute Δ from old's and new's
// reference part, then translate every node of new in place. It
// returns the applied Δ so callers can log it.
func Align(old, new_ *geom.Mesh, refPart string) (r3.Vec, error) {
	delta, err := Delta(old, new_, refPart)
	if err != nil {
		return r3.Vec{}, err
	}
	Apply(new_, delta)
	return delta, nil
}
