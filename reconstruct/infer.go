// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reconstruct

import (
	"math"

	"github.com/A6721jpn/vexis/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// InferRule derives a default rule for a named selection absent from
// the exact-name rule table: compute the old selection's bounding box
// as a fraction of its part's bounding box on the OLD mesh, and reuse
// that fractional box as a RelativeBounds rule against the NEW mesh
// (spec.md §4.5's "default derived from the selection kind and part
// ... optionally filtered by relative bounds inferred from the old
// mesh's selection's relative bounds"; grounded on
// original_source/src/mesh_swap/set_reconstructor.py's
// _calculate_relative_bounds_for_check).
func InferRule(oldMesh *geom.Mesh, part string, oldSelectionPoints []r3.Vec) RelativeBounds {
	partBBox := oldMesh.BBox(part)
	if len(oldSelectionPoints) == 0 {
		return RelativeBounds{FxLo: 0, FyLo: 0, FzLo: 0, FxHi: 1, FyHi: 1, FzHi: 1}
	}
	selBBox := boundingBoxOf(oldSelectionPoints)
	return RelativeBounds{
		FxLo: relativeCoord(selBBox.Min.X, partBBox.Min.X, partBBox.Max.X),
		FyLo: relativeCoord(selBBox.Min.Y, partBBox.Min.Y, partBBox.Max.Y),
		FzLo: relativeCoord(selBBox.Min.Z, partBBox.Min.Z, partBBox.Max.Z),
		FxHi: relativeCoord(selBBox.Max.X, partBBox.Min.X, partBBox.Max.X),
		FyHi: relativeCoord(selBBox.Max.Y, partBBox.Min.Y, partBBox.Max.Y),
		FzHi: relativeCoord(selBBox.Max.Z, partBBox.Min.Z, partBBox.Max.Z),
	}
}

func boundingBoxOf(points []r3.Vec) geom.BBox {
	box := geom.BBox{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box.Min = r3.Vec{X: math.Min(box.Min.X, p.X), Y: math.Min(box.Min.Y, p.Y), Z: math.Min(box.Min.Z, p.Z)}
		box.Max = r3.Vec{X: math.Max(box.Max.X, p.X), Y: math.Max(box.Max.Y, p.Y), Z: math.Max(box.Max.Z, p.Z)}
	}
	return box
}

// relativeCoord expresses value as a fraction of [lo, hi], clamped to
// [0, 1] and defaulting to 0 when the part is degenerate along this
// axis (lo == hi), matching geometry_utils.get_relative_coordinates'
// division-by-zero guard.
func relativeCoord(value, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	f := (value - lo) / (hi - lo)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
