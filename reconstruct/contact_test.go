// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reconstruct

import (
	"testing"

	"github.com/A6721jpn/vexis/geom"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// twoElementSamePart builds two side-by-side hex8 elements in one
// part, so two faces from different elements can be geometrically
// close despite belonging to the same part — the dangerous case
// relative_bounds exists to guard against.
func twoElementSamePart(t *testing.T) *geom.Mesh {
	t.Helper()
	left := hexAt(0, 0, 0)
	right := hexAt(1, 0, 0)
	nodes := append(append([]r3.Vec(nil), left...), right...)
	elems := []geom.Element{
		{Type: geom.Hex8, Nodes: []int{0, 1, 2, 3, 4, 5, 6, 7}, Part: "dome"},
		{Type: geom.Hex8, Nodes: []int{8, 9, 10, 11, 12, 13, 14, 15}, Part: "dome"},
	}
	m, err := geom.NewMesh(nodes, elems, []string{"dome"}, map[string]geom.PartRange{"dome": {0, 2}})
	require.NoError(t, err)
	return m
}

func twoPartMesh(t *testing.T) *geom.Mesh {
	t.Helper()
	bottom := hexAt(0, 0, 0)
	top := hexAt(0, 0, 1)
	nodes := append(append([]r3.Vec(nil), bottom...), top...)
	elems := []geom.Element{
		{Type: geom.Hex8, Nodes: []int{0, 1, 2, 3, 4, 5, 6, 7}, Part: "base"},
		{Type: geom.Hex8, Nodes: []int{8, 9, 10, 11, 12, 13, 14, 15}, Part: "dome"},
	}
	m, err := geom.NewMesh(nodes, elems, []string{"base", "dome"}, map[string]geom.PartRange{
		"base": {0, 1}, "dome": {1, 2},
	})
	require.NoError(t, err)
	return m
}

// TestSamePartContactRequiresRelativeBounds is invariant 5 (spec.md
// §8): a contact pair whose two surfaces lie in the same part must
// have used relative_bounds on both sides; a proximity rule there is
// rejected even if it happens to work on this particular mesh.
func TestSamePartContactRequiresRelativeBounds(t *testing.T) {
	m := twoElementSamePart(t)
	facesElem0 := []geom.Face{{ElemIndex: 0, LocalFace: 0}}
	facesElem1 := []geom.Face{{ElemIndex: 1, LocalFace: 0}}

	same, primaryPart, secondaryPart, err := SamePart(m, facesElem0, facesElem1)
	require.NoError(t, err)
	require.True(t, same)
	require.Equal(t, "dome", primaryPart)
	require.Equal(t, "dome", secondaryPart)

	err = CheckContactPolicy(same, RelativeBounds{}, RelativeBounds{})
	require.NoError(t, err)

	err = CheckContactPolicy(same, CrossPartProximity{Other: "dome"}, RelativeBounds{})
	require.ErrorIs(t, err, ErrSamePartContactMustUseRelativeBounds)
}

func TestCrossPartContactAllowsProximity(t *testing.T) {
	m := twoPartMesh(t)
	primary := m.BoundaryFaces("base")
	secondary := m.BoundaryFaces("dome")

	same, _, _, err := SamePart(m, primary[:1], secondary[:1])
	require.NoError(t, err)
	require.False(t, same)

	err = CheckContactPolicy(same, CrossPartProximity{Other: "dome"}, CrossPartProximity{Other: "base"})
	require.NoError(t, err)
}

func TestPartOfFacesRejectsMixedParts(t *testing.T) {
	m := twoPartMesh(t)
	mixed := []geom.Face{{ElemIndex: 0, LocalFace: 0}, {ElemIndex: 1, LocalFace: 0}}
	_, err := PartOfFaces(m, mixed)
	require.Error(t, err)
}

func TestDefaultRuleForContactSidePicksByPolicy(t *testing.T) {
	inferred := RelativeBounds{FxHi: 1, FyHi: 1, FzHi: 1}
	require.IsType(t, RelativeBounds{}, DefaultRuleForContactSide(true, "other", inferred))
	require.IsType(t, CrossPartProximity{}, DefaultRuleForContactSide(false, "other", inferred))
}
