// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package reconstruct

import (
	"errors"
	"fmt"

	"github.com/A6721jpn/vexis/geom"
)

// ErrSamePartContactMustUseRelativeBounds is returned when a contact
// pair whose two surfaces lie in the same part was reconstructed
// using anything other than RelativeBounds on both sides — two
// geometrically distinct folds of one part can sit arbitrarily close
// to one another, so proximity-based selection is unsafe there
// (spec.md §4.5).
var ErrSamePartContactMustUseRelativeBounds = errors.New("reconstruct: same-part contact pair must reconstruct both surfaces with relative_bounds")

// PartOfFaces returns the single part every face's owning element
// belongs to, or an error if the faces span more than one part — a
// Surface selection must stay within one part by construction.
func PartOfFaces(m *geom.Mesh, faces []geom.Face) (string, error) {
	if len(faces) == 0 {
		return "", fmt.Errorf("reconstruct: cannot determine the owning part of an empty face set")
	}
	part := m.Elems[faces[0].ElemIndex].Part
	for _, f := range faces[1:] {
		if p := m.Elems[f.ElemIndex].Part; p != part {
			return "", fmt.Errorf("reconstruct: surface spans parts %q and %q", part, p)
		}
	}
	return part, nil
}

// SamePart reports whether primary and secondary's owning parts are
// identical on the new mesh — this is evaluated on the NEW mesh, not
// the template, because a mesh swap can change which part a surface
// lands on (spec.md §4.5: "compute same-part over the new mesh").
func SamePart(m *geom.Mesh, primary, secondary []geom.Face) (same bool, primaryPart, secondaryPart string, err error) {
	primaryPart, err = PartOfFaces(m, primary)
	if err != nil {
		return false, "", "", err
	}
	secondaryPart, err = PartOfFaces(m, secondary)
	if err != nil {
		return false, "", "", err
	}
	return primaryPart == secondaryPart, primaryPart, secondaryPart, nil
}

func isRelativeBounds(r Rule) bool {
	_, ok := r.(RelativeBounds)
	return ok
}

// CheckContactPolicy enforces the cross-part vs same-part contact
// policy after both surfaces of a pair have been reconstructed: if
// the pair is same-part, both rules used must have been
// RelativeBounds, or SelectionLost-adjacent processing should not
// proceed to the rewrite step.
func CheckContactPolicy(samePart bool, primaryRule, secondaryRule Rule) error {
	if samePart && (!isRelativeBounds(primaryRule) || !isRelativeBounds(secondaryRule)) {
		return ErrSamePartContactMustUseRelativeBounds
	}
	return nil
}

// DefaultRuleForContactSide picks the rule a contact surface should
// use absent an exact-name table entry: relative_bounds when the pair
// is same-part, cross_part_proximity against the other surface's part
// otherwise (spec.md §4.5).
func DefaultRuleForContactSide(samePart bool, otherPart string, inferred RelativeBounds) Rule {
	if samePart {
		return inferred
	}
	return CrossPartProximity{Other: otherPart}
}
