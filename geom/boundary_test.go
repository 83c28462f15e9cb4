// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "testing"

// TestBoundaryFaceUniqueness is invariant 1 (spec.md §8): every face
// returned by BoundaryFaces(part) appears in exactly one element of
// that part. A single hex8 has all 6 faces on the boundary.
func TestBoundaryFaceUniqueness(t *testing.T) {
	m := unitCube()
	faces := m.BoundaryFaces("body")
	if len(faces) != 6 {
		t.Fatalf("expected 6 boundary faces on a lone hex8, got %d", len(faces))
	}
	seen := make(map[string]bool)
	for _, f := range faces {
		sig := signature(f.Nodes(m))
		if seen[sig] {
			t.Fatalf("face signature %s returned more than once", sig)
		}
		seen[sig] = true
	}
}

// TestSharedFaceExcluded checks that the z=1 face shared by two
// stacked hex8 elements is NOT reported as a boundary face.
func TestSharedFaceExcluded(t *testing.T) {
	m := twoCubesStack()
	faces := m.BoundaryFaces("body")
	if len(faces) != 10 {
		t.Fatalf("expected 10 boundary faces on two stacked hex8s (6+6-2 shared), got %d", len(faces))
	}
	for _, f := range faces {
		c := m.FaceCentroid(f)
		if c.Z == 1 {
			t.Fatalf("shared interior face at z=1 was reported as a boundary face")
		}
	}
}

// TestEmptyPartIsExplicitlyEmpty guards against the ambiguous-
// truthiness bug class spec.md §4.1 calls out: a part with no
// elements must report a nil/zero-length slice via len(), not
// anything that could be mistaken for non-empty.
func TestEmptyPartIsExplicitlyEmpty(t *testing.T) {
	m := unitCube()
	faces := m.BoundaryFaces("nonexistent")
	if len(faces) != 0 {
		t.Fatalf("expected zero boundary faces for a part with no elements, got %d", len(faces))
	}
}
