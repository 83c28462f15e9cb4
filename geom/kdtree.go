// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"
)

// centroidPoint adapts a face centroid to kdtree.Comparable.
type centroidPoint struct {
	pos  r3.Vec
	face Face
}

func (p centroidPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(centroidPoint)
	switch d {
	case 0:
		return p.pos.X - q.pos.X
	case 1:
		return p.pos.Y - q.pos.Y
	default:
		return p.pos.Z - q.pos.Z
	}
}

func (p centroidPoint) Dims() int { return 3 }

// Distance returns the squared Euclidean distance, the metric kdtree
// compares against squared plane offsets when pruning its search.
func (p centroidPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(centroidPoint)
	d := r3.Sub(p.pos, q.pos)
	return r3.Dot(d, d)
}

// CentroidSet is a kdtree.Interface over a fixed set of face
// centroids, built once per query set per spec.md §4.1
// ("nearest_face_distance ... via a point/KD-tree built once per
// query set"). It backs both cross_part_proximity (§4.5) and any
// other nearest-centroid query in the pipeline.
type CentroidSet struct {
	points []centroidPoint
}

// NewCentroidSet builds a spatial index over the centroids of faces.
func NewCentroidSet(m *Mesh, faces []Face) *CentroidSet {
	points := make([]centroidPoint, len(faces))
	for i, f := range faces {
		points[i] = centroidPoint{pos: m.FaceCentroid(f), face: f}
	}
	return &CentroidSet{points: points}
}

func (s *CentroidSet) Len() int { return len(s.points) }
func (s *CentroidSet) Index(i int) kdtree.Comparable {
	return s.points[i]
}
func (s *CentroidSet) Slice(i, j int) kdtree.Interface {
	return &CentroidSet{points: s.points[i:j]}
}
func (s *CentroidSet) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(sortableByDim{s.points, d}, kdtree.MedianOfMedians(sortableByDim{s.points, d}))
}

// sortableByDim lets kdtree's generic median-of-medians pivoting sort
// our point slice along dimension d without copying into [][]float64.
type sortableByDim struct {
	points []centroidPoint
	dim    kdtree.Dim
}

func (s sortableByDim) Len() int { return len(s.points) }
func (s sortableByDim) Less(i, j int) bool {
	return s.points[i].Compare(s.points[j], s.dim) < 0
}
func (s sortableByDim) Swap(i, j int) {
	s.points[i], s.points[j] = s.points[j], s.points[i]
}
func (s sortableByDim) Slice(i, j int) kdtree.SortSlicer {
	return sortableByDim{s.points[i:j], s.dim}
}

// NearestFaceDistance returns the shortest centroid-to-centroid
// distance from face to any face in the set the tree was built from,
// via a single nearest-neighbour query.
func NearestFaceDistance(tree *kdtree.Tree, treeLen int, m *Mesh, face Face) float64 {
	if treeLen == 0 {
		return math.Inf(1)
	}
	q := centroidPoint{pos: m.FaceCentroid(face)}
	_, dist := tree.Nearest(q)
	return math.Sqrt(dist)
}

// BuildTree constructs a kdtree.Tree over a CentroidSet, to be reused
// across every query against the same reference face set.
func BuildTree(set *CentroidSet) *kdtree.Tree {
	return kdtree.New(set, true)
}
