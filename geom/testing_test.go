// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// unitCube builds a single hex8 element occupying [0,1]^3, the
// smallest mesh every geometry test in this package is built from.
func unitCube() *Mesh {
	nodes := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, // 0
		{X: 1, Y: 0, Z: 0}, // 1
		{X: 1, Y: 1, Z: 0}, // 2
		{X: 0, Y: 1, Z: 0}, // 3
		{X: 0, Y: 0, Z: 1}, // 4
		{X: 1, Y: 0, Z: 1}, // 5
		{X: 1, Y: 1, Z: 1}, // 6
		{X: 0, Y: 1, Z: 1}, // 7
	}
	elems := []Element{{Type: Hex8, Nodes: []int{0, 1, 2, 3, 4, 5, 6, 7}, Part: "body"}}
	m, err := NewMesh(nodes, elems, []string{"body"}, map[string]PartRange{"body": {0, 1}})
	if err != nil {
		panic(err)
	}
	return m
}

// twoCubesStack builds two stacked hex8 elements sharing the z=1
// face, so that face appears in two elements and every other face is
// a boundary face.
func twoCubesStack() *Mesh {
	nodes := []r3.Vec{
		{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 1, Y: 1, Z: 0}, {X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 1}, {X: 0, Y: 1, Z: 1},
		{X: 0, Y: 0, Z: 2}, {X: 1, Y: 0, Z: 2}, {X: 1, Y: 1, Z: 2}, {X: 0, Y: 1, Z: 2},
	}
	elems := []Element{
		{Type: Hex8, Nodes: []int{0, 1, 2, 3, 4, 5, 6, 7}, Part: "body"},
		{Type: Hex8, Nodes: []int{4, 5, 6, 7, 8, 9, 10, 11}, Part: "body"},
	}
	m, err := NewMesh(nodes, elems, []string{"body"}, map[string]PartRange{"body": {0, 2}})
	if err != nil {
		panic(err)
	}
	return m
}
