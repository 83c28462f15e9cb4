// Copyright 2026 The VEXIS-CAE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package meshio loads a replacement mesh produced by the external
// mesher into the geometry kernel's in-memory representation. The
// accepted container is a legacy VTK ASCII unstructured grid
// (POINTS/CELLS/CELL_TYPES) plus a named CELL_DATA string array
// identifying which part each cell belongs to — the same shape
// inp.ReadMsh decodes for gofem's JSON mesh container (Verts, Cells,
// a part number per cell), just with VTK's dataset keywords and cell
// type codes in place of JSON.
package meshio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/A6721jpn/vexis/geom"
	"gonum.org/v1/gonum/spatial/r3"
)

// ErrMalformedMesh is returned when the mesh container's structure
// does not parse: a missing dataset keyword, a cell-connectivity
// count that disagrees with CELLS, or an unrecognized VTK cell type
// code.
var ErrMalformedMesh = errors.New("meshio: malformed mesh")

// ErrMissingPart is returned when the mesh declares no "part" cell
// array, which the Set Reconstructor requires to resolve per-part
// selections.
var ErrMissingPart = errors.New("meshio: mesh has no part cell array")

// vtkCellType maps the legacy VTK cell-type codes this loader
// understands to the geometry kernel's element types, mirroring the
// code table used by the mesher's own VTK export (12=hexahedron,
// 24=quadratic_tetra, 10=tetra, 13=wedge).
var vtkCellType = map[int]geom.ElemType{
	12: geom.Hex8,
	25: geom.Hex20,
	10: geom.Tet4,
	24: geom.Tet10,
	13: geom.Wedge,
	14: geom.Pyramid,
}

// Load decodes a legacy VTK ASCII unstructured-grid mesh from r and
// builds a *geom.Mesh. partArrayName selects which CELL_DATA string
// array to read part assignments from.
func Load(r io.Reader, partArrayName string) (*geom.Mesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var (
		points      []r3.Vec
		cellConn    [][]int
		cellTypes   []int
		partNames   []string
		numCells    int
		sawCellData bool
	)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch strings.ToUpper(fields[0]) {
		case "POINTS":
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: bad POINTS count: %v", ErrMalformedMesh, err)
			}
			pts, err := readPoints(sc, n)
			if err != nil {
				return nil, err
			}
			points = pts

		case "CELLS":
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: bad CELLS count: %v", ErrMalformedMesh, err)
			}
			conn, err := readCells(sc, n)
			if err != nil {
				return nil, err
			}
			cellConn = conn
			numCells = n

		case "CELL_TYPES":
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("%w: bad CELL_TYPES count: %v", ErrMalformedMesh, err)
			}
			types, err := readCellTypes(sc, n)
			if err != nil {
				return nil, err
			}
			cellTypes = types

		case "CELL_DATA":
			sawCellData = true

		case "SCALARS":
			if !sawCellData {
				continue
			}
			if len(fields) < 2 || fields[1] != partArrayName {
				// skip this array's LOOKUP_TABLE line and its data
				if sc.Scan() {
					// consumed LOOKUP_TABLE line
				}
				skipValues(sc, numCells)
				continue
			}
			if sc.Scan() {
				// LOOKUP_TABLE line, discarded
			}
			names, err := readPartNames(sc, numCells)
			if err != nil {
				return nil, err
			}
			partNames = names
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMesh, err)
	}

	if points == nil || cellConn == nil || cellTypes == nil {
		return nil, fmt.Errorf("%w: missing POINTS, CELLS, or CELL_TYPES section", ErrMalformedMesh)
	}
	if partNames == nil {
		return nil, ErrMissingPart
	}
	if len(cellConn) != len(cellTypes) || len(cellConn) != len(partNames) {
		return nil, fmt.Errorf("%w: CELLS, CELL_TYPES and part array lengths disagree", ErrMalformedMesh)
	}

	return buildMesh(points, cellConn, cellTypes, partNames)
}

func readPoints(sc *bufio.Scanner, n int) ([]r3.Vec, error) {
	vals := make([]float64, 0, n*3)
	for len(vals) < n*3 && sc.Scan() {
		for _, f := range strings.Fields(sc.Text()) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad point coordinate %q: %v", ErrMalformedMesh, f, err)
			}
			vals = append(vals, v)
		}
	}
	if len(vals) != n*3 {
		return nil, fmt.Errorf("%w: expected %d point coordinates, got %d", ErrMalformedMesh, n*3, len(vals))
	}
	pts := make([]r3.Vec, n)
	for i := 0; i < n; i++ {
		pts[i] = r3.Vec{X: vals[3*i], Y: vals[3*i+1], Z: vals[3*i+2]}
	}
	return pts, nil
}

func readCells(sc *bufio.Scanner, n int) ([][]int, error) {
	conn := make([][]int, 0, n)
	for len(conn) < n && sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		count, err := strconv.Atoi(fields[0])
		if err != nil || len(fields) != count+1 {
			return nil, fmt.Errorf("%w: malformed CELLS entry %q", ErrMalformedMesh, sc.Text())
		}
		ids := make([]int, count)
		for i, f := range fields[1:] {
			id, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: bad vertex id %q: %v", ErrMalformedMesh, f, err)
			}
			ids[i] = id
		}
		conn = append(conn, ids)
	}
	if len(conn) != n {
		return nil, fmt.Errorf("%w: expected %d CELLS entries, got %d", ErrMalformedMesh, n, len(conn))
	}
	return conn, nil
}

func readCellTypes(sc *bufio.Scanner, n int) ([]int, error) {
	types := make([]int, 0, n)
	for len(types) < n && sc.Scan() {
		for _, f := range strings.Fields(sc.Text()) {
			v, err := strconv.Atoi(f)
			if err != nil {
				return nil, fmt.Errorf("%w: bad cell type code %q: %v", ErrMalformedMesh, f, err)
			}
			types = append(types, v)
		}
	}
	if len(types) != n {
		return nil, fmt.Errorf("%w: expected %d CELL_TYPES entries, got %d", ErrMalformedMesh, n, len(types))
	}
	return types, nil
}

func readPartNames(sc *bufio.Scanner, n int) ([]string, error) {
	names := make([]string, 0, n)
	for len(names) < n && sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		names = append(names, strings.Trim(line, `"`))
	}
	if len(names) != n {
		return nil, fmt.Errorf("%w: expected %d part values, got %d", ErrMalformedMesh, n, len(names))
	}
	return names, nil
}

func skipValues(sc *bufio.Scanner, n int) {
	count := 0
	for count < n && sc.Scan() {
		count += len(strings.Fields(sc.Text()))
	}
}

func buildMesh(points []r3.Vec, cellConn [][]int, cellTypes []int, partNames []string) (*geom.Mesh, error) {
	var partOrder []string
	seen := make(map[string]bool)
	for _, name := range partNames {
		if !seen[name] {
			seen[name] = true
			partOrder = append(partOrder, name)
		}
	}

	elems := make([]geom.Element, 0, len(cellConn))
	byPart := make(map[string][]geom.Element, len(partOrder))
	for i, conn := range cellConn {
		et, ok := vtkCellType[cellTypes[i]]
		if !ok {
			return nil, fmt.Errorf("%w: unrecognized VTK cell type code %d", ErrMalformedMesh, cellTypes[i])
		}
		part := partNames[i]
		byPart[part] = append(byPart[part], geom.Element{Type: et, Nodes: conn, Part: part})
	}

	parts := make(map[string]geom.PartRange, len(partOrder))
	for _, name := range partOrder {
		start := len(elems)
		elems = append(elems, byPart[name]...)
		parts[name] = geom.PartRange{Start: start, End: len(elems)}
	}

	return geom.NewMesh(points, elems, partOrder, parts)
}
