// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package mdg implements mixed-dimensional grids: subdomain geometry, the bucket holding the
// hierarchy of subdomains and interfaces, and the per-node data records
package mdg

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// TagFracture is the name of the face tag marking faces lying on a lower-dimensional subdomain
const TagFracture = "fracture"

// Grid holds the (immutable) geometry of one subdomain
//  Note: normals are area-weighted and point from FaceCells[f][0] to FaceCells[f][1];
//        a missing neighbour is indicated by -1
type Grid struct {

	// input
	Dim         int              // topological dimension: 0, 1, 2 or 3
	Ncells      int              // number of cells
	Nfaces      int              // number of faces
	CellCenters [][]float64      // [ncells][3] cell centroids
	CellVolumes []float64        // [ncells] cell measures (length, area or volume)
	FaceCenters [][]float64      // [nfaces][3] face centroids
	FaceNormals [][]float64      // [nfaces][3] area-weighted normals
	FaceAreas   []float64        // [nfaces] face measures
	FaceCells   [][2]int         // [nfaces] neighbour cells
	FaceTags    map[string][]int // named sets of faces; e.g. "xmin", "fracture"

	// derived
	CellFaces [][]int     // [ncells][nfacesInCell] faces of each cell
	CellSigns [][]float64 // [ncells][nfacesInCell] +1 if normal points outwards of cell; -1 otherwise
	onfrac    []bool      // [nfaces] face lies on a lower-dimensional subdomain
}

// Init checks input arrays and computes derived data
func (o *Grid) Init() (err error) {

	// check
	if o.Dim < 0 || o.Dim > 3 {
		return chk.Err("grid dimension must be in [0,3]. dim=%d is invalid", o.Dim)
	}
	if o.Ncells < 1 {
		return chk.Err("grid must have at least one cell. ncells=%d is invalid", o.Ncells)
	}
	if len(o.CellCenters) != o.Ncells || len(o.CellVolumes) != o.Ncells {
		return chk.Err("cell arrays must have length equal to ncells=%d. len(centers)=%d len(volumes)=%d", o.Ncells, len(o.CellCenters), len(o.CellVolumes))
	}
	if len(o.FaceCenters) != o.Nfaces || len(o.FaceNormals) != o.Nfaces || len(o.FaceAreas) != o.Nfaces || len(o.FaceCells) != o.Nfaces {
		return chk.Err("face arrays must have length equal to nfaces=%d", o.Nfaces)
	}
	for c := 0; c < o.Ncells; c++ {
		if len(o.CellCenters[c]) != 3 {
			return chk.Err("cell center %d must have 3 components", c)
		}
		if o.CellVolumes[c] <= 0 {
			return chk.Err("cell %d has non-positive volume %g", c, o.CellVolumes[c])
		}
	}

	// cell => faces
	o.CellFaces = make([][]int, o.Ncells)
	o.CellSigns = make([][]float64, o.Ncells)
	for f, cells := range o.FaceCells {
		if len(o.FaceCenters[f]) != 3 || len(o.FaceNormals[f]) != 3 {
			return chk.Err("face %d: center and normal must have 3 components", f)
		}
		if cells[0] < 0 && cells[1] < 0 {
			return chk.Err("face %d is not connected to any cell", f)
		}
		for s, c := range cells {
			if c < 0 {
				continue
			}
			if c >= o.Ncells {
				return chk.Err("face %d refers to cell %d which is out of range [0,%d)", f, c, o.Ncells)
			}
			o.CellFaces[c] = append(o.CellFaces[c], f)
			o.CellSigns[c] = append(o.CellSigns[c], 1.0-2.0*float64(s))
		}
	}

	// tags
	o.onfrac = make([]bool, o.Nfaces)
	for key, faces := range o.FaceTags {
		for _, f := range faces {
			if f < 0 || f >= o.Nfaces {
				return chk.Err("tag %q refers to face %d which is out of range [0,%d)", key, f, o.Nfaces)
			}
		}
	}
	for _, f := range o.FaceTags[TagFracture] {
		o.onfrac[f] = true
	}
	return
}

// IsBoundary tells whether face f has only one neighbour
func (o *Grid) IsBoundary(f int) bool {
	return o.FaceCells[f][0] < 0 || o.FaceCells[f][1] < 0
}

// OnFracture tells whether face f lies on a lower-dimensional subdomain
func (o *Grid) OnFracture(f int) bool {
	if o.onfrac == nil {
		return false
	}
	return o.onfrac[f]
}

// BoundaryFaces returns the faces with only one neighbour, excluding fracture faces
func (o *Grid) BoundaryFaces() (faces []int) {
	for f := 0; f < o.Nfaces; f++ {
		if o.IsBoundary(f) && !o.OnFracture(f) {
			faces = append(faces, f)
		}
	}
	return
}

// BoundaryCell returns the only cell of boundary face f and the sign of the normal with
// respect to this cell (+1 if the normal points outwards)
func (o *Grid) BoundaryCell(f int) (cell int, sign float64) {
	if o.FaceCells[f][0] >= 0 {
		return o.FaceCells[f][0], 1
	}
	return o.FaceCells[f][1], -1
}

// HalfTrans computes the half transmissibility of cell c with respect to face f
//  t = |n · K · d| / |d|²   with d = xface - xcell
func (o *Grid) HalfTrans(c, f int, K [3][3]float64) float64 {
	var d [3]float64
	var dd float64
	for i := 0; i < 3; i++ {
		d[i] = o.FaceCenters[f][i] - o.CellCenters[c][i]
		dd += d[i] * d[i]
	}
	if dd < 1e-30 {
		chk.Panic("face %d and cell %d centers coincide", f, c)
	}
	var nkd float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			nkd += o.FaceNormals[f][i] * K[i][j] * d[j]
		}
	}
	return math.Abs(nkd) / dd
}

// Limits returns the bounding box of cell centers
func (o *Grid) Limits() (xmin, xmax []float64) {
	xmin = append([]float64{}, o.CellCenters[0]...)
	xmax = append([]float64{}, o.CellCenters[0]...)
	for _, x := range o.CellCenters {
		for i := 0; i < 3; i++ {
			xmin[i] = math.Min(xmin[i], x[i])
			xmax[i] = math.Max(xmax[i], x[i])
		}
	}
	return
}
