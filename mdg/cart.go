// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mdg

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/utl"
)

// NewPointGrid returns a 0D grid with a single cell located at x
func NewPointGrid(x []float64) (g *Grid, err error) {
	if len(x) != 3 {
		return nil, chk.Err("point must have 3 coordinates")
	}
	g = &Grid{
		Dim:         0,
		Ncells:      1,
		CellCenters: [][]float64{{x[0], x[1], x[2]}},
		CellVolumes: []float64{1},
		FaceTags:    make(map[string][]int),
	}
	err = g.Init()
	return
}

// NewCartGrid1D returns a 1D grid along x with nx cells over [x0, x0+lx] at height y
//  Faces are numbered from left to right; normals point in +x
func NewCartGrid1D(nx int, x0, lx, y float64) (g *Grid, err error) {
	if nx < 1 || lx <= 0 {
		return nil, chk.Err("1D grid requires nx > 0 and lx > 0. nx=%d lx=%g", nx, lx)
	}
	dx := lx / float64(nx)
	g = &Grid{Dim: 1, Ncells: nx, Nfaces: nx + 1, FaceTags: make(map[string][]int)}
	g.CellCenters = utl.Alloc(nx, 3)
	g.CellVolumes = make([]float64, nx)
	for i := 0; i < nx; i++ {
		g.CellCenters[i][0] = x0 + (float64(i)+0.5)*dx
		g.CellCenters[i][1] = y
		g.CellVolumes[i] = dx
	}
	g.FaceCenters = utl.Alloc(nx+1, 3)
	g.FaceNormals = utl.Alloc(nx+1, 3)
	g.FaceAreas = make([]float64, nx+1)
	g.FaceCells = make([][2]int, nx+1)
	for i := 0; i <= nx; i++ {
		g.FaceCenters[i][0] = x0 + float64(i)*dx
		g.FaceCenters[i][1] = y
		g.FaceNormals[i][0] = 1
		g.FaceAreas[i] = 1
		g.FaceCells[i] = [2]int{i - 1, i}
	}
	g.FaceCells[nx][1] = -1
	g.FaceTags["xmin"] = []int{0}
	g.FaceTags["xmax"] = []int{nx}
	err = g.Init()
	return
}

// NewCartGrid2D returns a 2D grid with nx×ny cells over [0,lx]×[0,ly]
//  Cells are numbered as c = i + j*nx. Faces normal to x come first, numbered as
//  i + j*(nx+1); faces normal to y follow, numbered as nxfaces + i + j*nx
func NewCartGrid2D(nx, ny int, lx, ly float64) (g *Grid, err error) {
	if nx < 1 || ny < 1 || lx <= 0 || ly <= 0 {
		return nil, chk.Err("2D grid requires nx, ny, lx, ly > 0. nx=%d ny=%d lx=%g ly=%g", nx, ny, lx, ly)
	}
	dx, dy := lx/float64(nx), ly/float64(ny)
	nxf := (nx + 1) * ny
	nyf := nx * (ny + 1)
	g = &Grid{Dim: 2, Ncells: nx * ny, Nfaces: nxf + nyf, FaceTags: make(map[string][]int)}
	g.CellCenters = utl.Alloc(g.Ncells, 3)
	g.CellVolumes = make([]float64, g.Ncells)
	for j := 0; j < ny; j++ {
		for i := 0; i < nx; i++ {
			c := i + j*nx
			g.CellCenters[c][0] = (float64(i) + 0.5) * dx
			g.CellCenters[c][1] = (float64(j) + 0.5) * dy
			g.CellVolumes[c] = dx * dy
		}
	}
	g.FaceCenters = utl.Alloc(g.Nfaces, 3)
	g.FaceNormals = utl.Alloc(g.Nfaces, 3)
	g.FaceAreas = make([]float64, g.Nfaces)
	g.FaceCells = make([][2]int, g.Nfaces)
	for j := 0; j < ny; j++ {
		for i := 0; i <= nx; i++ {
			f := i + j*(nx+1)
			g.FaceCenters[f][0] = float64(i) * dx
			g.FaceCenters[f][1] = (float64(j) + 0.5) * dy
			g.FaceNormals[f][0] = dy
			g.FaceAreas[f] = dy
			left, right := i-1+j*nx, i+j*nx
			if i == 0 {
				left = -1
				g.FaceTags["xmin"] = append(g.FaceTags["xmin"], f)
			}
			if i == nx {
				right = -1
				g.FaceTags["xmax"] = append(g.FaceTags["xmax"], f)
			}
			g.FaceCells[f] = [2]int{left, right}
		}
	}
	for j := 0; j <= ny; j++ {
		for i := 0; i < nx; i++ {
			f := nxf + i + j*nx
			g.FaceCenters[f][0] = (float64(i) + 0.5) * dx
			g.FaceCenters[f][1] = float64(j) * dy
			g.FaceNormals[f][1] = dx
			g.FaceAreas[f] = dx
			below, above := i+(j-1)*nx, i+j*nx
			if j == 0 {
				below = -1
				g.FaceTags["ymin"] = append(g.FaceTags["ymin"], f)
			}
			if j == ny {
				above = -1
				g.FaceTags["ymax"] = append(g.FaceTags["ymax"], f)
			}
			g.FaceCells[f] = [2]int{below, above}
		}
	}
	err = g.Init()
	return
}

// NewFracturedCartBucket returns a bucket with a 2D grid of nx×ny cells over [0,lx]×[0,ly] and a
// horizontal 1D fracture crossing the whole domain at y = jf*ly/ny (0 < jf < ny)
//  The y-faces on the fracture are split: the original face keeps the cell below and a new face
//  (appended at the end) gets the cell above. Both sets are tagged as "fracture". The bucket
//  holds the 2D grid as node 0 and the 1D fracture as node 1; the edge pairs each split face
//  with the fracture cell at the same x position.
func NewFracturedCartBucket(nx, ny int, lx, ly float64, jf int) (b *Bucket, err error) {
	if jf <= 0 || jf >= ny {
		return nil, chk.Err("fracture row must be in (0,%d). jf=%d is invalid", ny, jf)
	}
	g2, err := NewCartGrid2D(nx, ny, lx, ly)
	if err != nil {
		return
	}
	dy := ly / float64(ny)
	nxf := (nx + 1) * ny
	below := make([]int, nx)
	above := make([]int, nx)
	for i := 0; i < nx; i++ {
		f := nxf + i + jf*nx
		nf := g2.Nfaces + i
		cup := g2.FaceCells[f][1]
		g2.FaceCells[f][1] = -1
		g2.FaceCells = append(g2.FaceCells, [2]int{-1, cup})
		g2.FaceCenters = append(g2.FaceCenters, append([]float64{}, g2.FaceCenters[f]...))
		g2.FaceNormals = append(g2.FaceNormals, append([]float64{}, g2.FaceNormals[f]...))
		g2.FaceAreas = append(g2.FaceAreas, g2.FaceAreas[f])
		below[i], above[i] = f, nf
	}
	g2.Nfaces += nx
	g2.FaceTags[TagFracture] = append(append([]int{}, below...), above...)
	err = g2.Init()
	if err != nil {
		return
	}
	g1, err := NewCartGrid1D(nx, 0, lx, float64(jf)*dy)
	if err != nil {
		return
	}
	b = NewBucket()
	n2, err := b.AddNode(g2)
	if err != nil {
		return
	}
	n1, err := b.AddNode(g1)
	if err != nil {
		return
	}
	faces := append(append([]int{}, below...), above...)
	cells := append(utl.IntRange(nx), utl.IntRange(nx)...)
	_, err = b.AddEdge(n2, n1, faces, cells)
	return
}
