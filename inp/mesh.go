// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"

	"github.com/anderalex803/porepy/mdg"
	"github.com/cpmech/gosl/chk"
)

// CartesianData holds data to generate a 2D Cartesian grid with an optional horizontal fracture
type CartesianData struct {
	Nx       int     `json:"nx"`       // number of cells along x
	Ny       int     `json:"ny"`       // number of cells along y; 0 => 1D grid
	Lx       float64 `json:"lx"`       // length along x
	Ly       float64 `json:"ly"`       // length along y
	Fracture int     `json:"fracture"` // row of y-faces holding a fracture; 0 => no fracture
}

// GridData holds the geometry of one subdomain as read from a mesh file
type GridData struct {
	Dim         int              `json:"dim"`
	CellCenters [][]float64      `json:"cellcenters"`
	CellVolumes []float64        `json:"cellvolumes"`
	FaceCenters [][]float64      `json:"facecenters"`
	FaceNormals [][]float64      `json:"facenormals"`
	FaceAreas   []float64        `json:"faceareas"`
	FaceCells   [][2]int         `json:"facecells"`
	FaceTags    map[string][]int `json:"facetags"`
}

// InterfaceData holds one interface as read from a mesh file
type InterfaceData struct {
	A     int   `json:"a"`     // index of first grid
	B     int   `json:"b"`     // index of second grid
	Faces []int `json:"faces"` // faces of the higher-dimensional grid
	Cells []int `json:"cells"` // cells of the lower-dimensional grid
}

// Mesh holds a mixed-dimensional mesh read from file
type Mesh struct {
	Cartesian  *CartesianData   `json:"cartesian"`  // generator data
	Grids      []*GridData      `json:"grids"`      // explicit grids
	Interfaces []*InterfaceData `json:"interfaces"` // explicit interfaces
}

// ReadMesh reads a mesh file (JSON or YAML) and builds the bucket
func ReadMesh(dir, fn string) (b *mdg.Bucket, err error) {

	// read file
	buf, err := os.ReadFile(filepath.Join(dir, fn))
	if err != nil {
		return nil, chk.Err("cannot read mesh file %q:\n%v", fn, err)
	}

	// decode
	var msh Mesh
	err = decode(fn, buf, &msh)
	if err != nil {
		return nil, chk.Err("cannot decode mesh file %q:\n%v", fn, err)
	}
	return msh.Bucket()
}

// GetBucket returns the bucket defined by the mesh data of a simulation
func (o *MeshData) GetBucket(dir string) (*mdg.Bucket, error) {
	if o.File != "" {
		return ReadMesh(dir, o.File)
	}
	if o.Cartesian != nil {
		return o.Cartesian.Bucket()
	}
	return nil, chk.Err("mesh file or cartesian data must be given")
}

// Bucket builds the bucket
func (o *Mesh) Bucket() (b *mdg.Bucket, err error) {

	// generated
	if o.Cartesian != nil {
		return o.Cartesian.Bucket()
	}

	// explicit
	if len(o.Grids) == 0 {
		return nil, chk.Err("mesh has no grids")
	}
	b = mdg.NewBucket()
	for i, gd := range o.Grids {
		g := &mdg.Grid{
			Dim:         gd.Dim,
			Ncells:      len(gd.CellVolumes),
			Nfaces:      len(gd.FaceAreas),
			CellCenters: gd.CellCenters,
			CellVolumes: gd.CellVolumes,
			FaceCenters: gd.FaceCenters,
			FaceNormals: gd.FaceNormals,
			FaceAreas:   gd.FaceAreas,
			FaceCells:   gd.FaceCells,
			FaceTags:    gd.FaceTags,
		}
		if _, err = b.AddNode(g); err != nil {
			return nil, chk.Err("grid %d is invalid:\n%v", i, err)
		}
	}
	for i, id := range o.Interfaces {
		if id.A < 0 || id.A >= len(b.Nodes) || id.B < 0 || id.B >= len(b.Nodes) {
			return nil, chk.Err("interface %d refers to grids (%d,%d) out of range", i, id.A, id.B)
		}
		if _, err = b.AddEdge(b.Nodes[id.A], b.Nodes[id.B], id.Faces, id.Cells); err != nil {
			return nil, chk.Err("interface %d is invalid:\n%v", i, err)
		}
	}
	return
}

// Bucket builds the bucket of a Cartesian grid
func (o *CartesianData) Bucket() (b *mdg.Bucket, err error) {
	if o.Lx <= 0 {
		o.Lx = 1
	}
	if o.Ny == 0 {
		g, err := mdg.NewCartGrid1D(o.Nx, 0, o.Lx, 0)
		if err != nil {
			return nil, err
		}
		b = mdg.NewBucket()
		_, err = b.AddNode(g)
		return b, err
	}
	if o.Ly <= 0 {
		o.Ly = 1
	}
	if o.Fracture > 0 {
		return mdg.NewFracturedCartBucket(o.Nx, o.Ny, o.Lx, o.Ly, o.Fracture)
	}
	g, err := mdg.NewCartGrid2D(o.Nx, o.Ny, o.Lx, o.Ly)
	if err != nil {
		return
	}
	b = mdg.NewBucket()
	_, err = b.AddNode(g)
	return
}
