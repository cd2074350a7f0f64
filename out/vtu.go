// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package out implements the output of mixed-dimensional results to VTU/PVD files
package out

import (
	"bytes"
	"path/filepath"

	"github.com/anderalex803/porepy/mdg"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// VTK cell type used to represent finite volume cells by their centers
const vtkVertex = 1

// Exporter writes one VTU file per subdomain and time index, and a PVD file collecting them
type Exporter struct {
	DirOut  string // output directory; e.g. /tmp/porepy/sim01/results
	FnKey   string // root of file names
	Verbose bool   // show messages

	// written files; one list per time index
	written map[int][]string
}

// NewExporter returns a new Exporter writing to filepath.Join(dirout, folder)
func NewExporter(dirout, folder, fnkey string, verbose bool) *Exporter {
	return &Exporter{
		DirOut:  filepath.Join(dirout, folder),
		FnKey:   fnkey,
		Verbose: verbose,
		written: make(map[int][]string),
	}
}

// VtuName returns the name of the VTU file of grid of dimension dim and index idx at time index tidx
func (o *Exporter) VtuName(dim, idx, tidx int) string {
	return io.Sf("%s_%d_g%d_%06d.vtu", o.FnKey, dim, idx, tidx)
}

// PvdName returns the name of the PVD file
func (o *Exporter) PvdName() string {
	return o.FnKey + ".pvd"
}

// WriteVtu writes the field named key of all subdomains at time index tidx
//  Cells are written as points located at cell centers with cell volumes and the field as data
func (o *Exporter) WriteVtu(b *mdg.Bucket, key string, tidx int) (err error) {
	o.written[tidx] = nil
	for _, n := range b.Nodes {
		g := n.Grid
		x, ok := n.Data.Fields[key]
		if !ok {
			return chk.Err("cannot export field %q of grid %d: field is missing", key, n.Idx)
		}
		if len(x) != g.Ncells {
			return chk.Err("cannot export field %q of grid %d: length %d != ncells %d", key, n.Idx, len(x), g.Ncells)
		}

		// header and footer
		var hdr, geo, dat, foo bytes.Buffer
		io.Ff(&hdr, "<?xml version=\"1.0\"?>\n<VTKFile type=\"UnstructuredGrid\" version=\"0.1\" byte_order=\"LittleEndian\">\n<UnstructuredGrid>\n")
		io.Ff(&hdr, "<Piece NumberOfPoints=\"%d\" NumberOfCells=\"%d\">\n", g.Ncells, g.Ncells)
		io.Ff(&foo, "</Piece>\n</UnstructuredGrid>\n</VTKFile>\n")

		// topology
		io.Ff(&geo, "<Points>\n<DataArray type=\"Float64\" NumberOfComponents=\"3\" format=\"ascii\">\n")
		for _, c := range g.CellCenters {
			io.Ff(&geo, "%23.15e %23.15e %23.15e ", c[0], c[1], c[2])
		}
		io.Ff(&geo, "\n</DataArray>\n</Points>\n")
		io.Ff(&geo, "<Cells>\n<DataArray type=\"Int32\" Name=\"connectivity\" format=\"ascii\">\n")
		for c := 0; c < g.Ncells; c++ {
			io.Ff(&geo, "%d ", c)
		}
		io.Ff(&geo, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"offsets\" format=\"ascii\">\n")
		for c := 0; c < g.Ncells; c++ {
			io.Ff(&geo, "%d ", c+1)
		}
		io.Ff(&geo, "\n</DataArray>\n<DataArray type=\"UInt8\" Name=\"types\" format=\"ascii\">\n")
		for c := 0; c < g.Ncells; c++ {
			io.Ff(&geo, "%d ", vtkVertex)
		}
		io.Ff(&geo, "\n</DataArray>\n</Cells>\n")

		// cells data
		io.Ff(&dat, "<CellData Scalars=\"TheScalars\">\n")
		io.Ff(&dat, "<DataArray type=\"Float64\" Name=\"%s\" NumberOfComponents=\"1\" format=\"ascii\">\n", key)
		for _, v := range x {
			io.Ff(&dat, "%23.15e ", v)
		}
		io.Ff(&dat, "\n</DataArray>\n<DataArray type=\"Float64\" Name=\"cell_volume\" NumberOfComponents=\"1\" format=\"ascii\">\n")
		for _, v := range g.CellVolumes {
			io.Ff(&dat, "%23.15e ", v)
		}
		io.Ff(&dat, "\n</DataArray>\n<DataArray type=\"Int32\" Name=\"grid_dim\" NumberOfComponents=\"1\" format=\"ascii\">\n")
		for c := 0; c < g.Ncells; c++ {
			io.Ff(&dat, "%d ", g.Dim)
		}
		io.Ff(&dat, "\n</DataArray>\n</CellData>\n")

		// save file
		fn := o.VtuName(g.Dim, n.Idx, tidx)
		o.save(fn, &hdr, &geo, &dat, &foo)
		o.written[tidx] = append(o.written[tidx], fn)
	}
	return
}

// WritePvd writes the PVD file listing the VTU files written at the given time indices
func (o *Exporter) WritePvd(times []float64, tidxs []int) (err error) {
	if len(times) != len(tidxs) {
		return chk.Err("number of times (%d) must be equal to number of time indices (%d)", len(times), len(tidxs))
	}
	var buf bytes.Buffer
	io.Ff(&buf, "<?xml version=\"1.0\"?>\n<VTKFile type=\"Collection\" version=\"0.1\" byte_order=\"LittleEndian\">\n<Collection>\n")
	for i, tidx := range tidxs {
		files, ok := o.written[tidx]
		if !ok {
			return chk.Err("time index %d has not been written", tidx)
		}
		for k, fn := range files {
			io.Ff(&buf, "<DataSet timestep=\"%g\" group=\"\" part=\"%d\" file=\"%s\"/>\n", times[i], k, fn)
		}
	}
	io.Ff(&buf, "</Collection>\n</VTKFile>\n")
	o.save(o.PvdName(), &buf)
	return
}

// save writes buffers to file
func (o *Exporter) save(fn string, bufs ...*bytes.Buffer) {
	if o.Verbose {
		io.WriteFileVD(o.DirOut, fn, bufs...)
		return
	}
	io.WriteFileD(o.DirOut, fn, bufs...)
}
