// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fvm

import (
	"github.com/anderalex803/porepy/inp"
	"github.com/anderalex803/porepy/mdg"
	"github.com/cpmech/gosl/chk"
)

// ProblemData defines the data of one subdomain
//  BcVal and Source are evaluated at every time step; the remaining functions only when the
//  problem is initialised
type ProblemData interface {
	Bc(g *mdg.Grid) (*mdg.BoundaryCondition, error) // types of boundary conditions
	BcVal(g *mdg.Grid, t float64) []float64         // [nfaces] boundary values at time t
	Source(g *mdg.Grid, t float64) []float64        // [ncells] integrated source at time t
	Initial(g *mdg.Grid) []float64                  // [ncells] initial condition
	Porosity(g *mdg.Grid) []float64                 // [ncells] porosity
	Aperture(g *mdg.Grid) []float64                 // [ncells] aperture
	Diffusivity(g *mdg.Grid) *mdg.Tensor            // [ncells] second order diffusivity tensor
	Discharge(g *mdg.Grid) []float64                // [nfaces] Darcy flux along face normals
}

// InterfaceData defines the data of one interface
type InterfaceData interface {
	NormalDiff(e *mdg.Edge) []float64 // [npairs] normal diffusivity
	Flux(e *mdg.Edge) []float64       // [npairs] discharge from the higher to the lower dimensional grid
}

// DefaultData implements ProblemData and InterfaceData with default values:
//  bc none, bc values 0, source 0, initial 0, porosity 1, aperture 1, diffusivity 1, discharge 0,
//  normal diffusivity 1 and interface flux 0
type DefaultData struct{}

func (o DefaultData) Bc(g *mdg.Grid) (*mdg.BoundaryCondition, error) {
	return mdg.NewBoundaryCondition(g), nil
}
func (o DefaultData) BcVal(g *mdg.Grid, t float64) []float64 { return make([]float64, g.Nfaces) }
func (o DefaultData) Source(g *mdg.Grid, t float64) []float64 { return make([]float64, g.Ncells) }
func (o DefaultData) Initial(g *mdg.Grid) []float64 { return make([]float64, g.Ncells) }
func (o DefaultData) Porosity(g *mdg.Grid) []float64 { return fill(g.Ncells, 1) }
func (o DefaultData) Aperture(g *mdg.Grid) []float64 { return fill(g.Ncells, 1) }
func (o DefaultData) Diffusivity(g *mdg.Grid) *mdg.Tensor { return mdg.NewTensorIso(fill(g.Ncells, 1)) }
func (o DefaultData) Discharge(g *mdg.Grid) []float64 { return make([]float64, g.Nfaces) }
func (o DefaultData) NormalDiff(e *mdg.Edge) []float64 { return fill(e.Npairs(), 1) }
func (o DefaultData) Flux(e *mdg.Edge) []float64 { return make([]float64, e.Npairs()) }

// SimData implements ProblemData and InterfaceData using the boundary conditions, sources,
// materials and functions of a simulation (.sim) file
type SimData struct {
	Sim    *inp.Simulation     // simulation data
	MaxDim int                 // maximum dimension of subdomains; lower ones use the material aperture
	fcns   map[string]inp.Func // functions by name
}

// NewSimData returns a new SimData
func NewSimData(sim *inp.Simulation, maxdim int) (o *SimData, err error) {
	o = &SimData{Sim: sim, MaxDim: maxdim, fcns: make(map[string]inp.Func)}
	names := []string{sim.Data.IniFcn}
	for _, bc := range sim.Bcs {
		names = append(names, bc.Func)
	}
	for _, src := range sim.Sources {
		names = append(names, src.Func)
	}
	for _, name := range names {
		o.fcns[name], err = sim.Functions.Get(name)
		if err != nil {
			return nil, err
		}
	}
	return
}

// Bc returns the types of boundary conditions on faces tagged in the .sim file
//  Note: tags not present in g are skipped
func (o *SimData) Bc(g *mdg.Grid) (bc *mdg.BoundaryCondition, err error) {
	bc = mdg.NewBoundaryCondition(g)
	for _, d := range o.Sim.Bcs {
		if !applies(d.Dims, g.Dim) {
			continue
		}
		typ, err := mdg.NewBcType(d.Type)
		if err != nil {
			return nil, err
		}
		err = bc.Set(g, o.faces(g, d.Tag), typ)
		if err != nil {
			return nil, chk.Err("cannot set boundary condition on tag %q:\n%v", d.Tag, err)
		}
	}
	return
}

// BcVal returns boundary values; Neumann values are flux densities multiplied by face areas
func (o *SimData) BcVal(g *mdg.Grid, t float64) []float64 {
	v := make([]float64, g.Nfaces)
	for _, d := range o.Sim.Bcs {
		if !applies(d.Dims, g.Dim) {
			continue
		}
		f := o.fcns[d.Func]
		for _, face := range o.faces(g, d.Tag) {
			v[face] = f.F(t, g.FaceCenters[face])
			if d.Type == "neu" {
				v[face] *= g.FaceAreas[face]
			}
		}
	}
	return v
}

// Source returns source densities integrated over cells
func (o *SimData) Source(g *mdg.Grid, t float64) []float64 {
	v := make([]float64, g.Ncells)
	apt := o.Aperture(g)
	for _, d := range o.Sim.Sources {
		if !applies(d.Dims, g.Dim) {
			continue
		}
		f := o.fcns[d.Func]
		for c := 0; c < g.Ncells; c++ {
			v[c] += f.F(t, g.CellCenters[c]) * g.CellVolumes[c] * apt[c]
		}
	}
	return v
}

// Initial returns the initial condition
func (o *SimData) Initial(g *mdg.Grid) []float64 {
	f := o.fcns[o.Sim.Data.IniFcn]
	v := make([]float64, g.Ncells)
	for c := 0; c < g.Ncells; c++ {
		v[c] = f.F(0, g.CellCenters[c])
	}
	return v
}

// Porosity returns the porosity of the material
func (o *SimData) Porosity(g *mdg.Grid) []float64 {
	return fill(g.Ncells, o.material(g.Dim).Phi)
}

// Aperture returns the aperture of the material for lower-dimensional subdomains and 1 otherwise
func (o *SimData) Aperture(g *mdg.Grid) []float64 {
	if g.Dim >= o.MaxDim {
		return fill(g.Ncells, 1)
	}
	return fill(g.Ncells, o.material(g.Dim).Apt)
}

// Diffusivity returns the diagonal diffusivity tensor of the material
func (o *SimData) Diffusivity(g *mdg.Grid) *mdg.Tensor {
	m := o.material(g.Dim)
	return mdg.NewTensorDiag(fill(g.Ncells, m.Kxx), fill(g.Ncells, m.Kyy), fill(g.Ncells, m.Kzz))
}

// Discharge returns the flux of the constant velocity field along face normals
func (o *SimData) Discharge(g *mdg.Grid) []float64 {
	q := make([]float64, g.Nfaces)
	vel := o.Sim.Data.Velocity
	if vel == nil {
		return q
	}
	apt := o.Aperture(g)
	for f := 0; f < g.Nfaces; f++ {
		c, _ := g.BoundaryCell(f)
		for i := 0; i < 3; i++ {
			q[f] += g.FaceNormals[f][i] * vel[i]
		}
		q[f] *= apt[c]
	}
	return q
}

// NormalDiff returns the normal diffusivity of the material of the lower-dimensional subdomain
func (o *SimData) NormalDiff(e *mdg.Edge) []float64 {
	_, low := e.HighLow()
	return fill(e.Npairs(), o.material(low.Grid.Dim).Kn)
}

// Flux returns the flux of the constant velocity field through the interface
func (o *SimData) Flux(e *mdg.Edge) []float64 {
	lambda := make([]float64, e.Npairs())
	vel := o.Sim.Data.Velocity
	if vel == nil {
		return lambda
	}
	high, _ := e.HighLow()
	g := high.Grid
	for k, f := range e.Faces {
		_, sign := g.BoundaryCell(f)
		for i := 0; i < 3; i++ {
			lambda[k] += sign * g.FaceNormals[f][i] * vel[i]
		}
	}
	return lambda
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// material returns the material of subdomains of dimension dim or a default one
func (o *SimData) material(dim int) *inp.Material {
	if m := o.Sim.Materials.Get(dim); m != nil {
		return m
	}
	m := new(inp.Material)
	m.Init()
	return m
}

// faces returns the faces with the given tag that are not on fractures
func (o *SimData) faces(g *mdg.Grid, tag string) (res []int) {
	for _, f := range g.FaceTags[tag] {
		if g.IsBoundary(f) && !g.OnFracture(f) {
			res = append(res, f)
		}
	}
	return
}

// applies tells whether dim is in dims; empty dims means all
func applies(dims []int, dim int) bool {
	if len(dims) == 0 {
		return true
	}
	for _, d := range dims {
		if d == dim {
			return true
		}
	}
	return false
}

func fill(n int, v float64) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = v
	}
	return res
}
