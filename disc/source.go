// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disc

import (
	"github.com/anderalex803/porepy/mdg"
	"github.com/james-bowman/sparse"
)

// Source implements an integrated source term: zero matrix and rhs = source
type Source struct {
	Physics string
}

// Mass implements the mass matrix  diag(porosity × volume × aperture)
type Mass struct {
	Physics string
}

// add discretizations to factory
func init() {
	allocators["source"] = func(physics string) Discretization { return &Source{physics} }
	allocators["mass"] = func(physics string) Discretization { return &Mass{physics} }
}

// Key returns the key of cached results
func (o *Source) Key() string { return o.Physics + "_source" }

// Discretize computes the local source vector
func (o *Source) Discretize(g *mdg.Grid, d *mdg.Data) (A *sparse.DOK, rhs []float64, err error) {
	err = checkParam(g, d, o.Key())
	if err != nil {
		return
	}
	A = sparse.NewDOK(g.Ncells, g.Ncells)
	rhs = append([]float64{}, d.Param.Source()...)
	return
}

// Key returns the key of cached results
func (o *Mass) Key() string { return o.Physics + "_mass" }

// Discretize computes the local mass matrix
func (o *Mass) Discretize(g *mdg.Grid, d *mdg.Data) (A *sparse.DOK, rhs []float64, err error) {
	err = checkParam(g, d, o.Key())
	if err != nil {
		return
	}
	phi, apt := d.Param.Porosity(), d.Param.Aperture()
	A = sparse.NewDOK(g.Ncells, g.Ncells)
	rhs = make([]float64, g.Ncells)
	for c := 0; c < g.Ncells; c++ {
		A.Set(c, c, phi[c]*g.CellVolumes[c]*apt[c])
	}
	return
}
