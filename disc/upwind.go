// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disc

import (
	"math"

	"github.com/anderalex803/porepy/mdg"
	"github.com/cpmech/gosl/chk"
	"github.com/james-bowman/sparse"
)

// Upwind implements the first order upwind discretization of  div(q x)
//  The discharge q is given per face along the face normal
type Upwind struct {
	Physics string
}

// add discretization to factory
func init() {
	allocators["upwind"] = func(physics string) Discretization { return &Upwind{physics} }
}

// Key returns the key of cached results
func (o *Upwind) Key() string { return o.Physics + "_upwind" }

// Discretize computes the local advection operator
//  Boundary faces: outflow is treated implicitly unless the face is Neumann; Dirichlet inflow
//  carries the boundary value into the right-hand side; Neumann faces prescribe the advective
//  flux along the normal
func (o *Upwind) Discretize(g *mdg.Grid, d *mdg.Data) (A *sparse.DOK, rhs []float64, err error) {

	// check
	err = checkParam(g, d, o.Key())
	if err != nil {
		return
	}
	p := d.Param
	bc, bcval, q := p.Bc(), p.BcVal(), p.Discharge()

	// results
	A = sparse.NewDOK(g.Ncells, g.Ncells)
	rhs = make([]float64, g.Ncells)

	// loop over faces
	for f := 0; f < g.Nfaces; f++ {
		if g.OnFracture(f) || (q[f] == 0 && !bc.IsNeu(f)) {
			continue
		}
		c0, c1 := g.FaceCells[f][0], g.FaceCells[f][1]

		// interior face
		if c0 >= 0 && c1 >= 0 {
			if q[f] > 0 {
				add(A, c0, c0, q[f])
				add(A, c1, c0, -q[f])
			} else {
				add(A, c1, c1, -q[f])
				add(A, c0, c1, q[f])
			}
			continue
		}

		// boundary face
		c, sign := g.BoundaryCell(f)
		qout := sign * q[f]
		switch {
		case bc.IsNeu(f):
			rhs[c] -= sign * bcval[f]
		case qout > 0:
			add(A, c, c, qout)
		case bc.IsDir(f):
			rhs[c] += math.Abs(qout) * bcval[f]
		}
	}
	return
}

// UpwindCoupling implements the upwind flux between a higher-dimensional and a
// lower-dimensional grid
//  The interface discharge λ (given per pair on the edge parameters) is positive from the higher
//  to the lower dimensional grid
type UpwindCoupling struct {
	Physics string
}

// add coupling to factory
func init() {
	cplallocators["upwind"] = func(physics string) Coupling { return &UpwindCoupling{physics} }
}

// Key returns the key of cached results
func (o *UpwindCoupling) Key() string { return o.Physics + "_upwind_coupling" }

// Couple computes the coupling blocks
func (o *UpwindCoupling) Couple(e *mdg.Edge) (blk *Blocks, err error) {

	// check
	if e.Data == nil || e.Data.Param == nil {
		return nil, chk.Err("%s: interface parameters are missing", o.Key())
	}
	if e.Data.Param.Nfaces() != e.Npairs() {
		return nil, chk.Err("%s: interface parameters must have %d pairs", o.Key(), e.Npairs())
	}
	high, _ := e.HighLow()
	lambda := e.Data.Param.Discharge()

	// pairs
	pairs := make([]pair, e.Npairs())
	for k, f := range e.Faces {
		h, _ := high.Grid.BoundaryCell(f)
		l := e.Cells[k]
		if lambda[k] >= 0 {
			pairs[k] = pair{h: h, l: l, hh: lambda[k], lh: -lambda[k]}
		} else {
			pairs[k] = pair{h: h, l: l, ll: -lambda[k], hl: lambda[k]}
		}
	}

	// results
	blk = newBlocks(e.A.Grid.Ncells, e.B.Grid.Ncells)
	blk.scatter(e, pairs)
	return
}
