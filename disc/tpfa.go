// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package disc

import (
	"github.com/anderalex803/porepy/mdg"
	"github.com/cpmech/gosl/chk"
	"github.com/james-bowman/sparse"
)

// Tpfa implements the two-point flux approximation of  -div(K grad x)
//  Faces on fractures are left out; the flux through them is given by TpfaCoupling
type Tpfa struct {
	Physics string
}

// add discretization to factory
func init() {
	allocators["tpfa"] = func(physics string) Discretization { return &Tpfa{physics} }
}

// Key returns the key of cached results
func (o *Tpfa) Key() string { return o.Physics + "_tpfa" }

// Discretize computes the local diffusion operator
func (o *Tpfa) Discretize(g *mdg.Grid, d *mdg.Data) (A *sparse.DOK, rhs []float64, err error) {

	// check
	err = checkParam(g, d, o.Key())
	if err != nil {
		return
	}
	p := d.Param
	bc, bcval := p.Bc(), p.BcVal()

	// results
	A = sparse.NewDOK(g.Ncells, g.Ncells)
	rhs = make([]float64, g.Ncells)

	// loop over faces
	for f := 0; f < g.Nfaces; f++ {
		if g.OnFracture(f) {
			continue
		}
		c0, c1 := g.FaceCells[f][0], g.FaceCells[f][1]

		// interior face
		if c0 >= 0 && c1 >= 0 {
			t0 := o.halfTrans(g, p, c0, f)
			t1 := o.halfTrans(g, p, c1, f)
			if t0+t1 <= 0 {
				continue
			}
			T := t0 * t1 / (t0 + t1)
			add(A, c0, c0, T)
			add(A, c0, c1, -T)
			add(A, c1, c0, -T)
			add(A, c1, c1, T)
			continue
		}

		// boundary face
		c, sign := g.BoundaryCell(f)
		switch {
		case bc.IsDir(f):
			t := o.halfTrans(g, p, c, f)
			add(A, c, c, t)
			rhs[c] += t * bcval[f]
		case bc.IsNeu(f):
			rhs[c] -= sign * bcval[f]
		}
	}
	return
}

// halfTrans returns the half transmissibility of cell c on face f scaled by the aperture
func (o *Tpfa) halfTrans(g *mdg.Grid, p *mdg.Parameters, c, f int) float64 {
	return p.Aperture()[c] * g.HalfTrans(c, f, p.Tensor().K[c])
}

// TpfaCoupling implements the two-point flux between a face of a higher-dimensional grid and a
// cell of a lower-dimensional grid
//  T = 1 / (1/tface + 1/tnormal)  with  tnormal = kn |f| / (a/2)
type TpfaCoupling struct {
	Physics string
}

// add coupling to factory
func init() {
	cplallocators["tpfa"] = func(physics string) Coupling { return &TpfaCoupling{physics} }
}

// Key returns the key of cached results
func (o *TpfaCoupling) Key() string { return o.Physics + "_tpfa_coupling" }

// Couple computes the coupling blocks
func (o *TpfaCoupling) Couple(e *mdg.Edge) (blk *Blocks, err error) {

	// check
	high, low := e.HighLow()
	if err = checkParam(high.Grid, high.Data, o.Key()+" (high)"); err != nil {
		return
	}
	if err = checkParam(low.Grid, low.Data, o.Key()+" (low)"); err != nil {
		return
	}
	if e.Data == nil || e.Data.Param == nil {
		return nil, chk.Err("%s: interface parameters are missing", o.Key())
	}
	if e.Data.Param.Ncells() != e.Npairs() {
		return nil, chk.Err("%s: interface parameters must have %d pairs", o.Key(), e.Npairs())
	}
	gh, ph := high.Grid, high.Data.Param
	kn := e.Data.Param.NormalDiff()
	apt := low.Data.Param.Aperture()

	// pairs
	pairs := make([]pair, e.Npairs())
	for k, f := range e.Faces {
		h, _ := gh.BoundaryCell(f)
		l := e.Cells[k]
		tf := ph.Aperture()[h] * gh.HalfTrans(h, f, ph.Tensor().K[h])
		tn := 2 * kn[k] * gh.FaceAreas[f] / apt[l]
		var T float64
		if tf > 0 && tn > 0 {
			T = 1.0 / (1.0/tf + 1.0/tn)
		}
		pairs[k] = pair{h: h, l: l, hh: T, hl: -T, lh: -T, ll: T}
	}

	// results
	blk = newBlocks(e.A.Grid.Ncells, e.B.Grid.Ncells)
	blk.scatter(e, pairs)
	return
}
