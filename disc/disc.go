// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package disc implements finite volume discretizations on single grids and coupling operators
// on interfaces between grids
package disc

import (
	"sort"

	"github.com/anderalex803/porepy/mdg"
	"github.com/cpmech/gosl/chk"
	"github.com/james-bowman/sparse"
)

// Discretization computes the local operator of one grid
//  The local problem reads  A x = rhs  with A of size ncells×ncells
type Discretization interface {
	Key() string // key of cached results in mdg.Data

	// Discretize computes the local operator
	Discretize(g *mdg.Grid, d *mdg.Data) (A *sparse.DOK, rhs []float64, err error)
}

// Blocks holds the four coupling blocks of an edge with respect to the order (e.A, e.B)
type Blocks struct {
	AA *sparse.DOK // na × na
	AB *sparse.DOK // na × nb
	BA *sparse.DOK // nb × na
	BB *sparse.DOK // nb × nb
}

// Coupling computes the coupling blocks of one interface
type Coupling interface {
	Key() string                         // key of cached results in mdg.Data
	Couple(e *mdg.Edge) (*Blocks, error) // computes the four blocks
}

// allocators holds all available discretizations
var allocators = make(map[string]func(physics string) Discretization)

// cplallocators holds all available couplings
var cplallocators = make(map[string]func(physics string) Coupling)

// New returns a new discretization
//  kind -- "tpfa", "upwind", "source" or "mass"
func New(kind, physics string) (Discretization, error) {
	if alloc, ok := allocators[kind]; ok {
		return alloc(physics), nil
	}
	return nil, chk.Err("cannot find discretization named %q. available: %v", kind, names())
}

// NewCoupling returns a new interface coupling
//  kind -- "tpfa" or "upwind"
func NewCoupling(kind, physics string) (Coupling, error) {
	if alloc, ok := cplallocators[kind]; ok {
		return alloc(physics), nil
	}
	return nil, chk.Err("cannot find coupling named %q. available: %v", kind, cplnames())
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// newBlocks allocates coupling blocks for sizes na and nb
func newBlocks(na, nb int) *Blocks {
	return &Blocks{
		AA: sparse.NewDOK(na, na),
		AB: sparse.NewDOK(na, nb),
		BA: sparse.NewDOK(nb, na),
		BB: sparse.NewDOK(nb, nb),
	}
}

// add adds v to the (i,j) entry of A
func add(A *sparse.DOK, i, j int, v float64) {
	A.Set(i, j, A.At(i, j)+v)
}

// pair holds the coupling between a high-dimensional cell h and a low-dimensional cell l in
// the form of the 2×2 matrix [[hh, hl], [lh, ll]]
type pair struct {
	h, l           int
	hh, hl, lh, ll float64
}

// scatter adds pair contributions to the blocks according to the order of the edge nodes
func (o *Blocks) scatter(e *mdg.Edge, pairs []pair) {
	high, _ := e.HighLow()
	for _, p := range pairs {
		if e.A == high {
			add(o.AA, p.h, p.h, p.hh)
			add(o.AB, p.h, p.l, p.hl)
			add(o.BA, p.l, p.h, p.lh)
			add(o.BB, p.l, p.l, p.ll)
		} else {
			add(o.BB, p.h, p.h, p.hh)
			add(o.BA, p.h, p.l, p.hl)
			add(o.AB, p.l, p.h, p.lh)
			add(o.AA, p.l, p.l, p.ll)
		}
	}
}

// checkParam returns an error if data has no parameters or parameters have wrong sizes
func checkParam(g *mdg.Grid, d *mdg.Data, name string) error {
	if d == nil || d.Param == nil {
		return chk.Err("%s: parameters are missing", name)
	}
	if d.Param.Ncells() != g.Ncells || d.Param.Nfaces() != g.Nfaces {
		return chk.Err("%s: parameters were allocated for (%d cells, %d faces) but grid has (%d cells, %d faces)", name, d.Param.Ncells(), d.Param.Nfaces(), g.Ncells, g.Nfaces)
	}
	return nil
}

// names returns the sorted names of all discretizations
func names() (res []string) {
	for k := range allocators {
		res = append(res, k)
	}
	sort.Strings(res)
	return
}

// cplnames returns the sorted names of all couplings
func cplnames() (res []string) {
	for k := range cplallocators {
		res = append(res, k)
	}
	sort.Strings(res)
	return
}
