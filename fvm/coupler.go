// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fvm

import (
	"sync"

	"github.com/anderalex803/porepy/disc"
	"github.com/anderalex803/porepy/mdg"
	"github.com/cpmech/gosl/chk"
	"github.com/james-bowman/sparse"
)

// Coupler assembles the global system of one discretization family over all subdomains and
// interfaces of a bucket
//  The DOFs of node n occupy the block [offsets[n.Idx], offsets[n.Idx]+ncells) of the global
//  vector; nodes are taken in bucket order
type Coupler struct {
	Discr    disc.Discretization // local discretization
	Coupling disc.Coupling       // interface coupling; may be nil
	Parallel bool                // compute local operators concurrently
}

// NewCoupler returns a new Coupler
func NewCoupler(discr disc.Discretization, coupling disc.Coupling) *Coupler {
	if discr == nil {
		chk.Panic("Coupler requires a local discretization")
	}
	return &Coupler{Discr: discr, Coupling: coupling}
}

// Dofs returns the offsets of each node in the global vector and the total number of DOFs
func (o *Coupler) Dofs(b *mdg.Bucket) (offsets []int, ndof int) {
	offsets = make([]int, len(b.Nodes))
	for i, n := range b.Nodes {
		offsets[i] = ndof
		ndof += n.Grid.Ncells
	}
	return
}

// MatrixRhs assembles the global matrix and right-hand side
//  Local results are cached in the data of each node (edge) under the key of the
//  discretization (coupling) and reused while parameters revisions are unchanged
func (o *Coupler) MatrixRhs(b *mdg.Bucket) (A *sparse.CSR, rhs []float64, err error) {

	// check
	if len(b.Nodes) == 0 {
		return nil, nil, chk.Err("cannot assemble: bucket has no subdomains")
	}
	for _, n := range b.Nodes {
		if n.Data.Param == nil {
			return nil, nil, chk.Err("cannot assemble %q: parameters of subdomain %d are missing", o.Discr.Key(), n.Idx)
		}
	}
	if o.Coupling != nil {
		for _, e := range b.Edges {
			if e.Data.Param == nil {
				return nil, nil, chk.Err("cannot assemble %q: parameters of interface %d are missing", o.Coupling.Key(), e.Idx)
			}
		}
	}

	// local operators
	locals := make([]*mdg.Cache, len(b.Nodes))
	errs := make([]error, len(b.Nodes))
	if o.Parallel {
		var wg sync.WaitGroup
		for i, n := range b.Nodes {
			wg.Add(1)
			go func(i int, n *mdg.Node) {
				defer wg.Done()
				locals[i], errs[i] = o.local(n)
			}(i, n)
		}
		wg.Wait()
	} else {
		for i, n := range b.Nodes {
			locals[i], errs[i] = o.local(n)
		}
	}
	for i, e := range errs {
		if e != nil {
			return nil, nil, chk.Err("local discretization of subdomain %d failed:\n%v", i, e)
		}
	}

	// global arrays
	offsets, ndof := o.Dofs(b)
	K := sparse.NewDOK(ndof, ndof)
	rhs = make([]float64, ndof)

	// subdomains
	for i, n := range b.Nodes {
		loc := locals[i]
		r, c := loc.Mats[0].Dims()
		if r != n.Grid.Ncells || c != n.Grid.Ncells || len(loc.Rhs[0]) != n.Grid.Ncells {
			return nil, nil, chk.Err("local operator of subdomain %d has wrong size (%d×%d, %d) for %d cells", n.Idx, r, c, len(loc.Rhs[0]), n.Grid.Ncells)
		}
		put(K, loc.Mats[0], offsets[i], offsets[i])
		for k, v := range loc.Rhs[0] {
			rhs[offsets[i]+k] += v
		}
	}

	// interfaces
	if o.Coupling != nil {
		for _, e := range b.Edges {
			blk, err := o.couple(e)
			if err != nil {
				return nil, nil, chk.Err("coupling of interface %d failed:\n%v", e.Idx, err)
			}
			ia, ib := offsets[e.A.Idx], offsets[e.B.Idx]
			put(K, blk.Mats[0], ia, ia)
			put(K, blk.Mats[1], ia, ib)
			put(K, blk.Mats[2], ib, ia)
			put(K, blk.Mats[3], ib, ib)
		}
	}

	// results
	A = K.ToCSR()
	return
}

// Invalidate removes all cached results of this coupler
func (o *Coupler) Invalidate(b *mdg.Bucket) {
	b.ClearCache(o.Discr.Key())
	if o.Coupling != nil {
		b.ClearCache(o.Coupling.Key())
	}
}

// Merge collects the field named key of all subdomains into one global vector
func (o *Coupler) Merge(b *mdg.Bucket, key string) (x []float64, err error) {
	offsets, ndof := o.Dofs(b)
	x = make([]float64, ndof)
	for i, n := range b.Nodes {
		v, ok := n.Data.Fields[key]
		if !ok {
			return nil, chk.Err("cannot merge: field %q of subdomain %d is missing", key, n.Idx)
		}
		if len(v) != n.Grid.Ncells {
			return nil, chk.Err("cannot merge: field %q of subdomain %d has length %d != ncells %d", key, n.Idx, len(v), n.Grid.Ncells)
		}
		copy(x[offsets[i]:], v)
	}
	return
}

// Split distributes the global vector x into the field named key of all subdomains
func (o *Coupler) Split(b *mdg.Bucket, key string, x []float64) (err error) {
	offsets, ndof := o.Dofs(b)
	if len(x) != ndof {
		return chk.Err("cannot split: vector has length %d but the number of DOFs is %d", len(x), ndof)
	}
	for i, n := range b.Nodes {
		v := make([]float64, n.Grid.Ncells)
		copy(v, x[offsets[i]:offsets[i]+n.Grid.Ncells])
		n.Data.Fields[key] = v
	}
	return
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// local returns the (possibly cached) local operator of node n
func (o *Coupler) local(n *mdg.Node) (*mdg.Cache, error) {
	key := o.Discr.Key()
	p := n.Data.Param
	if c, ok := n.Data.Cache[key]; ok && c.MatRev == p.MatRev() && c.RhsRev == p.RhsRev() {
		return c, nil
	}
	A, rhs, err := o.Discr.Discretize(n.Grid, n.Data)
	if err != nil {
		return nil, err
	}
	c := &mdg.Cache{Mats: []*sparse.DOK{A}, Rhs: [][]float64{rhs}, MatRev: p.MatRev(), RhsRev: p.RhsRev()}
	n.Data.Cache[key] = c
	return c, nil
}

// couple returns the (possibly cached) coupling blocks of edge e
func (o *Coupler) couple(e *mdg.Edge) (*mdg.Cache, error) {
	key := o.Coupling.Key()
	mrev := e.Data.Param.MatRev() + e.A.Data.Param.MatRev() + e.B.Data.Param.MatRev()
	rrev := e.Data.Param.RhsRev() + e.A.Data.Param.RhsRev() + e.B.Data.Param.RhsRev()
	if c, ok := e.Data.Cache[key]; ok && c.MatRev == mrev && c.RhsRev == rrev {
		return c, nil
	}
	blk, err := o.Coupling.Couple(e)
	if err != nil {
		return nil, err
	}
	c := &mdg.Cache{Mats: []*sparse.DOK{blk.AA, blk.AB, blk.BA, blk.BB}, MatRev: mrev, RhsRev: rrev}
	e.Data.Cache[key] = c
	return c, nil
}

// put adds the entries of the local matrix L into K starting at (i0, j0)
func put(K, L *sparse.DOK, i0, j0 int) {
	L.DoNonZero(func(i, j int, v float64) {
		K.Set(i0+i, j0+j, K.At(i0+i, j0+j)+v)
	})
}
