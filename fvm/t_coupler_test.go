// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fvm

import (
	"testing"

	"github.com/anderalex803/porepy/disc"
	"github.com/anderalex803/porepy/inp"
	"github.com/anderalex803/porepy/mdg"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

// newSim returns default simulation data writing to a temporary directory
func newSim(tst *testing.T, tf, dt, theta float64) *inp.Simulation {
	sim := new(inp.Simulation)
	sim.SetDefault()
	sim.Control.Tf, sim.Control.Dt = tf, dt
	sim.Solver.Theta = theta
	require.NoError(tst, sim.PostProcess())
	sim.DirOut = tst.TempDir()
	sim.Key = "test"
	return sim
}

// newProblem returns an initialised problem on a fractured square
func newProblem(tst *testing.T, sim *inp.Simulation) *Problem {
	b, err := mdg.NewFracturedCartBucket(3, 2, 1, 1, 1)
	require.NoError(tst, err)
	p, err := NewProblem(b, sim, chk.Verbose)
	require.NoError(tst, err)
	require.NoError(tst, p.Init())
	return p
}

func Test_coupler01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("coupler01. merge and split")

	b, err := mdg.NewFracturedCartBucket(2, 2, 1, 1, 1)
	require.NoError(tst, err)
	dis, err := disc.New("mass", "transport")
	require.NoError(tst, err)
	c := NewCoupler(dis, nil)

	offsets, ndof := c.Dofs(b)
	chk.Ints(tst, "offsets", offsets, []int{0, 4})
	chk.Int(tst, "ndof", ndof, 6)

	x := []float64{0, 1, 2, 3, 4, 5}
	require.NoError(tst, c.Split(b, "u", x))
	chk.Array(tst, "u0", 1e-15, b.Nodes[0].Data.Fields["u"], []float64{0, 1, 2, 3})
	chk.Array(tst, "u1", 1e-15, b.Nodes[1].Data.Fields["u"], []float64{4, 5})
	y, err := c.Merge(b, "u")
	require.NoError(tst, err)
	chk.Array(tst, "merge(split(x))", 1e-15, y, x)

	// errors
	require.Error(tst, c.Split(b, "u", x[:5]))
	_, err = c.Merge(b, "v")
	require.Error(tst, err)
	b.Nodes[1].Data.Fields["u"] = []float64{1}
	_, err = c.Merge(b, "u")
	require.Error(tst, err)
	require.Panics(tst, func() { NewCoupler(nil, nil) })
}

func Test_coupler02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("coupler02. cached assembly")

	sim := newSim(tst, 1, 1, 1)
	sim.Data.Velocity = []float64{1, 0.5, 0}
	p := newProblem(tst, sim)
	b := p.Bucket

	// repeated assembly gives the same results
	for _, c := range []*Coupler{p.Advective, p.Diffusive} {
		A1, b1, err := c.MatrixRhs(b)
		require.NoError(tst, err)
		A2, b2, err := c.MatrixRhs(b)
		require.NoError(tst, err)
		c.Invalidate(b)
		_, ok := b.Nodes[0].Data.Cache[c.Discr.Key()]
		require.False(tst, ok, "cache must be cleared")
		A3, b3, err := c.MatrixRhs(b)
		require.NoError(tst, err)
		require.True(tst, mat.Equal(A1, A2), c.Discr.Key())
		require.True(tst, mat.Equal(A1, A3), c.Discr.Key())
		chk.Array(tst, "b2", 1e-15, b2, b1)
		chk.Array(tst, "b3", 1e-15, b3, b1)

		// concurrent local discretizations
		c.Invalidate(b)
		c.Parallel = true
		A4, b4, err := c.MatrixRhs(b)
		require.NoError(tst, err)
		require.True(tst, mat.Equal(A1, A4), c.Discr.Key())
		chk.Array(tst, "b4", 1e-15, b4, b1)
	}

	// missing parameters
	b.Edges[0].Data.Param = nil
	_, _, err := p.Diffusive.MatrixRhs(b)
	require.Error(tst, err)
	b.Nodes[1].Data.Param = nil
	_, _, err = p.Mass.MatrixRhs(b)
	require.Error(tst, err)
}

func Test_coupler03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("coupler03. order of interface nodes")

	// same grids; interface registered as (high, low) and (low, high)
	ref, err := mdg.NewFracturedCartBucket(3, 2, 1, 1, 1)
	require.NoError(tst, err)
	swp := mdg.NewBucket()
	n0, err := swp.AddNode(ref.Nodes[0].Grid)
	require.NoError(tst, err)
	n1, err := swp.AddNode(ref.Nodes[1].Grid)
	require.NoError(tst, err)
	_, err = swp.AddEdge(n1, n0, ref.Edges[0].Faces, ref.Edges[0].Cells)
	require.NoError(tst, err)

	var res []mat.Matrix
	var rhs [][]float64
	for _, b := range []*mdg.Bucket{ref, swp} {
		sim := newSim(tst, 1, 1, 1)
		sim.Data.Velocity = []float64{0.3, -1, 0}
		p, err := NewProblem(b, sim, false)
		require.NoError(tst, err)
		require.NoError(tst, p.Init())
		A, r, err := p.AssembleSpace()
		require.NoError(tst, err)
		res = append(res, A)
		rhs = append(rhs, r)
	}
	require.True(tst, mat.EqualApprox(res[0], res[1], 1e-14))
	chk.Array(tst, "rhs", 1e-14, rhs[1], rhs[0])
}
