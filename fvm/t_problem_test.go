// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fvm

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/anderalex803/porepy/ana"
	"github.com/anderalex803/porepy/inp"
	"github.com/anderalex803/porepy/mdg"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// cellData has a uniform initial value and a time-dependent source density
type cellData struct {
	DefaultData
	x0  float64
	src func(t float64) float64
}

func (o cellData) Initial(g *mdg.Grid) []float64 { return fill(g.Ncells, o.x0) }

func (o cellData) Source(g *mdg.Grid, t float64) []float64 {
	v := make([]float64, g.Ncells)
	for c := range v {
		v[c] = o.src(t) * g.CellVolumes[c]
	}
	return v
}

// dirData has Dirichlet conditions on the first and last faces of a 1D grid
type dirData struct {
	DefaultData
	left, right float64
}

func (o dirData) Bc(g *mdg.Grid) (*mdg.BoundaryCondition, error) {
	bc := mdg.NewBoundaryCondition(g)
	return bc, bc.Set(g, []int{0, g.Nfaces - 1}, mdg.BcDir)
}

func (o dirData) BcVal(g *mdg.Grid, t float64) []float64 {
	v := make([]float64, g.Nfaces)
	v[0], v[g.Nfaces-1] = o.left, o.right
	return v
}

// advData adds a uniform velocity along x to dirData
type advData struct {
	dirData
	v float64
}

func (o advData) Discharge(g *mdg.Grid) []float64 {
	q := make([]float64, g.Nfaces)
	for f := range q {
		q[f] = o.v * g.FaceNormals[f][0]
	}
	return q
}

// diffData has a uniform diffusivity
type diffData struct {
	DefaultData
	k float64
}

func (o diffData) Diffusivity(g *mdg.Grid) *mdg.Tensor { return mdg.NewTensorIso(fill(g.Ncells, o.k)) }

// porData has a uniform porosity
type porData struct {
	DefaultData
	phi float64
}

func (o porData) Porosity(g *mdg.Grid) []float64 { return fill(g.Ncells, o.phi) }

// singleCell returns a problem with one cell of unit volume
func singleCell(tst *testing.T, sim *inp.Simulation, data ProblemData) *Problem {
	g, err := mdg.NewCartGrid1D(1, 0, 1, 0)
	require.NoError(tst, err)
	b := mdg.NewBucket()
	_, err = b.AddNode(g)
	require.NoError(tst, err)
	p, err := NewProblem(b, sim, chk.Verbose)
	require.NoError(tst, err)
	p.NodeData = func(*mdg.Node) ProblemData { return data }
	require.NoError(tst, p.Init())
	return p
}

func Test_problem01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("problem01. missing grid")

	_, err := NewProblem(nil, nil, false)
	require.True(tst, errors.Is(err, ErrNotImplemented))
	var p Problem
	_, err = p.Grid()
	require.Equal(tst, ErrNotImplemented, err)
	require.True(tst, errors.Is(p.Init(), ErrNotImplemented))
	_, err = p.Step()
	require.True(tst, errors.Is(err, ErrNotImplemented))

	// not initialised
	b, _ := mdg.NewFracturedCartBucket(2, 2, 1, 1, 1)
	q, err := NewProblem(b, nil, false)
	require.NoError(tst, err)
	_, err = q.Step()
	require.Error(tst, err)
	_, err = q.InitialCondition()
	require.Error(tst, err)
	require.Error(tst, q.Update(0))
}

func Test_problem02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("problem02. zero data gives zero solution")

	p := newProblem(tst, newSim(tst, 3, 1, 1))
	require.Equal(tst, Ready, p.Solver.State())
	for i := 0; i < 3; i++ {
		x, err := p.Step()
		require.NoError(tst, err)
		chk.Array(tst, "x", 1e-15, x, make([]float64, 9))
	}
	require.Equal(tst, Finished, p.Solver.State())
	for _, n := range p.Bucket.Nodes {
		chk.Array(tst, "field", 1e-15, n.Data.Fields["transport"], make([]float64, n.Grid.Ncells))
	}
}

func Test_problem03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("problem03. single cell with source")

	data := cellData{x0: 3, src: func(float64) float64 { return 2 }}
	p := singleCell(tst, newSim(tst, 1, 0.5, 1), data)
	x, err := p.Step()
	require.NoError(tst, err)
	chk.Array(tst, "x1 = x0 + Δt s", 1e-14, x, []float64{4})
	x, err = p.Step()
	require.NoError(tst, err)
	chk.Array(tst, "x2", 1e-14, x, []float64{5})
	chk.Float64(tst, "t", 1e-15, p.Solver.Time(), 1)
}

func Test_problem04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("problem04. number of steps")

	p := newProblem(tst, newSim(tst, 1, 0.3, 1))
	require.NoError(tst, p.Solve())
	require.Equal(tst, Finished, p.Solver.State())
	ts, xs := p.Solver.History()
	chk.Int(tst, "number of solutions", len(xs), 5)
	chk.Array(tst, "times", 1e-15, ts, []float64{0, 0.3, 0.6, 0.9, 1.2})
	chk.Float64(tst, "t", 1e-15, p.Solver.Time(), 1.2)

	// stepping beyond the final time fails and keeps the state
	_, err := p.Step()
	require.Error(tst, err)
	require.Equal(tst, Finished, p.Solver.State())
	_, xs = p.Solver.History()
	chk.Int(tst, "number of solutions", len(xs), 5)
	assert.Equal(tst, "finished", p.Solver.State().String())
}

func Test_problem05(tst *testing.T) {

	//verbose()
	chk.PrintTitle("problem05. parameter changes and reassembly")

	p := newProblem(tst, newSim(tst, 1, 0.5, 1))
	b := p.Bucket
	prm := b.Nodes[0].Data.Param
	A0, _, err := p.Diffusive.MatrixRhs(b)
	require.NoError(tst, err)
	mrev, rrev := b.MatRev(), b.RhsRev()

	// boundary values do not change the matrix
	v := make([]float64, b.Nodes[0].Grid.Nfaces)
	v[0] = 7
	require.NoError(tst, prm.SetBcVal(v))
	chk.Int(tst, "matrix revision", int(b.MatRev()), int(mrev))
	require.NotEqual(tst, rrev, b.RhsRev())
	A1, _, err := p.Diffusive.MatrixRhs(b)
	require.NoError(tst, err)
	require.True(tst, mat.Equal(A0, A1))

	// setting the same values does not change revisions
	rrev = b.RhsRev()
	require.NoError(tst, prm.SetBcVal(v))
	require.Equal(tst, rrev, b.RhsRev())

	// diffusivity changes the matrix
	require.NoError(tst, prm.SetTensor(mdg.NewTensorIso(fill(b.Nodes[0].Grid.Ncells, 2))))
	require.NotEqual(tst, mrev, b.MatRev())
	A2, _, err := p.Diffusive.MatrixRhs(b)
	require.NoError(tst, err)
	require.False(tst, mat.Equal(A0, A2))

	// the solver picks up changes without explicit reassembly; Reassemble returns to Ready
	_, err = p.Step()
	require.NoError(tst, err)
	p.Reassemble()
	require.Equal(tst, Ready, p.Solver.State())
	_, err = p.Step()
	require.NoError(tst, err)
	require.Equal(tst, Finished, p.Solver.State())
}

func Test_problem06(tst *testing.T) {

	//verbose()
	chk.PrintTitle("problem06. steady diffusion in 1D")

	g, err := mdg.NewCartGrid1D(4, 0, 1, 0)
	require.NoError(tst, err)
	b := mdg.NewBucket()
	_, err = b.AddNode(g)
	require.NoError(tst, err)
	sim := newSim(tst, 1e8, 1e8, 1)
	sim.Data.Advection = "none"
	p, err := NewProblem(b, sim, chk.Verbose)
	require.NoError(tst, err)
	require.Nil(tst, p.Advective)
	chk.Int(tst, "number of couplers", len(p.Couplers()), 3)
	p.NodeData = func(*mdg.Node) ProblemData { return dirData{left: 1, right: 0} }
	require.NoError(tst, p.Init())
	x, err := p.Step()
	require.NoError(tst, err)
	chk.Array(tst, "linear profile", 1e-6, x, []float64{0.875, 0.625, 0.375, 0.125})
}

func Test_problem09(tst *testing.T) {

	//verbose()
	chk.PrintTitle("problem09. steady advection-diffusion in 1D")

	var sol ana.SteadyAdvDiff1D
	require.NoError(tst, sol.Init(dbf.Params{
		&dbf.P{N: "v", V: 1},
		&dbf.P{N: "uL", V: 1},
	}))
	g, err := mdg.NewCartGrid1D(50, 0, 1, 0)
	require.NoError(tst, err)
	b := mdg.NewBucket()
	_, err = b.AddNode(g)
	require.NoError(tst, err)
	p, err := NewProblem(b, newSim(tst, 1e8, 1e8, 1), chk.Verbose)
	require.NoError(tst, err)
	p.NodeData = func(*mdg.Node) ProblemData { return advData{dirData{left: 1}, 1} }
	require.NoError(tst, p.Init())
	x, err := p.Step()
	require.NoError(tst, err)
	for c := 0; c < g.Ncells; c++ {
		chk.Float64(tst, io.Sf("u(%g)", g.CellCenters[c][0]), 0.02, x[c], sol.Calc(g.CellCenters[c][0]))
	}
}

func Test_problem07(tst *testing.T) {

	//verbose()
	chk.PrintTitle("problem07. θ-method with time-dependent source")

	lin := func(t float64) float64 { return t }

	// Crank-Nicolson integrates a linear source exactly
	p := singleCell(tst, newSim(tst, 1, 0.5, 0.5), cellData{src: lin})
	require.NoError(tst, p.Solve())
	ts, xs := p.Solver.History()
	chk.Array(tst, "times", 1e-15, ts, []float64{0, 0.5, 1})
	chk.Array(tst, "x(0.5)", 1e-14, xs[1], []float64{0.125})
	chk.Array(tst, "x(1)", 1e-14, xs[2], []float64{0.5})

	// backward Euler uses the source at the end of each step
	p = singleCell(tst, newSim(tst, 1, 0.5, 1), cellData{src: lin})
	require.NoError(tst, p.Solve())
	_, xs = p.Solver.History()
	chk.Array(tst, "x(1)", 1e-14, xs[2], []float64{0.75})
}

func Test_problem08(tst *testing.T) {

	//verbose()
	chk.PrintTitle("problem08. run simulation from file")

	sim, err := inp.ReadSim("data/transport01.yaml", "", false, false)
	require.NoError(tst, err)
	sim.DirOut = tst.TempDir()
	b, err := sim.Mesh.GetBucket(sim.Dir)
	require.NoError(tst, err)
	p, err := NewProblem(b, sim, chk.Verbose)
	require.NoError(tst, err)
	require.True(tst, p.Diffusive.Parallel)
	require.NoError(tst, p.Run())

	// output files
	for _, fn := range []string{"transport_2_g0_000000.vtu", "transport_2_g0_000002.vtu", "transport_1_g1_000004.vtu", "transport.pvd"} {
		_, err = os.Stat(filepath.Join(sim.DirOut, "results", fn))
		require.NoError(tst, err, fn)
	}
	_, err = os.Stat(filepath.Join(sim.DirOut, "results", "transport_2_g0_000001.vtu"))
	require.True(tst, os.IsNotExist(err))

	// fields hold the last solution
	ts, xs := p.Solver.History()
	x, err := p.Mass.Merge(b, p.Physics)
	require.NoError(tst, err)
	chk.Array(tst, "x", 1e-15, x, xs[len(xs)-1])

	// summary
	sum, err := ReadSummary(sim.DirOut, sim.Key, sim.EncType)
	require.NoError(tst, err)
	chk.Int(tst, "ndof", sum.Ndof, 12)
	chk.Array(tst, "times", 1e-15, sum.OutTimes, ts)
	chk.Float64(tst, "initial norm", 1e-15, sum.Norms[0], 0)
	require.True(tst, sum.Norms[4] > 0)

	// inflow from the left boundary
	x0 := b.Nodes[0].Data.Fields["transport"]
	require.True(tst, x0[0] > x0[3], "upstream value must be larger")
	for _, v := range x {
		require.False(tst, math.IsNaN(v))
	}
}

func Test_problem10(tst *testing.T) {

	//verbose()
	chk.PrintTitle("problem10. initialising again with new data")

	sim := newSim(tst, 2, 1, 1)
	p := newProblem(tst, sim)
	b := p.Bucket
	A1, _, err := p.Diffusive.MatrixRhs(b)
	require.NoError(tst, err)
	_, err = p.Step()
	require.NoError(tst, err)

	// same bucket and larger diffusivity
	p.NodeData = func(*mdg.Node) ProblemData { return diffData{k: 5} }
	require.NoError(tst, p.Init())
	A2, _, err := p.Diffusive.MatrixRhs(b)
	require.NoError(tst, err)
	require.False(tst, mat.Equal(A1, A2), "stale discretization after Init")

	// reference: fresh bucket
	ref := newProblem(tst, newSim(tst, 2, 1, 1))
	ref.NodeData = p.NodeData
	require.NoError(tst, ref.Init())
	Aref, _, err := ref.Diffusive.MatrixRhs(ref.Bucket)
	require.NoError(tst, err)
	require.True(tst, mat.EqualApprox(A2, Aref, 1e-14))

	// parameters replaced by hand; cache is kept
	n := b.Nodes[0]
	n.Data.Param = mdg.NewParameters(p.Physics, n.Grid.Ncells, n.Grid.Nfaces)
	require.NoError(tst, n.Data.Param.SetTensor(mdg.NewTensorIso(fill(n.Grid.Ncells, 1))))
	bc, err := DefaultData{}.Bc(n.Grid)
	require.NoError(tst, err)
	require.NoError(tst, n.Data.Param.SetBc(bc))
	A3, _, err := p.Diffusive.MatrixRhs(b)
	require.NoError(tst, err)
	require.False(tst, mat.Equal(A2, A3), "stale discretization after new parameters")

	// steps after re-initialisation use the new operators
	require.NoError(tst, p.Init())
	x, err := p.Step()
	require.NoError(tst, err)
	chk.Array(tst, "x", 1e-15, x, make([]float64, 9))
}

func Test_problem11(tst *testing.T) {

	//verbose()
	chk.PrintTitle("problem11. nearly singular system")

	// two cells without storage and zero-flux boundaries
	g, err := mdg.NewCartGrid1D(2, 0, 1, 0)
	require.NoError(tst, err)
	b := mdg.NewBucket()
	_, err = b.AddNode(g)
	require.NoError(tst, err)
	p, err := NewProblem(b, newSim(tst, 1, 1, 1), chk.Verbose)
	require.NoError(tst, err)
	p.NodeData = func(*mdg.Node) ProblemData { return porData{phi: 1e-17} }
	require.NoError(tst, p.Init())

	_, err = p.Step()
	require.Error(tst, err)
	require.Equal(tst, Ready, p.Solver.State())
	chk.Float64(tst, "t", 1e-15, p.Solver.Time(), 0)
	_, xs := p.Solver.History()
	chk.Int(tst, "len(history)", len(xs), 1)
}
