// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package fvm implements the mixed-dimensional finite volume solver: global assembly over
// subdomains and interfaces, time stepping and the problem driver
package fvm

import (
	"errors"
	"time"

	"github.com/anderalex803/porepy/disc"
	"github.com/anderalex803/porepy/inp"
	"github.com/anderalex803/porepy/mdg"
	"github.com/anderalex803/porepy/out"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
)

// ErrNotImplemented is returned when a problem has no mixed-dimensional grid
var ErrNotImplemented = errors.New("mixed-dimensional grid is not implemented for this problem")

// Problem drives the solution of a time-dependent advection-diffusion problem on a
// mixed-dimensional grid
//  Space discretization: advection (upwind + upwind coupling), diffusion (tpfa + tpfa coupling)
//  and source; time discretization: mass matrix
type Problem struct {

	// input
	Physics    string          // name of physics; key of parameters and fields
	Sim        *inp.Simulation // simulation data
	Bucket     *mdg.Bucket     // mixed-dimensional grid
	FileName   string          // root of exported files
	FolderName string          // folder of exported files inside Sim.DirOut
	SaveEvery  int             // export every n-th solution
	ShowMsg    bool            // show messages

	// data providers
	NodeData func(n *mdg.Node) ProblemData   // data of each subdomain
	EdgeData func(e *mdg.Edge) InterfaceData // data of each interface

	// discretizations
	Advective *Coupler // advection; may be nil
	Diffusive *Coupler // diffusion; may be nil
	Src       *Coupler // source
	Mass      *Coupler // mass

	// solver and results
	Solver  Solver   // time-stepping solver
	Summary *Summary // summary of results

	// auxiliary
	nodeData []ProblemData
	edgeData []InterfaceData
	time     float64
}

// NewProblem returns a new Problem
//  Input:
//   b       -- mixed-dimensional grid; nil results in ErrNotImplemented
//   sim     -- simulation data; nil means default values
//   verbose -- show messages
func NewProblem(b *mdg.Bucket, sim *inp.Simulation, verbose bool) (o *Problem, err error) {

	// simulation data
	if sim == nil {
		sim = new(inp.Simulation)
		sim.SetDefault()
		sim.DirOut = "/tmp/porepy/problem"
		err = sim.PostProcess()
		if err != nil {
			return
		}
	}

	// new problem
	o = &Problem{
		Physics:    sim.Data.Physics,
		Sim:        sim,
		Bucket:     b,
		FileName:   sim.Data.FileName,
		FolderName: sim.Data.FolderName,
		SaveEvery:  sim.Data.SaveEvery,
		ShowMsg:    verbose,
		Summary:    new(Summary),
	}
	if _, err = o.Grid(); err != nil {
		return nil, err
	}

	// data providers
	simdata, err := NewSimData(sim, b.MaxDim())
	if err != nil {
		return nil, chk.Err("cannot set data from simulation:\n%v", err)
	}
	o.NodeData = func(*mdg.Node) ProblemData { return simdata }
	o.EdgeData = func(*mdg.Edge) InterfaceData { return simdata }

	// discretizations
	if o.Advective, err = newCoupler(sim.Data.Advection, o.Physics, sim.Data.Parallel); err != nil {
		return nil, err
	}
	if o.Diffusive, err = newCoupler(sim.Data.Diffusion, o.Physics, sim.Data.Parallel); err != nil {
		return nil, err
	}
	if o.Src, err = newCoupler("source", o.Physics, sim.Data.Parallel); err != nil {
		return nil, err
	}
	o.Mass, err = newCoupler("mass", o.Physics, sim.Data.Parallel)
	return
}

// Grid returns the mixed-dimensional grid
func (o *Problem) Grid() (*mdg.Bucket, error) {
	if o.Bucket == nil {
		return nil, ErrNotImplemented
	}
	return o.Bucket, nil
}

// Init sets parameters of all subdomains and interfaces, sets the initial condition and
// allocates the solver
func (o *Problem) Init() (err error) {

	// grid
	b, err := o.Grid()
	if err != nil {
		return
	}

	// discretizations of previous parameters
	b.ClearCache("")

	// subdomains
	o.nodeData = make([]ProblemData, len(b.Nodes))
	for i, n := range b.Nodes {
		o.nodeData[i] = o.NodeData(n)
		n.Data.Param = mdg.NewParameters(o.Physics, n.Grid.Ncells, n.Grid.Nfaces)
		err = o.setNodeParams(n, o.nodeData[i])
		if err != nil {
			return chk.Err("cannot set parameters of subdomain %d:\n%v", n.Idx, err)
		}
	}

	// interfaces
	o.edgeData = make([]InterfaceData, len(b.Edges))
	for i, e := range b.Edges {
		o.edgeData[i] = o.EdgeData(e)
		e.Data.Param = mdg.NewParameters(o.Physics, e.Npairs(), e.Npairs())
		if err = e.Data.Param.SetNormalDiff(o.edgeData[i].NormalDiff(e)); err != nil {
			return chk.Err("cannot set parameters of interface %d:\n%v", e.Idx, err)
		}
		if err = e.Data.Param.SetDischarge(o.edgeData[i].Flux(e)); err != nil {
			return chk.Err("cannot set parameters of interface %d:\n%v", e.Idx, err)
		}
	}
	if o.ShowMsg {
		io.Pf("> Parameters of %d subdomains and %d interfaces set\n", len(b.Nodes), len(b.Edges))
	}

	// solver
	alloc, ok := solverallocators[o.Sim.Solver.Type]
	if !ok {
		return chk.Err("cannot find solver type named %q", o.Sim.Solver.Type)
	}
	o.Solver, err = alloc(o)
	return
}

// InitialCondition sets the field of each subdomain to its initial value and returns the
// merged global vector
func (o *Problem) InitialCondition() (x []float64, err error) {
	b, err := o.Grid()
	if err != nil {
		return
	}
	if len(o.nodeData) != len(b.Nodes) {
		return nil, chk.Err("problem must be initialised first")
	}
	for i, n := range b.Nodes {
		n.Data.Fields[o.Physics] = o.nodeData[i].Initial(n.Grid)
	}
	return o.Mass.Merge(b, o.Physics)
}

// Update recomputes time-dependent boundary values and sources of all subdomains
func (o *Problem) Update(t float64) (err error) {
	b, err := o.Grid()
	if err != nil {
		return
	}
	if len(o.nodeData) != len(b.Nodes) {
		return chk.Err("problem must be initialised first")
	}
	for i, n := range b.Nodes {
		if err = n.Data.Param.SetBcVal(o.nodeData[i].BcVal(n.Grid, t)); err != nil {
			return
		}
		if err = n.Data.Param.SetSource(o.nodeData[i].Source(n.Grid, t)); err != nil {
			return
		}
	}
	o.time = t
	return
}

// Reassemble forces the recomputation of all discretizations at the next step
func (o *Problem) Reassemble() {
	if o.Solver != nil {
		o.Solver.Reassemble()
	}
}

// Step performs one time step
func (o *Problem) Step() (x []float64, err error) {
	if err = o.ready(); err != nil {
		return
	}
	return o.Solver.Step()
}

// Solve steps until the final time
func (o *Problem) Solve() (err error) {
	if err = o.ready(); err != nil {
		return
	}
	return o.Solver.Solve()
}

// Couplers returns the space couplers (advective, diffusive, source) followed by the mass coupler
func (o *Problem) Couplers() (res []*Coupler) {
	for _, c := range []*Coupler{o.Advective, o.Diffusive, o.Src, o.Mass} {
		if c != nil {
			res = append(res, c)
		}
	}
	return
}

// AssembleSpace assembles and sums the advective, diffusive and source operators
func (o *Problem) AssembleSpace() (A *sparse.CSR, rhs []float64, err error) {
	b, err := o.Grid()
	if err != nil {
		return
	}
	_, ndof := o.Mass.Dofs(b)
	K := sparse.NewDOK(ndof, ndof)
	rhs = make([]float64, ndof)
	for _, c := range []*Coupler{o.Advective, o.Diffusive, o.Src} {
		if c == nil {
			continue
		}
		Ac, bc, err := c.MatrixRhs(b)
		if err != nil {
			return nil, nil, err
		}
		Ac.DoNonZero(func(i, j int, v float64) {
			K.Set(i, j, K.At(i, j)+v)
		})
		floats.Add(rhs, bc)
	}
	A = K.ToCSR()
	return
}

// Save exports the solutions of every saveEvery-th time step and writes the PVD index
//  saveEvery <= 0 means use o.SaveEvery
func (o *Problem) Save(saveEvery int) (err error) {
	if err = o.ready(); err != nil {
		return
	}
	if saveEvery <= 0 {
		saveEvery = o.SaveEvery
	}
	b := o.Bucket
	ts, xs := o.Solver.History()
	exp := out.NewExporter(o.Sim.DirOut, o.FolderName, o.FileName, o.ShowMsg)
	var times []float64
	var tidxs []int
	for i := 0; i < len(xs); i += saveEvery {
		err = o.Mass.Split(b, o.Physics, xs[i])
		if err != nil {
			return
		}
		err = exp.WriteVtu(b, o.Physics, i)
		if err != nil {
			return
		}
		times = append(times, ts[i])
		tidxs = append(tidxs, i)
	}
	err = exp.WritePvd(times, tidxs)
	if err != nil {
		return
	}

	// restore current solution
	return o.Mass.Split(b, o.Physics, xs[len(xs)-1])
}

// Run initialises, solves and saves the problem; the summary is saved at the end
func (o *Problem) Run() (err error) {

	// exit commands
	cputime := time.Now()
	defer func() { err = o.onexit(cputime, err) }()

	// message
	if o.ShowMsg {
		io.Pf("> Initialising problem %q\n", o.Physics)
	}

	// initialise
	err = o.Init()
	if err != nil {
		return
	}

	// time loop
	if o.ShowMsg {
		io.Pf("> Running implicit solver\n")
	}
	err = o.Solve()
	if err != nil {
		return
	}

	// output
	return o.Save(o.SaveEvery)
}

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// ready returns an error if the problem has not been initialised
func (o *Problem) ready() (err error) {
	if _, err = o.Grid(); err != nil {
		return
	}
	if o.Solver == nil {
		return chk.Err("problem must be initialised first")
	}
	return
}

// setNodeParams sets the parameters of subdomain n from data pd
func (o *Problem) setNodeParams(n *mdg.Node, pd ProblemData) (err error) {
	g, p := n.Grid, n.Data.Param
	bc, err := pd.Bc(g)
	if err != nil {
		return
	}
	if err = p.SetBc(bc); err != nil {
		return
	}
	if err = p.SetTensor(pd.Diffusivity(g)); err != nil {
		return
	}
	if err = p.SetPorosity(pd.Porosity(g)); err != nil {
		return
	}
	if err = p.SetAperture(pd.Aperture(g)); err != nil {
		return
	}
	if err = p.SetDischarge(pd.Discharge(g)); err != nil {
		return
	}
	if err = p.SetBcVal(pd.BcVal(g, o.time)); err != nil {
		return
	}
	return p.SetSource(pd.Source(g, o.time))
}

// onexit prints final message with cpu time and saves summary
func (o *Problem) onexit(cputime time.Time, prevErr error) (err error) {

	// show final message
	if o.ShowMsg {
		if prevErr == nil {
			io.PfGreen("> Success\n")
			io.Pf("> CPU time = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> Failed\n")
		}
	}

	// save summary
	if o.Summary != nil && o.Solver != nil {
		o.Summary.Collect(o)
		err = o.Summary.Save(o.Sim.DirOut, o.Sim.Key, o.Sim.EncType, o.ShowMsg)
		if err != nil {
			return
		}
	}

	// skip if previous error is not nil
	if prevErr != nil {
		err = prevErr
	}
	return
}

// newCoupler returns a coupler for the given kind of discretization
//  kind -- "upwind", "tpfa", "source", "mass" or "none" (returns nil)
func newCoupler(kind, physics string, parallel bool) (c *Coupler, err error) {
	if kind == "none" || kind == "" {
		return
	}
	discr, err := disc.New(kind, physics)
	if err != nil {
		return
	}
	var cpl disc.Coupling
	if kind == "upwind" || kind == "tpfa" {
		cpl, err = disc.NewCoupling(kind, physics)
		if err != nil {
			return
		}
	}
	c = NewCoupler(discr, cpl)
	c.Parallel = parallel
	return
}
