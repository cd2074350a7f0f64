// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fvm

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Implicit solves the linear problem  M dx/dt + A x = b  with the θ-method
//  (M/Δt + θ A) x_{n+1} = M/Δt x_n - (1-θ) A_n x_n + θ b_{n+1} + (1-θ) b_n
//  θ = 1 gives the implicit (backward) Euler method
type Implicit struct {
	p     *Problem // problem
	lsol  LinSol   // linear solver
	theta float64  // θ-method coefficient

	// time control; t = t0 + n Δt
	t0, dt, tf float64
	n          int
	state      State

	// solution
	x  []float64   // current solution
	ts []float64   // [nsteps+1] times
	xs [][]float64 // [nsteps+1] solutions

	// operators
	A, M     *sparse.CSR // space and mass operators
	b        []float64   // space right-hand side
	aOld     *sparse.CSR // space operator at previous time (θ < 1)
	bOld     []float64   // right-hand side at previous time (θ < 1)
	matRev   uint64      // matrix revision of the bucket when operators were built
	rhsRev   uint64      // right-hand side revision of the bucket when operators were built
	dirty    bool        // reassembling was requested
	factored bool        // the linear solver holds the factorisation of the current LHS
}

// add solver to factory
func init() {
	solverallocators["imp"] = func(p *Problem) (Solver, error) { return NewImplicit(p) }
}

// NewImplicit returns a new implicit solver starting from the initial condition of p
func NewImplicit(p *Problem) (o *Implicit, err error) {
	o = new(Implicit)
	o.p = p
	o.theta = p.Sim.Solver.Theta
	o.t0 = 0
	o.dt = p.Sim.Control.Dt
	o.tf = p.Sim.Control.Tf
	if o.dt <= 0 || o.tf <= 0 {
		return nil, chk.Err("time step and final time must be positive. Δt=%g tf=%g", o.dt, o.tf)
	}
	if o.theta < 0 || o.theta > 1 {
		return nil, chk.Err("θ must be in [0,1]. θ=%g is invalid", o.theta)
	}
	o.x, err = p.InitialCondition()
	if err != nil {
		return nil, chk.Err("cannot set initial condition:\n%v", err)
	}
	o.ts = []float64{o.t0}
	o.xs = [][]float64{append([]float64{}, o.x...)}
	o.lsol = GetSolver(p.Sim.LinSol.Name)
	o.state = Ready
	return
}

// Step performs one time step: update(t+Δt) → assemble → solve → advance
//  Note: on errors, the solver is left in the Ready state and the current solution is kept
func (o *Implicit) Step() (x []float64, err error) {

	// check
	if o.state == Finished {
		return nil, chk.Err("cannot step: final time tf=%g has been reached at t=%g", o.tf, o.Time())
	}
	defer func() {
		if err != nil {
			o.state = Ready
		}
	}()

	// right-hand side at the current time
	tnew := o.t0 + float64(o.n+1)*o.dt
	if o.theta < 1 && o.bOld == nil {
		err = o.p.Update(o.Time())
		if err != nil {
			return
		}
		err = o.assemble()
		if err != nil {
			return
		}
		o.aOld, o.bOld = o.A, o.b
	}

	// update parameters
	err = o.p.Update(tnew)
	if err != nil {
		return nil, chk.Err("update at t=%g failed:\n%v", tnew, err)
	}

	// assemble
	err = o.assemble()
	if err != nil {
		return nil, chk.Err("assembly at t=%g failed:\n%v", tnew, err)
	}

	// solve
	x, err = o.solve()
	if err != nil {
		return nil, chk.Err("solution at t=%g failed:\n%v", tnew, err)
	}

	// advance
	err = o.advance(tnew, x)
	return
}

// Solve steps until the final time is reached
func (o *Implicit) Solve() (err error) {
	for o.state != Finished {
		_, err = o.Step()
		if err != nil {
			return
		}
		if o.p.ShowMsg {
			io.Pf("%30.15f\r", o.Time())
		}
	}
	if o.p.ShowMsg {
		io.Pf("\n")
	}
	return
}

// Reassemble invalidates all operators; they are recomputed at the next step
func (o *Implicit) Reassemble() {
	o.dirty = true
	if o.state != Finished {
		o.state = Ready
	}
}

// State returns the current state
func (o *Implicit) State() State { return o.state }

// Time returns the current time
func (o *Implicit) Time() float64 { return o.t0 + float64(o.n)*o.dt }

// History returns all times and solutions, including the initial condition
func (o *Implicit) History() ([]float64, [][]float64) { return o.ts, o.xs }

// auxiliary //////////////////////////////////////////////////////////////////////////////////////

// assemble recomputes operators whose parameters changed and factorises the LHS if needed
func (o *Implicit) assemble() (err error) {

	// rebuild operators
	b := o.p.Bucket
	mrev, rrev := b.MatRev(), b.RhsRev()
	matChanged := o.dirty || o.M == nil || mrev != o.matRev
	if matChanged || o.A == nil || rrev != o.rhsRev {
		if o.dirty {
			for _, c := range o.p.Couplers() {
				c.Invalidate(b)
			}
		}
		o.A, o.b, err = o.p.AssembleSpace()
		if err != nil {
			return
		}
		if matChanged {
			o.M, _, err = o.p.Mass.MatrixRhs(b)
			if err != nil {
				return
			}
			o.factored = false
		}
		o.matRev, o.rhsRev, o.dirty = mrev, rrev, false
	}

	// factorise LHS = M/Δt + θ A
	//  Note: the LHS is dense; memory grows with n² and the factorisation with n³
	if !o.factored {
		n, _ := o.M.Dims()
		lhs := mat.NewDense(n, n, nil)
		o.M.DoNonZero(func(i, j int, v float64) {
			lhs.Set(i, j, lhs.At(i, j)+v/o.dt)
		})
		o.A.DoNonZero(func(i, j int, v float64) {
			lhs.Set(i, j, lhs.At(i, j)+o.theta*v)
		})
		err = o.lsol.Fact(lhs)
		if err != nil {
			return chk.Err("factorisation failed:\n%v", err)
		}
		o.factored = true
	}
	o.state = Assembled
	return
}

// solve computes the solution at the new time
func (o *Implicit) solve() (x []float64, err error) {
	n := len(o.x)
	if n != len(o.b) {
		return nil, chk.Err("number of DOFs changed from %d to %d", n, len(o.b))
	}
	rhs := make([]float64, n)
	mulAdd(rhs, 1.0/o.dt, o.M, o.x)
	floats.AddScaled(rhs, o.theta, o.b)
	if o.theta < 1 {
		mulAdd(rhs, o.theta-1.0, o.aOld, o.x)
		floats.AddScaled(rhs, 1.0-o.theta, o.bOld)
	}
	x = make([]float64, n)
	err = o.lsol.Solve(x, rhs)
	if err != nil {
		return
	}
	o.state = Solved
	return
}

// advance stores the new solution and moves time forward
func (o *Implicit) advance(tnew float64, x []float64) (err error) {
	err = o.p.Mass.Split(o.p.Bucket, o.p.Physics, x)
	if err != nil {
		return
	}
	o.x = x
	o.n++
	o.ts = append(o.ts, tnew)
	o.xs = append(o.xs, append([]float64{}, x...))
	o.aOld, o.bOld = o.A, o.b
	o.state = Advanced
	if tnew >= o.tf-1e-10*o.dt {
		o.state = Finished
		return
	}
	o.state = Ready
	return
}

// mulAdd computes y += α A x
func mulAdd(y []float64, α float64, A *sparse.CSR, x []float64) {
	A.DoNonZero(func(i, j int, v float64) {
		y[i] += α * v * x[j]
	})
}
