// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fvm

// State defines the states of time-stepping solvers
type State int

const (
	Ready     State = iota // waiting for the next step
	Assembled              // system matrix and right-hand side are up to date
	Solved                 // linear system solved for the new time
	Advanced               // solution stored; time advanced
	Finished               // final time reached
)

// String returns the name of the state
func (o State) String() string {
	switch o {
	case Ready:
		return "ready"
	case Assembled:
		return "assembled"
	case Solved:
		return "solved"
	case Advanced:
		return "advanced"
	case Finished:
		return "finished"
	}
	return "unknown"
}

// Solver implements the actual solver (time loop)
type Solver interface {
	Step() (x []float64, err error)    // performs one time step and returns the new solution
	Solve() (err error)                // steps until the final time is reached
	Reassemble()                       // forces the recomputation of all operators at the next step
	State() State                      // current state
	Time() float64                     // current time
	History() ([]float64, [][]float64) // times and solutions, including the initial condition
}

// solverallocators holds all available solvers
var solverallocators = make(map[string]func(p *Problem) (Solver, error))
