// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fvm

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"gonum.org/v1/gonum/mat"
)

// LinSol defines linear solvers
//  Fact factorises A once; Solve may then be called many times with different right-hand sides
type LinSol interface {
	Fact(A mat.Matrix) error    // factorise
	Solve(x, b []float64) error // solve A x = b; x must have the right size
	Clean()                     // clean resources
}

// lsallocators holds all available linear solvers
var lsallocators = make(map[string]func() LinSol)

// GetSolver returns a new linear solver
func GetSolver(name string) LinSol {
	if alloc, ok := lsallocators[name]; ok {
		return alloc()
	}
	chk.Panic("cannot find linear solver named %q", name)
	return nil
}

// DenseLU implements a direct solver based on the LU decomposition of a dense matrix
type DenseLU struct {
	lu mat.LU
	n  int
}

// add solver to factory
func init() {
	lsallocators["lu"] = func() LinSol { return new(DenseLU) }
}

// Fact factorises A
func (o *DenseLU) Fact(A mat.Matrix) (err error) {
	r, c := A.Dims()
	if r != c || r == 0 {
		return chk.Err("matrix must be square and non-empty. %d×%d is invalid", r, c)
	}
	o.lu.Factorize(A)
	cond := o.lu.Cond()
	if math.IsInf(cond, 1) {
		return chk.Err("matrix is singular")
	}
	if cond > mat.ConditionTolerance {
		return chk.Err("matrix is ill-conditioned. cond=%g", cond)
	}
	o.n = r
	return
}

// Solve solves A x = b using the factorisation
func (o *DenseLU) Solve(x, b []float64) (err error) {
	if o.n == 0 {
		return chk.Err("matrix must be factorised first")
	}
	if len(x) != o.n || len(b) != o.n {
		return chk.Err("vectors must have length %d. len(x)=%d len(b)=%d", o.n, len(x), len(b))
	}
	err = o.lu.SolveVecTo(mat.NewVecDense(o.n, x), false, mat.NewVecDense(o.n, b))
	if err != nil {
		return chk.Err("LU solve failed:\n%v", err)
	}
	return
}

// Clean cleans resources
func (o *DenseLU) Clean() {
	o.lu = mat.LU{}
	o.n = 0
}
