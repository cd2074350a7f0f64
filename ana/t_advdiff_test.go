// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ana

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_advdiff01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("advdiff01. steady advection-diffusion along bar")

	var sol SteadyAdvDiff1D
	err := sol.Init(dbf.Params{
		&dbf.P{N: "L", V: 2},
		&dbf.P{N: "v", V: 3},
		&dbf.P{N: "D", V: 1.5},
		&dbf.P{N: "uL", V: 1},
	})
	require.NoError(tst, err)
	chk.Float64(tst, "Pe", 1e-15, sol.Pe, 4)
	chk.Float64(tst, "u(0)", 1e-15, sol.Calc(0), 1)
	chk.Float64(tst, "u(L)", 1e-14, sol.Calc(2), 0)

	// residual and constant flux
	q0 := sol.Flux(0)
	for _, x := range []float64{0.3, 0.9, 1.5} {
		du := fd.Derivative(sol.Calc, x, &fd.Settings{Formula: fd.Central})
		d2u := fd.Derivative(sol.Calc, x, &fd.Settings{Formula: fd.Central2nd})
		io.Pforan("x=%g u=%g u'=%g u''=%g\n", x, sol.Calc(x), du, d2u)
		chk.Float64(tst, "v u' - D u''", 1e-4, sol.V*du-sol.D*d2u, 0)
		chk.Float64(tst, "flux", 1e-13, sol.Flux(x), q0)
	}

	// pure diffusion
	require.NoError(tst, sol.Init(dbf.Params{&dbf.P{N: "uL", V: 1}, &dbf.P{N: "uR", V: 3}}))
	chk.Float64(tst, "u(0.25)", 1e-15, sol.Calc(0.25), 1.5)
	chk.Float64(tst, "flux", 1e-15, sol.Flux(0.7), -2)

	// errors
	require.Error(tst, sol.Init(dbf.Params{&dbf.P{N: "K", V: 1}}))
	require.Error(tst, sol.Init(dbf.Params{&dbf.P{N: "D", V: 0}}))
}

func Test_advdiff02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("advdiff02. storage with ramped source")

	sol := StorageRamp{M: 2, U0: 1, S0: 0, S1: 4, Tf: 1}
	chk.Float64(tst, "u(0)", 1e-15, sol.Calc(0), 1)
	chk.Float64(tst, "u(0.5)", 1e-15, sol.Calc(0.5), 1.25)
	chk.Float64(tst, "u(1)", 1e-15, sol.Calc(1), 2)
	chk.Float64(tst, "u(2)", 1e-15, sol.Calc(2), 4)
}
