// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana implements analytical solutions
package ana

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// SteadyAdvDiff1D computes the solution to the steady advection-diffusion equation along a bar
// with Dirichlet conditions at both ends
//
//   v u' - D u'' = 0   in (0, L)
//   u(0) = uL   u(L) = uR
//
//   u(x) = uL + (uR - uL)・(exp(Pe x/L) - 1) / (exp(Pe) - 1)   with   Pe = v L / D
//
//   Pe → 0 gives the linear profile
type SteadyAdvDiff1D struct {
	// input
	L  float64 // length
	V  float64 // velocity
	D  float64 // diffusivity
	UL float64 // value at x=0
	UR float64 // value at x=L

	// derived
	Pe float64 // Péclet number
}

// Init initialises this structure
func (o *SteadyAdvDiff1D) Init(prms dbf.Params) (err error) {
	o.L, o.D = 1, 1
	for _, p := range prms {
		switch p.N {
		case "L":
			o.L = p.V
		case "v":
			o.V = p.V
		case "D":
			o.D = p.V
		case "uL":
			o.UL = p.V
		case "uR":
			o.UR = p.V
		default:
			return chk.Err("SteadyAdvDiff1D: parameter named %q is not available", p.N)
		}
	}
	if o.L <= 0 || o.D <= 0 {
		return chk.Err("SteadyAdvDiff1D: L and D must be positive. L=%g D=%g", o.L, o.D)
	}
	o.Pe = o.V * o.L / o.D
	return
}

// Calc computes u(x)
func (o SteadyAdvDiff1D) Calc(x float64) float64 {
	if math.Abs(o.Pe) < 1e-10 {
		return o.UL + (o.UR-o.UL)*x/o.L
	}
	return o.UL + (o.UR-o.UL)*math.Expm1(o.Pe*x/o.L)/math.Expm1(o.Pe)
}

// Flux computes the total flux v u - D u' at x; it is constant along the bar
func (o SteadyAdvDiff1D) Flux(x float64) float64 {
	var du float64
	if math.Abs(o.Pe) < 1e-10 {
		du = (o.UR - o.UL) / o.L
	} else {
		du = (o.UR - o.UL) * (o.Pe / o.L) * math.Exp(o.Pe*x/o.L) / math.Expm1(o.Pe)
	}
	return o.V*o.Calc(x) - o.D*du
}

// StorageRamp computes the solution to a storage (single cell) with a source ramping linearly
// from s0 at t=0 to s1 at t=tf and kept constant afterwards
//
//   m du/dt = s(t)   u(0) = u0
type StorageRamp struct {
	M      float64 // storage coefficient; e.g. porosity × volume
	U0     float64 // initial value
	S0, S1 float64 // source at t=0 and t=tf
	Tf     float64 // end of ramp
}

// Calc computes u(t)
func (o StorageRamp) Calc(t float64) float64 {
	τ := math.Min(t, o.Tf)
	a := (o.S1 - o.S0) / o.Tf
	u := o.U0 + (o.S0*τ+a*τ*τ/2)/o.M
	if t > o.Tf {
		u += o.S1 * (t - o.Tf) / o.M
	}
	return u
}
