// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"os"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Material holds the physical parameters of subdomains
//  Parameters (prms):
//   phi -- porosity                          [default 1]
//   kxx -- diffusivity along x               [default 1]
//   kyy -- diffusivity along y               [default kxx]
//   kzz -- diffusivity along z               [default kxx]
//   apt -- aperture (lower-dim subdomains)   [default 1]
//   kn  -- normal diffusivity (interfaces)   [default 1]
type Material struct {

	// input
	Name  string     `json:"name"`  // name of material
	Dims  []int      `json:"dims"`  // dimensions of subdomains using this material; empty means all
	Extra string     `json:"extra"` // extra information about this material
	Prms  dbf.Params `json:"prms"`  // prms holds all parameters for this material

	// derived
	Phi, Kxx, Kyy, Kzz, Apt, Kn float64
}

// Mats holds materials
type MatsData []*Material

// MatDb implements a database of materials
type MatDb struct {
	Functions FuncsData `json:"functions"` // all functions
	Materials MatsData  `json:"materials"` // all materials
}

// Init sets derived values from parameters
func (o *Material) Init() (err error) {
	o.Phi, o.Kxx, o.Apt, o.Kn = 1, 1, 1, 1
	o.Kyy, o.Kzz = -1, -1
	for _, p := range o.Prms {
		switch p.N {
		case "phi":
			o.Phi = p.V
		case "kxx":
			o.Kxx = p.V
		case "kyy":
			o.Kyy = p.V
		case "kzz":
			o.Kzz = p.V
		case "apt":
			o.Apt = p.V
		case "kn":
			o.Kn = p.V
		default:
			return chk.Err("material %q: parameter named %q is not available", o.Name, p.N)
		}
	}
	if o.Kyy < 0 {
		o.Kyy = o.Kxx
	}
	if o.Kzz < 0 {
		o.Kzz = o.Kxx
	}
	if o.Phi <= 0 || o.Apt <= 0 || o.Kn <= 0 || o.Kxx < 0 || o.Kyy < 0 || o.Kzz < 0 {
		return chk.Err("material %q: phi, apt and kn must be positive and diffusivities non-negative", o.Name)
	}
	return
}

// Applies tells whether the material applies to subdomains of dimension dim
func (o *Material) Applies(dim int) bool {
	if len(o.Dims) == 0 {
		return true
	}
	for _, d := range o.Dims {
		if d == dim {
			return true
		}
	}
	return false
}

// Init initialises all materials
func (o MatsData) Init() (err error) {
	for _, m := range o {
		err = m.Init()
		if err != nil {
			return
		}
	}
	return
}

// Get returns the first material applying to subdomains of dimension dim
//  Note: returns nil if not found
func (o MatsData) Get(dim int) *Material {
	for _, m := range o {
		if m.Applies(dim) {
			return m
		}
	}
	return nil
}

// ReadMat reads all materials data from a .mat JSON or YAML file
func ReadMat(dir, fn string) (mdb *MatDb, err error) {

	// read file
	b, err := os.ReadFile(filepath.Join(dir, fn))
	if err != nil {
		return nil, chk.Err("cannot read materials file %q:\n%v", fn, err)
	}

	// decode
	mdb = new(MatDb)
	err = decode(fn, b, mdb)
	if err != nil {
		return nil, chk.Err("cannot decode materials file %q:\n%v", fn, err)
	}

	// initialise
	err = mdb.Materials.Init()
	return
}
