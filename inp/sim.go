// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package inp implements the input data read from a (.sim) JSON or YAML file
package inp

import (
	"encoding/json"
	goio "io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"gopkg.in/yaml.v3"
)

// Data holds global data for simulations
type Data struct {

	// global information
	Desc    string `json:"desc"`    // description of simulation
	Matfile string `json:"matfile"` // materials file path; materials may also be given in the .sim file
	DirOut  string `json:"dirout"`  // directory for output; e.g. /tmp/porepy
	Encoder string `json:"encoder"` // encoder name; e.g. "gob" "json"

	// problem definition and options
	Physics    string    `json:"physics"`    // name of physics; key of unknown fields. ex: "transport"
	Advection  string    `json:"advection"`  // advective discretization; "upwind" or "none"
	Diffusion  string    `json:"diffusion"`  // diffusive discretization; "tpfa" or "none"
	Velocity   []float64 `json:"velocity"`   // constant velocity field defining face discharges
	IniFcn     string    `json:"inifcn"`     // function name for the initial condition
	FileName   string    `json:"filename"`   // root name of exported files; default is physics
	FolderName string    `json:"foldername"` // folder for exported files, inside DirOut; default is "results"
	SaveEvery  int       `json:"saveevery"`  // export every n-th time step; default is 1
	Parallel   bool      `json:"parallel"`   // compute local discretizations concurrently
}

// LinSolData holds data for linear solvers
type LinSolData struct {
	Name string `json:"name"` // "lu"
}

// SolverData holds time-stepping solver data
type SolverData struct {
	Type       string  `json:"type"`       // solver type; "imp" => implicit
	Theta      float64 `json:"theta"`      // θ-method
	ThGalerkin bool    `json:"thgalerkin"` // use θ = 2/3
	ThLiniger  bool    `json:"thliniger"`  // use θ = 0.878
	ThCN       bool    `json:"thcn"`       // use θ = 1/2 (Crank-Nicolson)
}

// TimeControl holds data for defining the simulation time stepping
type TimeControl struct {
	Tf float64 `json:"tf"` // final time
	Dt float64 `json:"dt"` // time step size
}

// MeshData holds data for reading or generating the mixed-dimensional mesh
type MeshData struct {
	File      string         `json:"file"`      // mesh file; JSON or YAML
	Cartesian *CartesianData `json:"cartesian"` // generator data; used if File is empty
}

// BcData holds boundary condition data
type BcData struct {
	Tag  string `json:"tag"`  // name of face tag. ex: xmin, xmax, ymin, ymax
	Dims []int  `json:"dims"` // dimensions of subdomains; empty means all
	Type string `json:"type"` // "dir" or "neu"
	Func string `json:"func"` // name of function giving values; F(t, xface)
}

// SourceData holds source data
type SourceData struct {
	Dims []int  `json:"dims"` // dimensions of subdomains; empty means all
	Func string `json:"func"` // name of function giving the source density; F(t, xcell)
}

// Simulation holds all simulation data
type Simulation struct {

	// input
	Data      Data          `json:"data"`      // stores global simulation data
	Functions FuncsData     `json:"functions"` // stores all functions
	Materials MatsData      `json:"materials"` // stores all materials
	Mesh      MeshData      `json:"mesh"`      // mesh data
	Bcs       []*BcData     `json:"bcs"`       // boundary conditions
	Sources   []*SourceData `json:"sources"`   // sources
	LinSol    LinSolData    `json:"linsol"`    // linear solver data
	Solver    SolverData    `json:"solver"`    // time-stepping solver data
	Control   TimeControl   `json:"control"`   // time control

	// derived
	Dir     string // directory of .sim file
	DirOut  string // directory to save results
	Key     string // simulation key; e.g. mysim01.sim => mysim01 or mysim01-alias
	EncType string // encoder type
}

// ReadSim reads all simulation data from a .sim JSON file (or .yaml/.yml)
func ReadSim(simfilepath, alias string, erasePrev, createDirOut bool) (o *Simulation, err error) {

	// read file
	b, err := os.ReadFile(simfilepath)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot read simulation file %q:\n%v", simfilepath, err)
	}

	// new sim with default values
	o = new(Simulation)
	o.SetDefault()

	// decode
	err = decode(simfilepath, b, o)
	if err != nil {
		return nil, chk.Err("ReadSim: cannot unmarshal simulation file %q:\n%v", simfilepath, err)
	}

	// input directory and filename key
	dir := filepath.Dir(simfilepath)
	fn := filepath.Base(simfilepath)
	o.Dir = os.ExpandEnv(dir)
	fnkey := io.FnKey(fn)
	o.Key = fnkey
	if alias != "" {
		o.Key += "-" + alias
	}

	// output directory
	o.DirOut = o.Data.DirOut
	if o.DirOut == "" {
		o.DirOut = "/tmp/porepy/" + fnkey
	}

	// create directory
	if createDirOut {
		err = os.MkdirAll(o.DirOut, 0777)
		if err != nil {
			return nil, chk.Err("cannot create directory for output results (%s): %v", o.DirOut, err)
		}
	}

	// erase previous simulation results
	if erasePrev {
		io.RemoveAll(io.Sf("%s/%s*", o.DirOut, fnkey))
	}

	// materials file
	if o.Data.Matfile != "" {
		mdb, err := ReadMat(o.Dir, o.Data.Matfile)
		if err != nil {
			return nil, err
		}
		o.Materials = append(o.Materials, mdb.Materials...)
		o.Functions = append(o.Functions, mdb.Functions...)
	}

	// derived values
	err = o.PostProcess()
	return
}

// GetInfo returns formatted information
func (o *Simulation) GetInfo(w goio.Writer) (err error) {
	b, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return
}

// extra settings //////////////////////////////////////////////////////////////////////////////////

// SetDefault sets default values
func (o *Simulation) SetDefault() {
	o.Data.Physics = "transport"
	o.Data.Advection = "upwind"
	o.Data.Diffusion = "tpfa"
	o.Data.FolderName = "results"
	o.Data.SaveEvery = 1
	o.LinSol.SetDefault()
	o.Solver.SetDefault()
	o.Control.Tf = 1
	o.Control.Dt = 1
}

// PostProcess checks input and sets derived values
func (o *Simulation) PostProcess() (err error) {

	// data
	if o.Data.Physics == "" {
		return chk.Err("physics name must be given")
	}
	if o.Data.FileName == "" {
		o.Data.FileName = o.Data.Physics
	}
	if o.Data.FolderName == "" {
		o.Data.FolderName = "results"
	}
	if o.Data.SaveEvery < 1 {
		o.Data.SaveEvery = 1
	}
	if o.Data.Velocity != nil && len(o.Data.Velocity) != 3 {
		return chk.Err("velocity must have 3 components. %v is invalid", o.Data.Velocity)
	}

	// encoder type
	o.EncType = o.Data.Encoder
	if o.EncType != "gob" && o.EncType != "json" {
		o.EncType = "gob"
	}

	// time control
	if o.Control.Tf < 1e-14 {
		o.Control.Tf = 1
	}
	if o.Control.Dt < 1e-14 {
		o.Control.Dt = 1
	}

	// solver
	o.Solver.PostProcess()
	if o.Solver.Theta < 0 || o.Solver.Theta > 1 {
		return chk.Err("θ must be in [0,1]. θ=%g is invalid", o.Solver.Theta)
	}

	// boundary conditions
	for _, bc := range o.Bcs {
		if bc.Type != "dir" && bc.Type != "neu" {
			return chk.Err("boundary condition type %q on tag %q is not available", bc.Type, bc.Tag)
		}
		if _, err = o.Functions.Get(bc.Func); err != nil {
			return
		}
	}
	for _, src := range o.Sources {
		if _, err = o.Functions.Get(src.Func); err != nil {
			return
		}
	}
	if _, err = o.Functions.Get(o.Data.IniFcn); err != nil {
		return
	}

	// materials
	return o.Materials.Init()
}

// SetDefault sets defaults values
func (o *LinSolData) SetDefault() {
	o.Name = "lu"
}

// SetDefault set defaults values
func (o *SolverData) SetDefault() {
	o.Type = "imp"
	o.Theta = 1
}

// PostProcess performs a post-processing of the just read json file
func (o *SolverData) PostProcess() {
	if o.ThGalerkin {
		o.Theta = 2.0 / 3.0
	}
	if o.ThLiniger {
		o.Theta = 0.878
	}
	if o.ThCN {
		o.Theta = 0.5
	}
}

// auxiliary ///////////////////////////////////////////////////////////////////////////////////////

// decode decodes JSON or YAML (by file extension) into v
//  Note: YAML is converted to JSON first so that json tags apply to both formats
func decode(fn string, b []byte, v interface{}) (err error) {
	ext := strings.ToLower(filepath.Ext(fn))
	if ext == ".yaml" || ext == ".yml" {
		var raw interface{}
		err = yaml.Unmarshal(b, &raw)
		if err != nil {
			return
		}
		b, err = json.Marshal(raw)
		if err != nil {
			return
		}
	}
	return json.Unmarshal(b, v)
}
