// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"bytes"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
	"github.com/cpmech/gosl/io"
	"github.com/stretchr/testify/require"
)

func verbose() {
	io.Verbose = true
	chk.Verbose = true
}

func Test_sim01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim01. read JSON .sim file")

	sim, err := ReadSim("data/frac01.sim", "", false, false)
	require.NoError(tst, err)

	require.Equal(tst, "frac01", sim.Key)
	require.Equal(tst, "json", sim.EncType)
	require.Equal(tst, "transport", sim.Data.FileName)
	require.Equal(tst, "results", sim.Data.FolderName)
	chk.Int(tst, "saveevery", sim.Data.SaveEvery, 2)
	chk.Float64(tst, "θ (Crank-Nicolson)", 1e-15, sim.Solver.Theta, 0.5)
	chk.Float64(tst, "dt", 1e-15, sim.Control.Dt, 0.25)
	require.Equal(tst, "lu", sim.LinSol.Name)
	require.Equal(tst, "imp", sim.Solver.Type)

	// materials
	m1 := sim.Materials.Get(1)
	require.NotNil(tst, m1)
	require.Equal(tst, "fracture", m1.Name)
	chk.Float64(tst, "apt", 1e-15, m1.Apt, 0.01)
	chk.Float64(tst, "kyy = kxx", 1e-15, m1.Kyy, 10)
	m2 := sim.Materials.Get(2)
	require.Equal(tst, "matrix", m2.Name)
	chk.Float64(tst, "phi", 1e-15, m2.Phi, 0.2)

	// functions
	src, err := sim.Functions.Get("src")
	require.NoError(tst, err)
	chk.Float64(tst, "src(0.5)", 1e-15, src.F(0.5, nil), 0.5)
	zero, err := sim.Functions.Get("zero")
	require.NoError(tst, err)
	chk.Float64(tst, "zero", 1e-15, zero.F(3, nil), 0)
	_, err = sim.Functions.Get("unknown")
	require.Error(tst, err)

	// mesh
	b, err := sim.Mesh.GetBucket(sim.Dir)
	require.NoError(tst, err)
	chk.Int(tst, "nnodes", len(b.Nodes), 2)
	chk.Int(tst, "nedges", len(b.Edges), 1)

	// info
	var buf bytes.Buffer
	require.NoError(tst, sim.GetInfo(&buf))
	if chk.Verbose {
		io.Pforan("%v\n", buf.String())
	}
}

func Test_sim02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim02. read YAML .sim file and mesh file")

	sim, err := ReadSim("data/frac01.yaml", "alias", false, false)
	require.NoError(tst, err)
	require.Equal(tst, "frac01-alias", sim.Key)
	require.Equal(tst, "gob", sim.EncType)
	chk.Float64(tst, "tf", 1e-15, sim.Control.Tf, 2)
	chk.Float64(tst, "θ", 1e-15, sim.Solver.Theta, 1)
	chk.Array(tst, "velocity", 1e-15, sim.Data.Velocity, []float64{1, 0, 0})
	require.Len(tst, sim.Bcs, 1)
	require.Equal(tst, "xmin", sim.Bcs[0].Tag)

	b, err := sim.Mesh.GetBucket(sim.Dir)
	require.NoError(tst, err)
	chk.Int(tst, "nnodes", len(b.Nodes), 2)
	chk.Int(tst, "dim of node 1", b.Nodes[1].Grid.Dim, 0)
	chk.Ints(tst, "xmax", b.Nodes[0].Grid.FaceTags["xmax"], []int{2})
}

func Test_sim03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("sim03. invalid input")

	_, err := ReadSim("data/nonexistent.sim", "", false, false)
	require.Error(tst, err)

	var sim Simulation
	sim.SetDefault()
	sim.Bcs = []*BcData{{Tag: "xmin", Type: "robin"}}
	require.Error(tst, sim.PostProcess())

	sim.Bcs = []*BcData{{Tag: "xmin", Type: "dir", Func: "missing"}}
	require.Error(tst, sim.PostProcess())

	sim.Bcs = nil
	sim.Solver.Theta = 2
	require.Error(tst, sim.PostProcess())

	sim.Solver.Theta = 1
	sim.Materials = MatsData{{Name: "bad", Prms: dbf.Params{&dbf.P{N: "xyz", V: 1}}}}
	require.Error(tst, sim.PostProcess())

	_, err = (&MeshData{}).GetBucket(".")
	require.Error(tst, err)
}

func Test_func01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("func01. functions from database")

	fcns := FuncsData{
		{Name: "load", Type: "rmp", Prms: dbf.Params{
			&dbf.P{N: "ca", V: 0}, &dbf.P{N: "cb", V: 2}, &dbf.P{N: "ta", V: 0}, &dbf.P{N: "tb", V: 1},
		}},
		{Name: "badtype", Type: "nonexistent"},
		{Name: "badprm", Type: "cte", Prms: dbf.Params{&dbf.P{N: "a", V: 1}}},
	}
	f, err := fcns.Get("load")
	require.NoError(tst, err)
	chk.Float64(tst, "load(0.25)", 1e-15, f.F(0.25, nil), 0.5)
	chk.Float64(tst, "load(3)", 1e-15, f.F(3, nil), 2)

	// errors are returned instead of panics
	_, err = fcns.Get("badtype")
	require.Error(tst, err)
	_, err = fcns.Get("badprm")
	require.Error(tst, err)
}
